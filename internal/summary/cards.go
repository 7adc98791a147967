package summary

import "lab-reception/internal/icons"

// SelectedSlot is the index of the card that mirrors the selection set.
const SelectedSlot = 3

// Card is one summary tile.
type Card struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Value int    `json:"value"`
	Icon  string `json:"icon"`
}

// Cards is the fixed four-slot layout used on every list page.
type Cards [4]Card

// WithSelected returns a copy of the cards with slot 4 set to n.
// The first three slots are left untouched.
func (c Cards) WithSelected(n int) Cards {
	c[SelectedSlot].Value = n
	return c
}

func card(key, label string, value int, icon icons.Token) Card {
	return Card{Key: key, Label: label, Value: value, Icon: icons.Class(icon)}
}

func selectedCard(label string, n int) Card {
	return card("selected", label, n, icons.CheckList)
}
