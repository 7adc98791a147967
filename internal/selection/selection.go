// Package selection tracks the multi-select checkboxes of a list view.
//
// The browser owns the selection. Each list response carries a fingerprint
// of the ids it contained; the browser echoes it back with its selection on
// the next load and the selection is dropped when the id set has changed.
package selection

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"
)

// Set is an unordered set of entity ids.
type Set struct {
	ids map[int]struct{}
}

func New(ids ...int) *Set {
	s := &Set{ids: make(map[int]struct{}, len(ids))}
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
	return s
}

func (s *Set) Add(id int)    { s.ids[id] = struct{}{} }
func (s *Set) Remove(id int) { delete(s.ids, id) }
func (s *Set) Len() int      { return len(s.ids) }

func (s *Set) Has(id int) bool {
	_, ok := s.ids[id]
	return ok
}

// Toggle sets membership of id to on.
func (s *Set) Toggle(id int, on bool) {
	if on {
		s.Add(id)
		return
	}
	s.Remove(id)
}

// IDs returns the members in ascending order.
func (s *Set) IDs() []int {
	out := make([]int, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}

// Fingerprint identifies a set of ids independent of order and duplicates.
func Fingerprint(ids []int) string {
	uniq := New(ids...).IDs()
	h := sha256.New()
	for _, id := range uniq {
		h.Write([]byte(strconv.Itoa(id)))
		h.Write([]byte{','})
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}

// Parse reads a comma separated id list, ignoring blanks and non-numeric parts.
func Parse(raw string) []int {
	var out []int
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if id, err := strconv.Atoi(part); err == nil {
			out = append(out, id)
		}
	}
	return out
}

// State is the reconciled selection returned with a list view.
type State struct {
	Selected    []int  `json:"selected"`
	Fingerprint string `json:"fingerprint"`
	Reset       bool   `json:"reset"`
}

// Reconcile checks a browser selection against the ids of the reloaded list.
// A selection made against a different id set is discarded. Otherwise ids no
// longer present are dropped.
func Reconcile(selected []int, seenFingerprint string, current []int) State {
	fp := Fingerprint(current)
	if seenFingerprint != "" && seenFingerprint != fp {
		return State{Selected: []int{}, Fingerprint: fp, Reset: len(selected) > 0}
	}
	present := New(current...)
	kept := New()
	for _, id := range selected {
		if present.Has(id) {
			kept.Add(id)
		}
	}
	return State{Selected: kept.IDs(), Fingerprint: fp}
}
