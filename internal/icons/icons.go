// Package icons is the single lookup from UI tokens to Font Awesome classes.
package icons

import "lab-reception/internal/lifecycle"

// Token identifies an icon independently of the CSS class that renders it.
type Token string

const (
	Users     Token = "users"
	Check     Token = "check"
	PowerOff  Token = "power-off"
	Clock     Token = "clock"
	Vial      Token = "vial"
	Flask     Token = "flask"
	Calendar  Token = "calendar"
	Archive   Token = "archive"
	Ban       Token = "ban"
	CheckList Token = "tasks"
	Chart     Token = "chart"
	Cart      Token = "cart"
	Unknown   Token = "unknown"
)

var registry = map[Token]string{
	Users:     "fa-users",
	Check:     "fa-check-circle",
	PowerOff:  "fa-power-off",
	Clock:     "fa-clock",
	Vial:      "fa-vial",
	Flask:     "fa-flask",
	Calendar:  "fa-calendar-alt",
	Archive:   "fa-archive",
	Ban:       "fa-ban",
	CheckList: "fa-check-square",
	Chart:     "fa-chart-bar",
	Cart:      "fa-shopping-cart",
	Unknown:   "fa-question-circle",
}

var actionIcons = map[lifecycle.Action]string{
	lifecycle.ActionView:         "fa-eye",
	lifecycle.ActionEdit:         "fa-edit",
	lifecycle.ActionMarkAnalyzed: "fa-check",
	lifecycle.ActionFinalReport:  "fa-file-alt",
	lifecycle.ActionHistory:      "fa-history",
	lifecycle.ActionDownloadPDF:  "fa-file-pdf",
	lifecycle.ActionDelete:       "fa-trash",
	lifecycle.ActionRestore:      "fa-undo",
}

// Class returns the CSS class for t, or the fallback icon for unregistered tokens.
func Class(t Token) string {
	if c, ok := registry[t]; ok {
		return c
	}
	return registry[Unknown]
}

// ForAction returns the CSS class shown on the button for a row action.
func ForAction(a lifecycle.Action) string {
	if c, ok := actionIcons[a]; ok {
		return c
	}
	return registry[Unknown]
}
