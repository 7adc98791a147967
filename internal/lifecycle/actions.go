package lifecycle

// Action is a UI operation that can be offered on a sample row or card.
type Action string

const (
	ActionView         Action = "view"
	ActionEdit         Action = "edit"
	ActionMarkAnalyzed Action = "mark_analyzed"
	ActionFinalReport  Action = "final_report"
	ActionHistory      Action = "history"
	ActionDownloadPDF  Action = "download_pdf"
	ActionDelete       Action = "delete"
	ActionRestore      Action = "restore"
)

var (
	archivedActions = []Action{ActionRestore}

	pendingActions = []Action{
		ActionView, ActionEdit, ActionMarkAnalyzed, ActionFinalReport,
		ActionHistory, ActionDownloadPDF, ActionDelete,
	}

	analyzedActions = []Action{
		ActionView, ActionEdit, ActionFinalReport,
		ActionHistory, ActionDownloadPDF, ActionDelete,
	}
)

// ActionsFor returns a fresh slice with the actions allowed for c, in display order.
func ActionsFor(c Classification) []Action {
	var src []Action
	switch {
	case c.IsArchived:
		src = archivedActions
	case c.IsAnalyzed:
		src = analyzedActions
	default:
		src = pendingActions
	}
	out := make([]Action, len(src))
	copy(out, src)
	return out
}
