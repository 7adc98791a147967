package lifecycle

import "fmt"

// StatusID is the sample status code stored by the lab backend in current_status_id.
type StatusID int

const (
	StatusRegistered   StatusID = 1
	StatusInReception  StatusID = 2
	StatusInAnalysis   StatusID = 3
	StatusAnalyzed     StatusID = 4
	StatusInReview     StatusID = 5
	StatusApproved     StatusID = 6
	StatusRejected     StatusID = 7
	StatusInCorrection StatusID = 8
	StatusCompleted    StatusID = 9
	StatusSent         StatusID = 10
	StatusDelivered    StatusID = 11
	StatusArchived     StatusID = 12
)

// DefaultStatus is assumed when a sample arrives without current_status_id.
const DefaultStatus = StatusRegistered

// AllStatuses lists the known codes in lifecycle order.
var AllStatuses = []StatusID{
	StatusRegistered, StatusInReception, StatusInAnalysis, StatusAnalyzed,
	StatusInReview, StatusApproved, StatusRejected, StatusInCorrection,
	StatusCompleted, StatusSent, StatusDelivered, StatusArchived,
}

// Label returns the display name of the status. Unknown codes render as "ESTADO {id}".
func (s StatusID) Label() string {
	switch s {
	case StatusRegistered:
		return "REGISTRADA"
	case StatusInReception:
		return "EN RECEPCIÓN"
	case StatusInAnalysis:
		return "EN ANÁLISIS"
	case StatusAnalyzed:
		return "ANALIZADA"
	case StatusInReview:
		return "EN REVISIÓN"
	case StatusApproved:
		return "APROBADA"
	case StatusRejected:
		return "RECHAZADA"
	case StatusInCorrection:
		return "EN CORRECCIÓN"
	case StatusCompleted:
		return "COMPLETADA"
	case StatusSent:
		return "ENVIADA"
	case StatusDelivered:
		return "ENTREGADA"
	case StatusArchived:
		return "ARCHIVADA"
	default:
		return fmt.Sprintf("ESTADO %d", int(s))
	}
}

// IsKnown reports whether the code is one of the twelve lifecycle states.
func (s StatusID) IsKnown() bool {
	return s >= StatusRegistered && s <= StatusArchived
}

// IsDone reports whether the status belongs to the analyzed set
// (ANALIZADA, APROBADA, COMPLETADA, ENTREGADA).
func (s StatusID) IsDone() bool {
	switch s {
	case StatusAnalyzed, StatusApproved, StatusCompleted, StatusDelivered:
		return true
	default:
		return false
	}
}

func (s StatusID) String() string {
	return s.Label()
}

// Resolve turns a nullable backend status into a StatusID, defaulting to REGISTRADA.
func Resolve(raw *int) StatusID {
	if raw == nil || *raw == 0 {
		return DefaultStatus
	}
	return StatusID(*raw)
}
