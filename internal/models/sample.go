package models

// Sample is a physical sample as stored by the lab backend.
type Sample struct {
	SampleID           int     `json:"sample_id"`
	SampleCode         string  `json:"sample_code"`
	CollectionDate     string  `json:"collection_date"`
	CollectionLocation string  `json:"collection_location"`
	SampleTypeID       int     `json:"sample_type_id"`
	SampleTypeName     string  `json:"sample_type_name,omitempty"`
	CurrentStatusID    *int    `json:"current_status_id"`
	IsDeleted          *Flag   `json:"is_deleted,omitempty"`
	ServiceRequestID   *int    `json:"service_request_id,omitempty"`
	Notes              *string `json:"notes,omitempty"`
}

// SampleInput is the body sent to the backend on create and update.
type SampleInput struct {
	SampleCode         string `json:"sample_code,omitempty"`
	CollectionDate     string `json:"collection_date"`
	CollectionLocation string `json:"collection_location"`
	SampleTypeID       int    `json:"sample_type_id"`
	ServiceRequestID   int    `json:"service_request_id"`
}

// StatusChange is a single entry of a sample's traceability timeline.
type StatusChange struct {
	SampleStatusID int    `json:"sample_status_id"`
	CreatedDate    string `json:"created_date,omitempty"`
	ChangeDate     string `json:"change_date,omitempty"`
	Comments       string `json:"comments,omitempty"`
	UserID         *int   `json:"user_id,omitempty"`
}

// Date returns whichever timestamp the backend filled in.
func (c StatusChange) Date() string {
	if c.CreatedDate != "" {
		return c.CreatedDate
	}
	return c.ChangeDate
}

// StatusSummary is the backend's status-summary document for one sample.
type StatusSummary struct {
	Sample             *Sample        `json:"sample"`
	Traceability       []StatusChange `json:"traceability"`
	TotalStatusChanges int            `json:"total_status_changes"`
	GeneratedDate      string         `json:"generated_date"`
}
