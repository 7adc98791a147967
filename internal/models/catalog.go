package models

type SampleType struct {
	SampleTypeID int    `json:"sample_type_id"`
	TypeName     string `json:"type_name"`
}

type ServiceType struct {
	ServiceTypeID int     `json:"service_type_id"`
	ServiceName   string  `json:"service_name"`
	UnitPrice     float64 `json:"unit_price"`
	IsActive      *bool   `json:"is_active,omitempty"`
}

type SampleStatus struct {
	SampleStatusID int    `json:"sample_status_id"`
	StatusName     string `json:"status_name"`
}

type AnalysisParameter struct {
	AnalysisParameterID int    `json:"analysis_parameter_id"`
	ParameterName       string `json:"parameter_name"`
	Unit                string `json:"unit"`
}
