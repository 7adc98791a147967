package models

type AnalysisResult struct {
	AnalysisResultID    int     `json:"analysis_result_id"`
	SampleID            int     `json:"sample_id"`
	AnalysisParameterID int     `json:"analysis_parameter_id"`
	ParameterName       string  `json:"parameter_name,omitempty"`
	Unit                string  `json:"unit,omitempty"`
	ResultValue         any     `json:"result_value"`
	AnalysisDate        string  `json:"analysis_date"`
	Comments            *string `json:"comments,omitempty"`
	IsDeleted           Flag    `json:"is_deleted"`
}

type AnalysisResultInput struct {
	SampleID            int    `json:"sample_id"`
	AnalysisParameterID int    `json:"analysis_parameter_id"`
	ResultValue         string `json:"result_value"`
	AnalysisDate        string `json:"analysis_date"`
	Comments            string `json:"comments,omitempty"`
}

// FinalReport is the backend's final-report document for one sample.
type FinalReport struct {
	SampleID           int              `json:"sample_id"`
	SampleCode         string           `json:"sample_code"`
	CollectionDate     string           `json:"collection_date"`
	CollectionLocation string           `json:"collection_location"`
	SampleTypeName     string           `json:"sample_type_name"`
	Results            []AnalysisResult `json:"results"`
}
