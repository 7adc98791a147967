package validate

import "lab-reception/internal/models"

const allFieldsMessage = "Por favor, complete todos los campos"

// Sample validates the create/edit sample form.
func Sample(in models.SampleInput) error {
	errs := Errors{}
	required(errs, "collection_date", in.CollectionDate, allFieldsMessage)
	required(errs, "collection_location", in.CollectionLocation, allFieldsMessage)
	if in.SampleTypeID <= 0 {
		errs.Add("sample_type_id", allFieldsMessage)
	}
	if in.ServiceRequestID <= 0 {
		errs.Add("service_request_id", allFieldsMessage)
	}
	return errs.Err()
}

// Result validates the analysis result form.
func Result(in models.AnalysisResultInput) error {
	errs := Errors{}
	if in.SampleID <= 0 {
		errs.Add("sample_id", "Seleccione una muestra.")
	}
	if in.AnalysisParameterID <= 0 {
		errs.Add("analysis_parameter_id", "Seleccione un parámetro.")
	}
	required(errs, "result_value", in.ResultValue, "El valor es obligatorio.")
	required(errs, "analysis_date", in.AnalysisDate, "La fecha de análisis es obligatoria.")
	return errs.Err()
}
