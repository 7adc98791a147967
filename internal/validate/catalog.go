package validate

import "lab-reception/internal/models"

func SampleType(in models.SampleType) error {
	errs := Errors{}
	required(errs, "type_name", in.TypeName, "El nombre del tipo de muestra es obligatorio.")
	return errs.Err()
}

func ServiceType(in models.ServiceType) error {
	errs := Errors{}
	required(errs, "service_name", in.ServiceName, "El nombre del servicio es obligatorio.")
	if in.UnitPrice < 0 {
		errs.Add("unit_price", "El precio no puede ser negativo.")
	}
	return errs.Err()
}

func AnalysisParameter(in models.AnalysisParameter) error {
	errs := Errors{}
	required(errs, "parameter_name", in.ParameterName, "El nombre del parámetro es obligatorio.")
	required(errs, "unit", in.Unit, "La unidad es obligatoria.")
	return errs.Err()
}
