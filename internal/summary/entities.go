package summary

import (
	"time"

	"lab-reception/internal/icons"
	"lab-reception/internal/lifecycle"
	"lab-reception/internal/models"
	"lab-reception/internal/timeutil"
)

// ClientCounts aggregates the customer list.
type ClientCounts struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Inactive int `json:"inactive"`
	Selected int `json:"selected"`
}

// Clients dedupes by customer_id and partitions by state.
func Clients(list []models.Customer, selected int) ClientCounts {
	unique := Dedupe(list, func(c models.Customer) int { return c.CustomerID })
	return ClientCounts{
		Total:    len(unique),
		Active:   Count(unique, func(c models.Customer) bool { return c.State == models.CustomerActive }),
		Inactive: Count(unique, func(c models.Customer) bool { return c.State == models.CustomerInactive }),
		Selected: selected,
	}
}

func (c ClientCounts) Cards() Cards {
	return Cards{
		card("total", "Total Clientes", c.Total, icons.Users),
		card("active", "Activos", c.Active, icons.Check),
		card("inactive", "Inactivos", c.Inactive, icons.PowerOff),
		selectedCard("Seleccionados", c.Selected),
	}
}

// RequestCounts aggregates service requests.
type RequestCounts struct {
	Total      int `json:"total"`
	Completed  int `json:"completed"`
	InProgress int `json:"in_progress"`
	Canceled   int `json:"canceled"`
	Selected   int `json:"selected"`
}

// Requests dedupes by service_request_id and partitions by status.
func Requests(list []models.ServiceRequest, selected int) RequestCounts {
	unique := Dedupe(list, func(r models.ServiceRequest) int { return r.ServiceRequestID })
	byStatus := func(s string) func(models.ServiceRequest) bool {
		return func(r models.ServiceRequest) bool { return r.Status == s }
	}
	return RequestCounts{
		Total:      len(unique),
		Completed:  Count(unique, byStatus(models.RequestCompleted)),
		InProgress: Count(unique, byStatus(models.RequestPending)),
		Canceled:   Count(unique, byStatus(models.RequestCanceled)),
		Selected:   selected,
	}
}

func (c RequestCounts) Cards() Cards {
	return Cards{
		card("total", "Total Solicitudes", c.Total, icons.CheckList),
		card("completed", "Completadas", c.Completed, icons.Check),
		card("in_progress", "En Proceso", c.InProgress, icons.Clock),
		selectedCard("Seleccionadas", c.Selected),
	}
}

// SampleCounts aggregates samples through the lifecycle classifier.
// Total excludes archived samples.
type SampleCounts struct {
	Total    int `json:"total"`
	Analyzed int `json:"analyzed"`
	Pending  int `json:"pending"`
	Archived int `json:"archived"`
	Selected int `json:"selected"`
}

func Samples(list []models.Sample, selected int) SampleCounts {
	unique := Dedupe(list, func(s models.Sample) int { return s.SampleID })
	out := SampleCounts{Selected: selected}
	for _, s := range unique {
		c := lifecycle.Classify(s.CurrentStatusID, s.IsDeleted.BoolPtr())
		if c.IsArchived {
			out.Archived++
			continue
		}
		out.Total++
		if c.IsAnalyzed {
			out.Analyzed++
		}
		if c.IsPending {
			out.Pending++
		}
	}
	return out
}

func (c SampleCounts) Cards() Cards {
	return Cards{
		card("total", "Total Muestras", c.Total, icons.Vial),
		card("analyzed", "Analizadas", c.Analyzed, icons.Check),
		card("pending", "Pendientes", c.Pending, icons.Clock),
		selectedCard("Seleccionadas", c.Selected),
	}
}

// ResultCounts aggregates analysis results. Deleted results only count
// towards Deleted.
type ResultCounts struct {
	Total           int `json:"total"`
	ThisMonth       int `json:"this_month"`
	AnalyzedSamples int `json:"analyzed_samples"`
	Deleted         int `json:"deleted"`
	Selected        int `json:"selected"`
}

// Results dedupes by analysis_result_id. ThisMonth counts results whose
// analysis_date falls in the same Lima month as now.
func Results(list []models.AnalysisResult, selected int, now time.Time) ResultCounts {
	unique := Dedupe(list, func(r models.AnalysisResult) int { return r.AnalysisResultID })
	out := ResultCounts{Selected: selected}
	samples := make(map[int]struct{})
	for _, r := range unique {
		if bool(r.IsDeleted) {
			out.Deleted++
			continue
		}
		out.Total++
		samples[r.SampleID] = struct{}{}
		if t, err := timeutil.ParseBackendDate(r.AnalysisDate); err == nil && timeutil.SameMonth(t, now) {
			out.ThisMonth++
		}
	}
	out.AnalyzedSamples = len(samples)
	return out
}

func (c ResultCounts) Cards() Cards {
	return Cards{
		card("total", "Total Resultados", c.Total, icons.Chart),
		card("this_month", "Este Mes", c.ThisMonth, icons.Calendar),
		card("analyzed_samples", "Muestras Analizadas", c.AnalyzedSamples, icons.Flask),
		selectedCard("Seleccionados", c.Selected),
	}
}
