package http

import (
	"net/http"

	"lab-reception/internal/handlers"
	"lab-reception/internal/middleware"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers groups every handler the router mounts. ActionLogs is nil when
// the audit database is disabled.
type Handlers struct {
	Samples    *handlers.SampleHandler
	Clients    *handlers.ClientHandler
	Requests   *handlers.RequestHandler
	Results    *handlers.ResultHandler
	Catalog    *handlers.CatalogHandler
	Dashboard  *handlers.DashboardHandler
	Reports    *handlers.ReportHandler
	Documents  *handlers.DocumentHandler
	ActionLogs *handlers.ActionLogHandler
	Health     *handlers.HealthHandler
}

func NewRouter(h Handlers) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.MetricsMiddleware)

	// Monitoring endpoints
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")
	r.HandleFunc("/health", h.Health.BasicHealth).Methods("GET")
	r.HandleFunc("/health/ready", h.Health.ReadinessHealth).Methods("GET")
	r.HandleFunc("/health/detailed", h.Health.DetailedHealth).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()

	// Samples
	samplesAPI := api.PathPrefix("/samples").Subrouter()
	samplesAPI.HandleFunc("", h.Samples.ListSamples).Methods("GET")
	samplesAPI.HandleFunc("", h.Samples.CreateSample).Methods("POST")
	samplesAPI.HandleFunc("/{id}", h.Samples.GetSample).Methods("GET")
	samplesAPI.HandleFunc("/{id}", h.Samples.UpdateSample).Methods("PUT")
	samplesAPI.HandleFunc("/{id}", h.Samples.ArchiveSample).Methods("DELETE")
	samplesAPI.HandleFunc("/{id}/analyzed", h.Samples.MarkAnalyzed).Methods("POST")
	samplesAPI.HandleFunc("/{id}/restore", h.Samples.RestoreSample).Methods("POST")
	samplesAPI.HandleFunc("/{id}/history", h.Samples.History).Methods("GET")
	samplesAPI.HandleFunc("/{id}/results", h.Samples.SampleResults).Methods("GET")
	samplesAPI.HandleFunc("/{id}/documents/{kind}", h.Samples.DownloadDocument).Methods("GET")
	samplesAPI.HandleFunc("/{id}/documents/{kind}/data", h.Samples.DocumentData).Methods("GET")

	// Bulk documents
	api.HandleFunc("/documents/{kind}/bulk", h.Documents.BulkDownload).Methods("POST")

	// Clients
	clientsAPI := api.PathPrefix("/clients").Subrouter()
	clientsAPI.HandleFunc("", h.Clients.ListClients).Methods("GET")
	clientsAPI.HandleFunc("", h.Clients.CreateClient).Methods("POST")
	clientsAPI.HandleFunc("/{id}", h.Clients.GetClient).Methods("GET")
	clientsAPI.HandleFunc("/{id}", h.Clients.UpdateClient).Methods("PUT")
	clientsAPI.HandleFunc("/{id}", h.Clients.DeactivateClient).Methods("DELETE")
	clientsAPI.HandleFunc("/{id}/restore", h.Clients.RestoreClient).Methods("POST")

	// Service requests
	requestsAPI := api.PathPrefix("/requests").Subrouter()
	requestsAPI.HandleFunc("", h.Requests.ListRequests).Methods("GET")
	requestsAPI.HandleFunc("", h.Requests.CreateRequest).Methods("POST")
	requestsAPI.HandleFunc("/cart", h.Requests.Cart).Methods("POST")
	requestsAPI.HandleFunc("/{id}", h.Requests.GetRequest).Methods("GET")
	requestsAPI.HandleFunc("/{id}", h.Requests.UpdateRequest).Methods("PUT")
	requestsAPI.HandleFunc("/{id}/cancel", h.Requests.CancelRequest).Methods("POST")
	requestsAPI.HandleFunc("/{id}/restore", h.Requests.RestoreRequest).Methods("POST")
	requestsAPI.HandleFunc("/{id}/order", h.Requests.ServiceOrder).Methods("GET")

	// Analysis results
	resultsAPI := api.PathPrefix("/results").Subrouter()
	resultsAPI.HandleFunc("", h.Results.ListResults).Methods("GET")
	resultsAPI.HandleFunc("", h.Results.CreateResult).Methods("POST")
	resultsAPI.HandleFunc("/{id}", h.Results.UpdateResult).Methods("PUT")
	resultsAPI.HandleFunc("/{id}", h.Results.DeleteResult).Methods("DELETE")
	resultsAPI.HandleFunc("/{id}/restore", h.Results.RestoreResult).Methods("POST")

	// Reference catalogs
	catalogAPI := api.PathPrefix("/catalog").Subrouter()
	catalogAPI.HandleFunc("/sample-types", h.Catalog.SaveSampleType).Methods("POST")
	catalogAPI.HandleFunc("/sample-types/{id}", h.Catalog.SaveSampleType).Methods("PUT")
	catalogAPI.HandleFunc("/sample-types/{id}", h.Catalog.DeleteSampleType).Methods("DELETE")
	catalogAPI.HandleFunc("/service-types", h.Catalog.SaveServiceType).Methods("POST")
	catalogAPI.HandleFunc("/service-types/{id}", h.Catalog.SaveServiceType).Methods("PUT")
	catalogAPI.HandleFunc("/service-types/{id}/activate", h.Catalog.ActivateServiceType).Methods("POST")
	catalogAPI.HandleFunc("/service-types/{id}/deactivate", h.Catalog.DeactivateServiceType).Methods("POST")
	catalogAPI.HandleFunc("/analysis-parameters", h.Catalog.SaveAnalysisParameter).Methods("POST")
	catalogAPI.HandleFunc("/analysis-parameters/{id}", h.Catalog.SaveAnalysisParameter).Methods("PUT")
	catalogAPI.HandleFunc("/analysis-parameters/{id}", h.Catalog.DeleteAnalysisParameter).Methods("DELETE")
	catalogAPI.HandleFunc("/{kind}", h.Catalog.GetCatalog).Methods("GET")

	// Dashboard, exports and summaries
	api.HandleFunc("/dashboard", h.Dashboard.GetDashboard).Methods("GET")
	api.HandleFunc("/reports/{entity}/{format}", h.Reports.Export).Methods("GET")
	api.HandleFunc("/summary/{entity}/selected", h.Reports.SelectedSummary).Methods("POST")

	if h.ActionLogs != nil {
		api.HandleFunc("/action-logs", h.ActionLogs.ListActionLogs).Methods("GET")
	}

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"Ruta no encontrada"}`))
	})

	return r
}
