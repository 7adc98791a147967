package handlers

import (
	"net/http"

	"lab-reception/internal/models"
	"lab-reception/internal/services"
	"lab-reception/pkg/utils"

	"github.com/gorilla/mux"
)

type CatalogHandler struct {
	Service *services.CatalogService
}

func NewCatalogHandler(s *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{Service: s}
}

func (h *CatalogHandler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	list, err := h.Service.Get(r.Context(), mux.Vars(r)["kind"])
	if err != nil {
		writeError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, list)
}

// optionalID returns 0 on the collection route (create) and the path id otherwise.
func optionalID(r *http.Request) (int, error) {
	if _, ok := mux.Vars(r)["id"]; !ok {
		return 0, nil
	}
	return pathID(r)
}

func (h *CatalogHandler) SaveSampleType(w http.ResponseWriter, r *http.Request) {
	id, err := optionalID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var in models.SampleType
	if err := decodeBody(r, &in); err != nil {
		writeError(w, err)
		return
	}
	h.respond(w, id, func() (interface{}, error) { return h.Service.SaveSampleType(r.Context(), id, in) })
}

func (h *CatalogHandler) DeleteSampleType(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	h.respond(w, id, func() (interface{}, error) { return h.Service.DeleteSampleType(r.Context(), id) })
}

func (h *CatalogHandler) SaveServiceType(w http.ResponseWriter, r *http.Request) {
	id, err := optionalID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var in models.ServiceType
	if err := decodeBody(r, &in); err != nil {
		writeError(w, err)
		return
	}
	h.respond(w, id, func() (interface{}, error) { return h.Service.SaveServiceType(r.Context(), id, in) })
}

func (h *CatalogHandler) ActivateServiceType(w http.ResponseWriter, r *http.Request) {
	h.setServiceTypeActive(w, r, true)
}

func (h *CatalogHandler) DeactivateServiceType(w http.ResponseWriter, r *http.Request) {
	h.setServiceTypeActive(w, r, false)
}

func (h *CatalogHandler) setServiceTypeActive(w http.ResponseWriter, r *http.Request, active bool) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	h.respond(w, id, func() (interface{}, error) { return h.Service.SetServiceTypeActive(r.Context(), id, active) })
}

func (h *CatalogHandler) SaveAnalysisParameter(w http.ResponseWriter, r *http.Request) {
	id, err := optionalID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var in models.AnalysisParameter
	if err := decodeBody(r, &in); err != nil {
		writeError(w, err)
		return
	}
	h.respond(w, id, func() (interface{}, error) { return h.Service.SaveAnalysisParameter(r.Context(), id, in) })
}

func (h *CatalogHandler) DeleteAnalysisParameter(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	h.respond(w, id, func() (interface{}, error) { return h.Service.DeleteAnalysisParameter(r.Context(), id) })
}

// respond writes the reloaded catalog after a mutation.
func (h *CatalogHandler) respond(w http.ResponseWriter, id int, fn func() (interface{}, error)) {
	list, err := fn()
	if err != nil {
		writeError(w, err)
		return
	}
	status := http.StatusOK
	if id == 0 {
		status = http.StatusCreated
	}
	respondView(w, status, "", nil, list)
}
