package handlers

import (
	"net/http"

	"lab-reception/internal/models"
	"lab-reception/internal/services"
	"lab-reception/pkg/utils"
)

type ResultHandler struct {
	Service *services.ResultService
}

func NewResultHandler(s *services.ResultService) *ResultHandler {
	return &ResultHandler{Service: s}
}

func (h *ResultHandler) ListResults(w http.ResponseWriter, r *http.Request) {
	view, err := h.Service.List(r.Context(), listQuery(r))
	if err != nil {
		writeError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, view)
}

func (h *ResultHandler) CreateResult(w http.ResponseWriter, r *http.Request) {
	var in models.AnalysisResultInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, err)
		return
	}
	created, view, err := h.Service.Create(r.Context(), in, listQuery(r))
	if err != nil {
		writeError(w, err)
		return
	}
	respondView(w, http.StatusCreated, "Resultado registrado correctamente", created, view)
}

func (h *ResultHandler) UpdateResult(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var in models.AnalysisResultInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, err)
		return
	}
	view, err := h.Service.Update(r.Context(), id, in, listQuery(r))
	if err != nil {
		writeError(w, err)
		return
	}
	respondView(w, http.StatusOK, "Resultado actualizado correctamente", nil, view)
}

func (h *ResultHandler) DeleteResult(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var body commentsBody
	if err := decodeBody(r, &body); err != nil {
		writeError(w, err)
		return
	}
	view, err := h.Service.Delete(r.Context(), id, body.Comments, listQuery(r))
	if err != nil {
		writeError(w, err)
		return
	}
	respondView(w, http.StatusOK, "Resultado eliminado correctamente", nil, view)
}

func (h *ResultHandler) RestoreResult(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	view, err := h.Service.Restore(r.Context(), id, listQuery(r))
	if err != nil {
		writeError(w, err)
		return
	}
	respondView(w, http.StatusOK, "Resultado restaurado correctamente", nil, view)
}
