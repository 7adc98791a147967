package handlers

import (
	"net/http"

	"lab-reception/internal/models"
	"lab-reception/internal/services"
	"lab-reception/pkg/utils"
)

type RequestHandler struct {
	Service *services.RequestService
	Reports *services.ReportService
}

func NewRequestHandler(s *services.RequestService, reports *services.ReportService) *RequestHandler {
	return &RequestHandler{Service: s, Reports: reports}
}

type cancelBody struct {
	Reason string `json:"reason"`
}

func (h *RequestHandler) ListRequests(w http.ResponseWriter, r *http.Request) {
	view, err := h.Service.List(r.Context(), listQuery(r))
	if err != nil {
		writeError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, view)
}

func (h *RequestHandler) GetRequest(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	detail, err := h.Service.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, detail)
}

// Cart prices the browser's cart and applies one add or remove.
func (h *RequestHandler) Cart(w http.ResponseWriter, r *http.Request) {
	var op services.CartOperation
	if err := decodeBody(r, &op); err != nil {
		writeError(w, err)
		return
	}
	view, err := h.Service.Cart(r.Context(), op)
	if err != nil {
		writeError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, view)
}

func (h *RequestHandler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	var form services.CreateRequestForm
	if err := decodeBody(r, &form); err != nil {
		writeError(w, err)
		return
	}
	created, view, err := h.Service.Create(r.Context(), form, listQuery(r))
	if err != nil {
		writeError(w, err)
		return
	}
	respondView(w, http.StatusCreated, "Solicitud creada correctamente", created, view)
}

func (h *RequestHandler) UpdateRequest(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var in models.UpdateRequestInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, err)
		return
	}
	view, err := h.Service.Update(r.Context(), id, in, listQuery(r))
	if err != nil {
		writeError(w, err)
		return
	}
	respondView(w, http.StatusOK, "Solicitud actualizada correctamente", nil, view)
}

func (h *RequestHandler) CancelRequest(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var body cancelBody
	if err := decodeBody(r, &body); err != nil {
		writeError(w, err)
		return
	}
	view, err := h.Service.Cancel(r.Context(), id, body.Reason, listQuery(r))
	if err != nil {
		writeError(w, err)
		return
	}
	respondView(w, http.StatusOK, "Solicitud cancelada", nil, view)
}

func (h *RequestHandler) RestoreRequest(w http.ResponseWriter, r *http.Request) {
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
	respondView(w, http.StatusOK, "Solicitud restaurada correctamente", nil, view)
}

// ServiceOrder downloads the service order PDF of one request.
func (h *RequestHandler) ServiceOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	out, err := h.Reports.RequestOrder(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	utils.Attachment(w, out.ContentType, out.Filename, out.Data)
}
