package handlers

import (
	"net/http"

	"lab-reception/internal/models"
	"lab-reception/internal/services"
	"lab-reception/pkg/utils"
)

type ClientHandler struct {
	Service *services.ClientService
}

func NewClientHandler(s *services.ClientService) *ClientHandler {
	return &ClientHandler{Service: s}
}

func (h *ClientHandler) ListClients(w http.ResponseWriter, r *http.Request) {
	view, err := h.Service.List(r.Context(), listQuery(r))
	if err != nil {
		writeError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, view)
}

func (h *ClientHandler) GetClient(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	client, err := h.Service.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, client)
}

// CreateClient stores the address and then the client in one call.
func (h *ClientHandler) CreateClient(w http.ResponseWriter, r *http.Request) {
	var req models.CreateClientRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	created, view, err := h.Service.CreateWithAddress(r.Context(), req, listQuery(r))
	if err != nil {
		writeError(w, err)
		return
	}
	respondView(w, http.StatusCreated, "Cliente registrado correctamente", created, view)
}

func (h *ClientHandler) UpdateClient(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req services.UpdateClientRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	view, err := h.Service.Update(r.Context(), id, req, listQuery(r))
	if err != nil {
		writeError(w, err)
		return
	}
	respondView(w, http.StatusOK, "Cliente actualizado correctamente", nil, view)
}

func (h *ClientHandler) DeactivateClient(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	view, err := h.Service.Deactivate(r.Context(), id, listQuery(r))
	if err != nil {
		writeError(w, err)
		return
	}
	respondView(w, http.StatusOK, "Cliente desactivado correctamente", nil, view)
}

func (h *ClientHandler) RestoreClient(w http.ResponseWriter, r *http.Request) {
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
	respondView(w, http.StatusOK, "Cliente restaurado correctamente", nil, view)
}
