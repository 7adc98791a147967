package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"lab-reception/internal/services"
	"lab-reception/pkg/utils"
)

type DocumentHandler struct {
	Service *services.DocumentService
}

func NewDocumentHandler(s *services.DocumentService) *DocumentHandler {
	return &DocumentHandler{Service: s}
}

type bulkBody struct {
	SampleIDs []int `json:"sample_ids"`
}

// BulkDownload packs the documents of several samples into one ZIP.
// Samples that failed are listed in X-Failed-Samples.
func (h *DocumentHandler) BulkDownload(w http.ResponseWriter, r *http.Request) {
	kind, ok := documentKind(r)
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "Documento desconocido")
		return
	}
	var body bulkBody
	if err := decodeBody(r, &body); err != nil {
		writeError(w, err)
		return
	}
	if len(body.SampleIDs) == 0 {
		utils.RespondError(w, http.StatusBadRequest, "Seleccione al menos una muestra")
		return
	}

	data, failed, err := h.Service.BulkZip(r.Context(), kind, body.SampleIDs)
	if err != nil {
		if len(failed) > 0 {
			utils.JSON(w, http.StatusBadGateway, map[string]interface{}{"error": err.Error(), "failed": failed})
			return
		}
		writeError(w, err)
		return
	}
	if len(failed) > 0 {
		ids := make([]string, len(failed))
		for i, id := range failed {
			ids[i] = strconv.Itoa(id)
		}
		w.Header().Set("X-Failed-Samples", strings.Join(ids, ","))
	}
	utils.Attachment(w, "application/zip", string(kind)+".zip", data)
}
