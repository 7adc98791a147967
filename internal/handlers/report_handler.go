package handlers

import (
	"net/http"

	"lab-reception/internal/services"
	"lab-reception/pkg/utils"

	"github.com/gorilla/mux"
)

type ReportHandler struct {
	Service *services.ReportService
}

func NewReportHandler(s *services.ReportService) *ReportHandler {
	return &ReportHandler{Service: s}
}

// Export downloads a list as csv, xlsx or pdf. With ?selected= only the
// selected rows are exported, otherwise the filtered list.
func (h *ReportHandler) Export(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	out, err := h.Service.Export(r.Context(), vars["entity"], vars["format"], listQuery(r))
	if err != nil {
		writeError(w, err)
		return
	}
	utils.Attachment(w, out.ContentType, out.Filename, out.Data)
}

// SelectedSummary recomputes the selected card from the cards and selection
// the browser sends. The list is not reloaded.
func (h *ReportHandler) SelectedSummary(w http.ResponseWriter, r *http.Request) {
	var in services.SelectionInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, err)
		return
	}
	out, err := services.SelectedCards(mux.Vars(r)["entity"], in)
	if err != nil {
		writeError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, out)
}
