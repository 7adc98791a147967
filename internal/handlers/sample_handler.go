package handlers

import (
	"net/http"

	"lab-reception/internal/backend"
	"lab-reception/internal/models"
	"lab-reception/internal/services"
	"lab-reception/pkg/utils"

	"github.com/gorilla/mux"
)

type SampleHandler struct {
	Service   *services.SampleService
	Documents *services.DocumentService
	Results   *services.ResultService
}

func NewSampleHandler(s *services.SampleService, docs *services.DocumentService, results *services.ResultService) *SampleHandler {
	return &SampleHandler{Service: s, Documents: docs, Results: results}
}

type commentsBody struct {
	Comments string `json:"comments"`
}

func (h *SampleHandler) ListSamples(w http.ResponseWriter, r *http.Request) {
	view, err := h.Service.List(r.Context(), listQuery(r))
	if err != nil {
		writeError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, view)
}

func (h *SampleHandler) GetSample(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	sample, err := h.Service.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, sample)
}

func (h *SampleHandler) CreateSample(w http.ResponseWriter, r *http.Request) {
	var in models.SampleInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, err)
		return
	}
	created, view, err := h.Service.Create(r.Context(), in, listQuery(r))
	if err != nil {
		writeError(w, err)
		return
	}
	respondView(w, http.StatusCreated, "Muestra registrada correctamente", created, view)
}

func (h *SampleHandler) UpdateSample(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var in models.SampleInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, err)
		return
	}
	view, err := h.Service.Update(r.Context(), id, in, listQuery(r))
	if err != nil {
		writeError(w, err)
		return
	}
	respondView(w, http.StatusOK, "Muestra actualizada correctamente", nil, view)
}

func (h *SampleHandler) MarkAnalyzed(w http.ResponseWriter, r *http.Request) {
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
	view, err := h.Service.MarkAnalyzed(r.Context(), id, body.Comments, listQuery(r))
	if err != nil {
		writeError(w, err)
		return
	}
	respondView(w, http.StatusOK, "Muestra marcada como analizada", nil, view)
}

func (h *SampleHandler) ArchiveSample(w http.ResponseWriter, r *http.Request) {
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
	view, err := h.Service.Archive(r.Context(), id, body.Comments, listQuery(r))
	if err != nil {
		writeError(w, err)
		return
	}
	respondView(w, http.StatusOK, "Muestra archivada correctamente", nil, view)
}

func (h *SampleHandler) RestoreSample(w http.ResponseWriter, r *http.Request) {
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
	respondView(w, http.StatusOK, "Muestra restaurada correctamente", nil, view)
}

func (h *SampleHandler) History(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	history, err := h.Service.History(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, history)
}

func (h *SampleHandler) SampleResults(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	rows, err := h.Results.BySample(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, rows)
}

func documentKind(r *http.Request) (backend.DocumentKind, bool) {
	return backend.ParseDocumentKind(mux.Vars(r)["kind"])
}

// DownloadDocument streams a final-report or chain-of-custody PDF.
func (h *SampleHandler) DownloadDocument(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	kind, ok := documentKind(r)
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "Documento desconocido")
		return
	}
	doc, err := h.Documents.PDF(r.Context(), kind, id)
	if err != nil {
		writeError(w, err)
		return
	}
	if doc.ArchiveKey != "" {
		w.Header().Set("X-Archive-Key", doc.ArchiveKey)
	}
	utils.Attachment(w, "application/pdf", doc.Filename, doc.Data)
}

func (h *SampleHandler) DocumentData(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	kind, ok := documentKind(r)
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "Documento desconocido")
		return
	}
	data, err := h.Documents.Data(r.Context(), kind, id)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
