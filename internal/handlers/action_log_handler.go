package handlers

import (
	"net/http"
	"strconv"

	"lab-reception/internal/repositories"
	"lab-reception/pkg/utils"

	"go.uber.org/zap"
)

type ActionLogHandler struct {
	Repo   *repositories.ActionLogRepository
	logger *zap.Logger
}

func NewActionLogHandler(repo *repositories.ActionLogRepository, logger *zap.Logger) *ActionLogHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ActionLogHandler{Repo: repo, logger: logger}
}

// ListActionLogs returns the newest console actions, ?target=samples&limit=50
func (h *ActionLogHandler) ListActionLogs(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	logs, err := h.Repo.ListActionLogs(r.Context(), r.URL.Query().Get("target"), limit)
	if err != nil {
		h.logger.Error("list action logs", zap.Error(err))
		utils.RespondError(w, http.StatusInternalServerError, "No se pudo obtener el registro de acciones")
		return
	}
	utils.JSON(w, http.StatusOK, logs)
}
