package handlers

import (
	"net/http"

	"lab-reception/internal/services"
	"lab-reception/pkg/utils"
)

type DashboardHandler struct {
	Service *services.DashboardService
}

func NewDashboardHandler(s *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{Service: s}
}

// GetDashboard always answers 200; lists that failed are named in "degraded".
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, h.Service.Load(r.Context()))
}
