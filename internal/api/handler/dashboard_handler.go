package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/dto"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/service"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/pkg/response"
)

// DashboardHandler activity series and staff counters
type DashboardHandler struct {
	dashboardSvc service.DashboardService
}

// NewDashboardHandler creates a DashboardHandler
func NewDashboardHandler(dashboardSvc service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardSvc: dashboardSvc}
}

// Summary GET /api/v1/dashboard?from=...&to=...&bucket=week|month&scope=unit|subtree|all
func (h *DashboardHandler) Summary(c *gin.Context) {
	ac, ok := MustGetActing(c)
	if !ok {
		return
	}
	var req dto.DashboardRequest
	if !bindQuery(c, &req) {
		return
	}

	summary, err := h.dashboardSvc.Summary(c.Request.Context(), ac, &req)
	if err != nil {
		handleCommonError(c, err)
		return
	}
	response.OK(c, summary)
}
