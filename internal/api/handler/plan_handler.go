package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/dto"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/service"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/pkg/response"
)

// PlanHandler daily activity plans
type PlanHandler struct {
	planSvc service.PlanService
}

// NewPlanHandler creates a PlanHandler
func NewPlanHandler(planSvc service.PlanService) *PlanHandler {
	return &PlanHandler{planSvc: planSvc}
}

// ListPlans GET /api/v1/plans
func (h *PlanHandler) ListPlans(c *gin.Context) {
	ac, ok := MustGetActing(c)
	if !ok {
		return
	}
	var req dto.PlanListRequest
	if !bindQuery(c, &req) {
		return
	}

	list, total, err := h.planSvc.List(c.Request.Context(), ac, &req)
	if err != nil {
		h.handlePlanError(c, err)
		return
	}
	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// GetPlan GET /api/v1/plans/:id
func (h *PlanHandler) GetPlan(c *gin.Context) {
	ac, ok := MustGetActing(c)
	if !ok {
		return
	}
	plan, err := h.planSvc.Get(c.Request.Context(), ac, c.Param("id"))
	if err != nil {
		h.handlePlanError(c, err)
		return
	}
	response.OK(c, plan)
}

// CreatePlan POST /api/v1/plans
func (h *PlanHandler) CreatePlan(c *gin.Context) {
	ac, ok := MustGetActing(c)
	if !ok {
		return
	}
	var req dto.CreatePlanRequest
	if !bindJSON(c, &req) {
		return
	}

	plan, err := h.planSvc.Create(c.Request.Context(), ac, &req)
	if err != nil {
		h.handlePlanError(c, err)
		return
	}
	response.Created(c, plan)
}

// UpdatePlanStatus PUT /api/v1/plans/:id/status
func (h *PlanHandler) UpdatePlanStatus(c *gin.Context) {
	ac, ok := MustGetActing(c)
	if !ok {
		return
	}
	var req dto.UpdatePlanStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	plan, err := h.planSvc.UpdateStatus(c.Request.Context(), ac, c.Param("id"), &req)
	if err != nil {
		h.handlePlanError(c, err)
		return
	}
	response.OK(c, plan)
}

// DeletePlan DELETE /api/v1/plans/:id
func (h *PlanHandler) DeletePlan(c *gin.Context) {
	ac, ok := MustGetActing(c)
	if !ok {
		return
	}
	if err := h.planSvc.Delete(c.Request.Context(), ac, c.Param("id")); err != nil {
		h.handlePlanError(c, err)
		return
	}
	response.OK(c, nil)
}

func (h *PlanHandler) handlePlanError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrPlanNotFound) {
		response.NotFound(c, 20001, "activity plan not found")
		return
	}
	handleCommonError(c, err)
}
