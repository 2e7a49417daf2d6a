package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/dto"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/service"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/pkg/response"
)

// GoalHandler goals, delegations and progress
type GoalHandler struct {
	goalSvc service.GoalService
}

// NewGoalHandler creates a GoalHandler
func NewGoalHandler(goalSvc service.GoalService) *GoalHandler {
	return &GoalHandler{goalSvc: goalSvc}
}

// ListGoals GET /api/v1/goals
func (h *GoalHandler) ListGoals(c *gin.Context) {
	ac, ok := MustGetActing(c)
	if !ok {
		return
	}
	var req dto.GoalListRequest
	if !bindQuery(c, &req) {
		return
	}

	list, total, err := h.goalSvc.List(c.Request.Context(), ac, &req)
	if err != nil {
		h.handleGoalError(c, err)
		return
	}
	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// GetGoal GET /api/v1/goals/:id
func (h *GoalHandler) GetGoal(c *gin.Context) {
	ac, ok := MustGetActing(c)
	if !ok {
		return
	}
	goal, err := h.goalSvc.Get(c.Request.Context(), ac, c.Param("id"))
	if err != nil {
		h.handleGoalError(c, err)
		return
	}
	response.OK(c, goal)
}

// CreateGoal POST /api/v1/goals
func (h *GoalHandler) CreateGoal(c *gin.Context) {
	ac, ok := MustGetActing(c)
	if !ok {
		return
	}
	var req dto.CreateGoalRequest
	if !bindJSON(c, &req) {
		return
	}

	goal, err := h.goalSvc.Create(c.Request.Context(), ac, &req)
	if err != nil {
		h.handleGoalError(c, err)
		return
	}
	response.Created(c, goal)
}

// Allocate POST /api/v1/goals/:id/allocations
func (h *GoalHandler) Allocate(c *gin.Context) {
	ac, ok := MustGetActing(c)
	if !ok {
		return
	}
	var req dto.AllocateRequest
	if !bindJSON(c, &req) {
		return
	}

	alloc, err := h.goalSvc.Allocate(c.Request.Context(), ac, c.Param("id"), &req)
	if err != nil {
		h.handleGoalError(c, err)
		return
	}
	response.Created(c, alloc)
}

// AddProgress POST /api/v1/goals/allocations/:id/progress
func (h *GoalHandler) AddProgress(c *gin.Context) {
	ac, ok := MustGetActing(c)
	if !ok {
		return
	}
	var req dto.ProgressRequest
	if !bindJSON(c, &req) {
		return
	}

	entry, err := h.goalSvc.AddProgress(c.Request.Context(), ac, c.Param("id"), &req)
	if err != nil {
		h.handleGoalError(c, err)
		return
	}
	response.Created(c, entry)
}

// CloseGoal POST /api/v1/goals/:id/close
func (h *GoalHandler) CloseGoal(c *gin.Context) {
	ac, ok := MustGetActing(c)
	if !ok {
		return
	}
	goal, err := h.goalSvc.Close(c.Request.Context(), ac, c.Param("id"))
	if err != nil {
		h.handleGoalError(c, err)
		return
	}
	response.OK(c, goal)
}

// ReopenGoal POST /api/v1/goals/:id/reopen
func (h *GoalHandler) ReopenGoal(c *gin.Context) {
	ac, ok := MustGetActing(c)
	if !ok {
		return
	}
	goal, err := h.goalSvc.Reopen(c.Request.Context(), ac, c.Param("id"))
	if err != nil {
		h.handleGoalError(c, err)
		return
	}
	response.OK(c, goal)
}

func (h *GoalHandler) handleGoalError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrGoalNotFound):
		response.NotFound(c, 19001, "goal not found")
	case errors.Is(err, service.ErrAllocationNotFound):
		response.NotFound(c, 19002, "goal allocation not found")
	case errors.Is(err, service.ErrGoalClosed):
		response.Conflict(c, 19003, "goal is closed")
	default:
		handleCommonError(c, err)
	}
}
