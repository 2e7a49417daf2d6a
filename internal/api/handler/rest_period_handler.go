package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/dto"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/service"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/pkg/response"
)

// RestPeriodHandler vacations, leaves and other staff absences
type RestPeriodHandler struct {
	restSvc service.RestPeriodService
}

// NewRestPeriodHandler creates a RestPeriodHandler
func NewRestPeriodHandler(restSvc service.RestPeriodService) *RestPeriodHandler {
	return &RestPeriodHandler{restSvc: restSvc}
}

// ListRestPeriods GET /api/v1/rest-periods
func (h *RestPeriodHandler) ListRestPeriods(c *gin.Context) {
	ac, ok := MustGetActing(c)
	if !ok {
		return
	}
	var req dto.RestPeriodListRequest
	if !bindQuery(c, &req) {
		return
	}

	list, total, err := h.restSvc.List(c.Request.Context(), ac, &req)
	if err != nil {
		h.handleRestError(c, err)
		return
	}
	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// CreateRestPeriod POST /api/v1/rest-periods
func (h *RestPeriodHandler) CreateRestPeriod(c *gin.Context) {
	ac, ok := MustGetActing(c)
	if !ok {
		return
	}
	var req dto.RestPeriodRequest
	if !bindJSON(c, &req) {
		return
	}

	rest, err := h.restSvc.Create(c.Request.Context(), ac, &req)
	if err != nil {
		h.handleRestError(c, err)
		return
	}
	response.Created(c, rest)
}

// UpdateRestPeriod PUT /api/v1/rest-periods/:id
func (h *RestPeriodHandler) UpdateRestPeriod(c *gin.Context) {
	ac, ok := MustGetActing(c)
	if !ok {
		return
	}
	var req dto.RestPeriodRequest
	if !bindJSON(c, &req) {
		return
	}

	rest, err := h.restSvc.Update(c.Request.Context(), ac, c.Param("id"), &req)
	if err != nil {
		h.handleRestError(c, err)
		return
	}
	response.OK(c, rest)
}

// DeleteRestPeriod DELETE /api/v1/rest-periods/:id
func (h *RestPeriodHandler) DeleteRestPeriod(c *gin.Context) {
	ac, ok := MustGetActing(c)
	if !ok {
		return
	}
	if err := h.restSvc.Delete(c.Request.Context(), ac, c.Param("id")); err != nil {
		h.handleRestError(c, err)
		return
	}
	response.OK(c, nil)
}

// CheckRestPeriods reports staff on rest inside a date range
// GET /api/v1/rest-periods/check?servidor_id=...&inicio=...&fim=...
func (h *RestPeriodHandler) CheckRestPeriods(c *gin.Context) {
	ac, ok := MustGetActing(c)
	if !ok {
		return
	}
	var req dto.RestCheckRequest
	if !bindQuery(c, &req) {
		return
	}

	result, err := h.restSvc.Check(c.Request.Context(), ac, &req)
	if err != nil {
		h.handleRestError(c, err)
		return
	}
	response.OK(c, result)
}

func (h *RestPeriodHandler) handleRestError(c *gin.Context, err error) {
	var overlap *service.RestOverlapError
	switch {
	case errors.As(err, &overlap):
		response.ErrorWithData(c, http.StatusConflict, 16002, overlap.Error(), overlap)
	case errors.Is(err, service.ErrRestPeriodNotFound):
		response.NotFound(c, 16001, "rest period not found")
	default:
		handleCommonError(c, err)
	}
}
