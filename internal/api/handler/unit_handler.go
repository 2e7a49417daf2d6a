package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/dto"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/service"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/pkg/response"
)

// UnitHandler organizational unit tree
type UnitHandler struct {
	unitSvc service.UnitService
}

// NewUnitHandler creates a UnitHandler
func NewUnitHandler(unitSvc service.UnitService) *UnitHandler {
	return &UnitHandler{unitSvc: unitSvc}
}

// ListUnits GET /api/v1/units
func (h *UnitHandler) ListUnits(c *gin.Context) {
	ac, ok := MustGetActing(c)
	if !ok {
		return
	}

	units, err := h.unitSvc.List(c.Request.Context(), ac)
	if err != nil {
		h.handleUnitError(c, err)
		return
	}

	response.OK(c, gin.H{"list": units})
}

// GetUnit GET /api/v1/units/:id
func (h *UnitHandler) GetUnit(c *gin.Context) {
	ac, ok := MustGetActing(c)
	if !ok {
		return
	}

	unit, err := h.unitSvc.Get(c.Request.Context(), ac, c.Param("id"))
	if err != nil {
		h.handleUnitError(c, err)
		return
	}

	response.OK(c, unit)
}

// CreateUnit POST /api/v1/units
func (h *UnitHandler) CreateUnit(c *gin.Context) {
	ac, ok := MustGetActing(c)
	if !ok {
		return
	}
	var req dto.CreateUnitRequest
	if !bindJSON(c, &req) {
		return
	}

	unit, err := h.unitSvc.Create(c.Request.Context(), ac, &req)
	if err != nil {
		h.handleUnitError(c, err)
		return
	}

	response.Created(c, unit)
}

// UpdateUnit PUT /api/v1/units/:id
func (h *UnitHandler) UpdateUnit(c *gin.Context) {
	ac, ok := MustGetActing(c)
	if !ok {
		return
	}
	var req dto.UpdateUnitRequest
	if !bindJSON(c, &req) {
		return
	}

	unit, err := h.unitSvc.Update(c.Request.Context(), ac, c.Param("id"), &req)
	if err != nil {
		h.handleUnitError(c, err)
		return
	}

	response.OK(c, unit)
}

// DeleteUnit DELETE /api/v1/units/:id
func (h *UnitHandler) DeleteUnit(c *gin.Context) {
	ac, ok := MustGetActing(c)
	if !ok {
		return
	}

	if err := h.unitSvc.Delete(c.Request.Context(), ac, c.Param("id")); err != nil {
		h.handleUnitError(c, err)
		return
	}

	response.OK(c, nil)
}

func (h *UnitHandler) handleUnitError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUnitNotFound):
		response.NotFound(c, 13001, "unit not found")
	case errors.Is(err, service.ErrUnitCycle):
		response.BadRequest(c, 13002, "a unit cannot be moved under itself or one of its descendants")
	default:
		handleCommonError(c, err)
	}
}
