package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/dto"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/service"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/pkg/response"
)

// ────────────────────── staff ──────────────────────

// StaffHandler staff members of the acting unit
type StaffHandler struct {
	staffSvc service.StaffService
}

// NewStaffHandler creates a StaffHandler
func NewStaffHandler(staffSvc service.StaffService) *StaffHandler {
	return &StaffHandler{staffSvc: staffSvc}
}

// ListStaff GET /api/v1/staff
func (h *StaffHandler) ListStaff(c *gin.Context) {
	ac, ok := MustGetActing(c)
	if !ok {
		return
	}
	var req dto.StaffListRequest
	if !bindQuery(c, &req) {
		return
	}

	list, total, err := h.staffSvc.List(c.Request.Context(), ac, &req)
	if err != nil {
		h.handleStaffError(c, err)
		return
	}
	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// GetStaff GET /api/v1/staff/:id
func (h *StaffHandler) GetStaff(c *gin.Context) {
	ac, ok := MustGetActing(c)
	if !ok {
		return
	}
	staff, err := h.staffSvc.Get(c.Request.Context(), ac, c.Param("id"))
	if err != nil {
		h.handleStaffError(c, err)
		return
	}
	response.OK(c, staff)
}

// CreateStaff POST /api/v1/staff
func (h *StaffHandler) CreateStaff(c *gin.Context) {
	ac, ok := MustGetActing(c)
	if !ok {
		return
	}
	var req dto.CreateStaffRequest
	if !bindJSON(c, &req) {
		return
	}

	staff, err := h.staffSvc.Create(c.Request.Context(), ac, &req)
	if err != nil {
		h.handleStaffError(c, err)
		return
	}
	response.Created(c, staff)
}

// UpdateStaff PUT /api/v1/staff/:id
func (h *StaffHandler) UpdateStaff(c *gin.Context) {
	ac, ok := MustGetActing(c)
	if !ok {
		return
	}
	var req dto.UpdateStaffRequest
	if !bindJSON(c, &req) {
		return
	}

	staff, err := h.staffSvc.Update(c.Request.Context(), ac, c.Param("id"), &req)
	if err != nil {
		h.handleStaffError(c, err)
		return
	}
	response.OK(c, staff)
}

// ToggleStaff POST /api/v1/staff/:id/toggle-active
func (h *StaffHandler) ToggleStaff(c *gin.Context) {
	ac, ok := MustGetActing(c)
	if !ok {
		return
	}
	staff, err := h.staffSvc.ToggleActive(c.Request.Context(), ac, c.Param("id"))
	if err != nil {
		h.handleStaffError(c, err)
		return
	}
	response.OK(c, staff)
}

func (h *StaffHandler) handleStaffError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrStaffNotFound) {
		response.NotFound(c, 14001, "staff member not found")
		return
	}
	handleCommonError(c, err)
}

// ────────────────────── vehicles ──────────────────────

// VehicleHandler vehicles of the acting unit
type VehicleHandler struct {
	vehicleSvc service.VehicleService
}

// NewVehicleHandler creates a VehicleHandler
func NewVehicleHandler(vehicleSvc service.VehicleService) *VehicleHandler {
	return &VehicleHandler{vehicleSvc: vehicleSvc}
}

// ListVehicles GET /api/v1/vehicles
func (h *VehicleHandler) ListVehicles(c *gin.Context) {
	ac, ok := MustGetActing(c)
	if !ok {
		return
	}
	var req dto.VehicleListRequest
	if !bindQuery(c, &req) {
		return
	}

	list, total, err := h.vehicleSvc.List(c.Request.Context(), ac, &req)
	if err != nil {
		h.handleVehicleError(c, err)
		return
	}
	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// GetVehicle GET /api/v1/vehicles/:id
func (h *VehicleHandler) GetVehicle(c *gin.Context) {
	ac, ok := MustGetActing(c)
	if !ok {
		return
	}
	vehicle, err := h.vehicleSvc.Get(c.Request.Context(), ac, c.Param("id"))
	if err != nil {
		h.handleVehicleError(c, err)
		return
	}
	response.OK(c, vehicle)
}

// CreateVehicle POST /api/v1/vehicles
func (h *VehicleHandler) CreateVehicle(c *gin.Context) {
	ac, ok := MustGetActing(c)
	if !ok {
		return
	}
	var req dto.CreateVehicleRequest
	if !bindJSON(c, &req) {
		return
	}

	vehicle, err := h.vehicleSvc.Create(c.Request.Context(), ac, &req)
	if err != nil {
		h.handleVehicleError(c, err)
		return
	}
	response.Created(c, vehicle)
}

// UpdateVehicle PUT /api/v1/vehicles/:id
func (h *VehicleHandler) UpdateVehicle(c *gin.Context) {
	ac, ok := MustGetActing(c)
	if !ok {
		return
	}
	var req dto.UpdateVehicleRequest
	if !bindJSON(c, &req) {
		return
	}

	vehicle, err := h.vehicleSvc.Update(c.Request.Context(), ac, c.Param("id"), &req)
	if err != nil {
		h.handleVehicleError(c, err)
		return
	}
	response.OK(c, vehicle)
}

// ToggleVehicle POST /api/v1/vehicles/:id/toggle-active
func (h *VehicleHandler) ToggleVehicle(c *gin.Context) {
	ac, ok := MustGetActing(c)
	if !ok {
		return
	}
	vehicle, err := h.vehicleSvc.ToggleActive(c.Request.Context(), ac, c.Param("id"))
	if err != nil {
		h.handleVehicleError(c, err)
		return
	}
	response.OK(c, vehicle)
}

func (h *VehicleHandler) handleVehicleError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrVehicleNotFound) {
		response.NotFound(c, 15001, "vehicle not found")
		return
	}
	handleCommonError(c, err)
}

// ────────────────────── activities ──────────────────────

// ActivityHandler activity catalog of the acting unit
type ActivityHandler struct {
	activitySvc service.ActivityService
}

// NewActivityHandler creates an ActivityHandler
func NewActivityHandler(activitySvc service.ActivityService) *ActivityHandler {
	return &ActivityHandler{activitySvc: activitySvc}
}

// ListActivities GET /api/v1/activities
func (h *ActivityHandler) ListActivities(c *gin.Context) {
	ac, ok := MustGetActing(c)
	if !ok {
		return
	}
	var req dto.ActivityListRequest
	if !bindQuery(c, &req) {
		return
	}

	list, total, err := h.activitySvc.List(c.Request.Context(), ac, &req)
	if err != nil {
		h.handleActivityError(c, err)
		return
	}
	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// GetActivity GET /api/v1/activities/:id
func (h *ActivityHandler) GetActivity(c *gin.Context) {
	ac, ok := MustGetActing(c)
	if !ok {
		return
	}
	activity, err := h.activitySvc.Get(c.Request.Context(), ac, c.Param("id"))
	if err != nil {
		h.handleActivityError(c, err)
		return
	}
	response.OK(c, activity)
}

// CreateActivity POST /api/v1/activities
func (h *ActivityHandler) CreateActivity(c *gin.Context) {
	ac, ok := MustGetActing(c)
	if !ok {
		return
	}
	var req dto.CreateActivityRequest
	if !bindJSON(c, &req) {
		return
	}

	activity, err := h.activitySvc.Create(c.Request.Context(), ac, &req)
	if err != nil {
		h.handleActivityError(c, err)
		return
	}
	response.Created(c, activity)
}

// UpdateActivity PUT /api/v1/activities/:id
func (h *ActivityHandler) UpdateActivity(c *gin.Context) {
	ac, ok := MustGetActing(c)
	if !ok {
		return
	}
	var req dto.UpdateActivityRequest
	if !bindJSON(c, &req) {
		return
	}

	activity, err := h.activitySvc.Update(c.Request.Context(), ac, c.Param("id"), &req)
	if err != nil {
		h.handleActivityError(c, err)
		return
	}
	response.OK(c, activity)
}

// ToggleActivity POST /api/v1/activities/:id/toggle-active
func (h *ActivityHandler) ToggleActivity(c *gin.Context) {
	ac, ok := MustGetActing(c)
	if !ok {
		return
	}
	activity, err := h.activitySvc.ToggleActive(c.Request.Context(), ac, c.Param("id"))
	if err != nil {
		h.handleActivityError(c, err)
		return
	}
	response.OK(c, activity)
}

func (h *ActivityHandler) handleActivityError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrActivityNotFound) {
		response.NotFound(c, 18001, "activity not found")
		return
	}
	handleCommonError(c, err)
}
