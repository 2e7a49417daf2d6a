package dto

// ── staff ──

// StaffListRequest staff filters
type StaffListRequest struct {
	PaginationRequest
	Active  *bool  `form:"active"`
	Keyword string `form:"keyword" binding:"omitempty,max=50"`
}

// CreateStaffRequest new staff member in the acting unit
type CreateStaffRequest struct {
	Name         string `json:"name"         binding:"required,min=2,max=120"`
	Phone        string `json:"phone"        binding:"omitempty,max=30"`
	Registration string `json:"registration" binding:"omitempty,max=30"`
}

// UpdateStaffRequest partial update
type UpdateStaffRequest struct {
	Name         *string `json:"name"         binding:"omitempty,min=2,max=120"`
	Phone        *string `json:"phone"        binding:"omitempty,max=30"`
	Registration *string `json:"registration" binding:"omitempty,max=30"`
}

// StaffResponse staff row
type StaffResponse struct {
	ID           string `json:"id"`
	UnitID       string `json:"unit_id"`
	Name         string `json:"name"`
	Phone        string `json:"phone,omitempty"`
	Registration string `json:"registration,omitempty"`
	IsActive     bool   `json:"is_active"`
}

// ── vehicles ──

// VehicleListRequest vehicle filters
type VehicleListRequest struct {
	PaginationRequest
	Active *bool `form:"active"`
}

// CreateVehicleRequest new vehicle in the acting unit
type CreateVehicleRequest struct {
	Plate       string `json:"plate"       binding:"required,min=7,max=10"`
	Description string `json:"description" binding:"omitempty,max=120"`
}

// UpdateVehicleRequest partial update
type UpdateVehicleRequest struct {
	Plate       *string `json:"plate"       binding:"omitempty,min=7,max=10"`
	Description *string `json:"description" binding:"omitempty,max=120"`
}

// VehicleResponse vehicle row
type VehicleResponse struct {
	ID          string `json:"id"`
	UnitID      string `json:"unit_id"`
	Plate       string `json:"plate"`
	Description string `json:"description,omitempty"`
	IsActive    bool   `json:"is_active"`
}

// ── activities ──

// ActivityListRequest activity filters
type ActivityListRequest struct {
	PaginationRequest
	Active *bool `form:"active"`
}

// CreateActivityRequest new activity in the acting unit
type CreateActivityRequest struct {
	Name        string `json:"name"        binding:"required,min=2,max=120"`
	Description string `json:"description" binding:"omitempty,max=2000"`
}

// UpdateActivityRequest partial update
type UpdateActivityRequest struct {
	Name        *string `json:"name"        binding:"omitempty,min=2,max=120"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
}

// ActivityResponse activity row
type ActivityResponse struct {
	ID          string `json:"id"`
	UnitID      string `json:"unit_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	IsActive    bool   `json:"is_active"`
}
