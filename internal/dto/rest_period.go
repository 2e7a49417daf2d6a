package dto

// ── rest periods ──

// RestPeriodListRequest filters; From/To select periods overlapping that range
type RestPeriodListRequest struct {
	PaginationRequest
	StaffID string `form:"staff_id" binding:"omitempty,uuid"`
	From    string `form:"from"     binding:"omitempty,isodate"`
	To      string `form:"to"       binding:"omitempty,isodate"`
}

// RestPeriodRequest create or replace a rest period
type RestPeriodRequest struct {
	StaffID   string `json:"staff_id"   binding:"required,uuid"`
	StartDate string `json:"start_date" binding:"required,isodate"`
	EndDate   string `json:"end_date"   binding:"required,isodate"`
	Category  string `json:"category"   binding:"required,oneof=vacation leave day_off training other"`
	Notes     string `json:"notes"      binding:"omitempty,max=2000"`
}

// RestPeriodResponse rest period row
type RestPeriodResponse struct {
	ID        string `json:"id"`
	StaffID   string `json:"staff_id"`
	StaffName string `json:"staff_name,omitempty"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Category  string `json:"category"`
	Notes     string `json:"notes,omitempty"`
}

// RestCheckRequest GET /rest-periods/check
type RestCheckRequest struct {
	StaffID string `form:"servidor_id" binding:"required,uuid"`
	Start   string `form:"inicio"      binding:"required,isodate"`
	End     string `form:"fim"         binding:"required,isodate"`
}

// RestCheckPeriod overlapping period with truncated notes
type RestCheckPeriod struct {
	Type      string `json:"type"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Notes     string `json:"notes,omitempty"`
}

// RestCheckResponse whether the staff member is blocked in the range
type RestCheckResponse struct {
	Blocked bool              `json:"blocked"`
	Periods []RestCheckPeriod `json:"periods"`
}
