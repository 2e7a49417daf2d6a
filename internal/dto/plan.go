package dto

// ── activity plans ──

// PlanListRequest plans on or between dates
type PlanListRequest struct {
	PaginationRequest
	From   string `form:"from"   binding:"omitempty,isodate"`
	To     string `form:"to"     binding:"omitempty,isodate"`
	Status string `form:"status" binding:"omitempty,oneof=planned completed cancelled"`
}

// PlanItemRequest one activity with its staff
type PlanItemRequest struct {
	ActivityID string   `json:"activity_id" binding:"required,uuid"`
	GoalID     *string  `json:"goal_id"     binding:"omitempty,uuid"`
	StaffIDs   []string `json:"staff_ids"   binding:"required,min=1,dive,uuid"`
}

// CreatePlanRequest a day's field work for the acting unit
type CreatePlanRequest struct {
	PlanDate  string            `json:"plan_date"  binding:"required,isodate"`
	VehicleID *string           `json:"vehicle_id" binding:"omitempty,uuid"`
	Note      string            `json:"note"       binding:"omitempty,max=500"`
	Items     []PlanItemRequest `json:"items"      binding:"required,min=1,dive"`
}

// UpdatePlanStatusRequest mark a plan done or cancelled
type UpdatePlanStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=planned completed cancelled"`
}

// PlanItemResponse plan item with activity and staff
type PlanItemResponse struct {
	ID           string       `json:"id"`
	Position     int          `json:"position"`
	ActivityID   string       `json:"activity_id"`
	ActivityName string       `json:"activity_name,omitempty"`
	GoalID       *string      `json:"goal_id,omitempty"`
	Staff        []StaffBrief `json:"staff"`
}

// PlanResponse plan row with items
type PlanResponse struct {
	ID       string             `json:"id"`
	UnitID   string             `json:"unit_id"`
	PlanDate string             `json:"plan_date"`
	Vehicle  *VehicleResponse   `json:"vehicle,omitempty"`
	Note     string             `json:"note,omitempty"`
	Status   string             `json:"status"`
	DoneAt   string             `json:"done_at,omitempty"`
	Items    []PlanItemResponse `json:"items,omitempty"`
}
