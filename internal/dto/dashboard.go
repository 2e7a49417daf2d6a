package dto

import "github.com/shopspring/decimal"

// ── dashboard ──

// DashboardRequest GET /dashboard
type DashboardRequest struct {
	From   string `form:"from"   binding:"required,isodate"`
	To     string `form:"to"     binding:"required,isodate"`
	Bucket string `form:"bucket" binding:"omitempty,oneof=week month"`
	Scope  string `form:"scope"  binding:"omitempty,oneof=unit subtree all"`
}

// DashboardPoint one bucket of the series; every bucket of the window is present
type DashboardPoint struct {
	Start        string          `json:"start"`
	End          string          `json:"end"`
	GoalsCreated int64           `json:"goals_created"`
	Progress     decimal.Decimal `json:"progress"`
	CoverageDays int64           `json:"coverage_days"`
	VehicleUsage int64           `json:"vehicle_usage"`
}

// StaffActivity plan participation of one staff member over the window
type StaffActivity struct {
	StaffID string `json:"staff_id"`
	Name    string `json:"name"`
	Plans   int64  `json:"plans"`
}

// DashboardResponse aggregated metrics
type DashboardResponse struct {
	From   string           `json:"from"`
	To     string           `json:"to"`
	Bucket string           `json:"bucket"`
	Scope  string           `json:"scope"`
	Series []DashboardPoint `json:"series"`
	Staff  []StaffActivity  `json:"staff"`
}
