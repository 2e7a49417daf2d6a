package dto

import "github.com/shopspring/decimal"

// ── goals ──

// GoalListRequest goal filters
type GoalListRequest struct {
	PaginationRequest
	IncludeClosed bool `form:"include_closed"`
}

// CreateGoalRequest new goal owned by the acting unit.
// Quantities are checked by the service; validator cannot see inside decimal.Decimal.
type CreateGoalRequest struct {
	Name           string          `json:"name"            binding:"required,min=2,max=160"`
	Description    string          `json:"description"     binding:"omitempty,max=2000"`
	ActivityID     *string         `json:"activity_id"     binding:"omitempty,uuid"`
	TargetQuantity decimal.Decimal `json:"target_quantity"`
	Deadline       string          `json:"deadline"        binding:"omitempty,isodate"`
}

// AllocateRequest delegate part of a goal to a unit
type AllocateRequest struct {
	UnitID             string          `json:"unit_id"              binding:"required,uuid"`
	ParentAllocationID *string         `json:"parent_allocation_id" binding:"omitempty,uuid"`
	Quantity           decimal.Decimal `json:"quantity"`
}

// ProgressRequest dated progress against an allocation
type ProgressRequest struct {
	EntryDate string          `json:"entry_date" binding:"required,isodate"`
	Quantity  decimal.Decimal `json:"quantity"`
	Note      string          `json:"note"       binding:"omitempty,max=500"`
}

// AllocationResponse allocation with its own progress
type AllocationResponse struct {
	ID                 string          `json:"id"`
	Unit               UnitBrief       `json:"unit"`
	ParentAllocationID *string         `json:"parent_allocation_id,omitempty"`
	Quantity           decimal.Decimal `json:"quantity"`
	Progress           decimal.Decimal `json:"progress"`
}

// GoalResponse goal with progress totals
type GoalResponse struct {
	ID             string               `json:"id"`
	UnitID         string               `json:"unit_id"`
	ActivityID     *string              `json:"activity_id,omitempty"`
	Name           string               `json:"name"`
	Description    string               `json:"description,omitempty"`
	TargetQuantity decimal.Decimal      `json:"target_quantity"`
	Deadline       string               `json:"deadline,omitempty"`
	ClosedAt       string               `json:"closed_at,omitempty"`
	Progress       decimal.Decimal      `json:"progress"`
	Completed      bool                 `json:"completed"`
	Allocations    []AllocationResponse `json:"allocations,omitempty"`
}

// ProgressEntryResponse recorded progress
type ProgressEntryResponse struct {
	ID           string          `json:"id"`
	AllocationID string          `json:"allocation_id"`
	EntryDate    string          `json:"entry_date"`
	Quantity     decimal.Decimal `json:"quantity"`
	Note         string          `json:"note,omitempty"`
}
