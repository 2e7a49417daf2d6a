package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Activity field activity catalog entry — activities
type Activity struct {
	ActivityID  string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"activity_id"`
	UnitID      string `gorm:"type:uuid;not null"                             json:"unit_id"`
	Name        string `gorm:"type:varchar(120);not null"                     json:"name"`
	Description string `gorm:"type:text"                                      json:"description,omitempty"`
	IsActive    bool   `gorm:"not null;default:true"                          json:"is_active"`
	BaseModel
}

func (Activity) TableName() string { return "activities" }

// Goal quantitative target — goals.
// Completed when ClosedAt is set or total progress reaches TargetQuantity.
type Goal struct {
	GoalID         string          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"goal_id"`
	UnitID         string          `gorm:"type:uuid;not null"                             json:"unit_id"` // creating unit
	ActivityID     *string         `gorm:"type:uuid"                                      json:"activity_id,omitempty"`
	Name           string          `gorm:"type:varchar(160);not null"                     json:"name"`
	Description    string          `gorm:"type:text"                                      json:"description,omitempty"`
	TargetQuantity decimal.Decimal `gorm:"type:numeric(14,2);not null"                    json:"target_quantity"`
	Deadline       *time.Time      `gorm:"type:date"                                      json:"deadline,omitempty"`
	ClosedAt       *time.Time      `json:"closed_at,omitempty"`
	BaseModel

	Allocations []GoalAllocation `gorm:"foreignKey:GoalID" json:"allocations,omitempty"`
}

func (Goal) TableName() string { return "goals" }

// GoalAllocation share of a goal delegated to a unit — goal_allocations.
// ParentAllocationID links a redelegated share to the share it came from.
type GoalAllocation struct {
	AllocationID       string          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"allocation_id"`
	GoalID             string          `gorm:"type:uuid;not null"                             json:"goal_id"`
	UnitID             string          `gorm:"type:uuid;not null"                             json:"unit_id"`
	ParentAllocationID *string         `gorm:"type:uuid"                                      json:"parent_allocation_id,omitempty"`
	Quantity           decimal.Decimal `gorm:"type:numeric(14,2);not null"                    json:"quantity"`
	BaseModel
}

func (GoalAllocation) TableName() string { return "goal_allocations" }

// GoalProgressEntry recorded progress against an allocation — goal_progress_entries.
// Quantity is strictly positive.
type GoalProgressEntry struct {
	EntryID      string          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"entry_id"`
	AllocationID string          `gorm:"type:uuid;not null"                             json:"allocation_id"`
	EntryDate    time.Time       `gorm:"type:date;not null"                             json:"entry_date"`
	Quantity     decimal.Decimal `gorm:"type:numeric(14,2);not null"                    json:"quantity"`
	Note         string          `gorm:"type:varchar(500)"                              json:"note,omitempty"`
	BaseModel
}

func (GoalProgressEntry) TableName() string { return "goal_progress_entries" }
