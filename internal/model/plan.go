package model

import "time"

// Plan statuses
const (
	PlanPlanned   = "planned"
	PlanCompleted = "completed"
	PlanCancelled = "cancelled"
)

// Plan a day's scheduled field work for a unit — plans
type Plan struct {
	PlanID    string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"plan_id"`
	UnitID    string     `gorm:"type:uuid;not null"                             json:"unit_id"`
	PlanDate  time.Time  `gorm:"type:date;not null"                             json:"plan_date"`
	VehicleID *string    `gorm:"type:uuid"                                      json:"vehicle_id,omitempty"`
	Note      string     `gorm:"type:varchar(500)"                              json:"note,omitempty"`
	Status    string     `gorm:"type:varchar(20);not null;default:'planned'"    json:"status"`
	DoneAt    *time.Time `json:"done_at,omitempty"`
	BaseModel

	Vehicle *Vehicle   `gorm:"foreignKey:VehicleID;references:VehicleID" json:"vehicle,omitempty"`
	Items   []PlanItem `gorm:"foreignKey:PlanID"                         json:"items,omitempty"`
}

func (Plan) TableName() string { return "plans" }

// PlanItem one activity inside a plan — plan_items
type PlanItem struct {
	ItemID     string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"item_id"`
	PlanID     string  `gorm:"type:uuid;not null"                             json:"plan_id"`
	ActivityID string  `gorm:"type:uuid;not null"                             json:"activity_id"`
	GoalID     *string `gorm:"type:uuid"                                      json:"goal_id,omitempty"`
	Position   int     `gorm:"type:smallint;not null"                         json:"position"`

	Activity *Activity       `gorm:"foreignKey:ActivityID;references:ActivityID" json:"activity,omitempty"`
	Staff    []PlanItemStaff `gorm:"foreignKey:ItemID"                           json:"staff,omitempty"`
}

func (PlanItem) TableName() string { return "plan_items" }

// PlanItemStaff staff member assigned to a plan item — plan_item_staff
type PlanItemStaff struct {
	ItemID  string `gorm:"type:uuid;primaryKey" json:"item_id"`
	StaffID string `gorm:"type:uuid;primaryKey" json:"staff_id"`

	Staff *StaffMember `gorm:"foreignKey:StaffID;references:StaffID" json:"staff,omitempty"`
}

func (PlanItemStaff) TableName() string { return "plan_item_staff" }
