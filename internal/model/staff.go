package model

import "time"

// StaffMember field officer assignable to duty — staff_members.
// Inactive staff stay for history but take no new assignments.
type StaffMember struct {
	StaffID      string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"staff_id"`
	UnitID       string `gorm:"type:uuid;not null"                             json:"unit_id"`
	Name         string `gorm:"type:varchar(120);not null"                     json:"name"`
	Phone        string `gorm:"type:varchar(30)"                               json:"phone,omitempty"`
	Registration string `gorm:"type:varchar(30)"                               json:"registration,omitempty"`
	IsActive     bool   `gorm:"not null;default:true"                          json:"is_active"`
	BaseModel
}

func (StaffMember) TableName() string { return "staff_members" }

// RestPeriod leave/impediment blocking duty over [StartDate, EndDate] — rest_periods
type RestPeriod struct {
	RestPeriodID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"rest_period_id"`
	StaffID      string    `gorm:"type:uuid;not null"                             json:"staff_id"`
	StartDate    time.Time `gorm:"type:date;not null"                             json:"start_date"`
	EndDate      time.Time `gorm:"type:date;not null"                             json:"end_date"`
	Category     string    `gorm:"type:varchar(30);not null"                      json:"category"` // vacation | leave | day_off | training | other
	Notes        string    `gorm:"type:text"                                      json:"notes,omitempty"`
	BaseModel

	Staff *StaffMember `gorm:"foreignKey:StaffID;references:StaffID" json:"staff,omitempty"`
}

func (RestPeriod) TableName() string { return "rest_periods" }

// Rest period categories
const (
	RestVacation = "vacation"
	RestLeave    = "leave"
	RestDayOff   = "day_off"
	RestTraining = "training"
	RestOther    = "other"
)

// Vehicle unit vehicle — vehicles
type Vehicle struct {
	VehicleID   string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"vehicle_id"`
	UnitID      string `gorm:"type:uuid;not null"                             json:"unit_id"`
	Plate       string `gorm:"type:varchar(10);not null"                      json:"plate"`
	Description string `gorm:"type:varchar(120)"                              json:"description,omitempty"`
	IsActive    bool   `gorm:"not null;default:true"                          json:"is_active"`
	BaseModel
}

func (Vehicle) TableName() string { return "vehicles" }
