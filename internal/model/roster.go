package model

import "time"

// DutyRoster committed duty plan for a unit over [StartDate, EndDate] — duty_rosters.
// Its weeks exactly tile the range. Deleting it cascades to weeks and assignments.
type DutyRoster struct {
	RosterID  string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"roster_id"`
	UnitID    string    `gorm:"type:uuid;not null"                             json:"unit_id"`
	StartDate time.Time `gorm:"type:date;not null"                             json:"start_date"`
	EndDate   time.Time `gorm:"type:date;not null"                             json:"end_date"`
	Note      string    `gorm:"type:varchar(500)"                              json:"note,omitempty"`
	BaseModel

	Unit  *Unit       `gorm:"foreignKey:UnitID;references:UnitID" json:"unit,omitempty"`
	Weeks []ShiftWeek `gorm:"foreignKey:RosterID"                 json:"weeks,omitempty"`
}

func (DutyRoster) TableName() string { return "duty_rosters" }

// ShiftWeek one Saturday–Friday window of a roster, possibly clipped — shift_weeks
type ShiftWeek struct {
	WeekID    string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"week_id"`
	RosterID  string    `gorm:"type:uuid;not null"                             json:"roster_id"`
	Ordinal   int       `gorm:"type:smallint;not null"                         json:"ordinal"` // 1-based
	StartDate time.Time `gorm:"type:date;not null"                             json:"start_date"`
	EndDate   time.Time `gorm:"type:date;not null"                             json:"end_date"`

	Assignments []ShiftAssignment `gorm:"foreignKey:WeekID" json:"assignments,omitempty"`
}

func (ShiftWeek) TableName() string { return "shift_weeks" }

// ShiftAssignment a staff slot inside a week — shift_assignments.
// PhoneSnapshot is the staff phone at write time. DutyDate is set when the
// slot came from the daily round-robin.
type ShiftAssignment struct {
	AssignmentID  string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"assignment_id"`
	WeekID        string     `gorm:"type:uuid;not null"                             json:"week_id"`
	StaffID       string     `gorm:"type:uuid;not null"                             json:"staff_id"`
	Ordinal       int        `gorm:"type:smallint;not null"                         json:"ordinal"`
	DutyDate      *time.Time `gorm:"type:date"                                      json:"duty_date,omitempty"`
	PhoneSnapshot string     `gorm:"type:varchar(30)"                               json:"phone_snapshot,omitempty"`

	Staff *StaffMember `gorm:"foreignKey:StaffID;references:StaffID" json:"staff,omitempty"`
}

func (ShiftAssignment) TableName() string { return "shift_assignments" }
