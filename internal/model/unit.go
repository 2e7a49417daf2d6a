package model

// Unit organizational unit — units.
// ParentID nil marks a root. The parent chain must be acyclic.
type Unit struct {
	UnitID   string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"unit_id"`
	Name     string  `gorm:"type:varchar(120);not null"                     json:"name"`
	ParentID *string `gorm:"type:uuid"                                      json:"parent_id,omitempty"`
	VersionedModel

	Parent *Unit `gorm:"foreignKey:ParentID;references:UnitID" json:"parent,omitempty"`
}

func (Unit) TableName() string { return "units" }
