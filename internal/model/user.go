package model

// User application login — users
type User struct {
	UserID       string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Username     string `gorm:"type:varchar(60);not null"                      json:"username"`
	Name         string `gorm:"type:varchar(120);not null"                     json:"name"`
	Email        string `gorm:"type:varchar(255)"                              json:"email,omitempty"`
	PasswordHash string `gorm:"type:varchar(255);not null"                     json:"-"`
	Role         string `gorm:"type:varchar(20);not null;default:'member'"     json:"role"`
	UnitID       string `gorm:"type:uuid;not null"                             json:"unit_id"` // home unit
	IsActive     bool   `gorm:"not null;default:true"                          json:"is_active"`
	VersionedModel

	Unit *Unit `gorm:"foreignKey:UnitID;references:UnitID" json:"unit,omitempty"`
}

func (User) TableName() string { return "users" }
