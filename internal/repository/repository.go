package repository

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

// Repository aggregate of every repository
type Repository struct {
	db *gorm.DB

	User       UserRepository
	Unit       UnitRepository
	Staff      StaffRepository
	Vehicle    VehicleRepository
	RestPeriod RestPeriodRepository
	Roster     RosterRepository
	Activity   ActivityRepository
	Goal       GoalRepository
	Plan       PlanRepository
	Dashboard  DashboardRepository
}

// NewRepository wires every repository on db
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:         db,
		User:       NewUserRepo(db),
		Unit:       NewUnitRepo(db),
		Staff:      NewStaffRepo(db),
		Vehicle:    NewVehicleRepo(db),
		RestPeriod: NewRestPeriodRepo(db),
		Roster:     NewRosterRepo(db),
		Activity:   NewActivityRepo(db),
		Goal:       NewGoalRepo(db),
		Plan:       NewPlanRepo(db),
		Dashboard:  NewDashboardRepo(db),
	}
}

// Transaction runs fn with repositories bound to one serializable
// transaction. Any error from fn rolls everything back.
//
// An aggregate built without a db (service tests) runs fn directly on itself.
func (r *Repository) Transaction(ctx context.Context, fn func(tx *Repository) error) error {
	if r.db == nil {
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	}, &sql.TxOptions{Isolation: sql.LevelSerializable})
}
