package service

import (
	"go.uber.org/zap"

	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/config"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/repository"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/scope"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/pkg/jwt"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/pkg/textsort"
)

// Service aggregate entry point for every service
type Service struct {
	Auth       AuthService
	User       UserService
	Unit       UnitService
	Staff      StaffService
	Vehicle    VehicleService
	Activity   ActivityService
	RestPeriod RestPeriodService
	Roster     RosterService
	Goal       GoalService
	Plan       PlanService
	Dashboard  DashboardService
}

// Deps shared collaborators. Blacklist, Drafts and Metrics may be nil when
// Redis or the metrics registry are unavailable.
type Deps struct {
	Config    *config.Config
	Repo      *repository.Repository
	JWT       *jwt.Manager
	Resolver  *scope.Resolver
	Blacklist TokenBlacklist
	Drafts    DraftStore
	Metrics   RosterMetrics
	Sorter    *textsort.Sorter
	Logger    *zap.Logger
}

// NewService wires every service
func NewService(d Deps) *Service {
	sorter := d.Sorter
	if sorter == nil {
		sorter = textsort.New(d.Config.Roster.Locale)
	}
	return &Service{
		Auth:       NewAuthService(d.Repo, d.JWT, d.Blacklist, d.Resolver, d.Logger),
		User:       NewUserService(d.Repo, d.Logger),
		Unit:       NewUnitService(d.Repo, d.Resolver, sorter, d.Logger),
		Staff:      NewStaffService(d.Repo, d.Logger),
		Vehicle:    NewVehicleService(d.Repo, d.Logger),
		Activity:   NewActivityService(d.Repo, d.Logger),
		RestPeriod: NewRestPeriodService(d.Repo, d.Logger),
		Roster:     NewRosterService(d.Repo, d.Drafts, d.Metrics, sorter, d.Config.Roster.MaxRangeDays, d.Logger),
		Goal:       NewGoalService(d.Repo, d.Logger),
		Plan:       NewPlanService(d.Repo, d.Logger),
		Dashboard:  NewDashboardService(d.Repo, d.Logger),
	}
}
