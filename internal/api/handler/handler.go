package handler

import "github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/service"

// Handler aggregate entry point for every handler
type Handler struct {
	Auth       *AuthHandler
	User       *UserHandler
	Unit       *UnitHandler
	Staff      *StaffHandler
	Vehicle    *VehicleHandler
	Activity   *ActivityHandler
	RestPeriod *RestPeriodHandler
	Roster     *RosterHandler
	Goal       *GoalHandler
	Plan       *PlanHandler
	Dashboard  *DashboardHandler
}

// NewHandler creates the Handler aggregate
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:       NewAuthHandler(svc.Auth),
		User:       NewUserHandler(svc.User),
		Unit:       NewUnitHandler(svc.Unit),
		Staff:      NewStaffHandler(svc.Staff),
		Vehicle:    NewVehicleHandler(svc.Vehicle),
		Activity:   NewActivityHandler(svc.Activity),
		RestPeriod: NewRestPeriodHandler(svc.RestPeriod),
		Roster:     NewRosterHandler(svc.Roster),
		Goal:       NewGoalHandler(svc.Goal),
		Plan:       NewPlanHandler(svc.Plan),
		Dashboard:  NewDashboardHandler(svc.Dashboard),
	}
}
