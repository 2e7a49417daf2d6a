package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/config"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/api/handler"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/api/middleware"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/dto"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/pkg/jwt"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/pkg/metrics"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/pkg/policy"
)

// Deps collaborators of the HTTP layer. Tokens and Limiter are nil when
// Redis is unavailable; Metrics is nil when disabled.
type Deps struct {
	Config   *config.Config
	Handler  *handler.Handler
	JWT      *jwt.Manager
	Resolver middleware.ActingResolver
	Tokens   middleware.TokenChecker
	Limiter  middleware.RateLimiter
	Metrics  *metrics.Metrics
	Health   func() error
	Logger   *zap.Logger
}

// Setup builds the Gin engine
func Setup(d Deps) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := dto.RegisterValidators(v); err != nil {
			return nil, err
		}
	}

	cfg := d.Config
	h := d.Handler
	r := gin.New()

	// ── global middleware ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(d.Logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.BodyLimit(cfg.Server.BodyLimit))

	var recorder middleware.ScopeRecorder
	if d.Metrics != nil {
		r.Use(d.Metrics.Middleware())
		r.GET(cfg.Server.MetricsPath, gin.WrapH(d.Metrics.Handler()))
		recorder = d.Metrics
	}

	// ── health ──
	r.GET("/health", func(c *gin.Context) {
		if d.Health != nil {
			if err := d.Health(); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// public
		v1.POST("/auth/login",
			middleware.RateLimit(d.Limiter, cfg.Server.LoginLimit, cfg.Server.LoginWindowDuration()),
			h.Auth.Login)

		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(d.JWT, d.Tokens))
		authorized.Use(middleware.ActingUnit(d.Resolver, recorder, d.Logger))
		{
			// session
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)
			authorized.GET("/me/units", h.Auth.Units)
			authorized.PUT("/me/acting-unit", h.Auth.SwitchUnit)

			// units
			units := authorized.Group("/units")
			{
				units.GET("", h.Unit.ListUnits)
				units.GET("/:id", h.Unit.GetUnit)
				units.POST("", middleware.RequireCapability(policy.CapManageUnits), h.Unit.CreateUnit)
				units.PUT("/:id", middleware.RequireCapability(policy.CapManageUnits), h.Unit.UpdateUnit)
				units.DELETE("/:id", middleware.RequireCapability(policy.CapManageUnits), h.Unit.DeleteUnit)
			}

			// users
			users := authorized.Group("/users", middleware.RequireCapability(policy.CapManageUsers))
			{
				users.GET("", h.User.ListUsers)
				users.POST("", h.User.CreateUser)
				users.GET("/:id", h.User.GetUser)
			}

			// staff
			staff := authorized.Group("/staff")
			{
				staff.GET("", h.Staff.ListStaff)
				staff.POST("", h.Staff.CreateStaff)
				staff.GET("/:id", h.Staff.GetStaff)
				staff.PUT("/:id", h.Staff.UpdateStaff)
				staff.POST("/:id/toggle-active", h.Staff.ToggleStaff)
			}

			// vehicles
			vehicles := authorized.Group("/vehicles")
			{
				vehicles.GET("", h.Vehicle.ListVehicles)
				vehicles.POST("", h.Vehicle.CreateVehicle)
				vehicles.GET("/:id", h.Vehicle.GetVehicle)
				vehicles.PUT("/:id", h.Vehicle.UpdateVehicle)
				vehicles.POST("/:id/toggle-active", h.Vehicle.ToggleVehicle)
			}

			// activities
			activities := authorized.Group("/activities")
			{
				activities.GET("", h.Activity.ListActivities)
				activities.POST("", h.Activity.CreateActivity)
				activities.GET("/:id", h.Activity.GetActivity)
				activities.PUT("/:id", h.Activity.UpdateActivity)
				activities.POST("/:id/toggle-active", h.Activity.ToggleActivity)
			}

			// rest periods
			rest := authorized.Group("/rest-periods")
			{
				rest.GET("", h.RestPeriod.ListRestPeriods)
				rest.POST("", h.RestPeriod.CreateRestPeriod)
				rest.GET("/check", h.RestPeriod.CheckRestPeriods)
				rest.PUT("/:id", h.RestPeriod.UpdateRestPeriod)
				rest.DELETE("/:id", h.RestPeriod.DeleteRestPeriod)
			}

			// duty rosters
			rosters := authorized.Group("/rosters")
			{
				rosters.GET("", h.Roster.ListRosters)
				rosters.POST("", h.Roster.CreateRoster)
				rosters.POST("/preview", h.Roster.Preview)
				rosters.GET("/feed", h.Roster.Feed)
				rosters.GET("/draft", h.Roster.GetDraft)
				rosters.PUT("/draft", h.Roster.SaveDraft)
				rosters.DELETE("/draft", h.Roster.ClearDraft)
				rosters.GET("/:id", h.Roster.GetRoster)
				rosters.DELETE("/:id", h.Roster.DeleteRoster)
				rosters.GET("/:id/export", h.Roster.Export)
			}

			// goals
			goals := authorized.Group("/goals")
			{
				goals.GET("", h.Goal.ListGoals)
				goals.POST("", h.Goal.CreateGoal)
				goals.GET("/:id", h.Goal.GetGoal)
				goals.POST("/:id/close", h.Goal.CloseGoal)
				goals.POST("/:id/reopen", h.Goal.ReopenGoal)
				goals.POST("/:id/allocations", h.Goal.Allocate)
				goals.POST("/allocations/:id/progress", h.Goal.AddProgress)
			}

			// activity plans
			plans := authorized.Group("/plans")
			{
				plans.GET("", h.Plan.ListPlans)
				plans.POST("", h.Plan.CreatePlan)
				plans.GET("/:id", h.Plan.GetPlan)
				plans.DELETE("/:id", h.Plan.DeletePlan)
				plans.PUT("/:id/status", h.Plan.UpdatePlanStatus)
			}

			authorized.GET("/dashboard", h.Dashboard.Summary)
		}
	}

	return r, nil
}
