package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/dto"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/repository"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/scope"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/pkg/datewindow"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/pkg/policy"
)

// Dashboard scopes
const (
	DashboardScopeUnit    = "unit"
	DashboardScopeSubtree = "subtree"
	DashboardScopeAll     = "all"
)

// dashboardStaffLimit rows in the staff participation ranking
const dashboardStaffLimit = 20

// DashboardService aggregated indicators over a date window
type DashboardService interface {
	Summary(ctx context.Context, ac *scope.ActingContext, req *dto.DashboardRequest) (*dto.DashboardResponse, error)
}

type dashboardService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewDashboardService creates a DashboardService
func NewDashboardService(repo *repository.Repository, logger *zap.Logger) DashboardService {
	return &dashboardService{repo: repo, logger: logger}
}

// dashboardScope maps the requested scope onto a query filter. "subtree"
// equals "unit" for callers who cannot act on descendants.
func dashboardScope(ac *scope.ActingContext, name string) (scope.Scope, string, error) {
	switch name {
	case DashboardScopeAll:
		if !ac.Can(policy.CapGlobalDashboard) {
			return scope.Scope{}, "", ErrForbidden
		}
		return scope.Unscoped(), DashboardScopeAll, nil
	case DashboardScopeSubtree:
		if ac == nil {
			return scope.Of(), DashboardScopeSubtree, nil
		}
		return ac.Subtree, DashboardScopeSubtree, nil
	default:
		if ac == nil {
			return scope.Of(), DashboardScopeUnit, nil
		}
		return ac.Units, DashboardScopeUnit, nil
	}
}

func (s *dashboardService) Summary(ctx context.Context, ac *scope.ActingContext, req *dto.DashboardRequest) (*dto.DashboardResponse, error) {
	rng, err := parseRange("from", req.From, "to", req.To)
	if err != nil {
		return nil, err
	}
	g, err := datewindow.ParseGranularity(req.Bucket)
	if err != nil {
		return nil, NewValidationError("bucket", "must be week or month")
	}
	sc, scopeName, err := dashboardScope(ac, req.Scope)
	if err != nil {
		return nil, err
	}

	buckets := datewindow.Buckets(rng, g)
	resp := &dto.DashboardResponse{
		From:   formatDate(rng.Start),
		To:     formatDate(rng.End),
		Bucket: string(g),
		Scope:  scopeName,
		Series: make([]dto.DashboardPoint, 0, len(buckets)),
		Staff:  []dto.StaffActivity{},
	}
	index := make(map[string]int, len(buckets))
	for i, b := range buckets {
		index[formatDate(b.Start)] = i
		resp.Series = append(resp.Series, dto.DashboardPoint{
			Start:    formatDate(b.Start),
			End:      formatDate(b.End),
			Progress: decimal.Zero,
		})
	}

	// An explicitly empty scope matches nothing; skip the round trips.
	if sc.IsEmpty() {
		return resp, nil
	}

	point := func(bucket time.Time) *dto.DashboardPoint {
		if i, ok := index[formatDate(datewindow.Day(bucket))]; ok {
			return &resp.Series[i]
		}
		return nil
	}

	goals, err := s.repo.Dashboard.GoalsCreated(ctx, sc, rng, g)
	if err != nil {
		s.logger.Error("dashboard goals failed", zap.Error(err))
		return nil, err
	}
	for _, row := range goals {
		if p := point(row.Bucket); p != nil {
			p.GoalsCreated = row.Count
		}
	}

	progress, err := s.repo.Dashboard.ProgressTotals(ctx, sc, rng, g)
	if err != nil {
		s.logger.Error("dashboard progress failed", zap.Error(err))
		return nil, err
	}
	for _, row := range progress {
		if p := point(row.Bucket); p != nil {
			p.Progress = row.Total
		}
	}

	coverage, err := s.repo.Dashboard.CoverageDays(ctx, sc, rng, g)
	if err != nil {
		s.logger.Error("dashboard coverage failed", zap.Error(err))
		return nil, err
	}
	for _, row := range coverage {
		if p := point(row.Bucket); p != nil {
			p.CoverageDays = row.Count
		}
	}

	vehicles, err := s.repo.Dashboard.VehicleUsage(ctx, sc, rng, g)
	if err != nil {
		s.logger.Error("dashboard vehicle usage failed", zap.Error(err))
		return nil, err
	}
	for _, row := range vehicles {
		if p := point(row.Bucket); p != nil {
			p.VehicleUsage = row.Count
		}
	}

	staff, err := s.repo.Dashboard.StaffActivity(ctx, sc, rng, dashboardStaffLimit)
	if err != nil {
		s.logger.Error("dashboard staff activity failed", zap.Error(err))
		return nil, err
	}
	for _, row := range staff {
		resp.Staff = append(resp.Staff, dto.StaffActivity{StaffID: row.StaffID, Name: row.Name, Plans: row.Plans})
	}
	return resp, nil
}
