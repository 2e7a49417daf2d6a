package service

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/dto"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/model"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/repository"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/scope"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/pkg/datewindow"
)

// ── goal module errors ──

var (
	ErrGoalNotFound       = errors.New("goal not found")
	ErrAllocationNotFound = errors.New("goal allocation not found")
	ErrGoalClosed         = errors.New("goal is closed")
)

// GoalService quantitative goals, their delegation to units and progress
type GoalService interface {
	List(ctx context.Context, ac *scope.ActingContext, req *dto.GoalListRequest) ([]dto.GoalResponse, int64, error)
	Get(ctx context.Context, ac *scope.ActingContext, id string) (*dto.GoalResponse, error)
	Create(ctx context.Context, ac *scope.ActingContext, req *dto.CreateGoalRequest) (*dto.GoalResponse, error)
	// Allocate delegates part of the goal, or of a parent allocation, to a unit
	Allocate(ctx context.Context, ac *scope.ActingContext, goalID string, req *dto.AllocateRequest) (*dto.AllocationResponse, error)
	AddProgress(ctx context.Context, ac *scope.ActingContext, allocationID string, req *dto.ProgressRequest) (*dto.ProgressEntryResponse, error)
	Close(ctx context.Context, ac *scope.ActingContext, id string) (*dto.GoalResponse, error)
	Reopen(ctx context.Context, ac *scope.ActingContext, id string) (*dto.GoalResponse, error)
}

type goalService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewGoalService creates a GoalService
func NewGoalService(repo *repository.Repository, logger *zap.Logger) GoalService {
	return &goalService{repo: repo, logger: logger, now: time.Now}
}

// completed closed goals and goals whose progress reached the target
func completed(g *model.Goal, progress decimal.Decimal) bool {
	return g.ClosedAt != nil || progress.GreaterThanOrEqual(g.TargetQuantity)
}

// visible the goal was created by the acting unit or allocated to it
func goalVisible(ac *scope.ActingContext, g *model.Goal) bool {
	if ac.Units.Contains(g.UnitID) {
		return true
	}
	for _, a := range g.Allocations {
		if ac.Units.Contains(a.UnitID) {
			return true
		}
	}
	return false
}

func (s *goalService) load(ctx context.Context, ac *scope.ActingContext, id string) (*model.Goal, error) {
	if err := requireUnit(ac); err != nil {
		return nil, err
	}
	g, err := s.repo.Goal.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGoalNotFound
		}
		s.logger.Error("get goal failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	if !goalVisible(ac, g) {
		return nil, ErrGoalNotFound
	}
	return g, nil
}

// ────────────────────── List / Get ──────────────────────

func (s *goalService) List(ctx context.Context, ac *scope.ActingContext, req *dto.GoalListRequest) ([]dto.GoalResponse, int64, error) {
	if err := requireUnit(ac); err != nil {
		return nil, 0, err
	}
	goals, total, err := s.repo.Goal.List(ctx, ac.Units, req.IncludeClosed, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("list goals failed", zap.Error(err))
		return nil, 0, err
	}

	ids := make([]string, 0, len(goals))
	for _, g := range goals {
		ids = append(ids, g.GoalID)
	}
	progress := map[string]decimal.Decimal{}
	if len(ids) > 0 {
		progress, err = s.repo.Goal.ProgressByGoal(ctx, ids)
		if err != nil {
			s.logger.Error("goal progress failed", zap.Error(err))
			return nil, 0, err
		}
	}

	out := make([]dto.GoalResponse, 0, len(goals))
	for i := range goals {
		out = append(out, toGoalResponse(&goals[i], progress[goals[i].GoalID]))
	}
	return out, total, nil
}

func (s *goalService) Get(ctx context.Context, ac *scope.ActingContext, id string) (*dto.GoalResponse, error) {
	g, err := s.load(ctx, ac, id)
	if err != nil {
		return nil, err
	}
	return s.detail(ctx, g)
}

// detail goal with allocations, unit names and per-allocation progress
func (s *goalService) detail(ctx context.Context, g *model.Goal) (*dto.GoalResponse, error) {
	perAlloc, err := s.repo.Goal.ProgressByAllocation(ctx, g.GoalID)
	if err != nil {
		s.logger.Error("allocation progress failed", zap.String("goal_id", g.GoalID), zap.Error(err))
		return nil, err
	}
	total := decimal.Zero
	for _, p := range perAlloc {
		total = total.Add(p)
	}

	unitIDs := make([]string, 0, len(g.Allocations))
	for _, a := range g.Allocations {
		unitIDs = append(unitIDs, a.UnitID)
	}
	names := make(map[string]string, len(unitIDs))
	if len(unitIDs) > 0 {
		units, err := s.repo.Unit.ListByIDs(ctx, unitIDs)
		if err != nil {
			s.logger.Error("load allocation units failed", zap.Error(err))
			return nil, err
		}
		for _, u := range units {
			names[u.UnitID] = u.Name
		}
	}

	resp := toGoalResponse(g, total)
	resp.Allocations = make([]dto.AllocationResponse, 0, len(g.Allocations))
	for i := range g.Allocations {
		a := &g.Allocations[i]
		ar := toAllocationResponse(a, perAlloc[a.AllocationID])
		ar.Unit.Name = names[a.UnitID]
		resp.Allocations = append(resp.Allocations, ar)
	}
	return &resp, nil
}

// ────────────────────── Create ──────────────────────

func (s *goalService) Create(ctx context.Context, ac *scope.ActingContext, req *dto.CreateGoalRequest) (*dto.GoalResponse, error) {
	if err := requireUnit(ac); err != nil {
		return nil, err
	}

	verr := &ValidationError{}
	if req.TargetQuantity.Sign() <= 0 {
		verr.Add("target_quantity", "must be greater than zero")
	}
	var deadline *time.Time
	if req.Deadline != "" {
		d, err := datewindow.Parse(req.Deadline)
		if err != nil {
			verr.Add("deadline", "must be a date in YYYY-MM-DD format")
		} else {
			deadline = &d
		}
	}
	if req.ActivityID != nil {
		if _, err := loadActivity(ctx, s.repo, s.logger, ac, *req.ActivityID); err != nil {
			if !errors.Is(err, ErrActivityNotFound) {
				return nil, err
			}
			verr.Add("activity_id", "is not an activity of the acting unit")
		}
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	g := &model.Goal{
		UnitID:         ac.ActingUnitID,
		ActivityID:     req.ActivityID,
		Name:           req.Name,
		Description:    req.Description,
		TargetQuantity: req.TargetQuantity,
		Deadline:       deadline,
	}
	g.SetCreator(ac.UserID)
	if err := s.repo.Goal.Create(ctx, g); err != nil {
		return nil, writeFailure(s.logger, "create goal failed", err, nil)
	}
	resp := toGoalResponse(g, decimal.Zero)
	return &resp, nil
}

// ────────────────────── Allocate ──────────────────────

func (s *goalService) Allocate(ctx context.Context, ac *scope.ActingContext, goalID string, req *dto.AllocateRequest) (*dto.AllocationResponse, error) {
	g, err := s.load(ctx, ac, goalID)
	if err != nil {
		return nil, err
	}
	if g.ClosedAt != nil {
		return nil, ErrGoalClosed
	}

	verr := &ValidationError{}
	if req.Quantity.Sign() <= 0 {
		verr.Add("quantity", "must be greater than zero")
	}
	if !ac.Allows(req.UnitID) {
		verr.Add("unit_id", "is not a unit you can see")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	// Root shares come from the owning unit; a redelegation splits the
	// caller's own share.
	limit := g.TargetQuantity
	if req.ParentAllocationID == nil {
		if !ac.Units.Contains(g.UnitID) {
			return nil, ErrForbidden
		}
	} else {
		parent, err := s.repo.Goal.GetAllocation(ctx, *req.ParentAllocationID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, NewValidationError("parent_allocation_id", "does not exist")
			}
			s.logger.Error("get allocation failed", zap.Error(err))
			return nil, err
		}
		if parent.GoalID != g.GoalID {
			return nil, NewValidationError("parent_allocation_id", "belongs to another goal")
		}
		if !ac.Units.Contains(parent.UnitID) {
			return nil, ErrForbidden
		}
		limit = parent.Quantity
	}

	alloc := &model.GoalAllocation{
		GoalID:             g.GoalID,
		UnitID:             req.UnitID,
		ParentAllocationID: req.ParentAllocationID,
		Quantity:           req.Quantity,
	}
	alloc.SetCreator(ac.UserID)

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		used, err := tx.Goal.SumAllocations(ctx, g.GoalID, req.ParentAllocationID)
		if err != nil {
			return err
		}
		if used.Add(req.Quantity).GreaterThan(limit) {
			return NewValidationError("quantity", "exceeds the remaining "+limit.Sub(used).String())
		}
		return tx.Goal.CreateAllocation(ctx, alloc)
	})
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			return nil, err
		}
		return nil, writeFailure(s.logger, "create allocation failed", err, nil)
	}

	resp := toAllocationResponse(alloc, decimal.Zero)
	return &resp, nil
}

// ────────────────────── AddProgress ──────────────────────

func (s *goalService) AddProgress(ctx context.Context, ac *scope.ActingContext, allocationID string, req *dto.ProgressRequest) (*dto.ProgressEntryResponse, error) {
	if err := requireUnit(ac); err != nil {
		return nil, err
	}
	alloc, err := s.repo.Goal.GetAllocation(ctx, allocationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAllocationNotFound
		}
		s.logger.Error("get allocation failed", zap.String("id", allocationID), zap.Error(err))
		return nil, err
	}
	if !ac.Units.Contains(alloc.UnitID) {
		return nil, ErrAllocationNotFound
	}

	g, err := s.repo.Goal.GetByID(ctx, alloc.GoalID)
	if err != nil {
		s.logger.Error("get goal failed", zap.String("id", alloc.GoalID), zap.Error(err))
		return nil, err
	}
	if g.ClosedAt != nil {
		return nil, ErrGoalClosed
	}

	verr := &ValidationError{}
	if req.Quantity.Sign() <= 0 {
		verr.Add("quantity", "must be greater than zero")
	}
	day, err := datewindow.Parse(req.EntryDate)
	if err != nil {
		verr.Add("entry_date", "must be a date in YYYY-MM-DD format")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	entry := &model.GoalProgressEntry{
		AllocationID: alloc.AllocationID,
		EntryDate:    day,
		Quantity:     req.Quantity,
		Note:         req.Note,
	}
	entry.SetCreator(ac.UserID)
	if err := s.repo.Goal.CreateProgress(ctx, entry); err != nil {
		return nil, writeFailure(s.logger, "create progress failed", err, nil)
	}
	return &dto.ProgressEntryResponse{
		ID:           entry.EntryID,
		AllocationID: entry.AllocationID,
		EntryDate:    formatDate(entry.EntryDate),
		Quantity:     entry.Quantity,
		Note:         entry.Note,
	}, nil
}

// ────────────────────── Close / Reopen ──────────────────────

func (s *goalService) Close(ctx context.Context, ac *scope.ActingContext, id string) (*dto.GoalResponse, error) {
	return s.setClosed(ctx, ac, id, true)
}

func (s *goalService) Reopen(ctx context.Context, ac *scope.ActingContext, id string) (*dto.GoalResponse, error) {
	return s.setClosed(ctx, ac, id, false)
}

func (s *goalService) setClosed(ctx context.Context, ac *scope.ActingContext, id string, closed bool) (*dto.GoalResponse, error) {
	g, err := s.load(ctx, ac, id)
	if err != nil {
		return nil, err
	}
	if !ac.Units.Contains(g.UnitID) {
		return nil, ErrForbidden
	}

	switch {
	case closed && g.ClosedAt == nil:
		now := s.now()
		g.ClosedAt = &now
	case !closed && g.ClosedAt != nil:
		g.ClosedAt = nil
	default:
		return s.detail(ctx, g)
	}
	g.SetUpdater(ac.UserID)
	if err := s.repo.Goal.Update(ctx, g); err != nil {
		return nil, writeFailure(s.logger, "update goal failed", err, nil)
	}
	return s.detail(ctx, g)
}

func toGoalResponse(g *model.Goal, progress decimal.Decimal) dto.GoalResponse {
	return dto.GoalResponse{
		ID:             g.GoalID,
		UnitID:         g.UnitID,
		ActivityID:     g.ActivityID,
		Name:           g.Name,
		Description:    g.Description,
		TargetQuantity: g.TargetQuantity,
		Deadline:       formatOptionalDate(g.Deadline),
		ClosedAt:       formatOptionalTime(g.ClosedAt),
		Progress:       progress,
		Completed:      completed(g, progress),
	}
}

func toAllocationResponse(a *model.GoalAllocation, progress decimal.Decimal) dto.AllocationResponse {
	return dto.AllocationResponse{
		ID:                 a.AllocationID,
		Unit:               dto.UnitBrief{ID: a.UnitID},
		ParentAllocationID: a.ParentAllocationID,
		Quantity:           a.Quantity,
		Progress:           progress,
	}
}
