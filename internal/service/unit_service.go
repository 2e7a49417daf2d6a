package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/dto"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/model"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/repository"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/scope"
	pkgerrors "github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/pkg/errors"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/pkg/policy"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/pkg/textsort"
)

// ── unit module errors ──

var (
	ErrUnitNotFound = errors.New("unit not found")
	ErrUnitCycle    = errors.New("a unit cannot be moved under itself or one of its descendants")
)

var unitConstraints = map[string]string{
	"uq_units_parent_name": "name",
}

// UnitInUseError the unit is still referenced; Dependents counts rows per kind
type UnitInUseError struct {
	Dependents map[string]int64 `json:"dependents"`
}

func (e *UnitInUseError) Error() string {
	return "unit still has " + describeDependents(e.Dependents)
}

func (e *UnitInUseError) Unwrap() error { return ErrHasDependents }

// TreeInvalidator drops cached descendant lists after the tree changes
type TreeInvalidator interface {
	Invalidate(ctx context.Context)
}

// UnitService organizational unit tree maintenance
type UnitService interface {
	// List every unit for managers, otherwise the caller's visible units
	List(ctx context.Context, ac *scope.ActingContext) ([]dto.UnitResponse, error)
	Get(ctx context.Context, ac *scope.ActingContext, id string) (*dto.UnitResponse, error)
	Create(ctx context.Context, ac *scope.ActingContext, req *dto.CreateUnitRequest) (*dto.UnitResponse, error)
	Update(ctx context.Context, ac *scope.ActingContext, id string, req *dto.UpdateUnitRequest) (*dto.UnitResponse, error)
	Delete(ctx context.Context, ac *scope.ActingContext, id string) error
}

type unitService struct {
	repo   *repository.Repository
	tree   TreeInvalidator
	sorter *textsort.Sorter
	logger *zap.Logger
}

// NewUnitService creates a UnitService
func NewUnitService(repo *repository.Repository, tree TreeInvalidator, sorter *textsort.Sorter, logger *zap.Logger) UnitService {
	if sorter == nil {
		sorter = textsort.New("pt-BR")
	}
	return &unitService{repo: repo, tree: tree, sorter: sorter, logger: logger}
}

func (s *unitService) invalidate(ctx context.Context) {
	if s.tree != nil {
		s.tree.Invalidate(ctx)
	}
}

// ────────────────────── List / Get ──────────────────────

func (s *unitService) List(ctx context.Context, ac *scope.ActingContext) ([]dto.UnitResponse, error) {
	units, err := s.repo.Unit.ListAll(ctx)
	if err != nil {
		s.logger.Error("list units failed", zap.Error(err))
		return nil, err
	}
	manage := ac.Can(policy.CapManageUnits)
	out := make([]dto.UnitResponse, 0, len(units))
	for i := range units {
		if manage || ac.Allows(units[i].UnitID) {
			out = append(out, toUnitResponse(&units[i]))
		}
	}
	s.sorter.Sort(out,
		func(i int) string { return out[i].Name },
		func(i int) string { return out[i].ID },
	)
	return out, nil
}

func (s *unitService) Get(ctx context.Context, ac *scope.ActingContext, id string) (*dto.UnitResponse, error) {
	if !ac.Can(policy.CapManageUnits) && !ac.Allows(id) {
		return nil, ErrUnitNotFound
	}
	unit, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toUnitResponse(unit)
	return &resp, nil
}

func (s *unitService) load(ctx context.Context, id string) (*model.Unit, error) {
	return s.loadWith(ctx, s.repo, id)
}

func (s *unitService) loadWith(ctx context.Context, repo *repository.Repository, id string) (*model.Unit, error) {
	unit, err := repo.Unit.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnitNotFound
		}
		s.logger.Error("get unit failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return unit, nil
}

// ────────────────────── Create ──────────────────────

func (s *unitService) Create(ctx context.Context, ac *scope.ActingContext, req *dto.CreateUnitRequest) (*dto.UnitResponse, error) {
	if !ac.Can(policy.CapManageUnits) {
		return nil, ErrForbidden
	}
	if req.ParentID != nil {
		if _, err := s.load(ctx, *req.ParentID); err != nil {
			if errors.Is(err, ErrUnitNotFound) {
				return nil, NewValidationError("parent_id", "does not exist")
			}
			return nil, err
		}
	}

	unit := &model.Unit{Name: strings.TrimSpace(req.Name), ParentID: req.ParentID}
	unit.SetCreator(ac.UserID)
	if err := s.repo.Unit.Create(ctx, unit); err != nil {
		return nil, writeFailure(s.logger, "create unit failed", err, unitConstraints)
	}
	s.invalidate(ctx)

	s.logger.Info("unit created", zap.String("unit_id", unit.UnitID), zap.String("name", unit.Name))
	resp := toUnitResponse(unit)
	return &resp, nil
}

// ────────────────────── Update ──────────────────────

func (s *unitService) Update(ctx context.Context, ac *scope.ActingContext, id string, req *dto.UpdateUnitRequest) (*dto.UnitResponse, error) {
	if !ac.Can(policy.CapManageUnits) {
		return nil, ErrForbidden
	}
	// cycle check and write share one serializable transaction
	var unit *model.Unit
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		var err error
		unit, err = s.loadWith(ctx, tx, id)
		if err != nil {
			return err
		}
		if unit.Version != req.Version {
			return ErrConcurrentUpdate
		}

		if req.Name != nil {
			unit.Name = strings.TrimSpace(*req.Name)
		}
		switch {
		case req.MakeRoot:
			unit.ParentID = nil
		case req.ParentID != nil && derefString(unit.ParentID) != *req.ParentID:
			if err := s.checkMove(ctx, tx, id, *req.ParentID); err != nil {
				return err
			}
			parent := *req.ParentID
			unit.ParentID = &parent
		}
		unit.SetUpdater(ac.UserID)
		return tx.Unit.Update(ctx, unit)
	})
	if err != nil {
		var verr *ValidationError
		switch {
		case errors.Is(err, ErrUnitNotFound), errors.Is(err, ErrUnitCycle),
			errors.Is(err, ErrConcurrentUpdate), errors.As(err, &verr):
			return nil, err
		case errors.Is(err, pkgerrors.ErrOptimisticLock):
			return nil, ErrConcurrentUpdate
		}
		return nil, writeFailure(s.logger, "update unit failed", err, unitConstraints)
	}
	s.invalidate(ctx)

	resp := toUnitResponse(unit)
	return &resp, nil
}

// checkMove rejects a missing parent and any move that would close a cycle.
func (s *unitService) checkMove(ctx context.Context, repo *repository.Repository, id, parentID string) error {
	if parentID == id {
		return ErrUnitCycle
	}
	units, err := repo.Unit.ListAll(ctx)
	if err != nil {
		s.logger.Error("list units failed", zap.Error(err))
		return err
	}
	nodes := make([]scope.Node, 0, len(units))
	for _, u := range units {
		nodes = append(nodes, scope.Node{ID: u.UnitID, Name: u.Name, ParentID: derefString(u.ParentID)})
	}
	tree := scope.NewTree(nodes)
	if !tree.Contains(parentID) {
		return NewValidationError("parent_id", "does not exist")
	}
	if tree.IsDescendant(id, parentID) {
		return ErrUnitCycle
	}
	return nil
}

// ────────────────────── Delete ──────────────────────

func (s *unitService) Delete(ctx context.Context, ac *scope.ActingContext, id string) error {
	if !ac.Can(policy.CapManageUnits) {
		return ErrForbidden
	}
	if _, err := s.load(ctx, id); err != nil {
		return err
	}

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		deps, err := tx.Unit.CountDependents(ctx, id)
		if err != nil {
			return err
		}
		if len(deps) > 0 {
			return &UnitInUseError{Dependents: deps}
		}
		return tx.Unit.Delete(ctx, id, ac.UserID)
	})
	if err != nil {
		var inUse *UnitInUseError
		if errors.As(err, &inUse) {
			return err
		}
		return writeFailure(s.logger, "delete unit failed", err, nil)
	}
	s.invalidate(ctx)

	s.logger.Info("unit deleted", zap.String("unit_id", id), zap.String("by", ac.UserID))
	return nil
}

func toUnitResponse(u *model.Unit) dto.UnitResponse {
	return dto.UnitResponse{
		ID:        u.UnitID,
		Name:      u.Name,
		ParentID:  u.ParentID,
		Version:   u.Version,
		CreatedAt: u.CreatedAt.UTC().Format(timestampLayout),
	}
}

// describeDependents "3 staff, 1 vehicles", kinds in name order
func describeDependents(deps map[string]int64) string {
	kinds := make([]string, 0, len(deps))
	for k := range deps {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	parts := make([]string, 0, len(kinds))
	for _, k := range kinds {
		parts = append(parts, fmt.Sprintf("%d %s", deps[k], k))
	}
	return strings.Join(parts, ", ")
}
