package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/dto"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/model"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/repository"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/scope"
)

var ErrActivityNotFound = errors.New("activity not found")

var activityConstraints = map[string]string{
	"uq_activities_unit_name": "name",
}

// ActivityService activity catalog of the acting unit
type ActivityService interface {
	List(ctx context.Context, ac *scope.ActingContext, req *dto.ActivityListRequest) ([]dto.ActivityResponse, int64, error)
	Get(ctx context.Context, ac *scope.ActingContext, id string) (*dto.ActivityResponse, error)
	Create(ctx context.Context, ac *scope.ActingContext, req *dto.CreateActivityRequest) (*dto.ActivityResponse, error)
	Update(ctx context.Context, ac *scope.ActingContext, id string, req *dto.UpdateActivityRequest) (*dto.ActivityResponse, error)
	ToggleActive(ctx context.Context, ac *scope.ActingContext, id string) (*dto.ActivityResponse, error)
}

type activityService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewActivityService creates an ActivityService
func NewActivityService(repo *repository.Repository, logger *zap.Logger) ActivityService {
	return &activityService{repo: repo, logger: logger}
}

func loadActivity(ctx context.Context, repo *repository.Repository, logger *zap.Logger, ac *scope.ActingContext, id string) (*model.Activity, error) {
	if err := requireUnit(ac); err != nil {
		return nil, err
	}
	a, err := repo.Activity.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrActivityNotFound
		}
		logger.Error("get activity failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	if !ac.Units.Contains(a.UnitID) {
		return nil, ErrActivityNotFound
	}
	return a, nil
}

func (s *activityService) List(ctx context.Context, ac *scope.ActingContext, req *dto.ActivityListRequest) ([]dto.ActivityResponse, int64, error) {
	if err := requireUnit(ac); err != nil {
		return nil, 0, err
	}
	list, total, err := s.repo.Activity.List(ctx, ac.Units, req.Active, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("list activities failed", zap.Error(err))
		return nil, 0, err
	}
	out := make([]dto.ActivityResponse, 0, len(list))
	for i := range list {
		out = append(out, toActivityResponse(&list[i]))
	}
	return out, total, nil
}

func (s *activityService) Get(ctx context.Context, ac *scope.ActingContext, id string) (*dto.ActivityResponse, error) {
	a, err := loadActivity(ctx, s.repo, s.logger, ac, id)
	if err != nil {
		return nil, err
	}
	resp := toActivityResponse(a)
	return &resp, nil
}

func (s *activityService) Create(ctx context.Context, ac *scope.ActingContext, req *dto.CreateActivityRequest) (*dto.ActivityResponse, error) {
	if err := requireUnit(ac); err != nil {
		return nil, err
	}
	a := &model.Activity{
		UnitID:      ac.ActingUnitID,
		Name:        req.Name,
		Description: req.Description,
		IsActive:    true,
	}
	a.SetCreator(ac.UserID)
	if err := s.repo.Activity.Create(ctx, a); err != nil {
		return nil, writeFailure(s.logger, "create activity failed", err, activityConstraints)
	}
	resp := toActivityResponse(a)
	return &resp, nil
}

func (s *activityService) Update(ctx context.Context, ac *scope.ActingContext, id string, req *dto.UpdateActivityRequest) (*dto.ActivityResponse, error) {
	a, err := loadActivity(ctx, s.repo, s.logger, ac, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		a.Name = *req.Name
	}
	if req.Description != nil {
		a.Description = *req.Description
	}
	a.SetUpdater(ac.UserID)
	if err := s.repo.Activity.Update(ctx, a); err != nil {
		return nil, writeFailure(s.logger, "update activity failed", err, activityConstraints)
	}
	resp := toActivityResponse(a)
	return &resp, nil
}

func (s *activityService) ToggleActive(ctx context.Context, ac *scope.ActingContext, id string) (*dto.ActivityResponse, error) {
	a, err := loadActivity(ctx, s.repo, s.logger, ac, id)
	if err != nil {
		return nil, err
	}
	a.IsActive = !a.IsActive
	a.SetUpdater(ac.UserID)
	if err := s.repo.Activity.Update(ctx, a); err != nil {
		return nil, writeFailure(s.logger, "toggle activity failed", err, activityConstraints)
	}
	resp := toActivityResponse(a)
	return &resp, nil
}

func toActivityResponse(a *model.Activity) dto.ActivityResponse {
	return dto.ActivityResponse{
		ID:          a.ActivityID,
		UnitID:      a.UnitID,
		Name:        a.Name,
		Description: a.Description,
		IsActive:    a.IsActive,
	}
}
