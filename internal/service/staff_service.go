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

// ── staff module errors ──

var ErrStaffNotFound = errors.New("staff member not found")

var staffConstraints = map[string]string{
	"uq_staff_unit_name": "name",
}

// StaffService field staff of the acting unit
type StaffService interface {
	List(ctx context.Context, ac *scope.ActingContext, req *dto.StaffListRequest) ([]dto.StaffResponse, int64, error)
	Get(ctx context.Context, ac *scope.ActingContext, id string) (*dto.StaffResponse, error)
	Create(ctx context.Context, ac *scope.ActingContext, req *dto.CreateStaffRequest) (*dto.StaffResponse, error)
	Update(ctx context.Context, ac *scope.ActingContext, id string, req *dto.UpdateStaffRequest) (*dto.StaffResponse, error)
	// ToggleActive flips IsActive; inactive staff keep their history
	ToggleActive(ctx context.Context, ac *scope.ActingContext, id string) (*dto.StaffResponse, error)
}

type staffService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewStaffService creates a StaffService
func NewStaffService(repo *repository.Repository, logger *zap.Logger) StaffService {
	return &staffService{repo: repo, logger: logger}
}

// loadStaff fetches a staff member of the acting unit. Staff of other units
// are reported as missing.
func loadStaff(ctx context.Context, repo *repository.Repository, logger *zap.Logger, ac *scope.ActingContext, id string) (*model.StaffMember, error) {
	if err := requireUnit(ac); err != nil {
		return nil, err
	}
	staff, err := repo.Staff.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStaffNotFound
		}
		logger.Error("get staff failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	if !ac.Units.Contains(staff.UnitID) {
		return nil, ErrStaffNotFound
	}
	return staff, nil
}

// ────────────────────── List / Get ──────────────────────

func (s *staffService) List(ctx context.Context, ac *scope.ActingContext, req *dto.StaffListRequest) ([]dto.StaffResponse, int64, error) {
	if err := requireUnit(ac); err != nil {
		return nil, 0, err
	}
	list, total, err := s.repo.Staff.List(ctx, ac.Units, repository.StaffFilter{
		Active:  req.Active,
		Keyword: req.Keyword,
	}, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("list staff failed", zap.Error(err))
		return nil, 0, err
	}
	out := make([]dto.StaffResponse, 0, len(list))
	for i := range list {
		out = append(out, toStaffResponse(&list[i]))
	}
	return out, total, nil
}

func (s *staffService) Get(ctx context.Context, ac *scope.ActingContext, id string) (*dto.StaffResponse, error) {
	staff, err := loadStaff(ctx, s.repo, s.logger, ac, id)
	if err != nil {
		return nil, err
	}
	resp := toStaffResponse(staff)
	return &resp, nil
}

// ────────────────────── Create ──────────────────────

func (s *staffService) Create(ctx context.Context, ac *scope.ActingContext, req *dto.CreateStaffRequest) (*dto.StaffResponse, error) {
	if err := requireUnit(ac); err != nil {
		return nil, err
	}
	staff := &model.StaffMember{
		UnitID:       ac.ActingUnitID,
		Name:         req.Name,
		Phone:        req.Phone,
		Registration: req.Registration,
		IsActive:     true,
	}
	staff.SetCreator(ac.UserID)

	if err := s.repo.Staff.Create(ctx, staff); err != nil {
		return nil, writeFailure(s.logger, "create staff failed", err, staffConstraints)
	}
	resp := toStaffResponse(staff)
	return &resp, nil
}

// ────────────────────── Update ──────────────────────

func (s *staffService) Update(ctx context.Context, ac *scope.ActingContext, id string, req *dto.UpdateStaffRequest) (*dto.StaffResponse, error) {
	staff, err := loadStaff(ctx, s.repo, s.logger, ac, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		staff.Name = *req.Name
	}
	if req.Phone != nil {
		staff.Phone = *req.Phone
	}
	if req.Registration != nil {
		staff.Registration = *req.Registration
	}
	staff.SetUpdater(ac.UserID)

	if err := s.repo.Staff.Update(ctx, staff); err != nil {
		return nil, writeFailure(s.logger, "update staff failed", err, staffConstraints)
	}
	resp := toStaffResponse(staff)
	return &resp, nil
}

func (s *staffService) ToggleActive(ctx context.Context, ac *scope.ActingContext, id string) (*dto.StaffResponse, error) {
	staff, err := loadStaff(ctx, s.repo, s.logger, ac, id)
	if err != nil {
		return nil, err
	}
	staff.IsActive = !staff.IsActive
	staff.SetUpdater(ac.UserID)

	if err := s.repo.Staff.Update(ctx, staff); err != nil {
		return nil, writeFailure(s.logger, "toggle staff failed", err, staffConstraints)
	}
	s.logger.Info("staff active flag changed", zap.String("staff_id", id), zap.Bool("active", staff.IsActive))
	resp := toStaffResponse(staff)
	return &resp, nil
}

func toStaffResponse(m *model.StaffMember) dto.StaffResponse {
	return dto.StaffResponse{
		ID:           m.StaffID,
		UnitID:       m.UnitID,
		Name:         m.Name,
		Phone:        m.Phone,
		Registration: m.Registration,
		IsActive:     m.IsActive,
	}
}
