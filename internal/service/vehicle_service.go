package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/dto"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/model"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/repository"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/scope"
)

var ErrVehicleNotFound = errors.New("vehicle not found")

var vehicleConstraints = map[string]string{
	"uq_vehicles_plate": "plate",
}

// VehicleService vehicles of the acting unit
type VehicleService interface {
	List(ctx context.Context, ac *scope.ActingContext, req *dto.VehicleListRequest) ([]dto.VehicleResponse, int64, error)
	Get(ctx context.Context, ac *scope.ActingContext, id string) (*dto.VehicleResponse, error)
	Create(ctx context.Context, ac *scope.ActingContext, req *dto.CreateVehicleRequest) (*dto.VehicleResponse, error)
	Update(ctx context.Context, ac *scope.ActingContext, id string, req *dto.UpdateVehicleRequest) (*dto.VehicleResponse, error)
	ToggleActive(ctx context.Context, ac *scope.ActingContext, id string) (*dto.VehicleResponse, error)
}

type vehicleService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewVehicleService creates a VehicleService
func NewVehicleService(repo *repository.Repository, logger *zap.Logger) VehicleService {
	return &vehicleService{repo: repo, logger: logger}
}

// normalizePlate plates are stored upper case without spaces or dashes
func normalizePlate(p string) string {
	p = strings.ToUpper(strings.TrimSpace(p))
	return strings.NewReplacer("-", "", " ", "").Replace(p)
}

func (s *vehicleService) load(ctx context.Context, ac *scope.ActingContext, id string) (*model.Vehicle, error) {
	if err := requireUnit(ac); err != nil {
		return nil, err
	}
	v, err := s.repo.Vehicle.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVehicleNotFound
		}
		s.logger.Error("get vehicle failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	if !ac.Units.Contains(v.UnitID) {
		return nil, ErrVehicleNotFound
	}
	return v, nil
}

func (s *vehicleService) List(ctx context.Context, ac *scope.ActingContext, req *dto.VehicleListRequest) ([]dto.VehicleResponse, int64, error) {
	if err := requireUnit(ac); err != nil {
		return nil, 0, err
	}
	list, total, err := s.repo.Vehicle.List(ctx, ac.Units, req.Active, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("list vehicles failed", zap.Error(err))
		return nil, 0, err
	}
	out := make([]dto.VehicleResponse, 0, len(list))
	for i := range list {
		out = append(out, toVehicleResponse(&list[i]))
	}
	return out, total, nil
}

func (s *vehicleService) Get(ctx context.Context, ac *scope.ActingContext, id string) (*dto.VehicleResponse, error) {
	v, err := s.load(ctx, ac, id)
	if err != nil {
		return nil, err
	}
	resp := toVehicleResponse(v)
	return &resp, nil
}

func (s *vehicleService) Create(ctx context.Context, ac *scope.ActingContext, req *dto.CreateVehicleRequest) (*dto.VehicleResponse, error) {
	if err := requireUnit(ac); err != nil {
		return nil, err
	}
	v := &model.Vehicle{
		UnitID:      ac.ActingUnitID,
		Plate:       normalizePlate(req.Plate),
		Description: req.Description,
		IsActive:    true,
	}
	v.SetCreator(ac.UserID)
	if err := s.repo.Vehicle.Create(ctx, v); err != nil {
		return nil, writeFailure(s.logger, "create vehicle failed", err, vehicleConstraints)
	}
	resp := toVehicleResponse(v)
	return &resp, nil
}

func (s *vehicleService) Update(ctx context.Context, ac *scope.ActingContext, id string, req *dto.UpdateVehicleRequest) (*dto.VehicleResponse, error) {
	v, err := s.load(ctx, ac, id)
	if err != nil {
		return nil, err
	}
	if req.Plate != nil {
		v.Plate = normalizePlate(*req.Plate)
	}
	if req.Description != nil {
		v.Description = *req.Description
	}
	v.SetUpdater(ac.UserID)
	if err := s.repo.Vehicle.Update(ctx, v); err != nil {
		return nil, writeFailure(s.logger, "update vehicle failed", err, vehicleConstraints)
	}
	resp := toVehicleResponse(v)
	return &resp, nil
}

func (s *vehicleService) ToggleActive(ctx context.Context, ac *scope.ActingContext, id string) (*dto.VehicleResponse, error) {
	v, err := s.load(ctx, ac, id)
	if err != nil {
		return nil, err
	}
	v.IsActive = !v.IsActive
	v.SetUpdater(ac.UserID)
	if err := s.repo.Vehicle.Update(ctx, v); err != nil {
		return nil, writeFailure(s.logger, "toggle vehicle failed", err, vehicleConstraints)
	}
	resp := toVehicleResponse(v)
	return &resp, nil
}

func toVehicleResponse(v *model.Vehicle) dto.VehicleResponse {
	return dto.VehicleResponse{
		ID:          v.VehicleID,
		UnitID:      v.UnitID,
		Plate:       v.Plate,
		Description: v.Description,
		IsActive:    v.IsActive,
	}
}
