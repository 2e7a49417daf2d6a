package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/model"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/scope"
)

// VehicleRepository vehicle data access
type VehicleRepository interface {
	Create(ctx context.Context, vehicle *model.Vehicle) error
	GetByID(ctx context.Context, id string) (*model.Vehicle, error)
	Update(ctx context.Context, vehicle *model.Vehicle) error
	List(ctx context.Context, sc scope.Scope, active *bool, offset, limit int) ([]model.Vehicle, int64, error)
}

type vehicleRepo struct {
	db *gorm.DB
}

// NewVehicleRepo creates a VehicleRepository
func NewVehicleRepo(db *gorm.DB) VehicleRepository {
	return &vehicleRepo{db: db}
}

func (r *vehicleRepo) Create(ctx context.Context, vehicle *model.Vehicle) error {
	return r.db.WithContext(ctx).Create(vehicle).Error
}

func (r *vehicleRepo) GetByID(ctx context.Context, id string) (*model.Vehicle, error) {
	var vehicle model.Vehicle
	err := r.db.WithContext(ctx).
		Where("vehicle_id = ?", id).
		First(&vehicle).Error
	if err != nil {
		return nil, err
	}
	return &vehicle, nil
}

func (r *vehicleRepo) Update(ctx context.Context, vehicle *model.Vehicle) error {
	return r.db.WithContext(ctx).Save(vehicle).Error
}

func (r *vehicleRepo) List(ctx context.Context, sc scope.Scope, active *bool, offset, limit int) ([]model.Vehicle, int64, error) {
	var list []model.Vehicle
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Vehicle{}).Scopes(sc.Apply("unit_id"))
	if active != nil {
		db = db.Where("is_active = ?", *active)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := db.Offset(offset).Limit(limit).
		Order("plate ASC").
		Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}
