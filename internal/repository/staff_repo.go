package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/model"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/scope"
)

// StaffFilter optional staff list filters
type StaffFilter struct {
	Active  *bool
	Keyword string
}

// StaffRepository staff data access
type StaffRepository interface {
	Create(ctx context.Context, staff *model.StaffMember) error
	GetByID(ctx context.Context, id string) (*model.StaffMember, error)
	Update(ctx context.Context, staff *model.StaffMember) error
	List(ctx context.Context, sc scope.Scope, filter StaffFilter, offset, limit int) ([]model.StaffMember, int64, error)
	// ListActiveByUnit active staff of one unit, for roster building
	ListActiveByUnit(ctx context.Context, unitID string) ([]model.StaffMember, error)
	ListByIDs(ctx context.Context, ids []string) ([]model.StaffMember, error)
}

type staffRepo struct {
	db *gorm.DB
}

// NewStaffRepo creates a StaffRepository
func NewStaffRepo(db *gorm.DB) StaffRepository {
	return &staffRepo{db: db}
}

func (r *staffRepo) Create(ctx context.Context, staff *model.StaffMember) error {
	return r.db.WithContext(ctx).Create(staff).Error
}

func (r *staffRepo) GetByID(ctx context.Context, id string) (*model.StaffMember, error) {
	var staff model.StaffMember
	err := r.db.WithContext(ctx).
		Where("staff_id = ?", id).
		First(&staff).Error
	if err != nil {
		return nil, err
	}
	return &staff, nil
}

func (r *staffRepo) Update(ctx context.Context, staff *model.StaffMember) error {
	return r.db.WithContext(ctx).Save(staff).Error
}

func (r *staffRepo) List(ctx context.Context, sc scope.Scope, filter StaffFilter, offset, limit int) ([]model.StaffMember, int64, error) {
	var list []model.StaffMember
	var total int64

	db := r.db.WithContext(ctx).Model(&model.StaffMember{}).Scopes(sc.Apply("unit_id"))
	if filter.Active != nil {
		db = db.Where("is_active = ?", *filter.Active)
	}
	if filter.Keyword != "" {
		db = db.Where("name ILIKE ?", "%"+filter.Keyword+"%")
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := db.Offset(offset).Limit(limit).
		Order("name ASC").
		Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *staffRepo) ListActiveByUnit(ctx context.Context, unitID string) ([]model.StaffMember, error) {
	var list []model.StaffMember
	err := r.db.WithContext(ctx).
		Where("unit_id = ? AND is_active = ?", unitID, true).
		Find(&list).Error
	return list, err
}

func (r *staffRepo) ListByIDs(ctx context.Context, ids []string) ([]model.StaffMember, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var list []model.StaffMember
	err := r.db.WithContext(ctx).
		Where("staff_id IN ?", ids).
		Find(&list).Error
	return list, err
}
