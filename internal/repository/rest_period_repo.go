package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/model"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/scope"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/pkg/datewindow"
)

// RestPeriodFilter optional list filters
type RestPeriodFilter struct {
	StaffID string
	Range   *datewindow.Range // periods overlapping this range
}

// RestPeriodRepository rest period data access
type RestPeriodRepository interface {
	Create(ctx context.Context, period *model.RestPeriod) error
	GetByID(ctx context.Context, id string) (*model.RestPeriod, error)
	Update(ctx context.Context, period *model.RestPeriod) error
	Delete(ctx context.Context, id string) error
	// ListOverlapping periods of the given staff intersecting r, excluding excludeID
	ListOverlapping(ctx context.Context, staffIDs []string, r datewindow.Range, excludeID string) ([]model.RestPeriod, error)
	// List periods of staff whose unit is inside sc
	List(ctx context.Context, sc scope.Scope, filter RestPeriodFilter, offset, limit int) ([]model.RestPeriod, int64, error)
}

type restPeriodRepo struct {
	db *gorm.DB
}

// NewRestPeriodRepo creates a RestPeriodRepository
func NewRestPeriodRepo(db *gorm.DB) RestPeriodRepository {
	return &restPeriodRepo{db: db}
}

func (r *restPeriodRepo) Create(ctx context.Context, period *model.RestPeriod) error {
	return r.db.WithContext(ctx).Omit("Staff").Create(period).Error
}

func (r *restPeriodRepo) GetByID(ctx context.Context, id string) (*model.RestPeriod, error) {
	var period model.RestPeriod
	err := r.db.WithContext(ctx).
		Preload("Staff").
		Where("rest_period_id = ?", id).
		First(&period).Error
	if err != nil {
		return nil, err
	}
	return &period, nil
}

func (r *restPeriodRepo) Update(ctx context.Context, period *model.RestPeriod) error {
	return r.db.WithContext(ctx).Omit("Staff").Save(period).Error
}

func (r *restPeriodRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("rest_period_id = ?", id).
		Delete(&model.RestPeriod{}).Error
}

func (r *restPeriodRepo) ListOverlapping(ctx context.Context, staffIDs []string, rng datewindow.Range, excludeID string) ([]model.RestPeriod, error) {
	if len(staffIDs) == 0 {
		return nil, nil
	}
	var list []model.RestPeriod
	db := r.db.WithContext(ctx).
		Where("staff_id IN ?", staffIDs).
		Where("start_date <= ? AND end_date >= ?", rng.End, rng.Start)
	if excludeID != "" {
		db = db.Where("rest_period_id <> ?", excludeID)
	}
	err := db.Order("start_date ASC").Find(&list).Error
	return list, err
}

func (r *restPeriodRepo) List(ctx context.Context, sc scope.Scope, filter RestPeriodFilter, offset, limit int) ([]model.RestPeriod, int64, error) {
	var list []model.RestPeriod
	var total int64

	db := r.db.WithContext(ctx).Model(&model.RestPeriod{}).
		Joins("JOIN staff_members ON staff_members.staff_id = rest_periods.staff_id").
		Scopes(sc.Apply("staff_members.unit_id"))
	if filter.StaffID != "" {
		db = db.Where("rest_periods.staff_id = ?", filter.StaffID)
	}
	if filter.Range != nil {
		db = db.Where("rest_periods.start_date <= ? AND rest_periods.end_date >= ?", filter.Range.End, filter.Range.Start)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := db.Preload("Staff").
		Offset(offset).Limit(limit).
		Order("rest_periods.start_date DESC").
		Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}
