package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/model"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/scope"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/pkg/datewindow"
)

// PlanFilter optional plan list filters
type PlanFilter struct {
	Range  *datewindow.Range
	Status string
}

// PlanRepository activity plan data access
type PlanRepository interface {
	// Create inserts the plan with its items and item staff
	Create(ctx context.Context, plan *model.Plan) error
	GetByID(ctx context.Context, id string) (*model.Plan, error)
	List(ctx context.Context, sc scope.Scope, filter PlanFilter, offset, limit int) ([]model.Plan, int64, error)
	UpdateStatus(ctx context.Context, id, status string, doneAt *time.Time, updatedBy string) error
	Delete(ctx context.Context, id string) error
}

type planRepo struct {
	db *gorm.DB
}

// NewPlanRepo creates a PlanRepository
func NewPlanRepo(db *gorm.DB) PlanRepository {
	return &planRepo{db: db}
}

func (r *planRepo) Create(ctx context.Context, plan *model.Plan) error {
	return r.db.WithContext(ctx).Omit("Vehicle").Create(plan).Error
}

func (r *planRepo) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Vehicle").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Items.Activity").
		Preload("Items.Staff.Staff")
}

func (r *planRepo) GetByID(ctx context.Context, id string) (*model.Plan, error) {
	var plan model.Plan
	err := r.preloaded(ctx).
		Where("plan_id = ?", id).
		First(&plan).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *planRepo) List(ctx context.Context, sc scope.Scope, filter PlanFilter, offset, limit int) ([]model.Plan, int64, error) {
	var list []model.Plan
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Plan{}).Scopes(sc.Apply("unit_id"))
	if filter.Range != nil {
		db = db.Where("plan_date BETWEEN ? AND ?", filter.Range.Start, filter.Range.End)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ids []string
	if err := db.Offset(offset).Limit(limit).
		Order("plan_date DESC, created_at DESC").
		Pluck("plan_id", &ids).Error; err != nil {
		return nil, 0, err
	}
	if len(ids) == 0 {
		return list, total, nil
	}
	if err := r.preloaded(ctx).
		Where("plan_id IN ?", ids).
		Order("plan_date DESC, created_at DESC").
		Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *planRepo) UpdateStatus(ctx context.Context, id, status string, doneAt *time.Time, updatedBy string) error {
	result := r.db.WithContext(ctx).
		Model(&model.Plan{}).
		Where("plan_id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"done_at":    doneAt,
			"updated_by": updatedBy,
			"updated_at": gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *planRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("plan_id = ?", id).
		Delete(&model.Plan{}).Error
}
