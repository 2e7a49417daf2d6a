package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/model"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/scope"
)

// ActivityRepository activity catalog data access
type ActivityRepository interface {
	Create(ctx context.Context, activity *model.Activity) error
	GetByID(ctx context.Context, id string) (*model.Activity, error)
	Update(ctx context.Context, activity *model.Activity) error
	List(ctx context.Context, sc scope.Scope, active *bool, offset, limit int) ([]model.Activity, int64, error)
}

type activityRepo struct {
	db *gorm.DB
}

// NewActivityRepo creates an ActivityRepository
func NewActivityRepo(db *gorm.DB) ActivityRepository {
	return &activityRepo{db: db}
}

func (r *activityRepo) Create(ctx context.Context, activity *model.Activity) error {
	return r.db.WithContext(ctx).Create(activity).Error
}

func (r *activityRepo) GetByID(ctx context.Context, id string) (*model.Activity, error) {
	var activity model.Activity
	err := r.db.WithContext(ctx).
		Where("activity_id = ?", id).
		First(&activity).Error
	if err != nil {
		return nil, err
	}
	return &activity, nil
}

func (r *activityRepo) Update(ctx context.Context, activity *model.Activity) error {
	return r.db.WithContext(ctx).Save(activity).Error
}

func (r *activityRepo) List(ctx context.Context, sc scope.Scope, active *bool, offset, limit int) ([]model.Activity, int64, error) {
	var list []model.Activity
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Activity{}).Scopes(sc.Apply("unit_id"))
	if active != nil {
		db = db.Where("is_active = ?", *active)
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
