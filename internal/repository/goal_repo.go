package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/model"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/scope"
)

// GoalRepository goals, allocations and progress entries
type GoalRepository interface {
	Create(ctx context.Context, goal *model.Goal) error
	GetByID(ctx context.Context, id string) (*model.Goal, error)
	Update(ctx context.Context, goal *model.Goal) error
	// List goals created by a unit in sc or allocated to one
	List(ctx context.Context, sc scope.Scope, includeClosed bool, offset, limit int) ([]model.Goal, int64, error)

	CreateAllocation(ctx context.Context, alloc *model.GoalAllocation) error
	GetAllocation(ctx context.Context, id string) (*model.GoalAllocation, error)
	// SumAllocations total of the allocations sharing parentID (nil = root allocations)
	SumAllocations(ctx context.Context, goalID string, parentID *string) (decimal.Decimal, error)

	CreateProgress(ctx context.Context, entry *model.GoalProgressEntry) error
	// ProgressByGoal total progress per goal id
	ProgressByGoal(ctx context.Context, goalIDs []string) (map[string]decimal.Decimal, error)
	// ProgressByAllocation total progress per allocation of one goal
	ProgressByAllocation(ctx context.Context, goalID string) (map[string]decimal.Decimal, error)
}

type goalRepo struct {
	db *gorm.DB
}

// NewGoalRepo creates a GoalRepository
func NewGoalRepo(db *gorm.DB) GoalRepository {
	return &goalRepo{db: db}
}

type keyedTotal struct {
	Ref   string
	Total decimal.Decimal
}

func (r *goalRepo) Create(ctx context.Context, goal *model.Goal) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(goal).Error
}

func (r *goalRepo) GetByID(ctx context.Context, id string) (*model.Goal, error) {
	var goal model.Goal
	err := r.db.WithContext(ctx).
		Preload("Allocations", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Where("goal_id = ?", id).
		First(&goal).Error
	if err != nil {
		return nil, err
	}
	return &goal, nil
}

func (r *goalRepo) Update(ctx context.Context, goal *model.Goal) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(goal).Error
}

func (r *goalRepo) List(ctx context.Context, sc scope.Scope, includeClosed bool, offset, limit int) ([]model.Goal, int64, error) {
	var list []model.Goal
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Goal{})
	switch {
	case sc.IsUnscoped():
	case sc.IsEmpty():
		db = db.Where("1 = 0")
	default:
		ids := sc.IDs()
		allocated := r.db.Model(&model.GoalAllocation{}).
			Select("goal_id").
			Where("unit_id IN ?", ids)
		db = db.Where("goals.unit_id IN ? OR goals.goal_id IN (?)", ids, allocated)
	}
	if !includeClosed {
		db = db.Where("goals.closed_at IS NULL")
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := db.Offset(offset).Limit(limit).
		Order("goals.created_at DESC").
		Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *goalRepo) CreateAllocation(ctx context.Context, alloc *model.GoalAllocation) error {
	return r.db.WithContext(ctx).Create(alloc).Error
}

func (r *goalRepo) GetAllocation(ctx context.Context, id string) (*model.GoalAllocation, error) {
	var alloc model.GoalAllocation
	err := r.db.WithContext(ctx).
		Where("allocation_id = ?", id).
		First(&alloc).Error
	if err != nil {
		return nil, err
	}
	return &alloc, nil
}

func (r *goalRepo) SumAllocations(ctx context.Context, goalID string, parentID *string) (decimal.Decimal, error) {
	var row struct{ Total decimal.Decimal }
	db := r.db.WithContext(ctx).Model(&model.GoalAllocation{}).
		Select("COALESCE(SUM(quantity), 0) AS total").
		Where("goal_id = ?", goalID)
	if parentID == nil {
		db = db.Where("parent_allocation_id IS NULL")
	} else {
		db = db.Where("parent_allocation_id = ?", *parentID)
	}
	if err := db.Scan(&row).Error; err != nil {
		return decimal.Zero, err
	}
	return row.Total, nil
}

func (r *goalRepo) CreateProgress(ctx context.Context, entry *model.GoalProgressEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *goalRepo) ProgressByGoal(ctx context.Context, goalIDs []string) (map[string]decimal.Decimal, error) {
	out := make(map[string]decimal.Decimal, len(goalIDs))
	if len(goalIDs) == 0 {
		return out, nil
	}
	var rows []keyedTotal
	err := r.db.WithContext(ctx).
		Table("goal_progress_entries e").
		Select("a.goal_id AS ref, SUM(e.quantity) AS total").
		Joins("JOIN goal_allocations a ON a.allocation_id = e.allocation_id").
		Where("a.goal_id IN ?", goalIDs).
		Group("a.goal_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.Ref] = row.Total
	}
	return out, nil
}

func (r *goalRepo) ProgressByAllocation(ctx context.Context, goalID string) (map[string]decimal.Decimal, error) {
	var rows []keyedTotal
	err := r.db.WithContext(ctx).
		Table("goal_progress_entries e").
		Select("e.allocation_id AS ref, SUM(e.quantity) AS total").
		Joins("JOIN goal_allocations a ON a.allocation_id = e.allocation_id").
		Where("a.goal_id = ?", goalID).
		Group("e.allocation_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]decimal.Decimal, len(rows))
	for _, row := range rows {
		out[row.Ref] = row.Total
	}
	return out, nil
}
