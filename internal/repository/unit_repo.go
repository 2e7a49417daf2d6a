package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/model"
	pkgerrors "github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/pkg/errors"
)

// UnitRepository unit data access
type UnitRepository interface {
	Create(ctx context.Context, unit *model.Unit) error
	GetByID(ctx context.Context, id string) (*model.Unit, error)
	ListAll(ctx context.Context) ([]model.Unit, error)
	ListByIDs(ctx context.Context, ids []string) ([]model.Unit, error)
	Update(ctx context.Context, unit *model.Unit) error
	Delete(ctx context.Context, id string, deletedBy string) error
	// CountDependents returns, per dependent kind, how many live rows point at the unit.
	CountDependents(ctx context.Context, id string) (map[string]int64, error)
}

// unitDependents every table whose rows block deleting a unit
var unitDependents = []struct {
	kind       string
	table      string
	column     string
	softDelete bool
}{
	{"units", "units", "parent_id", true},
	{"users", "users", "unit_id", true},
	{"staff", "staff_members", "unit_id", false},
	{"vehicles", "vehicles", "unit_id", false},
	{"activities", "activities", "unit_id", false},
	{"goals", "goals", "unit_id", false},
	{"goal_allocations", "goal_allocations", "unit_id", false},
	{"rosters", "duty_rosters", "unit_id", false},
	{"plans", "plans", "unit_id", false},
}

type unitRepo struct {
	db *gorm.DB
}

// NewUnitRepo creates a UnitRepository
func NewUnitRepo(db *gorm.DB) UnitRepository {
	return &unitRepo{db: db}
}

func (r *unitRepo) Create(ctx context.Context, unit *model.Unit) error {
	return r.db.WithContext(ctx).Omit("Parent").Create(unit).Error
}

func (r *unitRepo) GetByID(ctx context.Context, id string) (*model.Unit, error) {
	var unit model.Unit
	err := r.db.WithContext(ctx).
		Where("unit_id = ?", id).
		First(&unit).Error
	if err != nil {
		return nil, err
	}
	return &unit, nil
}

func (r *unitRepo) ListAll(ctx context.Context) ([]model.Unit, error) {
	var units []model.Unit
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&units).Error
	return units, err
}

func (r *unitRepo) ListByIDs(ctx context.Context, ids []string) ([]model.Unit, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var units []model.Unit
	err := r.db.WithContext(ctx).
		Where("unit_id IN ?", ids).
		Find(&units).Error
	return units, err
}

func (r *unitRepo) Update(ctx context.Context, unit *model.Unit) error {
	oldVersion := unit.Version
	result := r.db.WithContext(ctx).
		Model(&model.Unit{}).
		Where("unit_id = ? AND version = ?", unit.UnitID, oldVersion).
		Updates(map[string]interface{}{
			"name":       unit.Name,
			"parent_id":  unit.ParentID,
			"updated_by": unit.UpdatedBy,
			"updated_at": gorm.Expr("NOW()"),
			"version":    oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	unit.Version = oldVersion + 1
	return nil
}

func (r *unitRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.Unit{}).
		Where("unit_id = ?", id).
		Updates(map[string]interface{}{
			"deleted_by": deletedBy,
			"deleted_at": gorm.Expr("NOW()"),
		}).Error
}

func (r *unitRepo) CountDependents(ctx context.Context, id string) (map[string]int64, error) {
	counts := make(map[string]int64)
	for _, dep := range unitDependents {
		q := r.db.WithContext(ctx).Table(dep.table).Where(dep.column+" = ?", id)
		if dep.softDelete {
			q = q.Where("deleted_at IS NULL")
		}
		var n int64
		if err := q.Count(&n).Error; err != nil {
			return nil, err
		}
		if n > 0 {
			counts[dep.kind] = n
		}
	}
	return counts, nil
}
