package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/model"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/scope"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/pkg/datewindow"
)

// RosterRepository duty roster data access.
// Weeks and assignments are owned by their roster and deleted with it.
type RosterRepository interface {
	// ListOverlapping rosters of unitID intersecting r, oldest first
	ListOverlapping(ctx context.Context, unitID string, r datewindow.Range) ([]model.DutyRoster, error)
	Create(ctx context.Context, roster *model.DutyRoster) error
	CreateWeek(ctx context.Context, week *model.ShiftWeek) error
	CreateAssignments(ctx context.Context, assignments []model.ShiftAssignment) error
	GetByID(ctx context.Context, id string) (*model.DutyRoster, error)
	List(ctx context.Context, sc scope.Scope, r *datewindow.Range, offset, limit int) ([]model.DutyRoster, int64, error)
	Delete(ctx context.Context, id string) error
	// ListWeeks committed weeks of rosters in sc intersecting r, with assignments in order
	ListWeeks(ctx context.Context, sc scope.Scope, r datewindow.Range) ([]model.ShiftWeek, error)
}

type rosterRepo struct {
	db *gorm.DB
}

// NewRosterRepo creates a RosterRepository
func NewRosterRepo(db *gorm.DB) RosterRepository {
	return &rosterRepo{db: db}
}

func (r *rosterRepo) ListOverlapping(ctx context.Context, unitID string, rng datewindow.Range) ([]model.DutyRoster, error) {
	var list []model.DutyRoster
	err := r.db.WithContext(ctx).
		Where("unit_id = ?", unitID).
		Where("start_date <= ? AND end_date >= ?", rng.End, rng.Start).
		Order("start_date ASC").
		Find(&list).Error
	return list, err
}

func (r *rosterRepo) Create(ctx context.Context, roster *model.DutyRoster) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(roster).Error
}

func (r *rosterRepo) CreateWeek(ctx context.Context, week *model.ShiftWeek) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(week).Error
}

func (r *rosterRepo) CreateAssignments(ctx context.Context, assignments []model.ShiftAssignment) error {
	if len(assignments) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(&assignments).Error
}

func (r *rosterRepo) GetByID(ctx context.Context, id string) (*model.DutyRoster, error) {
	var roster model.DutyRoster
	err := r.db.WithContext(ctx).
		Preload("Unit").
		Preload("Weeks", func(db *gorm.DB) *gorm.DB { return db.Order("ordinal ASC") }).
		Preload("Weeks.Assignments", func(db *gorm.DB) *gorm.DB { return db.Order("ordinal ASC, assignment_id ASC") }).
		Preload("Weeks.Assignments.Staff").
		Where("roster_id = ?", id).
		First(&roster).Error
	if err != nil {
		return nil, err
	}
	return &roster, nil
}

func (r *rosterRepo) List(ctx context.Context, sc scope.Scope, rng *datewindow.Range, offset, limit int) ([]model.DutyRoster, int64, error) {
	var list []model.DutyRoster
	var total int64

	db := r.db.WithContext(ctx).Model(&model.DutyRoster{}).Scopes(sc.Apply("unit_id"))
	if rng != nil {
		db = db.Where("start_date <= ? AND end_date >= ?", rng.End, rng.Start)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := db.Preload("Unit").
		Offset(offset).Limit(limit).
		Order("start_date DESC").
		Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *rosterRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("roster_id = ?", id).
		Delete(&model.DutyRoster{}).Error
}

func (r *rosterRepo) ListWeeks(ctx context.Context, sc scope.Scope, rng datewindow.Range) ([]model.ShiftWeek, error) {
	var weeks []model.ShiftWeek
	err := r.db.WithContext(ctx).
		Joins("JOIN duty_rosters ON duty_rosters.roster_id = shift_weeks.roster_id").
		Scopes(sc.Apply("duty_rosters.unit_id")).
		Where("shift_weeks.start_date <= ? AND shift_weeks.end_date >= ?", rng.End, rng.Start).
		Preload("Assignments", func(db *gorm.DB) *gorm.DB { return db.Order("ordinal ASC, assignment_id ASC") }).
		Preload("Assignments.Staff").
		Order("shift_weeks.start_date ASC, duty_rosters.unit_id ASC, shift_weeks.week_id ASC").
		Find(&weeks).Error
	return weeks, err
}
