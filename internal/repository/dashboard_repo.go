package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/model"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/scope"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/pkg/datewindow"
)

// BucketCount row count in one time bucket
type BucketCount struct {
	Bucket time.Time
	Count  int64
}

// BucketSum quantity total in one time bucket
type BucketSum struct {
	Bucket time.Time
	Total  decimal.Decimal
}

// StaffCount plans a staff member took part in
type StaffCount struct {
	StaffID string
	Name    string
	Plans   int64
}

// DashboardRepository read-only aggregates. Buckets are the first day of
// each week (Monday) or month; buckets without rows are absent and the
// caller fills them.
type DashboardRepository interface {
	GoalsCreated(ctx context.Context, sc scope.Scope, r datewindow.Range, g datewindow.Granularity) ([]BucketCount, error)
	ProgressTotals(ctx context.Context, sc scope.Scope, r datewindow.Range, g datewindow.Granularity) ([]BucketSum, error)
	// CoverageDays unit-days covered by committed roster weeks
	CoverageDays(ctx context.Context, sc scope.Scope, r datewindow.Range, g datewindow.Granularity) ([]BucketCount, error)
	// VehicleUsage non-cancelled plans that use a vehicle
	VehicleUsage(ctx context.Context, sc scope.Scope, r datewindow.Range, g datewindow.Granularity) ([]BucketCount, error)
	StaffActivity(ctx context.Context, sc scope.Scope, r datewindow.Range, limit int) ([]StaffCount, error)
}

type dashboardRepo struct {
	db *gorm.DB
}

// NewDashboardRepo creates a DashboardRepository
func NewDashboardRepo(db *gorm.DB) DashboardRepository {
	return &dashboardRepo{db: db}
}

func (r *dashboardRepo) GoalsCreated(ctx context.Context, sc scope.Scope, rng datewindow.Range, g datewindow.Granularity) ([]BucketCount, error) {
	var rows []BucketCount
	err := r.db.WithContext(ctx).
		Table("goals g").
		Select("date_trunc(?, g.created_at)::date AS bucket, COUNT(*) AS count", string(g)).
		Scopes(sc.Apply("g.unit_id")).
		Where("g.created_at::date BETWEEN ? AND ?", rng.Start, rng.End).
		Group("bucket").
		Order("bucket").
		Scan(&rows).Error
	return rows, err
}

func (r *dashboardRepo) ProgressTotals(ctx context.Context, sc scope.Scope, rng datewindow.Range, g datewindow.Granularity) ([]BucketSum, error) {
	var rows []BucketSum
	err := r.db.WithContext(ctx).
		Table("goal_progress_entries e").
		Select("date_trunc(?, e.entry_date)::date AS bucket, COALESCE(SUM(e.quantity), 0) AS total", string(g)).
		Joins("JOIN goal_allocations a ON a.allocation_id = e.allocation_id").
		Scopes(sc.Apply("a.unit_id")).
		Where("e.entry_date BETWEEN ? AND ?", rng.Start, rng.End).
		Group("bucket").
		Order("bucket").
		Scan(&rows).Error
	return rows, err
}

func (r *dashboardRepo) CoverageDays(ctx context.Context, sc scope.Scope, rng datewindow.Range, g datewindow.Granularity) ([]BucketCount, error) {
	var rows []BucketCount
	err := r.db.WithContext(ctx).
		Table("shift_weeks w").
		Select("date_trunc(?, d)::date AS bucket, COUNT(*) AS count", string(g)).
		Joins("JOIN duty_rosters dr ON dr.roster_id = w.roster_id").
		Joins("CROSS JOIN LATERAL generate_series(GREATEST(w.start_date, ?::date), LEAST(w.end_date, ?::date), interval '1 day') AS d",
			rng.Start, rng.End).
		Scopes(sc.Apply("dr.unit_id")).
		Where("w.start_date <= ? AND w.end_date >= ?", rng.End, rng.Start).
		Group("bucket").
		Order("bucket").
		Scan(&rows).Error
	return rows, err
}

func (r *dashboardRepo) VehicleUsage(ctx context.Context, sc scope.Scope, rng datewindow.Range, g datewindow.Granularity) ([]BucketCount, error) {
	var rows []BucketCount
	err := r.db.WithContext(ctx).
		Table("plans p").
		Select("date_trunc(?, p.plan_date)::date AS bucket, COUNT(*) AS count", string(g)).
		Scopes(sc.Apply("p.unit_id")).
		Where("p.vehicle_id IS NOT NULL AND p.status <> ?", model.PlanCancelled).
		Where("p.plan_date BETWEEN ? AND ?", rng.Start, rng.End).
		Group("bucket").
		Order("bucket").
		Scan(&rows).Error
	return rows, err
}

func (r *dashboardRepo) StaffActivity(ctx context.Context, sc scope.Scope, rng datewindow.Range, limit int) ([]StaffCount, error) {
	var rows []StaffCount
	err := r.db.WithContext(ctx).
		Table("plan_item_staff pis").
		Select("s.staff_id, s.name, COUNT(DISTINCT p.plan_id) AS plans").
		Joins("JOIN plan_items pi ON pi.item_id = pis.item_id").
		Joins("JOIN plans p ON p.plan_id = pi.plan_id").
		Joins("JOIN staff_members s ON s.staff_id = pis.staff_id").
		Scopes(sc.Apply("p.unit_id")).
		Where("p.status <> ?", model.PlanCancelled).
		Where("p.plan_date BETWEEN ? AND ?", rng.Start, rng.End).
		Group("s.staff_id, s.name").
		Order("plans DESC, s.name ASC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
