package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/dto"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/model"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/repository"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/scope"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/pkg/datewindow"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/pkg/policy"
)

// ── fixtures ──

// Unit tree used by most tests:
//
//	root
//	├── north
//	│   └── north-a
//	└── south
const (
	unitRoot   = "unit-root"
	unitNorth  = "unit-north"
	unitNorthA = "unit-north-a"
	unitSouth  = "unit-south"
)

func strPtr(s string) *string { return &s }

func day(s string) time.Time {
	t, err := datewindow.Parse(s)
	if err != nil {
		panic(err)
	}
	return t
}

// actingAt builds the acting context the resolver would produce for a
// caller acting at unitID with the given role.
func actingAt(userID, role, unitID string, subtree ...string) *scope.ActingContext {
	caps := policy.DefaultGrants()[role]
	if role == policy.RoleAdmin {
		caps = append(caps, policy.DefaultGrants()[policy.RoleSupervisor]...)
	}
	visible := []scope.UnitRef{{ID: unitID, Name: unitID}}
	for _, id := range subtree {
		visible = append(visible, scope.UnitRef{ID: id, Name: id})
	}
	ac := &scope.ActingContext{
		UserID:              userID,
		Role:                role,
		HomeUnitID:          unitID,
		ActingUnitID:        unitID,
		ActingUnitName:      unitID,
		CanActOnDescendants: len(subtree) > 0,
		Capabilities:        caps,
		Visible:             visible,
		Units:               scope.Of(unitID),
		Subtree:             scope.Of(append([]string{unitID}, subtree...)...),
	}
	return ac
}

// ── Mock UnitRepository ──

type mockUnitRepo struct {
	units      map[string]*model.Unit
	dependents map[string]map[string]int64
	seq        int
}

func newMockUnitRepo() *mockUnitRepo {
	m := &mockUnitRepo{
		units:      make(map[string]*model.Unit),
		dependents: make(map[string]map[string]int64),
	}
	m.units[unitRoot] = &model.Unit{UnitID: unitRoot, Name: "Agência Central"}
	m.units[unitNorth] = &model.Unit{UnitID: unitNorth, Name: "Regional Norte", ParentID: strPtr(unitRoot)}
	m.units[unitNorthA] = &model.Unit{UnitID: unitNorthA, Name: "Escritório Ariquemes", ParentID: strPtr(unitNorth)}
	m.units[unitSouth] = &model.Unit{UnitID: unitSouth, Name: "Regional Sul", ParentID: strPtr(unitRoot)}
	for _, u := range m.units {
		u.Version = 1
	}
	return m
}

func (m *mockUnitRepo) Create(_ context.Context, unit *model.Unit) error {
	for _, u := range m.units {
		if u.Name == unit.Name && derefString(u.ParentID) == derefString(unit.ParentID) {
			return uniqueViolation("uq_units_parent_name")
		}
	}
	if unit.UnitID == "" {
		m.seq++
		unit.UnitID = fmt.Sprintf("unit-%d", m.seq)
	}
	unit.Version = 1
	m.units[unit.UnitID] = unit
	return nil
}

func (m *mockUnitRepo) GetByID(_ context.Context, id string) (*model.Unit, error) {
	if u, ok := m.units[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUnitRepo) ListAll(_ context.Context) ([]model.Unit, error) {
	out := make([]model.Unit, 0, len(m.units))
	for _, u := range m.units {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UnitID < out[j].UnitID })
	return out, nil
}

func (m *mockUnitRepo) ListByIDs(_ context.Context, ids []string) ([]model.Unit, error) {
	var out []model.Unit
	for _, id := range ids {
		if u, ok := m.units[id]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (m *mockUnitRepo) Update(_ context.Context, unit *model.Unit) error {
	cur, ok := m.units[unit.UnitID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	unit.Version = cur.Version + 1
	cp := *unit
	m.units[unit.UnitID] = &cp
	return nil
}

func (m *mockUnitRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.units, id)
	return nil
}

func (m *mockUnitRepo) CountDependents(_ context.Context, id string) (map[string]int64, error) {
	out := make(map[string]int64)
	for _, u := range m.units {
		if derefString(u.ParentID) == id {
			out["units"]++
		}
	}
	for k, v := range m.dependents[id] {
		out[k] += v
	}
	return out, nil
}

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
	units *mockUnitRepo
	seq   int
}

func newMockUserRepo(units *mockUnitRepo) *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User), units: units}
}

func (m *mockUserRepo) withUnit(u *model.User) *model.User {
	cp := *u
	if unit, ok := m.units.units[u.UnitID]; ok {
		cp.Unit = unit
	}
	return &cp
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	for _, u := range m.users {
		if u.Username == user.Username {
			return uniqueViolation("uq_users_username")
		}
	}
	if user.UserID == "" {
		m.seq++
		user.UserID = fmt.Sprintf("user-%d", m.seq)
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return m.withUnit(u), nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return m.withUnit(u), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) List(_ context.Context, filter repository.UserFilter, offset, limit int) ([]model.User, int64, error) {
	var out []model.User
	for _, u := range m.users {
		if filter.UnitID != "" && u.UnitID != filter.UnitID {
			continue
		}
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		if filter.Keyword != "" && !strings.Contains(strings.ToLower(u.Name+" "+u.Username), strings.ToLower(filter.Keyword)) {
			continue
		}
		out = append(out, *m.withUnit(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, offset, limit), int64(len(out)), nil
}

// ── Mock StaffRepository ──

type mockStaffRepo struct {
	staff map[string]*model.StaffMember
	seq   int
}

func newMockStaffRepo() *mockStaffRepo {
	return &mockStaffRepo{staff: make(map[string]*model.StaffMember)}
}

func (m *mockStaffRepo) add(id, unitID, name, phone string) *model.StaffMember {
	s := &model.StaffMember{StaffID: id, UnitID: unitID, Name: name, Phone: phone, IsActive: true}
	m.staff[id] = s
	return s
}

func (m *mockStaffRepo) Create(_ context.Context, staff *model.StaffMember) error {
	for _, s := range m.staff {
		if s.UnitID == staff.UnitID && s.Name == staff.Name {
			return uniqueViolation("uq_staff_unit_name")
		}
	}
	if staff.StaffID == "" {
		m.seq++
		staff.StaffID = fmt.Sprintf("staff-%d", m.seq)
	}
	m.staff[staff.StaffID] = staff
	return nil
}

func (m *mockStaffRepo) GetByID(_ context.Context, id string) (*model.StaffMember, error) {
	if s, ok := m.staff[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStaffRepo) Update(_ context.Context, staff *model.StaffMember) error {
	if _, ok := m.staff[staff.StaffID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *staff
	m.staff[staff.StaffID] = &cp
	return nil
}

func (m *mockStaffRepo) List(_ context.Context, sc scope.Scope, filter repository.StaffFilter, offset, limit int) ([]model.StaffMember, int64, error) {
	var out []model.StaffMember
	for _, s := range m.staff {
		if !sc.Contains(s.UnitID) {
			continue
		}
		if filter.Active != nil && s.IsActive != *filter.Active {
			continue
		}
		if filter.Keyword != "" && !strings.Contains(strings.ToLower(s.Name), strings.ToLower(filter.Keyword)) {
			continue
		}
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, offset, limit), int64(len(out)), nil
}

func (m *mockStaffRepo) ListActiveByUnit(_ context.Context, unitID string) ([]model.StaffMember, error) {
	var out []model.StaffMember
	for _, s := range m.staff {
		if s.UnitID == unitID && s.IsActive {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StaffID < out[j].StaffID })
	return out, nil
}

func (m *mockStaffRepo) ListByIDs(_ context.Context, ids []string) ([]model.StaffMember, error) {
	var out []model.StaffMember
	for _, id := range ids {
		if s, ok := m.staff[id]; ok {
			out = append(out, *s)
		}
	}
	return out, nil
}

// ── Mock VehicleRepository ──

type mockVehicleRepo struct {
	vehicles map[string]*model.Vehicle
	seq      int
}

func newMockVehicleRepo() *mockVehicleRepo {
	return &mockVehicleRepo{vehicles: make(map[string]*model.Vehicle)}
}

func (m *mockVehicleRepo) Create(_ context.Context, v *model.Vehicle) error {
	for _, cur := range m.vehicles {
		if cur.Plate == v.Plate {
			return uniqueViolation("uq_vehicles_plate")
		}
	}
	if v.VehicleID == "" {
		m.seq++
		v.VehicleID = fmt.Sprintf("vehicle-%d", m.seq)
	}
	m.vehicles[v.VehicleID] = v
	return nil
}

func (m *mockVehicleRepo) GetByID(_ context.Context, id string) (*model.Vehicle, error) {
	if v, ok := m.vehicles[id]; ok {
		cp := *v
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockVehicleRepo) Update(_ context.Context, v *model.Vehicle) error {
	for id, cur := range m.vehicles {
		if id != v.VehicleID && cur.Plate == v.Plate {
			return uniqueViolation("uq_vehicles_plate")
		}
	}
	cp := *v
	m.vehicles[v.VehicleID] = &cp
	return nil
}

func (m *mockVehicleRepo) List(_ context.Context, sc scope.Scope, active *bool, offset, limit int) ([]model.Vehicle, int64, error) {
	var out []model.Vehicle
	for _, v := range m.vehicles {
		if sc.Contains(v.UnitID) && (active == nil || v.IsActive == *active) {
			out = append(out, *v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Plate < out[j].Plate })
	return page(out, offset, limit), int64(len(out)), nil
}

// ── Mock ActivityRepository ──

type mockActivityRepo struct {
	activities map[string]*model.Activity
	seq        int
}

func newMockActivityRepo() *mockActivityRepo {
	return &mockActivityRepo{activities: make(map[string]*model.Activity)}
}

func (m *mockActivityRepo) add(id, unitID, name string) *model.Activity {
	a := &model.Activity{ActivityID: id, UnitID: unitID, Name: name, IsActive: true}
	m.activities[id] = a
	return a
}

func (m *mockActivityRepo) Create(_ context.Context, a *model.Activity) error {
	for _, cur := range m.activities {
		if cur.UnitID == a.UnitID && cur.Name == a.Name {
			return uniqueViolation("uq_activities_unit_name")
		}
	}
	if a.ActivityID == "" {
		m.seq++
		a.ActivityID = fmt.Sprintf("activity-%d", m.seq)
	}
	m.activities[a.ActivityID] = a
	return nil
}

func (m *mockActivityRepo) GetByID(_ context.Context, id string) (*model.Activity, error) {
	if a, ok := m.activities[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockActivityRepo) Update(_ context.Context, a *model.Activity) error {
	cp := *a
	m.activities[a.ActivityID] = &cp
	return nil
}

func (m *mockActivityRepo) List(_ context.Context, sc scope.Scope, active *bool, offset, limit int) ([]model.Activity, int64, error) {
	var out []model.Activity
	for _, a := range m.activities {
		if sc.Contains(a.UnitID) && (active == nil || a.IsActive == *active) {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, offset, limit), int64(len(out)), nil
}

// ── Mock RestPeriodRepository ──

type mockRestPeriodRepo struct {
	periods map[string]*model.RestPeriod
	staff   *mockStaffRepo
	seq     int
}

func newMockRestPeriodRepo(staff *mockStaffRepo) *mockRestPeriodRepo {
	return &mockRestPeriodRepo{periods: make(map[string]*model.RestPeriod), staff: staff}
}

func (m *mockRestPeriodRepo) add(id, staffID, start, end, category, notes string) *model.RestPeriod {
	p := &model.RestPeriod{
		RestPeriodID: id,
		StaffID:      staffID,
		StartDate:    day(start),
		EndDate:      day(end),
		Category:     category,
		Notes:        notes,
	}
	m.periods[id] = p
	return p
}

func (m *mockRestPeriodRepo) withStaff(p *model.RestPeriod) model.RestPeriod {
	cp := *p
	if s, ok := m.staff.staff[p.StaffID]; ok {
		cp.Staff = s
	}
	return cp
}

func (m *mockRestPeriodRepo) Create(_ context.Context, p *model.RestPeriod) error {
	if p.RestPeriodID == "" {
		m.seq++
		p.RestPeriodID = fmt.Sprintf("rest-%d", m.seq)
	}
	cp := *p
	m.periods[p.RestPeriodID] = &cp
	return nil
}

func (m *mockRestPeriodRepo) GetByID(_ context.Context, id string) (*model.RestPeriod, error) {
	if p, ok := m.periods[id]; ok {
		cp := m.withStaff(p)
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRestPeriodRepo) Update(_ context.Context, p *model.RestPeriod) error {
	if _, ok := m.periods[p.RestPeriodID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *p
	cp.Staff = nil
	m.periods[p.RestPeriodID] = &cp
	return nil
}

func (m *mockRestPeriodRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.periods[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.periods, id)
	return nil
}

func (m *mockRestPeriodRepo) ListOverlapping(_ context.Context, staffIDs []string, r datewindow.Range, excludeID string) ([]model.RestPeriod, error) {
	want := make(map[string]bool, len(staffIDs))
	for _, id := range staffIDs {
		want[id] = true
	}
	var out []model.RestPeriod
	for _, p := range m.periods {
		if !want[p.StaffID] || p.RestPeriodID == excludeID {
			continue
		}
		if datewindow.MustNew(p.StartDate, p.EndDate).Overlaps(r) {
			out = append(out, m.withStaff(p))
		}
	}
	// start_date, unit_id, week_id like the SQL ORDER BY
	sort.Slice(out, func(i, j int) bool {
		wi, wj := out[i], out[j]
		if !wi.StartDate.Equal(wj.StartDate) {
			return wi.StartDate.Before(wj.StartDate)
		}
		ui, uj := m.rosters[wi.RosterID].UnitID, m.rosters[wj.RosterID].UnitID
		if ui != uj {
			return ui < uj
		}
		return wi.WeekID < wj.WeekID
	})
	return out, nil
}

func (m *mockRestPeriodRepo) List(_ context.Context, sc scope.Scope, filter repository.RestPeriodFilter, offset, limit int) ([]model.RestPeriod, int64, error) {
	var out []model.RestPeriod
	for _, p := range m.periods {
		cp := m.withStaff(p)
		if cp.Staff == nil || !sc.Contains(cp.Staff.UnitID) {
			continue
		}
		if filter.StaffID != "" && p.StaffID != filter.StaffID {
			continue
		}
		if filter.Range != nil && !datewindow.MustNew(p.StartDate, p.EndDate).Overlaps(*filter.Range) {
			continue
		}
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return page(out, offset, limit), int64(len(out)), nil
}

// ── Mock RosterRepository ──

type mockRosterRepo struct {
	rosters     map[string]*model.DutyRoster
	weeks       map[string]*model.ShiftWeek
	assignments []model.ShiftAssignment
	staff       *mockStaffRepo
	units       *mockUnitRepo
	seq         int

	// overlapCalls counts ListOverlapping calls; a roster in racing is
	// reported from call number raceOnCall onward.
	overlapCalls int
	raceOnCall   int
	racing       *model.DutyRoster
	failCreate   error
}

func newMockRosterRepo(staff *mockStaffRepo, units *mockUnitRepo) *mockRosterRepo {
	return &mockRosterRepo{
		rosters: make(map[string]*model.DutyRoster),
		weeks:   make(map[string]*model.ShiftWeek),
		staff:   staff,
		units:   units,
	}
}

func (m *mockRosterRepo) ListOverlapping(_ context.Context, unitID string, r datewindow.Range) ([]model.DutyRoster, error) {
	m.overlapCalls++
	var out []model.DutyRoster
	for _, dr := range m.rosters {
		if dr.UnitID == unitID && datewindow.MustNew(dr.StartDate, dr.EndDate).Overlaps(r) {
			out = append(out, *dr)
		}
	}
	if m.racing != nil && m.raceOnCall > 0 && m.overlapCalls >= m.raceOnCall {
		out = append(out, *m.racing)
	}
	// start_date, unit_id, week_id like the SQL ORDER BY
	sort.Slice(out, func(i, j int) bool {
		wi, wj := out[i], out[j]
		if !wi.StartDate.Equal(wj.StartDate) {
			return wi.StartDate.Before(wj.StartDate)
		}
		ui, uj := m.rosters[wi.RosterID].UnitID, m.rosters[wj.RosterID].UnitID
		if ui != uj {
			return ui < uj
		}
		return wi.WeekID < wj.WeekID
	})
	return out, nil
}

func (m *mockRosterRepo) Create(_ context.Context, dr *model.DutyRoster) error {
	if m.failCreate != nil {
		return m.failCreate
	}
	m.seq++
	dr.RosterID = fmt.Sprintf("roster-%d", m.seq)
	dr.CreatedAt = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	cp := *dr
	m.rosters[dr.RosterID] = &cp
	return nil
}

func (m *mockRosterRepo) CreateWeek(_ context.Context, w *model.ShiftWeek) error {
	m.seq++
	w.WeekID = fmt.Sprintf("week-%d", m.seq)
	cp := *w
	m.weeks[w.WeekID] = &cp
	return nil
}

func (m *mockRosterRepo) CreateAssignments(_ context.Context, list []model.ShiftAssignment) error {
	m.assignments = append(m.assignments, list...)
	return nil
}

func (m *mockRosterRepo) weeksOf(rosterID string) []model.ShiftWeek {
	var out []model.ShiftWeek
	for _, w := range m.weeks {
		if w.RosterID != rosterID {
			continue
		}
		cp := *w
		cp.Assignments = nil
		for _, a := range m.assignments {
			if a.WeekID == w.WeekID {
				ac := a
				if s, ok := m.staff.staff[a.StaffID]; ok {
					ac.Staff = s
				}
				cp.Assignments = append(cp.Assignments, ac)
			}
		}
		sort.Slice(cp.Assignments, func(i, j int) bool {
			ai, aj := cp.Assignments[i], cp.Assignments[j]
			if ai.Ordinal != aj.Ordinal {
				return ai.Ordinal < aj.Ordinal
			}
			return ai.AssignmentID < aj.AssignmentID
		})
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out
}

func (m *mockRosterRepo) GetByID(_ context.Context, id string) (*model.DutyRoster, error) {
	dr, ok := m.rosters[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *dr
	if u, ok := m.units.units[dr.UnitID]; ok {
		cp.Unit = u
	}
	cp.Weeks = m.weeksOf(id)
	return &cp, nil
}

func (m *mockRosterRepo) List(_ context.Context, sc scope.Scope, r *datewindow.Range, offset, limit int) ([]model.DutyRoster, int64, error) {
	var out []model.DutyRoster
	for _, dr := range m.rosters {
		if !sc.Contains(dr.UnitID) {
			continue
		}
		if r != nil && !datewindow.MustNew(dr.StartDate, dr.EndDate).Overlaps(*r) {
			continue
		}
		out = append(out, *dr)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.After(out[j].StartDate) })
	return page(out, offset, limit), int64(len(out)), nil
}

func (m *mockRosterRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.rosters[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.rosters, id)
	for wid, w := range m.weeks {
		if w.RosterID == id {
			delete(m.weeks, wid)
		}
	}
	return nil
}

func (m *mockRosterRepo) ListWeeks(_ context.Context, sc scope.Scope, r datewindow.Range) ([]model.ShiftWeek, error) {
	var out []model.ShiftWeek
	for id, dr := range m.rosters {
		if !sc.Contains(dr.UnitID) {
			continue
		}
		for _, w := range m.weeksOf(id) {
			if datewindow.MustNew(w.StartDate, w.EndDate).Overlaps(r) {
				out = append(out, w)
			}
		}
	}
	// start_date, unit_id, week_id like the SQL ORDER BY
	sort.Slice(out, func(i, j int) bool {
		wi, wj := out[i], out[j]
		if !wi.StartDate.Equal(wj.StartDate) {
			return wi.StartDate.Before(wj.StartDate)
		}
		ui, uj := m.rosters[wi.RosterID].UnitID, m.rosters[wj.RosterID].UnitID
		if ui != uj {
			return ui < uj
		}
		return wi.WeekID < wj.WeekID
	})
	return out, nil
}

// ── Mock GoalRepository ──

type mockGoalRepo struct {
	goals       map[string]*model.Goal
	allocations map[string]*model.GoalAllocation
	progress    []model.GoalProgressEntry
	seq         int
}

func newMockGoalRepo() *mockGoalRepo {
	return &mockGoalRepo{
		goals:       make(map[string]*model.Goal),
		allocations: make(map[string]*model.GoalAllocation),
	}
}

func (m *mockGoalRepo) next(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s-%d", prefix, m.seq)
}

func (m *mockGoalRepo) Create(_ context.Context, g *model.Goal) error {
	if g.GoalID == "" {
		g.GoalID = m.next("goal")
	}
	cp := *g
	m.goals[g.GoalID] = &cp
	return nil
}

func (m *mockGoalRepo) GetByID(_ context.Context, id string) (*model.Goal, error) {
	g, ok := m.goals[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *g
	cp.Allocations = nil
	for _, a := range m.allocations {
		if a.GoalID == id {
			cp.Allocations = append(cp.Allocations, *a)
		}
	}
	sort.Slice(cp.Allocations, func(i, j int) bool { return cp.Allocations[i].AllocationID < cp.Allocations[j].AllocationID })
	return &cp, nil
}

func (m *mockGoalRepo) Update(_ context.Context, g *model.Goal) error {
	if _, ok := m.goals[g.GoalID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *g
	cp.Allocations = nil
	m.goals[g.GoalID] = &cp
	return nil
}

func (m *mockGoalRepo) List(ctx context.Context, sc scope.Scope, includeClosed bool, offset, limit int) ([]model.Goal, int64, error) {
	var out []model.Goal
	for id, g := range m.goals {
		if g.ClosedAt != nil && !includeClosed {
			continue
		}
		match := sc.Contains(g.UnitID)
		for _, a := range m.allocations {
			if a.GoalID == id && sc.Contains(a.UnitID) {
				match = true
			}
		}
		if match {
			full, _ := m.GetByID(ctx, id)
			out = append(out, *full)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, offset, limit), int64(len(out)), nil
}

func (m *mockGoalRepo) CreateAllocation(_ context.Context, a *model.GoalAllocation) error {
	if a.AllocationID == "" {
		a.AllocationID = m.next("alloc")
	}
	cp := *a
	m.allocations[a.AllocationID] = &cp
	return nil
}

func (m *mockGoalRepo) GetAllocation(_ context.Context, id string) (*model.GoalAllocation, error) {
	if a, ok := m.allocations[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockGoalRepo) SumAllocations(_ context.Context, goalID string, parentID *string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, a := range m.allocations {
		if a.GoalID == goalID && derefString(a.ParentAllocationID) == derefString(parentID) {
			total = total.Add(a.Quantity)
		}
	}
	return total, nil
}

func (m *mockGoalRepo) CreateProgress(_ context.Context, e *model.GoalProgressEntry) error {
	if e.EntryID == "" {
		e.EntryID = m.next("progress")
	}
	m.progress = append(m.progress, *e)
	return nil
}

func (m *mockGoalRepo) ProgressByGoal(_ context.Context, goalIDs []string) (map[string]decimal.Decimal, error) {
	want := make(map[string]bool, len(goalIDs))
	for _, id := range goalIDs {
		want[id] = true
	}
	out := make(map[string]decimal.Decimal)
	for _, e := range m.progress {
		a, ok := m.allocations[e.AllocationID]
		if ok && want[a.GoalID] {
			out[a.GoalID] = out[a.GoalID].Add(e.Quantity)
		}
	}
	return out, nil
}

func (m *mockGoalRepo) ProgressByAllocation(_ context.Context, goalID string) (map[string]decimal.Decimal, error) {
	out := make(map[string]decimal.Decimal)
	for _, e := range m.progress {
		a, ok := m.allocations[e.AllocationID]
		if ok && a.GoalID == goalID {
			out[a.AllocationID] = out[a.AllocationID].Add(e.Quantity)
		}
	}
	return out, nil
}

// ── Mock PlanRepository ──

type mockPlanRepo struct {
	plans map[string]*model.Plan
	seq   int
}

func newMockPlanRepo() *mockPlanRepo {
	return &mockPlanRepo{plans: make(map[string]*model.Plan)}
}

func (m *mockPlanRepo) Create(_ context.Context, p *model.Plan) error {
	m.seq++
	p.PlanID = fmt.Sprintf("plan-%d", m.seq)
	for i := range p.Items {
		p.Items[i].ItemID = fmt.Sprintf("%s-item-%d", p.PlanID, i+1)
		p.Items[i].PlanID = p.PlanID
	}
	cp := *p
	m.plans[p.PlanID] = &cp
	return nil
}

func (m *mockPlanRepo) GetByID(_ context.Context, id string) (*model.Plan, error) {
	if p, ok := m.plans[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPlanRepo) List(_ context.Context, sc scope.Scope, filter repository.PlanFilter, offset, limit int) ([]model.Plan, int64, error) {
	var out []model.Plan
	for _, p := range m.plans {
		if !sc.Contains(p.UnitID) {
			continue
		}
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		if filter.Range != nil && !filter.Range.Contains(p.PlanDate) {
			continue
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlanDate.Before(out[j].PlanDate) })
	return page(out, offset, limit), int64(len(out)), nil
}

func (m *mockPlanRepo) UpdateStatus(_ context.Context, id, status string, doneAt *time.Time, _ string) error {
	p, ok := m.plans[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Status = status
	p.DoneAt = doneAt
	return nil
}

func (m *mockPlanRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.plans[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.plans, id)
	return nil
}

// ── Mock DashboardRepository ──

type mockDashboardRepo struct {
	goals    []repository.BucketCount
	progress []repository.BucketSum
	coverage []repository.BucketCount
	vehicles []repository.BucketCount
	staff    []repository.StaffCount

	// unit-owned rows, filtered by the scope the way the SQL filter does
	goalsByUnit    map[string][]repository.BucketCount
	progressByUnit map[string][]repository.BucketSum

	calls     int
	lastScope scope.Scope
}

func (m *mockDashboardRepo) GoalsCreated(_ context.Context, sc scope.Scope, _ datewindow.Range, _ datewindow.Granularity) ([]repository.BucketCount, error) {
	m.calls++
	m.lastScope = sc
	out := append([]repository.BucketCount(nil), m.goals...)
	for unitID, rows := range m.goalsByUnit {
		if sc.Contains(unitID) {
			out = append(out, rows...)
		}
	}
	return out, nil
}

func (m *mockDashboardRepo) ProgressTotals(_ context.Context, sc scope.Scope, _ datewindow.Range, _ datewindow.Granularity) ([]repository.BucketSum, error) {
	m.calls++
	out := append([]repository.BucketSum(nil), m.progress...)
	for unitID, rows := range m.progressByUnit {
		if sc.Contains(unitID) {
			out = append(out, rows...)
		}
	}
	return out, nil
}

func (m *mockDashboardRepo) CoverageDays(_ context.Context, _ scope.Scope, _ datewindow.Range, _ datewindow.Granularity) ([]repository.BucketCount, error) {
	m.calls++
	return m.coverage, nil
}

func (m *mockDashboardRepo) VehicleUsage(_ context.Context, _ scope.Scope, _ datewindow.Range, _ datewindow.Granularity) ([]repository.BucketCount, error) {
	m.calls++
	return m.vehicles, nil
}

func (m *mockDashboardRepo) StaffActivity(_ context.Context, _ scope.Scope, _ datewindow.Range, _ int) ([]repository.StaffCount, error) {
	m.calls++
	return m.staff, nil
}

// ── Mock stores ──

type mockDraftStore struct {
	drafts map[string]any
	saves  int
}

func newMockDraftStore() *mockDraftStore {
	return &mockDraftStore{drafts: make(map[string]any)}
}

func (m *mockDraftStore) SaveDraft(_ context.Context, userID string, v any) error {
	m.saves++
	m.drafts[userID] = v
	return nil
}

func (m *mockDraftStore) LoadDraft(_ context.Context, userID string, v any) (bool, error) {
	stored, ok := m.drafts[userID]
	if !ok {
		return false, nil
	}
	dst, ok1 := v.(*dto.RosterDraft)
	src, ok2 := stored.(*dto.RosterDraft)
	if ok1 && ok2 {
		*dst = *src
	}
	return true, nil
}

func (m *mockDraftStore) ClearDraft(_ context.Context, userID string) error {
	delete(m.drafts, userID)
	return nil
}

type mockRosterMetrics struct {
	created   int
	conflicts map[string]int
}

func newMockRosterMetrics() *mockRosterMetrics {
	return &mockRosterMetrics{conflicts: make(map[string]int)}
}

func (m *mockRosterMetrics) RosterCreated()             { m.created++ }
func (m *mockRosterMetrics) RosterConflict(kind string) { m.conflicts[kind]++ }

type mockBlacklist struct {
	revoked map[string]time.Duration
}

func (m *mockBlacklist) BlacklistToken(_ context.Context, jti string, ttl time.Duration) error {
	if m.revoked == nil {
		m.revoked = make(map[string]time.Duration)
	}
	m.revoked[jti] = ttl
	return nil
}

type mockTreeInvalidator struct{ calls int }

func (m *mockTreeInvalidator) Invalidate(context.Context) { m.calls++ }

// ── helpers ──

func uniqueViolation(constraint string) error {
	return &pgconn.PgError{Code: "23505", ConstraintName: constraint}
}

func serializationFailure() error {
	return &pgconn.PgError{Code: "40001"}
}

func page[T any](list []T, offset, limit int) []T {
	if offset >= len(list) {
		return []T{}
	}
	end := offset + limit
	if limit <= 0 || end > len(list) {
		end = len(list)
	}
	return list[offset:end]
}

// mockRepos every mock wired into one aggregate
type mockRepos struct {
	repo      *repository.Repository
	units     *mockUnitRepo
	users     *mockUserRepo
	staff     *mockStaffRepo
	vehicles  *mockVehicleRepo
	rests     *mockRestPeriodRepo
	rosters   *mockRosterRepo
	activity  *mockActivityRepo
	goals     *mockGoalRepo
	plans     *mockPlanRepo
	dashboard *mockDashboardRepo
}

func newMockRepos() *mockRepos {
	units := newMockUnitRepo()
	staff := newMockStaffRepo()
	m := &mockRepos{
		units:     units,
		users:     newMockUserRepo(units),
		staff:     staff,
		vehicles:  newMockVehicleRepo(),
		rests:     newMockRestPeriodRepo(staff),
		rosters:   newMockRosterRepo(staff, units),
		activity:  newMockActivityRepo(),
		goals:     newMockGoalRepo(),
		plans:     newMockPlanRepo(),
		dashboard: &mockDashboardRepo{},
	}
	m.repo = &repository.Repository{
		User:       m.users,
		Unit:       m.units,
		Staff:      m.staff,
		Vehicle:    m.vehicles,
		RestPeriod: m.rests,
		Roster:     m.rosters,
		Activity:   m.activity,
		Goal:       m.goals,
		Plan:       m.plans,
		Dashboard:  m.dashboard,
	}
	return m
}
