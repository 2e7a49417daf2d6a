// Package roster builds duty rosters: it tiles a date range into
// Saturday–Friday windows, works out who is available in each window and
// assigns staff, either as selected by the caller or by daily round-robin.
//
// The package is pure. Loading staff and rest periods and persisting the
// result belong to the service layer.
package roster

import (
	"fmt"
	"time"

	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/pkg/datewindow"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/pkg/textsort"
)

// Member staff member eligible for duty
type Member struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
}

// Absence a rest period of one staff member
type Absence struct {
	ID       string
	StaffID  string
	Category string
	Notes    string
	Period   datewindow.Range
}

// Slot one assignment inside a window. Date is set for round-robin slots.
type Slot struct {
	Ordinal int
	Member  Member
	Date    *time.Time
}

// Conflict an assigned member whose rest period overlaps the window
type Conflict struct {
	Member  Member
	Absence Absence
}

// Window one tiled window with its assignments
type Window struct {
	Ordinal   int
	Range     datewindow.Range
	Pool      []Member // available for this window, sorted by name
	Slots     []Slot
	Conflicts []Conflict
	Selected  bool // slots came from an explicit selection
}

// Input everything Build needs
type Input struct {
	Range    datewindow.Range
	Staff    []Member  // active staff of the unit
	Absences []Absence // rest periods of those staff
	// Selections explicit staff per window ordinal, in assignment order. A
	// present but empty list leaves that window empty on purpose.
	Selections map[int][]string
	Sorter     *textsort.Sorter
}

// Plan result of Build
type Plan struct {
	Range     datewindow.Range
	Available []Member // global pool, sorted by name
	Windows   []Window
}

// SelectionError an explicit selection that cannot be honored
type SelectionError struct {
	Window  int
	StaffID string
	Reason  string
}

func (e *SelectionError) Error() string {
	if e.StaffID == "" {
		return fmt.Sprintf("window %d: %s", e.Window, e.Reason)
	}
	return fmt.Sprintf("window %d: staff %s %s", e.Window, e.StaffID, e.Reason)
}

// Build tiles in.Range, computes pools and fills every window.
func Build(in Input) (*Plan, error) {
	windows, err := datewindow.Tile(in.Range)
	if err != nil {
		return nil, err
	}
	sorter := in.Sorter
	if sorter == nil {
		sorter = textsort.New("pt-BR")
	}

	byID := make(map[string]Member, len(in.Staff))
	for _, m := range in.Staff {
		byID[m.ID] = m
	}
	absences := make(map[string][]Absence)
	for _, a := range in.Absences {
		absences[a.StaffID] = append(absences[a.StaffID], a)
	}

	for ordinal, ids := range in.Selections {
		if ordinal < 1 || ordinal > len(windows) {
			return nil, &SelectionError{Window: ordinal, Reason: "does not exist in this range"}
		}
		seen := make(map[string]bool, len(ids))
		for _, id := range ids {
			if _, ok := byID[id]; !ok {
				return nil, &SelectionError{Window: ordinal, StaffID: id, Reason: "is not an active member of this unit"}
			}
			if seen[id] {
				return nil, &SelectionError{Window: ordinal, StaffID: id, Reason: "is selected twice"}
			}
			seen[id] = true
		}
	}

	plan := &Plan{Range: in.Range, Windows: make([]Window, 0, len(windows))}

	// Global pool: nobody whose rest covers the whole range.
	for _, m := range in.Staff {
		if !coveredBy(absences[m.ID], in.Range) {
			plan.Available = append(plan.Available, m)
		}
	}
	SortMembers(sorter, plan.Available)

	for i, wr := range windows {
		w := Window{Ordinal: i + 1, Range: wr}
		for _, m := range plan.Available {
			if len(overlapping(absences[m.ID], wr)) == 0 {
				w.Pool = append(w.Pool, m)
			}
		}

		if ids, ok := in.Selections[w.Ordinal]; ok {
			w.Selected = true
			for k, id := range ids {
				m := byID[id]
				w.Slots = append(w.Slots, Slot{Ordinal: k + 1, Member: m})
				for _, a := range overlapping(absences[id], wr) {
					w.Conflicts = append(w.Conflicts, Conflict{Member: m, Absence: a})
				}
			}
		} else {
			w.Slots = RoundRobin(wr, w.Pool)
		}

		plan.Windows = append(plan.Windows, w)
	}
	return plan, nil
}

// RoundRobin assigns pool[d mod n] to day offset d of the window. pool must
// already be sorted. An empty pool yields no slots.
func RoundRobin(window datewindow.Range, pool []Member) []Slot {
	if len(pool) == 0 {
		return nil
	}
	days := window.Dates()
	slots := make([]Slot, 0, len(days))
	for d, day := range days {
		date := day
		slots = append(slots, Slot{
			Ordinal: d + 1,
			Member:  pool[d%len(pool)],
			Date:    &date,
		})
	}
	return slots
}

// SortMembers orders by collated name, then id.
func SortMembers(sorter *textsort.Sorter, members []Member) {
	sorter.Sort(members,
		func(i int) string { return members[i].Name },
		func(i int) string { return members[i].ID },
	)
}

func overlapping(list []Absence, r datewindow.Range) []Absence {
	var out []Absence
	for _, a := range list {
		if a.Period.Overlaps(r) {
			out = append(out, a)
		}
	}
	return out
}

func coveredBy(list []Absence, r datewindow.Range) bool {
	for _, a := range list {
		if a.Period.Covers(r) {
			return true
		}
	}
	return false
}

// ── conflicts ──

// WindowConflicts conflicts of one window
type WindowConflicts struct {
	Ordinal   int
	Range     datewindow.Range
	Conflicts []Conflict
}

// Conflicts every window that has at least one conflict, in window order.
func (p *Plan) Conflicts() []WindowConflicts {
	var out []WindowConflicts
	for _, w := range p.Windows {
		if len(w.Conflicts) == 0 {
			continue
		}
		out = append(out, WindowConflicts{Ordinal: w.Ordinal, Range: w.Range, Conflicts: w.Conflicts})
	}
	return out
}

// HasConflicts reports any window conflict.
func (p *Plan) HasConflicts() bool {
	for _, w := range p.Windows {
		if len(w.Conflicts) > 0 {
			return true
		}
	}
	return false
}

// Assignments total slots across windows
func (p *Plan) Assignments() int {
	n := 0
	for _, w := range p.Windows {
		n += len(w.Slots)
	}
	return n
}
