package roster

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/pkg/datewindow"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/pkg/textsort"
)

func day(s string) time.Time {
	t, err := datewindow.Parse(s)
	if err != nil {
		panic(err)
	}
	return t
}

func rng(a, b string) datewindow.Range { return datewindow.MustNew(day(a), day(b)) }

var (
	ana   = Member{ID: "s-ana", Name: "Ana", Phone: "69 1111"}
	bruno = Member{ID: "s-bruno", Name: "Bruno", Phone: "69 2222"}
	carla = Member{ID: "s-carla", Name: "Carla", Phone: "69 3333"}
)

func names(slots []Slot) []string {
	out := make([]string, len(slots))
	for i, s := range slots {
		out[i] = s.Member.Name
	}
	return out
}

func TestRoundRobin_FullWeek(t *testing.T) {
	slots := RoundRobin(rng("2024-01-06", "2024-01-12"), []Member{ana, bruno, carla})

	require.Len(t, slots, 7)
	assert.Equal(t, []string{"Ana", "Bruno", "Carla", "Ana", "Bruno", "Carla", "Ana"}, names(slots))
	for d, s := range slots {
		assert.Equal(t, d+1, s.Ordinal)
		require.NotNil(t, s.Date)
		assert.Equal(t, day("2024-01-06").AddDate(0, 0, d), *s.Date)
	}
}

func TestRoundRobin_EmptyPool(t *testing.T) {
	assert.Empty(t, RoundRobin(rng("2024-01-06", "2024-01-12"), nil))
}

func TestBuild_SortsByNameBeforeAssigning(t *testing.T) {
	plan, err := Build(Input{
		Range:  rng("2024-01-06", "2024-01-12"),
		Staff:  []Member{carla, ana, bruno},
		Sorter: textsort.New("pt-BR"),
	})
	require.NoError(t, err)

	require.Len(t, plan.Windows, 1)
	assert.Equal(t, []string{"Ana", "Bruno", "Carla", "Ana", "Bruno", "Carla", "Ana"}, names(plan.Windows[0].Slots))
	assert.Equal(t, 7, plan.Assignments())
}

func TestBuild_AccentedNamesCollate(t *testing.T) {
	alvaro := Member{ID: "s-alvaro", Name: "Álvaro"}
	ze := Member{ID: "s-ze", Name: "Zé"}
	plan, err := Build(Input{
		Range: rng("2024-01-06", "2024-01-07"),
		Staff: []Member{ze, bruno, alvaro},
	})
	require.NoError(t, err)
	assert.Equal(t, []Member{alvaro, bruno, ze}, plan.Available)
}

func TestBuild_OneDayRange(t *testing.T) {
	plan, err := Build(Input{
		Range: rng("2024-01-10", "2024-01-10"),
		Staff: []Member{ana, bruno},
	})
	require.NoError(t, err)

	require.Len(t, plan.Windows, 1)
	w := plan.Windows[0]
	assert.Equal(t, 1, w.Ordinal)
	assert.Equal(t, rng("2024-01-10", "2024-01-10"), w.Range)
	assert.Equal(t, []string{"Ana"}, names(w.Slots))
}

func TestBuild_WindowsTileTheRange(t *testing.T) {
	r := rng("2024-02-01", "2024-02-20")
	plan, err := Build(Input{Range: r, Staff: []Member{ana}})
	require.NoError(t, err)

	require.Len(t, plan.Windows, 4)
	assert.Equal(t, r.Start, plan.Windows[0].Range.Start)
	assert.Equal(t, r.End, plan.Windows[len(plan.Windows)-1].Range.End)
	for i := 1; i < len(plan.Windows); i++ {
		prev, cur := plan.Windows[i-1].Range, plan.Windows[i].Range
		assert.Equal(t, prev.End.AddDate(0, 0, 1), cur.Start, "gap or overlap between windows %d and %d", i, i+1)
		assert.Equal(t, time.Saturday, cur.Start.Weekday())
		assert.Equal(t, i+1, plan.Windows[i].Ordinal)
	}
}

func TestBuild_RestCoveringWholeRangeLeavesGlobalPool(t *testing.T) {
	plan, err := Build(Input{
		Range: rng("2024-01-06", "2024-01-19"),
		Staff: []Member{ana, bruno, carla},
		Absences: []Absence{
			{ID: "r1", StaffID: bruno.ID, Period: rng("2024-01-01", "2024-01-31")},
			{ID: "r2", StaffID: carla.ID, Period: rng("2024-01-13", "2024-01-15")},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, []Member{ana, carla}, plan.Available)
	require.Len(t, plan.Windows, 2)
	assert.Equal(t, []Member{ana, carla}, plan.Windows[0].Pool)
	assert.Equal(t, []Member{ana}, plan.Windows[1].Pool, "partial rest excludes only the overlapping window")
	assert.Equal(t, []string{"Ana", "Ana", "Ana", "Ana", "Ana", "Ana", "Ana"}, names(plan.Windows[1].Slots))
	assert.False(t, plan.HasConflicts())
}

func TestBuild_EmptyPoolGivesEmptyWindow(t *testing.T) {
	plan, err := Build(Input{
		Range: rng("2024-01-06", "2024-01-12"),
		Staff: []Member{ana},
		Absences: []Absence{
			{ID: "r1", StaffID: ana.ID, Period: rng("2024-01-06", "2024-01-12")},
		},
	})
	require.NoError(t, err)

	require.Len(t, plan.Windows, 1)
	assert.Empty(t, plan.Windows[0].Slots)
	assert.Empty(t, plan.Available)
	assert.False(t, plan.HasConflicts())
}

func TestBuild_ExplicitSelectionReportsConflictsPerWindow(t *testing.T) {
	rest := Absence{ID: "r1", StaffID: bruno.ID, Category: "ferias", Period: rng("2024-01-15", "2024-01-16")}
	plan, err := Build(Input{
		Range:    rng("2024-01-06", "2024-01-19"),
		Staff:    []Member{ana, bruno, carla},
		Absences: []Absence{rest},
		Selections: map[int][]string{
			1: {bruno.ID, ana.ID},
			2: {carla.ID, bruno.ID},
		},
	})
	require.NoError(t, err)

	w1 := plan.Windows[0]
	assert.True(t, w1.Selected)
	assert.Equal(t, []string{"Bruno", "Ana"}, names(w1.Slots), "selection order is kept")
	assert.Nil(t, w1.Slots[0].Date)
	assert.Empty(t, w1.Conflicts)

	conflicts := plan.Conflicts()
	require.Len(t, conflicts, 1)
	assert.Equal(t, 2, conflicts[0].Ordinal)
	require.Len(t, conflicts[0].Conflicts, 1)
	assert.Equal(t, bruno, conflicts[0].Conflicts[0].Member)
	assert.Equal(t, "2024-01-15 to 2024-01-16", conflicts[0].Conflicts[0].Absence.Period.String())
}

func TestBuild_EmptySelectionLeavesWindowEmpty(t *testing.T) {
	plan, err := Build(Input{
		Range:      rng("2024-01-06", "2024-01-12"),
		Staff:      []Member{ana},
		Selections: map[int][]string{1: {}},
	})
	require.NoError(t, err)
	assert.Empty(t, plan.Windows[0].Slots)
}

func TestBuild_InvalidSelections(t *testing.T) {
	base := Input{Range: rng("2024-01-06", "2024-01-12"), Staff: []Member{ana, bruno}}

	cases := []struct {
		name       string
		selections map[int][]string
		reason     string
	}{
		{"unknown window", map[int][]string{3: {ana.ID}}, "does not exist in this range"},
		{"unknown staff", map[int][]string{1: {"s-ghost"}}, "is not an active member of this unit"},
		{"duplicate staff", map[int][]string{1: {ana.ID, ana.ID}}, "is selected twice"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := base
			in.Selections = tc.selections
			_, err := Build(in)

			var selErr *SelectionError
			require.ErrorAs(t, err, &selErr)
			assert.Equal(t, tc.reason, selErr.Reason)
		})
	}
}
