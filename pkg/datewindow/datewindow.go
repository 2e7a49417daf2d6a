// Package datewindow holds the calendar arithmetic shared by rosters, rest
// periods and the dashboard: inclusive date ranges, overlap tests, the
// Saturday-to-Friday duty grid and reporting buckets.
//
// All dates are civil dates normalized to midnight UTC.
package datewindow

import (
	"errors"
	"fmt"
	"time"

	"github.com/teambition/rrule-go"
)

// Layout ISO date layout used on the wire
const Layout = "2006-01-02"

// Grid week bounds
const (
	GridStartDay = time.Saturday
	GridEndDay   = time.Friday
)

var (
	ErrEndBeforeStart = errors.New("end date is before start date")
	ErrInvalidDate    = errors.New("invalid date")
)

// Day truncates t to its civil date at midnight UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Parse reads an ISO date.
func Parse(s string) (time.Time, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// Format renders a date as ISO.
func Format(t time.Time) string {
	return t.Format(Layout)
}

// Range inclusive civil date range
type Range struct {
	Start time.Time
	End   time.Time
}

// New builds a range, rejecting end < start.
func New(start, end time.Time) (Range, error) {
	r := Range{Start: Day(start), End: Day(end)}
	if r.End.Before(r.Start) {
		return Range{}, ErrEndBeforeStart
	}
	return r, nil
}

// MustNew is New for literals known to be valid.
func MustNew(start, end time.Time) Range {
	r, err := New(start, end)
	if err != nil {
		panic(err)
	}
	return r
}

// ParseRange parses two ISO dates into a range.
func ParseRange(start, end string) (Range, error) {
	s, err := Parse(start)
	if err != nil {
		return Range{}, err
	}
	e, err := Parse(end)
	if err != nil {
		return Range{}, err
	}
	return New(s, e)
}

// Overlaps reports whether r and o share at least one day:
// r.Start ≤ o.End AND r.End ≥ o.Start.
func (r Range) Overlaps(o Range) bool {
	return !r.Start.After(o.End) && !r.End.Before(o.Start)
}

// Covers reports whether r contains every day of o.
func (r Range) Covers(o Range) bool {
	return !r.Start.After(o.Start) && !r.End.Before(o.End)
}

// Contains reports whether day t falls inside r.
func (r Range) Contains(t time.Time) bool {
	d := Day(t)
	return !d.Before(r.Start) && !d.After(r.End)
}

// Intersect returns the shared days of r and o.
func (r Range) Intersect(o Range) (Range, bool) {
	if !r.Overlaps(o) {
		return Range{}, false
	}
	out := r
	if o.Start.After(out.Start) {
		out.Start = o.Start
	}
	if o.End.Before(out.End) {
		out.End = o.End
	}
	return out, true
}

// Days number of days in r, inclusive.
func (r Range) Days() int {
	return int(r.End.Sub(r.Start).Hours()/24) + 1
}

// Dates every day of r in order.
func (r Range) Dates() []time.Time {
	out := make([]time.Time, 0, r.Days())
	for d := r.Start; !d.After(r.End); d = d.AddDate(0, 0, 1) {
		out = append(out, d)
	}
	return out
}

// String human-readable form, e.g. "2024-02-03 to 2024-02-10".
func (r Range) String() string {
	return Format(r.Start) + " to " + Format(r.End)
}

// ── duty grid ──

// GridStart the Saturday on or before t.
func GridStart(t time.Time) time.Time {
	d := Day(t)
	back := (int(d.Weekday()) - int(GridStartDay) + 7) % 7
	return d.AddDate(0, 0, -back)
}

// GridEnd the Friday on or after t.
func GridEnd(t time.Time) time.Time {
	d := Day(t)
	fwd := (int(GridEndDay) - int(d.Weekday()) + 7) % 7
	return d.AddDate(0, 0, fwd)
}

// Tile splits r into consecutive Saturday–Friday windows. The first and last
// windows are clipped to r, so the result exactly tiles r without gaps.
func Tile(r Range) ([]Range, error) {
	first := GridStart(r.Start)
	rule, err := rrule.NewRRule(rrule.ROption{
		Freq:    rrule.WEEKLY,
		Dtstart: first,
		Until:   r.End,
	})
	if err != nil {
		return nil, fmt.Errorf("build weekly grid: %w", err)
	}

	saturdays := rule.All()
	windows := make([]Range, 0, len(saturdays))
	for _, sat := range saturdays {
		week := Range{Start: Day(sat), End: Day(sat).AddDate(0, 0, 6)}
		if w, ok := week.Intersect(r); ok {
			windows = append(windows, w)
		}
	}
	return windows, nil
}
