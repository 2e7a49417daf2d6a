package datewindow

import (
	"fmt"
	"time"
)

// Granularity reporting bucket size
type Granularity string

const (
	Week  Granularity = "week"
	Month Granularity = "month"
)

// ParseGranularity accepts "week" or "month"; empty means week.
func ParseGranularity(s string) (Granularity, error) {
	switch Granularity(s) {
	case "", Week:
		return Week, nil
	case Month:
		return Month, nil
	}
	return "", fmt.Errorf("unknown bucket %q", s)
}

// BucketStart first day of the bucket holding t. Weeks start on Monday,
// matching PostgreSQL date_trunc('week').
func BucketStart(t time.Time, g Granularity) time.Time {
	d := Day(t)
	if g == Month {
		return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
	back := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -back)
}

func next(t time.Time, g Granularity) time.Time {
	if g == Month {
		return t.AddDate(0, 1, 0)
	}
	return t.AddDate(0, 0, 7)
}

// Buckets every bucket touching r, in order. Each bucket is the full calendar
// period; callers clip with Intersect when they need only the covered part.
func Buckets(r Range, g Granularity) []Range {
	var out []Range
	for s := BucketStart(r.Start, g); !s.After(r.End); s = next(s, g) {
		out = append(out, Range{Start: s, End: next(s, g).AddDate(0, 0, -1)})
	}
	return out
}
