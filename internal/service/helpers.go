package service

import (
	"errors"
	"time"

	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/scope"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/pkg/datewindow"
)

const timestampLayout = "2006-01-02T15:04:05Z07:00"

// requireUnit rejects callers without an acting unit
func requireUnit(ac *scope.ActingContext) error {
	if !ac.HasUnit() {
		return ErrNoActingUnit
	}
	return nil
}

// parseRange parses an inclusive date range, naming the offending bound.
func parseRange(startField, start, endField, end string) (datewindow.Range, error) {
	verr := &ValidationError{}
	s, err := datewindow.Parse(start)
	if err != nil {
		verr.Add(startField, "must be a date in YYYY-MM-DD format")
	}
	e, err := datewindow.Parse(end)
	if err != nil {
		verr.Add(endField, "must be a date in YYYY-MM-DD format")
	}
	if err := verr.OrNil(); err != nil {
		return datewindow.Range{}, err
	}
	r, err := datewindow.New(s, e)
	if errors.Is(err, datewindow.ErrEndBeforeStart) {
		return datewindow.Range{}, NewValidationError(endField, "must be on or after "+startField)
	}
	return r, err
}

// optionalRange parses a range where both bounds may be omitted. A single
// bound is completed with the other as an open end.
func optionalRange(from, to string) (*datewindow.Range, error) {
	if from == "" && to == "" {
		return nil, nil
	}
	if from == "" {
		from = "0001-01-01"
	}
	if to == "" {
		to = "9999-12-31"
	}
	r, err := parseRange("from", from, "to", to)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func formatDate(t time.Time) string {
	return datewindow.Format(t)
}

func formatOptionalDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return datewindow.Format(*t)
}

func formatOptionalTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(timestampLayout)
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// truncateRunes cuts s to n runes, marking the cut with an ellipsis.
func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}
