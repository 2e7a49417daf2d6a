package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/dto"
	pkgerrors "github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/pkg/errors"
)

// ── errors shared by every module ──

var (
	ErrNoActingUnit     = errors.New("no acting unit; your home unit no longer exists")
	ErrForbidden        = errors.New("operation not allowed for your role")
	ErrConcurrentUpdate = errors.New("concurrent update detected, please retry")
	ErrHasDependents    = errors.New("record is still referenced by other records")
)

// ValidationError field → message pairs, surfaced next to the offending fields
type ValidationError struct {
	Fields map[string]string `json:"fields"`
}

// NewValidationError one failing field
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// Add records another failing field
func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	e.Fields[field] = message
}

// OrNil nil when no field failed
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+" "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// ── rosters ──

// OverlappingRoster committed roster blocking a new one
type OverlappingRoster struct {
	RosterID string `json:"roster_id"`
	Start    string `json:"start"`
	End      string `json:"end"`
	Period   string `json:"period"`
}

// RosterConflictError the requested range intersects committed rosters of the unit
type RosterConflictError struct {
	Rosters []OverlappingRoster `json:"rosters"`
	Draft   *dto.RosterDraft    `json:"draft,omitempty"`
}

func (e *RosterConflictError) Error() string {
	periods := make([]string, len(e.Rosters))
	for i, r := range e.Rosters {
		periods[i] = r.Period
	}
	return "range overlaps existing rosters: " + strings.Join(periods, ", ")
}

// WindowRestConflicts rest conflicts of one window
type WindowRestConflicts struct {
	Window    int                    `json:"window"`
	Period    string                 `json:"period"`
	Conflicts []dto.RestConflictItem `json:"conflicts"`
}

// RestConflictError assigned staff are on rest inside their window
type RestConflictError struct {
	Windows []WindowRestConflicts `json:"windows"`
	Draft   *dto.RosterDraft      `json:"draft,omitempty"`
}

func (e *RestConflictError) Error() string {
	n := 0
	for _, w := range e.Windows {
		n += len(w.Conflicts)
	}
	return fmt.Sprintf("%d staff assignment(s) conflict with rest periods in %d window(s)", n, len(e.Windows))
}

// ── rest periods ──

// OverlappingRest existing rest period of the same staff member
type OverlappingRest struct {
	RestPeriodID string `json:"rest_period_id"`
	Category     string `json:"category"`
	Period       string `json:"period"`
}

// RestOverlapError a rest period would overlap another of the same staff member
type RestOverlapError struct {
	Periods []OverlappingRest `json:"periods"`
}

func (e *RestOverlapError) Error() string {
	periods := make([]string, len(e.Periods))
	for i, p := range e.Periods {
		periods[i] = p.Period
	}
	return "rest period overlaps: " + strings.Join(periods, ", ")
}

// ── database error translation ──

// translateWriteError turns integrity errors into domain errors. fields maps
// unique constraint names to the request field they belong to.
func translateWriteError(err error, fields map[string]string) error {
	if constraint, ok := pkgerrors.UniqueViolation(err); ok {
		if field, known := fields[constraint]; known {
			return NewValidationError(field, "is already in use")
		}
		return NewValidationError("_", "duplicates an existing record")
	}
	if _, ok := pkgerrors.ForeignKeyViolation(err); ok {
		return ErrHasDependents
	}
	if pkgerrors.Retryable(err) {
		return ErrConcurrentUpdate
	}
	return err
}

// writeFailure translates err and logs it unless it became a known domain error.
func writeFailure(logger *zap.Logger, msg string, err error, fields map[string]string) error {
	translated := translateWriteError(err, fields)
	var verr *ValidationError
	if errors.As(translated, &verr) ||
		errors.Is(translated, ErrHasDependents) ||
		errors.Is(translated, ErrConcurrentUpdate) {
		return translated
	}
	logger.Error(msg, zap.Error(err))
	return translated
}
