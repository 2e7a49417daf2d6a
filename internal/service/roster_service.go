package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/dto"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/model"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/repository"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/roster"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/scope"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/pkg/datewindow"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/pkg/metrics"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/pkg/policy"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/pkg/textsort"
)

// ── roster module errors ──

var (
	ErrRosterNotFound      = errors.New("roster not found")
	ErrRosterRaceDetected  = errors.New("another roster was saved for this range in the meantime, nothing was saved")
	ErrRosterDeleteDenied  = errors.New("only the creator or an administrator may delete this roster")
	ErrRosterExportFailed  = errors.New("failed to generate the roster spreadsheet")
	ErrRosterDraftNotFound = errors.New("no roster draft in progress")
)

// DraftStore session storage for roster builder state
type DraftStore interface {
	SaveDraft(ctx context.Context, userID string, v any) error
	LoadDraft(ctx context.Context, userID string, v any) (bool, error)
	ClearDraft(ctx context.Context, userID string) error
}

// RosterMetrics roster counters
type RosterMetrics interface {
	RosterCreated()
	RosterConflict(kind string)
}

// RosterService duty roster builder and committed rosters
type RosterService interface {
	// Preview builds the roster without saving; rest conflicts are warnings
	Preview(ctx context.Context, ac *scope.ActingContext, req *dto.RosterRequest) (*dto.RosterPreviewResponse, error)
	// Create commits the roster; any conflict aborts with nothing saved
	Create(ctx context.Context, ac *scope.ActingContext, req *dto.RosterRequest) (*dto.RosterResponse, error)
	Get(ctx context.Context, ac *scope.ActingContext, id string) (*dto.RosterResponse, error)
	List(ctx context.Context, ac *scope.ActingContext, req *dto.RosterListRequest) ([]dto.RosterResponse, int64, error)
	Delete(ctx context.Context, ac *scope.ActingContext, id string) error
	// Feed committed weeks intersecting the range, for calendars
	Feed(ctx context.Context, ac *scope.ActingContext, req *dto.RosterFeedRequest) ([]dto.FeedWindow, error)
	// Export renders one roster as an .xlsx workbook
	Export(ctx context.Context, ac *scope.ActingContext, id string) (*bytes.Buffer, string, error)

	SaveDraft(ctx context.Context, ac *scope.ActingContext, draft *dto.RosterDraft) error
	GetDraft(ctx context.Context, ac *scope.ActingContext) (*dto.RosterDraft, error)
	ClearDraft(ctx context.Context, ac *scope.ActingContext) error
}

type rosterService struct {
	repo    *repository.Repository
	drafts  DraftStore
	metrics RosterMetrics
	sorter  *textsort.Sorter
	maxDays int
	logger  *zap.Logger
}

// NewRosterService creates a RosterService. drafts and m may be nil.
func NewRosterService(
	repo *repository.Repository,
	drafts DraftStore,
	m RosterMetrics,
	sorter *textsort.Sorter,
	maxDays int,
	logger *zap.Logger,
) RosterService {
	if drafts == nil {
		drafts = noopDrafts{}
	}
	if m == nil {
		m = noopRosterMetrics{}
	}
	if sorter == nil {
		sorter = textsort.New("pt-BR")
	}
	return &rosterService{
		repo:    repo,
		drafts:  drafts,
		metrics: m,
		sorter:  sorter,
		maxDays: maxDays,
		logger:  logger,
	}
}

// ═══════════════════════════════════════════════════════════
// Building
// ═══════════════════════════════════════════════════════════

func draftOf(req *dto.RosterRequest) *dto.RosterDraft {
	return &dto.RosterDraft{
		Start:      req.Start,
		End:        req.End,
		Note:       req.Note,
		Selections: req.Selections,
	}
}

// build validates the request, rejects overlapping rosters and runs the engine.
func (s *rosterService) build(ctx context.Context, ac *scope.ActingContext, req *dto.RosterRequest) (*roster.Plan, error) {
	if err := requireUnit(ac); err != nil {
		return nil, err
	}

	rng, err := parseRange("start", req.Start, "end", req.End)
	if err != nil {
		return nil, err
	}
	if s.maxDays > 0 && rng.Days() > s.maxDays {
		return nil, NewValidationError("end", fmt.Sprintf("range must not exceed %d days", s.maxDays))
	}

	var selections map[int][]string
	if len(req.Selections) > 0 {
		selections = make(map[int][]string, len(req.Selections))
		for _, sel := range req.Selections {
			if _, dup := selections[sel.Window]; dup {
				return nil, NewValidationError("selections", fmt.Sprintf("window %d is listed twice", sel.Window))
			}
			ids := sel.StaffIDs
			if ids == nil {
				ids = []string{}
			}
			selections[sel.Window] = ids
		}
	}

	existing, err := s.repo.Roster.ListOverlapping(ctx, ac.ActingUnitID, rng)
	if err != nil {
		s.logger.Error("list overlapping rosters failed", zap.String("unit_id", ac.ActingUnitID), zap.Error(err))
		return nil, err
	}
	if len(existing) > 0 {
		s.metrics.RosterConflict(metrics.ConflictOverlap)
		return nil, &RosterConflictError{Rosters: overlappingRosters(existing), Draft: draftOf(req)}
	}

	staff, err := s.repo.Staff.ListActiveByUnit(ctx, ac.ActingUnitID)
	if err != nil {
		s.logger.Error("list active staff failed", zap.String("unit_id", ac.ActingUnitID), zap.Error(err))
		return nil, err
	}
	members := make([]roster.Member, 0, len(staff))
	ids := make([]string, 0, len(staff))
	for _, m := range staff {
		members = append(members, roster.Member{ID: m.StaffID, Name: m.Name, Phone: m.Phone})
		ids = append(ids, m.StaffID)
	}

	var absences []roster.Absence
	if len(ids) > 0 {
		periods, err := s.repo.RestPeriod.ListOverlapping(ctx, ids, rng, "")
		if err != nil {
			s.logger.Error("list rest periods failed", zap.String("unit_id", ac.ActingUnitID), zap.Error(err))
			return nil, err
		}
		absences = make([]roster.Absence, 0, len(periods))
		for _, p := range periods {
			absences = append(absences, roster.Absence{
				ID:       p.RestPeriodID,
				StaffID:  p.StaffID,
				Category: p.Category,
				Notes:    p.Notes,
				Period:   datewindow.MustNew(p.StartDate, p.EndDate),
			})
		}
	}

	plan, err := roster.Build(roster.Input{
		Range:      rng,
		Staff:      members,
		Absences:   absences,
		Selections: selections,
		Sorter:     s.sorter,
	})
	if err != nil {
		var selErr *roster.SelectionError
		if errors.As(err, &selErr) {
			return nil, NewValidationError("selections", selErr.Error())
		}
		return nil, err
	}
	return plan, nil
}

func overlappingRosters(list []model.DutyRoster) []OverlappingRoster {
	out := make([]OverlappingRoster, 0, len(list))
	for _, r := range list {
		out = append(out, OverlappingRoster{
			RosterID: r.RosterID,
			Start:    formatDate(r.StartDate),
			End:      formatDate(r.EndDate),
			Period:   datewindow.MustNew(r.StartDate, r.EndDate).String(),
		})
	}
	return out
}

func conflictItems(list []roster.Conflict) []dto.RestConflictItem {
	out := make([]dto.RestConflictItem, 0, len(list))
	for _, c := range list {
		out = append(out, dto.RestConflictItem{
			StaffID:      c.Member.ID,
			StaffName:    c.Member.Name,
			RestPeriodID: c.Absence.ID,
			Category:     c.Absence.Category,
			Period:       c.Absence.Period.String(),
		})
	}
	return out
}

func briefs(members []roster.Member) []dto.StaffBrief {
	out := make([]dto.StaffBrief, 0, len(members))
	for _, m := range members {
		out = append(out, dto.StaffBrief{ID: m.ID, Name: m.Name, Phone: m.Phone})
	}
	return out
}

// ────────────────────── Preview ──────────────────────

func (s *rosterService) Preview(ctx context.Context, ac *scope.ActingContext, req *dto.RosterRequest) (*dto.RosterPreviewResponse, error) {
	plan, err := s.build(ctx, ac, req)
	if err != nil {
		return nil, err
	}

	resp := &dto.RosterPreviewResponse{
		Start:        formatDate(plan.Range.Start),
		End:          formatDate(plan.Range.End),
		Available:    briefs(plan.Available),
		Windows:      make([]dto.PreviewWindow, 0, len(plan.Windows)),
		HasConflicts: plan.HasConflicts(),
	}
	for _, w := range plan.Windows {
		pw := dto.PreviewWindow{
			Ordinal:   w.Ordinal,
			Start:     formatDate(w.Range.Start),
			End:       formatDate(w.Range.End),
			Selected:  w.Selected,
			Pool:      briefs(w.Pool),
			Slots:     make([]dto.SlotResponse, 0, len(w.Slots)),
			Conflicts: conflictItems(w.Conflicts),
		}
		for _, sl := range w.Slots {
			pw.Slots = append(pw.Slots, dto.SlotResponse{
				Ordinal: sl.Ordinal,
				Staff:   dto.StaffBrief{ID: sl.Member.ID, Name: sl.Member.Name, Phone: sl.Member.Phone},
				Date:    formatOptionalDate(sl.Date),
			})
		}
		resp.Windows = append(resp.Windows, pw)
	}
	return resp, nil
}

// ────────────────────── Create ──────────────────────

func (s *rosterService) Create(ctx context.Context, ac *scope.ActingContext, req *dto.RosterRequest) (*dto.RosterResponse, error) {
	plan, err := s.build(ctx, ac, req)
	if err != nil {
		s.keepDraft(ctx, ac, err, req)
		return nil, err
	}

	if conflicts := plan.Conflicts(); len(conflicts) > 0 {
		s.metrics.RosterConflict(metrics.ConflictRest)
		restErr := &RestConflictError{Draft: draftOf(req)}
		for _, wc := range conflicts {
			restErr.Windows = append(restErr.Windows, WindowRestConflicts{
				Window:    wc.Ordinal,
				Period:    wc.Range.String(),
				Conflicts: conflictItems(wc.Conflicts),
			})
		}
		s.keepDraft(ctx, ac, restErr, req)
		return nil, restErr
	}

	var rosterID string
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		// Re-check under the transaction; a roster saved since the pre-check wins.
		existing, err := tx.Roster.ListOverlapping(ctx, ac.ActingUnitID, plan.Range)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return ErrRosterRaceDetected
		}

		// Phone snapshots come from the rows as they are at commit time.
		assigned := make(map[string]bool)
		for _, w := range plan.Windows {
			for _, sl := range w.Slots {
				assigned[sl.Member.ID] = true
			}
		}
		phones := make(map[string]string, len(assigned))
		if len(assigned) > 0 {
			ids := make([]string, 0, len(assigned))
			for id := range assigned {
				ids = append(ids, id)
			}
			rows, err := tx.Staff.ListByIDs(ctx, ids)
			if err != nil {
				return err
			}
			for _, m := range rows {
				phones[m.StaffID] = m.Phone
			}
		}

		dr := &model.DutyRoster{
			UnitID:    ac.ActingUnitID,
			StartDate: plan.Range.Start,
			EndDate:   plan.Range.End,
			Note:      req.Note,
		}
		dr.SetCreator(ac.UserID)
		if err := tx.Roster.Create(ctx, dr); err != nil {
			return err
		}
		rosterID = dr.RosterID

		for _, w := range plan.Windows {
			week := &model.ShiftWeek{
				RosterID:  dr.RosterID,
				Ordinal:   w.Ordinal,
				StartDate: w.Range.Start,
				EndDate:   w.Range.End,
			}
			if err := tx.Roster.CreateWeek(ctx, week); err != nil {
				return err
			}
			if len(w.Slots) == 0 {
				continue
			}
			assignments := make([]model.ShiftAssignment, 0, len(w.Slots))
			for _, sl := range w.Slots {
				assignments = append(assignments, model.ShiftAssignment{
					WeekID:        week.WeekID,
					StaffID:       sl.Member.ID,
					Ordinal:       sl.Ordinal,
					DutyDate:      sl.Date,
					PhoneSnapshot: phones[sl.Member.ID],
				})
			}
			if err := tx.Roster.CreateAssignments(ctx, assignments); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrRosterRaceDetected) {
			s.metrics.RosterConflict(metrics.ConflictRace)
			s.keepDraft(ctx, ac, err, req)
			return nil, err
		}
		err = translateWriteError(err, nil)
		if errors.Is(err, ErrConcurrentUpdate) {
			s.metrics.RosterConflict(metrics.ConflictRace)
			s.keepDraft(ctx, ac, err, req)
			return nil, ErrRosterRaceDetected
		}
		s.logger.Error("commit roster failed", zap.String("unit_id", ac.ActingUnitID), zap.Error(err))
		return nil, err
	}

	s.metrics.RosterCreated()
	if err := s.drafts.ClearDraft(ctx, ac.UserID); err != nil {
		s.logger.Warn("clear roster draft failed", zap.String("user_id", ac.UserID), zap.Error(err))
	}
	s.logger.Info("roster created",
		zap.String("roster_id", rosterID),
		zap.String("unit_id", ac.ActingUnitID),
		zap.String("range", plan.Range.String()),
		zap.Int("assignments", plan.Assignments()),
	)
	return s.Get(ctx, ac, rosterID)
}

// keepDraft stores the builder selections so the user can pick up after a
// failed save. Validation failures are not kept.
func (s *rosterService) keepDraft(ctx context.Context, ac *scope.ActingContext, cause error, req *dto.RosterRequest) {
	var rc *RosterConflictError
	var rest *RestConflictError
	if !errors.As(cause, &rc) && !errors.As(cause, &rest) && !errors.Is(cause, ErrRosterRaceDetected) && !errors.Is(cause, ErrConcurrentUpdate) {
		return
	}
	if !ac.HasUnit() {
		return
	}
	if err := s.drafts.SaveDraft(ctx, ac.UserID, draftOf(req)); err != nil {
		s.logger.Warn("save roster draft failed", zap.String("user_id", ac.UserID), zap.Error(err))
	}
}

// ────────────────────── Get / List ──────────────────────

func (s *rosterService) load(ctx context.Context, ac *scope.ActingContext, id string) (*model.DutyRoster, error) {
	if err := requireUnit(ac); err != nil {
		return nil, err
	}
	dr, err := s.repo.Roster.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRosterNotFound
		}
		s.logger.Error("get roster failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	if !ac.Units.Contains(dr.UnitID) {
		return nil, ErrRosterNotFound
	}
	return dr, nil
}

func (s *rosterService) Get(ctx context.Context, ac *scope.ActingContext, id string) (*dto.RosterResponse, error) {
	dr, err := s.load(ctx, ac, id)
	if err != nil {
		return nil, err
	}
	return toRosterResponse(dr, true), nil
}

func (s *rosterService) List(ctx context.Context, ac *scope.ActingContext, req *dto.RosterListRequest) ([]dto.RosterResponse, int64, error) {
	if err := requireUnit(ac); err != nil {
		return nil, 0, err
	}
	rng, err := optionalRange(req.From, req.To)
	if err != nil {
		return nil, 0, err
	}
	list, total, err := s.repo.Roster.List(ctx, ac.Units, rng, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("list rosters failed", zap.Error(err))
		return nil, 0, err
	}
	out := make([]dto.RosterResponse, 0, len(list))
	for i := range list {
		out = append(out, *toRosterResponse(&list[i], false))
	}
	return out, total, nil
}

func toRosterResponse(dr *model.DutyRoster, withWeeks bool) *dto.RosterResponse {
	resp := &dto.RosterResponse{
		ID:        dr.RosterID,
		Unit:      dto.UnitBrief{ID: dr.UnitID},
		Start:     formatDate(dr.StartDate),
		End:       formatDate(dr.EndDate),
		Note:      dr.Note,
		CreatedBy: derefString(dr.CreatedBy),
		CreatedAt: dr.CreatedAt.UTC().Format(timestampLayout),
	}
	if dr.Unit != nil {
		resp.Unit.Name = dr.Unit.Name
	}
	if !withWeeks {
		return resp
	}
	resp.Weeks = make([]dto.WeekResponse, 0, len(dr.Weeks))
	for _, w := range dr.Weeks {
		wr := dto.WeekResponse{
			Ordinal:     w.Ordinal,
			Start:       formatDate(w.StartDate),
			End:         formatDate(w.EndDate),
			Assignments: make([]dto.AssignmentResponse, 0, len(w.Assignments)),
		}
		for _, a := range w.Assignments {
			ar := dto.AssignmentResponse{
				Ordinal:  a.Ordinal,
				StaffID:  a.StaffID,
				Phone:    a.PhoneSnapshot,
				DutyDate: formatOptionalDate(a.DutyDate),
			}
			if a.Staff != nil {
				ar.StaffName = a.Staff.Name
			}
			wr.Assignments = append(wr.Assignments, ar)
		}
		resp.Weeks = append(resp.Weeks, wr)
	}
	return resp
}

// ────────────────────── Delete ──────────────────────

func (s *rosterService) Delete(ctx context.Context, ac *scope.ActingContext, id string) error {
	dr, err := s.load(ctx, ac, id)
	if err != nil {
		return err
	}
	if derefString(dr.CreatedBy) != ac.UserID && !ac.Can(policy.CapDeleteAnyRoster) {
		return ErrRosterDeleteDenied
	}
	if err := s.repo.Roster.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRosterNotFound
		}
		s.logger.Error("delete roster failed", zap.String("id", id), zap.Error(err))
		return err
	}
	s.logger.Info("roster deleted", zap.String("roster_id", id), zap.String("by", ac.UserID))
	return nil
}

// ────────────────────── Feed ──────────────────────

func (s *rosterService) Feed(ctx context.Context, ac *scope.ActingContext, req *dto.RosterFeedRequest) ([]dto.FeedWindow, error) {
	if err := requireUnit(ac); err != nil {
		return nil, err
	}
	rng, err := parseRange("start", req.Start, "end", req.End)
	if err != nil {
		return nil, err
	}
	weeks, err := s.repo.Roster.ListWeeks(ctx, ac.Units, rng)
	if err != nil {
		s.logger.Error("list roster weeks failed", zap.Error(err))
		return nil, err
	}

	out := make([]dto.FeedWindow, 0, len(weeks))
	for _, w := range weeks {
		fw := dto.FeedWindow{
			RosterID: w.RosterID,
			Start:    formatDate(w.StartDate),
			End:      formatDate(w.EndDate),
			Staff:    []dto.StaffBrief{},
		}
		// Round-robin weeks repeat staff across days; list each once, first slot first.
		seen := make(map[string]bool, len(w.Assignments))
		for _, a := range w.Assignments {
			if seen[a.StaffID] {
				continue
			}
			seen[a.StaffID] = true
			b := dto.StaffBrief{ID: a.StaffID, Phone: a.PhoneSnapshot}
			if a.Staff != nil {
				b.Name = a.Staff.Name
			}
			fw.Staff = append(fw.Staff, b)
		}
		out = append(out, fw)
	}
	return out, nil
}

// ═══════════════════════════════════════════════════════════
// Export — one sheet, one row per assignment
// ═══════════════════════════════════════════════════════════

func (s *rosterService) Export(ctx context.Context, ac *scope.ActingContext, id string) (*bytes.Buffer, string, error) {
	dr, err := s.load(ctx, ac, id)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Escala"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		s.logger.Error("create sheet failed", zap.Error(err))
		return nil, "", ErrRosterExportFailed
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#2F5597"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	unitName := dr.UnitID
	if dr.Unit != nil {
		unitName = dr.Unit.Name
	}
	period := datewindow.MustNew(dr.StartDate, dr.EndDate).String()

	f.SetCellValue(sheet, "A1", fmt.Sprintf("%s: %s", unitName, period))
	f.MergeCell(sheet, "A1", "F1")
	f.SetCellStyle(sheet, "A1", "A1", headerStyle)

	headers := []string{"Semana", "Início", "Fim", "Ordem", "Servidor", "Telefone"}
	for i, h := range headers {
		c, _ := excelize.CoordinatesToCellName(i+1, 2)
		f.SetCellValue(sheet, c, h)
	}
	f.SetCellStyle(sheet, "A2", "F2", headerStyle)
	f.SetColWidth(sheet, "B", "C", 12)
	f.SetColWidth(sheet, "E", "E", 32)
	f.SetColWidth(sheet, "F", "F", 18)

	row := 3
	for _, w := range dr.Weeks {
		if len(w.Assignments) == 0 {
			f.SetSheetRow(sheet, fmt.Sprintf("A%d", row), &[]any{w.Ordinal, formatDate(w.StartDate), formatDate(w.EndDate), "-", "-", "-"})
			row++
			continue
		}
		for _, a := range w.Assignments {
			name := a.StaffID
			if a.Staff != nil {
				name = a.Staff.Name
			}
			ordinal := any(a.Ordinal)
			if a.DutyDate != nil {
				ordinal = formatDate(*a.DutyDate)
			}
			f.SetSheetRow(sheet, fmt.Sprintf("A%d", row), &[]any{w.Ordinal, formatDate(w.StartDate), formatDate(w.EndDate), ordinal, name, a.PhoneSnapshot})
			row++
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("write xlsx failed", zap.String("roster_id", id), zap.Error(err))
		return nil, "", ErrRosterExportFailed
	}
	filename := fmt.Sprintf("escala_%s_%s.xlsx", formatDate(dr.StartDate), formatDate(dr.EndDate))
	return buf, filename, nil
}

// ═══════════════════════════════════════════════════════════
// Drafts
// ═══════════════════════════════════════════════════════════

func (s *rosterService) SaveDraft(ctx context.Context, ac *scope.ActingContext, draft *dto.RosterDraft) error {
	if err := requireUnit(ac); err != nil {
		return err
	}
	if err := s.drafts.SaveDraft(ctx, ac.UserID, draft); err != nil {
		s.logger.Error("save roster draft failed", zap.String("user_id", ac.UserID), zap.Error(err))
		return err
	}
	return nil
}

func (s *rosterService) GetDraft(ctx context.Context, ac *scope.ActingContext) (*dto.RosterDraft, error) {
	var draft dto.RosterDraft
	found, err := s.drafts.LoadDraft(ctx, ac.UserID, &draft)
	if err != nil {
		s.logger.Error("load roster draft failed", zap.String("user_id", ac.UserID), zap.Error(err))
		return nil, err
	}
	if !found {
		return nil, ErrRosterDraftNotFound
	}
	return &draft, nil
}

func (s *rosterService) ClearDraft(ctx context.Context, ac *scope.ActingContext) error {
	if err := s.drafts.ClearDraft(ctx, ac.UserID); err != nil {
		s.logger.Error("clear roster draft failed", zap.String("user_id", ac.UserID), zap.Error(err))
		return err
	}
	return nil
}

type noopDrafts struct{}

func (noopDrafts) SaveDraft(context.Context, string, any) error         { return nil }
func (noopDrafts) LoadDraft(context.Context, string, any) (bool, error) { return false, nil }
func (noopDrafts) ClearDraft(context.Context, string) error             { return nil }

type noopRosterMetrics struct{}

func (noopRosterMetrics) RosterCreated()        {}
func (noopRosterMetrics) RosterConflict(string) {}
