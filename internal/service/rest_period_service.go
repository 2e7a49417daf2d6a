package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/dto"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/model"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/repository"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/scope"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/pkg/datewindow"
)

// ── rest period module errors ──

var ErrRestPeriodNotFound = errors.New("rest period not found")

// restNoteRunes notes longer than this are cut in the check response
const restNoteRunes = 60

// RestPeriodService staff rest periods (vacation, leave, day off…)
type RestPeriodService interface {
	List(ctx context.Context, ac *scope.ActingContext, req *dto.RestPeriodListRequest) ([]dto.RestPeriodResponse, int64, error)
	Create(ctx context.Context, ac *scope.ActingContext, req *dto.RestPeriodRequest) (*dto.RestPeriodResponse, error)
	Update(ctx context.Context, ac *scope.ActingContext, id string, req *dto.RestPeriodRequest) (*dto.RestPeriodResponse, error)
	Delete(ctx context.Context, ac *scope.ActingContext, id string) error
	// Check whether a staff member is blocked anywhere in [inicio, fim]
	Check(ctx context.Context, ac *scope.ActingContext, req *dto.RestCheckRequest) (*dto.RestCheckResponse, error)
}

type restPeriodService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewRestPeriodService creates a RestPeriodService
func NewRestPeriodService(repo *repository.Repository, logger *zap.Logger) RestPeriodService {
	return &restPeriodService{repo: repo, logger: logger}
}

// ────────────────────── List ──────────────────────

func (s *restPeriodService) List(ctx context.Context, ac *scope.ActingContext, req *dto.RestPeriodListRequest) ([]dto.RestPeriodResponse, int64, error) {
	if err := requireUnit(ac); err != nil {
		return nil, 0, err
	}
	rng, err := optionalRange(req.From, req.To)
	if err != nil {
		return nil, 0, err
	}
	list, total, err := s.repo.RestPeriod.List(ctx, ac.Units, repository.RestPeriodFilter{
		StaffID: req.StaffID,
		Range:   rng,
	}, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("list rest periods failed", zap.Error(err))
		return nil, 0, err
	}
	out := make([]dto.RestPeriodResponse, 0, len(list))
	for i := range list {
		out = append(out, toRestPeriodResponse(&list[i]))
	}
	return out, total, nil
}

// ────────────────────── Create / Update ──────────────────────

func (s *restPeriodService) Create(ctx context.Context, ac *scope.ActingContext, req *dto.RestPeriodRequest) (*dto.RestPeriodResponse, error) {
	staff, rng, err := s.prepare(ctx, ac, req)
	if err != nil {
		return nil, err
	}

	period := &model.RestPeriod{
		StaffID:   staff.StaffID,
		StartDate: rng.Start,
		EndDate:   rng.End,
		Category:  req.Category,
		Notes:     req.Notes,
	}
	period.SetCreator(ac.UserID)

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := checkRestOverlap(ctx, tx, staff.StaffID, rng, ""); err != nil {
			return err
		}
		return tx.RestPeriod.Create(ctx, period)
	})
	if err != nil {
		return nil, s.writeError("create rest period failed", err)
	}

	period.Staff = staff
	resp := toRestPeriodResponse(period)
	return &resp, nil
}

func (s *restPeriodService) Update(ctx context.Context, ac *scope.ActingContext, id string, req *dto.RestPeriodRequest) (*dto.RestPeriodResponse, error) {
	period, err := s.load(ctx, ac, id)
	if err != nil {
		return nil, err
	}
	staff, rng, err := s.prepare(ctx, ac, req)
	if err != nil {
		return nil, err
	}

	period.StaffID = staff.StaffID
	period.StartDate = rng.Start
	period.EndDate = rng.End
	period.Category = req.Category
	period.Notes = req.Notes
	period.Staff = nil
	period.SetUpdater(ac.UserID)

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := checkRestOverlap(ctx, tx, staff.StaffID, rng, period.RestPeriodID); err != nil {
			return err
		}
		return tx.RestPeriod.Update(ctx, period)
	})
	if err != nil {
		return nil, s.writeError("update rest period failed", err)
	}

	period.Staff = staff
	resp := toRestPeriodResponse(period)
	return &resp, nil
}

// prepare checks the staff member is in the acting unit and parses the range.
func (s *restPeriodService) prepare(ctx context.Context, ac *scope.ActingContext, req *dto.RestPeriodRequest) (*model.StaffMember, datewindow.Range, error) {
	staff, err := loadStaff(ctx, s.repo, s.logger, ac, req.StaffID)
	if err != nil {
		if errors.Is(err, ErrStaffNotFound) {
			return nil, datewindow.Range{}, NewValidationError("staff_id", "is not a staff member of the acting unit")
		}
		return nil, datewindow.Range{}, err
	}
	rng, err := parseRange("start_date", req.StartDate, "end_date", req.EndDate)
	if err != nil {
		return nil, datewindow.Range{}, err
	}
	return staff, rng, nil
}

// checkRestOverlap rejects a range touching another period of the same staff member.
func checkRestOverlap(ctx context.Context, repo *repository.Repository, staffID string, rng datewindow.Range, excludeID string) error {
	existing, err := repo.RestPeriod.ListOverlapping(ctx, []string{staffID}, rng, excludeID)
	if err != nil {
		return err
	}
	if len(existing) == 0 {
		return nil
	}
	overlapErr := &RestOverlapError{Periods: make([]OverlappingRest, 0, len(existing))}
	for _, p := range existing {
		overlapErr.Periods = append(overlapErr.Periods, OverlappingRest{
			RestPeriodID: p.RestPeriodID,
			Category:     p.Category,
			Period:       datewindow.MustNew(p.StartDate, p.EndDate).String(),
		})
	}
	return overlapErr
}

func (s *restPeriodService) writeError(msg string, err error) error {
	var overlap *RestOverlapError
	if errors.As(err, &overlap) {
		return err
	}
	return writeFailure(s.logger, msg, err, nil)
}

// ────────────────────── Delete ──────────────────────

func (s *restPeriodService) Delete(ctx context.Context, ac *scope.ActingContext, id string) error {
	if _, err := s.load(ctx, ac, id); err != nil {
		return err
	}
	if err := s.repo.RestPeriod.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRestPeriodNotFound
		}
		s.logger.Error("delete rest period failed", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *restPeriodService) load(ctx context.Context, ac *scope.ActingContext, id string) (*model.RestPeriod, error) {
	if err := requireUnit(ac); err != nil {
		return nil, err
	}
	period, err := s.repo.RestPeriod.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRestPeriodNotFound
		}
		s.logger.Error("get rest period failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	if period.Staff == nil || !ac.Units.Contains(period.Staff.UnitID) {
		return nil, ErrRestPeriodNotFound
	}
	return period, nil
}

// ────────────────────── Check ──────────────────────

func (s *restPeriodService) Check(ctx context.Context, ac *scope.ActingContext, req *dto.RestCheckRequest) (*dto.RestCheckResponse, error) {
	staff, err := loadStaff(ctx, s.repo, s.logger, ac, req.StaffID)
	if err != nil {
		return nil, err
	}
	rng, err := parseRange("inicio", req.Start, "fim", req.End)
	if err != nil {
		return nil, err
	}

	periods, err := s.repo.RestPeriod.ListOverlapping(ctx, []string{staff.StaffID}, rng, "")
	if err != nil {
		s.logger.Error("check rest periods failed", zap.String("staff_id", staff.StaffID), zap.Error(err))
		return nil, err
	}

	resp := &dto.RestCheckResponse{
		Blocked: len(periods) > 0,
		Periods: make([]dto.RestCheckPeriod, 0, len(periods)),
	}
	for _, p := range periods {
		resp.Periods = append(resp.Periods, dto.RestCheckPeriod{
			Type:      p.Category,
			StartDate: formatDate(p.StartDate),
			EndDate:   formatDate(p.EndDate),
			Notes:     truncateRunes(p.Notes, restNoteRunes),
		})
	}
	return resp, nil
}

func toRestPeriodResponse(p *model.RestPeriod) dto.RestPeriodResponse {
	resp := dto.RestPeriodResponse{
		ID:        p.RestPeriodID,
		StaffID:   p.StaffID,
		StartDate: formatDate(p.StartDate),
		EndDate:   formatDate(p.EndDate),
		Category:  p.Category,
		Notes:     p.Notes,
	}
	if p.Staff != nil {
		resp.StaffName = p.Staff.Name
	}
	return resp
}
