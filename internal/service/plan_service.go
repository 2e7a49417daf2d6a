package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/dto"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/model"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/repository"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/scope"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/pkg/datewindow"
)

var ErrPlanNotFound = errors.New("activity plan not found")

// PlanService daily activity plans: which activities, with whom, in which vehicle
type PlanService interface {
	List(ctx context.Context, ac *scope.ActingContext, req *dto.PlanListRequest) ([]dto.PlanResponse, int64, error)
	Get(ctx context.Context, ac *scope.ActingContext, id string) (*dto.PlanResponse, error)
	// Create checks every referenced record and that no staff member rests on the plan date
	Create(ctx context.Context, ac *scope.ActingContext, req *dto.CreatePlanRequest) (*dto.PlanResponse, error)
	UpdateStatus(ctx context.Context, ac *scope.ActingContext, id string, req *dto.UpdatePlanStatusRequest) (*dto.PlanResponse, error)
	Delete(ctx context.Context, ac *scope.ActingContext, id string) error
}

type planService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewPlanService creates a PlanService
func NewPlanService(repo *repository.Repository, logger *zap.Logger) PlanService {
	return &planService{repo: repo, logger: logger, now: time.Now}
}

func (s *planService) load(ctx context.Context, ac *scope.ActingContext, id string) (*model.Plan, error) {
	if err := requireUnit(ac); err != nil {
		return nil, err
	}
	plan, err := s.repo.Plan.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		s.logger.Error("get plan failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	if !ac.Units.Contains(plan.UnitID) {
		return nil, ErrPlanNotFound
	}
	return plan, nil
}

// ────────────────────── List / Get ──────────────────────

func (s *planService) List(ctx context.Context, ac *scope.ActingContext, req *dto.PlanListRequest) ([]dto.PlanResponse, int64, error) {
	if err := requireUnit(ac); err != nil {
		return nil, 0, err
	}
	rng, err := optionalRange(req.From, req.To)
	if err != nil {
		return nil, 0, err
	}
	list, total, err := s.repo.Plan.List(ctx, ac.Units, repository.PlanFilter{Range: rng, Status: req.Status},
		req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("list plans failed", zap.Error(err))
		return nil, 0, err
	}
	out := make([]dto.PlanResponse, 0, len(list))
	for i := range list {
		out = append(out, toPlanResponse(&list[i]))
	}
	return out, total, nil
}

func (s *planService) Get(ctx context.Context, ac *scope.ActingContext, id string) (*dto.PlanResponse, error) {
	plan, err := s.load(ctx, ac, id)
	if err != nil {
		return nil, err
	}
	resp := toPlanResponse(plan)
	return &resp, nil
}

// ────────────────────── Create ──────────────────────

func (s *planService) Create(ctx context.Context, ac *scope.ActingContext, req *dto.CreatePlanRequest) (*dto.PlanResponse, error) {
	if err := requireUnit(ac); err != nil {
		return nil, err
	}
	day, err := datewindow.Parse(req.PlanDate)
	if err != nil {
		return nil, NewValidationError("plan_date", "must be a date in YYYY-MM-DD format")
	}

	verr := &ValidationError{}

	if req.VehicleID != nil {
		v, err := s.repo.Vehicle.GetByID(ctx, *req.VehicleID)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			verr.Add("vehicle_id", "does not exist")
		case err != nil:
			s.logger.Error("get vehicle failed", zap.Error(err))
			return nil, err
		case !ac.Units.Contains(v.UnitID):
			verr.Add("vehicle_id", "is not a vehicle of the acting unit")
		case !v.IsActive:
			verr.Add("vehicle_id", "is inactive")
		}
	}

	// every staff id across items, for one lookup
	var staffIDs []string
	seenStaff := make(map[string]bool)
	for _, item := range req.Items {
		for _, id := range item.StaffIDs {
			if !seenStaff[id] {
				seenStaff[id] = true
				staffIDs = append(staffIDs, id)
			}
		}
	}
	staffRows, err := s.repo.Staff.ListByIDs(ctx, staffIDs)
	if err != nil {
		s.logger.Error("load plan staff failed", zap.Error(err))
		return nil, err
	}
	staffByID := make(map[string]model.StaffMember, len(staffRows))
	for _, m := range staffRows {
		staffByID[m.StaffID] = m
	}

	plan := &model.Plan{
		UnitID:    ac.ActingUnitID,
		PlanDate:  day,
		VehicleID: req.VehicleID,
		Note:      req.Note,
		Status:    model.PlanPlanned,
		Items:     make([]model.PlanItem, 0, len(req.Items)),
	}
	plan.SetCreator(ac.UserID)

	for i, item := range req.Items {
		field := fmt.Sprintf("items[%d]", i)

		a, err := s.repo.Activity.GetByID(ctx, item.ActivityID)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			verr.Add(field+".activity_id", "does not exist")
		case err != nil:
			s.logger.Error("get activity failed", zap.Error(err))
			return nil, err
		case !ac.Units.Contains(a.UnitID):
			verr.Add(field+".activity_id", "is not an activity of the acting unit")
		case !a.IsActive:
			verr.Add(field+".activity_id", "is inactive")
		}

		if item.GoalID != nil {
			g, err := s.repo.Goal.GetByID(ctx, *item.GoalID)
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				verr.Add(field+".goal_id", "does not exist")
			case err != nil:
				s.logger.Error("get goal failed", zap.Error(err))
				return nil, err
			case !goalVisible(ac, g):
				verr.Add(field+".goal_id", "is not a goal of the acting unit")
			case g.ClosedAt != nil:
				verr.Add(field+".goal_id", "is closed")
			}
		}

		pi := model.PlanItem{
			ActivityID: item.ActivityID,
			GoalID:     item.GoalID,
			Position:   i + 1,
			Staff:      make([]model.PlanItemStaff, 0, len(item.StaffIDs)),
		}
		inItem := make(map[string]bool, len(item.StaffIDs))
		for _, id := range item.StaffIDs {
			m, ok := staffByID[id]
			switch {
			case inItem[id]:
				verr.Add(field+".staff_ids", "lists "+id+" twice")
				continue
			case !ok || !ac.Units.Contains(m.UnitID):
				verr.Add(field+".staff_ids", id+" is not a staff member of the acting unit")
				continue
			case !m.IsActive:
				verr.Add(field+".staff_ids", m.Name+" is inactive")
				continue
			}
			inItem[id] = true
			pi.Staff = append(pi.Staff, model.PlanItemStaff{StaffID: id})
		}
		plan.Items = append(plan.Items, pi)
	}

	if len(staffIDs) > 0 {
		rests, err := s.repo.RestPeriod.ListOverlapping(ctx, staffIDs, datewindow.MustNew(day, day), "")
		if err != nil {
			s.logger.Error("check plan rest periods failed", zap.Error(err))
			return nil, err
		}
		for _, r := range rests {
			name := r.StaffID
			if m, ok := staffByID[r.StaffID]; ok {
				name = m.Name
			}
			verr.Add("staff."+r.StaffID, fmt.Sprintf("%s is on %s during %s",
				name, r.Category, datewindow.MustNew(r.StartDate, r.EndDate).String()))
		}
	}

	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	if err := s.repo.Plan.Create(ctx, plan); err != nil {
		return nil, writeFailure(s.logger, "create plan failed", err, nil)
	}
	return s.Get(ctx, ac, plan.PlanID)
}

// ────────────────────── UpdateStatus / Delete ──────────────────────

func (s *planService) UpdateStatus(ctx context.Context, ac *scope.ActingContext, id string, req *dto.UpdatePlanStatusRequest) (*dto.PlanResponse, error) {
	plan, err := s.load(ctx, ac, id)
	if err != nil {
		return nil, err
	}
	if plan.Status == req.Status {
		resp := toPlanResponse(plan)
		return &resp, nil
	}

	var doneAt *time.Time
	if req.Status == model.PlanCompleted {
		now := s.now()
		doneAt = &now
	}
	if err := s.repo.Plan.UpdateStatus(ctx, id, req.Status, doneAt, ac.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		s.logger.Error("update plan status failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	plan.Status = req.Status
	plan.DoneAt = doneAt
	resp := toPlanResponse(plan)
	return &resp, nil
}

func (s *planService) Delete(ctx context.Context, ac *scope.ActingContext, id string) error {
	if _, err := s.load(ctx, ac, id); err != nil {
		return err
	}
	if err := s.repo.Plan.Delete(ctx, id); err != nil {
		s.logger.Error("delete plan failed", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

func toPlanResponse(p *model.Plan) dto.PlanResponse {
	resp := dto.PlanResponse{
		ID:       p.PlanID,
		UnitID:   p.UnitID,
		PlanDate: formatDate(p.PlanDate),
		Note:     p.Note,
		Status:   p.Status,
		DoneAt:   formatOptionalTime(p.DoneAt),
		Items:    make([]dto.PlanItemResponse, 0, len(p.Items)),
	}
	if p.Vehicle != nil {
		v := toVehicleResponse(p.Vehicle)
		resp.Vehicle = &v
	}
	for _, it := range p.Items {
		ir := dto.PlanItemResponse{
			ID:         it.ItemID,
			Position:   it.Position,
			ActivityID: it.ActivityID,
			GoalID:     it.GoalID,
			Staff:      make([]dto.StaffBrief, 0, len(it.Staff)),
		}
		if it.Activity != nil {
			ir.ActivityName = it.Activity.Name
		}
		for _, st := range it.Staff {
			b := dto.StaffBrief{ID: st.StaffID}
			if st.Staff != nil {
				b.Name = st.Staff.Name
				b.Phone = st.Staff.Phone
			}
			ir.Staff = append(ir.Staff, b)
		}
		resp.Items = append(resp.Items, ir)
	}
	return resp
}
