package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/adinaninacerdine/sgg-project/internal/authz"
	"github.com/adinaninacerdine/sgg-project/internal/model"
	"github.com/adinaninacerdine/sgg-project/internal/repository"
	"github.com/adinaninacerdine/sgg-project/internal/ws"
	"github.com/adinaninacerdine/sgg-project/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrActionNotFound   = errors.New("action not found")
	ErrInvalidDateRange = errors.New("end date must be on or after start date")
	ErrNoFieldsToUpdate = errors.New("no fields to update")
)

const dateLayout = "2006-01-02"

type CreateActionRequest struct {
	Ministry     string `json:"ministry" validate:"required"`
	Title        string `json:"action_title" validate:"required"`
	Description  string `json:"description"`
	Responsible  string `json:"responsible" validate:"required"`
	Priority     string `json:"priority" validate:"required,oneof=low medium high"`
	Status       string `json:"status" validate:"required,oneof=new in-progress done overdue"`
	StartDate    string `json:"start_date" validate:"required"`
	EndDate      string `json:"end_date" validate:"required"`
	Stakeholders string `json:"stakeholders"`
}

// UpdateActionRequest is a partial-field patch: only non-nil fields are
// written, through a dynamically built column map.
type UpdateActionRequest struct {
	Ministry     *string `json:"ministry"`
	Title        *string `json:"action_title"`
	Description  *string `json:"description"`
	Responsible  *string `json:"responsible"`
	Priority     *string `json:"priority"`
	Status       *string `json:"status"`
	StartDate    *string `json:"start_date"`
	EndDate      *string `json:"end_date"`
	Stakeholders *string `json:"stakeholders"`
}

// ListActionsQuery carries the optional listing filters.
type ListActionsQuery struct {
	Ministry    string
	Status      string
	Responsible string
}

// ActionStatsResponse bundles the /api/actions/stats/overview aggregates.
type ActionStatsResponse struct {
	Overview          *repository.ActionOverview       `json:"overview"`
	ByMinistry        []repository.MinistryActionCount `json:"byMinistry"`
	ByPriority        []repository.PriorityCount       `json:"byPriority"`
	UpcomingDeadlines []repository.DeadlineEntry       `json:"upcomingDeadlines"`
}

type ActionService interface {
	List(query ListActionsQuery, decision *authz.Decision) ([]model.ActionResponse, error)
	Get(ref string) (*model.ActionResponse, error)
	GetHistory(ref string) ([]model.ActionHistory, error)
	Create(req *CreateActionRequest, actorID uint, actorName string) (*model.Action, error)
	Update(ref string, req *UpdateActionRequest, actorName string) (*model.Action, error)
	Delete(ref string, actorName string) (*model.Action, error)
	Overview(decision *authz.Decision) (*repository.ActionOverview, error)
	Stats() (*ActionStatsResponse, error)
	ExportCSV(decision *authz.Decision) ([]byte, error)
}

type actionService struct {
	actionRepo   repository.ActionRepository
	ministryRepo repository.MinistryRepository
	historyRepo  repository.HistoryRepository
	hub          *ws.Hub
}

func NewActionService(actionRepo repository.ActionRepository, ministryRepo repository.MinistryRepository, historyRepo repository.HistoryRepository, hub *ws.Hub) ActionService {
	return &actionService{
		actionRepo:   actionRepo,
		ministryRepo: ministryRepo,
		historyRepo:  historyRepo,
		hub:          hub,
	}
}

// buildFilter merges the caller's query filters with the authorization
// decision's viewable-set restriction.
func (s *actionService) buildFilter(query ListActionsQuery, decision *authz.Decision) (repository.ActionFilter, error) {
	filter := repository.ActionFilter{
		Status:      query.Status,
		Responsible: query.Responsible,
	}

	if query.Ministry != "" {
		ministry, err := s.ministryRepo.Resolve(query.Ministry)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Unknown ministry filters match nothing.
				filter.Restrict = true
				filter.AllowedMinistryIDs = []uint{}
				return filter, nil
			}
			return filter, err
		}
		filter.MinistryID = &ministry.ID
	}

	if decision != nil && decision.Restricted {
		filter.Restrict = true
		filter.AllowedMinistryIDs = decision.AllowedMinistryIDs
	}
	return filter, nil
}

func (s *actionService) List(query ListActionsQuery, decision *authz.Decision) ([]model.ActionResponse, error) {
	filter, err := s.buildFilter(query, decision)
	if err != nil {
		return nil, err
	}

	actions, err := s.actionRepo.FindAll(filter)
	if err != nil {
		return nil, err
	}

	responses := make([]model.ActionResponse, len(actions))
	for i, a := range actions {
		responses[i] = a.ToResponse()
	}
	return responses, nil
}

func (s *actionService) Get(ref string) (*model.ActionResponse, error) {
	action, err := s.actionRepo.FindByRef(ref)
	if err != nil {
		return nil, ErrActionNotFound
	}
	resp := action.ToResponse()
	return &resp, nil
}

func (s *actionService) GetHistory(ref string) ([]model.ActionHistory, error) {
	action, err := s.actionRepo.FindByRef(ref)
	if err != nil {
		return nil, ErrActionNotFound
	}
	return s.historyRepo.FindByAction(action.ID)
}

func (s *actionService) Create(req *CreateActionRequest, actorID uint, actorName string) (*model.Action, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return nil, errors.New("invalid start_date format, use YYYY-MM-DD")
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return nil, errors.New("invalid end_date format, use YYYY-MM-DD")
	}
	if endDate.Before(startDate) {
		return nil, ErrInvalidDateRange
	}

	ministry, err := s.ministryRepo.Resolve(req.Ministry)
	if err != nil {
		return nil, ErrMinistryNotFound
	}

	action := &model.Action{
		ActionCode:   newActionCode(),
		MinistryID:   ministry.ID,
		Title:        req.Title,
		Description:  req.Description,
		Responsible:  req.Responsible,
		Priority:     model.ActionPriority(req.Priority),
		Status:       model.ActionStatus(req.Status),
		StartDate:    startDate,
		EndDate:      endDate,
		Stakeholders: req.Stakeholders,
		CreatedBy:    actorID,
	}

	if err := s.actionRepo.Create(action); err != nil {
		return nil, err
	}
	action.Ministry = ministry

	s.notify("action_created", actorName, ministry.Name, action)
	return action, nil
}

func (s *actionService) Update(ref string, req *UpdateActionRequest, actorName string) (*model.Action, error) {
	existing, err := s.actionRepo.FindByRef(ref)
	if err != nil {
		return nil, ErrActionNotFound
	}

	fields := map[string]interface{}{}

	if req.Ministry != nil {
		ministry, err := s.ministryRepo.Resolve(*req.Ministry)
		if err != nil {
			return nil, ErrMinistryNotFound
		}
		fields["ministry_id"] = ministry.ID
	}
	if req.Title != nil {
		fields["title"] = *req.Title
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Responsible != nil {
		fields["responsible"] = *req.Responsible
	}
	if req.Priority != nil {
		if !validPriority(*req.Priority) {
			return nil, errors.New("invalid priority, use low, medium or high")
		}
		fields["priority"] = *req.Priority
	}
	if req.Status != nil {
		if !validStatus(*req.Status) {
			return nil, errors.New("invalid status, use new, in-progress, done or overdue")
		}
		fields["status"] = *req.Status
	}

	// The date invariant is checked against the incoming value when both
	// sides change, and against the stored row when only one does.
	startDate, endDate := existing.StartDate, existing.EndDate
	if req.StartDate != nil {
		startDate, err = parseDate(*req.StartDate)
		if err != nil {
			return nil, errors.New("invalid start_date format, use YYYY-MM-DD")
		}
		fields["start_date"] = startDate
	}
	if req.EndDate != nil {
		endDate, err = parseDate(*req.EndDate)
		if err != nil {
			return nil, errors.New("invalid end_date format, use YYYY-MM-DD")
		}
		fields["end_date"] = endDate
	}
	if endDate.Before(startDate) {
		return nil, ErrInvalidDateRange
	}

	if len(fields) == 0 {
		return nil, ErrNoFieldsToUpdate
	}

	updated, err := s.actionRepo.UpdateColumns(existing.ID, fields)
	if err != nil {
		return nil, err
	}

	ministryName := ""
	if updated.Ministry != nil {
		ministryName = updated.Ministry.Name
	}
	s.notify("action_updated", actorName, ministryName, updated)
	return updated, nil
}

func (s *actionService) Delete(ref string, actorName string) (*model.Action, error) {
	action, err := s.actionRepo.FindByRef(ref)
	if err != nil {
		return nil, ErrActionNotFound
	}
	if err := s.actionRepo.Delete(action.ID); err != nil {
		return nil, err
	}

	ministryName := ""
	if action.Ministry != nil {
		ministryName = action.Ministry.Name
	}
	s.notify("action_deleted", actorName, ministryName, action)
	return action, nil
}

func (s *actionService) Overview(decision *authz.Decision) (*repository.ActionOverview, error) {
	filter := repository.ActionFilter{}
	if decision != nil && decision.Restricted {
		filter.Restrict = true
		filter.AllowedMinistryIDs = decision.AllowedMinistryIDs
	}
	return s.actionRepo.GetOverview(filter)
}

func (s *actionService) Stats() (*ActionStatsResponse, error) {
	overview, err := s.actionRepo.GetOverview(repository.ActionFilter{})
	if err != nil {
		return nil, err
	}
	byMinistry, err := s.actionRepo.CountByMinistry()
	if err != nil {
		return nil, err
	}
	byPriority, err := s.actionRepo.CountByPriority()
	if err != nil {
		return nil, err
	}
	deadlines, err := s.actionRepo.UpcomingDeadlines(7, 5)
	if err != nil {
		return nil, err
	}
	return &ActionStatsResponse{
		Overview:          overview,
		ByMinistry:        byMinistry,
		ByPriority:        byPriority,
		UpcomingDeadlines: deadlines,
	}, nil
}

// ExportCSV renders the caller's visible actions as CSV.
func (s *actionService) ExportCSV(decision *authz.Decision) ([]byte, error) {
	filter := repository.ActionFilter{}
	if decision != nil && decision.Ministry != nil {
		filter.MinistryID = &decision.Ministry.ID
	}
	actions, err := s.actionRepo.FindAll(filter)
	if err != nil {
		return nil, err
	}

	header := []string{"ID", "Code", "Ministry", "Title", "Description", "Responsible", "Priority", "Start Date", "End Date", "Status"}
	rows := make([][]string, len(actions))
	for i, a := range actions {
		ministryName := ""
		if a.Ministry != nil {
			ministryName = a.Ministry.Name
		}
		rows[i] = []string{
			fmt.Sprintf("%d", a.ID),
			a.ActionCode,
			ministryName,
			a.Title,
			a.Description,
			a.Responsible,
			string(a.Priority),
			a.StartDate.Format(dateLayout),
			a.EndDate.Format(dateLayout),
			string(a.Status),
		}
	}
	return renderCSV(header, rows)
}

func (s *actionService) notify(eventType, actorName, ministryName string, action *model.Action) {
	if s.hub == nil {
		return
	}
	s.hub.BroadcastEvent(ws.Event{
		Type:     eventType,
		Actor:    actorName,
		Ministry: ministryName,
		Payload:  action.ToResponse(),
	})
}

// newActionCode generates a short unique business code for an action.
func newActionCode() string {
	return "ACT-" + strings.ToUpper(uuid.New().String()[:8])
}

// parseDate accepts plain dates and full RFC 3339 timestamps.
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(dateLayout, value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}

func validPriority(p string) bool {
	switch model.ActionPriority(p) {
	case model.PriorityLow, model.PriorityMedium, model.PriorityHigh:
		return true
	}
	return false
}

func validStatus(s string) bool {
	switch model.ActionStatus(s) {
	case model.StatusNew, model.StatusInProgress, model.StatusDone, model.StatusOverdue:
		return true
	}
	return false
}
