package service

import (
	"errors"
	"fmt"

	"github.com/adinaninacerdine/sgg-project/internal/model"
	"github.com/adinaninacerdine/sgg-project/internal/repository"
	"github.com/adinaninacerdine/sgg-project/pkg/validator"

	"gorm.io/gorm"
)

var (
	ErrMemberNotFound     = errors.New("team member not found")
	ErrMemberEmailExists  = errors.New("a team member with this email already exists")
	ErrNoMembersToImport  = errors.New("no members to import")
	ErrNoMemberFieldsSent = errors.New("no fields to update")
)

type CreateMemberRequest struct {
	Name     string  `json:"name" validate:"required"`
	Position string  `json:"position" validate:"required"`
	Ministry string  `json:"ministry"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Phone    *string `json:"phone" validate:"omitempty,phone"`
	Notes    string  `json:"notes"`
}

type UpdateMemberRequest struct {
	Name     *string `json:"name"`
	Position *string `json:"position"`
	Ministry *string `json:"ministry"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Phone    *string `json:"phone" validate:"omitempty,phone"`
	Notes    *string `json:"notes"`
}

// ImportResult reports a bulk import outcome. Rows are imported
// independently so one bad row does not sink the batch.
type ImportResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors"`
}

// MemberHasActionsError carries the count of actions still assigned to
// the member, so the caller can explain why deletion is blocked.
type MemberHasActionsError struct {
	Count int64
}

func (e *MemberHasActionsError) Error() string {
	return fmt.Sprintf("member is responsible for %d action(s)", e.Count)
}

type TeamService interface {
	List(ministryRef string) ([]model.TeamMember, error)
	Get(id uint) (*model.TeamMember, error)
	Create(req *CreateMemberRequest) (*model.TeamMember, error)
	Update(id uint, req *UpdateMemberRequest) (*model.TeamMember, error)
	Delete(id uint) (*model.TeamMember, error)
	Import(members []CreateMemberRequest) (*ImportResult, error)
	ExportCSV(ministryRef string) ([]byte, error)
	Performance() ([]repository.MemberPerformance, []repository.TopPerformer, error)
	Responsibles() ([]repository.Responsible, error)
}

type teamService struct {
	teamRepo     repository.TeamRepository
	actionRepo   repository.ActionRepository
	ministryRepo repository.MinistryRepository
}

func NewTeamService(teamRepo repository.TeamRepository, actionRepo repository.ActionRepository, ministryRepo repository.MinistryRepository) TeamService {
	return &teamService{
		teamRepo:     teamRepo,
		actionRepo:   actionRepo,
		ministryRepo: ministryRepo,
	}
}

func (s *teamService) resolveMinistryID(ref string) (*uint, error) {
	if ref == "" {
		return nil, nil
	}
	ministry, err := s.ministryRepo.Resolve(ref)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMinistryNotFound
		}
		return nil, err
	}
	return &ministry.ID, nil
}

func (s *teamService) List(ministryRef string) ([]model.TeamMember, error) {
	ministryID, err := s.resolveMinistryID(ministryRef)
	if err != nil {
		return nil, err
	}
	return s.teamRepo.FindAll(ministryID)
}

func (s *teamService) Get(id uint) (*model.TeamMember, error) {
	member, err := s.teamRepo.FindByID(id)
	if err != nil {
		return nil, ErrMemberNotFound
	}
	return member, nil
}

func (s *teamService) Create(req *CreateMemberRequest) (*model.TeamMember, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	if req.Email != nil && *req.Email != "" {
		if _, err := s.teamRepo.FindByEmail(*req.Email); err == nil {
			return nil, ErrMemberEmailExists
		}
	}

	ministryID, err := s.resolveMinistryID(req.Ministry)
	if err != nil {
		return nil, err
	}

	member := &model.TeamMember{
		Name:       req.Name,
		Position:   req.Position,
		MinistryID: ministryID,
		Email:      normalizeOptional(req.Email),
		Phone:      derefOr(req.Phone, ""),
		Notes:      req.Notes,
	}
	if err := s.teamRepo.Create(member); err != nil {
		return nil, err
	}
	return member, nil
}

func (s *teamService) Update(id uint, req *UpdateMemberRequest) (*model.TeamMember, error) {
	if _, err := s.teamRepo.FindByID(id); err != nil {
		return nil, ErrMemberNotFound
	}
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Position != nil {
		fields["position"] = *req.Position
	}
	if req.Ministry != nil {
		if *req.Ministry == "" {
			fields["ministry_id"] = nil
		} else {
			ministryID, err := s.resolveMinistryID(*req.Ministry)
			if err != nil {
				return nil, err
			}
			fields["ministry_id"] = ministryID
		}
	}
	if req.Email != nil {
		if *req.Email != "" {
			if existing, err := s.teamRepo.FindByEmail(*req.Email); err == nil && existing.ID != id {
				return nil, ErrMemberEmailExists
			}
		}
		fields["email"] = normalizeOptional(req.Email)
	}
	if req.Phone != nil {
		fields["phone"] = *req.Phone
	}
	if req.Notes != nil {
		fields["notes"] = *req.Notes
	}
	if len(fields) == 0 {
		return nil, ErrNoMemberFieldsSent
	}

	return s.teamRepo.UpdateColumns(id, fields)
}

func (s *teamService) Delete(id uint) (*model.TeamMember, error) {
	member, err := s.teamRepo.FindByID(id)
	if err != nil {
		return nil, ErrMemberNotFound
	}

	count, err := s.actionRepo.CountByResponsible(member.Name)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, &MemberHasActionsError{Count: count}
	}

	if err := s.teamRepo.Delete(id); err != nil {
		return nil, err
	}
	return member, nil
}

func (s *teamService) Import(members []CreateMemberRequest) (*ImportResult, error) {
	if len(members) == 0 {
		return nil, ErrNoMembersToImport
	}

	result := &ImportResult{Errors: []string{}}
	for i, req := range members {
		row := req
		if _, err := s.Create(&row); err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d (%s): %v", i+1, row.Name, err))
			continue
		}
		result.Imported++
	}
	return result, nil
}

func (s *teamService) ExportCSV(ministryRef string) ([]byte, error) {
	members, err := s.List(ministryRef)
	if err != nil {
		return nil, err
	}

	header := []string{"ID", "Name", "Position", "Ministry", "Email", "Phone", "Notes"}
	rows := make([][]string, len(members))
	for i, m := range members {
		ministryName := ""
		if m.Ministry != nil {
			ministryName = m.Ministry.Name
		}
		rows[i] = []string{
			fmt.Sprintf("%d", m.ID),
			m.Name,
			m.Position,
			ministryName,
			derefOr(m.Email, ""),
			m.Phone,
			m.Notes,
		}
	}
	return renderCSV(header, rows)
}

func (s *teamService) Performance() ([]repository.MemberPerformance, []repository.TopPerformer, error) {
	stats, err := s.teamRepo.PerformanceStats()
	if err != nil {
		return nil, nil, err
	}
	top, err := s.teamRepo.TopPerformers(3)
	if err != nil {
		return nil, nil, err
	}
	return stats, top, nil
}

func (s *teamService) Responsibles() ([]repository.Responsible, error) {
	return s.teamRepo.DistinctResponsibles()
}

// normalizeOptional maps empty strings to NULL so the unique index on
// email tolerates members without one.
func normalizeOptional(v *string) *string {
	if v == nil || *v == "" {
		return nil
	}
	return v
}

func derefOr(v *string, fallback string) string {
	if v == nil {
		return fallback
	}
	return *v
}
