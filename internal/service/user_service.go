package service

import (
	"errors"
	"time"

	"github.com/adinaninacerdine/sgg-project/internal/model"
	"github.com/adinaninacerdine/sgg-project/internal/repository"
)

var (
	ErrOwnAccount    = errors.New("cannot perform this operation on your own account")
	ErrLastAdmin     = errors.New("cannot remove the last administrator")
	ErrAlreadyActive = errors.New("user already active")
	ErrInvalidRole   = errors.New("invalid role")
)

// UserStatsResponse bundles the /api/users/stats aggregates.
type UserStatsResponse struct {
	Overview      *repository.UserStats          `json:"overview"`
	ByMinistry    []repository.UserMinistryCount `json:"byMinistry"`
	RecentSignups []repository.SignupCount       `json:"recentSignups"`
}

// PendingUsersResponse lists accounts waiting for approval.
type PendingUsersResponse struct {
	Count int                  `json:"count"`
	Users []model.UserResponse `json:"users"`
}

type UserService interface {
	GetAllUsers() ([]model.UserResponse, error)
	GetPending() (*PendingUsersResponse, error)
	Activate(userID, approverID uint) (*model.User, error)
	Deactivate(userID, actorID uint) (*model.User, error)
	ChangeRole(userID uint, role string, actorID uint) (*model.User, error)
	DeleteUser(userID, actorID uint) (*model.User, error)
	GetStats() (*UserStatsResponse, error)
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) GetAllUsers() ([]model.UserResponse, error) {
	users, err := s.userRepo.FindAll()
	if err != nil {
		return nil, err
	}

	namesByID := make(map[uint]string, len(users))
	for _, u := range users {
		namesByID[u.ID] = u.Name
	}

	responses := make([]model.UserResponse, len(users))
	for i, u := range users {
		resp := u.ToResponse()
		if u.ApprovedBy != nil {
			resp.ApprovedByName = namesByID[*u.ApprovedBy]
		}
		responses[i] = resp
	}
	return responses, nil
}

func (s *userService) GetPending() (*PendingUsersResponse, error) {
	users, err := s.userRepo.FindPending()
	if err != nil {
		return nil, err
	}
	responses := make([]model.UserResponse, len(users))
	for i, u := range users {
		responses[i] = u.ToResponse()
	}
	return &PendingUsersResponse{Count: len(responses), Users: responses}, nil
}

func (s *userService) Activate(userID, approverID uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	if user.IsActive {
		return nil, ErrAlreadyActive
	}

	now := time.Now()
	fields := map[string]interface{}{
		"is_active":   true,
		"approved_by": approverID,
		"approved_at": now,
	}
	if err := s.userRepo.UpdateFields(userID, fields); err != nil {
		return nil, err
	}
	return s.userRepo.FindByID(userID)
}

func (s *userService) Deactivate(userID, actorID uint) (*model.User, error) {
	if userID == actorID {
		return nil, ErrOwnAccount
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	if user.Role == model.RoleAdmin {
		if err := s.ensureNotLastAdmin(true); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.UpdateFields(userID, map[string]interface{}{"is_active": false}); err != nil {
		return nil, err
	}
	return s.userRepo.FindByID(userID)
}

func (s *userService) ChangeRole(userID uint, role string, actorID uint) (*model.User, error) {
	if role != model.RoleUser && role != model.RoleAdmin {
		return nil, ErrInvalidRole
	}
	if userID == actorID {
		return nil, ErrOwnAccount
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	// Demoting the last active admin would lock everyone out.
	if role == model.RoleUser && user.Role == model.RoleAdmin {
		if err := s.ensureNotLastAdmin(true); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.UpdateFields(userID, map[string]interface{}{"role": role}); err != nil {
		return nil, err
	}
	return s.userRepo.FindByID(userID)
}

func (s *userService) DeleteUser(userID, actorID uint) (*model.User, error) {
	if userID == actorID {
		return nil, ErrOwnAccount
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	if user.Role == model.RoleAdmin {
		if err := s.ensureNotLastAdmin(false); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.Delete(userID); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) ensureNotLastAdmin(activeOnly bool) error {
	count, err := s.userRepo.CountAdmins(activeOnly)
	if err != nil {
		return err
	}
	if count <= 1 {
		return ErrLastAdmin
	}
	return nil
}

func (s *userService) GetStats() (*UserStatsResponse, error) {
	overview, err := s.userRepo.GetStats()
	if err != nil {
		return nil, err
	}
	byMinistry, err := s.userRepo.CountByMinistry()
	if err != nil {
		return nil, err
	}
	signups, err := s.userRepo.RecentSignups(time.Now().AddDate(0, 0, -30))
	if err != nil {
		return nil, err
	}
	return &UserStatsResponse{
		Overview:      overview,
		ByMinistry:    byMinistry,
		RecentSignups: signups,
	}, nil
}
