package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/adinaninacerdine/sgg-project/internal/model"
	"github.com/adinaninacerdine/sgg-project/internal/repository"
	"github.com/adinaninacerdine/sgg-project/pkg/jwt"
	"github.com/adinaninacerdine/sgg-project/pkg/validator"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountPending     = errors.New("account awaiting administrator approval")
	ErrEmailExists        = errors.New("email already exists")
)

type AuthService interface {
	Register(req *RegisterRequest) (*model.User, error)
	Login(email, password string) (*LoginResponse, error)
	Me(userID uint) (*MeResponse, error)
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Ministry string `json:"ministry"`
}

type LoginResponse struct {
	Token string             `json:"token"`
	User  model.UserResponse `json:"user"`
	// Snapshot of the per-ministry capabilities at login time, for client
	// UI only. Authorization re-queries live rows on every request.
	Permissions map[string]map[string]bool `json:"permissions"`
}

type MeResponse struct {
	User        model.UserResponse             `json:"user"`
	Permissions []model.UserMinistryPermission `json:"permissions"`
}

type authService struct {
	userRepo repository.UserRepository
	permRepo repository.PermissionRepository
}

func NewAuthService(userRepo repository.UserRepository, permRepo repository.PermissionRepository) AuthService {
	return &authService{
		userRepo: userRepo,
		permRepo: permRepo,
	}
}

// Register creates an inactive account. An administrator must activate it
// before the first login succeeds.
func (s *authService) Register(req *RegisterRequest) (*model.User, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	if existing, _ := s.userRepo.FindByEmail(req.Email); existing != nil {
		return nil, ErrEmailExists
	}

	user := &model.User{
		Name:     req.Name,
		Email:    req.Email,
		Ministry: req.Ministry,
		Role:     model.RoleUser,
		IsActive: false,
	}
	if err := user.SetPassword(req.Password); err != nil {
		return nil, errors.New("failed to hash password")
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *authService) Login(email, password string) (*LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrAccountPending
	}

	now := time.Now()
	if err := s.userRepo.UpdateFields(user.ID, map[string]interface{}{"last_login": now}); err != nil {
		return nil, errors.New("failed to record login")
	}
	user.LastLogin = &now

	snapshot, err := s.permissionSnapshot(user.ID)
	if err != nil {
		return nil, err
	}

	token, err := jwt.GenerateToken(user.ID, user.Email, user.Name, user.Role, user.IsSuperAdmin, snapshot)
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	return &LoginResponse{
		Token:       token,
		User:        user.ToResponse(),
		Permissions: snapshot,
	}, nil
}

func (s *authService) Me(userID uint) (*MeResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	perms, err := s.permRepo.FindByUser(userID)
	if err != nil {
		return nil, err
	}
	return &MeResponse{
		User:        user.ToResponse(),
		Permissions: perms,
	}, nil
}

func (s *authService) permissionSnapshot(userID uint) (map[string]map[string]bool, error) {
	rows, err := s.permRepo.FindByUser(userID)
	if err != nil {
		return nil, err
	}
	snapshot := make(map[string]map[string]bool, len(rows))
	for _, row := range rows {
		if row.Ministry == nil {
			continue
		}
		snapshot[row.Ministry.Name] = map[string]bool{
			model.CapViewActions:   row.CanViewActions,
			model.CapCreateActions: row.CanCreateActions,
			model.CapEditActions:   row.CanEditActions,
			model.CapDeleteActions: row.CanDeleteActions,
			model.CapViewTeam:      row.CanViewTeam,
			model.CapManageTeam:    row.CanManageTeam,
			model.CapViewReports:   row.CanViewReports,
			model.CapExportData:    row.CanExportData,
		}
	}
	return snapshot, nil
}
