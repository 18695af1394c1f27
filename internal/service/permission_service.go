package service

import (
	"errors"

	"github.com/adinaninacerdine/sgg-project/internal/model"
	"github.com/adinaninacerdine/sgg-project/internal/repository"

	"gorm.io/gorm"
)

var (
	ErrGroupNotFound    = errors.New("permission group not found")
	ErrMinistryNotFound = errors.New("ministry not found")
	ErrUserNotFound     = errors.New("user not found")
)

// AssignPermissions is the capability payload of an assign call. View-style
// capabilities default to granted when omitted; mutating ones default to
// denied.
type AssignPermissions struct {
	CanViewActions   *bool `json:"can_view_actions"`
	CanCreateActions *bool `json:"can_create_actions"`
	CanEditActions   *bool `json:"can_edit_actions"`
	CanDeleteActions *bool `json:"can_delete_actions"`
	CanViewTeam      *bool `json:"can_view_team"`
	CanManageTeam    *bool `json:"can_manage_team"`
	CanViewReports   *bool `json:"can_view_reports"`
	CanExportData    *bool `json:"can_export_data"`
}

func defaultTrue(v *bool) bool  { return v == nil || *v }
func defaultFalse(v *bool) bool { return v != nil && *v }

// ToCapabilitySet resolves the omitted-field defaults.
func (p AssignPermissions) ToCapabilitySet() model.CapabilitySet {
	return model.CapabilitySet{
		CanViewActions:   defaultTrue(p.CanViewActions),
		CanCreateActions: defaultFalse(p.CanCreateActions),
		CanEditActions:   defaultFalse(p.CanEditActions),
		CanDeleteActions: defaultFalse(p.CanDeleteActions),
		CanViewTeam:      defaultTrue(p.CanViewTeam),
		CanManageTeam:    defaultFalse(p.CanManageTeam),
		CanViewReports:   defaultTrue(p.CanViewReports),
		CanExportData:    defaultFalse(p.CanExportData),
	}
}

// AssignRequest targets one ministry, or every directory entry when
// ApplyToAllMinistries is set.
type AssignRequest struct {
	UserID               uint              `json:"user_id"`
	MinistryID           uint              `json:"ministry_id"`
	Permissions          AssignPermissions `json:"permissions"`
	ApplyToAllMinistries bool              `json:"apply_to_all_ministries"`
}

type RevokeRequest struct {
	UserID     uint `json:"user_id"`
	MinistryID uint `json:"ministry_id"`
	RevokeAll  bool `json:"revoke_all"`
}

type ApplyGroupRequest struct {
	UserID      uint   `json:"user_id"`
	GroupName   string `json:"group_name"`
	MinistryIDs []uint `json:"ministry_ids"`
}

// MinistryPermissionEntry is one row of the bulk-replace payload, the
// alternate assignment representation. All flags default to false.
type MinistryPermissionEntry struct {
	MinistryID     uint `json:"ministry_id"`
	CanView        bool `json:"can_view"`
	CanCreate      bool `json:"can_create"`
	CanEdit        bool `json:"can_edit"`
	CanDelete      bool `json:"can_delete"`
	CanViewTeam    bool `json:"can_view_team"`
	CanManageTeam  bool `json:"can_manage_team"`
	CanViewReports bool `json:"can_view_reports"`
	CanExportData  bool `json:"can_export_data"`
}

func (e MinistryPermissionEntry) toCapabilitySet() model.CapabilitySet {
	return model.CapabilitySet{
		CanViewActions:   e.CanView,
		CanCreateActions: e.CanCreate,
		CanEditActions:   e.CanEdit,
		CanDeleteActions: e.CanDelete,
		CanViewTeam:      e.CanViewTeam,
		CanManageTeam:    e.CanManageTeam,
		CanViewReports:   e.CanViewReports,
		CanExportData:    e.CanExportData,
	}
}

// MinistryPermission is one ministry directory entry merged with the user's
// capability row, when one exists.
type MinistryPermission struct {
	MinistryID     uint   `json:"ministry_id"`
	MinistryName   string `json:"ministry_name"`
	MinistryAbbrev string `json:"ministry_abbrev"`
	Assigned       bool   `json:"assigned"`
	model.CapabilitySet
}

// UserPermissionsResponse is the full per-user permission view.
type UserPermissionsResponse struct {
	IsSuperAdmin bool                 `json:"is_super_admin"`
	Permissions  []MinistryPermission `json:"permissions"`
}

// UserWithPermissions is one row of the admin-wide aggregation.
type UserWithPermissions struct {
	UserID       uint                           `json:"user_id"`
	UserName     string                         `json:"user_name"`
	UserEmail    string                         `json:"user_email"`
	UserRole     string                         `json:"user_role"`
	IsActive     bool                           `json:"is_active"`
	IsSuperAdmin bool                           `json:"is_super_admin"`
	Permissions  []model.UserMinistryPermission `json:"permissions"`
}

// UserPermissionSummary is one row of the per-user summary listing.
type UserPermissionSummary struct {
	UserID          uint     `json:"id"`
	Name            string   `json:"name"`
	Email           string   `json:"email"`
	Role            string   `json:"role"`
	MinistriesCount int      `json:"ministries_count"`
	Ministries      []string `json:"ministries"`
}

// CreateUserWithPermissionsRequest creates an account and its permission
// rows in one transaction.
type CreateUserWithPermissionsRequest struct {
	Name                string                    `json:"name" validate:"required"`
	Email               string                    `json:"email" validate:"required,email"`
	Password            string                    `json:"password" validate:"required,min=6"`
	Role                string                    `json:"role" validate:"omitempty,oneof=user admin"`
	MinistryPermissions []MinistryPermissionEntry `json:"ministry_permissions"`
}

type PermissionService interface {
	GetUserPermissions(userID uint) (*UserPermissionsResponse, error)
	GetUserPermissionRows(userID uint) ([]model.UserMinistryPermission, error)
	GetAllUsersPermissions() ([]UserWithPermissions, error)
	Assign(req *AssignRequest, actorID uint) (int, error)
	Revoke(req *RevokeRequest) (int64, error)
	ApplyGroup(req *ApplyGroupRequest, actorID uint) (int, error)
	BulkReplace(userID uint, entries []MinistryPermissionEntry, actorID uint) ([]model.UserMinistryPermission, error)
	CreateUserWithPermissions(req *CreateUserWithPermissionsRequest, actorID uint) (*model.User, error)
	Groups() ([]model.PermissionGroup, error)
	Summary() ([]UserPermissionSummary, error)
}

type permissionService struct {
	permRepo     repository.PermissionRepository
	ministryRepo repository.MinistryRepository
	userRepo     repository.UserRepository
	db           *gorm.DB
}

func NewPermissionService(permRepo repository.PermissionRepository, ministryRepo repository.MinistryRepository, userRepo repository.UserRepository, db *gorm.DB) PermissionService {
	return &permissionService{
		permRepo:     permRepo,
		ministryRepo: ministryRepo,
		userRepo:     userRepo,
		db:           db,
	}
}

func (s *permissionService) GetUserPermissions(userID uint) (*UserPermissionsResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	ministries, err := s.ministryRepo.FindAll()
	if err != nil {
		return nil, err
	}
	rows, err := s.permRepo.FindByUser(userID)
	if err != nil {
		return nil, err
	}

	byMinistry := make(map[uint]model.CapabilitySet, len(rows))
	for _, row := range rows {
		byMinistry[row.MinistryID] = row.CapabilitySet
	}

	// Every directory entry appears, assigned or not, so clients can render
	// the full matrix.
	perms := make([]MinistryPermission, len(ministries))
	for i, m := range ministries {
		entry := MinistryPermission{
			MinistryID:     m.ID,
			MinistryName:   m.Name,
			MinistryAbbrev: m.Abbrev,
		}
		if caps, ok := byMinistry[m.ID]; ok {
			entry.Assigned = true
			entry.CapabilitySet = caps
		}
		perms[i] = entry
	}

	return &UserPermissionsResponse{
		IsSuperAdmin: user.IsSuperAdmin,
		Permissions:  perms,
	}, nil
}

func (s *permissionService) GetUserPermissionRows(userID uint) ([]model.UserMinistryPermission, error) {
	return s.permRepo.FindByUser(userID)
}

func (s *permissionService) GetAllUsersPermissions() ([]UserWithPermissions, error) {
	users, err := s.userRepo.FindAll()
	if err != nil {
		return nil, err
	}
	rows, err := s.permRepo.FindAllWithMinistry()
	if err != nil {
		return nil, err
	}

	byUser := make(map[uint][]model.UserMinistryPermission)
	for _, row := range rows {
		byUser[row.UserID] = append(byUser[row.UserID], row)
	}

	result := make([]UserWithPermissions, len(users))
	for i, u := range users {
		perms := byUser[u.ID]
		if perms == nil {
			perms = []model.UserMinistryPermission{}
		}
		result[i] = UserWithPermissions{
			UserID:       u.ID,
			UserName:     u.Name,
			UserEmail:    u.Email,
			UserRole:     u.Role,
			IsActive:     u.IsActive,
			IsSuperAdmin: u.IsSuperAdmin,
			Permissions:  perms,
		}
	}
	return result, nil
}

// Assign upserts the capability row for one ministry, or for every
// directory entry when the all-flag is set. The whole operation is one
// transaction: a failing upsert rolls back every previous one.
func (s *permissionService) Assign(req *AssignRequest, actorID uint) (int, error) {
	caps := req.Permissions.ToCapabilitySet()

	if !req.ApplyToAllMinistries {
		if _, err := s.ministryRepo.FindByID(req.MinistryID); err != nil {
			return 0, ErrMinistryNotFound
		}
		err := s.db.Transaction(func(tx *gorm.DB) error {
			return s.permRepo.Upsert(tx, &model.UserMinistryPermission{
				UserID:        req.UserID,
				MinistryID:    req.MinistryID,
				CapabilitySet: caps,
				CreatedBy:     actorID,
			})
		})
		if err != nil {
			return 0, err
		}
		return 1, nil
	}

	ministries, err := s.ministryRepo.FindAll()
	if err != nil {
		return 0, err
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		for _, m := range ministries {
			perm := &model.UserMinistryPermission{
				UserID:        req.UserID,
				MinistryID:    m.ID,
				CapabilitySet: caps,
				CreatedBy:     actorID,
			}
			if err := s.permRepo.Upsert(tx, perm); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(ministries), nil
}

// Revoke deletes one row or all of a user's rows. Deleting nothing is not
// an error.
func (s *permissionService) Revoke(req *RevokeRequest) (int64, error) {
	var revoked int64
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		if req.RevokeAll {
			revoked, err = s.permRepo.DeleteByUser(tx, req.UserID)
		} else {
			revoked, err = s.permRepo.DeleteByUserAndMinistry(tx, req.UserID, req.MinistryID)
		}
		return err
	})
	return revoked, err
}

// ApplyGroup resolves a named template and upserts its CapabilitySet across
// the given ministries in one transaction.
func (s *permissionService) ApplyGroup(req *ApplyGroupRequest, actorID uint) (int, error) {
	group, err := s.permRepo.FindGroupByName(req.GroupName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrGroupNotFound
		}
		return 0, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		for _, ministryID := range req.MinistryIDs {
			perm := &model.UserMinistryPermission{
				UserID:        req.UserID,
				MinistryID:    ministryID,
				CapabilitySet: group.CapabilitySet,
				CreatedBy:     actorID,
			}
			if err := s.permRepo.Upsert(tx, perm); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(req.MinistryIDs), nil
}

// BulkReplace swaps a user's entire permission set for the given entries:
// delete-then-insert inside one transaction, so concurrent readers never
// observe a half-applied state.
func (s *permissionService) BulkReplace(userID uint, entries []MinistryPermissionEntry, actorID uint) ([]model.UserMinistryPermission, error) {
	if _, err := s.userRepo.FindByID(userID); err != nil {
		return nil, ErrUserNotFound
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := s.permRepo.DeleteByUser(tx, userID); err != nil {
			return err
		}
		for _, entry := range entries {
			perm := &model.UserMinistryPermission{
				UserID:        userID,
				MinistryID:    entry.MinistryID,
				CapabilitySet: entry.toCapabilitySet(),
				CreatedBy:     actorID,
			}
			if err := s.permRepo.Upsert(tx, perm); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.permRepo.FindByUser(userID)
}

func (s *permissionService) CreateUserWithPermissions(req *CreateUserWithPermissionsRequest, actorID uint) (*model.User, error) {
	if existing, _ := s.userRepo.FindByEmail(req.Email); existing != nil {
		return nil, ErrEmailExists
	}

	role := req.Role
	if role == "" {
		role = model.RoleUser
	}
	user := &model.User{
		Name:     req.Name,
		Email:    req.Email,
		Role:     role,
		IsActive: true, // admin-created accounts skip the approval queue
	}
	if err := user.SetPassword(req.Password); err != nil {
		return nil, errors.New("failed to hash password")
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		for _, entry := range req.MinistryPermissions {
			perm := &model.UserMinistryPermission{
				UserID:        user.ID,
				MinistryID:    entry.MinistryID,
				CapabilitySet: entry.toCapabilitySet(),
				CreatedBy:     actorID,
			}
			if err := s.permRepo.Upsert(tx, perm); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *permissionService) Groups() ([]model.PermissionGroup, error) {
	return s.permRepo.FindAllGroups()
}

func (s *permissionService) Summary() ([]UserPermissionSummary, error) {
	users, err := s.userRepo.FindAll()
	if err != nil {
		return nil, err
	}
	rows, err := s.permRepo.FindAllWithMinistry()
	if err != nil {
		return nil, err
	}

	ministriesByUser := make(map[uint][]string)
	for _, row := range rows {
		if row.Ministry != nil {
			ministriesByUser[row.UserID] = append(ministriesByUser[row.UserID], row.Ministry.Name)
		}
	}

	summaries := make([]UserPermissionSummary, 0, len(users))
	for _, u := range users {
		if u.Role == model.RoleAdmin {
			continue // admins bypass the matrix, nothing to summarize
		}
		names := ministriesByUser[u.ID]
		if names == nil {
			names = []string{}
		}
		summaries = append(summaries, UserPermissionSummary{
			UserID:          u.ID,
			Name:            u.Name,
			Email:           u.Email,
			Role:            u.Role,
			MinistriesCount: len(names),
			Ministries:      names,
		})
	}
	return summaries, nil
}
