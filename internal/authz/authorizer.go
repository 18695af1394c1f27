// Package authz decides whether an authenticated identity may perform an
// action against a ministry-scoped resource. It always evaluates live
// permission rows; the snapshot embedded in tokens at login is never
// consulted, so a revocation takes effect on the next request.
package authz

import (
	"errors"
	"fmt"

	"github.com/adinaninacerdine/sgg-project/internal/model"
	"github.com/adinaninacerdine/sgg-project/internal/repository"

	"gorm.io/gorm"
)

// Action is the logical operation being gated. Each maps to exactly one
// capability column.
type Action string

const (
	ActionRead        Action = "read"
	ActionCreate      Action = "create"
	ActionUpdate      Action = "update"
	ActionDelete      Action = "delete"
	ActionViewTeam    Action = "view_team"
	ActionManageTeam  Action = "manage_team"
	ActionViewReports Action = "view_reports"
	ActionExportData  Action = "export_data"
)

func (a Action) capability() string {
	switch a {
	case ActionRead:
		return model.CapViewActions
	case ActionCreate:
		return model.CapCreateActions
	case ActionUpdate:
		return model.CapEditActions
	case ActionDelete:
		return model.CapDeleteActions
	case ActionViewTeam:
		return model.CapViewTeam
	case ActionManageTeam:
		return model.CapManageTeam
	case ActionViewReports:
		return model.CapViewReports
	case ActionExportData:
		return model.CapExportData
	}
	return ""
}

// Error is an authorization failure with its HTTP status and, for capability
// denials, the required "<action> on <ministry>" hint echoed to the client.
// It never carries another user's data.
type Error struct {
	Status   int
	Message  string
	Required string
}

func (e *Error) Error() string { return e.Message }

// Identity is the authenticated caller, as extracted from verified claims.
type Identity struct {
	UserID       uint
	Role         string
	IsSuperAdmin bool
}

// IsAdmin reports whether capability checks are bypassed for this identity.
func (i Identity) IsAdmin() bool {
	return i.IsSuperAdmin || i.Role == model.RoleAdmin
}

// Target carries the request fragments a ministry can be resolved from, in
// resolution order: the path reference (action id or code), then an explicit
// ministry name/id from body or query.
type Target struct {
	ActionRef   string
	MinistryRef string
}

// Decision is the outcome of a successful authorization. For unscoped
// collection reads, Restricted is set and the handler must narrow its query
// to AllowedMinistryIDs (an empty slice means the query must match nothing).
type Decision struct {
	Bypass             bool
	Ministry           *model.Ministry
	Capabilities       *model.CapabilitySet
	Restricted         bool
	AllowedMinistryIDs []uint
}

type Authorizer interface {
	Authorize(identity Identity, action Action, target Target) (*Decision, error)
	ViewableMinistries(userID uint) ([]uint, error)
	HasCapability(identity Identity, ministryID uint, capability string) (bool, error)
}

type authorizer struct {
	actionRepo   repository.ActionRepository
	ministryRepo repository.MinistryRepository
	permRepo     repository.PermissionRepository
}

func NewAuthorizer(actionRepo repository.ActionRepository, ministryRepo repository.MinistryRepository, permRepo repository.PermissionRepository) Authorizer {
	return &authorizer{
		actionRepo:   actionRepo,
		ministryRepo: ministryRepo,
		permRepo:     permRepo,
	}
}

// Authorize runs the per-request state machine: resolve the target ministry,
// apply the admin/super-admin bypass, load the caller's capability row and
// evaluate the one flag the action requires.
func (a *authorizer) Authorize(identity Identity, action Action, target Target) (*Decision, error) {
	// Admin and super-admin are granted before any resolution; there is no
	// auditable distinction from a capability grant.
	if identity.IsAdmin() {
		return &Decision{Bypass: true}, nil
	}

	ministry, err := a.resolveMinistry(target)
	if err != nil {
		return nil, err
	}

	if ministry == nil {
		// A collection read with no target ministry is narrowed, not denied:
		// the handler filters to the viewable set.
		if action == ActionRead {
			allowed, err := a.permRepo.ViewableMinistryIDs(identity.UserID)
			if err != nil {
				return nil, err
			}
			if allowed == nil {
				allowed = []uint{}
			}
			return &Decision{Restricted: true, AllowedMinistryIDs: allowed}, nil
		}
		return nil, &Error{Status: 400, Message: "ministry not identified"}
	}

	perm, err := a.permRepo.FindByUserAndMinistry(identity.UserID, ministry.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// An absent row means zero capabilities, not default-allow.
			return nil, &Error{Status: 403, Message: "no access to this ministry"}
		}
		return nil, err
	}

	if !perm.Can(action.capability()) {
		required := fmt.Sprintf("%s on %s", action, ministry.Name)
		return nil, &Error{
			Status:   403,
			Message:  "permission denied: " + required,
			Required: required,
		}
	}

	return &Decision{Ministry: ministry, Capabilities: &perm.CapabilitySet}, nil
}

// resolveMinistry tries, in order: the action referenced in the path, then
// an explicit ministry reference. A nil ministry with nil error means no
// source identified one.
func (a *authorizer) resolveMinistry(target Target) (*model.Ministry, error) {
	if target.ActionRef != "" {
		action, err := a.actionRepo.FindByRef(target.ActionRef)
		if err == nil {
			if action.Ministry != nil {
				return action.Ministry, nil
			}
			return a.ministryRepo.FindByID(action.MinistryID)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		// Unknown action reference: fall through to the explicit sources.
	}

	if target.MinistryRef != "" {
		ministry, err := a.ministryRepo.Resolve(target.MinistryRef)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, &Error{Status: 404, Message: "ministry not found"}
			}
			return nil, err
		}
		return ministry, nil
	}

	return nil, nil
}

// ViewableMinistries is the filtering helper used by listing handlers. A
// caller with zero viewable ministries gets an empty, non-nil set so the
// downstream predicate matches no rows instead of being omitted.
func (a *authorizer) ViewableMinistries(userID uint) ([]uint, error) {
	ids, err := a.permRepo.ViewableMinistryIDs(userID)
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []uint{}
	}
	return ids, nil
}

// HasCapability answers the /api/permissions/check question for one
// capability column.
func (a *authorizer) HasCapability(identity Identity, ministryID uint, capability string) (bool, error) {
	if identity.IsAdmin() {
		return true, nil
	}
	perm, err := a.permRepo.FindByUserAndMinistry(identity.UserID, ministryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return perm.Can(capability), nil
}
