package model

import "time"

// Capability names as stored in the permission columns. These are the keys
// accepted by the /api/permissions/check endpoint.
const (
	CapViewActions   = "can_view_actions"
	CapCreateActions = "can_create_actions"
	CapEditActions   = "can_edit_actions"
	CapDeleteActions = "can_delete_actions"
	CapViewTeam      = "can_view_team"
	CapManageTeam    = "can_manage_team"
	CapViewReports   = "can_view_reports"
	CapExportData    = "can_export_data"
)

// CapabilitySet holds the eight independent per-ministry capabilities.
// No ordering is implied between them; each gate checks exactly one field.
type CapabilitySet struct {
	CanViewActions   bool `gorm:"default:false" json:"can_view_actions"`
	CanCreateActions bool `gorm:"default:false" json:"can_create_actions"`
	CanEditActions   bool `gorm:"default:false" json:"can_edit_actions"`
	CanDeleteActions bool `gorm:"default:false" json:"can_delete_actions"`
	CanViewTeam      bool `gorm:"default:false" json:"can_view_team"`
	CanManageTeam    bool `gorm:"default:false" json:"can_manage_team"`
	CanViewReports   bool `gorm:"default:false" json:"can_view_reports"`
	CanExportData    bool `gorm:"default:false" json:"can_export_data"`
}

// Can returns the capability flag for the given column name. Unknown names
// are denied.
func (c CapabilitySet) Can(capability string) bool {
	switch capability {
	case CapViewActions:
		return c.CanViewActions
	case CapCreateActions:
		return c.CanCreateActions
	case CapEditActions:
		return c.CanEditActions
	case CapDeleteActions:
		return c.CanDeleteActions
	case CapViewTeam:
		return c.CanViewTeam
	case CapManageTeam:
		return c.CanManageTeam
	case CapViewReports:
		return c.CanViewReports
	case CapExportData:
		return c.CanExportData
	}
	return false
}

// UserMinistryPermission maps one user to one ministry with a full
// CapabilitySet. At most one row per (user_id, ministry_id); assignments
// replace the whole set atomically.
type UserMinistryPermission struct {
	ID            uint `gorm:"primaryKey" json:"id"`
	UserID        uint `gorm:"uniqueIndex:idx_user_ministry;not null" json:"user_id"`
	MinistryID    uint `gorm:"uniqueIndex:idx_user_ministry;not null" json:"ministry_id"`
	CapabilitySet `gorm:"embedded"`
	CreatedBy     uint      `json:"created_by"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	Ministry *Ministry `gorm:"foreignKey:MinistryID" json:"ministry,omitempty"`
}

// PermissionGroup is a named CapabilitySet template used to bulk-apply
// identical rights across many ministries in one operation.
type PermissionGroup struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	Name          string `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Description   string `gorm:"type:text" json:"description"`
	CapabilitySet `gorm:"embedded"`
}

// DefaultPermissionGroups seeds the predefined templates.
var DefaultPermissionGroups = []PermissionGroup{
	{
		Name:        "viewer",
		Description: "Read-only access to actions, team and reports",
		CapabilitySet: CapabilitySet{
			CanViewActions: true, CanViewTeam: true, CanViewReports: true,
		},
	},
	{
		Name:        "contributor",
		Description: "Can create and edit actions",
		CapabilitySet: CapabilitySet{
			CanViewActions: true, CanCreateActions: true, CanEditActions: true,
			CanViewTeam: true, CanViewReports: true,
		},
	},
	{
		Name:        "manager",
		Description: "Full action and team management",
		CapabilitySet: CapabilitySet{
			CanViewActions: true, CanCreateActions: true, CanEditActions: true,
			CanDeleteActions: true, CanViewTeam: true, CanManageTeam: true,
			CanViewReports: true, CanExportData: true,
		},
	},
	{
		Name:        "analyst",
		Description: "Reporting and data export",
		CapabilitySet: CapabilitySet{
			CanViewActions: true, CanViewReports: true, CanExportData: true,
		},
	},
}
