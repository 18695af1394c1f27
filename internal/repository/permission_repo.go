package repository

import (
	"github.com/adinaninacerdine/sgg-project/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// capabilityColumns are the columns replaced wholesale on upsert. An
// assignment always carries the full CapabilitySet, never a partial patch.
var capabilityColumns = []string{
	"can_view_actions", "can_create_actions", "can_edit_actions", "can_delete_actions",
	"can_view_team", "can_manage_team", "can_view_reports", "can_export_data",
	"updated_at",
}

type PermissionRepository interface {
	FindByUserAndMinistry(userID, ministryID uint) (*model.UserMinistryPermission, error)
	FindByUser(userID uint) ([]model.UserMinistryPermission, error)
	FindAllWithMinistry() ([]model.UserMinistryPermission, error)
	ViewableMinistryIDs(userID uint) ([]uint, error)

	// Mutations take the caller's transaction handle so multi-row
	// operations stay all-or-nothing.
	Upsert(tx *gorm.DB, perm *model.UserMinistryPermission) error
	DeleteByUser(tx *gorm.DB, userID uint) (int64, error)
	DeleteByUserAndMinistry(tx *gorm.DB, userID, ministryID uint) (int64, error)

	FindGroupByName(name string) (*model.PermissionGroup, error)
	FindAllGroups() ([]model.PermissionGroup, error)
	SeedDefaultGroups() error
}

type permissionRepo struct {
	db *gorm.DB
}

func NewPermissionRepo(db *gorm.DB) PermissionRepository {
	return &permissionRepo{db}
}

func (r *permissionRepo) FindByUserAndMinistry(userID, ministryID uint) (*model.UserMinistryPermission, error) {
	var perm model.UserMinistryPermission
	err := r.db.Where("user_id = ? AND ministry_id = ?", userID, ministryID).First(&perm).Error
	if err != nil {
		return nil, err
	}
	return &perm, nil
}

func (r *permissionRepo) FindByUser(userID uint) ([]model.UserMinistryPermission, error) {
	var perms []model.UserMinistryPermission
	err := r.db.Preload("Ministry").Where("user_id = ?", userID).Find(&perms).Error
	return perms, err
}

func (r *permissionRepo) FindAllWithMinistry() ([]model.UserMinistryPermission, error) {
	var perms []model.UserMinistryPermission
	err := r.db.Preload("Ministry").Find(&perms).Error
	return perms, err
}

// ViewableMinistryIDs returns the ministries the user may list actions for.
// An empty result means zero access, not unrestricted access.
func (r *permissionRepo) ViewableMinistryIDs(userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&model.UserMinistryPermission{}).
		Where("user_id = ? AND can_view_actions = ?", userID, true).
		Pluck("ministry_id", &ids).Error
	return ids, err
}

// Upsert inserts or fully replaces the capability row for the
// (user, ministry) pair.
func (r *permissionRepo) Upsert(tx *gorm.DB, perm *model.UserMinistryPermission) error {
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "ministry_id"}},
		DoUpdates: clause.AssignmentColumns(capabilityColumns),
	}).Create(perm).Error
}

func (r *permissionRepo) DeleteByUser(tx *gorm.DB, userID uint) (int64, error) {
	result := tx.Where("user_id = ?", userID).Delete(&model.UserMinistryPermission{})
	return result.RowsAffected, result.Error
}

func (r *permissionRepo) DeleteByUserAndMinistry(tx *gorm.DB, userID, ministryID uint) (int64, error) {
	result := tx.Where("user_id = ? AND ministry_id = ?", userID, ministryID).
		Delete(&model.UserMinistryPermission{})
	return result.RowsAffected, result.Error
}

func (r *permissionRepo) FindGroupByName(name string) (*model.PermissionGroup, error) {
	var group model.PermissionGroup
	if err := r.db.Where("name = ?", name).First(&group).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *permissionRepo) FindAllGroups() ([]model.PermissionGroup, error) {
	var groups []model.PermissionGroup
	err := r.db.Order("name ASC").Find(&groups).Error
	return groups, err
}

// SeedDefaultGroups creates the predefined templates if they don't exist
func (r *permissionRepo) SeedDefaultGroups() error {
	for _, g := range model.DefaultPermissionGroups {
		var existing model.PermissionGroup
		if err := r.db.Where("name = ?", g.Name).First(&existing).Error; err == gorm.ErrRecordNotFound {
			if err := r.db.Create(&g).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
