package service

import (
	"testing"

	"github.com/adinaninacerdine/sgg-project/internal/model"
	"github.com/adinaninacerdine/sgg-project/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeUserRepo struct {
	repository.UserRepository
	users   map[uint]*model.User
	updated map[uint]map[string]interface{}
	deleted []uint
}

func newFakeUserRepo(users ...*model.User) *fakeUserRepo {
	repo := &fakeUserRepo{
		users:   map[uint]*model.User{},
		updated: map[uint]map[string]interface{}{},
	}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (f *fakeUserRepo) FindByID(id uint) (*model.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) UpdateFields(id uint, fields map[string]interface{}) error {
	f.updated[id] = fields
	return nil
}

func (f *fakeUserRepo) Delete(id uint) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeUserRepo) CountAdmins(activeOnly bool) (int64, error) {
	var count int64
	for _, u := range f.users {
		if u.Role != model.RoleAdmin {
			continue
		}
		if activeOnly && !u.IsActive {
			continue
		}
		count++
	}
	return count, nil
}

func testUser(id uint, role string, active bool) *model.User {
	u := &model.User{Role: role, IsActive: active}
	u.ID = id
	return u
}

func TestDeactivateOwnAccount(t *testing.T) {
	svc := NewUserService(newFakeUserRepo(testUser(1, model.RoleAdmin, true)))

	_, err := svc.Deactivate(1, 1)
	assert.ErrorIs(t, err, ErrOwnAccount)
}

func TestDeactivateLastAdmin(t *testing.T) {
	repo := newFakeUserRepo(
		testUser(1, model.RoleAdmin, true),
		testUser(2, model.RoleUser, true),
	)
	svc := NewUserService(repo)

	_, err := svc.Deactivate(1, 99)
	assert.ErrorIs(t, err, ErrLastAdmin)
	assert.Empty(t, repo.updated)
}

func TestDeactivateAdminWithAnotherActive(t *testing.T) {
	repo := newFakeUserRepo(
		testUser(1, model.RoleAdmin, true),
		testUser(2, model.RoleAdmin, true),
	)
	svc := NewUserService(repo)

	_, err := svc.Deactivate(1, 2)
	require.NoError(t, err)
	assert.Equal(t, false, repo.updated[1]["is_active"])
}

func TestActivateAlreadyActive(t *testing.T) {
	svc := NewUserService(newFakeUserRepo(testUser(3, model.RoleUser, true)))

	_, err := svc.Activate(3, 1)
	assert.ErrorIs(t, err, ErrAlreadyActive)
}

func TestActivateRecordsApprover(t *testing.T) {
	repo := newFakeUserRepo(testUser(3, model.RoleUser, false))
	svc := NewUserService(repo)

	_, err := svc.Activate(3, 1)
	require.NoError(t, err)
	assert.Equal(t, true, repo.updated[3]["is_active"])
	assert.Equal(t, uint(1), repo.updated[3]["approved_by"])
}

func TestChangeRoleInvalid(t *testing.T) {
	svc := NewUserService(newFakeUserRepo(testUser(3, model.RoleUser, true)))

	_, err := svc.ChangeRole(3, "superuser", 1)
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestChangeRoleDemoteLastAdmin(t *testing.T) {
	svc := NewUserService(newFakeUserRepo(
		testUser(1, model.RoleAdmin, true),
		testUser(2, model.RoleUser, true),
	))

	_, err := svc.ChangeRole(1, model.RoleUser, 2)
	assert.ErrorIs(t, err, ErrLastAdmin)
}

func TestDeleteLastAdminCountsInactive(t *testing.T) {
	// The deletion guard counts inactive admins too: deleting the only
	// admin row is unrecoverable even if a deactivated one could be
	// reactivated first.
	repo := newFakeUserRepo(
		testUser(1, model.RoleAdmin, true),
		testUser(2, model.RoleAdmin, false),
	)
	svc := NewUserService(repo)

	deleted, err := svc.DeleteUser(1, 99)
	require.NoError(t, err)
	assert.Equal(t, uint(1), deleted.ID)
	assert.Equal(t, []uint{1}, repo.deleted)
}

func TestDeleteSoleAdmin(t *testing.T) {
	repo := newFakeUserRepo(
		testUser(1, model.RoleAdmin, true),
		testUser(2, model.RoleUser, true),
	)
	svc := NewUserService(repo)

	_, err := svc.DeleteUser(1, 2)
	assert.ErrorIs(t, err, ErrLastAdmin)
	assert.Empty(t, repo.deleted)
}
