package service

import (
	"testing"

	"github.com/adinaninacerdine/sgg-project/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func newMockPermissionService(t *testing.T) (PermissionService, sqlmock.Sqlmock) {
	db, mock := newMockDB(t)
	svc := NewPermissionService(
		repository.NewPermissionRepo(db),
		repository.NewMinistryRepo(db),
		repository.NewUserRepo(db),
		db,
	)
	return svc, mock
}

func TestRevokeSingleMinistry(t *testing.T) {
	svc, mock := newMockPermissionService(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "user_ministry_permissions"`).
		WithArgs(uint(7), uint(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	revoked, err := svc.Revoke(&RevokeRequest{UserID: 7, MinistryID: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(1), revoked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRevokeIsIdempotent(t *testing.T) {
	svc, mock := newMockPermissionService(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "user_ministry_permissions"`).
		WithArgs(uint(7), uint(1)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	// Revoking a grant that does not exist succeeds with zero rows.
	revoked, err := svc.Revoke(&RevokeRequest{UserID: 7, MinistryID: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(0), revoked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRevokeAll(t *testing.T) {
	svc, mock := newMockPermissionService(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "user_ministry_permissions"`).
		WithArgs(uint(7)).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	revoked, err := svc.Revoke(&RevokeRequest{UserID: 7, RevokeAll: true})
	require.NoError(t, err)
	assert.Equal(t, int64(3), revoked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignUpsertsOneRow(t *testing.T) {
	svc, mock := newMockPermissionService(t)

	mock.ExpectQuery(`SELECT (.+) FROM "ministries"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(1, "Finance"))

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "user_ministry_permissions"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	canView := true
	count, err := svc.Assign(&AssignRequest{
		UserID:      7,
		MinistryID:  1,
		Permissions: AssignPermissions{CanViewActions: &canView},
	}, 99)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignUnknownMinistry(t *testing.T) {
	svc, mock := newMockPermissionService(t)

	mock.ExpectQuery(`SELECT (.+) FROM "ministries"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

	_, err := svc.Assign(&AssignRequest{UserID: 7, MinistryID: 42}, 99)
	assert.ErrorIs(t, err, ErrMinistryNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyGroupUnknownGroup(t *testing.T) {
	svc, mock := newMockPermissionService(t)

	mock.ExpectQuery(`SELECT (.+) FROM "permission_groups"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

	_, err := svc.ApplyGroup(&ApplyGroupRequest{UserID: 7, GroupName: "nonexistent", MinistryIDs: []uint{1}}, 99)
	assert.ErrorIs(t, err, ErrGroupNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBulkReplaceDeletesThenInserts(t *testing.T) {
	svc, mock := newMockPermissionService(t)

	mock.ExpectQuery(`SELECT (.+) FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email"}).AddRow(7, "agent@sgg.gov"))
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "user_ministry_permissions"`).
		WithArgs(uint(7)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectQuery(`INSERT INTO "user_ministry_permissions"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
	mock.ExpectCommit()

	// Refresh read after the transaction commits, plus the Ministry preload.
	mock.ExpectQuery(`SELECT (.+) FROM "user_ministry_permissions"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "ministry_id", "can_view_actions"}).
			AddRow(5, 7, 1, true))
	mock.ExpectQuery(`SELECT (.+) FROM "ministries"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(1, "Finance"))

	rows, err := svc.BulkReplace(7, []MinistryPermissionEntry{
		{MinistryID: 1, CanView: true},
	}, 99)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, uint(1), rows[0].MinistryID)
	assert.True(t, rows[0].CanViewActions)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBulkReplaceUnknownUser(t *testing.T) {
	svc, mock := newMockPermissionService(t)

	mock.ExpectQuery(`SELECT (.+) FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email"}))

	_, err := svc.BulkReplace(404, []MinistryPermissionEntry{
		{MinistryID: 1, CanView: true},
	}, 99)
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
