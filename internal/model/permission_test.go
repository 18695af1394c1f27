package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCapabilitySetCan(t *testing.T) {
	set := CapabilitySet{
		CanViewActions: true,
		CanEditActions: true,
		CanViewTeam:    true,
	}

	assert.True(t, set.Can(CapViewActions))
	assert.True(t, set.Can(CapEditActions))
	assert.True(t, set.Can(CapViewTeam))

	assert.False(t, set.Can(CapCreateActions))
	assert.False(t, set.Can(CapDeleteActions))
	assert.False(t, set.Can(CapManageTeam))
	assert.False(t, set.Can(CapViewReports))
	assert.False(t, set.Can(CapExportData))
}

func TestCapabilitySetCanUnknown(t *testing.T) {
	set := CapabilitySet{
		CanViewActions:   true,
		CanCreateActions: true,
		CanEditActions:   true,
		CanDeleteActions: true,
		CanViewTeam:      true,
		CanManageTeam:    true,
		CanViewReports:   true,
		CanExportData:    true,
	}

	// A capability name outside the known set is never granted, even when
	// every flag is on.
	assert.False(t, set.Can("can_drop_tables"))
	assert.False(t, set.Can(""))
}

func TestUserIsAdminUser(t *testing.T) {
	assert.True(t, (&User{Role: RoleAdmin}).IsAdminUser())
	assert.True(t, (&User{Role: RoleUser, IsSuperAdmin: true}).IsAdminUser())
	assert.False(t, (&User{Role: RoleUser}).IsAdminUser())
}

func TestUserPasswordRoundTrip(t *testing.T) {
	u := &User{}
	assert.NoError(t, u.SetPassword("s3cret-pass"))
	assert.NotEqual(t, "s3cret-pass", u.Password)

	assert.True(t, u.CheckPassword("s3cret-pass"))
	assert.False(t, u.CheckPassword("wrong"))
}
