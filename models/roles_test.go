package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGlobalRoleValid(t *testing.T) {
	assert.True(t, RoleSuperAdmin.Valid())
	assert.True(t, RoleTeamAdmin.Valid())
	assert.True(t, RoleTeamMember.Valid())

	assert.False(t, GlobalRole("").Valid())
	assert.False(t, GlobalRole("admin").Valid())
	assert.False(t, GlobalRole("super_admin").Valid())
}

func TestTeamRoleValid(t *testing.T) {
	assert.True(t, TeamRoleAdmin.Valid())
	assert.True(t, TeamRoleMember.Valid())

	assert.False(t, TeamRole("").Valid())
	assert.False(t, TeamRole("OWNER").Valid())
	assert.False(t, TeamRole("member").Valid())
}

func TestTaskEnumsValid(t *testing.T) {
	assert.True(t, TaskStatusTodo.Valid())
	assert.True(t, TaskStatusInProgress.Valid())
	assert.True(t, TaskStatusDone.Valid())
	assert.False(t, TaskStatus("OPEN").Valid())

	assert.True(t, TaskPriorityLow.Valid())
	assert.True(t, TaskPriorityMedium.Valid())
	assert.True(t, TaskPriorityHigh.Valid())
	assert.False(t, TaskPriority("URGENT").Valid())
}
