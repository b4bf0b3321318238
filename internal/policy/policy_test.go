package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/dnothi-api/internal/models"
)

func TestScopeOwnerForcesAgentToSelf(t *testing.T) {
	agent := Caller{ID: 7, Role: models.RoleAgent}

	other := int64(42)
	scoped := ScopeOwner(agent, &other)
	require.NotNil(t, scoped)
	assert.Equal(t, int64(7), *scoped, "agent-supplied owner filter must be overridden")

	scoped = ScopeOwner(agent, nil)
	require.NotNil(t, scoped)
	assert.Equal(t, int64(7), *scoped)
}

func TestScopeOwnerKeepsFilterForOtherRoles(t *testing.T) {
	for _, role := range []models.UserRole{models.RoleSupervisor, models.RoleAdmin, models.RoleSystemAdmin} {
		caller := Caller{ID: 1, Role: role}

		assert.Nil(t, ScopeOwner(caller, nil), "role %s should list unscoped", role)

		other := int64(42)
		scoped := ScopeOwner(caller, &other)
		require.NotNil(t, scoped)
		assert.Equal(t, int64(42), *scoped)
	}
}

func TestCanReadTask(t *testing.T) {
	assert.True(t, CanReadTask(Caller{ID: 7, Role: models.RoleAgent}, 7))
	assert.False(t, CanReadTask(Caller{ID: 7, Role: models.RoleAgent}, 8))
	assert.True(t, CanReadTask(Caller{ID: 7, Role: models.RoleSupervisor}, 8))
}

func TestCanDeleteTask(t *testing.T) {
	// Agents may only delete tasks they originally assigned.
	assert.True(t, CanDeleteTask(Caller{ID: 7, Role: models.RoleAgent}, 7))
	assert.False(t, CanDeleteTask(Caller{ID: 7, Role: models.RoleAgent}, 3))
	assert.True(t, CanDeleteTask(Caller{ID: 7, Role: models.RoleAdmin}, 3))
}

func TestCanDecideLeave(t *testing.T) {
	assert.False(t, CanDecideLeave(Caller{ID: 1, Role: models.RoleAgent}, 2))
	assert.True(t, CanDecideLeave(Caller{ID: 1, Role: models.RoleSupervisor}, 2))
	assert.True(t, CanDecideLeave(Caller{ID: 1, Role: models.RoleSystemAdmin}, 2))
	// Approvers never decide their own request.
	assert.False(t, CanDecideLeave(Caller{ID: 2, Role: models.RoleAdmin}, 2))
}

func TestCanChangeRoleGuardsSystemAdminTargets(t *testing.T) {
	admin := Caller{ID: 1, Role: models.RoleAdmin}
	sysadmin := Caller{ID: 2, Role: models.RoleSystemAdmin}
	supervisor := Caller{ID: 3, Role: models.RoleSupervisor}

	assert.True(t, CanChangeRole(admin, models.RoleAgent, models.RoleSupervisor))
	assert.False(t, CanChangeRole(admin, models.RoleSystemAdmin, models.RoleAdmin))
	assert.False(t, CanChangeRole(admin, models.RoleAgent, models.RoleSystemAdmin))
	assert.True(t, CanChangeRole(sysadmin, models.RoleSystemAdmin, models.RoleAdmin))
	assert.True(t, CanChangeRole(sysadmin, models.RoleAgent, models.RoleSystemAdmin))
	assert.False(t, CanChangeRole(supervisor, models.RoleAgent, models.RoleSupervisor))
}

func TestRoleOrdering(t *testing.T) {
	assert.True(t, models.RoleSystemAdmin.AtLeast(models.RoleAdmin))
	assert.True(t, models.RoleAdmin.AtLeast(models.RoleSupervisor))
	assert.True(t, models.RoleSupervisor.AtLeast(models.RoleAgent))
	assert.False(t, models.RoleAgent.AtLeast(models.RoleSupervisor))
	assert.True(t, models.RoleAgent.AtLeast(models.RoleAgent))
	assert.False(t, models.UserRole("Intern").Valid())
}

func TestCanEditProfile(t *testing.T) {
	assert.True(t, CanEditProfile(Caller{ID: 5, Role: models.RoleAgent}, 5))
	assert.False(t, CanEditProfile(Caller{ID: 5, Role: models.RoleAgent}, 6))
	assert.False(t, CanEditProfile(Caller{ID: 5, Role: models.RoleSupervisor}, 6))
	assert.True(t, CanEditProfile(Caller{ID: 5, Role: models.RoleAdmin}, 6))
}
