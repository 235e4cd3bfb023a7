package controller

import (
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"taskhive/models"
)

func memberCount(t *testing.T, db *gorm.DB, teamID uint) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.TeamMember{}).Where("team_id = ?", teamID).Count(&n).Error)
	return n
}

func TestAddMemberAlreadyPresentConflict(t *testing.T) {
	db := openTestDB(t)
	admin := seedUser(t, db, "ada", models.RoleTeamAdmin)
	bob := seedUser(t, db, "bob", models.RoleTeamMember)

	team := models.Team{Name: "core", CreatedBy: admin.ID}
	require.NoError(t, db.Create(&team).Error)
	seedMember(t, db, team.ID, admin.ID, models.TeamRoleAdmin)
	seedMember(t, db, team.ID, bob.ID, models.TeamRoleMember)

	tc := NewTeamController(db, testLogger())
	app := fiber.New()
	app.Post("/teams/:teamId/members", asUser(db, admin), tc.AddMember)

	resp, err := app.Test(jsonRequest("POST",
		fmt.Sprintf("/teams/%d/members", team.ID),
		fiber.Map{"user_id": bob.ID}))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	// the member list is untouched and bob's role survives
	assert.EqualValues(t, 2, memberCount(t, db, team.ID))
	var m models.TeamMember
	require.NoError(t, db.Where("team_id = ? AND user_id = ?", team.ID, bob.ID).First(&m).Error)
	assert.Equal(t, models.TeamRoleMember, m.Role)
}

// A concurrent add can pass the list check on a stale snapshot; the composite
// unique index then rejects the insert and the handler still answers 409.
func TestAddMemberConcurrentDuplicateConflict(t *testing.T) {
	db := openTestDB(t)
	admin := seedUser(t, db, "ada", models.RoleTeamAdmin)
	carol := seedUser(t, db, "carol", models.RoleTeamMember)

	team := models.Team{Name: "core", CreatedBy: admin.ID}
	require.NoError(t, db.Create(&team).Error)
	seedMember(t, db, team.ID, admin.ID, models.TeamRoleAdmin)

	var snapshot models.Team
	require.NoError(t, db.Preload("Members").First(&snapshot, team.ID).Error)

	// the competing request wins the insert between snapshot and handler
	seedMember(t, db, team.ID, carol.ID, models.TeamRoleMember)

	tc := NewTeamController(db, testLogger())
	app := fiber.New()
	app.Post("/teams/:teamId/members", func(c *fiber.Ctx) error {
		c.Locals("user", admin)
		c.Locals("team", &snapshot)
		return c.Next()
	}, tc.AddMember)

	resp, err := app.Test(jsonRequest("POST",
		fmt.Sprintf("/teams/%d/members", team.ID),
		fiber.Map{"user_id": carol.ID}))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.EqualValues(t, 2, memberCount(t, db, team.ID))
}

func TestUpdateMemberRoleNotMember(t *testing.T) {
	db := openTestDB(t)
	admin := seedUser(t, db, "ada", models.RoleTeamAdmin)
	carol := seedUser(t, db, "carol", models.RoleTeamMember)

	team := models.Team{Name: "core", CreatedBy: admin.ID}
	require.NoError(t, db.Create(&team).Error)
	seedMember(t, db, team.ID, admin.ID, models.TeamRoleAdmin)

	tc := NewTeamController(db, testLogger())
	app := fiber.New()
	app.Patch("/teams/:teamId/members/:userId", asUser(db, admin), tc.UpdateMemberRole)

	resp, err := app.Test(jsonRequest("PATCH",
		fmt.Sprintf("/teams/%d/members/%d", team.ID, carol.ID),
		fiber.Map{"role": "ADMIN"}))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.EqualValues(t, 1, memberCount(t, db, team.ID))
}
