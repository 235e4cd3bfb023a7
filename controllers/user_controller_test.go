package controller

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskhive/models"
)

func TestCreateUserDuplicateEmail(t *testing.T) {
	db := openTestDB(t)
	super := seedUser(t, db, "root", models.RoleSuperAdmin)
	seedUser(t, db, "bob", models.RoleTeamMember)

	uc := NewUserController(db, testLogger())
	app := fiber.New()
	app.Post("/users", asUser(db, super), uc.CreateUser)

	resp, err := app.Test(jsonRequest("POST", "/users", fiber.Map{
		"name":     "Bob Again",
		"email":    "Bob@Example.com",
		"password": "longenough",
		"role":     "TEAM_MEMBER",
	}))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

// A failing duplicate-email lookup must not be mistaken for a free email.
func TestCreateUserLookupFailure(t *testing.T) {
	db := openTestDB(t)
	super := seedUser(t, db, "root", models.RoleSuperAdmin)

	uc := NewUserController(db, testLogger())
	app := fiber.New()
	app.Post("/users", asUser(db, super), uc.CreateUser)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	resp, err := app.Test(jsonRequest("POST", "/users", fiber.Map{
		"name":     "Eve",
		"email":    "eve@example.com",
		"password": "longenough",
		"role":     "TEAM_MEMBER",
	}))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}
