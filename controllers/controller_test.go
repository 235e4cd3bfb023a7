package controller

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"taskhive/models"
	"taskhive/utils"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.UserTeamRef{},
		&models.Team{},
		&models.TeamMember{},
		&models.Task{},
	))
	return db
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func seedUser(t *testing.T, db *gorm.DB, name string, role models.GlobalRole) *models.User {
	t.Helper()
	u := &models.User{
		Name:         name,
		Email:        name + "@example.com",
		PasswordHash: "irrelevant",
		Role:         role,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func seedMember(t *testing.T, db *gorm.DB, teamID, userID uint, role models.TeamRole) {
	t.Helper()
	require.NoError(t, db.Create(&models.TeamMember{TeamID: teamID, UserID: userID, Role: role}).Error)
}

// asUser injects the authenticated user and, when the route carries a teamId
// param, a fresh team snapshot, the way the auth and team-loading middleware
// do in production.
func asUser(db *gorm.DB, u *models.User) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("user", u)
		c.Locals("userID", u.ID)
		if teamID := utils.ParseUint(c.Params("teamId")); teamID != 0 {
			var team models.Team
			if err := db.Preload("Members").First(&team, teamID).Error; err != nil {
				return err
			}
			c.Locals("team", &team)
		}
		return c.Next()
	}
}

func jsonRequest(method, target string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}
