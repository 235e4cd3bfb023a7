package controller

import (
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskhive/config"
	"taskhive/middleware"
	"taskhive/models"
)

func TestTaskSortOrder(t *testing.T) {
	tests := []struct {
		sort string
		want string
	}{
		{"created_at", "created_at ASC"},
		{"-created_at", "created_at DESC"},
		{"due_date", "due_date ASC, created_at DESC"},
		{"-due_date", "due_date DESC, created_at DESC"},
		{"-priority", priorityRank + " DESC, created_at DESC"},
		// unknown values fall back to newest-first
		{"", "created_at DESC"},
		{"title", "created_at DESC"},
		{"priority", "created_at DESC"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, taskSortOrder(tt.sort), "sort %q", tt.sort)
	}
}

// A soft-deleted task keeps its row but must vanish from every read path:
// the team listing, task-by-id and the dashboard counters.
func TestSoftDeletedTaskHidden(t *testing.T) {
	db := openTestDB(t)
	user := seedUser(t, db, "mia", models.RoleTeamMember)

	team := models.Team{Name: "core", CreatedBy: user.ID}
	require.NoError(t, db.Create(&team).Error)
	seedMember(t, db, team.ID, user.ID, models.TeamRoleMember)

	live := models.Task{
		TeamID:    team.ID,
		Title:     "stays",
		Status:    models.TaskStatusTodo,
		Priority:  models.TaskPriorityMedium,
		CreatedBy: user.ID,
	}
	gone := models.Task{
		TeamID:    team.ID,
		Title:     "goes",
		Status:    models.TaskStatusTodo,
		Priority:  models.TaskPriorityMedium,
		CreatedBy: user.ID,
	}
	require.NoError(t, db.Create(&live).Error)
	require.NoError(t, db.Create(&gone).Error)
	require.NoError(t, db.Delete(&gone).Error)

	// the task-loading middleware reads the shared handle
	config.DB = db

	tc := NewTaskController(db, testLogger())
	dc := NewDashboardController(db, testLogger())
	app := fiber.New()
	app.Get("/teams/:teamId/tasks", asUser(db, user), tc.GetTasks)
	app.Get("/tasks/:taskId", asUser(db, user), middleware.LoadTask(), tc.GetTask)
	app.Get("/teams/:teamId/summary", asUser(db, user), dc.GetTeamSummary)

	resp, err := app.Test(httptest.NewRequest("GET",
		fmt.Sprintf("/teams/%d/tasks", team.ID), nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var page struct {
		Data  []models.Task `json:"data"`
		Total int64         `json:"total"`
	}
	decodeBody(t, resp, &page)
	assert.EqualValues(t, 1, page.Total)
	require.Len(t, page.Data, 1)
	assert.Equal(t, live.ID, page.Data[0].ID)

	resp, err = app.Test(httptest.NewRequest("GET",
		fmt.Sprintf("/tasks/%d", gone.ID), nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET",
		fmt.Sprintf("/teams/%d/summary", team.ID), nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var summary struct {
		Total    int64            `json:"total"`
		ByStatus map[string]int64 `json:"by_status"`
	}
	decodeBody(t, resp, &summary)
	assert.EqualValues(t, 1, summary.Total)
	assert.EqualValues(t, 1, summary.ByStatus["TODO"])
}
