package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"taskhive/middleware"
	"taskhive/models"
	"taskhive/utils"
)

// DashboardController serves per-team summary counters.
type DashboardController struct {
	DB     *gorm.DB
	Logger *logrus.Logger
}

func NewDashboardController(db *gorm.DB, logger *logrus.Logger) *DashboardController {
	return &DashboardController{DB: db, Logger: logger}
}

type TeamSummary struct {
	Total    int64            `json:"total"`
	ByStatus map[string]int64 `json:"by_status"`
	Overdue  int64            `json:"overdue"`
	Mine     int64            `json:"mine"`
}

// GetTeamSummary returns task counters for the loaded team: totals by
// status, overdue (past due and not DONE) and tasks assigned to the caller.
func (dc *DashboardController) GetTeamSummary(c *fiber.Ctx) error {
	team := middleware.TeamFrom(c)
	user := middleware.CurrentUser(c)
	now := time.Now()

	base := func() *gorm.DB {
		return dc.DB.Model(&models.Task{}).Where("team_id = ?", team.ID)
	}

	var summary TeamSummary
	summary.ByStatus = make(map[string]int64, 3)

	if err := base().Count(&summary.Total).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to build summary", err)
	}
	for _, status := range []models.TaskStatus{
		models.TaskStatusTodo,
		models.TaskStatusInProgress,
		models.TaskStatusDone,
	} {
		var n int64
		if err := base().Where("status = ?", status).Count(&n).Error; err != nil {
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to build summary", err)
		}
		summary.ByStatus[string(status)] = n
	}
	if err := base().
		Where("status <> ?", models.TaskStatusDone).
		Where("due_date < ?", now).
		Count(&summary.Overdue).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to build summary", err)
	}
	if err := base().Where("assignee_id = ?", user.ID).Count(&summary.Mine).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to build summary", err)
	}

	return c.JSON(summary)
}
