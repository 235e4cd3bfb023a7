package middleware

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"taskhive/access"
	"taskhive/config"
	"taskhive/models"
	"taskhive/utils"
)

// LoadTeam resolves the team referenced by the request (path param, query
// param or body) and stores it, with its member list, in the request
// context for the access checks downstream.
func LoadTeam() fiber.Handler {
	return func(c *fiber.Ctx) error {
		teamID := utils.ParseUint(c.Params("teamId"))
		if teamID == 0 {
			teamID = utils.ParseUint(c.Query("team_id"))
		}
		if teamID == 0 {
			var body struct {
				TeamID uint `json:"team_id"`
			}
			if err := c.BodyParser(&body); err == nil {
				teamID = body.TeamID
			}
		}
		if teamID == 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid team id",
			})
		}

		var team models.Team
		if err := config.DB.Preload("Members").First(&team, teamID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
					"error": "Team not found",
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to load team",
			})
		}

		c.Locals("team", &team)
		return c.Next()
	}
}

// TeamFrom returns the team loaded by LoadTeam or LoadTask.
func TeamFrom(c *fiber.Ctx) *models.Team {
	return c.Locals("team").(*models.Team)
}

// TaskFrom returns the task loaded by LoadTask.
func TaskFrom(c *fiber.Ctx) *models.Task {
	return c.Locals("task").(*models.Task)
}

// RequireTeamMember rejects principals that are not members of the loaded
// team.
func RequireTeamMember() fiber.Handler {
	return func(c *fiber.Ctx) error {
		d := access.CanViewTeam(PrincipalFrom(c), TeamFrom(c))
		if !d.Allowed {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error":  "Not a member of this team",
				"reason": d.Reason,
			})
		}
		return c.Next()
	}
}

// RequireTeamAdmin rejects principals without admin standing on the loaded
// team.
func RequireTeamAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		d := access.CanManageMembers(PrincipalFrom(c), TeamFrom(c))
		if !d.Allowed {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error":  "Team admin access required",
				"reason": d.Reason,
			})
		}
		return c.Next()
	}
}

// RequireSuperAdmin gates global operations (user management, team
// creation).
func RequireSuperAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		d := access.CanManageUsers(PrincipalFrom(c))
		if !d.Allowed {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error":  "Super admin access required",
				"reason": d.Reason,
			})
		}
		return c.Next()
	}
}

// LoadTask resolves the task in the path together with its team and checks
// team membership. A task outside the caller's teams answers 404, same as a
// missing one, so task ids never leak existence.
func LoadTask() fiber.Handler {
	return func(c *fiber.Ctx) error {
		taskID := utils.ParseUint(c.Params("taskId"))
		if taskID == 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid task id",
			})
		}

		// Soft-deleted tasks are excluded here, so they 404 like missing ones.
		var task models.Task
		if err := config.DB.First(&task, taskID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
					"error": "Task not found",
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to load task",
			})
		}

		var team models.Team
		if err := config.DB.Preload("Members").First(&team, task.TeamID).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Task not found",
			})
		}

		if d := access.CanViewTask(PrincipalFrom(c), &team); !d.Allowed {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Task not found",
			})
		}

		c.Locals("task", &task)
		c.Locals("team", &team)
		return c.Next()
	}
}
