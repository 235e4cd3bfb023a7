package controller

import (
	"github.com/gofiber/fiber/v2"

	"taskhive/access"
)

var denyMessages = map[access.Reason]string{
	access.ReasonNotTeamMember:        "Not a member of this team",
	access.ReasonNotTeamAdmin:         "Team admin access required",
	access.ReasonNotAssigneeOrCreator: "Not allowed to update this task",
	access.ReasonAssigneeNotInTeam:    "Assignee must be in the same team",
	access.ReasonOnlyAdminCanReassign: "Only a team admin can reassign tasks",
	access.ReasonSuperAdminRequired:   "Super admin access required",
}

// denyResponse maps a resolver DENY to its transport failure. A bad assignee
// is a payload problem (400); everything else is a plain 403.
func denyResponse(c *fiber.Ctx, d access.Decision) error {
	status := fiber.StatusForbidden
	if d.Reason == access.ReasonAssigneeNotInTeam {
		status = fiber.StatusBadRequest
	}
	return c.Status(status).JSON(fiber.Map{
		"error":  denyMessages[d.Reason],
		"reason": d.Reason,
	})
}
