package controller

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"taskhive/access"
	"taskhive/middleware"
	"taskhive/models"
	"taskhive/utils"
)

// TeamController handles team CRUD and membership mutation. Every
// membership mutation runs together with the user-side resync in one
// transaction, so the denormalized team sets cannot drift past a request.
type TeamController struct {
	DB     *gorm.DB
	Logger *logrus.Logger
}

func NewTeamController(db *gorm.DB, logger *logrus.Logger) *TeamController {
	return &TeamController{DB: db, Logger: logger}
}

type CreateTeamRequest struct {
	Name               string `json:"name" validate:"required,max=80"`
	InitialAdminUserID *uint  `json:"initial_admin_user_id"`
}

type AddMemberRequest struct {
	UserID uint            `json:"user_id" validate:"required"`
	Role   models.TeamRole `json:"role" validate:"omitempty,oneof=ADMIN MEMBER"`
}

type UpdateMemberRoleRequest struct {
	Role models.TeamRole `json:"role" validate:"required,oneof=ADMIN MEMBER"`
}

type TeamSummaryResponse struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	MembersCount int    `json:"members_count"`
	CreatedAt    string `json:"created_at"`
}

type TeamMemberResponse struct {
	UserID   uint              `json:"user_id"`
	TeamRole models.TeamRole   `json:"team_role"`
	Name     string            `json:"name"`
	Email    string            `json:"email"`
	Role     models.GlobalRole `json:"role"`
}

type TeamDetailResponse struct {
	ID      uint                 `json:"id"`
	Name    string               `json:"name"`
	Members []TeamMemberResponse `json:"members"`
}

// GetTeams lists the caller's teams; a super admin sees every team.
func (tc *TeamController) GetTeams(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	query := tc.DB.Preload("Members").Order("created_at DESC")
	if user.Role != models.RoleSuperAdmin {
		teamIDs := make([]uint, 0, len(user.TeamRefs))
		for _, ref := range user.TeamRefs {
			teamIDs = append(teamIDs, ref.TeamID)
		}
		query = query.Where("id IN ?", teamIDs)
	}

	var teams []models.Team
	if err := query.Find(&teams).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch teams", err)
	}

	out := make([]TeamSummaryResponse, 0, len(teams))
	for _, t := range teams {
		out = append(out, TeamSummaryResponse{
			ID:           t.ID,
			Name:         t.Name,
			MembersCount: len(t.Members),
			CreatedAt:    t.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return c.JSON(out)
}

// CreateTeam creates a team, optionally seeded with one admin member. The
// seeded path runs the same resync as every other membership mutation.
func (tc *TeamController) CreateTeam(c *fiber.Ctx) error {
	var req CreateTeamRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error(), nil)
	}

	if d := access.CanCreateTeam(middleware.PrincipalFrom(c)); !d.Allowed {
		return denyResponse(c, d)
	}

	user := middleware.CurrentUser(c)

	if req.InitialAdminUserID != nil {
		var admin models.User
		if err := tc.DB.First(&admin, *req.InitialAdminUserID).Error; err != nil {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Initial admin user not found", nil)
		}
	}

	team := models.Team{Name: req.Name, CreatedBy: user.ID}
	err := tc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&team).Error; err != nil {
			return err
		}
		if req.InitialAdminUserID != nil {
			member := models.TeamMember{
				TeamID: team.ID,
				UserID: *req.InitialAdminUserID,
				Role:   models.TeamRoleAdmin,
			}
			if err := tx.Create(&member).Error; err != nil {
				return err
			}
		}
		return models.ResyncUserTeams(tx, team.ID)
	})
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create team", err)
	}

	tc.Logger.WithFields(logrus.Fields{
		"team_id": team.ID,
		"name":    team.Name,
	}).Info("team created")

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":   team.ID,
		"name": team.Name,
	})
}

// GetTeam returns a team with its member list expanded with user details.
func (tc *TeamController) GetTeam(c *fiber.Ctx) error {
	team := middleware.TeamFrom(c)

	userIDs := make([]uint, 0, len(team.Members))
	for _, m := range team.Members {
		userIDs = append(userIDs, m.UserID)
	}

	var users []models.User
	if len(userIDs) > 0 {
		if err := tc.DB.Where("id IN ?", userIDs).Find(&users).Error; err != nil {
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch members", err)
		}
	}
	userMap := make(map[uint]*models.User, len(users))
	for i := range users {
		userMap[users[i].ID] = &users[i]
	}

	members := make([]TeamMemberResponse, 0, len(team.Members))
	for _, m := range team.Members {
		resp := TeamMemberResponse{UserID: m.UserID, TeamRole: m.Role}
		if u, ok := userMap[m.UserID]; ok {
			resp.Name = u.Name
			resp.Email = u.Email
			resp.Role = u.Role
		} else {
			resp.Name = "Unknown"
		}
		members = append(members, resp)
	}

	return c.JSON(TeamDetailResponse{ID: team.ID, Name: team.Name, Members: members})
}

// GetUserCandidates lists users not yet on the team, optionally filtered by
// a name/email substring. Search text is escaped so it matches literally.
func (tc *TeamController) GetUserCandidates(c *fiber.Ctx) error {
	team := middleware.TeamFrom(c)

	memberIDs := make(map[uint]struct{}, len(team.Members))
	for _, m := range team.Members {
		memberIDs[m.UserID] = struct{}{}
	}

	query := tc.DB.Limit(20)
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		pattern := "%" + utils.EscapeLike(q) + "%"
		query = query.Where("name ILIKE ? OR email ILIKE ?", pattern, pattern)
	}

	var users []models.User
	if err := query.Find(&users).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch candidates", err)
	}

	out := make([]UserResponse, 0, len(users))
	for i := range users {
		if _, taken := memberIDs[users[i].ID]; taken {
			continue
		}
		out = append(out, toUserResponse(&users[i]))
	}
	return c.JSON(out)
}

// AddMember inserts a user into the team's member list. Re-adding an
// existing member is a conflict, not a silent no-op; the composite unique
// index on (team_id, user_id) backstops the check under races.
func (tc *TeamController) AddMember(c *fiber.Ctx) error {
	var req AddMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error(), nil)
	}
	role := req.Role
	if role == "" {
		role = models.TeamRoleMember
	}

	team := middleware.TeamFrom(c)

	var user models.User
	if err := tc.DB.First(&user, req.UserID).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "User not found", nil)
	}

	if team.HasMember(req.UserID) {
		return utils.ErrorResponse(c, fiber.StatusConflict, "User already in team", nil)
	}

	err := tc.DB.Transaction(func(tx *gorm.DB) error {
		member := models.TeamMember{TeamID: team.ID, UserID: req.UserID, Role: role}
		if err := tx.Create(&member).Error; err != nil {
			return err
		}
		return models.ResyncUserTeams(tx, team.ID)
	})
	if err != nil {
		// a concurrent add can slip past the list check; the unique index
		// catches it and it is still a conflict, not a server failure
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return utils.ErrorResponse(c, fiber.StatusConflict, "User already in team", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to add member", err)
	}

	tc.Logger.WithFields(logrus.Fields{
		"team_id": team.ID,
		"user_id": req.UserID,
		"role":    role,
	}).Info("member added")

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Member added"})
}

// UpdateMemberRole flips a member between ADMIN and MEMBER in place.
func (tc *TeamController) UpdateMemberRole(c *fiber.Ctx) error {
	var req UpdateMemberRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error(), nil)
	}

	team := middleware.TeamFrom(c)
	userID := utils.ParseUint(c.Params("userId"))

	result := tc.DB.Model(&models.TeamMember{}).
		Where("team_id = ? AND user_id = ?", team.ID, userID).
		Update("role", req.Role)
	if result.Error != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update member", result.Error)
	}
	if result.RowsAffected == 0 {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Member not found", nil)
	}

	return c.JSON(fiber.Map{"message": "Member role updated"})
}

// RemoveMember drops a user from the team (no-op when absent), clears the
// assignee on the team's active tasks still pointing at them, and resyncs
// the user-side team set.
func (tc *TeamController) RemoveMember(c *fiber.Ctx) error {
	team := middleware.TeamFrom(c)
	userID := utils.ParseUint(c.Params("userId"))

	err := tc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("team_id = ? AND user_id = ?", team.ID, userID).
			Delete(&models.TeamMember{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Task{}).
			Where("team_id = ? AND assignee_id = ?", team.ID, userID).
			Update("assignee_id", nil).Error; err != nil {
			return err
		}
		return models.ResyncUserTeams(tx, team.ID)
	})
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to remove member", err)
	}

	tc.Logger.WithFields(logrus.Fields{
		"team_id": team.ID,
		"user_id": userID,
	}).Info("member removed")

	return c.JSON(fiber.Map{"message": "Member removed"})
}
