package controller

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"taskhive/models"
	"taskhive/utils"
)

// UserController handles the super-admin user management surface.
type UserController struct {
	DB     *gorm.DB
	Logger *logrus.Logger
}

func NewUserController(db *gorm.DB, logger *logrus.Logger) *UserController {
	return &UserController{DB: db, Logger: logger}
}

type CreateUserRequest struct {
	Name     string            `json:"name" validate:"required,max=80"`
	Email    string            `json:"email" validate:"required,email"`
	Password string            `json:"password" validate:"required,min=8,max=72"`
	Role     models.GlobalRole `json:"role" validate:"required,oneof=SUPER_ADMIN TEAM_ADMIN TEAM_MEMBER"`
}

type UpdateUserRequest struct {
	Name     *string            `json:"name" validate:"omitempty,min=1,max=80"`
	Role     *models.GlobalRole `json:"role" validate:"omitempty,oneof=SUPER_ADMIN TEAM_ADMIN TEAM_MEMBER"`
	Password *string            `json:"password" validate:"omitempty,min=8,max=72"`
}

type UserResponse struct {
	ID        uint              `json:"id"`
	Name      string            `json:"name"`
	Email     string            `json:"email"`
	Role      models.GlobalRole `json:"role"`
	CreatedAt string            `json:"created_at"`
}

func toUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// GetUsers returns all users, newest first.
func (uc *UserController) GetUsers(c *fiber.Ctx) error {
	var users []models.User
	if err := uc.DB.Order("created_at DESC").Find(&users).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch users", err)
	}

	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, toUserResponse(&users[i]))
	}
	return c.JSON(out)
}

// CreateUser provisions a new account. Emails are stored lowercase and must
// be unique.
func (uc *UserController) CreateUser(c *fiber.Ctx) error {
	var req CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error(), nil)
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var existing models.User
	err := uc.DB.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return utils.ErrorResponse(c, fiber.StatusConflict, "Email already in use", nil)
	}
	if err != gorm.ErrRecordNotFound {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to check email", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to hash password", err)
	}

	user := models.User{
		Name:         req.Name,
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         req.Role,
	}
	if err := uc.DB.Create(&user).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create user", err)
	}

	uc.Logger.WithFields(logrus.Fields{
		"user_id": user.ID,
		"role":    user.Role,
	}).Info("user created")

	return c.Status(fiber.StatusCreated).JSON(toUserResponse(&user))
}

// UpdateUser patches name, role and/or password of an existing user.
func (uc *UserController) UpdateUser(c *fiber.Ctx) error {
	var req UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error(), nil)
	}

	userID := utils.ParseUint(c.Params("userId"))
	var user models.User
	if err := uc.DB.First(&user, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "User not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch user", err)
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.Password != nil {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to hash password", err)
		}
		user.PasswordHash = string(hashedPassword)
	}

	if err := uc.DB.Save(&user).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update user", err)
	}

	return c.JSON(toUserResponse(&user))
}
