package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"taskhive/access"
	"taskhive/config"
	"taskhive/models"
	"taskhive/utils"
)

func Protected() fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Try to get token from Authorization header first
		var token string
		authHeader := c.Get("Authorization")
		if authHeader != "" {
			tokenParts := strings.Split(authHeader, " ")
			if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": "Invalid authorization format",
				})
			}
			token = tokenParts[1]
		} else {
			// Fall back to cookie if header not present
			token = c.Cookies("access_token")
			if token == "" {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": "Authorization required",
				})
			}
		}

		// Parse and validate JWT
		claims, err := utils.ParseJWTToken(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		// Find user; the role on the record wins over the role baked into
		// the token, so role changes take effect on the next request.
		var user models.User
		if err := config.DB.Preload("TeamRefs").First(&user, claims.UserID).Error; err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "User not found",
			})
		}

		c.Locals("user", &user)
		c.Locals("userID", user.ID)

		return c.Next()
	}
}

// CurrentUser returns the authenticated user set by Protected.
func CurrentUser(c *fiber.Ctx) *models.User {
	return c.Locals("user").(*models.User)
}

// PrincipalFrom builds the access-resolver principal for the authenticated
// user.
func PrincipalFrom(c *fiber.Ctx) access.Principal {
	user := CurrentUser(c)
	return access.Principal{UserID: user.ID, Role: user.Role}
}
