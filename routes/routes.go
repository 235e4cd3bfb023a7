package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	controller "taskhive/controllers"
	"taskhive/middleware"
)

func SetupAuthRoutes(app *fiber.App) {
	// Auth routes group with logging middleware
	auth := app.Group("/api/auth", logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	auth.Post("/login", middleware.LoginRateLimiter(), controller.Login)

	// Protected auth endpoints (require valid JWT)
	protectedAuth := auth.Group("", middleware.Protected())
	protectedAuth.Get("/me", controller.GetCurrentUser)
	protectedAuth.Post("/change-password", controller.ChangePassword)
}

func SetupAPIRoutes(app *fiber.App, db *gorm.DB, log *logrus.Logger) {
	userController := controller.NewUserController(db, log)
	teamController := controller.NewTeamController(db, log)
	taskController := controller.NewTaskController(db, log)
	dashboardController := controller.NewDashboardController(db, log)

	// API group with protection and request logging
	api := app.Group("/api", middleware.Protected(), logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	// User management (super admin only)
	users := api.Group("/users", middleware.RequireSuperAdmin())
	users.Get("/", userController.GetUsers)
	users.Post("/", userController.CreateUser)
	users.Patch("/:userId", userController.UpdateUser)

	// Teams
	teams := api.Group("/teams")
	teams.Get("/", teamController.GetTeams)
	teams.Post("/", teamController.CreateTeam)
	teams.Get("/:teamId", middleware.LoadTeam(), middleware.RequireTeamMember(), teamController.GetTeam)
	teams.Get("/:teamId/user-candidates", middleware.LoadTeam(), middleware.RequireTeamAdmin(), teamController.GetUserCandidates)
	teams.Post("/:teamId/members", middleware.LoadTeam(), middleware.RequireTeamAdmin(), teamController.AddMember)
	teams.Patch("/:teamId/members/:userId", middleware.LoadTeam(), middleware.RequireTeamAdmin(), teamController.UpdateMemberRole)
	teams.Delete("/:teamId/members/:userId", middleware.LoadTeam(), middleware.RequireTeamAdmin(), teamController.RemoveMember)

	// Tasks; list/create resolve the team from query/body, item routes
	// resolve it from the task itself
	tasks := api.Group("/tasks")
	tasks.Get("/", middleware.LoadTeam(), middleware.RequireTeamMember(), taskController.GetTasks)
	tasks.Post("/", middleware.LoadTeam(), middleware.RequireTeamMember(), taskController.CreateTask)
	tasks.Get("/:taskId", middleware.LoadTask(), taskController.GetTask)
	tasks.Patch("/:taskId", middleware.LoadTask(), taskController.UpdateTask)
	tasks.Delete("/:taskId", middleware.LoadTask(), taskController.DeleteTask)

	// Dashboard
	dashboard := api.Group("/dashboard")
	dashboard.Get("/teams/:teamId/summary", middleware.LoadTeam(), middleware.RequireTeamMember(), dashboardController.GetTeamSummary)
}

func SetupRoutes(app *fiber.App, db *gorm.DB, log *logrus.Logger) {
	// Health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	SetupAuthRoutes(app)
	SetupAPIRoutes(app, db, log)

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   "Not Found",
			"message": "The requested resource was not found",
		})
	})
}
