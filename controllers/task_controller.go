package controller

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"taskhive/access"
	"taskhive/middleware"
	"taskhive/models"
	"taskhive/utils"
)

// TaskController handles task CRUD within a team.
type TaskController struct {
	DB     *gorm.DB
	Logger *logrus.Logger
}

func NewTaskController(db *gorm.DB, logger *logrus.Logger) *TaskController {
	return &TaskController{DB: db, Logger: logger}
}

type CreateTaskRequest struct {
	TeamID      uint                `json:"team_id" validate:"required"`
	Title       string              `json:"title" validate:"required,max=140"`
	Description string              `json:"description" validate:"max=5000"`
	Status      models.TaskStatus   `json:"status" validate:"omitempty,oneof=TODO IN_PROGRESS DONE"`
	Priority    models.TaskPriority `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH"`
	DueDate     *time.Time          `json:"due_date"`
	AssigneeID  *uint               `json:"assignee_id"`
}

type UpdateTaskRequest struct {
	Title       *string              `json:"title" validate:"omitempty,min=1,max=140"`
	Description *string              `json:"description" validate:"omitempty,max=5000"`
	Status      *models.TaskStatus   `json:"status" validate:"omitempty,oneof=TODO IN_PROGRESS DONE"`
	Priority    *models.TaskPriority `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH"`
	DueDate     *time.Time           `json:"due_date"`
	AssigneeID  *uint                `json:"assignee_id"`
}

// priorityRank orders priorities HIGH > MEDIUM > LOW instead of the
// alphabetical order the varchar column would give.
const priorityRank = "CASE priority WHEN 'HIGH' THEN 3 WHEN 'MEDIUM' THEN 2 ELSE 1 END"

// taskSortOrder maps the sort query parameter to an ORDER BY clause; unknown
// values fall back to newest-first.
func taskSortOrder(sort string) string {
	switch sort {
	case "created_at":
		return "created_at ASC"
	case "-created_at":
		return "created_at DESC"
	case "due_date":
		return "due_date ASC, created_at DESC"
	case "-due_date":
		return "due_date DESC, created_at DESC"
	case "-priority":
		return priorityRank + " DESC, created_at DESC"
	default:
		return "created_at DESC"
	}
}

// GetTasks lists the team's active tasks with optional status, assignee and
// substring filters, a fixed set of sort orders and bounded pagination.
func (tc *TaskController) GetTasks(c *fiber.Ctx) error {
	team := middleware.TeamFrom(c)

	page, _ := strconv.Atoi(c.Query("page", "1"))
	page = utils.ClampPage(page)
	pageSize, _ := strconv.Atoi(c.Query("page_size", "10"))
	pageSize = utils.ClampPageSize(pageSize)
	offset := (page - 1) * pageSize

	filters := func(db *gorm.DB) *gorm.DB {
		db = db.Where("team_id = ?", team.ID)
		if status := models.TaskStatus(c.Query("status")); status != "" && status.Valid() {
			db = db.Where("status = ?", status)
		}
		if assigneeID := utils.ParseUint(c.Query("assignee_id")); assigneeID != 0 {
			db = db.Where("assignee_id = ?", assigneeID)
		}
		if q := c.Query("q"); q != "" {
			pattern := "%" + utils.EscapeLike(q) + "%"
			db = db.Where("title ILIKE ? OR description ILIKE ?", pattern, pattern)
		}
		return db
	}

	var total int64
	if err := tc.DB.Model(&models.Task{}).Scopes(filters).Count(&total).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to count tasks", err)
	}

	var tasks []models.Task
	if err := tc.DB.Scopes(filters).
		Order(taskSortOrder(c.Query("sort", "-created_at"))).
		Offset(offset).Limit(pageSize).
		Find(&tasks).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch tasks", err)
	}

	return c.JSON(utils.PaginatedResponse{
		Data:  tasks,
		Total: total,
		Page:  page,
		Limit: pageSize,
	})
}

// CreateTask creates a task in the loaded team. Any member may create; a
// requested assignee must be on the team's member list.
func (tc *TaskController) CreateTask(c *fiber.Ctx) error {
	var req CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error(), nil)
	}

	team := middleware.TeamFrom(c)
	user := middleware.CurrentUser(c)

	if d := access.CanCreateTask(middleware.PrincipalFrom(c), team, req.AssigneeID); !d.Allowed {
		return denyResponse(c, d)
	}

	status := req.Status
	if status == "" {
		status = models.TaskStatusTodo
	}
	priority := req.Priority
	if priority == "" {
		priority = models.TaskPriorityMedium
	}

	task := models.Task{
		TeamID:      team.ID,
		Title:       req.Title,
		Description: req.Description,
		Status:      status,
		Priority:    priority,
		DueDate:     req.DueDate,
		AssigneeID:  req.AssigneeID,
		CreatedBy:   user.ID,
	}
	if err := tc.DB.Create(&task).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create task", err)
	}

	tc.Logger.WithFields(logrus.Fields{
		"task_id": task.ID,
		"team_id": team.ID,
	}).Info("task created")

	return c.Status(fiber.StatusCreated).JSON(task)
}

// GetTask returns the task loaded by the task-access middleware.
func (tc *TaskController) GetTask(c *fiber.Ctx) error {
	return c.JSON(middleware.TaskFrom(c))
}

// UpdateTask applies a partial update. Admins, the creator and the current
// assignee may edit; reassignment is admin-only and nothing is applied on a
// deny. Absent fields are left untouched, which is why presence is read off
// the raw body: "assignee_id": null clears the assignee, a missing key does
// not.
func (tc *TaskController) UpdateTask(c *fiber.Ctx) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(c.Body(), &raw); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	var req UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error(), nil)
	}

	team := middleware.TeamFrom(c)
	task := middleware.TaskFrom(c)
	user := middleware.CurrentUser(c)

	_, setAssignee := raw["assignee_id"]
	_, setDueDate := raw["due_date"]

	change := access.TaskChange{SetAssignee: setAssignee, AssigneeID: req.AssigneeID}
	if d := access.CanUpdateTask(middleware.PrincipalFrom(c), team, task, change); !d.Allowed {
		return denyResponse(c, d)
	}

	updates := map[string]interface{}{"updated_by": user.ID}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.Priority != nil {
		updates["priority"] = *req.Priority
	}
	if setDueDate {
		updates["due_date"] = req.DueDate
	}
	if setAssignee {
		updates["assignee_id"] = req.AssigneeID
	}

	if err := tc.DB.Model(task).Updates(updates).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update task", err)
	}

	var saved models.Task
	if err := tc.DB.First(&saved, task.ID).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch task", err)
	}
	return c.JSON(saved)
}

// DeleteTask soft-deletes a task; team admins only. The record keeps its
// data and only gains the deletion timestamp, but no undelete exists.
func (tc *TaskController) DeleteTask(c *fiber.Ctx) error {
	team := middleware.TeamFrom(c)
	task := middleware.TaskFrom(c)
	user := middleware.CurrentUser(c)

	if d := access.CanDeleteTask(middleware.PrincipalFrom(c), team); !d.Allowed {
		return denyResponse(c, d)
	}

	err := tc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(task).Update("updated_by", user.ID).Error; err != nil {
			return err
		}
		return tx.Delete(task).Error
	})
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete task", err)
	}

	tc.Logger.WithFields(logrus.Fields{
		"task_id": task.ID,
		"team_id": team.ID,
	}).Info("task deleted")

	return c.JSON(fiber.Map{"message": "Task deleted"})
}
