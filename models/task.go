package models

import (
	"time"

	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "TODO"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusDone       TaskStatus = "DONE"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusDone:
		return true
	}
	return false
}

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "LOW"
	TaskPriorityMedium TaskPriority = "MEDIUM"
	TaskPriorityHigh   TaskPriority = "HIGH"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	}
	return false
}

// Task is a work item scoped to exactly one team. Deletion is a soft delete
// via DeletedAt; gorm excludes soft-deleted rows from all reads, and no
// undelete operation exists.
type Task struct {
	ID          uint         `gorm:"primarykey" json:"id"`
	TeamID      uint         `gorm:"not null;index:idx_tasks_team_created" json:"team_id"`
	Title       string       `gorm:"not null" json:"title"`
	Description string       `gorm:"type:text" json:"description"`
	Status      TaskStatus   `gorm:"type:varchar(16);default:'TODO';index" json:"status"`
	Priority    TaskPriority `gorm:"type:varchar(16);default:'MEDIUM';index" json:"priority"`
	DueDate     *time.Time   `gorm:"index" json:"due_date"`
	AssigneeID  *uint        `gorm:"index" json:"assignee_id"`
	CreatedBy   uint         `gorm:"not null" json:"created_by"`
	UpdatedBy   *uint        `json:"updated_by"`

	CreatedAt time.Time      `gorm:"index:idx_tasks_team_created" json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Team     Team  `json:"-"`
	Assignee *User `gorm:"foreignKey:AssigneeID" json:"-"`
	Creator  User  `gorm:"foreignKey:CreatedBy" json:"-"`
}
