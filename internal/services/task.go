package services

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/taskflow-dev/taskflow/db"
	"github.com/taskflow-dev/taskflow/internal/apperrors"
	"github.com/taskflow-dev/taskflow/internal/models"
	"gorm.io/gorm"
)

const (
	minTitleLength = 3
	maxTitleLength = 255
)

type CreateTaskInput struct {
	Title  string
	Status string
}

// UpdateTaskInput carries a partial update; nil fields are left
// untouched. Ownership never changes.
type UpdateTaskInput struct {
	Title  *string
	Status *string
}

// TaskStats counts tasks per status. Keys match the status values on
// the wire.
type TaskStats struct {
	Todo       int64 `json:"Todo"`
	InProgress int64 `json:"In Progress"`
	Completed  int64 `json:"Completed"`
}

func validateTitle(title string) error {
	length := utf8.RuneCountInString(strings.TrimSpace(title))

	if length < minTitleLength || length > maxTitleLength {
		return &apperrors.ValidationError{Message: "Title must be between 3 and 255 characters"}
	}

	return nil
}

// CreateTask persists a task for ownerID. The owner is always the
// authenticated caller; anything the client claims is ignored upstream.
func CreateTask(ownerID uint, in CreateTaskInput) (*models.Task, error) {
	if err := validateTitle(in.Title); err != nil {
		return nil, err
	}

	status := in.Status

	if status == "" {
		status = models.TaskStatusTodo
	}

	if !models.ValidTaskStatus(status) {
		return nil, &apperrors.ValidationError{Message: "Status must be one of Todo, In Progress, Completed"}
	}

	task := models.Task{
		Title:   strings.TrimSpace(in.Title),
		Status:  status,
		OwnerID: ownerID,
	}

	if err := db.DB.Create(&task).Error; err != nil {
		return nil, &apperrors.StoreError{Op: "create task", Err: err}
	}

	return &task, nil
}

// ListTasks returns every task owned by ownerID, newest first.
func ListTasks(ownerID uint) ([]models.Task, error) {
	var tasks []models.Task

	err := db.DB.
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&tasks).Error

	if err != nil {
		return nil, &apperrors.StoreError{Op: "list tasks", Err: err}
	}

	return tasks, nil
}

// TaskStatsFor counts ownerID's tasks grouped by status. Statuses with
// no tasks report zero, so the three counts always sum to the list
// length.
func TaskStatsFor(ownerID uint) (TaskStats, error) {
	var rows []struct {
		Status string
		Count  int64
	}

	err := db.DB.Model(&models.Task{}).
		Select("status, COUNT(*) AS count").
		Where("owner_id = ?", ownerID).
		Group("status").
		Scan(&rows).Error

	if err != nil {
		return TaskStats{}, &apperrors.StoreError{Op: "count tasks", Err: err}
	}

	var stats TaskStats

	for _, row := range rows {
		switch row.Status {
		case models.TaskStatusTodo:
			stats.Todo = row.Count
		case models.TaskStatusInProgress:
			stats.InProgress = row.Count
		case models.TaskStatusCompleted:
			stats.Completed = row.Count
		}
	}

	return stats, nil
}

func findOwnedTask(ownerID, taskID uint) (*models.Task, error) {
	var task models.Task

	err := db.DB.Where("id = ? AND owner_id = ?", taskID, ownerID).First(&task).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &apperrors.NotFoundError{Resource: "Task"}
		}
		return nil, &apperrors.StoreError{Op: "fetch task", Err: err}
	}

	return &task, nil
}

// UpdateTask applies the supplied fields to a task owned by ownerID.
// Any status is reachable from any other; the service imposes no
// transition graph.
func UpdateTask(ownerID, taskID uint, in UpdateTaskInput) (*models.Task, error) {
	task, err := findOwnedTask(ownerID, taskID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})

	if in.Title != nil {
		if err := validateTitle(*in.Title); err != nil {
			return nil, err
		}
		updates["title"] = strings.TrimSpace(*in.Title)
	}

	if in.Status != nil {
		if !models.ValidTaskStatus(*in.Status) {
			return nil, &apperrors.ValidationError{Message: "Status must be one of Todo, In Progress, Completed"}
		}
		updates["status"] = *in.Status
	}

	if len(updates) > 0 {
		if err := db.DB.Model(task).Updates(updates).Error; err != nil {
			return nil, &apperrors.StoreError{Op: "update task", Err: err}
		}

		if err := db.DB.First(task, task.ID).Error; err != nil {
			return nil, &apperrors.StoreError{Op: "refresh task", Err: err}
		}
	}

	return task, nil
}

// DeleteTask permanently removes a task owned by ownerID.
func DeleteTask(ownerID, taskID uint) error {
	task, err := findOwnedTask(ownerID, taskID)
	if err != nil {
		return err
	}

	if err := db.DB.Unscoped().Delete(task).Error; err != nil {
		return &apperrors.StoreError{Op: "delete task", Err: err}
	}

	return nil
}
