package models

import "gorm.io/gorm"

const (
	TaskStatusTodo       = "Todo"
	TaskStatusInProgress = "In Progress"
	TaskStatusCompleted  = "Completed"
)

// TaskStatuses lists every status a task can hold, in the order the
// client presents them.
var TaskStatuses = []string{TaskStatusTodo, TaskStatusInProgress, TaskStatusCompleted}

func ValidTaskStatus(status string) bool {
	for _, s := range TaskStatuses {
		if s == status {
			return true
		}
	}
	return false
}

type Task struct {
	gorm.Model

	Title   string `gorm:"not null"`
	Status  string `gorm:"not null;default:Todo"`
	OwnerID uint   `gorm:"not null;index"`

	// Relationships
	Owner User `gorm:"foreignKey:OwnerID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
