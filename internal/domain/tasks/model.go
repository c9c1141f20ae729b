package tasks

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Priority follows the Eisenhower matrix quadrants.
type Priority string

const (
	PriorityCritical Priority = "Critical"
	PriorityUrgent   Priority = "Urgent"
	PriorityNormal   Priority = "Normal"
	PriorityLow      Priority = "Low"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityCritical, PriorityUrgent, PriorityNormal, PriorityLow:
		return true
	}
	return false
}

type Task struct {
	ID          string   `json:"id" gorm:"type:uuid;primaryKey"`
	ProjectID   string   `json:"projectId" gorm:"type:uuid;index"`
	Description string   `json:"description" gorm:"not null"`
	Priority    Priority `json:"priority" gorm:"type:varchar(10);not null;default:'Normal'"`
	IsCompleted bool     `json:"isCompleted"`
	CreatedAt   int64    `json:"createdAt" gorm:"autoCreateTime:milli"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
