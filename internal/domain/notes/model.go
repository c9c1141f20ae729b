package notes

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Note struct {
	ID        string `json:"id" gorm:"type:uuid;primaryKey"`
	ProjectID string `json:"projectId" gorm:"type:uuid;index;not null"`
	Title     string `json:"title" gorm:"not null"`
	Content   string `json:"content"`
	Category  string `json:"category,omitempty"`
	CreatedAt int64  `json:"createdAt" gorm:"autoCreateTime:milli"`
	UpdatedAt int64  `json:"updatedAt,omitempty" gorm:"autoUpdateTime:milli"`
}

func (n *Note) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}

func (Note) TableName() string { return "project_notes" }
