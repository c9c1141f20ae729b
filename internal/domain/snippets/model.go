package snippets

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Snippet is a reusable piece of code, usually SQL, kept globally (not per
// project).
type Snippet struct {
	ID          string `json:"id" gorm:"type:uuid;primaryKey"`
	Title       string `json:"title" gorm:"not null"`
	Code        string `json:"code" gorm:"not null"`
	Language    string `json:"language"`
	Description string `json:"description,omitempty"`
}

func (s *Snippet) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
