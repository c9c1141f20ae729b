package credentials

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Credential is a per-project secret: a login, an API key or the contents
// of a .env file. Single-operator tool, stored as entered.
type Credential struct {
	ID        string `json:"id" gorm:"type:uuid;primaryKey"`
	ProjectID string `json:"projectId" gorm:"type:uuid;index;not null"`
	Title     string `json:"title" gorm:"not null"`
	Username  string `json:"username,omitempty"`
	Email     string `json:"email,omitempty"`
	Password  string `json:"password,omitempty"`
	URL       string `json:"url,omitempty"`
	Env       string `json:"env,omitempty"` // raw .env file contents
	Notes     string `json:"notes,omitempty"`
	CreatedAt int64  `json:"createdAt" gorm:"autoCreateTime:milli"`
}

func (c *Credential) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

func (Credential) TableName() string { return "project_credentials" }
