package projects

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Project is a client engagement tracked on the dashboard.
type Project struct {
	ID        string `json:"id" gorm:"type:uuid;primaryKey"`
	Name      string `json:"name" gorm:"not null"`
	Type      string `json:"type"`
	Status    string `json:"status" gorm:"type:varchar(20);not null;default:'Active'"` // Active | Maintenance | Legacy
	Progress  int    `json:"progress"`
	Color     string `json:"color"`
	Stack     string `json:"stack,omitempty"` // e.g. "React/Node", "PHP/SQL"
	CreatedAt int64  `json:"createdAt" gorm:"autoCreateTime:milli"`
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// Detail holds the free-form metadata sheet of a project. One row per
// project, created lazily on first save.
type Detail struct {
	ProjectID     string `json:"projectId" gorm:"type:uuid;primaryKey"`
	Description   string `json:"description,omitempty"`
	ClientName    string `json:"clientName,omitempty"`
	ClientContact string `json:"clientContact,omitempty"`
	RepositoryURL string `json:"repositoryUrl,omitempty"`
	ProductionURL string `json:"productionUrl,omitempty"`
	StagingURL    string `json:"stagingUrl,omitempty"`
	CreatedAt     int64  `json:"createdAt" gorm:"autoCreateTime:milli"`
	UpdatedAt     int64  `json:"updatedAt,omitempty" gorm:"autoUpdateTime:milli"`
}

func (Detail) TableName() string { return "project_details" }
