package vault

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Category string

const (
	CategoryLogin  Category = "Login"
	CategoryAPIKey Category = "API Key"
	CategoryEnv    Category = ".env"
	CategoryOther  Category = "Outros"
)

// Item is a global secret not tied to any project.
type Item struct {
	ID        string   `json:"id" gorm:"type:uuid;primaryKey"`
	Title     string   `json:"title" gorm:"not null"`
	Content   string   `json:"content" gorm:"not null"`
	Category  Category `json:"category" gorm:"type:varchar(10);not null;default:'Outros'"`
	CreatedAt int64    `json:"createdAt" gorm:"autoCreateTime:milli"`
}

func (i *Item) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

func (Item) TableName() string { return "vault_items" }
