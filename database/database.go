package database

import (
	"fmt"
	"log"
	"os"

	"opsdash/internal/domain/credentials"
	"opsdash/internal/domain/notes"
	"opsdash/internal/domain/payments"
	"opsdash/internal/domain/projects"
	"opsdash/internal/domain/snippets"
	"opsdash/internal/domain/tasks"
	"opsdash/internal/domain/users"
	"opsdash/internal/domain/vault"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func InitDB() {
	dsn := os.Getenv("DB_URL")
	if dsn == "" {
		log.Fatal("❌ DB_URL not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("❌ Failed to connect to database:", err)
	}

	DB = db

	// ✅ REQUIRED for UUID generation
	if err := DB.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error; err != nil {
		log.Fatal("❌ Failed to enable pgcrypto extension:", err)
	}

	// ✅ Auto-migrate all domain models
	if err := DB.AutoMigrate(
		&users.User{},

		&projects.Project{},
		&projects.Detail{},
		&tasks.Task{},
		&payments.Payment{},
		&credentials.Credential{},
		&notes.Note{},

		// global collections
		&snippets.Snippet{},
		&vault.Item{},
	); err != nil {
		log.Fatal("❌ AutoMigrate error:", err)
	}

	fmt.Println("✅ Connected and migrated successfully")
}
