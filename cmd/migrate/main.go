package main

import (
	"log"
	"os"

	"lingodocs-be/internal/model"
	"lingodocs-be/pkg/database"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("Error: DATABASE_URL is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Starting GORM migration...")

	log.Println("Step 1: Setting up extensions...")
	setupSQL := []string{
		`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
		`CREATE EXTENSION IF NOT EXISTS vector;`,
	}
	for _, sql := range setupSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute setup SQL: %v. Continuing...", err)
		}
	}

	log.Println("Step 2: Running AutoMigrate...")
	models := []interface{}{
		&model.User{},
		&model.PasswordResetToken{},
		&model.Session{},

		&model.Program{},
		&model.Category{},
		&model.Document{},

		&model.Notification{},
		&model.UserNotification{},
		&model.NotificationType{},

		&model.Activity{},

		&model.Project{},
		&model.ProjectTask{},

		&model.SupportTicket{},
		&model.SupportResponse{},
		&model.AccountRequest{},

		&model.ChatConversation{},
		&model.ChatMessage{},
		&model.KbCategory{},
		&model.KbArticle{},
		&model.KbFaq{},
		&model.TrainingFile{},

		&model.AdminUserChat{},
		&model.AdminUserMessage{},
		&model.OnlineUser{},

		&model.ThemeSetting{},
	}
	if err := db.AutoMigrate(models...); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	log.Println("Step 3: Creating indexes...")
	postMigrationSQL := []string{
		`CREATE INDEX IF NOT EXISTS idx_sessions_expires_at ON sessions (expires_at);`,
		`CREATE INDEX IF NOT EXISTS idx_users_last_login_at ON users (last_login_at) WHERE is_active = true;`,
		`CREATE INDEX IF NOT EXISTS idx_activities_created_at ON activities (created_at);`,
		`CREATE INDEX IF NOT EXISTS idx_user_notifications_unread ON user_notifications (user_id) WHERE is_read = false;`,
		`CREATE INDEX IF NOT EXISTS idx_kb_articles_embedding ON kb_articles USING hnsw (embedding vector_cosine_ops);`,
	}
	for _, sql := range postMigrationSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute post-migration SQL: %v", err)
		}
	}

	log.Println("Success: database migration completed.")
}
