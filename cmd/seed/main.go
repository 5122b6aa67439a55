package main

import (
	"log"
	"os"

	"lingodocs-be/internal/model"
	"lingodocs-be/pkg/database"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
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

	color.Cyan("Seeding admin account...")
	seedAdmin(db)

	color.Cyan("Seeding notification types...")
	SeedNotificationTypes(db)

	color.Green("Seeding completed.")
}

func seedAdmin(db *gorm.DB) {
	email := os.Getenv("ADMIN_EMAIL")
	if email == "" {
		email = "admin@lingodocs.local"
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "changeme123"
		color.Yellow("ADMIN_PASSWORD not set, using the default. Change it immediately.")
	}

	var existing model.User
	if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
		color.Yellow("Admin %s already exists, skipping...", email)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Error: failed to hash admin password: %v", err)
	}
	hashStr := string(hash)

	admin := model.User{
		Id:           uuid.New(),
		Email:        email,
		PasswordHash: &hashStr,
		FirstName:    "Portal",
		LastName:     "Admin",
		Role:         "admin",
		IsActive:     true,
		AuthProvider: "manual",
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Fatalf("Error: failed to create admin: %v", err)
	}
	color.Green("Created admin: %s", email)
}
