package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/Seg4105-group6/FoodLogger/models"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var DB *gorm.DB

// InitDB connects to the configured database and migrates the schema.
// DB_DRIVER selects "sqlite" (default, embedded file) or "postgres".
func InitDB() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using process environment")
	}

	var (
		db  *gorm.DB
		err error
	)
	switch os.Getenv("DB_DRIVER") {
	case "postgres":
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			os.Getenv("DB_HOST"),
			os.Getenv("DB_USER"),
			os.Getenv("DB_PASSWORD"),
			os.Getenv("DB_NAME"),
			os.Getenv("DB_PORT"),
		)
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	default:
		path := os.Getenv("SQLITE_PATH")
		if path == "" {
			path = filepath.Join("data", "foodlogs.db")
		}
		if dir := filepath.Dir(path); dir != "." {
			if mkErr := os.MkdirAll(dir, 0o755); mkErr != nil {
				log.Fatalf("Failed to create database directory: %v", mkErr)
			}
		}
		db, err = gorm.Open(sqlite.Open(path), &gorm.Config{})
	}
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.MealRecord{},
		&models.MealItem{},
	); err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}

	DB = db
}
