package db

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/bookstay/booking-api/models"
)

var DB *gorm.DB

func DbConnect() {
	// .env is optional outside development
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment")
	}

	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USERNAME"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)
	// TranslateError lets handlers match unique violations as gorm.ErrDuplicatedKey
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal("Failed to connect to the database")
	}
	DB = db
	fmt.Println("Connected to the database")
}

func GetDB() *gorm.DB {
	if DB == nil {
		DbConnect()
	}
	return DB
}

func MakeMigration(DB *gorm.DB) {
	DB.AutoMigrate(
		&models.User{},
		&models.Property{},
		&models.Reservation{},
		&models.Payment{},
		&models.Review{},
	)
	fmt.Println("Database migrated successfully")
}
