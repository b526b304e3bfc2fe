package main

import (
	"fmt"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/bookstay/booking-api/db"
	"github.com/bookstay/booking-api/routes"
)

func main() {
	fmt.Println("Starting Booking API...")

	// Load environment variables (.env is optional in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment")
	}

	if os.Getenv("JWT_SECRET_KEY") == "" {
		log.Fatal("JWT_SECRET_KEY environment variable is required")
	}

	// Initialize database and refresh-token store
	DB := db.GetDB()
	db.MakeMigration(DB)
	db.InitRedis()

	// Set Gin to release mode in production
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	// Restricted resources (payments, reservations) answer 405 instead of
	// 404 for verbs outside their allowed set
	router.HandleMethodNotAllowed = true

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	// Register routes
	routes.UserRoutes(router)
	routes.PropertyRoutes(router)
	routes.ReviewRoutes(router)
	routes.ReservationRoutes(router)
	routes.PaymentRoutes(router)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	fmt.Printf("Server running on port %s\n", port)
	router.Run(":" + port)
}
