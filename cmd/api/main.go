package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/wendydelivery/wendy-courier/internal/database"
	"github.com/wendydelivery/wendy-courier/internal/handlers"
	"github.com/wendydelivery/wendy-courier/internal/middleware"
	"github.com/wendydelivery/wendy-courier/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	// Initialize database
	db, err := database.InitDB()
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Get underlying SQL DB instance
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}

	// Configure connection pool
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	// Initialize Redis
	if err := services.InitRedis(); err != nil {
		log.Fatalf("Failed to initialize Redis: %v", err)
	}

	// Initialize WebSocket hub
	hub := services.NewHub()
	go hub.Run()

	// Initialize router
	r := gin.Default()

	// Configure CORS
	config := cors.DefaultConfig()
	config.AllowOrigins = []string{"*"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	r.Use(cors.New(config))

	// Routes
	api := r.Group("/api")
	api.Use(middleware.IdentityMiddleware())
	{
		// WebSocket observer stream
		api.GET("/ws", handlers.WebSocketHandler(hub))

		// Chat routes
		api.POST("/conversations", handlers.CreateConversation(db))
		api.GET("/conversations/:id/messages", handlers.GetMessages(db))
		api.POST("/conversations/:id/messages", handlers.SendMessage(db))

		// Rating routes
		api.POST("/ratings", handlers.SubmitRating(db))

		// Geolocation routes
		api.POST("/geolocation/update-location", handlers.UpdateLocation(db, hub))
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
