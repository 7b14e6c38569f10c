package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/sudhr-gitthub/community-driven-issues-tracker/config"
	"github.com/sudhr-gitthub/community-driven-issues-tracker/controllers"
	"github.com/sudhr-gitthub/community-driven-issues-tracker/routes"
	"github.com/sudhr-gitthub/community-driven-issues-tracker/storage"
	"github.com/sudhr-gitthub/community-driven-issues-tracker/store"
	"github.com/sudhr-gitthub/community-driven-issues-tracker/verification"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	db := config.ConnectDB()
	if db == nil {
		log.Fatal("Failed to connect to MongoDB")
	}
	log.Println("MongoDB connection established successfully!")

	config.ConnectRedis()

	issueStore := store.NewMongoIssueStore(db)
	userStore := store.NewMongoUserStore(db)

	gemini := verification.NewGeminiClient(
		os.Getenv("GEMINI_API_KEY"),
		"gemini-1.5-flash",
		30*time.Second,
	)
	verifier := verification.NewVerifier(gemini, 30*time.Second)

	blobStore := storage.NewSupabaseStorage(
		os.Getenv("SUPABASE_URL"),
		os.Getenv("SUPABASE_SERVICE_KEY"),
		"evidence",
	)
	if err := blobStore.EnsureBucket(context.Background()); err != nil {
		log.Println("Error ensuring evidence bucket:", err)
	}

	issueController := controllers.NewIssueController(issueStore, userStore, verifier)
	authController := controllers.NewAuthController(userStore)
	uploadController := controllers.NewUploadController(blobStore)

	r := gin.Default()
	r.Use(cors.Default())

	routes.AuthRoutes(r, authController)
	routes.IssueRoutes(r, issueController, issueLimitPerDay())
	routes.UploadRoutes(r, uploadController)

	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now()})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func issueLimitPerDay() int {
	limit, err := strconv.Atoi(os.Getenv("ISSUE_LIMIT_PER_DAY"))
	if err != nil || limit < 1 {
		return 10
	}
	return limit
}
