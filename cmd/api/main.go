package main

import (
	"context"
	"log"
	"strings"
	"time"

	"portfolio_go_backend/cmd/api/config"
	"portfolio_go_backend/internal/api"
	"portfolio_go_backend/internal/database"
	"portfolio_go_backend/internal/llm"
	"portfolio_go_backend/internal/ratelimit"
	"portfolio_go_backend/internal/services"
	"portfolio_go_backend/internal/vdb"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg := config.Load()
	if cfg.OpenAIAPIKey == "" {
		log.Fatal("OPENAI_API_KEY is not set in the environment")
	}

	ctx := context.Background()

	database.InitDB()

	// External service clients
	openAIClient := llm.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.ChatModel, cfg.EmbeddingModel)

	var geminiClient *llm.GeminiClient
	if cfg.GeminiAPIKey != "" {
		var err error
		geminiClient, err = llm.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			log.Fatalf("Failed to create Gemini client: %v", err)
		}
		defer geminiClient.Close()
	}

	registry := llm.NewRegistry(openAIClient, geminiClient)
	generator, err := registry.Generator(cfg.GenerationProvider)
	if err != nil {
		log.Fatalf("Failed to select generation provider: %v", err)
	}

	// Internal services
	chatStore := services.NewChatStore(database.DB)
	textDataStore := services.NewTextDataStore(database.DB)
	searchService := vdb.NewSearchService(database.DB)
	chatHandler := services.NewChatHandler(openAIClient, searchService, generator, cfg.SearchTopK, cfg.SearchThreshold)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	chatLimiter := ratelimit.NewLimiter(redisClient, "chat_create", 2, 5*time.Minute)
	messageLimiter := ratelimit.NewLimiter(redisClient, "message_create", 50, 5*time.Minute)

	r := gin.Default()

	// CORS middleware configuration
	r.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Split(cfg.AllowedOrigins, ","),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api.SetupRoutes(r, chatStore, textDataStore, chatHandler, openAIClient,
		chatLimiter.Middleware(), messageLimiter.Middleware())

	log.Printf("Server starting on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
