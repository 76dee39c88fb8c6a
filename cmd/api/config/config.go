package config

import (
	"os"
	"strconv"

	"portfolio_go_backend/internal/vdb"
)

type Config struct {
	Port           string
	AllowedOrigins string

	OpenAIAPIKey   string
	EmbeddingModel string
	ChatModel      string

	GenerationProvider string
	GeminiAPIKey       string
	GeminiModel        string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	SearchTopK      int
	SearchThreshold float64
}

func Load() Config {
	cfg := Config{
		Port:               getEnv("PORT", "3000"),
		AllowedOrigins:     getEnv("ALLOWED_ORIGINS", "http://localhost:5173"),
		OpenAIAPIKey:       os.Getenv("OPENAI_API_KEY"),
		EmbeddingModel:     getEnv("EMBEDDING_MODEL", "text-embedding-3-small"),
		ChatModel:          getEnv("CHAT_MODEL", "gpt-4o-mini"),
		GenerationProvider: getEnv("GENERATION_PROVIDER", "openai"),
		GeminiAPIKey:       os.Getenv("GEMINI_API_KEY"),
		GeminiModel:        getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		RedisAddr:          getEnv("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword:      os.Getenv("REDIS_PASSWORD"),
		SearchTopK:         vdb.DefaultTopK,
		SearchThreshold:    vdb.DefaultThreshold,
	}

	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RedisDB = n
		}
	}
	if v := os.Getenv("SEARCH_TOP_K"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.SearchTopK = n
		}
	}
	if v := os.Getenv("SEARCH_DISTANCE_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			cfg.SearchThreshold = f
		}
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
