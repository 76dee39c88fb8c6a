// Command ingest loads the grounding corpus into the database: every .txt and
// .pdf file under the given directory becomes one text_data row with its
// embedding, keyed by filename so re-running over the same corpus is a no-op.
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"portfolio_go_backend/cmd/api/config"
	"portfolio_go_backend/internal/database"
	"portfolio_go_backend/internal/llm"
	"portfolio_go_backend/internal/models"
	"portfolio_go_backend/internal/services"

	"github.com/joho/godotenv"
	"github.com/ledongthuc/pdf"
	"github.com/pgvector/pgvector-go"
)

func main() {
	dir := flag.String("dir", "", "directory containing .txt and .pdf corpus files")
	source := flag.String("source", "file", "source label stored with each corpus entry")
	flag.Parse()

	if *dir == "" {
		log.Fatal("-dir is required")
	}

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg := config.Load()
	if cfg.OpenAIAPIKey == "" {
		log.Fatal("OPENAI_API_KEY is not set in the environment")
	}

	database.InitDB()

	embedder := llm.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.ChatModel, cfg.EmbeddingModel)
	textDataStore := services.NewTextDataStore(database.DB)
	ctx := context.Background()

	entries, err := os.ReadDir(*dir)
	if err != nil {
		log.Fatalf("Failed to read directory %s: %v", *dir, err)
	}

	ingested := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		path := filepath.Join(*dir, entry.Name())
		text, err := extractText(path)
		if err != nil {
			log.Fatalf("Failed to extract text from %s: %v", path, err)
		}
		if strings.TrimSpace(text) == "" {
			log.Printf("Skipping %s: no text content", path)
			continue
		}

		embedding, err := embedder.Embed(ctx, text)
		if err != nil {
			log.Fatalf("Failed to embed %s: %v", path, err)
		}

		topic := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		textData := &models.TextData{
			TextID:    topic,
			Filename:  entry.Name(),
			Text:      text,
			Source:    *source,
			Topic:     topic,
			Embedding: pgvector.NewVector(embedding),
			CreatedAt: time.Now(),
		}
		if err := textDataStore.SaveTextData(ctx, textData); err != nil {
			log.Fatalf("Failed to save %s: %v", path, err)
		}

		log.Printf("Ingested %s (%d chars)", entry.Name(), len(text))
		ingested++
	}

	log.Printf("Done: %d corpus entries ingested", ingested)
}

func extractText(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt":
		content, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return string(content), nil
	case ".pdf":
		return extractPDFText(path)
	default:
		return "", nil
	}
}

func extractPDFText(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %v", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	b, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to extract text from PDF: %v", err)
	}
	if _, err := buf.ReadFrom(b); err != nil {
		return "", fmt.Errorf("failed to read PDF content: %v", err)
	}

	return buf.String(), nil
}
