package vdb

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

// Retrieval defaults, tied to the L2 distance scale of the
// text-embedding-3-small model.
const (
	DefaultTopK      = 5
	DefaultThreshold = 1.7
)

// SearchService runs nearest-neighbour lookups over the text_data embeddings.
type SearchService struct {
	db *gorm.DB
}

func NewSearchService(db *gorm.DB) *SearchService {
	return &SearchService{db: db}
}

type hit struct {
	Text     string
	Distance float64
}

// Search returns the surviving corpus texts as one context string: the topK
// nearest entries by L2 distance, sorted ascending, entries at or beyond the
// threshold dropped, one text per line. An empty corpus or an all-filtered
// result yields an empty string, not an error.
func (s *SearchService) Search(ctx context.Context, embedding []float32, topK int, threshold float64) (string, error) {
	if topK <= 0 {
		topK = DefaultTopK
	}
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	var hits []hit
	query := pgvector.NewVector(embedding)
	err := s.db.WithContext(ctx).
		Raw("SELECT text, embedding <-> ? AS distance FROM text_data ORDER BY embedding <-> ? LIMIT ?",
			query, query, topK).
		Scan(&hits).Error
	if err != nil {
		return "", fmt.Errorf("vector search failed: %w", err)
	}

	return assembleContext(hits, threshold), nil
}

func assembleContext(hits []hit, threshold float64) string {
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Distance < hits[j].Distance
	})

	var b strings.Builder
	for _, h := range hits {
		if h.Distance < threshold {
			b.WriteString(h.Text)
			b.WriteByte('\n')
		}
	}
	return b.String()
}
