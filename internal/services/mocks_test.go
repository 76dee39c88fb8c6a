package services_test

import (
	"context"

	"portfolio_go_backend/internal/llm"

	"github.com/stretchr/testify/mock"
)

type MockEmbedder struct {
	mock.Mock
}

func (m *MockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float32), args.Error(1)
}

type MockContextSearcher struct {
	mock.Mock
}

func (m *MockContextSearcher) Search(ctx context.Context, embedding []float32, topK int, threshold float64) (string, error) {
	args := m.Called(ctx, embedding, topK, threshold)
	return args.String(0), args.Error(1)
}

type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Generate(ctx context.Context, messages []llm.Message) (string, error) {
	args := m.Called(ctx, messages)
	return args.String(0), args.Error(1)
}
