package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"portfolio_go_backend/internal/api"
	"portfolio_go_backend/internal/llm"
	"portfolio_go_backend/internal/models"
	"portfolio_go_backend/internal/services"
	"portfolio_go_backend/internal/vdb"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubEmbedder struct{}

func (stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return make([]float32, 3), nil
}

type stubSearcher struct{}

func (stubSearcher) Search(ctx context.Context, embedding []float32, topK int, threshold float64) (string, error) {
	return "Hani works with Python and Go.\n", nil
}

type stubGenerator struct {
	reply string
	err   error
}

func (g stubGenerator) Generate(ctx context.Context, messages []llm.Message) (string, error) {
	return g.reply, g.err
}

type stubTextDataStore struct{}

func (stubTextDataStore) SaveTextData(ctx context.Context, textData *models.TextData) error {
	return nil
}

func (stubTextDataStore) GetAllTextData(ctx context.Context) ([]models.TextData, error) {
	return nil, nil
}

func passthrough(c *gin.Context) {
	c.Next()
}

func setupTestRouter(t *testing.T, generator services.Generator) (*gin.Engine, services.ChatStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Chat{}, &models.Message{}))

	chatStore := services.NewChatStore(db)
	chatHandler := services.NewChatHandler(stubEmbedder{}, stubSearcher{}, generator, vdb.DefaultTopK, vdb.DefaultThreshold)

	r := gin.New()
	api.SetupRoutes(r, chatStore, stubTextDataStore{}, chatHandler, stubEmbedder{}, passthrough, passthrough)
	return r, chatStore
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateChatSeedsSystemAndGreeting(t *testing.T) {
	r, _ := setupTestRouter(t, stubGenerator{reply: "hello"})

	w := doJSON(t, r, http.MethodPost, "/api/chat", gin.H{})
	require.Equal(t, http.StatusOK, w.Code)

	var chat struct {
		ChatID                uuid.UUID `json:"chat_id"`
		OffTopicResponseCount int       `json:"off_topic_response_count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &chat))
	assert.NotEqual(t, uuid.Nil, chat.ChatID)
	assert.Equal(t, 0, chat.OffTopicResponseCount)

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/message/chat/%s", chat.ChatID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var messages []models.Message
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &messages))
	require.Len(t, messages, 2)
	assert.Equal(t, models.MessageBySystem, messages[0].MessageBy)
	assert.Equal(t, services.ContextPrompt(services.GeneralContext), messages[0].MessageText)
	assert.Equal(t, models.MessageByAI, messages[1].MessageBy)
	assert.Equal(t, services.AIFirstMessage, messages[1].MessageText)
}

func TestCreateChatWithClientIDIsIdempotent(t *testing.T) {
	r, chatStore := setupTestRouter(t, stubGenerator{reply: "hello"})
	chatID := uuid.New()

	w := doJSON(t, r, http.MethodPost, "/api/chat", gin.H{"chat_id": chatID})
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, r, http.MethodPost, "/api/chat", gin.H{"chat_id": chatID})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/message/chat/%s", chatID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Still exactly one seed preamble and one greeting.
	var messages []models.Message
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &messages))
	require.Len(t, messages, 2)
	assert.Equal(t, models.MessageBySystem, messages[0].MessageBy)
	assert.Equal(t, models.MessageByAI, messages[1].MessageBy)

	// The orchestrator's history sees a single greeting, not one per create.
	conversation, err := chatStore.GetConversation(context.Background(), chatID)
	require.NoError(t, err)
	require.Len(t, conversation, 1)
	assert.Equal(t, services.AIFirstMessage, conversation[0].MessageText)
}

func TestPostMessageUnknownChatReturns404(t *testing.T) {
	r, _ := setupTestRouter(t, stubGenerator{reply: "hello"})

	w := doJSON(t, r, http.MethodPost, "/api/message", gin.H{
		"chat_id":      uuid.New(),
		"message_text": "Does Hani know Go?",
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPostMessagePersistsFullTurn(t *testing.T) {
	r, _ := setupTestRouter(t, stubGenerator{reply: "Yes, Hani works with Go."})
	chatID := uuid.New()

	w := doJSON(t, r, http.MethodPost, "/api/chat", gin.H{"chat_id": chatID})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/message", gin.H{
		"chat_id":      chatID,
		"message_text": "Does Hani know Go?",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var aiMessage models.Message
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &aiMessage))
	assert.Equal(t, models.MessageByAI, aiMessage.MessageBy)
	assert.Equal(t, "Yes, Hani works with Go.", aiMessage.MessageText)

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/message/chat/%s", chatID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Two seed messages, then the turn's human, system and ai messages.
	var messages []models.Message
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &messages))
	require.Len(t, messages, 5)
	assert.Equal(t, models.MessageByHuman, messages[2].MessageBy)
	assert.Equal(t, "Does Hani know Go?", messages[2].MessageText)
	assert.Equal(t, models.MessageBySystem, messages[3].MessageBy)
	assert.Equal(t, models.MessageByAI, messages[4].MessageBy)
}

func TestPostMessageRefusalUpdatesCounter(t *testing.T) {
	r, chatStore := setupTestRouter(t, stubGenerator{reply: "Null"})
	chatID := uuid.New()

	w := doJSON(t, r, http.MethodPost, "/api/chat", gin.H{"chat_id": chatID})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/message", gin.H{
		"chat_id":      chatID,
		"message_text": "What is the weather today?",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var aiMessage models.Message
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &aiMessage))
	assert.Equal(t, services.OffTopicWarning(1), aiMessage.MessageText)

	chat, err := chatStore.GetChat(context.Background(), chatID)
	require.NoError(t, err)
	assert.Equal(t, 1, chat.OffTopicResponseCount)
}

func TestPostMessageProviderFailurePersistsNothing(t *testing.T) {
	r, _ := setupTestRouter(t, stubGenerator{err: fmt.Errorf("upstream unavailable")})
	chatID := uuid.New()

	w := doJSON(t, r, http.MethodPost, "/api/chat", gin.H{"chat_id": chatID})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/message", gin.H{
		"chat_id":      chatID,
		"message_text": "Does Hani know Go?",
	})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	// The failed turn must not leave an orphan human message behind.
	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/message/chat/%s", chatID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var messages []models.Message
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &messages))
	assert.Len(t, messages, 2)
}

func TestPostMessageMissingFieldsRejected(t *testing.T) {
	r, _ := setupTestRouter(t, stubGenerator{reply: "hello"})

	w := doJSON(t, r, http.MethodPost, "/api/message", gin.H{"chat_id": uuid.New()})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
