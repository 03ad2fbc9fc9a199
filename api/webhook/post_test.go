package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/killallgit/telehotels/api/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type jsonParser struct{}

func (jsonParser) Parse(r *http.Request) (*tgbotapi.Update, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	var update tgbotapi.Update
	if err := json.Unmarshal(body, &update); err != nil {
		return nil, errors.New("malformed update")
	}
	return &update, nil
}

type recordingHandler struct {
	mu      sync.Mutex
	updates []tgbotapi.Update
}

func (r *recordingHandler) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates = append(r.updates, update)
}

func setupRouter(deps *types.Dependencies) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	RegisterRoutes(router.Group("/telegram"), deps)
	return router
}

func TestPost(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		body           string
		enabled        bool
		expectedStatus int
		expectedCount  int
	}{
		{
			name:           "valid update",
			path:           "/telegram/s3cret",
			body:           `{"update_id": 10, "message": {"message_id": 1, "text": "hi", "chat": {"id": 5}}}`,
			enabled:        true,
			expectedStatus: http.StatusOK,
			expectedCount:  1,
		},
		{
			name:           "wrong secret",
			path:           "/telegram/guess",
			body:           `{"update_id": 10}`,
			enabled:        true,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "malformed payload",
			path:           "/telegram/s3cret",
			body:           `{not json`,
			enabled:        true,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "polling mode",
			path:           "/telegram/s3cret",
			body:           `{"update_id": 10}`,
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := &recordingHandler{}
			deps := &types.Dependencies{}
			if tt.enabled {
				deps.Webhook = jsonParser{}
				deps.Updates = handler
				deps.WebhookSecret = "s3cret"
			}
			router := setupRouter(deps)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, tt.path, bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			require.Len(t, handler.updates, tt.expectedCount)
			if tt.expectedCount > 0 {
				assert.Equal(t, 10, handler.updates[0].UpdateID)
				assert.Equal(t, "hi", handler.updates[0].Message.Text)
			}
		})
	}
}
