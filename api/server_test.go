package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/killallgit/telehotels/api/types"
	"github.com/killallgit/telehotels/internal/database"
	"github.com/killallgit/telehotels/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubParser struct{}

func (stubParser) Parse(r *http.Request) (*tgbotapi.Update, error) {
	return &tgbotapi.Update{UpdateID: 99}, nil
}

type countingHandler struct {
	calls int
}

func (h *countingHandler) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	h.calls++
}

func setupTestServer(t *testing.T, deps *types.Dependencies) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	srv := NewServer(config.ServerConfig{Host: "127.0.0.1", Port: 0, ReadTimeout: time.Second, WriteTimeout: time.Second}, nil)
	srv.SetDependencies(deps)
	require.NoError(t, srv.Initialize())
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })
	return srv
}

func TestServer_Routes(t *testing.T) {
	db, err := database.Initialize(":memory:", false)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	handler := &countingHandler{}
	srv := setupTestServer(t, &types.Dependencies{
		DB:            db,
		Version:       types.VersionInfo{Version: "1.0.0"},
		Webhook:       stubParser{},
		Updates:       handler,
		WebhookSecret: "s3cret",
	})

	tests := []struct {
		name           string
		method         string
		path           string
		expectedStatus int
	}{
		{name: "health", method: http.MethodGet, path: "/health", expectedStatus: http.StatusOK},
		{name: "version", method: http.MethodGet, path: "/", expectedStatus: http.StatusOK},
		{name: "docs redirect", method: http.MethodGet, path: "/docs", expectedStatus: http.StatusMovedPermanently},
		{name: "swagger document", method: http.MethodGet, path: "/docs/doc.json", expectedStatus: http.StatusOK},
		{name: "webhook", method: http.MethodPost, path: "/telegram/s3cret", expectedStatus: http.StatusOK},
		{name: "webhook wrong secret", method: http.MethodPost, path: "/telegram/nope", expectedStatus: http.StatusNotFound},
		{name: "unknown route", method: http.MethodGet, path: "/api/v1/hotels", expectedStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(tt.method, tt.path, bytes.NewBufferString(`{}`))
			srv.Engine().ServeHTTP(w, req)
			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}

	assert.Equal(t, 1, handler.calls)
}

func TestServer_NotFoundBody(t *testing.T) {
	srv := setupTestServer(t, nil)

	w := httptest.NewRecorder()
	srv.Engine().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))

	require.Equal(t, http.StatusNotFound, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "/missing", body["path"])
	assert.Equal(t, types.StatusError, body["status"])
}

func TestServer_Addr(t *testing.T) {
	srv := NewServer(config.ServerConfig{Host: "0.0.0.0", Port: 8443}, nil)
	assert.Equal(t, "0.0.0.0:8443", srv.Addr())
}

func TestServer_ShutdownTwice(t *testing.T) {
	srv := NewServer(config.ServerConfig{Host: "127.0.0.1", Port: 0}, nil)
	require.NoError(t, srv.Initialize())
	assert.NoError(t, srv.Shutdown(context.Background()))
	assert.NoError(t, srv.Shutdown(context.Background()))
}
