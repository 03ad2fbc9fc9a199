package cmd

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/killallgit/telehotels/pkg/config"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTelegram answers the Bot API methods the bot calls at startup
func fakeTelegram(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var polls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasSuffix(r.URL.Path, "/getMe"):
			fmt.Fprint(w, `{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"Test","username":"test_bot"}}`)
		case strings.HasSuffix(r.URL.Path, "/getUpdates"):
			polls.Add(1)
			time.Sleep(20 * time.Millisecond)
			fmt.Fprint(w, `{"ok":true,"result":[]}`)
		default:
			fmt.Fprint(w, `{"ok":true,"result":true}`)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &polls
}

func TestServeCommandHelp(t *testing.T) {
	out, err := execute(t, "", "serve", "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "Run the TeleHotels bot")
}

func TestServeCommandFlags(t *testing.T) {
	cmd := NewRootCmd()
	serveCmd, _, err := cmd.Find([]string{"serve"})
	require.NoError(t, err)

	assert.NotNil(t, serveCmd.Flags().Lookup("port"))
	assert.NotNil(t, serveCmd.Flags().Lookup("host"))
}

func TestServeCommandInvalidPort(t *testing.T) {
	_, err := execute(t, "", "serve", "--port", "invalid")
	assert.Error(t, err)
}

func TestServeCommand_PollingLifecycle(t *testing.T) {
	tg, polls := fakeTelegram(t)
	useTempStore(t)
	viper.Set("telegram.token", "123:test")
	viper.Set("telegram.api_endpoint", tg.URL+"/bot%s/%s")
	viper.Set("telegram.mode", "polling")
	viper.Set("telegram.poll_timeout", 0)
	viper.Set("server.host", "127.0.0.1")
	viper.Set("server.port", 0)
	t.Cleanup(func() { viper.Set("server.port", 8443) })

	cmd := NewRootCmd()
	cmd.SetArgs([]string{"serve", "--port", "0", "--host", ""})
	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	// children keep the context of their first run, so set it on serve itself
	serve, _, err := cmd.Find([]string{"serve"})
	require.NoError(t, err)
	serve.SetContext(ctx)

	done := make(chan error, 1)
	go func() { done <- cmd.Execute() }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("serve did not shut down")
	}
	assert.Greater(t, polls.Load(), int32(0), "expected the bot to poll for updates")
}

func TestServeCommand_BadToken(t *testing.T) {
	tg := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"ok":false,"error_code":401,"description":"Unauthorized"}`)
	}))
	defer tg.Close()

	useTempStore(t)
	viper.Set("telegram.api_endpoint", tg.URL+"/bot%s/%s")

	_, err := execute(t, "", "serve", "--port", "0", "--host", "")
	assert.Error(t, err)
}

func TestWebhookURL(t *testing.T) {
	got := webhookURL(config.TelegramConfig{WebhookURL: "https://bot.example.com/", WebhookSecret: "abc"})
	assert.Equal(t, "https://bot.example.com/telegram/abc", got)
}
