package telegram

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendMessageToThread(t *testing.T) {
	var (
		path string
		got  map[string]any
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":7,"chat":{"id":-100}}}`))
	}))
	defer srv.Close()

	c := newClient(srv.URL, slog.New(slog.NewTextHandler(io.Discard, nil)))
	thread := int64(12)
	require.NoError(t, c.SendMessageToThread(context.Background(), -100, &thread, "alert"))

	assert.Equal(t, "/sendMessage", path)
	assert.EqualValues(t, -100, got["chat_id"])
	assert.EqualValues(t, 12, got["message_thread_id"])
	assert.Equal(t, "alert", got["text"])
}

func TestSendMessageAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`))
	}))
	defer srv.Close()

	c := newClient(srv.URL, slog.New(slog.NewTextHandler(io.Discard, nil)))
	err := c.SendMessage(context.Background(), 1, "alert")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat not found")
}
