package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConversationEndpoints(t *testing.T) {
	type call struct {
		method string
		path   string
	}
	var calls []call
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, call{method: r.Method, path: r.URL.Path})
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/conversations":
			w.Write([]byte(`[{"id": 1, "title": "first"}, {"id": 2, "title": "second"}]`))
		case r.Method == http.MethodGet && r.URL.Path == "/api/conversations/2":
			w.Write([]byte(`{"id": 2, "title": "second", "messages": [{"id": 5, "role": "user", "content": "hi"}]}`))
		case r.Method == http.MethodPost && r.URL.Path == "/api/conversations":
			w.Write([]byte(`{"id": 3, "title": "新对话"}`))
		case r.Method == http.MethodPatch && r.URL.Path == "/api/conversations/3":
			body := map[string]string{}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			w.Write([]byte(`{"id": 3, "title": "` + body["title"] + `"}`))
		case r.Method == http.MethodDelete && r.URL.Path == "/api/conversations/3":
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := newTestClient(server.URL, &memoryStore{}, nil)
	ctx := context.Background()

	listed, err := client.ListConversations(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "first", listed[0].Title)

	conversation, err := client.GetConversation(ctx, 2)
	require.NoError(t, err)
	require.Len(t, conversation.Messages, 1)
	assert.Equal(t, "hi", conversation.Messages[0].Content)

	created, err := client.CreateConversation(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, int64(3), created.ID)
	assert.Equal(t, "新对话", created.Title)

	renamed, err := client.RenameConversation(ctx, 3, "renamed")
	require.NoError(t, err)
	assert.Equal(t, "renamed", renamed.Title)

	require.NoError(t, client.DeleteConversation(ctx, 3))

	expected := []call{
		{http.MethodGet, "/api/conversations"},
		{http.MethodGet, "/api/conversations/2"},
		{http.MethodPost, "/api/conversations"},
		{http.MethodPatch, "/api/conversations/3"},
		{http.MethodDelete, "/api/conversations/3"},
	}
	assert.Equal(t, expected, calls)
}

func TestAppendMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/conversations/7/messages", r.URL.Path)
		payload := map[string]any{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "user", payload["role"])
		// The client-side temp id never goes over the wire.
		assert.NotContains(t, payload, "client_id")
		w.Write([]byte(`{"id": 9, "role": "user", "content": "hello"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, &memoryStore{}, nil)
	created, err := client.AppendMessage(context.Background(), 7, &Message{
		ClientID: "temp-1",
		Role:     RoleUser,
		Content:  "hello",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(9), created.ID)
}
