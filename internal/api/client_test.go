package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assisitant-dever/docgen/internal/auth"
	"github.com/assisitant-dever/docgen/internal/configuration"
)

// memoryStore is an in-memory auth.Store for tests.
type memoryStore struct {
	mu      sync.Mutex
	session *auth.Session
	cleared int
}

func (s *memoryStore) Get() (*auth.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session, nil
}

func (s *memoryStore) Set(session *auth.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = session
	return nil
}

func (s *memoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = nil
	s.cleared++
	return nil
}

func newTestClient(serverURL string, credentials auth.Store, onUnauthorized func()) *Client {
	config := &configuration.Config{
		ServerURL:       serverURL,
		RequestTimeout:  5,
		GenerateTimeout: 5,
	}
	return New(config, credentials, onUnauthorized)
}

func TestDoAttachesBearerToken(t *testing.T) {
	var gotAuthorization string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuthorization = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	credentials := &memoryStore{session: &auth.Session{Username: "alice", Token: "token-123"}}
	client := newTestClient(server.URL, credentials, nil)

	_, err := client.ListConversations(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer token-123", gotAuthorization)
}

func TestDoAnonymousOmitsAuthorization(t *testing.T) {
	var gotAuthorization string
	var present bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuthorization = r.Header.Get("Authorization")
		_, present = r.Header["Authorization"]
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, &memoryStore{}, nil)
	_, err := client.ListConversations(context.Background())
	require.NoError(t, err)
	assert.False(t, present)
	assert.Empty(t, gotAuthorization)
}

func TestUnauthorizedClearsSessionAndNotifies(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail": "token expired"}`))
	}))
	defer server.Close()

	credentials := &memoryStore{session: &auth.Session{Username: "alice", Token: "stale"}}
	notified := false
	client := newTestClient(server.URL, credentials, func() { notified = true })

	_, err := client.ListConversations(context.Background())
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.True(t, notified)
	assert.Equal(t, 1, credentials.cleared)
	session, _ := credentials.Get()
	assert.Nil(t, session)
	assert.Contains(t, err.Error(), "token expired")
}

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name   string
		status int
		check  func(error) bool
	}{
		{name: "not found", status: http.StatusNotFound, check: IsNotFound},
		{name: "unprocessable entity", status: http.StatusUnprocessableEntity, check: IsValidation},
		{name: "server error", status: http.StatusInternalServerError, check: IsValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			client := newTestClient(server.URL, &memoryStore{}, nil)
			_, err := client.ListConversations(context.Background())
			require.Error(t, err)
			assert.True(t, tt.check(err))
		})
	}
}

func TestNetworkFailureClassification(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := newTestClient(server.URL, &memoryStore{}, nil)
	_, err := client.ListConversations(context.Background())
	require.Error(t, err)
	assert.True(t, IsNetwork(err))
}

func TestDetailFallsBackToRawBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("plain failure"))
	}))
	defer server.Close()

	client := newTestClient(server.URL, &memoryStore{}, nil)
	_, err := client.ListConversations(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "plain failure")
}

func TestLoginStoresSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/login", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)
		w.Write([]byte(`{"access_token": "fresh-token"}`))
	}))
	defer server.Close()

	credentials := &memoryStore{}
	client := newTestClient(server.URL, credentials, nil)

	session, err := client.Login(context.Background(), "alice", "secret")
	require.NoError(t, err)
	assert.Equal(t, "alice", session.Username)
	assert.Equal(t, "fresh-token", session.Token)

	stored, err := credentials.Get()
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "fresh-token", stored.Token)
}

func TestGenerateSendsMultipartForm(t *testing.T) {
	var form struct {
		docType         string
		userInput       string
		convID          string
		templateContent string
		hasTemplate     bool
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/generate", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		form.docType = r.FormValue("doc_type")
		form.userInput = r.FormValue("user_input")
		form.convID = r.FormValue("conv_id")
		form.templateContent = r.FormValue("template_content")
		_, form.hasTemplate = r.MultipartForm.Value["template_content"]
		w.Write([]byte(`{"text": "generated", "filename": "doc.docx", "conv_id": 9}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, &memoryStore{}, nil)
	response, err := client.Generate(context.Background(), &GenerateRequest{
		DocType:         "通知",
		UserInput:       "draft it",
		ConversationID:  9,
		TemplateContent: "template body",
	})
	require.NoError(t, err)
	assert.Equal(t, "generated", response.Text)
	assert.Equal(t, "doc.docx", response.Filename)
	assert.Equal(t, int64(9), response.ConvID)
	assert.Equal(t, "通知", form.docType)
	assert.Equal(t, "draft it", form.userInput)
	assert.Equal(t, "9", form.convID)
	assert.Equal(t, "template body", form.templateContent)
}

func TestGenerateNewConversationSendsNewMarker(t *testing.T) {
	var convID string
	var hasTemplate bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		convID = r.FormValue("conv_id")
		_, hasTemplate = r.MultipartForm.Value["template_content"]
		w.Write([]byte(`{"text": "generated", "filename": "doc.docx", "conv_id": 1}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, &memoryStore{}, nil)
	_, err := client.Generate(context.Background(), &GenerateRequest{
		DocType:   "通知",
		UserInput: "draft it",
	})
	require.NoError(t, err)
	assert.Equal(t, "new", convID)
	assert.False(t, hasTemplate)
}
