package generate

import (
	"context"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assisitant-dever/docgen/internal/api"
	"github.com/assisitant-dever/docgen/internal/state"
)

type fakeBackend struct {
	mu               sync.Mutex
	generateRequests []*api.GenerateRequest
	generateResponse *api.GenerateResponse
	generateErr      error
	// generateStarted/release coordinate an in-flight call.
	generateStarted chan struct{}
	release         chan struct{}

	renamedTitles []string
	renameErr     error
}

func (f *fakeBackend) Generate(ctx context.Context, request *api.GenerateRequest) (*api.GenerateResponse, error) {
	f.mu.Lock()
	f.generateRequests = append(f.generateRequests, request)
	f.mu.Unlock()
	if f.generateStarted != nil {
		close(f.generateStarted)
		f.generateStarted = nil
		<-f.release
	}
	if f.generateErr != nil {
		return nil, f.generateErr
	}
	return f.generateResponse, nil
}

func (f *fakeBackend) RenameConversation(ctx context.Context, id int64, title string) (*api.Conversation, error) {
	f.mu.Lock()
	f.renamedTitles = append(f.renamedTitles, title)
	f.mu.Unlock()
	if f.renameErr != nil {
		return nil, f.renameErr
	}
	return &api.Conversation{ID: id, Title: title}, nil
}

func TestSubmitIntoExistingConversation(t *testing.T) {
	store := state.New()
	store.Upsert(&api.Conversation{
		ID:    7,
		Title: "existing",
		Messages: []*api.Message{
			{Role: api.RoleUser, Content: "earlier"},
			{Role: api.RoleAssistant, Content: "reply"},
		},
	})
	backend := &fakeBackend{
		generateResponse: &api.GenerateResponse{Text: "generated text", Filename: "doc.docx", ConvID: 7},
	}
	orchestrator := New(backend, store)

	result, err := orchestrator.Submit(context.Background(), "通知", "write a notice", 7)
	require.NoError(t, err)

	messages := store.Get(7).Messages
	require.Len(t, messages, 4)
	assert.Equal(t, api.RoleUser, messages[2].Role)
	assert.Equal(t, "write a notice", messages[2].Content)
	assert.NotEmpty(t, messages[2].ClientID)
	assert.Equal(t, api.RoleAssistant, messages[3].Role)
	assert.Equal(t, "generated text", messages[3].Content)
	assert.Equal(t, "doc.docx", messages[3].DocxFile)

	assert.Equal(t, "doc.docx", result.Response.Filename)
	assert.Equal(t, int64(7), result.Conversation.ID)
	// Not a first exchange: no rename.
	assert.Empty(t, backend.renamedTitles)
}

func TestSubmitAdoptsNewConversation(t *testing.T) {
	store := state.New()
	backend := &fakeBackend{
		generateResponse: &api.GenerateResponse{Text: "generated", Filename: "doc.docx", ConvID: 42},
	}
	orchestrator := New(backend, store)

	result, err := orchestrator.Submit(context.Background(), "通知", "hello", 0)
	require.NoError(t, err)

	assert.Equal(t, int64(42), result.Conversation.ID)
	assert.Equal(t, int64(42), store.CurrentID())
	messages := store.Get(42).Messages
	require.Len(t, messages, 2)
	assert.Equal(t, api.RoleUser, messages[0].Role)
	assert.Equal(t, api.RoleAssistant, messages[1].Role)
}

func TestSubmitFirstExchangeRenames(t *testing.T) {
	store := state.New()
	backend := &fakeBackend{
		generateResponse: &api.GenerateResponse{Text: "generated", ConvID: 42},
	}
	orchestrator := New(backend, store)

	longInput := "Draft a notice about the holiday schedule for all staff"
	_, err := orchestrator.Submit(context.Background(), "通知", longInput, 0)
	require.NoError(t, err)

	require.Len(t, backend.renamedTitles, 1)
	assert.Equal(t, "Draft a notice about...", backend.renamedTitles[0])
	assert.Equal(t, "Draft a notice about...", store.Get(42).Title)
	// The transcript survives the rename.
	assert.Len(t, store.Get(42).Messages, 2)
}

func TestSubmitRenameFailureIsCosmetic(t *testing.T) {
	store := state.New()
	backend := &fakeBackend{
		generateResponse: &api.GenerateResponse{Text: "generated", ConvID: 42},
		renameErr:        errors.New("server unavailable"),
	}
	orchestrator := New(backend, store)

	result, err := orchestrator.Submit(context.Background(), "通知", "hello", 0)
	require.NoError(t, err)
	assert.Equal(t, int64(42), result.Conversation.ID)
	assert.Len(t, store.Get(42).Messages, 2)
}

func TestSubmitFailureAppendsErrorMessage(t *testing.T) {
	store := state.New()
	store.Upsert(&api.Conversation{
		ID:       7,
		Messages: []*api.Message{{Role: api.RoleUser, Content: "earlier"}},
	})
	backend := &fakeBackend{generateErr: errors.New("boom")}
	orchestrator := New(backend, store)

	_, err := orchestrator.Submit(context.Background(), "通知", "write", 7)
	require.Error(t, err)

	// The optimistic user message stays, followed by exactly one error
	// transcript entry.
	messages := store.Get(7).Messages
	require.Len(t, messages, 3)
	assert.Equal(t, "write", messages[1].Content)
	assert.Equal(t, api.RoleAssistant, messages[2].Role)
	assert.Equal(t, "生成失败: boom", messages[2].Content)
	assert.True(t, messages[2].Failed)

	assert.Equal(t, Idle, orchestrator.CurrentState())
}

func TestSubmitGeneratedTextIsNotMarkedFailed(t *testing.T) {
	store := state.New()
	store.Upsert(&api.Conversation{
		ID:       7,
		Messages: []*api.Message{{Role: api.RoleUser, Content: "earlier"}},
	})
	// Generated text that happens to open like an error entry.
	backend := &fakeBackend{
		generateResponse: &api.GenerateResponse{Text: "生成失败案例分析报告", ConvID: 7},
	}
	orchestrator := New(backend, store)

	result, err := orchestrator.Submit(context.Background(), "通知", "write", 7)
	require.NoError(t, err)
	assert.False(t, result.Assistant.Failed)

	messages := store.Get(7).Messages
	require.Len(t, messages, 3)
	assert.False(t, messages[2].Failed)
}

func TestSubmitRejectsConcurrentCall(t *testing.T) {
	store := state.New()
	backend := &fakeBackend{
		generateResponse: &api.GenerateResponse{Text: "generated", ConvID: 1},
		generateStarted:  make(chan struct{}),
		release:          make(chan struct{}),
	}
	started := backend.generateStarted
	orchestrator := New(backend, store)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := orchestrator.Submit(context.Background(), "通知", "first", 0)
		assert.NoError(t, err)
	}()

	<-started
	assert.Equal(t, Submitting, orchestrator.CurrentState())
	_, err := orchestrator.Submit(context.Background(), "通知", "second", 0)
	require.Error(t, err)

	close(backend.release)
	<-done
	assert.Equal(t, Idle, orchestrator.CurrentState())
	assert.Len(t, backend.generateRequests, 1)
}

func TestSubmitClearsTemplateOnSuccessOnly(t *testing.T) {
	store := state.New()
	backend := &fakeBackend{generateErr: errors.New("boom")}
	orchestrator := New(backend, store)
	orchestrator.SetTemplateContent("template body")

	_, err := orchestrator.Submit(context.Background(), "通知", "write", 0)
	require.Error(t, err)
	assert.True(t, orchestrator.TemplateSelected())

	backend.generateErr = nil
	backend.generateResponse = &api.GenerateResponse{Text: "generated", ConvID: 1}
	_, err = orchestrator.Submit(context.Background(), "通知", "write", 0)
	require.NoError(t, err)
	assert.False(t, orchestrator.TemplateSelected())

	// The selected template rode along on both requests.
	require.Len(t, backend.generateRequests, 2)
	assert.Equal(t, "template body", backend.generateRequests[0].TemplateContent)
	assert.Equal(t, "template body", backend.generateRequests[1].TemplateContent)
}

func TestSubmitLateResponseForDeletedConversation(t *testing.T) {
	store := state.New()
	store.Upsert(&api.Conversation{
		ID:       7,
		Messages: []*api.Message{{Role: api.RoleUser, Content: "earlier"}},
	})
	backend := &fakeBackend{
		generateResponse: &api.GenerateResponse{Text: "generated", ConvID: 7},
		generateStarted:  make(chan struct{}),
		release:          make(chan struct{}),
	}
	started := backend.generateStarted
	orchestrator := New(backend, store)

	done := make(chan struct{})
	go func() {
		defer close(done)
		orchestrator.Submit(context.Background(), "通知", "write", 7)
	}()

	// Delete the conversation while the request is in flight.
	<-started
	store.Remove(7)
	close(backend.release)
	<-done

	// The late response must not resurrect the deleted transcript.
	assert.Nil(t, store.Get(7))
}
