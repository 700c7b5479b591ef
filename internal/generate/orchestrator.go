// Package generate drives the request/response cycle against the
// generation endpoint: optimistic transcript updates, multipart
// submission, result attachment and first-exchange title inference.
package generate

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/assisitant-dever/docgen/internal/api"
	"github.com/assisitant-dever/docgen/internal/state"
)

// State of the orchestrator. Transitions: Idle -> Submitting ->
// (Succeeded|Failed) -> Idle. Succeeded/Failed are observable through
// the Result/error of Submit; between calls the orchestrator is Idle or
// Submitting.
type State int

const (
	// Idle means no generation call is in flight.
	Idle State = iota
	// Submitting means a single generation call is in flight.
	Submitting
)

// Backend is the slice of the API client the orchestrator drives.
type Backend interface {
	Generate(ctx context.Context, request *api.GenerateRequest) (*api.GenerateResponse, error)
	RenameConversation(ctx context.Context, id int64, title string) (*api.Conversation, error)
}

// Result of a successful submission.
type Result struct {
	// Conversation is the store entry the exchange landed in.
	Conversation *api.Conversation
	// Assistant is the appended assistant message, carrying the docx file
	// reference.
	Assistant *api.Message
	// Response is the raw generation payload (text, filename, html).
	Response *api.GenerateResponse
}

// Orchestrator coordinates one generation request at a time against the
// store. The busy flag is cooperative: callers disable their submit
// affordance while Busy reports true, and a second Submit while one is in
// flight is rejected rather than queued.
type Orchestrator struct {
	backend Backend
	store   *state.Store

	mu              sync.Mutex
	busy            bool
	templateContent string
}

// New orchestrator.
func New(backend Backend, store *state.Store) *Orchestrator {
	return &Orchestrator{backend: backend, store: store}
}

// SetTemplateContent selects resolved template text to guide the next
// submission. Cleared automatically after a successful generation.
func (o *Orchestrator) SetTemplateContent(content string) {
	o.mu.Lock()
	o.templateContent = content
	o.mu.Unlock()
}

// TemplateSelected reports whether a template guides the next submission.
func (o *Orchestrator) TemplateSelected() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.templateContent != ""
}

// Busy reports whether a generation call is in flight.
func (o *Orchestrator) Busy() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.busy
}

// CurrentState returns Idle or Submitting.
func (o *Orchestrator) CurrentState() State {
	if o.Busy() {
		return Submitting
	}
	return Idle
}

// Submit runs one full generation cycle into the given conversation
// (zero for a fresh one) and blocks until it resolves. The user message
// is appended to the store optimistically before the network call; on
// failure a synthetic assistant message carrying the error is appended in
// place of the missing reply, so the failure stays visible in the
// transcript. Nothing is retried automatically.
func (o *Orchestrator) Submit(ctx context.Context, docType, userInput string, conversationID int64) (*Result, error) {
	o.mu.Lock()
	if o.busy {
		o.mu.Unlock()
		return nil, fmt.Errorf("a generation request is already in flight")
	}
	o.busy = true
	templateContent := o.templateContent
	o.mu.Unlock()
	defer func() {
		o.mu.Lock()
		o.busy = false
		o.mu.Unlock()
	}()

	userMessage := &api.Message{
		ClientID: uuid.New().String(),
		Role:     api.RoleUser,
		Content:  userInput,
	}

	// Optimistic append so the UI reflects the send without waiting on
	// the network. For a fresh conversation there is no store entry yet;
	// the message is attached once the server assigns an id.
	existing := o.store.Get(conversationID)
	firstExchange := existing == nil || len(existing.Messages) == 0
	if existing != nil {
		o.store.AppendMessage(conversationID, userMessage)
	}

	response, err := o.backend.Generate(ctx, &api.GenerateRequest{
		DocType:         docType,
		UserInput:       userInput,
		ConversationID:  conversationID,
		TemplateContent: templateContent,
	})
	if err != nil {
		// The optimistic user message is deliberately not rolled back.
		if existing != nil {
			o.store.AppendMessage(conversationID, &api.Message{
				ClientID: uuid.New().String(),
				Role:     api.RoleAssistant,
				Content:  fmt.Sprintf("生成失败: %v", err),
				Failed:   true,
			})
		}
		return nil, err
	}

	assistantMessage := &api.Message{
		ClientID: uuid.New().String(),
		Role:     api.RoleAssistant,
		Content:  response.Text,
		DocxFile: response.Filename,
	}

	conversation := existing
	if conversation == nil {
		// Adopt the server-assigned conversation.
		conversation = &api.Conversation{
			ID:       response.ConvID,
			Title:    userInput,
			Messages: []*api.Message{userMessage},
		}
		o.store.Upsert(conversation)
		o.store.SetCurrent(conversation.ID)
	}
	o.store.AppendMessage(conversation.ID, assistantMessage)

	// The transcript may have been deleted while the request was in
	// flight; the late response must not resurrect it.
	current := o.store.Get(conversation.ID)

	if firstExchange && current != nil {
		title := InferTitle(userInput)
		if renamed, err := o.backend.RenameConversation(ctx, conversation.ID, title); err == nil {
			renamed.Messages = current.Messages
			o.store.Upsert(renamed)
			conversation = renamed
		}
		// A rename failure is cosmetic; the generated exchange is already
		// in place, so it is not surfaced into the transcript.
	}

	o.mu.Lock()
	o.templateContent = ""
	o.mu.Unlock()

	return &Result{
		Conversation: o.store.Get(conversation.ID),
		Assistant:    assistantMessage,
		Response:     response,
	}, nil
}
