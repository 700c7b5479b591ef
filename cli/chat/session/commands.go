package session

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/assisitant-dever/docgen/internal/api"
	"github.com/assisitant-dever/docgen/internal/generate"
)

// storeChangedMsg is sent whenever the conversation store mutates.
type storeChangedMsg struct{}

// generationResultMsg resolves a submission.
type generationResultMsg struct {
	result *generate.Result
	err    error
}

// downloadResultMsg resolves a background document download.
type downloadResultMsg struct {
	path string
	err  error
}

// submit sends the textarea content through the orchestrator. The
// orchestrator appends the user message optimistically before the network
// call, so the transcript updates via storeChangedMsg while the request
// is in flight.
func (m *Model) submit() tea.Cmd {
	userInput := strings.TrimSpace(m.textarea.Value())
	if userInput == "" {
		return nil
	}

	m.history.Add(userInput)
	m.historyNavigating = false
	m.textarea.Reset()
	m.submitting = true
	m.err = nil
	m.recalculateLayout()
	m.viewport.GotoBottom()

	conversationID := m.store.CurrentID()
	return func() tea.Msg {
		result, err := m.orchestrator.Submit(m.ctx, m.docType, userInput, conversationID)
		return generationResultMsg{result: result, err: err}
	}
}

// downloadLast fetches the most recent generated document in the
// transcript.
func (m *Model) downloadLast() tea.Cmd {
	filename := m.lastDocumentFilename()
	if filename == "" {
		return nil
	}
	return func() tea.Msg {
		path, err := m.agent.Download(m.ctx, filename)
		return downloadResultMsg{path: path, err: err}
	}
}

// lastDocumentFilename returns the docx reference of the newest assistant
// message carrying one, or "".
func (m *Model) lastDocumentFilename() string {
	conversation := m.store.Current()
	if conversation == nil {
		return ""
	}
	for i := len(conversation.Messages) - 1; i >= 0; i-- {
		if conversation.Messages[i].DocxFile != "" {
			return conversation.Messages[i].DocxFile
		}
	}
	return ""
}

// lastAssistantContent returns the newest assistant message content, or "".
func (m *Model) lastAssistantContent() string {
	conversation := m.store.Current()
	if conversation == nil {
		return ""
	}
	for i := len(conversation.Messages) - 1; i >= 0; i-- {
		if conversation.Messages[i].Role == api.RoleAssistant && conversation.Messages[i].Content != "" {
			return conversation.Messages[i].Content
		}
	}
	return ""
}
