package session

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.dalton.dog/bubbleup"
	"golang.design/x/clipboard"

	"github.com/assisitant-dever/docgen/cli/chat/styles"
	"github.com/assisitant-dever/docgen/internal/debug"
	"github.com/assisitant-dever/docgen/internal/download"
	"github.com/assisitant-dever/docgen/internal/generate"
	"github.com/assisitant-dever/docgen/internal/history"
	"github.com/assisitant-dever/docgen/internal/markdown"
	"github.com/assisitant-dever/docgen/internal/state"
)

var log = debug.GetLogger()

// Model represents the Bubble Tea model for the chat session.
type Model struct {
	// Core dependencies
	ctx          context.Context
	store        *state.Store
	orchestrator *generate.Orchestrator
	agent        *download.Agent

	// Request options
	docType      string
	templateName string

	// UI components
	textarea textarea.Model
	viewport viewport.Model
	spinner  spinner.Model
	renderer *markdown.Renderer

	// UI state
	width      int
	height     int
	ready      bool
	submitting bool
	quitting   bool
	err        error

	// Fullscreen document viewer (last generated document).
	viewerMode     bool
	viewerViewport viewport.Model

	// Alert notifications.
	alert bubbleup.AlertModel

	// Input history
	history           *history.History
	historyNavigating bool

	// clipboardReady is false when the platform clipboard could not be
	// initialized; copying then degrades to an alert.
	clipboardReady bool
}

// New creates a new chat session model.
func New(
	ctx context.Context,
	store *state.Store,
	orchestrator *generate.Orchestrator,
	agent *download.Agent,
	docType string,
	templateName string,
) (*Model, error) {
	ta := textarea.New()
	ta.Placeholder = "Describe the document... (Ctrl+J to send, Alt+V to view, Alt+P/N for history, Ctrl+C to quit)"
	ta.Focus()
	ta.CharLimit = 0
	ta.SetWidth(styles.DefaultTextareaWidth)
	ta.SetHeight(styles.MinTextareaHeight)
	ta.ShowLineNumbers = false
	ta.KeyMap.InsertNewline.SetEnabled(true)
	ta.Prompt = ""

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.SpinnerStyle

	renderer, err := markdown.NewRenderer(styles.DefaultTextareaWidth)
	if err != nil {
		return nil, err
	}

	clipboardReady := clipboard.Init() == nil

	return &Model{
		ctx:            ctx,
		store:          store,
		orchestrator:   orchestrator,
		agent:          agent,
		docType:        docType,
		templateName:   templateName,
		textarea:       ta,
		spinner:        sp,
		renderer:       renderer,
		history:        history.NewHistory(),
		alert:          *bubbleup.NewAlertModel(25, true, 1),
		clipboardReady: clipboardReady,
	}, nil
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.spinner.Tick,
		m.alert.Init(),
	)
}

// Run starts the session and blocks until the user quits.
func Run(
	ctx context.Context,
	store *state.Store,
	orchestrator *generate.Orchestrator,
	agent *download.Agent,
	docType string,
	templateName string,
) error {
	model, err := New(ctx, store, orchestrator, agent, docType, templateName)
	if err != nil {
		return err
	}
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())

	// Re-render whenever the store mutates, so optimistic appends made on
	// the submit goroutine become visible without waiting for the result.
	store.Subscribe(func() {
		go program.Send(storeChangedMsg{})
	})

	start := time.Now()
	_, err = program.Run()
	log.Info("chat session ended", "duration", time.Since(start))
	return err
}
