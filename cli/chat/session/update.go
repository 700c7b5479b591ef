package session

import (
	"fmt"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"go.dalton.dog/bubbleup"
	"golang.design/x/clipboard"
)

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// Always update the alert model with every message
	outAlert, alertCmd := m.alert.Update(msg)
	m.alert = outAlert.(bubbleup.AlertModel)
	if alertCmd != nil {
		cmds = append(cmds, alertCmd)
	}

	// Log for non-tick messages only
	defer func() {
		switch msg.(type) {
		case spinner.TickMsg, cursor.BlinkMsg, tea.MouseMsg, storeChangedMsg:
		default:
			log.Info("update completed", "msg_type", fmt.Sprintf("%T", msg), "submitting", m.submitting)
		}
	}()

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.viewerMode {
			switch msg.String() {
			case "esc", "q", "alt+v":
				m.viewerMode = false
				m.textarea.Focus()
				m.viewport.GotoBottom()
				return m, textarea.Blink
			default:
				var cmd tea.Cmd
				m.viewerViewport, cmd = m.viewerViewport.Update(msg)
				return m, cmd
			}
		}

		// Copy the latest generated document text to the clipboard.
		if msg.String() == "alt+w" {
			content := m.lastAssistantContent()
			if content == "" {
				return m, nil
			}
			if !m.clipboardReady {
				cmds = append(cmds, m.alert.NewAlertCmd(bubbleup.ErrorKey, "Clipboard unavailable"))
				return m, tea.Batch(cmds...)
			}
			clipboard.Write(clipboard.FmtText, []byte(content))
			cmds = append(cmds, m.alert.NewAlertCmd(bubbleup.InfoKey, "Copied to clipboard!"))
			return m, tea.Batch(cmds...)
		}

		// Download the latest generated document.
		if msg.String() == "alt+d" && !m.submitting {
			if cmd := m.downloadLast(); cmd != nil {
				cmds = append(cmds, m.alert.NewAlertCmd(bubbleup.InfoKey, "Downloading..."))
				cmds = append(cmds, cmd)
				return m, tea.Batch(cmds...)
			}
			return m, nil
		}

		// Fullscreen document viewer.
		if msg.String() == "alt+v" && !m.submitting {
			content := m.lastAssistantContent()
			if content == "" {
				return m, nil
			}
			m.viewerMode = true
			m.viewerViewport = newViewerViewport(m.width, m.height, m.renderer.ToMarkdown(content, -1))
			m.textarea.Blur()
			return m, nil
		}

		if msg.Alt && !m.submitting {
			switch msg.String() {
			case "alt+p":
				if entry, ok := m.history.Previous(m.textarea.Value()); ok {
					m.textarea.SetValue(entry)
					m.historyNavigating = true
					m.adjustTextareaHeight()
					return m, nil
				}
			case "alt+n":
				if entry, ok := m.history.Next(); ok {
					m.textarea.SetValue(entry)
					m.historyNavigating = true
					m.adjustTextareaHeight()
					return m, nil
				}
			}
		}

		switch msg.Type {
		case tea.KeyCtrlC:
			// A quit does not cancel an in-flight generation; the server
			// keeps the exchange and it appears on the next load.
			m.quitting = true
			return m, tea.Quit

		case tea.KeyCtrlJ:
			if !m.submitting {
				if cmd := m.submit(); cmd != nil {
					cmds = append(cmds, cmd, m.spinner.Tick)
					return m, tea.Batch(cmds...)
				}
			}

		case tea.KeyEnter:
			if m.historyNavigating {
				m.history.Reset()
				m.historyNavigating = false
			}
		}

		if !m.submitting && m.historyNavigating {
			switch msg.Type {
			case tea.KeyRunes, tea.KeyBackspace, tea.KeyDelete:
				m.history.Reset()
				m.historyNavigating = false
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.viewerMode {
			m.viewerViewport.Width = msg.Width
			m.viewerViewport.Height = msg.Height - 1
		}
		m.recalculateLayout()

	case storeChangedMsg:
		wasAtBottom := m.viewport.AtBottom()
		m.viewport.SetContent(m.renderMessages())
		if wasAtBottom {
			m.viewport.GotoBottom()
		}
		return m, nil

	case generationResultMsg:
		m.submitting = false
		if msg.err != nil {
			m.err = msg.err
		} else {
			// The selection is consumed by a successful submission.
			m.templateName = ""
		}
		m.recalculateLayout()
		m.viewport.GotoBottom()
		if msg.err == nil && msg.result != nil && msg.result.Response.Filename != "" {
			cmds = append(cmds, m.alert.NewAlertCmd(bubbleup.InfoKey, "Document ready: "+msg.result.Response.Filename))
		}
		return m, tea.Batch(cmds...)

	case downloadResultMsg:
		if msg.err != nil {
			cmds = append(cmds, m.alert.NewAlertCmd(bubbleup.ErrorKey, msg.err.Error()))
		} else {
			cmds = append(cmds, m.alert.NewAlertCmd(bubbleup.InfoKey, "Saved to "+msg.path))
		}
		return m, tea.Batch(cmds...)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	if !m.submitting && !m.viewerMode {
		var cmd tea.Cmd
		m.textarea, cmd = m.textarea.Update(msg)
		cmds = append(cmds, cmd)
		m.adjustTextareaHeight()
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.submitting {
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			cmds = append(cmds, cmd)
		}
	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}
