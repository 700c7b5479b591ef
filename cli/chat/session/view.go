package session

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"

	"github.com/assisitant-dever/docgen/cli/chat/styles"
	"github.com/assisitant-dever/docgen/internal/api"
)

// View renders the model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	if !m.ready {
		return "Initializing..."
	}

	if m.viewerMode {
		view := m.viewerViewport.View() + "\n" +
			styles.HelpStyle.Render("Esc to return")
		return m.alert.Render(view)
	}

	var b strings.Builder

	b.WriteString(m.renderTitle())
	b.WriteString("\n")

	b.WriteString(styles.ViewportStyle.Render(m.viewport.View()))
	b.WriteString("\n")

	if m.submitting {
		b.WriteString(fmt.Sprintf("%s Generating...\n", m.spinner.View()))
	} else {
		b.WriteString(styles.TextAreaStyle.Render(m.textarea.View()))
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(styles.ErrorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	return m.alert.Render(b.String())
}

func (m *Model) renderTitle() string {
	conversationName := "new conversation"
	if conversation := m.store.Current(); conversation != nil {
		conversationName = styles.Truncate(conversation.Title, 40)
	}

	title := fmt.Sprintf(" 📄 %s │ 💬 %s ", m.docType, conversationName)
	bar := styles.TitleStyle.Width(m.width).Render(title)
	if m.templateName != "" {
		bar += "\n" + styles.TemplateStyle.Render(fmt.Sprintf("📋 template: %s", styles.Truncate(m.templateName, 40)))
	}
	return bar
}

func (m *Model) renderMessages() string {
	conversation := m.store.Current()
	if conversation == nil || len(conversation.Messages) == 0 {
		return styles.DimTextStyle.Render("No messages yet. Describe the document you need.")
	}

	var b strings.Builder
	for i, message := range conversation.Messages {
		if i > 0 {
			b.WriteString("\n\n")
		}
		switch message.Role {
		case api.RoleUser:
			b.WriteString(styles.UserMessageStyle.Render(message.Content))

		case api.RoleAssistant:
			if message.Failed {
				b.WriteString(styles.MessageErrorStyle.Render(message.Content))
				continue
			}
			rendered := m.renderer.ToMarkdown(message.Content, messageCacheIndex(message))
			b.WriteString(styles.AssistantMessageStyle.Render(rendered))
			if message.DocxFile != "" {
				b.WriteString("\n")
				b.WriteString(styles.FileStyle.Render(fmt.Sprintf("📎 %s (Alt+D to download)", message.DocxFile)))
			}
		}
	}
	return b.String()
}

// messageCacheIndex keys the render cache. Server-assigned ids are
// stable; optimistic messages render uncached.
func messageCacheIndex(message *api.Message) int {
	if message.ID != 0 {
		return int(message.ID)
	}
	return -1
}

func newViewerViewport(width, height int, content string) viewport.Model {
	vp := viewport.New(width, height-1)
	vp.SetContent(content)
	vp.GotoTop()
	return vp
}
