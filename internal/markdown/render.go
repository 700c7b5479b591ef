package markdown

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
)

// Renderer handles markdown rendering of generated document text.
type Renderer struct {
	glamour *glamour.TermRenderer
	width   int
	mdCache map[int]string
}

// NewRenderer creates a new markdown renderer.
func NewRenderer(width int) (*Renderer, error) {
	gr, err := glamour.NewTermRenderer(
		glamour.WithStyles(customStyle()),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}

	return &Renderer{
		glamour: gr,
		width:   width,
		mdCache: map[int]string{},
	}, nil
}

// ToMarkdown renders markdown content with syntax highlighting.
// The index is used for caching. Use -1 for non-cached rendering.
func (r *Renderer) ToMarkdown(content string, messageIndex int) string {
	if md, ok := r.mdCache[messageIndex]; ok {
		return md
	}

	var sb strings.Builder
	blocks := ParseBlocks(content)
	for i, block := range blocks {
		sb.WriteString(r.toMarkdownBlock(block.md()))
		if i < len(blocks)-1 {
			sb.WriteString("\n")
		}
	}

	result := sb.String()
	if messageIndex >= 0 {
		r.mdCache[messageIndex] = result
	}
	return result
}

// SetWidth updates the renderer width, recreating internals if needed.
func (r *Renderer) SetWidth(width int) error {
	if r.width == width {
		return nil
	}
	newRenderer, err := NewRenderer(width)
	if err != nil {
		return err
	}
	*r = *newRenderer
	return nil
}

// toMarkdownBlock renders a single block of markdown content.
func (r *Renderer) toMarkdownBlock(content string) string {
	rendered, err := r.glamour.Render(content)
	if err != nil {
		return content
	}
	return strings.Trim(rendered, "\n")
}

// customStyle returns a modified glamour style for cleaner output.
func customStyle() ansi.StyleConfig {
	style := styles.DraculaStyleConfig
	zero := uint(0)
	style.Document.Margin = &zero
	style.CodeBlock.Margin = &zero
	style.CodeBlock.Indent = &zero
	style.CodeBlock.Prefix = ""
	style.CodeBlock.BlockPrefix = ""

	style.Code.Margin = &zero
	style.Code.Indent = &zero
	style.Code.Prefix = ""
	style.Code.Suffix = ""

	style.Paragraph.BlockPrefix = ""
	style.Paragraph.BlockSuffix = ""

	return style
}
