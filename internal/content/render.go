package content

import (
	"strings"

	"charm.land/glamour/v2"
	"github.com/charmbracelet/x/ansi"
)

// maxRenderWidth caps line length for readability on wide terminals.
const maxRenderWidth = 120

// RenderMarkdown renders markdown for the terminal with glamour. If glamour
// fails the source is word-wrapped as plain text.
func RenderMarkdown(md string, width int) string {
	if width > maxRenderWidth {
		width = maxRenderWidth
	}
	if width < 20 {
		width = 20
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return PlainText(md, width)
	}

	rendered, err := r.Render(md)
	if err != nil {
		return PlainText(md, width)
	}

	// Remove trailing newline that glamour adds
	return strings.TrimSuffix(rendered, "\n")
}

// PlainText word-wraps md without interpreting it.
func PlainText(md string, width int) string {
	return ansi.Wordwrap(md, width, "")
}

// Render draws a section's blocks at width.
func Render(d Descriptor, width int, widgetText func(Widget) string) string {
	md := d.Markdown(widgetText)
	if md == "" {
		return PlainText(d.Description, width)
	}
	return RenderMarkdown(md, width)
}
