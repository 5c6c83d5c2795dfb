package tui

import (
	"strings"

	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/charmbracelet/x/ansi"

	"github.com/mark3labs/stratagem/internal/tui/theme"
)

// DrawText renders plain text at a position
func DrawText(scr uv.Screen, area uv.Rectangle, text string) {
	uv.NewStyledString(text).Draw(scr, area)
}

// DrawStyled renders lipgloss-styled content at a position
func DrawStyled(scr uv.Screen, area uv.Rectangle, style lipgloss.Style, text string) {
	content := style.Width(area.Dx()).Height(area.Dy()).Render(text)
	uv.NewStyledString(content).Draw(scr, area)
}

// FillArea clears an area with a styled background
func FillArea(scr uv.Screen, area uv.Rectangle, style lipgloss.Style) {
	fill := style.Width(area.Dx()).Height(area.Dy()).Render("")
	uv.NewStyledString(fill).Draw(scr, area)
}

// DrawPanel renders a panel with a "Title ────" header and returns the inner
// content area. Focus is indicated by the header color.
func DrawPanel(scr uv.Screen, area uv.Rectangle, title string, focused bool) uv.Rectangle {
	headerHeight := 0

	if title != "" {
		headerHeight = 1
		s := theme.Current().S()
		titleStyle, ruleStyle := s.PanelTitle, s.PanelRule
		if focused {
			titleStyle, ruleStyle = s.PanelTitleFocused, s.PanelRuleFocused
		}

		styledTitle := titleStyle.Render(title)
		ruleWidth := max(area.Dx()-lipgloss.Width(styledTitle)-1, 0)
		headerText := styledTitle + " " + ruleStyle.Render(strings.Repeat("─", ruleWidth))

		titleArea := uv.Rect(area.Min.X, area.Min.Y, area.Dx(), 1)
		uv.NewStyledString(headerText).Draw(scr, titleArea)
	}

	innerHeight := max(area.Dy()-headerHeight, 0)
	return uv.Rect(area.Min.X, area.Min.Y+headerHeight, area.Dx(), innerHeight)
}

// DrawCentered draws content in the middle of area and returns the rectangle
// it occupies.
func DrawCentered(scr uv.Screen, area uv.Rectangle, content string) uv.Rectangle {
	w := lipgloss.Width(content)
	h := lipgloss.Height(content)
	x := max((area.Dx()-w)/2, 0)
	y := max((area.Dy()-h)/2, 0)

	rect := uv.Rect(area.Min.X+x, area.Min.Y+y, w, h)
	uv.NewStyledString(content).Draw(scr, rect)
	return rect
}

// truncate shortens s to width cells, adding an ellipsis when cut. Styled
// text keeps its escape sequences intact.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return ansi.Truncate(s, width, "…")
}
