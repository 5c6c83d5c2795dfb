package tui

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/mark3labs/stratagem/internal/tui/theme"
)

// ButtonState represents the visual state of a button.
type ButtonState int

const (
	ButtonNormal   ButtonState = iota // Enabled
	ButtonDisabled                    // Grayed out, cannot be activated
	ButtonFocused                     // Highlighted by keyboard focus
)

// Button represents a single button in a bar.
type Button struct {
	Label   string
	State   ButtonState
	Primary bool
}

// RenderButtons renders buttons side by side.
func RenderButtons(buttons []Button) string {
	s := theme.Current().S()
	parts := make([]string, 0, len(buttons))
	for _, btn := range buttons {
		style := s.ButtonNormal
		switch {
		case btn.State == ButtonDisabled:
			style = s.ButtonDisabled
		case btn.State == ButtonFocused:
			style = s.ButtonFocused
		case btn.Primary:
			style = s.ButtonPrimary
		}
		parts = append(parts, style.Render(btn.Label))
	}
	return strings.Join(parts, "")
}

// ButtonBar is the Back/Next row under the main panel.
type ButtonBar struct {
	backEnabled bool
	nextEnabled bool
	focused     bool
	cursor      int // 0 = Back, 1 = Next
}

// NewButtonBar creates a button bar with Next selected.
func NewButtonBar() *ButtonBar {
	return &ButtonBar{nextEnabled: true, cursor: 1}
}

// SetEnabled updates which buttons can be activated.
func (b *ButtonBar) SetEnabled(back, next bool) {
	b.backEnabled = back
	b.nextEnabled = next
	if b.cursor == 0 && !back {
		b.cursor = 1
	}
}

// SetFocused sets keyboard focus.
func (b *ButtonBar) SetFocused(focused bool) {
	b.focused = focused
}

// IsFocused reports keyboard focus.
func (b *ButtonBar) IsFocused() bool {
	return b.focused
}

// Buttons returns the current button states.
func (b *ButtonBar) Buttons() []Button {
	back := Button{Label: "← Back"}
	next := Button{Label: "Next →", Primary: true}
	if !b.backEnabled {
		back.State = ButtonDisabled
	}
	if !b.nextEnabled {
		next.State = ButtonDisabled
	}
	if b.focused {
		if b.cursor == 0 && b.backEnabled {
			back.State = ButtonFocused
		} else if b.cursor == 1 && b.nextEnabled {
			next.State = ButtonFocused
		}
	}
	return []Button{back, next}
}

// Update handles keys while the bar is focused.
func (b *ButtonBar) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyPressMsg)
	if !ok || !b.focused {
		return nil
	}

	switch keyMsg.String() {
	case "left", "h":
		if b.backEnabled {
			b.cursor = 0
		}
	case "right", "l":
		b.cursor = 1
	case "enter", "space":
		if b.cursor == 0 && b.backEnabled {
			return func() tea.Msg { return NavigateMsg{Forward: false} }
		}
		if b.cursor == 1 && b.nextEnabled {
			return func() tea.Msg { return NavigateMsg{Forward: true} }
		}
	}
	return nil
}

// View renders Back on the left and Next on the right of width cells.
func (b *ButtonBar) View(width int) string {
	buttons := b.Buttons()
	left := RenderButtons(buttons[:1])
	right := RenderButtons(buttons[1:])
	gap := max(width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return left + strings.Repeat(" ", gap) + right
}

// Draw renders the bar into area.
func (b *ButtonBar) Draw(scr uv.Screen, area uv.Rectangle) {
	DrawText(scr, area, b.View(area.Dx()))
}
