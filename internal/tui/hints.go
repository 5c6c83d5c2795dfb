package tui

import (
	"strings"

	"github.com/mark3labs/stratagem/internal/tui/theme"
)

// Standard key representations for consistent hints across the app.
const (
	KeyUpDown  = "↑/↓"
	KeyEnter   = "enter"
	KeySpace   = "space"
	KeyEsc     = "esc"
	KeyTab     = "tab"
	KeyCtrlC   = "ctrl+c"
	KeyCtrlN   = "ctrl+n"   // Next section
	KeyCtrlB   = "ctrl+b"   // Previous section
	KeyCtrlX   = "ctrl+x"   // Prefix modifier key
	KeyCtrlXU  = "ctrl+x u" // Upload panel
	KeyCtrlXA  = "ctrl+x a" // Audience dropdown
	KeyCtrlXT  = "ctrl+x t" // Dismiss smart tip
	KeyCtrlXB  = "ctrl+x b" // Toggle sidebar
	KeyCtrlS   = "ctrl+s"
	KeyCtrlE   = "ctrl+e"
	KeyCtrlD   = "ctrl+d"
	KeyI       = "i"
	KeySlash   = "/"
	KeyDelete  = "d"
	KeyPgUpDwn = "pgup/pgdn"
)

// RenderHint renders a single key-description pair.
// Example: RenderHint("enter", "select") -> "enter select"
func RenderHint(key, desc string) string {
	s := theme.Current().S()
	return s.HintKey.Render(key) + " " + s.HintDesc.Render(desc)
}

// RenderHintBar renders a hint bar with multiple key-description pairs
// separated by " . ". Odd argument counts render nothing.
func RenderHintBar(pairs ...string) string {
	if len(pairs) == 0 || len(pairs)%2 != 0 {
		return ""
	}

	s := theme.Current().S()
	var b strings.Builder
	for i := 0; i < len(pairs); i += 2 {
		if i > 0 {
			b.WriteString(" " + s.HintSeparator.Render(".") + " ")
		}
		b.WriteString(RenderHint(pairs[i], pairs[i+1]))
	}
	return b.String()
}

// HintWizard returns the main screen hints.
func HintWizard() string {
	return RenderHintBar(KeyCtrlN, "next", KeyCtrlB, "back", KeyTab, "focus", KeyCtrlXU, "upload", KeyCtrlXA, "audience", KeyCtrlC, "quit")
}

// HintPrefix returns the hints shown while waiting for the key after ctrl+x.
func HintPrefix() string {
	return RenderHintBar("u", "upload", "a", "audience", "t", "dismiss tip", "b", "sidebar", KeyEsc, "cancel")
}

// HintModal returns standard modal hints.
func HintModal() string {
	return RenderHintBar(KeyTab, "cycle", KeyEnter, "select", KeyEsc, "close")
}
