package tui

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/mark3labs/stratagem/internal/navigation"
	"github.com/mark3labs/stratagem/internal/tui/theme"
)

// StatusBar displays campaign progress (left) and key hints with the journal
// indicator (right).
type StatusBar struct {
	width      int
	campaign   string
	step       int
	steps      int
	progress   float64
	section    string
	journaled  bool
	prefixMode bool
	layoutMode LayoutMode
}

// NewStatusBar creates a new StatusBar component.
func NewStatusBar(campaign string) *StatusBar {
	return &StatusBar{campaign: campaign}
}

// SetState updates the progress shown for st.
func (s *StatusBar) SetState(tracker *navigation.Tracker, st navigation.State) {
	s.step = int(tracker.StepOrDefault(st.Active))
	s.steps = tracker.Layout().StepCount()
	s.progress = tracker.Progress(st)
	s.section = tracker.Layout().Label(st.Active)
}

// SetJournaled records whether events are being persisted.
func (s *StatusBar) SetJournaled(ok bool) {
	s.journaled = ok
}

// SetPrefixMode switches the hints to the ctrl+x follow-up keys.
func (s *StatusBar) SetPrefixMode(on bool) {
	s.prefixMode = on
}

// SetLayoutMode updates the layout mode (desktop/compact).
func (s *StatusBar) SetLayoutMode(mode LayoutMode) {
	s.layoutMode = mode
}

// SetSize updates the component width.
func (s *StatusBar) SetSize(width int) {
	s.width = width
}

// buildLeft builds the left side: name, campaign, step and percentage.
func (s *StatusBar) buildLeft() string {
	st := theme.Current().S()
	sep := st.Muted.Render(" | ")

	left := st.HeaderTitle.Render("stratagem")
	if s.campaign != "" {
		left += sep + st.Text.Render(s.campaign)
	}
	if s.steps > 0 {
		left += sep + st.Text.Render(fmt.Sprintf("Step %d/%d", s.step, s.steps))
		if s.layoutMode == LayoutDesktop && s.section != "" {
			left += st.Muted.Render(" " + s.section)
		}
		left += sep + st.Info.Render(fmt.Sprintf("%.0f%%", s.progress))
	}
	return left
}

// buildRight builds the right side: hints and the journal indicator.
func (s *StatusBar) buildRight() string {
	st := theme.Current().S()
	var hints string
	if s.prefixMode {
		hints = HintPrefix()
	} else {
		hints = HintWizard()
	}

	var dot string
	if s.journaled {
		dot = st.Success.Render("●")
		if s.layoutMode == LayoutDesktop {
			dot += st.Muted.Render(" saved")
		}
	} else {
		dot = st.Error.Render("○")
		if s.layoutMode == LayoutDesktop {
			dot += st.Muted.Render(" unsaved")
		}
	}
	return hints + "  " + dot
}

// View renders the bar at width.
func (s *StatusBar) View(width int) string {
	left := s.buildLeft()
	right := s.buildRight()

	// Hints go first when space is short
	if lipgloss.Width(left)+lipgloss.Width(right)+2 > width {
		right = s.buildRightCompact()
	}
	padding := max(width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return truncate(left+strings.Repeat(" ", padding)+right, width)
}

func (s *StatusBar) buildRightCompact() string {
	st := theme.Current().S()
	if s.prefixMode {
		return st.HintKey.Render(KeyCtrlX) + st.HintDesc.Render(" …")
	}
	if s.journaled {
		return st.Success.Render("●")
	}
	return st.Error.Render("○")
}

// Draw renders the status bar to the screen.
func (s *StatusBar) Draw(scr uv.Screen, area uv.Rectangle) *tea.Cursor {
	if area.Dx() <= 0 || area.Dy() <= 0 {
		return nil
	}
	s.SetSize(area.Dx())
	DrawText(scr, area, s.View(area.Dx()))
	return nil
}
