package tui

import (
	"fmt"
	"math"
	"strings"

	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/mark3labs/stratagem/internal/content"
	"github.com/mark3labs/stratagem/internal/navigation"
	"github.com/mark3labs/stratagem/internal/tui/theme"
)

// Sidebar shows the four steps with a progress track, the sub-items of the
// current step, summary cards for completed steps and the smart tip.
type Sidebar struct {
	tracker    *navigation.Tracker
	catalog    *content.Catalog
	state      navigation.State
	cursor     int // Index of the highlighted sub-item within the current step
	focused    bool
	tipVisible bool
	viewport   viewport.Model
	width      int
	height     int
}

// NewSidebar creates a sidebar positioned at the start of the wizard.
func NewSidebar(tracker *navigation.Tracker, catalog *content.Catalog) *Sidebar {
	s := &Sidebar{
		tracker:    tracker,
		catalog:    catalog,
		tipVisible: true,
		viewport:   viewport.New(),
	}
	s.SetState(tracker.Start())
	return s
}

// SetState updates the wizard position. The cursor follows the active section.
func (s *Sidebar) SetState(st navigation.State) {
	s.state = st
	s.cursor = 0
	for i, sec := range s.currentSections() {
		if sec.Key == st.Active {
			s.cursor = i
		}
	}
	s.updateContent()
}

// SetTipVisible shows or hides the smart tip card.
func (s *Sidebar) SetTipVisible(visible bool) {
	s.tipVisible = visible
	s.updateContent()
}

// SetFocused sets keyboard focus.
func (s *Sidebar) SetFocused(focused bool) {
	s.focused = focused
	s.updateContent()
}

// IsFocused reports keyboard focus.
func (s *Sidebar) IsFocused() bool {
	return s.focused
}

// SetSize updates the sidebar dimensions.
func (s *Sidebar) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.viewport.SetWidth(width)
	s.viewport.SetHeight(max(height-1, 0)) // header row
	s.updateContent()
}

// Cursor returns the highlighted sub-item index.
func (s *Sidebar) Cursor() int {
	return s.cursor
}

// Update handles sub-item navigation while focused.
func (s *Sidebar) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyPressMsg)
	if !ok || !s.focused {
		return nil
	}

	sections := s.currentSections()
	switch keyMsg.String() {
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
			s.updateContent()
		}
		return nil
	case "down", "j":
		if s.cursor < len(sections)-1 {
			s.cursor++
			s.updateContent()
		}
		return nil
	case "enter":
		if s.cursor < len(sections) {
			key := sections[s.cursor].Key
			return func() tea.Msg { return JumpToSectionMsg{Key: key} }
		}
		return nil
	}

	var cmd tea.Cmd
	s.viewport, cmd = s.viewport.Update(msg)
	return cmd
}

// currentSections returns the sub-items of the step holding the active section.
func (s *Sidebar) currentSections() []navigation.Section {
	step, ok := s.tracker.Layout().Step(s.tracker.StepOrDefault(s.state.Active))
	if !ok {
		return nil
	}
	return step.Sections
}

func (s *Sidebar) updateContent() {
	if s.width <= 0 {
		return
	}
	s.viewport.SetContent(s.Render(s.width))
}

// Render returns the sidebar body at width.
func (s *Sidebar) Render(width int) string {
	const trackWidth = 2
	inner := max(width-trackWidth, 10)

	lines := s.renderSteps(inner)
	lines = s.applyTrack(lines)

	var b strings.Builder
	b.WriteString(strings.Join(lines, "\n"))

	if tip := s.catalog.SmartTip(); s.tipVisible && tip != "" {
		b.WriteString("\n\n")
		b.WriteString(renderSmartTip(tip, width))
	}
	return b.String()
}

// renderSteps renders each step block without the progress track.
func (s *Sidebar) renderSteps(width int) []string {
	st := theme.Current().S()
	layout := s.tracker.Layout()

	var lines []string
	for i, step := range layout.Steps() {
		if i > 0 {
			lines = append(lines, "")
		}
		status := s.tracker.StepStatus(s.state, step.ID)

		icon := st.Muted.Render("○")
		switch {
		case status.Completed:
			icon = st.Check.Render("✓")
		case status.Current:
			icon = st.HeaderTitle.Render("●")
		}
		lines = append(lines,
			icon+" "+st.Dim.Render(fmt.Sprintf("Step %d", step.ID)),
			"  "+st.Bold.Render(step.Title),
		)

		switch {
		case status.Current:
			lines = append(lines, wrapLines(step.Description, width-2, st.Dim, "  ")...)
			lines = append(lines, "")
			for j, sec := range step.Sections {
				lines = append(lines, s.renderSubItem(j, sec, width))
			}
		case status.Completed:
			if p, ok := s.catalog.StepPreview(step.ID); ok {
				card := renderPreview(p, width-2)
				for _, l := range strings.Split(card, "\n") {
					lines = append(lines, "  "+l)
				}
			}
		default:
			lines = append(lines, wrapLines(step.Description, width-2, st.Dim, "  ")...)
		}
	}
	return lines
}

func (s *Sidebar) renderSubItem(i int, sec navigation.Section, width int) string {
	st := theme.Current().S()

	marker := "  "
	if s.focused && i == s.cursor {
		marker = st.HeaderTitle.Render("▸ ")
	}
	check := ""
	if s.tracker.IsCompleted(s.state, sec.Key) {
		check = " " + st.Check.Render("✓")
	}

	label := truncate(sec.Label, width-8)
	if sec.Key == s.state.Active {
		label = st.ItemSelected.Render(" " + label + " ")
	} else {
		label = st.ItemNormal.Render(" " + label + " ")
	}
	return "  " + marker + label + check
}

// applyTrack prefixes lines with the vertical progress track. The filled
// share of the track matches the completion percentage.
func (s *Sidebar) applyTrack(lines []string) []string {
	st := theme.Current().S()
	th := theme.Current()

	progress := s.tracker.Progress(s.state)
	filled := int(math.Round(progress / 100 * float64(len(lines))))
	colors := theme.Gradient(th.Primary, th.Tertiary, filled)

	out := make([]string, len(lines))
	for i, l := range lines {
		if i < filled {
			out[i] = lipgloss.NewStyle().Foreground(lipgloss.Color(colors[i])).Render("┃") + " " + l
		} else {
			out[i] = st.TrackEmpty.Render("│") + " " + l
		}
	}
	return out
}

// renderPreview renders a completed step's summary card.
func renderPreview(p content.Preview, width int) string {
	st := theme.Current().S()
	inner := max(width-4, 8) // border + padding

	var parts []string
	if p.Heading != "" {
		parts = append(parts, st.Badge.Render(p.Heading))
	}
	if p.Title != "" {
		parts = append(parts, st.Bold.Render(truncate(p.Title, inner)))
	}
	for _, f := range p.Fields {
		parts = append(parts, st.Muted.Render(f.Label))
		parts = append(parts, wrapLines(f.Value, inner, st.Text, "")...)
	}
	if p.Summary != "" {
		parts = append(parts, wrapLines(p.Summary, inner, st.Dim, "")...)
	}
	if p.Action != "" {
		parts = append(parts, lipgloss.NewStyle().Width(inner).Align(lipgloss.Right).Render(st.HeaderTitle.Render(p.Action)))
	}
	return st.Card.Width(width).Render(strings.Join(parts, "\n"))
}

// renderSmartTip renders the dismissable tip card.
func renderSmartTip(tip string, width int) string {
	st := theme.Current().S()
	inner := max(width-4, 8)
	body := strings.Join([]string{
		st.Warning.Bold(true).Render("💡 Smart Tip"),
		strings.Join(wrapLines(tip, inner, st.Text, ""), "\n"),
		RenderHint(KeyCtrlXT, "dismiss"),
	}, "\n")
	return st.Card.Width(width).Render(body)
}

// wrapLines word-wraps text to width and returns styled, prefixed lines.
func wrapLines(text string, width int, style lipgloss.Style, prefix string) []string {
	if text == "" {
		return nil
	}
	wrapped := lipgloss.NewStyle().Width(max(width, 1)).Render(text)
	lines := strings.Split(wrapped, "\n")
	for i, l := range lines {
		lines[i] = prefix + style.Render(strings.TrimRight(l, " "))
	}
	return lines
}

// Draw renders the sidebar into area.
func (s *Sidebar) Draw(scr uv.Screen, area uv.Rectangle) {
	if area.Dx() <= 0 || area.Dy() <= 0 {
		return
	}
	if area.Dx() != s.width || area.Dy() != s.height {
		s.SetSize(area.Dx(), area.Dy())
	}

	title := s.catalog.Campaign()
	if title == "" {
		title = "Campaign"
	}
	inner := DrawPanel(scr, area, truncate(title, area.Dx()-4), s.focused)
	DrawText(scr, inner, s.viewport.View())
}
