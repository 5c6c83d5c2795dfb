package tui

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/mark3labs/stratagem/internal/content"
	"github.com/mark3labs/stratagem/internal/persona"
	"github.com/mark3labs/stratagem/internal/tui/theme"
	"github.com/mark3labs/stratagem/internal/upload"
)

// ActionImportBrief is the header action of the first section.
const ActionImportBrief = "Import Brief"

// SectionView is the main panel: title, description, header actions and the
// section body rendered as markdown in a scrollable viewport.
type SectionView struct {
	descriptor content.Descriptor
	files      []upload.File
	roster     persona.Roster
	rules      upload.Rules
	viewport   viewport.Model
	focused    bool
	width      int
	height     int
	rendered   string // Cache key of the last render
}

// NewSectionView creates an empty section panel.
func NewSectionView(rules upload.Rules) *SectionView {
	return &SectionView{
		viewport: viewport.New(),
		rules:    rules,
	}
}

// SetSection switches to descriptor d and scrolls to the top.
func (v *SectionView) SetSection(d content.Descriptor) {
	changed := d.Key != v.descriptor.Key
	v.descriptor = d
	v.refresh()
	if changed {
		v.viewport.GotoTop()
	}
}

// Descriptor returns the section on display.
func (v *SectionView) Descriptor() content.Descriptor {
	return v.descriptor
}

// SetFiles updates the uploaded files shown by the upload widget.
func (v *SectionView) SetFiles(files []upload.File) {
	v.files = files
	v.refresh()
}

// SetRoster updates the roster shown by the audience widget.
func (v *SectionView) SetRoster(r persona.Roster) {
	v.roster = r
	v.refresh()
}

// SetFocused sets keyboard focus.
func (v *SectionView) SetFocused(focused bool) {
	v.focused = focused
}

// IsFocused reports keyboard focus.
func (v *SectionView) IsFocused() bool {
	return v.focused
}

// SetSize updates the panel dimensions.
func (v *SectionView) SetSize(width, height int) {
	if width == v.width && height == v.height {
		return
	}
	v.width = width
	v.height = height
	v.viewport.SetWidth(width)
	v.viewport.SetHeight(max(height-v.headerHeight(), 1))
	v.refresh()
}

// Update handles scrolling and header actions while focused.
func (v *SectionView) Update(msg tea.Msg) tea.Cmd {
	if keyMsg, ok := msg.(tea.KeyPressMsg); ok {
		if !v.focused {
			return nil
		}
		switch keyMsg.String() {
		case "i":
			if v.hasAction(ActionImportBrief) {
				return func() tea.Msg { return ImportBriefMsg{} }
			}
			return nil
		case "u":
			if v.descriptor.HasWidget(content.WidgetUpload) {
				return func() tea.Msg {
					return OpenUploadMsg{Owner: ownerCampaign, Existing: v.files}
				}
			}
			return nil
		case "a":
			if v.descriptor.HasWidget(content.WidgetAudience) {
				return func() tea.Msg { return OpenAudienceMsg{} }
			}
			return nil
		}
	}

	var cmd tea.Cmd
	v.viewport, cmd = v.viewport.Update(msg)
	return cmd
}

func (v *SectionView) hasAction(name string) bool {
	for _, a := range v.descriptor.Actions {
		if a == name {
			return true
		}
	}
	return false
}

// refresh re-renders the body when anything it depends on changed.
func (v *SectionView) refresh() {
	if v.width <= 0 {
		return
	}
	body := v.descriptor.Markdown(v.widgetText)
	key := fmt.Sprintf("%d|%s", v.width, body)
	if key == v.rendered {
		return
	}
	v.rendered = key
	v.viewport.SetContent(content.RenderMarkdown(body, v.width))
}

// widgetText describes the live state of an embedded panel as markdown.
func (v *SectionView) widgetText(w content.Widget) string {
	switch w {
	case content.WidgetUpload:
		var b strings.Builder
		if len(v.files) == 0 {
			b.WriteString("_No files uploaded yet._\n\n")
		}
		for _, f := range v.files {
			fmt.Fprintf(&b, "- 📄 **%s** (%s)\n", f.Name, upload.HumanSize(f.Size))
		}
		if len(v.files) > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "Press `u` or `ctrl+x u` to add files (%s, up to %s each).",
			strings.Join(v.rules.Extensions(), " "), v.rules.LimitLabel())
		return b.String()
	case content.WidgetAudience:
		var b strings.Builder
		fmt.Fprintf(&b, "**%s**\n\n", v.roster.Summary())
		for _, p := range v.roster.Selected() {
			fmt.Fprintf(&b, "- %s _(%s)_\n", p.Name, p.Category)
		}
		if v.roster.SelectedCount() > 0 {
			b.WriteString("\n")
		}
		b.WriteString("Press `a` or `ctrl+x a` to choose or create personas.")
		return b.String()
	}
	return ""
}

func (v *SectionView) headerHeight() int {
	// title, description, blank line
	return 3
}

// renderHeader renders the title row with actions and the description.
func (v *SectionView) renderHeader(width int) string {
	st := theme.Current().S()

	title := st.HeaderTitle.Render(v.descriptor.Title)
	var actions []string
	for _, a := range v.descriptor.Actions {
		label := a
		if a == ActionImportBrief {
			label = "⤓ " + a
		}
		actions = append(actions, st.ButtonNormal.Render(label))
	}
	actionText := strings.Join(actions, "")
	if actionText != "" && v.focused {
		actionText = RenderHint(KeyI, "") + actionText
	}

	gap := max(width-lipgloss.Width(title)-lipgloss.Width(actionText), 1)
	titleRow := title + strings.Repeat(" ", gap) + actionText

	desc := st.Dim.Render(truncate(v.descriptor.Description, width))
	return titleRow + "\n" + desc
}

// Draw renders the panel into area.
func (v *SectionView) Draw(scr uv.Screen, area uv.Rectangle) {
	if area.Dx() <= 0 || area.Dy() <= 0 {
		return
	}
	v.SetSize(area.Dx(), area.Dy())

	header := v.renderHeader(area.Dx())
	DrawText(scr, uv.Rect(area.Min.X, area.Min.Y, area.Dx(), 2), header)

	body := uv.Rect(area.Min.X, area.Min.Y+v.headerHeight(), area.Dx(), max(area.Dy()-v.headerHeight(), 0))
	DrawText(scr, body, v.viewport.View())
}
