package tui

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/mark3labs/stratagem/internal/persona"
	"github.com/mark3labs/stratagem/internal/tui/theme"
)

// AudienceDropdown lists the persona roster with selection checkboxes. It can
// filter by name and opens the persona dialog to create or edit entries.
type AudienceDropdown struct {
	visible   bool
	roster    persona.Roster
	template  persona.Template
	filter    textinput.Model
	filtering bool
	cursor    int
	width     int
	height    int
}

// NewAudienceDropdown creates a hidden dropdown.
func NewAudienceDropdown(roster persona.Roster, tmpl persona.Template) *AudienceDropdown {
	ti := textinput.New()
	ti.Placeholder = "Filter personas"
	ti.Prompt = "/ "
	ti.CharLimit = 64

	return &AudienceDropdown{
		roster:   roster,
		template: tmpl,
		filter:   ti,
	}
}

// IsVisible returns whether the dropdown is open.
func (d *AudienceDropdown) IsVisible() bool {
	return d.visible
}

// Show opens the dropdown.
func (d *AudienceDropdown) Show() tea.Cmd {
	d.visible = true
	d.cursor = 0
	return nil
}

// Close hides the dropdown and clears the filter.
func (d *AudienceDropdown) Close() {
	d.visible = false
	d.filtering = false
	d.filter.SetValue("")
	d.filter.Blur()
}

// SetRoster replaces the roster shown.
func (d *AudienceDropdown) SetRoster(r persona.Roster) {
	d.roster = r
	if n := len(d.entries()); d.cursor >= n {
		d.cursor = max(n-1, 0)
	}
}

// Roster returns the roster shown.
func (d *AudienceDropdown) Roster() persona.Roster {
	return d.roster
}

// SetSize updates the dropdown's knowledge of the screen size.
func (d *AudienceDropdown) SetSize(width, height int) {
	d.width = width
	d.height = height
	d.filter.SetWidth(max(d.modalWidth()-12, 10))
}

// entries returns the visible roster entries in filter order.
func (d *AudienceDropdown) entries() []persona.Entry {
	return d.roster.Filter(d.filter.Value())
}

// current returns the entry under the cursor.
func (d *AudienceDropdown) current() (persona.Entry, bool) {
	entries := d.entries()
	if d.cursor < 0 || d.cursor >= len(entries) {
		return persona.Entry{}, false
	}
	return entries[d.cursor], true
}

// Toggle flips selection of the entry under the cursor.
func (d *AudienceDropdown) Toggle() tea.Cmd {
	e, ok := d.current()
	if !ok {
		return nil
	}
	next, err := d.roster.Toggle(e.Persona.ID)
	if err != nil {
		return func() tea.Msg { return ShowToastMsg{Text: err.Error(), Error: true} }
	}
	d.roster = next
	msg := AudienceToggledMsg{
		ID:       e.Persona.ID,
		Name:     e.Persona.Name,
		Selected: next.IsSelected(e.Persona.ID),
	}
	return func() tea.Msg { return msg }
}

// Update handles dropdown keys.
func (d *AudienceDropdown) Update(msg tea.Msg) tea.Cmd {
	if !d.visible {
		return nil
	}

	if d.filtering {
		switch msg := msg.(type) {
		case tea.KeyPressMsg:
			switch msg.String() {
			case "esc", "enter", "tab":
				d.filtering = false
				d.filter.Blur()
				return nil
			}
		case tea.PasteMsg:
			msg.Content = collapseNewlines(SanitizePaste(msg.Content))
			var cmd tea.Cmd
			d.filter, cmd = d.filter.Update(msg)
			d.cursor = 0
			return cmd
		}
		var cmd tea.Cmd
		d.filter, cmd = d.filter.Update(msg)
		d.cursor = 0
		return cmd
	}

	keyMsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return nil
	}
	switch keyMsg.String() {
	case "esc":
		d.Close()
	case "up", "k":
		if d.cursor > 0 {
			d.cursor--
		}
	case "down", "j":
		if d.cursor < len(d.entries())-1 {
			d.cursor++
		}
	case "space", "enter":
		return d.Toggle()
	case "/":
		d.filtering = true
		return d.filter.Focus()
	case "n":
		p := d.template.NewPersona()
		return func() tea.Msg { return OpenPersonaDialogMsg{Persona: p} }
	case "e":
		if e, ok := d.current(); ok {
			p := e.Persona.Clone()
			return func() tea.Msg { return OpenPersonaDialogMsg{Persona: p} }
		}
	}
	return nil
}

func (d *AudienceDropdown) modalWidth() int {
	return min(max(d.width-8, 40), 70)
}

// View renders the dropdown body.
func (d *AudienceDropdown) View() string {
	st := theme.Current().S()
	width := d.modalWidth() - 6

	var lines []string
	lines = append(lines, st.ModalTitle.Render("Target Audience"))
	lines = append(lines, st.Dim.Render(d.roster.Summary()))
	lines = append(lines, "")

	if d.filtering || d.filter.Value() != "" {
		lines = append(lines, d.filter.View(), "")
	}

	entries := d.entries()
	if len(entries) == 0 {
		lines = append(lines, st.Muted.Italic(true).Render("No personas match"))
	}
	for i, e := range entries {
		box := "[ ]"
		if e.Selected {
			box = st.Check.Render("[✓]")
		}
		label := e.Persona.DisplayName()
		if e.Persona.Category != "" {
			label += " " + st.Muted.Render(e.Persona.Category)
		}
		line := truncate(fmt.Sprintf("%s %s", box, label), width-2)
		if i == d.cursor && !d.filtering {
			lines = append(lines, st.ItemSelected.Render("▸ "+line))
		} else {
			lines = append(lines, "  "+line)
		}
	}

	lines = append(lines, "")
	if d.filtering {
		lines = append(lines, RenderHintBar(KeyEnter, "done", KeyEsc, "stop filtering"))
	} else {
		lines = append(lines, RenderHintBar(KeySpace, "toggle", "n", "new", "e", "edit", KeySlash, "filter", KeyEsc, "close"))
	}
	return strings.Join(lines, "\n")
}

// Draw renders the dropdown centered in area.
func (d *AudienceDropdown) Draw(scr uv.Screen, area uv.Rectangle) {
	if !d.visible {
		return
	}
	if area.Dx() != d.width || area.Dy() != d.height {
		d.SetSize(area.Dx(), area.Dy())
	}
	box := theme.Current().S().ModalContainer.Width(d.modalWidth()).Render(d.View())
	DrawCentered(scr, area, box)
}
