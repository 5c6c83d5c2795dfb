package tui

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"charm.land/bubbles/v2/textarea"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/charmbracelet/x/editor"

	"github.com/mark3labs/stratagem/internal/logger"
	"github.com/mark3labs/stratagem/internal/persona"
	"github.com/mark3labs/stratagem/internal/tui/theme"
	"github.com/mark3labs/stratagem/internal/upload"
)

// personaOwnerPrefix marks upload panel owners that are persona documents.
const personaOwnerPrefix = "persona:"

// formField is one text field of the persona dialog.
type formField struct {
	def   persona.FieldSpec
	input textinput.Model
	area  textarea.Model
}

func (f *formField) value() string {
	if f.def.Multiline {
		return f.area.Value()
	}
	return f.input.Value()
}

func (f *formField) focus() tea.Cmd {
	if f.def.Multiline {
		return f.area.Focus()
	}
	return f.input.Focus()
}

func (f *formField) blur() {
	if f.def.Multiline {
		f.area.Blur()
		return
	}
	f.input.Blur()
}

func (f *formField) setWidth(w int) {
	if f.def.Multiline {
		f.area.SetWidth(w)
		return
	}
	f.input.SetWidth(w)
}

// Focus slots after the text fields.
const (
	slotGoals = iota
	slotMotivations
	slotDocuments
	slotSave
	slotCancel
	slotCount
)

// PersonaDialog creates or edits a persona: text fields, goal and
// motivation checklists, supporting documents, and a diff preview of the
// pending changes.
type PersonaDialog struct {
	visible          bool
	template         persona.Template
	original         persona.Persona
	current          persona.Persona
	fields           []formField
	focus            int // 0..len(fields)-1 are fields, then the slot constants
	goalCursor       int
	motivationCursor int
	showDiff         bool
	errMsg           string
	width            int
	height           int
}

// NewPersonaDialog creates a hidden dialog using tmpl's options.
func NewPersonaDialog(tmpl persona.Template) *PersonaDialog {
	d := &PersonaDialog{template: tmpl}
	for _, def := range persona.FormFields {
		f := formField{def: def}
		if def.Multiline {
			ta := textarea.New()
			ta.Placeholder = def.Placeholder
			ta.ShowLineNumbers = false
			ta.Prompt = ""
			ta.CharLimit = 2000
			ta.SetHeight(3)
			f.area = ta
		} else {
			ti := textinput.New()
			ti.Placeholder = def.Placeholder
			ti.Prompt = ""
			ti.CharLimit = 200
			f.input = ti
		}
		d.fields = append(d.fields, f)
	}
	return d
}

// IsVisible returns whether the dialog is open.
func (d *PersonaDialog) IsVisible() bool {
	return d.visible
}

// IsNew reports whether the dialog is creating a persona.
func (d *PersonaDialog) IsNew() bool {
	return d.original.ID == ""
}

// Persona returns the persona as currently edited.
func (d *PersonaDialog) Persona() persona.Persona {
	d.sync()
	return d.current.Clone()
}

// Owner is the upload owner used for this persona's documents.
func (d *PersonaDialog) Owner() string {
	if d.original.ID == "" {
		return personaOwnerPrefix + "new"
	}
	return personaOwnerPrefix + d.original.ID
}

// Show opens the dialog for p. Focus starts on the name.
func (d *PersonaDialog) Show(p persona.Persona) tea.Cmd {
	d.visible = true
	d.original = p.Clone()
	d.current = p.Clone()
	d.showDiff = false
	d.errMsg = ""
	d.goalCursor = 0
	d.motivationCursor = 0

	for i := range d.fields {
		f := &d.fields[i]
		v, _ := p.Get(f.def.Field)
		if f.def.Multiline {
			f.area.SetValue(v)
		} else {
			f.input.SetValue(v)
		}
		f.blur()
	}
	return d.setFocus(d.fieldIndex(persona.FieldName))
}

// Close hides the dialog and discards edits.
func (d *PersonaDialog) Close() {
	d.visible = false
	for i := range d.fields {
		d.fields[i].blur()
	}
}

// SetDocuments replaces the persona's documents.
func (d *PersonaDialog) SetDocuments(files []upload.File) {
	d.current = persona.WithDocuments(d.current, files)
}

// SetSize updates the dialog's knowledge of the screen size.
func (d *PersonaDialog) SetSize(width, height int) {
	d.width = width
	d.height = height
	inner := d.modalWidth() - 8
	for i := range d.fields {
		d.fields[i].setWidth(inner)
	}
}

func (d *PersonaDialog) fieldIndex(field persona.Field) int {
	for i, f := range d.fields {
		if f.def.Field == field {
			return i
		}
	}
	return 0
}

// slot returns the focused slot constant, or -1 when a text field is focused.
func (d *PersonaDialog) slot() int {
	if d.focus < len(d.fields) {
		return -1
	}
	return d.focus - len(d.fields)
}

func (d *PersonaDialog) setFocus(i int) tea.Cmd {
	total := len(d.fields) + slotCount
	i = ((i % total) + total) % total
	if d.focus < len(d.fields) {
		d.fields[d.focus].blur()
	}
	d.focus = i
	if i < len(d.fields) {
		return d.fields[i].focus()
	}
	return nil
}

// sync copies the text inputs into the edited persona.
func (d *PersonaDialog) sync() {
	for i := range d.fields {
		next, err := persona.WithField(d.current, d.fields[i].def.Field, d.fields[i].value())
		if err != nil {
			logger.Warn("persona dialog: %v", err)
			continue
		}
		d.current = next
	}
}

// Diff returns the unified diff between the persona as opened and as edited.
func (d *PersonaDialog) Diff() (string, error) {
	d.sync()
	return persona.Diff(d.original, d.current)
}

// Save validates and submits the persona.
func (d *PersonaDialog) Save() tea.Cmd {
	d.sync()
	if err := d.current.Validate(); err != nil {
		if errors.Is(err, persona.ErrNameRequired) {
			d.errMsg = "Name is required"
		} else {
			d.errMsg = err.Error()
		}
		return d.setFocus(d.fieldIndex(persona.FieldName))
	}
	saved := d.current.Clone()
	d.Close()
	return func() tea.Msg { return PersonaSavedMsg{Persona: saved} }
}

// Update handles dialog input.
func (d *PersonaDialog) Update(msg tea.Msg) tea.Cmd {
	if !d.visible {
		return nil
	}

	switch msg := msg.(type) {
	case PersonaDescriptionEditedMsg:
		f := &d.fields[d.fieldIndex(persona.FieldDescription)]
		f.area.SetValue(strings.TrimRight(msg.Content, "\n"))
		return nil

	case tea.PasteMsg:
		if d.focus >= len(d.fields) {
			return nil
		}
		f := &d.fields[d.focus]
		var cmd tea.Cmd
		if f.def.Multiline {
			f.area, cmd = f.area.Update(tea.PasteMsg{Content: SanitizePaste(msg.Content)})
		} else {
			f.input, cmd = f.input.Update(tea.PasteMsg{Content: collapseNewlines(SanitizePaste(msg.Content))})
		}
		return cmd

	case tea.KeyPressMsg:
		switch msg.String() {
		case "esc":
			if d.showDiff {
				d.showDiff = false
				return nil
			}
			d.Close()
			return nil
		case "ctrl+s":
			return d.Save()
		case "ctrl+d":
			d.showDiff = !d.showDiff
			return nil
		case "tab":
			return d.setFocus(d.focus + 1)
		case "shift+tab":
			return d.setFocus(d.focus - 1)
		case "ctrl+e":
			if d.focus < len(d.fields) && d.fields[d.focus].def.Multiline {
				return d.openEditor(d.fields[d.focus].def.Field)
			}
			return nil
		}
		if d.showDiff {
			return nil
		}
		return d.handleKey(msg)
	}
	return nil
}

func (d *PersonaDialog) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	key := msg.String()
	switch d.slot() {
	case -1:
		f := &d.fields[d.focus]
		var cmd tea.Cmd
		if f.def.Multiline {
			f.area, cmd = f.area.Update(msg)
		} else {
			if key == "enter" {
				return d.setFocus(d.focus + 1)
			}
			f.input, cmd = f.input.Update(msg)
		}
		return cmd

	case slotGoals:
		options := d.template.GoalOptions(d.current)
		d.goalCursor = moveCursor(d.goalCursor, len(options), key)
		if (key == "space" || key == "enter") && d.goalCursor < len(options) {
			d.current = persona.ToggleGoal(d.current, options[d.goalCursor])
		}

	case slotMotivations:
		options := d.template.MotivationOptions(d.current)
		d.motivationCursor = moveCursor(d.motivationCursor, len(options), key)
		if (key == "space" || key == "enter") && d.motivationCursor < len(options) {
			d.current = persona.ToggleMotivation(d.current, options[d.motivationCursor])
		}

	case slotDocuments:
		if key == "enter" || key == "space" {
			owner := d.Owner()
			docs := slices.Clone(d.current.Documents)
			return func() tea.Msg { return OpenUploadMsg{Owner: owner, Existing: docs} }
		}

	case slotSave:
		if key == "enter" || key == "space" {
			return d.Save()
		}

	case slotCancel:
		if key == "enter" || key == "space" {
			d.Close()
		}
	}
	return nil
}

func moveCursor(cursor, n int, key string) int {
	switch key {
	case "up", "k":
		if cursor > 0 {
			cursor--
		}
	case "down", "j":
		if cursor < n-1 {
			cursor++
		}
	}
	return cursor
}

// openEditor edits a long-form field in $EDITOR.
func (d *PersonaDialog) openEditor(field persona.Field) tea.Cmd {
	d.sync()
	value, _ := d.current.Get(field)

	tmpfile, err := os.CreateTemp("", "stratagem_persona_*.md")
	if err != nil {
		logger.Warn("failed to create temp file for editor: %v", err)
		return nil
	}
	if _, err := tmpfile.WriteString(value); err != nil {
		_ = tmpfile.Close()
		_ = os.Remove(tmpfile.Name())
		return nil
	}
	_ = tmpfile.Close()

	cmd, err := editor.Command("stratagem", tmpfile.Name())
	if err != nil {
		_ = os.Remove(tmpfile.Name())
		return func() tea.Msg { return ShowToastMsg{Text: "No editor available: " + err.Error(), Error: true} }
	}

	path := tmpfile.Name()
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		defer func() { _ = os.Remove(path) }()
		if err != nil {
			return ShowToastMsg{Text: "Editor failed: " + err.Error(), Error: true}
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		if field != persona.FieldDescription {
			return nil
		}
		return PersonaDescriptionEditedMsg{Content: string(data)}
	})
}

func (d *PersonaDialog) modalWidth() int {
	return min(max(d.width-8, 50), 96)
}

// View renders the dialog body.
func (d *PersonaDialog) View() string {
	st := theme.Current().S()

	title := "Edit Persona"
	if d.IsNew() {
		title = "Create Persona"
	}
	header := []string{st.ModalTitle.Render(title)}
	if d.errMsg != "" {
		header = append(header, st.Error.Render("✗ "+d.errMsg))
	}
	header = append(header, "")

	footer := []string{"", d.hints()}

	var body []string
	if d.showDiff {
		body = d.renderDiff()
	} else {
		body = d.renderForm()
	}

	// Keep the body within the screen
	maxBody := max(d.height-len(header)-len(footer)-6, 5)
	if len(body) > maxBody {
		start := min(max(d.focusLine()-maxBody/2, 0), len(body)-maxBody)
		if d.showDiff {
			start = 0
		}
		body = body[start : start+maxBody]
	}

	lines := append(header, body...)
	lines = append(lines, footer...)
	return strings.Join(lines, "\n")
}

// renderForm renders every item and records where the focused one starts.
func (d *PersonaDialog) renderForm() []string {
	st := theme.Current().S()
	var lines []string

	label := func(text string, focused bool) string {
		if focused {
			return st.PanelTitleFocused.Render("▸ " + text)
		}
		return st.PanelTitle.Render("  " + text)
	}

	for i := range d.fields {
		f := &d.fields[i]
		lines = append(lines, label(f.def.Label, d.focus == i))
		var view string
		if f.def.Multiline {
			view = f.area.View()
		} else {
			view = f.input.View()
		}
		for _, l := range strings.Split(view, "\n") {
			lines = append(lines, "    "+l)
		}
	}

	lines = append(lines, "")
	lines = append(lines, label("Goals", d.slot() == slotGoals))
	lines = append(lines, d.renderChecklist(d.template.GoalOptions(d.current), d.current.Goals, d.goalCursor, d.slot() == slotGoals)...)

	lines = append(lines, label("Motivations", d.slot() == slotMotivations))
	lines = append(lines, d.renderChecklist(d.template.MotivationOptions(d.current), d.current.Motivations, d.motivationCursor, d.slot() == slotMotivations)...)

	lines = append(lines, label(fmt.Sprintf("Documents (%d)", len(d.current.Documents)), d.slot() == slotDocuments))
	for _, doc := range d.current.Documents {
		lines = append(lines, "    📄 "+doc.Name+"  "+st.Muted.Render(upload.HumanSize(doc.Size)))
	}
	lines = append(lines, "    "+st.Dim.Render("enter to upload PDF, XLSX, or WORD files"))

	save := Button{Label: "Save", Primary: true}
	cancel := Button{Label: "Cancel"}
	if d.slot() == slotSave {
		save.State = ButtonFocused
	}
	if d.slot() == slotCancel {
		cancel.State = ButtonFocused
	}
	lines = append(lines, "", lipgloss.NewStyle().Width(d.modalWidth()-6).Align(lipgloss.Right).Render(RenderButtons([]Button{cancel, save})))
	return lines
}

func (d *PersonaDialog) renderChecklist(options, selected []string, cursor int, focused bool) []string {
	st := theme.Current().S()
	out := make([]string, 0, len(options))
	for i, opt := range options {
		box := "[ ]"
		if slices.Contains(selected, opt) {
			box = st.Check.Render("[✓]")
		}
		line := box + " " + opt
		if focused && i == cursor {
			out = append(out, "  "+st.ItemSelected.Render("▸ "+line))
		} else {
			out = append(out, "    "+line)
		}
	}
	return out
}

// focusLine returns the form line where the focused item's label sits.
func (d *PersonaDialog) focusLine() int {
	line := 0
	for i := range d.fields {
		if i == d.focus {
			return line
		}
		line++
		if d.fields[i].def.Multiline {
			line += d.fields[i].area.Height()
		} else {
			line++
		}
	}
	line++ // blank before checklists
	switch d.slot() {
	case slotGoals:
		return line
	case slotMotivations:
		return line + 1 + len(d.template.GoalOptions(d.current))
	default:
		return line + 2 + len(d.template.GoalOptions(d.current)) + len(d.template.MotivationOptions(d.current))
	}
}

func (d *PersonaDialog) renderDiff() []string {
	st := theme.Current().S()
	diff, err := d.Diff()
	switch {
	case err != nil:
		return []string{st.Error.Render(err.Error())}
	case diff == "":
		return []string{st.Muted.Italic(true).Render("No changes")}
	}
	return strings.Split(syntaxHighlight(diff, "diff"), "\n")
}

func (d *PersonaDialog) hints() string {
	if d.showDiff {
		return RenderHintBar(KeyCtrlD, "hide changes", KeyCtrlS, "save", KeyEsc, "back")
	}
	pairs := []string{KeyTab, "next field", KeyCtrlS, "save", KeyCtrlD, "changes"}
	if d.focus < len(d.fields) && d.fields[d.focus].def.Multiline {
		pairs = append(pairs, KeyCtrlE, "$EDITOR")
	}
	switch d.slot() {
	case slotGoals, slotMotivations:
		pairs = append(pairs, KeySpace, "toggle")
	case slotDocuments:
		pairs = append(pairs, KeyEnter, "upload")
	}
	pairs = append(pairs, KeyEsc, "cancel")
	return RenderHintBar(pairs...)
}

// Draw renders the dialog centered in area.
func (d *PersonaDialog) Draw(scr uv.Screen, area uv.Rectangle) {
	if !d.visible {
		return
	}
	if area.Dx() != d.width || area.Dy() != d.height {
		d.SetSize(area.Dx(), area.Dy())
	}
	box := theme.Current().S().ModalContainer.Width(d.modalWidth()).Render(d.View())
	DrawCentered(scr, area, box)
}
