package tui

import (
	"fmt"
	"slices"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/mark3labs/stratagem/internal/logger"
	"github.com/mark3labs/stratagem/internal/session"
	"github.com/mark3labs/stratagem/internal/tui/theme"
	"github.com/mark3labs/stratagem/internal/upload"
)

// ownerCampaign marks the campaign asset list as the upload target.
const ownerCampaign = session.OwnerCampaign

// uploadFocus is the focused zone of the upload panel.
type uploadFocus int

const (
	uploadFocusPicker uploadFocus = iota
	uploadFocusPaths
	uploadFocusFiles
)

// UploadPanel is a modal for adding files to a list (the campaign assets or
// a persona's documents). Batches are all-or-nothing: a single bad file
// rejects the whole batch and the error is shown under the list.
type UploadPanel struct {
	visible bool
	owner   string
	rules   upload.Rules
	files   []upload.File
	picker  *FilePicker
	input   textinput.Model
	focus   uploadFocus
	cursor  int // Index into files when the list is focused
	errMsg  string
	width   int
	height  int
}

// NewUploadPanel creates a hidden upload panel enforcing rules.
func NewUploadPanel(rules upload.Rules) *UploadPanel {
	ti := textinput.New()
	ti.Placeholder = "Paste or drop file paths here"
	ti.Prompt = "› "
	ti.CharLimit = 4096

	return &UploadPanel{
		rules: rules,
		input: ti,
	}
}

// IsVisible returns whether the panel is open.
func (p *UploadPanel) IsVisible() bool {
	return p.visible
}

// Owner returns the list being edited.
func (p *UploadPanel) Owner() string {
	return p.owner
}

// Files returns the current list.
func (p *UploadPanel) Files() []upload.File {
	return slices.Clone(p.files)
}

// Error returns the last rejection message.
func (p *UploadPanel) Error() string {
	return p.errMsg
}

// Show opens the panel for owner's existing files.
func (p *UploadPanel) Show(owner string, existing []upload.File) tea.Cmd {
	p.visible = true
	p.owner = owner
	p.files = slices.Clone(existing)
	p.errMsg = ""
	p.cursor = 0
	p.input.SetValue("")
	if p.picker == nil {
		p.picker = NewFilePicker("", p.rules.Extensions())
	}
	p.focus = uploadFocusPicker
	p.input.Blur()
	return nil
}

// Close hides the panel.
func (p *UploadPanel) Close() {
	p.visible = false
	p.input.Blur()
	p.input.SetValue("")
	p.errMsg = ""
}

// SetSize updates the panel's knowledge of the screen size.
func (p *UploadPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
	if p.picker != nil {
		p.picker.SetRows(height/2 - 6)
	}
	p.input.SetWidth(max(p.modalWidth()-10, 10))
}

// Submit validates paths as one batch and appends them on success.
func (p *UploadPanel) Submit(paths []string) tea.Cmd {
	if len(paths) == 0 {
		return nil
	}

	candidates, err := upload.FromPaths(paths)
	if err != nil {
		p.errMsg = err.Error()
		logger.Warn("upload rejected: %v", err)
		return nil
	}

	next, err := upload.ValidateBatch(candidates, p.files, p.rules)
	if err != nil {
		p.errMsg = err.Error()
		logger.Debug("upload batch rejected: %v", err)
		return nil
	}

	added := slices.Clone(next[len(p.files):])
	p.files = next
	p.errMsg = ""
	owner := p.owner
	files := slices.Clone(next)
	return func() tea.Msg {
		return UploadAcceptedMsg{Owner: owner, Added: added, Files: files}
	}
}

// Remove deletes the file at index.
func (p *UploadPanel) Remove(index int) tea.Cmd {
	name := ""
	if index >= 0 && index < len(p.files) {
		name = p.files[index].Name
	}
	next, err := upload.RemoveFile(p.files, index)
	if err != nil {
		p.errMsg = err.Error()
		return nil
	}
	p.files = next
	p.errMsg = ""
	if p.cursor >= len(p.files) {
		p.cursor = max(len(p.files)-1, 0)
	}

	owner := p.owner
	files := slices.Clone(next)
	return func() tea.Msg {
		return UploadRemovedMsg{Owner: owner, Index: index, Name: name, Files: files}
	}
}

// Update handles keys and pastes while the panel is open.
func (p *UploadPanel) Update(msg tea.Msg) tea.Cmd {
	if !p.visible {
		return nil
	}

	switch msg := msg.(type) {
	case filesChosenMsg:
		return p.Submit(msg.Paths)

	case tea.PasteMsg:
		paths := upload.ParseDropped(SanitizePaste(msg.Content))
		if p.focus == uploadFocusPaths && len(paths) == 0 {
			var cmd tea.Cmd
			p.input, cmd = p.input.Update(tea.PasteMsg{Content: collapseNewlines(msg.Content)})
			return cmd
		}
		return p.Submit(paths)

	case tea.KeyPressMsg:
		switch msg.String() {
		case "esc":
			p.Close()
			return nil
		case "tab":
			return p.cycleFocus(1)
		case "shift+tab":
			return p.cycleFocus(-1)
		}

		switch p.focus {
		case uploadFocusPicker:
			return p.picker.Update(msg)
		case uploadFocusPaths:
			if msg.String() == "enter" {
				paths := upload.ParseDropped(p.input.Value())
				cmd := p.Submit(paths)
				if p.errMsg == "" {
					p.input.SetValue("")
				}
				return cmd
			}
			var cmd tea.Cmd
			p.input, cmd = p.input.Update(msg)
			return cmd
		case uploadFocusFiles:
			switch msg.String() {
			case "up", "k":
				if p.cursor > 0 {
					p.cursor--
				}
			case "down", "j":
				if p.cursor < len(p.files)-1 {
					p.cursor++
				}
			case "d", "delete", "backspace", "x":
				if len(p.files) > 0 {
					return p.Remove(p.cursor)
				}
			}
		}
	}
	return nil
}

func (p *UploadPanel) cycleFocus(dir int) tea.Cmd {
	p.focus = uploadFocus((int(p.focus) + dir + 3) % 3)
	if p.focus == uploadFocusPaths {
		return p.input.Focus()
	}
	p.input.Blur()
	return nil
}

func (p *UploadPanel) modalWidth() int {
	return min(max(p.width-8, 40), 90)
}

// View renders the panel body.
func (p *UploadPanel) View() string {
	st := theme.Current().S()
	width := p.modalWidth() - 6 // border + padding

	title := "Upload Files"
	if p.owner != ownerCampaign {
		title = "Persona Documents"
	}

	var sections []string
	sections = append(sections, st.ModalTitle.Render(title))
	sections = append(sections, st.Dim.Render(fmt.Sprintf("%s. %s.", p.rules.TypeMessage(), p.rules.SizeMessage())))
	sections = append(sections, "")

	sections = append(sections, p.zoneTitle("Browse", uploadFocusPicker))
	if p.picker != nil {
		sections = append(sections, p.picker.View(width, p.focus == uploadFocusPicker))
	}
	sections = append(sections, "")

	sections = append(sections, p.zoneTitle("Paste paths", uploadFocusPaths))
	sections = append(sections, p.input.View())
	sections = append(sections, "")

	sections = append(sections, p.zoneTitle(fmt.Sprintf("Uploaded (%d, %s)", len(p.files), upload.HumanSize(upload.TotalSize(p.files))), uploadFocusFiles))
	if len(p.files) == 0 {
		sections = append(sections, st.Muted.Italic(true).Render("Nothing uploaded yet"))
	}
	for i, f := range p.files {
		line := truncate(fmt.Sprintf("📄 %s  %s", f.Name, st.Muted.Render(upload.HumanSize(f.Size))), width-4)
		if p.focus == uploadFocusFiles && i == p.cursor {
			sections = append(sections, st.ItemSelected.Render("▸ "+line))
		} else {
			sections = append(sections, "  "+line)
		}
	}

	if p.errMsg != "" {
		sections = append(sections, "")
		sections = append(sections, st.Error.Width(width).Render("✗ "+p.errMsg))
	}

	sections = append(sections, "")
	sections = append(sections, p.hints())
	return strings.Join(sections, "\n")
}

func (p *UploadPanel) zoneTitle(label string, zone uploadFocus) string {
	s := theme.Current().S()
	if p.focus == zone {
		return s.PanelTitleFocused.Render(label)
	}
	return s.PanelTitle.Render(label)
}

func (p *UploadPanel) hints() string {
	switch p.focus {
	case uploadFocusPicker:
		return RenderHintBar(KeyUpDown, "move", KeySpace, "mark", KeyEnter, "upload", "backspace", "up dir", KeyTab, "next", KeyEsc, "close")
	case uploadFocusPaths:
		return RenderHintBar(KeyEnter, "upload", KeyTab, "next", KeyEsc, "close")
	default:
		return RenderHintBar(KeyUpDown, "move", KeyDelete, "remove", KeyTab, "next", KeyEsc, "close")
	}
}

// Draw renders the panel centered in area.
func (p *UploadPanel) Draw(scr uv.Screen, area uv.Rectangle) {
	if !p.visible {
		return
	}
	if area.Dx() != p.width || area.Dy() != p.height {
		p.SetSize(area.Dx(), area.Dy())
	}
	box := theme.Current().S().ModalContainer.Width(p.modalWidth()).Render(p.View())
	if lipgloss.Height(box) > area.Dy() {
		box = strings.Join(strings.Split(box, "\n")[:area.Dy()], "\n")
	}
	DrawCentered(scr, area, box)
}
