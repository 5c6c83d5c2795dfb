package tui

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/mark3labs/stratagem/internal/content"
	"github.com/mark3labs/stratagem/internal/hooks"
	"github.com/mark3labs/stratagem/internal/logger"
	"github.com/mark3labs/stratagem/internal/navigation"
	"github.com/mark3labs/stratagem/internal/persona"
	"github.com/mark3labs/stratagem/internal/session"
	"github.com/mark3labs/stratagem/internal/state"
	"github.com/mark3labs/stratagem/internal/tui/theme"
	"github.com/mark3labs/stratagem/internal/upload"
)

// FocusPane identifies which main-screen component receives keys.
type FocusPane int

const (
	FocusContent FocusPane = iota
	FocusButtons
	FocusSidebar
)

// Options configures a new App.
type Options struct {
	Layout   *navigation.Layout
	Catalog  *content.Catalog
	Rules    upload.Rules
	Template persona.Template
	Store    *session.Store // Optional; nil disables the journal
	Campaign string
	DataDir  string
	Hooks    *hooks.Config // Optional; nil runs no hooks
	WorkDir  string        // Working directory for hook commands
}

// hookDoneMsg carries the piped output of a hook run.
type hookDoneMsg struct {
	event  hooks.Event
	output string
	err    error
}

// App is the main Bubbletea model: sidebar, section panel, Back/Next row and
// status bar, with the upload panel, persona dialog and audience dropdown as
// overlays.
type App struct {
	ctx      context.Context
	journal  *journalWriter
	campaign string
	dataDir  string
	hooks    *hooks.Config
	workDir  string

	tracker *navigation.Tracker
	catalog *content.Catalog
	nav     navigation.State
	files   []upload.File
	roster  persona.Roster
	uiState *state.UIState

	sidebar       *Sidebar
	section       *SectionView
	buttons       *ButtonBar
	status        *StatusBar
	toast         *Toast
	uploadPanel   *UploadPanel
	personaDialog *PersonaDialog
	audience      *AudienceDropdown

	focus             FocusPane
	awaitingPrefixKey bool
	layout            Layout
	layoutDirty       bool
	width             int
	height            int
	quitting          bool
}

// NewApp creates the wizard model.
func NewApp(ctx context.Context, opts Options) *App {
	if opts.Layout == nil {
		opts.Layout = navigation.DefaultLayout()
	}
	if opts.Catalog == nil {
		cat, err := content.Default()
		if err != nil {
			logger.Error("failed to load built-in content: %v", err)
		}
		opts.Catalog = cat
	}
	if len(opts.Rules.AllowedTypes) == 0 {
		opts.Rules = upload.DefaultRules()
	}
	if len(opts.Template.Goals) == 0 && len(opts.Template.Motivations) == 0 {
		opts.Template = persona.DefaultTemplate()
	}

	tracker := navigation.NewTracker(opts.Layout)
	roster := opts.Template.NewRoster()
	uiState := state.Load(opts.DataDir)

	a := &App{
		ctx:           ctx,
		campaign:      opts.Campaign,
		dataDir:       opts.DataDir,
		hooks:         opts.Hooks,
		workDir:       opts.WorkDir,
		tracker:       tracker,
		catalog:       opts.Catalog,
		nav:           tracker.Start(),
		roster:        roster,
		uiState:       uiState,
		sidebar:       NewSidebar(tracker, opts.Catalog),
		section:       NewSectionView(opts.Rules),
		buttons:       NewButtonBar(),
		status:        NewStatusBar(opts.Catalog.Campaign()),
		toast:         NewToast(),
		uploadPanel:   NewUploadPanel(opts.Rules),
		personaDialog: NewPersonaDialog(opts.Template),
		audience:      NewAudienceDropdown(roster, opts.Template),
		layoutDirty:   true,
	}
	if opts.Store != nil {
		a.journal = newJournalWriter(ctx, opts.Store)
	}
	a.status.SetJournaled(a.journal != nil)
	a.sidebar.SetTipVisible(!uiState.SmartTip.Dismissed)
	a.section.SetRoster(roster)
	a.applyState(a.nav)
	a.setFocus(FocusContent)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return nil
}

// State returns the current navigation state.
func (a *App) State() navigation.State {
	return a.nav
}

// Files returns the campaign assets.
func (a *App) Files() []upload.File {
	return a.files
}

// Roster returns the persona roster.
func (a *App) Roster() persona.Roster {
	return a.roster
}

// Focus returns the focused pane.
func (a *App) Focus() FocusPane {
	return a.focus
}

// record queues a journal write. Writes are published in call order on a
// single background writer; failures are logged and never block the UI.
func (a *App) record(what string, fn func(ctx context.Context, s *session.Store) error) {
	if a.journal == nil {
		return
	}
	a.journal.enqueue(what, fn)
}

// FlushJournal waits for queued journal writes to be published.
func (a *App) FlushJournal(ctx context.Context) error {
	if a.journal == nil {
		return nil
	}
	return a.journal.flush(ctx)
}

// applyState makes st the current position and refreshes every view of it.
func (a *App) applyState(st navigation.State) {
	a.nav = st
	a.sidebar.SetState(st)
	a.section.SetSection(a.catalog.Section(st.Active))
	a.section.SetFiles(a.files)
	a.buttons.SetEnabled(a.tracker.CanRetreat(st), a.canNext())
	a.status.SetState(a.tracker, st)
}

// canNext is true unless the last section is already completed.
func (a *App) canNext() bool {
	return a.tracker.CanAdvance(a.nav) || !a.tracker.IsCompleted(a.nav, a.nav.Active)
}

// Advance moves to the next section.
func (a *App) Advance() tea.Cmd {
	if !a.canNext() {
		return nil
	}
	from := a.nav.Active
	wasCompleted := a.tracker.IsCompleted(a.nav, from)
	wasDone := a.tracker.Progress(a.nav) >= 100
	next := a.tracker.Advance(a.nav)
	a.applyState(next)
	a.record("advance", func(ctx context.Context, s *session.Store) error {
		return s.RecordAdvance(ctx, a.campaign, from, next.Active)
	})
	var cmds []tea.Cmd
	if from == next.Active {
		cmds = append(cmds, a.toast.Show("Campaign strategy complete"))
	}
	if !wasCompleted {
		cmds = append(cmds, a.runHooks(hooks.EventSectionComplete, from))
	}
	if !wasDone && a.tracker.Progress(next) >= 100 {
		cmds = append(cmds, a.runHooks(hooks.EventWizardComplete, from))
	}
	return tea.Batch(cmds...)
}

// runHooks runs the hooks registered for event in the background.
func (a *App) runHooks(event hooks.Event, section navigation.SectionKey) tea.Cmd {
	list := a.hooks.For(event)
	if len(list) == 0 {
		return nil
	}
	vars := hooks.Variables{
		Campaign: a.campaign,
		Section:  string(section),
		Step:     fmt.Sprint(int(a.tracker.StepOrDefault(section))),
		Progress: fmt.Sprintf("%.0f", a.tracker.Progress(a.nav)),
	}
	ctx, workDir := a.ctx, a.workDir
	return func() tea.Msg {
		out, err := hooks.ExecuteAllPiped(ctx, list, workDir, vars)
		return hookDoneMsg{event: event, output: out, err: err}
	}
}

// Retreat moves to the previous section.
func (a *App) Retreat() tea.Cmd {
	if !a.tracker.CanRetreat(a.nav) {
		return nil
	}
	from := a.nav.Active
	next := a.tracker.Retreat(a.nav)
	a.applyState(next)
	a.record("retreat", func(ctx context.Context, s *session.Store) error {
		return s.RecordRetreat(ctx, a.campaign, from, next.Active)
	})
	return nil
}

// JumpTo makes key the active section.
func (a *App) JumpTo(key navigation.SectionKey) tea.Cmd {
	from := a.nav.Active
	next, err := a.tracker.JumpTo(a.nav, key)
	if err != nil {
		return a.toast.ShowError(err.Error())
	}
	if from == key {
		return nil
	}
	a.applyState(next)
	a.record("jump", func(ctx context.Context, s *session.Store) error {
		return s.RecordJump(ctx, a.campaign, from, key)
	})
	return nil
}

func (a *App) setFocus(f FocusPane) {
	if f == FocusSidebar && !a.sidebarShown() {
		f = FocusContent
	}
	a.focus = f
	a.sidebar.SetFocused(f == FocusSidebar)
	a.section.SetFocused(f == FocusContent)
	a.buttons.SetFocused(f == FocusButtons)
}

func (a *App) cycleFocus() {
	order := []FocusPane{FocusContent, FocusButtons}
	if a.sidebarShown() {
		order = append(order, FocusSidebar)
	}
	for i, f := range order {
		if f == a.focus {
			a.setFocus(order[(i+1)%len(order)])
			return
		}
	}
	a.setFocus(FocusContent)
}

func (a *App) sidebarShown() bool {
	if a.layoutDirty {
		a.relayout()
	}
	return a.layout.Mode == LayoutDesktop
}

func (a *App) anyModalVisible() bool {
	return a.uploadPanel.IsVisible() || a.personaDialog.IsVisible() || a.audience.IsVisible()
}

// Update handles all messages.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.relayout()
		return a, nil

	case tea.KeyPressMsg:
		return a.handleKeyPress(msg)

	case tea.PasteMsg:
		return a.handlePaste(msg)

	case hookDoneMsg:
		if msg.err != nil {
			logger.Warn("%s hooks interrupted: %v", msg.event, msg.err)
			return a, nil
		}
		if line := firstLine(msg.output); line != "" {
			if strings.HasPrefix(line, "[Hook") {
				return a, a.toast.ShowError(line)
			}
			return a, a.toast.Show(line)
		}
		return a, nil

	case ShowToastMsg:
		if msg.Error {
			return a, a.toast.ShowError(msg.Text)
		}
		return a, a.toast.Show(msg.Text)

	case ToastDismissMsg:
		return a, a.toast.Update(msg)

	case JumpToSectionMsg:
		return a, a.JumpTo(msg.Key)

	case NavigateMsg:
		if msg.Forward {
			return a, a.Advance()
		}
		return a, a.Retreat()

	case ImportBriefMsg:
		return a, a.uploadPanel.Show(ownerCampaign, a.files)

	case OpenUploadMsg:
		existing := msg.Existing
		if msg.Owner == ownerCampaign {
			existing = a.files
		}
		cmd := a.uploadPanel.Show(msg.Owner, existing)
		if len(msg.Paths) > 0 {
			return a, tea.Batch(cmd, a.uploadPanel.Submit(msg.Paths))
		}
		return a, cmd

	case filesChosenMsg:
		if a.uploadPanel.IsVisible() {
			return a, a.uploadPanel.Update(msg)
		}
		return a, nil

	case UploadAcceptedMsg:
		return a, a.handleUploadAccepted(msg)

	case UploadRemovedMsg:
		return a, a.handleUploadRemoved(msg)

	case OpenAudienceMsg:
		a.audience.SetRoster(a.roster)
		return a, a.audience.Show()

	case AudienceToggledMsg:
		a.roster = a.audience.Roster()
		a.section.SetRoster(a.roster)
		a.record("audience toggle", func(ctx context.Context, s *session.Store) error {
			return s.RecordAudienceToggle(ctx, a.campaign, msg.ID, msg.Name, msg.Selected)
		})
		return a, nil

	case OpenPersonaDialogMsg:
		a.personaDialog.SetSize(a.width, a.height)
		return a, a.personaDialog.Show(msg.Persona)

	case PersonaDescriptionEditedMsg:
		return a, a.personaDialog.Update(msg)

	case PersonaSavedMsg:
		return a, a.handlePersonaSaved(msg)
	}

	// Cursor blink and other component ticks
	if a.personaDialog.IsVisible() {
		return a, a.personaDialog.Update(msg)
	}
	return a, nil
}

func (a *App) handleUploadAccepted(msg UploadAcceptedMsg) tea.Cmd {
	owner := msg.Owner
	if msg.Owner == ownerCampaign {
		a.files = msg.Files
		a.section.SetFiles(a.files)
	} else if strings.HasPrefix(msg.Owner, personaOwnerPrefix) {
		a.personaDialog.SetDocuments(msg.Files)
		owner = strings.TrimPrefix(msg.Owner, personaOwnerPrefix)
	}

	added := msg.Added
	a.record("upload", func(ctx context.Context, s *session.Store) error {
		return s.RecordUpload(ctx, a.campaign, owner, added)
	})
	return a.toast.Show(fmt.Sprintf("Uploaded %d file(s)", len(msg.Added)))
}

func (a *App) handleUploadRemoved(msg UploadRemovedMsg) tea.Cmd {
	owner := msg.Owner
	if msg.Owner == ownerCampaign {
		a.files = msg.Files
		a.section.SetFiles(a.files)
	} else if strings.HasPrefix(msg.Owner, personaOwnerPrefix) {
		a.personaDialog.SetDocuments(msg.Files)
		owner = strings.TrimPrefix(msg.Owner, personaOwnerPrefix)
	}
	a.record("remove", func(ctx context.Context, s *session.Store) error {
		return s.RecordRemove(ctx, a.campaign, owner, msg.Index, msg.Name)
	})
	return nil
}

func (a *App) handlePersonaSaved(msg PersonaSavedMsg) tea.Cmd {
	roster, saved, err := a.roster.Upsert(msg.Persona)
	if err != nil {
		return a.toast.ShowError(err.Error())
	}
	a.roster = roster
	a.audience.SetRoster(roster)
	a.section.SetRoster(roster)
	a.record("persona", func(ctx context.Context, s *session.Store) error {
		return s.RecordPersonaSaved(ctx, a.campaign, saved)
	})
	return a.toast.Show("Saved " + saved.DisplayName())
}

// handleKeyPress routes keys: global keys, prefix sequences, then the top
// visible overlay, then navigation shortcuts and the focused pane.
func (a *App) handleKeyPress(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	// 0. Global keys
	switch key {
	case "ctrl+c":
		a.quitting = true
		return a, tea.Quit
	case "ctrl+x":
		a.awaitingPrefixKey = true
		a.status.SetPrefixMode(true)
		return a, nil
	}

	// 1. Prefix sequences (ctrl+x followed by another key)
	if a.awaitingPrefixKey {
		a.awaitingPrefixKey = false
		a.status.SetPrefixMode(false)

		switch key {
		case "u":
			if a.uploadPanel.IsVisible() {
				return a, nil
			}
			return a, a.uploadPanel.Show(ownerCampaign, a.files)
		case "a":
			if a.anyModalVisible() {
				return a, nil
			}
			a.audience.SetRoster(a.roster)
			return a, a.audience.Show()
		case "t":
			return a, a.dismissSmartTip()
		case "b":
			return a, a.handleSidebarToggle()
		default:
			return a, nil
		}
	}

	// 2. Overlays in priority order
	if a.uploadPanel.IsVisible() {
		return a, a.uploadPanel.Update(msg)
	}
	if a.personaDialog.IsVisible() {
		return a, a.personaDialog.Update(msg)
	}
	if a.audience.IsVisible() {
		return a, a.audience.Update(msg)
	}

	// 3. Navigation shortcuts
	switch key {
	case "ctrl+n":
		return a, a.Advance()
	case "ctrl+b":
		return a, a.Retreat()
	case "tab":
		a.cycleFocus()
		return a, nil
	}

	// 4. Focused pane
	switch a.focus {
	case FocusSidebar:
		return a, a.sidebar.Update(msg)
	case FocusButtons:
		return a, a.buttons.Update(msg)
	default:
		return a, a.section.Update(msg)
	}
}

// handlePaste forwards pastes to the top overlay. On the main screen a paste
// of file paths opens the upload panel with them.
func (a *App) handlePaste(msg tea.PasteMsg) (tea.Model, tea.Cmd) {
	if a.uploadPanel.IsVisible() {
		return a, a.uploadPanel.Update(msg)
	}
	if a.personaDialog.IsVisible() {
		return a, a.personaDialog.Update(msg)
	}
	if a.audience.IsVisible() {
		return a, a.audience.Update(msg)
	}

	paths := upload.ParseDropped(SanitizePaste(msg.Content))
	if len(paths) == 0 {
		return a, nil
	}
	return a, func() tea.Msg {
		return OpenUploadMsg{Owner: ownerCampaign, Paths: paths}
	}
}

func (a *App) dismissSmartTip() tea.Cmd {
	if a.uiState.SmartTip.Dismissed {
		return nil
	}
	a.uiState.SmartTip.Dismissed = true
	a.sidebar.SetTipVisible(false)
	a.saveUIState()
	return nil
}

func (a *App) handleSidebarToggle() tea.Cmd {
	a.uiState.Sidebar.Visible = !a.uiState.Sidebar.Visible
	a.saveUIState()
	a.layoutDirty = true
	if !a.uiState.Sidebar.Visible && a.focus == FocusSidebar {
		a.setFocus(FocusContent)
	}
	return nil
}

// saveUIState persists the current UI state to disk.
func (a *App) saveUIState() {
	if a.dataDir == "" {
		return
	}
	if err := state.Save(a.dataDir, a.uiState); err != nil {
		logger.Warn("failed to save UI state: %v", err)
	}
}

// View renders the current view.
func (a *App) View() tea.View {
	var view tea.View
	view.AltScreen = true

	if a.quitting || a.width <= 0 || a.height <= 0 {
		view.AltScreen = !a.quitting
		view.Content = lipgloss.NewLayer("")
		return view
	}

	if a.layoutDirty {
		a.relayout()
	}

	canvas := uv.NewScreenBuffer(a.width, a.height)
	view.Cursor = a.Draw(canvas, canvas.Bounds())
	view.Content = lipgloss.NewLayer(canvas.Render())
	view.BackgroundColor = theme.HexToColor(theme.Current().BgCrust)
	return view
}

// relayout recalculates the layout and resizes every component.
func (a *App) relayout() {
	a.layout = CalculateLayout(a.width, a.height, !a.uiState.Sidebar.Visible)
	a.status.SetLayoutMode(a.layout.Mode)
	a.propagateSizes()
	a.layoutDirty = false
}

func (a *App) propagateSizes() {
	a.section.SetSize(a.layout.Main.Dx(), a.layout.Main.Dy())
	if a.layout.Mode == LayoutDesktop {
		a.sidebar.SetSize(a.layout.Sidebar.Dx(), a.layout.Sidebar.Dy())
	} else if a.focus == FocusSidebar {
		a.setFocus(FocusContent)
	}
	a.uploadPanel.SetSize(a.width, a.height)
	a.personaDialog.SetSize(a.width, a.height)
	a.audience.SetSize(a.width, a.height)
}

// Draw renders all components to the screen buffer.
func (a *App) Draw(scr uv.Screen, area uv.Rectangle) *tea.Cursor {
	if a.layout.Mode == LayoutDesktop {
		a.sidebar.Draw(scr, a.layout.Sidebar)
	}
	a.section.Draw(scr, a.layout.Main)
	a.buttons.Draw(scr, a.layout.Buttons)
	cursor := a.status.Draw(scr, a.layout.Status)

	// Overlays, lowest priority first
	if a.audience.IsVisible() {
		a.audience.Draw(scr, area)
	}
	if a.personaDialog.IsVisible() {
		a.personaDialog.Draw(scr, area)
	}
	if a.uploadPanel.IsVisible() {
		a.uploadPanel.Draw(scr, area)
	}

	// Toast last so it sits above everything, bottom-right above the status bar
	if a.toast.IsVisible() {
		toastContent := a.toast.View(area.Dx())
		if toastContent != "" {
			w := lipgloss.Width(toastContent)
			h := lipgloss.Height(toastContent)
			x := max(area.Max.X-w-1, area.Min.X)
			y := max(area.Max.Y-StatusHeight-h, area.Min.Y)
			uv.NewStyledString(toastContent).Draw(scr, uv.Rect(x, y, w, h))
		}
	}
	return cursor
}

// firstLine returns the first non-blank line of s, trimmed.
func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}
