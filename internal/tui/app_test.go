package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/stretchr/testify/require"

	"github.com/mark3labs/stratagem/internal/hooks"
	"github.com/mark3labs/stratagem/internal/nats"
	"github.com/mark3labs/stratagem/internal/navigation"
	"github.com/mark3labs/stratagem/internal/session"
	"github.com/mark3labs/stratagem/internal/state"
	"github.com/mark3labs/stratagem/internal/tui/testfixtures"
)

func newTestApp(t *testing.T) (*App, string) {
	t.Helper()
	dataDir := t.TempDir()
	a := NewApp(context.Background(), Options{Campaign: "test", DataDir: dataDir})
	a.Update(tea.WindowSizeMsg{Width: testfixtures.TestTermWidth, Height: testfixtures.TestTermHeight})
	return a, dataDir
}

// pump feeds msg to the app along with every message its commands produce.
func pump(a *App, msg tea.Msg) {
	queue := []tea.Msg{msg}
	for i := 0; len(queue) > 0 && i < 50; i++ {
		m := queue[0]
		queue = queue[1:]
		_, cmd := a.Update(m)
		queue = append(queue, drain(cmd)...)
	}
}

func TestApp_InitialState(t *testing.T) {
	t.Parallel()
	a, _ := newTestApp(t)

	require.Equal(t, navigation.CampaignBasics, a.State().Active)
	require.Equal(t, 0, a.State().Completed.Len())
	require.Equal(t, FocusContent, a.Focus())
	require.Nil(t, a.Init())
}

func TestApp_AdvanceRetreat(t *testing.T) {
	t.Parallel()
	a, _ := newTestApp(t)

	pump(a, key("ctrl+b"))
	require.Equal(t, navigation.CampaignBasics, a.State().Active, "back on the first section is a no-op")

	pump(a, key("ctrl+n"))
	pump(a, key("ctrl+n"))
	require.Equal(t, navigation.StrategicObjectives, a.State().Active)
	require.True(t, a.State().Completed.Has(navigation.MarketIntelligence))

	pump(a, key("ctrl+b"))
	require.Equal(t, navigation.MarketIntelligence, a.State().Active)
	require.True(t, a.State().Completed.Has(navigation.MarketIntelligence), "retreat keeps completion")
}

func TestApp_ButtonsNavigate(t *testing.T) {
	t.Parallel()
	a, _ := newTestApp(t)

	pump(a, key("tab"))
	require.Equal(t, FocusButtons, a.Focus())
	pump(a, key("enter"))
	require.Equal(t, navigation.MarketIntelligence, a.State().Active)
}

func TestApp_FinalSection(t *testing.T) {
	t.Parallel()
	a, _ := newTestApp(t)

	pump(a, JumpToSectionMsg{Key: navigation.TimelineManagement})
	require.Equal(t, navigation.TimelineManagement, a.State().Active)

	pump(a, key("ctrl+n"))
	require.Equal(t, navigation.TimelineManagement, a.State().Active)
	require.True(t, a.State().Completed.Has(navigation.TimelineManagement))
	require.Equal(t, "Campaign strategy complete", a.toast.GetMessage())

	before := a.State().Completed.Len()
	pump(a, key("ctrl+n"))
	require.Equal(t, before, a.State().Completed.Len())
}

func TestApp_JumpUnknownSection(t *testing.T) {
	t.Parallel()
	a, _ := newTestApp(t)

	pump(a, JumpToSectionMsg{Key: "nope"})
	require.Equal(t, navigation.CampaignBasics, a.State().Active)
	require.True(t, a.toast.IsError())
	require.Contains(t, a.toast.GetMessage(), "nope")
}

func TestApp_SidebarJump(t *testing.T) {
	t.Parallel()
	a, _ := newTestApp(t)

	pump(a, key("tab"))
	pump(a, key("tab"))
	require.Equal(t, FocusSidebar, a.Focus())

	pump(a, key("down"))
	pump(a, key("down"))
	pump(a, key("enter"))
	require.Equal(t, navigation.StrategicObjectives, a.State().Active)
	require.Equal(t, 0, a.State().Completed.Len(), "jumping completes nothing")
}

func TestApp_SidebarToggleIsPersisted(t *testing.T) {
	t.Parallel()
	a, dataDir := newTestApp(t)

	pump(a, key("ctrl+x"))
	require.True(t, a.awaitingPrefixKey)
	pump(a, key("b"))
	require.False(t, a.awaitingPrefixKey)

	require.False(t, state.Load(dataDir).Sidebar.Visible)
	a.View()
	require.True(t, a.layout.IsCompact())

	// Focus cycling skips the hidden sidebar
	pump(a, key("tab"))
	pump(a, key("tab"))
	require.Equal(t, FocusContent, a.Focus())
}

func TestApp_DismissSmartTip(t *testing.T) {
	t.Parallel()
	a, dataDir := newTestApp(t)

	pump(a, key("ctrl+x"))
	pump(a, key("t"))

	require.True(t, state.Load(dataDir).SmartTip.Dismissed)
	require.NotContains(t, a.sidebar.Render(SidebarWidthDesktop), "Smart Tip")

	// Restarting keeps it dismissed
	b := NewApp(context.Background(), Options{DataDir: dataDir})
	require.NotContains(t, b.sidebar.Render(SidebarWidthDesktop), "Smart Tip")
}

func TestApp_UploadFlow(t *testing.T) {
	t.Parallel()
	a, _ := newTestApp(t)
	dir := t.TempDir()
	brief := testfixtures.PDF(t, dir, "brief.pdf", 1024)

	pump(a, key("ctrl+x"))
	pump(a, key("u"))
	require.True(t, a.uploadPanel.IsVisible())

	// Navigation is blocked while the panel is open
	pump(a, key("ctrl+n"))
	require.Equal(t, navigation.CampaignBasics, a.State().Active)

	pump(a, tea.PasteMsg{Content: brief})
	require.Len(t, a.Files(), 1)
	require.Equal(t, "brief.pdf", a.Files()[0].Name)
	require.Equal(t, "Uploaded 1 file(s)", a.toast.GetMessage())

	pump(a, key("esc"))
	require.False(t, a.uploadPanel.IsVisible())
	require.Contains(t, a.section.viewport.GetContent(), "brief.pdf")
}

func TestApp_UploadRejectedKeepsFiles(t *testing.T) {
	t.Parallel()
	a, _ := newTestApp(t)
	dir := t.TempDir()

	pump(a, OpenUploadMsg{Owner: ownerCampaign, Paths: []string{
		testfixtures.PDF(t, dir, "ok.pdf", 10),
		testfixtures.Text(t, dir, "notes.txt"),
	}})

	require.True(t, a.uploadPanel.IsVisible())
	require.Empty(t, a.Files())
	require.Contains(t, a.uploadPanel.Error(), "notes.txt")
}

func TestApp_PasteOnMainScreenOpensUpload(t *testing.T) {
	t.Parallel()
	a, _ := newTestApp(t)
	brief := testfixtures.PDF(t, t.TempDir(), "drop.pdf", 10)

	pump(a, tea.PasteMsg{Content: "'" + brief + "'"})
	require.True(t, a.uploadPanel.IsVisible())
	require.Len(t, a.Files(), 1)
}

func TestApp_ImportBrief(t *testing.T) {
	t.Parallel()
	a, _ := newTestApp(t)

	pump(a, key("i"))
	require.True(t, a.uploadPanel.IsVisible())
	require.Equal(t, ownerCampaign, a.uploadPanel.Owner())
}

func TestApp_AudienceToggle(t *testing.T) {
	t.Parallel()
	a, _ := newTestApp(t)

	pump(a, key("ctrl+x"))
	pump(a, key("a"))
	require.True(t, a.audience.IsVisible())

	pump(a, key("space"))
	require.True(t, a.Roster().IsSelected("1"))
	require.Equal(t, 1, a.Roster().SelectedCount())
}

func TestApp_CreatePersonaWithDocuments(t *testing.T) {
	t.Parallel()
	a, _ := newTestApp(t)
	doc := testfixtures.PDF(t, t.TempDir(), "survey.pdf", 10)

	pump(a, OpenAudienceMsg{})
	pump(a, key("n"))
	require.True(t, a.personaDialog.IsVisible())
	typeText(func(m tea.Msg) tea.Cmd { _, c := a.Update(m); return c }, "Maya")

	// Documents go to the persona, not the campaign
	pump(a, OpenUploadMsg{Owner: a.personaDialog.Owner()})
	pump(a, tea.PasteMsg{Content: doc})
	pump(a, key("esc"))
	require.False(t, a.uploadPanel.IsVisible())
	require.True(t, a.personaDialog.IsVisible())
	require.Empty(t, a.Files())
	require.Len(t, a.personaDialog.Persona().Documents, 1)

	pump(a, key("ctrl+s"))
	require.False(t, a.personaDialog.IsVisible())
	require.Equal(t, 6, a.Roster().Len())

	var found bool
	for _, e := range a.Roster().Entries() {
		if e.Persona.Name == "Maya" {
			found = true
			require.NotEmpty(t, e.Persona.ID)
			require.Equal(t, "maya", e.Persona.Category)
			require.Len(t, e.Persona.Documents, 1)
			require.False(t, e.Selected)
		}
	}
	require.True(t, found)
	require.Equal(t, "Saved Maya", a.toast.GetMessage())
}

func TestApp_ModalPriority(t *testing.T) {
	t.Parallel()
	a, _ := newTestApp(t)

	pump(a, OpenAudienceMsg{})
	pump(a, key("n"))
	pump(a, key("ctrl+x"))
	pump(a, key("u"))
	require.True(t, a.uploadPanel.IsVisible())

	// Keys reach the upload panel first, then the dialog, then the dropdown
	pump(a, key("esc"))
	require.False(t, a.uploadPanel.IsVisible())
	require.True(t, a.personaDialog.IsVisible())
	pump(a, key("esc"))
	require.False(t, a.personaDialog.IsVisible())
	require.True(t, a.audience.IsVisible())
	pump(a, key("esc"))
	require.False(t, a.audience.IsVisible())
}

func TestApp_Render(t *testing.T) {
	t.Parallel()
	a, _ := newTestApp(t)
	a.View()

	out := testfixtures.Render(testfixtures.TestTermWidth, testfixtures.TestTermHeight, func(scr uv.Screen, area uv.Rectangle) {
		a.Draw(scr, area)
	})
	for _, want := range []string{"Campaign Basics", "Step 1", "Back", "Next", "stratagem", "0%"} {
		require.True(t, strings.Contains(out, want), "missing %q in:\n%s", want, out)
	}
}

func TestApp_Quit(t *testing.T) {
	t.Parallel()
	a, _ := newTestApp(t)

	_, cmd := a.Update(key("ctrl+c"))
	require.NotNil(t, cmd)
	require.True(t, a.quitting)
}

func TestApp_SectionCompleteHookToastsOutput(t *testing.T) {
	t.Parallel()
	cfg := &hooks.Config{Hooks: hooks.HooksConfig{
		SectionComplete: []*hooks.HookConfig{{Command: "echo done {{section}}", Timeout: 5, PipeOutput: true}},
	}}
	a := NewApp(context.Background(), Options{Campaign: "test", DataDir: t.TempDir(), Hooks: cfg, WorkDir: t.TempDir()})

	cmd := a.runHooks(hooks.EventSectionComplete, navigation.CampaignBasics)
	require.NotNil(t, cmd)
	a.Update(cmd())

	require.True(t, a.toast.IsVisible())
	require.Equal(t, "done campaign-basics", a.toast.GetMessage())
}

func TestApp_NoHooksConfigured(t *testing.T) {
	t.Parallel()
	a, _ := newTestApp(t)
	require.Nil(t, a.runHooks(hooks.EventWizardComplete, navigation.TimelineManagement))
}

func TestApp_FailedHookShowsError(t *testing.T) {
	t.Parallel()
	a, _ := newTestApp(t)

	a.Update(hookDoneMsg{event: hooks.EventWizardComplete, output: "[Hook command failed: exit status 1]\n"})

	require.True(t, a.toast.IsError())
	require.Contains(t, a.toast.GetMessage(), "Hook command failed")
}

func TestApp_PickerUpload(t *testing.T) {
	t.Parallel()
	a, _ := newTestApp(t)
	dir := t.TempDir()
	testfixtures.PDF(t, dir, "picked.pdf", 1024)

	pump(a, key("ctrl+x"))
	pump(a, key("u"))
	require.True(t, a.uploadPanel.IsVisible())
	require.NoError(t, a.uploadPanel.picker.Load(dir))

	pump(a, key("down")) // past ".."
	pump(a, key("enter"))

	require.Len(t, a.Files(), 1)
	require.Equal(t, "picked.pdf", a.Files()[0].Name)
	require.Equal(t, "Uploaded 1 file(s)", a.toast.GetMessage())
}

func TestApp_PickerSelectionIgnoredWhenPanelClosed(t *testing.T) {
	t.Parallel()
	a, _ := newTestApp(t)
	brief := testfixtures.PDF(t, t.TempDir(), "late.pdf", 10)

	pump(a, filesChosenMsg{Paths: []string{brief}})
	require.Empty(t, a.Files())
	require.False(t, a.uploadPanel.IsVisible())
}

func newJournaledApp(t *testing.T) (*App, *session.Store) {
	t.Helper()
	bus, err := nats.StartBus(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { _ = bus.Close() })
	store := session.NewStore(bus.JS, bus.Stream)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	a := NewApp(ctx, Options{Campaign: "test", DataDir: t.TempDir(), Store: store})
	a.Update(tea.WindowSizeMsg{Width: testfixtures.TestTermWidth, Height: testfixtures.TestTermHeight})
	return a, store
}

func journalState(t *testing.T, a *App, store *session.Store) *session.State {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, a.FlushJournal(ctx))
	st, err := store.LoadState(ctx, "test")
	require.NoError(t, err)
	return st
}

func TestApp_JournalKeepsNavigationOrder(t *testing.T) {
	a, store := newJournaledApp(t)
	require.Nil(t, a.Init())

	// Commands are dropped on purpose: the journal must not depend on them
	_ = a.Advance()
	_ = a.Advance()
	_ = a.Retreat()
	_ = a.Advance()
	_ = a.Advance()
	require.Equal(t, navigation.StrategySelection, a.State().Active)

	st := journalState(t, a, store)
	require.Equal(t, string(a.State().Active), st.Active)
	require.Equal(t, 5, st.Events)
	require.Len(t, st.Completed, 3)
}

func TestApp_JournalKeepsUploadOrder(t *testing.T) {
	a, store := newJournaledApp(t)
	dir := t.TempDir()

	pump(a, OpenUploadMsg{Owner: ownerCampaign, Paths: []string{
		testfixtures.PDF(t, dir, "one.pdf", 10),
		testfixtures.PDF(t, dir, "two.pdf", 10),
	}})
	require.Len(t, a.Files(), 2)

	// Remove the first file; replay applies the removal by index, so it has
	// to land after the upload.
	_, cmd := a.Update(a.uploadPanel.Remove(0)())
	require.Nil(t, cmd)
	require.Len(t, a.Files(), 1)

	st := journalState(t, a, store)
	require.Equal(t, []string{"two.pdf"}, st.Files)
}

func TestApp_JournaledAppKeepsItsPosition(t *testing.T) {
	a, store := newJournaledApp(t)
	_ = a.Advance()

	// Nothing arriving later may move the app back to the start
	pump(a, tea.WindowSizeMsg{Width: 100, Height: 30})
	require.Equal(t, navigation.MarketIntelligence, a.State().Active)

	st := journalState(t, a, store)
	require.Equal(t, string(navigation.MarketIntelligence), st.Active)
}

func TestApp_ResizeWithPersonaDialogOpen(t *testing.T) {
	t.Parallel()
	a, _ := newTestApp(t)

	pump(a, OpenPersonaDialogMsg{})
	require.True(t, a.personaDialog.IsVisible())
	require.NotPanics(t, func() {
		pump(a, tea.WindowSizeMsg{Width: 80, Height: 24})
		pump(a, key("tab"))
		pump(a, tea.WindowSizeMsg{Width: testfixtures.TestTermWidth, Height: testfixtures.TestTermHeight})
	})
	require.True(t, a.personaDialog.IsVisible())
}
