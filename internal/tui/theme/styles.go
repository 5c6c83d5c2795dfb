package theme

import "charm.land/lipgloss/v2"

// Styles contains all pre-built lipgloss styles for the TUI.
type Styles struct {
	HeaderTitle lipgloss.Style
	Subtitle    lipgloss.Style
	Dim         lipgloss.Style
	Muted       lipgloss.Style
	Text        lipgloss.Style
	Bold        lipgloss.Style

	// Panels
	PanelTitle        lipgloss.Style
	PanelTitleFocused lipgloss.Style
	PanelRule         lipgloss.Style
	PanelRuleFocused  lipgloss.Style
	ModalContainer    lipgloss.Style
	ModalTitle        lipgloss.Style
	Card              lipgloss.Style

	// Hints
	HintKey       lipgloss.Style
	HintDesc      lipgloss.Style
	HintSeparator lipgloss.Style

	// Buttons
	ButtonNormal   lipgloss.Style
	ButtonDisabled lipgloss.Style
	ButtonFocused  lipgloss.Style
	ButtonPrimary  lipgloss.Style

	// Lists
	ItemSelected lipgloss.Style
	ItemNormal   lipgloss.Style
	Check        lipgloss.Style
	Badge        lipgloss.Style

	// Status
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Info    lipgloss.Style

	// Progress track
	TrackEmpty lipgloss.Style
	TrackFill  lipgloss.Style

	// Diff
	DiffInsert lipgloss.Style
	DiffDelete lipgloss.Style
	DiffHeader lipgloss.Style
}

// buildStyles constructs the pre-built styles from theme colors.
func (t *Theme) buildStyles() *Styles {
	c := lipgloss.Color
	button := lipgloss.NewStyle().Padding(0, 2).MarginLeft(1).MarginRight(1)

	return &Styles{
		HeaderTitle: lipgloss.NewStyle().Foreground(c(t.Primary)).Bold(true),
		Subtitle:    lipgloss.NewStyle().Foreground(c(t.Secondary)).Bold(true),
		Dim:         lipgloss.NewStyle().Foreground(c(t.FgSubtle)),
		Muted:       lipgloss.NewStyle().Foreground(c(t.FgMuted)),
		Text:        lipgloss.NewStyle().Foreground(c(t.FgBase)),
		Bold:        lipgloss.NewStyle().Foreground(c(t.FgBright)).Bold(true),

		PanelTitle:        lipgloss.NewStyle().Foreground(c(t.FgSubtle)).Bold(true),
		PanelTitleFocused: lipgloss.NewStyle().Foreground(c(t.Primary)).Bold(true),
		PanelRule:         lipgloss.NewStyle().Foreground(c(t.BgSurface1)),
		PanelRuleFocused:  lipgloss.NewStyle().Foreground(c(t.Primary)),
		ModalContainer: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(c(t.Primary)).
			Background(c(t.BgBase)).
			Padding(1, 2),
		ModalTitle: lipgloss.NewStyle().Foreground(c(t.Primary)).Bold(true),
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(c(t.BgSurface2)).
			Padding(0, 1),

		HintKey:       lipgloss.NewStyle().Foreground(c(t.Secondary)).Bold(true),
		HintDesc:      lipgloss.NewStyle().Foreground(c(t.FgMuted)),
		HintSeparator: lipgloss.NewStyle().Foreground(c(t.BgSurface2)),

		ButtonNormal:   button.Foreground(c(t.FgBase)).Background(c(t.BgSurface0)),
		ButtonDisabled: button.Foreground(c(t.BgOverlay)).Background(c(t.BgMantle)),
		ButtonFocused:  button.Foreground(c(t.BgBase)).Background(c(t.Tertiary)).Bold(true),
		ButtonPrimary:  button.Foreground(c(t.BgBase)).Background(c(t.Primary)).Bold(true),

		ItemSelected: lipgloss.NewStyle().Foreground(c(t.Primary)).Background(c(t.BgSurface0)).Bold(true),
		ItemNormal:   lipgloss.NewStyle().Foreground(c(t.FgBase)),
		Check:        lipgloss.NewStyle().Foreground(c(t.Success)).Bold(true),
		Badge:        lipgloss.NewStyle().Foreground(c(t.FgSubtle)).Background(c(t.BgSurface0)).Padding(0, 1),

		Success: lipgloss.NewStyle().Foreground(c(t.Success)),
		Warning: lipgloss.NewStyle().Foreground(c(t.Warning)),
		Error:   lipgloss.NewStyle().Foreground(c(t.Error)),
		Info:    lipgloss.NewStyle().Foreground(c(t.Info)),

		TrackEmpty: lipgloss.NewStyle().Foreground(c(t.BgSurface1)),
		TrackFill:  lipgloss.NewStyle().Foreground(c(t.Primary)),

		DiffInsert: lipgloss.NewStyle().Foreground(c(t.Success)).Background(c(t.DiffInsertBg)),
		DiffDelete: lipgloss.NewStyle().Foreground(c(t.Error)).Background(c(t.DiffDeleteBg)),
		DiffHeader: lipgloss.NewStyle().Foreground(c(t.Info)),
	}
}
