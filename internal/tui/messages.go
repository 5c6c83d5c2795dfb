package tui

import (
	"github.com/mark3labs/stratagem/internal/navigation"
	"github.com/mark3labs/stratagem/internal/persona"
	"github.com/mark3labs/stratagem/internal/upload"
)

// JumpToSectionMsg is sent when a sidebar sub-item is chosen.
type JumpToSectionMsg struct {
	Key navigation.SectionKey
}

// NavigateMsg is sent by the button bar. Forward means Next.
type NavigateMsg struct {
	Forward bool
}

// OpenUploadMsg opens the upload panel for owner with its current files.
// Paths, when set, are submitted as a dropped batch right away.
type OpenUploadMsg struct {
	Owner    string
	Existing []upload.File
	Paths    []string
}

// UploadAcceptedMsg reports a batch that passed validation.
type UploadAcceptedMsg struct {
	Owner string
	Added []upload.File
	Files []upload.File
}

// UploadRemovedMsg reports a file removed from owner's list.
type UploadRemovedMsg struct {
	Owner string
	Index int
	Name  string
	Files []upload.File
}

// OpenAudienceMsg opens the audience dropdown.
type OpenAudienceMsg struct{}

// AudienceToggledMsg reports a roster selection change.
type AudienceToggledMsg struct {
	ID       string
	Name     string
	Selected bool
}

// OpenPersonaDialogMsg opens the persona dialog. A persona with an empty ID
// is a new one.
type OpenPersonaDialogMsg struct {
	Persona persona.Persona
}

// PersonaSavedMsg is sent when the persona dialog is submitted.
type PersonaSavedMsg struct {
	Persona persona.Persona
}

// PersonaDescriptionEditedMsg carries the description back from $EDITOR.
type PersonaDescriptionEditedMsg struct {
	Content string
}

// ImportBriefMsg is sent by the section header action.
type ImportBriefMsg struct{}
