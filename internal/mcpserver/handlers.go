package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mark3labs/stratagem/internal/navigation"
	"github.com/mark3labs/stratagem/internal/session"
	"github.com/mark3labs/stratagem/internal/upload"
)

func (s *Server) registerTools() {
	s.mcpServer.AddTool(
		mcp.NewTool("wizard-status",
			mcp.WithDescription("Current wizard position, progress, uploaded assets and selected audiences"),
		),
		s.handleStatus,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("wizard-sections",
			mcp.WithDescription("The wizard's steps and sections with completion flags"),
		),
		s.handleSections,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("upload-check",
			mcp.WithDescription("Check files against the upload rules without adding them"),
			mcp.WithArray("paths", mcp.Required(),
				mcp.Description("Absolute or working-directory relative file paths"),
				mcp.Items(map[string]any{"type": "string"}),
			),
		),
		s.handleUploadCheck,
	)
}

// StatusReport is the wizard-status payload.
type StatusReport struct {
	Campaign    string   `json:"campaign"`
	Active      string   `json:"active"`
	ActiveLabel string   `json:"active_label"`
	Step        int      `json:"step"`
	Completed   []string `json:"completed"`
	Progress    float64  `json:"progress"`
	Files       []string `json:"files"`
	Audience    []string `json:"audience"`
	Personas    int      `json:"personas_saved"`
	Events      int      `json:"events"`
}

// SectionReport is one section of the wizard-sections payload.
type SectionReport struct {
	Key       string `json:"key"`
	Label     string `json:"label"`
	Active    bool   `json:"active"`
	Completed bool   `json:"completed"`
}

// StepReport is one step of the wizard-sections payload.
type StepReport struct {
	ID          int             `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Current     bool            `json:"current"`
	Completed   bool            `json:"completed"`
	Sections    []SectionReport `json:"sections"`
}

// CheckReport is the upload-check payload.
type CheckReport struct {
	Accepted []upload.File `json:"accepted"`
	Rejected []string      `json:"rejected"`
	Message  string        `json:"message"`
}

// navState replays the journal into a navigation state. An empty journal
// means the wizard has not moved yet.
func (s *Server) navState(ctx context.Context) (navigation.State, *session.State, error) {
	journal, err := s.store.LoadState(ctx, s.campaign)
	if err != nil {
		return navigation.State{}, nil, err
	}

	st := s.tracker.Start()
	if journal.Active != "" {
		st.Active = navigation.SectionKey(journal.Active)
	}
	keys := make([]navigation.SectionKey, len(journal.Completed))
	for i, k := range journal.Completed {
		keys[i] = navigation.SectionKey(k)
	}
	st.Completed = navigation.NewCompletion(keys...)
	return st, journal, nil
}

func (s *Server) handleStatus(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	st, journal, err := s.navState(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load state: %v", err)), nil
	}

	completed := []string{}
	for _, k := range s.tracker.CompletedSections(st) {
		completed = append(completed, string(k))
	}

	report := StatusReport{
		Campaign:    s.campaign,
		Active:      string(st.Active),
		ActiveLabel: s.tracker.Layout().Label(st.Active),
		Step:        int(s.tracker.StepOrDefault(st.Active)),
		Completed:   completed,
		Progress:    s.tracker.Progress(st),
		Files:       nonNil(journal.Files),
		Audience:    nonNil(journal.SelectedAudience()),
		Personas:    len(journal.Personas),
		Events:      journal.Events,
	}
	return jsonResult(report)
}

func (s *Server) handleSections(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	st, _, err := s.navState(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load state: %v", err)), nil
	}

	layout := s.tracker.Layout()
	steps := make([]StepReport, 0, layout.StepCount())
	for _, step := range layout.Steps() {
		status := s.tracker.StepStatus(st, step.ID)
		sr := StepReport{
			ID:          int(step.ID),
			Title:       step.Title,
			Description: step.Description,
			Current:     status.Current,
			Completed:   status.Completed,
		}
		for _, sec := range step.Sections {
			sr.Sections = append(sr.Sections, SectionReport{
				Key:       string(sec.Key),
				Label:     sec.Label,
				Active:    sec.Key == st.Active,
				Completed: s.tracker.IsCompleted(st, sec.Key),
			})
		}
		steps = append(steps, sr)
	}
	return jsonResult(steps)
}

func (s *Server) handleUploadCheck(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	if args == nil {
		return mcp.NewToolResultError("no arguments provided"), nil
	}

	raw, ok := args["paths"].([]any)
	if !ok || len(raw) == 0 {
		return mcp.NewToolResultError("'paths' must be a non-empty array of strings"), nil
	}

	report := CheckReport{Accepted: []upload.File{}, Rejected: []string{}}
	var candidates []upload.File
	for i, item := range raw {
		path, ok := item.(string)
		if !ok || path == "" {
			return mcp.NewToolResultError(fmt.Sprintf("path %d is not a string", i)), nil
		}
		f, err := upload.FromPath(path)
		if err != nil {
			report.Rejected = append(report.Rejected, err.Error())
			continue
		}
		candidates = append(candidates, f)
	}

	res := upload.Check(candidates, s.rules)
	report.Accepted = append(report.Accepted, res.Accepted...)
	for _, r := range res.Rejected {
		report.Rejected = append(report.Rejected, r.Message())
	}

	switch {
	case len(report.Rejected) == 0:
		report.Message = fmt.Sprintf("%d file(s) would be accepted", len(report.Accepted))
	default:
		report.Message = "batch would be rejected: nothing is added unless every file passes"
	}
	return jsonResult(report)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
