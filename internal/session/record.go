package session

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/stratagem/internal/nats"
	"github.com/mark3labs/stratagem/internal/navigation"
	"github.com/mark3labs/stratagem/internal/persona"
	"github.com/mark3labs/stratagem/internal/upload"
)

// Event actions.
const (
	ActionAdvance = "advance"
	ActionRetreat = "retreat"
	ActionJump    = "jump"
	ActionAdd     = "add"
	ActionRemove  = "remove"
	ActionSaved   = "saved"
	ActionToggle  = "toggle"
)

// OwnerCampaign marks uploads into the campaign asset list. Persona document
// uploads use the persona ID as owner.
const OwnerCampaign = "campaign"

type navMeta struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type uploadMeta struct {
	Owner string   `json:"owner"`
	Names []string `json:"names,omitempty"`
	Bytes int64    `json:"bytes,omitempty"`
	Index int      `json:"index"`
}

type personaMeta struct {
	ID        string `json:"id"`
	Category  string `json:"category"`
	Documents int    `json:"documents"`
}

type audienceMeta struct {
	ID       string `json:"id"`
	Selected bool   `json:"selected"`
}

func (s *Store) record(ctx context.Context, campaign, typ, action, data string, meta any) error {
	raw, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("failed to marshal %s meta: %w", typ, err)
	}
	_, err = s.PublishEvent(ctx, Event{
		Campaign: campaign,
		Type:     typ,
		Action:   action,
		Meta:     raw,
		Data:     data,
	})
	return err
}

// RecordAdvance journals Next: from was completed and to became active.
func (s *Store) RecordAdvance(ctx context.Context, campaign string, from, to navigation.SectionKey) error {
	return s.record(ctx, campaign, nats.EventTypeNav, ActionAdvance, string(to),
		navMeta{From: string(from), To: string(to)})
}

// RecordRetreat journals Back.
func (s *Store) RecordRetreat(ctx context.Context, campaign string, from, to navigation.SectionKey) error {
	return s.record(ctx, campaign, nats.EventTypeNav, ActionRetreat, string(to),
		navMeta{From: string(from), To: string(to)})
}

// RecordJump journals a direct jump to a section.
func (s *Store) RecordJump(ctx context.Context, campaign string, from, to navigation.SectionKey) error {
	return s.record(ctx, campaign, nats.EventTypeNav, ActionJump, string(to),
		navMeta{From: string(from), To: string(to)})
}

// RecordUpload journals an accepted batch. owner is OwnerCampaign or a
// persona ID.
func (s *Store) RecordUpload(ctx context.Context, campaign, owner string, files []upload.File) error {
	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.Name
	}
	return s.record(ctx, campaign, nats.EventTypeUpload, ActionAdd, fmt.Sprintf("%d file(s)", len(files)),
		uploadMeta{Owner: owner, Names: names, Bytes: upload.TotalSize(files)})
}

// RecordRemove journals removal of the file at index from owner's list.
func (s *Store) RecordRemove(ctx context.Context, campaign, owner string, index int, name string) error {
	return s.record(ctx, campaign, nats.EventTypeUpload, ActionRemove, name,
		uploadMeta{Owner: owner, Index: index})
}

// RecordPersonaSaved journals a saved persona.
func (s *Store) RecordPersonaSaved(ctx context.Context, campaign string, p persona.Persona) error {
	return s.record(ctx, campaign, nats.EventTypePersona, ActionSaved, p.Name,
		personaMeta{ID: p.ID, Category: p.Category, Documents: len(p.Documents)})
}

// RecordAudienceToggle journals a roster selection change.
func (s *Store) RecordAudienceToggle(ctx context.Context, campaign, id, name string, selected bool) error {
	return s.record(ctx, campaign, nats.EventTypeAudience, ActionToggle, name,
		audienceMeta{ID: id, Selected: selected})
}
