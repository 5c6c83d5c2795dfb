// Package session journals what happens during a wizard run on the
// in-process event bus and replays the journal into a summary State.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/mark3labs/stratagem/internal/logger"
	"github.com/mark3labs/stratagem/internal/nats"
)

var log = logger.Named("journal")

// Event represents a generic event stored in the JetStream event log.
// Every wizard action (navigation, uploads, personas, audience selection) is
// appended as an event; state is rebuilt by reducing them in order.
type Event struct {
	ID        string          `json:"id"`        // NATS message sequence ID
	Timestamp time.Time       `json:"timestamp"` // When the event occurred
	Campaign  string          `json:"campaign"`  // Campaign name
	Type      string          `json:"type"`      // Event type: nav, upload, persona, audience
	Action    string          `json:"action"`    // Action type: advance, retreat, jump, add, remove, saved, toggle
	Meta      json.RawMessage `json:"meta"`      // Action-specific metadata
	Data      string          `json:"data"`      // Primary content (section key, file name, persona name)
}

// Store manages the wizard journal through JetStream event sourcing.
type Store struct {
	js     jetstream.JetStream
	stream jetstream.Stream
}

// NewStore creates a new Store instance with the given JetStream context and stream.
func NewStore(js jetstream.JetStream, stream jetstream.Stream) *Store {
	return &Store{
		js:     js,
		stream: stream,
	}
}

// PublishEvent appends an event to the JetStream event log.
// Events are published to subjects following the pattern: stratagem.{campaign}.{type}
func (s *Store) PublishEvent(ctx context.Context, event Event) (*jetstream.PubAck, error) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event: %w", err)
	}

	subject := nats.SubjectForEvent(event.Campaign, event.Type)

	log.Debug("Publishing event: campaign=%s type=%s action=%s", event.Campaign, event.Type, event.Action)

	ack, err := s.js.Publish(ctx, subject, data)
	if err != nil {
		log.Error("Failed to publish event to subject %s: %v", subject, err)
		return nil, fmt.Errorf("failed to publish event: %w", err)
	}

	return ack, nil
}

// State is the journal of one campaign reduced to its current shape.
type State struct {
	Campaign  string                     `json:"campaign"`
	Active    string                     `json:"active"`
	Completed []string                   `json:"completed"` // In the order they were completed
	Files     []string                   `json:"files"`     // Campaign asset names, in upload order
	Personas  map[string]*PersonaRecord  `json:"personas"`  // Persona ID -> record
	Audience  map[string]*AudienceRecord `json:"audience"`  // Persona ID -> selection
	Events    int                        `json:"events"`
	UpdatedAt time.Time                  `json:"updated_at"`
}

// PersonaRecord is a persona as last saved.
type PersonaRecord struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Documents int       `json:"documents"`
	SavedAt   time.Time `json:"saved_at"`
}

// AudienceRecord is the selection state of one roster entry.
type AudienceRecord struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Selected bool   `json:"selected"`
}

func newState(campaign string) *State {
	return &State{
		Campaign: campaign,
		Personas: make(map[string]*PersonaRecord),
		Audience: make(map[string]*AudienceRecord),
	}
}

// SelectedAudience returns the names of selected audiences, sorted.
func (st *State) SelectedAudience() []string {
	var names []string
	for _, a := range st.Audience {
		if a.Selected {
			names = append(names, a.Name)
		}
	}
	sort.Strings(names)
	return names
}

// IsCompleted reports whether section was completed.
func (st *State) IsCompleted(section string) bool {
	return slices.Contains(st.Completed, section)
}

// Apply applies an event to the state, implementing the reduce pattern.
// This method mutates the state based on the event type and action.
func (st *State) Apply(event Event) {
	st.Events++
	if event.Timestamp.After(st.UpdatedAt) {
		st.UpdatedAt = event.Timestamp
	}

	switch event.Type {
	case nats.EventTypeNav:
		st.applyNavEvent(event)
	case nats.EventTypeUpload:
		st.applyUploadEvent(event)
	case nats.EventTypePersona:
		st.applyPersonaEvent(event)
	case nats.EventTypeAudience:
		st.applyAudienceEvent(event)
	}
}

func (st *State) applyNavEvent(event Event) {
	var meta navMeta
	if err := json.Unmarshal(event.Meta, &meta); err != nil {
		log.Warn("nav event %s has bad meta: %v", event.ID, err)
		return
	}

	switch event.Action {
	case ActionAdvance:
		if meta.From != "" && !st.IsCompleted(meta.From) {
			st.Completed = append(st.Completed, meta.From)
		}
		st.Active = meta.To
	case ActionRetreat, ActionJump:
		st.Active = meta.To
	}
}

func (st *State) applyUploadEvent(event Event) {
	var meta uploadMeta
	if err := json.Unmarshal(event.Meta, &meta); err != nil {
		log.Warn("upload event %s has bad meta: %v", event.ID, err)
		return
	}
	// Persona documents are counted on the persona record at save time
	if meta.Owner != OwnerCampaign {
		return
	}

	switch event.Action {
	case ActionAdd:
		st.Files = append(st.Files, meta.Names...)
	case ActionRemove:
		if meta.Index >= 0 && meta.Index < len(st.Files) {
			st.Files = slices.Delete(st.Files, meta.Index, meta.Index+1)
		}
	}
}

func (st *State) applyPersonaEvent(event Event) {
	if event.Action != ActionSaved {
		return
	}
	var meta personaMeta
	if err := json.Unmarshal(event.Meta, &meta); err != nil {
		log.Warn("persona event %s has bad meta: %v", event.ID, err)
		return
	}
	st.Personas[meta.ID] = &PersonaRecord{
		ID:        meta.ID,
		Name:      event.Data,
		Category:  meta.Category,
		Documents: meta.Documents,
		SavedAt:   event.Timestamp,
	}
	// A renamed persona keeps its selection under the new name
	if a, ok := st.Audience[meta.ID]; ok {
		a.Name = event.Data
	}
}

func (st *State) applyAudienceEvent(event Event) {
	if event.Action != ActionToggle {
		return
	}
	var meta audienceMeta
	if err := json.Unmarshal(event.Meta, &meta); err != nil {
		log.Warn("audience event %s has bad meta: %v", event.ID, err)
		return
	}
	st.Audience[meta.ID] = &AudienceRecord{
		ID:       meta.ID,
		Name:     event.Data,
		Selected: meta.Selected,
	}
}

// LoadState reconstructs the current state of a campaign by reading and
// reducing all of its events from the JetStream event log.
func (s *Store) LoadState(ctx context.Context, campaign string) (*State, error) {
	consumer, err := s.stream.CreateOrUpdateConsumer(ctx, jetstream.ConsumerConfig{
		FilterSubject: nats.SubjectForCampaign(campaign),
		DeliverPolicy: jetstream.DeliverAllPolicy,
		AckPolicy:     jetstream.AckExplicitPolicy,
	})
	if err != nil {
		log.Error("Failed to create consumer for campaign %s: %v", campaign, err)
		return nil, fmt.Errorf("failed to create consumer: %w", err)
	}

	state := newState(campaign)

	const batchSize = 1000
	malformed := 0
	for {
		msgs, err := consumer.FetchNoWait(batchSize)
		if err != nil {
			break
		}

		count := 0
		for msg := range msgs.Messages() {
			count++
			var event Event
			if err := json.Unmarshal(msg.Data(), &event); err != nil {
				malformed++
				if meta, metaErr := msg.Metadata(); metaErr == nil {
					log.Warn("Skipping malformed event (seq=%d): %v", meta.Sequence.Stream, err)
				}
				_ = msg.Ack()
				continue
			}

			if event.ID == "" {
				if meta, metaErr := msg.Metadata(); metaErr == nil {
					event.ID = fmt.Sprintf("%d", meta.Sequence.Stream)
				}
			}

			state.Apply(event)
			_ = msg.Ack()
		}

		if count < batchSize {
			break
		}
	}

	if malformed > 0 {
		log.Warn("Skipped %d malformed events while loading state", malformed)
	}
	log.Debug("State loaded: campaign=%s events=%d active=%s", campaign, state.Events, state.Active)

	return state, nil
}
