package session

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mark3labs/stratagem/internal/nats"
	"github.com/mark3labs/stratagem/internal/navigation"
	"github.com/mark3labs/stratagem/internal/persona"
	"github.com/mark3labs/stratagem/internal/upload"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	bus, err := nats.StartBus(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { _ = bus.Close() })
	return NewStore(bus.JS, bus.Stream)
}

func TestLoadState_Empty(t *testing.T) {
	store := newTestStore(t)

	st, err := store.LoadState(context.Background(), "nothing here")
	require.NoError(t, err)
	assert.Equal(t, "nothing here", st.Campaign)
	assert.Zero(t, st.Events)
	assert.Empty(t, st.Completed)
}

func TestLoadState_Navigation(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	campaign := "Spring Launch"

	require.NoError(t, store.RecordAdvance(ctx, campaign, navigation.CampaignBasics, navigation.MarketIntelligence))
	require.NoError(t, store.RecordAdvance(ctx, campaign, navigation.MarketIntelligence, navigation.StrategicObjectives))
	require.NoError(t, store.RecordRetreat(ctx, campaign, navigation.StrategicObjectives, navigation.MarketIntelligence))
	// Re-completing a section is not double counted
	require.NoError(t, store.RecordAdvance(ctx, campaign, navigation.MarketIntelligence, navigation.StrategicObjectives))
	require.NoError(t, store.RecordJump(ctx, campaign, navigation.StrategicObjectives, navigation.ConceptGeneration))

	st, err := store.LoadState(ctx, campaign)
	require.NoError(t, err)
	assert.Equal(t, 5, st.Events)
	assert.Equal(t, string(navigation.ConceptGeneration), st.Active)
	assert.Equal(t, []string{"campaign-basics", "market-intelligence"}, st.Completed)
	assert.True(t, st.IsCompleted("campaign-basics"))
	assert.False(t, st.IsCompleted("concept-generation"))
}

func TestLoadState_IsolatesCampaigns(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.RecordAdvance(ctx, "one", navigation.CampaignBasics, navigation.MarketIntelligence))
	require.NoError(t, store.RecordJump(ctx, "two", navigation.CampaignBasics, navigation.TimelineManagement))

	one, err := store.LoadState(ctx, "one")
	require.NoError(t, err)
	assert.Equal(t, 1, one.Events)
	assert.Equal(t, "market-intelligence", one.Active)

	two, err := store.LoadState(ctx, "two")
	require.NoError(t, err)
	assert.Equal(t, "timeline-management", two.Active)
	assert.Empty(t, two.Completed)
}

func TestLoadState_Uploads(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	c := "assets"

	files := []upload.File{
		{Name: "a.pdf", Size: 10, ContentType: upload.TypePDF},
		{Name: "b.xlsx", Size: 20, ContentType: upload.TypeXLSX},
		{Name: "c.docx", Size: 30, ContentType: upload.TypeDOCX},
	}
	require.NoError(t, store.RecordUpload(ctx, c, OwnerCampaign, files))
	require.NoError(t, store.RecordRemove(ctx, c, OwnerCampaign, 1, "b.xlsx"))
	// Persona documents do not touch the campaign asset list
	require.NoError(t, store.RecordUpload(ctx, c, "persona-7", files[:1]))
	// Out-of-range removal is ignored on replay
	require.NoError(t, store.RecordRemove(ctx, c, OwnerCampaign, 9, "ghost.pdf"))

	st, err := store.LoadState(ctx, c)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.pdf", "c.docx"}, st.Files)
}

func TestLoadState_PersonasAndAudience(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	c := "people"

	require.NoError(t, store.RecordAudienceToggle(ctx, c, "2", "Entrepreneur", true))
	require.NoError(t, store.RecordAudienceToggle(ctx, c, "4", "Developer", true))
	require.NoError(t, store.RecordAudienceToggle(ctx, c, "2", "Entrepreneur", false))

	p := persona.Persona{ID: "4", Name: "Backend Developer", Category: "Developer",
		Documents: []upload.File{{Name: "notes.pdf"}}}
	require.NoError(t, store.RecordPersonaSaved(ctx, c, p))

	st, err := store.LoadState(ctx, c)
	require.NoError(t, err)

	assert.Equal(t, []string{"Backend Developer"}, st.SelectedAudience())
	require.Contains(t, st.Personas, "4")
	assert.Equal(t, "Backend Developer", st.Personas["4"].Name)
	assert.Equal(t, 1, st.Personas["4"].Documents)
}

func TestState_ApplyIgnoresBadMeta(t *testing.T) {
	st := newState("x")
	st.Apply(Event{Type: nats.EventTypeNav, Action: ActionAdvance, Meta: json.RawMessage(`not json`)})
	st.Apply(Event{Type: "unknown", Action: "whatever"})

	assert.Equal(t, 2, st.Events)
	assert.Empty(t, st.Active)
	assert.Empty(t, st.Completed)
}

func TestState_ApplyTracksLatestTimestamp(t *testing.T) {
	st := newState("x")
	early := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	late := early.Add(time.Hour)

	st.Apply(Event{Type: nats.EventTypeNav, Timestamp: late, Meta: json.RawMessage(`{}`)})
	st.Apply(Event{Type: nats.EventTypeNav, Timestamp: early, Meta: json.RawMessage(`{}`)})
	assert.Equal(t, late, st.UpdatedAt)
}

func TestPublishEvent_SetsTimestamp(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	ack, err := store.PublishEvent(ctx, Event{Campaign: "ts", Type: nats.EventTypeNav, Meta: json.RawMessage(`{}`)})
	require.NoError(t, err)
	assert.NotZero(t, ack.Sequence)

	st, err := store.LoadState(ctx, "ts")
	require.NoError(t, err)
	assert.False(t, st.UpdatedAt.IsZero())
}
