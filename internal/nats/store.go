package nats

import (
	"context"
	"fmt"
	"time"

	"github.com/gosimple/slug"
	"github.com/nats-io/nats.go/jetstream"
)

const (
	streamName    = "stratagem_events"
	subjectPrefix = "stratagem"

	// Event types
	EventTypeNav      = "nav"
	EventTypeUpload   = "upload"
	EventTypePersona  = "persona"
	EventTypeAudience = "audience"
)

// CampaignToken turns a campaign name into a single subject token.
// Subjects cannot carry spaces or dots, so names are slugged; an empty name
// maps to "default".
func CampaignToken(campaign string) string {
	if s := slug.Make(campaign); s != "" {
		return s
	}
	return "default"
}

// SubjectForCampaign returns the wildcard subject pattern for all events of a campaign.
// Example: "stratagem.spring-launch.>"
func SubjectForCampaign(campaign string) string {
	return fmt.Sprintf("%s.%s.>", subjectPrefix, CampaignToken(campaign))
}

// SubjectForEvent returns the specific subject for an event type in a campaign.
// Example: "stratagem.spring-launch.nav"
func SubjectForEvent(campaign, eventType string) string {
	return fmt.Sprintf("%s.%s.%s", subjectPrefix, CampaignToken(campaign), eventType)
}

// SetupStream creates or updates the JetStream stream for wizard events.
// The stream is memory-backed and lives only as long as the process.
func SetupStream(ctx context.Context, js jetstream.JetStream) (jetstream.Stream, error) {
	return js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     streamName,
		Subjects: []string{subjectPrefix + ".>"},
		Storage:  jetstream.MemoryStorage,
		MaxAge:   24 * time.Hour,
	})
}
