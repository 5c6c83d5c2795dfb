package nats

import (
	"context"
	"fmt"
	"os"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// Bus is a running in-process event bus: embedded server, client connection
// and the wizard event stream.
type Bus struct {
	Server *server.Server
	Conn   *nats.Conn
	JS     jetstream.JetStream
	Stream jetstream.Stream

	scratch string
}

// StartBus boots the embedded server in a fresh scratch directory and sets
// up the event stream. Close releases everything, including the directory.
func StartBus(ctx context.Context) (*Bus, error) {
	scratch, err := os.MkdirTemp("", "stratagem-nats-")
	if err != nil {
		return nil, fmt.Errorf("failed to create scratch dir: %w", err)
	}

	b := &Bus{scratch: scratch}

	b.Server, err = StartEmbeddedNATS(scratch)
	if err != nil {
		_ = os.RemoveAll(scratch)
		return nil, fmt.Errorf("failed to start NATS: %w", err)
	}

	b.Conn, err = ConnectInProcess(b.Server)
	if err != nil {
		_ = b.Close()
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	b.JS, err = CreateJetStream(b.Conn)
	if err != nil {
		_ = b.Close()
		return nil, fmt.Errorf("failed to create JetStream: %w", err)
	}

	b.Stream, err = SetupStream(ctx, b.JS)
	if err != nil {
		_ = b.Close()
		return nil, fmt.Errorf("failed to setup stream: %w", err)
	}

	log.Debug("event bus ready")
	return b, nil
}

// Close shuts the bus down and removes its scratch directory.
func (b *Bus) Close() error {
	err := Shutdown(b.Conn, b.Server)
	if rmErr := os.RemoveAll(b.scratch); rmErr != nil {
		log.Warn("failed to remove NATS scratch dir %s: %v", b.scratch, rmErr)
	}
	return err
}
