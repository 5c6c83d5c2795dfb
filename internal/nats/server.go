package nats

import (
	"fmt"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/mark3labs/stratagem/internal/logger"
)

var log = logger.Named("nats")

// maxMemory caps the in-memory JetStream store. The journal of a single
// wizard run is tiny; this only guards against runaway publishing.
const maxMemory = 64 << 20

const (
	readyTimeout    = 4 * time.Second
	drainTimeout    = 2 * time.Second
	shutdownTimeout = 5 * time.Second
)

// StartEmbeddedNATS starts an embedded NATS server with JetStream enabled.
// Streams are memory-backed; storeDir only holds JetStream's bookkeeping and
// should be a scratch directory owned by the caller.
// Returns the server instance or an error if startup fails.
func StartEmbeddedNATS(storeDir string) (*server.Server, error) {
	log.Debug("starting embedded server (scratch dir: %s)", storeDir)

	opts := &server.Options{
		ServerName:         "stratagem",
		JetStream:          true,
		JetStreamMaxMemory: maxMemory,
		StoreDir:           storeDir,
		DontListen:         true, // No network ports - in-process only
		NoSigs:             true,
	}

	ns, err := server.NewServer(opts)
	if err != nil {
		log.Error("failed to create server: %v", err)
		return nil, err
	}

	go ns.Start()

	if !ns.ReadyForConnections(readyTimeout) {
		log.Error("server not ready after %s", readyTimeout)
		ns.Shutdown()
		return nil, fmt.Errorf("nats server not ready after %s", readyTimeout)
	}

	log.Debug("server ready for connections")
	return ns, nil
}

// ConnectInProcess creates an in-process connection to the embedded NATS server.
// This connection does not use network ports and communicates directly with the server.
func ConnectInProcess(ns *server.Server) (*nats.Conn, error) {
	conn, err := nats.Connect("", nats.InProcessServer(ns))
	if err != nil {
		log.Error("in-process connect failed: %v", err)
		return nil, err
	}
	return conn, nil
}

// CreateJetStream creates a JetStream context from a NATS connection.
func CreateJetStream(nc *nats.Conn) (jetstream.JetStream, error) {
	return jetstream.New(nc)
}

// Shutdown gracefully shuts down the NATS connection and server.
// It first drains and closes the connection, then shuts down the server
// with a timeout to allow in-flight operations to complete.
func Shutdown(nc *nats.Conn, ns *server.Server) error {
	log.Debug("shutting down")

	if nc != nil {
		drainDone := make(chan error, 1)
		go func() {
			drainDone <- nc.Drain()
		}()

		select {
		case err := <-drainDone:
			if err != nil {
				log.Warn("drain failed, forcing close: %v", err)
				nc.Close()
			}
		case <-time.After(drainTimeout):
			log.Warn("drain timed out after %s, forcing close", drainTimeout)
			nc.Close()
		}
	}

	if ns != nil {
		ns.Shutdown()

		shutdownDone := make(chan struct{})
		go func() {
			ns.WaitForShutdown()
			close(shutdownDone)
		}()

		select {
		case <-shutdownDone:
			log.Debug("server shut down cleanly")
		case <-time.After(shutdownTimeout):
			log.Error("shutdown timed out after %s", shutdownTimeout)
			return fmt.Errorf("nats server shutdown timed out after %s", shutdownTimeout)
		}
	}

	return nil
}
