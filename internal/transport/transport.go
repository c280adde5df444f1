// Package transport defines the interface between the assistant and its
// network surfaces.
//
// A transport only moves text in and replies out; every decision about what
// a command means lives behind the Service contract.
package transport

import (
	"context"

	"github.com/fridaylabs/friday/internal/message"
	"github.com/fridaylabs/friday/internal/voice"
)

// Service is the assistant as seen by a transport.
type Service interface {
	// Command dispatches one line of user text and returns the reply.
	Command(ctx context.Context, text string) (message.Result, error)

	// Transcript returns the persisted conversation in insertion order.
	Transcript() []message.TranscriptEntry

	// ClearTranscript empties the transcript and returns the confirmation line.
	ClearTranscript() (string, error)

	// Voices returns the available voices and the selected voice name.
	Voices() ([]voice.Descriptor, string)

	// SelectVoice switches the session voice.
	SelectVoice(name string) error

	// Busy reports whether a remote adapter call is outstanding.
	Busy() bool
}

// Transport is the interface every network surface implements.
type Transport interface {
	// Name returns the transport identifier (e.g., "http").
	Name() string

	// Listen starts accepting requests and routes them to the service.
	// It blocks until the context is cancelled.
	Listen(ctx context.Context, svc Service) error

	// Close gracefully shuts down the transport, draining in-flight work.
	Close() error
}
