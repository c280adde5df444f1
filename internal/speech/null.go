package speech

import (
	"context"

	"github.com/fridaylabs/friday/internal/voice"
)

// NullEngine is the engine used when speech is disabled: no voices, and every
// utterance is a silent no-op. The conversation flows exactly as it would
// with audio.
type NullEngine struct{}

// Voices returns no voices.
func (NullEngine) Voices(context.Context) ([]voice.Descriptor, error) { return nil, nil }

// Speak does nothing.
func (NullEngine) Speak(context.Context, string, voice.Descriptor, Options) error { return nil }

// Close does nothing.
func (NullEngine) Close() error { return nil }
