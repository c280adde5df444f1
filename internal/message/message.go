// Package message defines the core data types flowing through the friday pipeline.
package message

import "time"

// Speaker identifies who produced a transcript entry.
type Speaker string

const (
	// SpeakerUser marks input typed or spoken by the user.
	SpeakerUser Speaker = "user"

	// SpeakerAssistant marks replies produced by the assistant.
	SpeakerAssistant Speaker = "assistant"
)

// TranscriptEntry is one exchanged message. Entries are immutable once
// appended; the transcript as a whole is only otherwise mutated by a full clear.
type TranscriptEntry struct {
	Speaker Speaker   `json:"speaker"`
	Text    string    `json:"text"`
	At      time.Time `json:"at"`
}

// UtteranceRequest is one unit of requested speech output. Transient, never
// persisted.
type UtteranceRequest struct {
	// Text is the sentence to render as audio.
	Text string

	// LanguageHint is an optional BCP-47 prefix (e.g. "hi", "fr") that
	// overrides voice personalization during selection. Empty means no hint.
	LanguageHint string
}

// Result is the outcome of dispatching one command.
type Result struct {
	// ID is a unique identifier for this exchange (UUID).
	ID string `json:"id"`

	// Input is the raw text the dispatcher received.
	Input string `json:"input"`

	// Reply is the assistant's final reply text.
	Reply string `json:"reply"`

	// Spoken reports whether the reply was handed to the speech controller.
	Spoken bool `json:"spoken"`
}
