// Package transcript implements the append-only log of exchanged messages.
//
// Entries are persisted as structured JSON rather than rendered markup, so a
// restored transcript round-trips exactly. Restore never fails the caller: a
// missing or malformed stored value yields an empty transcript.
package transcript

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/fridaylabs/friday/internal/message"
	"github.com/fridaylabs/friday/internal/store"
)

const historyKey = "fridayChatHistory"

// Log is the persisted, append-only transcript.
type Log struct {
	docs *store.Store
}

// New creates a transcript log over the given document store.
func New(docs *store.Store) *Log {
	return &Log{docs: docs}
}

// Append adds one entry and immediately persists it. Entries keep insertion
// order; nothing is reordered or deduplicated.
func (l *Log) Append(speaker message.Speaker, text string) error {
	err := l.docs.Update(historyKey, func(current []byte) ([]byte, error) {
		entries := decode(current)
		entries = append(entries, message.TranscriptEntry{
			Speaker: speaker,
			Text:    text,
			At:      time.Now().UTC(),
		})
		return json.Marshal(entries)
	})
	if err != nil {
		return fmt.Errorf("appending transcript entry: %w", err)
	}
	return nil
}

// Clear empties the persisted transcript.
func (l *Log) Clear() error {
	if err := l.docs.Delete(historyKey); err != nil {
		return fmt.Errorf("clearing transcript: %w", err)
	}
	return nil
}

// Restore loads the stored transcript. It returns an empty slice when nothing
// is stored or the stored value is not well-formed.
func (l *Log) Restore() []message.TranscriptEntry {
	raw, err := l.docs.Get(historyKey)
	if err != nil {
		return nil
	}
	return decode(raw)
}

func decode(raw []byte) []message.TranscriptEntry {
	if len(raw) == 0 {
		return nil
	}
	var entries []message.TranscriptEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil
	}
	return entries
}
