// Package profile implements the persisted multi-user profile store.
//
// Profiles live in a single keyed document, the shape the original
// localStorage record had:
//
//	{ "activeUser": "alice", "users": { "alice": { "voiceName": "Samantha" } } }
//
// Every mutation is a whole-document read-modify-write executed through
// store.Update, which serializes the cycle; callers can treat each operation
// as atomic. A profile's stored voiceName may reference a voice the speech
// engine no longer offers; consumers degrade gracefully, never fail.
package profile

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fridaylabs/friday/internal/store"
)

const (
	usersKey         = "fridayUsers"
	fallbackVoiceKey = "fridayVoiceName"
)

// ErrNotFound is returned when a named profile does not exist.
var ErrNotFound = errors.New("no profile with that name")

// Outcome reports what CreateOrUpdate did.
type Outcome int

const (
	// Created means the profile did not exist and was created.
	Created Outcome = iota

	// AlreadyExists means the profile existed; only an explicitly supplied
	// voice preference was applied.
	AlreadyExists
)

type document struct {
	ActiveUser string                `json:"activeUser,omitempty"`
	Users      map[string]userRecord `json:"users,omitempty"`
}

type userRecord struct {
	VoiceName *string `json:"voiceName"`
}

// Store is the durable profile mapping plus the currently active user.
type Store struct {
	docs *store.Store
}

// New creates a profile store over the given document store.
func New(docs *store.Store) *Store {
	return &Store{docs: docs}
}

// Active returns the currently active profile name, or "" when none is set.
func (s *Store) Active() (string, error) {
	doc, err := s.load()
	if err != nil {
		return "", err
	}
	return doc.ActiveUser, nil
}

// SetActive makes name the active profile and returns the prior active name.
// Fails with ErrNotFound if the profile does not exist.
func (s *Store) SetActive(name string) (string, error) {
	var prior string
	err := s.update(func(doc *document) error {
		if _, ok := doc.Users[name]; !ok {
			return fmt.Errorf("activating %q: %w", name, ErrNotFound)
		}
		prior = doc.ActiveUser
		doc.ActiveUser = name
		return nil
	})
	return prior, err
}

// CreateOrUpdate creates the profile if unknown, storing the given voice
// preference (nil means no preference). For a known profile, existing fields
// are left untouched unless voiceName is non-nil. Neither outcome changes the
// active user; that is the calling command's side effect.
func (s *Store) CreateOrUpdate(name string, voiceName *string) (Outcome, error) {
	outcome := Created
	err := s.update(func(doc *document) error {
		if doc.Users == nil {
			doc.Users = make(map[string]userRecord)
		}
		if rec, ok := doc.Users[name]; ok {
			outcome = AlreadyExists
			if voiceName != nil {
				rec.VoiceName = voiceName
				doc.Users[name] = rec
			}
			return nil
		}
		doc.Users[name] = userRecord{VoiceName: voiceName}
		return nil
	})
	return outcome, err
}

// Delete removes the profile. If it was active, the active user is cleared;
// the active name must always reference an existing profile.
func (s *Store) Delete(name string) error {
	return s.update(func(doc *document) error {
		if _, ok := doc.Users[name]; !ok {
			return fmt.Errorf("deleting %q: %w", name, ErrNotFound)
		}
		delete(doc.Users, name)
		if doc.ActiveUser == name {
			doc.ActiveUser = ""
		}
		return nil
	})
}

// VoicePreference returns the stored voice name for the profile, or "" when
// the profile has no preference. Fails with ErrNotFound for unknown profiles.
func (s *Store) VoicePreference(name string) (string, error) {
	doc, err := s.load()
	if err != nil {
		return "", err
	}
	rec, ok := doc.Users[name]
	if !ok {
		return "", fmt.Errorf("voice preference of %q: %w", name, ErrNotFound)
	}
	if rec.VoiceName == nil {
		return "", nil
	}
	return *rec.VoiceName, nil
}

// SetVoicePreference stores the voice preference for the profile.
func (s *Store) SetVoicePreference(name, voiceName string) error {
	return s.update(func(doc *document) error {
		rec, ok := doc.Users[name]
		if !ok {
			return fmt.Errorf("setting voice of %q: %w", name, ErrNotFound)
		}
		rec.VoiceName = &voiceName
		doc.Users[name] = rec
		return nil
	})
}

// FallbackVoice returns the standalone last-selected voice name, used only
// when no active profile exists. "" when never set.
func (s *Store) FallbackVoice() (string, error) {
	raw, err := s.docs.Get(fallbackVoiceKey)
	if errors.Is(err, store.ErrNoDocument) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// SetFallbackVoice persists the standalone last-selected voice name.
func (s *Store) SetFallbackVoice(voiceName string) error {
	return s.docs.Put(fallbackVoiceKey, []byte(voiceName))
}

func (s *Store) load() (document, error) {
	var doc document
	raw, err := s.docs.Get(usersKey)
	if errors.Is(err, store.ErrNoDocument) {
		return doc, nil
	}
	if err != nil {
		return doc, err
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		// A corrupt document is treated as empty rather than wedging every
		// profile command.
		return document{}, nil
	}
	return doc, nil
}

func (s *Store) update(fn func(doc *document) error) error {
	return s.docs.Update(usersKey, func(current []byte) ([]byte, error) {
		var doc document
		if len(current) > 0 {
			if err := json.Unmarshal(current, &doc); err != nil {
				doc = document{}
			}
		}
		if err := fn(&doc); err != nil {
			return nil, err
		}
		return json.Marshal(doc)
	})
}
