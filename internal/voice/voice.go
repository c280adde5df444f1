// Package voice holds the session state and the voice selection rules.
package voice

import "strings"

// Descriptor identifies one synthesis voice offered by the speech engine.
// The engine owns this list and may reload it at any time; stored preferences
// that name a vanished voice are stale references, never errors.
type Descriptor struct {
	Name     string `json:"name"`
	Language string `json:"language"` // BCP-47 tag, e.g. "en-US", "hi-IN"
}

// Session is the process-lifetime state threaded explicitly through the
// dispatcher. Dispatch takes a Session and returns the updated value; nothing
// here is shared mutable state.
type Session struct {
	// ActiveUser is the active profile name, or "" when nobody has
	// introduced themselves. When non-empty it references an existing profile.
	ActiveUser string

	// Available is the ordered voice list most recently supplied by the engine.
	Available []Descriptor

	// Selected is the session's chosen voice, nil when none was picked.
	Selected *Descriptor
}

// Select resolves which voice to use for an utterance.
//
// Resolution order:
//  1. A language hint wins outright: the first available descriptor whose
//     language tag starts with the hint (case-insensitive). An explicit
//     language request overrides personalization.
//  2. The active profile's stored voice name, if still available.
//  3. The session's selected voice.
//  4. The first available voice.
//
// With no available voices Select returns nil; the speech controller treats
// that as a silent no-op.
func Select(languageHint, profileVoiceName string, sessionSelected *Descriptor, available []Descriptor) *Descriptor {
	if languageHint != "" {
		hint := strings.ToLower(languageHint)
		for i := range available {
			if strings.HasPrefix(strings.ToLower(available[i].Language), hint) {
				return &available[i]
			}
		}
	}

	if profileVoiceName != "" {
		if d := Find(available, profileVoiceName); d != nil {
			return d
		}
	}

	if sessionSelected != nil {
		return sessionSelected
	}

	if len(available) > 0 {
		return &available[0]
	}
	return nil
}

// Find returns the available descriptor with the given name, or nil.
func Find(available []Descriptor, name string) *Descriptor {
	for i := range available {
		if available[i].Name == name {
			return &available[i]
		}
	}
	return nil
}
