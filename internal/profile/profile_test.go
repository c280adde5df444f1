package profile_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fridaylabs/friday/internal/profile"
	"github.com/fridaylabs/friday/internal/store"
)

func newStore(t *testing.T) *profile.Store {
	t.Helper()

	docs, err := store.Open(filepath.Join(t.TempDir(), "friday.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = docs.Close() })

	return profile.New(docs)
}

func strPtr(s string) *string { return &s }

func TestCreateThenWelcomeBack(t *testing.T) {
	s := newStore(t)

	outcome, err := s.CreateOrUpdate("alice", strPtr("Samantha"))
	require.NoError(t, err)
	assert.Equal(t, profile.Created, outcome)

	// Introducing the same name again never creates a second profile, and
	// without an explicit voice it must not erase the stored preference.
	outcome, err = s.CreateOrUpdate("alice", nil)
	require.NoError(t, err)
	assert.Equal(t, profile.AlreadyExists, outcome)

	pref, err := s.VoicePreference("alice")
	require.NoError(t, err)
	assert.Equal(t, "Samantha", pref)
}

func TestCreateOrUpdateExplicitVoiceOverwrites(t *testing.T) {
	s := newStore(t)

	_, err := s.CreateOrUpdate("alice", strPtr("Samantha"))
	require.NoError(t, err)

	_, err = s.CreateOrUpdate("alice", strPtr("Daniel"))
	require.NoError(t, err)

	pref, err := s.VoicePreference("alice")
	require.NoError(t, err)
	assert.Equal(t, "Daniel", pref)
}

func TestSetActiveUnknownProfile(t *testing.T) {
	s := newStore(t)

	_, err := s.SetActive("nobody")
	assert.ErrorIs(t, err, profile.ErrNotFound)

	active, err := s.Active()
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestSetActiveReturnsPrior(t *testing.T) {
	s := newStore(t)

	_, err := s.CreateOrUpdate("alice", nil)
	require.NoError(t, err)
	_, err = s.CreateOrUpdate("bob", nil)
	require.NoError(t, err)

	prior, err := s.SetActive("alice")
	require.NoError(t, err)
	assert.Empty(t, prior)

	prior, err = s.SetActive("bob")
	require.NoError(t, err)
	assert.Equal(t, "alice", prior)
}

func TestDeleteActiveClearsActive(t *testing.T) {
	s := newStore(t)

	_, err := s.CreateOrUpdate("alice", nil)
	require.NoError(t, err)
	_, err = s.SetActive("alice")
	require.NoError(t, err)

	require.NoError(t, s.Delete("alice"))

	active, err := s.Active()
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestDeleteNonActiveLeavesActive(t *testing.T) {
	s := newStore(t)

	_, err := s.CreateOrUpdate("alice", nil)
	require.NoError(t, err)
	_, err = s.CreateOrUpdate("bob", nil)
	require.NoError(t, err)
	_, err = s.SetActive("alice")
	require.NoError(t, err)

	require.NoError(t, s.Delete("bob"))

	active, err := s.Active()
	require.NoError(t, err)
	assert.Equal(t, "alice", active)
}

func TestDeleteUnknownProfile(t *testing.T) {
	s := newStore(t)

	assert.ErrorIs(t, s.Delete("nobody"), profile.ErrNotFound)
}

func TestActiveAlwaysReferencesExistingProfile(t *testing.T) {
	// Invariant check across a mixed sequence of create/switch/delete.
	s := newStore(t)

	_, err := s.CreateOrUpdate("alice", nil)
	require.NoError(t, err)
	_, err = s.SetActive("alice")
	require.NoError(t, err)
	_, err = s.CreateOrUpdate("bob", strPtr("Daniel"))
	require.NoError(t, err)
	_, err = s.SetActive("bob")
	require.NoError(t, err)
	require.NoError(t, s.Delete("alice"))
	require.NoError(t, s.Delete("bob"))
	_, err = s.CreateOrUpdate("carol", nil)
	require.NoError(t, err)

	active, err := s.Active()
	require.NoError(t, err)
	if active != "" {
		_, err := s.VoicePreference(active)
		assert.NoError(t, err, "active user %q must exist in the profile mapping", active)
	}
}

func TestVoicePreferenceUnknownProfile(t *testing.T) {
	s := newStore(t)

	_, err := s.VoicePreference("nobody")
	assert.ErrorIs(t, err, profile.ErrNotFound)

	assert.ErrorIs(t, s.SetVoicePreference("nobody", "Samantha"), profile.ErrNotFound)
}

func TestFallbackVoice(t *testing.T) {
	s := newStore(t)

	got, err := s.FallbackVoice()
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, s.SetFallbackVoice("Samantha"))

	got, err = s.FallbackVoice()
	require.NoError(t, err)
	assert.Equal(t, "Samantha", got)
}
