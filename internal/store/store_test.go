package store_test

import (
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fridaylabs/friday/internal/store"
)

func openStore(t *testing.T) *store.Store {
	t.Helper()

	s, err := store.Open(filepath.Join(t.TempDir(), "friday.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	return s
}

func TestGetMissingKey(t *testing.T) {
	s := openStore(t)

	_, err := s.Get("absent")
	assert.ErrorIs(t, err, store.ErrNoDocument)
}

func TestPutGetRoundTrip(t *testing.T) {
	s := openStore(t)

	require.NoError(t, s.Put("k", []byte("v1")))
	got, err := s.Get("k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), got)

	// Put replaces the whole document.
	require.NoError(t, s.Put("k", []byte("v2")))
	got, err = s.Get("k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), got)
}

func TestDeleteIsIdempotent(t *testing.T) {
	s := openStore(t)

	require.NoError(t, s.Put("k", []byte("v")))
	require.NoError(t, s.Delete("k"))
	require.NoError(t, s.Delete("k"))

	_, err := s.Get("k")
	assert.ErrorIs(t, err, store.ErrNoDocument)
}

func TestUpdateSeesNilForMissingDocument(t *testing.T) {
	s := openStore(t)

	err := s.Update("k", func(current []byte) ([]byte, error) {
		assert.Nil(t, current)
		return []byte("created"), nil
	})
	require.NoError(t, err)

	got, err := s.Get("k")
	require.NoError(t, err)
	assert.Equal(t, []byte("created"), got)
}

func TestUpdateErrorLeavesDocumentUntouched(t *testing.T) {
	s := openStore(t)
	require.NoError(t, s.Put("k", []byte("before")))

	err := s.Update("k", func([]byte) ([]byte, error) {
		return nil, fmt.Errorf("nope")
	})
	require.Error(t, err)

	got, err := s.Get("k")
	require.NoError(t, err)
	assert.Equal(t, []byte("before"), got)
}

func TestUpdateSerializesConcurrentWriters(t *testing.T) {
	// Two parallel read-modify-write cycles must not lose an update.
	s := openStore(t)
	require.NoError(t, s.Put("counter", []byte("")))

	const writers = 20

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.Update("counter", func(current []byte) ([]byte, error) {
				return append(current, 'x'), nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := s.Get("counter")
	require.NoError(t, err)
	assert.Len(t, got, writers)
}
