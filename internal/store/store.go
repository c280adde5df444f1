// Package store provides the durable key→document storage backing friday's
// profiles, transcript and voice fallback.
//
// The browser origin of this assistant kept everything in localStorage as a
// handful of JSON blobs under well-known keys. The store keeps that shape (a
// small keyed table of whole documents) but makes every read-modify-write
// cycle single-writer: all access is serialized behind one mutex, so two
// near-simultaneous mutations can never lose an update.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"
)

// ErrNoDocument is returned by Get when no document exists under the key.
var ErrNoDocument = errors.New("no document stored under key")

// Store is a mutex-serialized key→blob document store over SQLite.
type Store struct {
	mu sync.Mutex
	db *sql.DB
}

// Open opens (creating if necessary) the document store at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS documents (
		key   TEXT PRIMARY KEY,
		value BLOB NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating documents table: %w", err)
	}

	return &Store{db: db}, nil
}

// Get returns the document stored under key, or ErrNoDocument.
func (s *Store) Get(key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(key)
}

// Put stores the document under key, replacing any previous value.
func (s *Store) Put(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.put(key, value)
}

// Delete removes the document under key. Deleting an absent key is not an error.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec(`DELETE FROM documents WHERE key = ?`, key); err != nil {
		return fmt.Errorf("deleting document %q: %w", key, err)
	}
	return nil
}

// Update reads the document under key, passes it to fn, and writes back the
// result, all under the store lock, so the cycle is atomic with respect to
// every other store operation. fn receives nil when no document exists.
func (s *Store) Update(key string, fn func(current []byte) ([]byte, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.get(key)
	if err != nil && !errors.Is(err, ErrNoDocument) {
		return err
	}

	next, err := fn(current)
	if err != nil {
		return err
	}

	return s.put(key, next)
}

// Close closes the underlying database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

func (s *Store) get(key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRow(`SELECT value FROM documents WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoDocument
	}
	if err != nil {
		return nil, fmt.Errorf("reading document %q: %w", key, err)
	}
	return value, nil
}

func (s *Store) put(key string, value []byte) error {
	_, err := s.db.Exec(
		`INSERT INTO documents (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("writing document %q: %w", key, err)
	}
	return nil
}
