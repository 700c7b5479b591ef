package auth

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
)

// FileStore persists the session as a JSON file so it survives restarts.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore returns a store backed by the given path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Get reads the persisted session. Returns nil when none is stored.
func (s *FileStore) Get() (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bytes, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "reading session file")
	}

	session := &Session{}
	if err := json.Unmarshal(bytes, session); err != nil {
		return nil, errors.Wrap(err, "unmarshaling session")
	}
	if session.Token == "" {
		return nil, nil
	}
	return session, nil
}

// Set persists the session. The file is user-readable only since it holds
// a bearer token.
func (s *FileStore) Set(session *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	bytes, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshaling session")
	}
	dir, _ := filepath.Split(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(err, "creating folders")
	}
	if err := os.WriteFile(s.path, bytes, 0600); err != nil {
		return errors.Wrap(err, "writing session file")
	}
	return nil
}

// Clear removes the persisted session. Clearing an already-cleared store
// succeeds.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "removing session file")
	}
	return nil
}
