package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/bmihaylov/wordmail/internal"
)

// Store persists the SentState as a single pretty-printed JSON document.
// Every write replaces the whole file through a temp-file rename, so a
// process kill mid-write can never leave a truncated state behind.
type Store struct {
	path string
}

// NewStore creates a store backed by the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// ErrCorrupt is wrapped into the error returned by Load when the state file
// exists but cannot be parsed.
var ErrCorrupt = errors.New("state file is corrupt")

// Load reads the persisted state. A missing file yields an empty fresh
// state. A corrupt file is reported via ErrCorrupt so the caller can decide
// to start fresh; losing the sent history is safer than blocking every
// future run.
func (s *Store) Load() (*SentState, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return NewSentState(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}

	var st SentState
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if st.Blocked == nil {
		st.Blocked = make(map[string]BlockedEntry)
	}

	return &st, nil
}

// Save writes the full state snapshot atomically.
func (s *Store) Save(st *SentState) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	if err := internal.WriteFileAtomic(s.path, append(data, '\n')); err != nil {
		return fmt.Errorf("failed to save state: %w", err)
	}
	return nil
}
