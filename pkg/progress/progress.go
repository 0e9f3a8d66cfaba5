// Package progress persists which candidates have already been searched for
// a given configuration, so interrupted runs resume where they left off.
// Each (template, exclusion) configuration maps to its own record file; two
// configurations never share progress state.
package progress

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// ConfigKey derives the storage key for a configuration. The key encodes
// both the template and the exclusion flag so the same configuration always
// resolves to the same record and distinct configurations never collide.
func ConfigKey(template string, excludeFour bool) string {
	if excludeFour {
		return template + "-no4"
	}
	return template + "-all"
}

// Store reads and writes the searched-candidate set for one configuration.
type Store struct {
	path string
}

// NewStore creates a store rooted at stateDir, creating the directory if it
// does not exist yet.
func NewStore(stateDir, configKey string) (*Store, error) {
	if err := os.MkdirAll(stateDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create state directory %s: %w", stateDir, err)
	}
	return &Store{path: filepath.Join(stateDir, configKey+".json")}, nil
}

// Path returns the record file path.
func (s *Store) Path() string { return s.path }

// Load returns the persisted searched set. A missing record file means no
// prior run exists for this configuration and yields an empty set; any other
// read or decode failure is a real error and propagates.
func (s *Store) Load() (map[string]struct{}, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]struct{}{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read progress record %s: %w", s.path, err)
	}

	var candidates []string
	if err := json.Unmarshal(data, &candidates); err != nil {
		return nil, fmt.Errorf("failed to decode progress record %s: %w", s.path, err)
	}

	searched := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		searched[c] = struct{}{}
	}
	return searched, nil
}

// Save writes the complete searched set and atomically replaces the previous
// record. The full new state goes to a temp file in the same directory first
// and is then renamed over the record, so a reader never observes a partial
// write even if the process dies mid-save.
func (s *Store) Save(searched map[string]struct{}) error {
	candidates := make([]string, 0, len(searched))
	for c := range searched {
		candidates = append(candidates, c)
	}
	sort.Strings(candidates)

	data, err := json.MarshalIndent(candidates, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode progress record: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write progress record %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace progress record %s: %w", s.path, err)
	}
	return nil
}

// Remaining returns every universe candidate not yet in searched, exactly
// once, in universe order.
func Remaining(universe []string, searched map[string]struct{}) []string {
	remaining := make([]string, 0, len(universe))
	for _, c := range universe {
		if _, ok := searched[c]; !ok {
			remaining = append(remaining, c)
		}
	}
	return remaining
}

// Tracker couples the in-memory searched set with its store. Every mark is
// persisted immediately, never batched, so at most one attempt is lost on
// abrupt termination.
type Tracker struct {
	store    *Store
	searched map[string]struct{}
}

// NewTracker loads the persisted record for the store's configuration.
func NewTracker(store *Store) (*Tracker, error) {
	searched, err := store.Load()
	if err != nil {
		return nil, err
	}
	return &Tracker{store: store, searched: searched}, nil
}

// SearchedCount returns how many candidates have been attempted so far.
func (t *Tracker) SearchedCount() int { return len(t.searched) }

// Contains reports whether candidate has already been attempted.
func (t *Tracker) Contains(candidate string) bool {
	_, ok := t.searched[candidate]
	return ok
}

// MarkSearched records one completed attempt and persists the grown set
// before returning.
func (t *Tracker) MarkSearched(candidate string) error {
	t.searched[candidate] = struct{}{}
	return t.store.Save(t.searched)
}

// Remaining filters universe against the searched set.
func (t *Tracker) Remaining(universe []string) []string {
	return Remaining(universe, t.searched)
}
