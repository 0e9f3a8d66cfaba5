package progress

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigKey(t *testing.T) {
	assert.Equal(t, "abc3333-all", ConfigKey("abc3333", false))
	assert.Equal(t, "abc3333-no4", ConfigKey("abc3333", true))

	// Same template with different flags must never share a record.
	assert.NotEqual(t, ConfigKey("abc3333", false), ConfigKey("abc3333", true))
	// Different templates must never share a record.
	assert.NotEqual(t, ConfigKey("abc3333", false), ConfigKey("abd3333", false))
}

func TestStore_LoadMissingRecord(t *testing.T) {
	store, err := NewStore(t.TempDir(), "abc3333-all")
	require.NoError(t, err)

	searched, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, searched)
}

func TestStore_LoadCorruptRecord(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir, "abc3333-all")
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(store.Path(), []byte("{not json"), 0600))

	_, err = store.Load()
	assert.Error(t, err)
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	store, err := NewStore(t.TempDir(), "aaaabbb-no4")
	require.NoError(t, err)

	searched := map[string]struct{}{
		"0000111": {},
		"9999888": {},
		"1111222": {},
	}
	require.NoError(t, store.Save(searched))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, searched, loaded)
}

func TestStore_SaveLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir, "a55-all")
	require.NoError(t, err)

	require.NoError(t, store.Save(map[string]struct{}{"155": {}}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, filepath.Base(store.Path()), entries[0].Name())
}

func TestRemaining(t *testing.T) {
	universe := []string{"111", "222", "333", "444"}
	searched := map[string]struct{}{
		"222": {},
		"444": {},
		"999": {}, // outside the universe, ignored
	}

	remaining := Remaining(universe, searched)
	assert.Equal(t, []string{"111", "333"}, remaining)

	// remaining ∪ searched covers the universe; remaining ∩ searched = ∅.
	for _, c := range remaining {
		_, ok := searched[c]
		assert.False(t, ok)
	}
	assert.Len(t, remaining, len(universe)-2)
}

func TestRemaining_EmptyRecordYieldsFullUniverse(t *testing.T) {
	universe := []string{"111", "222", "333"}
	assert.Equal(t, universe, Remaining(universe, map[string]struct{}{}))
}

func TestTracker_MarkSearchedPersistsImmediately(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir, "ab5-all")
	require.NoError(t, err)

	tracker, err := NewTracker(store)
	require.NoError(t, err)
	assert.Equal(t, 0, tracker.SearchedCount())

	require.NoError(t, tracker.MarkSearched("015"))
	assert.True(t, tracker.Contains("015"))
	assert.Equal(t, 1, tracker.SearchedCount())

	// A fresh load for the same configKey sees exactly that one candidate.
	reloaded, err := NewStore(dir, "ab5-all")
	require.NoError(t, err)
	searched, err := reloaded.Load()
	require.NoError(t, err)
	assert.Equal(t, map[string]struct{}{"015": {}}, searched)
}

func TestTracker_RemainingShrinksAsMarked(t *testing.T) {
	store, err := NewStore(t.TempDir(), "ab5-all")
	require.NoError(t, err)

	tracker, err := NewTracker(store)
	require.NoError(t, err)

	universe := []string{"015", "105", "235"}
	require.Len(t, tracker.Remaining(universe), 3)

	require.NoError(t, tracker.MarkSearched("105"))
	assert.Equal(t, []string{"015", "235"}, tracker.Remaining(universe))
}
