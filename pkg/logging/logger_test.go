package logging

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunID_StableWithinProcess(t *testing.T) {
	assert.Equal(t, RunID(), RunID())
	assert.NotEmpty(t, RunID())
}

func TestLogger_WritesComponentTaggedLines(t *testing.T) {
	dir := t.TempDir()

	logger, err := NewLogger(dir, "driver")
	require.NoError(t, err)
	defer logger.Close()

	logger.Infof("searched %d of %d", 3, 90)
	logger.Errorf("candidate %s failed", "0123333")
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(logger.LogPath())
	require.NoError(t, err)
	content := string(data)

	assert.Contains(t, content, "[driver]")
	assert.Contains(t, content, "[INFO] searched 3 of 90")
	assert.Contains(t, content, "[ERROR] candidate 0123333 failed")
}

func TestLogger_ComponentsShareRunFile(t *testing.T) {
	dir := t.TempDir()

	a, err := NewLogger(dir, "driver")
	require.NoError(t, err)
	defer a.Close()
	b, err := NewLogger(dir, "browser")
	require.NoError(t, err)
	defer b.Close()

	assert.Equal(t, a.LogPath(), b.LogPath())
}

func TestResultLog_AppendsOneLinePerResult(t *testing.T) {
	path := t.TempDir() + "/results.log"

	results, err := OpenResultLog(path)
	require.NoError(t, err)

	at := time.Date(2025, 3, 9, 14, 30, 0, 0, time.UTC)
	require.NoError(t, results.Record(at, "0123333", "shots/0123333-x.png", "1 number\navailable"))
	require.NoError(t, results.Record(at, "0213333", "shots/0213333-x.png", "ready"))
	require.NoError(t, results.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)

	fields := strings.Split(lines[0], "\t")
	require.Len(t, fields, 4)
	assert.Equal(t, "2025-03-09T14:30:00Z", fields[0])
	assert.Equal(t, "0123333", fields[1])
	assert.Equal(t, "shots/0123333-x.png", fields[2])
	assert.Equal(t, "1 number available", fields[3], "summary newline flattened")
}

func TestResultLog_AppendsAcrossOpens(t *testing.T) {
	path := t.TempDir() + "/results.log"

	first, err := OpenResultLog(path)
	require.NoError(t, err)
	require.NoError(t, first.Record(time.Now(), "111", "a.png", ""))
	require.NoError(t, first.Close())

	second, err := OpenResultLog(path)
	require.NoError(t, err)
	require.NoError(t, second.Record(time.Now(), "222", "b.png", ""))
	require.NoError(t, second.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(data), "\n"))
}
