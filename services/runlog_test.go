package services

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRunLogWritesPerRunFile(t *testing.T) {
	dir := t.TempDir()
	log, err := NewRunLog(dir, "visit", zap.NewNop())
	require.NoError(t, err)
	assert.NotEmpty(t, log.RunID)

	log.Info("No contact found with sample_id: SAMPLE-1")
	log.Warn("used today")
	log.Close()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasPrefix(entries[0].Name(), "visit_migration_"))
	assert.True(t, strings.HasSuffix(entries[0].Name(), ".log"))

	content, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "INFO\tNo contact found with sample_id: SAMPLE-1")
	assert.Contains(t, lines[1], "WARNING\tused today")
}

func TestRunLogCloseIsIdempotent(t *testing.T) {
	log, err := NewRunLog(t.TempDir(), "communication", zap.NewNop())
	require.NoError(t, err)
	log.Close()
	log.Close()
	// nach dem Schließen gehen Zeilen nur noch ins strukturierte Log
	log.Info("late message")
}
