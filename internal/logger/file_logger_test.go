package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSessionLog tests header, entries and footer of a session file
func TestSessionLog(t *testing.T) {
	dir := t.TempDir()
	l, err := NewLogger(dir, "Digital Eye Strain", "0123456789abcdef")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(filepath.Base(l.GetLogPath()), "digital_eye_strain_01234567_"))

	l.Info("Loaded %d frames", 8)
	l.Warning("budget is narrow")
	l.LogError("export", fmt.Errorf("disk full"))
	l.LogResult(1, "F01|L02|C01|T01", 91.25, 420)
	l.LogRunSummary(30, 91.25, 77.1, 1500*time.Millisecond)
	require.NoError(t, l.Close())
	require.NoError(t, l.Close())

	content, err := os.ReadFile(l.GetLogPath())
	require.NoError(t, err)
	text := string(content)

	assert.Contains(t, text, "LENS OPTIMIZATION SESSION STARTED")
	assert.Contains(t, text, "Condition: Digital Eye Strain")
	assert.Contains(t, text, "[INFO] Loaded 8 frames")
	assert.Contains(t, text, "[WARN] budget is narrow")
	assert.Contains(t, text, "[ERROR] export: disk full")
	assert.Contains(t, text, "[RESULT] #1 F01|L02|C01|T01 | fitness 91.25 | price $420.00")
	assert.Contains(t, text, "Generations: 30")
	assert.Contains(t, text, "SESSION ENDED")
}

// TestLogrForwarding tests that structured records reach the session file
func TestLogrForwarding(t *testing.T) {
	dir := t.TempDir()
	l, err := NewLogger(dir, "", "run")
	require.NoError(t, err)

	log := l.Logr(1).WithName("engine")
	log.Info("Generation complete", "generation", 3, "best", 88.5)
	log.V(1).Info("Verbose detail")
	log.V(2).Info("Dropped detail")
	require.NoError(t, l.Close())

	content, err := os.ReadFile(l.GetLogPath())
	require.NoError(t, err)
	text := string(content)

	assert.True(t, strings.HasPrefix(filepath.Base(l.GetLogPath()), "session_run_"))
	assert.Contains(t, text, "[ENGINE] engine:")
	assert.Contains(t, text, `"generation"=3`)
	assert.Contains(t, text, "Verbose detail")
	assert.NotContains(t, text, "Dropped detail")
}
