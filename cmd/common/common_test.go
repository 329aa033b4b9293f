package common

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
)

// TestLoggerLevels tests silent mode and level filtering
func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerTo(&buf)

	l.Info("loaded %d frames", 8)
	l.Debug("hidden")
	assert.Contains(t, buf.String(), "loaded 8 frames")
	assert.NotContains(t, buf.String(), "hidden")

	buf.Reset()
	l.SilentMode = true
	l.Info("quiet")
	l.Success("quiet")
	l.Error("boom")
	assert.NotContains(t, buf.String(), "quiet")
	assert.Contains(t, buf.String(), "boom")

	buf.Reset()
	l.SilentMode = false
	l.ShowEmojis = false
	l.Warn("careful")
	assert.Contains(t, buf.String(), "[WARN]  careful")
}

// TestFlagValidator tests error accumulation
func TestFlagValidator(t *testing.T) {
	v := NewFlagValidator().
		ValidateInt("population", 50, 2, 100).
		ValidateFloat("mutation", 0.2, 0, 1)
	assert.False(t, v.HasErrors())
	assert.NoError(t, v.GetError())

	v.ValidateFloat("crossover", 1.5, 0, 1)
	assert.EqualError(t, v.GetError(), "validation error: crossover must be between 0.0000 and 1.0000, got: 1.5000")

	dir := t.TempDir()
	v.ValidateDirectory("catalog-dir", filepath.Join(dir, "missing"), false).
		ValidateFile("config", "", true)
	assert.Contains(t, v.GetError().Error(), "catalog-dir directory does not exist")
	assert.Contains(t, v.GetError().Error(), "config is required")
}

// TestUsageFormatter tests usage output
func TestUsageFormatter(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Int("population", 50, "Population size")

	var buf bytes.Buffer
	NewUsageFormatter("Lens Optimizer", "search assemblies").
		AddExample("lens-optimizer --condition Myopia", "Optimize for myopia").
		PrintUsage(&buf, fs)

	out := buf.String()
	assert.Contains(t, out, "Lens Optimizer - search assemblies")
	assert.Contains(t, out, "# Optimize for myopia")
	assert.Contains(t, out, "--population")
}

// TestFormatters tests duration and currency formatting
func TestFormatters(t *testing.T) {
	assert.Equal(t, "250ms", FormatDuration(250*time.Millisecond))
	assert.Equal(t, "1.5s", FormatDuration(1500*time.Millisecond))
	assert.Equal(t, "2.0m", FormatDuration(2*time.Minute))
	assert.Equal(t, "$12.50", FormatCurrency(12.5))

	var buf bytes.Buffer
	PrintVersion(&buf, "lens-optimizer")
	assert.Contains(t, buf.String(), "lens-optimizer v"+ProjectVersion)
	assert.Contains(t, buf.String(), "(development build)")

	commit := BuildCommit
	BuildCommit = "abc1234"
	defer func() { BuildCommit = commit }()

	buf.Reset()
	PrintVersion(&buf, "lens-optimizer")
	assert.False(t, IsDevBuild())
	assert.NotContains(t, buf.String(), "development build")
	assert.Contains(t, buf.String(), "Build: abc1234")
}
