package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestOptimizerErrorFormatting tests message rendering with and without a cause
func TestOptimizerErrorFormatting(t *testing.T) {
	err := NewCatalogError("engine", "initialize", "no frames available")
	assert.Equal(t, "[CATALOG:engine] initialize: no frames available", err.Error())
	assert.True(t, err.IsFatal())

	wrapped := NewExportError("excel", "save", fmt.Errorf("disk full"))
	assert.Contains(t, wrapped.Error(), "disk full")
	assert.False(t, wrapped.IsFatal())
	assert.Nil(t, WrapError(nil, ErrorCategoryExport, "excel", "save"))
}

// TestIsCatalogExhausted tests category detection through wrapped chains
func TestIsCatalogExhausted(t *testing.T) {
	base := NewCatalogError("engine", "initialize", "no lenses available")
	chained := fmt.Errorf("run failed: %w", base)

	assert.True(t, IsCatalogExhausted(chained))
	assert.False(t, IsCatalogExhausted(fmt.Errorf("plain")))
	assert.False(t, IsCatalogExhausted(NewConfigurationError("engine", "new", "bad")))
	assert.True(t, IsCategory(chained, ErrorCategoryCatalog))

	optErr, ok := AsOptimizerError(chained)
	require.True(t, ok)
	assert.Equal(t, "initialize", optErr.Operation)
}

// TestWithContext tests context accumulation and stable rendering
func TestWithContext(t *testing.T) {
	err := NewValidationError("config", "validate", "bad rate").
		WithContext("rate", 1.5).
		WithContext("field", "mutation_rate")

	assert.Equal(t, "field=mutation_rate rate=1.5", err.ContextString())
	assert.Empty(t, NewStateError("engine", "evolve", "not initialized").ContextString())
}

// TestErrorStats tests error bookkeeping
func TestErrorStats(t *testing.T) {
	stats := NewErrorStats(2)
	stats.RecordError(NewCatalogError("engine", "initialize", "a"))
	stats.RecordError(NewCatalogError("engine", "initialize", "b"))
	stats.RecordError(fmt.Errorf("untyped"))
	stats.RecordError(nil)

	assert.Equal(t, 3, stats.TotalErrors)
	assert.Len(t, stats.RecentErrors, 2)
	assert.InDelta(t, 2.0/3.0, stats.GetErrorRate(ErrorCategoryCatalog), 1e-9)
	assert.Equal(t, 1, stats.ErrorsByCategory[ErrorCategoryFatal])
	assert.True(t, stats.HasRecentErrors(ErrorCategoryCatalog, 1))
	assert.False(t, stats.HasRecentErrors(ErrorCategoryCatalog, 2))
}
