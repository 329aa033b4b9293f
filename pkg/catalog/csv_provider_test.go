package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCatalogFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

// TestCSVProviderLoad tests loading a full catalog directory
func TestCSVProviderLoad(t *testing.T) {
	dir := t.TempDir()
	writeCatalogFile(t, dir, FramesFile,
		"id,mount_type,material,resistance_grade,price,availability\n"+
			"F1,Full-rim,Titanium,High,200,High\n"+
			"F2,Rimless,Metal,Medium,not-a-price,High\n"+
			",Rimless,Metal,Medium,90,High\n"+
			"F3,Semi-rimless,Acetate,Low,70,Baja\n")
	writeCatalogFile(t, dir, LensesFile,
		"material,id,price,refractive_index,shape,availability\n"+
			"Polycarbonate,L1,90,1.59,Single vision,High\n")
	writeCatalogFile(t, dir, CoatingsFile,
		"id,type,durability_grade,price,availability\n"+
			"C1,Anti-reflective,High,60,Medium\n")
	writeCatalogFile(t, dir, ConditionsFile,
		"name,description,recommended_frame,recommended_lens,recommended_coating,recommended_filter\n"+
			"Myopia,Nearsightedness,Titanium,Polycarbonate,Anti-reflective,UV400\n")

	provider := NewCSVProvider(dir)
	c, err := provider.Load()
	require.NoError(t, err)

	frames := c.ListFrames(nil, nil, false)
	require.Len(t, frames, 2)
	assert.Equal(t, "F1", frames[0].ID)
	assert.Equal(t, 200.0, frames[0].Price)
	assert.Equal(t, AvailabilityLow, frames[1].Availability)

	lenses := c.ListLenses(nil, nil, false)
	require.Len(t, lenses, 1)
	assert.Equal(t, 1.59, lenses[0].RefractiveIndex)
	assert.Equal(t, "Single vision", lenses[0].Shape)

	assert.Len(t, c.ListCoatings(nil, nil, false), 1)
	assert.Empty(t, c.ListFilters(nil, nil, false))

	assert.Equal(t, []string{"Myopia"}, c.ConditionNames())
	assert.Contains(t, provider.GetName(), dir)
}

// TestCSVProviderLegacyHeaders tests the legacy inventory column names
func TestCSVProviderLegacyHeaders(t *testing.T) {
	dir := t.TempDir()
	writeCatalogFile(t, dir, FramesFile,
		"id_montura,tipo_montura,material_armazon,precio_montura,disponibilidad_montura\n"+
			"M1,Completa,Titanio,150,Alta\n")
	writeCatalogFile(t, dir, LensesFile,
		"id_lente,forma_lente,material_lente,indice_refraccion,precio_lente,disponibilidad_lente\n"+
			"L1,Monofocal,Policarbonato,1.59,80,Media\n")

	c, err := NewCSVProvider(dir).Load()
	require.NoError(t, err)

	frames := c.ListFrames(nil, nil, true)
	require.Len(t, frames, 1)
	assert.Equal(t, "Titanio", frames[0].Material)
	assert.Equal(t, AvailabilityHigh, frames[0].Availability)

	lenses := c.ListLenses(nil, nil, true)
	require.Len(t, lenses, 1)
	assert.Equal(t, AvailabilityMedium, lenses[0].Availability)

	// No conditions file: built-in profiles are used
	assert.Len(t, c.ConditionNames(), len(DefaultProfiles()))
}

// TestCSVProviderMissingRequired tests that frames and lenses are mandatory
func TestCSVProviderMissingRequired(t *testing.T) {
	dir := t.TempDir()
	writeCatalogFile(t, dir, FramesFile, "id,price\nF1,10\n")

	_, err := NewCSVProvider(dir).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), LensesFile)
}
