package catalog

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }

// TestMemoryCatalogFilters tests price and availability filtering
func TestMemoryCatalogFilters(t *testing.T) {
	c := NewSampleCatalog()

	all := c.ListFrames(nil, nil, false)
	assert.Len(t, all, 8)

	available := c.ListFrames(nil, nil, true)
	assert.Len(t, available, 7)
	for _, f := range available {
		assert.NotEqual(t, AvailabilityLow, f.Availability)
	}

	cheap := c.ListLenses(nil, floatPtr(100), false)
	for _, l := range cheap {
		assert.LessOrEqual(t, l.Price, 100.0)
	}
	assert.Len(t, cheap, 3)

	bounded := c.ListCoatings(floatPtr(40), floatPtr(80), true)
	for _, ct := range bounded {
		assert.GreaterOrEqual(t, ct.Price, 40.0)
		assert.LessOrEqual(t, ct.Price, 80.0)
	}

	none := c.ListFilters(floatPtr(1000), nil, false)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

// TestMemoryCatalogReturnsCopies tests that callers cannot mutate stored records
func TestMemoryCatalogReturnsCopies(t *testing.T) {
	c := NewSampleCatalog()

	frames := c.ListFrames(nil, nil, false)
	frames[0].Price = 1

	again := c.ListFrames(nil, nil, false)
	assert.Equal(t, 240.0, again[0].Price)
}

// TestFindProfile tests case-insensitive condition lookup
func TestFindProfile(t *testing.T) {
	c := NewSampleCatalog()

	p, ok := c.FindProfile("  myopia ")
	require.True(t, ok)
	assert.Equal(t, "Myopia", p.Name)
	assert.Equal(t, []string{"titanium", "tr-90"}, p.FrameKeys())

	_, ok = c.FindProfile("Unknown")
	assert.False(t, ok)

	names := c.ConditionNames()
	assert.Len(t, names, 10)
	assert.Equal(t, "Myopia", names[0])

	sorted := c.SortedConditionNames()
	assert.Equal(t, "Astigmatism", sorted[0])
}

// TestAddProfilesReplaces tests that a repeated name replaces the profile in place
func TestAddProfilesReplaces(t *testing.T) {
	c := NewMemoryCatalog()
	c.AddProfiles(
		ConditionProfile{Name: "Dry Eye", RecommendedLens: "Trivex"},
		ConditionProfile{Name: "dry eye", RecommendedLens: "Glass"},
	)

	assert.Equal(t, []string{"Dry Eye"}, c.ConditionNames())
	p, ok := c.FindProfile("DRY EYE")
	require.True(t, ok)
	assert.Equal(t, "Glass", p.RecommendedLens)
	assert.Equal(t, 1, c.Stats()["conditions"])
}

// TestSplitKeys tests recommendation key parsing
func TestSplitKeys(t *testing.T) {
	assert.Equal(t, []string{"uv400", "polarized"}, SplitKeys(" UV400 ; Polarized,"))
	assert.Empty(t, SplitKeys(""))
	assert.Empty(t, SplitKeys(" , ;"))
}

// TestParseAvailability tests availability parsing with legacy labels
func TestParseAvailability(t *testing.T) {
	assert.Equal(t, AvailabilityHigh, ParseAvailability("High"))
	assert.Equal(t, AvailabilityHigh, ParseAvailability("alta"))
	assert.Equal(t, AvailabilityLow, ParseAvailability(" LOW "))
	assert.Equal(t, AvailabilityLow, ParseAvailability("Baja"))
	assert.Equal(t, AvailabilityMedium, ParseAvailability("whatever"))
	assert.True(t, AvailabilityMedium.IsAvailable())
	assert.False(t, AvailabilityLow.IsAvailable())
}

// TestPriceRange tests price range validation and containment
func TestPriceRange(t *testing.T) {
	r := PriceRange{Min: 100, Max: 300}
	require.NoError(t, r.Validate())
	assert.True(t, r.Contains(100))
	assert.True(t, r.Contains(300))
	assert.False(t, r.Contains(301))

	assert.Error(t, PriceRange{Min: 300, Max: 100}.Validate())
	assert.Error(t, PriceRange{Min: -1, Max: 100}.Validate())
	assert.Error(t, PriceRange{Min: 100, Max: math.NaN()}.Validate())
	assert.Error(t, PriceRange{Min: math.NaN(), Max: 300}.Validate())
	assert.Error(t, PriceRange{Min: 100, Max: math.Inf(1)}.Validate())
}

// TestConstraintsActive tests the fixed ordering of active constraints
func TestConstraintsActive(t *testing.T) {
	c := Constraints{NightDriving: true, LightSensitivity: true}
	assert.Equal(t, []Constraint{ConstraintLightSensitivity, ConstraintNightDriving}, c.Active())
	assert.Equal(t, 2, c.Count())
	assert.Zero(t, Constraints{}.Count())
}
