package optimization

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ducminhle1904/lens-optimizer/pkg/catalog"
)

func myopiaEvaluator(t *testing.T, constraints catalog.Constraints, priceRange catalog.PriceRange) *FitnessEvaluator {
	t.Helper()
	e := NewFitnessEvaluatorFromLookup(catalog.NewSampleCatalog(), "Myopia", constraints, priceRange)
	require.NotNil(t, e.Profile())
	return e
}

// TestEvaluateFullMatch tests the weighted score of a fully matching configuration
func TestEvaluateFullMatch(t *testing.T) {
	e := myopiaEvaluator(t, catalog.Constraints{}, catalog.PriceRange{Min: 400, Max: 600})
	cfg := sampleConfiguration()

	b := e.Breakdown(cfg)
	assert.InDelta(t, 1.0, b.Compatibility, 1e-9)
	assert.InDelta(t, 0.96, b.Quality, 1e-9)
	assert.InDelta(t, 0.895, b.Price, 1e-9)
	assert.Equal(t, 1.0, b.Constraints)

	fitness := e.Evaluate(cfg)
	assert.InDelta(t, 96.575, fitness, 1e-9)
	assert.Equal(t, fitness, cfg.GetFitness())
}

// TestEvaluateUnknownProfile tests that an unresolvable condition scores zero
func TestEvaluateUnknownProfile(t *testing.T) {
	e := NewFitnessEvaluatorFromLookup(catalog.NewSampleCatalog(), "Unknown condition",
		catalog.Constraints{}, catalog.PriceRange{Min: 0, Max: 1000})
	assert.Nil(t, e.Profile())

	cfg := sampleConfiguration()
	cfg.SetFitness(50)
	assert.Zero(t, e.Evaluate(cfg))
	assert.Zero(t, cfg.GetFitness())

	assert.Zero(t, NewFitnessEvaluatorFromLookup(nil, "Myopia", catalog.Constraints{}, catalog.PriceRange{}).Evaluate(cfg))
}

// TestConstraintScoreWithoutConstraints tests that no active constraint is neutral
func TestConstraintScoreWithoutConstraints(t *testing.T) {
	e := myopiaEvaluator(t, catalog.Constraints{}, catalog.PriceRange{Min: 0, Max: 100})
	assert.Equal(t, 1.0, e.constraintScore(&Configuration{}))
	assert.Equal(t, 1.0, e.constraintScore(sampleConfiguration()))
}

// TestPriceScoreBoundaries tests the in-range, below and above branches
func TestPriceScoreBoundaries(t *testing.T) {
	e := myopiaEvaluator(t, catalog.Constraints{}, catalog.PriceRange{Min: 100, Max: 300})

	assert.Equal(t, 1.0, e.priceScore(100))
	assert.Equal(t, 0.7, e.priceScore(300))
	assert.InDelta(t, 0.85, e.priceScore(200), 1e-12)
	assert.InDelta(t, 0.35, e.priceScore(50), 1e-12)
	assert.InDelta(t, 0.25, e.priceScore(450), 1e-12)
	assert.Zero(t, e.priceScore(1000))
}

// TestPriceScoreDegenerateRanges tests zero-width and zero-floor guards
func TestPriceScoreDegenerateRanges(t *testing.T) {
	e := myopiaEvaluator(t, catalog.Constraints{}, catalog.PriceRange{Min: 200, Max: 200})
	assert.Equal(t, 1.0, e.priceScore(200))
	assert.InDelta(t, 0.35, e.priceScore(100), 1e-12)

	e = myopiaEvaluator(t, catalog.Constraints{}, catalog.PriceRange{Min: 0, Max: 0})
	assert.Equal(t, 1.0, e.priceScore(0))
	assert.Zero(t, e.priceScore(10))

	e = myopiaEvaluator(t, catalog.Constraints{}, catalog.PriceRange{Min: 0, Max: 100})
	assert.Equal(t, 1.0, e.priceScore(0))
}

// TestConstraintScoreRules tests each medical constraint rule
func TestConstraintScoreRules(t *testing.T) {
	ar := catalog.Coating{ID: "C01", Type: "Anti-reflective"}
	photo := catalog.Coating{ID: "C05", Type: "Photochromic"}
	hd := catalog.Filter{ID: "T04", Type: "High definition"}
	polarized := catalog.Filter{ID: "T03", Type: "Polarized"}
	blue := catalog.Filter{ID: "T02", Type: "Blue light"}

	night := myopiaEvaluator(t, catalog.Constraints{NightDriving: true}, catalog.PriceRange{Max: 100})
	assert.InDelta(t, 1.0, night.constraintScore(&Configuration{Coatings: []catalog.Coating{ar}, Filters: []catalog.Filter{hd}}), 1e-12)
	assert.InDelta(t, 0.7, night.constraintScore(&Configuration{Coatings: []catalog.Coating{ar}}), 1e-12)
	assert.InDelta(t, 0.3, night.constraintScore(&Configuration{Filters: []catalog.Filter{hd}}), 1e-12)
	assert.Zero(t, night.constraintScore(&Configuration{}))

	mixed := myopiaEvaluator(t, catalog.Constraints{LightSensitivity: true, ScreenTime: true}, catalog.PriceRange{Max: 100})
	assert.InDelta(t, 0.5, mixed.constraintScore(&Configuration{Filters: []catalog.Filter{polarized}}), 1e-12)
	assert.InDelta(t, 1.0, mixed.constraintScore(&Configuration{Coatings: []catalog.Coating{photo}, Filters: []catalog.Filter{blue}}), 1e-12)

	outdoor := myopiaEvaluator(t, catalog.Constraints{OutdoorActivities: true}, catalog.PriceRange{Max: 100})
	assert.Equal(t, 1.0, outdoor.constraintScore(&Configuration{Coatings: []catalog.Coating{photo}}))
	assert.Equal(t, 1.0, outdoor.constraintScore(&Configuration{Filters: []catalog.Filter{{Type: "UV400"}}}))
	assert.Zero(t, outdoor.constraintScore(&Configuration{Filters: []catalog.Filter{blue}}))
}

// TestQualityScore tests quality tiers and fallbacks
func TestQualityScore(t *testing.T) {
	e := myopiaEvaluator(t, catalog.Constraints{}, catalog.PriceRange{Max: 100})

	assert.Equal(t, 0.5, e.qualityScore(&Configuration{}))

	unknownLens := &Configuration{Lens: &catalog.Lens{Material: "Mystery", RefractiveIndex: 1.67}}
	assert.Equal(t, 0.95, e.qualityScore(unknownLens))

	noIndex := &Configuration{Lens: &catalog.Lens{}}
	assert.Equal(t, 0.5, e.qualityScore(noIndex))

	ungraded := &Configuration{
		Coatings: []catalog.Coating{{Type: "Hardened", Price: 250}},
		Filters:  []catalog.Filter{{Type: "UV400", Price: 800}},
	}
	assert.InDelta(t, (0.75+1.0)/2, e.qualityScore(ungraded), 1e-12)

	graded := &Configuration{Frame: &catalog.Frame{Material: "Acetate"}, Coatings: []catalog.Coating{{DurabilityGrade: "Low", Price: 500}}}
	assert.InDelta(t, (0.7+0.5)/2, e.qualityScore(graded), 1e-12)
}

// TestCompatibilityPartialCredit tests partial matches on add-on sets
func TestCompatibilityPartialCredit(t *testing.T) {
	e := myopiaEvaluator(t, catalog.Constraints{}, catalog.PriceRange{Max: 100})

	cfg := &Configuration{
		Frame:    &catalog.Frame{MountType: "Full-rim", Material: "Acetate"},
		Lens:     &catalog.Lens{Material: "High-index"},
		Coatings: []catalog.Coating{{Type: "Anti-reflective"}},
	}
	assert.InDelta(t, 0.20+0.15, e.compatibilityScore(cfg), 1e-12)
	assert.Zero(t, e.compatibilityScore(&Configuration{}))
}

// TestFitnessAlwaysInRange tests the fitness bounds over random configurations
func TestFitnessAlwaysInRange(t *testing.T) {
	cat := catalog.NewSampleCatalog()
	pools := LoadPools(cat, nil, nil, false)
	e := NewFitnessEvaluatorFromLookup(cat, "Photophobia",
		catalog.Constraints{LightSensitivity: true, NightDriving: true}, catalog.PriceRange{Min: 150, Max: 450})
	rng := newTestRand(7)

	for i := 0; i < 500; i++ {
		f := e.Evaluate(pools.RandomConfiguration(rng))
		assert.GreaterOrEqual(t, f, 0.0)
		assert.LessOrEqual(t, f, 100.0)
	}
}

// TestFitnessWithNonFiniteBudget tests that a NaN bound cannot push fitness out of range
func TestFitnessWithNonFiniteBudget(t *testing.T) {
	cat := catalog.NewSampleCatalog()
	pools := LoadPools(cat, nil, nil, false)
	e := NewFitnessEvaluatorFromLookup(cat, "Myopia", catalog.Constraints{}, catalog.PriceRange{Min: 100, Max: math.NaN()})
	rng := newTestRand(3)

	for i := 0; i < 200; i++ {
		b := e.Breakdown(pools.RandomConfiguration(rng))
		assert.False(t, math.IsNaN(b.Fitness))
		assert.GreaterOrEqual(t, b.Fitness, 0.0)
		assert.LessOrEqual(t, b.Fitness, 100.0)
		assert.GreaterOrEqual(t, b.Price, 0.0)
	}
	assert.Zero(t, clamp01(math.NaN()))
}

// TestWeights tests weight validation
func TestWeights(t *testing.T) {
	require.NoError(t, DefaultWeights().Validate())
	assert.Error(t, Weights{Compatibility: 0.5, Quality: 0.5, Price: 0.5}.Validate())
	assert.Error(t, Weights{Compatibility: -0.2, Quality: 0.4, Price: 0.4, Constraints: 0.4}.Validate())

	e := myopiaEvaluator(t, catalog.Constraints{}, catalog.PriceRange{Max: 100})
	_, err := e.WithWeights(Weights{Price: 1})
	assert.NoError(t, err)
	_, err = e.WithWeights(Weights{Price: 2})
	assert.Error(t, err)
}
