package optimization

import (
	"context"
	"math"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	opterrors "github.com/ducminhle1904/lens-optimizer/internal/errors"
	"github.com/ducminhle1904/lens-optimizer/internal/monitoring"
	"github.com/ducminhle1904/lens-optimizer/pkg/catalog"
)

func newTestEngine(t *testing.T, cfg OptimizationConfig, seed int64, opts ...Option) *Engine {
	t.Helper()
	cat := catalog.NewSampleCatalog()
	evaluator := NewFitnessEvaluatorFromLookup(cat, "Myopia",
		catalog.Constraints{ScreenTime: true}, catalog.PriceRange{Min: 200, Max: 600})

	engine, err := NewEngine(cat, evaluator, cfg, append([]Option{WithSeed(seed)}, opts...)...)
	require.NoError(t, err)
	return engine
}

func smallConfig() OptimizationConfig {
	cfg := DefaultOptimizationConfig()
	cfg.PopulationSize = 10
	cfg.ElitismCount = 2
	cfg.Generations = 5
	return cfg
}

// TestRunSmallPopulation tests a short run end to end
func TestRunSmallPopulation(t *testing.T) {
	engine := newTestEngine(t, smallConfig(), 42)
	assert.Equal(t, StateUninitialized, engine.State())

	results, err := engine.Run(200, 600)
	require.NoError(t, err)

	require.Len(t, results, ResultCount)
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].GetFitness(), results[i].GetFitness())
	}

	stats := engine.EvolutionStats()
	assert.Len(t, stats.BestFitness, 6)
	assert.Len(t, stats.AverageFitness, 6)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, stats.Generations)
	require.Len(t, stats.FitnessHistory, 6)
	for _, row := range stats.FitnessHistory {
		assert.Len(t, row, 10)
	}

	assert.Equal(t, StateTerminal, engine.State())
	assert.Equal(t, 5, engine.Generation())
	assert.Equal(t, results[0].GetFitness(), engine.BestIndividual().GetFitness())
	assert.NotEmpty(t, engine.RunID())
}

// TestBestFitnessNeverDecreases tests the elitism guarantee over a longer run
func TestBestFitnessNeverDecreases(t *testing.T) {
	cfg := DefaultOptimizationConfig()
	cfg.PopulationSize = 20
	cfg.Generations = 25
	cfg.MutationRate = 0.6
	engine := newTestEngine(t, cfg, 7)

	_, err := engine.Run(150, 500)
	require.NoError(t, err)

	best := engine.EvolutionStats().BestFitness
	require.Len(t, best, cfg.Generations+1)
	for i := 1; i < len(best); i++ {
		assert.GreaterOrEqual(t, best[i], best[i-1], "generation %d", i)
	}
}

// TestRunIsDeterministic tests reproducibility under a fixed seed
func TestRunIsDeterministic(t *testing.T) {
	run := func() ([]*Configuration, EvolutionStats) {
		engine := newTestEngine(t, smallConfig(), 1234)
		results, err := engine.Run(200, 600)
		require.NoError(t, err)
		return results, engine.EvolutionStats()
	}

	r1, s1 := run()
	r2, s2 := run()

	require.Len(t, r2, len(r1))
	for i := range r1 {
		assert.Equal(t, r1[i].Signature(), r2[i].Signature())
		assert.Equal(t, r1[i].GetFitness(), r2[i].GetFitness())
	}
	assert.Equal(t, s1, s2)
}

// TestPopulationShapeAcrossGenerations tests size, caps and ownership
func TestPopulationShapeAcrossGenerations(t *testing.T) {
	cfg := smallConfig()
	cfg.MutationRate = 1
	engine := newTestEngine(t, cfg, 5)
	require.NoError(t, engine.Initialize(200, 600))
	assert.Equal(t, StateInitialized, engine.State())

	for g := 0; g < 10; g++ {
		require.NoError(t, engine.Evolve())
		population := engine.Population()
		require.Len(t, population, cfg.PopulationSize)

		frames := map[*catalog.Frame]bool{}
		lenses := map[*catalog.Lens]bool{}
		for _, individual := range population {
			assertValidGenome(t, individual)
			assert.GreaterOrEqual(t, individual.GetFitness(), 0.0)
			assert.LessOrEqual(t, individual.GetFitness(), 100.0)
			if individual.Frame != nil {
				assert.False(t, frames[individual.Frame], "frame shared between configurations")
				frames[individual.Frame] = true
			}
			if individual.Lens != nil {
				assert.False(t, lenses[individual.Lens], "lens shared between configurations")
				lenses[individual.Lens] = true
			}
		}
	}
	assert.Equal(t, StateEvolving, engine.State())
}

// TestInitializeWithoutFrames tests catalog exhaustion on frames
func TestInitializeWithoutFrames(t *testing.T) {
	cat := catalog.NewMemoryCatalog()
	cat.AddLenses(catalog.Lens{ID: "L1", Material: "CR-39", Price: 50, Availability: catalog.AvailabilityHigh})
	cat.AddFrames(catalog.Frame{ID: "F1", Material: "Metal", Price: 80, Availability: catalog.AvailabilityLow})
	cat.AddProfiles(catalog.DefaultProfiles()...)

	reg := prometheus.NewRegistry()
	evaluator := NewFitnessEvaluatorFromLookup(cat, "Myopia", catalog.Constraints{}, catalog.PriceRange{Max: 500})
	engine, err := NewEngine(cat, evaluator, smallConfig(), WithSeed(1), WithMetrics(monitoring.NewOptimizerMetrics(reg)))
	require.NoError(t, err)

	err = engine.Initialize(0, 500)
	require.Error(t, err)
	assert.True(t, opterrors.IsCatalogExhausted(err))
	assert.Nil(t, engine.Population())
	assert.Nil(t, engine.BestIndividual())
	assert.Equal(t, StateUninitialized, engine.State())

	results, err := engine.Run(0, 500)
	assert.Nil(t, results)
	assert.True(t, opterrors.IsCatalogExhausted(err))

	families, err := reg.Gather()
	require.NoError(t, err)
	found := false
	for _, mf := range families {
		if mf.GetName() == "lens_optimizer_catalog_exhausted_total" {
			found = true
			assert.Equal(t, 2.0, mf.GetMetric()[0].GetCounter().GetValue())
		}
	}
	assert.True(t, found)

	// The low-availability frame becomes eligible when availability is ignored
	engine, err = NewEngine(cat, evaluator, smallConfig(), WithSeed(1), WithAvailableOnly(false))
	require.NoError(t, err)
	require.NoError(t, engine.Initialize(0, 500))
}

// TestInitializeWithoutLenses tests catalog exhaustion on lenses
func TestInitializeWithoutLenses(t *testing.T) {
	cat := catalog.NewMemoryCatalog()
	cat.AddFrames(catalog.Frame{ID: "F1", Material: "Metal", Price: 80, Availability: catalog.AvailabilityHigh})
	cat.AddLenses(catalog.Lens{ID: "L1", Material: "Glass", Price: 900, Availability: catalog.AvailabilityHigh})

	evaluator := NewFitnessEvaluator(nil, catalog.Constraints{}, catalog.PriceRange{Max: 500})
	engine, err := NewEngine(cat, evaluator, smallConfig(), WithSeed(1))
	require.NoError(t, err)

	err = engine.Initialize(0, 500)
	require.Error(t, err)
	assert.True(t, opterrors.IsCatalogExhausted(err))
	assert.Contains(t, err.Error(), "lenses")
}

// TestInitializeStrictBudget tests the bounded re-sampling fallback
func TestInitializeStrictBudget(t *testing.T) {
	cfg := smallConfig()
	cfg.PopulationSize = 30

	for _, budget := range [][2]float64{{104, 106}, {1000, 2000}} {
		engine := newTestEngine(t, cfg, 3)
		require.NoError(t, engine.Initialize(budget[0], budget[1]))
		assert.Len(t, engine.Population(), cfg.PopulationSize)
		for _, individual := range engine.Population() {
			assertValidGenome(t, individual)
		}
	}
}

// TestInitializeRejectsInvalidRange tests price range validation
func TestInitializeRejectsInvalidRange(t *testing.T) {
	engine := newTestEngine(t, smallConfig(), 1)
	err := engine.Initialize(500, 100)
	require.Error(t, err)
	assert.True(t, opterrors.IsCategory(err, opterrors.ErrorCategoryValidation))

	_, err = newTestEngine(t, smallConfig(), 1).Run(100, math.NaN())
	require.Error(t, err)
	assert.True(t, opterrors.IsCategory(err, opterrors.ErrorCategoryValidation))
}

// TestEvolveRequiresInitializedEngine tests lifecycle enforcement
func TestEvolveRequiresInitializedEngine(t *testing.T) {
	engine := newTestEngine(t, smallConfig(), 1)
	err := engine.Evolve()
	require.Error(t, err)
	assert.True(t, opterrors.IsCategory(err, opterrors.ErrorCategoryState))

	_, err = engine.Run(200, 600)
	require.NoError(t, err)
	assert.Error(t, engine.Evolve())
}

// TestRunContextCancelled tests stopping between generations
func TestRunContextCancelled(t *testing.T) {
	engine := newTestEngine(t, smallConfig(), 8)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := engine.RunContext(ctx, 200, 600)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, results, ResultCount)
	assert.Equal(t, 0, engine.Generation())
	assert.Len(t, engine.EvolutionStats().BestFitness, 1)
	assert.Equal(t, StateTerminal, engine.State())
}

// TestPlainTournamentMode tests the non-diverse selection path
func TestPlainTournamentMode(t *testing.T) {
	cfg := smallConfig()
	cfg.DiversitySelection = false
	engine := newTestEngine(t, cfg, 77)

	results, err := engine.Run(200, 600)
	require.NoError(t, err)
	assert.Len(t, results, ResultCount)

	best := engine.EvolutionStats().BestFitness
	for i := 1; i < len(best); i++ {
		assert.GreaterOrEqual(t, best[i], best[i-1])
	}
}

// TestEngineMetrics tests that a run updates the Prometheus collectors
func TestEngineMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	engine := newTestEngine(t, smallConfig(), 9, WithMetrics(monitoring.NewOptimizerMetrics(reg)))

	_, err := engine.Run(200, 600)
	require.NoError(t, err)

	values := map[string]float64{}
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			if m.GetCounter() != nil {
				values[mf.GetName()] += m.GetCounter().GetValue()
			}
			if m.GetGauge() != nil {
				values[mf.GetName()] = m.GetGauge().GetValue()
			}
		}
	}
	assert.Equal(t, 5.0, values["lens_optimizer_generations_total"])
	assert.Equal(t, 60.0, values["lens_optimizer_evaluations_total"])
	assert.Equal(t, 1.0, values["lens_optimizer_runs_total"])

	final := NewPopulation(engine.Population())
	assert.Equal(t, final.Worst().GetFitness(), values["lens_optimizer_worst_fitness"])
	assert.InDelta(t, final.FitnessStdDev(), values["lens_optimizer_fitness_stddev"], 1e-9)
	assert.LessOrEqual(t, values["lens_optimizer_worst_fitness"], values["lens_optimizer_best_fitness"])
}

// TestNewEngineValidation tests constructor argument checks
func TestNewEngineValidation(t *testing.T) {
	cat := catalog.NewSampleCatalog()
	evaluator := NewFitnessEvaluator(nil, catalog.Constraints{}, catalog.PriceRange{})

	_, err := NewEngine(nil, evaluator, DefaultOptimizationConfig())
	assert.True(t, opterrors.IsCategory(err, opterrors.ErrorCategoryConfiguration))

	_, err = NewEngine(cat, nil, DefaultOptimizationConfig())
	assert.Error(t, err)

	invalid := []func(*OptimizationConfig){
		func(c *OptimizationConfig) { c.PopulationSize = 1 },
		func(c *OptimizationConfig) { c.Generations = 0 },
		func(c *OptimizationConfig) { c.CrossoverRate = 1.1 },
		func(c *OptimizationConfig) { c.MutationRate = -0.1 },
		func(c *OptimizationConfig) { c.ElitismCount = c.PopulationSize },
		func(c *OptimizationConfig) { c.ElitismCount = -1 },
		func(c *OptimizationConfig) { c.TournamentSize = -1 },
	}
	for i, mutate := range invalid {
		cfg := DefaultOptimizationConfig()
		mutate(&cfg)
		_, err := NewEngine(cat, evaluator, cfg)
		assert.True(t, opterrors.IsCategory(err, opterrors.ErrorCategoryConfiguration), "case %d", i)
	}

	engine, err := NewEngine(cat, evaluator, DefaultOptimizationConfig(), WithRand(newTestRand(1)))
	require.NoError(t, err)
	assert.Equal(t, DefaultOptimizationConfig(), engine.Config())
	assert.Empty(t, engine.TopN(3))
}

// TestEngineStateString tests state names
func TestEngineStateString(t *testing.T) {
	assert.Equal(t, "uninitialized", StateUninitialized.String())
	assert.Equal(t, "terminal", StateTerminal.String())
	assert.Equal(t, "unknown", EngineState(42).String())
}

// TestEngineProgressAndRunID tests the per-generation callback and a fixed run ID
func TestEngineProgressAndRunID(t *testing.T) {
	var generations []int
	var bests []float64
	engine := newTestEngine(t, smallConfig(), 11,
		WithRunID("fixed-run"),
		WithProgress(func(generation int, best, average float64) {
			generations = append(generations, generation)
			bests = append(bests, best)
			assert.LessOrEqual(t, average, best+1e-9)
		}))

	assert.Equal(t, "fixed-run", engine.RunID())

	_, err := engine.Run(200, 600)
	require.NoError(t, err)

	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, generations)
	assert.Equal(t, engine.EvolutionStats().BestFitness, bests)

	unnamed := newTestEngine(t, smallConfig(), 11, WithRunID(""))
	assert.NotEmpty(t, unnamed.RunID())
}
