package runner

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ducminhle1904/lens-optimizer/pkg/catalog"
	"github.com/ducminhle1904/lens-optimizer/pkg/optimization"
)

func sampleFactory(t *testing.T) EngineFactory {
	t.Helper()
	cat := catalog.NewSampleCatalog()
	evaluator := optimization.NewFitnessEvaluatorFromLookup(cat, "Myopia",
		catalog.Constraints{ScreenTime: true}, catalog.PriceRange{Min: 200, Max: 600})

	cfg := optimization.DefaultOptimizationConfig()
	cfg.PopulationSize = 12
	cfg.Generations = 4

	return func(job Job) (*optimization.Engine, error) {
		return optimization.NewEngine(cat, evaluator, cfg,
			optimization.WithRunID(job.RunID), optimization.WithSeed(job.Seed))
	}
}

func jobs(n int) []Job {
	out := make([]Job, n)
	for i := range out {
		out[i] = Job{ID: i, RunID: "run", Seed: int64(100 + i)}
	}
	return out
}

// TestWorkerPoolRunsEveryJob tests that results come back ordered and complete
func TestWorkerPoolRunsEveryJob(t *testing.T) {
	pool := NewWorkerPool(2)
	assert.Equal(t, 2, pool.WorkerCount())

	completed := 0
	results := pool.Run(context.Background(), jobs(4), Search{
		Factory:    sampleFactory(t),
		PriceMin:   200,
		PriceMax:   600,
		TopN:       3,
		OnComplete: func(Result) { completed++ },
	})

	require.Len(t, results, 4)
	assert.Equal(t, 4, completed)
	for i, r := range results {
		assert.Equal(t, i, r.Job.ID)
		assert.NoError(t, r.Err)
		assert.True(t, r.Usable())
		assert.Len(t, r.Top, 3)
		assert.Equal(t, 4, r.Generations)
		assert.Len(t, r.Evolution.Generations, 5)
	}
	assert.False(t, Interrupted(results))
}

// TestWorkerPoolSeededRestartsAreReproducible tests that a seed fixes a restart's outcome
func TestWorkerPoolSeededRestartsAreReproducible(t *testing.T) {
	search := Search{Factory: sampleFactory(t), PriceMin: 200, PriceMax: 600, TopN: 5}

	first := NewWorkerPool(3).Run(context.Background(), jobs(3), search)
	second := NewWorkerPool(1).Run(context.Background(), jobs(3), search)

	for i := range first {
		assert.Equal(t, first[i].Evolution.BestFitness, second[i].Evolution.BestFitness)
		assert.Equal(t, first[i].Top[0].Signature(), second[i].Top[0].Signature())
	}
}

// TestWorkerPoolCancelled tests that cancelled restarts still return a ranking
func TestWorkerPoolCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := NewWorkerPool(0).Run(ctx, jobs(2), Search{Factory: sampleFactory(t), PriceMin: 200, PriceMax: 600})
	require.Len(t, results, 2)
	for _, r := range results {
		assert.True(t, r.Interrupted())
		assert.True(t, r.Usable())
		assert.Equal(t, 0, r.Generations)
		assert.Len(t, r.Top, optimization.ResultCount)
	}
	assert.True(t, Interrupted(results))
}

// TestWorkerPoolFactoryError tests that factory failures are reported per job
func TestWorkerPoolFactoryError(t *testing.T) {
	boom := errors.New("boom")
	results := NewWorkerPool(1).Run(context.Background(), jobs(1), Search{
		Factory: func(Job) (*optimization.Engine, error) { return nil, boom },
	})

	require.Len(t, results, 1)
	assert.ErrorIs(t, results[0].Err, boom)
	assert.False(t, results[0].Usable())

	_, err := Best(results)
	assert.ErrorIs(t, err, boom)

	_, err = Best(nil)
	assert.EqualError(t, err, "no restart produced results")
}

// TestBestAndMerge tests restart selection and ranking deduplication
func TestBestAndMerge(t *testing.T) {
	results := NewWorkerPool(2).Run(context.Background(), jobs(3), Search{
		Factory: sampleFactory(t), PriceMin: 200, PriceMax: 600, TopN: 5,
	})

	best, err := Best(results)
	require.NoError(t, err)
	for _, r := range results {
		assert.GreaterOrEqual(t, best.BestFitness(), r.BestFitness())
	}

	merged := Merge(results, 5)
	require.NotEmpty(t, merged)
	assert.LessOrEqual(t, len(merged), 5)
	assert.Equal(t, best.BestFitness(), merged[0].GetFitness())

	seen := make(map[string]bool)
	for i, cfg := range merged {
		sig := cfg.Signature().String()
		assert.False(t, seen[sig], "duplicate signature %s", sig)
		seen[sig] = true
		if i > 0 {
			assert.GreaterOrEqual(t, merged[i-1].GetFitness(), cfg.GetFitness())
		}
	}
}
