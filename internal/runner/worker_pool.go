// Package runner executes independent optimizer restarts in parallel and
// merges their rankings. Each engine stays single-threaded; only separate
// engines run concurrently.
package runner

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/ducminhle1904/lens-optimizer/pkg/optimization"
)

// Job is one independent restart
type Job struct {
	ID    int
	RunID string
	Seed  int64
}

// Result is the outcome of one restart. When the context was cancelled Top
// holds the partial ranking and Err the context error.
type Result struct {
	Job         Job
	Top         []*optimization.Configuration
	Evolution   optimization.EvolutionStats
	Generations int
	Duration    time.Duration
	Err         error
}

// BestFitness returns the fitness of the restart's best configuration
func (r Result) BestFitness() float64 {
	if len(r.Top) == 0 {
		return 0
	}
	return r.Top[0].GetFitness()
}

// Interrupted reports whether the restart stopped on context cancellation
func (r Result) Interrupted() bool {
	return errors.Is(r.Err, context.Canceled) || errors.Is(r.Err, context.DeadlineExceeded)
}

// Usable reports whether the restart produced a ranking worth reporting
func (r Result) Usable() bool {
	return len(r.Top) > 0 && (r.Err == nil || r.Interrupted())
}

// EngineFactory builds the engine for a job
type EngineFactory func(job Job) (*optimization.Engine, error)

// Search describes the work shared by every job
type Search struct {
	Factory  EngineFactory
	PriceMin float64
	PriceMax float64
	TopN     int

	// OnComplete is called on the collecting goroutine as results arrive
	OnComplete func(Result)
}

// WorkerPool runs restarts on a fixed number of goroutines
type WorkerPool struct {
	workerCount int
}

// NewWorkerPool creates a pool; workerCount <= 0 uses one worker per CPU
func NewWorkerPool(workerCount int) *WorkerPool {
	if workerCount <= 0 {
		workerCount = runtime.NumCPU()
	}
	return &WorkerPool{workerCount: workerCount}
}

// WorkerCount returns the number of worker goroutines
func (wp *WorkerPool) WorkerCount() int {
	return wp.workerCount
}

// Run executes every job and returns the results ordered by job ID.
// Jobs not yet started when ctx is done still run; the engine checks ctx
// between generations and returns its initial ranking.
func (wp *WorkerPool) Run(ctx context.Context, jobs []Job, search Search) []Result {
	workers := wp.workerCount
	if workers > len(jobs) {
		workers = len(jobs)
	}

	jobQueue := make(chan Job, len(jobs))
	resultQueue := make(chan Result, len(jobs))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobQueue {
				resultQueue <- processJob(ctx, job, search)
			}
		}()
	}

	for _, job := range jobs {
		jobQueue <- job
	}
	close(jobQueue)

	go func() {
		wg.Wait()
		close(resultQueue)
	}()

	results := make([]Result, 0, len(jobs))
	for result := range resultQueue {
		if search.OnComplete != nil {
			search.OnComplete(result)
		}
		results = append(results, result)
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Job.ID < results[j].Job.ID
	})
	return results
}

func processJob(ctx context.Context, job Job, search Search) Result {
	start := time.Now()
	result := Result{Job: job}

	engine, err := search.Factory(job)
	if err != nil {
		result.Err = fmt.Errorf("restart %d: %w", job.ID, err)
		result.Duration = time.Since(start)
		return result
	}

	_, err = engine.RunContext(ctx, search.PriceMin, search.PriceMax)
	result.Err = err
	result.Generations = engine.Generation()
	result.Duration = time.Since(start)
	if err != nil && !result.Interrupted() {
		return result
	}

	topN := search.TopN
	if topN <= 0 {
		topN = optimization.ResultCount
	}
	result.Top = engine.TopN(topN)
	result.Evolution = engine.EvolutionStats()
	return result
}

// Best returns the usable restart with the highest best fitness. Ties go to
// the lowest job ID. When no restart is usable the first error is returned.
func Best(results []Result) (*Result, error) {
	var best *Result
	for i := range results {
		r := &results[i]
		if !r.Usable() {
			continue
		}
		if best == nil || r.BestFitness() > best.BestFitness() {
			best = r
		}
	}
	if best != nil {
		return best, nil
	}

	for _, r := range results {
		if r.Err != nil {
			return nil, r.Err
		}
	}
	return nil, errors.New("no restart produced results")
}

// Merge combines the rankings of all usable restarts into the n fittest
// distinct configurations. Duplicates are detected by genotype signature.
func Merge(results []Result, n int) []*optimization.Configuration {
	seen := make(map[string]bool)
	var merged []*optimization.Configuration

	for _, r := range results {
		if !r.Usable() {
			continue
		}
		for _, cfg := range r.Top {
			sig := cfg.Signature().String()
			if seen[sig] {
				continue
			}
			seen[sig] = true
			merged = append(merged, cfg)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].GetFitness() > merged[j].GetFitness()
	})
	if n >= 0 && len(merged) > n {
		merged = merged[:n]
	}
	return merged
}

// Interrupted reports whether any restart was cancelled
func Interrupted(results []Result) bool {
	for _, r := range results {
		if r.Interrupted() {
			return true
		}
	}
	return false
}
