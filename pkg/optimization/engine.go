package optimization

import (
	"context"
	"math/rand"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/uuid"

	opterrors "github.com/ducminhle1904/lens-optimizer/internal/errors"
	"github.com/ducminhle1904/lens-optimizer/internal/monitoring"
	"github.com/ducminhle1904/lens-optimizer/pkg/catalog"
)

// resampleFactor bounds initial sampling at populationSize*resampleFactor draws
const resampleFactor = 10

// Engine runs the generational search. An Engine is not safe for concurrent
// use; independent engines may run in parallel.
type Engine struct {
	runID         string
	provider      catalog.Provider
	evaluator     Evaluator
	config        OptimizationConfig
	rng           *rand.Rand
	logger        logr.Logger
	metrics       *monitoring.OptimizerMetrics
	availableOnly bool
	progress      ProgressFunc

	state      EngineState
	population *Population
	pools      ComponentPools
	generation int
	stats      EvolutionStats
}

// Option configures an Engine
type Option func(*Engine)

// ProgressFunc is called after each recorded generation, including generation 0
type ProgressFunc func(generation int, best, average float64)

// WithRunID overrides the generated run identifier
func WithRunID(runID string) Option {
	return func(e *Engine) {
		if runID != "" {
			e.runID = runID
		}
	}
}

// WithProgress registers a per-generation callback
func WithProgress(fn ProgressFunc) Option {
	return func(e *Engine) {
		e.progress = fn
	}
}

// WithRand injects the random source used by every operator
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) {
		if rng != nil {
			e.rng = rng
		}
	}
}

// WithSeed seeds a private random source for reproducible runs
func WithSeed(seed int64) Option {
	return func(e *Engine) {
		e.rng = rand.New(rand.NewSource(seed))
	}
}

// WithLogger sets the structured logger
func WithLogger(logger logr.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithMetrics attaches Prometheus collectors
func WithMetrics(m *monitoring.OptimizerMetrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithAvailableOnly controls whether low-availability components are excluded
func WithAvailableOnly(availableOnly bool) Option {
	return func(e *Engine) {
		e.availableOnly = availableOnly
	}
}

// NewEngine creates an engine over a catalog and an evaluator
func NewEngine(provider catalog.Provider, evaluator Evaluator, config OptimizationConfig, opts ...Option) (*Engine, error) {
	if provider == nil {
		return nil, opterrors.NewConfigurationError("engine", "new", "catalog provider is required")
	}
	if evaluator == nil {
		return nil, opterrors.NewConfigurationError("engine", "new", "fitness evaluator is required")
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		runID:         uuid.NewString(),
		provider:      provider,
		evaluator:     evaluator,
		config:        config,
		logger:        logr.Discard(),
		availableOnly: true,
		state:         StateUninitialized,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	e.logger = e.logger.WithValues("runID", e.runID)
	return e, nil
}

// Initialize samples and evaluates the initial population and records
// generation 0. No component priced above priceMax is sampled; candidates
// whose total lies in [priceMin, priceMax] are preferred.
func (e *Engine) Initialize(priceMin, priceMax float64) error {
	budget := catalog.PriceRange{Min: priceMin, Max: priceMax}
	if err := budget.Validate(); err != nil {
		return opterrors.NewValidationError("engine", "initialize", err.Error())
	}

	initial := LoadPools(e.provider, nil, &priceMax, e.availableOnly)
	if len(initial.Frames) == 0 {
		e.metrics.RecordCatalogExhausted("frames")
		return opterrors.NewCatalogError("engine", "initialize", "no frames available in price range").
			WithContext("price_range", budget.String())
	}
	if len(initial.Lenses) == 0 {
		e.metrics.RecordCatalogExhausted("lenses")
		return opterrors.NewCatalogError("engine", "initialize", "no lenses available in price range").
			WithContext("price_range", budget.String())
	}

	e.pools = LoadPools(e.provider, nil, nil, e.availableOnly)
	e.population = NewPopulation(e.samplePopulation(initial, budget))
	e.generation = 0
	e.stats = EvolutionStats{}

	e.evaluatePopulation()
	e.recordGeneration()
	e.state = StateInitialized

	e.logger.V(1).Info("Initialized population",
		"size", e.population.Size(),
		"frames", len(initial.Frames),
		"lenses", len(initial.Lenses),
		"coatings", len(initial.Coatings),
		"filters", len(initial.Filters))
	return nil
}

// samplePopulation draws PopulationSize candidates. Draws are capped; any
// shortfall is filled with perturbed copies of accepted candidates, or with
// out-of-budget draws when none was accepted.
func (e *Engine) samplePopulation(pools ComponentPools, budget catalog.PriceRange) []*Configuration {
	size := e.config.PopulationSize
	accepted := make([]*Configuration, 0, size)
	rejected := make([]*Configuration, 0, size)

	for attempt := 0; attempt < size*resampleFactor && len(accepted) < size; attempt++ {
		candidate := pools.RandomConfiguration(e.rng)
		if budget.Contains(candidate.TotalPrice()) {
			accepted = append(accepted, candidate)
		} else if len(rejected) < size {
			rejected = append(rejected, candidate)
		}
	}

	if len(accepted) == size {
		return accepted
	}

	e.logger.V(1).Info("Budget too strict for initial sampling, filling population",
		"accepted", len(accepted), "needed", size)

	if len(accepted) == 0 {
		return rejected[:size]
	}

	valid := len(accepted)
	for len(accepted) < size {
		duplicate := accepted[e.rng.Intn(valid)].Clone()
		Mutate(duplicate, 1.0, pools, e.rng)
		accepted = append(accepted, duplicate)
	}
	return accepted
}

// Evolve advances the population by one generation
func (e *Engine) Evolve() error {
	if e.state != StateInitialized && e.state != StateEvolving {
		return opterrors.NewStateError("engine", "evolve", "engine is "+e.state.String())
	}

	size := e.config.PopulationSize
	e.population.SortByFitness()
	current := e.population.Individuals()

	next := make([]*Configuration, 0, size)
	for i := 0; i < e.config.ElitismCount && i < len(current); i++ {
		next = append(next, current[i].Clone())
	}

	offspring := size - len(next)
	parents := e.selectParents((offspring+1)/2*2)

	for i := 0; i+1 < len(parents) && len(next) < size; i += 2 {
		child1, child2 := Crossover(parents[i], parents[i+1], e.config.CrossoverRate, e.rng)
		Mutate(child1, e.config.MutationRate, e.pools, e.rng)
		Mutate(child2, e.config.MutationRate, e.pools, e.rng)

		next = append(next, child1)
		if len(next) < size {
			next = append(next, child2)
		}
	}

	e.population = NewPopulation(next)
	e.evaluatePopulation()
	e.generation++
	e.recordGeneration()
	e.state = StateEvolving

	if e.logger.V(2).Enabled() {
		for _, cfg := range next {
			if err := cfg.Validate(); err != nil {
				e.logger.Error(err, "Invalid configuration in population", "signature", cfg.Signature().String())
			}
		}
	}
	return nil
}

func (e *Engine) selectParents(n int) []*Configuration {
	individuals := e.population.Individuals()
	tournament := e.config.tournamentSize(len(individuals))

	if e.config.DiversitySelection {
		return selectDiverseParents(individuals, n, tournament, e.rng)
	}

	parents := make([]*Configuration, n)
	for i := range parents {
		parents[i] = TournamentSelect(individuals, tournament, e.rng)
	}
	return parents
}

// Run executes a complete search and returns the best ResultCount configurations
func (e *Engine) Run(priceMin, priceMax float64) ([]*Configuration, error) {
	return e.RunContext(context.Background(), priceMin, priceMax)
}

// RunContext is Run with a cancellation check between generations. When ctx
// is done the current ranking is returned together with ctx.Err().
func (e *Engine) RunContext(ctx context.Context, priceMin, priceMax float64) ([]*Configuration, error) {
	start := time.Now()
	e.logger.Info("Starting optimization",
		"population", e.config.PopulationSize,
		"generations", e.config.Generations,
		"priceMin", priceMin,
		"priceMax", priceMax)

	if err := e.Initialize(priceMin, priceMax); err != nil {
		outcome := "failure"
		if opterrors.IsCatalogExhausted(err) {
			outcome = "catalog_exhausted"
		}
		e.metrics.RecordRun(outcome, time.Since(start))
		return nil, err
	}

	var runErr error
	for g := 0; g < e.config.Generations; g++ {
		if err := ctx.Err(); err != nil {
			e.logger.Info("Optimization stopped early", "generation", e.generation, "reason", err.Error())
			runErr = err
			break
		}
		if err := e.Evolve(); err != nil {
			return nil, err
		}
	}

	e.population.SortByFitness()
	e.state = StateTerminal

	outcome := "success"
	if runErr != nil {
		outcome = "cancelled"
	}
	e.metrics.RecordRun(outcome, time.Since(start))

	best := e.population.Best()
	e.logger.Info("Optimization finished",
		"generations", e.generation,
		"bestFitness", best.GetFitness(),
		"bestPrice", best.TotalPrice(),
		"duration", time.Since(start).String())

	return e.population.TopN(ResultCount), runErr
}

func (e *Engine) evaluatePopulation() {
	for _, cfg := range e.population.Individuals() {
		e.evaluator.Evaluate(cfg)
	}
	e.metrics.RecordEvaluations(e.population.Size())
}

func (e *Engine) recordGeneration() {
	best := e.population.Best().GetFitness()
	avg := e.population.AverageFitness()

	e.stats.Generations = append(e.stats.Generations, e.generation)
	e.stats.BestFitness = append(e.stats.BestFitness, best)
	e.stats.AverageFitness = append(e.stats.AverageFitness, avg)
	e.stats.FitnessHistory = append(e.stats.FitnessHistory, e.population.Fitnesses())

	worst := e.population.Worst().GetFitness()
	stddev := e.population.FitnessStdDev()
	diversity := e.population.UniqueSignatures()
	e.metrics.ObserveGeneration(e.generation, best, avg, diversity)
	e.metrics.ObserveSpread(worst, stddev)
	if e.progress != nil {
		e.progress(e.generation, best, avg)
	}
	e.logger.V(1).Info("Generation complete",
		"generation", e.generation,
		"best", best,
		"average", avg,
		"worst", worst,
		"stddev", stddev,
		"diversity", diversity)
}

// RunID returns the unique identifier of this engine's run
func (e *Engine) RunID() string {
	return e.runID
}

// State returns the lifecycle state
func (e *Engine) State() EngineState {
	return e.state
}

// Generation returns the number of completed evolutions
func (e *Engine) Generation() int {
	return e.generation
}

// Config returns the GA parameters
func (e *Engine) Config() OptimizationConfig {
	return e.config
}

// BestIndividual returns the fittest configuration, or nil before Initialize
func (e *Engine) BestIndividual() *Configuration {
	if e.population == nil {
		return nil
	}
	return e.population.Best()
}

// TopN returns the n fittest configurations in descending order
func (e *Engine) TopN(n int) []*Configuration {
	if e.population == nil {
		return []*Configuration{}
	}
	return e.population.TopN(n)
}

// Population returns the current individuals
func (e *Engine) Population() []*Configuration {
	if e.population == nil {
		return nil
	}
	individuals := make([]*Configuration, e.population.Size())
	copy(individuals, e.population.Individuals())
	return individuals
}

// EvolutionStats returns a copy of the per-generation history
func (e *Engine) EvolutionStats() EvolutionStats {
	stats := EvolutionStats{
		Generations:    append([]int(nil), e.stats.Generations...),
		BestFitness:    append([]float64(nil), e.stats.BestFitness...),
		AverageFitness: append([]float64(nil), e.stats.AverageFitness...),
		FitnessHistory: make([][]float64, len(e.stats.FitnessHistory)),
	}
	for i, row := range e.stats.FitnessHistory {
		stats.FitnessHistory[i] = append([]float64(nil), row...)
	}
	return stats
}
