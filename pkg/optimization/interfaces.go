// Package optimization provides the genetic algorithm that searches for
// near-optimal frame, lens, coating and filter assemblies
package optimization

import (
	"fmt"

	opterrors "github.com/ducminhle1904/lens-optimizer/internal/errors"
)

// GA defaults
const (
	DefaultPopulationSize = 50
	DefaultGenerations    = 30
	DefaultCrossoverRate  = 0.8
	DefaultMutationRate   = 0.2
	DefaultElitismCount   = 2
	DefaultTournamentSize = 3

	// DiversityPenalty scales the fitness of tournament candidates whose
	// signature was already picked in the current selection batch
	DiversityPenalty = 0.7

	// ResultCount is the number of configurations returned by Run
	ResultCount = 5
)

// Evaluator scores a configuration and writes the score onto it
type Evaluator interface {
	Evaluate(cfg *Configuration) float64
}

// OptimizationConfig holds the configuration for the genetic algorithm
type OptimizationConfig struct {
	PopulationSize     int     `json:"population_size" yaml:"population_size"`
	Generations        int     `json:"generations" yaml:"generations"`
	CrossoverRate      float64 `json:"crossover_rate" yaml:"crossover_rate"`
	MutationRate       float64 `json:"mutation_rate" yaml:"mutation_rate"`
	ElitismCount       int     `json:"elitism_count" yaml:"elitism_count"`
	TournamentSize     int     `json:"tournament_size" yaml:"tournament_size"`
	DiversitySelection bool    `json:"diversity_selection" yaml:"diversity_selection"`
}

// DefaultOptimizationConfig returns the standard GA parameters
func DefaultOptimizationConfig() OptimizationConfig {
	return OptimizationConfig{
		PopulationSize:     DefaultPopulationSize,
		Generations:        DefaultGenerations,
		CrossoverRate:      DefaultCrossoverRate,
		MutationRate:       DefaultMutationRate,
		ElitismCount:       DefaultElitismCount,
		TournamentSize:     DefaultTournamentSize,
		DiversitySelection: true,
	}
}

// Validate checks the GA parameters
func (c OptimizationConfig) Validate() error {
	invalid := func(field string, value interface{}, msg string) error {
		return opterrors.NewConfigurationError("optimizer", "validate", fmt.Sprintf("%s %s", field, msg)).
			WithContext(field, value)
	}

	if c.PopulationSize < 2 {
		return invalid("population_size", c.PopulationSize, "must be at least 2")
	}
	if c.Generations < 1 {
		return invalid("generations", c.Generations, "must be at least 1")
	}
	if c.CrossoverRate < 0 || c.CrossoverRate > 1 {
		return invalid("crossover_rate", c.CrossoverRate, "must be between 0 and 1")
	}
	if c.MutationRate < 0 || c.MutationRate > 1 {
		return invalid("mutation_rate", c.MutationRate, "must be between 0 and 1")
	}
	if c.ElitismCount < 0 || c.ElitismCount >= c.PopulationSize {
		return invalid("elitism_count", c.ElitismCount, "must be in [0, population_size)")
	}
	if c.TournamentSize < 0 {
		return invalid("tournament_size", c.TournamentSize, "cannot be negative")
	}
	return nil
}

// tournamentSize returns the effective tournament size for a population
func (c OptimizationConfig) tournamentSize(populationSize int) int {
	size := c.TournamentSize
	if size <= 0 {
		size = DefaultTournamentSize
	}
	if size > populationSize {
		size = populationSize
	}
	return size
}

// EngineState is the lifecycle state of an Engine
type EngineState int

const (
	StateUninitialized EngineState = iota
	StateInitialized
	StateEvolving
	StateTerminal
)

func (s EngineState) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitialized:
		return "initialized"
	case StateEvolving:
		return "evolving"
	case StateTerminal:
		return "terminal"
	default:
		return "unknown"
	}
}

// EvolutionStats is the per-generation history of a run. All series have
// the same length and include generation 0.
type EvolutionStats struct {
	Generations    []int       `json:"generations"`
	BestFitness    []float64   `json:"best_fitness"`
	AverageFitness []float64   `json:"average_fitness"`
	FitnessHistory [][]float64 `json:"fitness_history,omitempty"`
}
