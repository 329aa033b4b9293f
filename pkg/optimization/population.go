package optimization

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Population is an ordered collection of configurations
type Population struct {
	individuals []*Configuration
}

// NewPopulation creates a population with the given individuals
func NewPopulation(individuals []*Configuration) *Population {
	return &Population{
		individuals: individuals,
	}
}

// Individuals returns the configurations in their current order
func (p *Population) Individuals() []*Configuration {
	return p.individuals
}

// Size returns the number of individuals in the population
func (p *Population) Size() int {
	return len(p.individuals)
}

// Best returns the individual with the highest fitness; ties go to the earliest
func (p *Population) Best() *Configuration {
	if len(p.individuals) == 0 {
		return nil
	}

	best := p.individuals[0]
	for _, individual := range p.individuals[1:] {
		if individual.GetFitness() > best.GetFitness() {
			best = individual
		}
	}
	return best
}

// Worst returns the individual with the lowest fitness
func (p *Population) Worst() *Configuration {
	if len(p.individuals) == 0 {
		return nil
	}

	worst := p.individuals[0]
	for _, individual := range p.individuals[1:] {
		if individual.GetFitness() < worst.GetFitness() {
			worst = individual
		}
	}
	return worst
}

// SortByFitness sorts the population by fitness in descending order (best
// first). Equal fitness keeps the current relative order.
func (p *Population) SortByFitness() {
	sort.SliceStable(p.individuals, func(i, j int) bool {
		return p.individuals[i].GetFitness() > p.individuals[j].GetFitness()
	})
}

// TopN returns the n fittest individuals without reordering the population
func (p *Population) TopN(n int) []*Configuration {
	if n <= 0 {
		return []*Configuration{}
	}
	sorted := make([]*Configuration, len(p.individuals))
	copy(sorted, p.individuals)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].GetFitness() > sorted[j].GetFitness()
	})
	if n > len(sorted) {
		n = len(sorted)
	}
	return sorted[:n]
}

// Fitnesses returns the fitness values in population order
func (p *Population) Fitnesses() []float64 {
	values := make([]float64, len(p.individuals))
	for i, individual := range p.individuals {
		values[i] = individual.GetFitness()
	}
	return values
}

// AverageFitness calculates the average fitness of all individuals
func (p *Population) AverageFitness() float64 {
	if len(p.individuals) == 0 {
		return 0.0
	}
	return stat.Mean(p.Fitnesses(), nil)
}

// FitnessStdDev returns the sample standard deviation of fitness
func (p *Population) FitnessStdDev() float64 {
	if len(p.individuals) < 2 {
		return 0.0
	}
	return stat.StdDev(p.Fitnesses(), nil)
}

// UniqueSignatures counts the distinct genotypes in the population
func (p *Population) UniqueSignatures() int {
	seen := make(map[GenotypeSignature]struct{}, len(p.individuals))
	for _, individual := range p.individuals {
		seen[individual.Signature()] = struct{}{}
	}
	return len(seen)
}
