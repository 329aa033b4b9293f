package optimization

import (
	"math/rand"

	"github.com/ducminhle1904/lens-optimizer/pkg/catalog"
)

// ComponentPools are the catalog records available to sampling and mutation
type ComponentPools struct {
	Frames   []catalog.Frame
	Lenses   []catalog.Lens
	Coatings []catalog.Coating
	Filters  []catalog.Filter
}

// LoadPools queries every component family from the provider
func LoadPools(provider catalog.Provider, priceMin, priceMax *float64, availableOnly bool) ComponentPools {
	return ComponentPools{
		Frames:   provider.ListFrames(priceMin, priceMax, availableOnly),
		Lenses:   provider.ListLenses(priceMin, priceMax, availableOnly),
		Coatings: provider.ListCoatings(priceMin, priceMax, availableOnly),
		Filters:  provider.ListFilters(priceMin, priceMax, availableOnly),
	}
}

// RandomConfiguration samples a configuration: one frame, one lens, up to
// MaxCoatings coatings and MaxFilters filters with unique types
func (p ComponentPools) RandomConfiguration(rng *rand.Rand) *Configuration {
	cfg := &Configuration{}
	if len(p.Frames) > 0 {
		f := p.Frames[rng.Intn(len(p.Frames))]
		cfg.Frame = &f
	}
	if len(p.Lenses) > 0 {
		l := p.Lenses[rng.Intn(len(p.Lenses))]
		cfg.Lens = &l
	}
	cfg.Coatings = sampleUnique(p.Coatings, MaxCoatings, func(c catalog.Coating) string { return c.Type }, rng)
	cfg.Filters = sampleUnique(p.Filters, MaxFilters, func(f catalog.Filter) string { return f.Type }, rng)
	return cfg
}

// sampleUnique draws 0..min(limit, len(pool)) records without replacement,
// skipping records whose type is already taken
func sampleUnique[T any](pool []T, limit int, typeOf func(T) string, rng *rand.Rand) []T {
	if len(pool) == 0 {
		return nil
	}
	if limit > len(pool) {
		limit = len(pool)
	}
	want := rng.Intn(limit + 1)
	if want == 0 {
		return nil
	}

	picked := make([]T, 0, want)
	seen := make(map[string]bool, want)
	for _, idx := range rng.Perm(len(pool)) {
		item := pool[idx]
		key := catalog.TypeKey(typeOf(item))
		if seen[key] {
			continue
		}
		seen[key] = true
		picked = append(picked, item)
		if len(picked) == want {
			break
		}
	}
	return picked
}

// TournamentSelect picks the fittest of tournamentSize distinct random members.
// Ties go to the first member drawn.
func TournamentSelect(population []*Configuration, tournamentSize int, rng *rand.Rand) *Configuration {
	if len(population) == 0 {
		return nil
	}

	var best *Configuration
	for _, idx := range drawTournament(len(population), tournamentSize, rng) {
		candidate := population[idx]
		if best == nil || candidate.GetFitness() > best.GetFitness() {
			best = candidate
		}
	}
	return best
}

// SelectParents draws n parents by diversity-aware tournament selection.
// A candidate whose signature was already chosen in this batch competes with
// its fitness scaled by DiversityPenalty; stored fitness is never changed.
// The returned configurations are references into population.
func SelectParents(population []*Configuration, n int, rng *rand.Rand) []*Configuration {
	return selectDiverseParents(population, n, DefaultTournamentSize, rng)
}

func selectDiverseParents(population []*Configuration, n, tournamentSize int, rng *rand.Rand) []*Configuration {
	if len(population) == 0 || n <= 0 {
		return nil
	}

	parents := make([]*Configuration, 0, n)
	chosen := make(map[GenotypeSignature]bool, n)

	for len(parents) < n {
		var (
			winner    *Configuration
			winnerSig GenotypeSignature
			bestScore float64
		)
		for _, idx := range drawTournament(len(population), tournamentSize, rng) {
			candidate := population[idx]
			sig := candidate.Signature()
			score := candidate.GetFitness()
			if chosen[sig] {
				score *= DiversityPenalty
			}
			if winner == nil || score > bestScore {
				winner, winnerSig, bestScore = candidate, sig, score
			}
		}
		chosen[winnerSig] = true
		parents = append(parents, winner)
	}
	return parents
}

// drawTournament returns size distinct indices in [0, n) via a partial
// Fisher-Yates shuffle
func drawTournament(n, size int, rng *rand.Rand) []int {
	if size <= 0 || size > n {
		size = n
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	for i := 0; i < size; i++ {
		j := i + rng.Intn(n-i)
		idx[i], idx[j] = idx[j], idx[i]
	}
	return idx[:size]
}

// Crossover recombines two parents into two children. With probability
// 1-rate the children are plain copies of the parents. Children never share
// component values with the parents or each other and start unevaluated
// unless copied unchanged.
func Crossover(parent1, parent2 *Configuration, rate float64, rng *rand.Rand) (*Configuration, *Configuration) {
	child1 := parent1.Clone()
	child2 := parent2.Clone()

	if rng.Float64() >= rate {
		return child1, child2
	}

	if rng.Float64() < 0.5 {
		child1.Frame, child2.Frame = child2.Frame, child1.Frame
	}
	if rng.Float64() < 0.5 {
		child1.Lens, child2.Lens = child2.Lens, child1.Lens
	}

	child1.Coatings, child2.Coatings = splitPool(
		mergeByType(parent1.Coatings, parent2.Coatings, func(c catalog.Coating) string { return c.Type }, rng),
		MaxCoatings, rng)
	child1.Filters, child2.Filters = splitPool(
		mergeByType(parent1.Filters, parent2.Filters, func(f catalog.Filter) string { return f.Type }, rng),
		MaxFilters, rng)

	child1.ResetFitness()
	child2.ResetFitness()
	return child1, child2
}

// mergeByType builds the union of two add-on sets keeping one entry per type.
// On a type collision a fair coin decides which parent's entry survives.
func mergeByType[T any](a, b []T, typeOf func(T) string, rng *rand.Rand) []T {
	pool := make([]T, 0, len(a)+len(b))
	position := make(map[string]int, len(a)+len(b))

	for _, item := range append(append([]T(nil), a...), b...) {
		key := catalog.TypeKey(typeOf(item))
		if i, exists := position[key]; exists {
			if rng.Float64() < 0.5 {
				pool[i] = item
			}
			continue
		}
		position[key] = len(pool)
		pool = append(pool, item)
	}
	return pool
}

// splitPool shuffles the pool and cuts it at a uniform point in [0, len].
// Each side is truncated to limit.
func splitPool[T any](pool []T, limit int, rng *rand.Rand) ([]T, []T) {
	rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	split := rng.Intn(len(pool) + 1)

	left := append([]T(nil), pool[:split]...)
	right := append([]T(nil), pool[split:]...)
	if len(left) > limit {
		left = left[:limit]
	}
	if len(right) > limit {
		right = right[:limit]
	}
	return left, right
}

// Mutation targets and collection operations
const (
	mutateFrame = iota
	mutateLens
	mutateCoatings
	mutateFilters
)

const (
	opAdd = iota
	opRemove
	opReplace
)

// Mutate perturbs one component family of cfg in place with probability rate.
// It reports whether the genome changed; a changed configuration has its
// fitness reset.
func Mutate(cfg *Configuration, rate float64, pools ComponentPools, rng *rand.Rand) bool {
	if rng.Float64() >= rate {
		return false
	}

	changed := false
	switch rng.Intn(4) {
	case mutateFrame:
		if len(pools.Frames) > 0 {
			f := pools.Frames[rng.Intn(len(pools.Frames))]
			cfg.Frame = &f
			changed = true
		}
	case mutateLens:
		if len(pools.Lenses) > 0 {
			l := pools.Lenses[rng.Intn(len(pools.Lenses))]
			cfg.Lens = &l
			changed = true
		}
	case mutateCoatings:
		if len(pools.Coatings) > 0 {
			cfg.Coatings, changed = mutateSet(cfg.Coatings, pools.Coatings, MaxCoatings,
				func(c catalog.Coating) (string, string) { return c.ID, c.Type }, rng)
		}
	case mutateFilters:
		if len(pools.Filters) > 0 {
			cfg.Filters, changed = mutateSet(cfg.Filters, pools.Filters, MaxFilters,
				func(f catalog.Filter) (string, string) { return f.ID, f.Type }, rng)
		}
	}

	if changed {
		cfg.ResetFitness()
	}
	return changed
}

// mutateSet applies add, remove or replace to a type-unique set. Inapplicable
// operations are silent no-ops.
func mutateSet[T any](set, pool []T, limit int, key func(T) (string, string), rng *rand.Rand) ([]T, bool) {
	switch rng.Intn(3) {
	case opAdd:
		if len(set) >= limit {
			return set, false
		}
		sample := pool[rng.Intn(len(pool))]
		id, typ := key(sample)
		for _, item := range set {
			itemID, itemType := key(item)
			if itemID == id || catalog.TypeKey(itemType) == catalog.TypeKey(typ) {
				return set, false
			}
		}
		return append(set, sample), true

	case opRemove:
		if len(set) == 0 {
			return set, false
		}
		idx := rng.Intn(len(set))
		out := make([]T, 0, len(set)-1)
		out = append(out, set[:idx]...)
		return append(out, set[idx+1:]...), true

	case opReplace:
		if len(set) == 0 {
			return set, false
		}
		idx := rng.Intn(len(set))
		sample := pool[rng.Intn(len(pool))]
		_, typ := key(sample)
		for i, item := range set {
			_, itemType := key(item)
			if i != idx && catalog.TypeKey(itemType) == catalog.TypeKey(typ) {
				return set, false
			}
		}
		out := append([]T(nil), set...)
		out[idx] = sample
		return out, true
	}
	return set, false
}
