package optimization

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ducminhle1904/lens-optimizer/pkg/catalog"
)

// Genome size caps
const (
	MaxCoatings = 3
	MaxFilters  = 2
)

// Configuration is one candidate product assembly and the genome of the search.
// It exclusively owns its component values; nothing aliases a catalog record
// or another configuration.
type Configuration struct {
	Frame    *catalog.Frame
	Lens     *catalog.Lens
	Coatings []catalog.Coating
	Filters  []catalog.Filter

	fitness float64
}

// NewConfiguration assembles a configuration from copies of the given components
func NewConfiguration(frame *catalog.Frame, lens *catalog.Lens, coatings []catalog.Coating, filters []catalog.Filter) *Configuration {
	c := &Configuration{
		Coatings: append([]catalog.Coating(nil), coatings...),
		Filters:  append([]catalog.Filter(nil), filters...),
	}
	if frame != nil {
		f := *frame
		c.Frame = &f
	}
	if lens != nil {
		l := *lens
		c.Lens = &l
	}
	return c
}

// GetFitness returns the last evaluated fitness in [0,100]
func (c *Configuration) GetFitness() float64 {
	return c.fitness
}

// SetFitness stores an evaluated fitness
func (c *Configuration) SetFitness(fitness float64) {
	c.fitness = fitness
}

// ResetFitness marks the configuration as not yet evaluated
func (c *Configuration) ResetFitness() {
	c.fitness = 0
}

// TotalPrice returns the live sum of the present components' prices
func (c *Configuration) TotalPrice() float64 {
	total := 0.0
	if c.Frame != nil {
		total += c.Frame.Price
	}
	if c.Lens != nil {
		total += c.Lens.Price
	}
	for _, ct := range c.Coatings {
		total += ct.Price
	}
	for _, f := range c.Filters {
		total += f.Price
	}
	return total
}

// ComponentCount returns the number of present components
func (c *Configuration) ComponentCount() int {
	n := len(c.Coatings) + len(c.Filters)
	if c.Frame != nil {
		n++
	}
	if c.Lens != nil {
		n++
	}
	return n
}

// Clone returns a deep copy that preserves fitness
func (c *Configuration) Clone() *Configuration {
	clone := NewConfiguration(c.Frame, c.Lens, c.Coatings, c.Filters)
	clone.fitness = c.fitness
	return clone
}

// HasCoatingType reports whether a coating of the given type is present
func (c *Configuration) HasCoatingType(t string) bool {
	key := catalog.TypeKey(t)
	for _, ct := range c.Coatings {
		if catalog.TypeKey(ct.Type) == key {
			return true
		}
	}
	return false
}

// HasFilterType reports whether a filter of the given type is present
func (c *Configuration) HasFilterType(t string) bool {
	key := catalog.TypeKey(t)
	for _, f := range c.Filters {
		if catalog.TypeKey(f.Type) == key {
			return true
		}
	}
	return false
}

// Validate checks the genome caps and per-family type uniqueness
func (c *Configuration) Validate() error {
	if len(c.Coatings) > MaxCoatings {
		return fmt.Errorf("configuration has %d coatings, maximum is %d", len(c.Coatings), MaxCoatings)
	}
	if len(c.Filters) > MaxFilters {
		return fmt.Errorf("configuration has %d filters, maximum is %d", len(c.Filters), MaxFilters)
	}

	seen := make(map[string]bool, len(c.Coatings))
	for _, ct := range c.Coatings {
		key := catalog.TypeKey(ct.Type)
		if seen[key] {
			return fmt.Errorf("duplicate coating type %q", ct.Type)
		}
		seen[key] = true
	}

	seen = make(map[string]bool, len(c.Filters))
	for _, f := range c.Filters {
		key := catalog.TypeKey(f.Type)
		if seen[key] {
			return fmt.Errorf("duplicate filter type %q", f.Type)
		}
		seen[key] = true
	}
	return nil
}

// GenotypeSignature is the order-independent structural identity of a
// configuration. It is comparable and used only for diversity bookkeeping.
type GenotypeSignature struct {
	Frame    string
	Lens     string
	Coatings string
	Filters  string
}

const absentComponent = "none"

// Signature derives the genotype signature of the configuration
func (c *Configuration) Signature() GenotypeSignature {
	sig := GenotypeSignature{Frame: absentComponent, Lens: absentComponent}
	if c.Frame != nil {
		sig.Frame = c.Frame.ID
	}
	if c.Lens != nil {
		sig.Lens = c.Lens.ID
	}

	coatingIDs := make([]string, len(c.Coatings))
	for i, ct := range c.Coatings {
		coatingIDs[i] = ct.ID
	}
	sort.Strings(coatingIDs)
	sig.Coatings = strings.Join(coatingIDs, ",")

	filterIDs := make([]string, len(c.Filters))
	for i, f := range c.Filters {
		filterIDs[i] = f.ID
	}
	sort.Strings(filterIDs)
	sig.Filters = strings.Join(filterIDs, ",")

	return sig
}

func (s GenotypeSignature) String() string {
	return s.Frame + "|" + s.Lens + "|" + s.Coatings + "|" + s.Filters
}

func (c *Configuration) String() string {
	return fmt.Sprintf("%s fitness=%.2f price=%.2f", c.Signature(), c.fitness, c.TotalPrice())
}
