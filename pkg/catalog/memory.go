package catalog

import (
	"sort"
	"strings"
	"sync"
)

// MemoryCatalog implements Catalog using in-memory storage
type MemoryCatalog struct {
	frames     []Frame
	lenses     []Lens
	coatings   []Coating
	filters    []Filter
	conditions map[string]ConditionProfile
	order      []string
	mutex      sync.RWMutex
}

// NewMemoryCatalog creates an empty in-memory catalog
func NewMemoryCatalog() *MemoryCatalog {
	return &MemoryCatalog{
		conditions: make(map[string]ConditionProfile),
	}
}

// AddFrames stores frames in the catalog
func (c *MemoryCatalog) AddFrames(frames ...Frame) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.frames = append(c.frames, frames...)
}

// AddLenses stores lenses in the catalog
func (c *MemoryCatalog) AddLenses(lenses ...Lens) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.lenses = append(c.lenses, lenses...)
}

// AddCoatings stores coatings in the catalog
func (c *MemoryCatalog) AddCoatings(coatings ...Coating) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.coatings = append(c.coatings, coatings...)
}

// AddFilters stores filters in the catalog
func (c *MemoryCatalog) AddFilters(filters ...Filter) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.filters = append(c.filters, filters...)
}

// AddProfiles stores condition profiles; a later profile with the same
// (case-insensitive) name replaces the earlier one
func (c *MemoryCatalog) AddProfiles(profiles ...ConditionProfile) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	for _, p := range profiles {
		key := strings.ToLower(strings.TrimSpace(p.Name))
		if _, exists := c.conditions[key]; !exists {
			c.order = append(c.order, p.Name)
		}
		c.conditions[key] = p
	}
}

// ListFrames returns copies of the frames matching the query
func (c *MemoryCatalog) ListFrames(priceMin, priceMax *float64, availableOnly bool) []Frame {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return filterComponents(c.frames, priceMin, priceMax, availableOnly,
		func(f Frame) (float64, Availability) { return f.Price, f.Availability })
}

// ListLenses returns copies of the lenses matching the query
func (c *MemoryCatalog) ListLenses(priceMin, priceMax *float64, availableOnly bool) []Lens {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return filterComponents(c.lenses, priceMin, priceMax, availableOnly,
		func(l Lens) (float64, Availability) { return l.Price, l.Availability })
}

// ListCoatings returns copies of the coatings matching the query
func (c *MemoryCatalog) ListCoatings(priceMin, priceMax *float64, availableOnly bool) []Coating {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return filterComponents(c.coatings, priceMin, priceMax, availableOnly,
		func(ct Coating) (float64, Availability) { return ct.Price, ct.Availability })
}

// ListFilters returns copies of the filters matching the query
func (c *MemoryCatalog) ListFilters(priceMin, priceMax *float64, availableOnly bool) []Filter {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return filterComponents(c.filters, priceMin, priceMax, availableOnly,
		func(f Filter) (float64, Availability) { return f.Price, f.Availability })
}

// FindProfile resolves a condition by name, ignoring case and surrounding spaces
func (c *MemoryCatalog) FindProfile(conditionName string) (*ConditionProfile, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	p, ok := c.conditions[strings.ToLower(strings.TrimSpace(conditionName))]
	if !ok {
		return nil, false
	}
	return &p, true
}

// ConditionNames returns the profile names in insertion order
func (c *MemoryCatalog) ConditionNames() []string {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	names := make([]string, len(c.order))
	copy(names, c.order)
	return names
}

// Stats returns the number of records per family
func (c *MemoryCatalog) Stats() map[string]int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return map[string]int{
		"frames":     len(c.frames),
		"lenses":     len(c.lenses),
		"coatings":   len(c.coatings),
		"filters":    len(c.filters),
		"conditions": len(c.conditions),
	}
}

// SortedConditionNames returns the profile names alphabetically
func (c *MemoryCatalog) SortedConditionNames() []string {
	names := c.ConditionNames()
	sort.Strings(names)
	return names
}

func filterComponents[T any](items []T, priceMin, priceMax *float64, availableOnly bool,
	attrs func(T) (float64, Availability)) []T {

	result := make([]T, 0, len(items))
	for _, item := range items {
		price, availability := attrs(item)
		if priceMin != nil && price < *priceMin {
			continue
		}
		if priceMax != nil && price > *priceMax {
			continue
		}
		if availableOnly && !availability.IsAvailable() {
			continue
		}
		result = append(result, item)
	}
	return result
}
