// Package catalog provides the component catalog and condition profiles
// consumed by the optimizer
package catalog

// Provider answers eligibility queries over the component catalog.
// A nil bound means the bound is not applied. Implementations return an
// empty slice, never an error, when nothing matches.
type Provider interface {
	ListFrames(priceMin, priceMax *float64, availableOnly bool) []Frame
	ListLenses(priceMin, priceMax *float64, availableOnly bool) []Lens
	ListCoatings(priceMin, priceMax *float64, availableOnly bool) []Coating
	ListFilters(priceMin, priceMax *float64, availableOnly bool) []Filter
}

// ProfileLookup resolves condition names to recommendation profiles
type ProfileLookup interface {
	FindProfile(conditionName string) (*ConditionProfile, bool)
}

// Catalog combines both collaborator roles
type Catalog interface {
	Provider
	ProfileLookup
	ConditionNames() []string
}
