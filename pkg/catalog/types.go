package catalog

import (
	"fmt"
	"math"
	"strings"
)

// Availability represents the stock level of a catalog component
type Availability string

const (
	AvailabilityHigh   Availability = "High"
	AvailabilityMedium Availability = "Medium"
	AvailabilityLow    Availability = "Low"
)

// ParseAvailability maps a free-text stock flag to an Availability value.
// Unknown values are treated as Medium so that they stay eligible.
func ParseAvailability(s string) Availability {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high", "alta":
		return AvailabilityHigh
	case "low", "baja":
		return AvailabilityLow
	default:
		return AvailabilityMedium
	}
}

// IsAvailable reports whether the component can be offered when only
// available components are requested
func (a Availability) IsAvailable() bool {
	return a != AvailabilityLow
}

// Frame is a spectacle frame record
type Frame struct {
	ID              string       `json:"id"`
	MountType       string       `json:"mount_type"`
	Material        string       `json:"material"`
	ResistanceGrade string       `json:"resistance_grade,omitempty"`
	Price           float64      `json:"price"`
	Availability    Availability `json:"availability"`
}

// Lens is an ophthalmic lens record
type Lens struct {
	ID              string       `json:"id"`
	Shape           string       `json:"shape"`
	Material        string       `json:"material"`
	RefractiveIndex float64      `json:"refractive_index,omitempty"`
	Price           float64      `json:"price"`
	Availability    Availability `json:"availability"`
}

// Coating is a lens treatment record. Type is the deduplication key.
type Coating struct {
	ID              string       `json:"id"`
	Type            string       `json:"type"`
	DurabilityGrade string       `json:"durability_grade,omitempty"`
	Price           float64      `json:"price"`
	Availability    Availability `json:"availability"`
}

// Filter is a light filter record. Type is the deduplication key.
type Filter struct {
	ID               string       `json:"id"`
	Type             string       `json:"type"`
	SelectivityGrade string       `json:"selectivity_grade,omitempty"`
	Price            float64      `json:"price"`
	Availability     Availability `json:"availability"`
}

func (f Frame) String() string {
	return fmt.Sprintf("%s (%s, %s)", f.ID, f.MountType, f.Material)
}

func (l Lens) String() string {
	return fmt.Sprintf("%s (%s, %s)", l.ID, l.Shape, l.Material)
}

func (c Coating) String() string {
	return fmt.Sprintf("%s (%s)", c.ID, c.Type)
}

func (f Filter) String() string {
	return fmt.Sprintf("%s (%s)", f.ID, f.Type)
}

// TypeKey normalizes a coating or filter type for uniqueness checks
func TypeKey(t string) string {
	return strings.ToLower(strings.TrimSpace(t))
}

// PriceRange is a closed budget interval
type PriceRange struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

// Validate checks that the range is well formed
func (r PriceRange) Validate() error {
	if math.IsNaN(r.Min) || math.IsNaN(r.Max) || math.IsInf(r.Min, 0) || math.IsInf(r.Max, 0) {
		return fmt.Errorf("price range bounds must be finite numbers, got [%v, %v]", r.Min, r.Max)
	}
	if r.Min < 0 || r.Max < 0 {
		return fmt.Errorf("price range bounds must be non-negative, got [%.2f, %.2f]", r.Min, r.Max)
	}
	if r.Min > r.Max {
		return fmt.Errorf("price range min (%.2f) cannot exceed max (%.2f)", r.Min, r.Max)
	}
	return nil
}

// Contains reports whether price lies inside the closed interval
func (r PriceRange) Contains(price float64) bool {
	return price >= r.Min && price <= r.Max
}

func (r PriceRange) String() string {
	return fmt.Sprintf("$%.2f - $%.2f", r.Min, r.Max)
}
