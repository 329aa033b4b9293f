package catalog

import "strings"

// ConditionProfile holds component recommendations for a medical condition.
// Each recommendation is a free-text match key; several keys may be listed
// separated by "," or ";".
type ConditionProfile struct {
	Name               string `json:"name"`
	Description        string `json:"description,omitempty"`
	RecommendedFrame   string `json:"recommended_frame"`
	RecommendedLens    string `json:"recommended_lens"`
	RecommendedCoating string `json:"recommended_coating"`
	RecommendedFilter  string `json:"recommended_filter"`
}

// FrameKeys returns the normalized frame recommendation keys
func (p *ConditionProfile) FrameKeys() []string { return SplitKeys(p.RecommendedFrame) }

// LensKeys returns the normalized lens recommendation keys
func (p *ConditionProfile) LensKeys() []string { return SplitKeys(p.RecommendedLens) }

// CoatingKeys returns the normalized coating recommendation keys
func (p *ConditionProfile) CoatingKeys() []string { return SplitKeys(p.RecommendedCoating) }

// FilterKeys returns the normalized filter recommendation keys
func (p *ConditionProfile) FilterKeys() []string { return SplitKeys(p.RecommendedFilter) }

// SplitKeys splits a recommendation string into lower-cased, trimmed keys
func SplitKeys(s string) []string {
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ';' })
	keys := make([]string, 0, len(parts))
	for _, p := range parts {
		if k := strings.ToLower(strings.TrimSpace(p)); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

// Constraint names an additional medical restriction
type Constraint string

const (
	ConstraintLightSensitivity  Constraint = "light_sensitivity"
	ConstraintScreenTime        Constraint = "screen_time"
	ConstraintOutdoorActivities Constraint = "outdoor_activities"
	ConstraintNightDriving      Constraint = "night_driving"
)

// Constraints is the set of active medical restrictions for a patient
type Constraints struct {
	LightSensitivity  bool `json:"light_sensitivity" yaml:"light_sensitivity"`
	ScreenTime        bool `json:"screen_time" yaml:"screen_time"`
	OutdoorActivities bool `json:"outdoor_activities" yaml:"outdoor_activities"`
	NightDriving      bool `json:"night_driving" yaml:"night_driving"`
}

// Active returns the enabled constraints in a fixed order
func (c Constraints) Active() []Constraint {
	var active []Constraint
	if c.LightSensitivity {
		active = append(active, ConstraintLightSensitivity)
	}
	if c.ScreenTime {
		active = append(active, ConstraintScreenTime)
	}
	if c.OutdoorActivities {
		active = append(active, ConstraintOutdoorActivities)
	}
	if c.NightDriving {
		active = append(active, ConstraintNightDriving)
	}
	return active
}

// Count returns the number of active constraints
func (c Constraints) Count() int {
	return len(c.Active())
}
