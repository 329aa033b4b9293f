package optimization

import (
	"fmt"
	"math"
	"strings"

	"github.com/ducminhle1904/lens-optimizer/pkg/catalog"
)

// Weights are the relative importance of the four fitness sub-scores
type Weights struct {
	Compatibility float64 `json:"compatibility"`
	Quality       float64 `json:"quality"`
	Price         float64 `json:"price"`
	Constraints   float64 `json:"constraints"`
}

// DefaultWeights returns the standard scoring weights
func DefaultWeights() Weights {
	return Weights{
		Compatibility: 0.35,
		Quality:       0.20,
		Price:         0.25,
		Constraints:   0.20,
	}
}

// Validate checks that the weights are non-negative and sum to 1
func (w Weights) Validate() error {
	if w.Compatibility < 0 || w.Quality < 0 || w.Price < 0 || w.Constraints < 0 {
		return fmt.Errorf("weights cannot be negative")
	}
	sum := w.Compatibility + w.Quality + w.Price + w.Constraints
	if math.Abs(sum-1.0) > 0.001 {
		return fmt.Errorf("weights must sum to 1.0, got %.4f", sum)
	}
	return nil
}

// Compatibility credit per component family
const (
	frameMatchCredit   = 0.15
	lensMatchCredit    = 0.20
	coatingMatchCredit = 0.30
	filterMatchCredit  = 0.35
)

// Price scoring bands
const (
	inRangeSpread    = 0.3
	belowRangeCeil   = 0.7
	aboveRangeCeil   = 0.5
	neutralQuality   = 0.5
	coatingPriceNorm = 500.0
	filterPriceNorm  = 400.0
)

var (
	frameMaterialTiers = []qualityTier{
		{[]string{"titan"}, 0.95},
		{[]string{"tr-90", "tr90"}, 0.90},
		{[]string{"metal"}, 0.80},
		{[]string{"acetat"}, 0.70},
	}
	lensMaterialTiers = []qualityTier{
		{[]string{"high-index", "high index", "alto índice", "alto indice"}, 0.95},
		{[]string{"trivex"}, 0.90},
		{[]string{"polycarb", "policarb"}, 0.85},
		{[]string{"glass", "cristal", "vidrio"}, 0.75},
		{[]string{"cr-39", "cr39"}, 0.70},
	}
	gradeTiers = []qualityTier{
		{[]string{"high", "alta", "alto"}, 1.0},
		{[]string{"medium", "media", "medio"}, 0.75},
		{[]string{"low", "baja", "bajo"}, 0.5},
	}

	photochromicTags   = []string{"photochrom", "fotocrom"}
	outdoorFilterTags  = []string{"uv", "polariz"}
	blueLightTags      = []string{"blue", "azul"}
	antiReflectiveTags = []string{"anti-reflect", "antireflect", "antirreflej"}
	highDefinitionTags = []string{"high definition", "high-definition", "alta definición", "alta definicion"}
)

type qualityTier struct {
	keywords []string
	score    float64
}

// ScoreBreakdown holds the four sub-scores and the final fitness
type ScoreBreakdown struct {
	Compatibility float64 `json:"compatibility"`
	Quality       float64 `json:"quality"`
	Price         float64 `json:"price"`
	Constraints   float64 `json:"constraints"`
	Fitness       float64 `json:"fitness"`
}

// FitnessEvaluator scores configurations against a condition profile,
// a budget and a set of active medical constraints
type FitnessEvaluator struct {
	profile     *catalog.ConditionProfile
	constraints catalog.Constraints
	priceRange  catalog.PriceRange
	weights     Weights

	frameKeys   []string
	lensKeys    []string
	coatingKeys []string
	filterKeys  []string
}

// NewFitnessEvaluator creates an evaluator for a resolved profile. A nil
// profile yields an evaluator that scores every configuration 0.
func NewFitnessEvaluator(profile *catalog.ConditionProfile, constraints catalog.Constraints, priceRange catalog.PriceRange) *FitnessEvaluator {
	e := &FitnessEvaluator{
		constraints: constraints,
		priceRange:  priceRange,
		weights:     DefaultWeights(),
	}
	if profile != nil {
		p := *profile
		e.profile = &p
		e.frameKeys = p.FrameKeys()
		e.lensKeys = p.LensKeys()
		e.coatingKeys = p.CoatingKeys()
		e.filterKeys = p.FilterKeys()
	}
	return e
}

// NewFitnessEvaluatorFromLookup resolves conditionName through lookup.
// An unknown condition is not an error.
func NewFitnessEvaluatorFromLookup(lookup catalog.ProfileLookup, conditionName string, constraints catalog.Constraints, priceRange catalog.PriceRange) *FitnessEvaluator {
	var profile *catalog.ConditionProfile
	if lookup != nil {
		if p, ok := lookup.FindProfile(conditionName); ok {
			profile = p
		}
	}
	return NewFitnessEvaluator(profile, constraints, priceRange)
}

// WithWeights replaces the scoring weights
func (e *FitnessEvaluator) WithWeights(w Weights) (*FitnessEvaluator, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	e.weights = w
	return e, nil
}

// Profile returns the resolved condition profile, or nil
func (e *FitnessEvaluator) Profile() *catalog.ConditionProfile {
	return e.profile
}

// PriceRange returns the target budget
func (e *FitnessEvaluator) PriceRange() catalog.PriceRange {
	return e.priceRange
}

// Evaluate computes the fitness of cfg, stores it on cfg and returns it
func (e *FitnessEvaluator) Evaluate(cfg *Configuration) float64 {
	fitness := e.Breakdown(cfg).Fitness
	cfg.SetFitness(fitness)
	return fitness
}

// Breakdown computes the sub-scores without touching cfg
func (e *FitnessEvaluator) Breakdown(cfg *Configuration) ScoreBreakdown {
	if e.profile == nil {
		return ScoreBreakdown{}
	}

	b := ScoreBreakdown{
		Compatibility: e.compatibilityScore(cfg),
		Quality:       e.qualityScore(cfg),
		Price:         clamp01(e.priceScore(cfg.TotalPrice())),
		Constraints:   e.constraintScore(cfg),
	}

	weighted := e.weights.Compatibility*b.Compatibility +
		e.weights.Quality*b.Quality +
		e.weights.Price*b.Price +
		e.weights.Constraints*b.Constraints
	b.Fitness = 100 * clamp01(weighted)
	return b
}

func (e *FitnessEvaluator) compatibilityScore(cfg *Configuration) float64 {
	score := 0.0

	if cfg.Frame != nil && matchesAny(e.frameKeys, cfg.Frame.MountType, cfg.Frame.Material) {
		score += frameMatchCredit
	}
	if cfg.Lens != nil && matchesAny(e.lensKeys, cfg.Lens.Shape, cfg.Lens.Material) {
		score += lensMatchCredit
	}

	if len(cfg.Coatings) > 0 && len(e.coatingKeys) > 0 {
		types := make([]string, len(cfg.Coatings))
		for i, ct := range cfg.Coatings {
			types[i] = ct.Type
		}
		score += coatingMatchCredit * matchedShare(e.coatingKeys, types)
	}

	if len(cfg.Filters) > 0 && len(e.filterKeys) > 0 {
		types := make([]string, len(cfg.Filters))
		for i, f := range cfg.Filters {
			types[i] = f.Type
		}
		score += filterMatchCredit * matchedShare(e.filterKeys, types)
	}

	return math.Min(1.0, score)
}

func (e *FitnessEvaluator) qualityScore(cfg *Configuration) float64 {
	total := 0.0
	count := 0

	if cfg.Frame != nil {
		total += tierScore(frameMaterialTiers, cfg.Frame.Material, neutralQuality)
		count++
	}
	if cfg.Lens != nil {
		total += lensQuality(cfg.Lens)
		count++
	}
	for _, ct := range cfg.Coatings {
		total += tierScore(gradeTiers, ct.DurabilityGrade, priceProxy(ct.Price, coatingPriceNorm))
		count++
	}
	for _, f := range cfg.Filters {
		total += tierScore(gradeTiers, f.SelectivityGrade, priceProxy(f.Price, filterPriceNorm))
		count++
	}

	if count == 0 {
		return neutralQuality
	}
	return total / float64(count)
}

func lensQuality(l *catalog.Lens) float64 {
	if score := tierScore(lensMaterialTiers, l.Material, -1); score >= 0 {
		return score
	}
	switch {
	case l.RefractiveIndex >= 1.67:
		return 0.95
	case l.RefractiveIndex >= 1.59:
		return 0.85
	case l.RefractiveIndex >= 1.5:
		return 0.70
	default:
		return neutralQuality
	}
}

func priceProxy(price, norm float64) float64 {
	return 0.5 + 0.5*math.Min(1.0, math.Max(0, price)/norm)
}

func (e *FitnessEvaluator) priceScore(price float64) float64 {
	lo, hi := e.priceRange.Min, e.priceRange.Max

	switch {
	case price >= lo && price <= hi:
		if hi == lo {
			return 1.0
		}
		return 1.0 - inRangeSpread*(price-lo)/(hi-lo)
	case price < lo:
		if lo <= 0 {
			return belowRangeCeil
		}
		return belowRangeCeil * price / lo
	default:
		if hi <= 0 {
			return 0
		}
		return math.Max(0, aboveRangeCeil-aboveRangeCeil*(price-hi)/hi)
	}
}

func (e *FitnessEvaluator) constraintScore(cfg *Configuration) float64 {
	active := e.constraints.Active()
	if len(active) == 0 {
		return 1.0
	}

	hasCoating := func(tags []string) bool {
		for _, ct := range cfg.Coatings {
			if containsAny(ct.Type, tags) {
				return true
			}
		}
		return false
	}
	hasFilter := func(tags []string) bool {
		for _, f := range cfg.Filters {
			if containsAny(f.Type, tags) {
				return true
			}
		}
		return false
	}

	total := 0.0
	for _, c := range active {
		switch c {
		case catalog.ConstraintLightSensitivity:
			if hasCoating(photochromicTags) || hasFilter(outdoorFilterTags) {
				total += 1.0
			}
		case catalog.ConstraintScreenTime:
			if hasFilter(blueLightTags) {
				total += 1.0
			}
		case catalog.ConstraintOutdoorActivities:
			if hasFilter(outdoorFilterTags) || hasCoating(photochromicTags) {
				total += 1.0
			}
		case catalog.ConstraintNightDriving:
			if hasCoating(antiReflectiveTags) {
				total += 0.7
			}
			if hasFilter(highDefinitionTags) {
				total += 0.3
			}
		}
	}
	return total / float64(len(active))
}

// matchesAny reports whether any key is contained in any trait
func matchesAny(keys []string, traits ...string) bool {
	for _, trait := range traits {
		if trait != "" && containsAny(trait, keys) {
			return true
		}
	}
	return false
}

// matchedShare returns the fraction of keys found in at least one trait
func matchedShare(keys, traits []string) float64 {
	matched := 0
	for _, k := range keys {
		for _, t := range traits {
			if strings.Contains(strings.ToLower(t), k) {
				matched++
				break
			}
		}
	}
	return float64(matched) / float64(len(keys))
}

func containsAny(s string, needles []string) bool {
	s = strings.ToLower(s)
	for _, n := range needles {
		if n != "" && strings.Contains(s, n) {
			return true
		}
	}
	return false
}

func tierScore(tiers []qualityTier, value string, fallback float64) float64 {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	for _, tier := range tiers {
		if containsAny(value, tier.keywords) {
			return tier.score
		}
	}
	return fallback
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}
