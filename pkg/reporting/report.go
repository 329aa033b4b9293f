package reporting

import (
	"time"

	"github.com/ducminhle1904/lens-optimizer/pkg/catalog"
	"github.com/ducminhle1904/lens-optimizer/pkg/optimization"
)

// RunReport is the reportable outcome of one optimization run
type RunReport struct {
	RunID       string                          `json:"run_id"`
	Condition   string                          `json:"condition"`
	Constraints []catalog.Constraint            `json:"constraints,omitempty"`
	PriceRange  catalog.PriceRange              `json:"price_range"`
	Config      optimization.OptimizationConfig `json:"optimization"`
	GeneratedAt time.Time                       `json:"generated_at"`
	Duration    time.Duration                   `json:"duration_ns"`
	Results     []ResultEntry                   `json:"results"`
	Evolution   optimization.EvolutionStats     `json:"evolution"`
}

// ResultEntry is one ranked configuration
type ResultEntry struct {
	Rank            int                          `json:"rank"`
	Fitness         float64                      `json:"fitness"`
	TotalPrice      float64                      `json:"total_price"`
	InBudget        bool                         `json:"in_budget"`
	Signature       string                       `json:"signature"`
	Frame           *catalog.Frame               `json:"frame,omitempty"`
	Lens            *catalog.Lens                `json:"lens,omitempty"`
	Coatings        []catalog.Coating            `json:"coatings"`
	Filters         []catalog.Filter             `json:"filters"`
	Breakdown       *optimization.ScoreBreakdown `json:"breakdown,omitempty"`
	Recommendations []string                     `json:"recommendations"`
}

// RunSummary carries the run metadata that is not derivable from the results
type RunSummary struct {
	RunID       string
	Condition   string
	Constraints catalog.Constraints
	PriceRange  catalog.PriceRange
	Config      optimization.OptimizationConfig
	Duration    time.Duration
	Evolution   optimization.EvolutionStats
}

// NewRunReport builds a report from ranked configurations. breakdown may be nil.
func NewRunReport(summary RunSummary, results []*optimization.Configuration, breakdown Breakdowner) *RunReport {
	report := &RunReport{
		RunID:       summary.RunID,
		Condition:   summary.Condition,
		Constraints: summary.Constraints.Active(),
		PriceRange:  summary.PriceRange,
		Config:      summary.Config,
		GeneratedAt: time.Now(),
		Duration:    summary.Duration,
		Results:     make([]ResultEntry, 0, len(results)),
		Evolution:   summary.Evolution,
	}

	for i, cfg := range results {
		if cfg == nil {
			continue
		}
		total := cfg.TotalPrice()
		entry := ResultEntry{
			Rank:            i + 1,
			Fitness:         cfg.GetFitness(),
			TotalPrice:      total,
			InBudget:        summary.PriceRange.Contains(total),
			Signature:       cfg.Signature().String(),
			Frame:           cfg.Frame,
			Lens:            cfg.Lens,
			Coatings:        append([]catalog.Coating{}, cfg.Coatings...),
			Filters:         append([]catalog.Filter{}, cfg.Filters...),
			Recommendations: Recommendations(summary.Condition, cfg),
		}
		if breakdown != nil {
			b := breakdown.Breakdown(cfg)
			entry.Breakdown = &b
		}
		report.Results = append(report.Results, entry)
	}

	return report
}

// Best returns the top ranked entry, or nil for an empty report
func (r *RunReport) Best() *ResultEntry {
	if len(r.Results) == 0 {
		return nil
	}
	return &r.Results[0]
}

// FinalBestFitness returns the last recorded best fitness of the run
func (r *RunReport) FinalBestFitness() float64 {
	n := len(r.Evolution.BestFitness)
	if n == 0 {
		return 0
	}
	return r.Evolution.BestFitness[n-1]
}
