package config

import (
	"fmt"
	"strings"

	"github.com/ducminhle1904/lens-optimizer/pkg/catalog"
	"github.com/ducminhle1904/lens-optimizer/pkg/optimization"
)

// OptimizerConfig holds everything needed for one optimization run
type OptimizerConfig struct {
	Optimization optimization.OptimizationConfig `json:"optimization" yaml:"optimization"`

	// Seed fixes the random source; 0 seeds from the clock
	Seed int64 `json:"seed,omitempty" yaml:"seed,omitempty"`

	Patient    PatientConfig    `json:"patient" yaml:"patient"`
	Catalog    CatalogConfig    `json:"catalog" yaml:"catalog"`
	Execution  ExecutionConfig  `json:"execution" yaml:"execution"`
	Output     OutputConfig     `json:"output" yaml:"output"`
	Monitoring MonitoringConfig `json:"monitoring" yaml:"monitoring"`
}

// PatientConfig describes the patient the assemblies are optimized for
type PatientConfig struct {
	Condition   string              `json:"condition" yaml:"condition"`
	PriceRange  catalog.PriceRange  `json:"price_range" yaml:"price_range"`
	Constraints catalog.Constraints `json:"constraints" yaml:"constraints"`
}

// CatalogConfig selects the component source
type CatalogConfig struct {
	// Dir is a directory of CSV files; empty uses the built-in sample catalog
	Dir           string `json:"dir,omitempty" yaml:"dir,omitempty"`
	AvailableOnly bool   `json:"available_only" yaml:"available_only"`
}

// ExecutionConfig controls independent restarts of the search
type ExecutionConfig struct {
	// Restarts is the number of independently seeded engines
	Restarts int `json:"restarts" yaml:"restarts"`
	// Workers bounds parallel restarts; 0 uses one per CPU
	Workers int `json:"workers,omitempty" yaml:"workers,omitempty"`
}

// OutputConfig controls result reporting
type OutputConfig struct {
	TopN      int    `json:"top_n" yaml:"top_n"`
	ExcelFile string `json:"excel_file,omitempty" yaml:"excel_file,omitempty"`
	JSONFile  string `json:"json_file,omitempty" yaml:"json_file,omitempty"`
	LogDir    string `json:"log_dir,omitempty" yaml:"log_dir,omitempty"`
}

// MonitoringConfig controls the metrics endpoint
type MonitoringConfig struct {
	// MetricsAddr is the listen address for /metrics and /health; empty disables it
	MetricsAddr string `json:"metrics_addr,omitempty" yaml:"metrics_addr,omitempty"`
}

// NewDefaultOptimizerConfig creates a configuration with default values
func NewDefaultOptimizerConfig() *OptimizerConfig {
	return &OptimizerConfig{
		Optimization: optimization.DefaultOptimizationConfig(),
		Patient: PatientConfig{
			Condition:  DefaultCondition,
			PriceRange: catalog.PriceRange{Min: DefaultPriceMin, Max: DefaultPriceMax},
		},
		Catalog: CatalogConfig{
			Dir:           DefaultCatalogDir,
			AvailableOnly: true,
		},
		Execution: ExecutionConfig{
			Restarts: DefaultRestarts,
		},
		Output: OutputConfig{
			TopN:   DefaultTopN,
			LogDir: DefaultLogDir,
		},
		Monitoring: MonitoringConfig{
			MetricsAddr: DefaultMetricsAddr,
		},
	}
}

// ToOptimizationConfig returns the GA parameters
func (c *OptimizerConfig) ToOptimizationConfig() optimization.OptimizationConfig {
	return c.Optimization
}

// HasSeed reports whether runs should be reproducible
func (c *OptimizerConfig) HasSeed() bool {
	return c.Seed != 0
}

// Summary returns a one-line description of the run settings
func (c *OptimizerConfig) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "condition=%s budget=%s pop=%d gens=%d cx=%.2f mut=%.2f elite=%d",
		c.Patient.Condition, c.Patient.PriceRange,
		c.Optimization.PopulationSize, c.Optimization.Generations,
		c.Optimization.CrossoverRate, c.Optimization.MutationRate,
		c.Optimization.ElitismCount)
	if active := c.Patient.Constraints.Active(); len(active) > 0 {
		names := make([]string, len(active))
		for i, a := range active {
			names[i] = string(a)
		}
		fmt.Fprintf(&b, " constraints=%s", strings.Join(names, ","))
	}
	if c.Execution.Restarts > 1 {
		fmt.Fprintf(&b, " restarts=%d", c.Execution.Restarts)
	}
	return b.String()
}
