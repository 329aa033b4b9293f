// Package config provides configuration management for the lens optimizer
package config

// ConfigManager handles loading, validation and persistence of configurations
type ConfigManager interface {
	// LoadConfig loads configuration from a JSON or YAML file and applies
	// environment overrides on top of it
	LoadConfig(configFile string) (*OptimizerConfig, error)

	// ReadConfig is LoadConfig without validation, for callers that apply
	// further overrides before validating
	ReadConfig(configFile string) (*OptimizerConfig, error)

	// ValidateConfig validates a configuration
	ValidateConfig(cfg *OptimizerConfig) error

	// SaveConfig saves configuration to file
	SaveConfig(cfg *OptimizerConfig, path string) error
}

// Validator interface for configuration validation
type Validator interface {
	Validate(cfg *OptimizerConfig) error
}

// Common configuration constants
const (
	// Default parameter values
	DefaultCondition   = "Myopia"
	DefaultPriceMin    = 100.0
	DefaultPriceMax    = 500.0
	DefaultTopN        = 5
	DefaultRestarts    = 1
	DefaultCatalogDir  = ""
	DefaultLogDir      = "logs"
	DefaultMetricsAddr = ""

	// Validation limits
	MaxPopulationSize = 10000
	MaxGenerations    = 10000
	MaxTopN           = 50
	MaxRestarts       = 64

	// File and directory constants
	ResultsDir       = "results"
	BestConfigFile   = "best.json"
	ResultsExcelFile = "results.xlsx"

	// EnvPrefix prefixes every environment override
	EnvPrefix = "LENSOPT_"
)
