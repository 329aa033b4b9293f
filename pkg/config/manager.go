package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// OptimizerConfigManager implements ConfigManager for optimizer configurations
type OptimizerConfigManager struct {
	validator Validator
	lookupEnv func(string) (string, bool)
}

// NewConfigManager creates a new configuration manager reading the process environment
func NewConfigManager() *OptimizerConfigManager {
	return &OptimizerConfigManager{
		validator: NewOptimizerValidator(),
		lookupEnv: os.LookupEnv,
	}
}

// WithEnvLookup replaces the environment source, mainly for tests
func (m *OptimizerConfigManager) WithEnvLookup(lookup func(string) (string, bool)) *OptimizerConfigManager {
	m.lookupEnv = lookup
	return m
}

// LoadEnvFile loads variables from a dotenv file. A missing file is not an error.
func LoadEnvFile(path string) (bool, error) {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return false, nil
	}
	if err := godotenv.Load(path); err != nil {
		return false, fmt.Errorf("could not load environment file %s: %w", path, err)
	}
	return true, nil
}

// LoadConfig loads configuration from file and environment and validates
// it. An empty configFile starts from defaults.
func (m *OptimizerConfigManager) LoadConfig(configFile string) (*OptimizerConfig, error) {
	cfg, err := m.ReadConfig(configFile)
	if err != nil {
		return nil, err
	}

	if err := m.ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// ReadConfig loads configuration from file and environment without
// validating it
func (m *OptimizerConfigManager) ReadConfig(configFile string) (*OptimizerConfig, error) {
	cfg := NewDefaultOptimizerConfig()

	if configFile != "" {
		if err := m.loadFromFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if err := m.applyEnvOverrides(cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}
	return cfg, nil
}

// loadFromFile decodes a JSON or YAML file over cfg, keeping defaults for absent fields
func (m *OptimizerConfigManager) loadFromFile(configFile string, cfg *OptimizerConfig) error {
	data, err := os.ReadFile(configFile)
	if err != nil {
		return fmt.Errorf("could not read config file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(configFile)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("could not parse YAML config: %w", err)
		}
	default:
		if err := json.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("could not parse JSON config: %w", err)
		}
	}

	return nil
}

// applyEnvOverrides applies LENSOPT_* variables on top of the loaded values
func (m *OptimizerConfigManager) applyEnvOverrides(cfg *OptimizerConfig) error {
	lookup := func(key string) (string, bool) {
		v, ok := m.lookupEnv(EnvPrefix + key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	ints := map[string]*int{
		"POPULATION":      &cfg.Optimization.PopulationSize,
		"GENERATIONS":     &cfg.Optimization.Generations,
		"ELITISM":         &cfg.Optimization.ElitismCount,
		"TOURNAMENT_SIZE": &cfg.Optimization.TournamentSize,
		"TOP":             &cfg.Output.TopN,
		"RESTARTS":        &cfg.Execution.Restarts,
		"WORKERS":         &cfg.Execution.Workers,
	}
	for key, dst := range ints {
		if raw, ok := lookup(key); ok {
			v, err := strconv.Atoi(raw)
			if err != nil {
				return fmt.Errorf("%s%s: invalid integer %q", EnvPrefix, key, raw)
			}
			*dst = v
		}
	}

	floats := map[string]*float64{
		"CROSSOVER_RATE": &cfg.Optimization.CrossoverRate,
		"MUTATION_RATE":  &cfg.Optimization.MutationRate,
		"PRICE_MIN":      &cfg.Patient.PriceRange.Min,
		"PRICE_MAX":      &cfg.Patient.PriceRange.Max,
	}
	for key, dst := range floats {
		if raw, ok := lookup(key); ok {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return fmt.Errorf("%s%s: invalid number %q", EnvPrefix, key, raw)
			}
			*dst = v
		}
	}

	bools := map[string]*bool{
		"DIVERSITY_SELECTION": &cfg.Optimization.DiversitySelection,
		"AVAILABLE_ONLY":      &cfg.Catalog.AvailableOnly,
		"LIGHT_SENSITIVITY":   &cfg.Patient.Constraints.LightSensitivity,
		"SCREEN_TIME":         &cfg.Patient.Constraints.ScreenTime,
		"OUTDOOR_ACTIVITIES":  &cfg.Patient.Constraints.OutdoorActivities,
		"NIGHT_DRIVING":       &cfg.Patient.Constraints.NightDriving,
	}
	for key, dst := range bools {
		if raw, ok := lookup(key); ok {
			v, err := strconv.ParseBool(raw)
			if err != nil {
				return fmt.Errorf("%s%s: invalid boolean %q", EnvPrefix, key, raw)
			}
			*dst = v
		}
	}

	if raw, ok := lookup("SEED"); ok {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return fmt.Errorf("%sSEED: invalid integer %q", EnvPrefix, raw)
		}
		cfg.Seed = v
	}

	strs := map[string]*string{
		"CONDITION":    &cfg.Patient.Condition,
		"CATALOG_DIR":  &cfg.Catalog.Dir,
		"EXCEL_FILE":   &cfg.Output.ExcelFile,
		"JSON_FILE":    &cfg.Output.JSONFile,
		"LOG_DIR":      &cfg.Output.LogDir,
		"METRICS_ADDR": &cfg.Monitoring.MetricsAddr,
	}
	for key, dst := range strs {
		if raw, ok := lookup(key); ok {
			*dst = raw
		}
	}

	return nil
}

// ValidateConfig validates configuration using the configured validator
func (m *OptimizerConfigManager) ValidateConfig(cfg *OptimizerConfig) error {
	return m.validator.Validate(cfg)
}

// SaveConfig saves configuration to file as indented JSON
func (m *OptimizerConfigManager) SaveConfig(cfg *OptimizerConfig, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	return os.WriteFile(path, data, 0644)
}
