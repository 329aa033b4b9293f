package config

import (
	"fmt"
	"strings"

	opterrors "github.com/ducminhle1904/lens-optimizer/internal/errors"
)

// OptimizerValidator implements validation for optimizer configurations
type OptimizerValidator struct{}

// NewOptimizerValidator creates a new optimizer validator
func NewOptimizerValidator() *OptimizerValidator {
	return &OptimizerValidator{}
}

// Validate performs validation on every configuration section
func (v *OptimizerValidator) Validate(cfg *OptimizerConfig) error {
	if cfg == nil {
		return opterrors.NewConfigurationError("config", "validate", "configuration is nil")
	}

	if err := cfg.Optimization.Validate(); err != nil {
		return err
	}

	if err := v.validateLimits(cfg); err != nil {
		return err
	}

	if err := v.validatePatient(cfg); err != nil {
		return err
	}

	return v.validateOutput(cfg)
}

// validateLimits rejects runs too large to be meaningful
func (v *OptimizerValidator) validateLimits(cfg *OptimizerConfig) error {
	if cfg.Optimization.PopulationSize > MaxPopulationSize {
		return invalidField("population_size", cfg.Optimization.PopulationSize,
			fmt.Sprintf("cannot exceed %d", MaxPopulationSize))
	}
	if cfg.Optimization.Generations > MaxGenerations {
		return invalidField("generations", cfg.Optimization.Generations,
			fmt.Sprintf("cannot exceed %d", MaxGenerations))
	}
	if cfg.Execution.Restarts < 1 || cfg.Execution.Restarts > MaxRestarts {
		return invalidField("restarts", cfg.Execution.Restarts,
			fmt.Sprintf("must be between 1 and %d", MaxRestarts))
	}
	if cfg.Execution.Workers < 0 {
		return invalidField("workers", cfg.Execution.Workers, "cannot be negative")
	}
	return nil
}

func (v *OptimizerValidator) validatePatient(cfg *OptimizerConfig) error {
	if strings.TrimSpace(cfg.Patient.Condition) == "" {
		return invalidField("condition", cfg.Patient.Condition, "is required")
	}
	if err := cfg.Patient.PriceRange.Validate(); err != nil {
		wrapped := opterrors.WrapError(err, opterrors.ErrorCategoryConfiguration, "config", "validate")
		wrapped.Message = "invalid price range"
		return wrapped.WithContext("price_range", cfg.Patient.PriceRange.String())
	}
	return nil
}

func (v *OptimizerValidator) validateOutput(cfg *OptimizerConfig) error {
	if cfg.Output.TopN < 1 || cfg.Output.TopN > MaxTopN {
		return invalidField("top_n", cfg.Output.TopN, fmt.Sprintf("must be between 1 and %d", MaxTopN))
	}
	if cfg.Output.ExcelFile != "" && !strings.HasSuffix(strings.ToLower(cfg.Output.ExcelFile), ".xlsx") {
		return invalidField("excel_file", cfg.Output.ExcelFile, "must end in .xlsx")
	}
	if cfg.Output.JSONFile != "" && !strings.HasSuffix(strings.ToLower(cfg.Output.JSONFile), ".json") {
		return invalidField("json_file", cfg.Output.JSONFile, "must end in .json")
	}
	return nil
}

func invalidField(field string, value interface{}, msg string) error {
	return opterrors.NewConfigurationError("config", "validate", fmt.Sprintf("%s %s", field, msg)).
		WithContext(field, value)
}
