package reporting

import (
	"encoding/json"
	"fmt"
	"os"
)

// DefaultJSONFormatter implements JSON output functionality
type DefaultJSONFormatter struct{}

// NewDefaultJSONFormatter creates a new JSON formatter
func NewDefaultJSONFormatter() *DefaultJSONFormatter {
	return &DefaultJSONFormatter{}
}

// FormatReport formats a report as indented JSON bytes
func (f *DefaultJSONFormatter) FormatReport(report *RunReport) ([]byte, error) {
	return json.MarshalIndent(report, "", "  ")
}

// WriteReportJSON writes the full report to a JSON file
func (f *DefaultJSONFormatter) WriteReportJSON(report *RunReport, path string) error {
	data, err := f.FormatReport(report)
	if err != nil {
		return err
	}

	if err := NewDefaultPathManager().EnsureDirectoryExists(path); err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// WriteReportJSON writes the full report to a JSON file
func WriteReportJSON(report *RunReport, path string) error {
	return NewDefaultJSONFormatter().WriteReportJSON(report, path)
}

// ReadReportJSON loads a report previously written by WriteReportJSON
func ReadReportJSON(path string) (*RunReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read report: %w", err)
	}
	var report RunReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("could not parse report: %w", err)
	}
	return &report, nil
}
