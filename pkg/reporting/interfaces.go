// Package reporting provides output generation for optimization results
package reporting

import (
	"github.com/ducminhle1904/lens-optimizer/pkg/optimization"
)

// ConsoleReporter defines interface for console output
type ConsoleReporter interface {
	OutputResults(report *RunReport)
	PrintRunConfig(report *RunReport)
}

// FileReporter defines interface for file output
type FileReporter interface {
	WriteResultsCSV(report *RunReport, path string) error
	WriteResultsXLSX(report *RunReport, path string) error
	WriteReportJSON(report *RunReport, path string) error
}

// Breakdowner explains how a configuration's fitness was composed
type Breakdowner interface {
	Breakdown(cfg *optimization.Configuration) optimization.ScoreBreakdown
}

// ExcelStyles holds Excel formatting styles
type ExcelStyles struct {
	HeaderStyle   int
	CurrencyStyle int
	ScoreStyle    int
	BaseStyle     int
	BestRowStyle  int
	TitleStyle    int
}

// ReportingConfig holds configuration for reporting
type ReportingConfig struct {
	EnableConsole bool
	ExcelPath     string
	CSVPath       string
	JSONPath      string
}
