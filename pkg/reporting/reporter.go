package reporting

// DefaultReporter implements ConsoleReporter and FileReporter
type DefaultReporter struct {
	console *DefaultConsoleReporter
	csv     *DefaultCSVReporter
	excel   *DefaultExcelReporter
	json    *DefaultJSONFormatter
}

// NewDefaultReporter creates a new default reporter with all functionality
func NewDefaultReporter() *DefaultReporter {
	return &DefaultReporter{
		console: NewDefaultConsoleReporter(),
		csv:     NewDefaultCSVReporter(),
		excel:   NewDefaultExcelReporter(),
		json:    NewDefaultJSONFormatter(),
	}
}

// Console output methods
func (r *DefaultReporter) OutputResults(report *RunReport) {
	r.console.OutputResults(report)
}

func (r *DefaultReporter) PrintRunConfig(report *RunReport) {
	r.console.PrintRunConfig(report)
}

// File output methods
func (r *DefaultReporter) WriteResultsCSV(report *RunReport, path string) error {
	return r.csv.WriteResultsCSV(report, path)
}

func (r *DefaultReporter) WriteResultsXLSX(report *RunReport, path string) error {
	return r.excel.WriteResultsXLSX(report, path)
}

func (r *DefaultReporter) WriteReportJSON(report *RunReport, path string) error {
	return r.json.WriteReportJSON(report, path)
}

// ReportingManager provides a high-level interface for all reporting needs
type ReportingManager struct {
	console ConsoleReporter
	files   FileReporter
	config  ReportingConfig
}

// NewReportingManager creates a new reporting manager with configuration
func NewReportingManager(config ReportingConfig) *ReportingManager {
	r := NewDefaultReporter()
	return &ReportingManager{
		console: r,
		files:   r,
		config:  config,
	}
}

// WithConsole replaces the console reporter
func (m *ReportingManager) WithConsole(console ConsoleReporter) *ReportingManager {
	m.console = console
	return m
}

// ReportResults outputs results according to configuration and returns the
// paths of the files it wrote
func (m *ReportingManager) ReportResults(report *RunReport) ([]string, error) {
	if m.config.EnableConsole {
		m.console.OutputResults(report)
	}

	var written []string

	if m.config.ExcelPath != "" {
		if err := m.files.WriteResultsXLSX(report, m.config.ExcelPath); err != nil {
			return written, err
		}
		written = append(written, m.config.ExcelPath)
	}

	if m.config.CSVPath != "" {
		if err := m.files.WriteResultsCSV(report, m.config.CSVPath); err != nil {
			return written, err
		}
		written = append(written, m.config.CSVPath)
	}

	if m.config.JSONPath != "" {
		if err := m.files.WriteReportJSON(report, m.config.JSONPath); err != nil {
			return written, err
		}
		written = append(written, m.config.JSONPath)
	}

	return written, nil
}
