package main

import (
	"io"

	"github.com/spf13/pflag"

	"github.com/ducminhle1904/lens-optimizer/cmd/common"
	"github.com/ducminhle1904/lens-optimizer/pkg/config"
)

// OptimizerFlags holds all command line flags for the optimizer command.
// Flags override the config file only when set explicitly.
type OptimizerFlags struct {
	// Configuration
	ConfigFile *string
	EnvFile    *string
	SaveConfig *string
	CatalogDir *string

	// Patient
	Condition          *string
	MinPrice           *float64
	MaxPrice           *float64
	LightSensitivity   *bool
	ScreenTime         *bool
	OutdoorActivities  *bool
	NightDriving       *bool
	IncludeUnavailable *bool

	// Genetic algorithm
	Population  *int
	Generations *int
	Crossover   *float64
	Mutation    *float64
	Elitism     *int
	Tournament  *int
	NoDiversity *bool
	Seed        *int64
	Restarts    *int
	Workers     *int

	// Output
	Top         *int
	OutputXLSX  *string
	OutputCSV   *string
	OutputJSON  *string
	LogDir      *string
	MetricsAddr *string

	// Modes
	ListConditions *bool
	Verbose        *bool
	Silent         *bool
	ShowVersion    *bool
	ShowHelp       *bool

	fs *pflag.FlagSet
}

// NewOptimizerFlags registers every flag on fs
func NewOptimizerFlags(fs *pflag.FlagSet) *OptimizerFlags {
	d := config.NewDefaultOptimizerConfig()

	return &OptimizerFlags{
		ConfigFile: fs.StringP("config", "c", "", "Configuration file (.json, .yaml or .yml)"),
		EnvFile:    fs.String("env", ".env", "Environment file with LENSOPT_* overrides"),
		SaveConfig: fs.String("save-config", "", "Write the effective configuration to this JSON file"),
		CatalogDir: fs.String("catalog-dir", d.Catalog.Dir, "Directory of catalog CSV files (empty uses the built-in sample)"),

		Condition:          fs.String("condition", d.Patient.Condition, "Medical condition to optimize for"),
		MinPrice:           fs.Float64("min-price", d.Patient.PriceRange.Min, "Minimum total price"),
		MaxPrice:           fs.Float64("max-price", d.Patient.PriceRange.Max, "Maximum total price"),
		LightSensitivity:   fs.Bool("light-sensitivity", false, "Patient is sensitive to light"),
		ScreenTime:         fs.Bool("screen-time", false, "Patient spends long hours on screens"),
		OutdoorActivities:  fs.Bool("outdoor", false, "Patient spends much time outdoors"),
		NightDriving:       fs.Bool("night-driving", false, "Patient drives at night"),
		IncludeUnavailable: fs.Bool("include-unavailable", false, "Also consider low-availability components"),

		Population:  fs.IntP("population", "p", d.Optimization.PopulationSize, "Population size"),
		Generations: fs.IntP("generations", "g", d.Optimization.Generations, "Number of generations"),
		Crossover:   fs.Float64("crossover", d.Optimization.CrossoverRate, "Crossover rate (0-1)"),
		Mutation:    fs.Float64("mutation", d.Optimization.MutationRate, "Mutation rate (0-1)"),
		Elitism:     fs.Int("elitism", d.Optimization.ElitismCount, "Individuals copied unchanged into each generation"),
		Tournament:  fs.Int("tournament", d.Optimization.TournamentSize, "Tournament size"),
		NoDiversity: fs.Bool("no-diversity", false, "Use plain tournament selection without the diversity penalty"),
		Seed:        fs.Int64("seed", 0, "Random seed (0 seeds from the clock)"),
		Restarts:    fs.Int("restarts", d.Execution.Restarts, "Independent restarts, merged into one ranking"),
		Workers:     fs.Int("workers", d.Execution.Workers, "Restarts run in parallel (0 uses one per CPU)"),

		Top:         fs.IntP("top", "n", d.Output.TopN, "Number of configurations to report"),
		OutputXLSX:  fs.String("output-xlsx", "", "Write results to an Excel workbook"),
		OutputCSV:   fs.String("output-csv", "", "Write results to a CSV file"),
		OutputJSON:  fs.String("output-json", "", "Write the full report to a JSON file"),
		LogDir:      fs.String("log-dir", d.Output.LogDir, "Session log directory (empty disables file logging)"),
		MetricsAddr: fs.String("metrics-addr", d.Monitoring.MetricsAddr, "Serve /metrics and /health on this address"),

		ListConditions: fs.Bool("list-conditions", false, "List the known conditions and exit"),
		Verbose:        fs.BoolP("verbose", "v", false, "Log every generation"),
		Silent:         fs.Bool("silent", false, "Only print errors and the results table"),
		ShowVersion:    fs.Bool("version", false, "Show version information"),
		ShowHelp:       fs.BoolP("help", "h", false, "Show help information"),

		fs: fs,
	}
}

func (f *OptimizerFlags) changed(name string) bool {
	return f.fs.Changed(name)
}

// ApplyTo copies explicitly set flags onto cfg
func (f *OptimizerFlags) ApplyTo(cfg *config.OptimizerConfig) {
	if f.changed("catalog-dir") {
		cfg.Catalog.Dir = *f.CatalogDir
	}
	if f.changed("include-unavailable") {
		cfg.Catalog.AvailableOnly = !*f.IncludeUnavailable
	}

	if f.changed("condition") {
		cfg.Patient.Condition = *f.Condition
	}
	if f.changed("min-price") {
		cfg.Patient.PriceRange.Min = *f.MinPrice
	}
	if f.changed("max-price") {
		cfg.Patient.PriceRange.Max = *f.MaxPrice
	}
	if f.changed("light-sensitivity") {
		cfg.Patient.Constraints.LightSensitivity = *f.LightSensitivity
	}
	if f.changed("screen-time") {
		cfg.Patient.Constraints.ScreenTime = *f.ScreenTime
	}
	if f.changed("outdoor") {
		cfg.Patient.Constraints.OutdoorActivities = *f.OutdoorActivities
	}
	if f.changed("night-driving") {
		cfg.Patient.Constraints.NightDriving = *f.NightDriving
	}

	opt := &cfg.Optimization
	if f.changed("population") {
		opt.PopulationSize = *f.Population
	}
	if f.changed("generations") {
		opt.Generations = *f.Generations
	}
	if f.changed("crossover") {
		opt.CrossoverRate = *f.Crossover
	}
	if f.changed("mutation") {
		opt.MutationRate = *f.Mutation
	}
	if f.changed("elitism") {
		opt.ElitismCount = *f.Elitism
	}
	if f.changed("tournament") {
		opt.TournamentSize = *f.Tournament
	}
	if f.changed("no-diversity") {
		opt.DiversitySelection = !*f.NoDiversity
	}
	if f.changed("seed") {
		cfg.Seed = *f.Seed
	}
	if f.changed("restarts") {
		cfg.Execution.Restarts = *f.Restarts
	}
	if f.changed("workers") {
		cfg.Execution.Workers = *f.Workers
	}

	if f.changed("top") {
		cfg.Output.TopN = *f.Top
	}
	if f.changed("output-xlsx") {
		cfg.Output.ExcelFile = *f.OutputXLSX
	}
	if f.changed("output-json") {
		cfg.Output.JSONFile = *f.OutputJSON
	}
	if f.changed("log-dir") {
		cfg.Output.LogDir = *f.LogDir
	}
	if f.changed("metrics-addr") {
		cfg.Monitoring.MetricsAddr = *f.MetricsAddr
	}
}

// ValidateOptimizerFlags checks the flag values that are set explicitly
func ValidateOptimizerFlags(f *OptimizerFlags) error {
	v := common.NewFlagValidator()

	if f.changed("population") {
		v.ValidateInt("population", *f.Population, 2, config.MaxPopulationSize)
	}
	if f.changed("generations") {
		v.ValidateInt("generations", *f.Generations, 1, config.MaxGenerations)
	}
	if f.changed("crossover") {
		v.ValidateFloat("crossover", *f.Crossover, 0, 1)
	}
	if f.changed("mutation") {
		v.ValidateFloat("mutation", *f.Mutation, 0, 1)
	}
	if f.changed("top") {
		v.ValidateInt("top", *f.Top, 1, config.MaxTopN)
	}
	if f.changed("restarts") {
		v.ValidateInt("restarts", *f.Restarts, 1, config.MaxRestarts)
	}
	if f.changed("workers") && *f.Workers < 0 {
		v.AddError("workers cannot be negative")
	}
	if f.changed("min-price") && *f.MinPrice < 0 {
		v.AddError("min-price cannot be negative")
	}
	if f.changed("max-price") && *f.MaxPrice < 0 {
		v.AddError("max-price cannot be negative")
	}
	if f.changed("tournament") && *f.Tournament < 0 {
		v.AddError("tournament cannot be negative")
	}
	if f.changed("elitism") && *f.Elitism < 0 {
		v.AddError("elitism cannot be negative")
	}

	v.ValidateFile("config", *f.ConfigFile, false)
	v.ValidateDirectory("catalog-dir", *f.CatalogDir, false)

	return v.GetError()
}

func printUsageHelp(w io.Writer, f *OptimizerFlags) {
	common.NewUsageFormatter(AppName, "genetic search for frame, lens, coating and filter assemblies").
		AddExample("lens-optimizer --condition Myopia --min-price 150 --max-price 450",
			"Optimize for myopia with the built-in catalog").
		AddExample("lens-optimizer -c run.yaml --catalog-dir ./inventory --output-xlsx results/run.xlsx",
			"Run from a config file against a CSV catalog and export to Excel").
		AddExample("lens-optimizer --list-conditions --catalog-dir ./inventory",
			"List known conditions").
		AddExample("lens-optimizer --condition Glaucoma --light-sensitivity --seed 42 --metrics-addr :9100",
			"Reproducible run with constraints and a metrics endpoint").
		AddExample("lens-optimizer --condition Presbyopia --restarts 8 --workers 4",
			"Merge eight independent searches run four at a time").
		PrintUsage(w, f.fs)
}
