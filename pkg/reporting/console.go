package reporting

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// DefaultConsoleReporter implements console output functionality
type DefaultConsoleReporter struct {
	out io.Writer
}

// NewDefaultConsoleReporter creates a console reporter writing to stdout
func NewDefaultConsoleReporter() *DefaultConsoleReporter {
	return &DefaultConsoleReporter{out: os.Stdout}
}

// NewConsoleReporter creates a console reporter writing to w
func NewConsoleReporter(w io.Writer) *DefaultConsoleReporter {
	return &DefaultConsoleReporter{out: w}
}

// PrintRunConfig prints the run parameters
func (r *DefaultConsoleReporter) PrintRunConfig(report *RunReport) {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetTitle("OPTIMIZATION RUN")
	t.SetStyle(table.StyleRounded)

	t.AppendRows([]table.Row{
		{"🆔 Run ID", report.RunID},
		{"🩺 Condition", report.Condition},
		{"💰 Budget", report.PriceRange.String()},
		{"⚠️ Constraints", constraintList(report)},
	})

	t.AppendSeparator()

	cfg := report.Config
	t.AppendRows([]table.Row{
		{"👥 Population", cfg.PopulationSize},
		{"🔄 Generations", cfg.Generations},
		{"🔀 Crossover Rate", fmt.Sprintf("%.2f", cfg.CrossoverRate)},
		{"🧬 Mutation Rate", fmt.Sprintf("%.2f", cfg.MutationRate)},
		{"🏆 Elitism", cfg.ElitismCount},
		{"🎯 Diversity Selection", cfg.DiversitySelection},
	})

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, WidthMin: 22, WidthMax: 22, Align: text.AlignLeft},
		{Number: 2, WidthMin: 25, WidthMax: 40, Align: text.AlignLeft},
	})

	t.Render()
	fmt.Fprintln(r.out)
}

// OutputResults prints the ranked configurations with score breakdowns
func (r *DefaultConsoleReporter) OutputResults(report *RunReport) {
	fmt.Fprintln(r.out, "\n"+strings.Repeat("=", 50))
	fmt.Fprintln(r.out, "📊 OPTIMIZATION RESULTS")
	fmt.Fprintln(r.out, strings.Repeat("=", 50))

	if len(report.Results) == 0 {
		fmt.Fprintln(r.out, "❌ No configurations found")
		return
	}

	fmt.Fprintf(r.out, "🩺 Condition:          %s\n", report.Condition)
	fmt.Fprintf(r.out, "💰 Budget:             %s\n", report.PriceRange)
	fmt.Fprintf(r.out, "🏆 Best Fitness:       %.2f\n", report.Results[0].Fitness)
	fmt.Fprintf(r.out, "🔄 Generations:        %d\n", len(report.Evolution.Generations))
	fmt.Fprintf(r.out, "⏱️ Duration:           %s\n\n", report.Duration)

	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetTitle("TOP CONFIGURATIONS")
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"#", "Frame", "Lens", "Coatings", "Filters", "Price", "Fitness", "Compat", "Quality", "Price Sc", "Constr"})

	for _, e := range report.Results {
		row := table.Row{
			e.Rank,
			frameLabel(e),
			lensLabel(e),
			coatingLabel(e),
			filterLabel(e),
			priceLabel(e),
			fmt.Sprintf("%.2f", e.Fitness),
		}
		if e.Breakdown != nil {
			row = append(row,
				fmt.Sprintf("%.2f", e.Breakdown.Compatibility),
				fmt.Sprintf("%.2f", e.Breakdown.Quality),
				fmt.Sprintf("%.2f", e.Breakdown.Price),
				fmt.Sprintf("%.2f", e.Breakdown.Constraints))
		} else {
			row = append(row, "-", "-", "-", "-")
		}
		t.AppendRow(row)
	}

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 2, WidthMax: 28},
		{Number: 3, WidthMax: 28},
		{Number: 4, WidthMax: 30},
		{Number: 5, WidthMax: 24},
		{Number: 6, Align: text.AlignRight},
		{Number: 7, Align: text.AlignRight},
	})

	t.Render()

	best := report.Results[0]
	fmt.Fprintln(r.out, "\n💡 Recommendations for the best configuration:")
	for _, note := range best.Recommendations {
		fmt.Fprintf(r.out, "   %s\n", note)
	}
}

func constraintList(report *RunReport) string {
	if len(report.Constraints) == 0 {
		return "none"
	}
	names := make([]string, len(report.Constraints))
	for i, c := range report.Constraints {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}

func frameLabel(e ResultEntry) string {
	if e.Frame == nil {
		return "-"
	}
	return fmt.Sprintf("%s %s %s", e.Frame.ID, e.Frame.Material, e.Frame.MountType)
}

func lensLabel(e ResultEntry) string {
	if e.Lens == nil {
		return "-"
	}
	return fmt.Sprintf("%s %s %.2f", e.Lens.ID, e.Lens.Material, e.Lens.RefractiveIndex)
}

func coatingLabel(e ResultEntry) string {
	if len(e.Coatings) == 0 {
		return "-"
	}
	parts := make([]string, len(e.Coatings))
	for i, c := range e.Coatings {
		parts[i] = c.Type
	}
	return strings.Join(parts, ", ")
}

func filterLabel(e ResultEntry) string {
	if len(e.Filters) == 0 {
		return "-"
	}
	parts := make([]string, len(e.Filters))
	for i, f := range e.Filters {
		parts[i] = f.Type
	}
	return strings.Join(parts, ", ")
}

func priceLabel(e ResultEntry) string {
	label := fmt.Sprintf("$%.2f", e.TotalPrice)
	if !e.InBudget {
		label += " ⚠️"
	}
	return label
}

// OutputConsole prints a report to stdout with the default reporter
func OutputConsole(report *RunReport) {
	NewDefaultConsoleReporter().OutputResults(report)
}
