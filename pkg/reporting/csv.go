package reporting

import (
	"encoding/csv"
	"os"
	"strconv"
	"strings"
)

// DefaultCSVReporter implements CSV output functionality
type DefaultCSVReporter struct {
	paths *DefaultPathManager
}

// NewDefaultCSVReporter creates a new CSV reporter
func NewDefaultCSVReporter() *DefaultCSVReporter {
	return &DefaultCSVReporter{paths: NewDefaultPathManager()}
}

// WriteResultsCSV writes one row per ranked configuration. An .xlsx path is
// delegated to the Excel writer.
func (r *DefaultCSVReporter) WriteResultsCSV(report *RunReport, path string) error {
	if strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		return NewDefaultExcelReporter().WriteResultsXLSX(report, path)
	}

	if err := r.paths.EnsureDirectoryExists(path); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)

	if err := w.Write([]string{
		"Rank",
		"Fitness",
		"Total_Price",
		"In_Budget",
		"Frame_ID",
		"Lens_ID",
		"Coating_IDs",
		"Filter_IDs",
		"Compatibility",
		"Quality",
		"Price_Score",
		"Constraint_Score",
	}); err != nil {
		return err
	}

	for _, e := range report.Results {
		frameID, lensID := "", ""
		if e.Frame != nil {
			frameID = e.Frame.ID
		}
		if e.Lens != nil {
			lensID = e.Lens.ID
		}

		coatingIDs := make([]string, len(e.Coatings))
		for i, c := range e.Coatings {
			coatingIDs[i] = c.ID
		}
		filterIDs := make([]string, len(e.Filters))
		for i, f := range e.Filters {
			filterIDs[i] = f.ID
		}

		row := []string{
			strconv.Itoa(e.Rank),
			formatFloat(e.Fitness, 4),
			formatFloat(e.TotalPrice, 2),
			strconv.FormatBool(e.InBudget),
			frameID,
			lensID,
			strings.Join(coatingIDs, ";"),
			strings.Join(filterIDs, ";"),
		}
		if e.Breakdown != nil {
			row = append(row,
				formatFloat(e.Breakdown.Compatibility, 4),
				formatFloat(e.Breakdown.Quality, 4),
				formatFloat(e.Breakdown.Price, 4),
				formatFloat(e.Breakdown.Constraints, 4))
		} else {
			row = append(row, "", "", "", "")
		}

		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func formatFloat(v float64, prec int) string {
	return strconv.FormatFloat(v, 'f', prec, 64)
}
