package reporting

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Workbook sheet names
const (
	ResultsSheet    = "Results"
	ComponentsSheet = "Components"
	EvolutionSheet  = "Evolution"
)

// DefaultExcelReporter implements Excel output functionality
type DefaultExcelReporter struct {
	paths *DefaultPathManager
}

// NewDefaultExcelReporter creates a new Excel reporter
func NewDefaultExcelReporter() *DefaultExcelReporter {
	return &DefaultExcelReporter{paths: NewDefaultPathManager()}
}

// WriteResultsXLSX writes the ranked results, their components and the
// fitness history to a workbook
func (r *DefaultExcelReporter) WriteResultsXLSX(report *RunReport, path string) error {
	if err := r.paths.EnsureDirectoryExists(path); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}

	fx := excelize.NewFile()
	defer fx.Close()

	if err := fx.SetSheetName(fx.GetSheetName(0), ResultsSheet); err != nil {
		return err
	}
	if _, err := fx.NewSheet(ComponentsSheet); err != nil {
		return err
	}
	if _, err := fx.NewSheet(EvolutionSheet); err != nil {
		return err
	}

	styles, err := r.createExcelStyles(fx)
	if err != nil {
		return err
	}

	if err := r.writeResultsSheet(fx, ResultsSheet, report, styles); err != nil {
		return err
	}
	if err := r.writeComponentsSheet(fx, ComponentsSheet, report, styles); err != nil {
		return err
	}
	if err := r.writeEvolutionSheet(fx, EvolutionSheet, report, styles); err != nil {
		return err
	}

	return fx.SaveAs(path)
}

func (r *DefaultExcelReporter) createExcelStyles(fx *excelize.File) (ExcelStyles, error) {
	var styles ExcelStyles
	var err error

	thinBorder := []excelize.Border{
		{Type: "left", Color: "E0E0E0", Style: 1},
		{Type: "right", Color: "E0E0E0", Style: 1},
		{Type: "bottom", Color: "E0E0E0", Style: 1},
	}

	// Dark slate header with white text
	styles.HeaderStyle, err = fx.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11, Color: "FFFFFF", Family: "Calibri"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"2F4F4F"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return styles, err
	}

	styles.CurrencyStyle, err = fx.NewStyle(&excelize.Style{
		NumFmt:    7,
		Alignment: &excelize.Alignment{Horizontal: "right"},
		Border:    thinBorder,
	})
	if err != nil {
		return styles, err
	}

	styles.ScoreStyle, err = fx.NewStyle(&excelize.Style{
		NumFmt:    2,
		Alignment: &excelize.Alignment{Horizontal: "right"},
		Border:    thinBorder,
	})
	if err != nil {
		return styles, err
	}

	styles.BaseStyle, err = fx.NewStyle(&excelize.Style{Border: thinBorder})
	if err != nil {
		return styles, err
	}

	// Light green for the winning configuration
	styles.BestRowStyle, err = fx.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"E6FFE6"}, Pattern: 1},
		Border: thinBorder,
	})
	if err != nil {
		return styles, err
	}

	styles.TitleStyle, err = fx.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF", Family: "Calibri"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return styles, err
	}

	return styles, nil
}

func writeHeaderRow(fx *excelize.File, sheet string, row int, headers []string, style int) {
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		fx.SetCellValue(sheet, cell, h)
		fx.SetCellStyle(sheet, cell, cell, style)
	}
}

func writeRow(fx *excelize.File, sheet string, row int, values []interface{}) {
	for i, v := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		fx.SetCellValue(sheet, cell, v)
	}
}

func styleRange(fx *excelize.File, sheet string, fromCol, toCol, row, style int) {
	from, _ := excelize.CoordinatesToCellName(fromCol, row)
	to, _ := excelize.CoordinatesToCellName(toCol, row)
	fx.SetCellStyle(sheet, from, to, style)
}

// writeResultsSheet writes a title row, then one row per ranked configuration
func (r *DefaultExcelReporter) writeResultsSheet(fx *excelize.File, sheet string, report *RunReport, styles ExcelStyles) error {
	fx.SetColWidth(sheet, "A", "A", 6)  // Rank
	fx.SetColWidth(sheet, "B", "B", 10) // Fitness
	fx.SetColWidth(sheet, "C", "C", 12) // Price
	fx.SetColWidth(sheet, "D", "D", 10) // In budget
	fx.SetColWidth(sheet, "E", "F", 12) // Frame, Lens
	fx.SetColWidth(sheet, "G", "H", 18) // Coatings, Filters
	fx.SetColWidth(sheet, "I", "L", 13) // Sub-scores
	fx.SetColWidth(sheet, "M", "M", 80) // Recommendations

	headers := []string{
		"Rank", "Fitness", "Total Price", "In Budget", "Frame", "Lens", "Coatings", "Filters",
		"Compatibility", "Quality", "Price Score", "Constraints", "Recommendations",
	}

	if err := fx.MergeCell(sheet, "A1", "M1"); err != nil {
		return err
	}
	fx.SetCellValue(sheet, "A1", fmt.Sprintf("%s | budget %s | run %s", report.Condition, report.PriceRange, report.RunID))
	fx.SetCellStyle(sheet, "A1", "M1", styles.TitleStyle)

	writeHeaderRow(fx, sheet, 2, headers, styles.HeaderStyle)

	for i, e := range report.Results {
		row := i + 3

		frameID, lensID := "", ""
		if e.Frame != nil {
			frameID = e.Frame.ID
		}
		if e.Lens != nil {
			lensID = e.Lens.ID
		}

		coatingIDs := make([]string, len(e.Coatings))
		for j, c := range e.Coatings {
			coatingIDs[j] = c.ID
		}
		filterIDs := make([]string, len(e.Filters))
		for j, f := range e.Filters {
			filterIDs[j] = f.ID
		}

		values := []interface{}{
			e.Rank, e.Fitness, e.TotalPrice, boolLabel(e.InBudget), frameID, lensID,
			strings.Join(coatingIDs, ", "), strings.Join(filterIDs, ", "),
		}
		if e.Breakdown != nil {
			values = append(values, e.Breakdown.Compatibility, e.Breakdown.Quality,
				e.Breakdown.Price, e.Breakdown.Constraints)
		} else {
			values = append(values, "", "", "", "")
		}
		values = append(values, strings.Join(e.Recommendations, " "))
		writeRow(fx, sheet, row, values)

		if i == 0 {
			styleRange(fx, sheet, 1, len(headers), row, styles.BestRowStyle)
			continue
		}
		styleRange(fx, sheet, 1, len(headers), row, styles.BaseStyle)
		styleRange(fx, sheet, 2, 2, row, styles.ScoreStyle)
		styleRange(fx, sheet, 3, 3, row, styles.CurrencyStyle)
		styleRange(fx, sheet, 9, 12, row, styles.ScoreStyle)
	}

	return nil
}

// writeComponentsSheet lists each component of each ranked configuration
func (r *DefaultExcelReporter) writeComponentsSheet(fx *excelize.File, sheet string, report *RunReport, styles ExcelStyles) error {
	fx.SetColWidth(sheet, "A", "A", 6)  // Rank
	fx.SetColWidth(sheet, "B", "B", 10) // Kind
	fx.SetColWidth(sheet, "C", "C", 10) // ID
	fx.SetColWidth(sheet, "D", "D", 24) // Type / material
	fx.SetColWidth(sheet, "E", "E", 24) // Detail
	fx.SetColWidth(sheet, "F", "F", 10) // Grade
	fx.SetColWidth(sheet, "G", "G", 12) // Price
	fx.SetColWidth(sheet, "H", "H", 12) // Availability

	writeHeaderRow(fx, sheet, 1,
		[]string{"Rank", "Kind", "ID", "Type", "Detail", "Grade", "Price", "Availability"},
		styles.HeaderStyle)

	row := 2
	emit := func(values ...interface{}) {
		writeRow(fx, sheet, row, values)
		styleRange(fx, sheet, 1, 8, row, styles.BaseStyle)
		styleRange(fx, sheet, 7, 7, row, styles.CurrencyStyle)
		row++
	}

	for _, e := range report.Results {
		if e.Frame != nil {
			emit(e.Rank, "Frame", e.Frame.ID, e.Frame.Material, e.Frame.MountType,
				e.Frame.ResistanceGrade, e.Frame.Price, string(e.Frame.Availability))
		}
		if e.Lens != nil {
			emit(e.Rank, "Lens", e.Lens.ID, e.Lens.Material,
				fmt.Sprintf("%s n=%.2f", e.Lens.Shape, e.Lens.RefractiveIndex),
				"", e.Lens.Price, string(e.Lens.Availability))
		}
		for _, c := range e.Coatings {
			emit(e.Rank, "Coating", c.ID, c.Type, "", c.DurabilityGrade, c.Price, string(c.Availability))
		}
		for _, f := range e.Filters {
			emit(e.Rank, "Filter", f.ID, f.Type, "", f.SelectivityGrade, f.Price, string(f.Availability))
		}
	}

	return nil
}

// writeEvolutionSheet writes best and average fitness per generation
func (r *DefaultExcelReporter) writeEvolutionSheet(fx *excelize.File, sheet string, report *RunReport, styles ExcelStyles) error {
	fx.SetColWidth(sheet, "A", "C", 16)

	writeHeaderRow(fx, sheet, 1, []string{"Generation", "Best Fitness", "Average Fitness"}, styles.HeaderStyle)

	ev := report.Evolution
	for i, gen := range ev.Generations {
		row := i + 2
		values := []interface{}{gen, valueAt(ev.BestFitness, i), valueAt(ev.AverageFitness, i)}
		writeRow(fx, sheet, row, values)
		styleRange(fx, sheet, 1, 1, row, styles.BaseStyle)
		styleRange(fx, sheet, 2, 3, row, styles.ScoreStyle)
	}

	return nil
}

func valueAt(series []float64, i int) float64 {
	if i < len(series) {
		return series[i]
	}
	return 0
}

func boolLabel(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// WriteResultsXLSX is a package-level convenience function
func WriteResultsXLSX(report *RunReport, path string) error {
	return NewDefaultExcelReporter().WriteResultsXLSX(report, path)
}
