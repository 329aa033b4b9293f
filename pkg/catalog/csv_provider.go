package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// CSV file names expected inside a catalog directory
const (
	FramesFile     = "frames.csv"
	LensesFile     = "lenses.csv"
	CoatingsFile   = "coatings.csv"
	FiltersFile    = "filters.csv"
	ConditionsFile = "conditions.csv"
)

// Column aliases accepted in CSV headers. The second name of each list is the
// legacy inventory export header.
var columnAliases = map[string][]string{
	"frame.id":             {"id", "id_montura"},
	"frame.mount_type":     {"mount_type", "tipo_montura"},
	"frame.material":       {"material", "material_armazon"},
	"frame.resistance":     {"resistance_grade", "resistencia_montura"},
	"frame.price":          {"price", "precio_montura"},
	"frame.availability":   {"availability", "disponibilidad_montura"},
	"lens.id":              {"id", "id_lente"},
	"lens.shape":           {"shape", "forma_lente"},
	"lens.material":        {"material", "material_lente"},
	"lens.index":           {"refractive_index", "indice_refraccion"},
	"lens.price":           {"price", "precio_lente"},
	"lens.availability":    {"availability", "disponibilidad_lente"},
	"coating.id":           {"id", "id_capa"},
	"coating.type":         {"type", "tipo_capa"},
	"coating.durability":   {"durability_grade", "durabilidad_capa"},
	"coating.price":        {"price", "precio_capa"},
	"coating.availability": {"availability", "disponibilidad_capa"},
	"filter.id":            {"id", "id_filtro"},
	"filter.type":          {"type", "tipo_filtro"},
	"filter.selectivity":   {"selectivity_grade", "selectividad_filtro"},
	"filter.price":         {"price", "precio_filtro"},
	"filter.availability":  {"availability", "disponibilidad_filtro"},
	"condition.name":       {"name", "nombre_padecimiento"},
	"condition.desc":       {"description", "descripcion"},
	"condition.frame":      {"recommended_frame", "recomendacion_montura"},
	"condition.lens":       {"recommended_lens", "recomendacion_lente"},
	"condition.coating":    {"recommended_coating", "recomendacion_capa"},
	"condition.filter":     {"recommended_filter", "recomendacion_filtro"},
}

// CSVProvider loads a catalog from a directory of CSV files
type CSVProvider struct {
	dir string
}

// NewCSVProvider creates a CSV catalog loader rooted at dir
func NewCSVProvider(dir string) *CSVProvider {
	return &CSVProvider{dir: dir}
}

// GetName returns the name of the provider
func (p *CSVProvider) GetName() string {
	return "CSV Catalog (" + p.dir + ")"
}

// Load reads every catalog file. Frames and lenses are required; coatings,
// filters and conditions are optional. Missing conditions fall back to the
// built-in profiles.
func (p *CSVProvider) Load() (*MemoryCatalog, error) {
	c := NewMemoryCatalog()

	frames, err := p.loadFrames()
	if err != nil {
		return nil, err
	}
	c.AddFrames(frames...)

	lenses, err := p.loadLenses()
	if err != nil {
		return nil, err
	}
	c.AddLenses(lenses...)

	coatings, err := p.loadCoatings()
	if err != nil {
		return nil, err
	}
	c.AddCoatings(coatings...)

	filters, err := p.loadFilters()
	if err != nil {
		return nil, err
	}
	c.AddFilters(filters...)

	profiles, err := p.loadProfiles()
	if err != nil {
		return nil, err
	}
	if len(profiles) == 0 {
		profiles = DefaultProfiles()
	}
	c.AddProfiles(profiles...)

	return c, nil
}

type csvTable struct {
	name    string
	columns map[string]int
	rows    [][]string
}

func (t *csvTable) get(row []string, key string) string {
	for _, alias := range columnAliases[key] {
		if idx, ok := t.columns[alias]; ok && idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
	}
	return ""
}

func (t *csvTable) float(row []string, key string, line int) (float64, bool) {
	raw := t.get(row, key)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		log.Printf("⚠️ Invalid number '%s' for %s in %s at line %d, skipping", raw, key, t.name, line)
		return 0, false
	}
	return v, true
}

func (p *CSVProvider) readTable(name string, required bool) (*csvTable, error) {
	path := filepath.Join(p.dir, name)
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) && !required {
			return &csvTable{name: name, columns: map[string]int{}}, nil
		}
		return nil, fmt.Errorf("could not open catalog file %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return &csvTable{name: name, columns: map[string]int{}}, nil
		}
		return nil, fmt.Errorf("error reading header of %s: %w", path, err)
	}

	table := &csvTable{name: name, columns: make(map[string]int, len(header))}
	for i, h := range header {
		table.columns[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}

	lineNum := 1
	for {
		record, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("error reading %s at line %d: %w", path, lineNum+1, err)
		}
		lineNum++
		table.rows = append(table.rows, record)
	}

	return table, nil
}

func (p *CSVProvider) loadFrames() ([]Frame, error) {
	t, err := p.readTable(FramesFile, true)
	if err != nil {
		return nil, err
	}

	frames := make([]Frame, 0, len(t.rows))
	for i, row := range t.rows {
		line := i + 2
		id := t.get(row, "frame.id")
		if id == "" {
			log.Printf("⚠️ Missing id in %s at line %d, skipping", t.name, line)
			continue
		}
		price, ok := t.float(row, "frame.price", line)
		if !ok {
			continue
		}
		frames = append(frames, Frame{
			ID:              id,
			MountType:       t.get(row, "frame.mount_type"),
			Material:        t.get(row, "frame.material"),
			ResistanceGrade: t.get(row, "frame.resistance"),
			Price:           price,
			Availability:    ParseAvailability(t.get(row, "frame.availability")),
		})
	}
	return frames, nil
}

func (p *CSVProvider) loadLenses() ([]Lens, error) {
	t, err := p.readTable(LensesFile, true)
	if err != nil {
		return nil, err
	}

	lenses := make([]Lens, 0, len(t.rows))
	for i, row := range t.rows {
		line := i + 2
		id := t.get(row, "lens.id")
		if id == "" {
			log.Printf("⚠️ Missing id in %s at line %d, skipping", t.name, line)
			continue
		}
		price, ok := t.float(row, "lens.price", line)
		if !ok {
			continue
		}
		index, ok := t.float(row, "lens.index", line)
		if !ok {
			continue
		}
		lenses = append(lenses, Lens{
			ID:              id,
			Shape:           t.get(row, "lens.shape"),
			Material:        t.get(row, "lens.material"),
			RefractiveIndex: index,
			Price:           price,
			Availability:    ParseAvailability(t.get(row, "lens.availability")),
		})
	}
	return lenses, nil
}

func (p *CSVProvider) loadCoatings() ([]Coating, error) {
	t, err := p.readTable(CoatingsFile, false)
	if err != nil {
		return nil, err
	}

	coatings := make([]Coating, 0, len(t.rows))
	for i, row := range t.rows {
		line := i + 2
		id := t.get(row, "coating.id")
		if id == "" {
			log.Printf("⚠️ Missing id in %s at line %d, skipping", t.name, line)
			continue
		}
		price, ok := t.float(row, "coating.price", line)
		if !ok {
			continue
		}
		coatings = append(coatings, Coating{
			ID:              id,
			Type:            t.get(row, "coating.type"),
			DurabilityGrade: t.get(row, "coating.durability"),
			Price:           price,
			Availability:    ParseAvailability(t.get(row, "coating.availability")),
		})
	}
	return coatings, nil
}

func (p *CSVProvider) loadFilters() ([]Filter, error) {
	t, err := p.readTable(FiltersFile, false)
	if err != nil {
		return nil, err
	}

	filters := make([]Filter, 0, len(t.rows))
	for i, row := range t.rows {
		line := i + 2
		id := t.get(row, "filter.id")
		if id == "" {
			log.Printf("⚠️ Missing id in %s at line %d, skipping", t.name, line)
			continue
		}
		price, ok := t.float(row, "filter.price", line)
		if !ok {
			continue
		}
		filters = append(filters, Filter{
			ID:               id,
			Type:             t.get(row, "filter.type"),
			SelectivityGrade: t.get(row, "filter.selectivity"),
			Price:            price,
			Availability:     ParseAvailability(t.get(row, "filter.availability")),
		})
	}
	return filters, nil
}

func (p *CSVProvider) loadProfiles() ([]ConditionProfile, error) {
	t, err := p.readTable(ConditionsFile, false)
	if err != nil {
		return nil, err
	}

	profiles := make([]ConditionProfile, 0, len(t.rows))
	for i, row := range t.rows {
		name := t.get(row, "condition.name")
		if name == "" {
			log.Printf("⚠️ Missing condition name in %s at line %d, skipping", t.name, i+2)
			continue
		}
		profiles = append(profiles, ConditionProfile{
			Name:               name,
			Description:        t.get(row, "condition.desc"),
			RecommendedFrame:   t.get(row, "condition.frame"),
			RecommendedLens:    t.get(row, "condition.lens"),
			RecommendedCoating: t.get(row, "condition.coating"),
			RecommendedFilter:  t.get(row, "condition.filter"),
		})
	}
	return profiles, nil
}
