package reporting

import (
	"fmt"
	"strings"

	"github.com/ducminhle1904/lens-optimizer/pkg/optimization"
)

// Note texts attached to matching component traits
const (
	noteTitaniumFrame   = "Titanium frames are light and strong, suited to all-day wear."
	noteAcetateFrame    = "Acetate frames are durable and come in many colours."
	noteTR90Frame       = "TR-90 frames flex without breaking and suit active use."
	notePolycarbonate   = "Polycarbonate lenses are highly impact resistant."
	noteGlassLens       = "Glass lenses give the best optical clarity but need careful handling."
	noteHighIndexLens   = "High-index lenses stay thin for strong prescriptions."
	noteAntiReflective  = "Anti-reflective treatment reduces eye strain under artificial light."
	noteHydrophobic     = "Hydrophobic treatment makes cleaning easier and repels water marks."
	notePhotochromic    = "Photochromic treatment darkens outdoors and clears indoors."
	noteBlueLightFilter = "A blue-light filter is advisable for long hours on digital screens."
	noteUVFilter        = "UV protection shields the eyes from harmful solar radiation."
	notePolarized       = "Polarized filtering cuts glare reflected off water and road surfaces."
	noteMaintenance     = "Clean the lenses daily with the recommended cloth and solution."
)

// Recommendations returns technical notes explaining the assembly to the
// patient. The maintenance note is always last.
func Recommendations(condition string, cfg *optimization.Configuration) []string {
	var notes []string
	if condition = strings.TrimSpace(condition); condition != "" {
		notes = append(notes, fmt.Sprintf("For %s we recommend:", condition))
	}
	if cfg == nil {
		return append(notes, noteMaintenance)
	}

	if cfg.Frame != nil {
		material := strings.ToLower(cfg.Frame.Material)
		switch {
		case strings.Contains(material, "titanium"):
			notes = append(notes, noteTitaniumFrame)
		case strings.Contains(material, "acetate"):
			notes = append(notes, noteAcetateFrame)
		case strings.Contains(material, "tr-90"):
			notes = append(notes, noteTR90Frame)
		}
	}

	if cfg.Lens != nil {
		material := strings.ToLower(cfg.Lens.Material)
		switch {
		case strings.Contains(material, "polycarbonate"):
			notes = append(notes, notePolycarbonate)
		case strings.Contains(material, "glass"):
			notes = append(notes, noteGlassLens)
		case strings.Contains(material, "high-index"):
			notes = append(notes, noteHighIndexLens)
		}
	}

	if hasCoating(cfg, "anti-reflective") {
		notes = append(notes, noteAntiReflective)
	}
	if hasCoating(cfg, "hydrophobic") {
		notes = append(notes, noteHydrophobic)
	}
	if hasCoating(cfg, "photochromic") {
		notes = append(notes, notePhotochromic)
	}

	if hasFilter(cfg, "blue light") {
		notes = append(notes, noteBlueLightFilter)
	}
	if hasFilter(cfg, "uv") {
		notes = append(notes, noteUVFilter)
	}
	if hasFilter(cfg, "polarized") {
		notes = append(notes, notePolarized)
	}

	return append(notes, noteMaintenance)
}

func hasCoating(cfg *optimization.Configuration, trait string) bool {
	for _, c := range cfg.Coatings {
		if strings.Contains(strings.ToLower(c.Type), trait) {
			return true
		}
	}
	return false
}

func hasFilter(cfg *optimization.Configuration, trait string) bool {
	for _, f := range cfg.Filters {
		if strings.Contains(strings.ToLower(f.Type), trait) {
			return true
		}
	}
	return false
}
