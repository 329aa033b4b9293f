package catalog

// DefaultProfiles returns the built-in condition profiles
func DefaultProfiles() []ConditionProfile {
	return []ConditionProfile{
		{Name: "Myopia", Description: "Nearsightedness",
			RecommendedFrame: "Titanium, TR-90", RecommendedLens: "Polycarbonate, High-index",
			RecommendedCoating: "Anti-reflective, Hardened", RecommendedFilter: "UV400"},
		{Name: "Hyperopia", Description: "Farsightedness",
			RecommendedFrame: "Titanium, TR-90", RecommendedLens: "High-index, Glass",
			RecommendedCoating: "Anti-reflective, Hardened", RecommendedFilter: "UV400"},
		{Name: "Astigmatism", Description: "Irregular corneal curvature",
			RecommendedFrame: "Full-rim", RecommendedLens: "High-index, Polycarbonate",
			RecommendedCoating: "Anti-reflective, Hardened", RecommendedFilter: "UV400"},
		{Name: "Presbyopia", Description: "Age-related loss of near focus",
			RecommendedFrame: "Full-rim, Acetate", RecommendedLens: "Progressive, Bifocal",
			RecommendedCoating: "Anti-reflective, Hardened", RecommendedFilter: "UV400, Blue light"},
		{Name: "Glaucoma", Description: "Optic nerve damage, glare sensitive",
			RecommendedFrame: "TR-90", RecommendedLens: "Polycarbonate, Photochromic",
			RecommendedCoating: "Photochromic, Anti-reflective", RecommendedFilter: "UV400, Polarized"},
		{Name: "Macular Degeneration", Description: "Central vision loss",
			RecommendedFrame: "Full-rim", RecommendedLens: "High-index, Photochromic",
			RecommendedCoating: "Photochromic, UV protection", RecommendedFilter: "UV400, High definition"},
		{Name: "Photophobia", Description: "Light sensitivity",
			RecommendedFrame: "Full-rim", RecommendedLens: "Photochromic, Polarized",
			RecommendedCoating: "Photochromic, Polarized", RecommendedFilter: "Polarized, UV400"},
		{Name: "Dry Eye", Description: "Insufficient tear film",
			RecommendedFrame: "Wraparound, TR-90", RecommendedLens: "Trivex",
			RecommendedCoating: "Hydrophobic", RecommendedFilter: "UV400"},
		{Name: "Diabetic Retinopathy", Description: "Retinal vessel damage",
			RecommendedFrame: "Titanium", RecommendedLens: "High-index",
			RecommendedCoating: "Anti-reflective, UV protection", RecommendedFilter: "UV400, Polarized"},
		{Name: "Digital Eye Strain", Description: "Fatigue from prolonged screen use",
			RecommendedFrame: "TR-90, Semi-rimless", RecommendedLens: "Polycarbonate, Trivex",
			RecommendedCoating: "Anti-reflective, Blue light", RecommendedFilter: "Blue light, UV400"},
	}
}

// NewSampleCatalog returns an in-memory catalog seeded with a small
// representative inventory and the default condition profiles
func NewSampleCatalog() *MemoryCatalog {
	c := NewMemoryCatalog()

	c.AddFrames(
		Frame{ID: "F01", MountType: "Full-rim", Material: "Titanium", ResistanceGrade: "High", Price: 240, Availability: AvailabilityHigh},
		Frame{ID: "F02", MountType: "Full-rim", Material: "Acetate", ResistanceGrade: "Medium", Price: 85, Availability: AvailabilityHigh},
		Frame{ID: "F03", MountType: "Semi-rimless", Material: "Metal", ResistanceGrade: "Medium", Price: 110, Availability: AvailabilityMedium},
		Frame{ID: "F04", MountType: "Rimless", Material: "Titanium", ResistanceGrade: "Medium", Price: 260, Availability: AvailabilityMedium},
		Frame{ID: "F05", MountType: "Full-rim", Material: "TR-90", ResistanceGrade: "High", Price: 130, Availability: AvailabilityHigh},
		Frame{ID: "F06", MountType: "Wraparound", Material: "TR-90", ResistanceGrade: "High", Price: 150, Availability: AvailabilityHigh},
		Frame{ID: "F07", MountType: "Semi-rimless", Material: "Acetate", ResistanceGrade: "Low", Price: 60, Availability: AvailabilityHigh},
		Frame{ID: "F08", MountType: "Full-rim", Material: "Metal", ResistanceGrade: "Medium", Price: 95, Availability: AvailabilityLow},
	)

	c.AddLenses(
		Lens{ID: "L01", Shape: "Single vision", Material: "CR-39", RefractiveIndex: 1.50, Price: 45, Availability: AvailabilityHigh},
		Lens{ID: "L02", Shape: "Single vision", Material: "Polycarbonate", RefractiveIndex: 1.59, Price: 90, Availability: AvailabilityHigh},
		Lens{ID: "L03", Shape: "Single vision", Material: "High-index", RefractiveIndex: 1.67, Price: 180, Availability: AvailabilityMedium},
		Lens{ID: "L04", Shape: "Progressive", Material: "High-index", RefractiveIndex: 1.74, Price: 320, Availability: AvailabilityMedium},
		Lens{ID: "L05", Shape: "Bifocal", Material: "Polycarbonate", RefractiveIndex: 1.59, Price: 140, Availability: AvailabilityHigh},
		Lens{ID: "L06", Shape: "Single vision", Material: "Trivex", RefractiveIndex: 1.53, Price: 120, Availability: AvailabilityHigh},
		Lens{ID: "L07", Shape: "Single vision", Material: "Glass", RefractiveIndex: 1.52, Price: 70, Availability: AvailabilityLow},
		Lens{ID: "L08", Shape: "Progressive", Material: "Photochromic polycarbonate", RefractiveIndex: 1.59, Price: 260, Availability: AvailabilityHigh},
	)

	c.AddCoatings(
		Coating{ID: "C01", Type: "Anti-reflective", DurabilityGrade: "High", Price: 80, Availability: AvailabilityHigh},
		Coating{ID: "C02", Type: "Anti-reflective", DurabilityGrade: "Medium", Price: 45, Availability: AvailabilityHigh},
		Coating{ID: "C03", Type: "Hardened", DurabilityGrade: "High", Price: 35, Availability: AvailabilityHigh},
		Coating{ID: "C04", Type: "Hydrophobic", DurabilityGrade: "Medium", Price: 40, Availability: AvailabilityMedium},
		Coating{ID: "C05", Type: "Photochromic", DurabilityGrade: "High", Price: 150, Availability: AvailabilityHigh},
		Coating{ID: "C06", Type: "UV protection", DurabilityGrade: "Medium", Price: 30, Availability: AvailabilityHigh},
		Coating{ID: "C07", Type: "Blue light", DurabilityGrade: "Low", Price: 55, Availability: AvailabilityMedium},
		Coating{ID: "C08", Type: "Polarized", DurabilityGrade: "Medium", Price: 120, Availability: AvailabilityLow},
	)

	c.AddFilters(
		Filter{ID: "T01", Type: "UV400", SelectivityGrade: "High", Price: 25, Availability: AvailabilityHigh},
		Filter{ID: "T02", Type: "Blue light", SelectivityGrade: "Medium", Price: 40, Availability: AvailabilityHigh},
		Filter{ID: "T03", Type: "Polarized", SelectivityGrade: "High", Price: 90, Availability: AvailabilityMedium},
		Filter{ID: "T04", Type: "High definition", SelectivityGrade: "Medium", Price: 70, Availability: AvailabilityHigh},
		Filter{ID: "T05", Type: "UV400", SelectivityGrade: "Medium", Price: 15, Availability: AvailabilityMedium},
		Filter{ID: "T06", Type: "Night vision", SelectivityGrade: "Low", Price: 50, Availability: AvailabilityLow},
	)

	c.AddProfiles(DefaultProfiles()...)
	return c
}
