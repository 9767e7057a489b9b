package engine

import (
	"fmt"

	"github.com/giygas/medicaments-safety/entities"
	"github.com/giygas/medicaments-safety/interfaces"
)

// CheckAge looks for the dosage band covering ageMonths under the first of
// names that has any guideline. Later names are fallbacks, typically the
// generic name. A missing age skips the check; a missing band is appropriate
// but unverified.
func CheckAge(store interfaces.DosageStore, ageMonths *int, names ...string) AgeAssessment {
	if ageMonths == nil {
		return AgeAssessment{
			Appropriate: true,
			Coverage:    AgeNotRequested,
			Rationale:   "No patient age given",
		}
	}

	for _, name := range names {
		if name == "" {
			continue
		}
		guidelines := store.LookupByMedicine(name)
		if len(guidelines) == 0 {
			continue
		}
		g, ok := coveringBand(guidelines, *ageMonths)
		if !ok {
			break
		}
		if g.Contraindicated {
			return AgeAssessment{
				Appropriate: false,
				Coverage:    AgeVerified,
				AgeGroup:    g.AgeGroup,
				Rationale:   g.Rationale,
			}
		}
		rationale := fmt.Sprintf("Suitable for %s", g.AgeGroup)
		if g.RecommendedDose != "" {
			rationale += ": " + g.RecommendedDose
		}
		return AgeAssessment{
			Appropriate: true,
			Coverage:    AgeVerified,
			AgeGroup:    g.AgeGroup,
			Rationale:   rationale,
		}
	}

	return AgeAssessment{
		Appropriate: true,
		Coverage:    AgeNoGuideline,
		Rationale:   fmt.Sprintf("No dosage guideline covers %d months, age suitability unverified", *ageMonths),
	}
}

// coveringBand prefers a contraindicated band when bands overlap.
func coveringBand(guidelines []entities.DosageGuideline, age int) (entities.DosageGuideline, bool) {
	var match entities.DosageGuideline
	found := false
	for _, g := range guidelines {
		if !g.Covers(age) {
			continue
		}
		if !found || (g.Contraindicated && !match.Contraindicated) {
			match, found = g, true
		}
	}
	return match, found
}
