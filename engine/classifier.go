package engine

import (
	"github.com/giygas/medicaments-safety/data"
	"github.com/giygas/medicaments-safety/entities"
)

// Classification is the prescription-wide risk verdict.
type Classification struct {
	Tier     entities.RiskTier
	Warnings []string
	// Contraindicated is set when any prescribed pair must not be combined.
	Contraindicated bool
}

type concern struct {
	text string
	// always concerns are listed whatever the tier; the others only once
	// enough of them accumulate to raise the tier.
	always bool
}

// Classify walks the profiles in prescription order. The tier only ever
// moves up. Each interaction pair counts once, seen from the side prescribed
// first, and a medicine listed more than once contributes its side effects once.
func Classify(profiles []MedicineSafetyProfile) Classification {
	tier := entities.LowRisk
	contraindicated := false
	moderateOrWorse := 0

	var interactions, sideEffects, ages []concern
	seenPairs := make(map[string]bool)
	seenMedicines := make(map[string]bool)

	for _, p := range profiles {
		for _, r := range p.Interactions {
			k := data.PairKey(r.Medicine, r.Other)
			if seenPairs[k] {
				continue
			}
			seenPairs[k] = true

			switch {
			case r.Severity == entities.InteractionContraindicated:
				contraindicated = true
				tier = tier.Escalate(entities.HighRisk)
			case r.Severity == entities.InteractionSevere:
				tier = tier.Escalate(entities.ModerateRisk)
			}
			if !r.Severity.AtLeast(entities.InteractionModerate) {
				continue
			}
			moderateOrWorse++
			interactions = append(interactions, concern{
				text:   p.MedicineName + ": " + interactionConcern(r),
				always: r.Severity.AtLeast(entities.InteractionSevere),
			})
		}

		k := data.Key(p.MedicineName)
		if !seenMedicines[k] {
			seenMedicines[k] = true
			for _, s := range p.SevereSideEffects {
				moderateOrWorse++
				sideEffects = append(sideEffects, concern{text: p.MedicineName + ": " + sideEffectConcern(s)})
			}
		}

		if !p.Age.Appropriate {
			tier = tier.Escalate(entities.HighRisk)
			ages = append(ages, concern{text: p.MedicineName + ": " + ageConcern(p.Age), always: true})
		}
	}

	if moderateOrWorse >= 2 {
		tier = tier.Escalate(entities.ModerateRisk)
	}

	warnings := make([]string, 0)
	seen := make(map[string]bool)
	for _, group := range [][]concern{interactions, sideEffects, ages} {
		for _, c := range group {
			if !c.always && moderateOrWorse < 2 {
				continue
			}
			if seen[c.text] {
				continue
			}
			seen[c.text] = true
			warnings = append(warnings, c.text)
		}
	}

	return Classification{Tier: tier, Warnings: warnings, Contraindicated: contraindicated}
}
