package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/giygas/medicaments-safety/entities"
	"github.com/giygas/medicaments-safety/interfaces"
)

// BuildProfile combines the prescription's interactions involving name, the
// age check and the side effect records into one profile. record is the
// inventory row when known is true.
func BuildProfile(ref interfaces.ReferenceData, name string, record entities.MedicineRecord, known bool, resolved []ResolvedInteraction, ageMonths *int, maxSideEffects int) MedicineSafetyProfile {
	p := MedicineSafetyProfile{
		MedicineName:      name,
		Known:             known,
		Interactions:      withInventoryNames(ref.Inventory(), interactionsFor(resolved, name)),
		SideEffects:       []entities.SideEffectRecord{},
		SevereSideEffects: []entities.SideEffectRecord{},
		SafetyConcerns:    []string{},
		DataGaps:          []DataGap{},
	}
	if known {
		p.MedicineName = record.Name
	} else {
		p.DataGaps = append(p.DataGaps, GapUnknownMedicine)
	}
	if known && strings.TrimSpace(record.GenericName) == "" {
		p.DataGaps = append(p.DataGaps, GapNoGenericName)
	}

	p.Age = CheckAge(ref.Dosage(), ageMonths, p.MedicineName, record.GenericName)
	if p.Age.Coverage == AgeNoGuideline {
		p.DataGaps = append(p.DataGaps, GapNoDosageCoverage)
	}

	effects := append([]entities.SideEffectRecord(nil), lookupSideEffects(ref.SideEffects(), p.MedicineName, record.GenericName)...)
	if len(effects) == 0 {
		p.DataGaps = append(p.DataGaps, GapNoSideEffectData)
	}
	sort.SliceStable(effects, func(i, j int) bool {
		if effects[i].Severity.Rank() != effects[j].Severity.Rank() {
			return effects[i].Severity.Rank() > effects[j].Severity.Rank()
		}
		return effects[i].FrequencyPercent > effects[j].FrequencyPercent
	})
	for _, s := range effects {
		if s.Severity.AtLeast(entities.SideEffectSevere) {
			p.SevereSideEffects = append(p.SevereSideEffects, s)
		}
	}
	if len(effects) > maxSideEffects {
		effects = effects[:maxSideEffects]
	}
	p.SideEffects = append(p.SideEffects, effects...)

	for _, r := range p.Interactions {
		if r.Severity.AtLeast(entities.InteractionSevere) {
			p.SafetyConcerns = append(p.SafetyConcerns, interactionConcern(r))
		}
	}
	for _, s := range p.SevereSideEffects {
		p.SafetyConcerns = append(p.SafetyConcerns, sideEffectConcern(s))
	}
	if !p.Age.Appropriate {
		p.SafetyConcerns = append(p.SafetyConcerns, ageConcern(p.Age))
	}
	return p
}

func interactionConcern(r ResolvedInteraction) string {
	return fmt.Sprintf("%s interaction with %s — %s", strings.ToUpper(string(r.Severity)), r.Other, r.Description)
}

func sideEffectConcern(s entities.SideEffectRecord) string {
	return fmt.Sprintf("%s side effect — %s", strings.ToUpper(string(s.Severity)), s.Effect)
}

func ageConcern(a AgeAssessment) string {
	return "CONTRAINDICATED age restriction — " + a.Rationale
}
