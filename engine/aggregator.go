package engine

import (
	"fmt"
	"strings"

	"github.com/giygas/medicaments-safety/entities"
)

// assemble builds the assessment from per-medicine results in input order.
func assemble(results []medicineResult) *Assessment {
	profiles := make([]MedicineSafetyProfile, len(results))
	blocks := make([]MedicineAlternatives, len(results))
	for i, r := range results {
		profiles[i] = r.profile
		blocks[i] = r.block
	}

	c := Classify(profiles)
	return &Assessment{
		OverallSafetyAssessment: overallAssessment(c),
		SafetyScore:             c.Tier,
		CriticalWarnings:        c.Warnings,
		RecommendationsSummary:  recommendationsSummary(results),
		MedicineAlternatives:    blocks,
		OverallRecommendations: OverallRecommendations{
			PrescriptionChanges:    prescriptionChanges(blocks),
			FollowUpNeeded:         followUp(c.Tier),
			PharmacistConsultation: c.Tier.Rank() >= entities.ModerateRisk.Rank(),
			DoctorConsultation:     c.Tier == entities.HighRisk || c.Contraindicated,
		},
		SafetyProfiles: profiles,
	}
}

func overallAssessment(c Classification) string {
	switch c.Tier {
	case entities.HighRisk:
		return fmt.Sprintf("High risk: %d critical issue(s) found. Do not dispense before the prescriber has reviewed them.", len(c.Warnings))
	case entities.ModerateRisk:
		return fmt.Sprintf("Moderate risk: %d issue(s) need review by a pharmacist.", len(c.Warnings))
	default:
		return "Low risk: no significant interactions or age restrictions found."
	}
}

func recommendationsSummary(results []medicineResult) string {
	alts, withAlts, unknown := 0, 0, 0
	for _, r := range results {
		if !r.profile.Known {
			unknown++
		}
		if n := len(r.block.RecommendedAlternatives); n > 0 {
			alts += n
			withAlts++
		}
	}

	var b strings.Builder
	if alts == 0 {
		b.WriteString("No cheaper alternatives found")
	} else {
		fmt.Fprintf(&b, "Found %d cheaper alternative(s) for %d of %d medicine(s)", alts, withAlts, len(results))
	}
	if unknown > 0 {
		fmt.Fprintf(&b, "; %d medicine(s) not found in inventory", unknown)
	}
	return b.String()
}

// prescriptionChanges suggests the top recommended alternative per medicine.
func prescriptionChanges(blocks []MedicineAlternatives) string {
	changes := make([]string, 0)
	for _, b := range blocks {
		if len(b.RecommendedAlternatives) == 0 {
			continue
		}
		top := b.RecommendedAlternatives[0]
		if top.RecommendationStrength == entities.NotRecommended {
			continue
		}
		changes = append(changes, fmt.Sprintf("%s -> %s (saves %.0f%%, %s)",
			b.OriginalMedicine.Name, top.Name, top.SavingsPercent, strings.ToLower(string(top.RecommendationStrength))))
	}
	if len(changes) == 0 {
		return "No changes recommended"
	}
	return "Consider switching " + strings.Join(changes, "; ")
}

func followUp(tier entities.RiskTier) string {
	switch tier {
	case entities.HighRisk:
		return "Contact the prescribing doctor before dispensing"
	case entities.ModerateRisk:
		return "Pharmacist review and patient counselling recommended"
	default:
		return "Routine follow-up"
	}
}

func clinicalNotes(p MedicineSafetyProfile, record entities.MedicineRecord, alts []Alternative) string {
	var notes []string
	switch {
	case !p.Known:
		notes = append(notes, "Not found in inventory, no alternatives available. Verify the medicine name.")
	case strings.TrimSpace(record.GenericName) == "":
		notes = append(notes, "No generic name on record, alternatives cannot be matched.")
	case len(alts) == 0:
		notes = append(notes, fmt.Sprintf("No cheaper in-stock alternative containing %s.", record.GenericName))
	default:
		notes = append(notes, fmt.Sprintf("%d alternative(s) containing %s.", len(alts), record.GenericName))
	}

	if !p.Age.Appropriate {
		notes = append(notes, "Not suitable at this age: "+strings.TrimSuffix(p.Age.Rationale, ".")+".")
	} else if p.Age.Coverage == AgeNoGuideline {
		notes = append(notes, "No dosage guideline for this age, suitability unverified.")
	}
	return strings.Join(notes, " ")
}
