package engine

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/giygas/medicaments-safety/data"
	"github.com/giygas/medicaments-safety/entities"
	"github.com/giygas/medicaments-safety/interfaces"
)

// effectivenessEstimate is the effectiveness figure an alternative is scored
// with. Verified is false when the default was applied.
type effectivenessEstimate struct {
	Percent   float64
	Evidence  entities.EvidenceLevel
	Condition string
	Sample    int
	Verified  bool
}

func (e effectivenessEstimate) label() string {
	if !e.Verified {
		return fmt.Sprintf("%.0f%% (unverified default)", e.Percent)
	}
	return fmt.Sprintf("%.0f%%", e.Percent)
}

// Candidates returns the inventory rows eligible to replace original: same
// generic name, a different product, strictly cheaper and with at least
// minStock units in stock.
func Candidates(inv interfaces.InventoryStore, original entities.MedicineRecord, minStock int) []entities.MedicineRecord {
	if strings.TrimSpace(original.GenericName) == "" {
		return nil
	}
	self := data.Key(original.Name)
	out := make([]entities.MedicineRecord, 0)
	for _, m := range inv.ByGeneric(original.GenericName) {
		if data.Key(m.Name) == self {
			continue
		}
		if m.Price >= original.Price || m.StockQuantity < minStock {
			continue
		}
		out = append(out, m)
	}
	return out
}

// ScoreAlternatives scores every eligible candidate for original and returns
// the best opts.MaxAlternatives of them.
func ScoreAlternatives(ref interfaces.ReferenceData, original entities.MedicineRecord, ageMonths *int, opts Options) []Alternative {
	opts = opts.withDefaults()
	candidates := Candidates(ref.Inventory(), original, opts.MinStock)
	alts := make([]Alternative, 0, len(candidates))
	if len(candidates) == 0 {
		return alts
	}

	treated := treatedConditions(ref, original.Name)
	for _, c := range candidates {
		age := CheckAge(ref.Dosage(), ageMonths, c.Name, c.GenericName, original.Name)
		eff := estimateEffectiveness(ref.Effectiveness(), treated, opts.DefaultEffectivenessPercent,
			c.Name, c.GenericName, original.Name)
		cost := compareCost(c.Price, original.Price, opts.CheaperRatio)
		strength := recommendationStrength(eff, age.Appropriate)

		savings := original.Price - c.Price
		savingsPct := 0.0
		if original.Price > 0 {
			savingsPct = savings / original.Price * 100
		}

		alts = append(alts, Alternative{
			Name:                   c.Name,
			GenericName:            c.GenericName,
			RecommendationStrength: strength,
			Rationale:              alternativeRationale(ref, c, original, eff, age, savings, savingsPct),
			Effectiveness:          eff.label(),
			EffectivenessPercent:   eff.Percent,
			EffectivenessVerified:  eff.Verified,
			EvidenceLevel:          eff.Evidence,
			CostComparison:         cost,
			AgeAppropriate:         age.Appropriate,
			Price:                  c.Price,
			StockQuantity:          c.StockQuantity,
			SavingsAmount:          round2(savings),
			SavingsPercent:         math.Round(savingsPct*10) / 10,
		})
	}

	sortAlternatives(alts)
	if len(alts) > opts.MaxAlternatives {
		alts = alts[:opts.MaxAlternatives]
	}
	return alts
}

// sortAlternatives orders by strength, then effectiveness, then price. Name
// keeps the order total.
func sortAlternatives(alts []Alternative) {
	sort.SliceStable(alts, func(i, j int) bool {
		a, b := alts[i], alts[j]
		if a.RecommendationStrength.Rank() != b.RecommendationStrength.Rank() {
			return a.RecommendationStrength.Rank() > b.RecommendationStrength.Rank()
		}
		if a.EffectivenessPercent != b.EffectivenessPercent {
			return a.EffectivenessPercent > b.EffectivenessPercent
		}
		if a.Price != b.Price {
			return a.Price < b.Price
		}
		return data.Key(a.Name) < data.Key(b.Name)
	})
}

func recommendationStrength(eff effectivenessEstimate, ageAppropriate bool) entities.RecommendationStrength {
	switch {
	case !ageAppropriate:
		return entities.NotRecommended
	case eff.Percent >= 85 && eff.Evidence.Rank() >= entities.EvidenceModerate.Rank():
		return entities.HighlyRecommended
	case eff.Evidence == entities.EvidenceExpertOpinion:
		return entities.Consider
	case eff.Percent >= 70:
		return entities.Recommended
	default:
		return entities.Consider
	}
}

// compareCost never returns MoreExpensive for an eligible candidate since
// eligibility already requires a lower price.
func compareCost(price, originalPrice, cheaperRatio float64) entities.CostComparison {
	switch {
	case price <= originalPrice*cheaperRatio:
		return entities.Cheaper
	case price < originalPrice:
		return entities.Similar
	default:
		return entities.MoreExpensive
	}
}

// treatedConditions collects the folded conditions name is used for across
// the condition, effectiveness and pattern stores.
func treatedConditions(ref interfaces.ReferenceData, name string) map[string]bool {
	out := make(map[string]bool)
	for _, c := range ref.Conditions().LookupByMedicine(name) {
		out[data.Key(c.Condition)] = true
	}
	for _, e := range ref.Effectiveness().LookupByMedicine(name) {
		out[data.Key(e.Condition)] = true
	}
	for _, p := range ref.Patterns().LookupByMedicine(name) {
		out[data.Key(p.Condition)] = true
	}
	return out
}

// estimateEffectiveness takes the first of names with effectiveness records.
// Records for a condition in treated are preferred over the rest. Without any
// record the default is returned at expert_opinion level.
func estimateEffectiveness(store interfaces.EffectivenessStore, treated map[string]bool, defaultPercent float64, names ...string) effectivenessEstimate {
	for _, name := range names {
		if name == "" {
			continue
		}
		records := store.LookupByMedicine(name)
		if len(records) == 0 {
			continue
		}
		best, ok := bestEffectiveness(records, func(r entities.EffectivenessRecord) bool {
			return treated[data.Key(r.Condition)]
		})
		if !ok {
			best, _ = bestEffectiveness(records, nil)
		}
		return effectivenessEstimate{
			Percent:   best.EffectivenessPercent,
			Evidence:  best.EvidenceLevel,
			Condition: best.Condition,
			Sample:    best.SampleSize,
			Verified:  true,
		}
	}
	return effectivenessEstimate{
		Percent:  defaultPercent,
		Evidence: entities.EvidenceExpertOpinion,
	}
}

// bestEffectiveness ranks by evidence level, then effectiveness, then sample size.
func bestEffectiveness(records []entities.EffectivenessRecord, keep func(entities.EffectivenessRecord) bool) (entities.EffectivenessRecord, bool) {
	var best entities.EffectivenessRecord
	found := false
	for _, r := range records {
		if keep != nil && !keep(r) {
			continue
		}
		if !found || betterEffectiveness(r, best) {
			best, found = r, true
		}
	}
	return best, found
}

func betterEffectiveness(a, b entities.EffectivenessRecord) bool {
	if a.EvidenceLevel.Rank() != b.EvidenceLevel.Rank() {
		return a.EvidenceLevel.Rank() > b.EvidenceLevel.Rank()
	}
	if a.EffectivenessPercent != b.EffectivenessPercent {
		return a.EffectivenessPercent > b.EffectivenessPercent
	}
	return a.SampleSize > b.SampleSize
}

func alternativeRationale(ref interfaces.ReferenceData, c, original entities.MedicineRecord, eff effectivenessEstimate, age AgeAssessment, savings, savingsPct float64) string {
	parts := []string{
		fmt.Sprintf("Saves %.2f (%.0f%%) compared with %s", savings, savingsPct, original.Name),
	}

	if eff.Verified {
		p := fmt.Sprintf("%.0f%% effective for %s (%s evidence", eff.Percent, eff.Condition, eff.Evidence)
		if eff.Sample > 0 {
			p += fmt.Sprintf(", n=%d", eff.Sample)
		}
		parts = append(parts, p+")")
	} else {
		parts = append(parts, fmt.Sprintf("No effectiveness data, %.0f%% assumed (unverified)", eff.Percent))
	}

	for _, ct := range lookupConditions(ref.Conditions(), c.Name, c.GenericName) {
		if ct.TreatmentLine == entities.FirstLine {
			parts = append(parts, "First-line treatment for "+ct.Condition)
			break
		}
	}

	if p, ok := topPattern(ref.Patterns(), c.Name, c.GenericName); ok {
		parts = append(parts, fmt.Sprintf("%.0f%% prescribing success, %s trend", p.SuccessRatePercent, p.Trend))
	}

	severe := 0
	for _, s := range lookupSideEffects(ref.SideEffects(), c.Name, c.GenericName) {
		if s.Severity.AtLeast(entities.SideEffectSevere) {
			severe++
		}
	}
	if severe > 0 {
		parts = append(parts, fmt.Sprintf("%d severe side effect(s) on record", severe))
	}

	switch {
	case !age.Appropriate:
		parts = append(parts, "Not age-appropriate: "+age.Rationale)
	case age.Coverage == AgeNoGuideline:
		parts = append(parts, "Age suitability unverified")
	}

	return strings.Join(parts, "; ")
}

func lookupConditions(store interfaces.ConditionStore, names ...string) []entities.ConditionTreatment {
	for _, n := range names {
		if n == "" {
			continue
		}
		if list := store.LookupByMedicine(n); len(list) > 0 {
			return list
		}
	}
	return nil
}

func lookupSideEffects(store interfaces.SideEffectStore, names ...string) []entities.SideEffectRecord {
	for _, n := range names {
		if n == "" {
			continue
		}
		if list := store.LookupByMedicine(n); len(list) > 0 {
			return list
		}
	}
	return nil
}

// topPattern returns the most prescribed pattern of the first name that has any.
func topPattern(store interfaces.PatternStore, names ...string) (entities.PrescriptionPattern, bool) {
	for _, n := range names {
		if n == "" {
			continue
		}
		list := store.LookupByMedicine(n)
		if len(list) == 0 {
			continue
		}
		best := list[0]
		for _, p := range list[1:] {
			if p.PrescriptionSharePercent > best.PrescriptionSharePercent {
				best = p
			}
		}
		return best, true
	}
	return entities.PrescriptionPattern{}, false
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
