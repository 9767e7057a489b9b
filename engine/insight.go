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

// MedicineInsight gathers everything on record about one medicine.
type MedicineInsight struct {
	Medicine         entities.MedicineRecord        `json:"medicine"`
	Interactions     []entities.InteractionRecord   `json:"interactions"`
	DosageGuidelines []entities.DosageGuideline     `json:"dosage_guidelines"`
	Age              AgeAssessment                  `json:"age"`
	SideEffects      []entities.SideEffectRecord    `json:"side_effects"`
	Effectiveness    []entities.EffectivenessRecord `json:"effectiveness"`
	Conditions       []entities.ConditionTreatment  `json:"conditions"`
	Patterns         []entities.PrescriptionPattern `json:"patterns"`
	Monitoring       []string                       `json:"monitoring"`
	Warnings         []string                       `json:"warnings"`
	Alternatives     []Alternative                  `json:"alternatives"`
	DataGaps         []DataGap                      `json:"data_gaps"`
}

// MedicineInsight looks name up in every store. Only inventory membership
// is required; other stores fall back to the generic name.
func (e *Engine) MedicineInsight(name string, ageMonths *int) (*MedicineInsight, error) {
	if strings.TrimSpace(name) == "" {
		return nil, inputErr("name", "must not be blank")
	}
	if err := validateAge("age_months", ageMonths); err != nil {
		return nil, err
	}

	ref := e.source.Current()
	record, ok := ref.Inventory().LookupByMedicine(name)
	if !ok {
		return nil, fmt.Errorf("medicine %q: %w", name, ErrNotFound)
	}

	interactions := append([]entities.InteractionRecord{}, ref.Interactions().ForMedicine(record.Name)...)
	sort.SliceStable(interactions, func(i, j int) bool {
		return interactions[i].Severity.Rank() > interactions[j].Severity.Rank()
	})

	profile := BuildProfile(ref, record.Name, record, true, nil, ageMonths, math.MaxInt)

	in := &MedicineInsight{
		Medicine:         record,
		Interactions:     interactions,
		DosageGuidelines: orEmpty(firstNonEmpty(ref.Dosage().LookupByMedicine, record.Name, record.GenericName)),
		Age:              profile.Age,
		SideEffects:      profile.SideEffects,
		Effectiveness:    orEmpty(firstNonEmpty(ref.Effectiveness().LookupByMedicine, record.Name, record.GenericName)),
		Conditions:       orEmpty(lookupConditions(ref.Conditions(), record.Name, record.GenericName)),
		Patterns:         orEmpty(firstNonEmpty(ref.Patterns().LookupByMedicine, record.Name, record.GenericName)),
		Monitoring:       []string{},
		Warnings:         []string{},
		Alternatives:     e.alternatives(ref, record, ageMonths),
		DataGaps:         profile.DataGaps,
	}
	if len(in.Effectiveness) == 0 {
		in.DataGaps = append(in.DataGaps, GapNoEffectivenessData)
	}

	seen := make(map[string]bool)
	for _, p := range in.Patterns {
		m := strings.TrimSpace(p.MonitoringRequirements)
		if m != "" && !seen[m] {
			seen[m] = true
			in.Monitoring = append(in.Monitoring, m)
		}
	}

	for _, r := range interactions {
		if r.Severity.AtLeast(entities.InteractionSevere) {
			in.Warnings = append(in.Warnings,
				fmt.Sprintf("%s interaction with %s — %s", strings.ToUpper(string(r.Severity)), r.Other(record.Name), r.Description))
		}
	}
	in.Warnings = append(in.Warnings, profile.SafetyConcerns...)
	in.Warnings = dedupe(in.Warnings)
	return in, nil
}

// TreatmentOption ranks one medicine for a condition.
type TreatmentOption struct {
	Medicine             string                 `json:"medicine"`
	Score                float64                `json:"score"`
	TreatmentLine        entities.TreatmentLine `json:"treatment_line,omitempty"`
	EffectivenessPercent float64                `json:"effectiveness_percent"`
	EvidenceLevel        entities.EvidenceLevel `json:"evidence_level"`
	SevereSideEffects    int                    `json:"severe_side_effects"`
	AgeAppropriate       bool                   `json:"age_appropriate"`
}

type ConditionInsight struct {
	Condition          string                         `json:"condition"`
	Treatments         []entities.ConditionTreatment  `json:"treatments"`
	FirstLine          []string                       `json:"first_line"`
	Effectiveness      []entities.EffectivenessRecord `json:"effectiveness"`
	MostPrescribed     *entities.PrescriptionPattern  `json:"most_prescribed,omitempty"`
	AverageSuccessRate float64                        `json:"average_success_rate"`
	Trends             map[entities.Trend]int         `json:"trends"`
	EvidenceQuality    map[entities.EvidenceLevel]int `json:"evidence_quality"`
	Options            []TreatmentOption              `json:"options"`
}

var evidenceBonus = map[entities.EvidenceLevel]float64{
	entities.EvidenceHigh:          20,
	entities.EvidenceModerate:      10,
	entities.EvidenceLow:           5,
	entities.EvidenceExpertOpinion: 2,
}

// ConditionInsight summarises the treatments on record for condition and
// ranks them by suitability. exclude drops one medicine from the ranking,
// typically the one the patient already takes.
func (e *Engine) ConditionInsight(condition, exclude string, ageMonths *int) (*ConditionInsight, error) {
	if strings.TrimSpace(condition) == "" {
		return nil, inputErr("condition", "must not be blank")
	}
	if err := validateAge("age_months", ageMonths); err != nil {
		return nil, err
	}

	ref := e.source.Current()
	treatments := ref.Conditions().LookupByCondition(condition)
	effectiveness := ref.Effectiveness().LookupByCondition(condition)
	patterns := ref.Patterns().LookupByCondition(condition)
	if len(treatments) == 0 && len(effectiveness) == 0 && len(patterns) == 0 {
		return nil, fmt.Errorf("condition %q: %w", condition, ErrNotFound)
	}

	ci := &ConditionInsight{
		Condition:       strings.TrimSpace(condition),
		Treatments:      orEmpty(treatments),
		FirstLine:       []string{},
		Effectiveness:   orEmpty(effectiveness),
		Trends:          map[entities.Trend]int{},
		EvidenceQuality: map[entities.EvidenceLevel]int{},
		Options:         []TreatmentOption{},
	}

	for _, t := range treatments {
		if t.TreatmentLine == entities.FirstLine {
			ci.FirstLine = append(ci.FirstLine, t.MedicineName)
		}
	}
	for _, r := range effectiveness {
		ci.EvidenceQuality[r.EvidenceLevel]++
	}
	if len(patterns) > 0 {
		top := patterns[0]
		ci.MostPrescribed = &top
		total := 0.0
		for _, p := range patterns {
			total += p.SuccessRatePercent
			ci.Trends[p.Trend]++
		}
		ci.AverageSuccessRate = math.Round(total/float64(len(patterns))*10) / 10
	}

	// Candidate medicines in discovery order across the three stores.
	lines := make(map[string]entities.TreatmentLine)
	var order []string
	add := func(name string) {
		k := data.Key(name)
		if k == "" || k == data.Key(exclude) {
			return
		}
		if _, ok := lines[k]; !ok {
			lines[k] = ""
			order = append(order, name)
		}
	}
	for _, t := range treatments {
		add(t.MedicineName)
		if k := data.Key(t.MedicineName); lines[k] == "" {
			lines[k] = t.TreatmentLine
		}
	}
	for _, r := range effectiveness {
		add(r.MedicineName)
	}
	for _, p := range patterns {
		add(p.MedicineName)
	}

	for _, name := range order {
		ci.Options = append(ci.Options, e.treatmentOption(ref, condition, name, lines[data.Key(name)], ageMonths))
	}
	sort.SliceStable(ci.Options, func(i, j int) bool {
		if ci.Options[i].Score != ci.Options[j].Score {
			return ci.Options[i].Score > ci.Options[j].Score
		}
		return data.Key(ci.Options[i].Medicine) < data.Key(ci.Options[j].Medicine)
	})
	return ci, nil
}

// treatmentOption scores on effectiveness, side effect burden and evidence,
// then adjusts for age. The score is capped at 100.
func (e *Engine) treatmentOption(ref interfaces.ReferenceData, condition, name string, line entities.TreatmentLine, ageMonths *int) TreatmentOption {
	record, _ := ref.Inventory().LookupByMedicine(name)

	eff := estimateEffectiveness(ref.Effectiveness(), map[string]bool{data.Key(condition): true},
		e.opts.DefaultEffectivenessPercent, name, record.GenericName)

	severe := 0
	for _, s := range lookupSideEffects(ref.SideEffects(), name, record.GenericName) {
		if s.Severity.AtLeast(entities.SideEffectSevere) {
			severe++
		}
	}
	age := CheckAge(ref.Dosage(), ageMonths, name, record.GenericName)

	score := eff.Percent*0.4 + math.Max(0, 100-20*float64(severe))*0.3 + evidenceBonus[eff.Evidence]*0.2
	if ageMonths != nil {
		if age.Appropriate {
			score += 10
		} else {
			score -= 30
		}
	}
	score = math.Min(100, math.Max(0, score))

	return TreatmentOption{
		Medicine:             name,
		Score:                math.Round(score*10) / 10,
		TreatmentLine:        line,
		EffectivenessPercent: eff.Percent,
		EvidenceLevel:        eff.Evidence,
		SevereSideEffects:    severe,
		AgeAppropriate:       age.Appropriate,
	}
}

func firstNonEmpty[T any](lookup func(string) []T, names ...string) []T {
	for _, n := range names {
		if n == "" {
			continue
		}
		if list := lookup(n); len(list) > 0 {
			return list
		}
	}
	return nil
}

func orEmpty[T any](list []T) []T {
	if list == nil {
		return []T{}
	}
	return list
}

func dedupe(list []string) []string {
	seen := make(map[string]bool, len(list))
	out := list[:0]
	for _, s := range list {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
