// Package refstore loads the seven reference stores from SQLite databases,
// tab separated files, or the built-in sample dataset.
package refstore

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/giygas/medicaments-safety/entities"
)

// table describes one reference store. The column order of query is the
// column order expected in the matching TSV file.
type table struct {
	name     string
	file     string
	query    string
	columns  int
	required bool
	decode   func(ds *entities.Dataset, f []string) error
}

var tables = []table{
	{
		name: "medicines", file: "medicines", columns: 8, required: true,
		query: `SELECT name, class, CAST(stock_quantity AS TEXT), CAST(price AS TEXT),
			COALESCE(generic_name, ''), COALESCE(dosage_form, ''), COALESCE(strength, ''), COALESCE(manufacturer, '')
			FROM medicines`,
		decode: decodeMedicine,
	},
	{
		name: "interactions", file: "drug_interactions", columns: 7,
		query: `SELECT drug1_name, drug2_name, interaction_severity, description,
			COALESCE(symptoms, ''), recommendation, COALESCE(mechanism, '')
			FROM drug_interactions`,
		decode: decodeInteraction,
	},
	{
		name: "conditions", file: "conditions", columns: 5,
		query: `SELECT condition_name, medicine_name, COALESCE(treatment_line, 'alternative'),
			CAST(COALESCE(effectiveness_rating, 0) AS TEXT), COALESCE(evidence_level, '')
			FROM condition_treatments`,
		decode: decodeCondition,
	},
	{
		name: "dosage", file: "dosage", columns: 9,
		query: `SELECT medicine_name, age_group, CAST(COALESCE(min_age_months, 0) AS TEXT),
			CAST(COALESCE(max_age_months, -1) AS TEXT), recommended_dose, COALESCE(max_daily_dose, ''),
			COALESCE(frequency, ''), COALESCE(special_instructions, ''), COALESCE(contraindications, '')
			FROM dosage_guidelines`,
		decode: decodeDosage,
	},
	{
		name: "side_effects", file: "side_effects", columns: 6,
		query: `SELECT medicine_name, side_effect, CAST(COALESCE(frequency_percentage, 0) AS TEXT),
			COALESCE(severity, ''), COALESCE(description, ''), COALESCE(when_to_seek_help, '')
			FROM side_effects`,
		decode: decodeSideEffect,
	},
	{
		name: "effectiveness", file: "effectiveness", columns: 6,
		query: `SELECT medicine_name, condition, CAST(COALESCE(effectiveness_rating, 0) AS TEXT),
			CAST(COALESCE(patient_satisfaction, 0) AS TEXT), COALESCE(evidence_quality, ''),
			CAST(COALESCE(sample_size, 0) AS TEXT)
			FROM drug_effectiveness`,
		decode: decodeEffectiveness,
	},
	{
		name: "patterns", file: "patterns", columns: 7,
		query: `SELECT primary_medicine, condition, COALESCE(secondary_medicine, ''),
			CAST(COALESCE(prescription_frequency, 0) AS TEXT), COALESCE(trend_direction, ''),
			CAST(COALESCE(success_rate, 0) AS TEXT), COALESCE(monitoring_requirements, '')
			FROM prescription_patterns`,
		decode: decodePattern,
	},
}

func decodeMedicine(ds *entities.Dataset, f []string) error {
	stock, err := parseInt(f[2])
	if err != nil {
		return fmt.Errorf("stock_quantity: %w", err)
	}
	price, err := parseFloat(f[3])
	if err != nil {
		return fmt.Errorf("price: %w", err)
	}
	if strings.TrimSpace(f[0]) == "" {
		return fmt.Errorf("empty medicine name")
	}
	ds.Medicines = append(ds.Medicines, entities.MedicineRecord{
		Name:             strings.TrimSpace(f[0]),
		TherapeuticClass: f[1],
		StockQuantity:    stock,
		Price:            price,
		GenericName:      strings.TrimSpace(f[4]),
		DosageForm:       f[5],
		Strength:         f[6],
		Manufacturer:     f[7],
	})
	return nil
}

func decodeInteraction(ds *entities.Dataset, f []string) error {
	sev, err := entities.ParseInteractionSeverity(f[2])
	if err != nil {
		return err
	}
	ds.Interactions = append(ds.Interactions, entities.InteractionRecord{
		DrugA:          strings.TrimSpace(f[0]),
		DrugB:          strings.TrimSpace(f[1]),
		Severity:       sev,
		Description:    f[3],
		Symptoms:       f[4],
		Recommendation: f[5],
		Mechanism:      f[6],
	})
	return nil
}

func decodeCondition(ds *entities.Dataset, f []string) error {
	line, err := entities.ParseTreatmentLine(f[2])
	if err != nil {
		return err
	}
	rating, err := parseFloat(f[3])
	if err != nil {
		return fmt.Errorf("effectiveness_rating: %w", err)
	}
	evidence, err := entities.ParseEvidenceLevel(f[4])
	if err != nil {
		return err
	}
	ds.Conditions = append(ds.Conditions, entities.ConditionTreatment{
		Condition:           strings.TrimSpace(f[0]),
		MedicineName:        strings.TrimSpace(f[1]),
		TreatmentLine:       line,
		EffectivenessRating: rating,
		EvidenceLevel:       evidence,
	})
	return nil
}

// decodeDosage marks a band contraindicated when its recommended dose says so.
// The rationale prefers the special instructions, which carry the clinical reason.
func decodeDosage(ds *entities.Dataset, f []string) error {
	minAge, err := parseInt(f[2])
	if err != nil {
		return fmt.Errorf("min_age_months: %w", err)
	}
	maxAge, err := parseInt(f[3])
	if err != nil {
		return fmt.Errorf("max_age_months: %w", err)
	}
	dose := strings.TrimSpace(f[4])
	contraindicated := strings.Contains(strings.ToUpper(dose), "CONTRAINDICATED")

	rationale := strings.TrimSpace(f[7])
	if rationale == "" {
		rationale = strings.TrimSpace(f[8])
	}
	if contraindicated && rationale == "" {
		rationale = "Contraindicated for this age group"
	}

	ds.Dosage = append(ds.Dosage, entities.DosageGuideline{
		MedicineName:        strings.TrimSpace(f[0]),
		AgeGroup:            f[1],
		MinAgeMonths:        minAge,
		MaxAgeMonths:        maxAge,
		RecommendedDose:     dose,
		MaxDailyDose:        f[5],
		Frequency:           f[6],
		SpecialInstructions: f[7],
		Contraindicated:     contraindicated,
		Rationale:           rationale,
	})
	return nil
}

func decodeSideEffect(ds *entities.Dataset, f []string) error {
	freq, err := parseFloat(f[2])
	if err != nil {
		return fmt.Errorf("frequency_percentage: %w", err)
	}
	sev, err := entities.ParseSideEffectSeverity(f[3])
	if err != nil {
		return err
	}
	ds.SideEffects = append(ds.SideEffects, entities.SideEffectRecord{
		MedicineName:     strings.TrimSpace(f[0]),
		Effect:           f[1],
		FrequencyPercent: freq,
		Severity:         sev,
		Description:      f[4],
		WhenToSeekHelp:   f[5],
	})
	return nil
}

func decodeEffectiveness(ds *entities.Dataset, f []string) error {
	eff, err := parseFloat(f[2])
	if err != nil {
		return fmt.Errorf("effectiveness_rating: %w", err)
	}
	sat, err := parseFloat(f[3])
	if err != nil {
		return fmt.Errorf("patient_satisfaction: %w", err)
	}
	evidence, err := entities.ParseEvidenceLevel(f[4])
	if err != nil {
		return err
	}
	sample, err := parseInt(f[5])
	if err != nil {
		return fmt.Errorf("sample_size: %w", err)
	}
	ds.Effectiveness = append(ds.Effectiveness, entities.EffectivenessRecord{
		MedicineName:               strings.TrimSpace(f[0]),
		Condition:                  strings.TrimSpace(f[1]),
		EffectivenessPercent:       eff,
		PatientSatisfactionPercent: sat,
		EvidenceLevel:              evidence,
		SampleSize:                 sample,
	})
	return nil
}

func decodePattern(ds *entities.Dataset, f []string) error {
	share, err := parseFloat(f[3])
	if err != nil {
		return fmt.Errorf("prescription_frequency: %w", err)
	}
	trend, err := entities.ParseTrend(f[4])
	if err != nil {
		return err
	}
	success, err := parseFloat(f[5])
	if err != nil {
		return fmt.Errorf("success_rate: %w", err)
	}
	ds.Patterns = append(ds.Patterns, entities.PrescriptionPattern{
		MedicineName:             strings.TrimSpace(f[0]),
		Condition:                strings.TrimSpace(f[1]),
		SecondaryMedicine:        f[2],
		PrescriptionSharePercent: share,
		Trend:                    trend,
		SuccessRatePercent:       success,
		MonitoringRequirements:   f[6],
	})
	return nil
}

func parseInt(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	// SQLite renders integral REAL values as "12.0".
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}

// parseFloat accepts both "12.50" and the decimal comma form "12,50".
func parseFloat(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if n := strings.Count(s, ","); n > 0 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", "", n-1)
		s = strings.Replace(s, ",", ".", 1)
	}
	return strconv.ParseFloat(s, 64)
}

// skipStats mirrors the per-file counters logged after each table load.
type skipStats struct {
	lines          int
	empty          int
	missingColumns int
	formatErrors   int
	parsed         int
}

func (s skipStats) skipped() bool {
	return s.empty > 0 || s.missingColumns > 0 || s.formatErrors > 0
}
