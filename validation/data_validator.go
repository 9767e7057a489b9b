// Package validation checks reference datasets after each load and the
// medicine, condition and age values users send to the API.
package validation

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/giygas/medicaments-safety/data"
	"github.com/giygas/medicaments-safety/entities"
	"github.com/giygas/medicaments-safety/interfaces"
)

// MaxAgeMonths bounds accepted patient ages (150 years).
const MaxAgeMonths = 1800

const maxListedIssues = 10

var (
	// Letters in any script, digits and the punctuation found in product names
	// such as "Amoxicillin/Clavulanate (625mg)" or "Co-trimoxazole 80+400".
	nameRegex = regexp.MustCompile(`^[\p{L}\p{N}\s\-\.\+'/(),%]+$`)

	dangerousPatterns = []string{
		"<script", "</script>", "javascript:", "vbscript:", "onload=", "onerror=",
		"eval(", "expression(", "@import",
		"' or ", "\" or ", "union select", "drop table", "delete from", "insert into",
		"--", "/*", "*/", "exec(", "execute(",
		"`", "$(", "${",
		"../", "..\\", "%2e%2e", "file://",
		"{$ne:", "{$gt:", "{$where:",
	}
)

var _ interfaces.DataValidator = (*DataValidatorImpl)(nil)

type DataValidatorImpl struct{}

func NewDataValidator() *DataValidatorImpl {
	return &DataValidatorImpl{}
}

// ValidateDataset rejects datasets that must not replace the data in service.
func (v *DataValidatorImpl) ValidateDataset(ds *entities.Dataset) error {
	if ds == nil || len(ds.Medicines) == 0 {
		return fmt.Errorf("no medicines found")
	}

	for i, m := range ds.Medicines {
		if strings.TrimSpace(m.Name) == "" {
			return fmt.Errorf("medicine row %d has an empty name", i+1)
		}
		if m.Price < 0 {
			return fmt.Errorf("medicine %s has negative price %.2f", m.Name, m.Price)
		}
		if m.StockQuantity < 0 {
			return fmt.Errorf("medicine %s has negative stock %d", m.Name, m.StockQuantity)
		}
	}

	for i, r := range ds.Interactions {
		if strings.TrimSpace(r.DrugA) == "" || strings.TrimSpace(r.DrugB) == "" {
			return fmt.Errorf("interaction row %d names an empty medicine", i+1)
		}
	}

	return nil
}

// ReportDataQuality collects non-fatal issues. Lists are capped at ten entries.
func (v *DataValidatorImpl) ReportDataQuality(ds *entities.Dataset) *interfaces.DataQualityReport {
	report := &interfaces.DataQualityReport{
		DuplicateMedicines:      []string{},
		InvalidMedicines:        []string{},
		ConflictingInteractions: []string{},
		InvalidDosageBands:      []string{},
		RecordsPerStore:         map[string]int{},
	}
	if ds == nil {
		return report
	}

	report.MedicineCount = len(ds.Medicines)
	report.RecordsPerStore = map[string]int{
		"medicines":     len(ds.Medicines),
		"interactions":  len(ds.Interactions),
		"conditions":    len(ds.Conditions),
		"dosage":        len(ds.Dosage),
		"side_effects":  len(ds.SideEffects),
		"effectiveness": len(ds.Effectiveness),
		"patterns":      len(ds.Patterns),
	}

	known := make(map[string]bool, len(ds.Medicines))
	for _, m := range ds.Medicines {
		k := data.Key(m.Name)
		if known[k] {
			report.DuplicateMedicines = appendCapped(report.DuplicateMedicines, m.Name)
		}
		known[k] = true

		if strings.TrimSpace(m.GenericName) == "" {
			report.MedicinesWithoutGeneric++
		}
		if m.Price < 0 || m.StockQuantity < 0 {
			report.InvalidMedicines = appendCapped(report.InvalidMedicines, m.Name)
		}
	}

	severities := make(map[string]map[entities.InteractionSeverity]bool)
	for _, r := range ds.Interactions {
		if data.Key(r.DrugA) == data.Key(r.DrugB) {
			report.SelfInteractions++
		}
		k := data.PairKey(r.DrugA, r.DrugB)
		if severities[k] == nil {
			severities[k] = make(map[entities.InteractionSeverity]bool)
		}
		severities[k][r.Severity] = true
		if !known[data.Key(r.DrugA)] || !known[data.Key(r.DrugB)] {
			report.DanglingReferences++
		}
	}
	conflicts := make([]string, 0)
	for k, set := range severities {
		if len(set) > 1 {
			conflicts = append(conflicts, strings.ReplaceAll(k, "\x00", " + "))
		}
	}
	sort.Strings(conflicts)
	for _, c := range conflicts {
		report.ConflictingInteractions = appendCapped(report.ConflictingInteractions, c)
	}

	withDosage := make(map[string]bool)
	for _, g := range ds.Dosage {
		withDosage[data.Key(g.MedicineName)] = true
		if g.MinAgeMonths < 0 || (g.MaxAgeMonths >= 0 && g.MaxAgeMonths <= g.MinAgeMonths) {
			report.InvalidDosageBands = appendCapped(report.InvalidDosageBands,
				fmt.Sprintf("%s [%d,%d)", g.MedicineName, g.MinAgeMonths, g.MaxAgeMonths))
		}
	}
	for k := range known {
		if !withDosage[k] {
			report.MedicinesWithoutDosage++
		}
	}

	for _, s := range ds.SideEffects {
		if !validPercent(s.FrequencyPercent) {
			report.OutOfRangePercentages++
		}
	}
	for _, e := range ds.Effectiveness {
		if !validPercent(e.EffectivenessPercent) || !validPercent(e.PatientSatisfactionPercent) {
			report.OutOfRangePercentages++
		}
	}
	for _, p := range ds.Patterns {
		if !validPercent(p.PrescriptionSharePercent) || !validPercent(p.SuccessRatePercent) {
			report.OutOfRangePercentages++
		}
	}
	for _, c := range ds.Conditions {
		if !validPercent(c.EffectivenessRating) {
			report.OutOfRangePercentages++
		}
	}

	return report
}

// ValidateMedicineName checks a name supplied in a request.
func (v *DataValidatorImpl) ValidateMedicineName(name string) error {
	return validateName(name, "medicine name", 100)
}

// ValidateConditionName checks a condition supplied in a request.
func (v *DataValidatorImpl) ValidateConditionName(name string) error {
	return validateName(name, "condition", 100)
}

func (v *DataValidatorImpl) ValidateAgeMonths(age int) error {
	if age < 0 {
		return fmt.Errorf("age must not be negative, got %d months", age)
	}
	if age > MaxAgeMonths {
		return fmt.Errorf("age too large: maximum %d months, got %d", MaxAgeMonths, age)
	}
	return nil
}

func validateName(input, what string, maxLen int) error {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return fmt.Errorf("%s cannot be empty", what)
	}
	if utf8.RuneCountInString(trimmed) > maxLen {
		return fmt.Errorf("%s too long: maximum %d characters", what, maxLen)
	}

	lower := strings.ToLower(trimmed)
	for _, pattern := range dangerousPatterns {
		if strings.Contains(lower, pattern) {
			return fmt.Errorf("%s contains potentially dangerous content", what)
		}
	}

	if !nameRegex.MatchString(trimmed) {
		return fmt.Errorf("%s contains invalid characters", what)
	}
	if hasExcessiveRepetition(trimmed) {
		return fmt.Errorf("%s contains excessive character repetition", what)
	}
	return nil
}

// hasExcessiveRepetition reports a rune repeated more than ten times in a row.
func hasExcessiveRepetition(input string) bool {
	var last rune
	run := 0
	for _, r := range input {
		if r == last {
			run++
			if run > 10 {
				return true
			}
			continue
		}
		last, run = r, 1
	}
	return false
}

func validPercent(p float64) bool {
	return p >= 0 && p <= 100
}

func appendCapped(list []string, s string) []string {
	if len(list) >= maxListedIssues {
		return list
	}
	return append(list, s)
}
