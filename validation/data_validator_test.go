package validation

import (
	"strings"
	"testing"

	"github.com/giygas/medicaments-safety/entities"
)

func TestValidateDataset(t *testing.T) {
	v := NewDataValidator()

	tests := []struct {
		name    string
		ds      *entities.Dataset
		wantErr string
	}{
		{"nil dataset", nil, "no medicines"},
		{"empty inventory", &entities.Dataset{}, "no medicines"},
		{"negative price", &entities.Dataset{Medicines: []entities.MedicineRecord{{Name: "A", Price: -1}}}, "negative price"},
		{"negative stock", &entities.Dataset{Medicines: []entities.MedicineRecord{{Name: "A", StockQuantity: -3}}}, "negative stock"},
		{"blank name", &entities.Dataset{Medicines: []entities.MedicineRecord{{Name: "  "}}}, "empty name"},
		{"blank interaction", &entities.Dataset{
			Medicines:    []entities.MedicineRecord{{Name: "A"}},
			Interactions: []entities.InteractionRecord{{DrugA: "A"}},
		}, "empty medicine"},
		{"valid", &entities.Dataset{Medicines: []entities.MedicineRecord{{Name: "A", Price: 1, StockQuantity: 1}}}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateDataset(tt.ds)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Expected no error, got %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestReportDataQuality(t *testing.T) {
	ds := &entities.Dataset{
		Medicines: []entities.MedicineRecord{
			{Name: "Aspirin", GenericName: "ASA"},
			{Name: "aspirin", GenericName: "ASA"},
			{Name: "Warfarin"},
		},
		Interactions: []entities.InteractionRecord{
			{DrugA: "Aspirin", DrugB: "Warfarin", Severity: entities.InteractionSevere},
			{DrugA: "Warfarin", DrugB: "Aspirin", Severity: entities.InteractionModerate},
			{DrugA: "Aspirin", DrugB: "Ghost", Severity: entities.InteractionMild},
			{DrugA: "Aspirin", DrugB: "ASPIRIN", Severity: entities.InteractionMild},
		},
		Dosage: []entities.DosageGuideline{
			{MedicineName: "Aspirin", MinAgeMonths: 24, MaxAgeMonths: 12},
			{MedicineName: "Aspirin", MinAgeMonths: 192, MaxAgeMonths: -1},
		},
		SideEffects: []entities.SideEffectRecord{{MedicineName: "Aspirin", FrequencyPercent: 140}},
	}

	report := NewDataValidator().ReportDataQuality(ds)

	if report.MedicineCount != 3 {
		t.Errorf("Expected 3 medicines, got %d", report.MedicineCount)
	}
	if len(report.DuplicateMedicines) != 1 {
		t.Errorf("Expected 1 duplicate medicine, got %v", report.DuplicateMedicines)
	}
	if report.MedicinesWithoutGeneric != 1 {
		t.Errorf("Expected 1 medicine without generic, got %d", report.MedicinesWithoutGeneric)
	}
	if len(report.ConflictingInteractions) != 1 {
		t.Errorf("Expected 1 conflicting pair, got %v", report.ConflictingInteractions)
	}
	if report.SelfInteractions != 1 {
		t.Errorf("Expected 1 self interaction, got %d", report.SelfInteractions)
	}
	if report.DanglingReferences != 1 {
		t.Errorf("Expected 1 dangling reference, got %d", report.DanglingReferences)
	}
	if len(report.InvalidDosageBands) != 1 {
		t.Errorf("Expected 1 invalid band, got %v", report.InvalidDosageBands)
	}
	if report.MedicinesWithoutDosage != 1 {
		t.Errorf("Expected Warfarin without dosage, got %d", report.MedicinesWithoutDosage)
	}
	if report.OutOfRangePercentages != 1 {
		t.Errorf("Expected 1 out of range percentage, got %d", report.OutOfRangePercentages)
	}
	if report.RecordsPerStore["interactions"] != 4 {
		t.Errorf("Expected 4 interaction records, got %d", report.RecordsPerStore["interactions"])
	}
}

func TestValidateMedicineName(t *testing.T) {
	v := NewDataValidator()

	tests := []struct {
		input   string
		wantErr bool
	}{
		{"Aspirin", false},
		{"Amoxicillin/Clavulanate (625mg)", false},
		{"Paracétamol", false},
		{"Co-trimoxazole 80+400", false},
		{"", true},
		{"   ", true},
		{"<script>alert(1)</script>", true},
		{"aspirin' or 1=1", true},
		{"aspirin; rm", true},
		{"aaaaaaaaaaaaaaaa", true},
		{strings.Repeat("ab", 51), true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := v.ValidateMedicineName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateMedicineName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateAgeMonths(t *testing.T) {
	v := NewDataValidator()
	for _, age := range []int{0, 60, MaxAgeMonths} {
		if err := v.ValidateAgeMonths(age); err != nil {
			t.Errorf("Expected age %d to be valid, got %v", age, err)
		}
	}
	for _, age := range []int{-1, MaxAgeMonths + 1} {
		if err := v.ValidateAgeMonths(age); err == nil {
			t.Errorf("Expected age %d to be rejected", age)
		}
	}
}
