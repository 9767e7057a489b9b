package refstore

import (
	"context"

	"github.com/giygas/medicaments-safety/entities"
	"github.com/giygas/medicaments-safety/interfaces"
)

var _ interfaces.Loader = SampleLoader{}

// SampleLoader serves a small built-in dataset for local runs and tests.
type SampleLoader struct{}

func (SampleLoader) Source() string { return "sample" }

func (SampleLoader) Load(ctx context.Context) (*entities.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return SampleDataset(), nil
}

// SampleDataset returns a fresh copy of the built-in dataset.
func SampleDataset() *entities.Dataset {
	return &entities.Dataset{
		Medicines: []entities.MedicineRecord{
			{Name: "Aspirin", GenericName: "Acetylsalicylic Acid", TherapeuticClass: "Pain Relievers", Manufacturer: "Bayer", DosageForm: "Tablet", Strength: "100mg", Price: 12.50, StockQuantity: 150},
			{Name: "Ecosprin", GenericName: "Acetylsalicylic Acid", TherapeuticClass: "Pain Relievers", Manufacturer: "USV", DosageForm: "Tablet", Strength: "75mg", Price: 4.20, StockQuantity: 200},
			{Name: "Disprin", GenericName: "Acetylsalicylic Acid", TherapeuticClass: "Pain Relievers", Manufacturer: "Reckitt", DosageForm: "Tablet", Strength: "350mg", Price: 11.00, StockQuantity: 60},
			{Name: "Warfarin", GenericName: "Warfarin", TherapeuticClass: "Anticoagulants", Manufacturer: "Bristol-Myers Squibb", DosageForm: "Tablet", Strength: "5mg", Price: 45.00, StockQuantity: 80},
			{Name: "Paracetamol", GenericName: "Acetaminophen", TherapeuticClass: "Pain Relievers", Manufacturer: "GSK", DosageForm: "Tablet", Strength: "500mg", Price: 15.00, StockQuantity: 120},
			{Name: "Crocin", GenericName: "Acetaminophen", TherapeuticClass: "Pain Relievers", Manufacturer: "GSK", DosageForm: "Tablet", Strength: "500mg", Price: 8.50, StockQuantity: 74},
			{Name: "Calpol", GenericName: "Acetaminophen", TherapeuticClass: "Pain Relievers", Manufacturer: "GSK", DosageForm: "Syrup", Strength: "120mg/5ml", Price: 6.00, StockQuantity: 5},
			{Name: "Ibuprofen", GenericName: "Ibuprofen", TherapeuticClass: "Pain Relievers", Manufacturer: "Pfizer", DosageForm: "Tablet", Strength: "400mg", Price: 18.00, StockQuantity: 100},
			{Name: "Brufen", GenericName: "Ibuprofen", TherapeuticClass: "Pain Relievers", Manufacturer: "Abbott", DosageForm: "Tablet", Strength: "400mg", Price: 16.00, StockQuantity: 45},
			{Name: "Amoxicillin", GenericName: "Amoxicillin", TherapeuticClass: "Antibiotics", Manufacturer: "Cipla", DosageForm: "Capsule", Strength: "500mg", Price: 32.00, StockQuantity: 90},
			{Name: "Mox", GenericName: "Amoxicillin", TherapeuticClass: "Antibiotics", Manufacturer: "Ranbaxy", DosageForm: "Capsule", Strength: "500mg", Price: 21.00, StockQuantity: 30},
			{Name: "Atenolol", GenericName: "Atenolol", TherapeuticClass: "Antihypertensives", Manufacturer: "AstraZeneca", DosageForm: "Tablet", Strength: "50mg", Price: 9.00, StockQuantity: 140},
		},
		Interactions: []entities.InteractionRecord{
			{DrugA: "Warfarin", DrugB: "Aspirin", Severity: entities.InteractionSevere,
				Description:    "Increased risk of bleeding due to additive anticoagulant and antiplatelet effects",
				Symptoms:       "Unusual bleeding, bruising, blood in urine or stool",
				Recommendation: "Avoid combination or monitor INR closely",
				Mechanism:      "Additive anticoagulant effects"},
			{DrugA: "Warfarin", DrugB: "Amoxicillin", Severity: entities.InteractionModerate,
				Description:    "Antibiotic may enhance anticoagulant effect",
				Recommendation: "Monitor INR during and after antibiotic course",
				Mechanism:      "Altered gut flora reduces vitamin K synthesis"},
			{DrugA: "Ibuprofen", DrugB: "Aspirin", Severity: entities.InteractionModerate,
				Description:    "Ibuprofen may reduce the cardioprotective effect of low-dose aspirin",
				Recommendation: "Take aspirin at least 30 minutes before ibuprofen",
				Mechanism:      "Competitive COX-1 binding"},
			{DrugA: "Aspirin", DrugB: "Atenolol", Severity: entities.InteractionMild,
				Description:    "Aspirin may reduce antihypertensive effect of beta-blockers",
				Recommendation: "Monitor blood pressure"},
			{DrugA: "Warfarin", DrugB: "Ibuprofen", Severity: entities.InteractionContraindicated,
				Description:    "NSAIDs with warfarin markedly increase gastrointestinal bleeding risk",
				Recommendation: "Do not combine; use paracetamol for analgesia",
				Mechanism:      "Platelet inhibition and gastric mucosal damage"},
		},
		Conditions: []entities.ConditionTreatment{
			{Condition: "Acute Pain", MedicineName: "Aspirin", TreatmentLine: entities.FirstLine, EffectivenessRating: 78, EvidenceLevel: entities.EvidenceHigh},
			{Condition: "Acute Pain", MedicineName: "Paracetamol", TreatmentLine: entities.FirstLine, EffectivenessRating: 75, EvidenceLevel: entities.EvidenceHigh},
			{Condition: "Acute Pain", MedicineName: "Ibuprofen", TreatmentLine: entities.FirstLine, EffectivenessRating: 82, EvidenceLevel: entities.EvidenceHigh},
			{Condition: "Fever", MedicineName: "Paracetamol", TreatmentLine: entities.FirstLine, EffectivenessRating: 88, EvidenceLevel: entities.EvidenceHigh},
			{Condition: "Angina", MedicineName: "Aspirin", TreatmentLine: entities.FirstLine, EffectivenessRating: 75, EvidenceLevel: entities.EvidenceHigh},
			{Condition: "Atrial Fibrillation", MedicineName: "Warfarin", TreatmentLine: entities.FirstLine, EffectivenessRating: 85, EvidenceLevel: entities.EvidenceHigh},
			{Condition: "Bacterial Infection", MedicineName: "Amoxicillin", TreatmentLine: entities.FirstLine, EffectivenessRating: 85, EvidenceLevel: entities.EvidenceHigh},
			{Condition: "Hypertension", MedicineName: "Atenolol", TreatmentLine: entities.SecondLine, EffectivenessRating: 72, EvidenceLevel: entities.EvidenceModerate},
		},
		Dosage: []entities.DosageGuideline{
			{MedicineName: "Aspirin", AgeGroup: "Infants (0-2 years)", MinAgeMonths: 0, MaxAgeMonths: 24, RecommendedDose: "CONTRAINDICATED", MaxDailyDose: "DO NOT USE",
				SpecialInstructions: "Risk of Reye's syndrome in children under 16", Contraindicated: true, Rationale: "Risk of Reye's syndrome in children under 16"},
			{MedicineName: "Aspirin", AgeGroup: "Children (2-16 years)", MinAgeMonths: 24, MaxAgeMonths: 192, RecommendedDose: "CONTRAINDICATED", MaxDailyDose: "DO NOT USE",
				SpecialInstructions: "Risk of Reye's syndrome", Contraindicated: true, Rationale: "Risk of Reye's syndrome"},
			{MedicineName: "Aspirin", AgeGroup: "Adults (16+ years)", MinAgeMonths: 192, MaxAgeMonths: 1200, RecommendedDose: "75-100mg daily or 325-650mg q4-6h", MaxDailyDose: "4g",
				Frequency: "Daily to QID", SpecialInstructions: "Take with food to reduce GI irritation", Rationale: "Take with food to reduce GI irritation"},
			{MedicineName: "Aspirin", AgeGroup: "Elderly (65+ years)", MinAgeMonths: 780, MaxAgeMonths: 1500, RecommendedDose: "75-81mg daily or 325mg q6h", MaxDailyDose: "2.4g",
				Frequency: "Daily to QID", SpecialInstructions: "Increased bleeding risk, monitor closely", Rationale: "Increased bleeding risk, monitor closely"},
			{MedicineName: "Paracetamol", AgeGroup: "Children (3 months-12 years)", MinAgeMonths: 3, MaxAgeMonths: 144, RecommendedDose: "15mg/kg every 4-6 hours", MaxDailyDose: "60mg/kg",
				Frequency: "Every 4-6 hours"},
			{MedicineName: "Paracetamol", AgeGroup: "Adults", MinAgeMonths: 144, MaxAgeMonths: -1, RecommendedDose: "500mg-1g every 4-6 hours", MaxDailyDose: "4g",
				Frequency: "Every 4-6 hours"},
			{MedicineName: "Ibuprofen", AgeGroup: "Infants (0-6 months)", MinAgeMonths: 0, MaxAgeMonths: 6, RecommendedDose: "CONTRAINDICATED",
				SpecialInstructions: "Not recommended under 6 months", Contraindicated: true, Rationale: "Not recommended under 6 months"},
			{MedicineName: "Ibuprofen", AgeGroup: "Children and adults", MinAgeMonths: 6, MaxAgeMonths: -1, RecommendedDose: "5-10mg/kg every 6-8 hours", MaxDailyDose: "40mg/kg",
				Frequency: "Every 6-8 hours"},
		},
		SideEffects: []entities.SideEffectRecord{
			{MedicineName: "Aspirin", Effect: "Stomach upset", FrequencyPercent: 15, Severity: entities.SideEffectMild},
			{MedicineName: "Aspirin", Effect: "Gastrointestinal bleeding", FrequencyPercent: 2, Severity: entities.SideEffectSevere,
				WhenToSeekHelp: "Black stools or vomiting blood"},
			{MedicineName: "Aspirin", Effect: "Tinnitus", FrequencyPercent: 1, Severity: entities.SideEffectModerate},
			{MedicineName: "Warfarin", Effect: "Bleeding", FrequencyPercent: 8, Severity: entities.SideEffectSevere,
				WhenToSeekHelp: "Any unusual or prolonged bleeding"},
			{MedicineName: "Warfarin", Effect: "Bruising", FrequencyPercent: 20, Severity: entities.SideEffectMild},
			{MedicineName: "Paracetamol", Effect: "Nausea", FrequencyPercent: 3, Severity: entities.SideEffectMild},
			{MedicineName: "Paracetamol", Effect: "Liver damage (overdose)", FrequencyPercent: 0.1, Severity: entities.SideEffectLifeThreatening,
				WhenToSeekHelp: "Yellowing of skin or eyes"},
			{MedicineName: "Ibuprofen", Effect: "Heartburn", FrequencyPercent: 10, Severity: entities.SideEffectMild},
			{MedicineName: "Amoxicillin", Effect: "Diarrhoea", FrequencyPercent: 10, Severity: entities.SideEffectMild},
			{MedicineName: "Amoxicillin", Effect: "Rash", FrequencyPercent: 5, Severity: entities.SideEffectModerate},
		},
		Effectiveness: []entities.EffectivenessRecord{
			{MedicineName: "Aspirin", Condition: "Acute Pain", EffectivenessPercent: 78, PatientSatisfactionPercent: 74, EvidenceLevel: entities.EvidenceHigh, SampleSize: 2400},
			{MedicineName: "Aspirin", Condition: "Cardiovascular Protection", EffectivenessPercent: 88, PatientSatisfactionPercent: 82, EvidenceLevel: entities.EvidenceHigh, SampleSize: 95000},
			{MedicineName: "Ecosprin", Condition: "Cardiovascular Protection", EffectivenessPercent: 86, PatientSatisfactionPercent: 80, EvidenceLevel: entities.EvidenceModerate, SampleSize: 1200},
			{MedicineName: "Paracetamol", Condition: "Acute Pain", EffectivenessPercent: 75, PatientSatisfactionPercent: 78, EvidenceLevel: entities.EvidenceHigh, SampleSize: 5000},
			{MedicineName: "Paracetamol", Condition: "Fever", EffectivenessPercent: 88, PatientSatisfactionPercent: 85, EvidenceLevel: entities.EvidenceHigh, SampleSize: 3000},
			{MedicineName: "Ibuprofen", Condition: "Acute Pain", EffectivenessPercent: 82, PatientSatisfactionPercent: 79, EvidenceLevel: entities.EvidenceHigh, SampleSize: 4200},
			{MedicineName: "Amoxicillin", Condition: "Bacterial Infection", EffectivenessPercent: 85, PatientSatisfactionPercent: 80, EvidenceLevel: entities.EvidenceHigh, SampleSize: 6000},
		},
		Patterns: []entities.PrescriptionPattern{
			{MedicineName: "Aspirin", Condition: "Acute Pain", PrescriptionSharePercent: 18, Trend: entities.TrendDecreasing, SuccessRatePercent: 76},
			{MedicineName: "Paracetamol", Condition: "Acute Pain", PrescriptionSharePercent: 42, Trend: entities.TrendStable, SuccessRatePercent: 80},
			{MedicineName: "Ibuprofen", Condition: "Acute Pain", PrescriptionSharePercent: 30, Trend: entities.TrendIncreasing, SuccessRatePercent: 82},
			{MedicineName: "Atenolol", Condition: "Angina", SecondaryMedicine: "Aspirin", PrescriptionSharePercent: 25, Trend: entities.TrendStable, SuccessRatePercent: 78,
				MonitoringRequirements: "Heart rate and blood pressure"},
			{MedicineName: "Warfarin", Condition: "Atrial Fibrillation", PrescriptionSharePercent: 35, Trend: entities.TrendDecreasing, SuccessRatePercent: 81,
				MonitoringRequirements: "INR every 4 weeks"},
		},
	}
}
