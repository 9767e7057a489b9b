package entities

// MedicineRecord is one Inventory row: a stocked product and its price.
type MedicineRecord struct {
	Name             string  `json:"name"`
	GenericName      string  `json:"generic_name"`
	TherapeuticClass string  `json:"therapeutic_class"`
	Manufacturer     string  `json:"manufacturer"`
	DosageForm       string  `json:"dosage_form"`
	Strength         string  `json:"strength"`
	Price            float64 `json:"price"`
	StockQuantity    int     `json:"stock_quantity"`
}

// InteractionRecord describes an unordered pair of medicines.
type InteractionRecord struct {
	DrugA          string              `json:"drug_a"`
	DrugB          string              `json:"drug_b"`
	Severity       InteractionSeverity `json:"severity"`
	Description    string              `json:"description"`
	Symptoms       string              `json:"symptoms,omitempty"`
	Recommendation string              `json:"recommendation"`
	Mechanism      string              `json:"mechanism,omitempty"`
}

// Other returns the partner of name in the pair. Comparison is exact; callers
// pass the stored spelling.
func (r InteractionRecord) Other(name string) string {
	if r.DrugA == name {
		return r.DrugB
	}
	return r.DrugA
}

// DosageGuideline covers the half-open age band [MinAgeMonths, MaxAgeMonths).
// MaxAgeMonths < 0 means the band has no upper bound.
type DosageGuideline struct {
	MedicineName        string `json:"medicine_name"`
	AgeGroup            string `json:"age_group"`
	MinAgeMonths        int    `json:"min_age_months"`
	MaxAgeMonths        int    `json:"max_age_months"`
	RecommendedDose     string `json:"recommended_dose"`
	MaxDailyDose        string `json:"max_daily_dose,omitempty"`
	Frequency           string `json:"frequency,omitempty"`
	SpecialInstructions string `json:"special_instructions,omitempty"`
	Contraindicated     bool   `json:"contraindicated"`
	Rationale           string `json:"rationale,omitempty"`
}

// Covers reports whether ageMonths falls inside the band.
func (g DosageGuideline) Covers(ageMonths int) bool {
	if ageMonths < g.MinAgeMonths {
		return false
	}
	return g.MaxAgeMonths < 0 || ageMonths < g.MaxAgeMonths
}

type SideEffectRecord struct {
	MedicineName     string             `json:"medicine_name"`
	Effect           string             `json:"effect"`
	FrequencyPercent float64            `json:"frequency_percent"`
	Severity         SideEffectSeverity `json:"severity"`
	Description      string             `json:"description,omitempty"`
	WhenToSeekHelp   string             `json:"when_to_seek_help,omitempty"`
}

type EffectivenessRecord struct {
	MedicineName               string        `json:"medicine_name"`
	Condition                  string        `json:"condition"`
	EffectivenessPercent       float64       `json:"effectiveness_percent"`
	PatientSatisfactionPercent float64       `json:"patient_satisfaction_percent"`
	EvidenceLevel              EvidenceLevel `json:"evidence_level"`
	SampleSize                 int           `json:"sample_size"`
}

type ConditionTreatment struct {
	Condition           string        `json:"condition"`
	MedicineName        string        `json:"medicine_name"`
	TreatmentLine       TreatmentLine `json:"treatment_line"`
	EffectivenessRating float64       `json:"effectiveness_rating"`
	EvidenceLevel       EvidenceLevel `json:"evidence_level"`
}

// PrescriptionPattern records how often a medicine is prescribed for a condition.
type PrescriptionPattern struct {
	MedicineName             string  `json:"medicine_name"`
	Condition                string  `json:"condition"`
	SecondaryMedicine        string  `json:"secondary_medicine,omitempty"`
	PrescriptionSharePercent float64 `json:"prescription_share_percent"`
	Trend                    Trend   `json:"trend"`
	SuccessRatePercent       float64 `json:"success_rate_percent"`
	MonitoringRequirements   string  `json:"monitoring_requirements,omitempty"`
}

// Dataset is the raw output of one load of all seven stores.
type Dataset struct {
	Medicines     []MedicineRecord
	Interactions  []InteractionRecord
	Conditions    []ConditionTreatment
	Dosage        []DosageGuideline
	SideEffects   []SideEffectRecord
	Effectiveness []EffectivenessRecord
	Patterns      []PrescriptionPattern
}
