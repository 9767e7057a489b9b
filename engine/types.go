package engine

import "github.com/giygas/medicaments-safety/entities"

// MedicineInput is one prescribed line. Quantity is carried through for display.
type MedicineInput struct {
	Name      string `json:"name"`
	Quantity  string `json:"quantity"`
	AgeMonths *int   `json:"age_months,omitempty"`
}

// Request is a whole prescription. A per-line AgeMonths overrides PatientAgeMonths.
type Request struct {
	Medicines        []MedicineInput `json:"medicines"`
	PatientAgeMonths *int            `json:"patient_age_months,omitempty"`
}

// ResolvedInteraction is an interaction found within one prescription.
// Medicine is whichever side of the pair was prescribed first.
type ResolvedInteraction struct {
	Medicine string `json:"medicine"`
	Other    string `json:"other"`
	entities.InteractionRecord
}

// AgeCoverage says how an age verdict was reached.
type AgeCoverage string

const (
	AgeNotRequested AgeCoverage = "not_requested"
	AgeVerified     AgeCoverage = "verified"
	AgeNoGuideline  AgeCoverage = "no_guideline"
)

type AgeAssessment struct {
	Appropriate bool        `json:"appropriate"`
	Coverage    AgeCoverage `json:"coverage"`
	AgeGroup    string      `json:"age_group,omitempty"`
	Rationale   string      `json:"rationale"`
}

// MedicineSafetyProfile is the structured safety view of one prescribed medicine.
type MedicineSafetyProfile struct {
	MedicineName      string                      `json:"medicine_name"`
	Known             bool                        `json:"known"`
	Interactions      []ResolvedInteraction       `json:"interactions"`
	Age               AgeAssessment               `json:"age"`
	SideEffects       []entities.SideEffectRecord `json:"side_effects"`
	SevereSideEffects []entities.SideEffectRecord `json:"severe_side_effects"`
	SafetyConcerns    []string                    `json:"safety_concerns"`
	DataGaps          []DataGap                   `json:"data_gaps"`
}

// Alternative is a scored, cheaper product with the same active ingredient.
type Alternative struct {
	Name                   string                          `json:"name"`
	GenericName            string                          `json:"generic_name"`
	RecommendationStrength entities.RecommendationStrength `json:"recommendation_strength"`
	Rationale              string                          `json:"rationale"`
	Effectiveness          string                          `json:"effectiveness"`
	EffectivenessPercent   float64                         `json:"effectiveness_percent"`
	EffectivenessVerified  bool                            `json:"effectiveness_verified"`
	EvidenceLevel          entities.EvidenceLevel          `json:"evidence_level"`
	CostComparison         entities.CostComparison         `json:"cost_comparison"`
	AgeAppropriate         bool                            `json:"age_appropriate"`
	Price                  float64                         `json:"price"`
	StockQuantity          int                             `json:"stock_quantity"`
	SavingsAmount          float64                         `json:"savings_amount"`
	SavingsPercent         float64                         `json:"savings_percent"`
}

type OriginalMedicine struct {
	Name                string   `json:"name"`
	CurrentQuantity     string   `json:"current_quantity"`
	SafetyConcerns      []string `json:"safety_concerns"`
	AgeAppropriate      bool     `json:"age_appropriate"`
	EffectivenessRating string   `json:"effectiveness_rating,omitempty"`
}

type SafetyConsiderations struct {
	DrugInteractions  int  `json:"drug_interactions"`
	SevereSideEffects int  `json:"severe_side_effects"`
	AgeRestrictions   bool `json:"age_restrictions"`
}

// MedicineAlternatives is the per-medicine block of an Assessment.
type MedicineAlternatives struct {
	OriginalMedicine        OriginalMedicine     `json:"original_medicine"`
	RecommendedAlternatives []Alternative        `json:"recommended_alternatives"`
	SafetyConsiderations    SafetyConsiderations `json:"safety_considerations"`
	ClinicalNotes           string               `json:"clinical_notes"`
}

type OverallRecommendations struct {
	PrescriptionChanges    string `json:"prescription_changes"`
	FollowUpNeeded         string `json:"follow_up_needed"`
	PharmacistConsultation bool   `json:"pharmacist_consultation"`
	DoctorConsultation     bool   `json:"doctor_consultation"`
}

// Assessment is the result of one prescription analysis. Medicine blocks and
// profiles follow the order of the request.
type Assessment struct {
	OverallSafetyAssessment string                  `json:"overall_safety_assessment"`
	SafetyScore             entities.RiskTier       `json:"safety_score"`
	CriticalWarnings        []string                `json:"critical_warnings"`
	RecommendationsSummary  string                  `json:"recommendations_summary"`
	MedicineAlternatives    []MedicineAlternatives  `json:"medicine_alternatives"`
	OverallRecommendations  OverallRecommendations  `json:"overall_recommendations"`
	SafetyProfiles          []MedicineSafetyProfile `json:"safety_profiles"`
}
