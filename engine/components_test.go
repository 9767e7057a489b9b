package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/giygas/medicaments-safety/data"
	"github.com/giygas/medicaments-safety/entities"
	"github.com/giygas/medicaments-safety/refstore"
)

func TestInteractionLookupIsSymmetric(t *testing.T) {
	ds := refstore.SampleDataset()
	store := data.NewSnapshot(ds, 1).Interactions()

	for _, a := range ds.Medicines {
		for _, b := range ds.Medicines {
			ab, okAB := store.LookupByPair(a.Name, b.Name)
			ba, okBA := store.LookupByPair(b.Name, a.Name)
			if okAB != okBA || ab != ba {
				t.Errorf("Expected (%s,%s) and (%s,%s) to resolve identically", a.Name, b.Name, b.Name, a.Name)
			}
		}
	}
}

func TestResolveInteractions(t *testing.T) {
	store := data.NewSnapshot(refstore.SampleDataset(), 1).Interactions()

	got := ResolveInteractions(store, []string{"Aspirin", "Zyntrolax", "warfarin", "ASPIRIN", "Ibuprofen"})
	if len(got) != 3 {
		t.Fatalf("Expected 3 interactions, got %d: %+v", len(got), got)
	}
	want := [][2]string{{"Aspirin", "warfarin"}, {"Aspirin", "Ibuprofen"}, {"warfarin", "Ibuprofen"}}
	for i, w := range want {
		if got[i].Medicine != w[0] || got[i].Other != w[1] {
			t.Errorf("Expected pair %d to be %v, got %s/%s", i, w, got[i].Medicine, got[i].Other)
		}
	}

	if len(ResolveInteractions(store, []string{"Zyntrolax", "Foo"})) != 0 {
		t.Error("Expected unknown medicines to contribute no interactions")
	}
}

func TestDuplicatePairHighestSeverityWins(t *testing.T) {
	ds := &entities.Dataset{
		Medicines: []entities.MedicineRecord{{Name: "A", Price: 1}, {Name: "B", Price: 1}},
		Interactions: []entities.InteractionRecord{
			{DrugA: "A", DrugB: "B", Severity: entities.InteractionModerate, Description: "first"},
			{DrugA: "b", DrugB: "a", Severity: entities.InteractionContraindicated, Description: "second"},
			{DrugA: "A", DrugB: "B", Severity: entities.InteractionMild, Description: "third"},
		},
	}
	a := mustAnalyze(t, newTestEngine(t, ds, Options{}), prescription("A", "B"))
	if a.SafetyScore != entities.HighRisk {
		t.Errorf("Expected HIGH_RISK from the contraindicated duplicate, got %s", a.SafetyScore)
	}
}

func TestCheckAge(t *testing.T) {
	store := data.NewSnapshot(refstore.SampleDataset(), 1).Dosage()

	tests := []struct {
		name        string
		medicine    string
		age         *int
		appropriate bool
		coverage    AgeCoverage
	}{
		{"no age", "Aspirin", nil, true, AgeNotRequested},
		{"infant", "Aspirin", intPtr(6), false, AgeVerified},
		{"child", "Aspirin", intPtr(60), false, AgeVerified},
		{"band boundary is adult", "Aspirin", intPtr(192), true, AgeVerified},
		{"adult", "aspirin", intPtr(400), true, AgeVerified},
		{"beyond all bands", "Aspirin", intPtr(1600), true, AgeNoGuideline},
		{"no guidelines", "Warfarin", intPtr(400), true, AgeNoGuideline},
		{"unbounded band", "Paracetamol", intPtr(1700), true, AgeVerified},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CheckAge(store, tt.age, tt.medicine)
			if got.Appropriate != tt.appropriate {
				t.Errorf("Expected appropriate=%v, got %v (%s)", tt.appropriate, got.Appropriate, got.Rationale)
			}
			if got.Coverage != tt.coverage {
				t.Errorf("Expected coverage %s, got %s", tt.coverage, got.Coverage)
			}
		})
	}
}

func TestCheckAgeRationaleVerbatim(t *testing.T) {
	store := data.NewSnapshot(refstore.SampleDataset(), 1).Dosage()
	got := CheckAge(store, intPtr(3), "Ibuprofen")
	if got.Rationale != "Not recommended under 6 months" {
		t.Errorf("Expected rationale verbatim, got %q", got.Rationale)
	}
}

func TestCheckAgeFallsBackToLaterNames(t *testing.T) {
	store := data.NewSnapshot(refstore.SampleDataset(), 1).Dosage()
	got := CheckAge(store, intPtr(60), "Ecosprin", "Acetylsalicylic Acid", "Aspirin")
	if got.Appropriate {
		t.Error("Expected Ecosprin to inherit the Aspirin contraindication")
	}
}

func pricedDataset(original float64, others map[string]float64) *entities.Dataset {
	ds := &entities.Dataset{
		Medicines: []entities.MedicineRecord{{Name: "Original", GenericName: "G", Price: original, StockQuantity: 100}},
	}
	for name, price := range others {
		ds.Medicines = append(ds.Medicines, entities.MedicineRecord{Name: name, GenericName: "G", Price: price, StockQuantity: 50})
	}
	return ds
}

func TestAlternativeNeverAsExpensiveAsOriginal(t *testing.T) {
	ds := pricedDataset(20, map[string]float64{"Equal": 20, "Dearer": 25, "Cheap": 10, "Close": 19.99})
	ref := data.NewSnapshot(ds, 1)
	original, _ := ref.Inventory().LookupByMedicine("Original")

	alts := ScoreAlternatives(ref, original, nil, Options{MaxAlternatives: 10})
	if len(alts) != 2 {
		t.Fatalf("Expected 2 alternatives, got %d: %+v", len(alts), alts)
	}
	for _, alt := range alts {
		if alt.Price >= original.Price {
			t.Errorf("Expected only cheaper alternatives, got %s at %.2f", alt.Name, alt.Price)
		}
		if alt.CostComparison == entities.MoreExpensive {
			t.Errorf("Expected %s never to be more_expensive", alt.Name)
		}
	}
}

func TestCheaperAlternativeWinsTie(t *testing.T) {
	ds := pricedDataset(20, map[string]float64{"Pricier": 12, "Cheapest": 8, "Middle": 10})
	ref := data.NewSnapshot(ds, 1)
	original, _ := ref.Inventory().LookupByMedicine("Original")

	alts := ScoreAlternatives(ref, original, nil, Options{})
	want := []string{"Cheapest", "Middle", "Pricier"}
	for i, name := range want {
		if alts[i].Name != name {
			t.Errorf("Expected position %d to be %s, got %s", i, name, alts[i].Name)
		}
	}
}

func TestAlternativesCapped(t *testing.T) {
	ds := pricedDataset(20, map[string]float64{"A": 5, "B": 6, "C": 7, "D": 8, "E": 9})
	ref := data.NewSnapshot(ds, 1)
	original, _ := ref.Inventory().LookupByMedicine("Original")

	if got := len(ScoreAlternatives(ref, original, nil, Options{})); got != 3 {
		t.Errorf("Expected default cap of 3, got %d", got)
	}
	if got := len(ScoreAlternatives(ref, original, nil, Options{MaxAlternatives: 2})); got != 2 {
		t.Errorf("Expected cap of 2, got %d", got)
	}
}

func TestDefaultEffectivenessIsUnverified(t *testing.T) {
	ds := pricedDataset(20, map[string]float64{"Generic": 10})
	ref := data.NewSnapshot(ds, 1)
	original, _ := ref.Inventory().LookupByMedicine("Original")

	alts := ScoreAlternatives(ref, original, nil, Options{})
	if len(alts) != 1 {
		t.Fatalf("Expected 1 alternative, got %d", len(alts))
	}
	alt := alts[0]
	if alt.EffectivenessVerified {
		t.Error("Expected default effectiveness to be unverified")
	}
	if alt.EffectivenessPercent != 75 {
		t.Errorf("Expected default 75%%, got %.0f", alt.EffectivenessPercent)
	}
	if alt.EvidenceLevel != entities.EvidenceExpertOpinion {
		t.Errorf("Expected expert_opinion, got %s", alt.EvidenceLevel)
	}
	if alt.RecommendationStrength != entities.Consider {
		t.Errorf("Expected Consider, got %s", alt.RecommendationStrength)
	}
	if !strings.Contains(alt.Rationale, "unverified") || !strings.Contains(alt.Effectiveness, "unverified") {
		t.Errorf("Expected the default to be marked unverified, got %q / %q", alt.Rationale, alt.Effectiveness)
	}
}

func TestRecommendationStrength(t *testing.T) {
	tests := []struct {
		percent  float64
		evidence entities.EvidenceLevel
		age      bool
		want     entities.RecommendationStrength
	}{
		{90, entities.EvidenceHigh, true, entities.HighlyRecommended},
		{85, entities.EvidenceModerate, true, entities.HighlyRecommended},
		{90, entities.EvidenceLow, true, entities.Recommended},
		{84, entities.EvidenceHigh, true, entities.Recommended},
		{70, entities.EvidenceModerate, true, entities.Recommended},
		{69, entities.EvidenceHigh, true, entities.Consider},
		{95, entities.EvidenceExpertOpinion, true, entities.Consider},
		{95, entities.EvidenceHigh, false, entities.NotRecommended},
	}
	for _, tt := range tests {
		got := recommendationStrength(effectivenessEstimate{Percent: tt.percent, Evidence: tt.evidence}, tt.age)
		if got != tt.want {
			t.Errorf("Expected %s for %.0f%%/%s/age=%v, got %s", tt.want, tt.percent, tt.evidence, tt.age, got)
		}
	}
}

func TestCompareCost(t *testing.T) {
	if got := compareCost(8, 10, 0.8); got != entities.Cheaper {
		t.Errorf("Expected cheaper at exactly 80%%, got %s", got)
	}
	if got := compareCost(9, 10, 0.8); got != entities.Similar {
		t.Errorf("Expected similar at 90%%, got %s", got)
	}
}

func TestEffectivenessPrefersTreatedConditions(t *testing.T) {
	ref := data.NewSnapshot(refstore.SampleDataset(), 1)
	aspirin, _ := ref.Inventory().LookupByMedicine("Aspirin")

	alts := ScoreAlternatives(ref, aspirin, nil, Options{})
	if len(alts) != 2 {
		t.Fatalf("Expected Disprin and Ecosprin, got %+v", alts)
	}
	byName := map[string]Alternative{}
	for _, a := range alts {
		byName[a.Name] = a
	}
	if eco := byName["Ecosprin"]; eco.EffectivenessPercent != 86 || eco.EvidenceLevel != entities.EvidenceModerate {
		t.Errorf("Expected Ecosprin's own record (86%%, moderate), got %.0f%%, %s", eco.EffectivenessPercent, eco.EvidenceLevel)
	}
	if dis := byName["Disprin"]; dis.EffectivenessPercent != 88 || !dis.EffectivenessVerified {
		t.Errorf("Expected Disprin to borrow Aspirin's best record (88%%), got %.0f%%", dis.EffectivenessPercent)
	}
	if alts[0].Name != "Disprin" {
		t.Errorf("Expected Disprin first on effectiveness, got %s", alts[0].Name)
	}
}

func TestBuildProfileSortsAndCapsSideEffects(t *testing.T) {
	ds := &entities.Dataset{
		Medicines: []entities.MedicineRecord{{Name: "M", GenericName: "G", Price: 1}},
		SideEffects: []entities.SideEffectRecord{
			{MedicineName: "M", Effect: "a", FrequencyPercent: 30, Severity: entities.SideEffectMild},
			{MedicineName: "M", Effect: "b", FrequencyPercent: 5, Severity: entities.SideEffectSevere},
			{MedicineName: "M", Effect: "c", FrequencyPercent: 1, Severity: entities.SideEffectLifeThreatening},
			{MedicineName: "M", Effect: "d", FrequencyPercent: 10, Severity: entities.SideEffectSevere},
			{MedicineName: "M", Effect: "e", FrequencyPercent: 50, Severity: entities.SideEffectModerate},
			{MedicineName: "M", Effect: "f", FrequencyPercent: 40, Severity: entities.SideEffectMild},
		},
	}
	ref := data.NewSnapshot(ds, 1)
	rec, _ := ref.Inventory().LookupByMedicine("M")

	p := BuildProfile(ref, "M", rec, true, nil, nil, 4)
	want := []string{"c", "d", "b", "e"}
	if len(p.SideEffects) != len(want) {
		t.Fatalf("Expected %d side effects, got %d", len(want), len(p.SideEffects))
	}
	for i, w := range want {
		if p.SideEffects[i].Effect != w {
			t.Errorf("Expected side effect %d to be %s, got %s", i, w, p.SideEffects[i].Effect)
		}
	}
	if len(p.SevereSideEffects) != 3 {
		t.Errorf("Expected 3 severe side effects, got %d", len(p.SevereSideEffects))
	}
	if len(p.SafetyConcerns) != 3 {
		t.Errorf("Expected mild and moderate effects to stay out of concerns, got %v", p.SafetyConcerns)
	}
}

func TestClassifyModerateConcernsAccumulate(t *testing.T) {
	e := sampleEngine(t)

	// Moderate interaction plus Warfarin's severe bleeding: two concerns.
	a := mustAnalyze(t, e, prescription("Warfarin", "Amoxicillin"))
	if a.SafetyScore != entities.ModerateRisk {
		t.Errorf("Expected MODERATE_RISK, got %s", a.SafetyScore)
	}
	if len(a.CriticalWarnings) != 2 {
		t.Errorf("Expected 2 warnings, got %v", a.CriticalWarnings)
	}
	if !strings.Contains(a.CriticalWarnings[0], "MODERATE interaction") {
		t.Errorf("Expected interaction warning first, got %v", a.CriticalWarnings)
	}

	// A mild interaction and one severe side effect stay low.
	a = mustAnalyze(t, e, prescription("Aspirin", "Atenolol"))
	if a.SafetyScore != entities.LowRisk {
		t.Errorf("Expected LOW_RISK, got %s", a.SafetyScore)
	}
	if len(a.CriticalWarnings) != 0 {
		t.Errorf("Expected no warnings, got %v", a.CriticalWarnings)
	}
	if a.OverallRecommendations.PharmacistConsultation {
		t.Error("Expected no pharmacist consultation at LOW_RISK")
	}
}

func TestClassifyWarningOrder(t *testing.T) {
	profiles := []MedicineSafetyProfile{
		{
			MedicineName: "X",
			Age:          AgeAssessment{Appropriate: false, Rationale: "too young"},
			SevereSideEffects: []entities.SideEffectRecord{
				{Effect: "rash", Severity: entities.SideEffectSevere},
			},
		},
		{
			MedicineName: "Y",
			Age:          AgeAssessment{Appropriate: true},
			Interactions: []ResolvedInteraction{{Medicine: "Y", Other: "Z",
				InteractionRecord: entities.InteractionRecord{Severity: entities.InteractionSevere, Description: "bad"}}},
		},
	}

	c := Classify(profiles)
	if c.Tier != entities.HighRisk {
		t.Errorf("Expected HIGH_RISK, got %s", c.Tier)
	}
	want := []string{
		"Y: SEVERE interaction with Z — bad",
		"X: SEVERE side effect — rash",
		"X: CONTRAINDICATED age restriction — too young",
	}
	if len(c.Warnings) != len(want) {
		t.Fatalf("Expected %d warnings, got %v", len(want), c.Warnings)
	}
	for i := range want {
		if c.Warnings[i] != want[i] {
			t.Errorf("Expected warning %d %q, got %q", i, want[i], c.Warnings[i])
		}
	}
}

func TestRepeatedMedicineCountsOnce(t *testing.T) {
	e := sampleEngine(t)

	single := mustAnalyze(t, e, prescription("Aspirin"))
	repeated := mustAnalyze(t, e, prescription("Aspirin", "aspirin"))

	if repeated.SafetyScore != single.SafetyScore {
		t.Errorf("Expected %s for a repeated medicine, got %s", single.SafetyScore, repeated.SafetyScore)
	}
	if len(repeated.CriticalWarnings) != len(single.CriticalWarnings) {
		t.Errorf("Expected warnings %v, got %v", single.CriticalWarnings, repeated.CriticalWarnings)
	}
	if repeated.OverallRecommendations.PharmacistConsultation != single.OverallRecommendations.PharmacistConsultation {
		t.Error("Expected the same pharmacist flag for a repeated medicine")
	}
	if len(repeated.MedicineAlternatives) != 2 {
		t.Errorf("Expected one block per input line, got %d", len(repeated.MedicineAlternatives))
	}
}

func TestWarningsUseInventoryNames(t *testing.T) {
	a := mustAnalyze(t, sampleEngine(t), prescription("aspirin", "WARFARIN"))

	want := "Aspirin: SEVERE interaction with Warfarin — "
	if len(a.CriticalWarnings) == 0 || !strings.HasPrefix(a.CriticalWarnings[0], want) {
		t.Errorf("Expected first warning to start with %q, got %v", want, a.CriticalWarnings)
	}
	for _, r := range a.SafetyProfiles[1].Interactions {
		if r.Medicine != "Warfarin" || r.Other != "Aspirin" {
			t.Errorf("Expected Warfarin/Aspirin, got %s/%s", r.Medicine, r.Other)
		}
	}
}

func TestCheckInteractions(t *testing.T) {
	e := sampleEngine(t)

	got, err := e.CheckInteractions([]string{"Warfarin", "Aspirin", "Ibuprofen"})
	if err != nil {
		t.Fatalf("CheckInteractions failed: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("Expected 3 interactions, got %d", len(got))
	}

	lower, err := e.CheckInteractions([]string{"warfarin", "aspirin"})
	if err != nil {
		t.Fatalf("CheckInteractions failed: %v", err)
	}
	if len(lower) != 1 || lower[0].Medicine != "Warfarin" || lower[0].Other != "Aspirin" {
		t.Errorf("Expected inventory names Warfarin/Aspirin, got %+v", lower)
	}

	for _, names := range [][]string{{"Aspirin"}, {"Aspirin", "aspirin"}, {"Aspirin", ""}} {
		if _, err := e.CheckInteractions(names); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("Expected ErrInvalidInput for %v, got %v", names, err)
		}
	}
}

func TestMedicineInsight(t *testing.T) {
	e := sampleEngine(t)

	in, err := e.MedicineInsight("aspirin", nil)
	if err != nil {
		t.Fatalf("MedicineInsight failed: %v", err)
	}
	if in.Medicine.Name != "Aspirin" {
		t.Errorf("Expected Aspirin, got %s", in.Medicine.Name)
	}
	if len(in.Interactions) != 3 || in.Interactions[0].Severity != entities.InteractionSevere {
		t.Errorf("Expected 3 interactions led by the severe one, got %+v", in.Interactions)
	}
	if len(in.DosageGuidelines) != 4 {
		t.Errorf("Expected 4 dosage guidelines, got %d", len(in.DosageGuidelines))
	}
	if len(in.Alternatives) != 2 {
		t.Errorf("Expected 2 alternatives, got %d", len(in.Alternatives))
	}
	if len(in.Warnings) == 0 || !strings.HasPrefix(in.Warnings[0], "SEVERE interaction with Warfarin") {
		t.Errorf("Expected the Warfarin interaction as first warning, got %v", in.Warnings)
	}

	warfarin, err := e.MedicineInsight("Warfarin", nil)
	if err != nil {
		t.Fatalf("MedicineInsight failed: %v", err)
	}
	if len(warfarin.Monitoring) != 1 || warfarin.Monitoring[0] != "INR every 4 weeks" {
		t.Errorf("Expected INR monitoring, got %v", warfarin.Monitoring)
	}

	if _, err := e.MedicineInsight("Zyntrolax", nil); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
	if _, err := e.MedicineInsight(" ", nil); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
}

func TestConditionInsight(t *testing.T) {
	e := sampleEngine(t)

	ci, err := e.ConditionInsight("Acute Pain", "", nil)
	if err != nil {
		t.Fatalf("ConditionInsight failed: %v", err)
	}
	if len(ci.FirstLine) != 3 || ci.FirstLine[0] != "Ibuprofen" {
		t.Errorf("Expected 3 first-line treatments led by Ibuprofen, got %v", ci.FirstLine)
	}
	if ci.MostPrescribed == nil || ci.MostPrescribed.MedicineName != "Paracetamol" {
		t.Errorf("Expected Paracetamol as most prescribed, got %+v", ci.MostPrescribed)
	}
	if ci.AverageSuccessRate != 79.3 {
		t.Errorf("Expected average success 79.3, got %v", ci.AverageSuccessRate)
	}
	order := []string{"Ibuprofen", "Aspirin", "Paracetamol"}
	if len(ci.Options) != len(order) {
		t.Fatalf("Expected %d options, got %+v", len(order), ci.Options)
	}
	for i, name := range order {
		if ci.Options[i].Medicine != name {
			t.Errorf("Expected option %d to be %s, got %s", i, name, ci.Options[i].Medicine)
		}
	}

	excluded, err := e.ConditionInsight("acute pain", "ibuprofen", nil)
	if err != nil {
		t.Fatalf("ConditionInsight failed: %v", err)
	}
	for _, o := range excluded.Options {
		if o.Medicine == "Ibuprofen" {
			t.Error("Expected Ibuprofen to be excluded")
		}
	}

	child, err := e.ConditionInsight("Acute Pain", "", intPtr(60))
	if err != nil {
		t.Fatalf("ConditionInsight failed: %v", err)
	}
	if last := child.Options[len(child.Options)-1]; last.Medicine != "Aspirin" || last.AgeAppropriate {
		t.Errorf("Expected Aspirin ranked last for a child, got %+v", last)
	}

	if _, err := e.ConditionInsight("Unknown Syndrome", "", nil); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestFailureEnvelope(t *testing.T) {
	tests := []struct {
		err   error
		code  string
		field string
	}{
		{inputErr("medicines", "empty"), CodeInvalidInput, "medicines"},
		{ErrRequestTimeout, CodeRequestTimeout, ""},
		{ErrNotFound, CodeNotFound, ""},
		{fmt.Errorf("%w: %w", ErrCanceled, context.Canceled), CodeCanceled, ""},
		{errors.New("boom"), CodeInternal, ""},
	}
	for _, tt := range tests {
		env := FailureFrom(tt.err)
		if env.Kind != KindFailure || env.Assessment != nil || env.Failure == nil {
			t.Fatalf("Expected a failure envelope for %v, got %+v", tt.err, env)
		}
		if env.Failure.Code != tt.code {
			t.Errorf("Expected code %s, got %s", tt.code, env.Failure.Code)
		}
		if env.Failure.Field != tt.field {
			t.Errorf("Expected field %q, got %q", tt.field, env.Failure.Field)
		}
	}
}
