package entities

import "testing"

func TestInteractionSeverityOrder(t *testing.T) {
	order := []InteractionSeverity{InteractionMild, InteractionModerate, InteractionSevere, InteractionContraindicated}
	for i := 1; i < len(order); i++ {
		if order[i].Rank() <= order[i-1].Rank() {
			t.Errorf("Expected %s to rank above %s", order[i], order[i-1])
		}
	}
	if !InteractionSevere.AtLeast(InteractionModerate) {
		t.Error("Expected severe to be at least moderate")
	}
	if InteractionSeverity("unknown").AtLeast(InteractionMild) {
		t.Error("Expected unknown severity to never satisfy AtLeast")
	}
}

func TestParsers(t *testing.T) {
	tests := []struct {
		name    string
		parse   func(string) (string, error)
		input   string
		want    string
		wantErr bool
	}{
		{"interaction upper", wrap(ParseInteractionSeverity), " Severe ", "severe", false},
		{"interaction unknown", wrap(ParseInteractionSeverity), "deadly", "", true},
		{"side effect hyphen", wrap(ParseSideEffectSeverity), "life-threatening", "life_threatening", false},
		{"evidence very low", wrap(ParseEvidenceLevel), "very_low", "expert_opinion", false},
		{"evidence empty", wrap(ParseEvidenceLevel), "", "expert_opinion", false},
		{"evidence bad", wrap(ParseEvidenceLevel), "anecdotal", "", true},
		{"line underscore", wrap(ParseTreatmentLine), "first_line", "first-line", false},
		{"trend empty", wrap(ParseTrend), "", "stable", false},
		{"trend bad", wrap(ParseTrend), "sideways", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.parse(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Expected error=%v, got %v", tt.wantErr, err)
			}
			if got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func wrap[T ~string](f func(string) (T, error)) func(string) (string, error) {
	return func(s string) (string, error) {
		v, err := f(s)
		return string(v), err
	}
}

func TestDosageGuidelineCovers(t *testing.T) {
	bounded := DosageGuideline{MinAgeMonths: 24, MaxAgeMonths: 192}
	open := DosageGuideline{MinAgeMonths: 192, MaxAgeMonths: -1}

	tests := []struct {
		g    DosageGuideline
		age  int
		want bool
	}{
		{bounded, 23, false},
		{bounded, 24, true},
		{bounded, 191, true},
		{bounded, 192, false},
		{open, 192, true},
		{open, 1200, true},
	}
	for _, tt := range tests {
		if got := tt.g.Covers(tt.age); got != tt.want {
			t.Errorf("Covers(%d) on [%d,%d) = %v, want %v", tt.age, tt.g.MinAgeMonths, tt.g.MaxAgeMonths, got, tt.want)
		}
	}
}
