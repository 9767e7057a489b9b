// Package entities holds the reference records loaded from the seven stores
// and the ordered vocabularies every analysis stage ranks them by.
package entities

import (
	"fmt"
	"strings"
)

// InteractionSeverity grades a drug pair. Ordered mild < moderate < severe < contraindicated.
type InteractionSeverity string

const (
	InteractionMild            InteractionSeverity = "mild"
	InteractionModerate        InteractionSeverity = "moderate"
	InteractionSevere          InteractionSeverity = "severe"
	InteractionContraindicated InteractionSeverity = "contraindicated"
)

var interactionRank = map[InteractionSeverity]int{
	InteractionMild:            1,
	InteractionModerate:        2,
	InteractionSevere:          3,
	InteractionContraindicated: 4,
}

// Rank returns the position of s in the severity order, 0 when unknown.
func (s InteractionSeverity) Rank() int { return interactionRank[s] }

// AtLeast reports whether s is as severe as other or worse.
func (s InteractionSeverity) AtLeast(other InteractionSeverity) bool {
	return s.Rank() >= other.Rank() && s.Rank() > 0
}

// ParseInteractionSeverity maps stored text onto the vocabulary.
func ParseInteractionSeverity(raw string) (InteractionSeverity, error) {
	s := InteractionSeverity(normalize(raw))
	if _, ok := interactionRank[s]; !ok {
		return "", fmt.Errorf("unknown interaction severity %q", raw)
	}
	return s, nil
}

// SideEffectSeverity grades an adverse effect. Ordered mild < moderate < severe < life_threatening.
type SideEffectSeverity string

const (
	SideEffectMild            SideEffectSeverity = "mild"
	SideEffectModerate        SideEffectSeverity = "moderate"
	SideEffectSevere          SideEffectSeverity = "severe"
	SideEffectLifeThreatening SideEffectSeverity = "life_threatening"
)

var sideEffectRank = map[SideEffectSeverity]int{
	SideEffectMild:            1,
	SideEffectModerate:        2,
	SideEffectSevere:          3,
	SideEffectLifeThreatening: 4,
}

func (s SideEffectSeverity) Rank() int { return sideEffectRank[s] }

// AtLeast reports whether s is as severe as other or worse.
func (s SideEffectSeverity) AtLeast(other SideEffectSeverity) bool {
	return s.Rank() >= other.Rank() && s.Rank() > 0
}

func ParseSideEffectSeverity(raw string) (SideEffectSeverity, error) {
	s := SideEffectSeverity(normalize(raw))
	if s == "life-threatening" {
		s = SideEffectLifeThreatening
	}
	if _, ok := sideEffectRank[s]; !ok {
		return "", fmt.Errorf("unknown side effect severity %q", raw)
	}
	return s, nil
}

// EvidenceLevel grades the quality of a clinical claim.
// Ordered expert_opinion < low < moderate < high.
type EvidenceLevel string

const (
	EvidenceExpertOpinion EvidenceLevel = "expert_opinion"
	EvidenceLow           EvidenceLevel = "low"
	EvidenceModerate      EvidenceLevel = "moderate"
	EvidenceHigh          EvidenceLevel = "high"
)

var evidenceRank = map[EvidenceLevel]int{
	EvidenceExpertOpinion: 1,
	EvidenceLow:           2,
	EvidenceModerate:      3,
	EvidenceHigh:          4,
}

func (e EvidenceLevel) Rank() int { return evidenceRank[e] }

// ParseEvidenceLevel accepts both the dosage/condition vocabulary and the
// effectiveness one, where very_low is the lowest grade.
func ParseEvidenceLevel(raw string) (EvidenceLevel, error) {
	n := normalize(raw)
	switch n {
	case "", "very_low", "expert", "expert_opinion":
		return EvidenceExpertOpinion, nil
	}
	e := EvidenceLevel(n)
	if _, ok := evidenceRank[e]; !ok {
		return "", fmt.Errorf("unknown evidence level %q", raw)
	}
	return e, nil
}

// TreatmentLine says where a medicine sits in a condition's treatment order.
type TreatmentLine string

const (
	FirstLine   TreatmentLine = "first-line"
	SecondLine  TreatmentLine = "second-line"
	ThirdLine   TreatmentLine = "third-line"
	Alternative TreatmentLine = "alternative"
)

var treatmentRank = map[TreatmentLine]int{
	FirstLine:   4,
	SecondLine:  3,
	ThirdLine:   2,
	Alternative: 1,
}

// Rank is higher for earlier lines of treatment.
func (l TreatmentLine) Rank() int { return treatmentRank[l] }

func ParseTreatmentLine(raw string) (TreatmentLine, error) {
	l := TreatmentLine(strings.ReplaceAll(normalize(raw), "_", "-"))
	if _, ok := treatmentRank[l]; !ok {
		return "", fmt.Errorf("unknown treatment line %q", raw)
	}
	return l, nil
}

// Trend is the prescribing direction of a pattern.
type Trend string

const (
	TrendIncreasing Trend = "increasing"
	TrendStable     Trend = "stable"
	TrendDecreasing Trend = "decreasing"
)

func ParseTrend(raw string) (Trend, error) {
	t := Trend(normalize(raw))
	switch t {
	case TrendIncreasing, TrendStable, TrendDecreasing:
		return t, nil
	case "":
		return TrendStable, nil
	}
	return "", fmt.Errorf("unknown trend %q", raw)
}

func normalize(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
