package entities

// RiskTier is the prescription-wide classification. Ordered LOW < MODERATE < HIGH.
type RiskTier string

const (
	LowRisk      RiskTier = "LOW_RISK"
	ModerateRisk RiskTier = "MODERATE_RISK"
	HighRisk     RiskTier = "HIGH_RISK"
)

var riskRank = map[RiskTier]int{LowRisk: 1, ModerateRisk: 2, HighRisk: 3}

func (r RiskTier) Rank() int { return riskRank[r] }

// Escalate returns the higher of r and other. Tiers never move down.
func (r RiskTier) Escalate(other RiskTier) RiskTier {
	if other.Rank() > r.Rank() {
		return other
	}
	return r
}

// RecommendationStrength labels a scored alternative.
type RecommendationStrength string

const (
	HighlyRecommended RecommendationStrength = "Highly Recommended"
	Recommended       RecommendationStrength = "Recommended"
	Consider          RecommendationStrength = "Consider"
	NotRecommended    RecommendationStrength = "Not Recommended"
)

var strengthRank = map[RecommendationStrength]int{
	HighlyRecommended: 4,
	Recommended:       3,
	Consider:          2,
	NotRecommended:    1,
}

func (s RecommendationStrength) Rank() int { return strengthRank[s] }

// CostComparison relates an alternative's price to the original's.
// Eligible alternatives are strictly cheaper, so MoreExpensive is never produced.
type CostComparison string

const (
	Cheaper       CostComparison = "cheaper"
	Similar       CostComparison = "similar"
	MoreExpensive CostComparison = "more_expensive"
)
