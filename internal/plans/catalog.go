package plans

import "strings"

// Tier identifies one of the fixed subscription tiers.
type Tier string

const (
	TierBase Tier = "base"
	TierPlus Tier = "plus"
	TierPro  Tier = "pro"
)

// Plan holds the static pricing and coverage data for a tier.
type Plan struct {
	Tier           Tier    `json:"tier"`
	Name           string  `json:"name"`
	Price          float64 `json:"price"`
	CoverageMin    int     `json:"coverage_min"`
	CoverageMax    int     `json:"coverage_max"`
	CommitmentDays int     `json:"commitment_days"`
	Description    string  `json:"description,omitempty"`
}

// catalog is the closed set of plans. Loaded once, never mutated.
var catalog = map[Tier]Plan{
	TierBase: {
		Tier:           TierBase,
		Name:           "Plan Base",
		Price:          10000,
		CoverageMin:    20,
		CoverageMax:    45,
		CommitmentDays: 90,
		Description:    "Cobertura esencial al menor costo",
	},
	TierPlus: {
		Tier:           TierPlus,
		Name:           "Plan Plus",
		Price:          15000,
		CoverageMin:    50,
		CoverageMax:    65,
		CommitmentDays: 60,
		Description:    "Equilibrio entre costo y velocidad de cobertura",
	},
	TierPro: {
		Tier:           TierPro,
		Name:           "Plan Pro",
		Price:          20000,
		CoverageMin:    70,
		CoverageMax:    90,
		CommitmentDays: 60,
		Description:    "Cobertura general superior",
	},
}

var tierOrder = []Tier{TierBase, TierPlus, TierPro}

// All returns the catalog in display order.
func All() []Plan {
	plans := make([]Plan, 0, len(tierOrder))
	for _, t := range tierOrder {
		plans = append(plans, catalog[t])
	}
	return plans
}

// ByTier returns the catalog entry for a tier. Unknown tiers fall back
// to Plus, mirroring TierOf.
func ByTier(t Tier) Plan {
	if p, ok := catalog[t]; ok {
		return p
	}
	return catalog[TierPlus]
}

// TierOf classifies a free-text plan label into a tier. Legacy records
// carry labels like "Plan Normal" or "Plan Plus"; the label is only a
// display string and the match is a case-insensitive substring check.
// Unmatched labels default to Plus.
func TierOf(label string) Tier {
	name := strings.ToLower(label)
	switch {
	case strings.Contains(name, "base"), strings.Contains(name, "normal"):
		return TierBase
	case strings.Contains(name, "pro"):
		return TierPro
	default:
		return TierPlus
	}
}

// ParseTier maps client input (a tier key or a legacy label) to a Tier.
func ParseTier(s string) Tier {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(TierBase):
		return TierBase
	case string(TierPlus):
		return TierPlus
	case string(TierPro):
		return TierPro
	}
	return TierOf(s)
}
