package rates

import (
	"github.com/shopspring/decimal"

	"github.com/warp/staffing-engine/staffing"
)

// =============================================================================
// RATE RESOLUTION - Immutable, itemized result
// =============================================================================

// PremiumLine is one premium in the breakdown, tagged with the tier whose
// winning override owns it. Lines exist for audit: the final amount can be
// recomputed from them by hand.
type PremiumLine struct {
	Tier   Tier            `json:"tier"`
	Kind   PremiumKind     `json:"kind"`
	Amount decimal.Decimal `json:"amount"`
}

// RateResolution is the full itemized output of a resolution. It is a pure
// value: two calls with identical inputs against identical override data
// produce identical resolutions. When an assignment is created, the
// resolution is frozen onto the row as its rate snapshot and never changes,
// even if the overrides it was derived from are later edited or deleted.
type RateResolution struct {
	AsOf staffing.Date `json:"as_of"`

	// Base selected from the most specific applicable tier.
	BaseCurrency string          `json:"base_currency"`
	BaseAmount   decimal.Decimal `json:"base_amount"`

	// Premium breakdown, in application order.
	AbsolutePremiums   []PremiumLine `json:"absolute_premiums"`
	PercentagePremiums []PremiumLine `json:"percentage_premiums"`

	// Scarcity multiplier applied after premiums (1 when no signal applies).
	ScarcityMultiplier decimal.Decimal `json:"scarcity_multiplier"`

	// Final amount after conversion, rounded to FinalCurrency's minor units.
	FinalCurrency string          `json:"final_currency"`
	FinalAmount   decimal.Decimal `json:"final_amount"`

	// Every tier that contributed the base or a premium, in tier order.
	PrecedenceApplied []Tier `json:"precedence_applied"`
}

// Equal reports whether two resolutions are identical, premium line for
// premium line. Used to verify snapshot immutability.
func (r *RateResolution) Equal(other *RateResolution) bool {
	if r == nil || other == nil {
		return r == other
	}
	if !r.AsOf.Equal(other.AsOf) ||
		r.BaseCurrency != other.BaseCurrency ||
		!r.BaseAmount.Equal(other.BaseAmount) ||
		!r.ScarcityMultiplier.Equal(other.ScarcityMultiplier) ||
		r.FinalCurrency != other.FinalCurrency ||
		!r.FinalAmount.Equal(other.FinalAmount) {
		return false
	}
	if !premiumLinesEqual(r.AbsolutePremiums, other.AbsolutePremiums) ||
		!premiumLinesEqual(r.PercentagePremiums, other.PercentagePremiums) {
		return false
	}
	if len(r.PrecedenceApplied) != len(other.PrecedenceApplied) {
		return false
	}
	for i, t := range r.PrecedenceApplied {
		if t != other.PrecedenceApplied[i] {
			return false
		}
	}
	return true
}

func premiumLinesEqual(a, b []PremiumLine) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Tier != b[i].Tier || a[i].Kind != b[i].Kind || !a[i].Amount.Equal(b[i].Amount) {
			return false
		}
	}
	return true
}
