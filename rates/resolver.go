/*
resolver.go - The rate resolution algorithm

PURPOSE:
  Composes the effective billable rate for a targeting context:

    1. Walk tiers least to most specific, skipping tiers whose context field
       is absent; pick one winner per tier (latest effective_from not after
       as_of, ties broken by most recent created_at).
    2. The most specific winner supplies base amount and currency.
    3. Sum absolute premiums from every winning tier onto the base, then
       compound percentage premiums in tier order / insertion order.
    4. Apply the scarcity multiplier.
    5. Convert to the target currency as of the as-of date.
    6. Round to the final currency's minor units, once, at the very end.

  The operation is a pure read: no side effects, no caching of partial
  state across calls, safe to invoke concurrently.

FAILURE MODES:
  - No org_default override for the org: every org must have a base rate,
    so this is a ResolutionError (no_org_default), not a NotFound.
  - No usable exchange rate: ResolutionError (currency_unavailable).

SEE ALSO:
  - override.go: tiers, overrides, store interface
  - resolution.go: the itemized result
*/
package rates

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/warp/staffing-engine/staffing"
)

// =============================================================================
// TARGETING CONTEXT
// =============================================================================

// TargetingContext is the point at which a rate is evaluated. Optional
// fields are pointers: absent means the corresponding tier is skipped
// entirely, which is different from present-but-empty.
type TargetingContext struct {
	OrgID          staffing.OrgID
	RoleTemplateID *staffing.RoleTemplateID
	Level          *staffing.Level
	Skills         []staffing.SkillID
	ClientID       *staffing.ClientID
	EngagementID   *staffing.EngagementID
	PersonID       *staffing.PersonID

	// TargetCurrency of the final amount. Empty means the resolved base
	// currency is kept as-is.
	TargetCurrency string

	// AsOf is mandatory. The HTTP boundary defaults it to today.
	AsOf staffing.Date
}

// scopeKeys returns the scope keys to query at a tier, or nil when the
// context has no value for that tier. The skill tier can produce several
// keys; candidates are pooled before the tie-break.
func (tc *TargetingContext) scopeKeys(tier Tier) []string {
	switch tier {
	case TierOrgDefault:
		return []string{string(tc.OrgID)}
	case TierRoleTemplate:
		if tc.RoleTemplateID == nil {
			return nil
		}
		return []string{string(*tc.RoleTemplateID)}
	case TierLevel:
		if tc.Level == nil {
			return nil
		}
		return []string{string(*tc.Level)}
	case TierSkill:
		if len(tc.Skills) == 0 {
			return nil
		}
		// Ascending skill order keeps the pool, and therefore the
		// tie-break input, deterministic.
		skills := make([]staffing.SkillID, len(tc.Skills))
		copy(skills, tc.Skills)
		sort.Slice(skills, func(i, j int) bool { return skills[i] < skills[j] })
		keys := make([]string, len(skills))
		for i, s := range skills {
			keys[i] = strconv.FormatInt(int64(s), 10)
		}
		return keys
	case TierClient:
		if tc.ClientID == nil {
			return nil
		}
		return []string{string(*tc.ClientID)}
	case TierEngagement:
		if tc.EngagementID == nil {
			return nil
		}
		return []string{string(*tc.EngagementID)}
	case TierPerson:
		if tc.PersonID == nil {
			return nil
		}
		return []string{string(*tc.PersonID)}
	}
	return nil
}

// =============================================================================
// RESOLVER
// =============================================================================

// Resolver composes overrides, premiums, scarcity, and conversion into an
// itemized RateResolution.
type Resolver struct {
	Overrides OverrideStore
	Converter CurrencyConverter

	// Scarcity is optional; nil behaves as NoScarcity.
	Scarcity ScarcitySource
}

func NewResolver(overrides OverrideStore, converter CurrencyConverter, scarcity ScarcitySource) *Resolver {
	if scarcity == nil {
		scarcity = NoScarcity{}
	}
	return &Resolver{Overrides: overrides, Converter: converter, Scarcity: scarcity}
}

// tierWinner pairs a tier with the override that won it.
type tierWinner struct {
	tier     Tier
	override RateOverride
}

// Resolve computes the effective rate for the context. See the file header
// for the algorithm.
func (r *Resolver) Resolve(ctx context.Context, tc TargetingContext) (*RateResolution, error) {
	if tc.OrgID == "" {
		return nil, &staffing.ValidationError{Field: "org_id", Message: "required"}
	}
	if tc.AsOf.IsZero() {
		return nil, &staffing.ValidationError{Field: "as_of", Message: "required"}
	}

	// 1. One winner per tier, least to most specific.
	winners, err := r.collectWinners(ctx, tc)
	if err != nil {
		return nil, err
	}
	if len(winners) == 0 || winners[0].tier != TierOrgDefault {
		return nil, &staffing.ResolutionError{
			Code:   staffing.ResolutionNoOrgDefault,
			OrgID:  tc.OrgID,
			Detail: "org has no default rate card",
		}
	}

	// 2. Most specific winner supplies base amount and currency.
	base := winners[len(winners)-1].override
	subtotal := base.BaseAmount

	// 3. Premium stacking: absolutes first, then compounding percentages,
	// both in tier order then insertion order within a tier.
	var absolute, percentage []PremiumLine
	for _, w := range winners {
		for _, p := range w.override.Premiums {
			line := PremiumLine{Tier: w.tier, Kind: p.Kind, Amount: p.Amount}
			switch p.Kind {
			case PremiumAbsolute:
				absolute = append(absolute, line)
			case PremiumPercentage:
				percentage = append(percentage, line)
			}
		}
	}
	for _, line := range absolute {
		subtotal = subtotal.Add(line.Amount)
	}
	hundred := decimal.NewFromInt(100)
	one := decimal.NewFromInt(1)
	for _, line := range percentage {
		subtotal = subtotal.Mul(one.Add(line.Amount.Div(hundred)))
	}

	// 4. Scarcity after premiums, before conversion.
	scarcity, err := r.Scarcity.Multiplier(ctx, tc.OrgID, tc.Skills, tc.AsOf)
	if err != nil {
		return nil, fmt.Errorf("scarcity signal: %w", err)
	}
	if scarcity.IsNegative() {
		scarcity = decimal.Zero
	}
	subtotal = subtotal.Mul(scarcity)

	// 5. Currency conversion as of the as-of date.
	finalCurrency := base.Currency
	if tc.TargetCurrency != "" && tc.TargetCurrency != base.Currency {
		converted, convErr := r.Converter.Convert(ctx, subtotal, base.Currency, tc.TargetCurrency, tc.AsOf)
		if convErr != nil {
			return nil, &staffing.ResolutionError{
				Code:   staffing.ResolutionCurrencyUnavailable,
				OrgID:  tc.OrgID,
				Detail: convErr.Error(),
			}
		}
		subtotal = converted
		finalCurrency = tc.TargetCurrency
	}

	// 6. Round once, at the end.
	final := staffing.RoundToMinorUnits(subtotal, finalCurrency)

	// Precedence trace: every tier that contributed the base or a premium.
	var applied []Tier
	for _, w := range winners {
		if w.override.ID == base.ID || len(w.override.Premiums) > 0 {
			applied = append(applied, w.tier)
		}
	}

	return &RateResolution{
		AsOf:               tc.AsOf,
		BaseCurrency:       base.Currency,
		BaseAmount:         base.BaseAmount,
		AbsolutePremiums:   absolute,
		PercentagePremiums: percentage,
		ScarcityMultiplier: scarcity,
		FinalCurrency:      finalCurrency,
		FinalAmount:        final,
		PrecedenceApplied:  applied,
	}, nil
}

// collectWinners walks the tiers in fixed order and picks at most one
// applicable override per tier.
func (r *Resolver) collectWinners(ctx context.Context, tc TargetingContext) ([]tierWinner, error) {
	var winners []tierWinner
	for _, tier := range Tiers() {
		keys := tc.scopeKeys(tier)
		if len(keys) == 0 {
			continue
		}
		var pool []RateOverride
		for _, key := range keys {
			candidates, err := r.Overrides.ListApplicable(ctx, tc.OrgID, tier, key, tc.AsOf)
			if err != nil {
				return nil, fmt.Errorf("lookup %s overrides: %w", tier, err)
			}
			pool = append(pool, candidates...)
		}
		if len(pool) == 0 {
			continue
		}
		winners = append(winners, tierWinner{tier: tier, override: pickWinner(pool)})
	}
	return winners, nil
}

// pickWinner applies the within-tier tie-break: latest effective_from not
// after as_of, then most recent created_at. The store has already filtered
// to applicable windows.
func pickWinner(pool []RateOverride) RateOverride {
	best := pool[0]
	for _, o := range pool[1:] {
		switch {
		case o.EffectiveFrom.After(best.EffectiveFrom):
			best = o
		case o.EffectiveFrom.Equal(best.EffectiveFrom) && o.CreatedAt.After(best.CreatedAt):
			best = o
		}
	}
	return best
}
