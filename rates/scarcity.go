package rates

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/warp/staffing-engine/staffing"
)

// =============================================================================
// SCARCITY - Supply/demand pressure applied after premiums
// =============================================================================

// ScarcitySource supplies a single non-negative multiplier from skill/role
// supply-demand signals. Implementations must be deterministic for a fixed
// configuration: resolution results are frozen into snapshots and must be
// reproducible.
type ScarcitySource interface {
	Multiplier(ctx context.Context, orgID staffing.OrgID, skills []staffing.SkillID, asOf staffing.Date) (decimal.Decimal, error)
}

// NoScarcity always returns 1. Used when no scarcity configuration is loaded.
type NoScarcity struct{}

func (NoScarcity) Multiplier(context.Context, staffing.OrgID, []staffing.SkillID, staffing.Date) (decimal.Decimal, error) {
	return decimal.NewFromInt(1), nil
}

// StaticScarcity maps skills to fixed multipliers from versioned
// configuration (see factory). When a context carries several skills the
// largest multiplier wins: the scarcest skill drives the price.
type StaticScarcity struct {
	Multipliers map[staffing.SkillID]decimal.Decimal
}

func (s *StaticScarcity) Multiplier(_ context.Context, _ staffing.OrgID, skills []staffing.SkillID, _ staffing.Date) (decimal.Decimal, error) {
	best := decimal.Decimal{}
	matched := false
	for _, skill := range skills {
		m, ok := s.Multipliers[skill]
		if !ok {
			continue
		}
		if m.IsNegative() {
			m = decimal.Zero
		}
		if !matched || m.GreaterThan(best) {
			best = m
			matched = true
		}
	}
	if !matched {
		return decimal.NewFromInt(1), nil
	}
	return best, nil
}
