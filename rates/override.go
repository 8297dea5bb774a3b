/*
Package rates implements effective billable rate resolution.

PURPOSE:
  Given a targeting context (org, optional role/level/skills/client/
  engagement/person, an as-of date, and a target currency), the Resolver
  selects the most specific applicable rate override per precedence tier,
  stacks premiums, applies a scarcity multiplier, converts currency, and
  returns a fully itemized breakdown.

KEY CONCEPTS IN THIS FILE (override.go):
  - Tier: ordered precedence levels, org default (least specific) through
    person (most specific)
  - RateOverride: a date-effective rate card entry at one tier
  - Premium: an absolute or percentage add-on owned by an override
  - OverrideStore: point-in-time lookup collaborator

PRECEDENCE:
  org_default < role_template < level < skill < client < engagement < person

  The most specific tier with an applicable override supplies the base
  amount and currency. Premiums from every winning tier still stack.

SEE ALSO:
  - resolver.go: the resolution algorithm
  - resolution.go: the itemized, immutable result
  - currency.go: conversion collaborator
*/
package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/staffing-engine/staffing"
)

// =============================================================================
// PRECEDENCE TIER
// =============================================================================

// Tier is an override specificity level. Higher values are more specific.
type Tier int

const (
	TierOrgDefault Tier = iota
	TierRoleTemplate
	TierLevel
	TierSkill
	TierClient
	TierEngagement
	TierPerson
)

var tierNames = map[Tier]string{
	TierOrgDefault:   "org_default",
	TierRoleTemplate: "role_template",
	TierLevel:        "level",
	TierSkill:        "skill",
	TierClient:       "client",
	TierEngagement:   "engagement",
	TierPerson:       "person",
}

var tiersByName = func() map[string]Tier {
	m := make(map[string]Tier, len(tierNames))
	for t, n := range tierNames {
		m[n] = t
	}
	return m
}()

// Tiers returns all tiers ordered least to most specific. The resolver walks
// this exact sequence; do not reorder.
func Tiers() []Tier {
	return []Tier{
		TierOrgDefault, TierRoleTemplate, TierLevel, TierSkill,
		TierClient, TierEngagement, TierPerson,
	}
}

func (t Tier) String() string {
	if n, ok := tierNames[t]; ok {
		return n
	}
	return fmt.Sprintf("tier(%d)", int(t))
}

// ParseTier converts a tier name back to its Tier.
func ParseTier(s string) (Tier, error) {
	if t, ok := tiersByName[s]; ok {
		return t, nil
	}
	return 0, fmt.Errorf("unknown precedence tier %q", s)
}

// Tiers travel by name in JSON: snapshots must stay readable even if the
// numeric ordering ever gains a new tier in the middle.
func (t Tier) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *Tier) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseTier(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// =============================================================================
// PREMIUM
// =============================================================================

type PremiumKind string

const (
	PremiumAbsolute   PremiumKind = "absolute"
	PremiumPercentage PremiumKind = "percentage"
)

// Premium is an add-on owned by an override. Absolute premiums are summed
// onto the base before any percentage premium applies; percentage premiums
// compound multiplicatively in resolution order.
type Premium struct {
	Kind   PremiumKind     `json:"kind"`
	Amount decimal.Decimal `json:"amount"`
}

// =============================================================================
// RATE OVERRIDE
// =============================================================================

// RateOverride is one rate card entry. ScopeKey identifies what the override
// targets within its tier: the role template ID at TierRoleTemplate, the
// skill ID at TierSkill, and so on. At TierOrgDefault the scope is the org.
type RateOverride struct {
	ID            string
	OrgID         staffing.OrgID
	Tier          Tier
	ScopeKey      string
	Currency      string
	BaseAmount    decimal.Decimal
	Premiums      []Premium
	EffectiveFrom staffing.Date
	EffectiveTo   *staffing.Date // nil = open-ended
	CreatedAt     time.Time
}

// Covers reports whether the override's effective window contains the date.
func (o RateOverride) Covers(asOf staffing.Date) bool {
	if asOf.Before(o.EffectiveFrom) {
		return false
	}
	if o.EffectiveTo != nil && asOf.After(*o.EffectiveTo) {
		return false
	}
	return true
}

// =============================================================================
// OVERRIDE STORE - point-in-time lookup collaborator
// =============================================================================

// OverrideStore is the read-only rate card source. ListApplicable returns
// every override for the org/tier/scope whose effective window contains
// asOf; the resolver applies the tie-break.
type OverrideStore interface {
	ListApplicable(ctx context.Context, orgID staffing.OrgID, tier Tier, scopeKey string, asOf staffing.Date) ([]RateOverride, error)
}
