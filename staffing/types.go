/*
Package staffing provides the core types shared by the rate-resolution and
candidate-ranking engine.

PURPOSE:
  This package contains the identifiers, calendar dates, currency helpers,
  error taxonomy, and collaborator interfaces that the rates, fitscore, and
  assignments packages build on. It has no dependencies on storage or HTTP.

KEY CONCEPTS IN THIS FILE (types.go):
  - Typed IDs: OrgID, PersonID, SkillID, ... prevent mixing identifiers
  - Level: seniority ladder with an explicit rank ordering
  - Currency minor units: rounding precision per ISO currency code

DESIGN PRINCIPLES:
  1. Precision: monetary amounts use decimal.Decimal, never float64
  2. Type Safety: strong typing for IDs prevents cross-wiring org/person IDs
  3. Explicit optionality: absent fields are pointers, never magic zero values

SEE ALSO:
  - date.go: civil Date type and range arithmetic
  - errors.go: error taxonomy (validation / not-found / resolution / conflict)
  - directory.go: Person, StaffingRequest, Engagement records
*/
package staffing

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type OrgID string
type PersonID string
type RoleTemplateID string
type EngagementID string
type ClientID string
type StaffingRequestID string
type AssignmentID string

// SkillID is numeric: the skill catalog is externally managed and referenced
// by integer ID at the boundary (comma-separated in query strings).
type SkillID int64

// =============================================================================
// SENIORITY LEVEL
// =============================================================================

// Level is a seniority band. The rank ordering is used by the fit score
// calculator to measure level distance between a request and a candidate.
type Level string

const (
	LevelJunior    Level = "junior"
	LevelMid       Level = "mid"
	LevelSenior    Level = "senior"
	LevelStaff     Level = "staff"
	LevelPrincipal Level = "principal"
)

var levelRanks = map[Level]int{
	LevelJunior:    1,
	LevelMid:       2,
	LevelSenior:    3,
	LevelStaff:     4,
	LevelPrincipal: 5,
}

// Rank returns the ordinal position of the level, or 0 if unknown.
func (l Level) Rank() int { return levelRanks[l] }

// Known reports whether the level is part of the ladder.
func (l Level) Known() bool { return levelRanks[l] != 0 }

// =============================================================================
// CURRENCY - minor-unit precision and terminal rounding
// =============================================================================

// minorUnits maps ISO 4217 codes to their minor-unit digit count.
// Codes not listed default to 2.
var minorUnits = map[string]int32{
	"JPY": 0,
	"KRW": 0,
	"VND": 0,
	"BHD": 3,
	"KWD": 3,
	"OMR": 3,
	"TND": 3,
}

// MinorUnits returns the number of decimal places used by a currency.
func MinorUnits(currency string) int32 {
	if n, ok := minorUnits[currency]; ok {
		return n
	}
	return 2
}

// RoundToMinorUnits rounds an amount to the currency's minor-unit precision.
// Rate resolution keeps full precision through premium stacking and conversion
// and rounds exactly once, at the end, with this function.
func RoundToMinorUnits(amount decimal.Decimal, currency string) decimal.Decimal {
	return amount.Round(MinorUnits(currency))
}

// MustParseDecimal parses a decimal literal, returning zero on failure.
// Intended for constants and test fixtures.
func MustParseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
