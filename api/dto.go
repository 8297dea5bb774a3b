/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  JSON structures for API communication, decoupling the domain model from
  the external contract. The itemization fields of a rate resolution
  (precedence trace, premium breakdown) exist specifically for audit and
  debugging and are NEVER dropped in serialization.

NAMING CONVENTION:
  - *DTO: response types returned to clients
  - *Request: request body types from clients

MONEY IN JSON:
  Decimal amounts travel as strings to keep client-side parsing exact.

SEE ALSO:
  - handlers.go: uses these types
  - rates/resolution.go: the domain value behind RateResolutionDTO
*/
package api

import (
	"time"

	"github.com/warp/staffing-engine/assignments"
	"github.com/warp/staffing-engine/fitscore"
	"github.com/warp/staffing-engine/rates"
	"github.com/warp/staffing-engine/staffing"
)

// =============================================================================
// RATE RESOLUTION
// =============================================================================

// PremiumLineDTO is one premium in the breakdown.
type PremiumLineDTO struct {
	Tier   string `json:"tier"`
	Kind   string `json:"kind"`
	Amount string `json:"amount"`
}

// RateResolutionDTO carries the full itemized resolution.
type RateResolutionDTO struct {
	AsOf               string           `json:"as_of"`
	BaseCurrency       string           `json:"base_currency"`
	BaseAmount         string           `json:"base_amount"`
	AbsolutePremiums   []PremiumLineDTO `json:"absolute_premiums"`
	PercentagePremiums []PremiumLineDTO `json:"percentage_premiums"`
	ScarcityMultiplier string           `json:"scarcity_multiplier"`
	FinalCurrency      string           `json:"final_currency"`
	FinalAmount        string           `json:"final_amount"`
	PrecedenceApplied  []string         `json:"precedence_applied"`
}

func toResolutionDTO(r *rates.RateResolution) *RateResolutionDTO {
	if r == nil {
		return nil
	}
	dto := &RateResolutionDTO{
		AsOf:               r.AsOf.String(),
		BaseCurrency:       r.BaseCurrency,
		BaseAmount:         r.BaseAmount.String(),
		AbsolutePremiums:   make([]PremiumLineDTO, 0, len(r.AbsolutePremiums)),
		PercentagePremiums: make([]PremiumLineDTO, 0, len(r.PercentagePremiums)),
		ScarcityMultiplier: r.ScarcityMultiplier.String(),
		FinalCurrency: r.FinalCurrency,
		// An exact-dollar amount still serializes with its minor units
		// ("132.00", not "132"): billing clients compare these as strings.
		FinalAmount: r.FinalAmount.StringFixed(staffing.MinorUnits(r.FinalCurrency)),
		PrecedenceApplied:  make([]string, 0, len(r.PrecedenceApplied)),
	}
	for _, line := range r.AbsolutePremiums {
		dto.AbsolutePremiums = append(dto.AbsolutePremiums, toPremiumLineDTO(line))
	}
	for _, line := range r.PercentagePremiums {
		dto.PercentagePremiums = append(dto.PercentagePremiums, toPremiumLineDTO(line))
	}
	for _, tier := range r.PrecedenceApplied {
		dto.PrecedenceApplied = append(dto.PrecedenceApplied, tier.String())
	}
	return dto
}

func toPremiumLineDTO(line rates.PremiumLine) PremiumLineDTO {
	return PremiumLineDTO{
		Tier:   line.Tier.String(),
		Kind:   string(line.Kind),
		Amount: line.Amount.String(),
	}
}

// =============================================================================
// CANDIDATE RANKING
// =============================================================================

// FactorDTO itemizes one scoring factor.
type FactorDTO struct {
	Factor       string  `json:"factor"`
	Value        float64 `json:"value"`
	Weight       float64 `json:"weight"`
	Contribution float64 `json:"contribution"`
}

// CandidateFitDTO is one ranked candidate. ModeledRate is null (not zero)
// when no rate could be resolved for the candidate.
type CandidateFitDTO struct {
	PersonID    string             `json:"person_id"`
	Score       float64            `json:"score"`
	Factors     []FactorDTO        `json:"factors"`
	ModeledRate *RateResolutionDTO `json:"modeled_rate"`
}

// RankingResponse wraps the ordered candidates with the config version the
// scores were produced under.
type RankingResponse struct {
	ScoringVersion string            `json:"scoring_version"`
	Candidates     []CandidateFitDTO `json:"candidates"`
}

func toCandidateDTO(fit fitscore.CandidateFit) CandidateFitDTO {
	dto := CandidateFitDTO{
		PersonID:    string(fit.PersonID),
		Score:       fit.Score,
		Factors:     make([]FactorDTO, 0, len(fit.Factors)),
		ModeledRate: toResolutionDTO(fit.ModeledRate),
	}
	for _, f := range fit.Factors {
		dto.Factors = append(dto.Factors, FactorDTO{
			Factor:       f.Factor,
			Value:        f.Value,
			Weight:       f.Weight,
			Contribution: f.Contribution,
		})
	}
	return dto
}

// =============================================================================
// ASSIGNMENTS
// =============================================================================

// CreateAssignmentRequest is the request body for assignment creation.
type CreateAssignmentRequest struct {
	PersonID       string `json:"person_id"`
	RoleTemplateID string `json:"role_template_id"`
	EngagementID   string `json:"engagement_id"`
	StartDate      string `json:"start_date"`
	EndDate        string `json:"end_date,omitempty"`
	Notes          string `json:"notes,omitempty"`
	Proposed       bool   `json:"proposed,omitempty"`
	TargetCurrency string `json:"target_currency,omitempty"`
	AsOf           string `json:"as_of,omitempty"`
	ActorID        string `json:"actor_id,omitempty"`
}

// UpdateAssignmentRequest carries the mutable, non-pricing fields. Pricing
// context is not representable here.
type UpdateAssignmentRequest struct {
	StartDate *string `json:"start_date,omitempty"`
	EndDate   *string `json:"end_date,omitempty"`
	Notes     *string `json:"notes,omitempty"`
	Status    *string `json:"status,omitempty"`
	ActorID   string  `json:"actor_id,omitempty"`
}

// CancelAssignmentRequest identifies the actor for the audit trail.
type CancelAssignmentRequest struct {
	ActorID string `json:"actor_id,omitempty"`
}

// AssignmentDTO represents an assignment in API responses.
type AssignmentDTO struct {
	ID             string             `json:"id"`
	OrgID          string             `json:"org_id"`
	PersonID       string             `json:"person_id"`
	RoleTemplateID string             `json:"role_template_id"`
	EngagementID   string             `json:"engagement_id"`
	Status         string             `json:"status"`
	StartDate      string             `json:"start_date,omitempty"`
	EndDate        string             `json:"end_date,omitempty"`
	Notes          string             `json:"notes,omitempty"`
	RateSnapshot   *RateResolutionDTO `json:"rate_snapshot"`
	CreatedAt      string             `json:"created_at"`
	UpdatedAt      string             `json:"updated_at"`
}

func toAssignmentDTO(a *assignments.Assignment) AssignmentDTO {
	dto := AssignmentDTO{
		ID:             string(a.ID),
		OrgID:          string(a.OrgID),
		PersonID:       string(a.PersonID),
		RoleTemplateID: string(a.RoleTemplateID),
		EngagementID:   string(a.EngagementID),
		Status:         string(a.Status),
		Notes:          a.Notes,
		RateSnapshot:   toResolutionDTO(a.RateSnapshot),
		CreatedAt:      a.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:      a.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if !a.StartDate.IsZero() {
		dto.StartDate = a.StartDate.String()
	}
	if !a.EndDate.IsZero() {
		dto.EndDate = a.EndDate.String()
	}
	return dto
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
