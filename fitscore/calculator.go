/*
calculator.go - Candidate scoring and ranking

ALGORITHM:
  1. Load the staffing request (org-scoped; missing -> NotFound).
  2. Enumerate active people, drop anyone without capacity (hard gate, no
     score is ever computed for them).
  3. Score each candidate: weighted sum of skill overlap, availability
     overlap, level match, and workload headroom, normalized to [0, 1].
  4. Order by score descending, person ID ascending on ties. Two calls
     against unchanged data return the identical sequence.
  5. Truncate to limit. A limit larger than the candidate pool returns the
     whole pool, not an error.
  6. Optionally attach a rate preview per candidate via the resolver, with
     a bounded parallel fan-out. Preview failures are isolated: the
     candidate's ModeledRate stays nil and the ranking still succeeds.

SEE ALSO:
  - config.go: factor weights
  - rates/resolver.go: the delegated rate preview
*/
package fitscore

import (
	"context"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/warp/staffing-engine/rates"
	"github.com/warp/staffing-engine/staffing"
)

// =============================================================================
// RESULT TYPES
// =============================================================================

// FactorContribution itemizes one factor's part of a score, for explainability.
type FactorContribution struct {
	Factor       string  `json:"factor"`
	Value        float64 `json:"value"`        // raw factor in [0, 1]
	Weight       float64 `json:"weight"`       // configured weight
	Contribution float64 `json:"contribution"` // value * weight / weight total
}

// CandidateFit is one ranked candidate. Produced fresh per call, never
// persisted. ModeledRate is nil when no preview was requested or the
// preview failed for this candidate; nil is distinguishable from a
// resolution with a zero amount.
type CandidateFit struct {
	PersonID    staffing.PersonID
	Score       float64
	Factors     []FactorContribution
	ModeledRate *rates.RateResolution
}

// RankRequest are the inputs to a ranking call.
type RankRequest struct {
	OrgID             staffing.OrgID
	StaffingRequestID staffing.StaffingRequestID
	Limit             int
	IncludeRatePreview bool

	// AsOf anchors the optional rate previews. The HTTP boundary defaults
	// it to today.
	AsOf staffing.Date
}

// =============================================================================
// CALCULATOR
// =============================================================================

// Calculator ranks candidates for staffing requests.
type Calculator struct {
	Directory staffing.DirectoryStore
	Config    ScoringConfig

	// Resolver is only needed when previews are requested.
	Resolver *rates.Resolver

	// Logger is optional (preview failures are logged, not returned).
	Logger *zap.Logger
}

func NewCalculator(directory staffing.DirectoryStore, resolver *rates.Resolver, config ScoringConfig, logger *zap.Logger) *Calculator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Calculator{Directory: directory, Resolver: resolver, Config: config, Logger: logger}
}

// CalculateForRequest scores and ranks eligible people for a staffing request.
func (c *Calculator) CalculateForRequest(ctx context.Context, req RankRequest) ([]CandidateFit, error) {
	if req.Limit <= 0 {
		return nil, &staffing.ValidationError{Field: "limit", Message: "must be positive"}
	}

	request, err := c.Directory.GetStaffingRequest(ctx, req.OrgID, req.StaffingRequestID)
	if err != nil {
		return nil, err
	}

	people, err := c.Directory.ListActivePeople(ctx, req.OrgID)
	if err != nil {
		return nil, err
	}

	fits := make([]CandidateFit, 0, len(people))
	for _, p := range people {
		// Hard eligibility gate: no score for anyone at capacity.
		if !p.HasCapacity() {
			continue
		}
		fits = append(fits, c.score(p, request))
	}

	sort.SliceStable(fits, func(i, j int) bool {
		if fits[i].Score != fits[j].Score {
			return fits[i].Score > fits[j].Score
		}
		return fits[i].PersonID < fits[j].PersonID
	})

	if len(fits) > req.Limit {
		fits = fits[:req.Limit]
	}

	if req.IncludeRatePreview {
		c.attachPreviews(ctx, req, request, fits)
	}
	return fits, nil
}

// =============================================================================
// SCORING
// =============================================================================

func (c *Calculator) score(p staffing.Person, req *staffing.StaffingRequest) CandidateFit {
	total := c.Config.weightTotal()
	w := c.Config.Weights

	factors := []FactorContribution{
		contribution("skill_overlap", skillOverlap(p, req.RequiredSkills), w.SkillOverlap, total),
		contribution("availability", availabilityOverlap(p, req), w.Availability, total),
		contribution("level_match", levelMatch(p.Level, req.Level), w.LevelMatch, total),
		contribution("workload_headroom", workloadHeadroom(p), w.WorkloadHeadroom, total),
	}

	score := 0.0
	for _, f := range factors {
		score += f.Contribution
	}
	return CandidateFit{PersonID: p.ID, Score: score, Factors: factors}
}

func contribution(name string, value, weight, total float64) FactorContribution {
	return FactorContribution{
		Factor:       name,
		Value:        value,
		Weight:       weight,
		Contribution: value * weight / total,
	}
}

// skillOverlap is the share of required skills the person has. A request
// with no required skills does not discriminate on skills.
func skillOverlap(p staffing.Person, required []staffing.SkillID) float64 {
	if len(required) == 0 {
		return 1.0
	}
	matched := 0
	for _, s := range required {
		if p.HasSkill(s) {
			matched++
		}
	}
	return float64(matched) / float64(len(required))
}

// availabilityOverlap is the share of the request window covered by the
// person's availability window.
func availabilityOverlap(p staffing.Person, req *staffing.StaffingRequest) float64 {
	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		return 1.0
	}
	window := staffing.DaysBetween(req.StartDate, req.EndDate) + 1
	if window <= 0 {
		return 1.0
	}
	if p.AvailableFrom.IsZero() && p.AvailableTo.IsZero() {
		return 1.0
	}
	overlap := staffing.OverlapDays(req.StartDate, req.EndDate, p.AvailableFrom, p.AvailableTo)
	return float64(overlap) / float64(window)
}

// levelMatch: exact level 1.0, one band away 0.5, anything else 0.
func levelMatch(person, requested staffing.Level) float64 {
	if requested == "" || !requested.Known() {
		return 1.0
	}
	if !person.Known() {
		return 0.0
	}
	distance := person.Rank() - requested.Rank()
	if distance < 0 {
		distance = -distance
	}
	switch distance {
	case 0:
		return 1.0
	case 1:
		return 0.5
	default:
		return 0.0
	}
}

// workloadHeadroom is the unutilized share of the concurrency cap.
func workloadHeadroom(p staffing.Person) float64 {
	if p.MaxConcurrent <= 0 {
		return 0.0
	}
	headroom := float64(p.MaxConcurrent-p.CurrentAssignments) / float64(p.MaxConcurrent)
	if headroom < 0 {
		return 0.0
	}
	return headroom
}

// =============================================================================
// RATE PREVIEW FAN-OUT
// =============================================================================

// attachPreviews resolves a modeled rate per candidate with bounded
// parallelism. Resolutions are independent pure reads, so they fan out;
// failures are isolated per candidate by design.
func (c *Calculator) attachPreviews(ctx context.Context, req RankRequest, request *staffing.StaffingRequest, fits []CandidateFit) {
	if c.Resolver == nil {
		return
	}

	// A non-positive limit would block every g.Go forever; a Calculator
	// built without Validate still has to make progress.
	parallelism := c.Config.PreviewParallelism
	if parallelism < 1 {
		parallelism = 1
	}
	logger := c.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)

	for i := range fits {
		i := i
		g.Go(func() error {
			fit := &fits[i]
			personID := fit.PersonID
			tc := rates.TargetingContext{
				OrgID:          req.OrgID,
				Skills:         request.RequiredSkills,
				PersonID:       &personID,
				TargetCurrency: request.TargetCurrency,
				AsOf:           req.AsOf,
			}
			// Absent request fields mean the tier is skipped, not queried
			// with an empty key.
			if request.RoleTemplateID != "" {
				tc.RoleTemplateID = &request.RoleTemplateID
			}
			if request.Level.Known() {
				tc.Level = &request.Level
			}
			if request.ClientID != "" {
				tc.ClientID = &request.ClientID
			}
			if request.EngagementID != "" {
				tc.EngagementID = &request.EngagementID
			}
			resolution, err := c.Resolver.Resolve(gctx, tc)
			if err != nil {
				// Partial success is the designed behavior: the candidate
				// simply has no modeled rate.
				logger.Debug("rate preview unavailable",
					zap.String("person_id", string(personID)),
					zap.Error(err))
				return nil
			}
			fit.ModeledRate = resolution
			return nil
		})
	}
	_ = g.Wait() // goroutines never return errors
}
