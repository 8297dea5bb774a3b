package fitscore_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/staffing-engine/fitscore"
	"github.com/warp/staffing-engine/rates"
	"github.com/warp/staffing-engine/staffing"
	"github.com/warp/staffing-engine/store/memory"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestCalculator(t *testing.T) (*fitscore.Calculator, *memory.Store) {
	t.Helper()
	store := memory.New()
	resolver := rates.NewResolver(store, rates.NewRateTable(), nil)
	calc := fitscore.NewCalculator(store, resolver, fitscore.DefaultScoringConfig(), nil)
	return calc, store
}

func person(id string, level staffing.Level, skills ...staffing.SkillID) staffing.Person {
	return staffing.Person{
		ID:            staffing.PersonID(id),
		OrgID:         "org-1",
		Name:          id,
		Level:         level,
		Skills:        skills,
		Active:        true,
		MaxConcurrent: 3,
	}
}

func request(id string, level staffing.Level, skills ...staffing.SkillID) staffing.StaffingRequest {
	return staffing.StaffingRequest{
		ID:             staffing.StaffingRequestID(id),
		OrgID:          "org-1",
		RequiredSkills: skills,
		Level:          level,
		StartDate:      staffing.NewDate(2025, time.June, 1),
		EndDate:        staffing.NewDate(2025, time.August, 31),
	}
}

func rank(t *testing.T, calc *fitscore.Calculator, req fitscore.RankRequest) []fitscore.CandidateFit {
	t.Helper()
	fits, err := calc.CalculateForRequest(context.Background(), req)
	require.NoError(t, err)
	return fits
}

func baseRankRequest(requestID string) fitscore.RankRequest {
	return fitscore.RankRequest{
		OrgID:             "org-1",
		StaffingRequestID: staffing.StaffingRequestID(requestID),
		Limit:             10,
		AsOf:              staffing.NewDate(2025, time.June, 1),
	}
}

// =============================================================================
// RANKING TESTS
// =============================================================================

func TestCalculate_SkillMatchOutranksPartialMatch(t *testing.T) {
	// GIVEN: A request needing skills 1 and 2; one person has both, one has one
	// WHEN: Ranking
	// THEN: The full match ranks first with the higher skill factor

	calc, store := newTestCalculator(t)
	store.AddStaffingRequest(request("req-1", staffing.LevelSenior, 1, 2))
	store.AddPerson(person("p-both", staffing.LevelSenior, 1, 2))
	store.AddPerson(person("p-one", staffing.LevelSenior, 1))

	fits := rank(t, calc, baseRankRequest("req-1"))

	require.Len(t, fits, 2)
	assert.Equal(t, staffing.PersonID("p-both"), fits[0].PersonID)
	assert.Equal(t, staffing.PersonID("p-one"), fits[1].PersonID)
	assert.Greater(t, fits[0].Score, fits[1].Score)
}

func TestCalculate_DeterministicTieBreakByPersonID(t *testing.T) {
	// GIVEN: Two identically-profiled people
	// WHEN: Ranking twice
	// THEN: Ties break by ascending person ID, and both calls agree

	calc, store := newTestCalculator(t)
	store.AddStaffingRequest(request("req-1", staffing.LevelSenior, 1))
	store.AddPerson(person("p-zulu", staffing.LevelSenior, 1))
	store.AddPerson(person("p-alpha", staffing.LevelSenior, 1))

	first := rank(t, calc, baseRankRequest("req-1"))
	second := rank(t, calc, baseRankRequest("req-1"))

	require.Len(t, first, 2)
	assert.Equal(t, staffing.PersonID("p-alpha"), first[0].PersonID)
	assert.Equal(t, staffing.PersonID("p-zulu"), first[1].PersonID)
	for i := range first {
		assert.Equal(t, first[i].PersonID, second[i].PersonID)
		assert.Equal(t, first[i].Score, second[i].Score)
	}
}

func TestCalculate_CapacityIsHardGate(t *testing.T) {
	// GIVEN: A perfectly matching person who is already at max concurrency
	// WHEN: Ranking
	// THEN: They do not appear at all, however good the would-be score

	calc, store := newTestCalculator(t)
	store.AddStaffingRequest(request("req-1", staffing.LevelSenior, 1))

	full := person("p-full", staffing.LevelSenior, 1)
	full.CurrentAssignments = full.MaxConcurrent
	store.AddPerson(full)
	store.AddPerson(person("p-free", staffing.LevelJunior))

	fits := rank(t, calc, baseRankRequest("req-1"))

	require.Len(t, fits, 1)
	assert.Equal(t, staffing.PersonID("p-free"), fits[0].PersonID)
}

func TestCalculate_LevelDistanceScoring(t *testing.T) {
	// GIVEN: A senior-level request and people at senior, staff, and junior
	// WHEN: Ranking
	// THEN: Exact match > one band away > two or more bands away

	calc, store := newTestCalculator(t)
	store.AddStaffingRequest(request("req-1", staffing.LevelSenior, 1))
	store.AddPerson(person("p-senior", staffing.LevelSenior, 1))
	store.AddPerson(person("p-staff", staffing.LevelStaff, 1))
	store.AddPerson(person("p-junior", staffing.LevelJunior, 1))

	fits := rank(t, calc, baseRankRequest("req-1"))

	require.Len(t, fits, 3)
	assert.Equal(t, staffing.PersonID("p-senior"), fits[0].PersonID)
	assert.Equal(t, staffing.PersonID("p-staff"), fits[1].PersonID)
	assert.Equal(t, staffing.PersonID("p-junior"), fits[2].PersonID)
}

func TestCalculate_AvailabilityOverlapScoring(t *testing.T) {
	// GIVEN: A June-August request; one person available all summer, one only June
	// WHEN: Ranking
	// THEN: The fully available person ranks first

	calc, store := newTestCalculator(t)
	store.AddStaffingRequest(request("req-1", staffing.LevelSenior, 1))

	allSummer := person("p-summer", staffing.LevelSenior, 1)
	allSummer.AvailableFrom = staffing.NewDate(2025, time.May, 1)
	allSummer.AvailableTo = staffing.NewDate(2025, time.December, 31)
	store.AddPerson(allSummer)

	juneOnly := person("p-june", staffing.LevelSenior, 1)
	juneOnly.AvailableFrom = staffing.NewDate(2025, time.June, 1)
	juneOnly.AvailableTo = staffing.NewDate(2025, time.June, 30)
	store.AddPerson(juneOnly)

	fits := rank(t, calc, baseRankRequest("req-1"))

	require.Len(t, fits, 2)
	assert.Equal(t, staffing.PersonID("p-summer"), fits[0].PersonID)
}

func TestCalculate_FactorsItemized(t *testing.T) {
	// Contributions are itemized per factor and sum to the score.

	calc, store := newTestCalculator(t)
	store.AddStaffingRequest(request("req-1", staffing.LevelSenior, 1, 2))
	store.AddPerson(person("p-1", staffing.LevelStaff, 1))

	fits := rank(t, calc, baseRankRequest("req-1"))
	require.Len(t, fits, 1)

	require.Len(t, fits[0].Factors, 4)
	sum := 0.0
	for _, f := range fits[0].Factors {
		sum += f.Contribution
	}
	assert.InDelta(t, fits[0].Score, sum, 1e-9)
}

// =============================================================================
// LIMIT AND ERROR TESTS
// =============================================================================

func TestCalculate_LimitTruncates(t *testing.T) {
	calc, store := newTestCalculator(t)
	store.AddStaffingRequest(request("req-1", staffing.LevelSenior, 1))
	store.AddPerson(person("p-a", staffing.LevelSenior, 1))
	store.AddPerson(person("p-b", staffing.LevelSenior, 1))
	store.AddPerson(person("p-c", staffing.LevelSenior, 1))

	req := baseRankRequest("req-1")
	req.Limit = 2
	fits := rank(t, calc, req)
	assert.Len(t, fits, 2)
}

func TestCalculate_LimitLargerThanPool(t *testing.T) {
	// A limit beyond the eligible pool returns everyone, not an error.

	calc, store := newTestCalculator(t)
	store.AddStaffingRequest(request("req-1", staffing.LevelSenior, 1))
	store.AddPerson(person("p-a", staffing.LevelSenior, 1))

	req := baseRankRequest("req-1")
	req.Limit = 50
	fits := rank(t, calc, req)
	assert.Len(t, fits, 1)
}

func TestCalculate_NonPositiveLimit_ValidationError(t *testing.T) {
	calc, store := newTestCalculator(t)
	store.AddStaffingRequest(request("req-1", staffing.LevelSenior, 1))

	req := baseRankRequest("req-1")
	req.Limit = 0
	_, err := calc.CalculateForRequest(context.Background(), req)
	require.Error(t, err)
	assert.True(t, staffing.IsClientError(err))
}

func TestCalculate_UnknownRequest_NotFound(t *testing.T) {
	calc, _ := newTestCalculator(t)

	_, err := calc.CalculateForRequest(context.Background(), baseRankRequest("req-missing"))
	require.Error(t, err)
	assert.True(t, staffing.IsNotFound(err))
}

// =============================================================================
// RATE PREVIEW TESTS
// =============================================================================

func TestCalculate_RatePreviewAttached(t *testing.T) {
	// GIVEN: An org default rate card and a preview request
	// WHEN: Ranking with IncludeRatePreview
	// THEN: Every candidate carries a modeled rate

	calc, store := newTestCalculator(t)
	store.AddStaffingRequest(request("req-1", staffing.LevelSenior, 1))
	store.AddPerson(person("p-a", staffing.LevelSenior, 1))
	store.AddOverride(rates.RateOverride{
		ID:            "ov-org",
		OrgID:         "org-1",
		Tier:          rates.TierOrgDefault,
		ScopeKey:      "org-1",
		Currency:      "USD",
		BaseAmount:    staffing.MustParseDecimal("100"),
		EffectiveFrom: staffing.NewDate(2025, time.January, 1),
	})

	req := baseRankRequest("req-1")
	req.IncludeRatePreview = true
	fits := rank(t, calc, req)

	require.Len(t, fits, 1)
	require.NotNil(t, fits[0].ModeledRate)
	assert.True(t, fits[0].ModeledRate.FinalAmount.Equal(staffing.MustParseDecimal("100.00")))
}

func TestCalculate_PreviewFailureIsolated(t *testing.T) {
	// GIVEN: An org with no default rate card (every preview fails)
	// WHEN: Ranking with IncludeRatePreview
	// THEN: The ranking itself succeeds and ModeledRate is nil throughout

	calc, store := newTestCalculator(t)
	store.AddStaffingRequest(request("req-1", staffing.LevelSenior, 1))
	store.AddPerson(person("p-a", staffing.LevelSenior, 1))
	store.AddPerson(person("p-b", staffing.LevelSenior, 1))

	req := baseRankRequest("req-1")
	req.IncludeRatePreview = true
	fits := rank(t, calc, req)

	require.Len(t, fits, 2)
	for _, fit := range fits {
		assert.Nil(t, fit.ModeledRate)
		assert.Greater(t, fit.Score, 0.0, "ranking must survive preview failures")
	}
}

func TestCalculate_PreviewWithZeroParallelismStillCompletes(t *testing.T) {
	// GIVEN: A calculator built directly, bypassing config validation
	// WHEN: Ranking with previews and PreviewParallelism left at zero
	// THEN: The call completes and previews are attached

	store := memory.New()
	store.AddStaffingRequest(request("req-1", staffing.LevelSenior, 1))
	store.AddPerson(person("p-a", staffing.LevelSenior, 1))
	store.AddOverride(rates.RateOverride{
		ID:            "ov-org",
		OrgID:         "org-1",
		Tier:          rates.TierOrgDefault,
		ScopeKey:      "org-1",
		Currency:      "USD",
		BaseAmount:    staffing.MustParseDecimal("100"),
		EffectiveFrom: staffing.NewDate(2025, time.January, 1),
	})

	config := fitscore.DefaultScoringConfig()
	config.PreviewParallelism = 0
	calc := &fitscore.Calculator{
		Directory: store,
		Config:    config,
		Resolver:  rates.NewResolver(store, rates.NewRateTable(), nil),
	}

	req := baseRankRequest("req-1")
	req.IncludeRatePreview = true
	fits, err := calc.CalculateForRequest(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, fits, 1)
	assert.NotNil(t, fits[0].ModeledRate)
}

func TestCalculate_NoPreviewWithoutFlag(t *testing.T) {
	calc, store := newTestCalculator(t)
	store.AddStaffingRequest(request("req-1", staffing.LevelSenior, 1))
	store.AddPerson(person("p-a", staffing.LevelSenior, 1))
	store.AddOverride(rates.RateOverride{
		ID:            "ov-org",
		OrgID:         "org-1",
		Tier:          rates.TierOrgDefault,
		ScopeKey:      "org-1",
		Currency:      "USD",
		BaseAmount:    staffing.MustParseDecimal("100"),
		EffectiveFrom: staffing.NewDate(2025, time.January, 1),
	})

	fits := rank(t, calc, baseRankRequest("req-1"))
	require.Len(t, fits, 1)
	assert.Nil(t, fits[0].ModeledRate)
}
