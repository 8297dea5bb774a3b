package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/staffing-engine/api"
	"github.com/warp/staffing-engine/assignments"
	"github.com/warp/staffing-engine/fitscore"
	"github.com/warp/staffing-engine/rates"
	"github.com/warp/staffing-engine/staffing"
	"github.com/warp/staffing-engine/store/memory"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestServer(t *testing.T) (*httptest.Server, *memory.Store) {
	t.Helper()
	store := memory.New()
	table := rates.NewRateTable()
	table.Add(rates.ExchangeRate{
		From: "USD", To: "EUR",
		Rate:          staffing.MustParseDecimal("0.5"),
		DateEffective: staffing.NewDate(2025, time.January, 1),
	})

	resolver := rates.NewResolver(store, table, nil)
	fit := fitscore.NewCalculator(store, resolver, fitscore.DefaultScoringConfig(), nil)
	manager := assignments.NewManager(store, resolver, store, store, nil)

	handler := api.NewHandler(resolver, fit, manager, nil)
	server := httptest.NewServer(api.NewRouter(handler, nil))
	t.Cleanup(server.Close)
	return server, store
}

func seedOrg(store *memory.Store) {
	store.AddOverride(rates.RateOverride{
		ID:            "ov-org",
		OrgID:         "org-1",
		Tier:          rates.TierOrgDefault,
		ScopeKey:      "org-1",
		Currency:      "USD",
		BaseAmount:    staffing.MustParseDecimal("100"),
		Premiums: []rates.Premium{
			{Kind: rates.PremiumAbsolute, Amount: staffing.MustParseDecimal("10")},
			{Kind: rates.PremiumPercentage, Amount: staffing.MustParseDecimal("20")},
		},
		EffectiveFrom: staffing.NewDate(2025, time.January, 1),
		CreatedAt:     time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
	})
	store.AddPerson(staffing.Person{
		ID:            "p-1",
		OrgID:         "org-1",
		Name:          "Dana",
		Level:         staffing.LevelSenior,
		Skills:        []staffing.SkillID{7},
		Active:        true,
		MaxConcurrent: 3,
	})
	store.AddEngagement(staffing.Engagement{ID: "eng-1", OrgID: "org-1", ClientID: "client-1"})
	store.AddStaffingRequest(staffing.StaffingRequest{
		ID:             "req-1",
		OrgID:          "org-1",
		RequiredSkills: []staffing.SkillID{7},
		Level:          staffing.LevelSenior,
		StartDate:      staffing.NewDate(2025, time.June, 1),
		EndDate:        staffing.NewDate(2025, time.August, 31),
	})
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func postJSON(t *testing.T, url string, body, out any) int {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func patchJSON(t *testing.T, url string, body, out any) int {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPatch, url, bytes.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

// =============================================================================
// RATE RESOLUTION ENDPOINT
// =============================================================================

func TestAPI_ResolveRate_Itemized(t *testing.T) {
	// GIVEN: An org default of 100 USD with +10 absolute and +20% premiums
	// WHEN: GET /rate-resolution
	// THEN: 200 with the full itemization, final 132.00

	server, store := newTestServer(t)
	seedOrg(store)

	var body api.RateResolutionDTO
	status := getJSON(t, server.URL+"/api/orgs/org-1/rate-resolution?as_of=2025-06-01", &body)

	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "2025-06-01", body.AsOf)
	assert.Equal(t, "USD", body.BaseCurrency)
	assert.Equal(t, "100", body.BaseAmount)
	assert.Equal(t, "132.00", body.FinalAmount)
	require.Len(t, body.AbsolutePremiums, 1)
	assert.Equal(t, "org_default", body.AbsolutePremiums[0].Tier)
	require.Len(t, body.PercentagePremiums, 1)
	assert.Equal(t, []string{"org_default"}, body.PrecedenceApplied)
}

func TestAPI_ResolveRate_CurrencyConversion(t *testing.T) {
	server, store := newTestServer(t)
	seedOrg(store)

	var body api.RateResolutionDTO
	status := getJSON(t, server.URL+"/api/orgs/org-1/rate-resolution?as_of=2025-06-01&target_currency=EUR", &body)

	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "USD", body.BaseCurrency)
	assert.Equal(t, "EUR", body.FinalCurrency)
	assert.Equal(t, "66.00", body.FinalAmount)
}

func TestAPI_ResolveRate_ExactAmountKeepsMinorUnits(t *testing.T) {
	// GIVEN: A premium-free org default of 150 USD
	// WHEN: Resolving
	// THEN: final_amount serializes as "150.00", never bare "150"

	server, store := newTestServer(t)
	store.AddOverride(rates.RateOverride{
		ID:            "ov-flat",
		OrgID:         "org-flat",
		Tier:          rates.TierOrgDefault,
		ScopeKey:      "org-flat",
		Currency:      "USD",
		BaseAmount:    staffing.MustParseDecimal("150"),
		EffectiveFrom: staffing.NewDate(2025, time.January, 1),
	})

	var body api.RateResolutionDTO
	status := getJSON(t, server.URL+"/api/orgs/org-flat/rate-resolution?as_of=2025-06-01", &body)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "150.00", body.FinalAmount)
}

func TestAPI_ResolveRate_NoOrgDefault_422(t *testing.T) {
	server, _ := newTestServer(t)

	status := getJSON(t, server.URL+"/api/orgs/org-empty/rate-resolution?as_of=2025-06-01", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
}

func TestAPI_ResolveRate_UnknownCurrency_422(t *testing.T) {
	server, store := newTestServer(t)
	seedOrg(store)

	status := getJSON(t, server.URL+"/api/orgs/org-1/rate-resolution?as_of=2025-06-01&target_currency=CHF", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
}

func TestAPI_ResolveRate_BadInputs_400(t *testing.T) {
	server, store := newTestServer(t)
	seedOrg(store)

	assert.Equal(t, http.StatusBadRequest,
		getJSON(t, server.URL+"/api/orgs/org-1/rate-resolution?as_of=June-1st", nil))
	assert.Equal(t, http.StatusBadRequest,
		getJSON(t, server.URL+"/api/orgs/org-1/rate-resolution?as_of=2025-06-01&skills=go,rust", nil))
}

// =============================================================================
// CANDIDATE RANKING ENDPOINT
// =============================================================================

func TestAPI_RankCandidates(t *testing.T) {
	server, store := newTestServer(t)
	seedOrg(store)

	var body api.RankingResponse
	status := getJSON(t, server.URL+"/api/orgs/org-1/staffing-requests/req-1/candidates?as_of=2025-06-01", &body)

	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "v1", body.ScoringVersion)
	require.Len(t, body.Candidates, 1)
	assert.Equal(t, "p-1", body.Candidates[0].PersonID)
	assert.Nil(t, body.Candidates[0].ModeledRate, "no preview unless requested")
	require.Len(t, body.Candidates[0].Factors, 4)
}

func TestAPI_RankCandidates_WithPreview(t *testing.T) {
	server, store := newTestServer(t)
	seedOrg(store)

	var body api.RankingResponse
	status := getJSON(t, server.URL+"/api/orgs/org-1/staffing-requests/req-1/candidates?as_of=2025-06-01&include_rate_preview=true", &body)

	require.Equal(t, http.StatusOK, status)
	require.Len(t, body.Candidates, 1)
	require.NotNil(t, body.Candidates[0].ModeledRate)
	assert.Equal(t, "132.00", body.Candidates[0].ModeledRate.FinalAmount)
}

func TestAPI_RankCandidates_UnknownRequest_404(t *testing.T) {
	server, store := newTestServer(t)
	seedOrg(store)

	status := getJSON(t, server.URL+"/api/orgs/org-1/staffing-requests/req-ghost/candidates", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestAPI_RankCandidates_BadLimit_400(t *testing.T) {
	server, store := newTestServer(t)
	seedOrg(store)

	assert.Equal(t, http.StatusBadRequest,
		getJSON(t, server.URL+"/api/orgs/org-1/staffing-requests/req-1/candidates?limit=ten", nil))
	assert.Equal(t, http.StatusBadRequest,
		getJSON(t, server.URL+"/api/orgs/org-1/staffing-requests/req-1/candidates?limit=0", nil))
}

// =============================================================================
// ASSIGNMENT ENDPOINTS
// =============================================================================

func createTestAssignment(t *testing.T, server *httptest.Server) api.AssignmentDTO {
	t.Helper()
	var created api.AssignmentDTO
	status := postJSON(t, server.URL+"/api/orgs/org-1/assignments", api.CreateAssignmentRequest{
		PersonID:       "p-1",
		RoleTemplateID: "role-1",
		EngagementID:   "eng-1",
		StartDate:      "2025-06-01",
		AsOf:           "2025-06-01",
		ActorID:        "ops-1",
	}, &created)
	require.Equal(t, http.StatusCreated, status)
	return created
}

func TestAPI_CreateAssignment_SnapshotReturned(t *testing.T) {
	server, store := newTestServer(t)
	seedOrg(store)

	created := createTestAssignment(t, server)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "active", created.Status)
	require.NotNil(t, created.RateSnapshot)
	assert.Equal(t, "132.00", created.RateSnapshot.FinalAmount)
}

func TestAPI_CreateAssignment_MissingPerson_404(t *testing.T) {
	server, store := newTestServer(t)
	seedOrg(store)

	status := postJSON(t, server.URL+"/api/orgs/org-1/assignments", api.CreateAssignmentRequest{
		PersonID:       "p-ghost",
		RoleTemplateID: "role-1",
		EngagementID:   "eng-1",
		StartDate:      "2025-06-01",
	}, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestAPI_CreateAssignment_MissingFields_400(t *testing.T) {
	server, store := newTestServer(t)
	seedOrg(store)

	status := postJSON(t, server.URL+"/api/orgs/org-1/assignments", api.CreateAssignmentRequest{
		PersonID: "p-1",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestAPI_GetAssignment(t *testing.T) {
	server, store := newTestServer(t)
	seedOrg(store)
	created := createTestAssignment(t, server)

	var got api.AssignmentDTO
	status := getJSON(t, server.URL+"/api/orgs/org-1/assignments/"+created.ID, &got)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, created.ID, got.ID)
	require.NotNil(t, got.RateSnapshot)
	assert.Equal(t, "132.00", got.RateSnapshot.FinalAmount)
}

func TestAPI_GetAssignment_Unknown_404(t *testing.T) {
	server, store := newTestServer(t)
	seedOrg(store)

	status := getJSON(t, server.URL+"/api/orgs/org-1/assignments/a-ghost", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestAPI_UpdateAssignment_SnapshotUnchanged(t *testing.T) {
	// GIVEN: An assignment, then a rate card edit to 500
	// WHEN: PATCHing the notes
	// THEN: The response still carries the original 132.00 snapshot

	server, store := newTestServer(t)
	seedOrg(store)
	created := createTestAssignment(t, server)

	store.ReplaceOverride(rates.RateOverride{
		ID:            "ov-org",
		OrgID:         "org-1",
		Tier:          rates.TierOrgDefault,
		ScopeKey:      "org-1",
		Currency:      "USD",
		BaseAmount:    staffing.MustParseDecimal("500"),
		EffectiveFrom: staffing.NewDate(2025, time.January, 1),
		CreatedAt:     time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
	})

	notes := "scope extended"
	var updated api.AssignmentDTO
	status := patchJSON(t, server.URL+"/api/orgs/org-1/assignments/"+created.ID,
		api.UpdateAssignmentRequest{Notes: &notes}, &updated)

	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, notes, updated.Notes)
	require.NotNil(t, updated.RateSnapshot)
	assert.Equal(t, "132.00", updated.RateSnapshot.FinalAmount)
}

func TestAPI_UpdateAssignment_CancelViaStatus_400(t *testing.T) {
	server, store := newTestServer(t)
	seedOrg(store)
	created := createTestAssignment(t, server)

	cancelled := "cancelled"
	status := patchJSON(t, server.URL+"/api/orgs/org-1/assignments/"+created.ID,
		api.UpdateAssignmentRequest{Status: &cancelled}, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestAPI_CancelAssignment(t *testing.T) {
	server, store := newTestServer(t)
	seedOrg(store)
	created := createTestAssignment(t, server)

	var cancelled api.AssignmentDTO
	status := postJSON(t, server.URL+"/api/orgs/org-1/assignments/"+created.ID+"/cancel",
		api.CancelAssignmentRequest{ActorID: "ops-1"}, &cancelled)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "cancelled", cancelled.Status)

	// A second cancel is a lifecycle conflict.
	status = postJSON(t, server.URL+"/api/orgs/org-1/assignments/"+created.ID+"/cancel",
		api.CancelAssignmentRequest{ActorID: "ops-1"}, nil)
	assert.Equal(t, http.StatusConflict, status)
}

func TestAPI_Health(t *testing.T) {
	server, _ := newTestServer(t)

	var body map[string]string
	status := getJSON(t, server.URL+"/api/health", &body)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
}
