/*
handlers.go - HTTP API handlers for the staffing engine

PURPOSE:
  Exposes the rate-resolution and candidate-ranking engine via REST.
  Handles HTTP request/response, JSON serialization, and delegates to
  domain logic.

ENDPOINTS:
  Rates:
    GET  /api/orgs/{orgID}/rate-resolution          Resolve an effective rate

  Ranking:
    GET  /api/orgs/{orgID}/staffing-requests/{id}/candidates
                                                    Rank candidates

  Assignments:
    POST  /api/orgs/{orgID}/assignments             Create (freezes snapshot)
    GET   /api/orgs/{orgID}/assignments/{id}        Read
    PATCH /api/orgs/{orgID}/assignments/{id}        Update non-pricing fields
    POST  /api/orgs/{orgID}/assignments/{id}/cancel Cancel

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: validation errors, invalid input
  - 404: referenced record not found
  - 409: lifecycle conflict
  - 422: resolution failure (rate card misconfiguration)
  - 500: internal errors

SEE ALSO:
  - dto.go: request/response data structures
  - server.go: router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/warp/staffing-engine/assignments"
	"github.com/warp/staffing-engine/fitscore"
	"github.com/warp/staffing-engine/rates"
	"github.com/warp/staffing-engine/staffing"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Resolver    *rates.Resolver
	Fit         *fitscore.Calculator
	Assignments *assignments.Manager
	Logger      *zap.Logger
}

// NewHandler creates a new handler with the given engine components.
func NewHandler(resolver *rates.Resolver, fit *fitscore.Calculator, manager *assignments.Manager, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{Resolver: resolver, Fit: fit, Assignments: manager, Logger: logger}
}

// =============================================================================
// RATE RESOLUTION
// =============================================================================

// ResolveRate resolves an effective rate for a targeting context.
// GET /api/orgs/{orgID}/rate-resolution
func (h *Handler) ResolveRate(w http.ResponseWriter, r *http.Request) {
	tc, err := parseTargetingContext(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	resolution, err := h.Resolver.Resolve(r.Context(), tc)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toResolutionDTO(resolution))
}

// parseTargetingContext builds a TargetingContext from the URL.
// as_of defaults to today; skills is a comma-separated list of integer IDs.
func parseTargetingContext(r *http.Request) (rates.TargetingContext, error) {
	q := r.URL.Query()
	tc := rates.TargetingContext{
		OrgID:          staffing.OrgID(chi.URLParam(r, "orgID")),
		TargetCurrency: q.Get("target_currency"),
		AsOf:           staffing.Today(),
	}

	if raw := q.Get("as_of"); raw != "" {
		asOf, err := staffing.ParseDate(raw)
		if err != nil {
			return tc, &staffing.ValidationError{Field: "as_of", Message: "must be an ISO date (2006-01-02)"}
		}
		tc.AsOf = asOf
	}
	if raw := q.Get("role_template_id"); raw != "" {
		id := staffing.RoleTemplateID(raw)
		tc.RoleTemplateID = &id
	}
	if raw := q.Get("level"); raw != "" {
		level := staffing.Level(raw)
		tc.Level = &level
	}
	if raw := q.Get("client_id"); raw != "" {
		id := staffing.ClientID(raw)
		tc.ClientID = &id
	}
	if raw := q.Get("engagement_id"); raw != "" {
		id := staffing.EngagementID(raw)
		tc.EngagementID = &id
	}
	if raw := q.Get("person_id"); raw != "" {
		id := staffing.PersonID(raw)
		tc.PersonID = &id
	}
	if raw := q.Get("skills"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil {
				return tc, &staffing.ValidationError{Field: "skills", Message: "must be comma-separated integer IDs"}
			}
			tc.Skills = append(tc.Skills, staffing.SkillID(id))
		}
	}
	return tc, nil
}

// =============================================================================
// CANDIDATE RANKING
// =============================================================================

// RankCandidates scores and ranks people for a staffing request.
// GET /api/orgs/{orgID}/staffing-requests/{requestID}/candidates
func (h *Handler) RankCandidates(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit := 10
	if raw := q.Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeDomainError(w, &staffing.ValidationError{Field: "limit", Message: "must be an integer"})
			return
		}
		limit = parsed
	}

	req := fitscore.RankRequest{
		OrgID:              staffing.OrgID(chi.URLParam(r, "orgID")),
		StaffingRequestID:  staffing.StaffingRequestID(chi.URLParam(r, "requestID")),
		Limit:              limit,
		IncludeRatePreview: q.Get("include_rate_preview") == "true",
		AsOf:               staffing.Today(),
	}
	if raw := q.Get("as_of"); raw != "" {
		asOf, err := staffing.ParseDate(raw)
		if err != nil {
			writeDomainError(w, &staffing.ValidationError{Field: "as_of", Message: "must be an ISO date (2006-01-02)"})
			return
		}
		req.AsOf = asOf
	}

	fits, err := h.Fit.CalculateForRequest(r.Context(), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	response := RankingResponse{
		ScoringVersion: h.Fit.Config.Version,
		Candidates:     make([]CandidateFitDTO, 0, len(fits)),
	}
	for _, fit := range fits {
		response.Candidates = append(response.Candidates, toCandidateDTO(fit))
	}
	writeJSON(w, http.StatusOK, response)
}

// =============================================================================
// ASSIGNMENTS
// =============================================================================

// CreateAssignment creates an assignment with its frozen rate snapshot.
// POST /api/orgs/{orgID}/assignments
func (h *Handler) CreateAssignment(w http.ResponseWriter, r *http.Request) {
	var body CreateAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	params := assignments.CreateParams{
		OrgID:          staffing.OrgID(chi.URLParam(r, "orgID")),
		PersonID:       staffing.PersonID(body.PersonID),
		RoleTemplateID: staffing.RoleTemplateID(body.RoleTemplateID),
		EngagementID:   staffing.EngagementID(body.EngagementID),
		Notes:          body.Notes,
		Proposed:       body.Proposed,
		TargetCurrency: body.TargetCurrency,
		ActorID:        body.ActorID,
	}
	var err error
	if params.StartDate, err = parseOptionalDate(body.StartDate, "start_date"); err != nil {
		writeDomainError(w, err)
		return
	}
	if params.EndDate, err = parseOptionalDate(body.EndDate, "end_date"); err != nil {
		writeDomainError(w, err)
		return
	}
	if params.AsOf, err = parseOptionalDate(body.AsOf, "as_of"); err != nil {
		writeDomainError(w, err)
		return
	}

	assignment, err := h.Assignments.Create(r.Context(), params)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toAssignmentDTO(assignment))
}

// GetAssignment reads an assignment, snapshot included.
// GET /api/orgs/{orgID}/assignments/{id}
func (h *Handler) GetAssignment(w http.ResponseWriter, r *http.Request) {
	assignment, err := h.Assignments.Store.Get(r.Context(),
		staffing.OrgID(chi.URLParam(r, "orgID")),
		staffing.AssignmentID(chi.URLParam(r, "id")))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAssignmentDTO(assignment))
}

// UpdateAssignment mutates non-pricing fields.
// PATCH /api/orgs/{orgID}/assignments/{id}
func (h *Handler) UpdateAssignment(w http.ResponseWriter, r *http.Request) {
	var body UpdateAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	params := assignments.UpdateParams{Notes: body.Notes, ActorID: body.ActorID}
	if body.Status != nil {
		status := assignments.Status(*body.Status)
		params.Status = &status
	}
	if body.StartDate != nil {
		date, err := parseOptionalDate(*body.StartDate, "start_date")
		if err != nil {
			writeDomainError(w, err)
			return
		}
		params.StartDate = &date
	}
	if body.EndDate != nil {
		date, err := parseOptionalDate(*body.EndDate, "end_date")
		if err != nil {
			writeDomainError(w, err)
			return
		}
		params.EndDate = &date
	}

	assignment, err := h.Assignments.Update(r.Context(),
		staffing.OrgID(chi.URLParam(r, "orgID")),
		staffing.AssignmentID(chi.URLParam(r, "id")),
		params)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAssignmentDTO(assignment))
}

// CancelAssignment transitions the assignment to cancelled.
// POST /api/orgs/{orgID}/assignments/{id}/cancel
func (h *Handler) CancelAssignment(w http.ResponseWriter, r *http.Request) {
	var body CancelAssignmentRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body", err)
			return
		}
	}

	assignment, err := h.Assignments.Cancel(r.Context(),
		staffing.OrgID(chi.URLParam(r, "orgID")),
		staffing.AssignmentID(chi.URLParam(r, "id")),
		body.ActorID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAssignmentDTO(assignment))
}

// Health is a liveness endpoint.
// GET /api/health
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// HELPERS
// =============================================================================

func parseOptionalDate(raw, field string) (staffing.Date, error) {
	if raw == "" {
		return staffing.Date{}, nil
	}
	date, err := staffing.ParseDate(raw)
	if err != nil {
		return staffing.Date{}, &staffing.ValidationError{Field: field, Message: "must be an ISO date (2006-01-02)"}
	}
	return date, nil
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps the error taxonomy onto HTTP status codes.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case staffing.IsClientError(err):
		writeError(w, http.StatusBadRequest, "Invalid input", err)
	case staffing.IsNotFound(err):
		writeError(w, http.StatusNotFound, "Not found", err)
	case staffing.IsConflict(err):
		writeError(w, http.StatusConflict, "Conflict", err)
	case errors.Is(err, staffing.ErrResolution):
		writeError(w, http.StatusUnprocessableEntity, "Rate resolution failed", err)
	default:
		writeError(w, http.StatusInternalServerError, "Internal error", err)
	}
}
