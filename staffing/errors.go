/*
errors.go - Centralized error taxonomy for the staffing engine

PURPOSE:
  All error categories in one place so every layer classifies failures the
  same way. The HTTP boundary maps these onto status codes; the core never
  retries any of them.

ERROR CATEGORIES:
  1. Validation - malformed or missing input, a client mistake
  2. NotFound   - a referenced org/person/request/assignment does not exist
  3. Resolution - a rate could not be produced (missing org default rate card,
                  or no usable exchange rate for the requested currency)
  4. Conflict   - a mutation that violates lifecycle state

USAGE:
  Wrap with context, classify with errors.Is:

    if errors.Is(err, staffing.ErrResolution) {
        // rate card misconfiguration, surface as actionable operator error
    }

SEE ALSO:
  - rates/resolver.go: produces ResolutionError
  - assignments/manager.go: produces ConflictError
  - api/handlers.go: maps categories to HTTP status codes
*/
package staffing

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrValidation marks malformed or missing required input.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks a missing referenced record.
	ErrNotFound = errors.New("not found")

	// ErrResolution marks a rate that could not be resolved. Distinct from
	// ErrNotFound: the inputs exist, the rate card data is misconfigured.
	ErrResolution = errors.New("rate resolution failed")

	// ErrConflict marks a mutation that violates lifecycle state.
	ErrConflict = errors.New("conflict")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ValidationError reports which input field was rejected and why.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation: %s", e.Message)
	}
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NotFoundError reports which kind of record was missing.
type NotFoundError struct {
	Kind string // "person", "staffing_request", "assignment", "engagement"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// ResolutionFailure identifies why a resolution failed. Operators use this to
// tell a missing base rate card from missing exchange-rate data.
type ResolutionFailure string

const (
	ResolutionNoOrgDefault        ResolutionFailure = "no_org_default"
	ResolutionCurrencyUnavailable ResolutionFailure = "currency_unavailable"
)

// ResolutionError reports a rate resolution failure with its cause.
type ResolutionError struct {
	Code   ResolutionFailure
	OrgID  OrgID
	Detail string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolution failed for org %s (%s): %s", e.OrgID, e.Code, e.Detail)
}

func (e *ResolutionError) Unwrap() error { return ErrResolution }

// ConflictError reports an invalid lifecycle transition.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return fmt.Sprintf("conflict: %s", e.Message) }

func (e *ConflictError) Unwrap() error { return ErrConflict }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsResolution returns true for rate resolution failures.
func IsResolution(err error) bool {
	return errors.Is(err, ErrResolution)
}

// IsConflict returns true for lifecycle state violations.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}
