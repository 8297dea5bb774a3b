/*
directory.go - People, staffing requests, and engagements

PURPOSE:
  Read-side records the engine consumes. The directory is owned by the wider
  staffing backend; this core only reads it through DirectoryStore.

KEY CONCEPTS:
  Person:
    A staffable individual with a skill set, seniority level, availability
    window, and a concurrency cap. Capacity is a hard eligibility gate:
    someone already at MaxConcurrent assignments is never scored.

  StaffingRequest:
    An open demand for a person: required skills, target level, engagement,
    and the date window the work covers.

  Engagement:
    A client engagement; the pricing scope between client and person tiers.

SEE ALSO:
  - fitscore/calculator.go: consumes these for ranking
  - assignments/manager.go: validates creation context against the directory
*/
package staffing

import "context"

// =============================================================================
// PERSON
// =============================================================================

type Person struct {
	ID     PersonID
	OrgID  OrgID
	Name   string
	Level  Level
	Skills []SkillID
	Active bool

	// Availability window. Zero AvailableTo means open-ended.
	AvailableFrom Date
	AvailableTo   Date

	// Capacity: MaxConcurrent is the assignment cap, CurrentAssignments the
	// number of active assignments counted by the directory owner.
	MaxConcurrent      int
	CurrentAssignments int
}

// HasCapacity reports whether the person can take one more assignment.
func (p Person) HasCapacity() bool {
	return p.MaxConcurrent > 0 && p.CurrentAssignments < p.MaxConcurrent
}

// HasSkill reports whether the person's skill set contains the given skill.
func (p Person) HasSkill(id SkillID) bool {
	for _, s := range p.Skills {
		if s == id {
			return true
		}
	}
	return false
}

// =============================================================================
// STAFFING REQUEST
// =============================================================================

type StaffingRequest struct {
	ID             StaffingRequestID
	OrgID          OrgID
	RoleTemplateID RoleTemplateID
	EngagementID   EngagementID
	ClientID       ClientID
	RequiredSkills []SkillID
	Level          Level
	StartDate      Date
	EndDate        Date
	TargetCurrency string
}

// =============================================================================
// ENGAGEMENT
// =============================================================================

type Engagement struct {
	ID       EngagementID
	OrgID    OrgID
	ClientID ClientID
	Name     string
}

// =============================================================================
// DIRECTORY STORE - read-only collaborator
// =============================================================================

// DirectoryStore is the read-side interface the engine requires from the
// surrounding backend. Implementations: store/memory, store/sqlite.
type DirectoryStore interface {
	// GetPerson returns the person or a NotFoundError.
	GetPerson(ctx context.Context, orgID OrgID, id PersonID) (*Person, error)

	// ListActivePeople returns all active people in the org. The capacity
	// gate is applied by the caller, not the store.
	ListActivePeople(ctx context.Context, orgID OrgID) ([]Person, error)

	// GetStaffingRequest returns the request or a NotFoundError. Requests are
	// org-scoped: an ID from another org is a NotFoundError.
	GetStaffingRequest(ctx context.Context, orgID OrgID, id StaffingRequestID) (*StaffingRequest, error)

	// GetEngagement returns the engagement or a NotFoundError.
	GetEngagement(ctx context.Context, orgID OrgID, id EngagementID) (*Engagement, error)
}
