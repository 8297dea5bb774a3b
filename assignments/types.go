/*
Package assignments manages the assignment lifecycle.

PURPOSE:
  Creating an assignment resolves the rate exactly once and freezes the
  itemized result onto the row as an immutable snapshot. The snapshot is
  the billing record: later edits to the rate cards it was derived from
  never touch it, and later reads never re-resolve.

LIFECYCLE:
  proposed -> active -> {completed, cancelled}
  proposed -> cancelled

  Cancellation keeps the row and its snapshot: historical billing needs
  both. Pricing-context fields (person, role, engagement) are immutable
  after creation; changing the price of existing work means cancelling
  and creating a new assignment.

SEE ALSO:
  - manager.go: create / update / cancel operations
  - rates/resolution.go: the snapshot value
*/
package assignments

import (
	"context"
	"time"

	"github.com/warp/staffing-engine/rates"
	"github.com/warp/staffing-engine/staffing"
)

// =============================================================================
// ASSIGNMENT
// =============================================================================

type Status string

const (
	StatusProposed  Status = "proposed"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Assignment links a person to an engagement under a role, carrying the
// rate snapshot frozen at creation time.
type Assignment struct {
	ID    staffing.AssignmentID
	OrgID staffing.OrgID

	// Pricing context. Immutable after creation.
	PersonID       staffing.PersonID
	RoleTemplateID staffing.RoleTemplateID
	EngagementID   staffing.EngagementID

	Status    Status
	StartDate staffing.Date
	EndDate   staffing.Date
	Notes     string

	// RateSnapshot is written once at creation and never mutated. Stores
	// must never overwrite it on update.
	RateSnapshot *rates.RateResolution

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Terminal reports whether the assignment can no longer transition.
func (a *Assignment) Terminal() bool {
	return a.Status == StatusCancelled || a.Status == StatusCompleted
}

// =============================================================================
// STORE
// =============================================================================

// Store persists assignments. Create writes the row together with its
// snapshot atomically; Update must leave the stored snapshot untouched
// regardless of what the passed record carries.
type Store interface {
	Create(ctx context.Context, a Assignment) error
	Get(ctx context.Context, orgID staffing.OrgID, id staffing.AssignmentID) (*Assignment, error)
	Update(ctx context.Context, a Assignment) error
}
