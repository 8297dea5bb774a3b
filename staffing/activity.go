package staffing

import (
	"context"
	"time"
)

// =============================================================================
// ACTIVITY LOG - Append-only audit trail for assignment side effects
// =============================================================================

// ActivityEntry records who did what when. Entries are written after
// assignment creation/cancellation, fire-and-forget: a failed append is
// logged by the caller but never fails the operation itself.
type ActivityEntry struct {
	ID           string
	OccurredAt   time.Time
	OrgID        OrgID
	ActorID      string
	Action       ActivityAction
	AssignmentID AssignmentID
	Payload      map[string]any
}

type ActivityAction string

const (
	ActivityAssignmentCreated   ActivityAction = "assignment_created"
	ActivityAssignmentUpdated   ActivityAction = "assignment_updated"
	ActivityAssignmentCancelled ActivityAction = "assignment_cancelled"
)

// ActivityLog stores activity entries. Append-only.
type ActivityLog interface {
	Append(ctx context.Context, entry ActivityEntry) error
}

// NopActivityLog discards entries. Used when no audit sink is configured.
type NopActivityLog struct{}

func (NopActivityLog) Append(context.Context, ActivityEntry) error { return nil }
