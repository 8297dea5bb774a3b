/*
manager.go - Assignment lifecycle operations

OPERATIONS:
  Create: validate the person/role/engagement context against the
          directory, resolve the rate exactly once, persist row + snapshot
          in one write, then append an activity entry (fire-and-forget).
  Update: non-pricing fields only (dates, notes, proposed->active,
          active->completed). Cancellation goes through Cancel.
  Cancel: proposed/active -> cancelled. The row and snapshot remain for
          historical billing.

ERROR MAPPING:
  Missing required fields        -> ValidationError
  Unknown person/engagement/row  -> NotFoundError
  Resolver failures              -> ResolutionError (propagated)
  Bad lifecycle transition       -> ConflictError
*/
package assignments

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/warp/staffing-engine/rates"
	"github.com/warp/staffing-engine/staffing"
)

// =============================================================================
// MANAGER
// =============================================================================

type Manager struct {
	Store     Store
	Resolver  *rates.Resolver
	Directory staffing.DirectoryStore
	Activity  staffing.ActivityLog
	Logger    *zap.Logger

	now func() time.Time
}

func NewManager(store Store, resolver *rates.Resolver, directory staffing.DirectoryStore, activity staffing.ActivityLog, logger *zap.Logger) *Manager {
	if activity == nil {
		activity = staffing.NopActivityLog{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		Store:     store,
		Resolver:  resolver,
		Directory: directory,
		Activity:  activity,
		Logger:    logger,
		now:       time.Now,
	}
}

// =============================================================================
// CREATE
// =============================================================================

// CreateParams is the assignment creation context.
type CreateParams struct {
	OrgID          staffing.OrgID
	PersonID       staffing.PersonID
	RoleTemplateID staffing.RoleTemplateID
	EngagementID   staffing.EngagementID

	StartDate staffing.Date
	EndDate   staffing.Date
	Notes     string

	// Proposed creates the assignment in the proposed state instead of
	// active. The snapshot is frozen at creation either way: activation is
	// a status change, never a re-pricing.
	Proposed bool

	// TargetCurrency of the frozen snapshot; empty keeps the resolved
	// base currency.
	TargetCurrency string

	// AsOf anchors the resolution; zero means today.
	AsOf staffing.Date

	// ActorID for the activity log.
	ActorID string
}

func (p CreateParams) validate() error {
	switch {
	case p.OrgID == "":
		return &staffing.ValidationError{Field: "org_id", Message: "required"}
	case p.PersonID == "":
		return &staffing.ValidationError{Field: "person_id", Message: "required"}
	case p.RoleTemplateID == "":
		return &staffing.ValidationError{Field: "role_template_id", Message: "required"}
	case p.EngagementID == "":
		return &staffing.ValidationError{Field: "engagement_id", Message: "required"}
	case p.StartDate.IsZero():
		return &staffing.ValidationError{Field: "start_date", Message: "required"}
	}
	if !p.EndDate.IsZero() && p.EndDate.Before(p.StartDate) {
		return &staffing.ValidationError{Field: "end_date", Message: "must not precede start_date"}
	}
	return nil
}

// Create resolves the rate once and persists the assignment with its frozen
// snapshot. The snapshot is durably committed before Create returns.
func (m *Manager) Create(ctx context.Context, p CreateParams) (*Assignment, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	person, err := m.Directory.GetPerson(ctx, p.OrgID, p.PersonID)
	if err != nil {
		return nil, err
	}
	engagement, err := m.Directory.GetEngagement(ctx, p.OrgID, p.EngagementID)
	if err != nil {
		return nil, err
	}

	asOf := p.AsOf
	if asOf.IsZero() {
		asOf = staffing.DateOf(m.now())
	}

	tc := rates.TargetingContext{
		OrgID:          p.OrgID,
		RoleTemplateID: &p.RoleTemplateID,
		Skills:         person.Skills,
		EngagementID:   &p.EngagementID,
		PersonID:       &p.PersonID,
		TargetCurrency: p.TargetCurrency,
		AsOf:           asOf,
	}
	if person.Level.Known() {
		level := person.Level
		tc.Level = &level
	}
	if engagement.ClientID != "" {
		client := engagement.ClientID
		tc.ClientID = &client
	}

	// Exactly one resolution per assignment; the result is the snapshot.
	snapshot, err := m.Resolver.Resolve(ctx, tc)
	if err != nil {
		return nil, err
	}

	status := StatusActive
	if p.Proposed {
		status = StatusProposed
	}
	now := m.now()
	assignment := Assignment{
		ID:             staffing.AssignmentID(uuid.NewString()),
		OrgID:          p.OrgID,
		PersonID:       p.PersonID,
		RoleTemplateID: p.RoleTemplateID,
		EngagementID:   p.EngagementID,
		Status:         status,
		StartDate:      p.StartDate,
		EndDate:        p.EndDate,
		Notes:          p.Notes,
		RateSnapshot:   snapshot,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := m.Store.Create(ctx, assignment); err != nil {
		return nil, fmt.Errorf("persist assignment: %w", err)
	}

	m.logActivity(ctx, p.OrgID, p.ActorID, staffing.ActivityAssignmentCreated, assignment.ID, map[string]any{
		"person_id":      string(p.PersonID),
		"engagement_id":  string(p.EngagementID),
		"final_amount":   snapshot.FinalAmount.String(),
		"final_currency": snapshot.FinalCurrency,
	})
	return &assignment, nil
}

// =============================================================================
// UPDATE - non-pricing fields only
// =============================================================================

// UpdateParams carries the mutable fields. Pricing context (person, role,
// engagement) is deliberately not representable here: re-pricing existing
// work is forbidden, not re-resolved.
type UpdateParams struct {
	StartDate *staffing.Date
	EndDate   *staffing.Date
	Notes     *string

	// Status may move proposed->active or active->completed.
	// Cancellation must go through Cancel.
	Status *Status

	ActorID string
}

func (m *Manager) Update(ctx context.Context, orgID staffing.OrgID, id staffing.AssignmentID, p UpdateParams) (*Assignment, error) {
	assignment, err := m.Store.Get(ctx, orgID, id)
	if err != nil {
		return nil, err
	}

	if p.Status != nil {
		if err := validateTransition(assignment.Status, *p.Status); err != nil {
			return nil, err
		}
		assignment.Status = *p.Status
	}
	if p.StartDate != nil {
		assignment.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		assignment.EndDate = *p.EndDate
	}
	if p.Notes != nil {
		assignment.Notes = *p.Notes
	}
	if !assignment.EndDate.IsZero() && assignment.EndDate.Before(assignment.StartDate) {
		return nil, &staffing.ValidationError{Field: "end_date", Message: "must not precede start_date"}
	}
	assignment.UpdatedAt = m.now()

	if err := m.Store.Update(ctx, *assignment); err != nil {
		return nil, fmt.Errorf("persist assignment update: %w", err)
	}

	m.logActivity(ctx, orgID, p.ActorID, staffing.ActivityAssignmentUpdated, id, map[string]any{
		"status": string(assignment.Status),
	})
	return assignment, nil
}

func validateTransition(from, to Status) error {
	if to == StatusCancelled {
		return &staffing.ValidationError{Field: "status", Message: "cancel through the cancel operation"}
	}
	ok := (from == StatusProposed && to == StatusActive) ||
		(from == StatusActive && to == StatusCompleted) ||
		from == to
	if !ok {
		return &staffing.ConflictError{Message: fmt.Sprintf("cannot transition %s -> %s", from, to)}
	}
	return nil
}

// =============================================================================
// CANCEL
// =============================================================================

// Cancel transitions the assignment to cancelled. The row and its snapshot
// are kept for historical billing.
func (m *Manager) Cancel(ctx context.Context, orgID staffing.OrgID, id staffing.AssignmentID, actorID string) (*Assignment, error) {
	assignment, err := m.Store.Get(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if assignment.Terminal() {
		return nil, &staffing.ConflictError{
			Message: fmt.Sprintf("assignment %s is already %s", id, assignment.Status),
		}
	}

	assignment.Status = StatusCancelled
	assignment.UpdatedAt = m.now()
	if err := m.Store.Update(ctx, *assignment); err != nil {
		return nil, fmt.Errorf("persist cancellation: %w", err)
	}

	m.logActivity(ctx, orgID, actorID, staffing.ActivityAssignmentCancelled, id, nil)
	return assignment, nil
}

// =============================================================================
// ACTIVITY - fire-and-forget
// =============================================================================

func (m *Manager) logActivity(ctx context.Context, orgID staffing.OrgID, actorID string, action staffing.ActivityAction, id staffing.AssignmentID, payload map[string]any) {
	entry := staffing.ActivityEntry{
		ID:           uuid.NewString(),
		OccurredAt:   m.now(),
		OrgID:        orgID,
		ActorID:      actorID,
		Action:       action,
		AssignmentID: id,
		Payload:      payload,
	}
	if err := m.Activity.Append(ctx, entry); err != nil {
		// Audit failures never fail the operation.
		m.Logger.Warn("activity log append failed",
			zap.String("action", string(action)),
			zap.String("assignment_id", string(id)),
			zap.Error(err))
	}
}
