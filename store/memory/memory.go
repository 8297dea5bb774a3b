// Package memory provides in-memory store implementations for tests and dev.
package memory

import (
	"context"
	"sync"

	"github.com/warp/staffing-engine/assignments"
	"github.com/warp/staffing-engine/rates"
	"github.com/warp/staffing-engine/staffing"
)

// =============================================================================
// MEMORY STORE - implements every collaborator interface the engine needs
// =============================================================================

// Store is a thread-safe in-memory implementation of rates.OverrideStore,
// staffing.DirectoryStore, assignments.Store, and staffing.ActivityLog.
type Store struct {
	mu sync.RWMutex

	overrides   []rates.RateOverride
	people      map[personKey]staffing.Person
	requests    map[requestKey]staffing.StaffingRequest
	engagements map[engagementKey]staffing.Engagement
	assigned    map[assignmentKey]assignments.Assignment
	activity    []staffing.ActivityEntry
}

type personKey struct {
	Org staffing.OrgID
	ID  staffing.PersonID
}

type requestKey struct {
	Org staffing.OrgID
	ID  staffing.StaffingRequestID
}

type engagementKey struct {
	Org staffing.OrgID
	ID  staffing.EngagementID
}

type assignmentKey struct {
	Org staffing.OrgID
	ID  staffing.AssignmentID
}

func New() *Store {
	return &Store{
		people:      make(map[personKey]staffing.Person),
		requests:    make(map[requestKey]staffing.StaffingRequest),
		engagements: make(map[engagementKey]staffing.Engagement),
		assigned:    make(map[assignmentKey]assignments.Assignment),
	}
}

// =============================================================================
// SEEDING
// =============================================================================

func (s *Store) AddOverride(o rates.RateOverride) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides = append(s.overrides, o)
}

// ReplaceOverride swaps the override with the same ID, used to simulate a
// rate card edit after a snapshot was frozen.
func (s *Store) ReplaceOverride(o rates.RateOverride) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.overrides {
		if s.overrides[i].ID == o.ID {
			s.overrides[i] = o
			return
		}
	}
	s.overrides = append(s.overrides, o)
}

func (s *Store) AddPerson(p staffing.Person) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.people[personKey{Org: p.OrgID, ID: p.ID}] = p
}

func (s *Store) AddStaffingRequest(r staffing.StaffingRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests[requestKey{Org: r.OrgID, ID: r.ID}] = r
}

func (s *Store) AddEngagement(e staffing.Engagement) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engagements[engagementKey{Org: e.OrgID, ID: e.ID}] = e
}

// =============================================================================
// rates.OverrideStore
// =============================================================================

func (s *Store) ListApplicable(_ context.Context, orgID staffing.OrgID, tier rates.Tier, scopeKey string, asOf staffing.Date) ([]rates.RateOverride, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []rates.RateOverride
	for _, o := range s.overrides {
		if o.OrgID == orgID && o.Tier == tier && o.ScopeKey == scopeKey && o.Covers(asOf) {
			result = append(result, copyOverride(o))
		}
	}
	return result, nil
}

func copyOverride(o rates.RateOverride) rates.RateOverride {
	out := o
	out.Premiums = append([]rates.Premium(nil), o.Premiums...)
	if o.EffectiveTo != nil {
		to := *o.EffectiveTo
		out.EffectiveTo = &to
	}
	return out
}

// =============================================================================
// staffing.DirectoryStore
// =============================================================================

func (s *Store) GetPerson(_ context.Context, orgID staffing.OrgID, id staffing.PersonID) (*staffing.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.people[personKey{Org: orgID, ID: id}]
	if !ok {
		return nil, &staffing.NotFoundError{Kind: "person", ID: string(id)}
	}
	out := p
	out.Skills = append([]staffing.SkillID(nil), p.Skills...)
	return &out, nil
}

func (s *Store) ListActivePeople(_ context.Context, orgID staffing.OrgID) ([]staffing.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []staffing.Person
	for _, p := range s.people {
		if p.OrgID == orgID && p.Active {
			out := p
			out.Skills = append([]staffing.SkillID(nil), p.Skills...)
			result = append(result, out)
		}
	}
	return result, nil
}

func (s *Store) GetStaffingRequest(_ context.Context, orgID staffing.OrgID, id staffing.StaffingRequestID) (*staffing.StaffingRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.requests[requestKey{Org: orgID, ID: id}]
	if !ok {
		return nil, &staffing.NotFoundError{Kind: "staffing_request", ID: string(id)}
	}
	out := r
	out.RequiredSkills = append([]staffing.SkillID(nil), r.RequiredSkills...)
	return &out, nil
}

func (s *Store) GetEngagement(_ context.Context, orgID staffing.OrgID, id staffing.EngagementID) (*staffing.Engagement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.engagements[engagementKey{Org: orgID, ID: id}]
	if !ok {
		return nil, &staffing.NotFoundError{Kind: "engagement", ID: string(id)}
	}
	out := e
	return &out, nil
}

// =============================================================================
// assignments.Store
// =============================================================================

func (s *Store) Create(_ context.Context, a assignments.Assignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.assigned[assignmentKey{Org: a.OrgID, ID: a.ID}] = copyAssignment(a)
	return nil
}

func (s *Store) Get(_ context.Context, orgID staffing.OrgID, id staffing.AssignmentID) (*assignments.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.assigned[assignmentKey{Org: orgID, ID: id}]
	if !ok {
		return nil, &staffing.NotFoundError{Kind: "assignment", ID: string(id)}
	}
	out := copyAssignment(a)
	return &out, nil
}

func (s *Store) Update(_ context.Context, a assignments.Assignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := assignmentKey{Org: a.OrgID, ID: a.ID}
	existing, ok := s.assigned[k]
	if !ok {
		return &staffing.NotFoundError{Kind: "assignment", ID: string(a.ID)}
	}

	updated := copyAssignment(a)
	// The snapshot is immutable: whatever the caller passed, the stored
	// snapshot stays.
	updated.RateSnapshot = existing.RateSnapshot
	s.assigned[k] = updated
	return nil
}

func copyAssignment(a assignments.Assignment) assignments.Assignment {
	out := a
	if a.RateSnapshot != nil {
		snapshot := *a.RateSnapshot
		snapshot.AbsolutePremiums = append([]rates.PremiumLine(nil), a.RateSnapshot.AbsolutePremiums...)
		snapshot.PercentagePremiums = append([]rates.PremiumLine(nil), a.RateSnapshot.PercentagePremiums...)
		snapshot.PrecedenceApplied = append([]rates.Tier(nil), a.RateSnapshot.PrecedenceApplied...)
		out.RateSnapshot = &snapshot
	}
	return out
}

// =============================================================================
// staffing.ActivityLog
// =============================================================================

func (s *Store) Append(_ context.Context, entry staffing.ActivityEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activity = append(s.activity, entry)
	return nil
}

// ActivityEntries returns a copy of the log, oldest first.
func (s *Store) ActivityEntries() []staffing.ActivityEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]staffing.ActivityEntry(nil), s.activity...)
}
