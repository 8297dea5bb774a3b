/*
Package sqlite provides a SQLite-backed implementation of the storage interfaces.

PURPOSE:
  Implements every collaborator interface the engine consumes using SQLite.
  In production the same patterns apply to PostgreSQL - only minor SQL
  dialect differences.

INTERFACES IMPLEMENTED:
  rates.OverrideStore:      point-in-time rate card lookup
  rates.CurrencyConverter:  date-effective exchange rates (inverse fallback)
  staffing.DirectoryStore:  people, staffing requests, engagements
  assignments.Store:        assignment rows with frozen snapshot JSON
  staffing.ActivityLog:     append-only activity trail

SNAPSHOT IMMUTABILITY:
  The assignments UPDATE statement deliberately does not touch
  rate_snapshot_json. The snapshot is written once, at INSERT, and survives
  any later edit to the rate_overrides rows it was derived from.

KEY TABLES:
  rate_overrides:     date-effective rate cards, one row per tier/scope
  exchange_rates:     (from, to, date_effective) -> rate
  people:             directory records with skills and capacity
  staffing_requests:  open demand with required skills and window
  engagements:        client engagements
  assignments:        rows + immutable rate_snapshot_json
  activity_log:       append-only audit entries

WAL MODE:
  SQLite is opened with WAL for better read concurrency; a sync.RWMutex
  serializes writers in-process on top.

USAGE:
  store, err := sqlite.New("./data/staffing.db")
  if err != nil { ... }
  defer store.Close()
  resolver := rates.NewResolver(store, store, scarcity)

SEE ALSO:
  - rates/override.go, staffing/directory.go: interface definitions
  - store/memory: in-memory implementation for tests
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/warp/staffing-engine/assignments"
	"github.com/warp/staffing-engine/rates"
	"github.com/warp/staffing-engine/staffing"
)

// Store implements all storage interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if strings.Contains(dbPath, ":memory:") {
		// Every pooled connection gets its own empty in-memory database;
		// pin the pool so all callers share the migrated schema.
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Rate cards, one row per tier/scope with an effective window
	CREATE TABLE IF NOT EXISTS rate_overrides (
		id TEXT PRIMARY KEY,
		org_id TEXT NOT NULL,
		tier INTEGER NOT NULL,
		scope_key TEXT NOT NULL,
		currency TEXT NOT NULL,
		base_amount TEXT NOT NULL,
		premiums_json TEXT,
		effective_from TEXT NOT NULL,
		effective_to TEXT,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_overrides_scope
		ON rate_overrides(org_id, tier, scope_key, effective_from);

	-- Date-effective exchange rates
	CREATE TABLE IF NOT EXISTS exchange_rates (
		from_code TEXT NOT NULL,
		to_code TEXT NOT NULL,
		rate TEXT NOT NULL,
		date_effective TEXT NOT NULL,
		PRIMARY KEY (from_code, to_code, date_effective)
	);

	-- Directory
	CREATE TABLE IF NOT EXISTS people (
		id TEXT NOT NULL,
		org_id TEXT NOT NULL,
		name TEXT NOT NULL,
		level TEXT,
		skills_json TEXT,
		active INTEGER NOT NULL DEFAULT 1,
		available_from TEXT,
		available_to TEXT,
		max_concurrent INTEGER NOT NULL DEFAULT 1,
		current_assignments INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (org_id, id)
	);
	CREATE INDEX IF NOT EXISTS idx_people_org_active
		ON people(org_id, active);

	CREATE TABLE IF NOT EXISTS staffing_requests (
		id TEXT NOT NULL,
		org_id TEXT NOT NULL,
		role_template_id TEXT,
		engagement_id TEXT,
		client_id TEXT,
		required_skills_json TEXT,
		level TEXT,
		start_date TEXT,
		end_date TEXT,
		target_currency TEXT,
		PRIMARY KEY (org_id, id)
	);

	CREATE TABLE IF NOT EXISTS engagements (
		id TEXT NOT NULL,
		org_id TEXT NOT NULL,
		client_id TEXT,
		name TEXT,
		PRIMARY KEY (org_id, id)
	);

	-- Assignments carry the frozen snapshot; rate_snapshot_json is written
	-- once at INSERT and never updated
	CREATE TABLE IF NOT EXISTS assignments (
		id TEXT NOT NULL,
		org_id TEXT NOT NULL,
		person_id TEXT NOT NULL,
		role_template_id TEXT NOT NULL,
		engagement_id TEXT NOT NULL,
		status TEXT NOT NULL,
		start_date TEXT,
		end_date TEXT,
		notes TEXT,
		rate_snapshot_json TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		PRIMARY KEY (org_id, id)
	);
	CREATE INDEX IF NOT EXISTS idx_assignments_person
		ON assignments(org_id, person_id);

	-- Append-only activity trail
	CREATE TABLE IF NOT EXISTS activity_log (
		id TEXT PRIMARY KEY,
		org_id TEXT NOT NULL,
		actor_id TEXT,
		action TEXT NOT NULL,
		assignment_id TEXT,
		payload_json TEXT,
		occurred_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_activity_org_time
		ON activity_log(org_id, occurred_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

const timeLayout = time.RFC3339Nano

// =============================================================================
// RATE OVERRIDES - rates.OverrideStore
// =============================================================================

// SaveOverride inserts or replaces a rate override.
func (s *Store) SaveOverride(ctx context.Context, o rates.RateOverride) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	premiums, err := json.Marshal(o.Premiums)
	if err != nil {
		return fmt.Errorf("marshal premiums: %w", err)
	}
	var effectiveTo sql.NullString
	if o.EffectiveTo != nil {
		effectiveTo = sql.NullString{String: o.EffectiveTo.String(), Valid: true}
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO rate_overrides
		(id, org_id, tier, scope_key, currency, base_amount, premiums_json, effective_from, effective_to, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.ID, string(o.OrgID), int(o.Tier), o.ScopeKey, o.Currency,
		o.BaseAmount.String(), string(premiums), o.EffectiveFrom.String(),
		effectiveTo, o.CreatedAt.UTC().Format(timeLayout),
	)
	return err
}

func (s *Store) ListApplicable(ctx context.Context, orgID staffing.OrgID, tier rates.Tier, scopeKey string, asOf staffing.Date) ([]rates.RateOverride, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, org_id, tier, scope_key, currency, base_amount, premiums_json, effective_from, effective_to, created_at
		FROM rate_overrides
		WHERE org_id = ? AND tier = ? AND scope_key = ?
		  AND effective_from <= ?
		  AND (effective_to IS NULL OR effective_to >= ?)
		ORDER BY effective_from, created_at`,
		string(orgID), int(tier), scopeKey, asOf.String(), asOf.String(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []rates.RateOverride
	for rows.Next() {
		o, err := scanOverride(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, o)
	}
	return result, rows.Err()
}

func scanOverride(rows *sql.Rows) (rates.RateOverride, error) {
	var (
		o                        rates.RateOverride
		orgID, baseAmount        string
		tier                     int
		premiumsJSON             sql.NullString
		effectiveFrom, createdAt string
		effectiveTo              sql.NullString
	)
	if err := rows.Scan(&o.ID, &orgID, &tier, &o.ScopeKey, &o.Currency,
		&baseAmount, &premiumsJSON, &effectiveFrom, &effectiveTo, &createdAt); err != nil {
		return o, err
	}
	o.OrgID = staffing.OrgID(orgID)
	o.Tier = rates.Tier(tier)

	amount, err := decimal.NewFromString(baseAmount)
	if err != nil {
		return o, fmt.Errorf("parse base amount: %w", err)
	}
	o.BaseAmount = amount

	if premiumsJSON.Valid && premiumsJSON.String != "" {
		if err := json.Unmarshal([]byte(premiumsJSON.String), &o.Premiums); err != nil {
			return o, fmt.Errorf("parse premiums: %w", err)
		}
	}
	if o.EffectiveFrom, err = staffing.ParseDate(effectiveFrom); err != nil {
		return o, err
	}
	if effectiveTo.Valid && effectiveTo.String != "" {
		to, err := staffing.ParseDate(effectiveTo.String)
		if err != nil {
			return o, err
		}
		o.EffectiveTo = &to
	}
	if o.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return o, fmt.Errorf("parse created_at: %w", err)
	}
	return o, nil
}

// =============================================================================
// EXCHANGE RATES - rates.CurrencyConverter
// =============================================================================

// SaveExchangeRate inserts or replaces a date-effective rate.
func (s *Store) SaveExchangeRate(ctx context.Context, r rates.ExchangeRate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO exchange_rates (from_code, to_code, rate, date_effective)
		VALUES (?, ?, ?, ?)`,
		r.From, r.To, r.Rate.String(), r.DateEffective.String(),
	)
	return err
}

// Convert applies the latest rate effective on or before asOf, trying the
// inverse pair when no direct rate exists.
func (s *Store) Convert(ctx context.Context, amount decimal.Decimal, from, to string, asOf staffing.Date) (decimal.Decimal, error) {
	if from == to {
		return amount, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if rate, ok, err := s.latestRate(ctx, from, to, asOf); err != nil {
		return decimal.Zero, err
	} else if ok {
		return amount.Mul(rate), nil
	}
	if rate, ok, err := s.latestRate(ctx, to, from, asOf); err != nil {
		return decimal.Zero, err
	} else if ok && !rate.IsZero() {
		return amount.Div(rate), nil
	}
	return decimal.Zero, fmt.Errorf("%s->%s as of %s: %w", from, to, asOf, rates.ErrNoExchangeRate)
}

func (s *Store) latestRate(ctx context.Context, from, to string, asOf staffing.Date) (decimal.Decimal, bool, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `
		SELECT rate FROM exchange_rates
		WHERE from_code = ? AND to_code = ? AND date_effective <= ?
		ORDER BY date_effective DESC LIMIT 1`,
		from, to, asOf.String(),
	).Scan(&raw)
	if err == sql.ErrNoRows {
		return decimal.Zero, false, nil
	}
	if err != nil {
		return decimal.Zero, false, err
	}
	rate, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("parse exchange rate: %w", err)
	}
	return rate, true, nil
}

// =============================================================================
// DIRECTORY - staffing.DirectoryStore
// =============================================================================

// SavePerson inserts or replaces a directory person.
func (s *Store) SavePerson(ctx context.Context, p staffing.Person) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	skills, err := json.Marshal(p.Skills)
	if err != nil {
		return fmt.Errorf("marshal skills: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO people
		(id, org_id, name, level, skills_json, active, available_from, available_to, max_concurrent, current_assignments)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(p.ID), string(p.OrgID), p.Name, string(p.Level), string(skills),
		boolToInt(p.Active), dateOrEmpty(p.AvailableFrom), dateOrEmpty(p.AvailableTo),
		p.MaxConcurrent, p.CurrentAssignments,
	)
	return err
}

func (s *Store) GetPerson(ctx context.Context, orgID staffing.OrgID, id staffing.PersonID) (*staffing.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, org_id, name, level, skills_json, active, available_from, available_to, max_concurrent, current_assignments
		FROM people WHERE org_id = ? AND id = ?`,
		string(orgID), string(id),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, &staffing.NotFoundError{Kind: "person", ID: string(id)}
	}
	p, err := scanPerson(rows)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) ListActivePeople(ctx context.Context, orgID staffing.OrgID) ([]staffing.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, org_id, name, level, skills_json, active, available_from, available_to, max_concurrent, current_assignments
		FROM people WHERE org_id = ? AND active = 1
		ORDER BY id`,
		string(orgID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []staffing.Person
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

func scanPerson(rows *sql.Rows) (staffing.Person, error) {
	var (
		p                  staffing.Person
		id, orgID, level   string
		skillsJSON         sql.NullString
		active             int
		availFrom, availTo sql.NullString
	)
	if err := rows.Scan(&id, &orgID, &p.Name, &level, &skillsJSON, &active,
		&availFrom, &availTo, &p.MaxConcurrent, &p.CurrentAssignments); err != nil {
		return p, err
	}
	p.ID = staffing.PersonID(id)
	p.OrgID = staffing.OrgID(orgID)
	p.Level = staffing.Level(level)
	p.Active = active != 0

	if skillsJSON.Valid && skillsJSON.String != "" {
		if err := json.Unmarshal([]byte(skillsJSON.String), &p.Skills); err != nil {
			return p, fmt.Errorf("parse skills: %w", err)
		}
	}
	var err error
	if p.AvailableFrom, err = parseDateOrZero(availFrom); err != nil {
		return p, err
	}
	if p.AvailableTo, err = parseDateOrZero(availTo); err != nil {
		return p, err
	}
	return p, nil
}

// SaveStaffingRequest inserts or replaces a staffing request.
func (s *Store) SaveStaffingRequest(ctx context.Context, r staffing.StaffingRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	skills, err := json.Marshal(r.RequiredSkills)
	if err != nil {
		return fmt.Errorf("marshal required skills: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO staffing_requests
		(id, org_id, role_template_id, engagement_id, client_id, required_skills_json, level, start_date, end_date, target_currency)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(r.ID), string(r.OrgID), string(r.RoleTemplateID), string(r.EngagementID),
		string(r.ClientID), string(skills), string(r.Level),
		dateOrEmpty(r.StartDate), dateOrEmpty(r.EndDate), r.TargetCurrency,
	)
	return err
}

func (s *Store) GetStaffingRequest(ctx context.Context, orgID staffing.OrgID, id staffing.StaffingRequestID) (*staffing.StaffingRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		r                           staffing.StaffingRequest
		rid, org, role, eng, client string
		skillsJSON                  sql.NullString
		level, start, end, currency sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, org_id, role_template_id, engagement_id, client_id, required_skills_json, level, start_date, end_date, target_currency
		FROM staffing_requests WHERE org_id = ? AND id = ?`,
		string(orgID), string(id),
	).Scan(&rid, &org, &role, &eng, &client, &skillsJSON, &level, &start, &end, &currency)
	if err == sql.ErrNoRows {
		return nil, &staffing.NotFoundError{Kind: "staffing_request", ID: string(id)}
	}
	if err != nil {
		return nil, err
	}

	r.ID = staffing.StaffingRequestID(rid)
	r.OrgID = staffing.OrgID(org)
	r.RoleTemplateID = staffing.RoleTemplateID(role)
	r.EngagementID = staffing.EngagementID(eng)
	r.ClientID = staffing.ClientID(client)
	if skillsJSON.Valid && skillsJSON.String != "" {
		if err := json.Unmarshal([]byte(skillsJSON.String), &r.RequiredSkills); err != nil {
			return nil, fmt.Errorf("parse required skills: %w", err)
		}
	}
	if level.Valid {
		r.Level = staffing.Level(level.String)
	}
	if r.StartDate, err = parseDateOrZero(start); err != nil {
		return nil, err
	}
	if r.EndDate, err = parseDateOrZero(end); err != nil {
		return nil, err
	}
	if currency.Valid {
		r.TargetCurrency = currency.String
	}
	return &r, nil
}

// SaveEngagement inserts or replaces an engagement.
func (s *Store) SaveEngagement(ctx context.Context, e staffing.Engagement) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO engagements (id, org_id, client_id, name)
		VALUES (?, ?, ?, ?)`,
		string(e.ID), string(e.OrgID), string(e.ClientID), e.Name,
	)
	return err
}

func (s *Store) GetEngagement(ctx context.Context, orgID staffing.OrgID, id staffing.EngagementID) (*staffing.Engagement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var e staffing.Engagement
	var eid, org, client, name string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, org_id, client_id, name FROM engagements WHERE org_id = ? AND id = ?`,
		string(orgID), string(id),
	).Scan(&eid, &org, &client, &name)
	if err == sql.ErrNoRows {
		return nil, &staffing.NotFoundError{Kind: "engagement", ID: string(id)}
	}
	if err != nil {
		return nil, err
	}
	e.ID = staffing.EngagementID(eid)
	e.OrgID = staffing.OrgID(org)
	e.ClientID = staffing.ClientID(client)
	e.Name = name
	return &e, nil
}

// =============================================================================
// ASSIGNMENTS - assignments.Store
// =============================================================================

func (s *Store) Create(ctx context.Context, a assignments.Assignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot, err := json.Marshal(a.RateSnapshot)
	if err != nil {
		return fmt.Errorf("marshal rate snapshot: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO assignments
		(id, org_id, person_id, role_template_id, engagement_id, status, start_date, end_date, notes, rate_snapshot_json, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(a.ID), string(a.OrgID), string(a.PersonID), string(a.RoleTemplateID),
		string(a.EngagementID), string(a.Status), dateOrEmpty(a.StartDate), dateOrEmpty(a.EndDate),
		a.Notes, string(snapshot),
		a.CreatedAt.UTC().Format(timeLayout), a.UpdatedAt.UTC().Format(timeLayout),
	)
	return err
}

func (s *Store) Get(ctx context.Context, orgID staffing.OrgID, id staffing.AssignmentID) (*assignments.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		a                        assignments.Assignment
		aid, org, person         string
		role, eng, status, notes string
		start, end               sql.NullString
		snapshotJSON             string
		createdAt, updatedAt     string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, org_id, person_id, role_template_id, engagement_id, status, start_date, end_date, notes, rate_snapshot_json, created_at, updated_at
		FROM assignments WHERE org_id = ? AND id = ?`,
		string(orgID), string(id),
	).Scan(&aid, &org, &person, &role, &eng, &status, &start, &end, &notes, &snapshotJSON, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, &staffing.NotFoundError{Kind: "assignment", ID: string(id)}
	}
	if err != nil {
		return nil, err
	}

	a.ID = staffing.AssignmentID(aid)
	a.OrgID = staffing.OrgID(org)
	a.PersonID = staffing.PersonID(person)
	a.RoleTemplateID = staffing.RoleTemplateID(role)
	a.EngagementID = staffing.EngagementID(eng)
	a.Status = assignments.Status(status)
	a.Notes = notes
	if a.StartDate, err = parseDateOrZero(start); err != nil {
		return nil, err
	}
	if a.EndDate, err = parseDateOrZero(end); err != nil {
		return nil, err
	}
	if snapshotJSON != "" && snapshotJSON != "null" {
		var snapshot rates.RateResolution
		if err := json.Unmarshal([]byte(snapshotJSON), &snapshot); err != nil {
			return nil, fmt.Errorf("parse rate snapshot: %w", err)
		}
		a.RateSnapshot = &snapshot
	}
	if a.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if a.UpdatedAt, err = time.Parse(timeLayout, updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	return &a, nil
}

// Update writes the mutable columns only. rate_snapshot_json is not in the
// statement: the frozen snapshot cannot be overwritten through this store.
func (s *Store) Update(ctx context.Context, a assignments.Assignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.ExecContext(ctx, `
		UPDATE assignments
		SET status = ?, start_date = ?, end_date = ?, notes = ?, updated_at = ?
		WHERE org_id = ? AND id = ?`,
		string(a.Status), dateOrEmpty(a.StartDate), dateOrEmpty(a.EndDate), a.Notes,
		a.UpdatedAt.UTC().Format(timeLayout),
		string(a.OrgID), string(a.ID),
	)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return &staffing.NotFoundError{Kind: "assignment", ID: string(a.ID)}
	}
	return nil
}

// =============================================================================
// ACTIVITY LOG - staffing.ActivityLog
// =============================================================================

func (s *Store) Append(ctx context.Context, entry staffing.ActivityEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, err := json.Marshal(entry.Payload)
	if err != nil {
		return fmt.Errorf("marshal activity payload: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO activity_log (id, org_id, actor_id, action, assignment_id, payload_json, occurred_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, string(entry.OrgID), entry.ActorID, string(entry.Action),
		string(entry.AssignmentID), string(payload),
		entry.OccurredAt.UTC().Format(timeLayout),
	)
	return err
}

// =============================================================================
// HELPERS
// =============================================================================

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func dateOrEmpty(d staffing.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.String()
}

func parseDateOrZero(s sql.NullString) (staffing.Date, error) {
	if !s.Valid || s.String == "" {
		return staffing.Date{}, nil
	}
	return staffing.ParseDate(s.String)
}
