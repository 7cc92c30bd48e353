package audit

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const postgresSchema = `CREATE TABLE IF NOT EXISTS billing_events (
	id BIGSERIAL PRIMARY KEY,
	flow TEXT NOT NULL,
	customer_id TEXT NOT NULL DEFAULT '',
	invoice_id TEXT NOT NULL DEFAULT '',
	outcome TEXT NOT NULL,
	message TEXT NOT NULL DEFAULT '',
	duration_ms BIGINT NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL
)`

const sqliteSchema = `CREATE TABLE IF NOT EXISTS billing_events (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	flow TEXT NOT NULL,
	customer_id TEXT NOT NULL DEFAULT '',
	invoice_id TEXT NOT NULL DEFAULT '',
	outcome TEXT NOT NULL,
	message TEXT NOT NULL DEFAULT '',
	duration_ms INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMP NOT NULL
)`

const customerIndex = `CREATE INDEX IF NOT EXISTS billing_events_customer_idx ON billing_events (customer_id, created_at)`

// ErrInvalidEntry is returned for entries missing a flow or outcome.
var ErrInvalidEntry = errors.New("audit entry needs a flow and an outcome")

// Entry is one billing event.
type Entry struct {
	ID         int64
	Flow       string
	CustomerID string
	InvoiceID  string
	Outcome    string
	Message    string
	DurationMS int64
	CreatedAt  time.Time
}

// Store persists billing events with database/sql.
type Store struct {
	db     *sql.DB
	driver string
	now    func() time.Time
}

// NewStore creates a store for db. driver selects SQL dialect details ("postgres" or "sqlite3").
func NewStore(db *sql.DB, driver string) *Store {
	return &Store{db: db, driver: driver, now: time.Now}
}

// Migrate creates the events table when it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	schema := sqliteSchema
	if s.driver == "postgres" {
		schema = postgresSchema
	}
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create billing_events: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, customerIndex); err != nil {
		return fmt.Errorf("failed to create billing_events index: %w", err)
	}
	return nil
}

// Log writes one event
func (s *Store) Log(ctx context.Context, e Entry) error {
	if e.Flow == "" || e.Outcome == "" {
		return ErrInvalidEntry
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.now().UTC()
	}

	_, err := s.db.ExecContext(ctx, s.rebind(
		`INSERT INTO billing_events (flow, customer_id, invoice_id, outcome, message, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`),
		e.Flow, e.CustomerID, e.InvoiceID, e.Outcome, e.Message, e.DurationMS, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert billing event: %w", err)
	}
	return nil
}

// ListByCustomer returns the newest events for a customer first.
func (s *Store) ListByCustomer(ctx context.Context, customerID string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, s.rebind(
		`SELECT id, flow, customer_id, invoice_id, outcome, message, duration_ms, created_at
		 FROM billing_events WHERE customer_id = ? ORDER BY created_at DESC, id DESC LIMIT ?`),
		customerID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query billing events: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Flow, &e.CustomerID, &e.InvoiceID, &e.Outcome, &e.Message, &e.DurationMS, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan billing event: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// CountByOutcome returns how many events of a flow ended with outcome since a time.
func (s *Store) CountByOutcome(ctx context.Context, flow, outcome string, since time.Time) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, s.rebind(
		`SELECT COUNT(*) FROM billing_events WHERE flow = ? AND outcome = ? AND created_at >= ?`),
		flow, outcome, since.UTC()).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count billing events: %w", err)
	}
	return n, nil
}

// rebind turns ? placeholders into $n for postgres.
func (s *Store) rebind(query string) string {
	if s.driver != "postgres" {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
