// Package sqlite is a single-file event store backed by modernc.org/sqlite,
// for local development and small single-node deployments.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aevon-lab/ledgerbook/internal/core/storage"
	"github.com/aevon-lab/ledgerbook/internal/event"
	"github.com/google/uuid"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Adapter implements storage.EventStore for SQLite.
type Adapter struct {
	db             *sql.DB
	nowFn          func() time.Time
	stmtAppend     *sql.Stmt
	stmtHead       *sql.Stmt
	stmtEvents     *sql.Stmt
	stmtFindLatest *sql.Stmt
}

// NewAdapter opens the database at dsn. SQLite serializes writers, so the
// pool is capped at one connection; this also keeps ":memory:" databases
// from splitting across connections.
func NewAdapter(dsn string) (*Adapter, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("sqlite dsn is required")
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	slog.Info("[SQLite] Database opened", "dsn", dsn)

	return &Adapter{
		db: db,
		nowFn: func() time.Time {
			return time.Now().UTC()
		},
	}, nil
}

// Prepare prepares the adapter's statements. Call it after migrations have run.
func (a *Adapter) Prepare() error {
	stmts := []struct {
		dst   **sql.Stmt
		query string
		name  string
	}{
		{&a.stmtAppend, queryAppendEvent, "appendEvent"},
		{&a.stmtHead, queryAggregateHead, "aggregateHead"},
		{&a.stmtEvents, queryAggregateEvents, "aggregateEvents"},
		{&a.stmtFindLatest, queryFindLatestByPayload, "findLatestByPayload"},
	}
	for _, s := range stmts {
		stmt, err := a.db.Prepare(s.query)
		if err != nil {
			a.closeStatements()
			return fmt.Errorf("failed to prepare %s statement (did you run migrations?): %w", s.name, err)
		}
		*s.dst = stmt
	}
	return nil
}

// Append commits one event at head+1 if the expected version still matches.
func (a *Adapter) Append(ctx context.Context, evt storage.PendingEvent) (int64, error) {
	if err := evt.Validate(); err != nil {
		return 0, err
	}

	var id int64
	err := a.stmtAppend.QueryRowContext(ctx,
		evt.AggregateID.String(),
		int64(evt.Kind),
		int64(evt.Type),
		string(evt.Payload),
		a.nowFn().UnixNano(),
		evt.AggregateID.String(),
		evt.ExpectedVersion,
		evt.ExpectedVersion,
	).Scan(&id)

	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%w: %s %s expected version %d",
			storage.ErrVersionConflict, evt.Kind, evt.AggregateID, evt.ExpectedVersion)
	}
	if isUniqueViolation(err) {
		return 0, fmt.Errorf("%w: %s %s concurrent append",
			storage.ErrVersionConflict, evt.Kind, evt.AggregateID)
	}
	if err != nil {
		return 0, storage.Wrap("append", err)
	}

	slog.Debug("[SQLite] Appended event",
		"aggregate_id", evt.AggregateID,
		"event_type", evt.Type,
		"event_id", id)
	return id, nil
}

// Query reads the aggregate head, then the filtered events.
func (a *Adapter) Query(ctx context.Context, aggregateID uuid.UUID, kind event.AggregateKind, types []event.Type) (event.Stream, error) {
	var stream event.Stream

	if err := a.stmtHead.QueryRowContext(ctx, aggregateID.String(), int64(kind)).Scan(&stream.Version); err != nil {
		return event.Stream{}, storage.Wrap("query head", err)
	}
	if len(types) == 0 {
		return stream, nil
	}

	filter, err := typeFilter(types)
	if err != nil {
		return event.Stream{}, storage.Wrap("query events", err)
	}

	rows, err := a.stmtEvents.QueryContext(ctx, aggregateID.String(), int64(kind), filter)
	if err != nil {
		return event.Stream{}, storage.Wrap("query events", err)
	}
	defer rows.Close()

	for rows.Next() {
		rec, err := scanEventRow(rows)
		if err != nil {
			return event.Stream{}, storage.Wrap("query events", err)
		}
		stream.Records = append(stream.Records, rec)
	}
	if err := rows.Err(); err != nil {
		return event.Stream{}, storage.Wrap("query events", err)
	}

	return stream, nil
}

// FindLatest returns the newest event whose payload field matches.
func (a *Adapter) FindLatest(ctx context.Context, m storage.PayloadMatch) (event.Record, error) {
	if err := storage.ValidateMatch(m); err != nil {
		return event.Record{}, err
	}

	filter, err := typeFilter(m.Types)
	if err != nil {
		return event.Record{}, storage.Wrap("find latest", err)
	}

	rec, err := scanEventRow(a.stmtFindLatest.QueryRowContext(ctx, int64(m.Kind), filter, m.Field, m.Value))
	if errors.Is(err, sql.ErrNoRows) {
		return event.Record{}, storage.ErrNotFound
	}
	if err != nil {
		return event.Record{}, storage.Wrap("find latest", err)
	}
	return rec, nil
}

// Ping checks database connectivity.
func (a *Adapter) Ping(ctx context.Context) error {
	return a.db.PingContext(ctx)
}

// DB returns the underlying *sql.DB so migrations share the connection.
func (a *Adapter) DB() *sql.DB {
	return a.db
}

func (a *Adapter) closeStatements() error {
	var firstErr error
	for _, stmt := range []*sql.Stmt{a.stmtAppend, a.stmtHead, a.stmtEvents, a.stmtFindLatest} {
		if stmt == nil {
			continue
		}
		if err := stmt.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to close statement: %w", err)
		}
	}
	return firstErr
}

// Close closes all prepared statements and the database.
func (a *Adapter) Close() error {
	firstErr := a.closeStatements()
	if err := a.db.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("failed to close database: %w", err)
	}
	if firstErr != nil {
		return firstErr
	}

	slog.Info("[SQLite] Adapter closed gracefully")
	return nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	return errors.As(err, &sqliteErr) && sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}

func typeFilter(types []event.Type) (string, error) {
	codes := make([]int64, len(types))
	for i, t := range types {
		codes[i] = int64(t)
	}
	b, err := json.Marshal(codes)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanEventRow(row scanner) (event.Record, error) {
	var (
		rec         event.Record
		aggregateID string
		payload     string
		createdAt   int64
	)

	err := row.Scan(
		&rec.ID,
		&aggregateID,
		&rec.Kind,
		&rec.Type,
		&rec.Version,
		&payload,
		&createdAt,
	)
	if err != nil {
		return event.Record{}, fmt.Errorf("failed to scan event row: %w", err)
	}

	rec.AggregateID, err = uuid.Parse(aggregateID)
	if err != nil {
		return event.Record{}, fmt.Errorf("invalid aggregate id %q: %w", aggregateID, err)
	}
	rec.Payload = []byte(payload)
	rec.CreatedAt = time.Unix(0, createdAt).UTC()

	return rec, nil
}
