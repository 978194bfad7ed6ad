package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/louisbranch/fairsquares/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/event"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/primitive"
	"github.com/louisbranch/fairsquares/internal/services/estate/storage"
	"github.com/louisbranch/fairsquares/internal/services/estate/storage/sqlite/migrations"
)

const eventColumns = `seq, block, event_type, timestamp, actor_id, request_id, entity_type, entity_id,
payload_json, event_hash, prev_event_hash, chain_hash`

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Store is the SQLite event journal.
type Store struct {
	sqlDB    *sql.DB
	registry *event.Registry
}

var _ storage.EventStore = (*Store)(nil)

// OpenEvents opens the journal at path and applies pending migrations. When
// registry is set every appended event is validated against it.
func OpenEvents(path string, registry *event.Registry) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// SQLite allows one writer; appends serialize on this connection.
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.ApplyMigrations(context.Background(), sqlDB, migrations.EventsFS, "events"); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("migrate events: %w", err)
	}
	return &Store{sqlDB: sqlDB, registry: registry}, nil
}

// Close closes the underlying SQLite database.
//
// Close is nil-safe so callers can defer it in all startup paths.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Append atomically appends events after the last stored one. Sequence
// numbers are allocated contiguously and each chain hash links to its
// predecessor, including the last event of a previous batch.
func (s *Store) Append(ctx context.Context, events []event.Event) ([]event.Event, error) {
	if len(events) == 0 {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	// Validate all events before opening a transaction.
	validated := make([]event.Event, len(events))
	for i, evt := range events {
		if s.registry != nil {
			v, err := s.registry.ValidateForAppend(evt)
			if err != nil {
				return nil, fmt.Errorf("event %d: %w", i, err)
			}
			evt = v
		}
		if evt.Timestamp.IsZero() {
			evt.Timestamp = time.Now().UTC()
		}
		// Stored timestamps have millisecond precision; hash what is stored.
		evt.Timestamp = evt.Timestamp.UTC().Truncate(time.Millisecond)
		validated[i] = evt
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var lastSeq int64
	prevHash := ""
	row := tx.QueryRowContext(ctx, `SELECT seq, chain_hash FROM events ORDER BY seq DESC LIMIT 1`)
	switch err := row.Scan(&lastSeq, &prevHash); {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return nil, fmt.Errorf("load last event: %w", err)
	}

	stored := make([]event.Event, 0, len(validated))
	for i, evt := range validated {
		chained, err := event.Chain(evt, uint64(lastSeq)+uint64(i)+1, prevHash)
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO events (`+eventColumns+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			int64(chained.Seq),
			int64(chained.Block),
			string(chained.Type),
			toMillis(chained.Timestamp),
			chained.ActorID,
			chained.RequestID,
			chained.EntityType,
			chained.EntityID,
			chained.PayloadJSON,
			chained.Hash,
			chained.PrevHash,
			chained.ChainHash,
		); err != nil {
			if isConstraintError(err) {
				return nil, fmt.Errorf("append event %d: seq %d already stored: %w", i, chained.Seq, err)
			}
			return nil, fmt.Errorf("append event %d: %w", i, err)
		}
		stored = append(stored, chained)
		prevHash = chained.ChainHash
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return stored, nil
}

// List returns up to limit events after afterSeq in sequence order. A
// non-positive limit returns every remaining event.
func (s *Store) List(ctx context.Context, afterSeq uint64, limit int) ([]event.Event, error) {
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	query := `SELECT ` + eventColumns + ` FROM events WHERE seq > ? ORDER BY seq`
	args := []any{int64(afterSeq)}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []event.Event
	for rows.Next() {
		evt, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, evt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}

// GetBySeq returns the event at seq.
func (s *Store) GetBySeq(ctx context.Context, seq uint64) (event.Event, error) {
	if s == nil || s.sqlDB == nil {
		return event.Event{}, fmt.Errorf("storage is not configured")
	}
	row := s.sqlDB.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE seq = ?`, int64(seq))
	evt, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return event.Event{}, storage.ErrNotFound
	}
	return evt, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEvent(row scanner) (event.Event, error) {
	var (
		evt       event.Event
		seq       int64
		block     int64
		eventType string
		timestamp int64
	)
	if err := row.Scan(
		&seq,
		&block,
		&eventType,
		&timestamp,
		&evt.ActorID,
		&evt.RequestID,
		&evt.EntityType,
		&evt.EntityID,
		&evt.PayloadJSON,
		&evt.Hash,
		&evt.PrevHash,
		&evt.ChainHash,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return event.Event{}, err
		}
		return event.Event{}, fmt.Errorf("scan event: %w", err)
	}
	evt.Seq = uint64(seq)
	evt.Block = primitive.BlockNumber(block)
	evt.Type = event.Type(eventType)
	evt.Timestamp = fromMillis(timestamp)
	return evt, nil
}

func isConstraintError(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	code := sqliteErr.Code()
	return code == sqlite3.SQLITE_CONSTRAINT || code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
}
