// Package sqlite persists node coordinates in a SQLite database.
//
// A PositionStore keeps one row per (layout, node). Coordinates are
// collected by a Batch, which implements hive.Sink, and written in a
// single transaction on Commit, so a failed pass never leaves a partially
// updated layout behind.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/matzehuels/hiveplot/pkg/hive"
)

// PositionStore stores hive plot coordinates in SQLite.
type PositionStore struct {
	db *sql.DB
}

// New opens (creating if necessary) the database at path and applies the
// schema. Use ":memory:" for a private in-memory database.
func New(path string) (*PositionStore, error) {
	dsn := path
	if path != ":memory:" {
		dsn = "file:" + path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite allows one writer; a single connection also keeps an
	// in-memory database alive for the lifetime of the store.
	db.SetMaxOpenConns(1)

	s := &PositionStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

func (s *PositionStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS positions (
		layout_id TEXT NOT NULL,
		node_id TEXT NOT NULL,
		x REAL NOT NULL,
		y REAL NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (layout_id, node_id)
	);

	CREATE INDEX IF NOT EXISTS idx_positions_node ON positions(node_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database.
func (s *PositionStore) Close() error {
	return s.db.Close()
}

// Batch returns a sink that buffers coordinates for layoutID until Commit.
func (s *PositionStore) Batch(layoutID string) *Batch {
	return &Batch{store: s, layoutID: layoutID}
}

// Positions returns the stored coordinates of a layout keyed by node ID.
// An unknown layout yields an empty map.
func (s *PositionStore) Positions(ctx context.Context, layoutID string) (hive.Collect, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT node_id, x, y FROM positions WHERE layout_id = ?
	`, layoutID)
	if err != nil {
		return nil, fmt.Errorf("failed to query positions: %w", err)
	}
	defer rows.Close()

	out := make(hive.Collect)
	for rows.Next() {
		var (
			id   string
			x, y float64
		)
		if err := rows.Scan(&id, &x, &y); err != nil {
			return nil, fmt.Errorf("failed to scan position: %w", err)
		}
		out[id] = hive.Point{X: x, Y: y}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating positions: %w", err)
	}
	return out, nil
}

// Layouts lists the IDs of every stored layout in ascending order.
func (s *PositionStore) Layouts(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT layout_id FROM positions ORDER BY layout_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query layouts: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan layout id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// DeleteLayout removes every coordinate stored for layoutID.
func (s *PositionStore) DeleteLayout(ctx context.Context, layoutID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM positions WHERE layout_id = ?`, layoutID); err != nil {
		return fmt.Errorf("failed to delete layout: %w", err)
	}
	return nil
}

// upsert writes positions for one layout in a single transaction.
func (s *PositionStore) upsert(ctx context.Context, layoutID string, points []point) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO positions (layout_id, node_id, x, y, updated_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(layout_id, node_id) DO UPDATE SET
			x = excluded.x,
			y = excluded.y,
			updated_at = CURRENT_TIMESTAMP
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, p := range points {
		if _, err := stmt.ExecContext(ctx, layoutID, p.id, p.x, p.y); err != nil {
			return fmt.Errorf("failed to upsert position for %s: %w", p.id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

type point struct {
	id   string
	x, y float64
}

// Batch buffers coordinates for one layout. It is safe for concurrent use.
type Batch struct {
	store    *PositionStore
	layoutID string

	mu      sync.Mutex
	pending []point
}

// SetCoordinate implements hive.Sink.
func (b *Batch) SetCoordinate(id string, x, y float64) {
	b.mu.Lock()
	b.pending = append(b.pending, point{id: id, x: x, y: y})
	b.mu.Unlock()
}

// Len returns the number of buffered coordinates.
func (b *Batch) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}

// Commit writes the buffered coordinates and clears the buffer. On error
// nothing is written and the buffer is kept.
func (b *Batch) Commit(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.pending) == 0 {
		return nil
	}
	if err := b.store.upsert(ctx, b.layoutID, b.pending); err != nil {
		return err
	}
	b.pending = nil
	return nil
}

var _ hive.Sink = (*Batch)(nil)
