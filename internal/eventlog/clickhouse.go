// Package eventlog persists domain events from NATS into ClickHouse.
package eventlog

import (
	"context"
	"database/sql"
	"log"
	"time"

	"worksync/internal/events"
)

const createTableSQL = `CREATE TABLE IF NOT EXISTS worksync_events (
	Event      String,
	Entity     String,
	EntityId   UInt64,
	ActorId    UInt64,
	Data       String,
	OccurredAt DateTime,
	LoggedAt   DateTime
) ENGINE = MergeTree()
ORDER BY (Entity, OccurredAt)`

const insertSQL = `INSERT INTO worksync_events (Event, Entity, EntityId, ActorId, Data, OccurredAt, LoggedAt) VALUES (?, ?, ?, ?, ?, ?, ?)`

// ClickhouseRepo batch-writes events through database/sql and the clickhouse driver.
type ClickhouseRepo struct {
	db  *sql.DB
	now func() time.Time
}

func NewClickhouseRepo(db *sql.DB) *ClickhouseRepo {
	return &ClickhouseRepo{db: db, now: time.Now}
}

// EnsureSchema creates the events table if it does not exist.
func (r *ClickhouseRepo) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, createTableSQL)
	return err
}

// BatchInsert writes all events in one block. clickhouse-go collects the Exec calls
// made on a prepared statement and sends them on Commit.
func (r *ClickhouseRepo) BatchInsert(ctx context.Context, batch []events.Event) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, insertSQL)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer func() { _ = stmt.Close() }()

	loggedAt := r.now().UTC()
	for _, e := range batch {
		data := string(e.Data)
		if data == "" {
			data = "{}"
		}
		if _, err := stmt.ExecContext(ctx,
			e.Event, e.Entity, uint64(e.EntityID), uint64(e.ActorID),
			data, e.OccurredAt.UTC(), loggedAt,
		); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	log.Printf("Inserted %d events into ClickHouse", len(batch))
	return nil
}
