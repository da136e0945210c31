package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/harborline/ordersync/internal/app/ports"
	"github.com/harborline/ordersync/internal/db"
)

// Warehouse is the SQLite-backed warehouse client used for local development
// and tests. Inserts are idempotent by insert identifier: replaying a row with
// a known id is a no-op, mirroring warehouse-side best-effort dedup.
type Warehouse struct {
	db *sql.DB
}

// NewWarehouse constructs a warehouse client over the shared database handle.
func NewWarehouse(database *db.Database) *Warehouse {
	return &Warehouse{db: database.DB()}
}

// InsertRows submits one batch. Failures come back as *ports.InsertFailure so
// callers can recover row-level descriptors. Rows are stored as opaque JSON
// payloads, so unknown fields never reject a batch regardless of options.
func (w *Warehouse) InsertRows(ctx context.Context, table ports.TableRef, rows []ports.WarehouseRow, _ ports.InsertOptions) error {
	if len(rows) == 0 {
		return nil
	}

	payloads := make([]string, len(rows))
	var rowErrors []ports.RowError
	for i, row := range rows {
		raw, err := json.Marshal(row.JSON)
		if err != nil {
			rowErrors = append(rowErrors, ports.RowError{Row: i, Reason: err.Error()})
			continue
		}
		payloads[i] = string(raw)
	}
	if len(rowErrors) > 0 {
		return &ports.InsertFailure{Message: "row serialization failed", RowErrors: rowErrors}
	}

	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return &ports.InsertFailure{Message: fmt.Sprintf("begin insert transaction: %v", err)}
	}

	syncedAt := time.Now().UTC().Format(time.RFC3339Nano)
	for i, row := range rows {
		_, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO warehouse_rows (project, dataset, table_name, insert_id, payload, synced_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			table.Project, table.Dataset, table.Table, row.InsertID, payloads[i], syncedAt,
		)
		if err != nil {
			_ = tx.Rollback()
			return &ports.InsertFailure{
				Message:   fmt.Sprintf("insert into %s: %v", table.String(), err),
				RowErrors: []ports.RowError{{Row: i, Reason: err.Error()}},
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return &ports.InsertFailure{Message: fmt.Sprintf("commit insert into %s: %v", table.String(), err)}
	}
	return nil
}
