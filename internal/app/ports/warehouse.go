package ports

import (
	"context"
	"fmt"
	"strings"
)

// TableRef identifies one warehouse table.
type TableRef struct {
	Project string
	Dataset string
	Table   string
}

// Validate reports the first blank identifier.
func (t TableRef) Validate() error {
	if strings.TrimSpace(t.Project) == "" {
		return fmt.Errorf("warehouse project is required")
	}
	if strings.TrimSpace(t.Dataset) == "" {
		return fmt.Errorf("warehouse dataset is required")
	}
	if strings.TrimSpace(t.Table) == "" {
		return fmt.Errorf("warehouse table is required")
	}
	return nil
}

func (t TableRef) String() string {
	return t.Project + "." + t.Dataset + "." + t.Table
}

// WarehouseRow is one insert-ready row. InsertID is the idempotency key the
// warehouse deduplicates repeated inserts by.
type WarehouseRow struct {
	InsertID string
	JSON     map[string]any
}

// InsertOptions tunes one bulk-insert request.
type InsertOptions struct {
	// IgnoreUnknownValues keeps a batch alive when rows carry fields the
	// target table does not know about.
	IgnoreUnknownValues bool
}

// RowError is one row-level failure descriptor reported by the warehouse.
type RowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// InsertFailure is the structured failure produced at the warehouse-client
// boundary. RowErrors is optional; Message is always set.
type InsertFailure struct {
	Message   string
	RowErrors []RowError
}

func (e *InsertFailure) Error() string {
	if len(e.RowErrors) > 0 {
		return fmt.Sprintf("%s (%d row errors)", e.Message, len(e.RowErrors))
	}
	return e.Message
}

// WarehouseClient is the bulk-insert contract the sync pipeline depends on.
// Implementations must return *InsertFailure for insert rejections so callers
// can recover row-level descriptors.
type WarehouseClient interface {
	InsertRows(ctx context.Context, table TableRef, rows []WarehouseRow, opts InsertOptions) error
}
