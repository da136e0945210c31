package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/harborline/ordersync/internal/db"
)

// Warehouse tables served by the admin read surface.
const (
	itemsTable     = "items"
	customersTable = "customers"
	agentsTable    = "agents"
)

// Catalog serves admin reads over synced warehouse rows.
type Catalog struct {
	db      *sql.DB
	project string
	dataset string
}

// NewCatalog constructs a catalog store scoped to one warehouse dataset.
func NewCatalog(database *db.Database, project, dataset string) *Catalog {
	return &Catalog{db: database.DB(), project: project, dataset: dataset}
}

// ListItems returns inventory rows.
func (c *Catalog) ListItems(ctx context.Context, limit int) ([]map[string]any, error) {
	return c.list(ctx, itemsTable, limit)
}

// ListCustomers returns customer rows.
func (c *Catalog) ListCustomers(ctx context.Context, limit int) ([]map[string]any, error) {
	return c.list(ctx, customersTable, limit)
}

// ListAgents returns agent/broker rows.
func (c *Catalog) ListAgents(ctx context.Context, limit int) ([]map[string]any, error) {
	return c.list(ctx, agentsTable, limit)
}

func (c *Catalog) list(ctx context.Context, tableName string, limit int) ([]map[string]any, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := c.db.QueryContext(ctx,
		`SELECT payload FROM warehouse_rows
		 WHERE project = ? AND dataset = ? AND table_name = ?
		 ORDER BY insert_id LIMIT ?`,
		c.project, c.dataset, tableName, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", tableName, err)
	}
	defer func() { _ = rows.Close() }()

	var records []map[string]any
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan %s row: %w", tableName, err)
		}
		record := map[string]any{}
		if err := json.Unmarshal([]byte(payload), &record); err != nil {
			return nil, fmt.Errorf("decode %s row: %w", tableName, err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s rows: %w", tableName, err)
	}
	return records, nil
}
