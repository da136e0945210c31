package ports

import "context"

// CatalogStore serves the administrative read surface over synced warehouse
// data. Rows are returned as decoded JSON objects; the route layer is a plain
// passthrough.
type CatalogStore interface {
	ListItems(ctx context.Context, limit int) ([]map[string]any, error)
	ListCustomers(ctx context.Context, limit int) ([]map[string]any, error)
	ListAgents(ctx context.Context, limit int) ([]map[string]any, error)
}
