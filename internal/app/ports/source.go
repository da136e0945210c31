package ports

import (
	"context"
	"time"
)

// SourceDocument is one document read from the document store. Field values
// are opaque to callers and may contain nested maps, arrays, primitives, and
// timestamp shapes.
type SourceDocument struct {
	ID     string
	Path   string
	Fields map[string]any
}

// Timestamp is the document store's native point-in-time representation.
type Timestamp struct {
	Seconds int64
	Nanos   int32
}

// DocumentQuery describes one bounded, ordered read of a collection.
type DocumentQuery struct {
	Collection string
	OrderBy    string
	Since      *time.Time
	Limit      int
}

// DocumentSource is the read contract the sync pipeline depends on.
type DocumentSource interface {
	Query(ctx context.Context, query DocumentQuery) ([]SourceDocument, error)
}

// DocumentStore is the single-document contract the order surface depends on.
type DocumentStore interface {
	GetDocument(ctx context.Context, collection, id string) (SourceDocument, error)
	CreateDocument(ctx context.Context, collection string, fields map[string]any) (SourceDocument, error)
}
