package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/harborline/ordersync/internal/app/ports"
	"github.com/harborline/ordersync/internal/db"
)

// Store is the SQLite-backed document store used for local development and
// tests. It satisfies both ports.DocumentSource and ports.DocumentStore.
type Store struct {
	db *sql.DB
}

// NewStore constructs a document store over the shared database handle.
func NewStore(database *db.Database) *Store {
	return &Store{db: database.DB()}
}

// Query returns documents of one collection ordered by their designated
// timestamp ascending, optionally bounded below by since, capped at limit.
func (s *Store) Query(ctx context.Context, query ports.DocumentQuery) ([]ports.SourceDocument, error) {
	if query.Limit <= 0 {
		return nil, fmt.Errorf("query limit must be positive, got %d", query.Limit)
	}

	args := []any{query.Collection}
	stmt := `SELECT doc_id, fields FROM documents WHERE collection = ?`
	if query.Since != nil {
		stmt += ` AND created_at >= ?`
		args = append(args, query.Since.UTC().Format(time.RFC3339Nano))
	}
	stmt += ` ORDER BY created_at ASC LIMIT ?`
	args = append(args, query.Limit)

	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var documents []ports.SourceDocument
	for rows.Next() {
		var id, rawFields string
		if err := rows.Scan(&id, &rawFields); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		doc, err := decodeDocument(query.Collection, id, rawFields)
		if err != nil {
			return nil, err
		}
		documents = append(documents, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	return documents, nil
}

// GetDocument fetches one document by collection and id.
func (s *Store) GetDocument(ctx context.Context, collection, id string) (ports.SourceDocument, error) {
	var rawFields string
	err := s.db.QueryRowContext(ctx,
		`SELECT fields FROM documents WHERE collection = ? AND doc_id = ?`,
		collection, id,
	).Scan(&rawFields)
	if err != nil {
		return ports.SourceDocument{}, err
	}
	return decodeDocument(collection, id, rawFields)
}

// CreateDocument stores a new document with a generated identifier. The
// created_at column carries the designated sync timestamp.
func (s *Store) CreateDocument(ctx context.Context, collection string, fields map[string]any) (ports.SourceDocument, error) {
	raw, err := json.Marshal(fields)
	if err != nil {
		return ports.SourceDocument{}, fmt.Errorf("encode document fields: %w", err)
	}

	id := uuid.NewString()
	createdAt := time.Now().UTC().Format(time.RFC3339Nano)
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO documents (collection, doc_id, fields, created_at) VALUES (?, ?, ?, ?)`,
		collection, id, string(raw), createdAt,
	)
	if err != nil {
		return ports.SourceDocument{}, fmt.Errorf("insert document: %w", err)
	}

	return decodeDocument(collection, id, string(raw))
}

func decodeDocument(collection, id, rawFields string) (ports.SourceDocument, error) {
	fields := map[string]any{}
	if err := json.Unmarshal([]byte(rawFields), &fields); err != nil {
		return ports.SourceDocument{}, fmt.Errorf("decode document %s/%s: %w", collection, id, err)
	}
	return ports.SourceDocument{
		ID:     id,
		Path:   collection + "/" + id,
		Fields: fields,
	}, nil
}
