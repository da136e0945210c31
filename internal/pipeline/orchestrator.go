package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/harborline/ordersync/internal/app/ports"
	"github.com/harborline/ordersync/internal/observability"
)

// DefaultReadLimit bounds one source read when the caller does not override it.
const DefaultReadLimit = 1000

// Target is the fixed source/destination configuration of one pipeline.
type Target struct {
	Collection string
	OrderBy    string
	Table      ports.TableRef
}

// Validate fails fast on blank identifiers before any work is attempted.
func (t Target) Validate() error {
	if strings.TrimSpace(t.Collection) == "" {
		return fmt.Errorf("%w: source collection is blank", ErrMissingTarget)
	}
	if strings.TrimSpace(t.OrderBy) == "" {
		return fmt.Errorf("%w: order-by field is blank", ErrMissingTarget)
	}
	if err := t.Table.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrMissingTarget, err)
	}
	return nil
}

// Options are per-run overrides; zero values fall back to defaults.
type Options struct {
	Limit     int
	Since     string
	BatchSize int
}

// Result is the envelope returned to the trigger surface.
type Result struct {
	OK            bool     `json:"ok"`
	Fetched       int      `json:"fetched"`
	InsertSummary *Summary `json:"insertSummary,omitempty"`
}

// Orchestrator drives one read-project-batch-insert run.
type Orchestrator struct {
	source    ports.DocumentSource
	target    Target
	projector *Projector
	inserter  *BulkInserter
	log       *slog.Logger
}

// NewOrchestrator wires a pipeline over the injected source and warehouse
// client. The client handle is owned by the caller and shared across runs.
func NewOrchestrator(source ports.DocumentSource, client ports.WarehouseClient, target Target, log *slog.Logger) *Orchestrator {
	if log == nil {
		log = slog.Default()
	}
	return &Orchestrator{
		source:    source,
		target:    target,
		projector: NewProjector(),
		inserter:  NewBulkInserter(client, log),
		log:       log,
	}
}

var sinceLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"}

// Run executes one synchronization. Configuration and read failures are fatal
// and nothing is written; insert failures are absorbed per batch into the
// returned summary.
func (o *Orchestrator) Run(ctx context.Context, opts Options) (Result, error) {
	if err := o.target.Validate(); err != nil {
		return Result{}, err
	}

	since, err := parseSince(opts.Since)
	if err != nil {
		return Result{}, err
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultReadLimit
	}
	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	runID := uuid.NewString()
	ctx, span := observability.StartSyncSpan(ctx, o.target.Collection, o.target.Table.String(), runID)
	defer span.End()

	documents, err := o.source.Query(ctx, ports.DocumentQuery{
		Collection: o.target.Collection,
		OrderBy:    o.target.OrderBy,
		Since:      since,
		Limit:      limit,
	})
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrSourceRead, err)
		span.RecordError(err)
		return Result{}, err
	}
	if len(documents) == 0 {
		o.log.InfoContext(ctx, "sync found no documents", "run_id", runID, "collection", o.target.Collection)
		return Result{OK: true, Fetched: 0}, nil
	}

	rows := make([]ports.WarehouseRow, len(documents))
	for i, doc := range documents {
		rows[i] = o.projector.Project(doc)
	}

	batches := Chunk(rows, batchSize)
	summary := o.inserter.InsertAll(ctx, o.target.Table, batches)

	o.log.InfoContext(ctx, "sync run complete",
		"run_id", runID,
		"collection", o.target.Collection,
		"table", o.target.Table.String(),
		"fetched", len(documents),
		"inserted", summary.TotalInserted,
		"errors", summary.TotalErrors,
	)

	return Result{OK: true, Fetched: len(documents), InsertSummary: &summary}, nil
}

func parseSince(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range sinceLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrInvalidSince, raw)
}
