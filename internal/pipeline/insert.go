package pipeline

import (
	"context"
	"errors"
	"log/slog"

	"github.com/harborline/ordersync/internal/app/ports"
)

// BatchResult summarizes one submitted batch.
type BatchResult struct {
	Index      int              `json:"index"`
	Requested  int              `json:"requested"`
	Successful int              `json:"successful"`
	Errors     []ports.RowError `json:"errors,omitempty"`
}

// Summary aggregates one full insert run.
type Summary struct {
	TotalFetched  int           `json:"totalFetched"`
	TotalInserted int           `json:"totalInserted"`
	TotalErrors   int           `json:"totalErrors"`
	Batches       []BatchResult `json:"batches"`
}

// BulkInserter submits batches to the warehouse one at a time.
type BulkInserter struct {
	client ports.WarehouseClient
	log    *slog.Logger
}

// NewBulkInserter constructs an inserter over the given warehouse client.
func NewBulkInserter(client ports.WarehouseClient, log *slog.Logger) *BulkInserter {
	if log == nil {
		log = slog.Default()
	}
	return &BulkInserter{client: client, log: log}
}

// InsertAll submits every batch sequentially against the target table. A
// failed batch is recorded with its row-level descriptors and never aborts
// the remaining batches; the summary accounts for every row either way.
func (b *BulkInserter) InsertAll(ctx context.Context, table ports.TableRef, batches [][]ports.WarehouseRow) Summary {
	summary := Summary{Batches: make([]BatchResult, 0, len(batches))}

	for index, batch := range batches {
		result := BatchResult{Index: index, Requested: len(batch)}
		summary.TotalFetched += len(batch)

		err := b.client.InsertRows(ctx, table, batch, ports.InsertOptions{IgnoreUnknownValues: true})
		if err == nil {
			result.Successful = len(batch)
			summary.TotalInserted += len(batch)
			summary.Batches = append(summary.Batches, result)
			continue
		}

		result.Errors = rowErrors(err)
		errorCount := len(result.Errors)
		if errorCount == 0 {
			result.Errors = []ports.RowError{{Row: 0, Reason: err.Error()}}
			errorCount = 1
		}
		summary.TotalErrors += errorCount
		summary.Batches = append(summary.Batches, result)

		b.log.WarnContext(ctx, "batch insert failed",
			"table", table.String(),
			"batch", index,
			"rows", len(batch),
			"errors", errorCount,
		)
	}

	return summary
}

func rowErrors(err error) []ports.RowError {
	var failure *ports.InsertFailure
	if errors.As(err, &failure) {
		return failure.RowErrors
	}
	return nil
}
