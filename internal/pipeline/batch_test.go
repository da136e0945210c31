package pipeline

import (
	"fmt"
	"testing"

	"github.com/harborline/ordersync/internal/app/ports"
)

func makeRows(n int) []ports.WarehouseRow {
	rows := make([]ports.WarehouseRow, n)
	for i := range rows {
		rows[i] = ports.WarehouseRow{InsertID: fmt.Sprintf("doc-%d", i)}
	}
	return rows
}

func TestChunkPartitionLaw(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		rows int
		size int
	}{
		{rows: 0, size: 2},
		{rows: 1, size: 2},
		{rows: 2, size: 2},
		{rows: 3, size: 2},
		{rows: 500, size: 500},
		{rows: 501, size: 500},
		{rows: 7, size: 1},
	} {
		batches := Chunk(makeRows(tc.rows), tc.size)

		total := 0
		for i, batch := range batches {
			if i < len(batches)-1 && len(batch) != tc.size {
				t.Fatalf("rows=%d size=%d: batch %d has %d rows, want %d", tc.rows, tc.size, i, len(batch), tc.size)
			}
			if len(batch) == 0 || len(batch) > tc.size {
				t.Fatalf("rows=%d size=%d: batch %d has invalid length %d", tc.rows, tc.size, i, len(batch))
			}
			for _, row := range batch {
				if row.InsertID != fmt.Sprintf("doc-%d", total) {
					t.Fatalf("rows=%d size=%d: row order broken at %d: %s", tc.rows, tc.size, total, row.InsertID)
				}
				total++
			}
		}
		if total != tc.rows {
			t.Fatalf("rows=%d size=%d: concatenated %d rows", tc.rows, tc.size, total)
		}
	}
}

func TestChunkEmptyInputYieldsNoBatches(t *testing.T) {
	t.Parallel()

	if batches := Chunk(nil, 10); len(batches) != 0 {
		t.Fatalf("expected no batches for empty input, got %d", len(batches))
	}
}

func TestChunkNonPositiveSizeFallsBackToDefault(t *testing.T) {
	t.Parallel()

	batches := Chunk(makeRows(DefaultBatchSize+1), 0)
	if len(batches) != 2 {
		t.Fatalf("expected 2 batches at default size, got %d", len(batches))
	}
	if len(batches[0]) != DefaultBatchSize || len(batches[1]) != 1 {
		t.Fatalf("unexpected batch shapes: %d, %d", len(batches[0]), len(batches[1]))
	}
}
