package pipeline

import "github.com/harborline/ordersync/internal/app/ports"

// DefaultBatchSize bounds one bulk-insert request when the caller does not
// override it.
const DefaultBatchSize = 500

// Chunk partitions rows into contiguous batches of at most size rows,
// preserving order. Empty input yields no batches. Non-positive sizes fall
// back to DefaultBatchSize.
func Chunk(rows []ports.WarehouseRow, size int) [][]ports.WarehouseRow {
	if size <= 0 {
		size = DefaultBatchSize
	}
	if len(rows) == 0 {
		return nil
	}
	batches := make([][]ports.WarehouseRow, 0, (len(rows)+size-1)/size)
	for start := 0; start < len(rows); start += size {
		end := start + size
		if end > len(rows) {
			end = len(rows)
		}
		batches = append(batches, rows[start:end])
	}
	return batches
}
