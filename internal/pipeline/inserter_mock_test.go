package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/harborline/ordersync/internal/app/ports"
)

type mockWarehouseClient struct {
	mock.Mock
}

func (m *mockWarehouseClient) InsertRows(ctx context.Context, table ports.TableRef, rows []ports.WarehouseRow, opts ports.InsertOptions) error {
	args := m.Called(ctx, table, rows, opts)
	return args.Error(0)
}

func TestInsertAllForwardsTableAndOptions(t *testing.T) {
	t.Parallel()

	table := ports.TableRef{Project: "local", Dataset: "analytics", Table: "orders"}
	batch := makeRows(2)

	client := &mockWarehouseClient{}
	client.On("InsertRows", mock.Anything, table, batch, ports.InsertOptions{IgnoreUnknownValues: true}).
		Return(nil).Once()

	inserter := NewBulkInserter(client, nil)
	summary := inserter.InsertAll(context.Background(), table, [][]ports.WarehouseRow{batch})

	client.AssertExpectations(t)
	if summary.TotalInserted != 2 {
		t.Fatalf("inserted = %d, want 2", summary.TotalInserted)
	}
}
