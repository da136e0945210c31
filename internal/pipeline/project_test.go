package pipeline

import (
	"testing"
	"time"

	"github.com/harborline/ordersync/internal/app/ports"
)

func TestProjectAttachesMetadataAndInsertID(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 5, 20, 10, 0, 0, 0, time.UTC)
	projector := NewProjectorWithClock(func() time.Time { return now })

	row := projector.Project(ports.SourceDocument{
		ID:   "order-1",
		Path: "orders/order-1",
		Fields: map[string]any{
			"status":     "pending",
			"created_at": ports.Timestamp{Seconds: 1700000000},
		},
	})

	if row.InsertID != "order-1" {
		t.Fatalf("insert id = %q, want document id", row.InsertID)
	}
	if row.JSON[MetaDocIDField] != "order-1" {
		t.Fatalf("missing doc id metadata: %v", row.JSON[MetaDocIDField])
	}
	if row.JSON[MetaCollectionField] != "orders/order-1" {
		t.Fatalf("missing collection metadata: %v", row.JSON[MetaCollectionField])
	}
	if row.JSON[MetaSyncedAtField] != "2024-05-20T10:00:00.000Z" {
		t.Fatalf("unexpected synced_at: %v", row.JSON[MetaSyncedAtField])
	}
	if row.JSON["status"] != "pending" {
		t.Fatalf("field dropped: %v", row.JSON["status"])
	}
	if row.JSON["created_at"] != "2023-11-14T22:13:20.000Z" {
		t.Fatalf("field not normalized: %v", row.JSON["created_at"])
	}
}

func TestReprojectingKeepsInsertIDStable(t *testing.T) {
	t.Parallel()

	doc := ports.SourceDocument{ID: "order-2", Path: "orders/order-2", Fields: map[string]any{"n": 1}}

	clock := time.Date(2024, 5, 20, 10, 0, 0, 0, time.UTC)
	projector := NewProjectorWithClock(func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	})

	first := projector.Project(doc)
	second := projector.Project(doc)

	if first.InsertID != second.InsertID {
		t.Fatalf("insert ids differ across projections: %q vs %q", first.InsertID, second.InsertID)
	}
	if first.JSON[MetaSyncedAtField] == second.JSON[MetaSyncedAtField] {
		t.Fatal("expected synced_at to move between projections")
	}
}
