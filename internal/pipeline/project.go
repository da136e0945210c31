package pipeline

import (
	"time"

	"github.com/harborline/ordersync/internal/app/ports"
)

// Synchronization metadata attached to every projected row.
const (
	MetaDocIDField      = "source_doc_id"
	MetaCollectionField = "source_collection"
	MetaSyncedAtField   = "synced_at"
)

// Projector maps source documents to warehouse-ready rows.
type Projector struct {
	now func() time.Time
}

// NewProjector constructs a wall-clock projector.
func NewProjector() *Projector {
	return &Projector{now: time.Now}
}

// NewProjectorWithClock constructs a projector with an injected clock.
func NewProjectorWithClock(now func() time.Time) *Projector {
	return &Projector{now: now}
}

// Project normalizes every document field and attaches sync metadata. The
// insert identifier is the document id, so re-projecting the same document
// always dedups at the warehouse.
func (p *Projector) Project(doc ports.SourceDocument) ports.WarehouseRow {
	row := make(map[string]any, len(doc.Fields)+3)
	for name, value := range doc.Fields {
		row[name] = Normalize(value)
	}
	row[MetaDocIDField] = doc.ID
	row[MetaCollectionField] = doc.Path
	row[MetaSyncedAtField] = FormatInstant(p.now())

	return ports.WarehouseRow{
		InsertID: doc.ID,
		JSON:     row,
	}
}
