package routes

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/harborline/ordersync/internal/app/ports"
	"github.com/harborline/ordersync/internal/pipeline"
)

const defaultListLimit = 100

// Timestamp fields normalized on the order-read path. Epoch strings and
// numbers are coerced here and nowhere else.
var orderTimestampFields = []string{"created_at", "updated_at"}

// OrderRoutes exposes the order-management passthrough surface: item browsing,
// order placement, and admin reads over synced warehouse data.
type OrderRoutes struct {
	docs       ports.DocumentStore
	catalog    ports.CatalogStore
	collection string
	apiToken   string
}

// NewOrderRoutes constructs the order-management routes.
func NewOrderRoutes(docs ports.DocumentStore, catalog ports.CatalogStore, collection, apiToken string) *OrderRoutes {
	return &OrderRoutes{docs: docs, catalog: catalog, collection: collection, apiToken: apiToken}
}

// RegisterRoutes registers the order-management endpoints.
func (r *OrderRoutes) RegisterRoutes(s *echo.Echo) {
	api := s.Group("/api/v1")

	api.GET("/items", r.handleListItems)
	api.POST("/orders", r.handleCreateOrder)
	api.GET("/orders/:id", r.handleGetOrder)

	admin := api.Group("", BearerAuth(r.apiToken))
	admin.GET("/customers", r.handleListCustomers)
	admin.GET("/agents", r.handleListAgents)
}

func (r *OrderRoutes) handleListItems(c echo.Context) error {
	items, err := r.catalog.ListItems(c.Request().Context(), listLimit(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"ok": false, "message": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]any{"ok": true, "items": emptyIfNil(items)})
}

func (r *OrderRoutes) handleListCustomers(c echo.Context) error {
	customers, err := r.catalog.ListCustomers(c.Request().Context(), listLimit(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"ok": false, "message": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]any{"ok": true, "customers": emptyIfNil(customers)})
}

func (r *OrderRoutes) handleListAgents(c echo.Context) error {
	agents, err := r.catalog.ListAgents(c.Request().Context(), listLimit(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"ok": false, "message": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]any{"ok": true, "agents": emptyIfNil(agents)})
}

func (r *OrderRoutes) handleCreateOrder(c echo.Context) error {
	fields := map[string]any{}
	if err := c.Bind(&fields); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"ok": false, "message": "invalid order payload"})
	}

	customerID, _ := fields["customer_id"].(string)
	itemID, _ := fields["item_id"].(string)
	if strings.TrimSpace(customerID) == "" || strings.TrimSpace(itemID) == "" {
		return c.JSON(http.StatusBadRequest, map[string]any{"ok": false, "message": "customer_id and item_id are required"})
	}

	if _, ok := fields["status"]; !ok {
		fields["status"] = "pending"
	}
	fields["created_at"] = pipeline.FormatInstant(time.Now())

	doc, err := r.docs.CreateDocument(c.Request().Context(), r.collection, fields)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"ok": false, "message": err.Error()})
	}

	return c.JSON(http.StatusCreated, map[string]any{"ok": true, "id": doc.ID, "order": doc.Fields})
}

// handleGetOrder is the one read path that coerces epoch strings and numbers
// in the designated timestamp fields; bulk sync never does.
func (r *OrderRoutes) handleGetOrder(c echo.Context) error {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return c.JSON(http.StatusBadRequest, map[string]any{"ok": false, "message": "order id is required"})
	}

	doc, err := r.docs.GetDocument(c.Request().Context(), r.collection, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, map[string]any{"ok": false, "message": "order not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]any{"ok": false, "message": err.Error()})
	}

	order := make(map[string]any, len(doc.Fields))
	for name, value := range doc.Fields {
		order[name] = pipeline.Normalize(value)
	}
	for _, field := range orderTimestampFields {
		value, ok := doc.Fields[field]
		if !ok || value == nil {
			continue
		}
		if instant, ok := pipeline.CoerceInstant(value); ok {
			order[field] = instant
		}
	}

	return c.JSON(http.StatusOK, map[string]any{"ok": true, "id": doc.ID, "order": order})
}

func listLimit(c echo.Context) int {
	raw := strings.TrimSpace(c.QueryParam("limit"))
	if raw == "" {
		return defaultListLimit
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return defaultListLimit
	}
	return value
}

func emptyIfNil(records []map[string]any) []map[string]any {
	if records == nil {
		return []map[string]any{}
	}
	return records
}
