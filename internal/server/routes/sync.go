package routes

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/harborline/ordersync/internal/pipeline"
)

// SyncDefaults carries per-deployment fallbacks for run options.
type SyncDefaults struct {
	Limit     int
	BatchSize int
}

// SyncRoutes exposes the order sync trigger surface.
type SyncRoutes struct {
	orchestrator *pipeline.Orchestrator
	defaults     SyncDefaults
	apiToken     string
}

// NewSyncRoutes constructs the sync trigger routes.
func NewSyncRoutes(orchestrator *pipeline.Orchestrator, defaults SyncDefaults, apiToken string) *SyncRoutes {
	return &SyncRoutes{orchestrator: orchestrator, defaults: defaults, apiToken: apiToken}
}

// RegisterRoutes registers the sync endpoints.
func (r *SyncRoutes) RegisterRoutes(s *echo.Echo) {
	grp := s.Group("/api/v1/sync", BearerAuth(r.apiToken))
	grp.GET("/orders", r.handleAck)
	grp.POST("/orders", r.handleTrigger)
}

type syncRequest struct {
	Limit     *int    `json:"limit"`
	Since     *string `json:"since"`
	BatchSize *int    `json:"batchSize"`
}

type syncResponse struct {
	OK            bool              `json:"ok"`
	Fetched       int               `json:"fetched"`
	InsertSummary *pipeline.Summary `json:"insertSummary,omitempty"`
	Message       string            `json:"message,omitempty"`
}

func (r *SyncRoutes) handleAck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"ok":      true,
		"message": "order sync ready; POST to trigger a run",
	})
}

// handleTrigger runs one synchronization. Options come from query parameters
// with JSON body values taking precedence.
func (r *SyncRoutes) handleTrigger(c echo.Context) error {
	opts := pipeline.Options{
		Limit:     r.defaults.Limit,
		BatchSize: r.defaults.BatchSize,
	}

	if message, ok := applyQueryOptions(c, &opts); !ok {
		return c.JSON(http.StatusBadRequest, syncResponse{Message: message})
	}
	if message, ok := applyBodyOptions(c, &opts); !ok {
		return c.JSON(http.StatusBadRequest, syncResponse{Message: message})
	}

	result, err := r.orchestrator.Run(c.Request().Context(), opts)
	if err != nil {
		status := http.StatusInternalServerError
		if pipeline.ClassifyRunError(err) == pipeline.RunErrorValidation {
			status = http.StatusBadRequest
		}
		return c.JSON(status, syncResponse{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, syncResponse{
		OK:            result.OK,
		Fetched:       result.Fetched,
		InsertSummary: result.InsertSummary,
	})
}

func applyQueryOptions(c echo.Context, opts *pipeline.Options) (string, bool) {
	if raw := strings.TrimSpace(c.QueryParam("limit")); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value <= 0 {
			return "limit must be a positive integer", false
		}
		opts.Limit = value
	}
	if raw := strings.TrimSpace(c.QueryParam("batchSize")); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value <= 0 {
			return "batchSize must be a positive integer", false
		}
		opts.BatchSize = value
	}
	if raw := strings.TrimSpace(c.QueryParam("since")); raw != "" {
		opts.Since = raw
	}
	return "", true
}

func applyBodyOptions(c echo.Context, opts *pipeline.Options) (string, bool) {
	request := c.Request()
	if request.Body == nil || request.ContentLength == 0 {
		return "", true
	}

	var body syncRequest
	decoder := json.NewDecoder(request.Body)
	if err := decoder.Decode(&body); err != nil {
		return "invalid request body", false
	}

	if body.Limit != nil {
		if *body.Limit <= 0 {
			return "limit must be a positive integer", false
		}
		opts.Limit = *body.Limit
	}
	if body.BatchSize != nil {
		if *body.BatchSize <= 0 {
			return "batchSize must be a positive integer", false
		}
		opts.BatchSize = *body.BatchSize
	}
	if body.Since != nil {
		opts.Since = strings.TrimSpace(*body.Since)
	}
	return "", true
}
