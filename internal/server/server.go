package server

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	slogecho "github.com/samber/slog-echo"

	"github.com/harborline/ordersync/internal/observability"
)

// RouteRegister registers Echo routes.
type RouteRegister interface {
	RegisterRoutes(s *echo.Echo)
}

// Server holds the Echo instance.
type Server struct {
	e *echo.Echo
}

// New creates a new server instance.
func New(log *slog.Logger) *Server {
	e := echo.New()

	e.HideBanner = true
	e.HidePort = true

	e.Use(observability.EchoMiddleware())
	e.Use(middleware.RequestID())
	e.Use(observability.EchoSpanEnrichmentMiddleware())
	e.Use(slogecho.New(log))
	e.Use(middleware.Recover())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	return &Server{
		e: e,
	}
}

// RegisterRouter attaches a route registrar.
func (s *Server) RegisterRouter(r RouteRegister) {
	r.RegisterRoutes(s.e)
}

// Start runs the HTTP server.
func (s *Server) Start(addr string) error {
	return s.e.Start(addr)
}
