// Package api wires the HTTP surface of the converter service.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/spherical/pdf-converter/internal/api/handlers"
	"github.com/spherical/pdf-converter/internal/api/middleware"
	"github.com/spherical/pdf-converter/internal/observability"
	"github.com/spherical/pdf-converter/internal/upload"
	"github.com/spherical/pdf-converter/internal/workspace"
)

// Dependencies are the collaborators the router hands to its handlers.
type Dependencies struct {
	Workspace      *workspace.Workspace
	Store          *upload.Store
	Resolver       handlers.Resolver
	Formats        []string
	ConvertTimeout time.Duration
	AllowedOrigins []string
	ServiceName    string
}

// NewRouter creates the API router with all routes configured.
func NewRouter(logger *observability.Logger, deps Dependencies) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestContext)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(deps.AllowedOrigins))

	info := handlers.NewInfoHandler(deps.ServiceName, deps.Formats)
	convert := handlers.NewConvertHandler(logger, deps.Store, deps.Workspace, deps.Resolver, deps.ConvertTimeout)

	r.Get("/", info.Index)
	r.Get("/health", info.Health)
	r.Get("/formats", info.Formats)
	r.Post("/convert", convert.Convert)

	return r
}
