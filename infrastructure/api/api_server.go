package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/campuslist/campuslist"
	apimiddleware "github.com/campuslist/campuslist/infrastructure/api/middleware"
	v1 "github.com/campuslist/campuslist/infrastructure/api/v1"
)

// APIServer provides an HTTP API backed by a campuslist Client.
type APIServer struct {
	client       *campuslist.Client
	server       *Server
	router       chi.Router
	routerCalled bool
	logger       *slog.Logger
}

// NewAPIServer creates a new APIServer wired to the given Client.
// The client's API keys protect /api routes through the X-API-Key
// header; with no keys configured the API is open. Health and image
// endpoints are always open.
func NewAPIServer(client *campuslist.Client) *APIServer {
	return &APIServer{
		client: client,
		logger: client.Logger(),
	}
}

// Router returns the chi router for customization before starting.
// Call this first, add custom middleware with router.Use(), then call
// MountRoutes(). If not called, ListenAndServe creates a default router
// with all standard routes.
func (a *APIServer) Router() chi.Router {
	if a.router != nil {
		return a.router
	}

	a.router = chi.NewRouter()
	a.routerCalled = true
	return a.router
}

// MountRoutes wires up all routes on the router. Call this after adding
// any custom middleware via Router().Use().
func (a *APIServer) MountRoutes() {
	if a.router == nil {
		a.Router()
	}
	a.mountRoutes(a.router)
}

func (a *APIServer) mountRoutes(router chi.Router) {
	c := a.client

	universitiesRouter := v1.NewUniversitiesRouter(c)
	majorsRouter := v1.NewMajorsRouter(c)
	statesRouter := v1.NewStatesRouter(c)

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(chimiddleware.Timeout(60 * time.Second))
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-API-Key"},
			MaxAge:         300,
		}))
		r.Use(apimiddleware.APIKeyAuth(c.APIKeys()))

		r.Mount("/universities", universitiesRouter.Routes())
		r.Mount("/majors", majorsRouter.Routes())
		r.Mount("/states", statesRouter.Routes())
	})

	// The image endpoint stays outside /api/v1: it is unauthenticated
	// and exempt from the request timeout.
	router.Get("/img/{mediaID}", a.imageHandler())

	router.Get("/health", healthHandler)
	router.Get("/healthz", healthHandler)
}

// ListenAndServe starts the HTTP server on the given address.
func (a *APIServer) ListenAndServe(addr string) error {
	server := NewServer(addr, a.logger)
	a.server = &server

	if a.routerCalled && a.router != nil {
		server.Router().Mount("/", a.router)
	} else {
		a.mountRoutes(server.Router())
	}

	return server.Start()
}

// Shutdown gracefully shuts down the server.
func (a *APIServer) Shutdown(ctx context.Context) error {
	if a.server == nil {
		return nil
	}
	return a.server.Shutdown(ctx)
}

// Handler returns the router as an http.Handler for use with custom
// servers and tests.
func (a *APIServer) Handler() http.Handler {
	if a.router == nil {
		a.Router()
		a.MountRoutes()
	}
	return a.router
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"healthy"}`))
}
