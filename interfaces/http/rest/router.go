package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/yogishpa/graph-samples/interfaces/http/rest/handlers"
	"github.com/yogishpa/graph-samples/interfaces/http/rest/middleware"
	"github.com/yogishpa/graph-samples/pkg/auth"
	pkgerrors "github.com/yogishpa/graph-samples/pkg/errors"
	"github.com/yogishpa/graph-samples/pkg/observability"
)

// Options toggles optional router features
type Options struct {
	EnableCORS     bool
	AllowedOrigins []string
	Debug          bool
}

// Router creates and configures the HTTP router
type Router struct {
	chat      handlers.ChatService
	collector *observability.Collector
	validator *auth.Validator
	opts      Options
	logger    *zap.Logger
}

// NewRouter creates a new router instance. collector and validator may be
// nil, which disables /metrics and authentication respectively.
func NewRouter(
	chat handlers.ChatService,
	collector *observability.Collector,
	validator *auth.Validator,
	opts Options,
	logger *zap.Logger,
) *Router {
	return &Router{
		chat:      chat,
		collector: collector,
		validator: validator,
		opts:      opts,
		logger:    logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()
	errHandler := pkgerrors.NewErrorHandler(rt.logger, rt.opts.Debug)

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(errHandler.Middleware)
	router.Use(middleware.Logger(rt.logger))
	if rt.collector != nil {
		router.Use(middleware.Metrics(rt.collector))
	}

	if rt.opts.EnableCORS {
		origins := rt.opts.AllowedOrigins
		if len(origins) == 0 {
			origins = []string{"http://localhost:3000"}
		}
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   origins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)
	if rt.collector != nil {
		router.Method(http.MethodGet, "/metrics", rt.collector.Handler())
	}

	chatHandler := handlers.NewChatHandler(rt.chat, errHandler, rt.logger)
	queryHandler := handlers.NewQueryHandler(rt.chat, errHandler, rt.logger)

	router.Route("/api/v1", func(r chi.Router) {
		if rt.validator != nil {
			r.Use(middleware.Authenticate(rt.validator, errHandler, rt.logger))
		}

		r.Route("/chat", func(r chi.Router) {
			r.Post("/", chatHandler.Ask)
			r.Get("/{sessionID}/history", chatHandler.History)
		})

		r.Post("/query", queryHandler.RunQuery)
		r.Get("/connection-test", queryHandler.TestConnection)
		r.Get("/schema", queryHandler.ExploreSchema)
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck handles readiness check requests
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
