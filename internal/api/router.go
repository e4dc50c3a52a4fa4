package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/isdelr/event-graph-be/internal/api/handlers"
	"github.com/isdelr/event-graph-be/internal/auth"
	"github.com/isdelr/event-graph-be/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(
	authManager *auth.Manager,
	graphqlHandler *handlers.GraphQLHandler,
	wsHandler *handlers.WebSocketHandler,
	allowedOrigins []string,
) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Use(authManager.Middleware())

		r.Post("/", graphqlHandler.Query)
		r.Get("/", graphqlHandler.GraphiQL)
		r.Get("/ws", wsHandler.Serve)
	})

	return r
}
