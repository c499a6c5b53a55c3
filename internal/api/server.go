package api

import (
	"net/http"
	"time"

	"studio-metrics/internal/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"
)

// Server is the thin HTTP shim over the metrics engine. It parses
// request parameters, invokes one computation, and writes its result as
// JSON; no business logic lives here.
type Server struct {
	engine *metrics.Engine
	addr   string
	origin string

	// now is injectable so handler tests can pin the clock.
	now func() time.Time
}

// NewServer creates an API server for the given engine.
func NewServer(engine *metrics.Engine, addr, origin string) *Server {
	return &Server{
		engine: engine,
		addr:   addr,
		origin: origin,
		now:    time.Now,
	}
}

// Serve starts the HTTP listener and blocks.
func (s *Server) Serve() error {
	log.Info().Str("addr", s.addr).Msg("HTTP API listening")
	return http.ListenAndServe(s.addr, s.router())
}

func (s *Server) router() chi.Router {
	r := chi.NewRouter()

	c := cors.New(cors.Options{
		AllowedOrigins: []string{s.origin},
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodOptions,
		},
	})

	r.Use(c.Handler)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(requestLogger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/reports", func(r chi.Router) {
		r.Get("/dormant", s.handleDormant)
		r.Get("/sales", s.handleSales)
		r.Get("/top-buyers", s.handleTopBuyers)
		r.Get("/retention", s.handleRetention)
		r.Get("/schedule", s.handleSchedule)
		r.Get("/sales-comparison", s.handleSalesComparison)
		r.Get("/credits-comparison", s.handleCreditsComparison)
	})

	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("Request")
	})
}
