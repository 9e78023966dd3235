// Package api exposes the scheme catalog over HTTP.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/ppiankov/yojana/internal/catalog"
	"github.com/ppiankov/yojana/internal/logging"
)

// NewRouter creates the API router with all routes configured
func NewRouter(cat *catalog.Catalog, logger *logging.Logger, requestTimeout time.Duration) http.Handler {
	if logger == nil {
		logger = logging.Nop()
	}
	logger = logger.With("api")

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(chimiddleware.Recoverer)
	if requestTimeout > 0 {
		r.Use(chimiddleware.Timeout(requestTimeout))
	}

	h := NewSchemeHandler(cat, logger)

	r.Get("/health", h.Health)

	r.Route("/schemes", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/latest", h.Latest)
		r.Get("/{schemeId}", h.Get)
	})

	return r
}

// requestLogger logs one line per request through the structured logger
func requestLogger(logger *logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			logger.Info().
				Str("request_id", chimiddleware.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("duration", time.Since(start)).
				Msg("request")
		})
	}
}
