package httpapi

import (
	"net/http"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// RouterOptions tunes the middleware stack.
type RouterOptions struct {
	AllowedOrigins []string      // "*" allows any origin
	RequestTimeout time.Duration // zero disables the timeout
}

// NewRouter mounts the API routes.
func NewRouter(h *Handler, opts RouterOptions) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(h.logger))
	r.Use(middleware.Recoverer)
	r.Use(withCORS(opts.AllowedOrigins))
	if opts.RequestTimeout > 0 {
		r.Use(middleware.Timeout(opts.RequestTimeout))
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeDetail(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeDetail(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Get("/", h.index)
	r.Get("/search", h.search)
	r.Get("/similar/{id}", h.similar)
	r.Get("/compare/{id1}/{id2}", h.compare)
	r.Get("/all-similarities", h.allSimilarities)
	r.Get("/stats", h.stats)
	r.Get("/stats/word", h.wordStats)
	r.Get("/autocomplete/{prefix}", h.autocomplete)
	r.Get("/verse/{surah}/{ayah}", h.verse)
	r.Get("/verses", h.verses)
	r.Get("/verses/random-with-similarities", h.randomWithSimilarities)

	r.Route("/quiz", func(r chi.Router) {
		r.Post("/get_question", h.getQuestion)
		r.Post("/check", h.checkAnswer)
	})

	return r
}

// requestLogger logs every request with its status and duration.
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.Debug("http request",
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}

// withCORS allows the configured origins and answers pre-flight requests.
func withCORS(allowed []string) func(http.Handler) http.Handler {
	allowAny := slices.Contains(allowed, "*")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" && (allowAny || slices.Contains(allowed, origin)) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Vary", "Origin")
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")

				reqHeaders := r.Header.Get("Access-Control-Request-Headers")
				if reqHeaders == "" {
					reqHeaders = "Content-Type"
				}
				w.Header().Set("Access-Control-Allow-Headers", reqHeaders)
				w.Header().Set("Access-Control-Max-Age", "600")
			}

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
