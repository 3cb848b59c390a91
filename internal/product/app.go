package product

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"ProductBoard/pkg/kit"
)

const (
	readyTimeout    = 1 * time.Second
	rateLimitWindow = time.Minute
)

type HTTPDeps struct {
	Log      *zap.Logger
	Service  string
	Registry *prometheus.Registry

	MetricsEnabled bool
	MetricsToken   string

	// PublicDir is served at the root; uploads live under it.
	PublicDir string
	// CreateRateLimit caps creates per client IP per minute; 0 disables.
	CreateRateLimit int
}

func NewHandler(s *Server, deps HTTPDeps) http.Handler {
	r := chi.NewRouter()

	setupMiddleware(r, deps)
	setupMetrics(r, deps)
	setupRoutes(r, s, deps)

	return r
}

func setupMiddleware(r *chi.Mux, deps HTTPDeps) {
	r.Use(chimw.RequestID)
	r.Use(kit.Recoverer)
	r.Use(kit.Logging(deps.Log))
	r.Use(kit.CORS())
}

func setupMetrics(r *chi.Mux, deps HTTPDeps) {
	if deps.Registry == nil {
		return
	}

	metrics := kit.NewMetrics(deps.Registry)
	r.Use(metrics.Middleware(deps.Service, kit.ChiRoutePatternOrPath))

	if !deps.MetricsEnabled {
		return
	}

	r.With(kit.MetricsAuth(deps.MetricsToken)).
		Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
}

func setupRoutes(r *chi.Mux, s *Server, deps HTTPDeps) {
	r.Get("/healthz", healthz)
	r.Get("/readyz", s.readyz)

	create := http.Handler(http.HandlerFunc(s.create))
	if deps.CreateRateLimit > 0 {
		create = kit.NewIPRateLimiter(deps.CreateRateLimit, rateLimitWindow).Middleware(create)
	}

	r.Get("/api/products", s.list)
	r.Method(http.MethodPost, "/api/products", create)
	r.Delete("/api/products/{id}", s.delete)

	if deps.PublicDir != "" {
		static := http.FileServer(noListingFS{http.Dir(deps.PublicDir)})
		r.Get("/*", static.ServeHTTP)
		r.Head("/*", static.ServeHTTP)
	}
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (s *Server) readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	if err := s.Products.Store.Ping(ctx); err != nil {
		s.logger().Warn("readyz failed", zap.Error(err))
		kit.WriteError(w, r, http.StatusServiceUnavailable, "not ready", nil)
		return
	}
	w.WriteHeader(http.StatusOK)
}
