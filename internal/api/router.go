package api

import (
	"encoding/json"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/Harshitk-cp/geosolve/internal/api/handlers"
	mw "github.com/Harshitk-cp/geosolve/internal/api/middleware"
	"github.com/Harshitk-cp/geosolve/internal/buildconfig"
	"github.com/Harshitk-cp/geosolve/internal/config"
	"github.com/Harshitk-cp/geosolve/internal/domain"
	"github.com/Harshitk-cp/geosolve/internal/service"
	"github.com/Harshitk-cp/geosolve/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// App holds the router and the pieces the server manages over its lifetime.
type App struct {
	Router       *chi.Mux
	Solver       *service.SolverService
	RateLimiter  *mw.RateLimiter
	metrics      *mw.MetricsCollector
	startTime    time.Time
	requestCount atomic.Int64
	errorCount   atomic.Int64
}

// NewApp wires the HTTP surface. db may be nil, in which case solutions
// are not persisted and the listing endpoints report 501.
func NewApp(db *pgxpool.Pool, logger *zap.Logger) *App {
	solverSvc := service.NewSolverService(logger.Named("solver"))
	solverSvc.SetMaxIterations(config.MaxIterations())
	if db != nil {
		solverSvc.SetSolutionStore(store.NewSolutionStore(db))
	}

	solveHandler := handlers.NewSolveHandler(solverSvc, config.SolveTimeout(), logger)
	rulesHandler := handlers.NewRulesHandler()

	r := chi.NewRouter()
	app := &App{
		Router:      r,
		Solver:      solverSvc,
		RateLimiter: mw.NewRateLimiter(config.RateLimitRPS(), config.RateLimitBurst()),
		startTime:   time.Now(),
	}
	app.metrics = mw.NewMetricsCollector(&app.requestCount, &app.errorCount)

	// Global middleware (order matters)
	r.Use(mw.RequestID)
	r.Use(middleware.RealIP)
	r.Use(app.metrics.Middleware)
	r.Use(mw.Logging(logger))
	r.Use(middleware.Recoverer)
	r.Use(app.RateLimiter.Middleware)

	r.Get("/health", healthHandler(db))
	r.Get("/metrics", app.metricsHandler())

	r.Route("/v1", func(r chi.Router) {
		r.Post("/solve", solveHandler.Solve)
		r.Get("/rules", rulesHandler.List)
		r.Route("/solutions", func(r chi.Router) {
			r.Get("/", solveHandler.List)
			r.Get("/{id}", solveHandler.GetByID)
		})
	})

	return app
}

func healthHandler(db *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if db == nil {
			w.WriteHeader(http.StatusOK)
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok", "database": "disabled"})
			return
		}
		if err := db.Ping(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "error": err.Error()})
			return
		}
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok", "database": "ok"})
	}
}

func (app *App) metricsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var memStats runtime.MemStats
		runtime.ReadMemStats(&memStats)

		uptime := time.Since(app.startTime)

		response := map[string]any{
			"uptime_seconds":   uptime.Seconds(),
			"uptime_human":     uptime.Round(time.Second).String(),
			"request_count":    app.requestCount.Load(),
			"error_count":      app.errorCount.Load(),
			"server_errors":    app.metrics.ServerErrors(),
			"unavailable":      app.metrics.Unavailable(),
			"in_flight":        app.metrics.InFlight(),
			"rate_limited_ips": app.RateLimiter.Len(),
			"goroutines":       runtime.NumGoroutine(),
			"memory": map[string]any{
				"alloc_mb":       float64(memStats.Alloc) / 1024 / 1024,
				"total_alloc_mb": float64(memStats.TotalAlloc) / 1024 / 1024,
				"sys_mb":         float64(memStats.Sys) / 1024 / 1024,
				"num_gc":         memStats.NumGC,
			},
			"build":      buildconfig.VersionInfo(),
			"go_version": runtime.Version(),
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}

// Ensure stores satisfy interfaces at compile time.
var _ domain.SolutionStore = (*store.SolutionStore)(nil)
