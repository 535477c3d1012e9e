package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/2beens/gymprogress/internal/config"
	progressmcp "github.com/2beens/gymprogress/internal/mcp"
	"github.com/2beens/gymprogress/internal/middleware"
	"github.com/2beens/gymprogress/internal/progress"
	"github.com/2beens/gymprogress/internal/telemetry/metrics"
	"github.com/2beens/gymprogress/internal/telemetry/tracing"
	"github.com/2beens/gymprogress/pkg"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.uber.org/multierr"
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config  *config.Config
	backend *Backend

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	VersionInfo             string
	RedisPassword           string
	DBPassword              string
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	promRegistry := metrics.SetupPrometheus()
	metricsManager := metrics.NewManager("gymprogress", "main", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	backend, err := NewBackend(ctx, BackendParams{
		Config:         params.Config,
		RedisPassword:  params.RedisPassword,
		DBPassword:     params.DBPassword,
		TracingEnabled: params.HoneycombTracingEnabled,
		MetricsManager: metricsManager,
	})
	if err != nil {
		return nil, fmt.Errorf("new backend: %w", err)
	}

	if backend.DBPool != nil {
		promRegistry.MustRegister(pgxpoolprometheus.NewCollector(
			backend.DBPool,
			map[string]string{"db_name": params.Config.PostgresDBName},
		))
	}

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "gymprogress-service", backend.Redis)
	if err != nil {
		return nil, multierr.Combine(err, backend.Close())
	}

	return &Server{
		config:         params.Config,
		backend:        backend,
		versionInfo:    params.VersionInfo,
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}, nil
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("gymprogress-router"))

	progressHandler := progress.NewHandler(s.backend.Service)
	progressRouter := r.PathPrefix("/progress/users/{userId}").Subrouter()
	progressRouter.HandleFunc("/exercises", progressHandler.HandleExerciseProgress).Methods("GET", "OPTIONS").Name("exercise-progress")
	progressRouter.HandleFunc("/records", progressHandler.HandlePersonalRecords).Methods("GET", "OPTIONS").Name("personal-records")
	progressRouter.HandleFunc("/stats", progressHandler.HandleExerciseStats).Methods("GET", "OPTIONS").Name("exercise-stats")

	mcpHandler := progressmcp.NewHTTPHandler(progressmcp.NewServer(s.backend.Service))

	// rate limiting needs redis, the sqlite only setups go without it
	if s.backend.Redis != nil {
		limiter := redis_rate.NewLimiter(s.backend.Redis)
		progressRouter.Use(middleware.RateLimit(limiter, s.metricsManager, "progress", s.config.RateLimitPerMinute))
		mcpHandler = middleware.RateLimit(limiter, s.metricsManager, "mcp", s.config.RateLimitPerMinute)(mcpHandler)
	}
	r.PathPrefix("/mcp").Handler(mcpHandler).Name("mcp")

	r.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		pkg.WriteTextResponseOK(w, s.versionInfo)
	}).Methods("GET").Name("version")

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "OPTIONS").Name("unknown")

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors())
	r.Use(middleware.DrainAndCloseRequest())

	return r
}

func (s *Server) Serve(host string, port int) {
	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      s.routerSetup(),
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.HandlerFor(s.promRegistry, promhttp.HandlerOpts{}))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:              metricsAddr,
		Handler:           metricsRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")
	s.metricsManager.GaugeLifeSignal.Set(0)

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	// stop taking requests first, so no cache write starts after the backend drains
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown http server")
		}
		log.Warnln("server shut down")
	}

	if err := s.backend.Close(); err != nil {
		log.Errorf("close backend: %s", err)
	}

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}

	if s.metricsHttpServer != nil {
		if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown metrics http server")
		}
		log.Warnln("metrics server shut down")
	}
}
