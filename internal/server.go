package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"

	"github.com/2beens/wellnesstracker/internal/config"
	"github.com/2beens/wellnesstracker/internal/db"
	"github.com/2beens/wellnesstracker/internal/middleware"
	"github.com/2beens/wellnesstracker/internal/telemetry/metrics"
	"github.com/2beens/wellnesstracker/internal/telemetry/tracing"
	"github.com/2beens/wellnesstracker/internal/wellness/dashboard"
	"github.com/2beens/wellnesstracker/pkg"
)

// entryRateLimitKey is the redis key shared by every entry endpoint.
const entryRateLimitKey = "entries"

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	entryTokenHash    string // bcrypt hash of the entry forms token
	versionInfo       string

	config           *config.Config
	dbPool           *pgxpool.Pool
	redisClient      *redis.Client
	dashboardService *dashboard.Service

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	GoogleCredentials       []byte
	EntryTokenHash          string
	VersionInfo             string
	RedisPassword           string
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	cfg := params.Config

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
		Password: params.RedisPassword,
		DB:       0, // use default DB
	})

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "wellness-backend", rdb)
	if err != nil {
		return nil, err
	}

	st, dbPool, err := OpenStore(ctx, OpenStoreParams{
		Config:            cfg,
		GoogleCredentials: params.GoogleCredentials,
		TracingEnabled:    params.HoneycombTracingEnabled,
	})
	if err != nil {
		otelShutdown()
		return nil, fmt.Errorf("open store: %w", err)
	}

	var collectors []prometheus.Collector
	if dbPool != nil {
		collectors = append(collectors, db.NewPoolCollector(dbPool, cfg.PostgresDBName))
	}
	promRegistry := metrics.SetupPrometheus(collectors...)
	metricsManager := metrics.NewManager("wellness", "main", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	dashboardService, err := NewDashboardService(cfg, st, metricsManager)
	if err != nil {
		if dbPool != nil {
			dbPool.Close()
		}
		otelShutdown()
		return nil, fmt.Errorf("new dashboard service: %w", err)
	}

	if params.EntryTokenHash == "" {
		log.Warnln("entry token hash not set, entry endpoints will be unavailable")
	}

	return &Server{
		config:           cfg,
		dbPool:           dbPool,
		entryTokenHash:   params.EntryTokenHash,
		versionInfo:      params.VersionInfo,
		redisClient:      rdb,
		dashboardService: dashboardService,

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}, nil
}

func (s *Server) routerSetup() *mux.Router {
	return newRouter(routerParams{
		dashboardHandler:     dashboard.NewHandler(s.dashboardService),
		rateLimiter:          redis_rate.NewLimiter(s.redisClient),
		metricsManager:       s.metricsManager,
		entryTokenHash:       s.entryTokenHash,
		entryRateLimitPerMin: s.config.EntryRateLimitPerMin,
		versionInfo:          s.versionInfo,
	})
}

type routerParams struct {
	dashboardHandler     *dashboard.Handler
	rateLimiter          middleware.RequestRateLimiter
	metricsManager       *metrics.Manager
	entryTokenHash       string
	entryRateLimitPerMin int
	versionInfo          string
}

func newRouter(params routerParams) *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("wellness-router"))

	h := params.dashboardHandler
	r.HandleFunc("/overview", h.HandleOverview).Methods("GET", "OPTIONS").Name("overview")
	r.HandleFunc("/frequency", h.HandleFrequency).Methods("GET", "OPTIONS").Name("frequency")
	r.HandleFunc("/heatmap/week/{year}/{week}", h.HandleWeek).Methods("GET", "OPTIONS").Name("heatmap-week")
	r.HandleFunc("/calendar", h.HandleCalendar).Methods("GET", "OPTIONS").Name("calendar")
	r.HandleFunc("/records", h.HandleRecords).Methods("GET", "OPTIONS").Name("records")
	r.HandleFunc("/export/activities.parquet", h.HandleExport).Methods("GET", "OPTIONS").Name("export-activities")
	r.HandleFunc("/users", h.HandleUsers).Methods("GET", "OPTIONS").Name("users")
	r.HandleFunc("/quote/random", h.HandleRandomQuote).Methods("GET", "OPTIONS").Name("random-quote")
	r.HandleFunc("/weight", h.HandleWeight).Methods("GET", "OPTIONS").Name("weight")

	entryRateLimit := middleware.RateLimit(
		params.rateLimiter,
		params.metricsManager,
		entryRateLimitKey,
		params.entryRateLimitPerMin,
	)
	r.Handle("/activity", entryRateLimit(http.HandlerFunc(h.HandleLogActivity))).Methods("POST", "OPTIONS").Name("log-activity")
	r.Handle("/weight", entryRateLimit(http.HandlerFunc(h.HandleLogWeight))).Methods("POST", "OPTIONS").Name("log-weight")
	r.Handle("/weight/target", entryRateLimit(http.HandlerFunc(h.HandleSetTarget))).Methods("POST", "OPTIONS").Name("set-target")

	versionInfo := params.versionInfo
	r.HandleFunc("/version", func(w http.ResponseWriter, _ *http.Request) {
		pkg.WriteTextResponseOK(w, versionInfo)
	}).Methods("GET").Name("version")

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "OPTIONS").Name("unknown")

	authMiddleware := middleware.NewAuthMiddlewareHandler(
		params.entryTokenHash,
		"/activity", "/weight", "/weight/target",
	)

	r.Use(middleware.PanicRecovery(params.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(params.metricsManager))
	r.Use(middleware.Cors(middleware.DefaultAllowedOrigins))
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.DrainAndCloseRequest())

	return r
}

func (s *Server) Serve(host string, port int) {
	router := s.routerSetup()

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      router,
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.HandlerFor(
		s.promRegistry,
		promhttp.HandlerOpts{},
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
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

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown http server")
		}
		log.Warnln("server shut down")
	}

	if s.metricsHttpServer != nil {
		if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown metrics http server")
		}
		log.Warnln("metrics server shut down")
	}

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
		}
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}
}
