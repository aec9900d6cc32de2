package handler

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

// Metrics holds all Prometheus collectors for the policy engine.
var Metrics = struct {
	EngagementsTotal    *prometheus.CounterVec
	EngagementsRejected prometheus.Counter
	PolicyActions       *prometheus.CounterVec
	FlagsCreated        *prometheus.CounterVec
	EarningsProcessed   prometheus.Counter
	EarningsBlocked     prometheus.Counter
	BotAssessments      *prometheus.CounterVec
	RequestDuration     *prometheus.HistogramVec
	RequestsInFlight    prometheus.Gauge
	DBPoolActive        prometheus.GaugeFunc
	DBPoolIdle          prometheus.GaugeFunc
}{}

// InitMetrics registers all Prometheus metrics. Call once at startup.
func InitMetrics(pool *pgxpool.Pool) {
	Metrics.EngagementsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hvna_engagements_total",
			Help: "Total engagements recorded, by type.",
		},
		[]string{"type"},
	)

	Metrics.EngagementsRejected = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "hvna_engagements_rejected_total",
			Help: "Total engagements rejected by policy checks.",
		},
	)

	Metrics.PolicyActions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hvna_policy_actions_total",
			Help: "Total detector decisions, by action.",
		},
		[]string{"action"},
	)

	Metrics.FlagsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hvna_flags_created_total",
			Help: "Total content flags created, by reason.",
		},
		[]string{"reason"},
	)

	Metrics.EarningsProcessed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "hvna_earnings_processed_dollars_total",
			Help: "Total earnings persisted, in dollars.",
		},
	)

	Metrics.EarningsBlocked = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "hvna_earnings_blocked_total",
			Help: "Total earnings attempts blocked by caps or suspension.",
		},
	)

	Metrics.BotAssessments = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hvna_bot_assessments_total",
			Help: "Total bot-detector evaluations, by recommendation.",
		},
		[]string{"recommendation"},
	)

	Metrics.RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hvna_api_request_duration_seconds",
			Help:    "HTTP request duration in seconds, by endpoint and method.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)

	Metrics.RequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "hvna_requests_in_flight",
			Help: "Number of HTTP requests currently being served.",
		},
	)

	// DB pool gauges — read live stats from pgxpool
	if pool != nil {
		Metrics.DBPoolActive = prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "hvna_db_connection_pool_active",
				Help: "Number of active database connections.",
			},
			func() float64 {
				return float64(pool.Stat().AcquiredConns())
			},
		)

		Metrics.DBPoolIdle = prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "hvna_db_connection_pool_idle",
				Help: "Number of idle database connections.",
			},
			func() float64 {
				return float64(pool.Stat().IdleConns())
			},
		)

		prometheus.MustRegister(Metrics.DBPoolActive)
		prometheus.MustRegister(Metrics.DBPoolIdle)
	}

	prometheus.MustRegister(
		Metrics.EngagementsTotal,
		Metrics.EngagementsRejected,
		Metrics.PolicyActions,
		Metrics.FlagsCreated,
		Metrics.EarningsProcessed,
		Metrics.EarningsBlocked,
		Metrics.BotAssessments,
		Metrics.RequestDuration,
		Metrics.RequestsInFlight,
	)
}

// MetricsMiddleware records request duration and in-flight count for Prometheus.
func MetricsMiddleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		// Don't instrument the /metrics endpoint itself
		if c.Path() == "/metrics" {
			return c.Next()
		}

		// Copy path and method into owned strings BEFORE c.Next() — Fiber
		// returns slices backed by the fasthttp buffer which can be reused
		// or overwritten by handlers (especially fasthttpadaptor).
		path := string([]byte(c.Path()))
		method := string([]byte(c.Method()))
		endpoint := sanitizeEndpoint(path)

		Metrics.RequestsInFlight.Inc()
		start := time.Now()

		err := c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Response().StatusCode())

		Metrics.RequestDuration.WithLabelValues(endpoint, method, status).Observe(duration)
		Metrics.RequestsInFlight.Dec()

		return err
	}
}

// sanitizeEndpoint normalizes paths to avoid cardinality explosion.
func sanitizeEndpoint(path string) string {
	switch {
	case strings.HasPrefix(path, "/api/posts/"):
		rest := path[len("/api/posts/"):]
		if i := strings.IndexByte(rest, '/'); i >= 0 {
			return "/api/posts/:postId" + rest[i:]
		}
		return "/api/posts/:postId"
	case strings.HasPrefix(path, "/api/creators/"):
		rest := path[len("/api/creators/"):]
		if i := strings.IndexByte(rest, '/'); i >= 0 {
			return "/api/creators/:creatorId" + rest[i:]
		}
		return "/api/creators/:creatorId"
	default:
		return path
	}
}

// MetricsHandler serves the Prometheus /metrics endpoint via Fiber.
func MetricsHandler() fiber.Handler {
	httpHandler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
	return func(c fiber.Ctx) error {
		httpHandler(c.RequestCtx())
		return nil
	}
}
