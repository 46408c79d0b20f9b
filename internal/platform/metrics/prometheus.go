package metrics

import (
	"net/http"
	"strings"
	"time"

	"github.com/mujahidkhanofficial/medixra-sub000/internal/platform/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// MetricsManager holds the custom Prometheus metrics of the marketplace core.
// All recording helpers are safe to call on a nil *MetricsManager.
type MetricsManager struct {
	Registry                *prometheus.Registry
	ListingsCreatedTotal    prometheus.Counter
	ListingsDeletedTotal    prometheus.Counter
	SearchesTotal           prometheus.Counter
	SearchResultsSize       prometheus.Histogram
	ReviewsCreatedTotal     prometheus.Counter
	VerificationTransitions *prometheus.CounterVec
	CartMutationsTotal      *prometheus.CounterVec
	StoreConflictsTotal     *prometheus.CounterVec
	StoreOpLatency          *prometheus.HistogramVec
}

// NewMetricsManager initializes and registers the metrics on a private registry.
func NewMetricsManager(serviceName string) *MetricsManager {
	registry := prometheus.NewRegistry()
	serviceName = strings.ReplaceAll(serviceName, "-", "_")

	m := &MetricsManager{
		Registry: registry,
		ListingsCreatedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: serviceName,
			Name:      "listings_created_total",
			Help:      "Total number of listings created.",
		}),
		ListingsDeletedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: serviceName,
			Name:      "listings_deleted_total",
			Help:      "Total number of listing delete calls.",
		}),
		SearchesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: serviceName,
			Name:      "listing_searches_total",
			Help:      "Total number of listing searches executed.",
		}),
		SearchResultsSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: serviceName,
			Name:      "listing_search_results",
			Help:      "Number of listings returned per search.",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250},
		}),
		ReviewsCreatedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: serviceName,
			Name:      "reviews_created_total",
			Help:      "Total number of reviews created.",
		}),
		VerificationTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Name:      "vendor_verification_transitions_total",
			Help:      "Vendor verification transitions by target status.",
		}, []string{"status"}),
		CartMutationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Name:      "cart_mutations_total",
			Help:      "Cart mutations by operation.",
		}, []string{"operation"}),
		StoreConflictsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Name:      "store_version_conflicts_total",
			Help:      "Compare-and-swap conflicts detected on record store writes.",
		}, []string{"collection"}),
		StoreOpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: serviceName,
			Name:      "store_operation_latency_seconds",
			Help:      "Latency of record store operations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation", "collection"}),
	}

	registry.MustRegister(
		m.ListingsCreatedTotal,
		m.ListingsDeletedTotal,
		m.SearchesTotal,
		m.SearchResultsSize,
		m.ReviewsCreatedTotal,
		m.VerificationTransitions,
		m.CartMutationsTotal,
		m.StoreConflictsTotal,
		m.StoreOpLatency,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *MetricsManager) ListingCreated() {
	if m == nil {
		return
	}
	m.ListingsCreatedTotal.Inc()
}

func (m *MetricsManager) ListingDeleted() {
	if m == nil {
		return
	}
	m.ListingsDeletedTotal.Inc()
}

func (m *MetricsManager) SearchExecuted(results int) {
	if m == nil {
		return
	}
	m.SearchesTotal.Inc()
	m.SearchResultsSize.Observe(float64(results))
}

func (m *MetricsManager) ReviewCreated() {
	if m == nil {
		return
	}
	m.ReviewsCreatedTotal.Inc()
}

func (m *MetricsManager) VerificationTransition(status string) {
	if m == nil {
		return
	}
	m.VerificationTransitions.WithLabelValues(status).Inc()
}

func (m *MetricsManager) CartMutation(operation string) {
	if m == nil {
		return
	}
	m.CartMutationsTotal.WithLabelValues(operation).Inc()
}

func (m *MetricsManager) StoreConflict(collection string) {
	if m == nil {
		return
	}
	m.StoreConflictsTotal.WithLabelValues(collection).Inc()
}

// ObserveStoreOp records the latency of a store operation started at start.
func (m *MetricsManager) ObserveStoreOp(operation, collection string, start time.Time) {
	if m == nil {
		return
	}
	m.StoreOpLatency.WithLabelValues(operation, collection).Observe(time.Since(start).Seconds())
}

// StartMetricsServer exposes the registry on /metrics. It blocks like http.Server.ListenAndServe.
func StartMetricsServer(port string, appLogger *logger.Logger, registry *prometheus.Registry) error {
	if port == "" {
		appLogger.Info("Prometheus metrics server port not configured, server will not start.")
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	appLogger.Info("Prometheus metrics server starting", zap.String("port", port), zap.String("path", "/metrics"))

	server := &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return server.ListenAndServe()
}
