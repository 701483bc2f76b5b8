package metrics

import (
	"database/sql"
	"log"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "billing_"

	resultSuccess = "success"
	resultError   = "error"
)

var (
	registerOnce sync.Once

	statementBuildTotal   *prometheus.CounterVec
	statementBuildLatency *prometheus.HistogramVec
	statementBuildErrors  *prometheus.CounterVec

	statementRenderTotal   *prometheus.CounterVec
	statementRenderLatency *prometheus.HistogramVec

	performancesPriced *prometheus.CounterVec

	catalogLoadTotal   *prometheus.CounterVec
	catalogLoadLatency *prometheus.HistogramVec
	catalogPlays       prometheus.Gauge

	archiveWrites *prometheus.CounterVec
)

// Init registers billing metrics and DB-backed gauges.
func Init(db *sql.DB, logger *log.Logger) {
	registerOnce.Do(func() {
		statementBuildTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "statement_build_total",
				Help: "Total statement builds by result",
			},
			[]string{"result"},
		)
		statementBuildLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "statement_build_latency_seconds",
				Help:    "Statement build latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)
		statementBuildErrors = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "statement_build_errors_total",
				Help: "Total statement build failures by reason",
			},
			[]string{"reason"},
		)

		statementRenderTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "statement_render_total",
				Help: "Total statement renders by format and result",
			},
			[]string{"format", "result"},
		)
		statementRenderLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "statement_render_latency_seconds",
				Help:    "Statement render latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"format", "result"},
		)

		performancesPriced = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "performances_priced_total",
				Help: "Total performances priced by genre",
			},
			[]string{"genre"},
		)

		catalogLoadTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "catalog_load_total",
				Help: "Total catalog loads by driver and result",
			},
			[]string{"driver", "result"},
		)
		catalogLoadLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "catalog_load_latency_seconds",
				Help:    "Catalog load latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"driver"},
		)
		catalogPlays = prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: metricPrefix + "catalog_plays",
				Help: "Plays in the active catalog snapshot",
			},
		)

		archiveWrites = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "statement_archive_writes_total",
				Help: "Total archived statements by driver and result",
			},
			[]string{"driver", "result"},
		)

		prometheus.MustRegister(
			statementBuildTotal,
			statementBuildLatency,
			statementBuildErrors,
			statementRenderTotal,
			statementRenderLatency,
			performancesPriced,
			catalogLoadTotal,
			catalogLoadLatency,
			catalogPlays,
			archiveWrites,
		)

		if db != nil {
			registerDBMetrics(db, logger)
		}
	})
}

// ObserveStatementBuild records build latency and result.
func ObserveStatementBuild(result string, duration time.Duration) {
	if result == "" {
		result = resultSuccess
	}
	if statementBuildTotal != nil {
		statementBuildTotal.WithLabelValues(result).Inc()
	}
	if statementBuildLatency != nil {
		statementBuildLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// IncStatementBuildError increments the build failure counter.
func IncStatementBuildError(reason string) {
	if reason == "" {
		reason = "unknown"
	}
	if statementBuildErrors != nil {
		statementBuildErrors.WithLabelValues(reason).Inc()
	}
}

// ObserveStatementRender records render latency and result.
func ObserveStatementRender(format, result string, duration time.Duration) {
	if format == "" {
		format = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if statementRenderTotal != nil {
		statementRenderTotal.WithLabelValues(format, result).Inc()
	}
	if statementRenderLatency != nil {
		statementRenderLatency.WithLabelValues(format, result).Observe(duration.Seconds())
	}
}

// IncPerformancePriced increments the priced performance counter.
func IncPerformancePriced(genre string) {
	if genre == "" {
		genre = "unknown"
	}
	if performancesPriced != nil {
		performancesPriced.WithLabelValues(genre).Inc()
	}
}

// ObserveCatalogLoad records catalog load latency, result and size.
func ObserveCatalogLoad(driver, result string, plays int, duration time.Duration) {
	if driver == "" {
		driver = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if catalogLoadTotal != nil {
		catalogLoadTotal.WithLabelValues(driver, result).Inc()
	}
	if catalogLoadLatency != nil {
		catalogLoadLatency.WithLabelValues(driver).Observe(duration.Seconds())
	}
	if catalogPlays != nil && result == resultSuccess {
		catalogPlays.Set(float64(plays))
	}
}

// IncArchiveWrite increments the archive write counter.
func IncArchiveWrite(driver, result string) {
	if driver == "" {
		driver = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if archiveWrites != nil {
		archiveWrites.WithLabelValues(driver, result).Inc()
	}
}

// Exported constants for callers.
const (
	ResultSuccess = resultSuccess
	ResultError   = resultError
)
