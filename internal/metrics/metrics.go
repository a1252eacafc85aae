package metrics

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

var (
	apiRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "path", "status"},
	)

	apiRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	tasksIngestedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tasks_ingested_total",
			Help: "Total number of tasks inserted by spreadsheet ingestion",
		},
		[]string{"project_type"},
	)

	ingestDuplicatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_duplicates_total",
			Help: "Total number of rows skipped as already-known demands",
		},
		[]string{"project_type"},
	)

	claimsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "task_claims_total",
			Help: "Total number of successful task claims",
		},
	)

	transitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "task_transitions_total",
			Help: "Total number of task transitions by target stage",
		},
		[]string{"to_status"},
	)

	queueDepth = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "queue_depth",
			Help: "Number of tasks currently sitting in each assignment",
		},
		[]string{"assignment"},
	)

	databaseConnectionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "database_connections_active",
			Help: "Number of active database connections",
		},
	)

	databaseConnectionsIdle = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "database_connections_idle",
			Help: "Number of idle database connections",
		},
	)

	databaseConnectionsMax = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "database_connections_max",
			Help: "Maximum number of database connections",
		},
	)
)

var once sync.Once

func init() {
	prometheus.MustRegister(apiRequestsTotal)
	prometheus.MustRegister(apiRequestDuration)
	prometheus.MustRegister(tasksIngestedTotal)
	prometheus.MustRegister(ingestDuplicatesTotal)
	prometheus.MustRegister(claimsTotal)
	prometheus.MustRegister(transitionsTotal)
	prometheus.MustRegister(queueDepth)
	prometheus.MustRegister(databaseConnectionsActive)
	prometheus.MustRegister(databaseConnectionsIdle)
	prometheus.MustRegister(databaseConnectionsMax)

	once.Do(func() {
		_ = prometheus.Register(prometheus.NewGoCollector())
		_ = prometheus.Register(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))
	})
}

// Handler returns the Prometheus scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordAPIRequest records one handled HTTP request.
func RecordAPIRequest(method, path string, status int, duration float64) {
	statusText := http.StatusText(status)
	if statusText == "" {
		statusText = fmt.Sprintf("%d", status)
	}
	apiRequestsTotal.WithLabelValues(method, path, statusText).Inc()
	apiRequestDuration.WithLabelValues(method, path).Observe(duration)
}

// RecordIngest records the outcome of one spreadsheet ingestion.
func RecordIngest(projectType string, inserted, duplicates int) {
	tasksIngestedTotal.WithLabelValues(projectType).Add(float64(inserted))
	ingestDuplicatesTotal.WithLabelValues(projectType).Add(float64(duplicates))
}

// RecordClaim records one successful claim.
func RecordClaim() {
	claimsTotal.Inc()
}

// RecordTransition records one transition into the named stage.
func RecordTransition(toStatus string) {
	transitionsTotal.WithLabelValues(toStatus).Inc()
}

// UpdateQueueDepth sets the depth gauge for one assignment.
func UpdateQueueDepth(assignment string, count float64) {
	queueDepth.WithLabelValues(assignment).Set(count)
}

// UpdateDatabaseConnections refreshes the connection pool gauges.
func UpdateDatabaseConnections(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}

	stats := sqlDB.Stats()
	databaseConnectionsActive.Set(float64(stats.OpenConnections - stats.Idle))
	databaseConnectionsIdle.Set(float64(stats.Idle))
	databaseConnectionsMax.Set(float64(stats.MaxOpenConnections))

	return nil
}
