package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type HTTPMetrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

type DBMetrics struct {
	QueryDuration *prometheus.HistogramVec
}

type BusinessMetrics struct {
	EvaluationsTotal         *prometheus.CounterVec
	LoansCommittedTotal      prometheus.Counter
	CustomersRegisteredTotal prometheus.Counter
	IngestionRowsTotal       *prometheus.CounterVec
}

var (
	HTTP = HTTPMetrics{
		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "credit_engine_http_requests_total",
				Help: "Total number of HTTP requests received.",
			},
			[]string{"method", "path", "code"},
		),
		RequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "credit_engine_http_request_duration_seconds",
				Help:    "Histogram of HTTP request latencies.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "code"},
		),
	}

	DB = DBMetrics{
		QueryDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "credit_engine_db_query_duration_seconds",
				Help:    "Histogram of database query latencies.",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"query_name", "status"},
		),
	}

	Business = BusinessMetrics{
		EvaluationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "credit_engine_evaluations_total",
				Help: "Total number of eligibility evaluations by outcome.",
			},
			[]string{"outcome"},
		),
		LoansCommittedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "credit_engine_loans_committed_total",
				Help: "Total number of loans successfully committed.",
			},
		),
		CustomersRegisteredTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "credit_engine_customers_registered_total",
				Help: "Total number of customers successfully registered.",
			},
		),
		IngestionRowsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "credit_engine_ingestion_rows_total",
				Help: "Total number of ingested rows by stage and outcome.",
			},
			[]string{"stage", "outcome"},
		),
	}
)

func RecordHTTPRequest(method, path, code string, duration time.Duration) {
	HTTP.RequestsTotal.WithLabelValues(method, path, code).Inc()
	HTTP.RequestDuration.WithLabelValues(method, path, code).Observe(duration.Seconds())
}

func RecordDBQuery(queryName, status string, duration time.Duration) {
	DB.QueryDuration.WithLabelValues(queryName, status).Observe(duration.Seconds())
}

func RecordEvaluation(outcome string) {
	Business.EvaluationsTotal.WithLabelValues(outcome).Inc()
}

func RecordLoanCommitted() {
	Business.LoansCommittedTotal.Inc()
}

func RecordCustomerRegistered() {
	Business.CustomersRegisteredTotal.Inc()
}

func RecordIngestionRow(stage, outcome string) {
	Business.IngestionRowsTotal.WithLabelValues(stage, outcome).Inc()
}
