// Package metrics provides the Prometheus collectors shared by the fetch pipeline and the dashboard.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Fetch outcome labels.
const (
	ResultSuccess     = "success"
	ResultHTTPError   = "http_error"
	ResultSchemaError = "schema_error"
	ResultEmpty       = "empty"
	ResultTransport   = "transport_error"
)

var (
	// FetchesTotal counts upstream history fetches by outcome.
	FetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "covidstat_fetches_total",
			Help: "Total number of historical data fetches by result",
		},
		[]string{"result"},
	)

	// FetchDuration measures upstream fetch latency in seconds.
	FetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "covidstat_fetch_duration_seconds",
			Help:    "Duration of historical data fetches in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// DatasetRows records the row count of the last successful fetch per country.
	DatasetRows = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "covidstat_dataset_rows",
			Help: "Number of records in the most recent dataset per country",
		},
		[]string{"country"},
	)

	// HTTPRequestsTotal counts dashboard requests by method, route and status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "covidstat_http_requests_total",
			Help: "Total number of dashboard HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// ExportsTotal counts CSV files written by the CLI and the watch loop.
	ExportsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "covidstat_csv_exports_total",
			Help: "Total number of CSV exports written to disk",
		},
	)
)

// RecordFetch records one fetch outcome and its duration.
func RecordFetch(result string, d time.Duration) {
	FetchesTotal.WithLabelValues(result).Inc()
	FetchDuration.Observe(d.Seconds())
}

// RecordDataset records the size of a fetched dataset.
func RecordDataset(country string, rows int) {
	DatasetRows.WithLabelValues(country).Set(float64(rows))
}
