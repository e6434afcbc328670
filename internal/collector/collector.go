package collector

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"covidstat/internal/metrics"
	"covidstat/internal/model"
)

// MockFetcher returns a fixed dataset or error for development and testing.
type MockFetcher struct {
	Dataset *model.Dataset
	Err     error
	Calls   []string
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchHistory(_ context.Context, country string) (*model.Dataset, error) {
	m.Calls = append(m.Calls, country)
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Dataset == nil {
		return &model.Dataset{Country: country, FetchedAt: time.Now()}, nil
	}
	ds := *m.Dataset
	ds.Country = country
	return &ds, nil
}

// Collector runs one fetch per call and classifies the outcome.
type Collector struct {
	Fetcher Fetcher
	Logger  *zap.Logger
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collector{Fetcher: fetcher, Logger: logger}
}

// Collect trims country, fetches its full history and rejects empty results.
func (c *Collector) Collect(ctx context.Context, country string) (*model.Dataset, error) {
	country = strings.TrimSpace(country)
	start := time.Now()

	ds, err := c.Fetcher.FetchHistory(ctx, country)
	if err == nil && ds.Empty() {
		err = &EmptyResultError{Country: country}
	}
	result := classify(err)
	metrics.RecordFetch(result, time.Since(start))

	if err != nil {
		c.Logger.Warn("fetch failed",
			zap.String("source", c.Fetcher.Name()),
			zap.String("country", country),
			zap.String("result", result),
			zap.Error(err))
		return nil, err
	}

	metrics.RecordDataset(model.FileStem(country), ds.Len())
	c.Logger.Info("fetched history",
		zap.String("source", c.Fetcher.Name()),
		zap.String("country", country),
		zap.Int("records", ds.Len()),
		zap.Duration("took", time.Since(start)))
	return ds, nil
}

func classify(err error) string {
	var (
		httpErr   *HTTPError
		schemaErr *SchemaError
		emptyErr  *EmptyResultError
	)
	switch {
	case err == nil:
		return metrics.ResultSuccess
	case errors.As(err, &httpErr):
		return metrics.ResultHTTPError
	case errors.As(err, &schemaErr):
		return metrics.ResultSchemaError
	case errors.As(err, &emptyErr):
		return metrics.ResultEmpty
	default:
		return metrics.ResultTransport
	}
}
