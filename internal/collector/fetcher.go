package collector

import (
	"context"

	"covidstat/internal/model"
)

// Fetcher defines the interface for fetching a country's case history.
type Fetcher interface {
	FetchHistory(ctx context.Context, country string) (*model.Dataset, error)
	Name() string
}
