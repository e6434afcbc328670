package scheduler

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"covidstat/internal/collector"
	"covidstat/internal/export"
	"covidstat/internal/model"
)

type recordingNotifier struct {
	texts []string
}

func (r *recordingNotifier) SendWithRetry(_ context.Context, text string, _ int) error {
	r.texts = append(r.texts, text)
	return nil
}

func history() *model.Dataset {
	base := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	return &model.Dataset{Records: []model.Record{
		{Date: base, Confirmed: 100, Deaths: 2, Recovered: 50, Active: 48},
		{Date: base.AddDate(0, 0, 1), Confirmed: 110, Deaths: 2, Recovered: 50, Active: 58},
	}}
}

func TestRefreshNow_ExportsAndNotifies(t *testing.T) {
	dir := t.TempDir()
	n := &recordingNotifier{}
	col := collector.NewCollector(&collector.MockFetcher{Dataset: history()}, nil)
	s := NewScheduler(context.Background(), col, n, "Nepal", dir, nil)

	s.RefreshNow()

	recs, err := export.ReadFile(filepath.Join(dir, "nepal_covid_data.csv"))
	require.NoError(t, err)
	assert.Len(t, recs, 2)

	require.Len(t, n.texts, 1)
	assert.Contains(t, n.texts[0], "COVID-19 | Nepal")

	ds, at, lastErr := s.Last()
	assert.NoError(t, lastErr)
	assert.Equal(t, 2, ds.Len())
	assert.False(t, at.IsZero())
}

func TestRefreshNow_FailureNotifies(t *testing.T) {
	dir := t.TempDir()
	n := &recordingNotifier{}
	col := collector.NewCollector(&collector.MockFetcher{Err: &collector.HTTPError{StatusCode: 404}}, nil)
	s := NewScheduler(context.Background(), col, n, "Atlantis", dir, nil)

	s.RefreshNow()

	require.Len(t, n.texts, 1)
	assert.Contains(t, n.texts[0], "Refresh failed for Atlantis")
	_, _, lastErr := s.Last()
	assert.Error(t, lastErr)
	assert.NoFileExists(t, filepath.Join(dir, "atlantis_covid_data.csv"))
}

func TestRefreshNow_WithoutNotifier(t *testing.T) {
	col := collector.NewCollector(&collector.MockFetcher{Dataset: history()}, nil)
	s := NewScheduler(context.Background(), col, nil, "Nepal", t.TempDir(), nil)
	assert.NotPanics(t, s.RefreshNow)
}

func TestRegister(t *testing.T) {
	s := NewScheduler(context.Background(), collector.NewCollector(&collector.MockFetcher{}, nil), nil, "Nepal", t.TempDir(), nil)
	assert.NoError(t, s.Register("0 0 6 * * *"))
	assert.Error(t, s.Register("every morning"))
	assert.Len(t, s.Cron.Entries(), 1)
}

func TestHandleCommand(t *testing.T) {
	n := &recordingNotifier{}
	col := collector.NewCollector(&collector.MockFetcher{Dataset: history()}, nil)
	s := NewScheduler(context.Background(), col, n, "Nepal", t.TempDir(), nil)
	ctx := context.Background()

	assert.Equal(t, "No refresh has run yet.", s.HandleCommand(ctx, "/status"))
	assert.Equal(t, "", s.HandleCommand(ctx, "/latest"))
	assert.Len(t, n.texts, 1)
	assert.Contains(t, s.HandleCommand(ctx, "/status"), "Confirmed: 110")
	assert.True(t, strings.HasPrefix(s.HandleCommand(ctx, "hello"), "Available commands"))
}
