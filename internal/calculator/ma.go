package calculator

import (
	"errors"

	"covidstat/internal/model"
)

// CalculateSMA computes the simple moving average of the last period values.
func CalculateSMA(values []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(values) < period {
		return 0, errors.New("not enough data for SMA calculation")
	}
	sum := 0.0
	for i := len(values) - period; i < len(values); i++ {
		sum += values[i]
	}
	return sum / float64(period), nil
}

// DailyNewCases turns cumulative confirmed counts into per-day increments.
// The first day has no predecessor and reports 0. Downward revisions stay negative.
func DailyNewCases(records []model.Record) []int64 {
	out := make([]int64, len(records))
	for i := 1; i < len(records); i++ {
		out[i] = records[i].Confirmed - records[i-1].Confirmed
	}
	return out
}

// WeeklyAverageNewCases returns the 7-day SMA of daily new cases.
func WeeklyAverageNewCases(records []model.Record) (float64, error) {
	daily := DailyNewCases(records)
	values := make([]float64, len(daily))
	for i, v := range daily {
		values[i] = float64(v)
	}
	return CalculateSMA(values, 7)
}
