package notifier

import (
	"fmt"
	"html"
	"strings"

	"covidstat/internal/calculator"
	"covidstat/internal/model"
)

// FormatSummary formats the latest figures of a dataset into a Telegram HTML message.
func FormatSummary(ds *model.Dataset) string {
	latest, ok := ds.Latest()
	if !ok {
		return fmt.Sprintf("⚠️ No data available for %s", html.EscapeString(model.DisplayName(ds.Country)))
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("🦠 <b>COVID-19 | %s</b> | %s\n\n",
		html.EscapeString(model.DisplayName(ds.Country)), latest.Date.Format(model.DateLayout)))

	b.WriteString(fmt.Sprintf("Confirmed: %d\n", latest.Confirmed))
	b.WriteString(fmt.Sprintf("Deaths: %d\n", latest.Deaths))
	b.WriteString(fmt.Sprintf("Recovered: %d\n", latest.Recovered))
	b.WriteString(fmt.Sprintf("Active: %d\n\n", latest.Active))

	daily := calculator.DailyNewCases(ds.Records)
	b.WriteString(fmt.Sprintf("New cases (last day): %+d\n", daily[len(daily)-1]))
	if avg, err := calculator.WeeklyAverageNewCases(ds.Records); err == nil {
		b.WriteString(fmt.Sprintf("7-day average: %.1f\n", avg))
	}
	if latest.Active < 0 {
		b.WriteString("\n⚠️ Active is negative: upstream recovered counts exceed confirmed minus deaths\n")
	}
	b.WriteString(fmt.Sprintf("\n%d records", ds.Len()))
	return b.String()
}

// FormatFailure formats a refresh failure message.
func FormatFailure(country string, err error) string {
	return fmt.Sprintf("❌ Refresh failed for %s: %s",
		html.EscapeString(model.DisplayName(country)), html.EscapeString(err.Error()))
}
