package presenter

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"covidstat/internal/export"
	"covidstat/internal/model"
)

var (
	colorGreen  = lipgloss.AdaptiveColor{Light: "#04B575", Dark: "#25D366"}
	colorRed    = lipgloss.AdaptiveColor{Light: "#D7263D", Dark: "#FF5F56"}
	colorDim    = lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#626262"}
	colorBorder = lipgloss.AdaptiveColor{Light: "#DBDBDB", Dark: "#383838"}

	successStyle = lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(colorRed)
	promptStyle  = lipgloss.NewStyle().Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(colorDim)
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
)

// RecordTable renders records as a bordered table with the CSV column names.
func RecordTable(records []model.Record) string {
	rows := make([][]string, len(records))
	for i, r := range records {
		rows[i] = []string{
			r.Date.Format(model.DateLayout),
			strconv.FormatInt(r.Confirmed, 10),
			strconv.FormatInt(r.Deaths, 10),
			strconv.FormatInt(r.Recovered, 10),
			strconv.FormatInt(r.Active, 10),
		}
	}
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorBorder)).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(export.Header...).
		Rows(rows...).
		String()
}
