// Package presenter implements the interactive terminal front end.
package presenter

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"covidstat/internal/browser"
	"covidstat/internal/chart"
	"covidstat/internal/collector"
	"covidstat/internal/export"
	"covidstat/internal/metrics"
	"covidstat/internal/model"
)

// Prompt is printed before reading the country name.
const Prompt = "Enter country name (e.g., Nepal, India, USA): "

// CLI prompts for a country, previews its history, charts it and exports it to CSV.
type CLI struct {
	Collector   *collector.Collector
	In          io.Reader
	Out         io.Writer
	OutputDir   string
	ChartDir    string
	OpenChart   bool
	Open        browser.Opener
	PreviewRows int
	Logger      *zap.Logger
}

// NewCLI creates a CLI bound to stdin/stdout.
func NewCLI(col *collector.Collector, outputDir string, openChart bool, logger *zap.Logger) *CLI {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CLI{
		Collector:   col,
		In:          os.Stdin,
		Out:         os.Stdout,
		OutputDir:   outputDir,
		ChartDir:    os.TempDir(),
		OpenChart:   openChart,
		Open:        browser.Open,
		PreviewRows: 5,
		Logger:      logger,
	}
}

// Run executes one prompt-fetch-present cycle. Fetch and export failures are reported
// on Out and do not produce an error; only a failure to read the prompt does.
func (c *CLI) Run(ctx context.Context) error {
	fmt.Fprint(c.Out, promptStyle.Render(Prompt))
	line, err := bufio.NewReader(c.In).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("read country: %w", err)
	}
	country := strings.TrimSpace(line)

	ds, err := c.Collector.Collect(ctx, country)
	if err != nil {
		c.reportFetchError(err)
		return nil
	}

	fmt.Fprintln(c.Out, RecordTable(ds.Tail(c.PreviewRows)))
	c.showChart(ds)

	path, err := export.WriteFile(c.OutputDir, ds)
	if err != nil {
		c.Logger.Error("csv export failed", zap.String("dir", c.OutputDir), zap.Error(err))
		c.failf("Could not save data: %v", err)
		return nil
	}
	metrics.ExportsTotal.Inc()
	fmt.Fprintln(c.Out, successStyle.Render("[✔] Data saved to "+path))
	return nil
}

func (c *CLI) showChart(ds *model.Dataset) {
	if !c.OpenChart {
		return
	}
	path, err := chart.WriteFile(c.ChartDir, ds)
	if err != nil {
		c.Logger.Warn("render chart failed", zap.Error(err))
		c.failf("Could not render chart: %v", err)
		return
	}
	u, err := browser.FileURL(path)
	if err == nil {
		err = c.Open(u)
	}
	if err != nil {
		c.Logger.Warn("open chart failed", zap.String("path", path), zap.Error(err))
		fmt.Fprintln(c.Out, dimStyle.Render("Chart written to "+path))
		return
	}
	c.Logger.Debug("chart opened", zap.String("path", path))
}

func (c *CLI) reportFetchError(err error) {
	var (
		httpErr   *collector.HTTPError
		schemaErr *collector.SchemaError
		emptyErr  *collector.EmptyResultError
	)
	switch {
	case errors.As(err, &emptyErr):
	case errors.As(err, &httpErr):
		c.failf("Failed to fetch data: %d", httpErr.StatusCode)
	case errors.As(err, &schemaErr):
		c.failf("No timeline data found for this country.")
	default:
		c.failf("Failed to fetch data: %v", err)
	}
	c.failf("No data available.")
}

func (c *CLI) failf(format string, args ...any) {
	fmt.Fprintln(c.Out, errorStyle.Render("[!] "+fmt.Sprintf(format, args...)))
}
