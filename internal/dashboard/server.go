// Package dashboard serves the interactive web dashboard.
package dashboard

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"covidstat/internal/chart"
	"covidstat/internal/collector"
	"covidstat/internal/export"
	"covidstat/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

// Server renders the dashboard page and serves CSV downloads. Every request performs
// at most one fetch; nothing is kept between requests.
type Server struct {
	Collector      *collector.Collector
	DefaultCountry string
	PreviewRows    int
	Logger         *zap.Logger
	Router         *gin.Engine
}

// NewServer wires routes and middleware.
func NewServer(col *collector.Collector, defaultCountry string, previewRows int, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestID(), accessLog(logger))
	router.SetHTMLTemplate(tmpl)

	s := &Server{
		Collector:      col,
		DefaultCountry: defaultCountry,
		PreviewRows:    previewRows,
		Logger:         logger,
		Router:         router,
	}

	router.GET("/", s.index)
	router.GET("/download", s.download)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "source": col.Fetcher.Name()})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return s, nil
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.Logger.Info("dashboard listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.Logger.Info("dashboard shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

type tableRow struct {
	Date      string
	Confirmed int64
	Deaths    int64
	Recovered int64
	Active    int64
}

type pageData struct {
	Country     string
	DisplayName string
	Attempted   bool
	Loaded      bool
	Error       string
	Total       int
	Columns     []string
	Rows        []tableRow
	ChartTitle  string
	ChartHTML   string
}

func (s *Server) index(c *gin.Context) {
	country := c.DefaultQuery("country", s.DefaultCountry)
	data := pageData{Country: country, Columns: export.Header}

	trimmed := strings.TrimSpace(country)
	if trimmed == "" {
		c.HTML(http.StatusOK, "index.html", data)
		return
	}
	data.Attempted = true

	ds, err := s.Collector.Collect(c.Request.Context(), trimmed)
	if err != nil {
		data.Error = fetchErrorMessage(err)
		c.HTML(http.StatusOK, "index.html", data)
		return
	}

	var buf bytes.Buffer
	if err := chart.Render(&buf, ds); err != nil {
		s.Logger.Error("render chart failed", zap.String("country", trimmed), zap.Error(err))
		data.Error = "Failed to render chart."
		c.HTML(http.StatusOK, "index.html", data)
		return
	}

	data.Loaded = true
	data.DisplayName = model.DisplayName(trimmed)
	data.Total = ds.Len()
	data.ChartTitle = chart.Title(trimmed)
	data.ChartHTML = buf.String()
	for _, r := range ds.Tail(s.PreviewRows) {
		data.Rows = append(data.Rows, tableRow{
			Date:      r.Date.Format(model.DateLayout),
			Confirmed: r.Confirmed,
			Deaths:    r.Deaths,
			Recovered: r.Recovered,
			Active:    r.Active,
		})
	}
	c.HTML(http.StatusOK, "index.html", data)
}

func (s *Server) download(c *gin.Context) {
	country := strings.TrimSpace(c.Query("country"))
	if country == "" {
		c.String(http.StatusBadRequest, "country is required")
		return
	}

	ds, err := s.Collector.Collect(c.Request.Context(), country)
	if err != nil {
		c.String(downloadStatus(err), fetchErrorMessage(err))
		return
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, ds.Records); err != nil {
		s.Logger.Error("encode csv failed", zap.String("country", country), zap.Error(err))
		c.String(http.StatusInternalServerError, "failed to encode csv")
		return
	}

	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": export.FileName(country)})
	c.Header("Content-Disposition", disposition)
	c.Header("Content-Length", strconv.Itoa(buf.Len()))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// fetchErrorMessage is the user-facing text for a failed fetch. Empty results have no
// message of their own; the page shows the generic warning.
func fetchErrorMessage(err error) string {
	var (
		httpErr   *collector.HTTPError
		schemaErr *collector.SchemaError
		emptyErr  *collector.EmptyResultError
	)
	switch {
	case errors.As(err, &emptyErr):
		return ""
	case errors.As(err, &httpErr):
		return fmt.Sprintf("Failed to fetch data: %d", httpErr.StatusCode)
	case errors.As(err, &schemaErr):
		return "No timeline data found for this country."
	default:
		return fmt.Sprintf("Failed to fetch data: %v", err)
	}
}

func downloadStatus(err error) int {
	var (
		httpErr  *collector.HTTPError
		emptyErr *collector.EmptyResultError
	)
	switch {
	case errors.As(err, &emptyErr):
		return http.StatusNotFound
	case errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusNotFound:
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}
