package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"covidstat/internal/calculator"
	"covidstat/internal/model"
)

// DefaultBaseURL is the public disease.sh COVID-19 API root.
const DefaultBaseURL = "https://disease.sh/v3/covid-19"

// TimelineDateLayout is the upstream M/D/YY key format.
const TimelineDateLayout = "1/2/06"

// DiseaseShFetcher implements Fetcher against the disease.sh historical endpoint.
type DiseaseShFetcher struct {
	BaseURL string
	Client  *http.Client
	Logger  *zap.Logger
}

// NewDiseaseShFetcher creates a fetcher with optional proxy support. A zero timeout leaves
// the client without a deadline; callers can still cancel through the context.
func NewDiseaseShFetcher(baseURL, proxyURL string, timeout time.Duration, logger *zap.Logger) *DiseaseShFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DiseaseShFetcher{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		Logger: logger,
	}
}

func (f *DiseaseShFetcher) Name() string { return "disease.sh" }

// Timeline is the per-date cumulative counters returned by the API.
type Timeline struct {
	Cases     map[string]int64 `json:"cases"`
	Deaths    map[string]int64 `json:"deaths"`
	Recovered map[string]int64 `json:"recovered"`
}

// historicalResponse is the response structure of /historical/{country}.
type historicalResponse struct {
	Country  string    `json:"country"`
	Timeline *Timeline `json:"timeline"`
}

// HistoryURL builds the full-history request URL for country.
func (f *DiseaseShFetcher) HistoryURL(country string) string {
	return fmt.Sprintf("%s/historical/%s?lastdays=all", f.BaseURL, url.PathEscape(country))
}

func (f *DiseaseShFetcher) FetchHistory(ctx context.Context, country string) (*model.Dataset, error) {
	u := f.HistoryURL(country)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "covidstat")

	f.Logger.Debug("fetching history", zap.String("url", u))
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("disease.sh fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("disease.sh read body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPError{StatusCode: resp.StatusCode, Message: upstreamMessage(body)}
	}

	var hr historicalResponse
	if err := json.Unmarshal(body, &hr); err != nil {
		return nil, &SchemaError{Field: "timeline", Err: err}
	}
	if hr.Timeline == nil {
		return nil, &SchemaError{Field: "timeline"}
	}
	if hr.Timeline.Cases == nil {
		return nil, &SchemaError{Field: "timeline.cases"}
	}

	records, err := Reshape(hr.Timeline)
	if err != nil {
		return nil, err
	}
	return &model.Dataset{
		Country:   country,
		Records:   records,
		FetchedAt: time.Now(),
	}, nil
}

// Reshape merges the three per-date mappings into records sorted ascending by date.
// Dates absent from deaths or recovered count as zero.
func Reshape(tl *Timeline) ([]model.Record, error) {
	records := make([]model.Record, 0, len(tl.Cases))
	seen := make(map[time.Time]string, len(tl.Cases))
	for key, confirmed := range tl.Cases {
		date, err := time.Parse(TimelineDateLayout, key)
		if err != nil {
			return nil, &SchemaError{Field: "timeline.cases", Err: fmt.Errorf("date %q: %w", key, err)}
		}
		if prev, ok := seen[date]; ok {
			return nil, &SchemaError{Field: "timeline.cases", Err: fmt.Errorf("dates %q and %q collide", prev, key)}
		}
		seen[date] = key
		records = append(records, model.Record{
			Date:      date,
			Confirmed: confirmed,
			Deaths:    tl.Deaths[key],
			Recovered: tl.Recovered[key],
		})
	}

	sort.Slice(records, func(i, j int) bool { return records[i].Date.Before(records[j].Date) })
	calculator.FillActive(records)
	return records, nil
}

// upstreamMessage extracts {"message": "..."} from an error body.
func upstreamMessage(body []byte) string {
	var e struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &e); err != nil {
		return ""
	}
	return e.Message
}
