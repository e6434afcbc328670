package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"covidstat/internal/model"
)

func dataset(days int) *model.Dataset {
	base := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	ds := &model.Dataset{Country: "nepal"}
	for i := 0; i < days; i++ {
		c := int64(100 + 7*i)
		ds.Records = append(ds.Records, model.Record{
			Date: base.AddDate(0, 0, i), Confirmed: c, Deaths: 2, Recovered: 50, Active: c - 52,
		})
	}
	return ds
}

func TestFormatSummary(t *testing.T) {
	msg := FormatSummary(dataset(10))
	assert.Contains(t, msg, "COVID-19 | Nepal")
	assert.Contains(t, msg, "2021-01-10")
	assert.Contains(t, msg, "Confirmed: 163")
	assert.Contains(t, msg, "Active: 111")
	assert.Contains(t, msg, "New cases (last day): +7")
	assert.Contains(t, msg, "7-day average: 7.0")
	assert.Contains(t, msg, "10 records")
	assert.NotContains(t, msg, "negative")
}

func TestFormatSummary_ShortAndNegative(t *testing.T) {
	ds := dataset(2)
	ds.Records[1].Recovered = 500
	ds.Records[1].Active = ds.Records[1].Confirmed - 2 - 500

	msg := FormatSummary(ds)
	assert.NotContains(t, msg, "7-day average")
	assert.Contains(t, msg, "Active is negative")

	assert.Contains(t, FormatSummary(&model.Dataset{Country: "x"}), "No data available")
}

func TestFormatFailure_Escapes(t *testing.T) {
	msg := FormatFailure("nepal", errors.New("status 502: <html>"))
	assert.Contains(t, msg, "Nepal")
	assert.Contains(t, msg, "&lt;html&gt;")
}

type telegramStub struct {
	mu       sync.Mutex
	failures int
	texts    []string
	updates  []string
}

func (s *telegramStub) handler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		switch r.URL.Path {
		case "/botTOKEN/sendMessage":
			if s.failures > 0 {
				s.failures--
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			var payload map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			assert.Equal(t, "42", payload["chat_id"])
			assert.Equal(t, "HTML", payload["parse_mode"])
			s.texts = append(s.texts, payload["text"])
			fmt.Fprint(w, `{"ok":true}`)
		case "/botTOKEN/getUpdates":
			var result []map[string]any
			for i, text := range s.updates {
				result = append(result, map[string]any{"update_id": i + 1, "message": map[string]string{"text": text}})
			}
			s.updates = nil
			json.NewEncoder(w).Encode(map[string]any{"ok": true, "result": result})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
}

func newStubNotifier(t *testing.T, stub *telegramStub) *TelegramNotifier {
	srv := httptest.NewServer(stub.handler(t))
	t.Cleanup(srv.Close)
	n := NewTelegramNotifier("TOKEN", "42", "", nil)
	n.BaseURL = srv.URL
	return n
}

func TestSendWithRetry(t *testing.T) {
	stub := &telegramStub{failures: 1}
	n := newStubNotifier(t, stub)

	require.NoError(t, n.SendWithRetry(context.Background(), "hello", 2))
	assert.Equal(t, []string{"hello"}, stub.texts)
}

func TestSendWithRetry_Exhausted(t *testing.T) {
	stub := &telegramStub{failures: 5}
	n := newStubNotifier(t, stub)

	err := n.SendWithRetry(context.Background(), "hello", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all 1 retries exhausted")
}

func TestStartPolling_RepliesToCommands(t *testing.T) {
	stub := &telegramStub{updates: []string{" /latest ", "/help"}}
	n := newStubNotifier(t, stub)

	ctx, cancel := context.WithCancel(context.Background())
	var (
		mu   sync.Mutex
		seen []string
	)
	done := make(chan struct{})
	go func() {
		n.StartPolling(ctx, func(_ context.Context, cmd string) string {
			mu.Lock()
			defer mu.Unlock()
			seen = append(seen, cmd)
			if cmd == "/help" {
				return "usage"
			}
			return ""
		})
		close(done)
	}()

	require.Eventually(t, func() bool {
		stub.mu.Lock()
		defer stub.mu.Unlock()
		return len(stub.texts) == 1
	}, 2*time.Second, 10*time.Millisecond)
	cancel()
	<-done

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"/latest", "/help"}, seen)
	assert.Equal(t, []string{"usage"}, stub.texts)
}
