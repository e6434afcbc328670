package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordFetch(t *testing.T) {
	before := testutil.ToFloat64(FetchesTotal.WithLabelValues(ResultHTTPError))
	RecordFetch(ResultHTTPError, 120*time.Millisecond)
	after := testutil.ToFloat64(FetchesTotal.WithLabelValues(ResultHTTPError))
	assert.Equal(t, before+1, after)
}

func TestRecordDataset(t *testing.T) {
	RecordDataset("nepal", 1143)
	assert.Equal(t, float64(1143), testutil.ToFloat64(DatasetRows.WithLabelValues("nepal")))

	RecordDataset("nepal", 3)
	assert.Equal(t, float64(3), testutil.ToFloat64(DatasetRows.WithLabelValues("nepal")))
}
