package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"mindshare/pkg/errors"
)

func TestRecordWorkerExecution(t *testing.T) {
	before := testutil.ToFloat64(WorkerExecutions.WithLabelValues("test_worker", "success"))

	RecordWorkerExecution("test_worker", 50*time.Millisecond, nil)

	after := testutil.ToFloat64(WorkerExecutions.WithLabelValues("test_worker", "success"))
	assert.Equal(t, before+1, after)
}

func TestRecordWorkerExecution_Error(t *testing.T) {
	before := testutil.ToFloat64(WorkerExecutions.WithLabelValues("test_worker", "error"))

	RecordWorkerExecution("test_worker", time.Millisecond, errors.New("search timed out"))

	after := testutil.ToFloat64(WorkerExecutions.WithLabelValues("test_worker", "error"))
	assert.Equal(t, before+1, after)
}

func TestRecordTwitterAPICall(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status string
	}{
		{"success", nil, "success"},
		{"rate limited", errors.Wrap(errors.ErrRateLimitExceeded, "twitter API"), "rate_limited"},
		{"other error", errors.New("connection reset"), "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := testutil.ToFloat64(TwitterAPICalls.WithLabelValues("recent_search", tt.status))

			RecordTwitterAPICall("recent_search", 10*time.Millisecond, tt.err)

			after := testutil.ToFloat64(TwitterAPICalls.WithLabelValues("recent_search", tt.status))
			assert.Equal(t, before+1, after)
		})
	}
}

func TestRecordDBQuery(t *testing.T) {
	before := testutil.ToFloat64(DBQueries.WithLabelValues("clickhouse", "insert_tweets", "success"))

	RecordDBQuery("clickhouse", "insert_tweets", 2*time.Millisecond, nil)

	after := testutil.ToFloat64(DBQueries.WithLabelValues("clickhouse", "insert_tweets", "success"))
	assert.Equal(t, before+1, after)
}

func TestRecordDBQuery_Error(t *testing.T) {
	before := testutil.ToFloat64(DBQueries.WithLabelValues("postgres", "insert_project", "error"))

	RecordDBQuery("postgres", "insert_project", time.Millisecond, errors.New("connection refused"))

	after := testutil.ToFloat64(DBQueries.WithLabelValues("postgres", "insert_project", "error"))
	assert.Equal(t, before+1, after)
}
