package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertMetricLine matches a Prometheus sample by name, partial labels and value.
// The exporter injects OTel scope labels, hence the loose label pattern.
func assertMetricLine(t *testing.T, output, name, labels, value string) {
	t.Helper()
	pattern := name + `\{[^}]*` + labels + `[^}]*\} ` + value
	assert.Regexp(t, pattern, output)
}

func scrape(t *testing.T, provider *Provider) string {
	t.Helper()
	w := httptest.NewRecorder()
	provider.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}

func TestBusinessMetrics_Integration(t *testing.T) {
	provider, err := NewProvider("bm_test")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	bm, err := NewBusinessMetrics(provider.MeterProvider(), "bm_test")
	require.NoError(t, err)

	ctx := context.Background()
	bm.RecordOperation(ctx, "card", "capture", StatusSuccess)
	bm.RecordOperation(ctx, "card", "capture", StatusSuccess)
	bm.RecordOperation(ctx, "card", "capture", StatusError)
	bm.RecordOperation(ctx, "card", "lookup", StatusSuccess)
	bm.RecordDuration(ctx, "card", "capture", 40*time.Millisecond, StatusSuccess)
	bm.RecordDuration(ctx, "card", "capture", 60*time.Millisecond, StatusSuccess)
	bm.RecordOutcome(ctx, "done", "", "accepted")
	bm.RecordOutcome(ctx, "aborted", "no_data", "")
	bm.RecordOutcome(ctx, "aborted", "no_data", "")

	output := scrape(t, provider)

	assertMetricLine(t, output, `bm_test_operations_total`,
		`domain="card".*operation="capture".*status="success"`, `2`)
	assertMetricLine(t, output, `bm_test_operations_total`,
		`domain="card".*operation="capture".*status="error"`, `1`)
	assertMetricLine(t, output, `bm_test_operations_total`,
		`domain="card".*operation="lookup".*status="success"`, `1`)
	assertMetricLine(t, output, `bm_test_operation_duration_seconds_count`,
		`domain="card".*operation="capture".*status="success"`, `2`)
	assertMetricLine(t, output, `bm_test_pipeline_outcomes_total`,
		`reason="no_data".*settlement="".*state="aborted"`, `2`)
	assertMetricLine(t, output, `bm_test_pipeline_outcomes_total`,
		`reason="".*settlement="accepted".*state="done"`, `1`)
}

func TestNewNoOpBusinessMetrics(t *testing.T) {
	noOp := NewNoOpBusinessMetrics()
	assert.IsType(t, &NoOpBusinessMetrics{}, noOp)

	assert.NotPanics(t, func() {
		noOp.RecordOperation(context.Background(), "card", "capture", StatusSuccess)
		noOp.RecordDuration(context.Background(), "card", "capture", time.Second, StatusError)
		noOp.RecordOutcome(context.Background(), "aborted", "crypto_failure", "")
	})
}
