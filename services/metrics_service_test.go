package services

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"kapsel/internal/cache"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLaunchMetricsRecord(t *testing.T) {
	m := NewLaunchMetrics()
	m.ObserveStage(StageMaterialize, time.Now().Add(-time.Second))
	m.ObserveStage(StageRun, time.Now())
	m.RecordPayload(&cache.Result{Items: []cache.ItemResult{
		{Item: "a.jar", Copied: true, Bytes: 10},
		{Item: "b.jar", Copied: false},
		{Item: "c.jar", Copied: true, Bytes: 5},
	}})
	m.SetExitCode(3)

	assert.Equal(t, 2, testutil.CollectAndCount(m.stageDuration))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.payloadItems.WithLabelValues("copied")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.payloadItems.WithLabelValues("skipped")))
	assert.Equal(t, float64(15), testutil.ToFloat64(m.payloadBytes))
	assert.Equal(t, float64(3), testutil.ToFloat64(m.exitCode))

	err := testutil.GatherAndCompare(m.Registry(), strings.NewReader(`
# HELP kapsel_exit_code Exit code of the launch
# TYPE kapsel_exit_code gauge
kapsel_exit_code 3
`), "kapsel_exit_code")
	assert.NoError(t, err)
}

func TestLaunchMetricsPush(t *testing.T) {
	var method, path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	m := NewLaunchMetrics()
	m.SetExitCode(0)
	require.NoError(t, m.Push(srv.URL, "app1"))
	assert.Equal(t, http.MethodPut, method)
	assert.Equal(t, "/metrics/job/kapsel/application/app1", path)
}

func TestLaunchMetricsPushFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := NewLaunchMetrics().Push(srv.URL, "")
	assert.Error(t, err)
}
