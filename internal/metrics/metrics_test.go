package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_ServesPrivateRegistry(t *testing.T) {
	SubmissionsTotal.WithLabelValues("metrics_test", "OK").Inc()

	srv := httptest.NewServer(Handler())
	defer srv.Close()

	res, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `forms_submissions_total{endpoint="metrics_test",outcome="OK"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(NotificationsTotal.WithLabelValues("chat", "failure"))
	NotificationsTotal.WithLabelValues("chat", "failure").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(NotificationsTotal.WithLabelValues("chat", "failure")))
}
