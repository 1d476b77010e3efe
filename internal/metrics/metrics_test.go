package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveBuild(t *testing.T) {
	before := testutil.ToFloat64(buildsTotal.WithLabelValues(PathSweep, "NO_FUNDS"))
	ObserveBuild(PathSweep, "NO_FUNDS", time.Now())
	assert.Equal(t, before+1, testutil.ToFloat64(buildsTotal.WithLabelValues(PathSweep, "NO_FUNDS")))
}

func TestHTTPMiddleware(t *testing.T) {
	h := HTTPMiddleware("/test", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/test", "418"))
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/test?x=1", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, before+1, testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/test", "418")))
}

func TestRegisterTwice(t *testing.T) {
	logger := logrus.New()
	Register(logger)
	Register(logger)
	ObserveBuild(PathURI, ResultBuilt, time.Now())

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "wallet_builder_builds_total")
}
