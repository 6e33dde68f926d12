package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchesTotal_Increments(t *testing.T) {
	for _, outcome := range []string{"success", "failed", "stale"} {
		before := testutil.ToFloat64(SearchesTotal.WithLabelValues(outcome))
		SearchesTotal.WithLabelValues(outcome).Inc()
		after := testutil.ToFloat64(SearchesTotal.WithLabelValues(outcome))
		assert.InDelta(t, before+1, after, 0.0001, "outcome %s", outcome)
	}
}

func TestInstrumentTransport_CountsByStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = io.WriteString(w, "ok")
	}))
	defer server.Close()

	ok := testutil.ToFloat64(CatalogRequestsTotal.WithLabelValues("200"))
	missing := testutil.ToFloat64(CatalogRequestsTotal.WithLabelValues("404"))

	client := &http.Client{Transport: InstrumentTransport(nil)}

	resp, err := client.Get(server.URL + "/anime")
	require.NoError(t, err)
	resp.Body.Close()

	resp, err = client.Get(server.URL + "/missing")
	require.NoError(t, err)
	resp.Body.Close()

	assert.InDelta(t, ok+1, testutil.ToFloat64(CatalogRequestsTotal.WithLabelValues("200")), 0.0001)
	assert.InDelta(t, missing+1, testutil.ToFloat64(CatalogRequestsTotal.WithLabelValues("404")), 0.0001)
}

func TestNewHTTPServer_ServesMetrics(t *testing.T) {
	srv := NewHTTPServer("127.0.0.1:0")
	assert.Equal(t, "127.0.0.1:0", srv.Addr)

	SearchesSubmitted.Inc()

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "anisearch_searches_submitted_total"))
}
