package metrics

import (
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNewIsSingleton(t *testing.T) {
	assert.Same(t, New(), New())
}

func TestRecordCountsRateLimited(t *testing.T) {
	c := New()
	before := testutil.ToFloat64(c.rateLimited.WithLabelValues("/api/toggle-user-status"))
	c.Record(http.MethodPost, "/api/toggle-user-status", http.StatusTooManyRequests, 5*time.Millisecond)
	after := testutil.ToFloat64(c.rateLimited.WithLabelValues("/api/toggle-user-status"))
	assert.Equal(t, before+1, after)
}

func TestNilCollectorIsSafe(t *testing.T) {
	var c *Collector
	c.Record(http.MethodGet, "/", http.StatusOK, time.Millisecond)
	c.CacheLookup("users_cache", "hit")
	c.CategoryFetchFailed("economica")
	c.EventDropped()
	c.ExpiringContracts(3)
}
