package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestSyncCounters(t *testing.T) {
	SyncRuns.WithLabelValues("steam", "partial").Inc()
	SyncRuns.WithLabelValues("steam", "partial").Inc()
	if got := testutil.ToFloat64(SyncRuns.WithLabelValues("steam", "partial")); got != 2 {
		t.Fatalf("sync runs=%v want 2", got)
	}
}

func TestCollectorsRegistered(t *testing.T) {
	CacheRequests.WithLabelValues("gog", "hit").Inc()
	if n := testutil.CollectAndCount(CacheRequests); n == 0 {
		t.Fatalf("cache requests not collected")
	}
}
