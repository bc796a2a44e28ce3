package handler

import (
	"fmt"
	"net/http"

	"github.com/userdir/userdir/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeMetric(w, "userdir_users_cache_hits_total %d\n", snap.UsersCacheHits)
	writeMetric(w, "userdir_users_cache_misses_total %d\n", snap.UsersCacheMisses)
	writeMetric(w, "userdir_users_list_failed_total %d\n", snap.UsersListFailed)
	writeMetric(w, "userdir_users_list_duration_seconds_count %d\n", snap.UsersListDurationCount)
	writeMetric(w, "userdir_users_list_duration_seconds_sum %.6f\n", float64(snap.UsersListDurationTotalNs)/1e9)
	writeMetric(w, "userdir_users_created_total %d\n", snap.UsersCreated)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
