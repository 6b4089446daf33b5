package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusHooks implements every hook interface by recording Prometheus
// metrics. A single value can be registered for all categories.
type PrometheusHooks struct {
	flushes        *prometheus.CounterVec
	flushedStates  *prometheus.CounterVec
	flushDuration  *prometheus.HistogramVec
	moves          prometheus.Counter
	movedNodes     prometheus.Counter
	deletes        prometheus.Counter
	deletedNodes   prometheus.Counter
	redistribute   prometheus.Histogram
	storeOps       *prometheus.CounterVec
	storeDuration  *prometheus.HistogramVec
	storeBytes     *prometheus.CounterVec
	requests       *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
}

var (
	_ SyncHooks  = (*PrometheusHooks)(nil)
	_ TreeHooks  = (*PrometheusHooks)(nil)
	_ StoreHooks = (*PrometheusHooks)(nil)
	_ HTTPHooks  = (*PrometheusHooks)(nil)
)

// NewPrometheusHooks creates the collectors and registers them with reg.
func NewPrometheusHooks(reg prometheus.Registerer) (*PrometheusHooks, error) {
	h := &PrometheusHooks{
		flushes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "syntree_graphic_flushes_total",
			Help: "Number of graphic update passes by owner kind",
		}, []string{"owner"}),
		flushedStates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "syntree_graphic_states_flushed_total",
			Help: "Number of dirty states reconciled by owner kind",
		}, []string{"owner"}),
		flushDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "syntree_graphic_flush_duration_seconds",
			Help:    "Duration of graphic update passes",
			Buckets: prometheus.ExponentialBuckets(1e-6, 4, 10),
		}, []string{"owner"}),
		moves: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "syntree_tree_moves_total",
			Help: "Number of move operations",
		}),
		movedNodes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "syntree_tree_moved_nodes_total",
			Help: "Number of nodes repositioned, including cascaded descendants",
		}),
		deletes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "syntree_tree_deletes_total",
			Help: "Number of delete operations",
		}),
		deletedNodes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "syntree_tree_deleted_nodes_total",
			Help: "Number of nodes removed, including descendants",
		}),
		redistribute: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "syntree_tree_redistribute_duration_seconds",
			Help:    "Duration of layout passes",
			Buckets: prometheus.ExponentialBuckets(1e-5, 4, 10),
		}),
		storeOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "syntree_store_operations_total",
			Help: "Number of document store operations",
		}, []string{"backend", "op", "result"}),
		storeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: "syntree_store_duration_seconds",
			Help: "Duration of document store operations",
		}, []string{"backend", "op"}),
		storeBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "syntree_store_written_bytes_total",
			Help: "Bytes written to document stores",
		}, []string{"backend"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "syntree_http_requests_total",
			Help: "Number of HTTP requests by route and status",
		}, []string{"method", "route", "status"}),
		requestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: "syntree_http_request_duration_seconds",
			Help: "Duration of HTTP requests",
		}, []string{"method", "route"}),
	}

	for _, c := range []prometheus.Collector{
		h.flushes, h.flushedStates, h.flushDuration,
		h.moves, h.movedNodes, h.deletes, h.deletedNodes, h.redistribute,
		h.storeOps, h.storeDuration, h.storeBytes,
		h.requests, h.requestLatency,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return h, nil
}

func (h *PrometheusHooks) OnFlush(owner string, states int, d time.Duration) {
	h.flushes.WithLabelValues(owner).Inc()
	h.flushedStates.WithLabelValues(owner).Add(float64(states))
	h.flushDuration.WithLabelValues(owner).Observe(d.Seconds())
}

func (h *PrometheusHooks) OnMove(moved int) {
	h.moves.Inc()
	h.movedNodes.Add(float64(moved))
}

func (h *PrometheusHooks) OnDelete(removed int) {
	h.deletes.Inc()
	h.deletedNodes.Add(float64(removed))
}

func (h *PrometheusHooks) OnRedistribute(_ int, d time.Duration) {
	h.redistribute.Observe(d.Seconds())
}

func (h *PrometheusHooks) OnLoad(_ context.Context, backend string, d time.Duration, err error) {
	h.storeOps.WithLabelValues(backend, "load", result(err)).Inc()
	h.storeDuration.WithLabelValues(backend, "load").Observe(d.Seconds())
}

func (h *PrometheusHooks) OnSave(_ context.Context, backend string, size int, d time.Duration, err error) {
	h.storeOps.WithLabelValues(backend, "save", result(err)).Inc()
	h.storeDuration.WithLabelValues(backend, "save").Observe(d.Seconds())
	if err == nil {
		h.storeBytes.WithLabelValues(backend).Add(float64(size))
	}
}

// Install makes h the active hooks of every category.
func (h *PrometheusHooks) Install() {
	SetSyncHooks(h)
	SetTreeHooks(h)
	SetStoreHooks(h)
	SetHTTPHooks(h)
}

func (h *PrometheusHooks) OnRequest(context.Context, string, string) {}

func (h *PrometheusHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	h.requestLatency.WithLabelValues(method, route).Observe(d.Seconds())
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
