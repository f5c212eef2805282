package subscriber

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/konveyor/tasktracker/tracker"
)

// Prometheus keeps tracker metrics up to date. It owns collectors for
// trackers started, completed and running, items processed by status, item
// durations and the target item count. It is safe for concurrent use.
type Prometheus struct {
	trackersStarted   prometheus.Counter
	trackersCompleted *prometheus.CounterVec
	trackersRunning   prometheus.Gauge
	trackerRuntime    *prometheus.HistogramVec

	itemsProcessed *prometheus.CounterVec
	itemDuration   prometheus.Histogram
	itemsTarget    prometheus.Gauge

	running *runningSet
}

// PrometheusOption configures a Prometheus subscriber.
type PrometheusOption func(*prometheusOptions)

type prometheusOptions struct {
	namespace   string
	constLabels prometheus.Labels
}

// WithNamespace sets the metric name prefix. The default is "tasktracker".
func WithNamespace(ns string) PrometheusOption {
	return func(o *prometheusOptions) {
		o.namespace = ns
	}
}

// WithTask adds a constant "task" label to every metric.
func WithTask(name string) PrometheusOption {
	return func(o *prometheusOptions) {
		if name != "" {
			o.constLabels = prometheus.Labels{"task": name}
		}
	}
}

// NewPrometheus registers the collectors against reg, or against the default
// registerer when reg is nil.
func NewPrometheus(reg prometheus.Registerer, opts ...PrometheusOption) (*Prometheus, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	o := prometheusOptions{namespace: "tasktracker"}
	for _, opt := range opts {
		opt(&o)
	}

	p := &Prometheus{
		trackersStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   o.namespace,
			Name:        "trackers_started_total",
			Help:        "Total trackers that have started.",
			ConstLabels: o.constLabels,
		}),
		trackersCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   o.namespace,
			Name:        "trackers_completed_total",
			Help:        "Total trackers completed partitioned by result.",
			ConstLabels: o.constLabels,
		}, []string{"result"}),
		trackersRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   o.namespace,
			Name:        "trackers_running",
			Help:        "Current number of running trackers.",
			ConstLabels: o.constLabels,
		}),
		trackerRuntime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   o.namespace,
			Name:        "tracker_runtime_seconds",
			Help:        "Wall time per completed tracker.",
			Buckets:     []float64{1, 5, 15, 30, 60, 120, 300, 600, 1200, 3600},
			ConstLabels: o.constLabels,
		}, []string{"result"}),
		itemsProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   o.namespace,
			Name:        "items_processed_total",
			Help:        "Items processed partitioned by tick status.",
			ConstLabels: o.constLabels,
		}, []string{"status"}),
		itemDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   o.namespace,
			Name:        "item_duration_seconds",
			Help:        "Time between consecutive ticks.",
			Buckets:     []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
			ConstLabels: o.constLabels,
		}),
		itemsTarget: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   o.namespace,
			Name:        "items_target",
			Help:        "Total item count of the most recently started tracker, -1 when unknown.",
			ConstLabels: o.constLabels,
		}),
		running: newRunningSet(),
	}
	for _, collector := range []prometheus.Collector{
		p.trackersStarted,
		p.trackersCompleted,
		p.trackersRunning,
		p.trackerRuntime,
		p.itemsProcessed,
		p.itemDuration,
		p.itemsTarget,
	} {
		if err := reg.Register(collector); err != nil {
			return nil, fmt.Errorf("register tracker collector: %w", err)
		}
	}
	return p, nil
}

func (p *Prometheus) OnStart(tick *tracker.Tick) error {
	report := tick.Report()
	p.trackersStarted.Inc()
	p.itemsTarget.Set(float64(report.TotalItemCount()))
	if p.running.start(report.TrackerID()) {
		p.trackersRunning.Inc()
	}
	return nil
}

func (p *Prometheus) OnTick(tick *tracker.Tick) error {
	p.itemsProcessed.WithLabelValues(tick.Status().String()).Add(float64(tick.IncrementBy()))
	p.itemDuration.Observe(tick.Report().ItemTime().Seconds())
	return nil
}

func (p *Prometheus) OnFinish(tick *tracker.Tick) error {
	p.complete(tick, "finished")
	return nil
}

func (p *Prometheus) OnAbort(tick *tracker.Tick) error {
	p.complete(tick, "aborted")
	return nil
}

func (p *Prometheus) complete(tick *tracker.Tick, result string) {
	report := tick.Report()
	p.trackersCompleted.WithLabelValues(result).Inc()
	p.trackerRuntime.WithLabelValues(result).Observe(report.TimeElapsed().Seconds())
	if p.running.complete(report.TrackerID()) {
		p.trackersRunning.Dec()
	}
}

type runningSet struct {
	mu      sync.Mutex
	running map[uuid.UUID]struct{}
}

func newRunningSet() *runningSet {
	return &runningSet{running: make(map[uuid.UUID]struct{})}
}

func (s *runningSet) start(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.running[id]; ok {
		return false
	}
	s.running[id] = struct{}{}
	return true
}

func (s *runningSet) complete(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.running[id]; !ok {
		return false
	}
	delete(s.running, id)
	return true
}
