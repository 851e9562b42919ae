package distributor

import "github.com/ygrebnov/distributor/metrics"

const (
	MetricItemsAdmitted     = "distributor_items_admitted_total"
	MetricMarkersAdmitted   = "distributor_markers_admitted_total"
	MetricAdmissionTimeouts = "distributor_admission_timeouts_total"
	MetricRunsActive        = "distributor_runs_active"
	MetricAdmissionWait     = "distributor_admission_wait_seconds"
	MetricQueueDepth        = "distributor_queue_depth"
)

type instruments struct {
	admitted metrics.Counter
	markers  metrics.Counter
	timeouts metrics.Counter
	active   metrics.UpDownCounter
	wait     metrics.Histogram
	depth    metrics.Histogram
}

func newInstruments(p metrics.Provider) instruments {
	if p == nil {
		p = metrics.NewNoopProvider()
	}
	return instruments{
		admitted: p.Counter(MetricItemsAdmitted,
			metrics.WithDescription("work items admitted to the distribution channel"), metrics.WithUnit("1")),
		markers: p.Counter(MetricMarkersAdmitted,
			metrics.WithDescription("termination markers admitted"), metrics.WithUnit("1")),
		timeouts: p.Counter(MetricAdmissionTimeouts,
			metrics.WithDescription("admissions that exceeded the max wait"), metrics.WithUnit("1")),
		active: p.UpDownCounter(MetricRunsActive,
			metrics.WithDescription("runs currently admitting"), metrics.WithUnit("1")),
		wait: p.Histogram(MetricAdmissionWait,
			metrics.WithDescription("time spent blocked in a successful admission"), metrics.WithUnit("seconds")),
		depth: p.Histogram(MetricQueueDepth,
			metrics.WithDescription("values in the channel right after an admission"), metrics.WithUnit("1")),
	}
}
