package stream

import (
	"github.com/bsm/openmetrics"
)

var (
	metricStreamValue = openmetrics.DefaultRegistry().Gauge(openmetrics.Desc{
		Name:   "stream_value",
		Help:   "Statistics of the sample stream",
		Labels: []string{"stream", "stat"},
	})
	metricStreamSpan = openmetrics.DefaultRegistry().Gauge(openmetrics.Desc{
		Name:   "stream_window_span",
		Unit:   "seconds",
		Help:   "Time covered by the samples in the window",
		Labels: []string{"stream"},
	})
	metricStreamWarm = openmetrics.DefaultRegistry().Gauge(openmetrics.Desc{
		Name:   "stream_window_warm",
		Help:   "1 once the window holds a full window of history",
		Labels: []string{"stream"},
	})
	metricStreamDropped = openmetrics.DefaultRegistry().Gauge(openmetrics.Desc{
		Name:   "stream_samples_dropped",
		Help:   "Samples ignored by the window because they were not newer than the previous one",
		Labels: []string{"stream"},
	})
	metricStreamParseErrors = openmetrics.DefaultRegistry().Counter(openmetrics.Desc{
		Name:   "stream_parse_errors",
		Help:   "Lines that could not be parsed as sample",
		Labels: []string{"stream"},
	})
	metricStreamPollErrors = openmetrics.DefaultRegistry().Counter(openmetrics.Desc{
		Name:   "stream_poll_errors",
		Help:   "Failed reads of a polled source",
		Labels: []string{"stream"},
	})
)

// Sink receives a snapshot for every observed sample.
type Sink interface {
	Publish(Snapshot)
}

// MetricsSink publishes snapshots as openmetrics gauges labeled with Name.
type MetricsSink struct {
	Name string
}

func (m MetricsSink) Publish(s Snapshot) {
	metricStreamValue.With(m.Name, "last").Set(s.Last.Value)
	metricStreamValue.With(m.Name, "mean").Set(s.Mean)
	if s.WindowSamples > 0 {
		metricStreamValue.With(m.Name, "windowMin").Set(s.WindowMin)
		metricStreamValue.With(m.Name, "windowMax").Set(s.WindowMax)
		metricStreamValue.With(m.Name, "windowMean").Set(s.WindowMean)
	} else {
		metricStreamValue.With(m.Name, "windowMin").Reset(openmetrics.GaugeOptions{})
		metricStreamValue.With(m.Name, "windowMax").Reset(openmetrics.GaugeOptions{})
		metricStreamValue.With(m.Name, "windowMean").Reset(openmetrics.GaugeOptions{})
	}
	metricStreamSpan.With(m.Name).Set(s.Span.Seconds())
	if s.Warm {
		metricStreamWarm.With(m.Name).Set(1)
	} else {
		metricStreamWarm.With(m.Name).Set(0)
	}
	metricStreamDropped.With(m.Name).Set(float64(s.Dropped))
}
