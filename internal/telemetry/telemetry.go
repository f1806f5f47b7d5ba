// Package telemetry exports benchmark summaries as Prometheus metrics in the
// node-exporter textfile format.
package telemetry

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/verte-zerg/sortbench/internal/model"
)

const namespace = "sortbench"

var labels = []string{"algorithm", "shape", "size"}

// Sink holds one registry of suite metrics. It is not safe for concurrent use.
type Sink struct {
	registry *prometheus.Registry

	mean     *prometheus.GaugeVec
	stddev   *prometheus.GaugeVec
	minimum  *prometheus.GaugeVec
	maximum  *prometheus.GaugeVec
	samples  *prometheus.GaugeVec
	failures prometheus.Counter
	info     *prometheus.GaugeVec
}

// NewSink creates a sink with all collectors registered on a private registry.
func NewSink() (*Sink, error) {
	gauge := func(name, help string) *prometheus.GaugeVec {
		return prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		}, labels)
	}
	s := &Sink{
		registry: prometheus.NewRegistry(),
		mean:     gauge("trial_mean_seconds", "Mean elapsed time of the trials in a group."),
		stddev:   gauge("trial_stddev_seconds", "Sample standard deviation of elapsed time in a group."),
		minimum:  gauge("trial_min_seconds", "Fastest trial in a group."),
		maximum:  gauge("trial_max_seconds", "Slowest trial in a group."),
		samples:  gauge("trial_samples", "Number of trials in a group."),
		failures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "verification_failures_total",
			Help:      "Trials whose output was not a sorted permutation of the input.",
		}),
		info: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_info",
			Help:      "Identity of the run the metrics were taken from.",
		}, []string{"run_id", "seed", "go_version"}),
	}
	for _, c := range []prometheus.Collector{s.mean, s.stddev, s.minimum, s.maximum, s.samples, s.failures, s.info} {
		if err := s.registry.Register(c); err != nil {
			return nil, fmt.Errorf("register metric: %w", err)
		}
	}
	return s, nil
}

// Record sets the gauges for every summary and adds the run's failures.
func (s *Sink) Record(run model.Run, summaries []model.SummaryRecord, failures int) {
	s.info.Reset()
	s.info.WithLabelValues(run.ID, strconv.FormatInt(run.Seed, 10), run.GoVersion).Set(1)
	for _, sum := range summaries {
		values := []string{sum.Algorithm, sum.Shape, strconv.Itoa(sum.Size)}
		s.mean.WithLabelValues(values...).Set(sum.Mean.Seconds())
		s.stddev.WithLabelValues(values...).Set(sum.StdDev.Seconds())
		s.minimum.WithLabelValues(values...).Set(sum.Min.Seconds())
		s.maximum.WithLabelValues(values...).Set(sum.Max.Seconds())
		s.samples.WithLabelValues(values...).Set(float64(sum.Samples))
	}
	if failures > 0 {
		s.failures.Add(float64(failures))
	}
}

// Gatherer exposes the registry, e.g. for tests or an HTTP handler.
func (s *Sink) Gatherer() prometheus.Gatherer {
	return s.registry
}

// WriteTextfile atomically writes all metrics to path.
func (s *Sink) WriteTextfile(path string) error {
	if path == "" {
		return errors.New("metrics file path is empty")
	}
	if err := prometheus.WriteToTextfile(path, s.registry); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}
