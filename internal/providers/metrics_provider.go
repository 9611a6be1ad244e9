package providers

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"snaplogd/internal/structures"
)

type MetricsProviderInterface interface {
	IncSweepsTotal(trigger string)
	IncFilesConverted(device string)
	IncFileFailures(device string)
	ObserveSweepDuration(duration time.Duration)
	SetDevicesKnown(count int)
	SetLastRunTimestamp(t time.Time)
}

type MetricsProvider struct {
	sweepsTotal    *prometheus.CounterVec
	filesConverted *prometheus.CounterVec
	fileFailures   *prometheus.CounterVec
	sweepDuration  prometheus.Histogram
	devicesKnown   prometheus.Gauge
	lastRun        prometheus.Gauge
}

func (m *MetricsProvider) IncSweepsTotal(trigger string) {
	m.sweepsTotal.WithLabelValues(trigger).Inc()
}

func (m *MetricsProvider) IncFilesConverted(device string) {
	m.filesConverted.WithLabelValues(device).Inc()
}

func (m *MetricsProvider) IncFileFailures(device string) {
	m.fileFailures.WithLabelValues(device).Inc()
}

func (m *MetricsProvider) ObserveSweepDuration(duration time.Duration) {
	m.sweepDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) SetDevicesKnown(count int) {
	m.devicesKnown.Set(float64(count))
}

func (m *MetricsProvider) SetLastRunTimestamp(t time.Time) {
	m.lastRun.Set(float64(t.Unix()))
}

func NewMetricsProvider(conf *structures.Config) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	return &MetricsProvider{
		sweepsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "snaplogd_sweeps_total",
			Help: "Total number of conversion sweeps",
		}, []string{"trigger"}),

		filesConverted: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "snaplogd_files_converted_total",
			Help: "Total number of raw captures converted to PNG",
		}, []string{"device"}),

		fileFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "snaplogd_file_failures_total",
			Help: "Total number of per-file conversion failures",
		}, []string{"device"}),

		sweepDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "snaplogd_sweep_duration_seconds",
			Help:    "Duration of conversion sweeps in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		devicesKnown: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "snaplogd_devices_known",
			Help: "Number of devices known to the registry",
		}),

		lastRun: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "snaplogd_last_run_timestamp_seconds",
			Help: "Unix timestamp of the last completed sweep",
		}),
	}
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncSweepsTotal(_ string)             {}
func (n *noopMetrics) IncFilesConverted(_ string)          {}
func (n *noopMetrics) IncFileFailures(_ string)            {}
func (n *noopMetrics) ObserveSweepDuration(_ time.Duration) {}
func (n *noopMetrics) SetDevicesKnown(_ int)               {}
func (n *noopMetrics) SetLastRunTimestamp(_ time.Time)     {}
