// Package metrics exposes watchdog-adjacent state to Prometheus. The
// collector samples the lock file and the process table at scrape time, so
// the numbers are as fresh as the scrape, not cached from any loop tick.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/camwatch/camwatch/internal/lockfile"
	"github.com/camwatch/camwatch/internal/procmon"
)

// StatusCollector reports lock existence and target-process liveness.
type StatusCollector struct {
	lock    *lockfile.Manager
	monitor procmon.Monitor
	target  string

	lockExists *prometheus.Desc
	targetUp   *prometheus.Desc
}

// NewStatusCollector creates a collector for the given lock and target
// process name.
func NewStatusCollector(lock *lockfile.Manager, monitor procmon.Monitor, target string) *StatusCollector {
	return &StatusCollector{
		lock:    lock,
		monitor: monitor,
		target:  target,
		lockExists: prometheus.NewDesc(
			"camwatch_lock_exists",
			"Whether the single-instance lock file is present.",
			nil, nil,
		),
		targetUp: prometheus.NewDesc(
			"camwatch_target_process_up",
			"Whether the watched process is currently running.",
			[]string{"target"}, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *StatusCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.lockExists
	ch <- c.targetUp
}

// Collect implements prometheus.Collector.
func (c *StatusCollector) Collect(ch chan<- prometheus.Metric) {
	exists, _ := c.lock.Inspect()
	ch <- prometheus.MustNewConstMetric(c.lockExists, prometheus.GaugeValue, boolToFloat(exists))

	up := c.monitor.IsRunning(c.target)
	ch <- prometheus.MustNewConstMetric(c.targetUp, prometheus.GaugeValue, boolToFloat(up), c.target)
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
