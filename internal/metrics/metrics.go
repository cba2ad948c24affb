// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package metrics provides Prometheus metrics for content handles.
package metrics

import (
	"fmt"

	"github.com/aibor/datvfs/content"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "datvfs"

var _ content.Observer = (*Collector)(nil)

// Collector records content handle events as Prometheus metrics.
type Collector struct {
	loads         prometheus.Counter
	failedLoads   prometheus.Counter
	loadedBytes   prometheus.Counter
	residentBytes prometheus.Gauge
}

// New creates a new [Collector] with its metrics registered on the given
// [prometheus.Registerer].
func New(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		loads: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "content_loads_total",
			Help:      "Total number of content loads",
		}),
		failedLoads: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "content_load_failures_total",
			Help:      "Total number of failed content loads",
		}),
		loadedBytes: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "content_loaded_bytes_total",
			Help:      "Total bytes loaded from content sources",
		}),
		residentBytes: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "content_resident_bytes",
			Help:      "Bytes of content currently held in memory",
		}),
	}
}

// Loaded implements [content.Observer].
func (c *Collector) Loaded(bytes int64) {
	c.loads.Inc()
	c.loadedBytes.Add(float64(bytes))
	c.residentBytes.Add(float64(bytes))
}

// Unloaded implements [content.Observer].
func (c *Collector) Unloaded(bytes int64) {
	c.residentBytes.Sub(float64(bytes))
}

// LoadFailed implements [content.Observer].
func (c *Collector) LoadFailed() {
	c.failedLoads.Inc()
}

// Sample is a single gathered metric value.
type Sample struct {
	Name  string
	Value float64
}

// Gather returns the values of all unlabeled counters and gauges of the given
// [prometheus.Gatherer] sorted by name.
func Gather(gatherer prometheus.Gatherer) ([]Sample, error) {
	families, err := gatherer.Gather()
	if err != nil {
		return nil, fmt.Errorf("gather: %w", err)
	}

	samples := make([]Sample, 0, len(families))

	for _, family := range families {
		for _, metric := range family.GetMetric() {
			if len(metric.GetLabel()) > 0 {
				continue
			}

			samples = append(samples, Sample{
				Name:  family.GetName(),
				Value: metric.GetCounter().GetValue() + metric.GetGauge().GetValue(),
			})
		}
	}

	return samples, nil
}
