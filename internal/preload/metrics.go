// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package preload

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts what a Preloader does. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	// LoadsTotal counts finished loads by result ("ok", "failed").
	LoadsTotal *prometheus.CounterVec

	// LoadDuration tracks how long origin fetches take.
	LoadDuration prometheus.Histogram

	// LoadedBytes sums the size of every image fetched.
	LoadedBytes prometheus.Counter

	// SharedLoads counts loads answered by another caller's in-flight fetch.
	SharedLoads prometheus.Counter

	// MirrorErrors counts failed mirror calls by operation.
	MirrorErrors *prometheus.CounterVec

	// Restored counts images copied from the mirror into the cache.
	Restored prometheus.Counter
}

// NewMetrics creates the preload metrics and registers them with reg.
// Panics if registration fails.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		LoadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catpreload_loads_total",
				Help: "Total image loads by result",
			},
			[]string{"result"},
		),
		LoadDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "catpreload_load_duration_seconds",
				Help:    "Image fetch duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		LoadedBytes: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "catpreload_loaded_bytes_total",
				Help: "Total bytes of images fetched from the origin",
			},
		),
		SharedLoads: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "catpreload_shared_loads_total",
				Help: "Loads served by a concurrent fetch of the same image",
			},
		),
		MirrorErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catpreload_mirror_errors_total",
				Help: "Failed mirror operations by operation",
			},
			[]string{"op"},
		),
		Restored: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "catpreload_restored_total",
				Help: "Images restored from the mirror",
			},
		),
	}

	reg.MustRegister(
		m.LoadsTotal,
		m.LoadDuration,
		m.LoadedBytes,
		m.SharedLoads,
		m.MirrorErrors,
		m.Restored,
	)
	return m
}

func (m *Metrics) observeLoad(start time.Time, img *Image, err error) {
	if m == nil {
		return
	}
	m.LoadDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		m.LoadsTotal.WithLabelValues("failed").Inc()
		return
	}
	m.LoadsTotal.WithLabelValues("ok").Inc()
	m.LoadedBytes.Add(float64(img.Size()))
}

func (m *Metrics) shared() {
	if m != nil {
		m.SharedLoads.Inc()
	}
}

func (m *Metrics) mirrorError(op string) {
	if m != nil {
		m.MirrorErrors.WithLabelValues(op).Inc()
	}
}

func (m *Metrics) restored(n int) {
	if m != nil {
		m.Restored.Add(float64(n))
	}
}
