// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package api

import (
	"context"

	"github.com/hashicorp/mlperms/internal/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

type metrics struct {
	registry *prometheus.Registry

	// resolutions counts decisions by the source that produced them and the
	// resulting level.
	resolutions *prometheus.CounterVec

	resolutionErrors prometheus.Counter

	resolutionSeconds prometheus.Histogram
}

func newMetrics(ctx context.Context) (*metrics, error) {
	const op = "api.newMetrics"
	registry := prometheus.NewRegistry()
	m := &metrics{
		registry: registry,
		resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mlperms",
			Name:      "resolutions_total",
			Help:      "Permission resolutions by deciding source and resulting level.",
		}, []string{"source", "level"}),
		resolutionErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mlperms",
			Name:      "resolution_errors_total",
			Help:      "Permission resolutions that failed hard and were denied.",
		}),
		resolutionSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "mlperms",
			Name:      "resolution_duration_seconds",
			Help:      "Time spent resolving a permission.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	for _, c := range []prometheus.Collector{
		m.resolutions,
		m.resolutionErrors,
		m.resolutionSeconds,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	} {
		if err := registry.Register(c); err != nil {
			return nil, errors.New(ctx, errors.InvalidParameter, op, "failed to register collector", errors.WithWrap(err))
		}
	}
	return m, nil
}
