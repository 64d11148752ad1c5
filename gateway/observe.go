package gateway

import (
	"errors"
	"fmt"
	"time"

	"github.com/meghashyamc/encarta/logger"
	"github.com/prometheus/client_golang/prometheus"
)

type gatewayMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newGatewayMetrics(reg prometheus.Registerer) (*gatewayMetrics, error) {
	m := &gatewayMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "encarta",
			Subsystem: "gateway",
			Name:      "requests_total",
			Help:      "Backend requests by operation and outcome kind.",
		}, []string{"operation", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "encarta",
			Subsystem: "gateway",
			Name:      "request_duration_seconds",
			Help:      "Backend request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}
	if err := registerOrReuse(reg, &m.requests); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.duration); err != nil {
		return nil, err
	}
	return m, nil
}

// registerOrReuse registers a collector or reuses an existing one.
func registerOrReuse[T prometheus.Collector](reg prometheus.Registerer, c *T) error {
	if err := reg.Register(*c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			existing, ok := are.ExistingCollector.(T)
			if !ok {
				return fmt.Errorf("gateway: metric already registered with incompatible type: %T", are.ExistingCollector)
			}
			*c = existing
			return nil
		}
		return fmt.Errorf("gateway: register metric: %w", err)
	}
	return nil
}

type observer struct {
	logger  logger.Logger
	metrics *gatewayMetrics
}

func newObserver(log logger.Logger, reg prometheus.Registerer) (*observer, error) {
	var m *gatewayMetrics
	if reg != nil {
		var err error
		m, err = newGatewayMetrics(reg)
		if err != nil {
			return nil, err
		}
	}
	return &observer{logger: log, metrics: m}, nil
}

func (o *observer) observe(op string, start time.Time, err error) {
	if o == nil {
		return
	}
	dur := time.Since(start)

	if o.metrics != nil {
		status := "ok"
		if err != nil {
			status = string(KindOf(err))
		}
		o.metrics.requests.WithLabelValues(op, status).Inc()
		o.metrics.duration.WithLabelValues(op).Observe(dur.Seconds())
	}

	if o.logger != nil {
		if err != nil {
			o.logger.Warn("backend request failed", "op", op, "duration", dur.String(), "err", err.Error())
		} else {
			o.logger.Debug("backend request completed", "op", op, "duration", dur.String())
		}
	}
}
