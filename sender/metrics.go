package sender

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	sendTokens   atomic.Uint64
	sendCount    atomic.Uint64
	outcomes     *prometheus.CounterVec
	sendDuration *prometheus.SummaryVec
}

func registerMetrics(reg *prometheus.Registry, s *sender) {
	reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "notification",
		Subsystem: "fanout",
		Name:      "tokens",
		Help:      "tokens handed to providers",
	}, func() float64 {
		return float64(s.metrics.sendTokens.Load())
	}))
	reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "notification",
		Subsystem: "fanout",
		Name:      "count",
		Help:      "fan-outs since start",
	}, func() float64 {
		return float64(s.metrics.sendCount.Load())
	}))
	s.metrics.outcomes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "notification",
		Subsystem: "fanout",
		Name:      "outcomes_total",
		Help:      "delivery outcomes by status",
	}, []string{"status"})
	reg.MustRegister(s.metrics.outcomes)
	s.metrics.sendDuration = prometheus.NewSummaryVec(prometheus.SummaryOpts{
		Namespace: "notification",
		Subsystem: "fanout",
		Name:      "duration_seconds",
		Help:      "fan-out duration by selector",
		Objectives: map[float64]float64{
			0.5:  0.5,
			0.85: 0.01,
			0.95: 0.0005,
			0.99: 0.0001,
		},
	}, []string{"selector"})
	reg.MustRegister(s.metrics.sendDuration)
}
