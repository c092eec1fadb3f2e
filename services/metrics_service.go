package services

import (
	"fmt"
	"net/http"
	"time"

	"kapsel/internal/cache"
	"kapsel/internal/env"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

const (
	StagePlatform    = "platform"
	StageConfig      = "config"
	StageMaterialize = "materialize"
	StageCommand     = "command"
	StageRun         = "run"
)

// 推送到Pushgateway的超时时间
const pushTimeout = 5 * time.Second

/**
 * LaunchMetrics collects the metrics of a single launch
 * @description
 * - Uses a private registry, nothing is exposed over HTTP
 * - Pushed once at exit when a Pushgateway is configured
 */
type LaunchMetrics struct {
	registry      *prometheus.Registry
	stageDuration *prometheus.HistogramVec
	payloadItems  *prometheus.CounterVec
	payloadBytes  prometheus.Counter
	exitCode      prometheus.Gauge
}

func NewLaunchMetrics() *LaunchMetrics {
	m := &LaunchMetrics{
		registry: prometheus.NewRegistry(),
		stageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "kapsel_stage_duration_seconds",
				Help:    "Duration of launch stages",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"stage"},
		),
		payloadItems: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kapsel_payload_items_total",
				Help: "Payload items processed by materialization",
			},
			[]string{"result"},
		),
		payloadBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "kapsel_payload_bytes_total",
			Help: "Bytes written into the cache directory",
		}),
		exitCode: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "kapsel_exit_code",
			Help: "Exit code of the launch",
		}),
	}
	m.registry.MustRegister(m.stageDuration, m.payloadItems, m.payloadBytes, m.exitCode)
	return m
}

func (m *LaunchMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveStage records the time elapsed since start for stage.
func (m *LaunchMetrics) ObserveStage(stage string, start time.Time) {
	m.stageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

func (m *LaunchMetrics) RecordPayload(res *cache.Result) {
	for _, it := range res.Items {
		if it.Copied {
			m.payloadItems.WithLabelValues("copied").Inc()
		} else {
			m.payloadItems.WithLabelValues("skipped").Inc()
		}
	}
	m.payloadBytes.Add(float64(res.CopiedBytes()))
}

func (m *LaunchMetrics) SetExitCode(code int) {
	m.exitCode.Set(float64(code))
}

/**
 * Push the collected metrics to a Pushgateway
 * @param {string} addr - Pushgateway address
 * @param {string} applicationID - Grouping key, may be empty when the manifest was unreadable
 * @returns {error} Returns error when the push fails
 */
func (m *LaunchMetrics) Push(addr, applicationID string) error {
	pusher := push.New(addr, env.ProductName).
		Gatherer(m.registry).
		Client(&http.Client{Timeout: pushTimeout})
	if applicationID != "" {
		pusher = pusher.Grouping("application", applicationID)
	}
	if err := pusher.Push(); err != nil {
		return fmt.Errorf("push metrics to %s: %w", addr, err)
	}
	return nil
}
