// Package metrics 提供 Prometheus 指标注册与独立指标端口
package metrics

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics 服务指标集合
type Metrics struct {
	registry *prometheus.Registry

	// HTTPRequests HTTP 请求计数
	HTTPRequests *prometheus.CounterVec
	// HTTPDuration HTTP 请求耗时
	HTTPDuration *prometheus.HistogramVec

	// MerchantsRegistered 商户注册计数
	MerchantsRegistered prometheus.Counter
	// StepsSubmitted 步骤提交计数，按步骤名区分
	StepsSubmitted *prometheus.CounterVec
	// Decisions 管理端审批决定计数，按结果区分
	Decisions *prometheus.CounterVec
	// SummaryRepairs 汇总标志与实际记录不一致被修复的次数
	SummaryRepairs prometheus.Counter
}

// New 创建并注册指标集合
func New(serviceName string) *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "onboarding",
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests.",
				ConstLabels: prometheus.Labels{
					"service": serviceName,
				},
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "onboarding",
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		MerchantsRegistered: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "onboarding",
				Name:      "merchants_registered_total",
				Help:      "Total number of merchant registrations.",
			},
		),
		StepsSubmitted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "onboarding",
				Name:      "steps_submitted_total",
				Help:      "Total number of onboarding step submissions.",
			},
			[]string{"step"},
		),
		Decisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "onboarding",
				Name:      "decisions_total",
				Help:      "Total number of administrative decisions.",
			},
			[]string{"decision"},
		),
		SummaryRepairs: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "onboarding",
				Name:      "summary_repairs_total",
				Help:      "Times the cached step summary disagreed with live records and was rewritten.",
			},
		),
	}

	registry.MustRegister(
		m.HTTPRequests,
		m.HTTPDuration,
		m.MerchantsRegistered,
		m.StepsSubmitted,
		m.Decisions,
		m.SummaryRepairs,
	)

	return m
}

// ObserveHTTP 记录一次 HTTP 请求
func (m *Metrics) ObserveHTTP(method, path string, status int, elapsed time.Duration) {
	m.HTTPRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

// Handler 返回 Prometheus 抓取端点
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve 在独立端口暴露指标端点，阻塞直至服务退出
func (m *Metrics) Serve(port int, path string) error {
	mux := http.NewServeMux()
	if path == "" {
		path = "/metrics"
	}
	mux.Handle(path, m.Handler())
	return http.ListenAndServe(fmt.Sprintf(":%d", port), mux)
}
