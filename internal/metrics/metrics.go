// Package metrics holds the prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

type Metrics struct {
	Registry *prometheus.Registry

	HTTPRequests     *prometheus.CounterVec
	HTTPDuration     *prometheus.HistogramVec
	StockAdjustments *prometheus.CounterVec
	LowStockProducts prometheus.Gauge
	Sales            prometheus.Counter
}

// New registers every collector on a fresh registry, plus the Go and process collectors.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shopflow_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "shopflow_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		StockAdjustments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shopflow_stock_adjustments_total",
			Help: "Stock movements written, by reason.",
		}, []string{"reason"}),
		LowStockProducts: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "shopflow_low_stock_products",
			Help: "Products below their low stock threshold at the last alert read.",
		}),
		Sales: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "shopflow_sales_total",
			Help: "Sales recorded.",
		}),
	}

	m.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequests,
		m.HTTPDuration,
		m.StockAdjustments,
		m.LowStockProducts,
		m.Sales,
	)
	return m
}
