// Package metrics registers the Prometheus instruments exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SalesPostedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "retail_sales_posted_total",
		Help: "Total sales posted successfully",
	})

	SalesVoidedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "retail_sales_voided_total",
		Help: "Total sales voided",
	})

	SalePostingConflictsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "retail_sale_posting_conflicts_total",
		Help: "Sale posting attempts that lost a stock race and were retried",
	})

	SalePostingFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "retail_sale_posting_failures_total",
		Help: "Sale postings that failed after exhausting retries",
	})

	PurchasesPostedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "retail_purchases_posted_total",
		Help: "Total inventory purchases recorded",
	})

	ReconciledSalesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "retail_reconciled_sales_total",
		Help: "Completed sales repaired by the ledger reconciliation sweep",
	})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "retail_http_requests_total",
		Help: "Total HTTP requests processed, labeled by status code",
	}, []string{"method", "endpoint", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "retail_http_request_duration_seconds",
		Help:    "Latency distribution of HTTP requests",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	}, []string{"method", "endpoint"})
)
