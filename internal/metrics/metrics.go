package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Shop struct {
	Orders     *prometheus.CounterVec
	CheckoutMS prometheus.Histogram
}

// New registers the storefront metrics. Call once per process.
func New(service string) *Shop {
	orders := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace:   "shop",
		Name:        "orders_total",
		Help:        "Checkout submissions by outcome.",
		ConstLabels: prometheus.Labels{"service": service},
	}, []string{"result"}) // accepted | rejected | failed
	checkout := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace:   "shop",
		Name:        "checkout_duration_ms",
		Help:        "Checkout latency in milliseconds, transport included.",
		ConstLabels: prometheus.Labels{"service": service},
		Buckets:     []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	})

	prometheus.MustRegister(orders, checkout)
	return &Shop{Orders: orders, CheckoutMS: checkout}
}

func Handler() http.Handler {
	return promhttp.Handler()
}
