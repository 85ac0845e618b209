// Package metrics holds the Prometheus collectors of the service.
package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fairyhunter13/edu-checkout/internal/model"
)

const namespace = "edu_checkout"

// Metrics groups HTTP and checkout business metrics on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	requestsInFlight prometheus.Gauge

	promoValidations *prometheus.CounterVec
	ordersCreated    *prometheus.CounterVec
	orderValue       *prometheus.HistogramVec
	discountGranted  *prometheus.CounterVec
	eventsFailed     prometheus.Counter
}

// New creates and registers all collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		requestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		requestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}, []string{"method", "route", "status"}),
		requestsInFlight: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "Number of HTTP requests currently being processed",
		}),
		promoValidations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "promo_validations_total",
			Help:      "Promo code validations by outcome",
		}, []string{"result"}),
		ordersCreated: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_created_total",
			Help:      "Orders persisted by entry point and material type",
		}, []string{"source", "material_type"}),
		orderValue: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "order_total_amount",
			Help:      "Order totals in major currency units",
			Buckets:   []float64{100, 250, 500, 1000, 2500, 5000, 10000, 25000},
		}, []string{"material_type"}),
		discountGranted: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "discount_granted_amount_total",
			Help:      "Sum of discounts granted in major currency units",
		}, []string{"material_type"}),
		eventsFailed: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_events_failed_total",
			Help:      "Order events that could not be published",
		}),
	}
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}

// Middleware records request count, latency and in-flight requests. The
// route pattern is used as label so path parameters do not blow up cardinality.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		m.requestsInFlight.Inc()
		defer m.requestsInFlight.Dec()

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		route := c.Route().Path
		labels := []string{c.Method(), route, strconv.Itoa(status)}
		m.requestsTotal.WithLabelValues(labels...).Inc()
		m.requestDuration.WithLabelValues(labels...).Observe(time.Since(start).Seconds())
		return err
	}
}

// PromoValidated counts a validation outcome: "applied" or a rejection reason.
func (m *Metrics) PromoValidated(result string) {
	m.promoValidations.WithLabelValues(result).Inc()
}

// OrderCreated records a persisted order.
func (m *Metrics) OrderCreated(o *model.Order) {
	kind := string(o.Line.Product.Kind)
	m.ordersCreated.WithLabelValues(string(o.Source), kind).Inc()
	total, _ := o.Pricing.Total.Decimal().Float64()
	m.orderValue.WithLabelValues(kind).Observe(total)
	if o.Pricing.DiscountAmount > 0 {
		discount, _ := o.Pricing.DiscountAmount.Decimal().Float64()
		m.discountGranted.WithLabelValues(kind).Add(discount)
	}
}

// EventFailed counts an order event that could not be published.
func (m *Metrics) EventFailed() {
	m.eventsFailed.Inc()
}
