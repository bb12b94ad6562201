// Package metrics collects Prometheus metrics for the API and the domain
// services and exposes them for scraping.
package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is what services report domain events through.
type Recorder interface {
	RecordRecipeWrite(op string)
	RecordLedgerChange(ledger string, op string)
	RecordShoppingListDownload(items int)
}

type Collector struct {
	requests        *prometheus.CounterVec
	latency         *prometheus.HistogramVec
	recipeWrites    *prometheus.CounterVec
	ledgerChanges   *prometheus.CounterVec
	listDownloads   prometheus.Counter
	listItemsServed prometheus.Histogram
}

func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "foodgram_http_requests_total",
			Help: "HTTP requests by method, route and status code",
		}, []string{"method", "route", "status_code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "foodgram_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		recipeWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "foodgram_recipe_writes_total",
			Help: "Committed recipe writes by operation",
		}, []string{"op"}),
		ledgerChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "foodgram_ledger_changes_total",
			Help: "Favorite, cart and subscription changes",
		}, []string{"ledger", "op"}),
		listDownloads: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "foodgram_shopping_list_downloads_total",
			Help: "Rendered shopping list documents",
		}),
		listItemsServed: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "foodgram_shopping_list_items",
			Help:    "Aggregated rows per downloaded shopping list",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100},
		}),
	}

	reg.MustRegister(
		c.requests,
		c.latency,
		c.recipeWrites,
		c.ledgerChanges,
		c.listDownloads,
		c.listItemsServed,
	)

	return c
}

func (c *Collector) RecordRecipeWrite(op string) {
	c.recipeWrites.WithLabelValues(op).Inc()
}

func (c *Collector) RecordLedgerChange(ledger string, op string) {
	c.ledgerChanges.WithLabelValues(ledger, op).Inc()
}

func (c *Collector) RecordShoppingListDownload(items int) {
	c.listDownloads.Inc()
	c.listItemsServed.Observe(float64(items))
}

func (c *Collector) RecordRequest(method, route string, status int, duration time.Duration) {
	c.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.latency.WithLabelValues(method, route).Observe(duration.Seconds())
}

// Middleware records every request under its route pattern, not the raw
// path, to keep label cardinality bounded.
func (c *Collector) Middleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		start := time.Now()
		err := ctx.Next()

		status := ctx.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		}
		c.RecordRequest(ctx.Method(), ctx.Route().Path, status, time.Since(start))
		return err
	}
}

// Handler serves the registry in the Prometheus exposition format.
func Handler(gatherer prometheus.Gatherer) fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
}

type nop struct{}

func (nop) RecordRecipeWrite(string)          {}
func (nop) RecordLedgerChange(string, string) {}
func (nop) RecordShoppingListDownload(int)    {}

// Nop returns a Recorder that drops everything.
func Nop() Recorder { return nop{} }
