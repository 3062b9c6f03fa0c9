package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	CategoriesTotal *prometheus.CounterVec
	PagesTotal      *prometheus.CounterVec
	ProductsTotal   *prometheus.CounterVec
	ErrorsTotal     *prometheus.CounterVec
	CacheTotal      *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	return &Metrics{
		CategoriesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_categories_processed_total",
			Help: "The total number of categories processed by crawl runs",
		}, nil),
		PagesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_listing_pages_total",
			Help: "The total number of listing pages fetched",
		}, nil),
		ProductsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_products_observed_total",
			Help: "The total number of products observed during crawls",
		}, nil),
		ErrorsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_errors_total",
			Help: "The total number of errors encountered",
		}, []string{"type"}), // e.g., 'category_failed', 'page_failed', 'scrape_failed'
		CacheTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_cache_requests_total",
			Help: "Cache lookups by cache name and outcome",
		}, []string{"cache", "outcome"}),
	}
}

func (m *Metrics) IncCategories() {
	m.CategoriesTotal.WithLabelValues().Inc()
}

func (m *Metrics) IncPages() {
	m.PagesTotal.WithLabelValues().Inc()
}

func (m *Metrics) AddProducts(n int) {
	m.ProductsTotal.WithLabelValues().Add(float64(n))
}

func (m *Metrics) IncErrors(errorType string) {
	m.ErrorsTotal.WithLabelValues(errorType).Inc()
}

func (m *Metrics) IncCache(cacheName, outcome string) {
	m.CacheTotal.WithLabelValues(cacheName, outcome).Inc()
}
