package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"shopcrawler/internal/cache"
	"shopcrawler/internal/config"
	"shopcrawler/internal/domain"
	"shopcrawler/internal/monitoring"

	"go.uber.org/zap"
)

// CatalogReader is the read side of the persistence gateway the handlers
// resolve lookup tokens through.
type CatalogReader interface {
	CategoryLink(ctx context.Context, categoryID string) (string, error)
	ProductsBySeller(ctx context.Context, token string) ([]string, error)
}

// ScrapeService is the expensive live-scrape surface fronted by the caches.
type ScrapeService interface {
	SearchByCategory(ctx context.Context, link string) ([]domain.CardProduct, error)
	SearchByShop(ctx context.Context, productIDs []string) ([]json.RawMessage, error)
	ProductDetail(ctx context.Context, productID string) (json.RawMessage, error)
}

// Caches groups the three independent read-layer cache instances.
type Caches struct {
	Category cache.Cache
	Shop     cache.Cache
	Detail   cache.Cache
}

// Server holds the dependencies for the HTTP server.
type Server struct {
	config     *config.Config
	router     http.Handler
	httpServer *http.Server
	catalog    CatalogReader
	scraper    ScrapeService
	caches     Caches
	metrics    *monitoring.Metrics
	logger     *zap.Logger
}

func NewServer(cfg *config.Config, catalog CatalogReader, scraper ScrapeService, caches Caches, m *monitoring.Metrics, l *zap.Logger) *Server {
	s := &Server{
		config:  cfg,
		catalog: catalog,
		scraper: scraper,
		caches:  caches,
		metrics: m,
		logger:  l,
	}
	s.router = s.setupRouter()
	return s
}

func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%s", s.config.ServerPort),
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 120 * time.Second, // live scrapes sit behind these routes
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
