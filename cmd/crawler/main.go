package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shopcrawler/internal/api"
	"shopcrawler/internal/browser"
	"shopcrawler/internal/cache"
	"shopcrawler/internal/config"
	"shopcrawler/internal/crawler"
	"shopcrawler/internal/identity"
	"shopcrawler/internal/monitoring"
	"shopcrawler/internal/scraper"
	"shopcrawler/internal/storage"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	// Initialize structured logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("could not load config", zap.Error(err))
	}

	// Initialize Storage Layer
	store, err := storage.NewStore(cfg.DBPath)
	if err != nil {
		logger.Fatal("failed to open catalog database", zap.Error(err))
	}
	defer store.Close()
	logger.Info("catalog database ready", zap.String("path", cfg.DBPath))

	// Initialize Monitoring, Identities, Browser
	metrics := monitoring.NewMetrics()
	rotator := identity.NewRotator()
	renderer := browser.NewChrome(time.Duration(cfg.NavTimeout) * time.Second)

	// Initialize Core Crawler
	var source crawler.ProductSource
	if cfg.CrawlMode == config.ModeDeep {
		source = crawler.NewDeepSource(renderer, rotator, cfg.BaseURL, logger)
	} else {
		listing := crawler.NewListingClient(cfg.ListingAPIURL, cfg.BaseURL, cfg.PageDelay(), rotator, metrics, logger)
		source = crawler.NewListingSource(listing)
	}
	coreCrawler := crawler.NewCrawler(cfg, store, source, renderer, rotator, metrics, logger)

	if cfg.CrawlOnStart {
		go func() {
			logger.Info("starting crawl run", zap.String("mode", cfg.CrawlMode))
			if err := coreCrawler.Run(context.Background()); err != nil {
				logger.Error("crawl run failed", zap.Error(err))
			}
		}()
	}

	// Initialize Read Layer
	liveScraper := scraper.New(renderer, rotator, cfg.DetailAPIURL, cfg.BaseURL, logger)
	caches := newCaches(cfg, logger)
	server := api.NewServer(cfg, store, liveScraper, caches, metrics, logger)

	// Graceful Shutdown
	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("could not start server", zap.Error(err))
		}
	}()

	logger.Info("server started", zap.String("port", cfg.ServerPort))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exiting")
}

// newCaches builds the three read-layer caches, redis-backed when an
// address is configured, in-process otherwise.
func newCaches(cfg *config.Config, logger *zap.Logger) api.Caches {
	ttl := cfg.CacheTTL()
	if cfg.RedisAddr == "" {
		return api.Caches{
			Category: cache.NewMemory(ttl),
			Shop:     cache.NewMemory(ttl),
			Detail:   cache.NewMemory(ttl),
		}
	}
	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	return api.Caches{
		Category: cache.NewRedis(client, "category", ttl, logger),
		Shop:     cache.NewRedis(client, "shop", ttl, logger),
		Detail:   cache.NewRedis(client, "detail", ttl, logger),
	}
}
