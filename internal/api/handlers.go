package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"shopcrawler/internal/cache"
	"shopcrawler/internal/domain"

	"go.uber.org/zap"
)

func (s *Server) handleSearchByCategory(w http.ResponseWriter, r *http.Request) {
	categoryID := r.URL.Query().Get("categoryid")
	if categoryID == "" {
		s.respondWithError(w, http.StatusBadRequest, "Missing categoryid in query")
		return
	}

	if entry, ok := s.caches.Category.Get(r.Context(), categoryID); ok {
		s.metrics.IncCache("category", "hit")
		s.respondWithJSON(w, http.StatusOK, domain.Result{Source: domain.SourceCache, ScrapedAt: entry.ScrapedAt, Data: entry.Data})
		return
	}
	s.metrics.IncCache("category", "miss")

	link, err := s.catalog.CategoryLink(r.Context(), categoryID)
	if err != nil {
		s.logger.Error("category link lookup failed", zap.String("category_id", categoryID), zap.Error(err))
		link = ""
	}
	if link == "" {
		s.respondWithError(w, http.StatusNotFound, fmt.Sprintf("Category ID %s not found", categoryID))
		return
	}

	result, err := s.scraper.SearchByCategory(r.Context(), link)
	if err != nil {
		s.logger.Error("category scrape failed", zap.String("category_id", categoryID), zap.Error(err))
		s.respondWithError(w, http.StatusInternalServerError, "Scraper crashed")
		return
	}

	s.respondScraped(w, r, s.caches.Category, categoryID, result)
}

func (s *Server) handleSearchByShop(w http.ResponseWriter, r *http.Request) {
	seller := r.URL.Query().Get("seller")
	if seller == "" {
		s.respondWithError(w, http.StatusBadRequest, "Missing seller")
		return
	}

	if entry, ok := s.caches.Shop.Get(r.Context(), seller); ok {
		s.metrics.IncCache("shop", "hit")
		s.respondWithJSON(w, http.StatusOK, domain.Result{Source: domain.SourceCache, ScrapedAt: entry.ScrapedAt, Data: entry.Data})
		return
	}
	s.metrics.IncCache("shop", "miss")

	productIDs, err := s.catalog.ProductsBySeller(r.Context(), seller)
	if err != nil {
		s.logger.Error("seller lookup failed", zap.String("seller", seller), zap.Error(err))
		productIDs = nil
	}
	if len(productIDs) == 0 {
		s.respondWithError(w, http.StatusNotFound, fmt.Sprintf("No products found for seller: %s", seller))
		return
	}

	result, err := s.scraper.SearchByShop(r.Context(), productIDs)
	if err != nil {
		s.logger.Error("shop scrape failed", zap.String("seller", seller), zap.Error(err))
		s.respondWithError(w, http.StatusInternalServerError, "Scraper crashed")
		return
	}

	s.respondScraped(w, r, s.caches.Shop, seller, result)
}

func (s *Server) handleProductDetail(w http.ResponseWriter, r *http.Request) {
	productID := r.URL.Query().Get("productId")
	if productID == "" {
		s.respondWithError(w, http.StatusBadRequest, "Missing productId")
		return
	}

	if entry, ok := s.caches.Detail.Get(r.Context(), productID); ok {
		s.metrics.IncCache("detail", "hit")
		s.respondWithJSON(w, http.StatusOK, domain.Result{Source: domain.SourceCache, ScrapedAt: entry.ScrapedAt, Data: entry.Data})
		return
	}
	s.metrics.IncCache("detail", "miss")

	result, err := s.scraper.ProductDetail(r.Context(), productID)
	if err != nil {
		s.logger.Error("detail scrape failed", zap.String("product_id", productID), zap.Error(err))
		s.respondWithError(w, http.StatusInternalServerError, "Scraper crashed")
		return
	}

	s.respondScraped(w, r, s.caches.Detail, productID, result)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// --- Helper Functions ---

// respondScraped caches a fresh scrape result and returns it to the caller.
// A result only reaches the cache on this success path; failures never do.
func (s *Server) respondScraped(w http.ResponseWriter, r *http.Request, c cache.Cache, key string, result interface{}) {
	data, err := json.Marshal(result)
	if err != nil {
		s.logger.Error("failed to marshal scrape result", zap.String("key", key), zap.Error(err))
		s.respondWithError(w, http.StatusInternalServerError, "Scraper crashed")
		return
	}
	scrapedAt := time.Now().UTC()
	c.Set(r.Context(), key, cache.Entry{Data: data, ScrapedAt: scrapedAt})
	s.respondWithJSON(w, http.StatusOK, domain.Result{Source: domain.SourceScraper, ScrapedAt: scrapedAt, Data: data})
}

func (s *Server) respondWithError(w http.ResponseWriter, code int, message string) {
	s.respondWithJSON(w, code, map[string]string{"error": message})
}

func (s *Server) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
