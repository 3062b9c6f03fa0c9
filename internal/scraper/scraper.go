package scraper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"shopcrawler/internal/browser"
	"shopcrawler/internal/domain"
	"shopcrawler/internal/identity"

	"go.uber.org/zap"
)

// Scraper performs the live, on-demand scrape operations behind the read
// API: rendering a category page for its product cards and calling the
// marketplace's product-detail endpoint.
type Scraper struct {
	renderer     browser.Renderer
	identity     *identity.Rotator
	detailAPIURL string
	origin       string
	httpClient   *http.Client
	logger       *zap.Logger
}

func New(r browser.Renderer, ident *identity.Rotator, detailAPIURL, origin string, l *zap.Logger) *Scraper {
	return &Scraper{
		renderer:     r,
		identity:     ident,
		detailAPIURL: detailAPIURL,
		origin:       origin,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		logger:       l,
	}
}

// SearchByCategory renders the category page and extracts its product cards.
func (s *Scraper) SearchByCategory(ctx context.Context, link string) ([]domain.CardProduct, error) {
	htmlContent, err := s.renderer.HTML(ctx, link, s.identity.UserAgent())
	if err != nil {
		return nil, fmt.Errorf("failed to render category page: %w", err)
	}
	return ExtractCards(htmlContent)
}

// detailRequest mirrors the marketplace's pdp_data request body.
type detailRequest struct {
	GetProductCategoryInfoSchema struct {
		CategoryIDList []string `json:"categoryIdList"`
	} `json:"getProductCategoryInfoSchema"`
	GetPdpRelatedKwSchema struct {
		ProductID   string `json:"product_id"`
		TrafficType int    `json:"traffic_type"`
	} `json:"getPdpRelatedKwSchema"`
	GetProductsForComponentListSchema []string `json:"getProductsForComponentListSchema"`
	GetProductDetailSchema            struct {
		ProductID      string `json:"productId"`
		Region         string `json:"region"`
		UserID         string `json:"userId"`
		SecurityParams string `json:"securityParams"`
	} `json:"getProductDetailSchema"`
}

// ProductDetail fetches the raw product-detail document for one product id.
func (s *Scraper) ProductDetail(ctx context.Context, productID string) (json.RawMessage, error) {
	var body detailRequest
	body.GetProductCategoryInfoSchema.CategoryIDList = []string{}
	body.GetPdpRelatedKwSchema.ProductID = productID
	body.GetProductsForComponentListSchema = []string{}
	body.GetProductDetailSchema.ProductID = productID
	body.GetProductDetailSchema.Region = "ID"
	body.GetProductDetailSchema.UserID = "0"

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.detailAPIURL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("user-agent", s.identity.UserAgent())
	req.Header.Set("content-type", "application/json")
	req.Header.Set("origin", s.origin)
	req.Header.Set("referer", fmt.Sprintf("%s/pdp/produk/%s", s.origin, productID))

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("detail request failed for product %s: %w", productID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("detail endpoint returned %s for product %s", resp.Status, productID)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if !json.Valid(raw) {
		return nil, fmt.Errorf("detail endpoint returned invalid JSON for product %s", productID)
	}
	return json.RawMessage(raw), nil
}

// SearchByShop fetches the detail document for every product id, skipping
// individual failures. It errors only when nothing could be fetched at all.
func (s *Scraper) SearchByShop(ctx context.Context, productIDs []string) ([]json.RawMessage, error) {
	var results []json.RawMessage
	var lastErr error
	for _, id := range productIDs {
		detail, err := s.ProductDetail(ctx, id)
		if err != nil {
			s.logger.Warn("skipping product detail", zap.String("product_id", id), zap.Error(err))
			lastErr = err
			continue
		}
		results = append(results, detail)
	}
	if len(results) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return results, nil
}
