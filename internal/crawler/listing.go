package crawler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"shopcrawler/internal/domain"
	"shopcrawler/internal/identity"
	"shopcrawler/internal/monitoring"

	"go.uber.org/zap"
)

// ListingClient walks a category's product listing through the
// marketplace's exclusion-list cursor: every page request carries the ids
// of all products already seen, and the server answers with products not in
// that set plus a hasMore flag.
type ListingClient struct {
	apiURL     string
	origin     string
	pageDelay  time.Duration
	httpClient *http.Client
	identity   *identity.Rotator
	metrics    *monitoring.Metrics
	logger     *zap.Logger
}

func NewListingClient(apiURL, origin string, pageDelay time.Duration, ident *identity.Rotator, m *monitoring.Metrics, l *zap.Logger) *ListingClient {
	return &ListingClient{
		apiURL:     apiURL,
		origin:     origin,
		pageDelay:  pageDelay,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		identity:   ident,
		metrics:    m,
		logger:     l,
	}
}

// CategoryProducts pages through the category's listing until the server
// reports no more pages. On a request failure it returns the products
// collected so far along with the error; pagination of other categories is
// unaffected.
func (c *ListingClient) CategoryProducts(ctx context.Context, cat domain.Category) ([]domain.ListingProduct, error) {
	categoryID, err := strconv.Atoi(cat.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("category id %q is not numeric: %w", cat.CategoryID, err)
	}

	var (
		collected  []domain.ListingProduct
		excludeIDs []string
		hasMore    = true
		pageCount  int
	)

	for hasMore {
		page, err := c.fetchPage(ctx, cat, categoryID, excludeIDs)
		if err != nil {
			return collected, fmt.Errorf("listing request failed for category %s: %w", cat.CategoryID, err)
		}
		c.metrics.IncPages()
		hasMore = page.HasMore

		for _, p := range page.ProductList {
			if reason := skipReason(p); reason != "" {
				c.logger.Debug("skipping listed product",
					zap.String("category_id", cat.CategoryID),
					zap.String("reason", reason))
				continue
			}
			collected = append(collected, p)
			excludeIDs = append(excludeIDs, p.ProductID)
		}

		pageCount++
		c.logger.Info("listing page fetched",
			zap.String("category_id", cat.CategoryID),
			zap.Int("page", pageCount),
			zap.Int("products", len(page.ProductList)))

		if hasMore {
			select {
			case <-time.After(c.pageDelay):
			case <-ctx.Done():
				return collected, ctx.Err()
			}
		}
	}

	return collected, nil
}

func (c *ListingClient) fetchPage(ctx context.Context, cat domain.Category, categoryID int, excludeIDs []string) (*domain.ListingPage, error) {
	payload, err := json.Marshal(domain.ListingRequest{
		CategoryID:        categoryID,
		ExcludeProductIDs: excludeIDs,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("user-agent", c.identity.UserAgent())
	req.Header.Set("content-type", "application/json")
	req.Header.Set("origin", c.origin)
	req.Header.Set("referer", cat.Link)
	req.Header.Set("accept", "application/json,*/*;q=0.8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("listing endpoint returned %s", resp.Status)
	}

	var listing domain.ListingResponse
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, fmt.Errorf("failed to decode listing response: %w", err)
	}
	if listing.Code != 0 {
		return nil, fmt.Errorf("listing endpoint returned code %d: %s", listing.Code, listing.Message)
	}
	return &listing.Data, nil
}

// skipReason names why a listed product is unusable, or "" when it is fine.
// A product missing its id or seller attribution is skipped, never fatal.
func skipReason(p domain.ListingProduct) string {
	switch {
	case p.ProductID == "":
		return "missing product_id"
	case p.SellerInfo.SellerID == "":
		return "missing seller_id"
	case p.SellerInfo.ShopName == "":
		return "missing shop_name"
	default:
		return ""
	}
}
