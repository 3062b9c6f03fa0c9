package crawler

import (
	"context"
	"fmt"

	"shopcrawler/internal/browser"
	"shopcrawler/internal/config"
	"shopcrawler/internal/domain"
	"shopcrawler/internal/identity"
	"shopcrawler/internal/monitoring"
	"shopcrawler/internal/storage"

	"go.uber.org/zap"
)

// ProductSource collects the products of one category, plus any child
// categories it discovers along the way. Two implementations exist: the
// remote listing cursor and the embedded page payload.
type ProductSource interface {
	Collect(ctx context.Context, cat domain.Category) ([]domain.ListingProduct, []domain.Category, error)
}

// Crawler drives one catalog crawl run: discover the top-level category
// tree, then walk each category strictly in discovery order, persisting
// everything through a run-scoped gateway.
type Crawler struct {
	cfg      *config.Config
	store    storage.Storer
	source   ProductSource
	renderer browser.Renderer
	identity *identity.Rotator
	metrics  *monitoring.Metrics
	logger   *zap.Logger
}

func NewCrawler(cfg *config.Config, store storage.Storer, source ProductSource, r browser.Renderer, ident *identity.Rotator, m *monitoring.Metrics, l *zap.Logger) *Crawler {
	return &Crawler{
		cfg:      cfg,
		store:    store,
		source:   source,
		renderer: r,
		identity: ident,
		metrics:  m,
		logger:   l,
	}
}

// Run executes one full crawl. Each category fails in isolation: an error
// while collecting one category is logged and the run moves on to the next.
// There is no checkpoint; a rerun starts from discovery and is safe because
// every write is an idempotent upsert.
func (c *Crawler) Run(ctx context.Context) error {
	ledger := storage.NewLedger()
	gateway := storage.NewGateway(c.store, ledger, c.logger)

	cats, err := c.discover(ctx)
	if err != nil {
		return fmt.Errorf("category discovery failed: %w", err)
	}
	c.logger.Info("discovered top-level categories", zap.Int("count", len(cats)))

	for _, cat := range cats {
		gateway.SaveCategory(ctx, cat.CategoryID, cat.Link)

		products, children, err := c.source.Collect(ctx, cat)

		for _, p := range products {
			gateway.SaveProduct(ctx, p.ProductID, p.SellerInfo.SellerID, p.SellerInfo.ShopName)
		}
		for _, child := range children {
			gateway.SaveCategory(ctx, child.CategoryID, child.Link)
		}
		c.metrics.IncCategories()
		c.metrics.AddProducts(len(products))

		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.logger.Warn("category failed, continuing with next",
				zap.String("category_id", cat.CategoryID), zap.Error(err))
			c.metrics.IncErrors("category_failed")
			continue
		}
		c.logger.Info("category processed",
			zap.String("category_id", cat.CategoryID),
			zap.Int("products", len(products)),
			zap.Int("children", len(children)))
	}

	c.logger.Info("crawl run finished", zap.Int("categories", len(cats)))
	return nil
}

func (c *Crawler) discover(ctx context.Context) ([]domain.Category, error) {
	htmlContent, err := c.renderer.HTML(ctx, c.cfg.BaseURL+"/c", c.identity.UserAgent())
	if err != nil {
		return nil, err
	}
	return TopCategories(htmlContent, c.cfg.BaseURL)
}

// ListingSource paginates each category through the remote listing API.
type ListingSource struct {
	client *ListingClient
}

func NewListingSource(client *ListingClient) *ListingSource {
	return &ListingSource{client: client}
}

func (s *ListingSource) Collect(ctx context.Context, cat domain.Category) ([]domain.ListingProduct, []domain.Category, error) {
	products, err := s.client.CategoryProducts(ctx, cat)
	return products, nil, err
}

// DeepSource renders each category page, reads the embedded product
// payload, and picks up child categories one level down. It never recurses
// into the children; the tree is bounded to two levels.
type DeepSource struct {
	renderer browser.Renderer
	identity *identity.Rotator
	base     string
	logger   *zap.Logger
}

func NewDeepSource(r browser.Renderer, ident *identity.Rotator, base string, l *zap.Logger) *DeepSource {
	return &DeepSource{renderer: r, identity: ident, base: base, logger: l}
}

func (s *DeepSource) Collect(ctx context.Context, cat domain.Category) ([]domain.ListingProduct, []domain.Category, error) {
	htmlContent, err := s.renderer.HTML(ctx, cat.Link, s.identity.UserAgent())
	if err != nil {
		return nil, nil, err
	}

	products, err := EmbeddedProducts(htmlContent)
	if err != nil {
		// An unparsable payload costs this page's products, nothing more.
		s.logger.Warn("embedded payload unusable",
			zap.String("category_id", cat.CategoryID), zap.Error(err))
	}
	valid := products[:0]
	for _, p := range products {
		if skipReason(p) == "" {
			valid = append(valid, p)
		}
	}

	children, err := ChildCategories(htmlContent, s.base, cat)
	if err != nil {
		return valid, nil, err
	}
	return valid, children, nil
}
