package storage

import (
	"context"

	"go.uber.org/zap"
)

// Storer is the storage surface the gateway writes through.
type Storer interface {
	UpsertProduct(ctx context.Context, productID, sellerID, shopName string) error
	UpsertCategory(ctx context.Context, categoryID, link string) error
	ProductsBySeller(ctx context.Context, token string) ([]string, error)
	CategoryLink(ctx context.Context, categoryID string) (string, error)
}

// Gateway fronts the store with a run-scoped dedup ledger and absorbs
// storage errors: a failed write is a skipped entity, a failed read is an
// empty result. Nothing the gateway does can abort a crawl.
type Gateway struct {
	store  Storer
	ledger *Ledger
	logger *zap.Logger
}

func NewGateway(store Storer, ledger *Ledger, logger *zap.Logger) *Gateway {
	return &Gateway{store: store, ledger: ledger, logger: logger}
}

// SaveProduct upserts a product unless this run already wrote it.
func (g *Gateway) SaveProduct(ctx context.Context, productID, sellerID, shopName string) {
	if g.ledger.HasProduct(productID) {
		return
	}
	if err := g.store.UpsertProduct(ctx, productID, sellerID, shopName); err != nil {
		g.logger.Error("failed to upsert product", zap.String("product_id", productID), zap.Error(err))
		return
	}
	g.ledger.MarkProduct(productID)
}

// SaveCategory upserts a category unless this run already wrote it.
// Categories without an id are rejected outright: no row may exist with an
// empty categoryId.
func (g *Gateway) SaveCategory(ctx context.Context, categoryID, link string) {
	if categoryID == "" {
		g.logger.Warn("rejecting category with empty id", zap.String("link", link))
		return
	}
	if g.ledger.HasCategory(categoryID) {
		return
	}
	if err := g.store.UpsertCategory(ctx, categoryID, link); err != nil {
		g.logger.Error("failed to upsert category", zap.String("category_id", categoryID), zap.Error(err))
		return
	}
	g.ledger.MarkCategory(categoryID)
}

// ProductsBySeller looks up product ids for a seller token. Storage errors
// yield an empty list.
func (g *Gateway) ProductsBySeller(ctx context.Context, token string) []string {
	ids, err := g.store.ProductsBySeller(ctx, token)
	if err != nil {
		g.logger.Error("failed to look up products by seller", zap.String("seller", token), zap.Error(err))
		return nil
	}
	return ids
}

// CategoryLink looks up the stored link for a category id. Storage errors
// yield "".
func (g *Gateway) CategoryLink(ctx context.Context, categoryID string) string {
	link, err := g.store.CategoryLink(ctx, categoryID)
	if err != nil {
		g.logger.Error("failed to look up category link", zap.String("category_id", categoryID), zap.Error(err))
		return ""
	}
	return link
}
