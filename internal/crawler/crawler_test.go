package crawler

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"shopcrawler/internal/config"
	"shopcrawler/internal/domain"
	"shopcrawler/internal/identity"

	"go.uber.org/zap"
)

// fakeRenderer serves canned HTML per URL.
type fakeRenderer struct {
	pages map[string]string
	err   error
}

func (f *fakeRenderer) HTML(ctx context.Context, url, userAgent string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	html, ok := f.pages[url]
	if !ok {
		return "", fmt.Errorf("no page for %s", url)
	}
	return html, nil
}

// fakeSource returns canned products per category and can fail selectively.
type fakeSource struct {
	products map[string][]domain.ListingProduct
	children map[string][]domain.Category
	failFor  map[string]bool
	visited  []string
}

func (f *fakeSource) Collect(ctx context.Context, cat domain.Category) ([]domain.ListingProduct, []domain.Category, error) {
	f.visited = append(f.visited, cat.CategoryID)
	if f.failFor[cat.CategoryID] {
		return nil, nil, errors.New("category exploded")
	}
	return f.products[cat.CategoryID], f.children[cat.CategoryID], nil
}

// recordingStore satisfies storage.Storer and records every write.
type recordingStore struct {
	products   map[string]string // productId -> sellerId
	categories map[string]string // categoryId -> link
}

func newRecordingStore() *recordingStore {
	return &recordingStore{products: map[string]string{}, categories: map[string]string{}}
}

func (s *recordingStore) UpsertProduct(ctx context.Context, productID, sellerID, shopName string) error {
	s.products[productID] = sellerID
	return nil
}

func (s *recordingStore) UpsertCategory(ctx context.Context, categoryID, link string) error {
	s.categories[categoryID] = link
	return nil
}

func (s *recordingStore) ProductsBySeller(ctx context.Context, token string) ([]string, error) {
	return nil, nil
}

func (s *recordingStore) CategoryLink(ctx context.Context, categoryID string) (string, error) {
	return s.categories[categoryID], nil
}

func storefront() string {
	return `
	<html><body>
		<a class="link-fGzyDw" href="https://shop.example/c/100">One</a>
		<a class="link-fGzyDw" href="https://shop.example/c/200">Two</a>
		<a class="link-fGzyDw" href="https://shop.example/c/300">Three</a>
	</body></html>
	`
}

func testCrawler(store *recordingStore, source ProductSource, r *fakeRenderer) *Crawler {
	cfg := &config.Config{BaseURL: base}
	return NewCrawler(cfg, store, source, r, identity.NewRotator(), testMetrics, zap.NewNop())
}

func TestRunProcessesCategoriesInDiscoveryOrder(t *testing.T) {
	store := newRecordingStore()
	source := &fakeSource{
		products: map[string][]domain.ListingProduct{
			"100": {product("p1")},
			"200": {product("p2")},
			"300": {product("p3")},
		},
	}
	renderer := &fakeRenderer{pages: map[string]string{base + "/c": storefront()}}

	if err := testCrawler(store, source, renderer).Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	want := []string{"100", "200", "300"}
	if len(source.visited) != len(want) {
		t.Fatalf("expected %v visited, got %v", want, source.visited)
	}
	for i := range want {
		if source.visited[i] != want[i] {
			t.Fatalf("expected %v visited, got %v", want, source.visited)
		}
	}
	for _, id := range []string{"p1", "p2", "p3"} {
		if _, ok := store.products[id]; !ok {
			t.Errorf("product %s not persisted", id)
		}
	}
	for _, id := range want {
		if store.categories[id] == "" {
			t.Errorf("category %s not persisted", id)
		}
	}
}

func TestFailingCategoryDoesNotStopTheRun(t *testing.T) {
	store := newRecordingStore()
	source := &fakeSource{
		products: map[string][]domain.ListingProduct{
			"100": {product("p1")},
			"300": {product("p3")},
		},
		failFor: map[string]bool{"200": true},
	}
	renderer := &fakeRenderer{pages: map[string]string{base + "/c": storefront()}}

	if err := testCrawler(store, source, renderer).Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(source.visited) != 3 {
		t.Fatalf("expected all 3 categories visited, got %v", source.visited)
	}
	if _, ok := store.products["p1"]; !ok {
		t.Error("category before the failure was not persisted")
	}
	if _, ok := store.products["p3"]; !ok {
		t.Error("category after the failure was not persisted")
	}
	// The failing category's row itself is still recorded.
	if store.categories["200"] == "" {
		t.Error("failing category row missing")
	}
}

func TestRunFailsWhenDiscoveryFails(t *testing.T) {
	renderer := &fakeRenderer{err: errors.New("browser gone")}
	c := testCrawler(newRecordingStore(), &fakeSource{}, renderer)

	if err := c.Run(context.Background()); err == nil {
		t.Fatal("expected discovery failure to fail the run")
	}
}

func TestDeepSourcePersistsChildrenOneLevelDown(t *testing.T) {
	store := newRecordingStore()
	catPage := `
	<html><body>
		<script type="application/json">{"data":{"productList":[
			{"product_id":"p1","seller_info":{"seller_id":"S1","shop_name":"Acme"}}
		],"hasMore":false}}</script>
		<a href="https://shop.example/c/110">Child</a>
	</body></html>
	`
	renderer := &fakeRenderer{pages: map[string]string{
		base + "/c":     `<html><body><a class="link-fGzyDw" href="https://shop.example/c/100">One</a></body></html>`,
		base + "/c/100": catPage,
	}}
	source := NewDeepSource(renderer, identity.NewRotator(), base, zap.NewNop())

	if err := testCrawler(store, source, renderer).Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if _, ok := store.products["p1"]; !ok {
		t.Error("embedded product not persisted")
	}
	if store.categories["110"] == "" {
		t.Error("child category not persisted")
	}
	// Depth is bounded: the child page is never visited, so anything it
	// would link to stays unknown.
	if len(store.categories) != 2 {
		t.Errorf("expected exactly 2 category rows, got %d", len(store.categories))
	}
}

func TestDeepSourceToleratesBadPayload(t *testing.T) {
	catPage := `
	<html><body>
		<script type="application/json">{"productList": garbage</script>
		<a href="https://shop.example/c/110">Child</a>
	</body></html>
	`
	renderer := &fakeRenderer{pages: map[string]string{base + "/c/100": catPage}}
	source := NewDeepSource(renderer, identity.NewRotator(), base, zap.NewNop())

	products, children, err := source.Collect(context.Background(),
		domain.Category{CategoryID: "100", Link: base + "/c/100"})
	if err != nil {
		t.Fatalf("a bad payload must not fail the category: %v", err)
	}
	if len(products) != 0 {
		t.Errorf("expected no products from a bad payload, got %+v", products)
	}
	if len(children) != 1 || children[0].CategoryID != "110" {
		t.Errorf("expected the child category regardless of payload, got %+v", children)
	}
}
