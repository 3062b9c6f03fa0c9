package crawler

import (
	"testing"

	"shopcrawler/internal/domain"
)

const base = "https://shop.example"

func TestCategoryIDFromLink(t *testing.T) {
	tests := []struct {
		link string
		want string
	}{
		{"https://shop.example/c/601739", "601739"},
		{"https://shop.example/c/601739/", ""},
		{"https://shop.example/c/electronics", ""},
		{"https://shop.example/c/", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := CategoryIDFromLink(tt.link); got != tt.want {
			t.Errorf("CategoryIDFromLink(%q) = %q, want %q", tt.link, got, tt.want)
		}
	}
}

func TestTopCategoriesDedupAndOrder(t *testing.T) {
	html := `
	<html><body>
		<a class="link-fGzyDw" href="https://shop.example/c/100">Electronics</a>
		<a class="link-fGzyDw" href="https://shop.example/c/200">Fashion</a>
		<a class="link-fGzyDw" href="https://shop.example/c/100">Electronics again</a>
		<a class="link-fGzyDw" href="https://shop.example/c/beauty">No trailing id</a>
		<a class="link-fGzyDw" href="https://elsewhere.example/c/300">Wrong host</a>
		<a href="https://shop.example/c/400">No nav class</a>
	</body></html>
	`

	cats, err := TopCategories(html, base)
	if err != nil {
		t.Fatalf("TopCategories failed: %v", err)
	}

	want := []string{"100", "200"}
	if len(cats) != len(want) {
		t.Fatalf("expected %d categories, got %d: %+v", len(want), len(cats), cats)
	}
	for i, id := range want {
		if cats[i].CategoryID != id {
			t.Errorf("category %d: expected id %q, got %q", i, id, cats[i].CategoryID)
		}
	}
}

func TestChildCategoriesExcludeParent(t *testing.T) {
	html := `
	<html><body>
		<a href="https://shop.example/c/100">Self</a>
		<a href="https://shop.example/c/110">Child one</a>
		<a href="https://shop.example/c/120">Child two</a>
	</body></html>
	`
	parent := domain.Category{CategoryID: "100", Link: "https://shop.example/c/100"}

	children, err := ChildCategories(html, base, parent)
	if err != nil {
		t.Fatalf("ChildCategories failed: %v", err)
	}
	if len(children) != 2 {
		t.Fatalf("expected 2 children, got %d: %+v", len(children), children)
	}
	if children[0].CategoryID != "110" || children[1].CategoryID != "120" {
		t.Errorf("unexpected children: %+v", children)
	}
}

func TestEmbeddedProducts(t *testing.T) {
	html := `
	<html><body>
		<script type="application/json">{"data":{"productList":[
			{"product_id":"p1","seller_info":{"seller_id":"S1","shop_name":"Acme"}},
			{"product_id":"p2","seller_info":{"seller_id":"S2","shop_name":"Globex"}}
		],"hasMore":false}}</script>
	</body></html>
	`

	products, err := EmbeddedProducts(html)
	if err != nil {
		t.Fatalf("EmbeddedProducts failed: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(products))
	}
	if products[0].ProductID != "p1" || products[1].SellerInfo.ShopName != "Globex" {
		t.Errorf("unexpected products: %+v", products)
	}
}

func TestEmbeddedProductsAbsent(t *testing.T) {
	products, err := EmbeddedProducts(`<html><body><p>nothing here</p></body></html>`)
	if err != nil {
		t.Fatalf("expected no error for a page without payload, got %v", err)
	}
	if products != nil {
		t.Errorf("expected nil products, got %+v", products)
	}
}

func TestEmbeddedProductsMalformed(t *testing.T) {
	html := `<html><body><script type="application/json">{"productList": not json</script></body></html>`

	if _, err := EmbeddedProducts(html); err == nil {
		t.Error("expected an error for an unparsable payload")
	}
}
