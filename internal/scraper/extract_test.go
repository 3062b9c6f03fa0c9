package scraper

import "testing"

const categoryPage = `
<html><body>
	<div class="product-wrapper">
		<a href="/pdp/produk/111"><img src="https://cdn.example/111.jpg"></a>
		<h3>Wireless Earbuds</h3>
		<div class="score"><span>4.8</span></div>
		<div class="sold"><span>1.2k sold</span></div>
		<div class="sale-price"><span class="price">Rp99.000</span></div>
		<div class="origin-price"><span>Rp</span><span>150.000</span></div>
	</div>
	<div class="product-wrapper">
		<h3>Phone Case</h3>
		<div class="sale-price"><span class="price">Rp25.000</span></div>
	</div>
</body></html>
`

func TestExtractCards(t *testing.T) {
	cards, err := ExtractCards(categoryPage)
	if err != nil {
		t.Fatalf("ExtractCards failed: %v", err)
	}
	if len(cards) != 2 {
		t.Fatalf("expected 2 cards, got %d", len(cards))
	}

	first := cards[0]
	if first.ProductName != "Wireless Earbuds" {
		t.Errorf("name: got %q", first.ProductName)
	}
	if first.Score != "4.8" {
		t.Errorf("score: got %q", first.Score)
	}
	if first.Sold != "1.2k sold" {
		t.Errorf("sold: got %q", first.Sold)
	}
	if first.SalePrice != "Rp99.000" {
		t.Errorf("sale price: got %q", first.SalePrice)
	}
	if first.OriginalPrice != "150.000" {
		t.Errorf("original price: got %q", first.OriginalPrice)
	}
	if first.Image != "https://cdn.example/111.jpg" {
		t.Errorf("image: got %q", first.Image)
	}
	if first.Href != "/pdp/produk/111" {
		t.Errorf("href: got %q", first.Href)
	}

	// Sparse cards keep empty fields rather than being dropped.
	second := cards[1]
	if second.ProductName != "Phone Case" || second.Score != "" || second.Image != "" {
		t.Errorf("unexpected sparse card: %+v", second)
	}
}

func TestExtractCardsEmptyPage(t *testing.T) {
	cards, err := ExtractCards(`<html><body></body></html>`)
	if err != nil {
		t.Fatalf("ExtractCards failed: %v", err)
	}
	if len(cards) != 0 {
		t.Errorf("expected no cards, got %d", len(cards))
	}
}
