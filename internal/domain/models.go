package domain

import (
	"encoding/json"
	"time"
)

// Category is one node of the marketplace category tree.
type Category struct {
	CategoryID string    `json:"category_id"`
	Link       string    `json:"link"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Product is a catalog product attributed to the seller that last listed it.
type Product struct {
	ProductID string    `json:"product_id"`
	SellerID  string    `json:"seller_id"`
	ShopName  string    `json:"shop_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListingRequest is the payload of the marketplace listing endpoint.
// Pagination is exclusion-id based: the server is asked to omit every
// product id the client already saw on earlier pages.
type ListingRequest struct {
	CategoryID        int      `json:"category_id"`
	ExcludeProductIDs []string `json:"exclude_product_ids"`
}

// SellerInfo identifies the seller attached to a listed product.
type SellerInfo struct {
	SellerID string `json:"seller_id"`
	ShopName string `json:"shop_name"`
}

// ListingProduct is one entry of a listing page.
type ListingProduct struct {
	ProductID  string     `json:"product_id"`
	SellerInfo SellerInfo `json:"seller_info"`
}

// ListingPage is the data section of a listing response.
type ListingPage struct {
	ProductList []ListingProduct `json:"productList"`
	HasMore     bool             `json:"hasMore"`
}

// ListingResponse is the full envelope returned by the listing endpoint.
type ListingResponse struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    ListingPage `json:"data"`
}

// CardProduct is one product card scraped from a rendered category page.
type CardProduct struct {
	ProductName   string `json:"productName"`
	Score         string `json:"score"`
	Sold          string `json:"sold"`
	SalePrice     string `json:"salePrice"`
	OriginalPrice string `json:"originalPrice"`
	Image         string `json:"image"`
	Href          string `json:"href"`
}

// Result is the read-API response envelope. Source tells the caller
// whether the payload came from the cache or from a live scrape.
type Result struct {
	Source    string          `json:"source"`
	ScrapedAt time.Time       `json:"scrapedAt"`
	Data      json.RawMessage `json:"data"`
}

const (
	SourceCache   = "cache"
	SourceScraper = "scraper"
)
