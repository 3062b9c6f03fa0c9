package crawler

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"shopcrawler/internal/domain"

	"github.com/PuerkitoBio/goquery"
)

// Category links end in the numeric category id: .../c/<digits>
var categoryIDRe = regexp.MustCompile(`/(\d+)$`)

const (
	// topCategorySelector matches the storefront's top-level category nav.
	topCategorySelector = `a.link-fGzyDw[href]`
	// childCategorySelector is looser; category pages link their children
	// without the nav class.
	childCategorySelector = `a[href]`
	// embeddedPayloadSelector locates the structured payload a category
	// page ships its initial product list in.
	embeddedPayloadSelector = `script[type="application/json"]`
)

// CategoryIDFromLink extracts the trailing numeric path segment of a
// category link. Links without one yield "".
func CategoryIDFromLink(link string) string {
	m := categoryIDRe.FindStringSubmatch(link)
	if m == nil {
		return ""
	}
	return m[1]
}

func extractCategories(doc *goquery.Document, selector, base string) []domain.Category {
	seen := make(map[string]struct{})
	var cats []domain.Category
	doc.Find(selector).Each(func(i int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok || !strings.Contains(href, "/c/") || !strings.HasPrefix(href, base) {
			return
		}
		if _, dup := seen[href]; dup {
			return
		}
		seen[href] = struct{}{}
		id := CategoryIDFromLink(href)
		if id == "" {
			return
		}
		cats = append(cats, domain.Category{CategoryID: id, Link: href})
	})
	return cats
}

// TopCategories extracts the deduplicated top-level category links from a
// rendered storefront page, in document order.
func TopCategories(htmlContent, base string) ([]domain.Category, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil, err
	}
	return extractCategories(doc, topCategorySelector, base), nil
}

// ChildCategories extracts category links one level below the given
// category from its rendered page. The category itself is filtered out.
func ChildCategories(htmlContent, base string, parent domain.Category) ([]domain.Category, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil, err
	}
	all := extractCategories(doc, childCategorySelector, base)
	children := all[:0]
	for _, c := range all {
		if c.CategoryID != parent.CategoryID {
			children = append(children, c)
		}
	}
	return children, nil
}

type embeddedPayload struct {
	ProductList []domain.ListingProduct `json:"productList"`
	Data        struct {
		ProductList []domain.ListingProduct `json:"productList"`
	} `json:"data"`
}

// EmbeddedProducts extracts the initial product list a category page embeds
// as structured JSON. A page without any payload returns (nil, nil); a
// payload that fails to parse returns an error.
func EmbeddedProducts(htmlContent string) ([]domain.ListingProduct, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil, err
	}

	var products []domain.ListingProduct
	var parseErr error
	doc.Find(embeddedPayloadSelector).EachWithBreak(func(i int, s *goquery.Selection) bool {
		raw := strings.TrimSpace(s.Text())
		if raw == "" || !strings.Contains(raw, "productList") {
			return true
		}
		var payload embeddedPayload
		if err := json.Unmarshal([]byte(raw), &payload); err != nil {
			parseErr = fmt.Errorf("embedded payload unparsable: %w", err)
			return true
		}
		products = payload.ProductList
		if len(products) == 0 {
			products = payload.Data.ProductList
		}
		return len(products) == 0
	})

	if products != nil {
		return products, nil
	}
	return nil, parseErr
}
