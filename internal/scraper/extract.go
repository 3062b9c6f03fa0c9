package scraper

import (
	"strings"

	"shopcrawler/internal/domain"

	"github.com/PuerkitoBio/goquery"
)

// ExtractCards parses a rendered category page and pulls out its product
// cards. Cards missing individual fields keep empty strings; only a page
// that cannot be parsed at all is an error.
func ExtractCards(htmlContent string) ([]domain.CardProduct, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil, err
	}

	cards := []domain.CardProduct{}
	doc.Find("div.product-wrapper").Each(func(i int, s *goquery.Selection) {
		card := domain.CardProduct{
			ProductName: strings.TrimSpace(s.Find("h3").First().Text()),
			Score:       strings.TrimSpace(s.Find(".score span").First().Text()),
			Sold:        strings.TrimSpace(s.Find(".sold span").First().Text()),
			SalePrice:   strings.TrimSpace(s.Find(".sale-price .price").First().Text()),
		}
		if img, ok := s.Find("img").First().Attr("src"); ok {
			card.Image = img
		}
		// The second span of the origin-price block carries the number;
		// the first is the currency symbol.
		origin := s.Find(".origin-price span")
		if origin.Length() > 1 {
			card.OriginalPrice = strings.TrimSpace(origin.Eq(1).Text())
		}
		if href, ok := s.Find("a[href]").First().Attr("href"); ok {
			card.Href = href
		}
		cards = append(cards, card)
	})
	return cards, nil
}
