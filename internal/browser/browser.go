package browser

import (
	"context"
	"sync"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/chromedp"
)

// Renderer produces the fully rendered HTML of a page. The crawler and the
// live scraper consume it; tests substitute a canned implementation.
type Renderer interface {
	HTML(ctx context.Context, url, userAgent string) (string, error)
}

// Chrome renders pages through a headless browser session.
type Chrome struct {
	timeout time.Duration
	ctxPool sync.Pool
}

func NewChrome(timeout time.Duration) *Chrome {
	c := &Chrome{timeout: timeout}
	c.ctxPool.New = func() interface{} {
		opts := append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", ""),
			chromedp.Flag("disable-dev-shm-usage", ""),
		)
		allocCtx, _ := chromedp.NewExecAllocator(context.Background(), opts...)
		return allocCtx
	}
	return c
}

// HTML navigates to the url with a mobile viewport and the given identity
// string, scrolls to the bottom so lazy content loads, and returns the
// document's outer HTML.
func (c *Chrome) HTML(ctx context.Context, url, userAgent string) (string, error) {
	allocCtx := c.ctxPool.Get().(context.Context)
	defer c.ctxPool.Put(allocCtx)

	taskCtx, taskCancel := chromedp.NewContext(allocCtx)
	defer taskCancel()
	taskCtx, timeoutCancel := context.WithTimeout(taskCtx, c.timeout)
	defer timeoutCancel()

	var htmlContent string
	err := chromedp.Run(taskCtx,
		emulation.SetUserAgentOverride(userAgent),
		chromedp.EmulateViewport(390, 844, chromedp.EmulateOrientation(emulation.OrientationTypePortraitPrimary, 0)),
		chromedp.Navigate(url),
		chromedp.WaitVisible("body", chromedp.ByQuery),
		chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`, nil),
		chromedp.Sleep(3*time.Second),
		chromedp.OuterHTML("html", &htmlContent),
	)
	if err != nil {
		return "", err
	}
	return htmlContent, nil
}
