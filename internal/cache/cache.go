package cache

import (
	"context"
	"encoding/json"
	"time"
)

// Entry is one cached scrape result, stamped with the time the scrape ran.
type Entry struct {
	Data      json.RawMessage `json:"data"`
	ScrapedAt time.Time       `json:"scrapedAt"`
}

// Cache stores scrape results under caller-supplied keys with a fixed
// time-to-live from insertion. There is no sliding expiration and no
// explicit invalidation; entries simply age out.
type Cache interface {
	Get(ctx context.Context, key string) (Entry, bool)
	Set(ctx context.Context, key string, entry Entry)
}
