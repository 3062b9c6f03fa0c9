package storage

// Ledger tracks which entity ids have already been persisted during the
// current crawl run, so repeat observations skip the write entirely. It is
// constructed fresh per run and thrown away at run end; the upserts remain
// idempotent on their own, so losing the ledger is always safe.
type Ledger struct {
	products   map[string]struct{}
	categories map[string]struct{}
}

func NewLedger() *Ledger {
	return &Ledger{
		products:   make(map[string]struct{}),
		categories: make(map[string]struct{}),
	}
}

func (l *Ledger) HasProduct(id string) bool {
	_, ok := l.products[id]
	return ok
}

func (l *Ledger) MarkProduct(id string) {
	l.products[id] = struct{}{}
}

func (l *Ledger) HasCategory(id string) bool {
	_, ok := l.categories[id]
	return ok
}

func (l *Ledger) MarkCategory(id string) {
	l.categories[id] = struct{}{}
}
