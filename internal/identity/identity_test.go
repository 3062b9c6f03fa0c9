package identity

import "testing"

func TestUserAgentComesFromPool(t *testing.T) {
	r := NewRotator()

	pool := make(map[string]struct{}, len(r.userAgents))
	for _, ua := range r.userAgents {
		pool[ua] = struct{}{}
	}

	for i := 0; i < 50; i++ {
		ua := r.UserAgent()
		if ua == "" {
			t.Fatal("expected a non-empty identity string")
		}
		if _, ok := pool[ua]; !ok {
			t.Fatalf("identity %q not in the pool", ua)
		}
	}
}

func TestEmptyPool(t *testing.T) {
	r := &Rotator{}
	if ua := r.UserAgent(); ua != "" {
		t.Errorf("expected empty string from empty pool, got %q", ua)
	}
}
