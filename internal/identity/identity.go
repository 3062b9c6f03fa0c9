package identity

import "math/rand"

// Rotator hands out a client-identity string per outbound request.
type Rotator struct {
	userAgents []string
}

func NewRotator() *Rotator {
	// Mobile identities; the marketplace serves its lite storefront to these.
	return &Rotator{
		userAgents: []string{
			"Mozilla/5.0 (Linux; Android 10; K) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/136.0.0.0 Mobile Safari/537.36",
			"Mozilla/5.0 (Linux; Android 11; SM-A205U) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/137.0.0.0 Mobile Safari/537.36",
			"Mozilla/5.0 (iPhone; CPU iPhone OS 14_6 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/14.0 Mobile Safari/604.1",
			"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/138.0.0.0 Safari/537.36",
			"Mozilla/5.0 (Macintosh; Intel Mac OS X 12_0) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/15.0 Safari/605.1.15",
		},
	}
}

// UserAgent returns a randomly chosen identity string.
func (r *Rotator) UserAgent() string {
	if len(r.userAgents) == 0 {
		return ""
	}
	return r.userAgents[rand.Intn(len(r.userAgents))]
}
