package middleware

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"

	"todoflow/pkg/log"
)

const (
	limiterCapacity = 1024
	limiterTTL      = 10 * time.Minute
)

// Middleware bundles the webhook guards: shared-secret authentication and
// per-sender rate limiting.
type Middleware struct {
	l           log.Logger
	secretToken string

	limiters *expirable.LRU[string, *rate.Limiter]
	every    rate.Limit
	burst    int
}

// New creates the middleware set. secretToken "" disables the secret
// check; rps <= 0 disables rate limiting.
func New(l log.Logger, secretToken string, rps float64, burst int) Middleware {
	if burst <= 0 {
		burst = 1
	}
	return Middleware{
		l:           l,
		secretToken: secretToken,
		limiters:    expirable.NewLRU[string, *rate.Limiter](limiterCapacity, nil, limiterTTL),
		every:       rate.Limit(rps),
		burst:       burst,
	}
}
