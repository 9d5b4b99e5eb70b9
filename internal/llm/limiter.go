package llm

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// Limiter rate-limits spotter calls per backend, so an LLM-backed
// completeness pass cannot stampede a provider during a large batch.
type Limiter struct {
	limiters     map[string]*rate.Limiter
	mu           sync.RWMutex
	defaultRate  rate.Limit
	defaultBurst int
}

// NewLimiter creates a limiter with a shared per-backend rate.
func NewLimiter(requestsPerSecond float64, burst int) *Limiter {
	if burst <= 0 {
		burst = 1
	}
	return &Limiter{
		limiters:     make(map[string]*rate.Limiter),
		defaultRate:  rate.Limit(requestsPerSecond),
		defaultBurst: burst,
	}
}

// Wait blocks until the named backend may issue a request or the context is
// cancelled.
func (l *Limiter) Wait(ctx context.Context, backend string) error {
	return l.limiterFor(backend).Wait(ctx)
}

// Allow reports whether a request may proceed without waiting.
func (l *Limiter) Allow(backend string) bool {
	return l.limiterFor(backend).Allow()
}

func (l *Limiter) limiterFor(backend string) *rate.Limiter {
	l.mu.RLock()
	limiter, exists := l.limiters[backend]
	l.mu.RUnlock()
	if exists {
		return limiter
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if limiter, exists = l.limiters[backend]; exists {
		return limiter
	}
	limiter = rate.NewLimiter(l.defaultRate, l.defaultBurst)
	l.limiters[backend] = limiter
	return limiter
}
