package server

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	limiterIdleTTL   = 3 * time.Minute
	limiterPruneSize = 1024
)

// clientLimiter keeps one token bucket per client address.
type clientLimiter struct {
	limit rate.Limit
	burst int
	now   func() time.Time

	mu      sync.Mutex
	clients map[string]*clientBucket
}

type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newClientLimiter(perSecond float64, burst int) *clientLimiter {
	if burst < 1 {
		burst = 1
	}
	return &clientLimiter{
		limit:   rate.Limit(perSecond),
		burst:   burst,
		now:     time.Now,
		clients: make(map[string]*clientBucket),
	}
}

// Allow reports whether key may proceed now.
func (l *clientLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	bucket, ok := l.clients[key]
	if !ok {
		if len(l.clients) >= limiterPruneSize {
			l.pruneLocked(now)
		}
		bucket = &clientBucket{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[key] = bucket
	}
	bucket.lastSeen = now
	return bucket.limiter.AllowN(now, 1)
}

func (l *clientLimiter) pruneLocked(now time.Time) {
	for key, bucket := range l.clients {
		if now.Sub(bucket.lastSeen) > limiterIdleTTL {
			delete(l.clients, key)
		}
	}
}

// Middleware answers 429 once a client exhausts its bucket.
func (l *clientLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if l.admit(w, r) {
			next.ServeHTTP(w, r)
		}
	})
}

// admit charges the client of r one token. When none is left it writes the
// 429 response and returns false.
func (l *clientLimiter) admit(w http.ResponseWriter, r *http.Request) bool {
	if l.Allow(clientKey(r)) {
		return true
	}
	retry := 1
	if l.limit > 0 {
		retry = max(1, int(1/float64(l.limit)+0.5))
	}
	w.Header().Set("Retry-After", strconv.Itoa(retry))
	http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
	return false
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
