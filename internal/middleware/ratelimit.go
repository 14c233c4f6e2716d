package middleware

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	// limiters unused for this long are dropped on the next sweep
	idleTimeout = 10 * time.Minute
	maxClients  = 10000
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiterMiddleware holds the rate limiters for each client address.
type RateLimiterMiddleware struct {
	limiters  map[string]*clientLimiter
	mu        sync.Mutex
	lastSweep time.Time
	now       func() time.Time
	// Rate is the number of events per second.
	rate rate.Limit
	// Burst is the burst size.
	burst int
	// X-Forwarded-For is only honoured on requests from these networks.
	trusted []*net.IPNet
}

// NewRateLimiterMiddleware creates a new RateLimiterMiddleware. trustedProxies
// lists IPs or CIDRs of reverse proxies allowed to set X-Forwarded-For.
func NewRateLimiterMiddleware(r rate.Limit, b int, trustedProxies []string) (*RateLimiterMiddleware, error) {
	rl := &RateLimiterMiddleware{
		limiters: make(map[string]*clientLimiter),
		now:      time.Now,
		rate:     r,
		burst:    b,
	}
	for _, p := range trustedProxies {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if !strings.Contains(p, "/") {
			if ip := net.ParseIP(p); ip != nil && ip.To4() != nil {
				p += "/32"
			} else {
				p += "/128"
			}
		}
		_, network, err := net.ParseCIDR(p)
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy %q: %w", p, err)
		}
		rl.trusted = append(rl.trusted, network)
	}
	return rl, nil
}

func (rl *RateLimiterMiddleware) isTrusted(host string) bool {
	ip := net.ParseIP(host)
	if ip == nil {
		return false
	}
	for _, network := range rl.trusted {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}

// clientKey returns the remote address, or for requests relayed by a trusted
// proxy the right-most X-Forwarded-For hop that is not itself a trusted proxy.
func (rl *RateLimiterMiddleware) clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if !rl.isTrusted(host) {
		return host
	}

	hops := strings.Split(r.Header.Get("X-Forwarded-For"), ",")
	for i := len(hops) - 1; i >= 0; i-- {
		hop := strings.TrimSpace(hops[i])
		if hop == "" {
			continue
		}
		if !rl.isTrusted(hop) {
			return hop
		}
	}
	return host
}

// sweep drops idle limiters. Callers hold mu.
func (rl *RateLimiterMiddleware) sweep(now time.Time) {
	for key, cl := range rl.limiters {
		if now.Sub(cl.lastSeen) > idleTimeout {
			delete(rl.limiters, key)
		}
	}
	rl.lastSweep = now
}

// evictOldest drops the least recently seen limiter. Callers hold mu.
func (rl *RateLimiterMiddleware) evictOldest() {
	var oldestKey string
	var oldest time.Time
	found := false
	for key, cl := range rl.limiters {
		if !found || cl.lastSeen.Before(oldest) {
			oldestKey, oldest, found = key, cl.lastSeen, true
		}
	}
	if found {
		delete(rl.limiters, oldestKey)
	}
}

func (rl *RateLimiterMiddleware) limiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if now.Sub(rl.lastSweep) > idleTimeout {
		rl.sweep(now)
	}

	cl, exists := rl.limiters[key]
	if !exists {
		if len(rl.limiters) >= maxClients {
			rl.sweep(now)
		}
		if len(rl.limiters) >= maxClients {
			rl.evictOldest()
		}
		cl = &clientLimiter{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.limiters[key] = cl
	}
	cl.lastSeen = now
	return cl.limiter
}

// Len reports how many clients currently have a limiter.
func (rl *RateLimiterMiddleware) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.limiters)
}

// Middleware is the actual middleware handler.
func (rl *RateLimiterMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := rl.clientKey(r)
		if !rl.limiter(key).Allow() {
			log.Printf("RateLimiter: Rate limit exceeded for %s", key)
			http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
