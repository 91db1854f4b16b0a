package middleware

import (
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type ipLimiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimit throttles new connections per client address.
type IPRateLimit struct {
	limiters map[string]*ipLimiterEntry
	every    time.Duration
	burst    int
	idle     time.Duration
	mu       sync.Mutex
}

// NewIPRateLimit allows perMinute connections per address with the given
// burst. Addresses idle for longer than idle are forgotten by Cleanup.
func NewIPRateLimit(perMinute, burst int, idle time.Duration) *IPRateLimit {
	if perMinute < 1 {
		perMinute = 1
	}
	return &IPRateLimit{
		limiters: make(map[string]*ipLimiterEntry),
		every:    time.Minute / time.Duration(perMinute),
		burst:    burst,
		idle:     idle,
	}
}

// Allow reports whether ip may open another connection now.
func (iprl *IPRateLimit) Allow(ip string) bool {
	iprl.mu.Lock()
	defer iprl.mu.Unlock()

	entry, exists := iprl.limiters[ip]
	if !exists {
		entry = &ipLimiterEntry{limiter: rate.NewLimiter(rate.Every(iprl.every), iprl.burst)}
		iprl.limiters[ip] = entry
	}
	entry.lastSeen = time.Now()

	return entry.limiter.Allow()
}

// Middleware rejects requests over the limit with 429.
func (iprl *IPRateLimit) Middleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := ClientIP(r)
		if !iprl.Allow(ip) {
			log.Printf("[RateLimit] too many connections from %s", ip)
			http.Error(w, "Too many connections", http.StatusTooManyRequests)
			return
		}
		next(w, r)
	}
}

// Cleanup forgets addresses that have been idle.
func (iprl *IPRateLimit) Cleanup() {
	iprl.mu.Lock()
	defer iprl.mu.Unlock()

	now := time.Now()
	for ip, entry := range iprl.limiters {
		if now.Sub(entry.lastSeen) > iprl.idle {
			delete(iprl.limiters, ip)
		}
	}
}

// Tracked returns how many addresses currently hold a limiter.
func (iprl *IPRateLimit) Tracked() int {
	iprl.mu.Lock()
	defer iprl.mu.Unlock()
	return len(iprl.limiters)
}

// ClientIP returns the peer address of r. Forwarding headers are ignored
// since clients can forge them.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
