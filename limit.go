package main

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// identityHeaders is the trust hierarchy for client identification, most
// trusted first. An explicit proxy-chain header wins because the server
// is expected to sit behind a load balancer.
var identityHeaders = []string{
	"X-Forwarded-For",
	"X-Real-IP",        // Nginx
	"X-Client-IP",      // generic proxies
	"CF-Connecting-IP", // Cloudflare
	"True-Client-IP",   // Akamai
	"X-Originating-IP",
	"X-Remote-IP",
	"X-Remote-Addr",
}

// fallbackIdentity keys requests for which no identity can be derived.
const fallbackIdentity = "unknown"

// ExtractIdentity derives a stable rate-limiting key from the request
// headers and transport remote address. It never fails: when every
// source is absent or empty it returns the fixed fallback key.
func ExtractIdentity(headers http.Header, remoteAddr string) string {
	for _, name := range identityHeaders {
		v := headers.Get(name)
		if name == "X-Forwarded-For" {
			// Only the first entry of the forwarding chain names the
			// client; the rest are intermediaries.
			v, _, _ = strings.Cut(v, ",")
		}
		v = strings.TrimSpace(v)
		if v == "" || !utf8.ValidString(v) {
			continue
		}
		return v
	}
	if host, _, err := net.SplitHostPort(remoteAddr); err == nil && host != "" {
		return host
	}
	if addr := strings.TrimSpace(remoteAddr); addr != "" {
		return addr
	}
	return fallbackIdentity
}

// RateLimiter admits or rejects requests per identity using a token
// bucket per key. Buckets are created lazily on first sight; each bucket
// guards its own state so distinct identities never contend.
type RateLimiter struct {
	rps     rate.Limit
	burst   int
	logger  *zap.Logger
	buckets sync.Map // identity -> *rate.Limiter
}

func NewRateLimiter(rps float64, burst int, logger *zap.Logger) *RateLimiter {
	return &RateLimiter{rps: rate.Limit(rps), burst: burst, logger: logger}
}

// Admit consumes one token from the bucket for key, reporting whether
// the request may proceed.
func (l *RateLimiter) Admit(key string) bool {
	bucket, ok := l.buckets.Load(key)
	if !ok {
		bucket, _ = l.buckets.LoadOrStore(key, rate.NewLimiter(l.rps, l.burst))
	}
	return bucket.(*rate.Limiter).Allow()
}

// Middleware gates an HTTP handler behind the limiter. Rejection is a
// normal operating condition: it logs at warn, bumps the error counters
// and answers 429 without reaching the wrapped handler.
func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := ExtractIdentity(r.Header, r.RemoteAddr)
		if !l.Admit(key) {
			l.logger.Warn("rate limit exceeded", zap.String("identity", key))
			metricTotalErrors.Inc()
			metricTotalRateLimitErrors.Inc()
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte("Rate limit exceeded"))
			return
		}
		next.ServeHTTP(w, r)
	})
}
