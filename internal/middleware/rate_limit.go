package middleware

import (
	"net/http"
	"time"

	pkghttp "github.com/BradenHooton/loginlab/pkg/http"
	"github.com/go-chi/httprate"
)

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	RequestsPerMinute int // 0 disables the limiter
	IPConfig          *pkghttp.IPConfig
}

// RateLimitByIP limits requests per client IP. It sits in front of the
// per-username lockout and caps how fast one address can probe many usernames.
func RateLimitByIP(config RateLimitConfig) func(next http.Handler) http.Handler {
	if config.RequestsPerMinute <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	return httprate.Limit(
		config.RequestsPerMinute,
		time.Minute,
		httprate.WithKeyFuncs(func(r *http.Request) (string, error) {
			return pkghttp.ExtractClientIP(r, config.IPConfig), nil
		}),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			pkghttp.WriteTooManyRequests(w, "Too many requests from this address", 0)
		}),
	)
}
