package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// CORSConfig holds CORS configuration
type CORSConfig struct {
	AllowedOrigins []string
	Debug          bool
}

// CORS returns a CORS middleware. With no configured origins every
// cross-origin request is refused.
func CORS(config CORSConfig) func(http.Handler) http.Handler {
	opts := cors.Options{
		AllowedOrigins:   config.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		ExposedHeaders:   []string{"Retry-After"},
		AllowCredentials: true,
		MaxAge:           3600,
		Debug:            config.Debug,
	}
	if len(config.AllowedOrigins) == 0 {
		opts.AllowOriginFunc = func(string) bool { return false }
	}

	return cors.New(opts).Handler
}
