// Package middleware provides thin adapters over chi middleware without leaking chi types
package middleware

import (
	"compress/flate"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	chicors "github.com/go-chi/cors"
)

// RequestID attaches or propagates X-Request-ID and stores it on context
func RequestID() func(http.Handler) http.Handler { return chimw.RequestID }

// RealIP sets RemoteAddr to the upstream IP based on X-Forwarded-For headers
func RealIP() func(http.Handler) http.Handler { return chimw.RealIP }

// Recover catches panics and returns 500. Pair with your own error mapping in a wrapper if needed
func Recover() func(http.Handler) http.Handler { return chimw.Recoverer }

// Timeout cancels the request context after d
func Timeout(d time.Duration) func(http.Handler) http.Handler { return chimw.Timeout(d) }

// NoCache sets headers to disable client and proxy caching
func NoCache() func(http.Handler) http.Handler { return chimw.NoCache }

// Compress wraps chi's compressor. level usually flate.DefaultCompression or flate.BestSpeed
func Compress(level int) func(http.Handler) http.Handler {
	c := chimw.NewCompressor(level)
	return func(next http.Handler) http.Handler { return c.Handler(next) }
}

// AllowContentType whitelists allowed content types
func AllowContentType(ct ...string) func(http.Handler) http.Handler {
	return chimw.AllowContentType(ct...)
}

// Throttle limits concurrent requests globally
func Throttle(limit int) func(http.Handler) http.Handler { return chimw.Throttle(limit) }

// Heartbeat replies with 200 OK to GET path, useful for LB health checks
func Heartbeat(path string) func(http.Handler) http.Handler { return chimw.Heartbeat(path) }

// CORSOptions is a narrow surface over go-chi/cors
type CORSOptions struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

// CORS wraps go-chi/cors with sane defaults applied
func CORS(o CORSOptions) func(http.Handler) http.Handler {
	return chicors.Handler(chicors.Options{
		AllowedOrigins: o.AllowedOrigins,
		AllowedMethods: ifEmpty(o.AllowedMethods, []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
		AllowedHeaders: ifEmpty(
			o.AllowedHeaders,
			[]string{
				"Accept",
				"Authorization",
				"Content-Type",
				"X-Request-ID",
			},
		),
		ExposedHeaders:   o.ExposedHeaders,
		AllowCredentials: o.AllowCredentials,
		MaxAge:           o.MaxAge,
	})
}

// Defaults is a convenience bundle for common web api needs
func Defaults() []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		RealIP(),
		RequestID(),
		Recover(),
		Timeout(60 * time.Second),
		Compress(flate.DefaultCompression),
		NoCache(),
	}
}

func ifEmpty(v, def []string) []string {
	if len(v) == 0 {
		return def
	}
	return v
}
