package httpkit

import (
	"compress/flate"
	"net/http"
	"time"

	"lumen/internal/platform/net/middleware"
)

// CommonStack returns a baseline per scope middleware slice
// compose with additional middleware as needed in main
func CommonStack() []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		// tracing / correlation
		middleware.RequestID(),
		middleware.RealIP(),

		// safety
		middleware.RecoverJSON,

		// cache / freshness
		middleware.NoCache(),

		// observability
		middleware.AccessLogZerolog(middleware.AccessLogOptions{Slow: 2 * time.Second}),

		// cross-origin (tweak config in main if needed)
		middleware.CORS(middleware.CORSOptions{}),
		middleware.Compress(flate.BestSpeed),
		middleware.Heartbeat("/health"),
	}
}
