package http

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"
)

// MountSwagger mounts /docs if enabled by caller
// the UI is pointed at the checked in OpenAPI document served under /docs/openapi.json
func MountSwagger(r Router, enabled bool, specPath string) {
	if !enabled {
		return
	}
	if specPath != "" {
		r.Get("/docs/openapi.json", func(w http.ResponseWriter, req *http.Request) {
			http.ServeFile(w, req, specPath)
		})
	}
	r.Get("/docs/*", func(w http.ResponseWriter, req *http.Request) {
		httpSwagger.Handler(httpSwagger.URL("/docs/openapi.json"))(w, req)
	})
}
