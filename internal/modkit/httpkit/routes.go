package httpkit

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Param reads a chi URL path parameter from the request
func Param(r *http.Request, name string) string {
	return chi.URLParam(r, name)
}

// MountUnder mounts a subrouter at prefix and applies per-module middlewares
func MountUnder(r Router, prefix string, mw []func(http.Handler) http.Handler, mount func(Router)) {
	r.Route(prefix, func(sub Router) {
		if len(mw) > 0 {
			sub.Use(mw...)
		}
		mount(sub)
	})
}
