// Package module wires the lightcurve API endpoints using modkit
package module

import (
	"net/http"

	"lumen/internal/modkit"
	"lumen/internal/modkit/httpkit"
	lchttp "lumen/internal/services/api/lightcurves/http"
	lcsvc "lumen/internal/services/api/lightcurves/service"
	lcdomain "lumen/internal/services/lightcurve/domain"
)

// Ports are the cross module ports this API module consumes
// the Fetcher comes from the worker lightcurve module
type Ports struct {
	Fetcher lcdomain.FetcherPort
}

// Module implements the lightcurve API module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws       []func(http.Handler) http.Handler
	swaggerOn bool

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)

	svc lcsvc.Service
}

// New constructs the lightcurve API module
// requires modkit.WithPorts(Ports{Fetcher: ...}) from the caller
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("lightcurves"),
		modkit.WithPrefix("/lightcurves"),
	}, opts...)...)

	ports, ok := b.Ports.(Ports)
	if !ok || ports.Fetcher == nil {
		panic("lightcurves api module requires a Fetcher port")
	}

	svc := lcsvc.New(ports.Fetcher, deps.PG)

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		swaggerOn: b.SwaggerOn,
		subrouter: b.Subrouter,
		svc:       svc,
	}

	external := b.Register
	m.register = func(r httpkit.Router) {
		lchttp.Register(r, m.svc)
		if external != nil {
			external(r)
		}
	}
	return m
}

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r httpkit.Router) {
	r.Route(m.prefix, func(rr httpkit.Router) {
		for _, mw := range m.mws {
			rr.Use(mw)
		}
		if m.subrouter != nil {
			rr = m.subrouter(rr)
		}
		if m.register != nil {
			m.register(rr)
		}
	})
}

// Name returns the module name
func (m *Module) Name() string { return m.name }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return m.prefix }

// Middlewares returns the module middlewares
func (m *Module) Middlewares() []func(http.Handler) http.Handler { return m.mws }

// Ports returns the module ports
func (m *Module) Ports() any { return nil }
