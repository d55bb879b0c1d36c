// Package module wires the lightcurve pipeline from config
package module

import (
	"lumen/internal/adapters/antares"
	"lumen/internal/modkit"
	"lumen/internal/modkit/repokit"
	phttp "lumen/internal/platform/net/http"
	"lumen/internal/services/lightcurve/domain"
	"lumen/internal/services/lightcurve/repo"
	"lumen/internal/services/lightcurve/service"
)

// Ports defines the lightcurve module ports
type Ports struct {
	Fetcher domain.FetcherPort
}

// Module implements the lightcurve module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs the lightcurve module
// wires the broker client and optional stores using config from deps.Cfg
// it does not mount any routes
func New(deps modkit.Deps) *Module {
	opts := FromConfig(deps.Cfg)

	lookup := antares.NewClient(antares.Options{
		BaseURL:   opts.BrokerURL,
		UserAgent: opts.UserAgent,
		Timeout:   opts.LookupTimeout,
	})

	svc := service.New(lookup, service.Config{
		Workers:        opts.Workers,
		TaskTimeout:    opts.TaskTimeout,
		PersistResults: opts.Persist,
	})

	if deps.PG != nil {
		svc.WithStorage(repokit.TxRunner(deps.PG), repo.NewPG())
	}
	if deps.CH != nil {
		svc.WithSink(repo.NewCHSink(deps.CH))
	}

	m := &Module{deps: deps}
	m.ports = Ports{Fetcher: svc}
	return m
}

// Name returns the module name
func (m *Module) Name() string { return "lightcurve" }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// MountRoutes is a no-op, the pipeline has no routes of its own
func (m *Module) MountRoutes(_ phttp.Router) {}
