// Package api provides the HTTP API for the application
package api

import (
	"lumen/internal/platform/config"
	"lumen/internal/platform/logger"
	phttp "lumen/internal/platform/net/http"
	"lumen/internal/platform/store"

	"lumen/internal/modkit"
	"lumen/internal/modkit/httpkit"
	"lumen/internal/modkit/module"

	apilc "lumen/internal/services/api/lightcurves/module"
	metamod "lumen/internal/services/api/meta/module"

	// Worker lightcurve module (owns the Fetcher port)
	workerlc "lumen/internal/services/lightcurve/module"
)

// Options are the API options
type Options struct {
	Config        config.Conf
	Store         *store.Store
	Logger        *logger.Logger
	EnableSwagger bool
	SwaggerSpec   string
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	// shared deps for modules
	deps := modkit.Deps{
		Cfg: opt.Config,
	}
	if opt.Logger != nil {
		deps.Log = *opt.Logger
	}
	if opt.Store != nil {
		deps.PG = opt.Store.PG
		deps.CH = opt.Store.CH
	}

	// Construct the WORKER lightcurve module first and extract its Fetcher port
	workerLC := workerlc.New(deps)
	fetcher := workerLC.Ports().(workerlc.Ports).Fetcher

	// Inject that Fetcher into the API lightcurve module
	apiLC := apilc.New(
		deps,
		modkit.WithPorts(apilc.Ports{
			Fetcher: fetcher,
		}),
	)

	mods := []modkit.Module{
		metamod.New(deps),
		workerLC, // include worker so its ports are registered
		apiLC,    // API module that depends on the worker's Fetcher
	}

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, httpkit.CommonStack(), func(api httpkit.Router) {
		phttp.MountSwagger(r, opt.EnableSwagger, opt.SwaggerSpec)

		for _, m := range mods {
			// register each module's ports under its own name (for cross-module lookups)
			module.Register(m.Name(), m.Ports())

			// mount module routes under its Prefix()
			m.MountRoutes(api)
		}
	})
}
