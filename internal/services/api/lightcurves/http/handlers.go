// Package http provides the lightcurve API endpoints
package http

import (
	"net/http"

	"lumen/internal/modkit/httpkit"
	"lumen/internal/services/api/lightcurves/domain"
	svc "lumen/internal/services/api/lightcurves/service"
)

type handlers struct {
	svc svc.Service
}

// Register mounts the lightcurve routes
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}

	httpkit.PostJSON[domain.FetchInput](r, "/fetch", h.fetch)
	httpkit.Get(r, "/runs/{run_id}", h.run)
}

// swagger:route POST /lightcurves/fetch Lightcurves lightcurvesFetch
// @Summary Fetch and normalize lightcurves for a batch of survey identifiers
// @Tags Lightcurves
// @Accept json
// @Produce json
// @Param request body domain.FetchInput true "identifiers and optional concurrency override"
// @Success 200 type domain.FetchResponse "aggregate dataset plus failure report"
// @Router /lightcurves/fetch [post]
func (h *handlers) fetch(r *http.Request, in domain.FetchInput) (any, error) {
	return h.svc.Fetch(r.Context(), in)
}

// swagger:route GET /lightcurves/runs/{run_id} Lightcurves lightcurvesRun
// @Summary Read back one recorded batch run
// @Tags Lightcurves
// @Produce json
// @Success 200 type domain.RunResponse ok
// @Router /lightcurves/runs/{run_id} [get]
func (h *handlers) run(r *http.Request) (any, error) {
	return h.svc.Run(r.Context(), httpkit.Param(r, "run_id"))
}
