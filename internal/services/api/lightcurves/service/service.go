// Package service contains the API lightcurve workflows
package service

import (
	"context"
	"time"

	"lumen/internal/modkit/repokit"
	perr "lumen/internal/platform/errors"
	apidomain "lumen/internal/services/api/lightcurves/domain"
	lcdomain "lumen/internal/services/lightcurve/domain"
	lcrepo "lumen/internal/services/lightcurve/repo"
)

// Service defines the API lightcurve contract
type Service interface {
	// Fetch triggers a batch fetch and returns the aggregate plus failure report
	Fetch(ctx context.Context, in apidomain.FetchInput) (apidomain.FetchResponse, error)

	// Run reads back one recorded batch run
	Run(ctx context.Context, runID string) (apidomain.RunResponse, error)
}

// Svc implements the API lightcurve service
type Svc struct {
	fetcher lcdomain.FetcherPort

	// storage is optional; Run reports unavailable without it
	repo lcdomain.StorageRepo
	db   repokit.TxRunner
}

// New constructs the API lightcurve service over the pipeline port
func New(fetcher lcdomain.FetcherPort, db repokit.TxRunner) *Svc {
	if fetcher == nil {
		panic("lightcurves.Service requires a non nil FetcherPort")
	}
	s := &Svc{fetcher: fetcher, db: db}
	if db != nil {
		s.repo = lcrepo.NewPG().Bind(db)
	}
	return s
}

// Fetch triggers a batch fetch for the requested identifiers
func (s *Svc) Fetch(ctx context.Context, in apidomain.FetchInput) (apidomain.FetchResponse, error) {
	res, err := s.fetcher.FetchBatch(ctx, in.IDs, in.Concurrency)
	if err != nil {
		return apidomain.FetchResponse{}, err
	}

	out := apidomain.FetchResponse{
		RunID:     res.RunID,
		Requested: res.Requested(),
		Succeeded: len(res.Dataset),
		Failed:    len(res.Failures),
		Dataset:   res.Dataset,
	}
	for _, f := range res.Failures {
		out.Failures = append(out.Failures, apidomain.FetchFailure{ObjectID: f.ObjectID, Kind: string(f.Kind)})
	}
	return out, nil
}

// Run reads one recorded batch run from relational storage
func (s *Svc) Run(ctx context.Context, runID string) (apidomain.RunResponse, error) {
	if runID == "" {
		return apidomain.RunResponse{}, perr.InvalidArgf("run id required")
	}
	if s.repo == nil {
		return apidomain.RunResponse{}, perr.Unavailablef("run bookkeeping requires relational storage")
	}

	run, err := s.repo.GetRun(ctx, runID)
	if err != nil {
		return apidomain.RunResponse{}, err
	}

	out := apidomain.RunResponse{
		RunID:     run.RunID,
		Status:    run.Status,
		Requested: run.Requested,
		Succeeded: run.Succeeded,
		Failed:    run.Failed,
		ElapsedMS: run.ElapsedMS,
		ErrText:   run.ErrText,
		StartedAt: run.StartedAt.UTC().Format(time.RFC3339),
	}
	if run.FinishedAt != nil {
		out.FinishedAt = run.FinishedAt.UTC().Format(time.RFC3339)
	}
	return out, nil
}
