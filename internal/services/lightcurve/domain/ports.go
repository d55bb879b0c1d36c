package domain

import (
	"context"

	"lumen/internal/adapters/antares"
	"lumen/internal/core/frames"
)

// FetcherPort is the public port exposed by the module
type FetcherPort interface {
	// FetchOne performs one lookup and normalizes the result
	FetchOne(ctx context.Context, objectID string) ([]frames.Point, frames.Metadata, error)

	// FetchBatch fans FetchOne across a bounded pool and aggregates
	// partial successes; concurrency <= 0 falls back to the configured default
	FetchBatch(ctx context.Context, objectIDs []string, concurrency int) (BatchResult, error)
}

// LookupPort is the external lookup collaborator
type LookupPort interface {
	Lookup(ctx context.Context, objectID string) (*antares.Locus, error)
}

// StorageRepo is the relational bookkeeping and persistence surface
type StorageRepo interface {
	// StartRun records the beginning of a batch run
	StartRun(ctx context.Context, runID string, requested int) error

	// FinishRun records the outcome of a batch run
	FinishRun(ctx context.Context, runID string, fin RunFinish) error

	// InsertFailures records the per-identifier failure report for a run
	InsertFailures(ctx context.Context, runID string, fails []Failure) error

	// UpsertObjects persists metadata rows keyed by identifier
	UpsertObjects(ctx context.Context, metas []frames.Metadata) error

	// InsertPoints persists flat lightcurve rows
	InsertPoints(ctx context.Context, points []frames.Point) (inserted int, err error)

	// GetRun reads back one recorded run
	GetRun(ctx context.Context, runID string) (Run, error)
}

// PhotometrySink is the columnar analytics sink for flat lightcurve rows
type PhotometrySink interface {
	WritePoints(ctx context.Context, points []frames.Point) error
}
