// Package service implements the fetch-and-normalize pipeline
package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"lumen/internal/core/frames"
	"lumen/internal/modkit/repokit"
	perr "lumen/internal/platform/errors"
	"lumen/internal/platform/logger"
	"lumen/internal/services/lightcurve/domain"
	"lumen/internal/services/lightcurve/ingest"
)

// Config holds configuration options for the lightcurve service
type Config struct {
	// Workers bounds in-flight lookups when the caller passes no concurrency; <=0 -> 4
	Workers int

	// TaskTimeout converts a hung lookup into a transport failure; <=0 -> 30s
	TaskTimeout time.Duration

	// PersistResults writes objects and points to PG when a TxRunner is wired
	PersistResults bool
}

// Service implements domain.FetcherPort
type Service struct {
	Lookup domain.LookupPort
	Cfg    Config

	// Optional relational bookkeeping; nil DB disables run records and persistence
	DB     repokit.TxRunner
	Binder repokit.Binder[domain.StorageRepo]

	// Optional columnar sink for flat photometry rows
	Sink domain.PhotometrySink

	now func() time.Time
}

// New constructs the lightcurve service
func New(lookup domain.LookupPort, cfg Config) *Service {
	if lookup == nil {
		panic("lightcurve.Service requires a lookup collaborator")
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.TaskTimeout <= 0 {
		cfg.TaskTimeout = 30 * time.Second
	}
	return &Service{Lookup: lookup, Cfg: cfg, now: time.Now}
}

// WithStorage wires the relational bookkeeping repo
func (s *Service) WithStorage(db repokit.TxRunner, binder repokit.Binder[domain.StorageRepo]) *Service {
	s.DB = db
	s.Binder = binder
	return s
}

// WithSink wires the columnar photometry sink
func (s *Service) WithSink(sink domain.PhotometrySink) *Service {
	s.Sink = sink
	return s
}

// FetchOne performs one lookup and hands the raw record to the normalizer
// no retries at this layer; retry policy, if any, belongs to the batch
func (s *Service) FetchOne(ctx context.Context, objectID string) ([]frames.Point, frames.Metadata, error) {
	loc, err := s.Lookup.Lookup(ctx, objectID)
	if err != nil {
		return nil, frames.Metadata{}, err
	}
	points, err := ingest.NormalizeLightcurve(loc)
	if err != nil {
		return nil, frames.Metadata{}, err
	}
	meta, err := ingest.NormalizeMetadata(loc)
	if err != nil {
		return nil, frames.Metadata{}, err
	}
	return points, meta, nil
}

// outcome is one completed task, success or failure
type outcome struct {
	points  []frames.Point
	meta    frames.Metadata
	failure *domain.Failure
}

// FetchBatch fans one fetch task per identifier across a bounded worker pool,
// collects completions in arrival order, and isolates per-item failures.
// The pool lives only for the duration of the call. Failures never abort the
// batch; they are logged and returned in the structured failure report. Only
// a batch with zero successes fails, with an empty batch error.
func (s *Service) FetchBatch(ctx context.Context, objectIDs []string, concurrency int) (domain.BatchResult, error) {
	res := domain.BatchResult{RunID: uuid.NewString()}
	if len(objectIDs) == 0 {
		return res, perr.EmptyBatchf("no identifiers requested")
	}
	if concurrency <= 0 {
		concurrency = s.Cfg.Workers
	}

	start := s.now()
	s.startRun(ctx, res.RunID, len(objectIDs))

	sem := make(chan struct{}, concurrency)
	results := make(chan outcome, len(objectIDs))
	var wg sync.WaitGroup

	for _, id := range objectIDs {
		wg.Add(1)
		go func(objectID string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			taskCtx, cancel := context.WithTimeout(ctx, s.Cfg.TaskTimeout)
			defer cancel()
			taskCtx = logger.WithObject(taskCtx, objectID)

			points, meta, err := s.FetchOne(taskCtx, objectID)
			if err != nil {
				kind := classify(err)
				logger.C(taskCtx).Warn().
					Str("kind", string(kind)).
					Err(err).
					Msg("lightcurve fetch task failed")
				results <- outcome{failure: &domain.Failure{ObjectID: objectID, Kind: kind}}
				return
			}
			results <- outcome{points: points, meta: meta}
		}(id)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	// arrival order: whichever task finishes next is collected next
	var allPoints []frames.Point
	var allMetas []frames.Metadata
	for o := range results {
		if o.failure != nil {
			res.Failures = append(res.Failures, *o.failure)
			continue
		}
		allPoints = append(allPoints, o.points...)
		allMetas = append(allMetas, o.meta)
	}

	if len(allMetas) == 0 {
		err := perr.EmptyBatchf("all %d identifiers failed", len(objectIDs))
		s.finishRun(ctx, res.RunID, runFinish(len(objectIDs), 0, len(res.Failures), start, s.now(), err))
		s.recordFailures(ctx, res.RunID, res.Failures)
		return res, err
	}

	ds, err := frames.Assemble(allPoints, allMetas)
	if err != nil {
		s.finishRun(ctx, res.RunID, runFinish(len(objectIDs), 0, len(res.Failures), start, s.now(), err))
		return res, err
	}
	res.Dataset = ds

	s.persist(ctx, allMetas, allPoints)
	s.finishRun(ctx, res.RunID, runFinish(len(objectIDs), len(ds), len(res.Failures), start, s.now(), nil))
	s.recordFailures(ctx, res.RunID, res.Failures)
	return res, nil
}

// classify maps a fetch-layer error onto the failure taxonomy
// anything unclassified counts as transport so isolation still holds
func classify(err error) domain.FailureKind {
	switch perr.CodeOf(err) {
	case perr.ErrorCodeNotFound:
		return domain.FailureNotFound
	case perr.ErrorCodeMalformedRecord:
		return domain.FailureMalformed
	default:
		return domain.FailureTransport
	}
}

func runFinish(requested, succeeded, failed int, start, end time.Time, err error) domain.RunFinish {
	fin := domain.RunFinish{
		Status:    "ok",
		Requested: requested,
		Succeeded: succeeded,
		Failed:    failed,
		ElapsedMS: int(end.Sub(start).Milliseconds()),
	}
	if err != nil {
		fin.Status = "error"
		fin.ErrText = err.Error()
	}
	return fin
}

// run bookkeeping is best effort; a missing DB never fails the batch

func (s *Service) startRun(ctx context.Context, runID string, requested int) {
	if s.DB == nil || s.Binder == nil {
		return
	}
	err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
		return s.Binder.Bind(q).StartRun(ctx, runID, requested)
	})
	if err != nil {
		logger.C(ctx).Error().Err(err).Str("run_id", runID).Msg("start run record failed")
	}
}

func (s *Service) finishRun(ctx context.Context, runID string, fin domain.RunFinish) {
	if s.DB == nil || s.Binder == nil {
		return
	}
	err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
		return s.Binder.Bind(q).FinishRun(ctx, runID, fin)
	})
	if err != nil {
		logger.C(ctx).Error().Err(err).Str("run_id", runID).Msg("finish run record failed")
	}
}

func (s *Service) recordFailures(ctx context.Context, runID string, fails []domain.Failure) {
	if s.DB == nil || s.Binder == nil || len(fails) == 0 {
		return
	}
	err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
		return s.Binder.Bind(q).InsertFailures(ctx, runID, fails)
	})
	if err != nil {
		logger.C(ctx).Error().Err(err).Str("run_id", runID).Msg("failure report persist failed")
	}
}

func (s *Service) persist(ctx context.Context, metas []frames.Metadata, points []frames.Point) {
	if !s.Cfg.PersistResults {
		return
	}
	if s.DB != nil && s.Binder != nil {
		err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
			r := s.Binder.Bind(q)
			if err := r.UpsertObjects(ctx, metas); err != nil {
				return err
			}
			_, err := r.InsertPoints(ctx, points)
			return err
		})
		if err != nil {
			logger.C(ctx).Error().Err(err).Msg("relational persist failed")
		}
	}
	if s.Sink != nil {
		if err := s.Sink.WritePoints(ctx, points); err != nil {
			logger.C(ctx).Error().Err(err).Msg("photometry sink write failed")
		}
	}
}
