package service

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"lumen/internal/adapters/antares"
	perr "lumen/internal/platform/errors"
	"lumen/internal/platform/testkit"
	"lumen/internal/services/lightcurve/domain"
)

func fp(v float64) *float64 { return &v }
func ip(v int64) *int64     { return &v }
func sp(v string) *string   { return &v }

func goodLocus(id string) *antares.Locus {
	return &antares.Locus{
		ObjectID:   id,
		RA:         fp(10),
		Dec:        fp(-5),
		Properties: map[string]any{"survey": "ZTF"},
		Lightcurve: []antares.Alert{
			{MJD: fp(59000), Survey: ip(1), Passband: sp("g"), Mag: fp(18.0), MagErr: fp(0.1), MagLim: fp(20.5)},
			{MJD: fp(59001), Survey: ip(2), Passband: sp("r"), MagLim: fp(20.1)},
		},
	}
}

// lookupFunc adapts a function to domain.LookupPort
type lookupFunc func(ctx context.Context, id string) (*antares.Locus, error)

func (f lookupFunc) Lookup(ctx context.Context, id string) (*antares.Locus, error) { return f(ctx, id) }

func TestNewWithoutLookupPanics(t *testing.T) {
	testkit.MustPanic(t, func() { New(nil, Config{}) })
}

func TestFetchOneNormalizes(t *testing.T) {
	svc := New(lookupFunc(func(_ context.Context, id string) (*antares.Locus, error) {
		return goodLocus(id), nil
	}), Config{})

	points, meta, err := svc.FetchOne(context.Background(), "ZTF21aaa")
	if err != nil {
		t.Fatalf("FetchOne: %v", err)
	}
	if meta.ObjectID != "ZTF21aaa" || len(points) != 2 {
		t.Fatalf("unexpected result: %v %v", meta, points)
	}
	if points[1].Magnitude != 20.1 {
		t.Fatalf("fallback magnitude: %v", points[1].Magnitude)
	}
}

func TestFetchBatchIsolatesFailures(t *testing.T) {
	svc := New(lookupFunc(func(_ context.Context, id string) (*antares.Locus, error) {
		switch id {
		case "missing":
			return nil, perr.NotFoundf("no locus for %s", id)
		case "down":
			return nil, perr.Unavailablef("broker unreachable")
		case "junk":
			return &antares.Locus{ObjectID: id, Properties: map[string]any{}}, nil
		}
		return goodLocus(id), nil
	}), Config{})

	res, err := svc.FetchBatch(context.Background(), []string{"a", "missing", "b", "down", "junk", "c"}, 3)
	if err != nil {
		t.Fatalf("FetchBatch must not fail on partial success: %v", err)
	}
	if len(res.Dataset) != 3 {
		t.Fatalf("want 3 top-level rows, got %d", len(res.Dataset))
	}
	if len(res.Failures) != 3 {
		t.Fatalf("want 3 failures, got %+v", res.Failures)
	}
	kinds := map[string]domain.FailureKind{}
	for _, f := range res.Failures {
		kinds[f.ObjectID] = f.Kind
	}
	if kinds["missing"] != domain.FailureNotFound {
		t.Fatalf("missing: %v", kinds["missing"])
	}
	if kinds["down"] != domain.FailureTransport {
		t.Fatalf("down: %v", kinds["down"])
	}
	if kinds["junk"] != domain.FailureMalformed {
		t.Fatalf("junk: %v", kinds["junk"])
	}
}

func TestFetchBatchAllFailIsEmptyBatch(t *testing.T) {
	svc := New(lookupFunc(func(_ context.Context, id string) (*antares.Locus, error) {
		return nil, perr.NotFoundf("no locus for %s", id)
	}), Config{})

	res, err := svc.FetchBatch(context.Background(), []string{"a", "b", "c"}, 2)
	if !perr.IsCode(err, perr.ErrorCodeEmptyBatch) {
		t.Fatalf("want empty batch error, got %v", err)
	}
	if len(res.Failures) != 3 {
		t.Fatalf("failure report should still carry all entries: %+v", res.Failures)
	}
}

func TestFetchBatchEmptyInput(t *testing.T) {
	svc := New(lookupFunc(func(_ context.Context, id string) (*antares.Locus, error) {
		t.Fatal("lookup must not be called")
		return nil, nil
	}), Config{})
	if _, err := svc.FetchBatch(context.Background(), nil, 2); !perr.IsCode(err, perr.ErrorCodeEmptyBatch) {
		t.Fatalf("want empty batch error, got %v", err)
	}
}

func TestFetchBatchBoundsConcurrency(t *testing.T) {
	var inFlight, peak int64
	svc := New(lookupFunc(func(_ context.Context, id string) (*antares.Locus, error) {
		cur := atomic.AddInt64(&inFlight, 1)
		for {
			p := atomic.LoadInt64(&peak)
			if cur <= p || atomic.CompareAndSwapInt64(&peak, p, cur) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		atomic.AddInt64(&inFlight, -1)
		return goodLocus(id), nil
	}), Config{})

	ids := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	if _, err := svc.FetchBatch(context.Background(), ids, 2); err != nil {
		t.Fatalf("FetchBatch: %v", err)
	}
	if p := atomic.LoadInt64(&peak); p > 2 {
		t.Fatalf("concurrency bound violated: peak %d", p)
	}
}

func TestFetchBatchHungLookupBecomesTransportFailure(t *testing.T) {
	svc := New(lookupFunc(func(ctx context.Context, id string) (*antares.Locus, error) {
		if id == "hang" {
			<-ctx.Done()
			return nil, perr.Wrapf(ctx.Err(), perr.ErrorCodeUnavailable, "lookup timed out")
		}
		return goodLocus(id), nil
	}), Config{TaskTimeout: 30 * time.Millisecond})

	done := make(chan struct{})
	var res domain.BatchResult
	var err error
	go func() {
		res, err = svc.FetchBatch(context.Background(), []string{"ok", "hang"}, 2)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("hung lookup blocked the batch")
	}

	if err != nil {
		t.Fatalf("FetchBatch: %v", err)
	}
	if len(res.Dataset) != 1 || res.Dataset[0].ObjectID != "ok" {
		t.Fatalf("sibling task should survive: %+v", res.Dataset)
	}
	if len(res.Failures) != 1 || res.Failures[0].Kind != domain.FailureTransport {
		t.Fatalf("hang should surface as transport failure: %+v", res.Failures)
	}
}

func TestFetchBatchPreservesDuplicates(t *testing.T) {
	svc := New(lookupFunc(func(_ context.Context, id string) (*antares.Locus, error) {
		return goodLocus(id), nil
	}), Config{})

	res, err := svc.FetchBatch(context.Background(), []string{"dup", "dup"}, 2)
	if err != nil {
		t.Fatalf("FetchBatch: %v", err)
	}
	if len(res.Dataset) != 2 {
		t.Fatalf("duplicate identifiers should produce duplicate rows, got %d", len(res.Dataset))
	}
}

func TestFetchBatchRunIDAssigned(t *testing.T) {
	svc := New(lookupFunc(func(_ context.Context, id string) (*antares.Locus, error) {
		return goodLocus(id), nil
	}), Config{})
	res, err := svc.FetchBatch(context.Background(), []string{"a"}, 1)
	if err != nil {
		t.Fatalf("FetchBatch: %v", err)
	}
	if res.RunID == "" {
		t.Fatal("run id must be assigned")
	}
}
