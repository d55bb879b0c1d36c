package service

import (
	"context"
	"testing"

	"lumen/internal/core/frames"
	perr "lumen/internal/platform/errors"
	apidomain "lumen/internal/services/api/lightcurves/domain"
	lcdomain "lumen/internal/services/lightcurve/domain"
)

type fakeFetcher struct {
	res lcdomain.BatchResult
	err error
}

func (f fakeFetcher) FetchOne(context.Context, string) ([]frames.Point, frames.Metadata, error) {
	panic("not used")
}

func (f fakeFetcher) FetchBatch(_ context.Context, _ []string, _ int) (lcdomain.BatchResult, error) {
	return f.res, f.err
}

func TestFetchMapsBatchResult(t *testing.T) {
	s := New(fakeFetcher{
		res: lcdomain.BatchResult{
			RunID: "run-1",
			Dataset: frames.Dataset{
				{Metadata: frames.Metadata{ObjectID: "ZTF21aaa"}},
				{Metadata: frames.Metadata{ObjectID: "ZTF21bbb"}},
			},
			Failures: []lcdomain.Failure{
				{ObjectID: "ZTF21nope", Kind: lcdomain.FailureNotFound},
			},
		},
	}, nil)

	out, err := s.Fetch(context.Background(), apidomain.FetchInput{IDs: []string{"a", "b", "c"}})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if out.RunID != "run-1" || out.Requested != 3 || out.Succeeded != 2 || out.Failed != 1 {
		t.Fatalf("unexpected response: %+v", out)
	}
	if len(out.Failures) != 1 || out.Failures[0].Kind != "not_found" {
		t.Fatalf("failure report not mapped: %+v", out.Failures)
	}
}

func TestFetchPropagatesEmptyBatch(t *testing.T) {
	s := New(fakeFetcher{err: perr.EmptyBatchf("all failed")}, nil)
	if _, err := s.Fetch(context.Background(), apidomain.FetchInput{IDs: []string{"a"}}); !perr.IsCode(err, perr.ErrorCodeEmptyBatch) {
		t.Fatalf("want empty batch error, got %v", err)
	}
}

func TestRunWithoutStorageIsUnavailable(t *testing.T) {
	s := New(fakeFetcher{}, nil)
	if _, err := s.Run(context.Background(), "run-1"); !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("want unavailable, got %v", err)
	}
}

func TestRunRejectsEmptyID(t *testing.T) {
	s := New(fakeFetcher{}, nil)
	if _, err := s.Run(context.Background(), ""); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("want invalid argument, got %v", err)
	}
}
