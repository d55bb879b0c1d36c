package repo

import (
	"context"

	"lumen/internal/core/frames"
	perr "lumen/internal/platform/errors"
	"lumen/internal/platform/store"
)

// CHSink writes flat photometry rows to the columnar store
type CHSink struct {
	ch    store.Clickhouse
	table string
}

// NewCHSink builds a sink over the clickhouse seam
func NewCHSink(ch store.Clickhouse) *CHSink {
	return &CHSink{ch: ch, table: "photometry"}
}

// WritePoints appends one batch of rows
// column order must match the photometry table definition
func (s *CHSink) WritePoints(ctx context.Context, points []frames.Point) error {
	if s == nil || s.ch == nil || len(points) == 0 {
		return nil
	}
	rows := make([][]any, 0, len(points))
	for _, p := range points {
		var magErr any
		if p.MagnitudeError != nil {
			magErr = *p.MagnitudeError
		}
		rows = append(rows, []any{p.ObjectID, p.Time, p.NonDetection, p.Band, p.Magnitude, magErr})
	}
	if err := s.ch.Insert(ctx, s.table, rows); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeStorage, "photometry insert failed")
	}
	return nil
}
