package store

import (
	"context"
	"errors"

	chx "lumen/internal/platform/store/ch"
)

// chAdapter narrows ch.CH to the store.Clickhouse seam
type chAdapter struct {
	c *chx.CH
}

func newCHAdapter(c *chx.CH) *chAdapter { return &chAdapter{c: c} }

func (a *chAdapter) Ping(ctx context.Context) error {
	if a == nil || a.c == nil {
		return errors.New("ch: nil adapter")
	}
	return a.c.Ping(ctx)
}

func (a *chAdapter) Insert(ctx context.Context, table string, rows [][]any) error {
	return a.c.Insert(ctx, table, rows)
}

func (a *chAdapter) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	rs, err := a.c.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return chRows{r: rs}, nil
}

func (a *chAdapter) Close() error { return a.c.Close() }

// chRows adapts ch.Rows (Close with error) to store.Rows (Close without)
type chRows struct{ r chx.Rows }

func (x chRows) Next() bool            { return x.r.Next() }
func (x chRows) Scan(dst ...any) error { return x.r.Scan(dst...) }
func (x chRows) Err() error            { return x.r.Err() }
func (x chRows) Close()                { _ = x.r.Close() }
func (x chRows) Columns() []string     { return x.r.Columns() }
