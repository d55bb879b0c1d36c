// Package ch provides a clickhouse client for columnar photometry sinks
package ch

import (
	"context"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

// Config configures clickhouse connectivity
type Config struct {
	URL string

	// ClientName/ClientTag annotate connections in system.query_log
	// role examples: "api", "fetch", "plot"
	ClientName string
	ClientTag  string
}

// Rows is the minimal result set iteration for ch
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
	Columns() []string
}

// CH wraps a native clickhouse connection
type CH struct {
	conn driver.Conn
}

// Open connects to clickhouse using a DSN like clickhouse://host:9000/db
func Open(ctx context.Context, cfg Config) (*CH, error) {
	opts, err := clickhouse.ParseDSN(cfg.URL)
	if err != nil {
		return nil, err
	}
	opts.ClientInfo = BuildClientInfo(cfg.ClientName, cfg.ClientTag)

	conn, err := clickhouse.Open(opts)
	if err != nil {
		return nil, err
	}
	return &CH{conn: conn}, nil
}

// Insert appends rows to table via a native batch
// rows are positional and must match the table column order
func (c *CH) Insert(ctx context.Context, table string, rows [][]any) error {
	batch, err := c.conn.PrepareBatch(ctx, "INSERT INTO "+table)
	if err != nil {
		return err
	}
	for _, r := range rows {
		if err := batch.Append(r...); err != nil {
			return err
		}
	}
	return batch.Send()
}

// Query runs a query and returns ch.Rows
func (c *CH) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	rs, err := c.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return rowsShim{r: rs}, nil
}

// Ping verifies connectivity
func (c *CH) Ping(ctx context.Context) error { return c.conn.Ping(ctx) }

// Close closes resources
func (c *CH) Close() error { return c.conn.Close() }

// rowsShim narrows driver.Rows to the ch.Rows seam
type rowsShim struct{ r driver.Rows }

func (x rowsShim) Next() bool             { return x.r.Next() }
func (x rowsShim) Scan(dest ...any) error { return x.r.Scan(dest...) }
func (x rowsShim) Err() error             { return x.r.Err() }
func (x rowsShim) Close() error           { return x.r.Close() }
func (x rowsShim) Columns() []string      { return x.r.Columns() }
