// Package domain holds the lightcurve pipeline types and ports
package domain

import (
	"time"

	"lumen/internal/core/frames"
)

// FailureKind classifies why one identifier dropped out of a batch
type FailureKind string

// failure kinds, one per isolated fetch-layer error
const (
	FailureNotFound  FailureKind = "not_found"
	FailureTransport FailureKind = "transport"
	FailureMalformed FailureKind = "malformed_record"
)

// Failure is the per-identifier entry of the batch failure report
type Failure struct {
	ObjectID string      `json:"object_id"`
	Kind     FailureKind `json:"kind"`
}

// BatchResult carries the successful aggregate and the explicit failure list
// failures never abort a batch, they are reported here instead of discarded
type BatchResult struct {
	RunID    string         `json:"run_id"`
	Dataset  frames.Dataset `json:"dataset"`
	Failures []Failure      `json:"failures,omitempty"`
}

// Requested is the total number of identifiers the batch was asked for
func (r BatchResult) Requested() int { return len(r.Dataset) + len(r.Failures) }

// RunFinish summarizes one batch run for bookkeeping
type RunFinish struct {
	Status    string // "ok" or "error"
	Requested int
	Succeeded int
	Failed    int
	ElapsedMS int
	ErrText   string
}

// Run is one recorded batch invocation
type Run struct {
	RunID      string     `json:"run_id"`
	Status     string     `json:"status"`
	Requested  int        `json:"requested"`
	Succeeded  int        `json:"succeeded"`
	Failed     int        `json:"failed"`
	ElapsedMS  int        `json:"elapsed_ms"`
	ErrText    string     `json:"err_text,omitempty"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}
