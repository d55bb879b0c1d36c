// Package domain holds the API facing lightcurve DTOs
package domain

// FetchInput triggers a batch fetch for the given survey identifiers
// swagger:model
type FetchInput struct {
	// IDs are the survey object identifiers to fetch
	IDs []string `json:"ids" validate:"required,min=1,dive,required" example:"ZTF21abcdefg"`

	// Concurrency overrides the configured worker count when > 0
	Concurrency int `json:"concurrency,omitempty" validate:"omitempty,min=1,max=64" example:"4"`
}

// FetchFailure mirrors one entry of the batch failure report
type FetchFailure struct {
	ObjectID string `json:"object_id" example:"ZTF21nope"`
	Kind     string `json:"kind"      example:"not_found"`
}

// FetchResponse summarizes one triggered batch
// the nested dataset rides along so callers can consume results directly
type FetchResponse struct {
	RunID     string         `json:"run_id"    example:"7f6f3f0a-1f2d-4c3b-9a8e-0c1d2e3f4a5b"`
	Requested int            `json:"requested" example:"3"`
	Succeeded int            `json:"succeeded" example:"2"`
	Failed    int            `json:"failed"    example:"1"`
	Dataset   any            `json:"dataset"`
	Failures  []FetchFailure `json:"failures,omitempty"`
}

// RunResponse is one recorded batch run read back from storage
type RunResponse struct {
	RunID      string `json:"run_id"`
	Status     string `json:"status"     example:"ok"`
	Requested  int    `json:"requested"  example:"3"`
	Succeeded  int    `json:"succeeded"  example:"2"`
	Failed     int    `json:"failed"     example:"1"`
	ElapsedMS  int    `json:"elapsed_ms" example:"412"`
	ErrText    string `json:"err_text,omitempty"`
	StartedAt  string `json:"started_at"  example:"2026-08-30T13:00:00Z"`
	FinishedAt string `json:"finished_at,omitempty"`
}
