// Package frames holds the tabular types of the pipeline and the nested
// dataset assembler. The identifier is an ordinary column on every row, there
// is no separate index concept.
package frames

import (
	perr "lumen/internal/platform/errors"
)

// Point is one normalized lightcurve measurement for one object
// Magnitude always holds a value: absent detection magnitudes are substituted
// with the survey detection limit during normalization
type Point struct {
	ObjectID       string   `json:"object_id" parquet:"object_id"`
	Time           float64  `json:"time" parquet:"time"`
	NonDetection   bool     `json:"non_detection" parquet:"non_detection"`
	Band           string   `json:"band" parquet:"band"`
	Magnitude      float64  `json:"magnitude" parquet:"magnitude"`
	MagnitudeError *float64 `json:"magnitude_error,omitempty" parquet:"magnitude_error,optional"`
}

// Metadata is the one row per object summary
// nil means the source property was absent, never an error
type Metadata struct {
	ObjectID                      string   `json:"object_id" parquet:"object_id"`
	ZTFObjectID                   *string  `json:"ztf_object_id,omitempty" parquet:"ztf_object_id,optional"`
	NumMagValues                  *int64   `json:"num_mag_values,omitempty" parquet:"num_mag_values,optional"`
	NumAlerts                     *int64   `json:"num_alerts,omitempty" parquet:"num_alerts,optional"`
	BrightestAlertMagnitude       *float64 `json:"brightest_alert_magnitude,omitempty" parquet:"brightest_alert_magnitude,optional"`
	BrightestAlertObservationTime *float64 `json:"brightest_alert_observation_time,omitempty" parquet:"brightest_alert_observation_time,optional"`
	NewestAlertMagnitude          *float64 `json:"newest_alert_magnitude,omitempty" parquet:"newest_alert_magnitude,optional"`
	NewestAlertObservationTime    *float64 `json:"newest_alert_observation_time,omitempty" parquet:"newest_alert_observation_time,optional"`
	OldestAlertMagnitude          *float64 `json:"oldest_alert_magnitude,omitempty" parquet:"oldest_alert_magnitude,optional"`
	OldestAlertObservationTime    *float64 `json:"oldest_alert_observation_time,omitempty" parquet:"oldest_alert_observation_time,optional"`
	Survey                        *string  `json:"survey,omitempty" parquet:"survey,optional"`
	RA                            *float64 `json:"ra,omitempty" parquet:"ra,optional"`
	Dec                           *float64 `json:"dec,omitempty" parquet:"dec,optional"`
}

// Object is one top-level dataset row: the metadata plus its own lightcurve
// sub-table
type Object struct {
	Metadata
	Lightcurve []Point `json:"lightcurve" parquet:"lightcurve,list"`
}

// Dataset is the nested result, dense 0-based row order
type Dataset []Object

// Identifiers returns the top-level identifiers in row order
func (d Dataset) Identifiers() []string {
	out := make([]string, len(d))
	for i := range d {
		out[i] = d[i].ObjectID
	}
	return out
}

// Points flattens every object's lightcurve back into one table
func (d Dataset) Points() []Point {
	var out []Point
	for i := range d {
		out = append(out, d[i].Lightcurve...)
	}
	return out
}

// Assemble merges lightcurve rows and metadata rows into the nested dataset.
// Each metadata row, in input order, becomes one top-level row owning the
// points that share its identifier. Duplicate metadata rows each become their
// own top-level row carrying the full per-identifier sub-table; points are not
// split between duplicates. Metadata rows with zero matching points are
// dropped. Points whose identifier has no metadata row violate the nesting
// invariant and fail the merge.
func Assemble(points []Point, metas []Metadata) (Dataset, error) {
	if len(metas) == 0 || len(points) == 0 {
		return nil, perr.EmptyBatchf("nothing to assemble: %d points, %d metadata rows", len(points), len(metas))
	}

	byID := make(map[string][]Point, len(metas))
	for _, p := range points {
		byID[p.ObjectID] = append(byID[p.ObjectID], p)
	}

	known := make(map[string]bool, len(metas))
	out := make(Dataset, 0, len(metas))
	for _, m := range metas {
		known[m.ObjectID] = true
		lc := byID[m.ObjectID]
		if len(lc) == 0 {
			continue
		}
		out = append(out, Object{Metadata: m, Lightcurve: lc})
	}

	for id := range byID {
		if !known[id] {
			return nil, perr.Malformedf("lightcurve rows for %q have no metadata row", id)
		}
	}

	if len(out) == 0 {
		return nil, perr.EmptyBatchf("no object had both metadata and lightcurve rows")
	}
	return out, nil
}
