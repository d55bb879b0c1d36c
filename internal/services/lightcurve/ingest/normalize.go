// Package ingest converts raw locus records into the fixed tabular schema
package ingest

import (
	"lumen/internal/adapters/antares"
	"lumen/internal/core/frames"
	"lumen/internal/core/passband"
	perr "lumen/internal/platform/errors"
)

// NormalizeLightcurve converts the raw alert list into lightcurve rows.
// Magnitude falls back to the detection limit when absent, so every output
// row carries a value; the detection limit itself is dropped. Out of
// vocabulary band letters or survey tags reject the whole record.
func NormalizeLightcurve(loc *antares.Locus) ([]frames.Point, error) {
	if loc == nil || loc.ObjectID == "" {
		return nil, perr.Malformedf("locus has no identifier")
	}
	if len(loc.Lightcurve) == 0 {
		return nil, perr.Malformedf("locus %s has an empty alert list", loc.ObjectID)
	}

	out := make([]frames.Point, 0, len(loc.Lightcurve))
	for i, a := range loc.Lightcurve {
		if a.MJD == nil {
			return nil, perr.Malformedf("locus %s alert %d missing timestamp", loc.ObjectID, i)
		}
		if a.Survey == nil {
			return nil, perr.Malformedf("locus %s alert %d missing survey tag", loc.ObjectID, i)
		}
		if a.Passband == nil {
			return nil, perr.Malformedf("locus %s alert %d missing passband", loc.ObjectID, i)
		}

		nonDet, ok := passband.NonDetection(*a.Survey)
		if !ok {
			return nil, perr.Malformedf("locus %s alert %d survey tag %d out of vocabulary", loc.ObjectID, i, *a.Survey)
		}
		band, ok := passband.Normalize(*a.Passband)
		if !ok {
			return nil, perr.Malformedf("locus %s alert %d band %q out of vocabulary", loc.ObjectID, i, *a.Passband)
		}

		mag := a.Mag
		if mag == nil {
			mag = a.MagLim
		}
		if mag == nil {
			return nil, perr.Malformedf("locus %s alert %d has neither magnitude nor detection limit", loc.ObjectID, i)
		}

		out = append(out, frames.Point{
			ObjectID:       loc.ObjectID,
			Time:           *a.MJD,
			NonDetection:   nonDet,
			Band:           band,
			Magnitude:      *mag,
			MagnitudeError: a.MagErr,
		})
	}
	return out, nil
}

// NormalizeMetadata extracts the summary row from the locus property mapping.
// Missing optional properties become nil, never an error; a locus without a
// property mapping at all is malformed.
func NormalizeMetadata(loc *antares.Locus) (frames.Metadata, error) {
	if loc == nil || loc.ObjectID == "" {
		return frames.Metadata{}, perr.Malformedf("locus has no identifier")
	}
	if loc.Properties == nil {
		return frames.Metadata{}, perr.Malformedf("locus %s has no property mapping", loc.ObjectID)
	}

	p := loc.Properties
	return frames.Metadata{
		ObjectID:                      loc.ObjectID,
		ZTFObjectID:                   propString(p, "ztf_object_id"),
		NumMagValues:                  propInt(p, "num_mag_values"),
		NumAlerts:                     propInt(p, "num_alerts"),
		BrightestAlertMagnitude:       propFloat(p, "brightest_alert_magnitude"),
		BrightestAlertObservationTime: propFloat(p, "brightest_alert_observation_time"),
		NewestAlertMagnitude:          propFloat(p, "newest_alert_magnitude"),
		NewestAlertObservationTime:    propFloat(p, "newest_alert_observation_time"),
		OldestAlertMagnitude:          propFloat(p, "oldest_alert_magnitude"),
		OldestAlertObservationTime:    propFloat(p, "oldest_alert_observation_time"),
		Survey:                        propString(p, "survey"),
		RA:                            loc.RA,
		Dec:                           loc.Dec,
	}, nil
}

// property extraction tolerates the loose typing of a decoded JSON mapping

func propString(p map[string]any, key string) *string {
	if v, ok := p[key].(string); ok {
		return &v
	}
	return nil
}

func propFloat(p map[string]any, key string) *float64 {
	switch v := p[key].(type) {
	case float64:
		return &v
	case int:
		f := float64(v)
		return &f
	case int64:
		f := float64(v)
		return &f
	}
	return nil
}

func propInt(p map[string]any, key string) *int64 {
	switch v := p[key].(type) {
	case float64:
		n := int64(v)
		return &n
	case int:
		n := int64(v)
		return &n
	case int64:
		return &v
	}
	return nil
}
