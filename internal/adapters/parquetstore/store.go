// Package parquetstore persists nested datasets as parquet, either split by
// layer or as one unified file, and reads them back losslessly
package parquetstore

import (
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"

	"lumen/internal/core/frames"
	perr "lumen/internal/platform/errors"
)

// file names of the split layout; path is a directory in that mode
const (
	metadataFile   = "metadata.parquet"
	lightcurveFile = "lightcurve.parquet"
)

// unifiedRow is the on-disk shape of the unified layout
// explicit fields instead of embedding keep the parquet schema stable
type unifiedRow struct {
	ObjectID                      string         `parquet:"object_id"`
	ZTFObjectID                   *string        `parquet:"ztf_object_id,optional"`
	NumMagValues                  *int64         `parquet:"num_mag_values,optional"`
	NumAlerts                     *int64         `parquet:"num_alerts,optional"`
	BrightestAlertMagnitude       *float64       `parquet:"brightest_alert_magnitude,optional"`
	BrightestAlertObservationTime *float64       `parquet:"brightest_alert_observation_time,optional"`
	NewestAlertMagnitude          *float64       `parquet:"newest_alert_magnitude,optional"`
	NewestAlertObservationTime    *float64       `parquet:"newest_alert_observation_time,optional"`
	OldestAlertMagnitude          *float64       `parquet:"oldest_alert_magnitude,optional"`
	OldestAlertObservationTime    *float64       `parquet:"oldest_alert_observation_time,optional"`
	Survey                        *string        `parquet:"survey,optional"`
	RA                            *float64       `parquet:"ra,optional"`
	Dec                           *float64       `parquet:"dec,optional"`
	Lightcurve                    []frames.Point `parquet:"lightcurve,list"`
}

func toRow(o frames.Object) unifiedRow {
	return unifiedRow{
		ObjectID:                      o.ObjectID,
		ZTFObjectID:                   o.ZTFObjectID,
		NumMagValues:                  o.NumMagValues,
		NumAlerts:                     o.NumAlerts,
		BrightestAlertMagnitude:       o.BrightestAlertMagnitude,
		BrightestAlertObservationTime: o.BrightestAlertObservationTime,
		NewestAlertMagnitude:          o.NewestAlertMagnitude,
		NewestAlertObservationTime:    o.NewestAlertObservationTime,
		OldestAlertMagnitude:          o.OldestAlertMagnitude,
		OldestAlertObservationTime:    o.OldestAlertObservationTime,
		Survey:                        o.Survey,
		RA:                            o.RA,
		Dec:                           o.Dec,
		Lightcurve:                    o.Lightcurve,
	}
}

func fromRow(r unifiedRow) frames.Object {
	return frames.Object{
		Metadata: frames.Metadata{
			ObjectID:                      r.ObjectID,
			ZTFObjectID:                   r.ZTFObjectID,
			NumMagValues:                  r.NumMagValues,
			NumAlerts:                     r.NumAlerts,
			BrightestAlertMagnitude:       r.BrightestAlertMagnitude,
			BrightestAlertObservationTime: r.BrightestAlertObservationTime,
			NewestAlertMagnitude:          r.NewestAlertMagnitude,
			NewestAlertObservationTime:    r.NewestAlertObservationTime,
			OldestAlertMagnitude:          r.OldestAlertMagnitude,
			OldestAlertObservationTime:    r.OldestAlertObservationTime,
			Survey:                        r.Survey,
			RA:                            r.RA,
			Dec:                           r.Dec,
		},
		Lightcurve: r.Lightcurve,
	}
}

// Write persists the dataset at path
// byLayer writes a directory with separable metadata and lightcurve layers,
// otherwise one unified nested file
func Write(path string, ds frames.Dataset, byLayer bool) error {
	if len(ds) == 0 {
		return perr.EmptyBatchf("refusing to persist an empty dataset")
	}
	if !byLayer {
		rows := make([]unifiedRow, len(ds))
		for i, o := range ds {
			rows[i] = toRow(o)
		}
		if err := parquet.WriteFile(path, rows); err != nil {
			return perr.Wrapf(err, perr.ErrorCodeStorage, "write unified dataset %s", path)
		}
		return nil
	}

	if err := os.MkdirAll(path, 0o755); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeStorage, "create layer dir %s", path)
	}
	metas := make([]frames.Metadata, len(ds))
	for i, o := range ds {
		metas[i] = o.Metadata
	}
	if err := parquet.WriteFile(filepath.Join(path, metadataFile), metas); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeStorage, "write metadata layer")
	}
	if err := parquet.WriteFile(filepath.Join(path, lightcurveFile), ds.Points()); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeStorage, "write lightcurve layer")
	}
	return nil
}

// Read loads a dataset previously written with the same layout flag
func Read(path string, byLayer bool) (frames.Dataset, error) {
	if !byLayer {
		rows, err := parquet.ReadFile[unifiedRow](path)
		if err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeStorage, "read unified dataset %s", path)
		}
		ds := make(frames.Dataset, len(rows))
		for i, r := range rows {
			ds[i] = fromRow(r)
		}
		return ds, nil
	}

	metas, err := parquet.ReadFile[frames.Metadata](filepath.Join(path, metadataFile))
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeStorage, "read metadata layer")
	}
	points, err := parquet.ReadFile[frames.Point](filepath.Join(path, lightcurveFile))
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeStorage, "read lightcurve layer")
	}
	ds, err := frames.Assemble(points, metas)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeStorage, "reassemble layers from %s", path)
	}
	return ds, nil
}

// AssembleAndSave merges the collected rows and persists the result
func AssembleAndSave(points []frames.Point, metas []frames.Metadata, path string, byLayer bool) (frames.Dataset, error) {
	ds, err := frames.Assemble(points, metas)
	if err != nil {
		return nil, err
	}
	if err := Write(path, ds, byLayer); err != nil {
		return nil, err
	}
	return ds, nil
}
