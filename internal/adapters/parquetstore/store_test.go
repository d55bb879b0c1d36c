package parquetstore

import (
	"path/filepath"
	"reflect"
	"testing"

	"lumen/internal/core/frames"
	perr "lumen/internal/platform/errors"
)

func fp(v float64) *float64 { return &v }
func ip(v int64) *int64     { return &v }
func sp(v string) *string   { return &v }

func sampleDataset() frames.Dataset {
	return frames.Dataset{
		{
			Metadata: frames.Metadata{
				ObjectID:     "ZTF21aaa",
				ZTFObjectID:  sp("ZTF21aaa"),
				NumAlerts:    ip(2),
				NumMagValues: ip(1),
				Survey:       sp("ZTF"),
				RA:           fp(120.5),
				Dec:          fp(-33.25),
			},
			Lightcurve: []frames.Point{
				{ObjectID: "ZTF21aaa", Time: 59000, Band: "ztfg", Magnitude: 18.2, MagnitudeError: fp(0.05)},
				{ObjectID: "ZTF21aaa", Time: 59001, NonDetection: true, Band: "ztfr", Magnitude: 20.1},
			},
		},
		{
			Metadata: frames.Metadata{ObjectID: "ZTF21bbb"},
			Lightcurve: []frames.Point{
				{ObjectID: "ZTF21bbb", Time: 59010, Band: "ztfi", Magnitude: 19.0, MagnitudeError: fp(0.2)},
			},
		},
	}
}

func TestRoundTripUnified(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dataset.parquet")
	ds := sampleDataset()

	if err := Write(path, ds, false); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := Read(path, false)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !reflect.DeepEqual(ds, got) {
		t.Fatalf("unified round trip mismatch:\nwant %+v\ngot  %+v", ds, got)
	}
}

func TestRoundTripByLayer(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "dataset")
	ds := sampleDataset()

	if err := Write(dir, ds, true); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := Read(dir, true)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	asMap := func(d frames.Dataset) map[string]frames.Object {
		m := map[string]frames.Object{}
		for _, o := range d {
			m[o.ObjectID] = o
		}
		return m
	}
	if !reflect.DeepEqual(asMap(ds), asMap(got)) {
		t.Fatalf("layered round trip mismatch:\nwant %+v\ngot  %+v", ds, got)
	}
}

func TestWriteEmptyDatasetFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.parquet")
	if err := Write(path, nil, false); !perr.IsCode(err, perr.ErrorCodeEmptyBatch) {
		t.Fatalf("want empty batch error, got %v", err)
	}
}

func TestAssembleAndSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	ds := sampleDataset()

	var points []frames.Point
	var metas []frames.Metadata
	for _, o := range ds {
		points = append(points, o.Lightcurve...)
		metas = append(metas, o.Metadata)
	}

	saved, err := AssembleAndSave(points, metas, dir, true)
	if err != nil {
		t.Fatalf("AssembleAndSave: %v", err)
	}
	if len(saved) != len(ds) {
		t.Fatalf("want %d rows, got %d", len(ds), len(saved))
	}
	if _, err := Read(dir, true); err != nil {
		t.Fatalf("Read after save: %v", err)
	}
}

func TestReadMissingFileIsStorageError(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "nope.parquet"), false)
	if !perr.IsCode(err, perr.ErrorCodeStorage) {
		t.Fatalf("want storage error, got %v", err)
	}
}
