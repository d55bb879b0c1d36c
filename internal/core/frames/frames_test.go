package frames

import (
	"reflect"
	"sort"
	"testing"

	perr "lumen/internal/platform/errors"
)

func fp(v float64) *float64 { return &v }

func pt(id string, t float64, band string) Point {
	return Point{ObjectID: id, Time: t, Band: band, Magnitude: 18.5, MagnitudeError: fp(0.1)}
}

func meta(id string) Metadata { return Metadata{ObjectID: id} }

func TestAssembleNestsByIdentifier(t *testing.T) {
	points := []Point{
		pt("a", 1, "ztfg"),
		pt("b", 2, "ztfr"),
		pt("a", 3, "ztfg"),
	}
	metas := []Metadata{meta("a"), meta("b")}

	ds, err := Assemble(points, metas)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if len(ds) != 2 {
		t.Fatalf("want 2 rows, got %d", len(ds))
	}
	if ds[0].ObjectID != "a" || len(ds[0].Lightcurve) != 2 {
		t.Fatalf("row a wrong: %+v", ds[0])
	}
	if ds[1].ObjectID != "b" || len(ds[1].Lightcurve) != 1 {
		t.Fatalf("row b wrong: %+v", ds[1])
	}
}

func TestAssembleTopLevelMatchesDistinctPointIDs(t *testing.T) {
	points := []Point{pt("x", 1, "ztfg"), pt("y", 2, "ztfi"), pt("x", 3, "ztfr")}
	metas := []Metadata{meta("y"), meta("x")}

	ds, err := Assemble(points, metas)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	top := ds.Identifiers()
	sort.Strings(top)

	distinct := map[string]bool{}
	for _, p := range ds.Points() {
		distinct[p.ObjectID] = true
	}
	var flat []string
	for id := range distinct {
		flat = append(flat, id)
	}
	sort.Strings(flat)

	if !reflect.DeepEqual(top, flat) {
		t.Fatalf("identifier sets differ: top=%v points=%v", top, flat)
	}
}

func TestAssembleOrderIndependent(t *testing.T) {
	a := []Point{pt("a", 1, "ztfg"), pt("a", 2, "ztfr")}
	b := []Point{pt("b", 5, "ztfi")}

	ds1, err := Assemble(append(append([]Point{}, a...), b...), []Metadata{meta("a"), meta("b")})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	ds2, err := Assemble(append(append([]Point{}, b...), a...), []Metadata{meta("b"), meta("a")})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	asMap := func(d Dataset) map[string]Object {
		m := map[string]Object{}
		for _, o := range d {
			m[o.ObjectID] = o
		}
		return m
	}
	if !reflect.DeepEqual(asMap(ds1), asMap(ds2)) {
		t.Fatalf("datasets differ by assembly order:\n%v\n%v", ds1, ds2)
	}
}

func TestAssembleDuplicateMetadataRowsPreserved(t *testing.T) {
	// two fetches of the same identifier: duplicated metadata and points
	points := []Point{pt("a", 1, "ztfg"), pt("a", 2, "ztfr"), pt("a", 1, "ztfg"), pt("a", 2, "ztfr")}
	metas := []Metadata{meta("a"), meta("a")}

	ds, err := Assemble(points, metas)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if len(ds) != 2 {
		t.Fatalf("duplicates should produce duplicate rows, got %d", len(ds))
	}

	// each duplicate row owns the full per-identifier sub-table, never a split
	for i, o := range ds {
		if len(o.Lightcurve) != len(points) {
			t.Fatalf("row %d holds %d points, want all %d", i, len(o.Lightcurve), len(points))
		}
	}
	if !reflect.DeepEqual(ds[0].Lightcurve, ds[1].Lightcurve) {
		t.Fatalf("duplicate rows must share identical sub-tables:\n%v\n%v", ds[0].Lightcurve, ds[1].Lightcurve)
	}
}

func TestAssembleDropsMetadataWithoutPoints(t *testing.T) {
	points := []Point{pt("a", 1, "ztfg")}
	metas := []Metadata{meta("a"), meta("ghost")}

	ds, err := Assemble(points, metas)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if len(ds) != 1 || ds[0].ObjectID != "a" {
		t.Fatalf("metadata without points must not appear: %+v", ds)
	}
}

func TestAssembleOrphanPointsFail(t *testing.T) {
	points := []Point{pt("a", 1, "ztfg"), pt("orphan", 2, "ztfr")}
	metas := []Metadata{meta("a")}

	_, err := Assemble(points, metas)
	if !perr.IsCode(err, perr.ErrorCodeMalformedRecord) {
		t.Fatalf("want malformed record error, got %v", err)
	}
}

func TestAssembleEmptyInputsFail(t *testing.T) {
	if _, err := Assemble(nil, nil); !perr.IsCode(err, perr.ErrorCodeEmptyBatch) {
		t.Fatalf("want empty batch error, got %v", err)
	}
	if _, err := Assemble([]Point{pt("a", 1, "ztfg")}, nil); !perr.IsCode(err, perr.ErrorCodeEmptyBatch) {
		t.Fatalf("want empty batch error, got %v", err)
	}
}
