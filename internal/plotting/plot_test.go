package plotting

import (
	"os"
	"path/filepath"
	"testing"

	"lumen/internal/core/frames"
	perr "lumen/internal/platform/errors"
)

func fp(v float64) *float64 { return &v }

func det(id string, t float64) frames.Point {
	return frames.Point{ObjectID: id, Time: t, Band: "ztfg", Magnitude: 18.5, MagnitudeError: fp(0.1)}
}

func nondet(id string, t float64) frames.Point {
	return frames.Point{ObjectID: id, Time: t, NonDetection: true, Band: "ztfr", Magnitude: 20.5}
}

func TestRelativeShiftsByEarliestDetection(t *testing.T) {
	points := []frames.Point{nondet("a", 5), det("a", 10), det("a", 12), det("a", 15)}

	got := Relative(points)
	want := []float64{-5, 0, 2, 5}
	for i, p := range got {
		if p.Time != want[i] {
			t.Fatalf("row %d time %v, want %v", i, p.Time, want[i])
		}
	}

	// input must stay untouched
	if points[1].Time != 10 {
		t.Fatal("Relative mutated its input")
	}
}

func TestDetectionEpochIgnoresNonDetections(t *testing.T) {
	epoch, ok := DetectionEpoch([]frames.Point{nondet("a", 1), det("a", 42), det("a", 50)})
	if !ok || epoch != 42 {
		t.Fatalf("epoch %v ok=%v, want 42", epoch, ok)
	}
	if _, ok := DetectionEpoch([]frames.Point{nondet("a", 1)}); ok {
		t.Fatal("no detections should report ok=false")
	}
}

func TestPlotLightcurveSavesPNG(t *testing.T) {
	dir := t.TempDir()
	points := []frames.Point{det("ZTF21aaa", 59000), det("ZTF21aaa", 59002), nondet("ZTF21aaa", 58995)}

	handle, err := PlotLightcurve(points, "ZTF21aaa", Options{
		SavePath: dir + string(os.PathSeparator),
		TimeAxis: TimeAxisRelative,
	})
	if err != nil {
		t.Fatalf("PlotLightcurve: %v", err)
	}
	if handle != nil {
		t.Fatal("saving must return a nil handle")
	}

	out := filepath.Join(dir, "ZTF21aaa.png")
	if fi, err := os.Stat(out); err != nil || fi.Size() == 0 {
		t.Fatalf("expected a non-empty png at %s: %v", out, err)
	}
}

func TestPlotLightcurveReturnsHandleWithoutSavePath(t *testing.T) {
	points := []frames.Point{det("obj", 1)}
	handle, err := PlotLightcurve(points, "obj", Options{TimeAxis: TimeAxisAbsolute})
	if err != nil {
		t.Fatalf("PlotLightcurve: %v", err)
	}
	if handle == nil {
		t.Fatal("expected a live plot handle")
	}
}

func TestPlotLightcurveFiltersByIdentifier(t *testing.T) {
	points := []frames.Point{det("other", 1)}
	if _, err := PlotLightcurve(points, "missing", Options{}); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("want invalid argument, got %v", err)
	}
}
