// Package plotting renders one object's lightcurve as a scatter/error-bar
// chart. It consumes the normalized schema and nothing else from the pipeline.
package plotting

import (
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"lumen/internal/core/frames"
	"lumen/internal/core/passband"
	perr "lumen/internal/platform/errors"
)

// TimeAxis selects the x axis mode
type TimeAxis string

// axis modes: native timestamps, or shifted so the earliest detection is zero
const (
	TimeAxisAbsolute TimeAxis = "mjd"
	TimeAxisRelative TimeAxis = "relative"
)

// Options configures one render
type Options struct {
	// SavePath, when set, writes <SavePath><objectID>.png and returns no handle
	SavePath string
	TimeAxis TimeAxis
}

var bandColors = map[string]color.RGBA{
	passband.ZTFg: {R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff},
	passband.ZTFr: {R: 0xd6, G: 0x27, B: 0x28, A: 0xff},
	passband.ZTFi: {R: 0xff, G: 0x7f, B: 0x0e, A: 0xff},
}

// DetectionEpoch returns the earliest timestamp among detections only
// ok=false when the rows hold no detection at all
func DetectionEpoch(points []frames.Point) (float64, bool) {
	var epoch float64
	found := false
	for _, p := range points {
		if p.NonDetection {
			continue
		}
		if !found || p.Time < epoch {
			epoch = p.Time
			found = true
		}
	}
	return epoch, found
}

// Relative shifts all rows so the earliest detection sits at zero
// non-detections before that epoch go negative; no detections leaves rows as is
func Relative(points []frames.Point) []frames.Point {
	epoch, ok := DetectionEpoch(points)
	if !ok {
		return points
	}
	out := make([]frames.Point, len(points))
	copy(out, points)
	for i := range out {
		out[i].Time -= epoch
	}
	return out
}

// errBars exposes detection rows to plotter.NewYErrorBars
type errBars struct{ pts []frames.Point }

func (e errBars) Len() int { return len(e.pts) }

func (e errBars) XY(i int) (float64, float64) { return e.pts[i].Time, e.pts[i].Magnitude }

func (e errBars) YError(i int) (float64, float64) {
	if me := e.pts[i].MagnitudeError; me != nil {
		return *me, *me
	}
	return 0, 0
}

// PlotLightcurve renders the rows belonging to objectID
// returns the live plot handle, or nil after writing the PNG when a save path
// is configured
func PlotLightcurve(points []frames.Point, objectID string, opt Options) (*plot.Plot, error) {
	var rows []frames.Point
	for _, p := range points {
		if p.ObjectID == objectID {
			rows = append(rows, p)
		}
	}
	if len(rows) == 0 {
		return nil, perr.InvalidArgf("no lightcurve rows for %s", objectID)
	}

	xLabel := "MJD"
	if opt.TimeAxis == TimeAxisRelative {
		rows = Relative(rows)
		xLabel = "Days Since First Detection"
	}

	p := plot.New()
	p.Title.Text = objectID
	p.X.Label.Text = xLabel
	p.Y.Label.Text = "Apparent Magnitude"
	// brighter is smaller in magnitudes, flip the axis
	p.Y.Scale = plot.InvertedScale{Normalizer: plot.LinearScale{}}

	for _, band := range []string{passband.ZTFg, passband.ZTFr, passband.ZTFi} {
		var det, nondet []frames.Point
		for _, r := range rows {
			if r.Band != band {
				continue
			}
			if r.NonDetection {
				nondet = append(nondet, r)
			} else {
				det = append(det, r)
			}
		}

		if len(det) > 0 {
			sc, err := plotter.NewScatter(errBars{pts: det})
			if err != nil {
				return nil, perr.Wrapf(err, perr.ErrorCodeUnknown, "scatter %s", band)
			}
			sc.GlyphStyle = draw.GlyphStyle{
				Color:  bandColors[band],
				Radius: vg.Points(2.5),
				Shape:  draw.CircleGlyph{},
			}
			eb, err := plotter.NewYErrorBars(errBars{pts: det})
			if err != nil {
				return nil, perr.Wrapf(err, perr.ErrorCodeUnknown, "error bars %s", band)
			}
			eb.LineStyle.Color = bandColors[band]
			p.Add(sc, eb)
			p.Legend.Add(band, sc)
		}

		if len(nondet) > 0 {
			sc, err := plotter.NewScatter(errBars{pts: nondet})
			if err != nil {
				return nil, perr.Wrapf(err, perr.ErrorCodeUnknown, "non-detection scatter %s", band)
			}
			sc.GlyphStyle = draw.GlyphStyle{
				Color:  bandColors[band],
				Radius: vg.Points(3),
				Shape:  draw.PyramidGlyph{},
			}
			p.Add(sc)
		}
	}

	if opt.SavePath != "" {
		out := opt.SavePath + objectID + ".png"
		if err := p.Save(8*vg.Inch, 5*vg.Inch, out); err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeStorage, "save chart %s", out)
		}
		return nil, nil
	}
	return p, nil
}
