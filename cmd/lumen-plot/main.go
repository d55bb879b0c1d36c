package main

import (
	"flag"
	"strings"

	"lumen/internal/adapters/parquetstore"
	"lumen/internal/platform/logger"
	"lumen/internal/plotting"
)

func main() {
	l := logger.Get()

	var (
		fIn       = flag.String("in", "", "parquet dataset path written by lumen-fetch")
		fByLayer  = flag.Bool("by-layer", false, "read the separable layer layout instead of one nested file")
		fID       = flag.String("id", "", "single object identifier to render; empty renders every object")
		fOut      = flag.String("out", "./", "directory for the rendered PNGs")
		fRelative = flag.Bool("relative", false, "shift the time axis so the earliest detection sits at zero")
	)
	flag.Parse()

	if *fIn == "" {
		l.Panic().Msg("must provide -in")
	}

	ds, err := parquetstore.Read(*fIn, *fByLayer)
	if err != nil {
		l.Panic().Err(err).Str("in", *fIn).Msg("reading dataset failed")
	}

	axis := plotting.TimeAxisAbsolute
	if *fRelative {
		axis = plotting.TimeAxisRelative
	}
	out := *fOut
	if !strings.HasSuffix(out, "/") {
		out += "/"
	}

	ids := ds.Identifiers()
	if *fID != "" {
		ids = []string{*fID}
	}

	points := ds.Points()
	rendered := 0
	for _, id := range ids {
		if _, err := plotting.PlotLightcurve(points, id, plotting.Options{
			SavePath: out,
			TimeAxis: axis,
		}); err != nil {
			l.Error().Err(err).Str("object_id", id).Msg("render failed")
			continue
		}
		rendered++
	}

	l.Info().Int("rendered", rendered).Int("objects", len(ids)).Str("out", out).Msg("plotting done")
	if rendered == 0 {
		l.Fatal().Msg("nothing rendered")
	}
}
