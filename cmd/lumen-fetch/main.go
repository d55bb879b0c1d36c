package main

import (
	"bufio"
	"context"
	"flag"
	"os"
	"strconv"
	"strings"

	"lumen/internal/adapters/parquetstore"
	"lumen/internal/modkit"
	"lumen/internal/modkit/module"
	"lumen/internal/platform/config"
	"lumen/internal/platform/logger"
	"lumen/internal/platform/store"

	lcmod "lumen/internal/services/lightcurve/module"
)

func mustSetEnv(key, val string) {
	if val != "" {
		_ = os.Setenv(key, val)
	}
}

// readIDs merges the comma separated -ids list with the optional -ids-file,
// one identifier per line, blank lines and # comments skipped
func readIDs(list, file string) ([]string, error) {
	var ids []string
	for _, id := range strings.Split(list, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	if file == "" {
		return ids, nil
	}
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ids = append(ids, line)
	}
	return ids, sc.Err()
}

func main() {
	root := config.New()
	pgCfg := root.Prefix("SERVICE_PGSQL_")
	chCfg := root.Prefix("SERVICE_CLICKHOUSE_")

	l := logger.Get()

	var (
		fIDs     = flag.String("ids", "", "comma separated survey object identifiers")
		fIDsFile = flag.String("ids-file", "", "file with one identifier per line")
		fOut     = flag.String("out", "", "parquet output path; empty skips file output")
		fByLayer = flag.Bool("by-layer", false, "write separable metadata and lightcurve layers instead of one nested file")
		fWorkers = flag.Int("workers", 4, "concurrent fetch workers")
		fTimeout = flag.String("timeout", "", "per identifier fetch timeout, e.g. 30s")
		fPersist = flag.Bool("persist", false, "also persist results to the configured stores")
	)
	flag.Parse()

	ids, err := readIDs(*fIDs, *fIDsFile)
	if err != nil {
		l.Panic().Err(err).Msg("reading identifiers failed")
	}
	if len(ids) == 0 {
		l.Panic().Msg("must provide -ids or -ids-file")
	}

	st, err := store.Open(context.Background(), store.Config{
		PG: store.PGConfig{
			Enabled:     pgCfg.MayBool("ENABLED", false),
			URL:         pgCfg.MayString("DBURL", ""),
			MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
			SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
			LogSQL:      pgCfg.MayBool("LOG_SQL", true),
		},
		CH: store.CHConfig{
			Enabled:    chCfg.MayBool("ENABLED", false),
			URL:        chCfg.MayString("DBURL", ""),
			LogSQL:     chCfg.MayBool("LOG_SQL", true),
			ClientName: "lumen",
			ClientTag:  "fetch",
		},
	}, store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	// Surface flags to the module which reads FromConfig
	mustSetEnv("CORE_LIGHTCURVE_WORKERS", strconv.Itoa(*fWorkers))
	mustSetEnv("CORE_LIGHTCURVE_TASK_TIMEOUT", *fTimeout)
	mustSetEnv("CORE_LIGHTCURVE_PERSIST", map[bool]string{true: "1", false: ""}[*fPersist])

	deps := modkit.Deps{
		Cfg: root,
		PG:  st.PG,
		CH:  st.CH,
		Log: *l,
	}

	lc := lcmod.New(deps)
	module.Register(lc.Name(), lc.Ports())

	ctx := context.Background()
	ports := lc.Ports().(lcmod.Ports)

	res, err := ports.Fetcher.FetchBatch(ctx, ids, *fWorkers)
	if err != nil {
		l.Fatal().Err(err).Int("requested", len(ids)).Msg("batch failed")
	}

	l.Info().
		Str("run_id", res.RunID).
		Int("requested", res.Requested()).
		Int("succeeded", len(res.Dataset)).
		Int("failed", len(res.Failures)).
		Msg("batch done")
	for _, f := range res.Failures {
		l.Warn().Str("object_id", f.ObjectID).Str("kind", string(f.Kind)).Msg("identifier dropped")
	}

	if *fOut != "" {
		if err := parquetstore.Write(*fOut, res.Dataset, *fByLayer); err != nil {
			l.Fatal().Err(err).Str("out", *fOut).Msg("writing dataset failed")
		}
		l.Info().Str("out", *fOut).Bool("by_layer", *fByLayer).Msg("dataset written")
	}
}
