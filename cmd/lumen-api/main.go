// @title         Lumen API
// @version       0.1.0
// @description   Lightcurve fetch trigger and run bookkeeping endpoints

package main

import (
	"context"

	"lumen/internal/platform/config"
	"lumen/internal/platform/logger"
	phttp "lumen/internal/platform/net/http"
	"lumen/internal/platform/store"

	"lumen/internal/services/api"
)

func main() {
	// service-scoped config for HTTP etc (CORE_API_*)
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")

	pgCfg := root.Prefix("SERVICE_PGSQL_")      // pgCfg lives under SERVICE_PGSQL_*
	chCfg := root.Prefix("SERVICE_CLICKHOUSE_") // chCfg lives under SERVICE_CLICKHOUSE_*

	// bring up logging early
	l := logger.Get()

	// open the platform store; either backend can be switched off for a fetch-only API
	st, err := store.Open(
		context.Background(),
		store.Config{
			PG: store.PGConfig{
				Enabled:     pgCfg.MayBool("ENABLED", true),
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
				ClientTag:  "api",
			},
		},
		store.WithLogger(*l),
	)
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	// http server (reads CORE_API_API_PORT)
	srv := phttp.NewServer(apiCfg)

	// mount our API
	api.Mount(
		srv.Router(),
		api.Options{
			Config:        root,
			Store:         st,
			Logger:        l,
			EnableSwagger: apiCfg.MayBool("SWAGGER", true),
			SwaggerSpec:   apiCfg.MayString("SWAGGER_SPEC", "docs/openapi.json"),
		},
	)

	// run
	if err := srv.Run(context.Background()); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}
