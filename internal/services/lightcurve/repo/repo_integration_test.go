//go:build integration_pg
// +build integration_pg

package repo

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"lumen/internal/core/frames"
	perr "lumen/internal/platform/errors"
	"lumen/internal/platform/store"
	"lumen/internal/services/lightcurve/domain"

	"github.com/rs/zerolog"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// startPostgres launches a disposable Postgres and returns DSN + stop func
func startPostgres(t *testing.T) (dsn string, stop func()) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)

	req := tc.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "postgres",
			"POSTGRES_PASSWORD": "postgres",
			"POSTGRES_DB":       "postgres",
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("5432/tcp"),
			wait.ForLog("database system is ready to accept connections"),
		).WithDeadline(2 * time.Minute),
	}
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		cancel()
		t.Fatalf("failed to start postgres container: %v", err)
	}

	host, err := c.Host(ctx)
	if err != nil {
		_ = c.Terminate(context.Background())
		cancel()
		t.Fatalf("failed to get container host: %v", err)
	}
	mp, err := c.MappedPort(ctx, "5432/tcp")
	if err != nil {
		_ = c.Terminate(context.Background())
		cancel()
		t.Fatalf("failed to get mapped port: %v", err)
	}

	dsn = fmt.Sprintf("postgres://postgres:postgres@%s:%s/postgres?sslmode=disable", host, mp.Port())
	stop = func() {
		_ = c.Terminate(context.Background())
		cancel()
	}
	return dsn, stop
}

const schemaSQL = `
	CREATE TABLE fetch_runs (
		run_id      TEXT PRIMARY KEY,
		started_at  TIMESTAMPTZ NOT NULL,
		finished_at TIMESTAMPTZ,
		status      TEXT NOT NULL,
		requested   INT NOT NULL,
		succeeded   INT,
		failed      INT,
		elapsed_ms  INT,
		error       TEXT
	);

	CREATE TABLE fetch_run_failures (
		run_id    TEXT NOT NULL REFERENCES fetch_runs (run_id),
		object_id TEXT NOT NULL,
		kind      TEXT NOT NULL,
		PRIMARY KEY (run_id, object_id)
	);

	CREATE TABLE objects (
		object_id                        TEXT PRIMARY KEY,
		ztf_object_id                    TEXT,
		num_mag_values                   BIGINT,
		num_alerts                       BIGINT,
		brightest_alert_magnitude        DOUBLE PRECISION,
		brightest_alert_observation_time DOUBLE PRECISION,
		newest_alert_magnitude           DOUBLE PRECISION,
		newest_alert_observation_time    DOUBLE PRECISION,
		oldest_alert_magnitude           DOUBLE PRECISION,
		oldest_alert_observation_time    DOUBLE PRECISION,
		survey                           TEXT,
		ra                               DOUBLE PRECISION,
		dec                              DOUBLE PRECISION,
		updated_at                       TIMESTAMPTZ NOT NULL
	);

	CREATE TABLE photometry (
		object_id       TEXT NOT NULL,
		obs_time        DOUBLE PRECISION NOT NULL,
		non_detection   BOOLEAN NOT NULL,
		band            TEXT NOT NULL,
		magnitude       DOUBLE PRECISION NOT NULL,
		magnitude_error DOUBLE PRECISION,
		PRIMARY KEY (object_id, obs_time, band)
	);
`

func newRepo(t *testing.T) (domain.StorageRepo, context.Context) {
	t.Helper()

	dsn, stop := startPostgres(t)
	t.Cleanup(stop)

	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	t.Cleanup(cancel)

	st, err := store.Open(ctx, store.Config{
		PG: store.PGConfig{Enabled: true, URL: dsn, MaxConns: 2},
	}, store.WithLogger(zerolog.New(io.Discard)))
	if err != nil {
		t.Fatalf("store.Open failed: %v", err)
	}
	t.Cleanup(func() { _ = st.Close(context.Background()) })

	if _, err := st.PG.Exec(ctx, schemaSQL); err != nil {
		t.Fatalf("create schema: %v", err)
	}
	return NewPG().Bind(st.PG), ctx
}

func fptr(v float64) *float64 { return &v }

func TestRepo_Integration_RunLifecycle(t *testing.T) {
	r, ctx := newRepo(t)

	const runID = "11111111-2222-3333-4444-555555555555"
	if err := r.StartRun(ctx, runID, 3); err != nil {
		t.Fatalf("start run: %v", err)
	}
	// restart is idempotent
	if err := r.StartRun(ctx, runID, 3); err != nil {
		t.Fatalf("restart run: %v", err)
	}

	fails := []domain.Failure{
		{ObjectID: "ZTF21nope", Kind: domain.FailureNotFound},
	}
	if err := r.InsertFailures(ctx, runID, fails); err != nil {
		t.Fatalf("insert failures: %v", err)
	}
	// replay must not duplicate
	if err := r.InsertFailures(ctx, runID, fails); err != nil {
		t.Fatalf("replay failures: %v", err)
	}

	if err := r.FinishRun(ctx, runID, domain.RunFinish{
		Status:    "ok",
		Requested: 3,
		Succeeded: 2,
		Failed:    1,
		ElapsedMS: 412,
	}); err != nil {
		t.Fatalf("finish run: %v", err)
	}

	run, err := r.GetRun(ctx, runID)
	if err != nil {
		t.Fatalf("get run: %v", err)
	}
	if run.Status != "ok" || run.Requested != 3 || run.Succeeded != 2 || run.Failed != 1 {
		t.Fatalf("unexpected run: %+v", run)
	}
	if run.FinishedAt == nil {
		t.Fatal("finished run must carry finished_at")
	}

	if _, err := r.GetRun(ctx, "99999999-0000-0000-0000-000000000000"); !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("missing run should be not found, got %v", err)
	}
}

func TestRepo_Integration_ObjectsAndPoints(t *testing.T) {
	r, ctx := newRepo(t)

	metas := []frames.Metadata{
		{ObjectID: "ZTF21aaa", Survey: strPtr("ZTF"), RA: fptr(120.5), Dec: fptr(-33.25)},
	}
	if err := r.UpsertObjects(ctx, metas); err != nil {
		t.Fatalf("upsert objects: %v", err)
	}
	// second upsert with changed coordinates must win
	metas[0].RA = fptr(121.0)
	if err := r.UpsertObjects(ctx, metas); err != nil {
		t.Fatalf("re-upsert objects: %v", err)
	}

	points := []frames.Point{
		{ObjectID: "ZTF21aaa", Time: 59000, Band: "ztfg", Magnitude: 18.2, MagnitudeError: fptr(0.05)},
		{ObjectID: "ZTF21aaa", Time: 59001, NonDetection: true, Band: "ztfr", Magnitude: 20.1},
	}
	n, err := r.InsertPoints(ctx, points)
	if err != nil {
		t.Fatalf("insert points: %v", err)
	}
	if n != 2 {
		t.Fatalf("inserted %d points, want 2", n)
	}

	// replay dedupes on (object_id, obs_time, band)
	n, err = r.InsertPoints(ctx, points)
	if err != nil {
		t.Fatalf("replay points: %v", err)
	}
	if n != 0 {
		t.Fatalf("replay inserted %d points, want 0", n)
	}
}

func strPtr(s string) *string { return &s }
