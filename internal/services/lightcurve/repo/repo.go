// Package repo provides postgres access for lightcurve runs and results
package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"lumen/internal/core/frames"
	"lumen/internal/modkit/repokit"
	perr "lumen/internal/platform/errors"
	"lumen/internal/services/lightcurve/domain"
)

type (
	// PG is a Postgres binder for domain.StorageRepo
	PG      struct{}
	queries struct{ q repokit.Queryer }
)

// NewPG returns a Postgres binder for domain.StorageRepo
func NewPG() repokit.Binder[domain.StorageRepo] { return PG{} }

// Bind implements repokit.Binder
func (PG) Bind(q repokit.Queryer) domain.StorageRepo { return &queries{q: q} }

// StartRun records the beginning of a batch run (idempotent)
func (r *queries) StartRun(ctx context.Context, runID string, requested int) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO fetch_runs (run_id, started_at, status, requested)
		VALUES ($1, now(), 'running', $2)
		ON CONFLICT (run_id) DO UPDATE
		SET started_at = now(), status = 'running', requested = $2, error = null, finished_at = null
	`, runID, requested)
	return perr.FromPostgres(err, "start run")
}

// FinishRun records the outcome of a batch run
func (r *queries) FinishRun(ctx context.Context, runID string, fin domain.RunFinish) error {
	_, err := r.q.Exec(ctx, `
		UPDATE fetch_runs SET
			finished_at = now(),
			status = $2,
			requested = $3,
			succeeded = $4,
			failed = $5,
			elapsed_ms = $6,
			error = NULLIF($7,'')
		WHERE run_id = $1
	`, runID, fin.Status, fin.Requested, fin.Succeeded, fin.Failed, fin.ElapsedMS, fin.ErrText)
	return perr.FromPostgres(err, "finish run")
}

// InsertFailures records the per-identifier failure report for a run
func (r *queries) InsertFailures(ctx context.Context, runID string, fails []domain.Failure) error {
	for _, f := range fails {
		_, err := r.q.Exec(ctx, `
			INSERT INTO fetch_run_failures (run_id, object_id, kind)
			VALUES ($1, $2, $3)
			ON CONFLICT DO NOTHING
		`, runID, f.ObjectID, string(f.Kind))
		if err != nil {
			return perr.FromPostgresf(err, "insert failure for %s", f.ObjectID)
		}
	}
	return nil
}

// UpsertObjects persists metadata rows keyed by identifier
func (r *queries) UpsertObjects(ctx context.Context, metas []frames.Metadata) error {
	const upsertSQL = `
		INSERT INTO objects (
			object_id, ztf_object_id, num_mag_values, num_alerts,
			brightest_alert_magnitude, brightest_alert_observation_time,
			newest_alert_magnitude, newest_alert_observation_time,
			oldest_alert_magnitude, oldest_alert_observation_time,
			survey, ra, dec, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, now())
		ON CONFLICT (object_id) DO UPDATE SET
			ztf_object_id = EXCLUDED.ztf_object_id,
			num_mag_values = EXCLUDED.num_mag_values,
			num_alerts = EXCLUDED.num_alerts,
			brightest_alert_magnitude = EXCLUDED.brightest_alert_magnitude,
			brightest_alert_observation_time = EXCLUDED.brightest_alert_observation_time,
			newest_alert_magnitude = EXCLUDED.newest_alert_magnitude,
			newest_alert_observation_time = EXCLUDED.newest_alert_observation_time,
			oldest_alert_magnitude = EXCLUDED.oldest_alert_magnitude,
			oldest_alert_observation_time = EXCLUDED.oldest_alert_observation_time,
			survey = EXCLUDED.survey,
			ra = EXCLUDED.ra,
			dec = EXCLUDED.dec,
			updated_at = now()
	`
	for _, m := range metas {
		_, err := r.q.Exec(ctx, upsertSQL,
			m.ObjectID, m.ZTFObjectID, m.NumMagValues, m.NumAlerts,
			m.BrightestAlertMagnitude, m.BrightestAlertObservationTime,
			m.NewestAlertMagnitude, m.NewestAlertObservationTime,
			m.OldestAlertMagnitude, m.OldestAlertObservationTime,
			m.Survey, m.RA, m.Dec,
		)
		if err != nil {
			return perr.FromPostgresf(err, "upsert object %s", m.ObjectID)
		}
	}
	return nil
}

// InsertPoints persists flat lightcurve rows, deduping on the natural key
func (r *queries) InsertPoints(ctx context.Context, points []frames.Point) (int, error) {
	const insertSQL = `
		INSERT INTO photometry (object_id, obs_time, non_detection, band, magnitude, magnitude_error)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (object_id, obs_time, band) DO NOTHING
	`
	inserted := 0
	for _, p := range points {
		tag, err := r.q.Exec(ctx, insertSQL,
			p.ObjectID, p.Time, p.NonDetection, p.Band, p.Magnitude, p.MagnitudeError,
		)
		if err != nil {
			return inserted, perr.FromPostgresf(err, "insert point %s@%f", p.ObjectID, p.Time)
		}
		if tag.RowsAffected() > 0 {
			inserted++
		}
	}
	return inserted, nil
}

// GetRun reads back one recorded run
func (r *queries) GetRun(ctx context.Context, runID string) (domain.Run, error) {
	var run domain.Run
	err := r.q.QueryRow(ctx, `
		SELECT run_id, status, requested, COALESCE(succeeded, 0), COALESCE(failed, 0),
		       COALESCE(elapsed_ms, 0), COALESCE(error, ''), started_at, finished_at
		FROM fetch_runs WHERE run_id = $1
	`, runID).Scan(
		&run.RunID, &run.Status, &run.Requested, &run.Succeeded, &run.Failed,
		&run.ElapsedMS, &run.ErrText, &run.StartedAt, &run.FinishedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Run{}, perr.NotFoundf("run %s", runID)
		}
		return domain.Run{}, perr.FromPostgresf(err, "get run %s", runID)
	}
	return run, nil
}
