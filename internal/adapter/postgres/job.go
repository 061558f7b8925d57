package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fieldworks/fleet-tracking/internal/domain/models"
	"github.com/fieldworks/fleet-tracking/internal/domain/types"
	wrap "github.com/fieldworks/fleet-tracking/pkg/logger/wrapper"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type JobRepo struct {
	db *pgxpool.Pool
}

func NewJobRepo(db *pgxpool.Pool) *JobRepo {
	return &JobRepo{db: db}
}

// ListByTechCreatedBetween returns the jobs assigned to a tech whose creation
// time falls inside the range, inclusive on both ends.
func (r *JobRepo) ListByTechCreatedBetween(ctx context.Context, techID uuid.UUID, start, end time.Time) ([]models.Job, error) {
	const op = "JobRepo.ListByTechCreatedBetween"

	const q = `
		SELECT id, account_id, tech_assigned_id, status, COALESCE(description, ''), COALESCE(address, ''),
		       scheduled_start, scheduled_end, created_at
		FROM jobs
		WHERE tech_assigned_id = $1 AND created_at >= $2 AND created_at <= $3;`

	rows, err := TxorDB(ctx, r.db).Query(ctx, q, techID, start, end)
	if err != nil {
		ctx = wrap.WithAction(ctx, types.ActionDatabaseQueryFailed)
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	defer rows.Close()

	var jobs []models.Job
	for rows.Next() {
		var j models.Job
		if err := rows.Scan(
			&j.ID,
			&j.AccountID,
			&j.TechAssignedID,
			&j.Status,
			&j.Description,
			&j.Address,
			&j.ScheduledStart,
			&j.ScheduledEnd,
			&j.CreatedAt,
		); err != nil {
			return nil, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
		}
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}

	return jobs, nil
}

// ActiveByTech returns the tech's next active job (scheduled, en_route or
// in_progress, earliest scheduled start first), or (nil, nil) when idle.
func (r *JobRepo) ActiveByTech(ctx context.Context, techID uuid.UUID) (*models.Job, error) {
	const op = "JobRepo.ActiveByTech"

	const q = `
		SELECT id, account_id, tech_assigned_id, status, COALESCE(description, ''), COALESCE(address, ''),
		       scheduled_start, scheduled_end, created_at
		FROM jobs
		WHERE tech_assigned_id = $1 AND status = ANY($2)
		ORDER BY scheduled_start ASC NULLS LAST
		LIMIT 1;`

	activeStatuses := []string{
		string(types.JobScheduled),
		string(types.JobEnRoute),
		string(types.JobInProgress),
	}

	var j models.Job
	err := TxorDB(ctx, r.db).QueryRow(ctx, q, techID, activeStatuses).Scan(
		&j.ID,
		&j.AccountID,
		&j.TechAssignedID,
		&j.Status,
		&j.Description,
		&j.Address,
		&j.ScheduledStart,
		&j.ScheduledEnd,
		&j.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		ctx = wrap.WithAction(ctx, types.ActionDatabaseQueryFailed)
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}

	return &j, nil
}

// ExistsInAccount reports whether the job exists and belongs to the account.
func (r *JobRepo) ExistsInAccount(ctx context.Context, jobID, accountID uuid.UUID) (bool, error) {
	const op = "JobRepo.ExistsInAccount"

	const q = `SELECT EXISTS (SELECT 1 FROM jobs WHERE id = $1 AND account_id = $2);`

	var exists bool
	if err := TxorDB(ctx, r.db).QueryRow(ctx, q, jobID, accountID).Scan(&exists); err != nil {
		ctx = wrap.WithAction(ctx, types.ActionDatabaseQueryFailed)
		return false, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	return exists, nil
}

// SetArrival records the tech's arrival position and moves the job to
// in_progress.
func (r *JobRepo) SetArrival(ctx context.Context, jobID uuid.UUID, lat, lng float64) error {
	const op = "JobRepo.SetArrival"

	const q = `
		UPDATE jobs
		SET start_location_lat = $2, start_location_lng = $3, status = $4
		WHERE id = $1;`

	if _, err := TxorDB(ctx, r.db).Exec(ctx, q, jobID, lat, lng, string(types.JobInProgress)); err != nil {
		ctx = wrap.WithAction(ctx, types.ActionDatabaseQueryFailed)
		return wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	return nil
}

// SetDeparture records the position where the tech left the job site.
func (r *JobRepo) SetDeparture(ctx context.Context, jobID uuid.UUID, lat, lng float64) error {
	const op = "JobRepo.SetDeparture"

	const q = `
		UPDATE jobs
		SET complete_location_lat = $2, complete_location_lng = $3
		WHERE id = $1;`

	if _, err := TxorDB(ctx, r.db).Exec(ctx, q, jobID, lat, lng); err != nil {
		ctx = wrap.WithAction(ctx, types.ActionDatabaseQueryFailed)
		return wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	return nil
}
