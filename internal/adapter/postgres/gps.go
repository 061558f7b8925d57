package postgres

import (
	"context"
	"encoding/json"
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

type GPSRepo struct {
	db *pgxpool.Pool
}

func NewGPSRepo(db *pgxpool.Pool) *GPSRepo {
	return &GPSRepo{db: db}
}

// fixColumns selects coordinates as text so excess stored precision survives
// the round trip; parsing to float64 happens at the point of use.
const fixColumns = `
	id, account_id, user_id, job_id,
	latitude::text, longitude::text, COALESCE(accuracy::text, ''),
	event_type, COALESCE(metadata, '{}'::jsonb), created_at`

// Insert appends a fix. Fixes are immutable once written.
func (r *GPSRepo) Insert(ctx context.Context, fix *models.GPSFix) error {
	const op = "GPSRepo.Insert"

	if fix == nil {
		return errors.New("nil fix")
	}

	metadataJSON, err := json.Marshal(fix.Metadata)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	const q = `
		INSERT INTO gps_logs (account_id, user_id, job_id, latitude, longitude, accuracy, event_type, metadata)
		VALUES ($1, $2, $3, $4::numeric, $5::numeric, NULLIF($6, '')::numeric, $7, $8::jsonb)
		RETURNING id, created_at;`

	err = TxorDB(ctx, r.db).QueryRow(ctx, q,
		fix.AccountID,
		fix.UserID,
		fix.JobID,
		fix.Latitude,
		fix.Longitude,
		fix.Accuracy,
		fix.EventType,
		string(metadataJSON),
	).Scan(&fix.ID, &fix.CreatedAt)
	if err != nil {
		ctx = wrap.WithAction(ctx, types.ActionDatabaseQueryFailed)
		return wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}

	return nil
}

// ListRange returns fixes for the given users between start and end inclusive,
// ordered by created_at ascending. limit <= 0 means no limit.
func (r *GPSRepo) ListRange(ctx context.Context, userIDs []uuid.UUID, start, end time.Time, limit int) ([]models.GPSFix, error) {
	const op = "GPSRepo.ListRange"

	q := `
		SELECT ` + fixColumns + `
		FROM gps_logs
		WHERE user_id = ANY($1) AND created_at >= $2 AND created_at <= $3
		ORDER BY created_at ASC`
	args := []any{userIDs, start, end}

	if limit > 0 {
		q += ` LIMIT $4`
		args = append(args, limit)
	}

	rows, err := TxorDB(ctx, r.db).Query(ctx, q+";", args...)
	if err != nil {
		ctx = wrap.WithAction(ctx, types.ActionDatabaseQueryFailed)
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	defer rows.Close()

	return scanFixes(ctx, rows, op)
}

// ListUserRange returns one user's fixes between start and end inclusive,
// ordered ascending. Used for distance and active-hours aggregation.
func (r *GPSRepo) ListUserRange(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]models.GPSFix, error) {
	return r.ListRange(ctx, []uuid.UUID{userID}, start, end, 0)
}

// Latest returns the most recent fix for a user, or (nil, nil) when the user
// has never reported.
func (r *GPSRepo) Latest(ctx context.Context, userID uuid.UUID) (*models.GPSFix, error) {
	const op = "GPSRepo.Latest"

	const q = `
		SELECT ` + fixColumns + `
		FROM gps_logs
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 1;`

	rows, err := TxorDB(ctx, r.db).Query(ctx, q, userID)
	if err != nil {
		ctx = wrap.WithAction(ctx, types.ActionDatabaseQueryFailed)
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	defer rows.Close()

	fixes, err := scanFixes(ctx, rows, op)
	if err != nil {
		return nil, err
	}
	if len(fixes) == 0 {
		return nil, nil
	}
	return &fixes[0], nil
}

// RecentByUser returns a user's latest fixes, newest first, optionally
// filtered to one job.
func (r *GPSRepo) RecentByUser(ctx context.Context, userID uuid.UUID, jobID *uuid.UUID, limit int) ([]models.GPSFix, error) {
	const op = "GPSRepo.RecentByUser"

	q := `
		SELECT ` + fixColumns + `
		FROM gps_logs
		WHERE user_id = $1`
	args := []any{userID}

	if jobID != nil {
		q += ` AND job_id = $2`
		args = append(args, *jobID)
	}
	q += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d;`, len(args)+1)
	args = append(args, limit)

	rows, err := TxorDB(ctx, r.db).Query(ctx, q, args...)
	if err != nil {
		ctx = wrap.WithAction(ctx, types.ActionDatabaseQueryFailed)
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	defer rows.Close()

	return scanFixes(ctx, rows, op)
}

// RecentByAccount returns the account's latest fixes, newest first, with
// optional user and job filters. Capped by limit to bound response size.
func (r *GPSRepo) RecentByAccount(ctx context.Context, accountID uuid.UUID, userID, jobID *uuid.UUID, limit int) ([]models.GPSFix, error) {
	const op = "GPSRepo.RecentByAccount"

	q := `
		SELECT ` + fixColumns + `
		FROM gps_logs
		WHERE account_id = $1`
	args := []any{accountID}

	if userID != nil {
		args = append(args, *userID)
		q += fmt.Sprintf(` AND user_id = $%d`, len(args))
	}
	if jobID != nil {
		args = append(args, *jobID)
		q += fmt.Sprintf(` AND job_id = $%d`, len(args))
	}
	args = append(args, limit)
	q += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d;`, len(args))

	rows, err := TxorDB(ctx, r.db).Query(ctx, q, args...)
	if err != nil {
		ctx = wrap.WithAction(ctx, types.ActionDatabaseQueryFailed)
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	defer rows.Close()

	return scanFixes(ctx, rows, op)
}

func scanFixes(ctx context.Context, rows pgx.Rows, op string) ([]models.GPSFix, error) {
	var fixes []models.GPSFix
	for rows.Next() {
		var (
			f            models.GPSFix
			metadataJSON []byte
		)
		if err := rows.Scan(
			&f.ID,
			&f.AccountID,
			&f.UserID,
			&f.JobID,
			&f.Latitude,
			&f.Longitude,
			&f.Accuracy,
			&f.EventType,
			&metadataJSON,
			&f.CreatedAt,
		); err != nil {
			return nil, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
		}
		if len(metadataJSON) > 0 {
			if err := json.Unmarshal(metadataJSON, &f.Metadata); err != nil {
				return nil, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
			}
		}
		fixes = append(fixes, f)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	return fixes, nil
}
