package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/fieldworks/fleet-tracking/internal/domain/models"
	"github.com/fieldworks/fleet-tracking/internal/domain/types"
	wrap "github.com/fieldworks/fleet-tracking/pkg/logger/wrapper"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepo struct {
	db *pgxpool.Pool
}

func NewUserRepo(db *pgxpool.Pool) *UserRepo {
	return &UserRepo{db: db}
}

// GetByEmail fetches by email (unique). Returns (nil, nil) when no such user.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if email == "" {
		return nil, errors.New("email is required")
	}

	const q = `
		SELECT id, account_id, full_name, email, role, password_hash, created_at, updated_at
		FROM users
		WHERE email = $1;`

	return r.scanUser(ctx, q, email)
}

// GetByID fetches a single user. Returns (nil, nil) when no such user.
func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	const q = `
		SELECT id, account_id, full_name, email, role, password_hash, created_at, updated_at
		FROM users
		WHERE id = $1;`

	return r.scanUser(ctx, q, id)
}

func (r *UserRepo) scanUser(ctx context.Context, q string, arg any) (*models.User, error) {
	const op = "UserRepo.scanUser"

	var (
		u    models.User
		hash string
	)
	err := TxorDB(ctx, r.db).QueryRow(ctx, q, arg).Scan(
		&u.ID,
		&u.AccountID,
		&u.FullName,
		&u.Email,
		&u.Role,
		&hash,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		ctx = wrap.WithAction(ctx, types.ActionDatabaseQueryFailed)
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}

	u.SetPasswordHash(hash)
	return &u, nil
}

// ListFieldUsers returns the account's technicians and sales reps. When
// filterIDs is non-empty the result is the intersection of the roster and the
// filter, so callers can never widen the query beyond their own account.
func (r *UserRepo) ListFieldUsers(ctx context.Context, accountID uuid.UUID, filterIDs []uuid.UUID) ([]models.User, error) {
	const op = "UserRepo.ListFieldUsers"

	q := `
		SELECT id, account_id, full_name, role
		FROM users
		WHERE account_id = $1 AND role = ANY($2)`
	args := []any{accountID, roleStrings(types.FieldRoles)}

	if len(filterIDs) > 0 {
		q += ` AND id = ANY($3)`
		args = append(args, filterIDs)
	}
	q += ` ORDER BY full_name;`

	rows, err := TxorDB(ctx, r.db).Query(ctx, q, args...)
	if err != nil {
		ctx = wrap.WithAction(ctx, types.ActionDatabaseQueryFailed)
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.AccountID, &u.FullName, &u.Role); err != nil {
			return nil, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}

	return users, nil
}

func roleStrings(roles []types.UserRole) []string {
	out := make([]string, len(roles))
	for i, r := range roles {
		out[i] = r.String()
	}
	return out
}
