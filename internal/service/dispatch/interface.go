package dispatch

import (
	"context"
	"time"

	"github.com/fieldworks/fleet-tracking/internal/domain/models"
	"github.com/google/uuid"
)

type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	ListFieldUsers(ctx context.Context, accountID uuid.UUID, filterIDs []uuid.UUID) ([]models.User, error)
}

type GPSRepository interface {
	ListRange(ctx context.Context, userIDs []uuid.UUID, start, end time.Time, limit int) ([]models.GPSFix, error)
	ListUserRange(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]models.GPSFix, error)
	Latest(ctx context.Context, userID uuid.UUID) (*models.GPSFix, error)
	RecentByUser(ctx context.Context, userID uuid.UUID, jobID *uuid.UUID, limit int) ([]models.GPSFix, error)
}

type JobRepository interface {
	ListByTechCreatedBetween(ctx context.Context, techID uuid.UUID, start, end time.Time) ([]models.Job, error)
	ActiveByTech(ctx context.Context, techID uuid.UUID) (*models.Job, error)
}

// LocationCache is the optional latest-position cache backing the roster.
type LocationCache interface {
	Get(ctx context.Context, userID uuid.UUID) (*models.LastLocation, error)
	Set(ctx context.Context, userID uuid.UUID, loc models.LastLocation) error
}
