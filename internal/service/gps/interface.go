package gps

import (
	"context"

	"github.com/fieldworks/fleet-tracking/internal/domain/models"
	"github.com/google/uuid"
)

type GPSRepository interface {
	Insert(ctx context.Context, fix *models.GPSFix) error
	RecentByAccount(ctx context.Context, accountID uuid.UUID, userID, jobID *uuid.UUID, limit int) ([]models.GPSFix, error)
}

type JobRepository interface {
	ExistsInAccount(ctx context.Context, jobID, accountID uuid.UUID) (bool, error)
	SetArrival(ctx context.Context, jobID uuid.UUID, lat, lng float64) error
	SetDeparture(ctx context.Context, jobID uuid.UUID, lat, lng float64) error
}

// LocationPublisher fans freshly ingested fixes out to dispatch consoles.
type LocationPublisher interface {
	PublishLocation(ctx context.Context, msg models.LiveLocationUpdate) error
}

// LocationCache holds each tech's most recent position.
type LocationCache interface {
	Set(ctx context.Context, userID uuid.UUID, loc models.LastLocation) error
}
