package gps

import (
	"context"
	"strconv"
	"time"

	"github.com/fieldworks/fleet-tracking/internal/domain/models"
	"github.com/fieldworks/fleet-tracking/internal/domain/types"
	"github.com/fieldworks/fleet-tracking/pkg/logger"
	wrap "github.com/fieldworks/fleet-tracking/pkg/logger/wrapper"
	"github.com/fieldworks/fleet-tracking/pkg/metrics"
	"github.com/google/uuid"
)

const recentFixesLimit = 100

type Service struct {
	gps       GPSRepository
	jobs      JobRepository
	publisher LocationPublisher // nil when RabbitMQ is not configured
	cache     LocationCache     // nil when Redis is not configured
	l         logger.Logger
}

func New(gps GPSRepository, jobs JobRepository, publisher LocationPublisher, cache LocationCache, l logger.Logger) *Service {
	return &Service{
		gps:       gps,
		jobs:      jobs,
		publisher: publisher,
		cache:     cache,
		l:         l,
	}
}

// Ingest validates and stores one device fix for the calling user, applies
// arrival/departure side effects to the referenced job, then fans the fix out
// to the live feed and the latest-location cache. The fan-out is best-effort:
// a broker or cache failure is logged, never surfaced to the device.
func (s *Service) Ingest(ctx context.Context, caller *models.User, in models.GPSFixCreate) (*models.GPSFix, error) {
	ctx = wrap.WithAction(ctx, "gps_ingest")

	if in.Latitude < -90 || in.Latitude > 90 || in.Longitude < -180 || in.Longitude > 180 {
		return nil, types.ErrCoordinatesOutOfRange
	}

	if in.EventType == "" {
		in.EventType = types.EventAuto
	}
	if !in.EventType.Valid() {
		return nil, types.ErrInvalidEventType
	}

	if in.JobID != nil {
		ok, err := s.jobs.ExistsInAccount(ctx, *in.JobID, caller.AccountID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, types.ErrJobNotFound
		}
	}

	fix := &models.GPSFix{
		AccountID: caller.AccountID,
		UserID:    caller.ID,
		JobID:     in.JobID,
		Latitude:  strconv.FormatFloat(in.Latitude, 'f', -1, 64),
		Longitude: strconv.FormatFloat(in.Longitude, 'f', -1, 64),
		EventType: in.EventType,
		Metadata:  in.Metadata,
	}
	if in.Accuracy > 0 {
		fix.Accuracy = strconv.FormatFloat(in.Accuracy, 'f', -1, 64)
	}

	if err := s.gps.Insert(ctx, fix); err != nil {
		return nil, err
	}

	if in.JobID != nil {
		if err := s.applyJobTransition(ctx, *in.JobID, in); err != nil {
			return nil, err
		}
	}

	metrics.GPSFixesIngested.WithLabelValues("fleet-tracking", string(in.EventType)).Inc()

	s.fanOut(ctx, caller, fix, in)

	return fix, nil
}

// applyJobTransition records arrival and departure positions on the job.
func (s *Service) applyJobTransition(ctx context.Context, jobID uuid.UUID, in models.GPSFixCreate) error {
	switch in.EventType {
	case types.EventArrival:
		return s.jobs.SetArrival(ctx, jobID, in.Latitude, in.Longitude)
	case types.EventDeparture:
		return s.jobs.SetDeparture(ctx, jobID, in.Latitude, in.Longitude)
	default:
		return nil
	}
}

func (s *Service) fanOut(ctx context.Context, caller *models.User, fix *models.GPSFix, in models.GPSFixCreate) {
	if s.publisher != nil {
		update := models.LiveLocationUpdate{
			UserID:    caller.ID,
			UserName:  caller.FullName,
			Latitude:  in.Latitude,
			Longitude: in.Longitude,
			Accuracy:  in.Accuracy,
			EventType: in.EventType,
			JobID:     in.JobID,
			Timestamp: fix.CreatedAt,
		}
		if err := s.publisher.PublishLocation(ctx, update); err != nil {
			metrics.LocationUpdatesPublished.WithLabelValues("fleet-tracking", "error").Inc()
			s.l.Warn(ctx, "live location publish failed", "error", err.Error())
		} else {
			metrics.LocationUpdatesPublished.WithLabelValues("fleet-tracking", "ok").Inc()
		}
	}

	if s.cache != nil {
		loc := models.LastLocation{
			Lat:       in.Latitude,
			Lng:       in.Longitude,
			Accuracy:  in.Accuracy,
			UpdatedAt: fix.CreatedAt,
		}
		if loc.UpdatedAt.IsZero() {
			loc.UpdatedAt = time.Now()
		}
		if err := s.cache.Set(ctx, caller.ID, loc); err != nil {
			ctx = wrap.WithAction(ctx, types.ActionCacheRefreshFailed)
			s.l.Warn(ctx, "latest location cache update failed", "error", err.Error())
		}
	}
}

// Recent returns the account's newest fixes, optionally filtered by user
// and job.
func (s *Service) Recent(ctx context.Context, caller *models.User, userID, jobID *uuid.UUID) ([]models.GPSFix, error) {
	ctx = wrap.WithAction(ctx, "gps_recent")
	return s.gps.RecentByAccount(ctx, caller.AccountID, userID, jobID, recentFixesLimit)
}
