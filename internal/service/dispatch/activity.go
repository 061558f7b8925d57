package dispatch

import (
	"context"
	"strconv"

	"github.com/fieldworks/fleet-tracking/internal/domain/models"
	"github.com/fieldworks/fleet-tracking/internal/domain/types"
	wrap "github.com/fieldworks/fleet-tracking/pkg/logger/wrapper"
	"github.com/google/uuid"
)

const (
	defaultActivityLimit = 20
	maxActivityLimit     = 100
)

// Activity returns a tech's most recent fixes, newest first, optionally
// filtered to one job. limit is clamped to [1, 100] with a default of 20.
func (s *Service) Activity(ctx context.Context, caller *models.User, techID uuid.UUID, jobID *uuid.UUID, limit int) ([]models.ActivityEntry, error) {
	ctx = wrap.WithAction(ctx, "tech_activity")
	ctx = wrap.WithTechID(ctx, techID.String())

	tech, err := s.users.GetByID(ctx, techID)
	if err != nil {
		return nil, err
	}
	if tech == nil {
		return nil, types.ErrTechNotFound
	}
	if tech.AccountID != caller.AccountID {
		return nil, types.ErrForeignAccount
	}

	if limit <= 0 {
		limit = defaultActivityLimit
	}
	if limit > maxActivityLimit {
		limit = maxActivityLimit
	}

	fixes, err := s.gps.RecentByUser(ctx, techID, jobID, limit)
	if err != nil {
		return nil, err
	}

	entries := make([]models.ActivityEntry, 0, len(fixes))
	for _, fix := range fixes {
		lat, errLat := strconv.ParseFloat(fix.Latitude, 64)
		lng, errLng := strconv.ParseFloat(fix.Longitude, 64)
		if errLat != nil || errLng != nil {
			s.l.Warn(ctx, "dropping fix with unparseable coordinates", "fix_id", fix.ID)
			continue
		}
		entries = append(entries, models.ActivityEntry{
			ID:        fix.ID,
			Latitude:  lat,
			Longitude: lng,
			Accuracy:  parseAccuracy(fix.Accuracy),
			Timestamp: fix.CreatedAt,
			EventType: fix.EventType,
			JobID:     fix.JobID,
			Metadata:  fix.Metadata,
		})
	}

	return entries, nil
}
