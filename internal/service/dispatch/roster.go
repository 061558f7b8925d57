package dispatch

import (
	"context"
	"strconv"
	"time"

	"github.com/fieldworks/fleet-tracking/internal/domain/models"
	"github.com/fieldworks/fleet-tracking/internal/domain/types"
	wrap "github.com/fieldworks/fleet-tracking/pkg/logger/wrapper"
	"github.com/google/uuid"
)

// idleWindow: a tech with a fix newer than this but no active job is idle,
// otherwise offline.
const idleWindow = 30 * time.Minute

// Roster returns every field user in the caller's account with their derived
// live status, active job and last known position. Positions come from the
// cache when available, falling back to the latest stored fix; a cache miss
// is backfilled so the next roster call is cheap.
func (s *Service) Roster(ctx context.Context, caller *models.User) ([]models.TechLocation, error) {
	ctx = wrap.WithAction(ctx, "dispatch_roster")

	techs, err := s.users.ListFieldUsers(ctx, caller.AccountID, nil)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	roster := make([]models.TechLocation, 0, len(techs))

	for _, tech := range techs {
		entry := models.TechLocation{
			ID:   tech.ID,
			Name: tech.FullName,
			Role: tech.Role,
		}

		job, err := s.jobs.ActiveByTech(ctx, tech.ID)
		if err != nil {
			return nil, err
		}
		if job != nil {
			entry.CurrentJob = &models.JobSummary{
				ID:          job.ID,
				Description: job.Description,
				Address:     job.Address,
			}
		}

		loc, err := s.lastLocation(ctx, tech.ID)
		if err != nil {
			return nil, err
		}
		entry.LastLocation = loc

		entry.Status = deriveStatus(job, loc, now)
		roster = append(roster, entry)
	}

	return roster, nil
}

// lastLocation reads through the cache to the latest stored fix.
func (s *Service) lastLocation(ctx context.Context, techID uuid.UUID) (*models.LastLocation, error) {
	if s.cache != nil {
		loc, err := s.cache.Get(ctx, techID)
		if err != nil {
			s.l.Warn(ctx, "location cache read failed, falling back to database", "error", err.Error())
		} else if loc != nil {
			return loc, nil
		}
	}

	fix, err := s.gps.Latest(ctx, techID)
	if err != nil {
		return nil, err
	}
	if fix == nil {
		return nil, nil
	}

	lat, errLat := strconv.ParseFloat(fix.Latitude, 64)
	lng, errLng := strconv.ParseFloat(fix.Longitude, 64)
	if errLat != nil || errLng != nil {
		return nil, nil
	}

	loc := &models.LastLocation{
		Lat:       lat,
		Lng:       lng,
		Accuracy:  parseAccuracy(fix.Accuracy),
		UpdatedAt: fix.CreatedAt,
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, techID, *loc); err != nil {
			ctx = wrap.WithAction(ctx, types.ActionCacheRefreshFailed)
			s.l.Warn(ctx, "location cache backfill failed", "error", err.Error())
		}
	}

	return loc, nil
}

// deriveStatus maps a tech's active job and last fix onto a roster status.
func deriveStatus(job *models.Job, loc *models.LastLocation, now time.Time) types.TechStatus {
	if job != nil {
		switch job.Status {
		case types.JobInProgress:
			return types.TechOnJob
		case types.JobEnRoute:
			return types.TechEnRoute
		}
	}
	if loc != nil && now.Sub(loc.UpdatedAt) <= idleWindow {
		return types.TechIdle
	}
	return types.TechOffline
}
