package dispatch

import (
	"context"
	"math"
	"strconv"
	"time"

	"github.com/fieldworks/fleet-tracking/internal/domain/models"
	"github.com/fieldworks/fleet-tracking/internal/domain/types"
	"github.com/fieldworks/fleet-tracking/internal/service/track"
	wrap "github.com/fieldworks/fleet-tracking/pkg/logger/wrapper"
	"github.com/google/uuid"
)

const (
	// maxPlausibleJumpMeters: consecutive fixes farther apart than this are
	// treated as GPS glitches, not travel.
	maxPlausibleJumpMeters = 10_000.0

	// maxPlausibleJobMinutes: a completed job whose scheduled duration is not
	// strictly inside (0, 24h) is malformed scheduling data.
	maxPlausibleJobMinutes = 1440.0

	metersPerMile = 1609.34
)

// TechStats computes a technician's performance aggregates for the requested
// date range. Nothing is persisted; every call recomputes from jobs and fixes.
// dateStr (YYYY-MM-DD) and rangeStr (today|week|month) are mutually optional;
// an explicit date wins over a named range.
func (s *Service) TechStats(ctx context.Context, caller *models.User, techID uuid.UUID, dateStr, rangeStr string) (*models.TechStatsResult, error) {
	ctx = wrap.WithAction(ctx, "tech_stats")
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

	start, end, err := resolveDateRange(dateStr, rangeStr, time.Now())
	if err != nil {
		return nil, err
	}

	jobs, err := s.jobs.ListByTechCreatedBetween(ctx, techID, start, end)
	if err != nil {
		return nil, err
	}

	fixes, err := s.gps.ListUserRange(ctx, techID, start, end)
	if err != nil {
		return nil, err
	}

	stats := models.TechDailyStats{}
	excludedJobs := 0

	var durationSumMinutes float64
	var durationCount int

	for _, j := range jobs {
		switch j.Status {
		case types.JobCompleted:
			stats.JobsCompletedToday++
			if j.ScheduledStart == nil || j.ScheduledEnd == nil {
				continue
			}
			minutes := j.ScheduledEnd.Sub(*j.ScheduledStart).Minutes()
			if minutes <= 0 || minutes >= maxPlausibleJobMinutes {
				excludedJobs++
				continue
			}
			durationSumMinutes += minutes
			durationCount++
		case types.JobInProgress:
			stats.JobsInProgress++
		case types.JobScheduled:
			stats.JobsScheduled++
		}
	}

	if durationCount > 0 {
		stats.AverageJobTimeMinutes = int(math.Round(durationSumMinutes / float64(durationCount)))
	}

	distanceMeters, excludedSegments := sumTrackDistance(fixes)
	stats.TotalDistanceTraveledMiles = round1(distanceMeters / metersPerMile)

	if len(fixes) > 0 {
		span := fixes[len(fixes)-1].CreatedAt.Sub(fixes[0].CreatedAt)
		stats.HoursWorkedToday = round1(span.Hours())
	}

	totalJobs := len(jobs)
	if totalJobs > 0 {
		stats.Efficiency = int(math.Round(float64(stats.JobsCompletedToday) / float64(totalJobs) * 100))
	}

	return &models.TechStatsResult{
		Stats: stats,
		Meta: models.StatsMeta{
			TechID:                  techID,
			TechName:                tech.FullName,
			DateRange:               models.DateRange{Start: start, End: end},
			GPSLogsCount:            len(fixes),
			ExcludedOutlierJobs:     excludedJobs,
			ExcludedOutlierSegments: excludedSegments,
		},
	}, nil
}

// sumTrackDistance adds up consecutive-pair distances over a chronologically
// ordered track, dropping implausible jumps. Pairs with unparseable
// coordinates are skipped without breaking the chain anchor.
func sumTrackDistance(fixes []models.GPSFix) (meters float64, excluded int) {
	var prevLat, prevLng float64
	havePrev := false

	for _, fix := range fixes {
		lat, errLat := strconv.ParseFloat(fix.Latitude, 64)
		lng, errLng := strconv.ParseFloat(fix.Longitude, 64)
		if errLat != nil || errLng != nil {
			continue
		}
		if havePrev {
			d := track.Distance(prevLat, prevLng, lat, lng)
			if d > maxPlausibleJumpMeters {
				excluded++
			} else {
				meters += d
			}
		}
		prevLat, prevLng = lat, lng
		havePrev = true
	}

	return meters, excluded
}

// resolveDateRange turns the date/range parameters into [start, end].
// Explicit date: that calendar day, server-local. week: rolling 7x24h ending
// now. month: first of the current month through now. Default: today.
func resolveDateRange(dateStr, rangeStr string, now time.Time) (time.Time, time.Time, error) {
	if dateStr != "" {
		day, err := time.ParseInLocation("2006-01-02", dateStr, now.Location())
		if err != nil {
			return time.Time{}, time.Time{}, types.ErrInvalidDate
		}
		// Calendar end, not start+24h, so DST-transition days still close
		// at 23:59:59 local.
		end := time.Date(day.Year(), day.Month(), day.Day(), 23, 59, 59, 0, day.Location())
		return day, end, nil
	}

	r := types.StatsRange(rangeStr)
	if rangeStr == "" {
		r = types.RangeToday
	}
	if !r.Valid() {
		return time.Time{}, time.Time{}, types.ErrInvalidStatsRange
	}

	switch r {
	case types.RangeWeek:
		return now.Add(-7 * 24 * time.Hour), now, nil
	case types.RangeMonth:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return start, now, nil
	default:
		start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		end := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, now.Location())
		return start, end, nil
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
