package dispatch

import (
	"context"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/fieldworks/fleet-tracking/internal/domain/models"
	"github.com/fieldworks/fleet-tracking/internal/domain/types"
	"github.com/fieldworks/fleet-tracking/internal/service/track"
	"github.com/fieldworks/fleet-tracking/pkg/logger"
	wrap "github.com/fieldworks/fleet-tracking/pkg/logger/wrapper"
	"github.com/fieldworks/fleet-tracking/pkg/metrics"
	"github.com/google/uuid"
)

const (
	// DefaultIntervalMinutes is the downsampling bucket size when the caller
	// does not specify one.
	DefaultIntervalMinutes = 5

	// downsampleMinSpan: windows at or below this span return full fidelity.
	downsampleMinSpan = time.Hour

	// maxPlaybackRows bounds response size on the full-fidelity path.
	maxPlaybackRows = 10_000

	// maxPlaybackSpan is a hard resource-protection bound on the window.
	maxPlaybackSpan = 7 * 24 * time.Hour
)

type Service struct {
	users UserRepository
	gps   GPSRepository
	jobs  JobRepository
	cache LocationCache // nil when Redis is not configured
	l     logger.Logger
}

func New(users UserRepository, gps GPSRepository, jobs JobRepository, cache LocationCache, l logger.Logger) *Service {
	return &Service{
		users: users,
		gps:   gps,
		jobs:  jobs,
		cache: cache,
		l:     l,
	}
}

// HistoricalPlayback resolves the caller's authorized technician set, fetches
// their fixes in the window, optionally downsamples, and returns points
// globally sorted by timestamp. Role gating happens before this is called;
// the tech-id filter is intersected with the account roster here so foreign
// ids can never leak data.
func (s *Service) HistoricalPlayback(ctx context.Context, caller *models.User, q models.PlaybackQuery) (*models.PlaybackResult, error) {
	ctx = wrap.WithAction(ctx, "historical_playback")

	if q.Start.IsZero() || q.End.IsZero() {
		return nil, types.ErrMissingTimeRange
	}
	if !q.Start.Before(q.End) {
		return nil, types.ErrInvalidTimeRange
	}
	if q.End.Sub(q.Start) > maxPlaybackSpan {
		return nil, types.ErrTimeRangeTooLarge
	}

	if q.IntervalMinutes <= 0 {
		q.IntervalMinutes = DefaultIntervalMinutes
	}

	techs, err := s.users.ListFieldUsers(ctx, caller.AccountID, q.UserIDs)
	if err != nil {
		return nil, err
	}

	if len(techs) == 0 {
		return &models.PlaybackResult{
			Logs: []models.TrackPoint{},
			Meta: models.PlaybackMeta{Count: 0, Downsampled: false, TechsCount: 0},
		}, nil
	}

	techIDs := make([]uuid.UUID, len(techs))
	techNames := make([]string, len(techs))
	nameByID := make(map[uuid.UUID]string, len(techs))
	for i, t := range techs {
		techIDs[i] = t.ID
		techNames[i] = t.FullName
		nameByID[t.ID] = t.FullName
	}

	durationHours := q.End.Sub(q.Start).Hours()
	shouldDownsample := q.Downsample && q.End.Sub(q.Start) > downsampleMinSpan

	limit := maxPlaybackRows
	if shouldDownsample {
		// The downsampler bounds output size itself; fetch the full window.
		limit = 0
	}

	fixes, err := s.gps.ListRange(ctx, techIDs, q.Start, q.End, limit)
	if err != nil {
		return nil, err
	}

	if shouldDownsample {
		fixes = track.Downsample(fixes, q.Start, time.Duration(q.IntervalMinutes)*time.Minute)
	}

	logs := make([]models.TrackPoint, 0, len(fixes))
	for _, fix := range fixes {
		point, ok := s.toTrackPoint(ctx, fix, nameByID)
		if !ok {
			continue
		}
		logs = append(logs, point)
	}

	// Global sort regardless of per-tech fetch order or bucket assignment.
	sort.SliceStable(logs, func(i, j int) bool {
		return logs[i].Timestamp.Before(logs[j].Timestamp)
	})

	metrics.PlaybackPointsReturned.
		WithLabelValues("fleet-tracking", strconv.FormatBool(shouldDownsample)).
		Observe(float64(len(logs)))

	meta := models.PlaybackMeta{
		Count:       len(logs),
		Downsampled: shouldDownsample,
		TimeRange: &models.TimeRange{
			Start:         q.Start,
			End:           q.End,
			DurationHours: math.Round(durationHours*10) / 10,
		},
		TechsCount: len(techs),
		TechNames:  techNames,
	}
	if shouldDownsample {
		interval := q.IntervalMinutes
		meta.DownsampleInterval = &interval
	}

	return &models.PlaybackResult{Logs: logs, Meta: meta}, nil
}

// toTrackPoint parses the stored coordinate strings. A fix whose coordinates
// do not parse is dropped from the track rather than failing the request.
func (s *Service) toTrackPoint(ctx context.Context, fix models.GPSFix, nameByID map[uuid.UUID]string) (models.TrackPoint, bool) {
	lat, errLat := strconv.ParseFloat(fix.Latitude, 64)
	lng, errLng := strconv.ParseFloat(fix.Longitude, 64)
	if errLat != nil || errLng != nil {
		s.l.Warn(ctx, "dropping fix with unparseable coordinates", "fix_id", fix.ID)
		return models.TrackPoint{}, false
	}

	name, ok := nameByID[fix.UserID]
	if !ok || name == "" {
		name = "Unknown"
	}

	return models.TrackPoint{
		UserID:    fix.UserID,
		UserName:  name,
		Latitude:  lat,
		Longitude: lng,
		Accuracy:  parseAccuracy(fix.Accuracy),
		Timestamp: fix.CreatedAt,
		EventType: fix.EventType,
		JobID:     fix.JobID,
	}, true
}

// parseAccuracy defaults to 0 when the device did not report accuracy.
func parseAccuracy(s string) float64 {
	if s == "" {
		return 0
	}
	acc, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return acc
}
