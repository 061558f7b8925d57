package gps

import (
	"context"
	"errors"
	"testing"

	"github.com/fieldworks/fleet-tracking/internal/domain/models"
	"github.com/fieldworks/fleet-tracking/internal/domain/types"
	"github.com/fieldworks/fleet-tracking/pkg/logger"
	"github.com/google/uuid"
)

type fakeGPSRepo struct {
	inserted []models.GPSFix
}

func (f *fakeGPSRepo) Insert(_ context.Context, fix *models.GPSFix) error {
	fix.ID = uuid.New()
	f.inserted = append(f.inserted, *fix)
	return nil
}

func (f *fakeGPSRepo) RecentByAccount(_ context.Context, accountID uuid.UUID, userID, jobID *uuid.UUID, limit int) ([]models.GPSFix, error) {
	var out []models.GPSFix
	for i := len(f.inserted) - 1; i >= 0; i-- {
		fix := f.inserted[i]
		if fix.AccountID != accountID {
			continue
		}
		if userID != nil && fix.UserID != *userID {
			continue
		}
		if jobID != nil && (fix.JobID == nil || *fix.JobID != *jobID) {
			continue
		}
		out = append(out, fix)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

type fakeJobRepo struct {
	known      map[uuid.UUID]uuid.UUID // job id -> account id
	arrivals   []uuid.UUID
	departures []uuid.UUID
}

func (f *fakeJobRepo) ExistsInAccount(_ context.Context, jobID, accountID uuid.UUID) (bool, error) {
	acc, ok := f.known[jobID]
	return ok && acc == accountID, nil
}

func (f *fakeJobRepo) SetArrival(_ context.Context, jobID uuid.UUID, lat, lng float64) error {
	f.arrivals = append(f.arrivals, jobID)
	return nil
}

func (f *fakeJobRepo) SetDeparture(_ context.Context, jobID uuid.UUID, lat, lng float64) error {
	f.departures = append(f.departures, jobID)
	return nil
}

type fakePublisher struct {
	published []models.LiveLocationUpdate
	fail      bool
}

func (f *fakePublisher) PublishLocation(_ context.Context, msg models.LiveLocationUpdate) error {
	if f.fail {
		return errors.New("broker unavailable")
	}
	f.published = append(f.published, msg)
	return nil
}

type fakeCache struct {
	entries map[uuid.UUID]models.LastLocation
}

func (f *fakeCache) Set(_ context.Context, userID uuid.UUID, loc models.LastLocation) error {
	if f.entries == nil {
		f.entries = make(map[uuid.UUID]models.LastLocation)
	}
	f.entries[userID] = loc
	return nil
}

func fieldCaller(accountID uuid.UUID) *models.User {
	return &models.User{
		ID:        uuid.New(),
		AccountID: accountID,
		FullName:  "Terry Tech",
		Role:      types.TechRole,
	}
}

func newIngestService(gps *fakeGPSRepo, jobs *fakeJobRepo, pub *fakePublisher, cache *fakeCache) *Service {
	l := logger.InitLogger("gps-test", logger.LevelError)
	var p LocationPublisher
	if pub != nil {
		p = pub
	}
	var c LocationCache
	if cache != nil {
		c = cache
	}
	return New(gps, jobs, p, c, l)
}

func TestIngest_RejectsOutOfRangeCoordinates(t *testing.T) {
	svc := newIngestService(&fakeGPSRepo{}, &fakeJobRepo{}, nil, nil)
	caller := fieldCaller(uuid.New())

	tests := []struct {
		name     string
		lat, lng float64
	}{
		{"latitude too high", 91, 0},
		{"latitude too low", -91, 0},
		{"longitude too high", 0, 181},
		{"longitude too low", 0, -181},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Ingest(context.Background(), caller, models.GPSFixCreate{Latitude: tt.lat, Longitude: tt.lng})
			if !errors.Is(err, types.ErrCoordinatesOutOfRange) {
				t.Fatalf("expected ErrCoordinatesOutOfRange, got %v", err)
			}
		})
	}
}

func TestIngest_DefaultsEventTypeToAuto(t *testing.T) {
	repo := &fakeGPSRepo{}
	svc := newIngestService(repo, &fakeJobRepo{}, nil, nil)

	fix, err := svc.Ingest(context.Background(), fieldCaller(uuid.New()), models.GPSFixCreate{
		Latitude:  40.7128,
		Longitude: -74.0060,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fix.EventType != types.EventAuto {
		t.Fatalf("expected auto event type, got %s", fix.EventType)
	}
	if len(repo.inserted) != 1 {
		t.Fatalf("expected one insert, got %d", len(repo.inserted))
	}
}

func TestIngest_RejectsUnknownEventType(t *testing.T) {
	svc := newIngestService(&fakeGPSRepo{}, &fakeJobRepo{}, nil, nil)

	_, err := svc.Ingest(context.Background(), fieldCaller(uuid.New()), models.GPSFixCreate{
		Latitude:  40.0,
		Longitude: -74.0,
		EventType: "teleport",
	})
	if !errors.Is(err, types.ErrInvalidEventType) {
		t.Fatalf("expected ErrInvalidEventType, got %v", err)
	}
}

func TestIngest_RejectsForeignJob(t *testing.T) {
	accountID := uuid.New()
	foreignJob := uuid.New()
	jobs := &fakeJobRepo{known: map[uuid.UUID]uuid.UUID{foreignJob: uuid.New()}}
	svc := newIngestService(&fakeGPSRepo{}, jobs, nil, nil)

	_, err := svc.Ingest(context.Background(), fieldCaller(accountID), models.GPSFixCreate{
		JobID:     &foreignJob,
		Latitude:  40.0,
		Longitude: -74.0,
	})
	if !errors.Is(err, types.ErrJobNotFound) {
		t.Fatalf("expected ErrJobNotFound, got %v", err)
	}
}

func TestIngest_ArrivalAndDepartureTouchJob(t *testing.T) {
	accountID := uuid.New()
	jobID := uuid.New()
	jobs := &fakeJobRepo{known: map[uuid.UUID]uuid.UUID{jobID: accountID}}
	svc := newIngestService(&fakeGPSRepo{}, jobs, nil, nil)
	caller := fieldCaller(accountID)

	_, err := svc.Ingest(context.Background(), caller, models.GPSFixCreate{
		JobID: &jobID, Latitude: 40.0, Longitude: -74.0, EventType: types.EventArrival,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err = svc.Ingest(context.Background(), caller, models.GPSFixCreate{
		JobID: &jobID, Latitude: 40.0, Longitude: -74.0, EventType: types.EventDeparture,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(jobs.arrivals) != 1 || jobs.arrivals[0] != jobID {
		t.Fatalf("expected one arrival for %s, got %v", jobID, jobs.arrivals)
	}
	if len(jobs.departures) != 1 || jobs.departures[0] != jobID {
		t.Fatalf("expected one departure for %s, got %v", jobID, jobs.departures)
	}
}

func TestIngest_FansOutToFeedAndCache(t *testing.T) {
	accountID := uuid.New()
	pub := &fakePublisher{}
	cache := &fakeCache{}
	svc := newIngestService(&fakeGPSRepo{}, &fakeJobRepo{}, pub, cache)
	caller := fieldCaller(accountID)

	_, err := svc.Ingest(context.Background(), caller, models.GPSFixCreate{
		Latitude: 40.5, Longitude: -74.5, Accuracy: 8,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(pub.published) != 1 {
		t.Fatalf("expected one published update, got %d", len(pub.published))
	}
	if pub.published[0].UserName != caller.FullName {
		t.Fatalf("expected publisher to carry the caller's name, got %q", pub.published[0].UserName)
	}
	loc, ok := cache.entries[caller.ID]
	if !ok {
		t.Fatal("expected cache entry for caller")
	}
	if loc.Lat != 40.5 || loc.Lng != -74.5 {
		t.Fatalf("unexpected cached location %+v", loc)
	}
}

func TestIngest_PublishFailureIsNotFatal(t *testing.T) {
	repo := &fakeGPSRepo{}
	pub := &fakePublisher{fail: true}
	svc := newIngestService(repo, &fakeJobRepo{}, pub, nil)

	fix, err := svc.Ingest(context.Background(), fieldCaller(uuid.New()), models.GPSFixCreate{
		Latitude: 40.0, Longitude: -74.0,
	})
	if err != nil {
		t.Fatalf("publish failure must not fail ingestion: %v", err)
	}
	if fix == nil || len(repo.inserted) != 1 {
		t.Fatal("fix must still be stored when the broker is down")
	}
}

func TestRecent_ScopedToAccount(t *testing.T) {
	repo := &fakeGPSRepo{}
	svc := newIngestService(repo, &fakeJobRepo{}, nil, nil)

	callerA := fieldCaller(uuid.New())
	callerB := fieldCaller(uuid.New())

	for _, c := range []*models.User{callerA, callerB} {
		if _, err := svc.Ingest(context.Background(), c, models.GPSFixCreate{Latitude: 40, Longitude: -74}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	got, err := svc.Recent(context.Background(), callerA, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].AccountID != callerA.AccountID {
		t.Fatalf("recent fixes leaked across accounts: %+v", got)
	}
}
