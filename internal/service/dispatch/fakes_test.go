package dispatch

import (
	"context"
	"time"

	"github.com/fieldworks/fleet-tracking/internal/domain/models"
	"github.com/google/uuid"
)

type fakeUserRepo struct {
	users []models.User
}

func (f *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	for i := range f.users {
		if f.users[i].ID == id {
			u := f.users[i]
			return &u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) ListFieldUsers(_ context.Context, accountID uuid.UUID, filterIDs []uuid.UUID) ([]models.User, error) {
	var out []models.User
	for _, u := range f.users {
		if u.AccountID != accountID {
			continue
		}
		if len(filterIDs) > 0 && !containsID(filterIDs, u.ID) {
			continue
		}
		out = append(out, u)
	}
	return out, nil
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

type fakeGPSRepo struct {
	fixes []models.GPSFix

	lastLimit int // limit passed to the most recent ListRange call
}

func (f *fakeGPSRepo) ListRange(_ context.Context, userIDs []uuid.UUID, start, end time.Time, limit int) ([]models.GPSFix, error) {
	f.lastLimit = limit

	var out []models.GPSFix
	for _, fix := range f.fixes {
		if !containsID(userIDs, fix.UserID) {
			continue
		}
		if fix.CreatedAt.Before(start) || fix.CreatedAt.After(end) {
			continue
		}
		out = append(out, fix)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeGPSRepo) ListUserRange(_ context.Context, userID uuid.UUID, start, end time.Time) ([]models.GPSFix, error) {
	return f.ListRange(context.Background(), []uuid.UUID{userID}, start, end, 0)
}

func (f *fakeGPSRepo) Latest(_ context.Context, userID uuid.UUID) (*models.GPSFix, error) {
	var latest *models.GPSFix
	for i := range f.fixes {
		if f.fixes[i].UserID != userID {
			continue
		}
		if latest == nil || f.fixes[i].CreatedAt.After(latest.CreatedAt) {
			latest = &f.fixes[i]
		}
	}
	if latest == nil {
		return nil, nil
	}
	fix := *latest
	return &fix, nil
}

func (f *fakeGPSRepo) RecentByUser(_ context.Context, userID uuid.UUID, jobID *uuid.UUID, limit int) ([]models.GPSFix, error) {
	var out []models.GPSFix
	for i := len(f.fixes) - 1; i >= 0; i-- {
		fix := f.fixes[i]
		if fix.UserID != userID {
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
	jobs []models.Job
}

func (f *fakeJobRepo) ListByTechCreatedBetween(_ context.Context, techID uuid.UUID, start, end time.Time) ([]models.Job, error) {
	var out []models.Job
	for _, j := range f.jobs {
		if j.TechAssignedID == nil || *j.TechAssignedID != techID {
			continue
		}
		if j.CreatedAt.Before(start) || j.CreatedAt.After(end) {
			continue
		}
		out = append(out, j)
	}
	return out, nil
}

func (f *fakeJobRepo) ActiveByTech(_ context.Context, techID uuid.UUID) (*models.Job, error) {
	for i := range f.jobs {
		j := f.jobs[i]
		if j.TechAssignedID == nil || *j.TechAssignedID != techID {
			continue
		}
		switch j.Status {
		case "scheduled", "en_route", "in_progress":
			job := j
			return &job, nil
		}
	}
	return nil, nil
}

type fakeLocationCache struct {
	entries map[uuid.UUID]models.LastLocation
	sets    int
}

func (f *fakeLocationCache) Get(_ context.Context, userID uuid.UUID) (*models.LastLocation, error) {
	if loc, ok := f.entries[userID]; ok {
		return &loc, nil
	}
	return nil, nil
}

func (f *fakeLocationCache) Set(_ context.Context, userID uuid.UUID, loc models.LastLocation) error {
	if f.entries == nil {
		f.entries = make(map[uuid.UUID]models.LastLocation)
	}
	f.entries[userID] = loc
	f.sets++
	return nil
}
