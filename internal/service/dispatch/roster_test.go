package dispatch

import (
	"context"
	"testing"
	"time"

	"github.com/fieldworks/fleet-tracking/internal/domain/models"
	"github.com/fieldworks/fleet-tracking/internal/domain/types"
	"github.com/google/uuid"
)

func TestRoster_DerivesStatuses(t *testing.T) {
	accountID := uuid.New()
	onJob := uuid.New()
	enRoute := uuid.New()
	idle := uuid.New()
	offline := uuid.New()
	now := time.Now()

	users := &fakeUserRepo{users: []models.User{
		{ID: onJob, AccountID: accountID, FullName: "Olivia", Role: types.TechRole},
		{ID: enRoute, AccountID: accountID, FullName: "Evan", Role: types.TechRole},
		{ID: idle, AccountID: accountID, FullName: "Ivy", Role: types.TechRole},
		{ID: offline, AccountID: accountID, FullName: "Oscar", Role: types.TechRole},
	}}
	jobs := &fakeJobRepo{jobs: []models.Job{
		{ID: uuid.New(), TechAssignedID: &onJob, Status: types.JobInProgress, Description: "Boiler swap", Address: "12 Elm St"},
		{ID: uuid.New(), TechAssignedID: &enRoute, Status: types.JobEnRoute, Description: "AC repair"},
	}}
	gps := &fakeGPSRepo{fixes: []models.GPSFix{
		statsFix(idle, now.Add(-10*time.Minute), 40.0, -74.0),
		statsFix(offline, now.Add(-2*time.Hour), 40.0, -74.0),
	}}

	svc := newTestService(users, gps, jobs, nil)

	roster, err := svc.Roster(context.Background(), testCaller(accountID))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(roster) != 4 {
		t.Fatalf("expected 4 roster entries, got %d", len(roster))
	}

	statusByID := make(map[uuid.UUID]types.TechStatus, len(roster))
	for _, entry := range roster {
		statusByID[entry.ID] = entry.Status
	}

	want := map[uuid.UUID]types.TechStatus{
		onJob:   types.TechOnJob,
		enRoute: types.TechEnRoute,
		idle:    types.TechIdle,
		offline: types.TechOffline,
	}
	for id, status := range want {
		if statusByID[id] != status {
			t.Fatalf("tech %s: expected status %s, got %s", id, status, statusByID[id])
		}
	}

	for _, entry := range roster {
		if entry.ID == onJob {
			if entry.CurrentJob == nil || entry.CurrentJob.Description != "Boiler swap" {
				t.Fatalf("expected active job on roster entry, got %+v", entry.CurrentJob)
			}
		}
		if entry.ID == offline && entry.LastLocation == nil {
			t.Fatal("stale fix should still surface as last location")
		}
	}
}

func TestRoster_BackfillsCache(t *testing.T) {
	accountID := uuid.New()
	techID := uuid.New()
	now := time.Now()

	users := &fakeUserRepo{users: []models.User{
		{ID: techID, AccountID: accountID, FullName: "Terry Tech", Role: types.TechRole},
	}}
	gps := &fakeGPSRepo{fixes: []models.GPSFix{
		statsFix(techID, now.Add(-5*time.Minute), 40.0, -74.0),
	}}
	cache := &fakeLocationCache{}

	svc := newTestService(users, gps, &fakeJobRepo{}, cache)

	if _, err := svc.Roster(context.Background(), testCaller(accountID)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cache.sets != 1 {
		t.Fatalf("expected one cache backfill, got %d", cache.sets)
	}

	// Second pass must come from the cache, not trigger another backfill.
	if _, err := svc.Roster(context.Background(), testCaller(accountID)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cache.sets != 1 {
		t.Fatalf("expected cache hit on second read, got %d sets", cache.sets)
	}
}

func TestActivity_LimitClampAndJobFilter(t *testing.T) {
	accountID := uuid.New()
	techID := uuid.New()
	jobID := uuid.New()
	now := time.Now()

	users := &fakeUserRepo{users: []models.User{
		{ID: techID, AccountID: accountID, FullName: "Terry Tech", Role: types.TechRole},
	}}

	var fixes []models.GPSFix
	for i := 0; i < 150; i++ {
		fix := statsFix(techID, now.Add(-time.Duration(150-i)*time.Minute), 40.0, -74.0)
		if i%2 == 0 {
			fix.JobID = &jobID
		}
		fixes = append(fixes, fix)
	}
	gps := &fakeGPSRepo{fixes: fixes}

	svc := newTestService(users, gps, &fakeJobRepo{}, nil)
	caller := testCaller(accountID)

	got, err := svc.Activity(context.Background(), caller, techID, nil, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 20 {
		t.Fatalf("expected default limit 20, got %d", len(got))
	}

	got, err = svc.Activity(context.Background(), caller, techID, nil, 500)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 100 {
		t.Fatalf("expected limit clamped to 100, got %d", len(got))
	}

	got, err = svc.Activity(context.Background(), caller, techID, &jobID, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, entry := range got {
		if entry.JobID == nil || *entry.JobID != jobID {
			t.Fatalf("job filter leaked entry %+v", entry)
		}
	}
	if len(got) != 75 {
		t.Fatalf("expected 75 job-tagged fixes, got %d", len(got))
	}

	// Newest first.
	for i := 1; i < len(got); i++ {
		if got[i].Timestamp.After(got[i-1].Timestamp) {
			t.Fatalf("activity not newest-first at index %d", i)
		}
	}
}
