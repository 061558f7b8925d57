package models

import (
	"time"

	"github.com/fieldworks/fleet-tracking/internal/domain/types"
	"github.com/google/uuid"
)

type Job struct {
	ID             uuid.UUID       `json:"id"`
	AccountID      uuid.UUID       `json:"account_id"`
	TechAssignedID *uuid.UUID      `json:"tech_assigned_id,omitempty"`
	Status         types.JobStatus `json:"status"`
	Description    string          `json:"description"`
	Address        string          `json:"address,omitempty"`
	ScheduledStart *time.Time      `json:"scheduled_start,omitempty"`
	ScheduledEnd   *time.Time      `json:"scheduled_end,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// JobSummary is the active-job snippet shown on the dispatch roster.
type JobSummary struct {
	ID          uuid.UUID `json:"id"`
	Description string    `json:"description"`
	Address     string    `json:"address"`
}

// TechLocation is one roster entry: a tech with their derived live status,
// active job and last known position.
type TechLocation struct {
	ID           uuid.UUID        `json:"id"`
	Name         string           `json:"name"`
	Role         types.UserRole   `json:"role"`
	Status       types.TechStatus `json:"status"`
	CurrentJob   *JobSummary      `json:"currentJob,omitempty"`
	LastLocation *LastLocation    `json:"lastLocation,omitempty"`
}
