package models

import (
	"time"

	"github.com/google/uuid"
)

// TechDailyStats are per-technician performance aggregates for a date range.
// Derived on every request, never persisted.
type TechDailyStats struct {
	JobsCompletedToday         int     `json:"jobsCompletedToday"`
	JobsInProgress             int     `json:"jobsInProgress"`
	JobsScheduled              int     `json:"jobsScheduled"`
	AverageJobTimeMinutes      int     `json:"averageJobTimeMinutes"`
	TotalDistanceTraveledMiles float64 `json:"totalDistanceTraveledMiles"`
	HoursWorkedToday           float64 `json:"hoursWorkedToday"`
	Efficiency                 int     `json:"efficiency"` // 0-100 percentage
}

type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type StatsMeta struct {
	TechID       uuid.UUID `json:"techId"`
	TechName     string    `json:"techName"`
	DateRange    DateRange `json:"dateRange"`
	GPSLogsCount int       `json:"gpsLogsCount"`

	// Anomalies are filtered out of the aggregates but surfaced as counts so
	// silent data loss stays observable.
	ExcludedOutlierJobs     int `json:"excludedOutlierJobs"`
	ExcludedOutlierSegments int `json:"excludedOutlierSegments"`
}

type TechStatsResult struct {
	Stats TechDailyStats `json:"stats"`
	Meta  StatsMeta      `json:"meta"`
}
