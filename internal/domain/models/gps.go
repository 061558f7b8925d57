package models

import (
	"time"

	"github.com/fieldworks/fleet-tracking/internal/domain/types"
	"github.com/google/uuid"
)

// GPSFix is a raw device ping as stored. Fixes are append-only and never
// updated. Coordinates are kept as the stored decimal strings (they may carry
// excess precision) and are parsed to float64 only at the point of use.
type GPSFix struct {
	ID        uuid.UUID
	AccountID uuid.UUID
	UserID    uuid.UUID
	JobID     *uuid.UUID
	Latitude  string
	Longitude string
	Accuracy  string // empty when the device did not report accuracy
	EventType types.GPSEventType
	Metadata  map[string]any
	CreatedAt time.Time
}

// GPSFixCreate is the ingestion payload from a field device.
type GPSFixCreate struct {
	JobID     *uuid.UUID         `json:"jobId,omitempty"`
	Latitude  float64            `json:"latitude"`
	Longitude float64            `json:"longitude"`
	Accuracy  float64            `json:"accuracy,omitempty"`
	EventType types.GPSEventType `json:"eventType"`
	Metadata  map[string]any     `json:"metadata,omitempty"`
}

// TrackPoint is one playback-ready location sample.
type TrackPoint struct {
	UserID    uuid.UUID          `json:"userId"`
	UserName  string             `json:"userName"`
	Latitude  float64            `json:"latitude"`
	Longitude float64            `json:"longitude"`
	Accuracy  float64            `json:"accuracy"`
	Timestamp time.Time          `json:"timestamp"`
	EventType types.GPSEventType `json:"eventType"`
	JobID     *uuid.UUID         `json:"jobId,omitempty"`
}

// PlaybackQuery carries validated parameters for a historical playback request.
type PlaybackQuery struct {
	Start           time.Time
	End             time.Time
	UserIDs         []uuid.UUID // optional filter, intersected with the account roster
	Downsample      bool
	IntervalMinutes int
}

type TimeRange struct {
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
	DurationHours float64   `json:"durationHours"`
}

type PlaybackMeta struct {
	Count              int        `json:"count"`
	Downsampled        bool       `json:"downsampled"`
	DownsampleInterval *int       `json:"downsampleInterval,omitempty"`
	TimeRange          *TimeRange `json:"timeRange,omitempty"`
	TechsCount         int        `json:"techsCount"`
	TechNames          []string   `json:"techNames,omitempty"`
}

type PlaybackResult struct {
	Logs []TrackPoint `json:"logs"`
	Meta PlaybackMeta `json:"meta"`
}

// ActivityEntry is one row of a tech's recent GPS activity, newest first.
type ActivityEntry struct {
	ID        uuid.UUID          `json:"id"`
	Latitude  float64            `json:"latitude"`
	Longitude float64            `json:"longitude"`
	Accuracy  float64            `json:"accuracy"`
	Timestamp time.Time          `json:"timestamp"`
	EventType types.GPSEventType `json:"eventType"`
	JobID     *uuid.UUID         `json:"jobId,omitempty"`
	Metadata  map[string]any     `json:"metadata,omitempty"`
}

// LiveLocationUpdate is the message fanned out to dispatch consoles when a
// new fix is ingested. It is published to the location exchange and relayed
// over WebSocket as-is.
type LiveLocationUpdate struct {
	UserID    uuid.UUID          `json:"userId"`
	UserName  string             `json:"userName"`
	Latitude  float64            `json:"latitude"`
	Longitude float64            `json:"longitude"`
	Accuracy  float64            `json:"accuracy"`
	EventType types.GPSEventType `json:"eventType"`
	JobID     *uuid.UUID         `json:"jobId,omitempty"`
	Timestamp time.Time          `json:"timestamp"`
}

// LastLocation is the most recent known position of a tech.
type LastLocation struct {
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	Accuracy  float64   `json:"accuracy"`
	UpdatedAt time.Time `json:"updatedAt"`
}
