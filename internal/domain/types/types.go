package types

// UserRole is the account-level role of a user.
type UserRole string

func (r UserRole) String() string {
	return string(r)
}

const (
	OwnerRole      UserRole = "owner"
	AdminRole      UserRole = "admin"
	DispatcherRole UserRole = "dispatcher"
	TechRole       UserRole = "tech"
	SalesRole      UserRole = "sales"
)

// DispatcherRoles are the roles allowed to use the dispatch endpoints.
var DispatcherRoles = []UserRole{OwnerRole, AdminRole, DispatcherRole}

// FieldRoles are the roles that produce GPS fixes and appear on the dispatch map.
var FieldRoles = []UserRole{TechRole, SalesRole}

// GPSEventType tags a fix with what the device was doing when it was taken.
// The tracking pipeline treats it as opaque except for arrival/departure,
// which also move the associated job.
type GPSEventType string

const (
	EventArrival    GPSEventType = "arrival"
	EventDeparture  GPSEventType = "departure"
	EventCheckpoint GPSEventType = "checkpoint"
	EventAuto       GPSEventType = "auto"
)

func (e GPSEventType) Valid() bool {
	switch e {
	case EventArrival, EventDeparture, EventCheckpoint, EventAuto:
		return true
	}
	return false
}

// JobStatus is the lifecycle state of a field job.
type JobStatus string

const (
	JobScheduled  JobStatus = "scheduled"
	JobEnRoute    JobStatus = "en_route"
	JobInProgress JobStatus = "in_progress"
	JobCompleted  JobStatus = "completed"
	JobCancelled  JobStatus = "cancelled"
)

// TechStatus is the derived live status shown on the dispatch roster.
type TechStatus string

const (
	TechOnJob   TechStatus = "on_job"
	TechEnRoute TechStatus = "en_route"
	TechIdle    TechStatus = "idle"
	TechOffline TechStatus = "offline"
)

// StatsRange is a named date range for the daily stats endpoint.
type StatsRange string

const (
	RangeToday StatsRange = "today"
	RangeWeek  StatsRange = "week"
	RangeMonth StatsRange = "month"
)

func (r StatsRange) Valid() bool {
	switch r {
	case RangeToday, RangeWeek, RangeMonth:
		return true
	}
	return false
}
