package types

import "errors"

var (
	ErrUserNotFound = errors.New("user not found")
	ErrTechNotFound = errors.New("tech not found")
	ErrJobNotFound  = errors.New("job not found or access denied")

	ErrForeignAccount = errors.New("forbidden: tech belongs to different account")

	ErrMissingTimeRange  = errors.New("startTime and endTime are required")
	ErrInvalidTimeFormat = errors.New("invalid time format, use ISO 8601 (e.g. 2025-11-27T10:00:00Z)")
	ErrInvalidTimeRange  = errors.New("startTime must be before endTime")
	ErrTimeRangeTooLarge = errors.New("time range too large, maximum is 7 days")
	ErrInvalidDate       = errors.New("invalid date, use YYYY-MM-DD")
	ErrInvalidStatsRange = errors.New("invalid range, must be today, week or month")

	ErrCoordinatesOutOfRange = errors.New("coordinates out of valid range")
	ErrInvalidEventType      = errors.New("invalid event type")

	ErrNoFixes = errors.New("no GPS fixes recorded")
)
