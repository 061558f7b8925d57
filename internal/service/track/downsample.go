package track

import (
	"time"

	"github.com/fieldworks/fleet-tracking/internal/domain/models"
	"github.com/google/uuid"
)

type bucketKey struct {
	userID uuid.UUID
	bucket int64
}

// Downsample reduces each user's fixes to at most one per time bucket of the
// given interval, counted from start. The first fix encountered in a bucket
// is kept and later fixes sharing the (user, bucket) key are dropped.
//
// Precondition: fixes must be ordered by CreatedAt ascending, so that "first
// encountered" means "earliest". Callers fetch ordered from storage; passing
// unsorted input keeps one fix per bucket but not necessarily the earliest.
// Output preserves input order; it is not re-sorted here.
func Downsample(fixes []models.GPSFix, start time.Time, interval time.Duration) []models.GPSFix {
	if interval <= 0 || len(fixes) == 0 {
		return fixes
	}

	seen := make(map[bucketKey]struct{}, len(fixes))
	out := make([]models.GPSFix, 0, len(fixes))

	for _, fix := range fixes {
		key := bucketKey{
			userID: fix.UserID,
			bucket: bucketIndex(fix.CreatedAt, start, interval),
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, fix)
	}

	return out
}

// bucketIndex floors the offset from start into interval-sized buckets.
// Floor rather than truncation so fixes before start land in negative
// buckets instead of sharing bucket 0.
func bucketIndex(t, start time.Time, interval time.Duration) int64 {
	offset := t.Sub(start)
	idx := int64(offset / interval)
	if offset < 0 && offset%interval != 0 {
		idx--
	}
	return idx
}
