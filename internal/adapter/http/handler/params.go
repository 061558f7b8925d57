package handler

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/fieldworks/fleet-tracking/internal/domain/types"
	"github.com/google/uuid"
)

func readString(qs url.Values, key, defaultValue string) string {
	s := qs.Get(key)
	if s == "" {
		return defaultValue
	}
	return s
}

func readInt(qs url.Values, key string, defaultValue int) int {
	s := qs.Get(key)
	if s == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return defaultValue
	}
	return i
}

func readBool(qs url.Values, key string, defaultValue bool) bool {
	s := qs.Get(key)
	if s == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return defaultValue
	}
	return b
}

// readTime parses an RFC3339 query parameter. A present-but-invalid value is
// an error; an absent one returns the zero time.
func readTime(qs url.Values, key string) (time.Time, error) {
	s := qs.Get(key)
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, types.ErrInvalidTimeFormat
	}
	return t, nil
}

// readUUIDList parses a comma-separated list of UUIDs, skipping blanks.
// An unparseable entry fails the whole parameter.
func readUUIDList(qs url.Values, key string) ([]uuid.UUID, error) {
	s := qs.Get(key)
	if s == "" {
		return nil, nil
	}

	var ids []uuid.UUID
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := uuid.Parse(part)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// readUUIDFilter parses an optional single-UUID query parameter.
func readUUIDFilter(qs url.Values, key string) (*uuid.UUID, error) {
	s := qs.Get(key)
	if s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
