package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fieldworks/fleet-tracking/internal/domain/models"
	"github.com/fieldworks/fleet-tracking/internal/domain/types"
	"github.com/fieldworks/fleet-tracking/pkg/logger"
	"github.com/google/uuid"
)

type stubDispatchService struct {
	playbackErr error
	statsErr    error
}

func (s *stubDispatchService) HistoricalPlayback(_ context.Context, _ *models.User, q models.PlaybackQuery) (*models.PlaybackResult, error) {
	if q.Start.IsZero() || q.End.IsZero() {
		return nil, types.ErrMissingTimeRange
	}
	if s.playbackErr != nil {
		return nil, s.playbackErr
	}
	return &models.PlaybackResult{Logs: []models.TrackPoint{}, Meta: models.PlaybackMeta{}}, nil
}

func (s *stubDispatchService) TechStats(_ context.Context, _ *models.User, _ uuid.UUID, _, _ string) (*models.TechStatsResult, error) {
	if s.statsErr != nil {
		return nil, s.statsErr
	}
	return &models.TechStatsResult{}, nil
}

func (s *stubDispatchService) Roster(_ context.Context, _ *models.User) ([]models.TechLocation, error) {
	return nil, nil
}

func (s *stubDispatchService) Activity(_ context.Context, _ *models.User, _ uuid.UUID, _ *uuid.UUID, _ int) ([]models.ActivityEntry, error) {
	return nil, nil
}

func dispatchRequest(t *testing.T, h http.HandlerFunc, target string) *httptest.ResponseRecorder {
	t.Helper()

	r := httptest.NewRequest(http.MethodGet, target, nil)
	caller := &models.User{ID: uuid.New(), AccountID: uuid.New(), Role: types.DispatcherRole}
	r = r.WithContext(models.WithUser(r.Context(), caller))

	w := httptest.NewRecorder()
	h(w, r)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	return body
}

func TestGPSHistory_BadTimeFormat(t *testing.T) {
	l := logger.InitLogger("handler-test", logger.LevelError)
	h := NewDispatch(&stubDispatchService{}, l)

	w := dispatchRequest(t, h.GPSHistory, "/dispatch/gps/history?startTime=yesterday&endTime=2025-01-01T00:00:00Z")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	body := decodeError(t, w)
	if body["error"] == "" {
		t.Fatal("expected an error message")
	}
}

func TestGPSHistory_MissingParams(t *testing.T) {
	l := logger.InitLogger("handler-test", logger.LevelError)
	h := NewDispatch(&stubDispatchService{}, l)

	w := dispatchRequest(t, h.GPSHistory, "/dispatch/gps/history")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestGPSHistory_RangeTooLarge(t *testing.T) {
	l := logger.InitLogger("handler-test", logger.LevelError)
	h := NewDispatch(&stubDispatchService{playbackErr: types.ErrTimeRangeTooLarge}, l)

	w := dispatchRequest(t, h.GPSHistory, "/dispatch/gps/history?startTime=2025-01-01T00:00:00Z&endTime=2025-01-09T00:00:00Z")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestGPSHistory_BadUserIDs(t *testing.T) {
	l := logger.InitLogger("handler-test", logger.LevelError)
	h := NewDispatch(&stubDispatchService{}, l)

	w := dispatchRequest(t, h.GPSHistory, "/dispatch/gps/history?startTime=2025-01-01T00:00:00Z&endTime=2025-01-02T00:00:00Z&userIds=not-a-uuid")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestTechStats_ErrorMapping(t *testing.T) {
	l := logger.InitLogger("handler-test", logger.LevelError)

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"unknown tech", types.ErrTechNotFound, http.StatusNotFound},
		{"foreign account", types.ErrForeignAccount, http.StatusForbidden},
		{"bad date", types.ErrInvalidDate, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewDispatch(&stubDispatchService{statsErr: tt.err}, l)

			mux := http.NewServeMux()
			mux.HandleFunc("GET /dispatch/techs/{tech_id}/stats", h.TechStats)

			r := httptest.NewRequest(http.MethodGet, "/dispatch/techs/"+uuid.NewString()+"/stats", nil)
			caller := &models.User{ID: uuid.New(), AccountID: uuid.New(), Role: types.DispatcherRole}
			r = r.WithContext(models.WithUser(r.Context(), caller))

			w := httptest.NewRecorder()
			mux.ServeHTTP(w, r)

			if w.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, w.Code)
			}
		})
	}
}

func TestGetCode_UnmappedIs500WithDetails(t *testing.T) {
	w := httptest.NewRecorder()
	err := context.DeadlineExceeded
	respondError(w, err)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	body := decodeError(t, w)
	if body["details"] != err.Error() {
		t.Fatalf("expected details %q, got %v", err.Error(), body["details"])
	}
}
