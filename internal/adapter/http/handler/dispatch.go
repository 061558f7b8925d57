package handler

import (
	"context"
	"net/http"

	"github.com/fieldworks/fleet-tracking/internal/domain/models"
	"github.com/fieldworks/fleet-tracking/internal/service/dispatch"
	"github.com/fieldworks/fleet-tracking/pkg/logger"
	wrap "github.com/fieldworks/fleet-tracking/pkg/logger/wrapper"
	"github.com/google/uuid"
)

type DispatchService interface {
	HistoricalPlayback(ctx context.Context, caller *models.User, q models.PlaybackQuery) (*models.PlaybackResult, error)
	TechStats(ctx context.Context, caller *models.User, techID uuid.UUID, dateStr, rangeStr string) (*models.TechStatsResult, error)
	Roster(ctx context.Context, caller *models.User) ([]models.TechLocation, error)
	Activity(ctx context.Context, caller *models.User, techID uuid.UUID, jobID *uuid.UUID, limit int) ([]models.ActivityEntry, error)
}

type Dispatch struct {
	dispatch DispatchService
	l        logger.Logger
}

func NewDispatch(service DispatchService, l logger.Logger) *Dispatch {
	return &Dispatch{
		dispatch: service,
		l:        l,
	}
}

// GPSHistory godoc
// @Summary      Historical playback
// @Description  Returns playback-ready track points for the account's techs in a time window
// @Tags         Dispatch
// @Produce      json
// @Security     BearerAuth
// @Param        startTime   query  string  true   "Window start, RFC3339"
// @Param        endTime     query  string  true   "Window end, RFC3339"
// @Param        userIds     query  string  false  "Comma-separated tech ids"
// @Param        downsample  query  bool    false  "Enable downsampling (default true)"
// @Param        interval    query  int     false  "Bucket interval in minutes (default 5)"
// @Success      200  {object}  models.PlaybackResult
// @Failure      400  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /dispatch/gps/history [get]
func (h *Dispatch) GPSHistory(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "gps_history")
	user := models.UserFromContext(ctx)

	qs := r.URL.Query()

	start, err := readTime(qs, "startTime")
	if err != nil {
		respondError(w, err)
		return
	}
	end, err := readTime(qs, "endTime")
	if err != nil {
		respondError(w, err)
		return
	}

	userIDs, err := readUUIDList(qs, "userIds")
	if err != nil {
		badRequestResponse(w, "userIds must be a comma-separated list of UUIDs")
		return
	}

	q := models.PlaybackQuery{
		Start:           start,
		End:             end,
		UserIDs:         userIDs,
		Downsample:      readBool(qs, "downsample", true),
		IntervalMinutes: readInt(qs, "interval", dispatch.DefaultIntervalMinutes),
	}

	result, err := h.dispatch.HistoricalPlayback(ctx, user, q)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to build playback", err)
		respondError(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, result, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		serverErrorResponse(w, err)
	}
}

// Roster godoc
// @Summary      Live tech roster
// @Description  Returns all field users with derived status, active job and last position
// @Tags         Dispatch
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]any
// @Router       /dispatch/techs [get]
func (h *Dispatch) Roster(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "dispatch_roster")
	user := models.UserFromContext(ctx)

	roster, err := h.dispatch.Roster(ctx, user)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to build roster", err)
		respondError(w, err)
		return
	}

	response := envelope{
		"techs": roster,
		"meta":  envelope{"count": len(roster)},
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		serverErrorResponse(w, err)
	}
}

// TechStats godoc
// @Summary      Tech daily stats
// @Description  Computes per-technician performance aggregates for a date range
// @Tags         Dispatch
// @Produce      json
// @Security     BearerAuth
// @Param        tech_id  path   string  true   "Technician id"
// @Param        date     query  string  false  "Explicit day, YYYY-MM-DD"
// @Param        range    query  string  false  "Named range: today, week or month"
// @Success      200  {object}  models.TechStatsResult
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /dispatch/techs/{tech_id}/stats [get]
func (h *Dispatch) TechStats(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "tech_stats")
	user := models.UserFromContext(ctx)

	techID, err := uuid.Parse(r.PathValue("tech_id"))
	if err != nil {
		badRequestResponse(w, "tech_id must be a valid UUID")
		return
	}

	qs := r.URL.Query()
	result, err := h.dispatch.TechStats(ctx, user, techID, readString(qs, "date", ""), readString(qs, "range", ""))
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to compute tech stats", err)
		respondError(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, result, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		serverErrorResponse(w, err)
	}
}

// Activity godoc
// @Summary      Recent tech activity
// @Description  Returns a tech's most recent fixes, newest first
// @Tags         Dispatch
// @Produce      json
// @Security     BearerAuth
// @Param        tech_id  path   string  true   "Technician id"
// @Param        jobId    query  string  false  "Filter by job"
// @Param        limit    query  int     false  "Max rows (default 20, max 100)"
// @Success      200  {object}  map[string]any
// @Failure      404  {object}  map[string]string
// @Router       /dispatch/techs/{tech_id}/activity [get]
func (h *Dispatch) Activity(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "tech_activity")
	user := models.UserFromContext(ctx)

	techID, err := uuid.Parse(r.PathValue("tech_id"))
	if err != nil {
		badRequestResponse(w, "tech_id must be a valid UUID")
		return
	}

	qs := r.URL.Query()
	jobID, err := readUUIDFilter(qs, "jobId")
	if err != nil {
		badRequestResponse(w, "jobId must be a valid UUID")
		return
	}

	entries, err := h.dispatch.Activity(ctx, user, techID, jobID, readInt(qs, "limit", 0))
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to list tech activity", err)
		respondError(w, err)
		return
	}

	response := envelope{
		"activity": entries,
		"meta":     envelope{"count": len(entries)},
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		serverErrorResponse(w, err)
	}
}
