package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/fieldworks/fleet-tracking/internal/adapter/http/handler/dto"
	"github.com/fieldworks/fleet-tracking/internal/domain/models"
	"github.com/fieldworks/fleet-tracking/pkg/logger"
	wrap "github.com/fieldworks/fleet-tracking/pkg/logger/wrapper"
	"github.com/fieldworks/fleet-tracking/pkg/validator"
	"github.com/google/uuid"
)

type GPSService interface {
	Ingest(ctx context.Context, caller *models.User, in models.GPSFixCreate) (*models.GPSFix, error)
	Recent(ctx context.Context, caller *models.User, userID, jobID *uuid.UUID) ([]models.GPSFix, error)
}

type GPS struct {
	gps GPSService
	l   logger.Logger
}

func NewGPS(service GPSService, l logger.Logger) *GPS {
	return &GPS{
		gps: service,
		l:   l,
	}
}

// Ingest godoc
// @Summary      Report a GPS fix
// @Description  Stores one device location ping for the authenticated field user
// @Tags         GPS
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body  models.GPSFixCreate  true  "Fix"
// @Success      201  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /gps [post]
func (h *GPS) Ingest(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "gps_ingest")
	user := models.UserFromContext(ctx)

	req := models.GPSFixCreate{}
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	dto.ValidateGPSFix(v, &req)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	fix, err := h.gps.Ingest(ctx, user, req)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to ingest GPS fix", err)
		respondError(w, err)
		return
	}

	response := envelope{
		"id":         fix.ID,
		"created_at": fix.CreatedAt,
	}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		serverErrorResponse(w, err)
	}
}

// Recent godoc
// @Summary      Recent GPS fixes
// @Description  Returns the account's most recent fixes, newest first
// @Tags         GPS
// @Produce      json
// @Security     BearerAuth
// @Param        userId  query  string  false  "Filter by user"
// @Param        jobId   query  string  false  "Filter by job"
// @Success      200  {object}  map[string]any
// @Router       /gps [get]
func (h *GPS) Recent(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "gps_recent")
	user := models.UserFromContext(ctx)

	qs := r.URL.Query()

	userID, err := readUUIDFilter(qs, "userId")
	if err != nil {
		badRequestResponse(w, "userId must be a valid UUID")
		return
	}
	jobID, err := readUUIDFilter(qs, "jobId")
	if err != nil {
		badRequestResponse(w, "jobId must be a valid UUID")
		return
	}

	fixes, err := h.gps.Recent(ctx, user, userID, jobID)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to list recent fixes", err)
		respondError(w, err)
		return
	}

	points := make([]models.ActivityEntry, 0, len(fixes))
	for _, fix := range fixes {
		if entry, ok := toActivityEntry(fix); ok {
			points = append(points, entry)
		}
	}

	response := envelope{
		"logs": points,
		"meta": envelope{"count": len(points)},
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		serverErrorResponse(w, err)
	}
}

// toActivityEntry converts a stored fix for the wire, dropping rows whose
// coordinates do not parse.
func toActivityEntry(fix models.GPSFix) (models.ActivityEntry, bool) {
	lat, errLat := strconv.ParseFloat(fix.Latitude, 64)
	lng, errLng := strconv.ParseFloat(fix.Longitude, 64)
	if errLat != nil || errLng != nil {
		return models.ActivityEntry{}, false
	}

	var acc float64
	if fix.Accuracy != "" {
		acc, _ = strconv.ParseFloat(fix.Accuracy, 64)
	}

	return models.ActivityEntry{
		ID:        fix.ID,
		Latitude:  lat,
		Longitude: lng,
		Accuracy:  acc,
		Timestamp: fix.CreatedAt,
		EventType: fix.EventType,
		JobID:     fix.JobID,
		Metadata:  fix.Metadata,
	}, true
}
