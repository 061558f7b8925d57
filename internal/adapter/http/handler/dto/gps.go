package dto

import (
	"github.com/fieldworks/fleet-tracking/internal/domain/models"
	"github.com/fieldworks/fleet-tracking/pkg/validator"
)

func ValidateGPSFix(v *validator.Validator, req *models.GPSFixCreate) {
	v.Check(req.Latitude >= -90 && req.Latitude <= 90, "latitude", "must be between -90 and 90")
	v.Check(req.Longitude >= -180 && req.Longitude <= 180, "longitude", "must be between -180 and 180")
	v.Check(req.Accuracy >= 0, "accuracy", "must not be negative")
	if req.EventType != "" {
		v.Check(req.EventType.Valid(), "eventType", "must be one of arrival, departure, checkpoint, auto")
	}
}
