package api

import (
	"errors"
	"os"

	"github.com/labstack/echo/v4"

	"labdash-backend/internal/service"
)

var verboseErrors = os.Getenv("ENV") != "production"

// fail converts a service error into the structured JSON error envelope.
// Validation and signature mismatches are client faults (400, never 401);
// everything unclassified is an upstream failure with a generic message in
// production.
func fail(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrSignatureMismatch):
		return c.JSON(400, map[string]interface{}{"success": false, "error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(404, map[string]interface{}{"success": false, "error": err.Error()})
	case errors.Is(err, service.ErrConflict):
		return c.JSON(409, map[string]interface{}{"success": false, "error": err.Error()})
	}
	msg := "Internal server error"
	if verboseErrors {
		msg = err.Error()
	}
	return c.JSON(500, map[string]interface{}{"success": false, "error": msg})
}
