package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Anirudha-Sai/Event-Attendance/internal/api/middleware"
	"github.com/Anirudha-Sai/Event-Attendance/internal/policy"
	"github.com/Anirudha-Sai/Event-Attendance/internal/service"
	pkgerrors "github.com/Anirudha-Sai/Event-Attendance/pkg/errors"
	"github.com/Anirudha-Sai/Event-Attendance/pkg/response"
)

// callerOf resolves the caller set by JWTAuth; nil is passed on to the
// services, which reject it as unauthenticated.
func callerOf(c *gin.Context) *policy.Caller {
	return middleware.CallerFromContext(c)
}

// parseIDParam reads a positive numeric path parameter, writing 400 on failure
func parseIDParam(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		response.BadRequest(c, 10001, name+" must be a positive integer")
		return 0, false
	}
	return id, true
}

// handleError maps service errors onto the response envelope.
// Module errors get their own codes; anything else falls back to the taxonomy.
func handleError(c *gin.Context, err error) {
	switch {
	// auth
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Unauthorized(c, 11001, "invalid email or password")
	case errors.Is(err, service.ErrRefreshTokenInvalid):
		response.Unauthorized(c, 11002, "refresh token invalid or expired")
	case errors.Is(err, service.ErrEmailExists):
		response.BadRequest(c, 11003, "email already registered")
	case errors.Is(err, service.ErrInvalidRole):
		response.BadRequest(c, 11004, "role must be conductor or hod")
	case errors.Is(err, service.ErrPasswordMismatch):
		response.BadRequest(c, 11005, "passwords do not match")

	// events
	case errors.Is(err, service.ErrEventNotFound):
		response.NotFound(c, 12001, "event not found")
	case errors.Is(err, service.ErrEventTitleRequired):
		response.BadRequest(c, 12002, "title is required")
	case errors.Is(err, service.ErrEventWhenInvalid):
		response.BadRequest(c, 12003, "when must be RFC3339 or YYYY-MM-DDTHH:MM")

	// attendance
	case errors.Is(err, service.ErrAttendanceNotFound):
		response.NotFound(c, 13001, "attendance record not found")
	case errors.Is(err, service.ErrAttendanceConflict):
		response.Conflict(c, 13002, "record was changed by another action, reload and retry")
	case errors.Is(err, service.ErrEmptyRoll):
		response.BadRequest(c, 13003, "roll is required")

	// roster
	case errors.Is(err, service.ErrImportBadHeader),
		errors.Is(err, service.ErrImportNoData),
		errors.Is(err, service.ErrImportTooManyRows):
		response.BadRequest(c, 14001, err.Error())

	// taxonomy
	case errors.Is(err, pkgerrors.ErrUnauthenticated):
		response.Unauthorized(c, 10002, "authentication required")
	case errors.Is(err, pkgerrors.ErrUnauthorized):
		response.Forbidden(c, 10003, "not allowed for this role")
	case errors.Is(err, pkgerrors.ErrInvalidInput):
		response.BadRequest(c, 10001, err.Error())
	case errors.Is(err, pkgerrors.ErrNotFound):
		response.NotFound(c, 10006, "not found")
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 10007, "record was modified by another operation, reload and retry")
	default:
		_ = c.Error(err)
		response.InternalError(c)
	}
}
