package handler

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/Anirudha-Sai/Event-Attendance/internal/dto"
	"github.com/Anirudha-Sai/Event-Attendance/internal/service"
	"github.com/Anirudha-Sai/Event-Attendance/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// EventHandler event registry endpoints
type EventHandler struct {
	eventSvc      service.EventService
	attendanceSvc service.AttendanceService
	exportSvc     service.ExportService
}

// NewEventHandler creates an EventHandler
func NewEventHandler(eventSvc service.EventService, attendanceSvc service.AttendanceService, exportSvc service.ExportService) *EventHandler {
	return &EventHandler{eventSvc: eventSvc, attendanceSvc: attendanceSvc, exportSvc: exportSvc}
}

// List events visible to the caller, newest first
// GET /api/v1/events
func (h *EventHandler) List(c *gin.Context) {
	events, err := h.eventSvc.ListFor(c.Request.Context(), callerOf(c))
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, events)
}

// Create event
// POST /api/v1/events
func (h *EventHandler) Create(c *gin.Context) {
	var req dto.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, 10001, "validation failed", err.Error())
		return
	}

	event, err := h.eventSvc.Create(c.Request.Context(), callerOf(c), &req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Created(c, event)
}

// Get event with its attendance rows
// GET /api/v1/events/:id
func (h *EventHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	detail, err := h.eventSvc.View(c.Request.Context(), callerOf(c), id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, detail)
}

// Attendance ledger rows of an event
// GET /api/v1/events/:id/attendance
func (h *EventHandler) Attendance(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	rows, err := h.attendanceSvc.ListForEvent(c.Request.Context(), callerOf(c), id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, rows)
}

// Export ledger as .xlsx
// GET /api/v1/events/:id/export
func (h *EventHandler) Export(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	buf, filename, err := h.exportSvc.ExportEvent(c.Request.Context(), callerOf(c), id)
	if err != nil {
		handleError(c, err)
		return
	}

	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.QueryEscape(filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// Calendar iCalendar feed of the caller's events
// GET /api/v1/events/calendar.ics
func (h *EventHandler) Calendar(c *gin.Context) {
	data, err := h.eventSvc.Calendar(c.Request.Context(), callerOf(c))
	if err != nil {
		handleError(c, err)
		return
	}
	c.Header("Content-Disposition", "inline; filename=events.ics")
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", data)
}
