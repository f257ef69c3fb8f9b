package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Anirudha-Sai/Event-Attendance/internal/dto"
	"github.com/Anirudha-Sai/Event-Attendance/internal/service"
	"github.com/Anirudha-Sai/Event-Attendance/pkg/response"
)

// ScanHandler conductor scanning endpoints
type ScanHandler struct {
	rosterSvc     service.RosterService
	attendanceSvc service.AttendanceService
}

// NewScanHandler creates a ScanHandler
func NewScanHandler(rosterSvc service.RosterService, attendanceSvc service.AttendanceService) *ScanHandler {
	return &ScanHandler{rosterSvc: rosterSvc, attendanceSvc: attendanceSvc}
}

// Lookup roster details for a scanned roll
// POST /api/v1/scan/lookup
func (h *ScanHandler) Lookup(c *gin.Context) {
	var req dto.ScanLookupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "validation failed")
		return
	}

	result, err := h.rosterSvc.Lookup(c.Request.Context(), callerOf(c), req.Roll)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, result)
}

// Add records a confirmed scan
// POST /api/v1/scan/add
func (h *ScanHandler) Add(c *gin.Context) {
	var req dto.AddScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "validation failed")
		return
	}

	result, err := h.attendanceSvc.RecordScan(c.Request.Context(), callerOf(c), &req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, result)
}
