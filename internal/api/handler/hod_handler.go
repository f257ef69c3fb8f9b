package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Anirudha-Sai/Event-Attendance/internal/dto"
	"github.com/Anirudha-Sai/Event-Attendance/internal/service"
	"github.com/Anirudha-Sai/Event-Attendance/pkg/response"
)

// HodHandler approval endpoint
type HodHandler struct {
	attendanceSvc service.AttendanceService
}

// NewHodHandler creates a HodHandler
func NewHodHandler(attendanceSvc service.AttendanceService) *HodHandler {
	return &HodHandler{attendanceSvc: attendanceSvc}
}

// Action applies Approved / Pending / Rejected; other actions are accepted and ignored
// POST /api/v1/hod/action
func (h *HodHandler) Action(c *gin.Context) {
	var req dto.HodActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "attendance_id is required")
		return
	}

	record, err := h.attendanceSvc.ApplyHodAction(c.Request.Context(), callerOf(c), &req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, dto.HodActionResponse{OK: true, Record: *record})
}
