package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Anirudha-Sai/Event-Attendance/internal/service"
)

// StudentHandler roster endpoints
type StudentHandler struct {
	rosterSvc service.RosterService
}

// NewStudentHandler creates a StudentHandler
func NewStudentHandler(rosterSvc service.RosterService) *StudentHandler {
	return &StudentHandler{rosterSvc: rosterSvc}
}

// Badge QR code of the roll for printed ID cards
// GET /api/v1/students/:roll/qrcode.png?size=256
func (h *StudentHandler) Badge(c *gin.Context) {
	size, _ := strconv.Atoi(c.Query("size"))

	png, err := h.rosterSvc.Badge(c.Request.Context(), callerOf(c), c.Param("roll"), size)
	if err != nil {
		handleError(c, err)
		return
	}
	c.Header("Cache-Control", "private, max-age=86400")
	c.Data(http.StatusOK, "image/png", png)
}
