package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"prayer-attendance-server/attendance"
	"prayer-attendance-server/models"
)

type saveAttendanceRequest struct {
	// Attendance maps student ID to "present" or "absent".
	Attendance map[string]models.Mark `json:"attendance" binding:"required"`
	Reasons    map[string]string      `json:"reasons"`
}

// prayerParam parses the :prayer path parameter, answering 400 when it is unknown.
func prayerParam(c *gin.Context) (models.Prayer, bool) {
	p, err := models.ParsePrayer(c.Param("prayer"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return "", false
	}
	return p, true
}

// --- Attendance Handlers ---

// GetAttendance handles GET /api/attendance
func (h *APIHandler) GetAttendance(c *gin.Context) {
	c.JSON(http.StatusOK, h.Attendance.Store(c.Request.Context()))
}

// GetPrayerAttendance handles GET /api/attendance/:prayer
func (h *APIHandler) GetPrayerAttendance(c *gin.Context) {
	prayer, ok := prayerParam(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.Attendance.PrayerAttendance(c.Request.Context(), prayer))
}

// SaveAttendance handles POST /api/attendance/:prayer/:classId. Class name
// and roster are taken from the directory at save time.
func (h *APIHandler) SaveAttendance(c *gin.Context) {
	prayer, ok := prayerParam(c)
	if !ok {
		return
	}

	var req saveAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	ctx := c.Request.Context()
	clazz, err := h.Directory.GetClass(ctx, c.Param("classId"))
	if err != nil {
		h.respondError(c, err, "Failed to load class")
		return
	}
	roster, err := h.Directory.ListStudentsByClass(ctx, clazz.ID)
	if err != nil {
		h.respondError(c, err, "Failed to load class roster")
		return
	}

	record, err := h.Attendance.SaveClassAttendance(ctx, attendance.SaveInput{
		Prayer:    prayer,
		ClassID:   clazz.ID,
		ClassName: clazz.Name,
		Marks:     req.Attendance,
		Roster:    roster,
		Reasons:   req.Reasons,
	})
	if err != nil {
		h.respondError(c, err, "Failed to save attendance")
		return
	}
	c.JSON(http.StatusOK, record)
}

// ClearPrayerAttendance handles DELETE /api/attendance/:prayer
func (h *APIHandler) ClearPrayerAttendance(c *gin.Context) {
	prayer, ok := prayerParam(c)
	if !ok {
		return
	}
	if err := h.Attendance.ClearPrayer(c.Request.Context(), prayer); err != nil {
		h.respondError(c, err, "Failed to clear attendance")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Attendance cleared", "prayer": prayer})
}

// ClearAllAttendance handles DELETE /api/attendance
func (h *APIHandler) ClearAllAttendance(c *gin.Context) {
	if err := h.Attendance.ClearAll(c.Request.Context()); err != nil {
		h.respondError(c, err, "Failed to clear attendance")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "All attendance cleared"})
}
