package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"prayer-attendance-server/attendance"
	"prayer-attendance-server/models"
)

// --- Summary Handlers ---

// DailySummary handles GET /api/summary/daily
func (h *APIHandler) DailySummary(c *gin.Context) {
	ctx := c.Request.Context()
	classes, err := h.Directory.ListClasses(ctx)
	if err != nil {
		h.respondError(c, err, "Failed to retrieve classes")
		return
	}
	c.JSON(http.StatusOK, attendance.DailySummaryOf(h.Attendance.Store(ctx), classes))
}

// ClassSummaries handles GET /api/summary/classes
func (h *APIHandler) ClassSummaries(c *gin.Context) {
	ctx := c.Request.Context()
	classes, err := h.Directory.ListClasses(ctx)
	if err != nil {
		h.respondError(c, err, "Failed to retrieve classes")
		return
	}
	c.JSON(http.StatusOK, attendance.ClassSummariesByPrayer(h.Attendance.Store(ctx), classes))
}

// PrayerSummary handles GET /api/summary/prayers/:prayer
func (h *APIHandler) PrayerSummary(c *gin.Context) {
	prayer, ok := prayerParam(c)
	if !ok {
		return
	}
	bucket := h.Attendance.PrayerAttendance(c.Request.Context(), prayer)
	c.JSON(http.StatusOK, gin.H{
		"prayer":  prayer,
		"classes": attendance.SummaryLinesOf(bucket),
	})
}

// StudentStandings handles GET /api/summary/students
func (h *APIHandler) StudentStandings(c *gin.Context) {
	standings, _, ok := h.standings(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, standings)
}

// StudentSummary handles GET /api/summary/students/:studentId
func (h *APIHandler) StudentSummary(c *gin.Context) {
	ctx := c.Request.Context()
	student, err := h.Directory.GetStudent(ctx, c.Param("studentId"))
	if err != nil {
		h.respondError(c, err, "Failed to retrieve student")
		return
	}

	summary := attendance.StudentSummaryOf(h.Attendance.Store(ctx), student.ClassID, student.RollNo, student.Name)
	c.JSON(http.StatusOK, gin.H{
		"student": student,
		"summary": summary,
	})
}

// standings loads classes, roster and attendance and ranks every student.
// It answers the request itself on failure.
func (h *APIHandler) standings(c *gin.Context) ([]attendance.ClassStanding, models.AttendanceStore, bool) {
	ctx := c.Request.Context()
	classes, err := h.Directory.ListClasses(ctx)
	if err != nil {
		h.respondError(c, err, "Failed to retrieve classes")
		return nil, nil, false
	}
	roster, err := h.Directory.RosterByClass(ctx)
	if err != nil {
		h.respondError(c, err, "Failed to retrieve students")
		return nil, nil, false
	}
	store := h.Attendance.Store(ctx)
	return attendance.ClassStandings(store, classes, roster), store, true
}
