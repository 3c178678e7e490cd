package handlers

import (
	"bytes"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"prayer-attendance-server/report"
)

const (
	contentTypePDF  = "application/pdf"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// --- Report Handlers ---

// ShareDailyReport handles GET /api/reports/share
func (h *APIHandler) ShareDailyReport(c *gin.Context) {
	ctx := c.Request.Context()
	msg := report.FullDailyReport(h.Attendance.Store(ctx), h.Attendance.Now())
	c.JSON(http.StatusOK, gin.H{"message": msg, "url": report.WhatsAppURL(msg)})
}

// SharePrayerReport handles GET /api/reports/share/:prayer
func (h *APIHandler) SharePrayerReport(c *gin.Context) {
	prayer, ok := prayerParam(c)
	if !ok {
		return
	}
	bucket := h.Attendance.PrayerAttendance(c.Request.Context(), prayer)
	msg := report.PrayerSummaryMessage(prayer, bucket, h.Attendance.Now())
	c.JSON(http.StatusOK, gin.H{"message": msg, "url": report.WhatsAppURL(msg)})
}

// StudentReportPDF handles GET /api/reports/students.pdf
func (h *APIHandler) StudentReportPDF(c *gin.Context) {
	h.studentReport(c, "pdf", contentTypePDF, report.WritePDF)
}

// StudentReportExcel handles GET /api/reports/students.xlsx
func (h *APIHandler) StudentReportExcel(c *gin.Context) {
	h.studentReport(c, "xlsx", contentTypeXLSX, report.WriteExcel)
}

func (h *APIHandler) studentReport(c *gin.Context, ext, contentType string, write func(io.Writer, report.StudentReport) error) {
	standings, store, ok := h.standings(c)
	if !ok {
		return
	}

	now := h.Attendance.Now()
	var buf bytes.Buffer
	if err := write(&buf, report.StudentReport{
		Generated: now,
		Classes:   standings,
		Recorded:  store.Records(),
	}); err != nil {
		h.respondError(c, err, "Failed to generate report")
		return
	}

	filename := fmt.Sprintf("student-attendance-%s.%s", now.Format("2006-01-02"), ext)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}
