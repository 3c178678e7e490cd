package handlers

import (
	"sync"

	"github.com/gin-gonic/gin"
)

var fieldNamesOnce sync.Once

// RegisterRoutes mounts the API under /api.
func RegisterRoutes(router *gin.Engine, h *APIHandler) {
	fieldNamesOnce.Do(useJSONFieldNames)

	api := router.Group("/api")
	{
		api.GET("/ping", h.Ping)

		teachers := api.Group("/teachers")
		teachers.POST("/register", h.RegisterTeacher)
		teachers.POST("/login", h.LoginTeacher)
		teachers.GET("/count", h.CountTeachers)

		classes := api.Group("/classes")
		classes.GET("", h.GetAllClasses)
		classes.GET("/:id", h.GetClassByID)
		classes.POST("", h.AddClass)
		classes.PUT("/:id", h.UpdateClass)
		classes.DELETE("/:id", h.DeleteClass)

		students := api.Group("/students")
		students.GET("", h.GetAllStudents)
		students.GET("/class/:classId", h.GetStudentsByClass)
		students.POST("", h.AddStudent)
		students.POST("/bulk", h.AddStudentsBulk)
		students.PUT("/:id", h.UpdateStudent)
		students.DELETE("/:id", h.DeleteStudent)

		api.POST("/import/students", h.ImportStudents)

		att := api.Group("/attendance")
		att.GET("", h.GetAttendance)
		att.GET("/:prayer", h.GetPrayerAttendance)
		att.POST("/:prayer/:classId", h.SaveAttendance)
		att.DELETE("/:prayer", h.ClearPrayerAttendance)
		att.DELETE("", h.ClearAllAttendance)

		summary := api.Group("/summary")
		summary.GET("/daily", h.DailySummary)
		summary.GET("/classes", h.ClassSummaries)
		summary.GET("/prayers/:prayer", h.PrayerSummary)
		summary.GET("/students", h.StudentStandings)
		summary.GET("/students/:studentId", h.StudentSummary)

		reports := api.Group("/reports")
		reports.GET("/share", h.ShareDailyReport)
		reports.GET("/share/:prayer", h.SharePrayerReport)
		reports.GET("/students.pdf", h.StudentReportPDF)
		reports.GET("/students.xlsx", h.StudentReportExcel)
	}
}
