package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"prayer-attendance-server/db"
	"prayer-attendance-server/models"
)

type createStudentRequest struct {
	Name    string `json:"name" binding:"required"`
	ClassID string `json:"classId" binding:"required"`
	Gender  string `json:"gender" binding:"required,oneof=M F"`
}

type bulkStudent struct {
	Name   string `json:"name" binding:"required"`
	RollNo int    `json:"rollNo" binding:"omitempty,gt=0"`
	Gender string `json:"gender" binding:"omitempty,oneof=M F"`
}

type bulkStudentsRequest struct {
	ClassID  string        `json:"classId" binding:"required"`
	Students []bulkStudent `json:"students" binding:"required,min=1,dive"`
}

// --- Student Handlers ---

// GetAllStudents handles GET /api/students
func (h *APIHandler) GetAllStudents(c *gin.Context) {
	students, err := h.Directory.ListStudents(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "Failed to retrieve students")
		return
	}
	if students == nil {
		students = []models.Student{}
	}
	c.JSON(http.StatusOK, students)
}

// GetStudentsByClass handles GET /api/students/class/:classId
func (h *APIHandler) GetStudentsByClass(c *gin.Context) {
	classID := c.Param("classId")
	ctx := c.Request.Context()

	if _, err := h.Directory.GetClass(ctx, classID); err != nil {
		h.respondError(c, err, "Failed to verify class")
		return
	}

	students, err := h.Directory.ListStudentsByClass(ctx, classID)
	if err != nil {
		h.respondError(c, err, "Failed to retrieve students for the class")
		return
	}
	if students == nil {
		students = []models.Student{}
	}
	c.JSON(http.StatusOK, students)
}

// AddStudent handles POST /api/students. The roll number is assigned by the directory.
func (h *APIHandler) AddStudent(c *gin.Context) {
	var req createStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	student := models.Student{
		Name:    strings.TrimSpace(req.Name),
		ClassID: strings.TrimSpace(req.ClassID),
		Gender:  req.Gender,
	}
	if err := h.Directory.CreateStudent(c.Request.Context(), &student); err != nil {
		h.respondError(c, err, "Failed to add student")
		return
	}
	c.JSON(http.StatusCreated, student)
}

// AddStudentsBulk handles POST /api/students/bulk
func (h *APIHandler) AddStudentsBulk(c *gin.Context) {
	var req bulkStudentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	students := make([]models.Student, 0, len(req.Students))
	for _, s := range req.Students {
		students = append(students, models.Student{
			Name:   strings.TrimSpace(s.Name),
			RollNo: s.RollNo,
			Gender: s.Gender,
		})
	}

	created, err := h.Directory.CreateStudentsBulk(c.Request.Context(), strings.TrimSpace(req.ClassID), students)
	if err != nil {
		h.respondError(c, err, "Failed to add students")
		return
	}
	c.JSON(http.StatusCreated, created)
}

// UpdateStudent handles PUT /api/students/:id
func (h *APIHandler) UpdateStudent(c *gin.Context) {
	var patch models.StudentPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		bindError(c, err)
		return
	}

	student, err := h.Directory.UpdateStudent(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		h.respondError(c, err, "Failed to update student")
		return
	}
	c.JSON(http.StatusOK, student)
}

// DeleteStudent handles DELETE /api/students/:id
func (h *APIHandler) DeleteStudent(c *gin.Context) {
	id := c.Param("id")
	if err := h.Directory.DeleteStudent(c.Request.Context(), id); err != nil {
		h.respondError(c, err, "Failed to delete student")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Student deleted", "id": id})
}

// --- Import Handler ---

// ImportStudents handles POST /api/import/students
func (h *APIHandler) ImportStudents(c *gin.Context) {
	classID := strings.TrimSpace(c.PostForm("classId"))
	if classID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing 'classId' in form data"})
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Error retrieving uploaded file: " + err.Error()})
		return
	}
	defer file.Close()

	log := h.log.With().Str("file", header.Filename).Str("class_id", classID).Logger()
	log.Info().Int64("size", header.Size).Msg("received roster upload")

	students, err := db.ParseRosterExcel(file, log)
	if err != nil {
		log.Warn().Err(err).Msg("roster file rejected")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read roster: " + err.Error()})
		return
	}
	if len(students) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "The roster file contains no students"})
		return
	}

	created, err := h.Directory.CreateStudentsBulk(c.Request.Context(), classID, students)
	if err != nil {
		h.respondError(c, err, "Failed to import students")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "Import successful",
		"importedCount": len(created),
		"classId":       classID,
	})
}
