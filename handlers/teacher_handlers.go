package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"prayer-attendance-server/db"
	"prayer-attendance-server/models"
)

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=4"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=4"`
}

// --- Teacher Handlers ---

// RegisterTeacher handles POST /api/teachers/register
func (h *APIHandler) RegisterTeacher(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.respondError(c, err, "Failed to register teacher")
		return
	}

	teacher := models.Teacher{
		Name:     strings.TrimSpace(req.Name),
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Password: string(hash),
	}
	if err := h.Directory.CreateTeacher(c.Request.Context(), &teacher); err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email is already registered"})
			return
		}
		h.respondError(c, err, "Failed to register teacher")
		return
	}

	c.JSON(http.StatusCreated, teacher)
}

// LoginTeacher handles POST /api/teachers/login
func (h *APIHandler) LoginTeacher(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	teacher, err := h.Directory.GetTeacherByEmail(c.Request.Context(), strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}
		h.respondError(c, err, "Failed to log in")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(teacher.Password), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}
	if !teacher.IsActive {
		c.JSON(http.StatusForbidden, gin.H{"error": "Account is disabled"})
		return
	}

	c.JSON(http.StatusOK, teacher)
}

// CountTeachers handles GET /api/teachers/count
func (h *APIHandler) CountTeachers(c *gin.Context) {
	n, err := h.Directory.CountTeachers(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "Failed to count teachers")
		return
	}

	available := int64(db.MaxTeachers) - n
	if available < 0 {
		available = 0
	}
	c.JSON(http.StatusOK, gin.H{
		"count":       n,
		"maxTeachers": db.MaxTeachers,
		"available":   available,
	})
}
