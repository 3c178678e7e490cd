package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"prayer-attendance-server/models"
)

type createClassRequest struct {
	ID   string `json:"id" binding:"required,max=50"`
	Name string `json:"name" binding:"required"`
}

type renameClassRequest struct {
	Name string `json:"name" binding:"required"`
}

// --- Class Handlers ---

// GetAllClasses handles GET /api/classes
func (h *APIHandler) GetAllClasses(c *gin.Context) {
	classes, err := h.Directory.ListClasses(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "Failed to retrieve classes")
		return
	}
	if classes == nil {
		// Return empty list instead of null for JSON consistency
		classes = []models.ClassGroup{}
	}
	c.JSON(http.StatusOK, classes)
}

// GetClassByID handles GET /api/classes/:id
func (h *APIHandler) GetClassByID(c *gin.Context) {
	clazz, err := h.Directory.GetClass(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err, "Failed to retrieve class details")
		return
	}
	c.JSON(http.StatusOK, clazz)
}

// AddClass handles POST /api/classes
func (h *APIHandler) AddClass(c *gin.Context) {
	var req createClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	clazz := models.Clazz{ID: strings.TrimSpace(req.ID), Name: strings.TrimSpace(req.Name)}
	if clazz.ID == "" || clazz.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Class ID and Name are required"})
		return
	}

	if err := h.Directory.CreateClass(c.Request.Context(), &clazz); err != nil {
		h.respondError(c, err, "Failed to add class")
		return
	}
	c.JSON(http.StatusCreated, clazz)
}

// UpdateClass handles PUT /api/classes/:id
func (h *APIHandler) UpdateClass(c *gin.Context) {
	var req renameClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Class name is required"})
		return
	}

	clazz, err := h.Directory.UpdateClass(c.Request.Context(), c.Param("id"), name)
	if err != nil {
		h.respondError(c, err, "Failed to update class")
		return
	}
	c.JSON(http.StatusOK, clazz)
}

// DeleteClass handles DELETE /api/classes/:id. The class's students go with it.
func (h *APIHandler) DeleteClass(c *gin.Context) {
	id := c.Param("id")
	if err := h.Directory.DeleteClass(c.Request.Context(), id); err != nil {
		h.respondError(c, err, "Failed to delete class")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Class deleted", "id": id})
}
