package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"prayer-attendance-server/attendance"
	"prayer-attendance-server/models"
)

// Directory is the class, student and teacher store behind the API.
// *db.DirectoryService implements it.
type Directory interface {
	CountTeachers(ctx context.Context) (int64, error)
	GetTeacherByEmail(ctx context.Context, email string) (*models.Teacher, error)
	CreateTeacher(ctx context.Context, t *models.Teacher) error

	ListClasses(ctx context.Context) ([]models.ClassGroup, error)
	GetClass(ctx context.Context, id string) (*models.Clazz, error)
	CreateClass(ctx context.Context, c *models.Clazz) error
	UpdateClass(ctx context.Context, id, name string) (*models.Clazz, error)
	DeleteClass(ctx context.Context, id string) error

	ListStudents(ctx context.Context) ([]models.Student, error)
	ListStudentsByClass(ctx context.Context, classID string) ([]models.Student, error)
	GetStudent(ctx context.Context, id string) (*models.Student, error)
	CreateStudent(ctx context.Context, st *models.Student) error
	CreateStudentsBulk(ctx context.Context, classID string, students []models.Student) ([]models.Student, error)
	UpdateStudent(ctx context.Context, id string, patch models.StudentPatch) (*models.Student, error)
	DeleteStudent(ctx context.Context, id string) error
	RosterByClass(ctx context.Context) (map[string][]models.Student, error)
}

// HealthCheck reports whether a backing service is reachable.
type HealthCheck func(ctx context.Context) error

// APIHandler holds the dependencies for API handlers
type APIHandler struct {
	Directory  Directory
	Attendance *attendance.Service
	Checks     map[string]HealthCheck
	log        zerolog.Logger
}

// NewAPIHandler creates a new APIHandler
func NewAPIHandler(dir Directory, svc *attendance.Service, log zerolog.Logger) *APIHandler {
	return &APIHandler{
		Directory:  dir,
		Attendance: svc,
		Checks:     map[string]HealthCheck{},
		log:        log.With().Str("component", "api").Logger(),
	}
}

// --- Ping Handler ---

// Ping handles GET /api/ping and runs every registered health check
func (h *APIHandler) Ping(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := gin.H{}
	for name, check := range h.Checks {
		if err := check(ctx); err != nil {
			h.log.Warn().Err(err).Str("check", name).Msg("health check failed")
			checks[name] = "unavailable"
			status = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}

	c.JSON(status, gin.H{"message": "Pong!", "checks": checks})
}
