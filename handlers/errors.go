package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"prayer-attendance-server/attendance"
	"prayer-attendance-server/db"
	"prayer-attendance-server/logging"
	"prayer-attendance-server/models"
)

// respondError maps service errors onto HTTP statuses. Unexpected errors are
// logged and answered with the generic message.
func (h *APIHandler) respondError(c *gin.Context, err error, generic string) {
	switch {
	case errors.Is(err, db.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": notFoundMessage(err)})
	case errors.Is(err, db.ErrDuplicate):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, db.ErrTeacherLimit):
		c.JSON(http.StatusForbidden, gin.H{"error": fmt.Sprintf("Maximum of %d teachers reached", db.MaxTeachers)})
	case errors.Is(err, attendance.ErrInvalidMark), errors.Is(err, models.ErrUnknownPrayer):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, db.ErrStoreConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "Attendance was changed by someone else, please try again"})
	default:
		h.log.Error().Err(err).
			Str("path", c.FullPath()).
			Str("request_id", logging.RequestID(c)).
			Msg(generic)
		c.JSON(http.StatusInternalServerError, gin.H{"error": generic})
	}
}

func notFoundMessage(err error) string {
	if msg := err.Error(); msg != db.ErrNotFound.Error() {
		return msg
	}
	return "Not found"
}

// bindError answers a request body that failed to bind or validate.
func bindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			details = append(details, describeField(fe))
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": details})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
}

// useJSONFieldNames makes validation errors name fields the way clients send them.
func useJSONFieldNames() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
}

func describeField(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "min":
		if fe.Kind() == reflect.Slice || fe.Kind() == reflect.Map {
			return fmt.Sprintf("%s must contain at least %s items", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	}
	return fmt.Sprintf("%s failed on %s", field, fe.Tag())
}
