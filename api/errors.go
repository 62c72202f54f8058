package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// AppError carries an HTTP status alongside a user-facing message. Business
// rule failures (not found, conflict, validation) are raised as AppError;
// anything else is reported as a generic 500.
type AppError struct {
	Status  int
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

func NewAppError(status int, message string) *AppError {
	return &AppError{Status: status, Message: message}
}

func BadRequest(message string) *AppError {
	return &AppError{Status: http.StatusBadRequest, Message: message}
}

func Unauthorized(message string) *AppError {
	return &AppError{Status: http.StatusUnauthorized, Message: message}
}

func Forbidden(message string) *AppError {
	return &AppError{Status: http.StatusForbidden, Message: message}
}

func NotFound(message string) *AppError {
	return &AppError{Status: http.StatusNotFound, Message: message}
}

// Fail writes the error envelope for err. AppError values keep their status
// and message; everything else becomes a 500 with a generic message and the
// underlying error text in the error field.
func Fail(c *gin.Context, err error) {
	if appErr, ok := err.(*AppError); ok {
		c.JSON(appErr.Status, Response{
			Success: false,
			Message: appErr.Message,
			Error:   appErr.Message,
		})
		return
	}

	log.Printf("unexpected error on %s: %v", c.FullPath(), err)
	c.JSON(http.StatusInternalServerError, Response{
		Success: false,
		Message: "Something went wrong. Please try again later.",
		Error:   err.Error(),
	})
}
