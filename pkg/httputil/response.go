package httputil

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sigemech/admission-api/pkg/apperror"
)

// Response wraps all API responses
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *Error      `json:"error,omitempty"`
}

// Error carries the taxonomy code alongside the message so clients can
// branch without parsing text. Rule names the violated business rule.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Rule    string `json:"rule,omitempty"`
}

// RespondWithSuccess sends a success response
func RespondWithSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    data,
	})
}

// RespondWithCreated sends a success response for a newly created resource
func RespondWithCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Success: true,
		Data:    data,
	})
}

// RespondWithError maps the error taxonomy onto HTTP statuses. Internal
// details never reach the client.
func RespondWithError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	body := Error{Code: int(apperror.CodeInternal), Message: "internal error"}

	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status = statusFor(appErr.Code)
		body.Code = int(appErr.Code)
		body.Rule = appErr.Rule
		if appErr.Code != apperror.CodeInternal {
			body.Message = appErr.Message
		}
	}

	c.JSON(status, Response{Success: false, Error: &body})
}

func statusFor(code apperror.Code) int {
	switch code {
	case apperror.CodeValidation:
		return http.StatusBadRequest
	case apperror.CodeBusinessRule:
		return http.StatusUnprocessableEntity
	case apperror.CodeDuplicateIdentity:
		return http.StatusConflict
	case apperror.CodeNotFound:
		return http.StatusNotFound
	case apperror.CodeUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
