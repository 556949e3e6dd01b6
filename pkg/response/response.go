package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"todoflow/internal/task"
)

// NewOKResp returns a new OK response with the given data.
func NewOKResp(data any) Resp {
	return Resp{
		ErrorCode: 0,
		Message:   MessageSuccess,
		Data:      data,
	}
}

// OK sends 200 JSON with data.
func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, NewOKResp(data))
}

// Error sends an error response, mapping the task domain sentinels onto
// their service error codes. Unknown errors get a generic 400.
func Error(c *gin.Context, err error, data map[string]interface{}) {
	if data == nil {
		data = make(map[string]interface{})
	}

	status, code := codeFor(err)
	c.JSON(status, Resp{
		ErrorCode: code,
		Message:   err.Error(),
		Data:      data,
	})
}

func codeFor(err error) (status, code int) {
	switch {
	case errors.Is(err, task.ErrEmptyInput):
		return http.StatusBadRequest, EmptyInputCode
	case errors.Is(err, task.ErrEmptyImage):
		return http.StatusBadRequest, EmptyImageCode
	case errors.Is(err, task.ErrTaskNotFound):
		return http.StatusNotFound, TaskNotFoundCode
	case errors.Is(err, task.ErrSessionNotFound):
		return http.StatusGone, SessionNotFoundCode
	}
	return http.StatusBadRequest, BadRequestCode
}

// InternalError sends 500 internal server error.
func InternalError(c *gin.Context, err error) {
	c.JSON(http.StatusInternalServerError, Resp{
		ErrorCode: InternalServerErrorCode,
		Message:   DefaultErrorMessage,
	})
}

// Unauthorized sends 401 response.
func Unauthorized(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, Resp{
		ErrorCode: UnauthorizedCode,
		Message:   "Unauthorized",
	})
}

// Forbidden sends 403 response.
func Forbidden(c *gin.Context) {
	c.JSON(http.StatusForbidden, Resp{
		ErrorCode: ForbiddenCode,
		Message:   "Forbidden",
	})
}

// TooManyRequests sends 429 response.
func TooManyRequests(c *gin.Context) {
	c.JSON(http.StatusTooManyRequests, Resp{
		ErrorCode: TooManyRequestsCode,
		Message:   "Too many requests",
	})
}
