package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Error   string    `json:"error,omitempty"`
}

type SuccessResponse struct {
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

var errorStatusMap = map[ErrorCode]int{
	ErrInternal: http.StatusInternalServerError,
	ErrDatabase: http.StatusInternalServerError,
	ErrStorage:  http.StatusBadGateway,
	ErrTimeout:  http.StatusRequestTimeout,

	ErrUnauthorized:       http.StatusUnauthorized,
	ErrForbidden:          http.StatusForbidden,
	ErrInvalidToken:       http.StatusUnauthorized,
	ErrTokenExpired:       http.StatusUnauthorized,
	ErrInvalidCredentials: http.StatusUnauthorized,

	ErrBadRequest:       http.StatusBadRequest,
	ErrValidation:       http.StatusBadRequest,
	ErrResourceNotFound: http.StatusNotFound,
	ErrResourceExists:   http.StatusConflict,
	ErrResourceConflict: http.StatusConflict,

	ErrUserNotFound:   http.StatusNotFound,
	ErrUserExists:     http.StatusConflict,
	ErrEmailExists:    http.StatusConflict,
	ErrPostNotFound:   http.StatusNotFound,
	ErrProfileMissing: http.StatusConflict,
}

// StatusOf maps err to an HTTP status.
func StatusOf(err error) int {
	if appErr, ok := As(err); ok {
		if status := errorStatusMap[appErr.Code]; status != 0 {
			return status
		}
	}
	return http.StatusInternalServerError
}

// HandleError writes err as a JSON error envelope and records it on the gin
// context for the error monitor.
func HandleError(c *gin.Context, err error) {
	_ = c.Error(err)

	if appErr, ok := As(err); ok {
		resp := ErrorResponse{
			Code:    appErr.Code,
			Message: appErr.Message,
		}
		if appErr.Err != nil {
			resp.Error = appErr.Err.Error()
		}
		c.JSON(StatusOf(appErr), resp)
		return
	}

	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Code:    ErrInternal,
		Message: "Internal Server Error",
		Error:   err.Error(),
	})
}

// HandleSuccess writes data in the success envelope.
func HandleSuccess(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, SuccessResponse{
		Code:    http.StatusOK,
		Message: message,
		Data:    data,
	})
}

// HandleCreated is HandleSuccess with 201 Created.
func HandleCreated(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusCreated, SuccessResponse{
		Code:    http.StatusCreated,
		Message: message,
		Data:    data,
	})
}
