// internal/utils/response.go
package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/procurehub/orders-backend/internal/apperrors"
)

// APIResponse is the uniform envelope: {"status": true, ...data} on success,
// {"status": false, "error": "..."} on failure.
type APIResponse struct {
	Status bool        `json:"status"`
	Data   interface{} `json:"data,omitempty"`
	Error  string      `json:"error,omitempty"`
	Meta   interface{} `json:"meta,omitempty"`
}

func SuccessResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{
		Status: true,
		Data:   data,
	})
}

func SuccessResponseWithMeta(c *gin.Context, data interface{}, meta interface{}) {
	c.JSON(http.StatusOK, APIResponse{
		Status: true,
		Data:   data,
		Meta:   meta,
	})
}

func CreatedResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{
		Status: true,
		Data:   data,
	})
}

func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, APIResponse{
		Status: false,
		Error:  message,
	})
}

// AppErrorResponse maps a service error kind to its HTTP status and writes
// the failure envelope. Unavailable additionally signals that a retry is
// safe.
func AppErrorResponse(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"

	switch apperrors.KindOf(err) {
	case apperrors.KindValidation, apperrors.KindEmptyBasket:
		status = http.StatusBadRequest
		message = err.Error()
	case apperrors.KindAuth:
		status = http.StatusUnauthorized
		message = err.Error()
	case apperrors.KindForbidden:
		status = http.StatusForbidden
		message = err.Error()
	case apperrors.KindNotFound:
		status = http.StatusNotFound
		message = err.Error()
	case apperrors.KindConflict:
		status = http.StatusConflict
		message = err.Error()
	case apperrors.KindUnavailable:
		status = http.StatusServiceUnavailable
		message = err.Error()
		c.Header("Retry-After", "1")
	}

	ErrorResponse(c, status, message)
}

func BadRequestResponse(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusBadRequest, message)
}

func UnauthorizedResponse(c *gin.Context, message string) {
	if message == "" {
		message = "authentication required"
	}
	ErrorResponse(c, http.StatusUnauthorized, message)
}

func ForbiddenResponse(c *gin.Context, message string) {
	if message == "" {
		message = "access denied"
	}
	ErrorResponse(c, http.StatusForbidden, message)
}

func NotFoundResponse(c *gin.Context, message string) {
	if message == "" {
		message = "not found"
	}
	ErrorResponse(c, http.StatusNotFound, message)
}

func PaginatedResponse(c *gin.Context, result PaginationResult) {
	SetPaginationHeaders(c, result)
	SuccessResponseWithMeta(c, result.Data, gin.H{
		"pagination": gin.H{
			"page":        result.Page,
			"limit":       result.Limit,
			"total":       result.Total,
			"total_pages": result.TotalPages,
		},
	})
}

func GetUserIDFromContext(c *gin.Context) (string, bool) {
	if userID, exists := c.Get("user_id"); exists {
		if userIDStr, ok := userID.(string); ok {
			return userIDStr, true
		}
	}
	return "", false
}

func GetUserTypeFromContext(c *gin.Context) (string, bool) {
	if userType, exists := c.Get("user_type"); exists {
		if userTypeStr, ok := userType.(string); ok {
			return userTypeStr, true
		}
	}
	return "", false
}
