package types

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/killallgit/telehotels/pkg/errors"
)

// SendNotFound sends a standardized not found response
func SendNotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, ErrorResponse{Status: StatusError, Message: message})
}

// SendError maps err to its HTTP status and error code
func SendError(c *gin.Context, err error) {
	resp := ErrorResponse{
		Status:  StatusError,
		Message: err.Error(),
		Error:   string(apperrors.GetCode(err)),
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		resp.Message = appErr.Message
		resp.Details = appErr.Details
	}
	c.JSON(apperrors.GetHTTPCode(err), resp)
}

// SendSuccess sends a standardized success response with data
func SendSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}
