package handlers

import (
	"errors"
	"net/http"

	"parkslot/services"

	"github.com/gin-gonic/gin"
)

// APIResponse is the unified response envelope.
type APIResponse struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Code    string      `json:"code,omitempty"`
}

// SuccessResponse returns a successful envelope.
func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, APIResponse{
		Status:  true,
		Message: message,
		Data:    data,
	})
}

// ErrorResponse returns a failed envelope with a machine-readable code.
func ErrorResponse(c *gin.Context, statusCode int, message string, err string, code string) {
	c.JSON(statusCode, APIResponse{
		Status:  false,
		Message: message,
		Error:   err,
		Code:    code,
	})
}

// ServiceError maps a service-layer failure onto the right HTTP status
// and error code. Every failure returns control to the caller with an
// actionable message; nothing here is fatal.
func ServiceError(c *gin.Context, err error) {
	var validationErr *services.ValidationError
	var partialErr *services.PartialReleaseError

	switch {
	case errors.As(err, &validationErr):
		ErrorResponse(c, http.StatusBadRequest,
			"Invalid input", validationErr.Error(), "ERR_VALIDATION")
	case errors.As(err, &partialErr):
		// Distinct from a plain store failure: the store is now
		// inconsistent and needs reconciling before a retry.
		ErrorResponse(c, http.StatusBadGateway,
			"Release partially completed", partialErr.Error(), "ERR_PARTIAL_RELEASE")
	case errors.Is(err, services.ErrNotFound):
		ErrorResponse(c, http.StatusNotFound,
			"Not found", err.Error(), "ERR_NOT_FOUND")
	case errors.Is(err, services.ErrSlotUnavailable):
		ErrorResponse(c, http.StatusConflict,
			"Slot unavailable", err.Error(), "ERR_SLOT_UNAVAILABLE")
	case errors.Is(err, services.ErrStoreUnavailable):
		ErrorResponse(c, http.StatusServiceUnavailable,
			"Store unavailable, please retry", err.Error(), "ERR_STORE_UNAVAILABLE")
	default:
		ErrorResponse(c, http.StatusInternalServerError,
			"Internal error", err.Error(), "ERR_INTERNAL")
	}
}
