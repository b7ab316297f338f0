package common

import (
	"errors"
	"net/http"

	pkglogger "github.com/estatehub/estatehub-backend/pkg/logger"
	"github.com/gin-gonic/gin"
)

// APIResponse standard response envelope
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

// Meta pagination metadata
type Meta struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
}

// ErrorInfo error details
type ErrorInfo struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// NewMeta creates Meta with computed total_pages
func NewMeta(page, pageSize int, total int64) *Meta {
	var totalPages int64
	if pageSize > 0 {
		totalPages = total / int64(pageSize)
		if total%int64(pageSize) > 0 {
			totalPages++
		}
	}
	return &Meta{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}
}

// Success returns a 200 response
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// SuccessWithMeta returns a 200 response with pagination
func SuccessWithMeta(c *gin.Context, data interface{}, meta *Meta) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data, Meta: meta})
}

// Created returns a 201 response
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// ErrorResponse writes an error envelope
func ErrorResponse(c *gin.Context, status int, message string, details interface{}) {
	c.JSON(status, APIResponse{
		Success: false,
		Error: &ErrorInfo{
			Code:    getErrorCode(status),
			Message: message,
			Details: details,
		},
	})
}

// AbortWithError maps a service error to a status and aborts the request.
// Unknown errors become 500 and their message is only logged.
func AbortWithError(c *gin.Context, err error) {
	status, message, details := classify(err)
	if status >= http.StatusInternalServerError {
		pkglogger.FromContext(c.Request.Context()).Error().Err(err).
			Str("path", c.Request.URL.Path).
			Msg("request failed")
	}
	ErrorResponse(c, status, message, details)
	c.Abort()
}

// StatusOf returns the HTTP status AbortWithError would use
func StatusOf(err error) int {
	status, _, _ := classify(err)
	return status
}

func classify(err error) (int, string, interface{}) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, "validation failed", verr.Fields
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest, err.Error(), nil
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, err.Error(), nil
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden, err.Error(), nil
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, err.Error(), nil
	case errors.Is(err, ErrConflict):
		return http.StatusConflict, err.Error(), nil
	case errors.Is(err, ErrPaymentVerification):
		return http.StatusPaymentRequired, err.Error(), nil
	case errors.Is(err, ErrGatewayUnavailable):
		return http.StatusServiceUnavailable, err.Error(), nil
	default:
		return http.StatusInternalServerError, "internal server error", nil
	}
}

// getErrorCode generates error code from HTTP status
func getErrorCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "BAD_REQUEST"
	case http.StatusUnauthorized:
		return "UNAUTHORIZED"
	case http.StatusPaymentRequired:
		return "PAYMENT_VERIFICATION_FAILED"
	case http.StatusForbidden:
		return "FORBIDDEN"
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusConflict:
		return "CONFLICT"
	case http.StatusRequestEntityTooLarge:
		return "PAYLOAD_TOO_LARGE"
	case http.StatusTooManyRequests:
		return "RATE_LIMIT_EXCEEDED"
	case http.StatusInternalServerError:
		return "INTERNAL_SERVER_ERROR"
	case http.StatusServiceUnavailable:
		return "SERVICE_UNAVAILABLE"
	default:
		return "ERROR"
	}
}
