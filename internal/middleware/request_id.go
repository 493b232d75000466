package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader is the HTTP header for request ID.
const RequestIDHeader = "X-Request-ID"

const contextRequestIDKey = "request_id"

// RequestID tags every request with a unique ID. An incoming
// X-Request-ID is kept; otherwise a new UUID is generated. The ID is
// echoed on the response.
func RequestID() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		requestID := ctx.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		ctx.Set(contextRequestIDKey, requestID)
		ctx.Header(RequestIDHeader, requestID)

		ctx.Next()
	}
}

// GetRequestID retrieves the request ID set by RequestID.
func GetRequestID(ctx *gin.Context) string {
	return ctx.GetString(contextRequestIDKey)
}
