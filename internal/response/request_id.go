package response

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ContextKeyRequestID is the Gin context key for the request ID.
const ContextKeyRequestID = "request_id"

// ContextKeyRequestStart is the Gin context key for the request start time,
// used to stamp per-request latency into the response metadata.
const ContextKeyRequestStart = "request_start"

// RequestIDMiddleware tags every request with a unique ID and records its
// arrival time. An X-Request-ID supplied by the caller (the terminal client
// sends one per poll) is honored so its logs can be correlated with ours.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader("X-Request-ID")
		if reqID == "" {
			reqID = uuid.New().String()
		}
		c.Set(ContextKeyRequestID, reqID)
		c.Set(ContextKeyRequestStart, time.Now())
		c.Header("X-Request-ID", reqID)
		c.Next()
	}
}
