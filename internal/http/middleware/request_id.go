package middleware

import (
	"github.com/gin-gonic/gin"

	"caseforge.app/caseforge/common/id"
	"caseforge.app/caseforge/common/logger"
)

const requestIDHeader = "X-Request-Id"

// RequestID assigns a snowflake ID to each request, echoes it in the
// response header, and enriches the request context so every log line in
// the run carries it.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = id.NewString()
		}

		ctx := logger.WithLogFields(c.Request.Context(), logger.LogFields{
			RequestID: logger.Ptr(requestID),
		})
		c.Request = c.Request.WithContext(ctx)

		c.Header(requestIDHeader, requestID)
		c.Next()
	}
}
