package middleware

import "github.com/gin-gonic/gin"

// AllowIframe permits the panel to be embedded in the Jira issue view
// iframe. Applied to every response, matching the tracker integration's
// embedding requirements.
func AllowIframe() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "ALLOWALL")
		c.Next()
	}
}
