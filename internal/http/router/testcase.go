package router

import (
	"github.com/gin-gonic/gin"

	"caseforge.app/caseforge/internal/http/handler"
)

// TestCaseRouter sets up test-case generation routes.
func TestCaseRouter(rg *gin.RouterGroup, h *handler.GenerateHandler) {
	rg.POST("/generate", h.Generate)
}
