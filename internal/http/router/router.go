package router

import (
	"github.com/gin-gonic/gin"

	"caseforge.app/caseforge/internal/http/handler"
	"caseforge.app/caseforge/internal/service"
)

func SetupRoutes(router *gin.Engine, generation service.GenerationService) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	panelHandler := handler.NewPanelHandler()
	router.GET("/panel", panelHandler.Panel)

	v1 := router.Group("/api/v1")
	{
		generateHandler := handler.NewGenerateHandler(generation)
		TestCaseRouter(v1.Group("/testcases"), generateHandler)
	}
}
