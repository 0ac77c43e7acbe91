package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"caseforge.app/caseforge/internal/http/dto"
	"caseforge.app/caseforge/internal/llm"
	"caseforge.app/caseforge/internal/service"
	"caseforge.app/caseforge/internal/tracker"
)

type GenerateHandler struct {
	generation service.GenerationService
}

func NewGenerateHandler(generation service.GenerationService) *GenerateHandler {
	return &GenerateHandler{generation: generation}
}

func (h *GenerateHandler) Generate(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.generation.Generate(ctx, req.IssueKey, req.UserStory)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.ToGenerateResponse(result))
}

// statusFor maps the generation error taxonomy onto HTTP statuses. Every
// branch surfaces the underlying message; nothing here crashes the process.
func statusFor(err error) int {
	var invalidTarget *service.InvalidTargetError
	if errors.As(err, &invalidTarget) {
		return http.StatusUnprocessableEntity
	}

	var completionErr *llm.CompletionError
	if errors.As(err, &completionErr) {
		return http.StatusBadGateway
	}

	var lookupErr *tracker.LookupError
	var updateErr *tracker.UpdateError
	var createErr *tracker.CreateError
	if errors.As(err, &lookupErr) || errors.As(err, &updateErr) || errors.As(err, &createErr) {
		return http.StatusBadGateway
	}

	return http.StatusInternalServerError
}
