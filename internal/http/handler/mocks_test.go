package handler_test

import (
	"context"

	"caseforge.app/caseforge/internal/service"
)

type mockGenerationService struct {
	generateFn func(ctx context.Context, issueKey, userStory string) (*service.Result, error)
}

func (m *mockGenerationService) Generate(ctx context.Context, issueKey, userStory string) (*service.Result, error) {
	if m.generateFn != nil {
		return m.generateFn(ctx, issueKey, userStory)
	}
	return &service.Result{}, nil
}
