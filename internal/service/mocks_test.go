package service_test

import (
	"context"

	"caseforge.app/caseforge/internal/llm"
	"caseforge.app/caseforge/internal/tracker"
)

type mockCompletionClient struct {
	completeFn func(ctx context.Context, req llm.Request) (string, error)
	calls      int
}

func (m *mockCompletionClient) Complete(ctx context.Context, req llm.Request) (string, error) {
	m.calls++
	if m.completeFn != nil {
		return m.completeFn(ctx, req)
	}
	return "", nil
}

func (m *mockCompletionClient) Model() string {
	return "mock-model"
}

type mockGateway struct {
	getIssueTypeFn  func(ctx context.Context, issueKey string) (tracker.IssueType, error)
	updateFieldFn   func(ctx context.Context, issueKey, raw string) error
	createSubtaskFn func(ctx context.Context, parentKey, title, body string) (tracker.CreatedIssue, error)

	updateCalls []string
	createCalls []string
}

func (m *mockGateway) GetIssueType(ctx context.Context, issueKey string) (tracker.IssueType, error) {
	if m.getIssueTypeFn != nil {
		return m.getIssueTypeFn(ctx, issueKey)
	}
	return tracker.IssueType{}, nil
}

func (m *mockGateway) UpdateGeneratedField(ctx context.Context, issueKey, raw string) error {
	m.updateCalls = append(m.updateCalls, issueKey)
	if m.updateFieldFn != nil {
		return m.updateFieldFn(ctx, issueKey, raw)
	}
	return nil
}

func (m *mockGateway) CreateSubtask(ctx context.Context, parentKey, title, body string) (tracker.CreatedIssue, error) {
	m.createCalls = append(m.createCalls, title)
	if m.createSubtaskFn != nil {
		return m.createSubtaskFn(ctx, parentKey, title, body)
	}
	return tracker.CreatedIssue{}, nil
}
