package service

import (
	"context"
	"fmt"
	"log/slog"

	"caseforge.app/caseforge/common/logger"
	"caseforge.app/caseforge/internal/llm"
	"caseforge.app/caseforge/internal/segment"
	"caseforge.app/caseforge/internal/tracker"
)

// previewLimit bounds the raw-text preview returned to the caller.
const previewLimit = 300

// SubtaskFailure records one subtask creation that failed during
// decomposition. Siblings created before and after it are unaffected.
type SubtaskFailure struct {
	Index  int
	Title  string
	Reason string
}

// Result is the outcome of one generation run. CreatedSubtasks preserves
// segmentation order; its length equals the record count minus len(Failed).
type Result struct {
	IssueKey        string
	FieldUpdated    bool
	CreatedSubtasks []tracker.CreatedIssue
	Failed          []SubtaskFailure
	Preview         string
}

// GenerationService turns a user story into generated test cases on the
// tracker: validate the target, generate, segment, persist the field, then
// decompose into subtasks.
type GenerationService interface {
	Generate(ctx context.Context, issueKey, userStory string) (*Result, error)
}

type generationService struct {
	completions llm.Client
	tracker     tracker.Gateway
}

func NewGenerationService(completions llm.Client, gateway tracker.Gateway) GenerationService {
	return &generationService{
		completions: completions,
		tracker:     gateway,
	}
}

// Generate runs the five steps strictly in order. Each step has an
// externally visible side effect, so a step's success is a precondition for
// the next: no completion call for an invalid target, no subtasks over
// content that was never persisted on the parent.
func (s *generationService) Generate(ctx context.Context, issueKey, userStory string) (*Result, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		IssueKey:  logger.Ptr(issueKey),
		Component: "caseforge.service.generation",
	})

	issueType, err := s.tracker.GetIssueType(ctx, issueKey)
	if err != nil {
		slog.ErrorContext(ctx, "failed to classify target issue", "error", err)
		return nil, fmt.Errorf("classifying issue: %w", err)
	}
	if issueType.Subtask {
		slog.InfoContext(ctx, "generation rejected: target is a sub-task")
		return nil, &InvalidTargetError{IssueKey: issueKey}
	}

	raw, err := s.completions.Complete(ctx, llm.Request{UserStory: userStory})
	if err != nil {
		slog.ErrorContext(ctx, "completion failed", "error", err)
		return nil, fmt.Errorf("generating test cases: %w", err)
	}

	records := segment.Segment(raw)
	slog.InfoContext(ctx, "completion segmented",
		"records", len(records),
		"raw_len", len(raw))

	if err := s.tracker.UpdateGeneratedField(ctx, issueKey, raw); err != nil {
		slog.ErrorContext(ctx, "failed to persist generated field", "error", err)
		return nil, fmt.Errorf("persisting generated field: %w", err)
	}

	result := &Result{
		IssueKey:     issueKey,
		FieldUpdated: true,
		Preview:      preview(raw, previewLimit),
	}

	// Sequential on purpose: subtask keys come from the project's issue
	// sequence, and the response preserves segmentation order.
	for i, record := range records {
		created, err := s.tracker.CreateSubtask(ctx, issueKey, record.Title, record.Body)
		if err != nil {
			slog.WarnContext(ctx, "subtask creation failed, continuing with remaining records",
				"index", i,
				"title", record.Title,
				"error", err)
			result.Failed = append(result.Failed, SubtaskFailure{
				Index:  i,
				Title:  record.Title,
				Reason: err.Error(),
			})
			continue
		}
		result.CreatedSubtasks = append(result.CreatedSubtasks, created)
	}

	slog.InfoContext(ctx, "generation run finished",
		"created", len(result.CreatedSubtasks),
		"failed", len(result.Failed))

	return result, nil
}

// preview caps raw completion text at limit characters for the response,
// cutting on a rune boundary and appending "..." only when text was dropped.
func preview(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
