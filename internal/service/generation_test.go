package service_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"caseforge.app/caseforge/internal/llm"
	"caseforge.app/caseforge/internal/service"
	"caseforge.app/caseforge/internal/tracker"
)

var _ = Describe("GenerationService", func() {
	var (
		svc         service.GenerationService
		completions *mockCompletionClient
		gateway     *mockGateway
		ctx         context.Context
	)

	parentIssue := func(_ context.Context, _ string) (tracker.IssueType, error) {
		return tracker.IssueType{Name: "Story", Subtask: false}, nil
	}

	BeforeEach(func() {
		ctx = context.Background()
		completions = &mockCompletionClient{}
		gateway = &mockGateway{getIssueTypeFn: parentIssue}
		svc = service.NewGenerationService(completions, gateway)
	})

	Describe("target validation", func() {
		It("rejects a sub-task before any completion or write", func() {
			gateway.getIssueTypeFn = func(_ context.Context, _ string) (tracker.IssueType, error) {
				return tracker.IssueType{Name: "Sub-task", Subtask: true}, nil
			}

			_, err := svc.Generate(ctx, "PROJ-10", "story")

			var invalidTarget *service.InvalidTargetError
			Expect(errors.As(err, &invalidTarget)).To(BeTrue())
			Expect(invalidTarget.IssueKey).To(Equal("PROJ-10"))
			Expect(completions.calls).To(BeZero())
			Expect(gateway.updateCalls).To(BeEmpty())
			Expect(gateway.createCalls).To(BeEmpty())
		})

		It("propagates a lookup failure without calling the completion service", func() {
			gateway.getIssueTypeFn = func(_ context.Context, issueKey string) (tracker.IssueType, error) {
				return tracker.IssueType{}, &tracker.LookupError{IssueKey: issueKey, StatusCode: 404}
			}

			_, err := svc.Generate(ctx, "PROJ-404", "story")

			var lookupErr *tracker.LookupError
			Expect(errors.As(err, &lookupErr)).To(BeTrue())
			Expect(completions.calls).To(BeZero())
		})
	})

	Describe("completion failures", func() {
		It("aborts before any tracker write", func() {
			completions.completeFn = func(_ context.Context, _ llm.Request) (string, error) {
				return "", &llm.CompletionError{StatusCode: 500, Body: "upstream exploded"}
			}

			_, err := svc.Generate(ctx, "PROJ-10", "story")

			var completionErr *llm.CompletionError
			Expect(errors.As(err, &completionErr)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring("status 500"))
			Expect(gateway.updateCalls).To(BeEmpty())
			Expect(gateway.createCalls).To(BeEmpty())
		})
	})

	Describe("persistence ordering", func() {
		It("does not create subtasks when the field update fails", func() {
			completions.completeFn = func(_ context.Context, _ llm.Request) (string, error) {
				return "**TC1_Login:** steps", nil
			}
			gateway.updateFieldFn = func(_ context.Context, issueKey, _ string) error {
				return &tracker.UpdateError{IssueKey: issueKey, StatusCode: 400}
			}

			_, err := svc.Generate(ctx, "PROJ-10", "story")

			var updateErr *tracker.UpdateError
			Expect(errors.As(err, &updateErr)).To(BeTrue())
			Expect(gateway.createCalls).To(BeEmpty())
		})

		It("persists the raw text even when segmentation finds nothing", func() {
			completions.completeFn = func(_ context.Context, _ llm.Request) (string, error) {
				return "", nil
			}

			result, err := svc.Generate(ctx, "PROJ-10", "story")

			Expect(err).NotTo(HaveOccurred())
			Expect(gateway.updateCalls).To(Equal([]string{"PROJ-10"}))
			Expect(gateway.createCalls).To(BeEmpty())
			Expect(result.FieldUpdated).To(BeTrue())
			Expect(result.CreatedSubtasks).To(BeEmpty())
			Expect(result.Failed).To(BeEmpty())
		})
	})

	Describe("decomposition", func() {
		twoCases := "**TC1_Login:** valid credentials\n**TC2_WrongPassword:** invalid password"

		BeforeEach(func() {
			completions.completeFn = func(_ context.Context, _ llm.Request) (string, error) {
				return twoCases, nil
			}
		})

		It("creates one subtask per record in segmentation order", func() {
			counter := 0
			gateway.createSubtaskFn = func(_ context.Context, parentKey, title, _ string) (tracker.CreatedIssue, error) {
				Expect(parentKey).To(Equal("PROJ-10"))
				counter++
				key := fmt.Sprintf("PROJ-%d", 10+counter)
				return tracker.CreatedIssue{Key: key, URL: "https://jira.example.com/browse/" + key}, nil
			}

			result, err := svc.Generate(ctx, "PROJ-10", "As a user I can log in")

			Expect(err).NotTo(HaveOccurred())
			Expect(gateway.createCalls).To(Equal([]string{"TC1_Login", "TC2_WrongPassword"}))
			Expect(result.CreatedSubtasks).To(HaveLen(2))
			Expect(result.CreatedSubtasks[0].Key).To(Equal("PROJ-11"))
			Expect(result.CreatedSubtasks[1].Key).To(Equal("PROJ-12"))
			Expect(result.FieldUpdated).To(BeTrue())
		})

		It("continues with remaining records when one creation fails", func() {
			three := "**TC1_A:** a\n**TC2_B:** b\n**TC3_C:** c"
			completions.completeFn = func(_ context.Context, _ llm.Request) (string, error) {
				return three, nil
			}

			counter := 0
			gateway.createSubtaskFn = func(_ context.Context, parentKey, title, _ string) (tracker.CreatedIssue, error) {
				counter++
				if title == "TC2_B" {
					return tracker.CreatedIssue{}, &tracker.CreateError{ParentKey: parentKey, StatusCode: 400}
				}
				return tracker.CreatedIssue{Key: fmt.Sprintf("PROJ-%d", 10+counter)}, nil
			}

			result, err := svc.Generate(ctx, "PROJ-10", "story")

			Expect(err).NotTo(HaveOccurred())
			Expect(result.CreatedSubtasks).To(HaveLen(2))
			Expect(result.CreatedSubtasks[0].Key).To(Equal("PROJ-11"))
			Expect(result.CreatedSubtasks[1].Key).To(Equal("PROJ-13"))
			Expect(result.Failed).To(HaveLen(1))
			Expect(result.Failed[0].Index).To(Equal(1))
			Expect(result.Failed[0].Title).To(Equal("TC2_B"))
		})
	})

	Describe("preview", func() {
		It("bounds the preview to 300 characters with an ellipsis", func() {
			long := strings.Repeat("a", 400)
			completions.completeFn = func(_ context.Context, _ llm.Request) (string, error) {
				return long, nil
			}

			result, err := svc.Generate(ctx, "PROJ-10", "story")

			Expect(err).NotTo(HaveOccurred())
			Expect(result.Preview).To(Equal(strings.Repeat("a", 300) + "..."))
		})

		It("cuts multi-byte text on a rune boundary", func() {
			completions.completeFn = func(_ context.Context, _ llm.Request) (string, error) {
				return strings.Repeat("é", 400), nil
			}

			result, err := svc.Generate(ctx, "PROJ-10", "story")

			Expect(err).NotTo(HaveOccurred())
			Expect(utf8.ValidString(result.Preview)).To(BeTrue())
			Expect(result.Preview).To(Equal(strings.Repeat("é", 300) + "..."))
		})

		It("returns short raw text as-is", func() {
			completions.completeFn = func(_ context.Context, _ llm.Request) (string, error) {
				return "**TC1_Login:** steps", nil
			}

			result, err := svc.Generate(ctx, "PROJ-10", "story")

			Expect(err).NotTo(HaveOccurred())
			Expect(result.Preview).To(Equal("**TC1_Login:** steps"))
		})
	})
})
