package tracker

import "fmt"

// LookupError reports a failed issue read. The message carries the issue
// key so a failed run names the issue it was inspecting.
type LookupError struct {
	IssueKey   string
	StatusCode int
	Body       string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("fetching issue %s failed with status %d: %s", e.IssueKey, e.StatusCode, e.Body)
}

// UpdateError reports a failed field update on the parent issue.
type UpdateError struct {
	IssueKey   string
	StatusCode int
	Body       string
}

func (e *UpdateError) Error() string {
	return fmt.Sprintf("updating issue %s failed with status %d: %s", e.IssueKey, e.StatusCode, e.Body)
}

// CreateError reports a failed subtask creation under the parent issue.
type CreateError struct {
	ParentKey  string
	StatusCode int
	Body       string
}

func (e *CreateError) Error() string {
	return fmt.Sprintf("creating subtask under %s failed with status %d: %s", e.ParentKey, e.StatusCode, e.Body)
}
