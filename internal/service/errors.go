package service

import "fmt"

// InvalidTargetError rejects a generation run whose target issue is itself
// a subtask. Subtasks cannot parent further subtasks, so the run stops
// before any completion call or tracker write.
type InvalidTargetError struct {
	IssueKey string
}

func (e *InvalidTargetError) Error() string {
	return fmt.Sprintf("cannot generate test cases for %s because it is a sub-task; use a parent Story or Task", e.IssueKey)
}
