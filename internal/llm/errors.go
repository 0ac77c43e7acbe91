package llm

import "fmt"

// CompletionError reports a failed completion call. StatusCode is zero when
// the upstream response never arrived or carried no choices.
type CompletionError struct {
	StatusCode int
	Body       string
}

func (e *CompletionError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("completion failed: %s", e.Body)
	}
	return fmt.Sprintf("completion failed with status %d: %s", e.StatusCode, e.Body)
}
