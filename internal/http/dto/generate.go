package dto

import (
	"fmt"

	"caseforge.app/caseforge/internal/service"
)

type GenerateRequest struct {
	IssueKey  string `json:"issue_key" binding:"required,min=1,max=255"`
	UserStory string `json:"user_story" binding:"required,min=1"`
}

type CreatedSubtask struct {
	Key string `json:"key"`
	URL string `json:"url,omitempty"`
}

type SubtaskFailure struct {
	Index  int    `json:"index"`
	Title  string `json:"title"`
	Reason string `json:"reason"`
}

type GenerateResponse struct {
	Message            string           `json:"message"`
	FieldUpdated       bool             `json:"field_updated"`
	CreatedSubtaskKeys []string         `json:"created_subtask_keys"`
	CreatedSubtasks    []CreatedSubtask `json:"created_subtasks"`
	Failed             []SubtaskFailure `json:"failed,omitempty"`
	Preview            string           `json:"preview"`
}

func ToGenerateResponse(r *service.Result) *GenerateResponse {
	resp := &GenerateResponse{
		Message:            fmt.Sprintf("Test cases successfully saved to %s", r.IssueKey),
		FieldUpdated:       r.FieldUpdated,
		CreatedSubtaskKeys: make([]string, 0, len(r.CreatedSubtasks)),
		CreatedSubtasks:    make([]CreatedSubtask, 0, len(r.CreatedSubtasks)),
		Preview:            r.Preview,
	}

	for _, created := range r.CreatedSubtasks {
		resp.CreatedSubtaskKeys = append(resp.CreatedSubtaskKeys, created.Key)
		resp.CreatedSubtasks = append(resp.CreatedSubtasks, CreatedSubtask{
			Key: created.Key,
			URL: created.URL,
		})
	}

	for _, failure := range r.Failed {
		resp.Failed = append(resp.Failed, SubtaskFailure{
			Index:  failure.Index,
			Title:  failure.Title,
			Reason: failure.Reason,
		})
	}

	return resp
}
