package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"caseforge.app/caseforge/core/config"
)

// transportRetries bounds retries on transient Jira failures. The Jira
// Cloud API rate-limits aggressively, so the backoff stays conservative.
const transportRetries = 2

// IssueType is the classification of a tracker issue.
type IssueType struct {
	Name    string
	Subtask bool
}

// CreatedIssue identifies a subtask created on the tracker.
type CreatedIssue struct {
	Key string
	URL string
}

// Gateway is the tracker-side surface of a generation run: classify the
// parent, persist generated text, decompose into subtasks.
type Gateway interface {
	GetIssueType(ctx context.Context, issueKey string) (IssueType, error)
	UpdateGeneratedField(ctx context.Context, issueKey, raw string) error
	CreateSubtask(ctx context.Context, parentKey, title, body string) (CreatedIssue, error)
}

type jiraGateway struct {
	http          *retryablehttp.Client
	baseURL       string
	email         string
	apiToken      string
	testCaseField string
}

// NewJiraGateway creates a Gateway against the Jira Cloud REST v3 API.
func NewJiraGateway(cfg config.JiraConfig) Gateway {
	client := retryablehttp.NewClient()
	client.RetryMax = transportRetries
	client.RetryWaitMin = 500 * time.Millisecond
	client.RetryWaitMax = 5 * time.Second
	client.HTTPClient.Timeout = 30 * time.Second
	client.Logger = nil
	// The default handler discards the final response after exhausted
	// retries; callers need its status and body to build typed errors.
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &jiraGateway{
		http:          client,
		baseURL:       strings.TrimSuffix(cfg.BaseURL, "/"),
		email:         cfg.Email,
		apiToken:      cfg.APIToken,
		testCaseField: cfg.TestCaseField,
	}
}

func (g *jiraGateway) GetIssueType(ctx context.Context, issueKey string) (IssueType, error) {
	status, body, err := g.do(ctx, http.MethodGet, "/rest/api/3/issue/"+issueKey, nil)
	if err != nil {
		return IssueType{}, fmt.Errorf("fetching issue %s: %w", issueKey, err)
	}
	if status != http.StatusOK {
		return IssueType{}, &LookupError{IssueKey: issueKey, StatusCode: status, Body: string(body)}
	}

	var issue struct {
		Fields struct {
			IssueType struct {
				Name    string `json:"name"`
				Subtask bool   `json:"subtask"`
			} `json:"issuetype"`
		} `json:"fields"`
	}
	if err := json.Unmarshal(body, &issue); err != nil {
		return IssueType{}, fmt.Errorf("decoding issue %s: %w", issueKey, err)
	}

	return IssueType{
		Name:    issue.Fields.IssueType.Name,
		Subtask: issue.Fields.IssueType.Subtask,
	}, nil
}

func (g *jiraGateway) UpdateGeneratedField(ctx context.Context, issueKey, raw string) error {
	payload := map[string]any{
		"fields": map[string]any{
			g.testCaseField: DocumentFromText(raw),
		},
	}

	status, body, err := g.do(ctx, http.MethodPut, "/rest/api/3/issue/"+issueKey, payload)
	if err != nil {
		return fmt.Errorf("updating issue %s: %w", issueKey, err)
	}
	if status != http.StatusNoContent {
		return &UpdateError{IssueKey: issueKey, StatusCode: status, Body: string(body)}
	}

	slog.DebugContext(ctx, "generated field updated", "issue_key", issueKey, "field", g.testCaseField)
	return nil
}

func (g *jiraGateway) CreateSubtask(ctx context.Context, parentKey, title, body string) (CreatedIssue, error) {
	projectKey, _, _ := strings.Cut(parentKey, "-")

	payload := map[string]any{
		"fields": map[string]any{
			"project":     map[string]string{"key": projectKey},
			"parent":      map[string]string{"key": parentKey},
			"summary":     title,
			"description": DocumentFromText(body),
			"issuetype":   map[string]string{"name": "Sub-task"},
		},
	}

	status, respBody, err := g.do(ctx, http.MethodPost, "/rest/api/3/issue", payload)
	if err != nil {
		return CreatedIssue{}, fmt.Errorf("creating subtask under %s: %w", parentKey, err)
	}
	if status != http.StatusCreated && status != http.StatusOK {
		return CreatedIssue{}, &CreateError{ParentKey: parentKey, StatusCode: status, Body: string(respBody)}
	}

	var created struct {
		Key string `json:"key"`
	}
	if err := json.Unmarshal(respBody, &created); err != nil {
		return CreatedIssue{}, fmt.Errorf("decoding created subtask under %s: %w", parentKey, err)
	}

	return CreatedIssue{
		Key: created.Key,
		URL: g.baseURL + "/browse/" + created.Key,
	}, nil
}

// do issues one authenticated JSON request and returns the status and body.
// Transport-level failures (DNS, timeouts after retries) surface as errors;
// HTTP-level failures are the caller's to classify.
func (g *jiraGateway) do(ctx context.Context, method, path string, payload any) (int, []byte, error) {
	var reqBody io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("encoding payload: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, g.baseURL+path, reqBody)
	if err != nil {
		return 0, nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(g.email, g.apiToken)

	resp, err := g.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("reading response: %w", err)
	}

	return resp.StatusCode, body, nil
}
