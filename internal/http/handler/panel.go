package handler

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
)

// panelTemplate is the minimal page embedded in the Jira issue panel
// iframe. It posts the issue key and user story to the generate endpoint.
var panelTemplate = template.Must(template.New("panel").Parse(`<!DOCTYPE html>
<html>
<head>
  <title>caseforge</title>
  <style>
    body { font-family: sans-serif; margin: 1rem; }
    textarea { width: 100%; height: 6rem; }
    pre { white-space: pre-wrap; background: #f4f5f7; padding: 0.5rem; }
  </style>
</head>
<body>
  <h3>Generate test cases for {{.IssueKey}}</h3>
  <textarea id="story" placeholder="As a user I can ..."></textarea>
  <button onclick="generate()">Generate</button>
  <pre id="out"></pre>
  <script>
    async function generate() {
      const out = document.getElementById('out');
      out.textContent = 'Generating...';
      const resp = await fetch('/api/v1/testcases/generate', {
        method: 'POST',
        headers: {'Content-Type': 'application/json'},
        body: JSON.stringify({issue_key: {{.IssueKey}}, user_story: document.getElementById('story').value})
      });
      const data = await resp.json();
      out.textContent = data.error ? data.error : data.message + '\n\n' + data.preview;
    }
  </script>
</body>
</html>
`))

type PanelHandler struct{}

func NewPanelHandler() *PanelHandler {
	return &PanelHandler{}
}

// Panel serves the iframe page. The issue key arrives as a query parameter
// from the Jira panel integration.
func (h *PanelHandler) Panel(c *gin.Context) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)

	data := struct{ IssueKey string }{IssueKey: c.Query("issueKey")}
	if err := panelTemplate.Execute(c.Writer, data); err != nil {
		c.AbortWithStatus(http.StatusInternalServerError)
	}
}
