package tracker

import "strings"

// Document is an Atlassian Document Format (ADF) rich-text document, the
// structure Jira Cloud expects for description and custom text fields.
type Document struct {
	Type    string `json:"type"`
	Version int    `json:"version"`
	Content []Node `json:"content"`
}

type Node struct {
	Type    string   `json:"type"`
	Content []Inline `json:"content,omitempty"`
}

type Inline struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// DocumentFromText maps plain text to an ADF document: each non-blank line
// becomes one paragraph holding a single text run.
func DocumentFromText(text string) Document {
	doc := Document{Type: "doc", Version: 1, Content: []Node{}}

	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		doc.Content = append(doc.Content, Node{
			Type:    "paragraph",
			Content: []Inline{{Type: "text", Text: line}},
		})
	}

	return doc
}
