package segment

import (
	"regexp"
	"strings"
)

// TitleLimit caps record titles at Jira's practical summary length.
const TitleLimit = 50

// markerPattern matches bold test-case headers emitted by the completion
// model. Examples: "**TC1_Login:**", "**TC 3 - invalid password**",
// "**Test Case 2: empty input**". The title is the text inside the bold
// marker, without a trailing colon.
var markerPattern = regexp.MustCompile(`(?i)\*\*\s*((?:TC\s*_?\d+|Test\s*Case\s*\d*)[^*\n]*?)\s*:?\s*\*\*:?`)

// Record is one extracted test case. Records map 1:1 to subtasks created on
// the tracker, in appearance order.
type Record struct {
	Title string
	Body  string
}

// Segment splits raw completion text into an ordered sequence of records.
//
// The primary heuristic is marker-based: every bold test-case header starts
// a record, and the record's body is everything between its header and the
// next one (or end of text). A header at the very end of the text yields a
// record with an empty body rather than being discarded.
//
// When the text contains no markers, segmentation falls back to one record
// per non-blank line, titled by the line's first TitleLimit characters.
// All-blank input yields an empty sequence.
func Segment(raw string) []Record {
	matches := markerPattern.FindAllStringSubmatchIndex(raw, -1)
	if len(matches) == 0 {
		return segmentLines(raw)
	}

	records := make([]Record, 0, len(matches))
	for i, m := range matches {
		title := strings.TrimSpace(raw[m[2]:m[3]])
		title = strings.TrimSuffix(title, ":")

		bodyEnd := len(raw)
		if i+1 < len(matches) {
			bodyEnd = matches[i+1][0]
		}
		body := strings.TrimSpace(raw[m[1]:bodyEnd])

		records = append(records, Record{
			Title: truncate(title, TitleLimit),
			Body:  body,
		})
	}
	return records
}

// segmentLines is the zero-marker fallback: one record per non-blank line.
func segmentLines(raw string) []Record {
	var records []Record
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		records = append(records, Record{
			Title: truncate(line, TitleLimit),
			Body:  line,
		})
	}
	return records
}

// truncate caps s at limit characters, never splitting a multi-byte rune.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
