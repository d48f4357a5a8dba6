// Package analyze recovers a structured commit analysis from the model's
// free-form response and assembles the final commit message.
package analyze

import (
	"encoding/json"
	"errors"
	"strings"
)

// Unknown is the sentinel the model is instructed to return for a field it
// cannot determine from the diff.
const Unknown = "unknown"

// Analysis is the structured result parsed from the model response.
// Fields equal to "" or "unknown" are undetermined and must be resolved
// before a commit message can be assembled.
type Analysis struct {
	CPU     string   `json:"cpu"`
	Machine string   `json:"machine"`
	Type    string   `json:"type"`
	Title   string   `json:"title"`
	Details []string `json:"details"`
}

// Field names one of the enumerated analysis fields.
type Field string

const (
	FieldCPU     Field = "cpu"
	FieldMachine Field = "machine"
	FieldType    Field = "type"
)

// ParseError reports that no JSON object could be recovered from the model
// response. Callers treat it like a service failure: skip the category.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return "parse analysis: " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Extract parses the first balanced brace-delimited substring of content as
// JSON. The model usually wraps the object in prose or a markdown fence, so
// the surrounding text is ignored. Returns *ParseError when no object is
// found or the object does not unmarshal.
func Extract(content string) (*Analysis, error) {
	obj, ok := firstObject(content)
	if !ok {
		return nil, &ParseError{Err: errors.New("no JSON object in response")}
	}
	var a Analysis
	if err := json.Unmarshal([]byte(obj), &a); err != nil {
		return nil, &ParseError{Err: err}
	}
	return &a, nil
}

// firstObject returns the first balanced {...} substring of s. The scan is
// string-literal aware so braces inside JSON strings do not affect depth.
func firstObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}
	depth := 0
	inStr := false
	esc := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inStr {
			switch {
			case esc:
				esc = false
			case c == '\\':
				esc = true
			case c == '"':
				inStr = false
			}
			continue
		}
		switch c {
		case '"':
			inStr = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

// Determined reports whether v is a concrete field value: non-empty after
// trimming and not the "unknown" sentinel (case-insensitive).
func Determined(v string) bool {
	v = strings.TrimSpace(v)
	return v != "" && !strings.EqualFold(v, Unknown)
}

// Undetermined lists the enumerated fields that still need manual resolution.
func (a *Analysis) Undetermined() []Field {
	var fields []Field
	if !Determined(a.CPU) {
		fields = append(fields, FieldCPU)
	}
	if !Determined(a.Machine) {
		fields = append(fields, FieldMachine)
	}
	if !Determined(a.Type) {
		fields = append(fields, FieldType)
	}
	return fields
}

// Message assembles the commit message: "[cpu][machine][type] title", a
// blank line, then one detail per line. No trailing newline.
func Message(cpu, machine, typ, title string, details []string) string {
	return "[" + cpu + "][" + machine + "][" + typ + "] " + title + "\n\n" + strings.Join(details, "\n")
}

// SplitDetails splits one comma-separated input line into detail entries,
// trimming whitespace and dropping empties.
func SplitDetails(line string) []string {
	var details []string
	for _, d := range strings.Split(line, ",") {
		d = strings.TrimSpace(d)
		if d != "" {
			details = append(details, d)
		}
	}
	return details
}
