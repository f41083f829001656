package llm

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	errNoJSON        = errors.New("no JSON value found")
	errUnexpectedTop = errors.New("unexpected top-level JSON shape")
)

// Issue is one bug report from a diff analysis response, normalized across
// the field names different prompts ask for.
type Issue struct {
	Description string
	Severity    string
	Type        string
	FileName    string
	LineNumbers string
	Snippet     string
	Fix         string

	// Missing lists required fields the model did not supply.
	Missing []string
}

// Categorization is one entry of a comment categorization response.
type Categorization struct {
	CommentIndex int
	HasIndex     bool
	Category     string
	Reasoning    string
}

// DecodeIssues accepts {"issues": [...]}, a bare array of issues, or a
// single issue object.
func DecodeIssues(raw string) ([]Issue, error) {
	items, err := decodeList(raw, "issues")
	if err != nil {
		return nil, err
	}
	issues := make([]Issue, 0, len(items))
	for _, item := range items {
		issues = append(issues, decodeIssue(item))
	}
	return issues, nil
}

// DecodeCategorizations accepts a bare array, a single object, or an object
// wrapping the array under a results-like key.
func DecodeCategorizations(raw string) ([]Categorization, error) {
	items, err := decodeList(raw, "results", "comments", "classifications", "categorizations", "categories")
	if err != nil {
		return nil, err
	}
	out := make([]Categorization, 0, len(items))
	for _, item := range items {
		var rc rawCategorization
		if err := json.Unmarshal(item, &rc); err != nil {
			out = append(out, Categorization{})
			continue
		}
		c := Categorization{
			Category:  rc.Category.String(),
			Reasoning: strings.TrimSpace(rc.Reasoning.String()),
		}
		idx := rc.CommentIndex
		if !idx.set {
			idx = rc.Index
		}
		if n, ok := idx.Int(); ok {
			c.CommentIndex, c.HasIndex = n, true
		}
		out = append(out, c)
	}
	return out, nil
}

// decodeList extracts the list of JSON objects from raw. wrapperKeys are
// tried, in order, when the top-level value is an object.
func decodeList(raw string, wrapperKeys ...string) ([]json.RawMessage, error) {
	body := ExtractJSON(raw)
	if body == "" {
		return nil, &MalformedResponseError{Raw: raw, Err: errNoJSON}
	}

	switch body[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal([]byte(body), &items); err != nil {
			return nil, &MalformedResponseError{Raw: raw, Err: err}
		}
		return items, nil
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal([]byte(body), &obj); err != nil {
			return nil, &MalformedResponseError{Raw: raw, Err: err}
		}
		for _, k := range wrapperKeys {
			inner, ok := obj[k]
			if !ok {
				continue
			}
			inner = bytes.TrimSpace(inner)
			switch {
			case len(inner) > 0 && inner[0] == '[':
				var items []json.RawMessage
				if err := json.Unmarshal(inner, &items); err != nil {
					return nil, &MalformedResponseError{Raw: raw, Err: fmt.Errorf("%s: %w", k, err)}
				}
				return items, nil
			case len(inner) > 0 && inner[0] == '{':
				return []json.RawMessage{inner}, nil
			case bytes.Equal(inner, []byte("null")):
				return nil, nil
			default:
				return nil, &MalformedResponseError{Raw: raw, Err: fmt.Errorf("%s is not a list", k)}
			}
		}
		return []json.RawMessage{json.RawMessage(body)}, nil
	default:
		return nil, &MalformedResponseError{Raw: raw, Err: errUnexpectedTop}
	}
}

// ExtractJSON strips markdown fences and surrounding prose, returning the
// outermost JSON object or array in s, or "" if there is none.
func ExtractJSON(s string) string {
	s = StripCodeFence(s)
	start := strings.IndexAny(s, "[{")
	if start < 0 {
		return ""
	}
	closer := byte('}')
	if s[start] == '[' {
		closer = ']'
	}
	end := strings.LastIndexByte(s, closer)
	if end < start {
		return ""
	}
	return s[start : end+1]
}

// StripCodeFence removes a wrapping ``` fence (with any language tag).
func StripCodeFence(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	nl := strings.IndexByte(trimmed, '\n')
	if nl < 0 {
		return strings.Trim(trimmed, "`")
	}
	inner := trimmed[nl+1:]
	if i := strings.LastIndex(inner, "```"); i >= 0 {
		inner = inner[:i]
	}
	return strings.TrimSpace(inner)
}

type rawIssue struct {
	BugDescription flexString `json:"bug_description"`
	Description    flexString `json:"description"`
	Severity       flexString `json:"severity"`
	BugType        flexString `json:"bug_type"`
	Category       flexString `json:"category"`
	FileName       flexString `json:"file_name"`
	File           flexString `json:"file"`
	LineNumbers    flexString `json:"line_numbers"`
	Lines          flexString `json:"lines"`
	Snippet        flexString `json:"snippet"`
	Code           flexString `json:"code"`
	Fix            flexString `json:"fix"`
}

var requiredIssueFields = []string{"file_name", "snippet", "bug_description", "line_numbers"}

func decodeIssue(item json.RawMessage) Issue {
	var ri rawIssue
	if err := json.Unmarshal(item, &ri); err != nil {
		return Issue{Missing: requiredIssueFields}
	}

	desc := first(ri.BugDescription, ri.Description)
	file := first(ri.FileName, ri.File)
	lines := first(ri.LineNumbers, ri.Lines)
	snippet := first(ri.Snippet, ri.Code)

	var issue Issue
	if !file.set {
		issue.Missing = append(issue.Missing, "file_name")
	}
	if !snippet.set {
		issue.Missing = append(issue.Missing, "snippet")
	}
	if strings.TrimSpace(desc.s) == "" {
		issue.Missing = append(issue.Missing, "bug_description")
	}
	if !lines.set {
		issue.Missing = append(issue.Missing, "line_numbers")
	}

	issue.Description = strings.TrimSpace(desc.s)
	issue.Severity = strings.TrimSpace(ri.Severity.s)
	issue.Type = strings.TrimSpace(first(ri.BugType, ri.Category).s)
	issue.FileName = strings.TrimSpace(file.s)
	issue.LineNumbers = strings.TrimSpace(lines.s)
	issue.Snippet = snippet.s
	issue.Fix = strings.TrimSpace(ri.Fix.s)
	return issue
}

type rawCategorization struct {
	CommentIndex flexString `json:"comment_index"`
	Index        flexString `json:"index"`
	Category     flexString `json:"category"`
	Reasoning    flexString `json:"reasoning"`
}

// flexString decodes strings, numbers, booleans and arrays of those into
// text. Models are not consistent about line ranges ("3-5", 3, [3, 5]).
type flexString struct {
	s   string
	set bool
}

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	f.set = true
	switch b[0] {
	case '"':
		return json.Unmarshal(b, &f.s)
	case '[':
		var parts []flexString
		if err := json.Unmarshal(b, &parts); err != nil {
			return err
		}
		strs := make([]string, 0, len(parts))
		for _, p := range parts {
			if p.set {
				strs = append(strs, p.s)
			}
		}
		f.s = strings.Join(strs, ", ")
		return nil
	default:
		f.s = string(b)
		return nil
	}
}

func (f flexString) String() string { return f.s }

func (f flexString) Int() (int, bool) {
	if !f.set {
		return 0, false
	}
	v := strings.TrimSpace(f.s)
	if n, err := strconv.Atoi(v); err == nil {
		return n, true
	}
	x, err := strconv.ParseFloat(v, 64)
	if err != nil || x != math.Trunc(x) {
		return 0, false
	}
	return int(x), true
}

func first(vals ...flexString) flexString {
	for _, v := range vals {
		if v.set {
			return v
		}
	}
	return flexString{}
}
