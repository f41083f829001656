package commentlog

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/sevigo/review-bench/internal/core"
)

// Writer appends PR sections and comment records to a log. Write errors are
// sticky: after the first failure every call returns the same error.
type Writer struct {
	w   *bufio.Writer
	err error
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// WritePRHeader starts a new PR section. Records written afterwards belong
// to pr.Number until the next header.
func (lw *Writer) WritePRHeader(pr core.PullRequest) error {
	title := pr.Title
	if title == "" {
		title = "No Title"
	}
	url := pr.HTMLURL
	if url == "" {
		url = "No URL"
	}
	lw.printf("%s #%d Comments ===\n", prHeaderPrefix, pr.Number)
	lw.printf("%s %s\n", prTitlePrefix, oneLine(title))
	lw.printf("%s %s\n\n", prURLPrefix, url)
	return lw.err
}

// WriteComment emits one record block. The first comment line is inlined
// after the Comment: tag and non-empty continuation lines are indented so
// they can never be mistaken for a field tag on read.
func (lw *Writer) WriteComment(c core.ReviewComment) error {
	lw.printf("%s %s\n", botPrefix, c.BotName)
	if c.FileName != "" {
		lw.printf("%s %s\n", filePrefix, c.FileName)
	}
	if c.LineNumbers != "" {
		lw.printf("%s %s\n", linesPrefix, c.LineNumbers)
	}
	if c.Category != "" {
		lw.printf("%s %s\n", categoryPrefix, c.Category)
	}

	lines := strings.Split(c.Comment, "\n")
	lw.printf("%s %s\n", commentPrefix, lines[0])
	for _, l := range lines[1:] {
		if l == "" {
			lw.printf("\n")
			continue
		}
		lw.printf("%s%s\n", continuationIndent, l)
	}

	if c.Chunk != "" {
		lw.printf("%s\n%s\n", codeMarker, c.Chunk)
	}
	lw.printf("%s\n", recordDelimiter)
	return lw.err
}

// WriteError records that a PR could not be processed. Readers skip the line.
func (lw *Writer) WriteError(prNumber int, cause error) error {
	lw.printf("%s%d: %s\n\n", errorPrefix, prNumber, oneLine(cause.Error()))
	return lw.err
}

// Flush writes any buffered data to the underlying writer.
func (lw *Writer) Flush() error {
	if lw.err != nil {
		return lw.err
	}
	lw.err = lw.w.Flush()
	return lw.err
}

func (lw *Writer) printf(format string, args ...any) {
	if lw.err != nil {
		return
	}
	_, lw.err = fmt.Fprintf(lw.w, format, args...)
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
