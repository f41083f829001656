package commentlog

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/sevigo/review-bench/internal/core"
)

const maxLineSize = 4 * 1024 * 1024

type section int

const (
	sectionNone section = iota
	sectionComment
	sectionCode
)

type parser struct {
	logger *slog.Logger

	pr      int
	current *core.ReviewComment
	section section
	buf     []string

	out []core.ReviewComment
}

// Parse reads a comment log and returns its records in file order.
// Unparseable PR headers and records that cannot be attributed to a PR are
// logged and skipped; only I/O errors are returned.
func Parse(r io.Reader, logger *slog.Logger) ([]core.ReviewComment, error) {
	if logger == nil {
		logger = slog.Default()
	}
	p := &parser{logger: logger}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		p.feed(lineNo, strings.TrimSuffix(sc.Text(), "\r"))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read comment log: %w", err)
	}
	p.flush()
	return p.out, nil
}

// Load parses the log file at path.
func Load(path string, logger *slog.Logger) ([]core.ReviewComment, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open comment log %s: %w", path, err)
	}
	defer f.Close()
	return Parse(f, logger)
}

// Exists reports whether path is a non-empty regular file, the condition for
// resuming from a previous run.
func Exists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular() && info.Size() > 0
}

func (p *parser) feed(lineNo int, line string) {
	switch {
	case strings.HasPrefix(line, prHeaderPrefix):
		p.flush()
		m := prNumberRe.FindStringSubmatch(line)
		n := 0
		if m != nil {
			n, _ = strconv.Atoi(m[1])
		}
		if n <= 0 {
			p.logger.Warn("could not parse PR number from header", "line", lineNo, "text", line)
		}
		p.pr = n
		return

	case strings.HasPrefix(line, botPrefix):
		p.flush()
		p.current = &core.ReviewComment{
			BotName:  strings.TrimSpace(strings.TrimPrefix(line, botPrefix)),
			PRNumber: p.pr,
		}
		return

	case line == recordDelimiter:
		p.flush()
		return
	}

	if p.current == nil {
		// PR title/url, error lines and blank separators
		return
	}

	switch {
	case strings.HasPrefix(line, filePrefix):
		p.endSection()
		p.current.FileName = fieldValue(line, filePrefix)
	case strings.HasPrefix(line, linesPrefix):
		p.endSection()
		p.current.LineNumbers = fieldValue(line, linesPrefix)
	case strings.HasPrefix(line, categoryPrefix) && p.section == sectionNone:
		p.current.Category = fieldValue(line, categoryPrefix)
	case strings.HasPrefix(line, commentPrefix):
		p.endSection()
		p.section = sectionComment
		rest := strings.TrimPrefix(line, commentPrefix)
		if rest != "" {
			p.buf = append(p.buf, strings.TrimPrefix(rest, " "))
		}
	case strings.HasPrefix(line, codeMarker):
		p.endSection()
		p.section = sectionCode
	case p.section == sectionComment:
		p.buf = append(p.buf, strings.TrimPrefix(line, continuationIndent))
	case p.section == sectionCode:
		p.buf = append(p.buf, line)
	}
}

func (p *parser) endSection() {
	if p.current == nil || p.section == sectionNone {
		p.buf = p.buf[:0]
		p.section = sectionNone
		return
	}
	content := strings.Join(p.buf, "\n")
	switch p.section {
	case sectionComment:
		p.current.Comment = content
	case sectionCode:
		p.current.Chunk = content
	}
	p.buf = p.buf[:0]
	p.section = sectionNone
}

func (p *parser) flush() {
	p.endSection()
	c := p.current
	p.current = nil
	if c == nil {
		return
	}

	c.Comment = NormalizeComment(c.Comment)
	c.Chunk = strings.TrimSpace(c.Chunk)

	switch {
	case c.PRNumber <= 0:
		p.logger.Warn("dropping comment outside a PR section", "bot", c.BotName, "file", c.FileName)
	case Discardable(c.Comment):
		p.logger.Debug("dropping empty or marker-only comment", "bot", c.BotName, "pr", c.PRNumber)
	default:
		p.out = append(p.out, *c)
	}
}

func fieldValue(line, prefix string) string {
	return strings.TrimSpace(strings.TrimPrefix(line, prefix))
}
