package jobs

import (
	"log/slog"
	"strings"

	"github.com/sevigo/review-bench/internal/core"
)

// SplitByDiff separates comments whose file is part of the diff from those
// naming a file the diff never touches. Comments without a file name count
// as on-diff. With no known files every comment is on-diff.
func SplitByDiff(logger *slog.Logger, comments []core.ReviewComment, filesChanged []string) (onDiff, offDiff []core.ReviewComment) {
	if len(filesChanged) == 0 {
		return comments, nil
	}
	files := make(map[string]struct{}, len(filesChanged))
	for _, f := range filesChanged {
		files[f] = struct{}{}
	}

	for _, c := range comments {
		clean := strings.TrimPrefix(strings.TrimPrefix(c.FileName, "./"), "b/")
		if _, ok := files[clean]; c.FileName == "" || ok {
			onDiff = append(onDiff, c)
			continue
		}
		logger.Debug("comment references a file outside the diff",
			"original", c.FileName,
			"normalized", clean,
			"bot", c.BotName,
		)
		offDiff = append(offDiff, c)
	}
	return onDiff, offDiff
}
