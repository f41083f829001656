package github

import (
	"strings"
)

const devNull = "/dev/null"

// ParseFilesChanged lists the post-change paths named by the "+++ b/<path>"
// headers of a unified diff, in diff order. Deleted files (+++ /dev/null)
// are excluded.
func ParseFilesChanged(diff string) []string {
	var files []string
	for _, line := range strings.Split(diff, "\n") {
		rest, ok := strings.CutPrefix(line, "+++ ")
		if !ok {
			continue
		}
		// git appends a tab and timestamp in some modes
		if i := strings.IndexByte(rest, '\t'); i >= 0 {
			rest = rest[:i]
		}
		rest = strings.TrimRight(rest, "\r ")
		if rest == devNull {
			continue
		}
		path, ok := strings.CutPrefix(rest, "b/")
		if !ok || path == "" {
			continue
		}
		files = append(files, path)
	}
	return files
}
