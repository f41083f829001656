package main

import "github.com/sevigo/review-bench/internal/core"

// Indicates that results.json has been read.
type resultsLoadedMsg struct {
	res  *core.Results
	path string
	err  error
}
