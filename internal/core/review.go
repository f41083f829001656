package core

// ReviewComment is one observation about a code location, produced either by a
// review bot on GitHub or by an LLM diff analyzer.
type ReviewComment struct {
	FileName    string `json:"file_name" yaml:"file_name"`
	Chunk       string `json:"chunk" yaml:"chunk"`
	Comment     string `json:"comment" yaml:"comment"`
	LineNumbers string `json:"line_numbers" yaml:"line_numbers"`
	BotName     string `json:"bot_name" yaml:"bot_name"`
	PRNumber    int    `json:"pr_number" yaml:"pr_number"`
	// Category is an optional tag (e.g. the analyzer's bug type). Empty until set.
	Category string `json:"category,omitempty" yaml:"category,omitempty"`
}

// PRDiff is the change set of one pull request.
type PRDiff struct {
	PRNumber    int
	DiffContent string
	// FilesChanged lists the "+++ b/<path>" targets of the diff, in order.
	// Deleted files (/dev/null) are never included.
	FilesChanged []string
}

// PullRequest is the subset of pull request metadata the pipeline needs.
type PullRequest struct {
	Number  int    `json:"number"`
	Title   string `json:"title"`
	HTMLURL string `json:"html_url"`
	Author  string `json:"author"`
}
