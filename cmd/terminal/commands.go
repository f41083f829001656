package main

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sevigo/review-bench/internal/report"
)

func loadResultsCmd(path string) tea.Cmd {
	return func() tea.Msg {
		res, err := report.LoadJSON(path)
		return resultsLoadedMsg{res: res, path: path, err: err}
	}
}
