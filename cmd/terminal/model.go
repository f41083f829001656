package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sevigo/review-bench/internal/core"
	"github.com/sevigo/review-bench/internal/report"
)

func lipglossRenderer() *lipgloss.Renderer {
	return lipgloss.DefaultRenderer()
}

type model struct {
	styles styles
	theme  report.ThemeName
	path   string
	res    *core.Results

	// UI Components
	viewport  viewport.Model
	textarea  textarea.Model
	spinner   spinner.Model
	progress  progress.Model
	isLoading bool

	// Session State
	selectedBot string
	selectedPR  int
	filter      core.Category
	history     []string
}

func initialModel(theme report.ThemeName, path string) *model {
	styles := GetTheme(theme)
	ta := textarea.New()
	ta.Placeholder = "Enter a command or text to search comments..."
	ta.Focus()
	ta.Prompt = styles.prompt.Render("► ")
	ta.CharLimit = 200
	ta.SetWidth(50)
	ta.SetHeight(1)
	ta.ShowLineNumbers = false

	sp := spinner.New()
	sp.Spinner = spinner.Points
	sp.Style = lipgloss.NewStyle().Foreground(report.GetTheme(theme).Header)
	pr := progress.New(progress.WithDefaultGradient(), progress.WithWidth(30))

	return &model{
		styles:    styles,
		theme:     theme,
		path:      path,
		textarea:  ta,
		spinner:   sp,
		progress:  pr,
		isLoading: true,
		history:   []string{styles.header.Render("REVIEW-BENCH RESULTS EXPLORER"), "Loading " + path + "..."},
	}
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(loadResultsCmd(m.path), m.spinner.Tick)
}

func (m *model) push(lines ...string) {
	m.history = append(m.history, lines...)
	m.viewport.SetContent(strings.Join(m.history, "\n"))
	m.viewport.GotoBottom()
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		spCmd tea.Cmd
	)

	m.textarea, tiCmd = m.textarea.Update(msg)
	m.viewport, vpCmd = m.viewport.Update(msg)
	m.spinner, spCmd = m.spinner.Update(msg)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			input := strings.TrimSpace(m.textarea.Value())
			if input == "" {
				return m, nil
			}
			m.textarea.Reset()
			return m, m.processCommand(input)
		}

	case resultsLoadedMsg:
		m.isLoading = false
		if msg.err != nil {
			m.push("", m.styles.error.Render(msg.err.Error()),
				m.styles.inactive.Render("Run 'bench-cli run' first, then '/reload'."))
			return m, nil
		}
		m.res = msg.res
		m.push("", m.styles.success.Render(fmt.Sprintf("✓ LOADED %d BOTS FROM %s", len(m.res.Bots), msg.path)))
		if len(m.res.Bots) == 1 {
			m.selectedBot = m.res.Bots[0]
			m.push(m.styles.command.Render("→ Automatically selecting the only bot: " + m.selectedBot))
		}
		m.push("", "Type /help for commands or any text to search comments.")
		return m, nil

	case tea.WindowSizeMsg:
		m.styles.header = m.styles.header.Width(msg.Width - 4)
		m.viewport.Width = msg.Width - 4
		m.viewport.Height = msg.Height - 8
		m.textarea.SetWidth(msg.Width - 10)
		m.viewport.SetContent(strings.Join(m.history, "\n"))
	}

	return m, tea.Batch(tiCmd, vpCmd, spCmd)
}

func (m *model) View() string {
	var statusParts []string
	statusParts = append(statusParts, "RESULTS: "+m.path)
	if m.selectedBot != "" {
		statusParts = append(statusParts, "BOT: "+m.selectedBot)
	} else {
		statusParts = append(statusParts, m.styles.inactive.Render("BOT: none"))
	}
	if m.selectedPR > 0 {
		statusParts = append(statusParts, fmt.Sprintf("PR: #%d", m.selectedPR))
	}
	if m.filter != "" {
		statusParts = append(statusParts, "FILTER: "+string(m.filter))
	}
	status := m.styles.inactive.Render(strings.Join(statusParts, " │ "))

	var loadingIndicator string
	if m.isLoading {
		loadingIndicator = " " + m.spinner.View() + " " + m.styles.success.Render("LOADING...")
	}

	return m.styles.app.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.styles.viewport.Render(m.viewport.View()),
			"",
			m.styles.footer.Render(
				lipgloss.JoinHorizontal(lipgloss.Left,
					m.textarea.View(),
					loadingIndicator,
				),
			),
			status,
		),
	)
}

const helpText = `
  /summary, /s          Comparison table and distribution chart.
  /bots, /ls            List bots with their critical bug ratio.
  /bot [name]           Select a bot and list its PRs.
  /pr [number]          Show the selected bot's classifications on a PR.
  /filter [category]    Only show CRITICAL_BUG, NITPICK or OTHER (or all).
  /flagged              Comments the model returned no category for.
  /reload               Read results.json again.
  /help                 Show this help message.
  /exit, /quit          Exit.

  Anything else searches comment text, file names and reasoning.`

func (m *model) processCommand(input string) tea.Cmd {
	m.push(m.styles.prompt.Render("► ") + input)

	parts := strings.Fields(input)
	command := parts[0]
	args := parts[1:]

	switch command {
	case "/help", "/h":
		m.push("", m.styles.success.Render("AVAILABLE COMMANDS:")+helpText)
		return nil
	case "/exit", "/quit":
		return tea.Quit
	case "/reload":
		m.isLoading = true
		m.push("", m.styles.command.Render("→ Reloading "+m.path+"..."))
		return tea.Batch(m.spinner.Tick, loadResultsCmd(m.path))
	}

	if m.res == nil {
		m.push("", m.styles.error.Render("No results loaded. Use '/reload' once results.json exists."))
		return nil
	}

	switch command {
	case "/summary", "/s":
		m.push("", summaryView(m.res, m.theme))

	case "/bots", "/ls":
		m.push("", renderBots(m.styles, m.res, m.progress))

	case "/bot":
		if len(args) != 1 {
			m.push("", m.styles.error.Render("USAGE: /bot [name]"))
			return nil
		}
		bot, ok := findBot(m.res, args[0])
		if !ok {
			m.push("", m.styles.error.Render(fmt.Sprintf("Bot '%s' not found. Use /bots to see available bots.", args[0])))
			return nil
		}
		m.selectedBot, m.selectedPR = bot, 0
		m.push("", renderBotDetail(m.styles, m.res, bot))

	case "/pr":
		if m.selectedBot == "" {
			m.push("", m.styles.error.Render("No bot is selected. Use '/bots' and '/bot [name]' first."))
			return nil
		}
		if len(args) != 1 {
			m.push("", m.styles.error.Render("USAGE: /pr [number]"))
			return nil
		}
		pr, err := parsePRArg(args[0])
		if err != nil {
			m.push("", m.styles.error.Render(err.Error()))
			return nil
		}
		m.selectedPR = pr
		m.push("", renderPR(m.styles, m.res, m.selectedBot, pr, m.filter))

	case "/filter":
		if len(args) != 1 {
			m.push("", m.styles.error.Render("USAGE: /filter [CRITICAL_BUG|NITPICK|OTHER|all]"))
			return nil
		}
		filter, err := parseFilter(args[0])
		if err != nil {
			m.push("", m.styles.error.Render(err.Error()))
			return nil
		}
		m.filter = filter
		if m.selectedBot != "" && m.selectedPR > 0 {
			m.push("", renderPR(m.styles, m.res, m.selectedBot, m.selectedPR, m.filter))
		} else {
			m.push("", m.styles.success.Render("✓ Filter set"))
		}

	case "/flagged":
		m.push("", renderMatches(m.styles, m.res, "Unclassified comments", flaggedMatcher))

	default:
		if strings.HasPrefix(command, "/") {
			m.push("", m.styles.error.Render(fmt.Sprintf("UNKNOWN COMMAND: %s", command)), m.styles.inactive.Render("Type /help for assistance."))
			return nil
		}
		m.push("", renderMatches(m.styles, m.res, fmt.Sprintf("Search %q", input), searchMatcher(input)))
	}
	return nil
}
