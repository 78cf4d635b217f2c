package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/ParthRana1023/ai-courtroom/client"
	"github.com/ParthRana1023/ai-courtroom/logging"
	"github.com/ParthRana1023/ai-courtroom/models"
)

const closingCommand = "/closing "

type appConfig struct {
	baseURL  string
	email    string
	password string
	cnr      string
	roleHint string
}

type viewState int

const (
	stateLogin viewState = iota
	stateCases
	stateCourtroom
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230")).Background(lipgloss.Color("57")).Padding(0, 1)
	plaintiffStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	defendantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	userTagStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	noticeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	selectedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
)

type (
	loginDoneMsg struct{ err error }
	casesMsg     struct {
		cases []models.CaseSummary
		err   error
	}
	sessionMsg struct {
		session *client.Session
		err     error
	}
	submitDoneMsg  struct{ err error }
	sessionUpdated struct{}
	tickMsg        time.Time
	noticeMsg      string
)

type model struct {
	cfg appConfig
	api *client.Client

	state   viewState
	width   int
	height  int
	busy    bool
	errText string
	notice  string

	spinner  spinner.Model
	input    textinput.Model
	viewport viewport.Model
	renderer *glamour.TermRenderer

	cases  []models.CaseSummary
	cursor int

	session *client.Session
	updates chan struct{}
	notices chan string
}

func newModel(cfg appConfig) model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	ti := textinput.New()
	ti.Placeholder = "Present your argument..."
	ti.CharLimit = 4000
	ti.Focus()

	vp := viewport.New(80, 20)

	renderer, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(78),
	)

	return model{
		cfg:      cfg,
		api:      client.New(cfg.baseURL, client.WithLogger(logging.New())),
		state:    stateLogin,
		spinner:  sp,
		input:    ti,
		viewport: vp,
		renderer: renderer,
		updates:  make(chan struct{}, 8),
		notices:  make(chan string, 8),
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.login(), tickEvery())
}

func tickEvery() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m model) login() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return loginDoneMsg{err: m.api.Login(ctx, m.cfg.email, m.cfg.password)}
	}
}

func (m model) loadCases() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		cases, err := m.api.ListCases(ctx)
		return casesMsg{cases: cases, err: err}
	}
}

func (m model) openSession(cnr string) tea.Cmd {
	updates, notices := m.updates, m.notices
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()
		s, err := client.NewSession(ctx, m.api, cnr, models.Role(m.cfg.roleHint),
			client.WithUpdateHook(func() {
				select {
				case updates <- struct{}{}:
				default:
				}
			}),
			client.WithNoticeHook(func(text string) {
				select {
				case notices <- text:
				default:
				}
			}),
		)
		return sessionMsg{session: s, err: err}
	}
}

func (m model) waitForUpdate() tea.Cmd {
	updates := m.updates
	return func() tea.Msg {
		<-updates
		return sessionUpdated{}
	}
}

func (m model) waitForNotice() tea.Cmd {
	notices := m.notices
	return func() tea.Msg {
		return noticeMsg(<-notices)
	}
}

func (m model) submit(text string) tea.Cmd {
	session := m.session
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
		defer cancel()

		var err error
		if strings.HasPrefix(text, closingCommand) {
			_, err = session.SubmitClosingStatement(ctx, strings.TrimPrefix(text, closingCommand))
		} else {
			_, err = session.SubmitArgument(ctx, text)
		}
		return submitDoneMsg{err: err}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.viewport.Width = msg.Width - 2
		m.viewport.Height = msg.Height - 8
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tickMsg:
		if m.session != nil {
			m.session.Countdown.Tick()
		}
		return m, tickEvery()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case loginDoneMsg:
		if msg.err != nil {
			m.errText = msg.err.Error()
			return m, tea.Quit
		}
		if m.cfg.cnr != "" {
			m.busy = true
			return m, m.openSession(m.cfg.cnr)
		}
		m.state = stateCases
		m.busy = true
		return m, m.loadCases()

	case casesMsg:
		m.busy = false
		if msg.err != nil {
			m.errText = msg.err.Error()
			return m, nil
		}
		m.cases = msg.cases
		return m, nil

	case sessionMsg:
		m.busy = false
		if msg.err != nil {
			m.errText = msg.err.Error()
			m.state = stateCases
			return m, nil
		}
		m.session = msg.session
		m.state = stateCourtroom
		m.errText = ""
		m.refreshTranscript()
		return m, tea.Batch(m.waitForUpdate(), m.waitForNotice())

	case sessionUpdated:
		m.refreshTranscript()
		return m, m.waitForUpdate()

	case noticeMsg:
		m.notice = string(msg)
		return m, m.waitForNotice()

	case submitDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.errText = msg.err.Error()
		} else {
			m.errText = ""
			m.input.Reset()
		}
		m.refreshTranscript()
		return m, nil
	}

	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.state {
	case stateCases:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.cases)-1 {
				m.cursor++
			}
		case "enter":
			if len(m.cases) > 0 {
				m.busy = true
				return m, m.openSession(m.cases[m.cursor].CNR)
			}
		case "r":
			m.busy = true
			return m, m.loadCases()
		}
		return m, nil

	case stateCourtroom:
		switch msg.String() {
		case "ctrl+c":
			if m.session != nil {
				m.session.Close()
			}
			return m, tea.Quit
		case "esc":
			if m.session != nil {
				m.session.Close()
				m.session = nil
			}
			m.state = stateCases
			m.busy = true
			return m, m.loadCases()
		case "enter":
			text := strings.TrimSpace(m.input.Value())
			if text == "" || m.busy || m.session == nil {
				return m, nil
			}
			m.busy = true
			m.notice = ""
			return m, tea.Batch(m.submit(text), m.spinner.Tick)
		case "pgup":
			m.viewport.LineUp(5)
			return m, nil
		case "pgdown":
			m.viewport.LineDown(5)
			return m, nil
		}

		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	return m, nil
}

// refreshTranscript re-renders the merged transcript plus verdict and
// analysis into the viewport
func (m *model) refreshTranscript() {
	if m.session == nil {
		return
	}

	var b strings.Builder
	caseInfo := m.session.Case()
	b.WriteString(m.renderMarkdown("# "+caseInfo.Title) + "\n")

	for _, entry := range m.session.Transcript() {
		side := defendantStyle.Render("Defendant")
		if entry.IsPlaintiff {
			side = plaintiffStyle.Render("Plaintiff")
		}
		tag := ""
		if entry.IsUser {
			tag = userTagStyle.Render(" (you)")
		}
		fmt.Fprintf(&b, "%s%s [%s]\n%s\n\n", side, tag, entry.Type, entry.Content)
	}

	if verdict := m.session.Verdict(); verdict != "" {
		b.WriteString(m.renderMarkdown("## Verdict\n\n" + verdict))
	}
	if analysis := m.session.Analysis(); analysis != "" {
		b.WriteString(m.renderMarkdown("## Analysis\n\n" + analysis))
	}

	m.viewport.SetContent(b.String())
	m.viewport.GotoBottom()
}

func (m *model) renderMarkdown(md string) string {
	if m.renderer == nil {
		return md
	}
	out, err := m.renderer.Render(md)
	if err != nil {
		return md
	}
	return out
}

func (m model) View() string {
	switch m.state {
	case stateLogin:
		return fmt.Sprintf("\n %s logging in as %s...\n", m.spinner.View(), m.cfg.email)

	case stateCases:
		var b strings.Builder
		b.WriteString(titleStyle.Render("AI Courtroom") + "\n\n")
		if m.busy {
			b.WriteString(m.spinner.View() + " loading cases...\n")
		}
		for i, c := range m.cases {
			line := fmt.Sprintf("%-18s %-12s %s", c.CNR, c.Status, c.Title)
			if i == m.cursor {
				line = selectedStyle.Render(line)
			}
			b.WriteString(line + "\n")
		}
		if m.errText != "" {
			b.WriteString("\n" + errStyle.Render(m.errText) + "\n")
		}
		b.WriteString("\n" + helpStyle.Render("enter: open  r: refresh  q: quit") + "\n")
		return b.String()

	case stateCourtroom:
		var b strings.Builder
		header := fmt.Sprintf("AI Courtroom | %s | you argue as %s | %s", m.session.CNR(), m.session.Role(), m.session.Status())
		b.WriteString(titleStyle.Render(header) + "\n")
		b.WriteString(m.viewport.View() + "\n")

		if m.busy {
			b.WriteString(m.spinner.View() + " opposing counsel is preparing a response...\n")
		}
		if m.session.Countdown.State() == client.CountdownCounting {
			b.WriteString(noticeStyle.Render(fmt.Sprintf("argument limit reached, next attempt in %ds", m.session.Countdown.Remaining())) + "\n")
		}
		if m.notice != "" {
			b.WriteString(noticeStyle.Render(m.notice) + "\n")
		}
		if m.errText != "" {
			b.WriteString(errStyle.Render(m.errText) + "\n")
		}

		if !m.busy && m.session.Status() == models.CaseStatusActive {
			b.WriteString(m.input.View() + "\n")
		}

		help := "enter: submit  pgup/pgdn: scroll  esc: cases  ctrl+c: quit"
		if m.session.ClosingEligible() {
			help = "type " + closingCommand + "<statement> to close the case | " + help
		}
		b.WriteString(helpStyle.Render(help) + "\n")
		return b.String()
	}
	return ""
}

func main() {
	cfg := appConfig{}
	flag.StringVar(&cfg.baseURL, "url", "http://localhost:8000", "courtroom API base url")
	flag.StringVar(&cfg.email, "email", os.Getenv("COURTROOM_EMAIL"), "login email")
	flag.StringVar(&cfg.password, "password", os.Getenv("COURTROOM_PASSWORD"), "login password")
	flag.StringVar(&cfg.cnr, "cnr", "", "open this case directly")
	flag.StringVar(&cfg.roleHint, "role", "", "role hint: plaintiff or defendant")
	flag.Parse()

	if cfg.email == "" || cfg.password == "" {
		fmt.Fprintln(os.Stderr, "email and password are required (flags or COURTROOM_EMAIL/COURTROOM_PASSWORD)")
		os.Exit(1)
	}

	p := tea.NewProgram(newModel(cfg), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
