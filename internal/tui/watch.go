package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/1broseidon/appshell/internal/ipc"
)

// StatusSource is the IPC access the watch view needs. *ipc.Client
// satisfies it.
type StatusSource interface {
	GetStatus() (*ipc.StatusData, error)
	Activate() error
}

type keyMap struct {
	Activate key.Binding
	Refresh  key.Binding
	Quit     key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Activate, k.Refresh, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var watchKeys = keyMap{
	Activate: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "activate")),
	Refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Quit:     key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
}

type statusMsg struct {
	status *ipc.StatusData
	err    error
}

type tickMsg time.Time

type activatedMsg struct {
	err error
}

type watchModel struct {
	source   StatusSource
	interval time.Duration
	help     help.Model

	status  *ipc.StatusData
	err     error
	notice  string
	updated time.Time
}

func newWatchModel(source StatusSource, interval time.Duration) watchModel {
	if interval <= 0 {
		interval = time.Second
	}
	return watchModel{
		source:   source,
		interval: interval,
		help:     help.New(),
	}
}

func (m watchModel) fetch() tea.Cmd {
	source := m.source
	return func() tea.Msg {
		status, err := source.GetStatus()
		return statusMsg{status: status, err: err}
	}
}

func (m watchModel) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m watchModel) activate() tea.Cmd {
	source := m.source
	return func() tea.Msg {
		return activatedMsg{err: source.Activate()}
	}
}

// Init implements tea.Model.
func (m watchModel) Init() tea.Cmd {
	return tea.Batch(m.fetch(), m.tick())
}

// Update implements tea.Model.
func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, watchKeys.Quit):
			return m, tea.Quit
		case key.Matches(msg, watchKeys.Refresh):
			return m, m.fetch()
		case key.Matches(msg, watchKeys.Activate):
			return m, m.activate()
		}
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
	case tickMsg:
		return m, tea.Batch(m.fetch(), m.tick())
	case statusMsg:
		m.updated = time.Now()
		m.err = msg.err
		if msg.err == nil {
			m.status = msg.status
		}
	case activatedMsg:
		if msg.err != nil {
			m.notice = errStyle.Render("activate failed: " + msg.err.Error())
		} else {
			m.notice = okStyle.Render("activate sent")
		}
		return m, m.fetch()
	}
	return m, nil
}

func row(label, value string) string {
	return labelStyle.Render(label) + valueStyle.Render(value)
}

// View implements tea.Model.
func (m watchModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("appshell status"))
	b.WriteString("\n\n")

	switch {
	case m.err != nil:
		b.WriteString(errStyle.Render("not running: " + m.err.Error()))
	case m.status == nil:
		b.WriteString(footStyle.Render("connecting..."))
	default:
		s := m.status
		window := errStyle.Render("closed")
		if s.WindowPresent {
			window = okStyle.Render("open")
		}
		lines := []string{
			row("product", s.ProductName),
			row("version", s.Version),
			row("platform", s.Platform),
			labelStyle.Render("window") + window,
			row("uptime", (time.Duration(s.UptimeSeconds) * time.Second).String()),
			row("instance", s.InstanceID),
		}
		b.WriteString(boxStyle.Render(strings.Join(lines, "\n")))
	}
	b.WriteString("\n")

	if m.notice != "" {
		b.WriteString(m.notice)
		b.WriteString("\n")
	}
	if !m.updated.IsZero() {
		b.WriteString(footStyle.Render(fmt.Sprintf("updated %s", m.updated.Format("15:04:05"))))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(watchKeys))
	b.WriteString("\n")
	return b.String()
}

// Watch shows a live status view, polling source every interval until the
// user quits.
func Watch(source StatusSource, interval time.Duration) error {
	_, err := tea.NewProgram(newWatchModel(source, interval)).Run()
	return err
}
