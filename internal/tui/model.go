package tui

import (
	"fmt"
	"strings"
	"time"

	"website-cli/internal/fetch"
	"website-cli/internal/logger"
	"website-cli/internal/website"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

var log = logger.Named("tui")

const maxEvents = 8

type Options struct {
	InitialURL string
	Delay      time.Duration
	// Requester 为空时由 Run 绑定到 tea.Program。
	Requester fetch.UpdateRequester
	// Clipboard 为空时使用系统剪贴板。
	Clipboard func(string) error
	Clock     func() time.Time
	AltScreen bool
	// EventLog 为事件队列的独立日志，可为空。
	EventLog *logger.LogEntry
}

// updateRequestedMsg 由 worker 通过 tea.Program.Send 投递，要求在 UI 循环上排空事件通道。
type updateRequestedMsg struct{}

type copyResultMsg struct {
	Text string
	Err  error
}

type uiEvent struct {
	Kind string
	Text string
}

// ProgramRequester 通过 tea.Program.Send 实现 fetch.UpdateRequester，可从任意 goroutine 调用。
type ProgramRequester struct {
	Program *tea.Program
}

func (r ProgramRequester) RequestUpdate() {
	r.Program.Send(updateRequestedMsg{})
}

type Model struct {
	controller *website.Controller
	keys       keyMap
	help       help.Model
	spin       spinner.Model
	ticking    bool
	status     *fetchStatus
	events     []uiEvent
	clipboard  func(string) error
	width      int
}

func New(opts Options) *Model {
	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4"))

	copyFn := opts.Clipboard
	if copyFn == nil {
		copyFn = clipboard.WriteAll
	}

	m := &Model{
		keys:      defaultKeyMap(),
		help:      help.New(),
		spin:      spin,
		status:    newFetchStatus(opts.Clock),
		clipboard: copyFn,
		width:     80,
	}
	m.controller = website.New(website.Options{
		Requester:  opts.Requester,
		Delay:      opts.Delay,
		InitialURL: opts.InitialURL,
		Observer:   m.observe,
		EventLog:   opts.EventLog,
	})
	return m
}

// Controller 暴露底层控制器，便于 Run 绑定请求器与退出时清理。
func (m *Model) Controller() *website.Controller {
	return m.controller
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case updateRequestedMsg:
		if n := m.controller.OnUpdateRequested(); n > 0 {
			log.WithField("applied", n).Debug("drained fetch events")
		}
		return m, nil
	case copyResultMsg:
		if msg.Err != nil {
			m.logEvent("error", fmt.Sprintf("copy failed: %v", msg.Err))
		} else {
			m.logEvent("copy", fmt.Sprintf("copied %q", msg.Text))
		}
		return m, nil
	case spinner.TickMsg:
		if !m.status.Active() {
			m.ticking = false
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Toggle):
		busy := m.controller.Loading()
		m.controller.ToggleURL()
		if busy {
			m.logEvent("skip", "fetch already in progress, url changed without refresh")
		}
		return m, m.startSpinner()
	case key.Matches(msg, m.keys.Refresh):
		if !m.controller.RefreshTitle() {
			m.logEvent("skip", "fetch already in progress")
		}
		return m, m.startSpinner()
	case key.Matches(msg, m.keys.Copy):
		title := m.controller.State().Title
		copyFn := m.clipboard
		return m, func() tea.Msg {
			return copyResultMsg{Text: title, Err: copyFn(title)}
		}
	}
	return m, nil
}

func (m *Model) startSpinner() tea.Cmd {
	if m.ticking || !m.status.Active() {
		return nil
	}
	m.ticking = true
	return m.spin.Tick
}

// observe 接收控制器的属性写入通知，维护状态行与事件面板。
func (m *Model) observe(p website.Property, state website.State) {
	switch p {
	case website.PropertyURL:
		m.logEvent("url", state.URL)
	case website.PropertyTitle:
		if state.Title == website.LoadingTitle {
			m.status.Start(state.URL)
		} else {
			m.status.Stop()
		}
		m.logEvent("title", state.Title)
	}
}

func (m *Model) logEvent(kind, text string) {
	m.events = append(m.events, uiEvent{Kind: kind, Text: text})
	if len(m.events) > maxEvents {
		m.events = m.events[len(m.events)-maxEvents:]
	}
	log.WithField("kind", kind).Info(text)
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FAFAFA")).Background(lipgloss.Color("#7D56F4")).Padding(0, 1)
	labelStyle  = lipgloss.NewStyle().Faint(true).Width(7)
	titleStyle  = lipgloss.NewStyle().Bold(true)
	paneStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#626262")).Padding(0, 1)
	kindStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4"))
)

func (m *Model) View() string {
	state := m.controller.State()
	width := m.width
	if width <= 0 {
		width = 80
	}
	inner := width - 4
	if inner < 10 {
		inner = 10
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render("website"))
	b.WriteString("\n\n")
	b.WriteString(labelStyle.Render("url") + runewidth.Truncate(state.URL, inner-7, "…") + "\n")
	b.WriteString(labelStyle.Render("title") + titleStyle.Render(runewidth.Truncate(state.Title, inner-7, "…")) + "\n")
	if line := m.status.Render(m.spin.View(), inner); line != "" {
		b.WriteString(line + "\n")
	}
	b.WriteString("\n")
	b.WriteString(paneStyle.Width(inner).Render(renderEvents(m.events, inner-2)))
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func renderEvents(events []uiEvent, width int) string {
	if len(events) == 0 {
		return lipgloss.NewStyle().Faint(true).Render("no events yet")
	}
	lines := make([]string, 0, len(events))
	for _, ev := range events {
		prefix := kindStyle.Render(fmt.Sprintf("%-5s", ev.Kind)) + " "
		lines = append(lines, prefix+runewidth.Truncate(ev.Text, width-6, "…"))
	}
	return strings.Join(lines, "\n")
}
