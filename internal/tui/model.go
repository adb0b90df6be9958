package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"portfolio-backend/internal/chatclient"
)

const (
	headerHeight = 2
	inputHeight  = 3
	footerHeight = 2
)

// Submitter is the part of chatclient.Client the widget drives.
type Submitter interface {
	Submit(ctx context.Context, rawText string) error
}

type submitDoneMsg struct{ err error }

type line struct {
	text string
	kind chatclient.Kind
}

// Model is the bubbletea chat widget. Rendering state changes only arrive
// through messages sent by ProgramView.
type Model struct {
	ctx    context.Context
	client Submitter
	mode   chatclient.Mode

	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	styles   Styles

	lines   []line
	enabled bool
	notice  string
}

func New(ctx context.Context, client Submitter, mode chatclient.Mode) Model {
	styles := DefaultStyles()

	ti := textinput.New()
	ti.Placeholder = "Ask me anything... (Enter to send, Esc to exit)"
	ti.Prompt = "│ "
	ti.CharLimit = 2000
	ti.Width = 80
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	return Model{
		ctx:      ctx,
		client:   client,
		mode:     mode,
		input:    ti,
		viewport: viewport.New(80, 20),
		spinner:  sp,
		styles:   styles,
		enabled:  true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			if !m.enabled {
				return m, nil
			}
			m.notice = ""
			return m, m.submit(m.input.Value())
		}
		if m.enabled {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			cmds = append(cmds, cmd)
		}

	case tea.WindowSizeMsg:
		m.viewport.Width = msg.Width - 2
		m.viewport.Height = max(msg.Height-headerHeight-inputHeight-footerHeight, 3)
		m.input.Width = msg.Width - 6
		m.refresh()

	case messageMsg:
		m.lines = append(m.lines, line{text: msg.text, kind: msg.kind})
		m.refresh()

	case clearInputMsg:
		m.input.Reset()

	case inputEnabledMsg:
		m.enabled = msg.enabled
		if !msg.enabled {
			m.input.Blur()
		}

	case focusMsg:
		cmds = append(cmds, m.input.Focus())

	case submitDoneMsg:
		switch {
		case errors.Is(msg.err, chatclient.ErrSignedOut):
			m.notice = "Please sign in to chat."
		case msg.err != nil:
			m.notice = msg.err.Error()
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) submit(text string) tea.Cmd {
	client, ctx := m.client, m.ctx
	return func() tea.Msg {
		return submitDoneMsg{err: client.Submit(ctx, text)}
	}
}

func (m *Model) refresh() {
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}

func (m Model) renderTranscript() string {
	width := m.viewport.Width
	if width <= 0 {
		width = 80
	}
	wrap := lipgloss.NewStyle().Width(width)

	var b strings.Builder
	for i, l := range m.lines {
		if i > 0 {
			b.WriteString("\n")
		}
		switch l.kind {
		case chatclient.KindUser:
			b.WriteString(wrap.Render(m.styles.User.Render("You: ") + l.text))
		default:
			b.WriteString(wrap.Render(m.styles.AI.Render("AI: ") + l.text))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) View() string {
	header := lipgloss.JoinHorizontal(lipgloss.Top,
		m.styles.Header.Render("Portfolio Chat"),
		m.styles.Badge.Render(m.mode.String()),
	)

	body := m.viewport.View()
	if !m.enabled {
		body += "\n" + m.spinner.View() + m.styles.Muted.Render(" Thinking...")
	}

	footer := m.styles.Muted.Render("enter send • esc quit")
	if m.notice != "" {
		footer = m.styles.Error.Render(m.notice)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		body,
		m.styles.Input.Render(m.input.View()),
		footer,
	)
}
