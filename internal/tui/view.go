package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"portfolio-backend/internal/chatclient"
)

type messageMsg struct {
	text string
	kind chatclient.Kind
}

type clearInputMsg struct{}

type inputEnabledMsg struct{ enabled bool }

type focusMsg struct{}

// Sender is satisfied by *tea.Program.
type Sender interface {
	Send(msg tea.Msg)
}

// ProgramView turns chatclient.View calls into bubbletea messages. Calls made
// before Attach are dropped.
type ProgramView struct {
	mu     sync.Mutex
	sender Sender
}

func NewProgramView() *ProgramView {
	return &ProgramView{}
}

// Attach points the view at a running program.
func (v *ProgramView) Attach(s Sender) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.sender = s
}

func (v *ProgramView) send(msg tea.Msg) {
	v.mu.Lock()
	s := v.sender
	v.mu.Unlock()
	if s != nil {
		s.Send(msg)
	}
}

func (v *ProgramView) AddMessage(text string, kind chatclient.Kind) {
	v.send(messageMsg{text: text, kind: kind})
}

func (v *ProgramView) ClearInput() { v.send(clearInputMsg{}) }

func (v *ProgramView) SetInputEnabled(enabled bool) { v.send(inputEnabledMsg{enabled: enabled}) }

func (v *ProgramView) Focus() { v.send(focusMsg{}) }
