package chatclient

// Kind tells the view who a transcript message is from.
type Kind int

const (
	KindUser Kind = iota
	KindAI
)

func (k Kind) String() string {
	if k == KindUser {
		return "user"
	}
	return "ai"
}

// View is the surface the client renders into. Calls arrive from the
// goroutine running Submit.
type View interface {
	AddMessage(text string, kind Kind)
	ClearInput()
	SetInputEnabled(enabled bool)
	Focus()
}
