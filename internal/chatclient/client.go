package chatclient

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"

	"portfolio-backend/internal/conversation"
	"portfolio-backend/internal/models"
	"portfolio-backend/internal/session"
)

const (
	ApologyError   = "Sorry, I encountered an error. Please try again."
	ApologyConnect = "Sorry, I couldn't connect to the server. Please try again."
)

var (
	ErrBusy      = errors.New("chat: a message is already in flight")
	ErrSignedOut = errors.New("chat: sign in to chat")
)

// Mode selects where replies come from.
type Mode int

const (
	ModeRemote Mode = iota
	ModeLocal
)

func (m Mode) String() string {
	if m == ModeLocal {
		return "local"
	}
	return "remote"
}

// Config wires a Client. Session is optional; without one chat is always
// allowed. Mock defaults to NewMockResponder().
type Config struct {
	Mode       Mode
	ProxyURL   string
	HTTPClient *http.Client
	Session    *session.Session
	Mock       *MockResponder
	Logger     *slog.Logger
}

// Client owns one conversation. At most one submission is outstanding at a
// time.
type Client struct {
	view    View
	mode    Mode
	mock    *MockResponder
	remote  *RemoteResponder
	session *session.Session
	history conversation.History
	busy    atomic.Bool
	logger  *slog.Logger

	unsubscribe func()
}

func New(view View, cfg Config) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	mock := cfg.Mock
	if mock == nil {
		mock = NewMockResponder()
	}

	c := &Client{
		view:    view,
		mode:    cfg.Mode,
		mock:    mock,
		session: cfg.Session,
		logger:  logger,
	}

	var token func() string
	if cfg.Session != nil {
		token = cfg.Session.Token
		// A conversation never outlives the user who had it.
		c.unsubscribe = cfg.Session.Subscribe(func(u *session.User) {
			if u == nil && c.history.Len() > 0 {
				c.history.Reset()
				c.logger.Info("conversation cleared on sign-out")
			}
		})
	}
	c.remote = NewRemoteResponder(cfg.ProxyURL, cfg.HTTPClient, token)

	return c
}

// Close detaches the client from its session.
func (c *Client) Close() {
	if c.unsubscribe != nil {
		c.unsubscribe()
	}
}

func (c *Client) Mode() Mode { return c.mode }

// History returns the retained turns, oldest first.
func (c *Client) History() []models.ChatMessage { return c.history.Turns() }

// Busy reports whether a submission is in flight.
func (c *Client) Busy() bool { return c.busy.Load() }

// Submit sends one message and renders the outcome. Blank input is ignored.
// Failures are rendered as an apology and leave the history untouched; the
// returned error only reports submissions that were refused.
func (c *Client) Submit(ctx context.Context, rawText string) error {
	text := strings.TrimSpace(rawText)
	if text == "" {
		return nil
	}

	if !c.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	if c.session != nil {
		if _, ok := c.session.Current(); !ok {
			c.busy.Store(false)
			return ErrSignedOut
		}
	}

	c.view.AddMessage(text, KindUser)
	c.view.ClearInput()
	c.view.SetInputEnabled(false)

	defer func() {
		c.busy.Store(false)
		c.view.SetInputEnabled(true)
		c.view.Focus()
	}()

	if c.mode == ModeLocal {
		reply, err := c.mock.Reply(ctx)
		if err != nil {
			c.logger.Warn("mock reply interrupted", "error", err)
			c.view.AddMessage(ApologyConnect, KindAI)
			return nil
		}
		c.view.AddMessage(reply, KindAI)
		return nil
	}

	reply, err := c.remote.Send(ctx, models.ChatRequest{
		Message: text,
		History: c.history.Turns(),
	})
	if err != nil {
		c.view.AddMessage(apologyFor(err), KindAI)
		c.logger.Error("chat error", "mode", c.mode.String(), "error", err)
		return nil
	}

	c.view.AddMessage(reply, KindAI)
	c.history.AppendExchange(text, reply)
	c.logger.Debug("exchange recorded", "history_len", c.history.Len())
	return nil
}

func apologyFor(err error) string {
	if errors.Is(err, ErrUnsuccessful) {
		return ApologyError
	}
	return ApologyConnect
}
