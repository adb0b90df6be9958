// Command chat is a terminal chat widget for the portfolio chat proxy.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"portfolio-backend/internal/chatclient"
	"portfolio-backend/internal/config"
	"portfolio-backend/internal/logging"
	"portfolio-backend/internal/middleware"
	"portfolio-backend/internal/session"
	"portfolio-backend/internal/tui"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := config.LoadClient()

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with the portfolio assistant",
		Long: `Chat with the portfolio assistant from the terminal.

Messages go to the chat proxy unless --local is set, in which case canned
replies are served without touching the network.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&cfg.ProxyURL, "proxy-url", cfg.ProxyURL, "chat proxy endpoint (env CHAT_PROXY_URL)")
	flags.BoolVar(&cfg.LocalMode, "local", cfg.LocalMode, "use canned local replies (env CHAT_LOCAL_MODE)")
	flags.StringVar(&cfg.Token, "token", cfg.Token, "identity token sent as a bearer credential (env CHAT_TOKEN)")
	flags.StringVar(&cfg.GuestName, "name", cfg.GuestName, "display name when no token is given (env CHAT_GUEST_NAME)")
	flags.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "log file path (env CHAT_LOG_FILE)")

	cmd.AddCommand(newTokenCmd())
	return cmd
}

// newTokenCmd mints an access token for a proxy started with JWT_SECRET, so
// the widget can be tried against it without an identity provider.
func newTokenCmd() *cobra.Command {
	var (
		secret string
		name   string
		email  string
		userID string
		ttl    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Print a signed access token for local testing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				return errors.New("a signing secret is required (--secret or JWT_SECRET)")
			}

			id := uuid.New()
			if userID != "" {
				parsed, err := uuid.Parse(userID)
				if err != nil {
					return fmt.Errorf("invalid --user-id: %w", err)
				}
				id = parsed
			}

			token, err := middleware.NewJWTAuth(secret).GenerateAccessToken(id, name, email, ttl)
			if err != nil {
				return fmt.Errorf("failed to sign token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&secret, "secret", os.Getenv("JWT_SECRET"), "HMAC secret shared with the proxy (env JWT_SECRET)")
	flags.StringVar(&name, "name", "guest", "name claim")
	flags.StringVar(&email, "email", "", "email claim")
	flags.StringVar(&userID, "user-id", "", "user id claim (random when empty)")
	flags.DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")

	return cmd
}

func run(ctx context.Context, cfg *config.ClientConfig) error {
	logger, err := logging.Init(cfg.Logging())
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sess := session.New(logger)
	unsubscribe := sess.Subscribe(func(u *session.User) {
		if u == nil {
			logger.Info("signed out")
			return
		}
		logger.Info("signed in", "user_id", u.ID, "name", u.Name)
	})
	defer unsubscribe()

	if cfg.Token != "" {
		if _, err := sess.SignIn(cfg.Token); err != nil {
			return err
		}
	} else {
		sess.SignInAs(session.User{Name: cfg.GuestName})
	}

	mode := chatclient.ModeRemote
	if cfg.LocalMode {
		mode = chatclient.ModeLocal
	}

	view := tui.NewProgramView()
	client := chatclient.New(view, chatclient.Config{
		Mode:     mode,
		ProxyURL: cfg.ProxyURL,
		Session:  sess,
		Logger:   logger,
	})
	defer client.Close()

	program := tea.NewProgram(tui.New(ctx, client, mode), tea.WithAltScreen(), tea.WithContext(ctx))
	view.Attach(program)

	logger.Info("chat started", slog.String("mode", mode.String()), slog.String("proxy_url", cfg.ProxyURL))
	if _, err := program.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("chat UI failed: %w", err)
	}
	return nil
}
