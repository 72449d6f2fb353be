package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/turtacn/Joana-OrderBot/internal/application/archive"
	"github.com/turtacn/Joana-OrderBot/internal/application/conversation"
	"github.com/turtacn/Joana-OrderBot/internal/domain/session"
	"github.com/turtacn/Joana-OrderBot/pkg/client"
	"github.com/turtacn/Joana-OrderBot/pkg/errors"
)

// NewChatCmd runs the bot in-process against an in-memory session store, or
// against a running API server with --server. Buttons are pressed with /N,
// where N is the number shown next to them.
func NewChatCmd() *cobra.Command {
	var (
		sessionID string
		server    string
	)

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with the ordering bot in the terminal",
		Long: `Start an interactive conversation with the bot.

Type messages as a customer would. Buttons are listed under each reply;
press one with /N. Other commands: /reset starts over, /quit exits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			var backend chatBackend
			if server != "" {
				backend, err = newRemoteBackend(server, cliCtx)
			} else {
				backend, err = newLocalBackend(cliCtx)
			}
			if err != nil {
				return err
			}
			if sessionID == "" {
				sessionID = "cli:" + uuid.New().String()
			}
			return runChat(cmd.Context(), backend, sessionID, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&sessionID, "session", "", "session id (default: random)")
	cmd.Flags().StringVar(&server, "server", "", "API server base URL, e.g. http://localhost:8080 (default: in-process bot)")
	return cmd
}

// chatReply is one turn's output in transport-neutral form.
type chatReply struct {
	Messages []client.Message
	OrderID  string
}

type chatBackend interface {
	Turn(ctx context.Context, sessionID, text string) (*chatReply, error)
	Reset(ctx context.Context, sessionID string) error
}

type localBackend struct {
	svc conversation.Service
}

func newLocalBackend(cliCtx *CLIContext) (*localBackend, error) {
	cat, nlu, err := loadNLU(cliCtx.Config)
	if err != nil {
		return nil, err
	}
	logger := cliCtx.Logger
	engine := conversation.NewEngine(cat, nlu, conversation.OptionsFromConfig(cliCtx.Config))
	svc := conversation.NewService(engine,
		session.NewMemoryStore(cliCtx.Config.Session.TTL),
		logger,
		conversation.WithSink(archive.NewLogSink(logger)),
	)
	return &localBackend{svc: svc}, nil
}

func (b *localBackend) Turn(ctx context.Context, sessionID, text string) (*chatReply, error) {
	res, err := b.svc.HandleTurn(ctx, &conversation.TurnInput{SessionID: sessionID, Text: text})
	if err != nil {
		return nil, err
	}
	out := &chatReply{OrderID: res.OrderID, Messages: make([]client.Message, 0, len(res.Messages))}
	for _, m := range res.Messages {
		msg := client.Message{Text: m.Text}
		for _, btn := range m.Buttons {
			msg.Buttons = append(msg.Buttons, client.Button{ID: btn.ID, Title: btn.Title})
		}
		out.Messages = append(out.Messages, msg)
	}
	return out, nil
}

func (b *localBackend) Reset(ctx context.Context, sessionID string) error {
	return b.svc.ResetSession(ctx, sessionID)
}

type remoteBackend struct {
	sessions *client.SessionsClient
}

func newRemoteBackend(server string, cliCtx *CLIContext) (*remoteBackend, error) {
	c, err := client.NewClient(server,
		client.WithHTTPClient(&http.Client{Timeout: cliCtx.Timeout}),
		client.WithUserAgent("orderbot-cli/"+Version),
	)
	if err != nil {
		return nil, err
	}
	return &remoteBackend{sessions: c.Sessions()}, nil
}

func (b *remoteBackend) Turn(ctx context.Context, sessionID, text string) (*chatReply, error) {
	res, err := b.sessions.Send(ctx, sessionID, text)
	if err != nil {
		return nil, err
	}
	return &chatReply{Messages: res.Messages, OrderID: res.OrderID}, nil
}

func (b *remoteBackend) Reset(ctx context.Context, sessionID string) error {
	return b.sessions.Reset(ctx, sessionID)
}

// chatConsole renders replies and maps /N to the last buttons shown.
type chatConsole struct {
	backend   chatBackend
	sessionID string
	out       io.Writer
	buttons   []client.Button
}

func runChat(ctx context.Context, backend chatBackend, sessionID string, in io.Reader, out io.Writer) error {
	c := &chatConsole{backend: backend, sessionID: sessionID, out: out}
	prompt := color.New(color.FgCyan, color.Bold).SprintFunc()

	scanner := bufio.NewScanner(in)
	fmt.Fprint(out, prompt("you> "))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		quit, err := c.handle(ctx, line)
		if err != nil {
			fmt.Fprintf(out, "%s %v\n", color.RedString("!"), err)
		}
		if quit {
			return nil
		}
		fmt.Fprint(out, prompt("you> "))
	}
	return scanner.Err()
}

func (c *chatConsole) handle(ctx context.Context, line string) (quit bool, err error) {
	switch {
	case line == "":
		return false, nil
	case line == "/quit" || line == "/exit":
		return true, nil
	case line == "/reset":
		c.buttons = nil
		if err := c.backend.Reset(ctx, c.sessionID); err != nil {
			return false, err
		}
		fmt.Fprintln(c.out, color.YellowString("session reset"))
		return false, nil
	case strings.HasPrefix(line, "/"):
		id, err := c.press(line[1:])
		if err != nil {
			return false, err
		}
		line = id
	}

	res, err := c.backend.Turn(ctx, c.sessionID, line)
	if err != nil {
		if errors.IsCode(err, errors.ErrCodeDuplicateTurn) {
			return false, nil
		}
		return false, err
	}
	c.render(res)
	return false, nil
}

func (c *chatConsole) press(arg string) (string, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > len(c.buttons) {
		return "", errors.InvalidParam(fmt.Sprintf("no button %q", arg))
	}
	return c.buttons[n-1].ID, nil
}

func (c *chatConsole) render(res *chatReply) {
	bot := color.New(color.FgGreen).SprintFunc()
	c.buttons = c.buttons[:0]
	for _, m := range res.Messages {
		fmt.Fprintf(c.out, "%s %s\n", bot("bot>"), m.Text)
		for _, b := range m.Buttons {
			c.buttons = append(c.buttons, b)
			fmt.Fprintf(c.out, "      [/%d] %s\n", len(c.buttons), b.Title)
		}
	}
	if res.OrderID != "" {
		fmt.Fprintf(c.out, "%s order %s\n", color.GreenString("✔"), res.OrderID)
	}
}
