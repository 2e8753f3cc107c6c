package services

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/fatih/color"
	"github.com/google/uuid"

	"github.com/dskvich/ai-cli/pkg/domain"
	"github.com/dskvich/ai-cli/pkg/logger"
)

type chatService struct {
	completer Completer
	params    domain.Params
	in        io.Reader
	out       io.Writer
}

// NewChatService creates the interactive chat loop. The loop is strictly
// sequential: the next prompt is not shown until the previous turn resolved.
func NewChatService(completer Completer, params domain.Params, in io.Reader, out io.Writer) *chatService {
	return &chatService{
		completer: completer,
		params:    params,
		in:        in,
		out:       out,
	}
}

func (c *chatService) Name() string { return "chat" }

// Run reads lines until "exit" (any letter case) or EOF. A failed turn is
// reported and the loop continues; only the user's entry stays on the
// transcript for that turn.
func (c *chatService) Run(ctx context.Context) error {
	session := NewSession(c.completer, c.params)

	fmt.Fprintln(c.out, color.New(color.FgCyan, color.Bold).Sprint("Starting interactive chat (type 'exit' to quit)"))

	scanner := bufio.NewScanner(c.in)
	for {
		if ctx.Err() != nil {
			return nil
		}

		fmt.Fprint(c.out, color.New(color.FgBlue, color.Bold).Sprint("You: "))
		if !scanner.Scan() {
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if strings.EqualFold(input, "exit") {
			break
		}

		turnCtx := logger.ContextWithRequestID(ctx, uuid.NewString()[:8])
		slog.DebugContext(turnCtx, "Advancing chat session", "model", c.params.Model)

		reply, err := session.Advance(turnCtx, input)
		switch {
		case errors.Is(err, domain.ErrNoReply):
			fmt.Fprintln(c.out, color.YellowString("No response received from AI."))
		case err != nil:
			fmt.Fprintln(c.out, color.RedString("Error: %v", err))
		default:
			fmt.Fprintln(c.out, color.GreenString("AI: %s", reply))
		}
	}

	return scanner.Err()
}
