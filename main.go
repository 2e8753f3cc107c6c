package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/samber/lo"

	"github.com/dskvich/ai-cli/pkg/domain"
	"github.com/dskvich/ai-cli/pkg/logger"
	"github.com/dskvich/ai-cli/pkg/openai"
	"github.com/dskvich/ai-cli/pkg/service"
	"github.com/dskvich/ai-cli/pkg/services"
)

type Config struct {
	APIKey      string        `env:"AI_API_KEY"`
	APIURL      string        `env:"AI_API_URL"`
	Model       string        `env:"AI_MODEL" envDefault:"gpt-4o-mini"`
	MaxTokens   int           `env:"AI_MAX_TOKENS" envDefault:"200"`
	Temperature float64       `env:"AI_TEMPERATURE" envDefault:"0.7"`
	HTTPTimeout time.Duration `env:"AI_HTTP_TIMEOUT" envDefault:"90s"`
	Debug       bool          `env:"AI_DEBUG"`
}

func main() {
	if err := runMain(os.Args[1:]); err != nil {
		slog.Error("command failed", logger.Err(err))
		os.Exit(1)
	}
}

func runMain(args []string) error {
	_ = godotenv.Load()

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return fmt.Errorf("parsing env config: %w", err)
	}

	opts := *logger.DefaultOptions
	opts.Level = lo.Ternary[slog.Leveler](cfg.Debug, slog.LevelDebug, slog.LevelInfo)
	opts.NoColor = color.NoColor
	slog.SetDefault(slog.New(logger.NewHandler(os.Stderr, &opts)))

	if len(args) == 0 {
		usage(os.Stderr)
		return errors.New("missing command")
	}

	// The credential is resolved once, before any command runs; the chat loop
	// never re-reads the environment per turn.
	if cfg.APIKey == "" {
		return domain.ErrMissingCredential
	}

	ctx, cancelFn := context.WithCancel(context.Background())
	defer cancelFn()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGHUP)
		select {
		case s := <-sigCh:
			slog.Info("shutting down due to signal", "signal", s.String())
			cancelFn()
		case <-ctx.Done():
		}
	}()

	client, err := openai.NewClient(cfg.APIKey, cfg.APIURL, cfg.HTTPTimeout)
	if err != nil {
		return fmt.Errorf("creating open ai client: %w", err)
	}

	switch cmd, rest := args[0], args[1:]; cmd {
	case "ask":
		return runAsk(ctx, cfg, client, rest)
	case "summarize":
		return runSummarize(ctx, cfg, client, rest)
	case "translate":
		return runTranslate(ctx, cfg, client, rest)
	case "chat":
		return runChat(ctx, cfg, client, rest)
	default:
		usage(os.Stderr)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func runAsk(ctx context.Context, cfg Config, completer services.Completer, args []string) error {
	fs := flag.NewFlagSet("ask", flag.ContinueOnError)
	model := fs.String("model", cfg.Model, "model name")
	maxTokens := fs.Int("n", 150, "upper bound on reply length, in tokens")
	temperature := fs.Float64("T", cfg.Temperature, "sampling temperature")
	if err := fs.Parse(args); err != nil {
		return err
	}

	prompt, err := inputOrStdin(fs.Args(), "Enter your prompt (Ctrl+D to finish):")
	if err != nil {
		return err
	}

	tasks := services.NewTaskService(completer, defaultParams(cfg))
	reply, err := tasks.Ask(ctx, prompt, domain.Params{
		Model:       *model,
		MaxTokens:   *maxTokens,
		Temperature: *temperature,
	})
	return printReply(os.Stdout, reply, err)
}

func runSummarize(ctx context.Context, cfg Config, completer services.Completer, args []string) error {
	fs := flag.NewFlagSet("summarize", flag.ContinueOnError)
	model := fs.String("model", cfg.Model, "model name")
	if err := fs.Parse(args); err != nil {
		return err
	}

	text, err := inputOrStdin(fs.Args(), "Paste text to summarize (Ctrl+D to finish):")
	if err != nil {
		return err
	}

	params := defaultParams(cfg)
	params.Model = *model

	tasks := services.NewTaskService(completer, params)
	reply, err := tasks.Summarize(ctx, text)
	return printReply(os.Stdout, reply, err)
}

func runTranslate(ctx context.Context, cfg Config, completer services.Completer, args []string) error {
	fs := flag.NewFlagSet("translate", flag.ContinueOnError)
	model := fs.String("model", cfg.Model, "model name")
	to := fs.String("to", "en", "target language code, e.g. fr, es, id")
	if err := fs.Parse(args); err != nil {
		return err
	}

	text, err := inputOrStdin(fs.Args(), "Paste text to translate (Ctrl+D to finish):")
	if err != nil {
		return err
	}

	params := defaultParams(cfg)
	params.Model = *model

	tasks := services.NewTaskService(completer, params)
	reply, err := tasks.Translate(ctx, text, *to)
	return printReply(os.Stdout, reply, err)
}

func runChat(ctx context.Context, cfg Config, completer services.Completer, args []string) error {
	fs := flag.NewFlagSet("chat", flag.ContinueOnError)
	model := fs.String("model", cfg.Model, "model name")
	if err := fs.Parse(args); err != nil {
		return err
	}

	params := defaultParams(cfg)
	params.Model = *model

	chatService := services.NewChatService(completer, params, os.Stdin, os.Stdout)

	return service.Group{chatService}.Run(ctx)
}

func defaultParams(cfg Config) domain.Params {
	return domain.Params{
		Model:       cfg.Model,
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
	}
}

func inputOrStdin(args []string, prompt string) (string, error) {
	if len(args) > 0 {
		return validateInput(strings.Join(args, " "))
	}

	fmt.Println(color.BlueString(prompt))
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return validateInput(string(data))
}

func validateInput(text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", errors.New("input text is empty")
	}
	return text, nil
}

func printReply(out io.Writer, reply string, err error) error {
	if errors.Is(err, domain.ErrNoReply) {
		fmt.Fprintln(out, color.YellowString("No response received from AI."))
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(out, color.New(color.FgGreen, color.Bold).Sprint("================ AI Response ================"))
	fmt.Fprintln(out, reply)
	fmt.Fprintln(out, color.New(color.FgGreen, color.Bold).Sprint("============================================="))
	return nil
}

func usage(out io.Writer) {
	fmt.Fprintln(out, "ai-cli commands:")
	fmt.Fprintln(out, "  ask        [-model NAME] [-n TOKENS] [-T TEMP] [prompt]  Ask a single question")
	fmt.Fprintln(out, "  summarize  [-model NAME] [text]                          Summarize text input")
	fmt.Fprintln(out, "  translate  [-model NAME] [-to LANG] [text]               Translate text into another language")
	fmt.Fprintln(out, "  chat       [-model NAME]                                 Start an interactive chat session")
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "When the positional text is omitted, input is read from stdin until EOF.")
}
