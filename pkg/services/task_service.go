package services

import (
	"context"
	"fmt"

	"github.com/samber/lo"

	"github.com/dskvich/ai-cli/pkg/domain"
)

const (
	summarizeInstruction       = "Summarize the following text briefly:"
	translateInstructionFormat = "Translate the following text into %s:"
)

type taskService struct {
	completer Completer
	defaults  domain.Params
}

// NewTaskService creates the one-shot task runner. Each task builds a fresh
// single-message session and discards it after one exchange.
func NewTaskService(completer Completer, defaults domain.Params) *taskService {
	return &taskService{
		completer: completer,
		defaults:  defaults,
	}
}

func (t *taskService) Ask(ctx context.Context, prompt string, params domain.Params) (string, error) {
	params.Model, _ = lo.Coalesce(params.Model, t.defaults.Model)
	params.MaxTokens, _ = lo.Coalesce(params.MaxTokens, t.defaults.MaxTokens)
	return t.runOneShot(ctx, prompt, params)
}

func (t *taskService) Summarize(ctx context.Context, text string) (string, error) {
	return t.runOneShot(ctx, framePrompt(summarizeInstruction, text), t.defaults)
}

func (t *taskService) Translate(ctx context.Context, text, lang string) (string, error) {
	instruction := fmt.Sprintf(translateInstructionFormat, lang)
	return t.runOneShot(ctx, framePrompt(instruction, text), t.defaults)
}

func (t *taskService) runOneShot(ctx context.Context, prompt string, params domain.Params) (string, error) {
	session := NewSession(t.completer, params)
	return session.Advance(ctx, prompt)
}

func framePrompt(instruction, input string) string {
	return instruction + "\n\n" + input
}
