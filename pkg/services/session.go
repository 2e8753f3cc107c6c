package services

import (
	"context"

	"github.com/dskvich/ai-cli/pkg/domain"
)

type Completer interface {
	CreateChatCompletion(ctx context.Context, params domain.Params, messages []domain.Message) (string, error)
}

// Session owns the ordered transcript of one conversation. The transcript is
// an append-only log: it is never truncated or reordered, and it is not
// persisted anywhere, so it lives and dies with the session.
type Session struct {
	completer Completer
	params    domain.Params
	messages  []domain.Message
}

func NewSession(completer Completer, params domain.Params) *Session {
	return &Session{
		completer: completer,
		params:    params,
	}
}

// Advance appends the user's message and replays the full transcript to the
// completer so the model retains context. On success the assistant's reply is
// appended as well: the transcript grows by 2 on success and by 1 on failure.
// The user entry is kept on failure so a retried send does not duplicate it.
func (s *Session) Advance(ctx context.Context, userText string) (string, error) {
	s.messages = append(s.messages, domain.Message{Role: domain.RoleUser, Content: userText})

	reply, err := s.completer.CreateChatCompletion(ctx, s.params, s.messages)
	if err != nil {
		return "", err
	}

	s.messages = append(s.messages, domain.Message{Role: domain.RoleAssistant, Content: reply})
	return reply, nil
}

// Messages returns a copy of the transcript. Note that every turn re-sends
// the whole transcript and nothing bounds its growth; long sessions pay for
// the full history on each call.
func (s *Session) Messages() []domain.Message {
	out := make([]domain.Message, len(s.messages))
	copy(out, s.messages)
	return out
}
