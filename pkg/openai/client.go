package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/dskvich/ai-cli/pkg/domain"
)

const DefaultURL = "https://api.openai.com/v1/chat/completions"

type client struct {
	token string
	url   string
	hc    *http.Client
}

func NewClient(token, url string, timeout time.Duration) (*client, error) {
	if token == "" {
		return nil, domain.ErrMissingCredential
	}
	if url == "" {
		url = DefaultURL
	}
	return &client{
		token: token,
		url:   url,
		hc:    &http.Client{Timeout: timeout},
	}, nil
}

// CreateChatCompletion issues exactly one POST per call. No retries: one user
// turn corresponds to one network call.
func (c *client) CreateChatCompletion(ctx context.Context, params domain.Params, messages []domain.Message) (string, error) {
	if err := c.validateInput(messages); err != nil {
		return "", err
	}

	jsonData, err := json.Marshal(chatCompletionsRequest{
		Model:       params.Model,
		Messages:    messages,
		MaxTokens:   params.MaxTokens,
		Temperature: params.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	slog.DebugContext(ctx, "Sending chat completion request",
		"model", params.Model,
		"messagesCount", len(messages),
		"maxTokens", params.MaxTokens,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("creating HTTP request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.hc.Do(req)
	if err != nil {
		return "", &domain.TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", &domain.RemoteError{Status: resp.StatusCode, Body: string(bodyBytes)}
	}

	var chatResponse chatCompletionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResponse); err != nil {
		return "", &domain.MalformedResponseError{Err: err}
	}

	if len(chatResponse.Choices) == 0 {
		return "", domain.ErrNoReply
	}

	return strings.TrimSpace(chatResponse.Choices[0].Message.Content), nil
}

func (c *client) validateInput(messages []domain.Message) error {
	var err error
	if c.token == "" {
		err = multierror.Append(err, domain.ErrMissingCredential)
	}
	if len(messages) == 0 {
		err = multierror.Append(err, errors.New("messages must not be empty"))
	}
	return err
}
