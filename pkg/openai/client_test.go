package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/dskvich/ai-cli/pkg/domain"
)

func testParams() domain.Params {
	return domain.Params{Model: "gpt-4o-mini", MaxTokens: 200, Temperature: 0.7}
}

func replyBody(content string) string {
	return fmt.Sprintf(`{"choices":[{"message":{"role":"assistant","content":%q}}]}`, content)
}

func TestCreateChatCompletion_Success(t *testing.T) {
	var requests int
	var gotAuth string
	var gotReq chatCompletionsRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decoding request body: %v", err)
		}
		fmt.Fprint(w, replyBody("  hello there  "))
	}))
	defer srv.Close()

	c, err := NewClient("secret-token", srv.URL, time.Second)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	messages := []domain.Message{{Role: domain.RoleUser, Content: "hi"}}
	reply, err := c.CreateChatCompletion(context.Background(), testParams(), messages)
	if err != nil {
		t.Fatalf("CreateChatCompletion: %v", err)
	}

	if reply != "hello there" {
		t.Errorf("expected trimmed reply 'hello there', got %q", reply)
	}
	if requests != 1 {
		t.Errorf("expected exactly 1 request, got %d", requests)
	}
	if gotAuth != "Bearer secret-token" {
		t.Errorf("unexpected Authorization header %q", gotAuth)
	}
	if gotReq.Model != "gpt-4o-mini" || gotReq.MaxTokens != 200 || gotReq.Temperature != 0.7 {
		t.Errorf("unexpected request parameters: %+v", gotReq)
	}
	if !reflect.DeepEqual(gotReq.Messages, messages) {
		t.Errorf("expected messages %+v, got %+v", messages, gotReq.Messages)
	}
}

func TestCreateChatCompletion_TranscriptRoundTrip(t *testing.T) {
	var gotReq chatCompletionsRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decoding request body: %v", err)
		}
		fmt.Fprint(w, replyBody("ok"))
	}))
	defer srv.Close()

	c, err := NewClient("token", srv.URL, time.Second)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	transcript := []domain.Message{
		{Role: domain.RoleUser, Content: "first question"},
		{Role: domain.RoleAssistant, Content: "first answer"},
		{Role: domain.RoleUser, Content: "follow-up"},
	}

	if _, err := c.CreateChatCompletion(context.Background(), testParams(), transcript); err != nil {
		t.Fatalf("CreateChatCompletion: %v", err)
	}

	if !reflect.DeepEqual(gotReq.Messages, transcript) {
		t.Errorf("transcript not replayed verbatim: sent %+v, received %+v", transcript, gotReq.Messages)
	}
}

func TestCreateChatCompletion_RemoteError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, "invalid_api_key")
	}))
	defer srv.Close()

	c, _ := NewClient("token", srv.URL, time.Second)

	_, err := c.CreateChatCompletion(context.Background(), testParams(), []domain.Message{{Role: domain.RoleUser, Content: "hi"}})

	var remoteErr *domain.RemoteError
	if !errors.As(err, &remoteErr) {
		t.Fatalf("expected RemoteError, got %v", err)
	}
	if remoteErr.Status != http.StatusUnauthorized || remoteErr.Body != "invalid_api_key" {
		t.Errorf("expected (401, invalid_api_key), got (%d, %q)", remoteErr.Status, remoteErr.Body)
	}
}

func TestCreateChatCompletion_MalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "not json at all")
	}))
	defer srv.Close()

	c, _ := NewClient("token", srv.URL, time.Second)

	_, err := c.CreateChatCompletion(context.Background(), testParams(), []domain.Message{{Role: domain.RoleUser, Content: "hi"}})

	var malformedErr *domain.MalformedResponseError
	if !errors.As(err, &malformedErr) {
		t.Fatalf("expected MalformedResponseError, got %v", err)
	}
}

func TestCreateChatCompletion_EmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"choices":[]}`)
	}))
	defer srv.Close()

	c, _ := NewClient("token", srv.URL, time.Second)

	_, err := c.CreateChatCompletion(context.Background(), testParams(), []domain.Message{{Role: domain.RoleUser, Content: "hi"}})

	if !errors.Is(err, domain.ErrNoReply) {
		t.Fatalf("expected ErrNoReply, got %v", err)
	}
}

func TestCreateChatCompletion_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c, _ := NewClient("token", srv.URL, time.Second)

	_, err := c.CreateChatCompletion(context.Background(), testParams(), []domain.Message{{Role: domain.RoleUser, Content: "hi"}})

	var transportErr *domain.TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("expected TransportError, got %v", err)
	}
}

func TestCreateChatCompletion_EmptyMessages(t *testing.T) {
	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer srv.Close()

	c, _ := NewClient("token", srv.URL, time.Second)

	if _, err := c.CreateChatCompletion(context.Background(), testParams(), nil); err == nil {
		t.Fatal("expected an error for empty messages")
	}
	if requests != 0 {
		t.Errorf("expected no network activity, got %d requests", requests)
	}
}

func TestNewClient_EmptyToken(t *testing.T) {
	if _, err := NewClient("", "", time.Second); !errors.Is(err, domain.ErrMissingCredential) {
		t.Fatalf("expected ErrMissingCredential, got %v", err)
	}
}
