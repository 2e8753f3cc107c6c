package domain

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one transcript entry. Content is non-empty by construction:
// blank user input is never turned into a message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
