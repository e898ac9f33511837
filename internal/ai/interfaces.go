package ai

import "context"

type Role string

const (
	RoleSystem Role = "system"
	RoleUser   Role = "user"
)

type Message struct {
	Role    Role
	Content string
}

// Request is one completion call. N > 1 asks for N independent completions.
type Request struct {
	Messages         []Message
	Temperature      float32
	TopP             float32
	FrequencyPenalty float32
	PresencePenalty  float32
	MaxTokens        int
	N                int
}

// Choice is a single completion. Reasoning holds the model's thinking text
// when the backend returns it separately from the answer.
type Choice struct {
	Content   string
	Reasoning string
}

// Completer is implemented by completion backends.
type Completer interface {
	Complete(ctx context.Context, req Request) ([]Choice, error)
}

// Conversation builds the system+user message pair every prompt uses.
func Conversation(system, user string) []Message {
	return []Message{
		{Role: RoleSystem, Content: system},
		{Role: RoleUser, Content: user},
	}
}

// CommitRequest asks for n commit subjects of at most maxLength characters.
func CommitRequest(system, user string, maxLength, n int) Request {
	if n < 1 {
		n = 1
	}
	return Request{
		Messages:    Conversation(system, user),
		Temperature: 0.3,
		TopP:        1,
		MaxTokens:   max(300, maxLength*12),
		N:           n,
	}
}

func PRRequest(system, user string) Request {
	return Request{Messages: Conversation(system, user), Temperature: 0.4, TopP: 1, MaxTokens: 2000, N: 1}
}

func PRUpdateRequest(system, user string) Request {
	return Request{Messages: Conversation(system, user), Temperature: 0.4, TopP: 1, MaxTokens: 1500, N: 1}
}

func MergeRequest(system, user string) Request {
	return Request{Messages: Conversation(system, user), Temperature: 0.3, TopP: 1, MaxTokens: 100, N: 1}
}

func SummaryRequest(system, user string) Request {
	return Request{Messages: Conversation(system, user), Temperature: 0.5, TopP: 1, MaxTokens: 1500, N: 1}
}

func IssueRequest(system, user string) Request {
	return Request{Messages: Conversation(system, user), Temperature: 0.4, TopP: 1, MaxTokens: 1500, N: 1}
}
