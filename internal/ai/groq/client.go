// Package groq talks to Groq's OpenAI-compatible chat completion endpoint.
package groq

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/sashabaranov/go-openai"
	"golang.org/x/sync/errgroup"

	"github.com/thomas-vilte/dash/internal/ai"
	"github.com/thomas-vilte/dash/internal/config"
	domainErrors "github.com/thomas-vilte/dash/internal/errors"
	"github.com/thomas-vilte/dash/internal/logger"
	"github.com/thomas-vilte/dash/internal/regex"
)

const (
	BaseURL   = "https://api.groq.com/openai/v1"
	statusURL = "https://console.groq.com/status"

	rateLimitCode = "rate_limit_exceeded"
)

var _ ai.Completer = (*Client)(nil)

// chatAPI is the subset of the go-openai client used here.
type chatAPI interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type Client struct {
	api   chatAPI
	model string
}

type Options struct {
	APIKey  string
	Model   string
	Timeout time.Duration
	Proxy   string
	BaseURL string
}

// OptionsFromConfig maps the validated config onto client options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
		Timeout: cfg.Timeout(),
		Proxy:   cfg.Proxy,
	}
}

// NewClient builds a client whose requests share one timeout and proxy.
func NewClient(opts Options) (*Client, error) {
	if opts.APIKey == "" {
		return nil, domainErrors.ErrAPIKeyMissing
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if opts.Proxy != "" {
		proxyURL, err := url.Parse(opts.Proxy)
		if err != nil {
			return nil, domainErrors.ErrInvalidConfig.WithMessage("Invalid config property %s: %v", config.KeyProxy, err)
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}

	cfg := openai.DefaultConfig(opts.APIKey)
	cfg.BaseURL = BaseURL
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	cfg.HTTPClient = &http.Client{
		Timeout:   opts.Timeout,
		Transport: reasoningTransport{next: transport},
	}

	return &Client{api: openai.NewClientWithConfig(cfg), model: opts.Model}, nil
}

// Complete runs req.N single-choice requests, in parallel when N > 1, and
// returns their choices in completion order. No retries are attempted.
func (c *Client) Complete(ctx context.Context, req ai.Request) ([]ai.Choice, error) {
	n := req.N
	if n < 1 {
		n = 1
	}
	logger.Debug(ctx, "requesting completion", "model", c.model, "n", n, "max_tokens", req.MaxTokens)

	if n == 1 {
		return c.completeOnce(ctx, req)
	}

	var (
		mu      sync.Mutex
		choices []ai.Choice
	)
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			got, err := c.completeOnce(gctx, req)
			if err != nil {
				return err
			}
			mu.Lock()
			choices = append(choices, got...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return choices, nil
}

func (c *Client) completeOnce(ctx context.Context, req ai.Request) ([]ai.Choice, error) {
	resp, err := c.api.CreateChatCompletion(ctx, c.toOpenAI(req))
	if err != nil {
		classified := classify(err)
		logger.Debug(ctx, "completion failed", "error", classified)
		return nil, classified
	}

	choices := make([]ai.Choice, 0, len(resp.Choices))
	for _, ch := range resp.Choices {
		choices = append(choices, splitReasoning(ch.Message))
	}
	return choices, nil
}

func (c *Client) toOpenAI(req ai.Request) openai.ChatCompletionRequest {
	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		messages = append(messages, openai.ChatCompletionMessage{Role: string(m.Role), Content: m.Content})
	}
	return openai.ChatCompletionRequest{
		Model:            c.model,
		Messages:         messages,
		Temperature:      req.Temperature,
		TopP:             req.TopP,
		FrequencyPenalty: req.FrequencyPenalty,
		PresencePenalty:  req.PresencePenalty,
		MaxTokens:        req.MaxTokens,
		N:                1,
	}
}

// splitReasoning prefers the dedicated reasoning field (Groq's reasoning,
// promoted by reasoningTransport, or reasoning_content) and otherwise peels
// a leading <think> block off the content.
func splitReasoning(msg openai.ChatCompletionMessage) ai.Choice {
	choice := ai.Choice{Content: msg.Content, Reasoning: msg.ReasoningContent}

	if m := regex.ThinkBlock.FindStringSubmatchIndex(choice.Content); m != nil {
		if choice.Reasoning == "" {
			choice.Reasoning = strings.TrimSpace(choice.Content[m[2]:m[3]])
		}
		choice.Content = strings.TrimSpace(choice.Content[m[1]:])
		return choice
	}
	// Output cut off by max_tokens while still thinking.
	if m := regex.ThinkOpenNoClose.FindStringSubmatch(choice.Content); m != nil {
		if choice.Reasoning == "" {
			choice.Reasoning = strings.TrimSpace(m[1])
		}
		choice.Content = ""
	}
	return choice
}

func classify(err error) error {
	var apiErr *openai.APIError
	if stderrors.As(err, &apiErr) {
		return apiFailure(apiErr.HTTPStatusCode, apiErr.Message, fmt.Sprint(apiErr.Code), err)
	}

	var reqErr *openai.RequestError
	if stderrors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
		msg := string(reqErr.Body)
		if msg == "" && reqErr.Err != nil {
			msg = reqErr.Err.Error()
		}
		return apiFailure(reqErr.HTTPStatusCode, msg, "", err)
	}

	var dnsErr *net.DNSError
	if stderrors.As(err, &dnsErr) {
		return domainErrors.ErrConnection.
			WithMessage("Error connecting to %s. Are you connected to the internet?", dnsErr.Name).
			WithError(err)
	}

	return err
}

func apiFailure(status int, message, code string, err error) error {
	text := fmt.Sprintf("Groq API Error: %d", status)
	if message = strings.TrimSpace(message); message != "" {
		text += " - " + message
	}

	if status == http.StatusRequestEntityTooLarge ||
		strings.Contains(message, rateLimitCode) ||
		code == rateLimitCode {
		return domainErrors.ErrRateLimited.WithMessage("%s", text).WithError(err)
	}

	appErr := domainErrors.ErrAPI.WithMessage("%s", text).WithError(err)
	if status == http.StatusInternalServerError {
		appErr = appErr.WithSuggestion("Check the API status: " + statusURL)
	}
	return appErr
}
