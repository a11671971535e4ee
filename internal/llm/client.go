package llm

import (
	"context"
	"fmt"
	"log"

	openai "github.com/sashabaranov/go-openai"
)

// #region messages

// Message roles for a chat exchange.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of a chat exchange. Callers carry the history
// themselves; the client is stateless across calls.
type Message struct {
	Role    string
	Content string
}

// #endregion messages

// #region client

// Client wraps the chat completion endpoint behind a minimal surface.
type Client struct {
	api    *openai.Client
	config Config
}

// NewClient creates a chat client. The API key is required.
func NewClient(config Config) (*Client, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("missing API key (set GROQ_API_KEY)")
	}
	apiConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		apiConfig.BaseURL = config.BaseURL
	}
	log.Printf("[LLM] client ready: model=%s", config.Model)
	return &Client{api: openai.NewClientWithConfig(apiConfig), config: config}, nil
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.config.Model
}

// #endregion client

// #region complete

// Complete sends the message history and returns the assistant reply.
func (c *Client) Complete(ctx context.Context, messages []Message, temperature float32) (string, error) {
	if c.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()
	}

	req := openai.ChatCompletionRequest{
		Model:       c.config.Model,
		Messages:    make([]openai.ChatCompletionMessage, 0, len(messages)),
		MaxTokens:   c.config.MaxTokens,
		Temperature: temperature,
	}
	for _, m := range messages {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// #endregion complete
