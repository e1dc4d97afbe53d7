package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// DefaultOpenAIModel is used when no model is configured.
const DefaultOpenAIModel = "gpt-4o"

// OpenAI narrates through any OpenAI-compatible chat completion API. The
// API is stateless, so each conversation keeps its own message history.
type OpenAI struct {
	client *openai.Client
	model  string
}

// NewOpenAI creates an OpenAI-compatible narrator. An empty baseURL keeps
// the library default.
func NewOpenAI(apiKey, baseURL, model string) (*OpenAI, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required for OpenAI narrator")
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = DefaultOpenAIModel
	}

	return &OpenAI{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}, nil
}

// OpenSession starts a conversation with the instruction as system message.
func (o *OpenAI) OpenSession(_ context.Context, systemInstruction string, temperature float32) (Conversation, error) {
	return &openAIConversation{
		client:      o.client,
		model:       o.model,
		temperature: temperature,
		messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemInstruction},
		},
	}, nil
}

type openAIConversation struct {
	client      *openai.Client
	model       string
	temperature float32
	messages    []openai.ChatCompletionMessage
}

func (c *openAIConversation) Converse(ctx context.Context, text string) (string, error) {
	messages := append(c.messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: text})

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: c.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("OpenAI request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("OpenAI returned empty response")
	}

	reply := resp.Choices[0].Message
	// History only grows on success so a failed turn can be retried.
	c.messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: reply.Content})
	return strings.TrimSpace(reply.Content), nil
}
