// Package engine connects the game to the language models that narrate
// adventures and paint portraits.
package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/tatianab/onepage/internal/models"
)

const (
	DefaultNarrationModel = "gemini-2.5-flash"
	DefaultPortraitModel  = "gemini-2.5-flash-image"
)

// Engine is the Gemini-backed Narrator and PortraitRenderer.
type Engine struct {
	client         *genai.Client
	narrationModel string
	portraitModel  string
}

// Option configures an Engine.
type Option func(*Engine)

// WithNarrationModel overrides the chat model.
func WithNarrationModel(name string) Option {
	return func(e *Engine) {
		if name != "" {
			e.narrationModel = name
		}
	}
}

// WithPortraitModel overrides the image model.
func WithPortraitModel(name string) Option {
	return func(e *Engine) {
		if name != "" {
			e.portraitModel = name
		}
	}
}

func NewEngine(ctx context.Context, apiKey string, opts ...Option) (*Engine, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}

	e := &Engine{
		client:         client,
		narrationModel: DefaultNarrationModel,
		portraitModel:  DefaultPortraitModel,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

func (e *Engine) Close() {
	e.client.Close()
}

// OpenSession starts a Gemini chat whose system instruction carries the
// character sheet and adventure setup.
func (e *Engine) OpenSession(_ context.Context, systemInstruction string, temperature float32) (Conversation, error) {
	model := e.client.GenerativeModel(e.narrationModel)
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(systemInstruction)}}
	model.SetTemperature(temperature)

	return &geminiConversation{chat: model.StartChat()}, nil
}

type geminiConversation struct {
	chat *genai.ChatSession
}

func (c *geminiConversation) Converse(ctx context.Context, text string) (string, error) {
	resp, err := c.chat.SendMessage(ctx, genai.Text(text))
	if err != nil {
		return "", err
	}
	return responseText(resp)
}

// RenderImage asks the image model for a portrait and returns the first
// inline image it produced.
func (e *Engine) RenderImage(ctx context.Context, prompt string) (*models.Portrait, error) {
	model := e.client.GenerativeModel(e.portraitModel)
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, err
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, nil
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if blob, ok := part.(genai.Blob); ok {
			return &models.Portrait{MIMEType: blob.MIMEType, Data: blob.Data}, nil
		}
	}
	return nil, nil
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content returned from Gemini")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("unexpected response type from Gemini")
	}
	return strings.TrimSpace(sb.String()), nil
}
