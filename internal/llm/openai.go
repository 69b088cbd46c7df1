package llm

import (
	"context"
	"errors"

	openai "github.com/sashabaranov/go-openai"
)

// Generator is the external text-generation dependency of the note endpoint.
// Implementations take a fully composed prompt and return the drafted note.
type Generator interface {
	GenerateNote(ctx context.Context, prompt string) (string, error)
}

// ErrEmptyCompletion is returned when the API answers without any choices.
var ErrEmptyCompletion = errors.New("generation service returned no completion")

// OpenAIClient calls the OpenAI chat completion API to draft notes.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

// NewOpenAIClient constructs an OpenAI-backed generator.
func NewOpenAIClient(apiKey, model string) *OpenAIClient {
	return &OpenAIClient{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

// GenerateNote sends the composed prompt as a single user message and returns
// the model's response verbatim. One attempt only; the caller decides how to
// surface failures.
func (c *OpenAIClient) GenerateNote(ctx context.Context, prompt string) (string, error) {
	if c.client == nil {
		return "", errors.New("openai client not initialized")
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.2,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	return resp.Choices[0].Message.Content, nil
}
