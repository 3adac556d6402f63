package summary

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const (
	// GroqBaseURL is Groq's OpenAI-compatible endpoint.
	GroqBaseURL = "https://api.groq.com/openai/v1"

	DefaultGroqModel = "llama-3.1-8b-instant"
)

// GroqClient talks to Groq through the OpenAI-compatible chat API.
type GroqClient struct {
	client *openai.Client
	model  openai.ChatModel
}

func NewGroqClient(apiKey, model string) *GroqClient {
	if model == "" {
		model = DefaultGroqModel
	}
	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(GroqBaseURL),
	)
	return &GroqClient{
		client: &client,
		model:  openai.ChatModel(model),
	}
}

func (c *GroqClient) Complete(ctx context.Context, prompt string, temperature float64) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	}
	if temperature > 0 {
		params.Temperature = openai.Float(temperature)
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("groq api: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in groq reply")
	}
	return resp.Choices[0].Message.Content, nil
}
