package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"portfolio-backend/internal/models"
)

const groqDefaultBaseURL = "https://api.groq.com/openai/v1"

// GroqProvider talks to Groq's OpenAI-compatible chat completions endpoint.
// The API key is passed per request so a missing credential never reaches here.
type GroqProvider struct {
	client openai.Client
	model  string
}

func NewGroqProvider(baseURL, model string, httpClient *http.Client) *GroqProvider {
	if baseURL == "" {
		baseURL = groqDefaultBaseURL
	}

	opts := []option.RequestOption{
		option.WithBaseURL(baseURL),
		option.WithMaxRetries(0),
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}

	return &GroqProvider{
		client: openai.NewClient(opts...),
		model:  model,
	}
}

func (p *GroqProvider) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(p.model),
		Messages:    toOpenAIMessages(req.Messages),
		MaxTokens:   openai.Int(int64(req.MaxTokens)),
		Temperature: openai.Float(req.Temperature),
	}

	resp, err := p.client.Chat.Completions.New(ctx, params, option.WithAPIKey(req.APIKey))
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return "", &ProviderError{StatusCode: apiErr.StatusCode, Body: errorBody(apiErr)}
		}
		return "", fmt.Errorf("groq request failed: %w", err)
	}

	// A present first choice is a reply even when its content is empty.
	if len(resp.Choices) == 0 {
		return "", &EmptyCompletionError{Payload: asJSON([]byte(resp.RawJSON()))}
	}

	return resp.Choices[0].Message.Content, nil
}

func toOpenAIMessages(messages []models.ChatMessage) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case models.RoleSystem:
			out = append(out, openai.SystemMessage(msg.Content))
		case models.RoleAssistant:
			out = append(out, openai.AssistantMessage(msg.Content))
		default:
			out = append(out, openai.UserMessage(msg.Content))
		}
	}
	return out
}

// errorBody recovers the full error payload. The SDK re-buffers the response
// body on API errors; RawJSON only holds the nested "error" object.
func errorBody(apiErr *openai.Error) json.RawMessage {
	if apiErr.Response != nil && apiErr.Response.Body != nil {
		data, err := io.ReadAll(apiErr.Response.Body)
		if err == nil && len(data) > 0 {
			return asJSON(data)
		}
	}
	return asJSON([]byte(apiErr.RawJSON()))
}
