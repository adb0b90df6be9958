package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"portfolio-backend/internal/models"
)

// GeminiProvider generates completions with Gemini. A client is created per
// call because the credential is only known at request time.
type GeminiProvider struct {
	model string
	opts  []option.ClientOption
}

func NewGeminiProvider(model string, opts ...option.ClientOption) *GeminiProvider {
	return &GeminiProvider{model: model, opts: opts}
}

func (p *GeminiProvider) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	opts := append([]option.ClientOption{option.WithAPIKey(req.APIKey)}, p.opts...)
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return "", fmt.Errorf("failed to create Gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(p.model)
	model.SetTemperature(float32(req.Temperature))
	model.SetMaxOutputTokens(int32(req.MaxTokens))

	system, history, message := splitForGemini(req.Messages)
	model.SystemInstruction = system

	cs := model.StartChat()
	cs.History = history

	resp, err := cs.SendMessage(ctx, genai.Text(message))
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) {
			body := []byte(apiErr.Body)
			if len(body) == 0 {
				body = []byte(apiErr.Message)
			}
			return "", &ProviderError{StatusCode: apiErr.Code, Body: asJSON(body)}
		}
		var blocked *genai.BlockedError
		if errors.As(err, &blocked) {
			payload, _ := json.Marshal(blocked)
			return "", &EmptyCompletionError{Payload: payload}
		}
		return "", fmt.Errorf("Gemini API error: %w", err)
	}

	text, ok := extractText(resp)
	if !ok {
		payload, _ := json.Marshal(resp)
		return "", &EmptyCompletionError{Payload: payload}
	}

	return text, nil
}

// splitForGemini maps the outbound sequence onto Gemini's shape: the system
// turn becomes the system instruction, the final user turn is the message to
// send, everything between is chat history with "assistant" renamed "model".
func splitForGemini(messages []models.ChatMessage) (*genai.Content, []*genai.Content, string) {
	var system *genai.Content
	if len(messages) > 0 && messages[0].Role == models.RoleSystem {
		system = genai.NewUserContent(genai.Text(messages[0].Content))
		messages = messages[1:]
	}

	var message string
	if n := len(messages); n > 0 {
		message = messages[n-1].Content
		messages = messages[:n-1]
	}

	history := make([]*genai.Content, 0, len(messages))
	for _, msg := range messages {
		role := "user"
		if msg.Role == models.RoleAssistant {
			role = "model"
		}
		history = append(history, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(msg.Content)},
		})
	}

	return system, history, message
}

// extractText joins the text parts of the first candidate. ok is false only
// when there is no candidate at all.
func extractText(resp *genai.GenerateContentResponse) (text string, ok bool) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", false
	}
	var b strings.Builder
	cand := resp.Candidates[0]
	if cand.Content != nil {
		for _, part := range cand.Content.Parts {
			if t, isText := part.(genai.Text); isText {
				b.WriteString(string(t))
			}
		}
	}
	return b.String(), true
}
