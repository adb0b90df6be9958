package services

import (
	"context"
	"encoding/json"
	"fmt"

	"portfolio-backend/internal/models"
)

// CompletionRequest is one outbound call to an inference provider.
type CompletionRequest struct {
	APIKey      string
	Messages    []models.ChatMessage
	MaxTokens   int
	Temperature float64
}

// Provider generates a single completion for a role-tagged message sequence.
type Provider interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// ProviderError is returned when the provider answers with a non-success status.
// Body holds the provider's error payload as JSON.
type ProviderError struct {
	StatusCode int
	Body       json.RawMessage
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("inference provider returned status %d: %s", e.StatusCode, string(e.Body))
}

// EmptyCompletionError is returned when the provider succeeds but the payload
// carries no usable choice.
type EmptyCompletionError struct {
	Payload json.RawMessage
}

func (e *EmptyCompletionError) Error() string {
	return "inference provider returned no choices"
}

// asJSON keeps valid JSON as-is and encodes anything else as a JSON string.
func asJSON(data []byte) json.RawMessage {
	if len(data) == 0 {
		return nil
	}
	if json.Valid(data) {
		return json.RawMessage(data)
	}
	encoded, _ := json.Marshal(string(data))
	return encoded
}
