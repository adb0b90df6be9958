package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"portfolio-backend/internal/models"
)

const instrumentationName = "portfolio-backend/internal/services"

// ChatService turns a client chat request into one provider call with the
// persona prepended. It keeps no state between calls.
type ChatService struct {
	provider Provider
	apiKey   func() string
	logger   *slog.Logger

	tracer   trace.Tracer
	duration metric.Float64Histogram
	requests metric.Int64Counter
}

func NewChatService(provider Provider, apiKey func() string, logger *slog.Logger) *ChatService {
	if logger == nil {
		logger = slog.Default()
	}

	meter := otel.Meter(instrumentationName)
	duration, err := meter.Float64Histogram(
		"chat.provider.duration",
		metric.WithDescription("Inference provider call duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		logger.Warn("failed to create duration histogram", "error", err)
	}
	requests, err := meter.Int64Counter(
		"chat.requests",
		metric.WithDescription("Chat requests by outcome"),
	)
	if err != nil {
		logger.Warn("failed to create request counter", "error", err)
	}

	return &ChatService{
		provider: provider,
		apiKey:   apiKey,
		logger:   logger,
		tracer:   otel.Tracer(instrumentationName),
		duration: duration,
		requests: requests,
	}
}

// Reply validates req, checks the credential and asks the provider for one
// completion. Errors are *ValidationError, *ConfigurationError, *UpstreamError
// or a wrapped transport error.
func (s *ChatService) Reply(ctx context.Context, req models.ChatRequest) (string, error) {
	if strings.TrimSpace(req.Message) == "" {
		s.count(ctx, "invalid")
		return "", &ValidationError{Message: "Message is required"}
	}
	if fields := validateHistory(req.History); len(fields) > 0 {
		s.count(ctx, "invalid")
		return "", &ValidationError{Message: "Invalid history", Fields: fields}
	}

	key := s.apiKey()
	if key == "" {
		s.count(ctx, "misconfigured")
		s.logger.Error("inference API key not configured")
		return "", &ConfigurationError{Message: "Inference API key not configured"}
	}

	messages := BuildMessages(req.History, req.Message)

	ctx, span := s.tracer.Start(ctx, "inference.complete",
		trace.WithAttributes(attribute.Int("chat.history_len", len(req.History))))
	defer span.End()

	start := time.Now()
	reply, err := s.provider.Complete(ctx, CompletionRequest{
		APIKey:      key,
		Messages:    messages,
		MaxTokens:   CompletionMaxTokens,
		Temperature: CompletionTemperature,
	})
	if s.duration != nil {
		s.duration.Record(ctx, float64(time.Since(start).Milliseconds()))
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", s.upstreamError(ctx, err)
	}

	s.count(ctx, "ok")
	return reply, nil
}

func (s *ChatService) upstreamError(ctx context.Context, err error) error {
	var provErr *ProviderError
	if errors.As(err, &provErr) {
		s.count(ctx, "provider_error")
		s.logger.Error("inference provider error", "status", provErr.StatusCode, "details", string(provErr.Body))
		return &UpstreamError{Message: "Failed to get response from AI", Details: provErr.Body, Err: err}
	}

	var emptyErr *EmptyCompletionError
	if errors.As(err, &emptyErr) {
		s.count(ctx, "empty")
		s.logger.Error("no choices in inference response", "details", string(emptyErr.Payload))
		return &UpstreamError{Message: "No response from AI", Details: emptyErr.Payload, Err: err}
	}

	s.count(ctx, "transport_error")
	s.logger.Error("chat API error", "error", err)
	return fmt.Errorf("inference call failed: %w", err)
}

func (s *ChatService) count(ctx context.Context, outcome string) {
	if s.requests == nil {
		return
	}
	s.requests.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

// BuildMessages returns the outbound sequence: persona, history verbatim, then
// the current message as a user turn.
func BuildMessages(history []models.ChatMessage, message string) []models.ChatMessage {
	messages := make([]models.ChatMessage, 0, len(history)+2)
	messages = append(messages, models.ChatMessage{Role: models.RoleSystem, Content: PersonaPrompt})
	messages = append(messages, history...)
	messages = append(messages, models.ChatMessage{Role: models.RoleUser, Content: message})
	return messages
}

// validateHistory rejects entries a browser client could not have produced:
// unknown roles (notably "system") and empty content.
func validateHistory(history []models.ChatMessage) map[string]string {
	fields := map[string]string{}
	for i, msg := range history {
		key := fmt.Sprintf("history[%d]", i)
		switch {
		case !models.Conversational(msg.Role):
			fields[key] = fmt.Sprintf("role must be %q or %q", models.RoleUser, models.RoleAssistant)
		case strings.TrimSpace(msg.Content) == "":
			fields[key] = "content is required"
		}
	}
	return fields
}
