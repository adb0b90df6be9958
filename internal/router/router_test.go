package router

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio-backend/internal/handlers"
	"portfolio-backend/internal/middleware"
	"portfolio-backend/internal/models"
	"portfolio-backend/internal/services"
)

type fakeProvider struct {
	mu    sync.Mutex
	calls []services.CompletionRequest
	reply string
	err   error
}

func (p *fakeProvider) Complete(ctx context.Context, req services.CompletionRequest) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, req)
	return p.reply, p.err
}

func (p *fakeProvider) recorded() []services.CompletionRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]services.CompletionRequest(nil), p.calls...)
}

func (p *fakeProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.calls)
}

func newTestServer(t *testing.T, provider services.Provider, key string, opts Options) *httptest.Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := services.NewChatService(provider, func() string { return key }, logger)
	srv := httptest.NewServer(New(handlers.NewChatHandler(svc), opts))
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response) map[string]json.RawMessage {
	t.Helper()
	var body map[string]json.RawMessage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func assertCORS(t *testing.T, resp *http.Response) {
	t.Helper()
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", resp.Header.Get("Access-Control-Allow-Credentials"))
	assert.Equal(t, "GET,OPTIONS,PATCH,DELETE,POST,PUT", resp.Header.Get("Access-Control-Allow-Methods"))
	assert.NotEmpty(t, resp.Header.Get("Access-Control-Allow-Headers"))
}

func TestChat_Success(t *testing.T) {
	provider := &fakeProvider{reply: "Hello! I'm a full-stack developer."}
	srv := newTestServer(t, provider, "gsk-test", Options{})

	for _, path := range []string{"/api/chat", "/api/v1/chat"} {
		t.Run(path, func(t *testing.T) {
			resp := do(t, http.MethodPost, srv.URL+path, `{"message":"hi","history":[]}`)

			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assertCORS(t, resp)
			assert.NotEmpty(t, resp.Header.Get(middleware.RequestIDHeader))

			var body models.ChatResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.True(t, body.Success)
			assert.Equal(t, "Hello! I'm a full-stack developer.", body.Message)
		})
	}

	calls := provider.recorded()
	require.Len(t, calls, 2)
	msgs := calls[0].Messages
	require.Len(t, msgs, 2)
	assert.Equal(t, models.RoleSystem, msgs[0].Role)
	assert.Equal(t, services.PersonaPrompt, msgs[0].Content)
	assert.Equal(t, models.ChatMessage{Role: models.RoleUser, Content: "hi"}, msgs[1])
	assert.Equal(t, "gsk-test", calls[0].APIKey)
}

func TestChat_HistoryForwardedInOrder(t *testing.T) {
	provider := &fakeProvider{reply: "ok"}
	srv := newTestServer(t, provider, "k", Options{})

	body := `{"message":"third","history":[{"role":"user","content":"first"},{"role":"assistant","content":"second"}]}`
	resp := do(t, http.MethodPost, srv.URL+"/api/chat", body)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	calls := provider.recorded()
	require.Len(t, calls, 1)
	assert.Equal(t, []models.ChatMessage{
		{Role: models.RoleSystem, Content: services.PersonaPrompt},
		{Role: models.RoleUser, Content: "first"},
		{Role: models.RoleAssistant, Content: "second"},
		{Role: models.RoleUser, Content: "third"},
	}, calls[0].Messages)
}

func TestChat_MissingCredential(t *testing.T) {
	provider := &fakeProvider{reply: "unused"}
	srv := newTestServer(t, provider, "", Options{})

	resp := do(t, http.MethodPost, srv.URL+"/api/chat", `{"message":"hi"}`)

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assertCORS(t, resp)
	assert.JSONEq(t, `"Inference API key not configured"`, string(decode(t, resp)["error"]))
	assert.Equal(t, 0, provider.callCount())
}

func TestChat_MissingMessage(t *testing.T) {
	provider := &fakeProvider{reply: "unused"}
	srv := newTestServer(t, provider, "k", Options{})

	resp := do(t, http.MethodPost, srv.URL+"/api/chat", `{}`)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assertCORS(t, resp)
	assert.JSONEq(t, `"Message is required"`, string(decode(t, resp)["error"]))
	assert.Equal(t, 0, provider.callCount())
}

func TestChat_ProviderFailureDetails(t *testing.T) {
	payload := `{"error":{"message":"Invalid API Key","type":"invalid_request_error"}}`
	provider := &fakeProvider{err: &services.ProviderError{StatusCode: 401, Body: json.RawMessage(payload)}}
	srv := newTestServer(t, provider, "bad", Options{})

	resp := do(t, http.MethodPost, srv.URL+"/api/chat", `{"message":"hi"}`)

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	body := decode(t, resp)
	assert.JSONEq(t, `"Failed to get response from AI"`, string(body["error"]))
	assert.JSONEq(t, payload, string(body["details"]))
}

func TestChat_EmptyCompletion(t *testing.T) {
	payload := `{"choices":[]}`
	provider := &fakeProvider{err: &services.EmptyCompletionError{Payload: json.RawMessage(payload)}}
	srv := newTestServer(t, provider, "k", Options{})

	resp := do(t, http.MethodPost, srv.URL+"/api/chat", `{"message":"hi"}`)

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	body := decode(t, resp)
	assert.JSONEq(t, `"No response from AI"`, string(body["error"]))
	assert.JSONEq(t, payload, string(body["details"]))
}

func TestChat_EmptyReplyIsSuccess(t *testing.T) {
	srv := newTestServer(t, &fakeProvider{reply: ""}, "k", Options{})

	resp := do(t, http.MethodPost, srv.URL+"/api/chat", `{"message":"hi"}`)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode(t, resp)
	assert.JSONEq(t, `true`, string(body["success"]))
	assert.JSONEq(t, `""`, string(body["message"]))
}

func TestChat_Preflight(t *testing.T) {
	provider := &fakeProvider{}
	srv := newTestServer(t, provider, "k", Options{})

	for _, path := range []string{"/api/chat", "/api/v1/chat", "/anything"} {
		resp := do(t, http.MethodOptions, srv.URL+path, "")
		data, err := io.ReadAll(resp.Body)
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		assert.Empty(t, data, path)
		assertCORS(t, resp)
	}
	assert.Equal(t, 0, provider.callCount())
}

func TestChat_MethodNotAllowed(t *testing.T) {
	provider := &fakeProvider{}
	srv := newTestServer(t, provider, "k", Options{})

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		resp := do(t, method, srv.URL+"/api/chat", "")

		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode, method)
		assertCORS(t, resp)
		assert.JSONEq(t, `"Method not allowed"`, string(decode(t, resp)["error"]))
	}
	assert.Equal(t, 0, provider.callCount())
}

func TestHealthAndNotFound(t *testing.T) {
	srv := newTestServer(t, &fakeProvider{}, "k", Options{})

	resp := do(t, http.MethodGet, srv.URL+"/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `"ok"`, string(decode(t, resp)["status"]))

	resp = do(t, http.MethodGet, srv.URL+"/nope", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assertCORS(t, resp)
}

func TestChat_CustomOrigin(t *testing.T) {
	srv := newTestServer(t, &fakeProvider{reply: "ok"}, "k", Options{FrontendURL: "https://example.dev"})

	resp := do(t, http.MethodPost, srv.URL+"/api/chat", `{"message":"hi"}`)
	assert.Equal(t, "https://example.dev", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestChat_RateLimited(t *testing.T) {
	limiter := middleware.NewRateLimiter(1, time.Minute)
	t.Cleanup(limiter.Stop)
	provider := &fakeProvider{reply: "ok"}
	srv := newTestServer(t, provider, "k", Options{Limiter: limiter})

	first := do(t, http.MethodPost, srv.URL+"/api/chat", `{"message":"hi"}`)
	assert.Equal(t, http.StatusOK, first.StatusCode)

	second := do(t, http.MethodPost, srv.URL+"/api/chat", `{"message":"hi"}`)
	assert.Equal(t, http.StatusTooManyRequests, second.StatusCode)
	assertCORS(t, second)
	assert.Equal(t, 1, provider.callCount())
}

func TestChat_JWTRequiredWhenConfigured(t *testing.T) {
	auth := middleware.NewJWTAuth("test-secret")
	provider := &fakeProvider{reply: "ok"}
	srv := newTestServer(t, provider, "k", Options{JWTAuth: auth})

	resp := do(t, http.MethodPost, srv.URL+"/api/chat", `{"message":"hi"}`)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assertCORS(t, resp)

	token, err := auth.GenerateAccessToken(uuid.New(), "Ada", "ada@example.com", time.Hour)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/chat", strings.NewReader(`{"message":"hi"}`))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	authed, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer authed.Body.Close()

	assert.Equal(t, http.StatusOK, authed.StatusCode)
	assert.Equal(t, 1, provider.callCount())
}
