package chatclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"portfolio-backend/internal/models"
)

// ErrUnsuccessful marks a proxy answer that arrived but did not carry a reply.
var ErrUnsuccessful = errors.New("chat proxy reported failure")

// UnsuccessfulError carries what the proxy said when success was not true.
type UnsuccessfulError struct {
	StatusCode int
	Message    string
}

func (e *UnsuccessfulError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("chat proxy returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("chat proxy returned status %d: %s", e.StatusCode, e.Message)
}

func (e *UnsuccessfulError) Unwrap() error { return ErrUnsuccessful }

// RemoteResponder posts one ChatRequest to the proxy per call. There is no
// retry; the client's timeout, if any, is the only deadline.
type RemoteResponder struct {
	url    string
	client *http.Client
	token  func() string
}

// NewRemoteResponder targets url. token may be nil; a non-empty token is sent
// as a bearer credential.
func NewRemoteResponder(url string, client *http.Client, token func() string) *RemoteResponder {
	if client == nil {
		client = http.DefaultClient
	}
	return &RemoteResponder{url: url, client: client, token: token}
}

type proxyReply struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

// Send returns the assistant reply, an *UnsuccessfulError when the proxy
// answered without success, or a transport/decoding error otherwise.
func (r *RemoteResponder) Send(ctx context.Context, req models.ChatRequest) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to encode chat request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build chat request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if r.token != nil {
		if token := r.token(); token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := r.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("chat request failed: %w", err)
	}
	defer resp.Body.Close()

	var reply proxyReply
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return "", fmt.Errorf("failed to decode chat response: %w", err)
	}

	if !reply.Success {
		return "", &UnsuccessfulError{StatusCode: resp.StatusCode, Message: reply.Error}
	}
	return reply.Message, nil
}
