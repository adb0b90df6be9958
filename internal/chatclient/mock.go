package chatclient

import (
	"context"
	"math/rand/v2"
	"time"
)

// DefaultMockDelay is how long the local responder pretends to think.
const DefaultMockDelay = 500 * time.Millisecond

// MockCatalog holds the canned replies used in local mode.
var MockCatalog = []string{
	"Hi! I'm the AI assistant for Abdulkadir Khalifa Mustapha. He's a Prompt Engineer and Software Engineer based in the UK, specializing in Healthcare AI, Productivity AI, and Media AI products.",
	"Abdulkadir works at the intersection of AI engineering and product development, crafting intelligent systems that solve real problems.",
	"His Healthcare AI work focuses on building AI-powered tools to improve healthcare workflows and patient outcomes.",
	"In Productivity AI, he creates intelligent systems that help teams work smarter and faster.",
	"For Media AI, he develops AI solutions for content creation and media production.",
	"Feel free to reach out via LinkedIn to discuss collaborations or opportunities!",
}

// MockResponder answers without the network, for offline UI work.
type MockResponder struct {
	Delay   time.Duration
	Catalog []string
	// Pick returns an index in [0, n).
	Pick func(n int) int
}

func NewMockResponder() *MockResponder {
	return &MockResponder{
		Delay:   DefaultMockDelay,
		Catalog: MockCatalog,
		Pick:    rand.IntN,
	}
}

// Reply waits Delay, then returns a catalog entry.
func (m *MockResponder) Reply(ctx context.Context) (string, error) {
	if m.Delay > 0 {
		timer := time.NewTimer(m.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-timer.C:
		}
	}

	catalog := m.Catalog
	if len(catalog) == 0 {
		catalog = MockCatalog
	}
	pick := m.Pick
	if pick == nil {
		pick = rand.IntN
	}
	return catalog[pick(len(catalog))], nil
}
