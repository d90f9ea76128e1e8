package memory

import (
	"context"
	"sync"

	"github.com/loginbase/auth-gateway/internal/application/auth"
)

// Publisher is a no-broker auth.EventPublisher that records events.
// Used when RABBIT_URL is not configured and in tests.
type Publisher struct {
	mu     sync.Mutex
	events []auth.SignInEvent
}

func NewPublisher() *Publisher {
	return &Publisher{}
}

func (p *Publisher) PublishSignIn(ctx context.Context, evt auth.SignInEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return nil
}

// Events returns a copy of the recorded events.
func (p *Publisher) Events() []auth.SignInEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]auth.SignInEvent, len(p.events))
	copy(out, p.events)
	return out
}
