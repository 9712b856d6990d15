package testfixtures

import (
	"context"
	"sync"

	"worktime.service/internal/ports/messaging"
)

// RecordingProducer captures published checkout events instead of sending
// them anywhere.
type RecordingProducer struct {
	mu     sync.Mutex
	Err    error // returned from PublishCheckOut when set
	events []messaging.CheckOutEvent
}

func (p *RecordingProducer) PublishCheckOut(ctx context.Context, event messaging.CheckOutEvent) error {
	if p.Err != nil {
		return p.Err
	}
	p.mu.Lock()
	p.events = append(p.events, event)
	p.mu.Unlock()
	return nil
}

// Events returns a copy of everything published so far.
func (p *RecordingProducer) Events() []messaging.CheckOutEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]messaging.CheckOutEvent(nil), p.events...)
}
