package test

import (
	"context"
	"sync"

	"github.com/polkiloo/fournil/internal/domain/model"
	"github.com/polkiloo/fournil/internal/worker"
)

// TransportStub records dials, sends and closes of mail sessions.
type TransportStub struct {
	// DialErr fails every dial when set.
	DialErr error
	// SendFn decides the outcome of each send; nil accepts everything.
	SendFn func(model.Message) error

	mu     sync.Mutex
	dials  int
	closes int
	sent   []model.Message
}

// Dial opens a recording session.
func (t *TransportStub) Dial(context.Context) (worker.Session, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.DialErr != nil {
		return nil, t.DialErr
	}
	t.dials++
	return &sessionStub{transport: t}, nil
}

// Sent returns delivered messages in delivery order.
func (t *TransportStub) Sent() []model.Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]model.Message(nil), t.sent...)
}

// Dials returns how many sessions were opened.
func (t *TransportStub) Dials() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.dials
}

// Closes returns how many sessions were closed.
func (t *TransportStub) Closes() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closes
}

type sessionStub struct {
	transport *TransportStub
}

func (s *sessionStub) Send(_ context.Context, msg model.Message) error {
	if s.transport.SendFn != nil {
		if err := s.transport.SendFn(msg); err != nil {
			return err
		}
	}
	s.transport.mu.Lock()
	defer s.transport.mu.Unlock()
	s.transport.sent = append(s.transport.sent, msg)
	return nil
}

func (s *sessionStub) Close() error {
	s.transport.mu.Lock()
	defer s.transport.mu.Unlock()
	s.transport.closes++
	return nil
}
