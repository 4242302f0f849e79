package test

import (
	"sync"

	"github.com/polkiloo/fournil/internal/domain/model"
)

// QueuedMessage is one Enqueue call seen by QueueStub.
type QueuedMessage struct {
	Message  model.Message
	Priority model.Priority
}

// QueueStub records enqueued messages. Err, when set, rejects every message.
type QueueStub struct {
	Err error

	mu       sync.Mutex
	messages []QueuedMessage
}

// Enqueue stores the message unless Err is set.
func (q *QueueStub) Enqueue(msg model.Message, priority model.Priority) error {
	if q.Err != nil {
		return q.Err
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.messages = append(q.messages, QueuedMessage{Message: msg, Priority: priority})
	return nil
}

// Messages returns a copy of what has been queued so far.
func (q *QueueStub) Messages() []QueuedMessage {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]QueuedMessage(nil), q.messages...)
}
