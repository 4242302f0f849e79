package mail

import (
	"context"
	"log/slog"

	"github.com/polkiloo/fournil/internal/domain/model"
	"github.com/polkiloo/fournil/internal/worker"
)

// LogTransport writes messages to the log instead of a relay. It is used
// when no SMTP address is configured.
type LogTransport struct {
	logger *slog.Logger
}

// NewLogTransport constructs LogTransport.
func NewLogTransport(logger *slog.Logger) *LogTransport {
	return &LogTransport{logger: logger}
}

func (t *LogTransport) Dial(context.Context) (worker.Session, error) {
	return logSession{logger: t.logger}, nil
}

type logSession struct {
	logger *slog.Logger
}

func (s logSession) Send(_ context.Context, msg model.Message) error {
	s.logger.Info("mail",
		slog.String("message_id", msg.ID),
		slog.String("to", msg.To),
		slog.String("subject", msg.Subject),
		slog.Int("bytes", len(msg.Body)))
	return nil
}

func (logSession) Close() error { return nil }
