package mail

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/fournil/internal/config"
	"github.com/polkiloo/fournil/internal/worker"
)

// Module exposes the mail transport to the fx graph.
var Module = fx.Provide(newTransport)

type transportParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newTransport(p transportParams) (worker.Transport, error) {
	if p.Config.SMTPAddress == "" {
		p.Logger.Warn("no smtp relay configured, mail is logged only")
		return NewLogTransport(p.Logger), nil
	}
	transport, err := NewSMTPTransport(p.Config.SMTPAddress, p.Config.SMTPUsername, p.Config.SMTPPassword, p.Config.MailFrom, p.Logger)
	if err != nil {
		return nil, err
	}
	return transport, nil
}
