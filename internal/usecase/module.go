package usecase

import (
	"time"

	"go.uber.org/fx"
)

// Module provides core business use cases to the fx container.
var Module = fx.Provide(
	newClock,
	NewAuthUseCase,
	NewClientUseCase,
	NewCatalogUseCase,
	NewBatchUseCase,
	NewOrderUseCase,
	NewSettlementUseCase,
	NewPlanUseCase,
	fx.Annotate(
		NewNotifier,
		fx.As(new(WelcomeSender)),
		fx.As(new(StatementSender)),
		fx.As(new(MailingSender)),
	),
)

func newClock() Clock {
	return time.Now
}
