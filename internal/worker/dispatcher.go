package worker

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/polkiloo/fournil/internal/domain/model"
)

// ErrQueueFull is returned by Enqueue when the priority lane has no room left.
var ErrQueueFull = errors.New("mail queue full")

const (
	defaultWorkers     = 1
	defaultQueueSize   = 64
	defaultIdleTimeout = 30 * time.Second
)

// Transport opens sessions with the mail relay.
type Transport interface {
	Dial(ctx context.Context) (Session, error)
}

// Session delivers messages over one relay connection.
type Session interface {
	Send(ctx context.Context, msg model.Message) error
	Close() error
}

// Options tunes the dispatcher. Zero values fall back to defaults; a
// non-positive Rate disables throttling.
type Options struct {
	Workers     int
	QueueSize   int
	IdleTimeout time.Duration
	Rate        float64
}

// Dispatcher is a two-lane mail queue drained by a pool of workers.
// Urgent messages always leave before bulk ones.
type Dispatcher struct {
	transport Transport
	workers   int
	idle      time.Duration
	limiter   *rate.Limiter
	logger    *slog.Logger

	urgent chan model.Message
	bulk   chan model.Message

	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewDispatcher constructs the dispatcher. A quarter of QueueSize is reserved
// for urgent messages.
func NewDispatcher(transport Transport, opts Options, logger *slog.Logger) *Dispatcher {
	if opts.Workers <= 0 {
		opts.Workers = defaultWorkers
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = defaultQueueSize
	}
	if opts.IdleTimeout <= 0 {
		opts.IdleTimeout = defaultIdleTimeout
	}

	urgentSize := max(opts.QueueSize/4, 1)
	bulkSize := max(opts.QueueSize-urgentSize, 1)

	limiter := rate.NewLimiter(rate.Inf, 0)
	if opts.Rate > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.Rate), int(math.Ceil(opts.Rate)))
	}

	return &Dispatcher{
		transport: transport,
		workers:   opts.Workers,
		idle:      opts.IdleTimeout,
		limiter:   limiter,
		logger:    logger,
		urgent:    make(chan model.Message, urgentSize),
		bulk:      make(chan model.Message, bulkSize),
	}
}

// Enqueue adds msg to its priority lane without blocking.
func (d *Dispatcher) Enqueue(msg model.Message, priority model.Priority) error {
	lane := d.bulk
	if priority == model.PriorityUrgent {
		lane = d.urgent
	}
	select {
	case lane <- msg:
		return nil
	default:
		d.logger.Warn("mail queue full", slog.String("priority", priority.String()), slog.String("to", msg.To))
		return ErrQueueFull
	}
}

// Pending returns the number of queued messages.
func (d *Dispatcher) Pending() int {
	return len(d.urgent) + len(d.bulk)
}

// Start launches the workers.
func (d *Dispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker(runCtx)
	}
}

// Stop cancels the workers and waits for them to close their sessions.
// Messages still queued are dropped.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.mu.Unlock()

	d.wg.Wait()
	if pending := d.Pending(); pending > 0 {
		d.logger.Warn("mail dispatcher stopped with pending messages", slog.Int("pending", pending))
	}
}

func (d *Dispatcher) worker(ctx context.Context) {
	defer d.wg.Done()

	var session Session
	idle := time.NewTimer(d.idle)
	idle.Stop()
	defer func() {
		idle.Stop()
		d.closeSession(&session)
	}()

	for {
		var msg model.Message
		select {
		case msg = <-d.urgent:
		default:
			select {
			case <-ctx.Done():
				return
			case <-idle.C:
				d.closeSession(&session)
				continue
			case msg = <-d.urgent:
			case msg = <-d.bulk:
			}
		}

		d.deliver(ctx, &session, msg)
		idle.Reset(d.idle)
	}
}

func (d *Dispatcher) deliver(ctx context.Context, session *Session, msg model.Message) {
	if err := d.limiter.Wait(ctx); err != nil {
		d.logger.Warn("mail dropped", slog.String("message_id", msg.ID), slog.String("error", err.Error()))
		return
	}

	if *session == nil {
		s, err := d.transport.Dial(ctx)
		if err != nil {
			d.logger.Error("mail relay dial failed", slog.String("message_id", msg.ID), slog.String("error", err.Error()))
			return
		}
		*session = s
	}

	if err := (*session).Send(ctx, msg); err != nil {
		d.logger.Error("mail send failed",
			slog.String("message_id", msg.ID),
			slog.String("to", msg.To),
			slog.String("error", err.Error()))
		d.closeSession(session)
	}
}

func (d *Dispatcher) closeSession(session *Session) {
	if *session == nil {
		return
	}
	if err := (*session).Close(); err != nil {
		d.logger.Warn("mail session close failed", slog.String("error", err.Error()))
	}
	*session = nil
}
