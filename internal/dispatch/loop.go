package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/roach88/donobot/internal/ledger"
)

// CommandType distinguishes the slash commands.
type CommandType int

const (
	// CommandRecordDonation is /donate.
	CommandRecordDonation CommandType = iota + 1
	// CommandCheckDonation is /checkdono.
	CommandCheckDonation
)

// String returns the slash command name.
func (t CommandType) String() string {
	switch t {
	case CommandRecordDonation:
		return "donate"
	case CommandCheckDonation:
		return "checkdono"
	default:
		return fmt.Sprintf("unknown(%d)", int(t))
	}
}

// Responder delivers a Reply back to the platform.
type Responder func(ctx context.Context, r Reply) error

// Command is one queued slash command invocation.
type Command struct {
	Type      CommandType
	RequestID string // assigned by Submit when empty
	Record    *RecordDonation
	Check     *CheckDonation
	Respond   Responder
}

// Handler executes commands. Implemented by Dispatcher.
type Handler interface {
	RecordDonation(ctx context.Context, cmd RecordDonation) (Reply, error)
	CheckDonation(ctx context.Context, cmd CheckDonation) Reply
}

// Loop is the single-writer command loop.
//
// Thread-safety model:
//   - Submit(): safe from any goroutine
//   - Run(): must be called from exactly one goroutine
type Loop struct {
	handler  Handler
	queue    *commandQueue
	ids      RequestIDGenerator
	log      zerolog.Logger
	inFlight atomic.Int32
}

// LoopOption configures a Loop.
type LoopOption func(*Loop)

// WithRequestIDs overrides the UUIDv7 request id generator.
func WithRequestIDs(g RequestIDGenerator) LoopOption {
	return func(l *Loop) {
		l.ids = g
	}
}

// NewLoop creates a Loop that runs commands through h.
func NewLoop(h Handler, log zerolog.Logger, opts ...LoopOption) *Loop {
	l := &Loop{
		handler: h,
		queue:   newCommandQueue(),
		ids:     UUIDv7Generator{},
		log:     log,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Submit queues a command for Run. Returns false once the loop has stopped.
func (l *Loop) Submit(c Command) bool {
	if c.RequestID == "" {
		c.RequestID = l.ids.Generate()
	}
	return l.queue.Enqueue(c)
}

// Run processes commands until ctx is cancelled or Stop is called.
//
// A failed command is logged and the loop moves on; nothing is retried.
func (l *Loop) Run(ctx context.Context) error {
	l.log.Info().Msg("command loop starting")

	for {
		if c, ok := l.queue.TryDequeue(); ok {
			l.inFlight.Store(1)
			l.process(ctx, c)
			l.inFlight.Store(0)
			continue
		}

		select {
		case <-ctx.Done():
			l.log.Info().Msg("command loop stopping: context cancelled")
			l.queue.Close()
			return ctx.Err()

		case <-l.queue.Wait():
			// The signal channel is closed once the queue is closed,
			// so this fires immediately after Stop.
			if l.queue.Len() == 0 && l.stopped() {
				l.log.Info().Msg("command loop stopping: queue closed")
				return nil
			}
		}
	}
}

// Backlog returns the number of commands queued or being processed.
// Safe from any goroutine.
func (l *Loop) Backlog() int {
	return l.queue.Len() + int(l.inFlight.Load())
}

// Stop closes the queue. Commands already queued are still processed
// before Run returns.
func (l *Loop) Stop() {
	l.queue.Close()
}

func (l *Loop) stopped() bool {
	l.queue.mu.Lock()
	defer l.queue.mu.Unlock()
	return l.queue.closed
}

// process runs one command. Called only from the Run goroutine.
func (l *Loop) process(ctx context.Context, c Command) {
	log := l.log.With().
		Str("request_id", c.RequestID).
		Str("command", c.Type.String()).
		Logger()
	ctx = log.WithContext(ctx)

	var (
		reply Reply
		err   error
	)
	switch {
	case c.Type == CommandRecordDonation && c.Record != nil:
		log.Debug().
			Str("caller_id", c.Record.Caller.ID).
			Str("user_id", c.Record.Target.ID).
			Float64("amount", c.Record.Amount).
			Msg("processing command")
		reply, err = l.handler.RecordDonation(ctx, *c.Record)

	case c.Type == CommandCheckDonation && c.Check != nil:
		log.Debug().Str("user_id", c.Check.Target.ID).Msg("processing command")
		reply = l.handler.CheckDonation(ctx, *c.Check)

	default:
		log.Error().Msg("command missing its payload")
		return
	}

	logOutcome(&log, err)

	if c.Respond == nil {
		return
	}
	if err := c.Respond(ctx, reply); err != nil {
		log.Error().Err(err).Bool("private", reply.Private).Msg("failed to send reply")
	}
}

func logOutcome(log *zerolog.Logger, err error) {
	switch {
	case err == nil:
	case errors.Is(err, ErrPermissionDenied),
		errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrNegativeTotal):
		log.Info().Err(err).Msg("donation rejected")
	case errors.Is(err, ErrReconcile):
		log.Warn().Err(err).Msg("donation recorded but badges not fully reconciled")
	default:
		log.Error().Err(err).Msg("command failed")
	}
}
