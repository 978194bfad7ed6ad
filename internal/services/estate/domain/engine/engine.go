package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/louisbranch/fairsquares/internal/platform/errors"
	"github.com/louisbranch/fairsquares/internal/platform/requestctx"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/aggregate"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/command"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/effect"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/event"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/primitive"
)

const tracerName = "github.com/louisbranch/fairsquares/internal/services/estate/domain/engine"

// Journal persists committed events. Append assigns sequence numbers and
// chain hashes and returns the stored events.
type Journal interface {
	Append(ctx context.Context, events []event.Event) ([]event.Event, error)
	List(ctx context.Context, afterSeq uint64, limit int) ([]event.Event, error)
}

// Observer receives the events of every committed transaction.
type Observer interface {
	Observe(ctx context.Context, events []event.Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ctx context.Context, events []event.Event)

// Observe calls f.
func (f ObserverFunc) Observe(ctx context.Context, events []event.Event) { f(ctx, events) }

// Options configures an Engine.
type Options struct {
	Params    Params
	Ports     effect.Ports
	Journal   Journal
	Observers []Observer
	// Logf receives skipped tasks and post-commit failures. Defaults to log.Printf.
	Logf   func(format string, args ...any)
	Now    func() time.Time
	Tracer trace.Tracer
}

// Engine is the estate state machine. It is safe for concurrent use; every
// operation and hook runs alone.
type Engine struct {
	mu sync.Mutex

	params    Params
	ports     effect.Ports
	journal   Journal
	observers []Observer
	logf      func(string, ...any)
	now       func() time.Time
	tracer    trace.Tracer

	events   *event.Registry
	commands *command.Registry
	folder   *aggregate.Folder
	handlers map[command.Type]handler

	state aggregate.State
	block primitive.BlockNumber
}

// New validates opts and returns an engine with empty state.
func New(opts Options) (*Engine, error) {
	if err := opts.Params.Validate(); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInitializationError, "invalid engine params", err)
	}
	var missing []error
	if opts.Ports.Roles == nil {
		missing = append(missing, errors.New("roles collaborator is required"))
	}
	if opts.Ports.Assets == nil {
		missing = append(missing, errors.New("assets collaborator is required"))
	}
	if opts.Ports.Identity == nil {
		missing = append(missing, errors.New("identity collaborator is required"))
	}
	if opts.Ports.Currency == nil {
		missing = append(missing, errors.New("currency collaborator is required"))
	}
	if opts.Journal == nil {
		missing = append(missing, errors.New("journal is required"))
	}
	if len(missing) > 0 {
		return nil, apperrors.Wrap(apperrors.CodeInitializationError, "incomplete engine options", errors.Join(missing...))
	}

	events := event.NewRegistry()
	if err := aggregate.RegisterEvents(events); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInitializationError, "register events", err)
	}
	commands, err := NewCommandRegistry()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInitializationError, "register commands", err)
	}

	e := &Engine{
		params:    opts.Params,
		ports:     opts.Ports,
		journal:   opts.Journal,
		observers: opts.Observers,
		logf:      opts.Logf,
		now:       opts.Now,
		tracer:    opts.Tracer,
		events:    events,
		commands:  commands,
		folder:    &aggregate.Folder{},
	}
	if e.logf == nil {
		e.logf = log.Printf
	}
	if e.now == nil {
		e.now = time.Now
	}
	if e.tracer == nil {
		e.tracer = otel.Tracer(tracerName)
	}
	e.handlers = e.commandHandlers()
	return e, nil
}

// Events returns the event registry.
func (e *Engine) Events() *event.Registry { return e.events }

// Params returns the engine parameters.
func (e *Engine) Params() Params { return e.params }

// Block returns the block of the last hook run.
func (e *Engine) Block() primitive.BlockNumber {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.block
}

// State returns a copy of the current state.
func (e *Engine) State() aggregate.State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Clone()
}

// Execute validates cmd and runs it through the command dispatch table.
func (e *Engine) Execute(ctx context.Context, cmd command.Command) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.execute(ctx, cmd)
}

func (e *Engine) execute(ctx context.Context, cmd command.Command) error {
	if cmd.RequestID == "" {
		cmd.RequestID = requestctx.RequestIDFromContext(ctx)
	}
	ctx, span := e.tracer.Start(ctx, "estate.command",
		trace.WithAttributes(
			attribute.String("estate.command.type", string(cmd.Type)),
			attribute.String("estate.actor", cmd.ActorID),
			attribute.Int64("estate.block", int64(e.block)),
		))
	defer span.End()

	err := e.dispatch(ctx, cmd)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(apperrors.CodeOf(err)))
	}
	return err
}

func (e *Engine) dispatch(ctx context.Context, cmd command.Command) error {
	validated, err := e.commands.ValidateForDecision(cmd)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeAmountInvalid, "invalid command", err)
	}
	h, ok := e.handlers[validated.Type]
	if !ok {
		return fmt.Errorf("no handler for command %s", validated.Type)
	}
	return e.commit(ctx, validated.ActorID, validated.RequestID, func(t *tx) error {
		return h(t, validated)
	})
}

// commit runs fn in a transaction and makes its outcome durable. The
// caller holds e.mu.
func (e *Engine) commit(ctx context.Context, actor, requestID string, fn func(*tx) error) error {
	t := &tx{
		engine:    e,
		state:     e.state.Clone(),
		block:     e.block,
		actor:     actor,
		requestID: requestID,
		timestamp: e.now().UTC(),
	}
	if err := fn(t); err != nil {
		return err
	}
	if len(t.events) == 0 && len(t.effects) == 0 {
		return nil
	}
	if err := effect.Run(e.ports, t.effects); err != nil {
		return err
	}
	stored, err := e.journal.Append(ctx, t.events)
	if err != nil {
		if cerr := effect.Compensate(e.ports, t.effects); cerr != nil {
			e.logf("estate: compensate after journal failure: %v", cerr)
		}
		return fmt.Errorf("append events: %w", err)
	}
	e.state = t.state
	for _, observer := range e.observers {
		observer.Observe(ctx, stored)
	}
	return nil
}

// Replay rebuilds state from journal. The chain is verified before any
// event is folded.
func (e *Engine) Replay(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	ctx, span := e.tracer.Start(ctx, "estate.replay")
	defer span.End()

	var all []event.Event
	var after uint64
	for {
		page, err := e.journal.List(ctx, after, 500)
		if err != nil {
			return fmt.Errorf("list events: %w", err)
		}
		if len(page) == 0 {
			break
		}
		all = append(all, page...)
		after = page[len(page)-1].Seq
	}
	if err := event.VerifyChain(all); err != nil {
		return fmt.Errorf("verify journal: %w", err)
	}
	state, err := e.folder.FoldAll(aggregate.State{}, all)
	if err != nil {
		return fmt.Errorf("replay: %w", err)
	}
	e.state = state
	if n := len(all); n > 0 && all[n-1].Block > e.block {
		e.block = all[n-1].Block
	}
	span.SetAttributes(attribute.Int("estate.replay.events", len(all)))
	return nil
}
