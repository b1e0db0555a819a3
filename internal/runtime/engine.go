package runtime

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/hornbill/internal/logging"
	"github.com/aretw0/hornbill/pkg/catalog"
	"github.com/aretw0/hornbill/pkg/domain"
	"github.com/aretw0/hornbill/pkg/ports"
	"github.com/oklog/ulid/v2"
)

// Engine is the wizard state machine.
//
// It holds no session state: every operation takes a session, works on a
// snapshot of it and returns the snapshot. The input is never modified.
type Engine struct {
	catalog      *catalog.Catalog
	clock        ports.Clock
	logger       *slog.Logger
	hooks        domain.LifecycleHooks
	newReference func(time.Time) string
}

// Option configures the Engine.
type Option func(*Engine)

// WithClock sets the clock used for every date rule.
func WithClock(clock ports.Clock) Option {
	return func(e *Engine) {
		if clock != nil {
			e.clock = clock
		}
	}
}

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability callbacks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = e.hooks.Merge(hooks)
	}
}

// WithReferenceGenerator overrides how plan references are minted.
func WithReferenceGenerator(fn func(time.Time) string) Option {
	return func(e *Engine) {
		if fn != nil {
			e.newReference = fn
		}
	}
}

// NewEngine creates an engine over cat. A nil catalog means catalog.Default().
func NewEngine(cat *catalog.Catalog, opts ...Option) *Engine {
	if cat == nil {
		cat = catalog.Default()
	}
	e := &Engine{
		catalog:      cat,
		clock:        ports.SystemClock,
		logger:       logging.NewNop(),
		newReference: newULID,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func newULID(t time.Time) string {
	return ulid.MustNew(ulid.Timestamp(t), ulid.DefaultEntropy()).String()
}

// Catalog returns the catalog the engine validates against.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

// Start creates a clean session on the first step.
func (e *Engine) Start(ctx context.Context, sessionID string) *domain.Session {
	s := domain.NewSession(sessionID, e.clock.Now())
	e.logger.Debug("session started", "session_id", sessionID)
	e.emitStepEnter(ctx, s.ID, domain.FirstStep, 0)
	return s
}

// mutable returns a snapshot to work on, refusing terminal sessions.
func (e *Engine) mutable(s *domain.Session) (*domain.Session, error) {
	if s == nil {
		return nil, domain.ErrSessionNotFound
	}
	if s.Submitted() {
		return nil, domain.ErrSessionSubmitted
	}
	return s.Snapshot(), nil
}

// fail records a validation message on next and returns it with the error.
// Committed selections on next must still equal those of the input session.
func (e *Engine) fail(ctx context.Context, next *domain.Session, step domain.Step, field, message string) (*domain.Session, error) {
	vErr := domain.NewValidationError(step, field, message)
	next.Wizard.ValidationError = message
	next.UpdatedAt = e.clock.Now()

	e.logger.Debug("validation failed", "session_id", next.ID, "step", step, "field", field, "err", message)
	if e.hooks.OnValidationFailed != nil {
		e.hooks.OnValidationFailed(ctx, &domain.ValidationEvent{
			EventBase: e.event(domain.EventValidationFailed, next.ID),
			Error:     vErr,
		})
	}
	return next, vErr
}

// commit clears any pending validation message after a successful mutation.
func (e *Engine) commit(next *domain.Session) *domain.Session {
	next.Wizard.ValidationError = ""
	next.UpdatedAt = e.clock.Now()
	return next
}

func (e *Engine) event(t domain.EventType, sessionID string) domain.EventBase {
	return domain.EventBase{Timestamp: e.clock.Now(), Type: t, SessionID: sessionID}
}

func (e *Engine) emitStepEnter(ctx context.Context, sessionID string, step, from domain.Step) {
	if e.hooks.OnStepEnter == nil {
		return
	}
	e.hooks.OnStepEnter(ctx, &domain.StepEvent{
		EventBase: e.event(domain.EventStepEnter, sessionID),
		Step:      step,
		Peer:      from,
	})
}

func (e *Engine) emitStepLeave(ctx context.Context, sessionID string, step, to domain.Step) {
	if e.hooks.OnStepLeave == nil {
		return
	}
	e.hooks.OnStepLeave(ctx, &domain.StepEvent{
		EventBase: e.event(domain.EventStepLeave, sessionID),
		Step:      step,
		Peer:      to,
	})
}
