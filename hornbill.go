package hornbill

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/hornbill/internal/logging"
	"github.com/aretw0/hornbill/internal/runtime"
	"github.com/aretw0/hornbill/pkg/adapters/memory"
	"github.com/aretw0/hornbill/pkg/catalog"
	"github.com/aretw0/hornbill/pkg/domain"
	"github.com/aretw0/hornbill/pkg/ports"
	"github.com/aretw0/hornbill/pkg/session"
	"github.com/google/uuid"
)

// Planner is the high-level entry point for the Hornbill library.
// It keeps sessions in a store and runs every engine operation under a per-session lock.
type Planner struct {
	engine   *runtime.Engine
	sessions *session.Manager

	catalog *catalog.Catalog
	store   ports.StateStore
	locker  ports.DistributedLocker
	clock   ports.Clock
	sink    ports.PlanSink
	hooks   domain.LifecycleHooks
	logger  *slog.Logger
	newID   func() string
}

// Option defines a functional option for configuring the Planner.
type Option func(*Planner)

// WithCatalog sets the catalog the planner validates against.
func WithCatalog(c *catalog.Catalog) Option {
	return func(p *Planner) {
		p.catalog = c
	}
}

// WithClock injects the source of "today".
func WithClock(clock ports.Clock) Option {
	return func(p *Planner) {
		p.clock = clock
	}
}

// WithStore sets the session store. The default is an in-memory store.
func WithStore(store ports.StateStore) Option {
	return func(p *Planner) {
		p.store = store
	}
}

// WithLocker enables distributed locking across planner instances.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(p *Planner) {
		p.locker = locker
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Planner) {
		p.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks. Calling it twice keeps both sets.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(p *Planner) {
		p.hooks = p.hooks.Merge(hooks)
	}
}

// WithSink sets where submitted plans are delivered. The default logs them.
func WithSink(sink ports.PlanSink) Option {
	return func(p *Planner) {
		p.sink = sink
	}
}

// WithIDGenerator overrides how new session IDs are minted.
func WithIDGenerator(fn func() string) Option {
	return func(p *Planner) {
		p.newID = fn
	}
}

// New initializes a Planner. Without options it plans against the built-in
// catalog and keeps sessions in memory.
func New(opts ...Option) (*Planner, error) {
	p := &Planner{}
	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = logging.NewNop()
	}
	if p.catalog == nil {
		p.catalog = catalog.Default()
	} else if err := p.catalog.Validate(); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	if p.store == nil {
		p.store = memory.NewStore()
	}
	if p.clock == nil {
		p.clock = ports.SystemClock
	}
	if p.sink == nil {
		p.sink = LogSink(p.logger)
	}
	if p.newID == nil {
		p.newID = uuid.NewString
	}

	p.engine = runtime.NewEngine(p.catalog,
		runtime.WithClock(p.clock),
		runtime.WithLogger(p.logger),
		runtime.WithLifecycleHooks(p.hooks),
	)

	managerOpts := []session.Option{session.WithLogger(p.logger)}
	if p.locker != nil {
		managerOpts = append(managerOpts, session.WithLocker(p.locker))
	}
	p.sessions = session.NewManager(p.store, managerOpts...)

	return p, nil
}

// Catalog returns the catalog in use.
func (p *Planner) Catalog() *catalog.Catalog {
	return p.catalog
}

// Store returns the underlying session store.
func (p *Planner) Store() ports.StateStore {
	return p.store
}

// Start creates and persists a new session on the first step.
func (p *Planner) Start(ctx context.Context) (*domain.Session, error) {
	return p.StartWithID(ctx, p.newID())
}

// StartWithID is Start with a caller-chosen session ID.
func (p *Planner) StartWithID(ctx context.Context, sessionID string) (*domain.Session, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("%w: empty session id", domain.ErrInvalidInput)
	}
	s := p.engine.Start(ctx, sessionID)
	if err := p.sessions.Create(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// Get loads a session.
func (p *Planner) Get(ctx context.Context, sessionID string) (*domain.Session, error) {
	return p.sessions.Load(ctx, sessionID)
}

// SelectDates sets the travel window.
func (p *Planner) SelectDates(ctx context.Context, sessionID string, in domain.DateInput) (*domain.Session, error) {
	return p.update(ctx, sessionID, func(ctx context.Context, s *domain.Session) (*domain.Session, error) {
		return p.engine.SelectDates(ctx, s, in)
	})
}

// SelectDestinations replaces the destination set.
func (p *Planner) SelectDestinations(ctx context.Context, sessionID string, ids []string) (*domain.Session, error) {
	return p.update(ctx, sessionID, func(ctx context.Context, s *domain.Session) (*domain.Session, error) {
		return p.engine.SelectDestinations(ctx, s, ids)
	})
}

// SelectExperiences replaces the experience set.
func (p *Planner) SelectExperiences(ctx context.Context, sessionID string, ids []string) (*domain.Session, error) {
	return p.update(ctx, sessionID, func(ctx context.Context, s *domain.Session) (*domain.Session, error) {
		return p.engine.SelectExperiences(ctx, s, ids)
	})
}

// SelectCurrency changes the display currency.
func (p *Planner) SelectCurrency(ctx context.Context, sessionID, code string) (*domain.Session, error) {
	return p.update(ctx, sessionID, func(ctx context.Context, s *domain.Session) (*domain.Session, error) {
		return p.engine.SelectCurrency(ctx, s, code)
	})
}

// UpdateContact stores a contact draft.
func (p *Planner) UpdateContact(ctx context.Context, sessionID string, contact domain.ContactDetails) (*domain.Session, error) {
	return p.update(ctx, sessionID, func(ctx context.Context, s *domain.Session) (*domain.Session, error) {
		return p.engine.UpdateContact(ctx, s, contact)
	})
}

// Advance moves to the next step. On the review step it submits the stored draft.
func (p *Planner) Advance(ctx context.Context, sessionID string) (*domain.Session, error) {
	return p.update(ctx, sessionID, p.engine.Advance)
}

// Retreat moves to the previous step.
func (p *Planner) Retreat(ctx context.Context, sessionID string) (*domain.Session, error) {
	return p.update(ctx, sessionID, p.engine.Retreat)
}

// Submit validates contact and turns the session into a TripPlan.
func (p *Planner) Submit(ctx context.Context, sessionID string, contact domain.ContactDetails) (*domain.Session, error) {
	return p.update(ctx, sessionID, func(ctx context.Context, s *domain.Session) (*domain.Session, error) {
		return p.engine.Submit(ctx, s, contact)
	})
}

// Summary returns the read model of a session.
func (p *Planner) Summary(ctx context.Context, sessionID string) (domain.Summary, error) {
	s, err := p.Get(ctx, sessionID)
	if err != nil {
		return domain.Summary{}, err
	}
	return p.engine.Summary(s), nil
}

// Summarize derives the summary of a session already in hand.
func (p *Planner) Summarize(s *domain.Session) domain.Summary {
	return p.engine.Summary(s)
}

// AvailableDestinations lists what the session may pick from in category.
// While a festival preset is active only the host city is offered.
func (p *Planner) AvailableDestinations(ctx context.Context, sessionID, category string) ([]catalog.Destination, error) {
	s, err := p.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return p.engine.AvailableDestinations(s, category), nil
}

// Delete removes a session. Deleting a missing session is not an error.
func (p *Planner) Delete(ctx context.Context, sessionID string) error {
	return p.sessions.Delete(ctx, sessionID)
}

// List returns the IDs of stored sessions.
func (p *Planner) List(ctx context.Context) ([]string, error) {
	return p.sessions.List(ctx)
}

// update runs op under the session lock and hands freshly submitted plans to the sink.
// A validation failure is returned together with the persisted session.
func (p *Planner) update(ctx context.Context, sessionID string, op session.UpdateFunc) (*domain.Session, error) {
	var wasSubmitted bool
	next, err := p.sessions.Update(ctx, sessionID, func(ctx context.Context, current *domain.Session) (*domain.Session, error) {
		wasSubmitted = current.Submitted()
		return op(ctx, current)
	})
	if err != nil && !domain.IsValidation(err) {
		return nil, err
	}

	if next != nil && next.Submitted() && !wasSubmitted {
		if dErr := p.sink.Deliver(ctx, next.Plan.Clone()); dErr != nil {
			// The plan is already stored; delivery can be retried from it.
			p.logger.Error("plan delivery failed",
				"session_id", sessionID,
				"reference", next.Plan.Reference,
				"err", dErr,
			)
		}
	}
	return next, err
}

// LogSink returns a PlanSink that writes one structured record per plan.
func LogSink(logger *slog.Logger) ports.PlanSink {
	return ports.PlanSinkFunc(func(ctx context.Context, plan *domain.TripPlan) error {
		if plan == nil {
			return errors.New("nil plan")
		}
		var duration int
		if plan.Dates.Duration != nil {
			duration = *plan.Dates.Duration
		}
		logger.InfoContext(ctx, "trip plan submitted",
			"reference", plan.Reference,
			"session_id", plan.SessionID,
			"duration_days", duration,
			"festival", plan.Dates.IsFestivalPreset,
			"destinations", plan.Destinations,
			"experiences", plan.Experiences.IDs,
			"total_inr", plan.Experiences.TotalCost,
			"contact", plan.Contact,
		)
		return nil
	})
}
