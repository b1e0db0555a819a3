package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/hornbill/internal/presentation/report"
	"github.com/aretw0/hornbill/pkg/catalog"
	"github.com/aretw0/hornbill/pkg/domain"
)

// Planner is the subset of hornbill.Planner the runner drives.
type Planner interface {
	Catalog() *catalog.Catalog
	Start(ctx context.Context) (*domain.Session, error)
	StartWithID(ctx context.Context, sessionID string) (*domain.Session, error)
	Get(ctx context.Context, sessionID string) (*domain.Session, error)
	SelectDates(ctx context.Context, sessionID string, in domain.DateInput) (*domain.Session, error)
	SelectDestinations(ctx context.Context, sessionID string, ids []string) (*domain.Session, error)
	SelectExperiences(ctx context.Context, sessionID string, ids []string) (*domain.Session, error)
	SelectCurrency(ctx context.Context, sessionID, code string) (*domain.Session, error)
	UpdateContact(ctx context.Context, sessionID string, contact domain.ContactDetails) (*domain.Session, error)
	Advance(ctx context.Context, sessionID string) (*domain.Session, error)
	Retreat(ctx context.Context, sessionID string) (*domain.Session, error)
	Submit(ctx context.Context, sessionID string, contact domain.ContactDetails) (*domain.Session, error)
	Summarize(s *domain.Session) domain.Summary
	AvailableDestinations(ctx context.Context, sessionID, category string) ([]catalog.Destination, error)
}

// Runner drives one planning session from line commands.
// Every command is persisted by the planner, so a run can be resumed later.
type Runner struct {
	Planner Planner

	// Handler is the strategy for IO. Defaults to a TextHandler on stdin/stdout.
	Handler IOHandler

	// Logger is used for internal debug logging.
	Logger *slog.Logger

	// SessionID resumes an existing session. Empty starts a fresh one.
	SessionID string
}

// NewRunner creates a Runner for p.
func NewRunner(p Planner, opts ...Option) *Runner {
	r := &Runner{
		Planner: p,
		Logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run reads commands until the trip is submitted, the input ends or the
// traveller quits. It returns the last known session.
func (r *Runner) Run(ctx context.Context) (*domain.Session, error) {
	handler := r.resolveHandler()

	s, resumed, err := r.resume(ctx)
	if err != nil {
		return nil, err
	}
	if resumed {
		_ = handler.SystemOutput(ctx, fmt.Sprintf("Resuming session %s.", s.ID))
	} else {
		_ = handler.SystemOutput(ctx, fmt.Sprintf("Session %s started. Type help for commands.", s.ID))
	}
	if err := handler.Output(ctx, r.view(s, true)); err != nil {
		return s, fmt.Errorf("output error: %w", err)
	}
	if s.Submitted() {
		return s, nil
	}

	for {
		cmd, err := handler.Input(ctx)
		if err != nil {
			switch {
			case errors.Is(err, io.EOF):
				return s, nil
			case errors.Is(err, ErrUsage):
				_ = handler.SystemOutput(ctx, err.Error())
				continue
			case ctx.Err() != nil:
				r.Logger.Debug("runner interrupted", "session_id", s.ID, "err", ctx.Err())
				return s, ctx.Err()
			default:
				return s, fmt.Errorf("input error: %w", err)
			}
		}
		if cmd.Name == "quit" || cmd.Name == "exit" {
			_ = handler.SystemOutput(ctx, fmt.Sprintf("Progress saved. Resume with session %s.", s.ID))
			return s, nil
		}

		out, err := r.execute(ctx, s, cmd)
		var vErr *domain.ValidationError
		switch {
		case err == nil, errors.As(err, &vErr):
		case errors.Is(err, ErrUsage), errors.Is(err, domain.ErrInvalidInput),
			errors.Is(err, domain.ErrUnknownPreset), errors.Is(err, domain.ErrSessionSubmitted):
			_ = handler.SystemOutput(ctx, err.Error())
			continue
		default:
			return s, err
		}
		r.Logger.Debug("command executed", "session_id", s.ID, "cmd", cmd.Name, "validation", vErr != nil)

		if out.session == nil {
			if err := handler.Output(ctx, View{Data: out.data}); err != nil {
				return s, fmt.Errorf("output error: %w", err)
			}
			continue
		}

		stepChanged := out.session.Wizard.ActiveStep != s.Wizard.ActiveStep || out.session.Submitted()
		s = out.session
		v := r.view(s, out.report || stepChanged)
		if vErr != nil {
			v.Error = vErr.Message
		}
		if err := handler.Output(ctx, v); err != nil {
			return s, fmt.Errorf("output error: %w", err)
		}
		if s.Submitted() {
			return s, nil
		}
	}
}

func (r *Runner) view(s *domain.Session, full bool) View {
	sum := r.Planner.Summarize(s)
	v := View{Session: s, Summary: sum, Error: s.Wizard.ValidationError}
	if full {
		v.Report = report.Session(s, sum, r.Planner.Catalog())
	}
	return v
}

// resume loads SessionID, starting it when it does not exist yet.
func (r *Runner) resume(ctx context.Context) (*domain.Session, bool, error) {
	if r.SessionID == "" {
		s, err := r.Planner.Start(ctx)
		return s, false, err
	}

	s, err := r.Planner.Get(ctx, r.SessionID)
	if err == nil {
		return s, true, nil
	}
	if !errors.Is(err, domain.ErrSessionNotFound) {
		return nil, false, fmt.Errorf("failed to load session %s: %w", r.SessionID, err)
	}

	s, err = r.Planner.StartWithID(ctx, r.SessionID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to initialize session %s: %w", r.SessionID, err)
	}
	return s, false, nil
}

// resolveHandler ensures a valid IOHandler is set.
func (r *Runner) resolveHandler() IOHandler {
	if r.Handler == nil {
		r.Handler = NewTextHandler(os.Stdin, os.Stdout)
	}
	return r.Handler
}
