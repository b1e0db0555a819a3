package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/hornbill"
	"github.com/aretw0/hornbill/internal/logging"
	"github.com/aretw0/hornbill/internal/presentation/report"
	"github.com/aretw0/hornbill/pkg/catalog"
	"github.com/aretw0/hornbill/pkg/domain"
)

// Action is the traveller's choice after filling in a step.
type Action int

const (
	ActionNext Action = iota
	ActionBack
	ActionQuit
)

// Prompter collects one step's worth of input.
type Prompter interface {
	Dates(ctx context.Context, cat *catalog.Catalog, current domain.DateSelection) (domain.DateInput, error)
	Destinations(ctx context.Context, options []catalog.Destination, selected []string) ([]string, error)
	Experiences(ctx context.Context, cat *catalog.Catalog, selected []string, currency string) ([]string, string, error)
	Contact(ctx context.Context, draft domain.ContactDetails) (domain.ContactDetails, error)
	Navigate(ctx context.Context, step domain.Step) (Action, error)
}

var errQuit = errors.New("quit")

// Wizard walks a session through the four steps with a Prompter.
type Wizard struct {
	planner  *hornbill.Planner
	prompt   Prompter
	out      io.Writer
	renderer func(string) (string, error)
	logger   *slog.Logger
}

// WizardOption configures a Wizard.
type WizardOption func(*Wizard)

// WithRenderer sets the Markdown renderer used for summaries.
func WithRenderer(r func(string) (string, error)) WizardOption {
	return func(w *Wizard) {
		w.renderer = r
	}
}

// WithWizardLogger sets the wizard logger.
func WithWizardLogger(l *slog.Logger) WizardOption {
	return func(w *Wizard) {
		w.logger = l
	}
}

// NewWizard creates a Wizard writing messages to out.
func NewWizard(p *hornbill.Planner, prompt Prompter, out io.Writer, opts ...WizardOption) *Wizard {
	w := &Wizard{
		planner: p,
		prompt:  prompt,
		out:     out,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run resumes or starts sessionID (a fresh ID when empty) and prompts until
// the plan is submitted or the traveller quits.
func (w *Wizard) Run(ctx context.Context, sessionID string) (*domain.Session, error) {
	s, err := w.resume(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	for !s.Submitted() {
		if err := ctx.Err(); err != nil {
			return s, err
		}

		next, err := w.step(ctx, s)
		switch {
		case errors.Is(err, errQuit):
			printSystemMessage(w.out, "Progress saved. Resume with --session %s.", s.ID)
			return s, nil
		case domain.IsValidation(err):
			fmt.Fprintf(w.out, "! %s\n", next.Wizard.ValidationError)
		case err != nil:
			return s, err
		}
		s = next
	}

	w.show(s)
	printSystemMessage(w.out, "Trip request sent. Reference %s.", s.Plan.Reference)
	return s, nil
}

func (w *Wizard) resume(ctx context.Context, sessionID string) (*domain.Session, error) {
	if sessionID == "" {
		s, err := w.planner.Start(ctx)
		if err == nil {
			printSystemMessage(w.out, "Session %s started.", s.ID)
		}
		return s, err
	}
	s, err := w.planner.Get(ctx, sessionID)
	if errors.Is(err, domain.ErrSessionNotFound) {
		s, err = w.planner.StartWithID(ctx, sessionID)
		if err == nil {
			printSystemMessage(w.out, "Session %s started.", s.ID)
		}
		return s, err
	}
	if err == nil {
		w.logger.Info("session resumed", "session_id", s.ID, "step", s.Wizard.ActiveStep)
		printSystemMessage(w.out, "Resuming session %s at %s.", s.ID, s.Wizard.ActiveStep.Label())
	}
	return s, err
}

func (w *Wizard) step(ctx context.Context, s *domain.Session) (*domain.Session, error) {
	p := w.planner
	switch s.Wizard.ActiveStep {
	case domain.StepDates:
		in, err := w.prompt.Dates(ctx, p.Catalog(), s.Dates)
		if err != nil {
			return nil, err
		}
		if s, err = p.SelectDates(ctx, s.ID, in); err != nil {
			return s, err
		}

	case domain.StepDestinations:
		options, err := p.AvailableDestinations(ctx, s.ID, "")
		if err != nil {
			return nil, err
		}
		ids, err := w.prompt.Destinations(ctx, options, s.Destinations)
		if err != nil {
			return nil, err
		}
		if s, err = p.SelectDestinations(ctx, s.ID, ids); err != nil {
			return s, err
		}

	case domain.StepExperiences:
		ids, currency, err := w.prompt.Experiences(ctx, p.Catalog(), s.Experiences.IDs, s.Experiences.Currency)
		if err != nil {
			return nil, err
		}
		if s, err = p.SelectExperiences(ctx, s.ID, ids); err != nil {
			return s, err
		}
		if currency != "" && currency != s.Experiences.Currency {
			if s, err = p.SelectCurrency(ctx, s.ID, currency); err != nil {
				return s, err
			}
		}

	case domain.StepReview:
		w.show(s)
	}

	action, err := w.prompt.Navigate(ctx, s.Wizard.ActiveStep)
	if err != nil {
		return nil, err
	}
	switch action {
	case ActionBack:
		return p.Retreat(ctx, s.ID)
	case ActionQuit:
		return nil, errQuit
	}

	if s.Wizard.ActiveStep != domain.StepReview {
		return p.Advance(ctx, s.ID)
	}

	draft := domain.DefaultContact()
	if s.Contact != nil {
		draft = *s.Contact
	}
	contact, err := w.prompt.Contact(ctx, draft)
	if err != nil {
		return nil, err
	}
	return p.Submit(ctx, s.ID, contact)
}

func (w *Wizard) show(s *domain.Session) {
	md := report.Session(s, w.planner.Summarize(s), w.planner.Catalog())
	if w.renderer != nil {
		if out, err := w.renderer(md); err == nil {
			md = out
		}
	}
	fmt.Fprintln(w.out, md)
}
