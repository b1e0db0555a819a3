package runtime

import (
	"context"

	"github.com/aretw0/hornbill/pkg/domain"
)

// Advance moves to the next step once the current step's requirements hold.
// On the review step it submits the stored contact draft instead of moving.
func (e *Engine) Advance(ctx context.Context, s *domain.Session) (*domain.Session, error) {
	next, err := e.mutable(s)
	if err != nil {
		return nil, err
	}

	step := next.Wizard.ActiveStep
	switch step {
	case domain.StepDates:
		if !next.Dates.Complete() {
			return e.fail(ctx, next, step, "dates", MsgDatesRequired)
		}
	case domain.StepDestinations:
		if len(next.Destinations) == 0 {
			return e.fail(ctx, next, step, "destinations", MsgDestinationRequired)
		}
	case domain.StepExperiences:
		// Experiences are optional.
	case domain.StepReview:
		var contact domain.ContactDetails
		if next.Contact != nil {
			contact = *next.Contact
		}
		return e.Submit(ctx, s, contact)
	}

	return e.transition(ctx, next, step.Next()), nil
}

// Retreat moves to the previous step. It never fails validation.
func (e *Engine) Retreat(ctx context.Context, s *domain.Session) (*domain.Session, error) {
	next, err := e.mutable(s)
	if err != nil {
		return nil, err
	}

	step := next.Wizard.ActiveStep
	if step.Prev() == step {
		return e.commit(next), nil
	}
	return e.transition(ctx, next, step.Prev()), nil
}

func (e *Engine) transition(ctx context.Context, next *domain.Session, to domain.Step) *domain.Session {
	from := next.Wizard.ActiveStep

	e.emitStepLeave(ctx, next.ID, from, to)
	next.Wizard.ActiveStep = to
	next.History = append(next.History, to)
	e.commit(next)
	e.logger.Debug("step changed", "session_id", next.ID, "from", from, "to", to)
	e.emitStepEnter(ctx, next.ID, to, from)

	return next
}
