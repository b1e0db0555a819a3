package runtime

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"slices"
	"strings"

	"github.com/aretw0/hornbill/pkg/domain"
)

// Messages shown for contact form problems.
const (
	MsgReviewFirst          = "Please review your trip before submitting."
	MsgInvalidEmail         = "Please enter a valid email address."
	MsgInvalidContactMethod = "Please choose a preferred contact method from the list."
	MsgInvalidGroupSize     = "Please choose the number of travelers from the list."
)

// UpdateContact stores a sanitized contact draft. Drafts are not validated.
func (e *Engine) UpdateContact(ctx context.Context, s *domain.Session, contact domain.ContactDetails) (*domain.Session, error) {
	next, err := e.mutable(s)
	if err != nil {
		return nil, err
	}

	clean, field, err := sanitizeContact(contact)
	if err != nil {
		return e.fail(ctx, next, next.Wizard.ActiveStep, field.Name, inputMessage(field, err))
	}
	next.Contact = &clean
	return e.commit(next), nil
}

// Submit validates the contact form and seals the session into a TripPlan.
// A submitted session is terminal.
func (e *Engine) Submit(ctx context.Context, s *domain.Session, contact domain.ContactDetails) (*domain.Session, error) {
	next, err := e.mutable(s)
	if err != nil {
		return nil, err
	}

	if next.Wizard.ActiveStep != domain.StepReview {
		return e.fail(ctx, next, next.Wizard.ActiveStep, "", MsgReviewFirst)
	}

	clean, field, err := sanitizeContact(contact)
	if err != nil {
		return e.fail(ctx, next, domain.StepReview, field.Name, inputMessage(field, err))
	}
	// Keep what was typed so a correction does not start from scratch.
	next.Contact = &clean

	if !next.Dates.Complete() {
		return e.fail(ctx, next, domain.StepReview, "dates", MsgDatesRequired)
	}
	if len(next.Destinations) == 0 {
		return e.fail(ctx, next, domain.StepReview, "destinations", MsgDestinationRequired)
	}
	if field, msg, ok := validateContact(clean); !ok {
		return e.fail(ctx, next, domain.StepReview, field, msg)
	}

	now := e.clock.Now()
	plan := &domain.TripPlan{
		Reference:    e.newReference(now),
		SessionID:    next.ID,
		Dates:        next.Dates.Clone(),
		Destinations: slices.Clone(next.Destinations),
		Experiences:  next.Experiences,
		Contact:      clean,
		SubmittedAt:  now,
	}
	plan.Experiences.IDs = slices.Clone(next.Experiences.IDs)
	next.Plan = plan
	e.commit(next)

	e.logger.Debug("plan submitted", "session_id", next.ID, "reference", plan.Reference, "contact", plan.Contact)
	if e.hooks.OnPlanSubmitted != nil {
		e.hooks.OnPlanSubmitted(ctx, &domain.PlanEvent{
			EventBase: e.event(domain.EventPlanSubmitted, next.ID),
			Plan:      plan.Clone(),
		})
	}
	return next, nil
}

// validateContact checks required fields in form order, then formats and enumerations.
func validateContact(c domain.ContactDetails) (field, message string, ok bool) {
	for _, f := range c.RequiredFields() {
		if strings.TrimSpace(f.Value) == "" {
			return f.Name, fmt.Sprintf("Please fill in your %s.", f.Label), false
		}
	}

	addr, err := mail.ParseAddress(c.Email)
	if err != nil || addr.Address != c.Email {
		return "email", MsgInvalidEmail, false
	}
	if !slices.Contains(domain.ContactMethods, c.PreferredContact) {
		return "preferred_contact", MsgInvalidContactMethod, false
	}
	if !slices.Contains(domain.GroupSizes, c.GroupSize) {
		return "group_size", MsgInvalidGroupSize, false
	}
	return "", "", true
}

// contactField names a contact field for error reporting.
type contactField struct {
	Name  string
	Label string
}

// sanitizeContact runs every field through SanitizeText and normalizes enumerations.
func sanitizeContact(c domain.ContactDetails) (domain.ContactDetails, contactField, error) {
	fields := []struct {
		f   contactField
		ptr *string
	}{
		{contactField{"name", "full name"}, &c.Name},
		{contactField{"email", "email address"}, &c.Email},
		{contactField{"phone", "phone number"}, &c.Phone},
		{contactField{"nationality", "nationality"}, &c.Nationality},
		{contactField{"preferred_contact", "preferred contact method"}, &c.PreferredContact},
		{contactField{"group_size", "number of travelers"}, &c.GroupSize},
		{contactField{"arrival_details", "arrival details"}, &c.ArrivalDetails},
		{contactField{"dietary_restrictions", "dietary restrictions"}, &c.DietaryRestrictions},
		{contactField{"special_requests", "special requests"}, &c.SpecialRequests},
	}
	for _, fd := range fields {
		clean, err := SanitizeText(*fd.ptr)
		if err != nil {
			return c, fd.f, err
		}
		*fd.ptr = clean
	}
	c.PreferredContact = strings.ToLower(c.PreferredContact)
	return c, contactField{}, nil
}

func inputMessage(f contactField, err error) string {
	if errors.Is(err, ErrInputTooLarge) {
		return fmt.Sprintf("Please shorten your %s.", f.Label)
	}
	return fmt.Sprintf("Your %s contains characters we cannot accept.", f.Label)
}
