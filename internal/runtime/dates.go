package runtime

import (
	"context"
	"fmt"
	"time"

	"github.com/aretw0/hornbill/pkg/domain"
)

// Messages shown for date problems.
const (
	MsgDatesRequired     = "Please select your travel dates before proceeding."
	MsgStartFromTomorrow = "Please select dates starting from tomorrow onwards."
	MsgBothDates         = "Please select both a start and an end date."
	MsgEndBeforeStart    = "The end date cannot be before the start date."
	MsgPresetPassed      = "The festival dates for this preset have already passed."
)

// SelectDates sets the travel window from a quick pick, a custom range or a festival preset.
func (e *Engine) SelectDates(ctx context.Context, s *domain.Session, in domain.DateInput) (*domain.Session, error) {
	next, err := e.mutable(s)
	if err != nil {
		return nil, err
	}

	now := e.clock.Now()
	today := midnight(now, now.Location())
	tomorrow := today.AddDate(0, 0, 1)

	var sel domain.DateSelection
	switch in.Kind {
	case domain.DateQuick:
		if in.Days < 1 || in.Days > e.catalog.MaxTripDays {
			msg := fmt.Sprintf("Please choose a trip length between 1 and %d days.", e.catalog.MaxTripDays)
			return e.fail(ctx, next, domain.StepDates, "days", msg)
		}
		start := tomorrow
		end := start.AddDate(0, 0, in.Days-1)
		sel = domain.DateSelection{Start: &start, End: &end}

	case domain.DateCustom:
		if in.Start == nil || in.End == nil {
			return e.fail(ctx, next, domain.StepDates, "dates", MsgBothDates)
		}
		start := midnight(*in.Start, now.Location())
		end := midnight(*in.End, now.Location())
		if start.Before(tomorrow) {
			return e.fail(ctx, next, domain.StepDates, "start", MsgStartFromTomorrow)
		}
		if end.Before(start) {
			return e.fail(ctx, next, domain.StepDates, "end", MsgEndBeforeStart)
		}
		horizon := e.catalog.BookingHorizonYears
		if end.After(today.AddDate(horizon, 0, 0)) {
			msg := fmt.Sprintf("Please select dates within the next %d years.", horizon)
			return e.fail(ctx, next, domain.StepDates, "end", msg)
		}
		sel = domain.DateSelection{Start: &start, End: &end}

	case domain.DatePreset:
		preset, ok := e.catalog.Preset(in.PresetID)
		if !ok {
			return nil, fmt.Errorf("%w: %q", domain.ErrUnknownPreset, in.PresetID)
		}
		start, end, ok := preset.Resolve(now)
		if !ok {
			return e.fail(ctx, next, domain.StepDates, "preset_id", MsgPresetPassed)
		}
		sel = domain.DateSelection{Start: &start, End: &end, IsFestivalPreset: true, PresetID: preset.ID}

	default:
		return nil, fmt.Errorf("%w: unknown date kind %q", domain.ErrInvalidInput, in.Kind)
	}

	days := daysBetween(*sel.Start, *sel.End) + 1
	sel.Duration = &days
	next.Dates = sel

	if forced, ok := DeriveForcedDestinations(e.catalog, next.Dates); ok {
		next.Destinations = forced
		e.logger.Debug("destinations forced by preset", "session_id", next.ID, "preset", sel.PresetID, "destinations", forced)
	}

	e.logger.Debug("dates selected", "session_id", next.ID, "kind", in.Kind, "duration", days)
	return e.commit(next), nil
}

// midnight returns the calendar day of t as midnight in loc.
// The year, month and day of t are kept as written, whatever t's own zone.
func midnight(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// daysBetween counts calendar days from a to b, ignoring DST shifts.
func daysBetween(a, b time.Time) int {
	ua := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}
