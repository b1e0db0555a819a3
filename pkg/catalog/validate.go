package catalog

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/currency"
)

// Validate reports every structural problem in the catalog at once.
func (c *Catalog) Validate() error {
	var errs []error

	if _, err := currency.ParseISO(c.BaseCurrency); err != nil {
		errs = append(errs, fmt.Errorf("base currency %q: %w", c.BaseCurrency, err))
	}
	if c.MaxTripDays <= 0 {
		errs = append(errs, fmt.Errorf("max_trip_days must be positive, got %d", c.MaxTripDays))
	}
	if c.BookingHorizonYears <= 0 {
		errs = append(errs, fmt.Errorf("booking_horizon_years must be positive, got %d", c.BookingHorizonYears))
	}

	seen := map[string]bool{}
	for _, d := range c.Destinations {
		if d.ID == "" {
			errs = append(errs, fmt.Errorf("destination %q has no id", d.Name))
			continue
		}
		if seen[d.ID] {
			errs = append(errs, fmt.Errorf("duplicate destination id %q", d.ID))
		}
		seen[d.ID] = true
		if !knownCategory(c.DestinationCategories, d.Category) {
			errs = append(errs, fmt.Errorf("destination %q: unknown category %q", d.ID, d.Category))
		}
	}

	seen = map[string]bool{}
	for _, e := range c.Experiences {
		if e.ID == "" {
			errs = append(errs, fmt.Errorf("experience %q has no id", e.Name))
			continue
		}
		if seen[e.ID] {
			errs = append(errs, fmt.Errorf("duplicate experience id %q", e.ID))
		}
		seen[e.ID] = true
		if e.Price <= 0 {
			errs = append(errs, fmt.Errorf("experience %q: price must be positive", e.ID))
		}
		if !knownCategory(c.ExperienceCategories, e.Category) {
			errs = append(errs, fmt.Errorf("experience %q: unknown category %q", e.ID, e.Category))
		}
	}

	seen = map[string]bool{}
	for _, cur := range c.Currencies {
		code := strings.ToUpper(cur.Code)
		if seen[code] {
			errs = append(errs, fmt.Errorf("duplicate currency %q", code))
		}
		seen[code] = true
		if _, err := currency.ParseISO(code); err != nil {
			errs = append(errs, fmt.Errorf("currency %q: %w", code, err))
		}
		if cur.Rate <= 0 {
			errs = append(errs, fmt.Errorf("currency %q: rate must be positive", code))
		}
	}
	if !seen["USD"] {
		errs = append(errs, errors.New("currency USD is required as the default display currency"))
	}

	for _, d := range c.Durations {
		if d.Days < 1 || (c.MaxTripDays > 0 && d.Days > c.MaxTripDays) {
			errs = append(errs, fmt.Errorf("duration %q: days %d out of range", d.Label, d.Days))
		}
	}

	seen = map[string]bool{}
	for _, p := range c.Presets {
		if seen[p.ID] {
			errs = append(errs, fmt.Errorf("duplicate preset id %q", p.ID))
		}
		seen[p.ID] = true
		if _, ok := c.Destination(p.HostDestination); !ok {
			errs = append(errs, fmt.Errorf("preset %q: unknown host destination %q", p.ID, p.HostDestination))
		}
		if p.Recurrence != "" && p.Recurrence != RecurrenceAnnual {
			errs = append(errs, fmt.Errorf("preset %q: unsupported recurrence %q", p.ID, p.Recurrence))
		}
		start, end, err := p.window(time.UTC)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if end.Before(start) {
			errs = append(errs, fmt.Errorf("preset %q: end %s is before start %s", p.ID, p.End, p.Start))
		}
	}

	return errors.Join(errs...)
}

func knownCategory(categories []string, category string) bool {
	if len(categories) == 0 {
		return category != ""
	}
	return category != CategoryAll && slices.Contains(categories, category)
}
