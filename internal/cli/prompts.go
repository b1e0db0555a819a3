package cli

import (
	"context"
	"fmt"
	"slices"

	"github.com/aretw0/hornbill/pkg/catalog"
	"github.com/aretw0/hornbill/pkg/domain"
	"github.com/charmbracelet/huh"
)

// FormPrompter asks for input with interactive huh forms.
type FormPrompter struct{}

// Dates prompts for the way to pick dates, then for the details of that way.
func (FormPrompter) Dates(ctx context.Context, cat *catalog.Catalog, current domain.DateSelection) (domain.DateInput, error) {
	kind := string(domain.DateQuick)
	if current.IsFestivalPreset {
		kind = string(domain.DatePreset)
	}
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("How would you like to choose your dates?").
				Options(
					huh.NewOption("Quick pick a trip length", string(domain.DateQuick)),
					huh.NewOption("Travel for a festival", string(domain.DatePreset)),
					huh.NewOption("Enter exact dates", string(domain.DateCustom)),
				).
				Value(&kind),
		).Title("Choose Dates"),
	).RunWithContext(ctx)
	if err != nil {
		return domain.DateInput{}, err
	}

	switch domain.DateKind(kind) {
	case domain.DatePreset:
		presetID := current.PresetID
		opts := make([]huh.Option[string], len(cat.Presets))
		for i, p := range cat.Presets {
			opts[i] = huh.NewOption(fmt.Sprintf("%s (%s to %s)", p.Name, p.Start, p.End), p.ID)
		}
		err = huh.NewForm(
			huh.NewGroup(
				huh.NewSelect[string]().
					Title("Festival").
					Description("Festival dates fix your destination to the host town").
					Options(opts...).
					Value(&presetID),
			),
		).RunWithContext(ctx)
		return domain.PresetDates(presetID), err

	case domain.DateCustom:
		var start, end string
		if current.Complete() {
			start = current.Start.Format("2006-01-02")
			end = current.End.Format("2006-01-02")
		}
		err = huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Arrival").
					Placeholder("YYYY-MM-DD").
					Value(&start).
					Validate(validateDay),
				huh.NewInput().
					Title("Departure").
					Placeholder("YYYY-MM-DD").
					Value(&end).
					Validate(validateDay),
			),
		).RunWithContext(ctx)
		if err != nil {
			return domain.DateInput{}, err
		}
		return domain.ParseDateInput(kind, 0, start, end, "")

	default:
		days := 7
		if current.Duration != nil {
			days = *current.Duration
		}
		opts := make([]huh.Option[int], len(cat.Durations))
		for i, d := range cat.Durations {
			opts[i] = huh.NewOption(d.Label, d.Days)
		}
		err = huh.NewForm(
			huh.NewGroup(
				huh.NewSelect[int]().
					Title("Trip length").
					Description("Your trip starts tomorrow").
					Options(opts...).
					Value(&days),
			),
		).RunWithContext(ctx)
		return domain.QuickDates(days), err
	}
}

func validateDay(s string) error {
	_, err := domain.ParseDay(s)
	return err
}

// Destinations prompts for any number of the offered places.
func (FormPrompter) Destinations(ctx context.Context, options []catalog.Destination, selected []string) ([]string, error) {
	ids := slices.Clone(selected)
	opts := make([]huh.Option[string], len(options))
	for i, d := range options {
		opts[i] = huh.NewOption(fmt.Sprintf("%s (%s, %s)", d.Name, d.Category, d.Region), d.ID).
			Selected(slices.Contains(selected, d.ID))
	}
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Where would you like to go?").
				Options(opts...).
				Value(&ids),
		).Title("Select Places"),
	).RunWithContext(ctx)
	return ids, err
}

// Experiences prompts for experiences and the display currency.
func (FormPrompter) Experiences(ctx context.Context, cat *catalog.Catalog, selected []string, currency string) ([]string, string, error) {
	ids := slices.Clone(selected)
	opts := make([]huh.Option[string], len(cat.Experiences))
	for i, e := range cat.Experiences {
		label := fmt.Sprintf("%s (%s, %s)", e.Name, e.Duration, catalog.FormatAmount(float64(e.Price), cat.BaseCurrency))
		opts[i] = huh.NewOption(label, e.ID).Selected(slices.Contains(selected, e.ID))
	}
	currencies := make([]huh.Option[string], len(cat.Currencies))
	for i, c := range cat.Currencies {
		currencies[i] = huh.NewOption(c.Code+" "+c.Name, c.Code)
	}
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Add experiences").
				Description("Prices are per person").
				Options(opts...).
				Value(&ids),
			huh.NewSelect[string]().
				Title("Show prices in").
				Options(currencies...).
				Value(&currency),
		).Title("Add Experiences"),
	).RunWithContext(ctx)
	return ids, currency, err
}

// Contact prompts for the contact form, prefilled with draft.
func (FormPrompter) Contact(ctx context.Context, draft domain.ContactDetails) (domain.ContactDetails, error) {
	c := draft
	methods := make([]huh.Option[string], len(domain.ContactMethods))
	for i, m := range domain.ContactMethods {
		methods[i] = huh.NewOption(m, m)
	}
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Full name").Value(&c.Name),
			huh.NewInput().Title("Email").Value(&c.Email),
			huh.NewInput().Title("Phone").Value(&c.Phone),
			huh.NewInput().Title("Nationality").Value(&c.Nationality),
			huh.NewSelect[string]().Title("Preferred contact").Options(methods...).Value(&c.PreferredContact),
			huh.NewSelect[string]().Title("Travelers").Options(huh.NewOptions(domain.GroupSizes...)...).Value(&c.GroupSize),
		).Title("Contact details"),
		huh.NewGroup(
			huh.NewInput().Title("Arrival details").Description("Optional").Value(&c.ArrivalDetails),
			huh.NewInput().Title("Dietary restrictions").Description("Optional").Value(&c.DietaryRestrictions),
			huh.NewText().Title("Special requests").Description("Optional").Value(&c.SpecialRequests),
		).Title("Anything else?"),
	).RunWithContext(ctx)
	return c, err
}

// Navigate asks where to go from step.
func (FormPrompter) Navigate(ctx context.Context, step domain.Step) (Action, error) {
	next := "Continue"
	if step == domain.StepReview {
		next = "Send my trip request"
	}
	opts := []huh.Option[Action]{huh.NewOption(next, ActionNext)}
	if step != domain.FirstStep {
		opts = append(opts, huh.NewOption("Go back", ActionBack))
	}
	opts = append(opts, huh.NewOption("Save and quit", ActionQuit))

	action := ActionNext
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[Action]().
				Title(fmt.Sprintf("Step %d of %d: %s", int(step), int(domain.LastStep), step.Label())).
				Options(opts...).
				Value(&action),
		),
	).RunWithContext(ctx)
	return action, err
}
