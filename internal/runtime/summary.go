package runtime

import (
	"github.com/aretw0/hornbill/pkg/catalog"
	"github.com/aretw0/hornbill/pkg/domain"
)

// Summary derives the read model of a session. It has no side effects.
func (e *Engine) Summary(s *domain.Session) domain.Summary {
	currency := s.Experiences.Currency
	if currency == "" {
		currency = domain.DefaultCurrency
	}

	sum := domain.Summary{
		SessionID:        s.ID,
		Step:             s.Wizard.ActiveStep,
		StepLabel:        s.Wizard.ActiveStep.Label(),
		ValidationError:  s.Wizard.ValidationError,
		IsFestivalPreset: s.Dates.IsFestivalPreset,
		DestinationCount: len(s.Destinations),
		ExperienceCount:  len(s.Experiences.IDs),
		TotalCost:        s.Experiences.TotalCost,
		BaseCurrency:     e.catalog.BaseCurrency,
		Currency:         currency,
		ConvertedCost:    s.Experiences.ConvertedCost,
		FormattedCost:    catalog.FormatAmount(s.Experiences.ConvertedCost, currency),
		Submitted:        s.Submitted(),
	}

	dates := s.Dates.Clone()
	sum.Start, sum.End, sum.Duration = dates.Start, dates.End, dates.Duration
	if s.Plan != nil {
		sum.Reference = s.Plan.Reference
	}
	return sum
}
