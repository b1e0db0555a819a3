package runtime

import (
	"context"
	"strings"

	"github.com/aretw0/hornbill/pkg/domain"
)

// MsgUnsupportedCurrency is shown when a display currency has no rate.
const MsgUnsupportedCurrency = "Please choose one of the supported currencies."

// SelectExperiences replaces the experience set and recomputes its cost.
// IDs missing from the catalog are kept but cost nothing.
func (e *Engine) SelectExperiences(ctx context.Context, s *domain.Session, ids []string) (*domain.Session, error) {
	next, err := e.mutable(s)
	if err != nil {
		return nil, err
	}

	next.Experiences.IDs = normalizeIDs(ids)
	e.price(&next.Experiences)

	e.logger.Debug("experiences selected", "session_id", next.ID, "count", len(next.Experiences.IDs), "total", next.Experiences.TotalCost)
	return e.commit(next), nil
}

// SelectCurrency changes the display currency and reconverts the total.
func (e *Engine) SelectCurrency(ctx context.Context, s *domain.Session, code string) (*domain.Session, error) {
	next, err := e.mutable(s)
	if err != nil {
		return nil, err
	}

	code = strings.ToUpper(strings.TrimSpace(code))
	if _, ok := e.catalog.Rate(code); !ok || code == "" {
		return e.fail(ctx, next, next.Wizard.ActiveStep, "currency", MsgUnsupportedCurrency)
	}

	next.Experiences.Currency = code
	e.price(&next.Experiences)
	return e.commit(next), nil
}

// price derives TotalCost and ConvertedCost from the selected IDs.
func (e *Engine) price(sel *domain.ExperienceSelection) {
	if sel.Currency == "" {
		sel.Currency = domain.DefaultCurrency
	}
	sel.TotalCost = e.catalog.Price(sel.IDs)
	converted, err := e.catalog.Convert(sel.TotalCost, sel.Currency)
	if err != nil {
		// A catalog reload may drop a currency a stored session still uses.
		e.logger.Warn("cannot convert plan cost", "currency", sel.Currency, "err", err)
		converted = 0
	}
	sel.ConvertedCost = converted
}
