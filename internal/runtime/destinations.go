package runtime

import (
	"context"
	"strings"

	"github.com/aretw0/hornbill/pkg/catalog"
	"github.com/aretw0/hornbill/pkg/domain"
)

// MsgDestinationRequired is shown when leaving step 2 with nothing selected.
const MsgDestinationRequired = "Please select at least one destination before proceeding."

// SelectDestinations replaces the destination set.
// While a festival preset is active the preset's host city wins over ids.
func (e *Engine) SelectDestinations(ctx context.Context, s *domain.Session, ids []string) (*domain.Session, error) {
	next, err := e.mutable(s)
	if err != nil {
		return nil, err
	}

	next.Destinations = normalizeIDs(ids)
	if forced, ok := DeriveForcedDestinations(e.catalog, next.Dates); ok {
		if !equalIDs(forced, next.Destinations) {
			e.logger.Debug("destination selection overridden by preset", "session_id", next.ID, "requested", next.Destinations)
		}
		next.Destinations = forced
	}

	return e.commit(next), nil
}

// AvailableDestinations lists the destinations the traveller may pick from.
// An active festival preset narrows the list to its host city.
func (e *Engine) AvailableDestinations(s *domain.Session, category string) []catalog.Destination {
	all := e.catalog.DestinationsIn(category)
	if s == nil {
		return all
	}
	forced, ok := DeriveForcedDestinations(e.catalog, s.Dates)
	if !ok {
		return all
	}
	out := make([]catalog.Destination, 0, len(forced))
	for _, d := range all {
		for _, id := range forced {
			if d.ID == id {
				out = append(out, d)
			}
		}
	}
	return out
}

// normalizeIDs trims, drops blanks and removes duplicates, keeping first-seen order.
func normalizeIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
