package runtime

import (
	"github.com/aretw0/hornbill/pkg/catalog"
	"github.com/aretw0/hornbill/pkg/domain"
)

// DefaultHostDestination hosts a festival preset that names no host of its own.
const DefaultHostDestination = "kohima"

// DeriveForcedDestinations reports the destination set a date selection imposes.
// Festival presets pin the trip to their host city; other selections impose nothing.
func DeriveForcedDestinations(cat *catalog.Catalog, dates domain.DateSelection) ([]string, bool) {
	if !dates.IsFestivalPreset {
		return nil, false
	}
	host := DefaultHostDestination
	if cat != nil {
		if p, ok := cat.Preset(dates.PresetID); ok && p.HostDestination != "" {
			host = p.HostDestination
		}
	}
	return []string{host}, true
}
