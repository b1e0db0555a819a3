// Package catalog holds the static planning data: destinations, experiences,
// festival presets, quick durations, seasons and display-currency rates.
//
// The default catalog is embedded; Load reads an override from YAML or JSON.
package catalog
