package domain

import (
	"slices"
	"time"
)

// DefaultCurrency is the display currency of a fresh session.
const DefaultCurrency = "USD"

// WizardState is the navigable part of a session.
type WizardState struct {
	// ActiveStep is the step currently shown to the traveller.
	ActiveStep Step `json:"active_step"`

	// ValidationError holds the most recent validation message.
	// Empty means no error is pending.
	ValidationError string `json:"validation_error,omitempty"`
}

// DateSelection is the committed travel window.
type DateSelection struct {
	Start    *time.Time `json:"start,omitempty"`
	End      *time.Time `json:"end,omitempty"`
	Duration *int       `json:"duration,omitempty"`

	// IsFestivalPreset marks dates chosen from a curated festival preset.
	// Preset dates are exempt from the minimum-date rule.
	IsFestivalPreset bool `json:"is_festival_preset,omitempty"`

	// PresetID names the preset when IsFestivalPreset is set.
	PresetID string `json:"preset_id,omitempty"`
}

// Complete reports whether both ends of the window are set.
func (d DateSelection) Complete() bool {
	return d.Start != nil && d.End != nil
}

// ExperienceSelection holds the chosen experiences and their derived cost.
type ExperienceSelection struct {
	IDs []string `json:"ids"`

	// Currency is the ISO code the cost is displayed in.
	Currency string `json:"currency"`

	// TotalCost is the sum of experience prices in the catalog base currency.
	TotalCost int64 `json:"total_cost"`

	// ConvertedCost is TotalCost in Currency, rounded to two decimals.
	ConvertedCost float64 `json:"converted_cost"`
}

// Session represents the current snapshot of a planning session.
type Session struct {
	ID string `json:"id"`

	Wizard       WizardState         `json:"wizard"`
	Dates        DateSelection       `json:"dates"`
	Destinations []string            `json:"destinations"`
	Experiences  ExperienceSelection `json:"experiences"`

	// Contact is the draft contact form, if the traveller saved one.
	Contact *ContactDetails `json:"contact,omitempty"`

	// Plan is set once the session has been submitted.
	Plan *TripPlan `json:"plan,omitempty"`

	// History tracks the steps entered, in order.
	History []Step `json:"history"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Sealed carries the encrypted session when a store middleware wraps it.
	// Only the envelope written to the backend ever has it set.
	Sealed []byte `json:"sealed,omitempty"`
}

// NewSession creates a clean session positioned on the first step.
func NewSession(id string, now time.Time) *Session {
	return &Session{
		ID:           id,
		Wizard:       WizardState{ActiveStep: FirstStep},
		Destinations: []string{},
		Experiences: ExperienceSelection{
			IDs:      []string{},
			Currency: DefaultCurrency,
		},
		History:   []Step{FirstStep},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Submitted reports whether the session has produced its TripPlan.
func (s *Session) Submitted() bool {
	return s.Plan != nil
}

// Snapshot returns a deep copy of the session.
// Engine operations work on snapshots so callers can keep the previous state.
func (s *Session) Snapshot() *Session {
	if s == nil {
		return nil
	}
	c := *s
	c.Dates = s.Dates.Clone()
	c.Destinations = cloneStrings(s.Destinations)
	c.Experiences.IDs = cloneStrings(s.Experiences.IDs)
	c.History = slices.Clone(s.History)
	c.Sealed = slices.Clone(s.Sealed)
	if s.Contact != nil {
		contact := *s.Contact
		c.Contact = &contact
	}
	if s.Plan != nil {
		c.Plan = s.Plan.Clone()
	}
	return &c
}

// Clone returns a deep copy of the selection.
func (d DateSelection) Clone() DateSelection {
	c := d
	if d.Start != nil {
		t := *d.Start
		c.Start = &t
	}
	if d.End != nil {
		t := *d.End
		c.End = &t
	}
	if d.Duration != nil {
		n := *d.Duration
		c.Duration = &n
	}
	return c
}

// cloneStrings copies s, mapping nil to an empty slice so JSON renders [].
func cloneStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return slices.Clone(s)
}
