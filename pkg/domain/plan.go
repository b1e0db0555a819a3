package domain

import (
	"slices"
	"time"
)

// TripPlan is the terminal artifact of a session, produced on submit.
type TripPlan struct {
	// Reference is a sortable, human-quotable identifier for the request.
	Reference string `json:"reference"`
	SessionID string `json:"session_id"`

	Dates        DateSelection       `json:"dates"`
	Destinations []string            `json:"destinations"`
	Experiences  ExperienceSelection `json:"experiences"`
	Contact      ContactDetails      `json:"contact"`

	SubmittedAt time.Time `json:"submitted_at"`
}

// Clone returns a deep copy of the plan.
func (p *TripPlan) Clone() *TripPlan {
	c := *p
	c.Dates = p.Dates.Clone()
	c.Destinations = cloneStrings(p.Destinations)
	c.Experiences.IDs = slices.Clone(p.Experiences.IDs)
	return &c
}

// Summary is the derived read model the presentation layer renders.
type Summary struct {
	SessionID        string `json:"session_id"`
	Step             Step   `json:"step"`
	StepLabel        string `json:"step_label"`
	ValidationError  string `json:"validation_error,omitempty"`
	IsFestivalPreset bool   `json:"is_festival_preset"`

	Start    *time.Time `json:"start,omitempty"`
	End      *time.Time `json:"end,omitempty"`
	Duration *int       `json:"duration,omitempty"`

	DestinationCount int `json:"destination_count"`
	ExperienceCount  int `json:"experience_count"`

	TotalCost     int64   `json:"total_cost"`
	BaseCurrency  string  `json:"base_currency"`
	Currency      string  `json:"currency"`
	ConvertedCost float64 `json:"converted_cost"`
	FormattedCost string  `json:"formatted_cost"`

	Submitted bool   `json:"submitted"`
	Reference string `json:"reference,omitempty"`
}
