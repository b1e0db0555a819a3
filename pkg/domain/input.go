package domain

import (
	"fmt"
	"time"
)

// DateKind selects how a DateInput is interpreted.
type DateKind string

const (
	// DateQuick starts tomorrow and lasts Days days.
	DateQuick DateKind = "quick"
	// DateCustom uses the explicit Start and End calendar days.
	DateCustom DateKind = "custom"
	// DatePreset uses a curated festival window from the catalog.
	DatePreset DateKind = "preset"
)

// DateInput is a request to set the travel window.
type DateInput struct {
	Kind     DateKind   `json:"kind" yaml:"kind" mapstructure:"kind"`
	Days     int        `json:"days,omitempty" yaml:"days,omitempty" mapstructure:"days"`
	Start    *time.Time `json:"start,omitempty" yaml:"start,omitempty" mapstructure:"start"`
	End      *time.Time `json:"end,omitempty" yaml:"end,omitempty" mapstructure:"end"`
	PresetID string     `json:"preset_id,omitempty" yaml:"preset_id,omitempty" mapstructure:"preset_id"`
}

// QuickDates builds a DateInput for a quick-pick duration.
func QuickDates(days int) DateInput {
	return DateInput{Kind: DateQuick, Days: days}
}

// CustomDates builds a DateInput for an explicit range.
func CustomDates(start, end time.Time) DateInput {
	return DateInput{Kind: DateCustom, Start: &start, End: &end}
}

// PresetDates builds a DateInput for a festival preset.
func PresetDates(id string) DateInput {
	return DateInput{Kind: DatePreset, PresetID: id}
}

// ParseDay reads a calendar day written as YYYY-MM-DD or as an RFC 3339 timestamp.
func ParseDay(s string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q is not a date (want YYYY-MM-DD)", ErrInvalidInput, s)
	}
	return t, nil
}

// ParseDateInput builds a DateInput from loosely typed parts, as sent by forms
// and tool calls. Start and end are only read for custom ranges.
func ParseDateInput(kind string, days int, start, end, presetID string) (DateInput, error) {
	switch DateKind(kind) {
	case DateQuick:
		return QuickDates(days), nil
	case DatePreset:
		return PresetDates(presetID), nil
	case DateCustom:
		in := DateInput{Kind: DateCustom}
		if start != "" {
			t, err := ParseDay(start)
			if err != nil {
				return DateInput{}, err
			}
			in.Start = &t
		}
		if end != "" {
			t, err := ParseDay(end)
			if err != nil {
				return DateInput{}, err
			}
			in.End = &t
		}
		return in, nil
	default:
		return DateInput{}, fmt.Errorf("%w: unknown date kind %q", ErrInvalidInput, kind)
	}
}
