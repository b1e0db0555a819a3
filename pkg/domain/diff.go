package domain

import (
	"reflect"
)

// SessionDiff represents the changes between two sessions.
// It is designed to be serialized to JSON for partial updates on the client.
// Contact details are never included.
type SessionDiff struct {
	// SessionID is always present to identify the target.
	SessionID string `json:"session_id"`

	ActiveStep *Step `json:"active_step,omitempty"`

	// ValidationError is set when the message changed; an empty string means cleared.
	ValidationError *string `json:"validation_error,omitempty"`

	Dates        *DateSelection       `json:"dates,omitempty"`
	Destinations []string             `json:"destinations,omitempty"`
	Experiences  *ExperienceSelection `json:"experiences,omitempty"`

	// HistoryParams contains steps appended to history.
	HistoryParams *HistoryDelta `json:"history,omitempty"`

	// Reference is set when the session was submitted.
	Reference *string `json:"reference,omitempty"`
}

// HistoryDelta represents changes to the history stack.
type HistoryDelta struct {
	Appended []Step `json:"appended"`
}

// Diff calculates the difference between oldSession and newSession.
// If oldSession is nil, it returns a diff representing the entire newSession (initial load).
// It returns nil when nothing changed.
func Diff(oldSession, newSession *Session) *SessionDiff {
	if newSession == nil {
		return nil
	}

	diff := &SessionDiff{
		SessionID: newSession.ID,
	}

	if oldSession == nil || oldSession.Wizard.ActiveStep != newSession.Wizard.ActiveStep {
		step := newSession.Wizard.ActiveStep
		diff.ActiveStep = &step
	}
	if oldSession == nil {
		if newSession.Wizard.ValidationError != "" {
			msg := newSession.Wizard.ValidationError
			diff.ValidationError = &msg
		}
	} else if oldSession.Wizard.ValidationError != newSession.Wizard.ValidationError {
		msg := newSession.Wizard.ValidationError
		diff.ValidationError = &msg
	}

	if oldSession == nil || !reflect.DeepEqual(oldSession.Dates, newSession.Dates) {
		dates := newSession.Dates.Clone()
		diff.Dates = &dates
	}
	if oldSession == nil || !reflect.DeepEqual(oldSession.Destinations, newSession.Destinations) {
		diff.Destinations = cloneStrings(newSession.Destinations)
	}
	if oldSession == nil || !reflect.DeepEqual(oldSession.Experiences, newSession.Experiences) {
		exp := newSession.Experiences
		exp.IDs = cloneStrings(exp.IDs)
		diff.Experiences = &exp
	}

	diff.HistoryParams = diffHistory(oldSession, newSession)

	if newSession.Plan != nil && (oldSession == nil || oldSession.Plan == nil) {
		ref := newSession.Plan.Reference
		diff.Reference = &ref
	}

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

// diffHistory assumes standard append-only behavior for History.
func diffHistory(old *Session, new *Session) *HistoryDelta {
	if len(new.History) == 0 {
		return nil
	}

	if old == nil {
		return &HistoryDelta{Appended: append([]Step(nil), new.History...)}
	}

	oldLen := len(old.History)
	if len(new.History) > oldLen {
		return &HistoryDelta{
			Appended: append([]Step(nil), new.History[oldLen:]...),
		}
	}

	return nil
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *SessionDiff) IsEmpty() bool {
	return d.ActiveStep == nil &&
		d.ValidationError == nil &&
		d.Dates == nil &&
		d.Destinations == nil &&
		d.Experiences == nil &&
		d.HistoryParams == nil &&
		d.Reference == nil
}
