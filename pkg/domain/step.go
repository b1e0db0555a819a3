package domain

import "fmt"

// Step identifies a wizard step. Steps are ordered and 1-based.
type Step int

const (
	StepDates        Step = 1
	StepDestinations Step = 2
	StepExperiences  Step = 3
	StepReview       Step = 4
)

// FirstStep and LastStep bound the wizard.
const (
	FirstStep = StepDates
	LastStep  = StepReview
)

// Steps lists every step in order.
var Steps = []Step{StepDates, StepDestinations, StepExperiences, StepReview}

// String returns the machine name of the step.
func (s Step) String() string {
	switch s {
	case StepDates:
		return "dates"
	case StepDestinations:
		return "destinations"
	case StepExperiences:
		return "experiences"
	case StepReview:
		return "review"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

// Label returns the human label shown in the progress bar.
func (s Step) Label() string {
	switch s {
	case StepDates:
		return "Choose Dates"
	case StepDestinations:
		return "Select Places"
	case StepExperiences:
		return "Add Experiences"
	case StepReview:
		return "Finalize"
	default:
		return s.String()
	}
}

// Valid reports whether s is one of the four wizard steps.
func (s Step) Valid() bool {
	return s >= FirstStep && s <= LastStep
}

// Next returns the following step, capped at LastStep.
func (s Step) Next() Step {
	if s >= LastStep {
		return LastStep
	}
	return s + 1
}

// Prev returns the preceding step, floored at FirstStep.
func (s Step) Prev() Step {
	if s <= FirstStep {
		return FirstStep
	}
	return s - 1
}
