package runner

import (
	"context"

	"github.com/aretw0/hornbill/pkg/domain"
)

// Command is one instruction read from the traveller, e.g. "dates preset hornbill".
type Command struct {
	Name string   `json:"cmd"`
	Args []string `json:"args,omitempty"`
}

// View is what the runner shows after each command.
type View struct {
	Session *domain.Session `json:"session"`
	Summary domain.Summary  `json:"summary"`

	// Error is the validation message raised by the last command, if any.
	Error string `json:"error,omitempty"`

	// Report is the Markdown trip summary. It is only filled when the
	// step changed or the traveller asked for it.
	Report string `json:"report,omitempty"`

	// Data carries command-specific payloads such as catalog listings.
	Data any `json:"data,omitempty"`
}

// IOHandler defines the strategy for interacting with the traveller.
// This allows switching between Text (CLI) and JSON (Structured) modes.
type IOHandler interface {
	// Output presents the current view.
	Output(ctx context.Context, v View) error

	// Input reads the next command. io.EOF ends the run.
	Input(ctx context.Context) (Command, error)

	// SystemOutput presents a meta-message (usage errors, notices).
	SystemOutput(ctx context.Context, msg string) error
}
