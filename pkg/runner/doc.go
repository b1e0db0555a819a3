/*
Package runner drives a planning session from line commands.

It is the scriptable counterpart of the interactive forms: every command maps to one
planner operation, the resulting session is shown through a pluggable handler, and
progress is persisted by the planner after each step.

# Key Components

  - Runner: reads commands until the trip is submitted or the input ends.
  - IOHandler: decouples how commands arrive and views leave (text, JSON lines).
  - TextHandler: the interactive CLI handler, with optional Markdown rendering.
  - JSONHandler: one View per line, for automation.

# Usage

	r := runner.NewRunner(planner,
		runner.WithSessionID("trip-1"),
		runner.WithInputHandler(runner.NewTextHandler(os.Stdin, os.Stdout)),
	)

	s, err := r.Run(ctx)
*/
package runner
