package cli

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/hornbill"
	"github.com/aretw0/hornbill/internal/presentation/tui"
	"github.com/aretw0/hornbill/pkg/domain"
	"github.com/aretw0/hornbill/pkg/runner"
	"golang.org/x/term"
)

// PlanOptions configures the plan command.
type PlanOptions struct {
	SessionID string
	JSON      bool
	Quiet     bool

	In  io.Reader
	Out io.Writer
}

// IsTerminal reports whether r is an interactive terminal.
func IsTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// RunPlan plans a trip. On a terminal it shows forms; otherwise, or with JSON,
// it reads line commands from opts.In.
func RunPlan(ctx context.Context, p *hornbill.Planner, logger *slog.Logger, opts PlanOptions) (*domain.Session, error) {
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if !opts.JSON && !opts.Quiet {
		tui.PrintBanner(opts.Out, hornbill.Version)
	}

	if !opts.JSON && IsTerminal(opts.In) {
		w := NewWizard(p, FormPrompter{}, opts.Out,
			WithRenderer(tui.NewRenderer(0)),
			WithWizardLogger(logger),
		)
		return w.Run(ctx, opts.SessionID)
	}

	var handler runner.IOHandler
	if opts.JSON {
		handler = runner.NewJSONHandler(opts.In, opts.Out)
	} else {
		handler = runner.NewTextHandler(opts.In, opts.Out,
			runner.WithTextHandlerRenderer(tui.NewRenderer(0)))
	}

	runOpts := []runner.Option{
		runner.WithLogger(logger),
		runner.WithInputHandler(handler),
	}
	if opts.SessionID != "" {
		runOpts = append(runOpts, runner.WithSessionID(opts.SessionID))
	}
	return runner.NewRunner(p, runOpts...).Run(ctx)
}
