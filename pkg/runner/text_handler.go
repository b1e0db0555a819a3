package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/aretw0/hornbill/internal/runtime"
	"github.com/aretw0/hornbill/pkg/catalog"
	"github.com/aretw0/hornbill/pkg/domain"
)

// ContentRenderer transforms Markdown before it is printed, e.g. to ANSI.
type ContentRenderer func(string) (string, error)

// TextHandler implements the standard text-based interface.
type TextHandler struct {
	Reader   *bufio.Reader
	Writer   io.Writer
	Renderer ContentRenderer

	inputChan chan inputResult
	startOnce sync.Once
}

type inputResult struct {
	text string
	err  error
}

// TextHandlerOption defines configuration for TextHandler.
type TextHandlerOption func(*TextHandler)

// WithTextHandlerRenderer configures the content renderer.
func WithTextHandlerRenderer(renderer ContentRenderer) TextHandlerOption {
	return func(h *TextHandler) {
		h.Renderer = renderer
	}
}

// NewTextHandler creates a handler for standard text IO.
func NewTextHandler(r io.Reader, w io.Writer, opts ...TextHandlerOption) *TextHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	h := &TextHandler{
		Reader: bufio.NewReader(r),
		Writer: w,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *TextHandler) initPump() {
	h.startOnce.Do(func() {
		h.inputChan = make(chan inputResult)
		go h.pump()
	})
}

// pump reads lines in the background so Input can honour cancellation.
func (h *TextHandler) pump() {
	for {
		text, err := h.Reader.ReadString('\n')
		if text != "" {
			h.inputChan <- inputResult{text: text}
		}
		if err != nil {
			if err != io.EOF {
				h.inputChan <- inputResult{err: err}
			}
			close(h.inputChan)
			return
		}
	}
}

func (h *TextHandler) Output(ctx context.Context, v View) error {
	if v.Report != "" {
		h.print(v.Report)
	}
	switch data := v.Data.(type) {
	case string:
		h.print(data)
	case []catalog.Destination:
		for _, d := range data {
			fmt.Fprintf(h.Writer, "  %-20s %s (%s)\n", d.ID, d.Name, d.Category)
		}
	case domain.ContactDetails:
		for _, f := range data.RequiredFields() {
			fmt.Fprintf(h.Writer, "  %-20s %s\n", f.Name, f.Value)
		}
		fmt.Fprintf(h.Writer, "  %-20s %s\n", "arrival_details", data.ArrivalDetails)
		fmt.Fprintf(h.Writer, "  %-20s %s\n", "dietary_restrictions", data.DietaryRestrictions)
		fmt.Fprintf(h.Writer, "  %-20s %s\n", "special_requests", data.SpecialRequests)
	case []catalog.Experience:
		for _, e := range data {
			fmt.Fprintf(h.Writer, "  %-20s %s (%s, INR %d)\n", e.ID, e.Name, e.Category, e.Price)
		}
	}
	if v.Error != "" {
		fmt.Fprintf(h.Writer, "! %s\n", v.Error)
	}
	if v.Session != nil {
		fmt.Fprintln(h.Writer, statusLine(v.Summary))
	}
	return nil
}

func (h *TextHandler) print(markdown string) {
	output := markdown
	if h.Renderer != nil {
		if rendered, err := h.Renderer(markdown); err == nil {
			output = rendered
		}
	}
	fmt.Fprintln(h.Writer, strings.TrimSpace(output))
}

func statusLine(sum domain.Summary) string {
	if sum.Submitted {
		return fmt.Sprintf("[submitted] reference %s", sum.Reference)
	}
	line := fmt.Sprintf("[%d/%d %s]", sum.Step, domain.LastStep, sum.StepLabel)
	if sum.Duration != nil {
		line += fmt.Sprintf(" %d days", *sum.Duration)
	}
	if sum.DestinationCount > 0 {
		line += fmt.Sprintf(", %d destinations", sum.DestinationCount)
	}
	if sum.ExperienceCount > 0 {
		line += fmt.Sprintf(", %d experiences, %s", sum.ExperienceCount, sum.FormattedCost)
	}
	return line
}

func (h *TextHandler) Input(ctx context.Context) (Command, error) {
	h.initPump()

	for {
		select {
		case <-ctx.Done():
			return Command{}, ctx.Err()
		default:
			fmt.Fprint(h.Writer, "> ")
		}

		select {
		case <-ctx.Done():
			return Command{}, ctx.Err()
		case res, ok := <-h.inputChan:
			if !ok {
				return Command{}, io.EOF
			}
			if res.err != nil {
				return Command{}, res.err
			}
			clean, err := runtime.SanitizeText(res.text)
			if err != nil {
				fmt.Fprintf(h.Writer, "Error: %v. Please try again.\n", err)
				continue
			}
			cmd := ParseCommand(clean)
			if cmd.Name == "" {
				continue
			}
			return cmd, nil
		}
	}
}

func (h *TextHandler) SystemOutput(ctx context.Context, msg string) error {
	fmt.Fprintf(h.Writer, "[hornbill] %s\n", msg)
	return nil
}
