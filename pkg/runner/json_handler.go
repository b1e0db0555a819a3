package runner

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// JSONHandler implements the IOHandler interface for structured JSON-Lines communication.
// Each input line is either a Command object or a plain command string.
type JSONHandler struct {
	Reader  *bufio.Reader
	Writer  io.Writer
	Encoder *json.Encoder
}

// NewJSONHandler creates a handler for JSON IO.
func NewJSONHandler(r io.Reader, w io.Writer) *JSONHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	return &JSONHandler{
		Reader:  bufio.NewReader(r),
		Writer:  w,
		Encoder: json.NewEncoder(w),
	}
}

func (h *JSONHandler) Output(ctx context.Context, v View) error {
	return h.Encoder.Encode(v)
}

func (h *JSONHandler) Input(ctx context.Context) (Command, error) {
	for {
		if err := ctx.Err(); err != nil {
			return Command{}, err
		}
		text, err := h.Reader.ReadString('\n')
		text = strings.TrimSpace(text)
		if text == "" {
			if err != nil {
				return Command{}, err
			}
			continue
		}

		if strings.HasPrefix(text, "{") {
			var cmd Command
			if jsonErr := json.Unmarshal([]byte(text), &cmd); jsonErr != nil {
				return Command{}, fmt.Errorf("%w: %w", ErrUsage, jsonErr)
			}
			cmd.Name = strings.ToLower(cmd.Name)
			return cmd, nil
		}

		// A JSON string or a raw line.
		var line string
		if jsonErr := json.Unmarshal([]byte(text), &line); jsonErr == nil {
			text = line
		}
		return ParseCommand(text), nil
	}
}

func (h *JSONHandler) SystemOutput(ctx context.Context, msg string) error {
	return h.Encoder.Encode(map[string]string{"system": msg})
}
