package runner_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/hornbill"
	"github.com/aretw0/hornbill/pkg/domain"
	"github.com/aretw0/hornbill/pkg/ports"
	"github.com/aretw0/hornbill/pkg/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPlanner(t *testing.T) *hornbill.Planner {
	t.Helper()
	p, err := hornbill.New(
		hornbill.WithClock(ports.FixedClock(time.Date(2025, 11, 1, 10, 0, 0, 0, time.UTC))),
		hornbill.WithIDGenerator(func() string { return "trip-1" }),
	)
	require.NoError(t, err)
	return p
}

func run(t *testing.T, r *runner.Runner) (*domain.Session, error) {
	t.Helper()
	type result struct {
		s   *domain.Session
		err error
	}
	done := make(chan result)
	go func() {
		s, err := r.Run(t.Context())
		done <- result{s, err}
	}()

	select {
	case res := <-done:
		return res.s, res.err
	case <-time.After(2 * time.Second):
		t.Fatal("Runner timed out")
		return nil, nil
	}
}

func TestRunner_TextFlow(t *testing.T) {
	p := newPlanner(t)
	input := strings.Join([]string{
		"next",
		"dates preset hornbill",
		"next",
		"destinations mon",
		"next",
		"experiences tribal-village,hornbill-festival",
		"next",
		"set name Asha Rao",
		"set email asha@example.com",
		"set phone +91 98765 43210",
		"set nationality Indian",
		"set preferred-contact whatsapp",
		"set group_size 4",
		"submit",
	}, "\n") + "\n"
	out := &bytes.Buffer{}

	r := runner.NewRunner(p, runner.WithInputHandler(runner.NewTextHandler(strings.NewReader(input), out)))
	s, err := run(t, r)
	require.NoError(t, err)

	require.True(t, s.Submitted())
	assert.Equal(t, []string{"kohima"}, s.Plan.Destinations)
	assert.Equal(t, "whatsapp", s.Plan.Contact.PreferredContact)
	assert.Equal(t, "+91 98765 43210", s.Plan.Contact.Phone)

	text := out.String()
	assert.Contains(t, text, "Session trip-1 started")
	assert.Contains(t, text, "! Please select your travel dates before proceeding.")
	assert.Contains(t, text, "Hornbill Festival")
	assert.Contains(t, text, "[submitted] reference "+s.Plan.Reference)
}

func TestRunner_UsageErrorsKeepGoing(t *testing.T) {
	p := newPlanner(t)
	input := "fly away\nset shoe_size 42\ndates quick many\ndates preset carnival\ncurrency XYZ\nquit\n"
	out := &bytes.Buffer{}

	r := runner.NewRunner(p, runner.WithInputHandler(runner.NewTextHandler(strings.NewReader(input), out)))
	s, err := run(t, r)
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, `unknown command "fly"`)
	assert.Contains(t, text, `unknown contact field "shoe_size"`)
	assert.Contains(t, text, `"many" is not a number of days`)
	assert.Contains(t, text, "carnival")
	assert.Contains(t, text, "! Please choose one of the supported currencies.")
	assert.Contains(t, text, "Progress saved")
	assert.Equal(t, domain.StepDates, s.Wizard.ActiveStep)
}

func TestRunner_ResumesSession(t *testing.T) {
	p := newPlanner(t)
	ctx := context.Background()
	_, err := p.StartWithID(ctx, "saved")
	require.NoError(t, err)
	_, err = p.SelectDates(ctx, "saved", domain.QuickDates(7))
	require.NoError(t, err)

	out := &bytes.Buffer{}
	r := runner.NewRunner(p,
		runner.WithSessionID("saved"),
		runner.WithInputHandler(runner.NewTextHandler(strings.NewReader("next\n"), out)),
	)
	s, err := run(t, r)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "Resuming session saved.")
	assert.Equal(t, domain.StepDestinations, s.Wizard.ActiveStep)

	stored, err := p.Get(ctx, "saved")
	require.NoError(t, err)
	assert.Equal(t, domain.StepDestinations, stored.Wizard.ActiveStep)
}

func TestRunner_StartsNamedSession(t *testing.T) {
	p := newPlanner(t)
	out := &bytes.Buffer{}
	r := runner.NewRunner(p,
		runner.WithSessionID("fresh"),
		runner.WithInputHandler(runner.NewTextHandler(strings.NewReader(""), out)),
	)
	s, err := run(t, r)
	require.NoError(t, err)
	assert.Equal(t, "fresh", s.ID)
	assert.Contains(t, out.String(), "Session fresh started")
}

func TestRunner_JSONLines(t *testing.T) {
	p := newPlanner(t)
	input := strings.Join([]string{
		`{"cmd":"dates","args":["quick","4"]}`,
		`"next"`,
		`list destinations Nature`,
		`{"cmd":"advance"}`,
	}, "\n") + "\n"
	out := &bytes.Buffer{}

	r := runner.NewRunner(p, runner.WithInputHandler(runner.NewJSONHandler(strings.NewReader(input), out)))
	s, err := run(t, r)
	require.NoError(t, err)
	assert.Equal(t, domain.StepDestinations, s.Wizard.ActiveStep)

	var views []map[string]any
	dec := json.NewDecoder(out)
	for dec.More() {
		var v map[string]any
		require.NoError(t, dec.Decode(&v))
		views = append(views, v)
	}
	// system, initial, dates, next, list, advance
	require.Len(t, views, 6)
	assert.Contains(t, views[0]["system"], "trip-1")
	assert.NotEmpty(t, views[1]["report"])
	assert.Len(t, views[4]["data"], 10)
	assert.Equal(t, "Please select at least one destination before proceeding.", views[5]["error"])
}

func TestRunner_StopsOnCancel(t *testing.T) {
	p := newPlanner(t)
	pr, pw := io.Pipe()
	defer pw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	r := runner.NewRunner(p, runner.WithInputHandler(runner.NewTextHandler(pr, &bytes.Buffer{})))

	done := make(chan error)
	go func() {
		_, err := r.Run(ctx)
		done <- err
	}()
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Runner did not stop")
	}
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		line string
		want runner.Command
	}{
		{"", runner.Command{}},
		{"NEXT", runner.Command{Name: "next", Args: []string{}}},
		{"  dates   preset hornbill ", runner.Command{Name: "dates", Args: []string{"preset", "hornbill"}}},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, runner.ParseCommand(tt.line))
		})
	}
}
