package runtime_test

import (
	"context"
	"math/rand"
	"sync"
	"testing"

	"github.com/aretw0/hornbill/internal/runtime"
	"github.com/aretw0/hornbill/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdvance_Gates(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	t.Run("Dates Required", func(t *testing.T) {
		s, err := e.Advance(ctx, e.Start(ctx, "s1"))
		vErr := requireValidation(t, err, runtime.MsgDatesRequired)
		assert.Equal(t, domain.StepDates, vErr.Step)
		assert.Equal(t, domain.StepDates, s.Wizard.ActiveStep)
		assert.Equal(t, runtime.MsgDatesRequired, s.Wizard.ValidationError)
	})

	t.Run("Destinations Required", func(t *testing.T) {
		s, err := e.Advance(ctx, atStep(t, e, domain.StepDestinations))
		requireValidation(t, err, runtime.MsgDestinationRequired)
		assert.Equal(t, domain.StepDestinations, s.Wizard.ActiveStep)
	})

	t.Run("Experiences Optional", func(t *testing.T) {
		s := atStep(t, e, domain.StepExperiences)
		require.Empty(t, s.Experiences.IDs)
		s = mustOK(t)(e.Advance(ctx, s))
		assert.Equal(t, domain.StepReview, s.Wizard.ActiveStep)
	})

	t.Run("Review Submits Draft", func(t *testing.T) {
		s, err := e.Advance(ctx, atStep(t, e, domain.StepReview))
		requireValidation(t, err, "Please fill in your full name.")
		assert.False(t, s.Submitted())

		s = mustOK(t)(e.UpdateContact(ctx, s, validContact()))
		s = mustOK(t)(e.Advance(ctx, s))
		require.True(t, s.Submitted())
		assert.Equal(t, domain.StepReview, s.Wizard.ActiveStep)
	})

	t.Run("Success Clears Message", func(t *testing.T) {
		s, _ := e.Advance(ctx, e.Start(ctx, "s1"))
		require.NotEmpty(t, s.Wizard.ValidationError)
		s = mustOK(t)(e.SelectDates(ctx, s, domain.QuickDates(4)))
		assert.Empty(t, s.Wizard.ValidationError)
	})
}

func TestRetreat(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	s := atStep(t, e, domain.StepReview)
	for _, want := range []domain.Step{domain.StepExperiences, domain.StepDestinations, domain.StepDates, domain.StepDates} {
		s = mustOK(t)(e.Retreat(ctx, s))
		assert.Equal(t, want, s.Wizard.ActiveStep)
	}

	// Going back keeps what was chosen.
	assert.True(t, s.Dates.Complete())
	assert.Equal(t, []string{"kohima", "dzukou"}, s.Destinations)
}

func TestHistory(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	s := atStep(t, e, domain.StepExperiences)
	s = mustOK(t)(e.Retreat(ctx, s))
	s = mustOK(t)(e.Advance(ctx, s))

	assert.Equal(t, []domain.Step{
		domain.StepDates,
		domain.StepDestinations,
		domain.StepExperiences,
		domain.StepDestinations,
		domain.StepExperiences,
	}, s.History)
}

func TestStepStaysInRange(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	rng := rand.New(rand.NewSource(42))

	s := e.Start(ctx, "s1")
	for i := 0; i < 500; i++ {
		var next *domain.Session
		switch rng.Intn(5) {
		case 0:
			next, _ = e.Advance(ctx, s)
		case 1:
			next, _ = e.Retreat(ctx, s)
		case 2:
			next, _ = e.SelectDates(ctx, s, domain.QuickDates(rng.Intn(70)))
		case 3:
			next, _ = e.SelectDestinations(ctx, s, []string{"kohima"}[:rng.Intn(2)])
		case 4:
			next, _ = e.SelectExperiences(ctx, s, []string{"trekking"})
		}
		require.NotNil(t, next)
		step := next.Wizard.ActiveStep
		require.True(t, step >= domain.StepDates && step <= domain.StepReview, "step %d out of range", step)
		// Dates are never cleared once step 1 is passed.
		if step >= domain.StepDestinations {
			require.True(t, next.Dates.Complete())
		}
		s = next
	}
}

func TestSubmittedSessionIsTerminal(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	s := mustOK(t)(e.Submit(ctx, atStep(t, e, domain.StepReview), validContact()))

	ops := map[string]func() (*domain.Session, error){
		"Advance":            func() (*domain.Session, error) { return e.Advance(ctx, s) },
		"Retreat":            func() (*domain.Session, error) { return e.Retreat(ctx, s) },
		"SelectDates":        func() (*domain.Session, error) { return e.SelectDates(ctx, s, domain.QuickDates(4)) },
		"SelectDestinations": func() (*domain.Session, error) { return e.SelectDestinations(ctx, s, []string{"mon"}) },
		"SelectExperiences":  func() (*domain.Session, error) { return e.SelectExperiences(ctx, s, nil) },
		"SelectCurrency":     func() (*domain.Session, error) { return e.SelectCurrency(ctx, s, "EUR") },
		"UpdateContact":      func() (*domain.Session, error) { return e.UpdateContact(ctx, s, validContact()) },
		"Submit":             func() (*domain.Session, error) { return e.Submit(ctx, s, validContact()) },
	}
	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			got, err := op()
			assert.ErrorIs(t, err, domain.ErrSessionSubmitted)
			assert.Nil(t, got)
		})
	}
}

func TestNilSession(t *testing.T) {
	e := newEngine(t)
	_, err := e.Advance(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

type hookRecorder struct {
	mu      sync.Mutex
	entered []domain.Step
	left    []domain.Step
	failed  []string
	plans   []*domain.TripPlan
}

func (r *hookRecorder) hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStepEnter: func(_ context.Context, ev *domain.StepEvent) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.entered = append(r.entered, ev.Step)
		},
		OnStepLeave: func(_ context.Context, ev *domain.StepEvent) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.left = append(r.left, ev.Step)
		},
		OnValidationFailed: func(_ context.Context, ev *domain.ValidationEvent) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.failed = append(r.failed, ev.Error.Message)
		},
		OnPlanSubmitted: func(_ context.Context, ev *domain.PlanEvent) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.plans = append(r.plans, ev.Plan)
		},
	}
}

func TestLifecycleHooks(t *testing.T) {
	rec := &hookRecorder{}
	e := newEngine(t, runtime.WithLifecycleHooks(rec.hooks()))
	ctx := context.Background()

	s := e.Start(ctx, "s1")
	_, _ = e.Advance(ctx, s)
	s = mustOK(t)(e.SelectDates(ctx, s, domain.QuickDates(4)))
	s = mustOK(t)(e.Advance(ctx, s))
	s = mustOK(t)(e.Retreat(ctx, s))

	assert.Equal(t, []domain.Step{domain.StepDates, domain.StepDestinations, domain.StepDates}, rec.entered)
	assert.Equal(t, []domain.Step{domain.StepDates, domain.StepDestinations}, rec.left)
	assert.Equal(t, []string{runtime.MsgDatesRequired}, rec.failed)
	assert.Empty(t, rec.plans)
}

func TestLifecycleHooks_Merged(t *testing.T) {
	a, b := &hookRecorder{}, &hookRecorder{}
	e := newEngine(t, runtime.WithLifecycleHooks(a.hooks()), runtime.WithLifecycleHooks(b.hooks()))

	e.Start(context.Background(), "s1")

	assert.Len(t, a.entered, 1)
	assert.Len(t, b.entered, 1)
}
