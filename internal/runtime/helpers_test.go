package runtime_test

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/hornbill/internal/runtime"
	"github.com/aretw0/hornbill/pkg/catalog"
	"github.com/aretw0/hornbill/pkg/domain"
	"github.com/aretw0/hornbill/pkg/ports"
	"github.com/stretchr/testify/require"
)

// now is a month before the 2025 Hornbill Festival.
var now = time.Date(2025, 11, 1, 10, 0, 0, 0, time.UTC)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newEngine(t *testing.T, opts ...runtime.Option) *runtime.Engine {
	t.Helper()
	base := []runtime.Option{
		runtime.WithClock(ports.FixedClock(now)),
		runtime.WithReferenceGenerator(func(time.Time) string { return "REF-1" }),
	}
	return runtime.NewEngine(catalog.Default(), append(base, opts...)...)
}

// mustOK fails the test on any error from the wrapped engine call.
func mustOK(t *testing.T) func(*domain.Session, error) *domain.Session {
	t.Helper()
	return func(s *domain.Session, err error) *domain.Session {
		t.Helper()
		require.NoError(t, err)
		require.NotNil(t, s)
		return s
	}
}

// atStep drives a fresh session to step through the happy path.
func atStep(t *testing.T, e *runtime.Engine, step domain.Step) *domain.Session {
	t.Helper()
	ctx := context.Background()
	s := e.Start(ctx, "s1")
	if step >= domain.StepDestinations {
		s = mustOK(t)(e.SelectDates(ctx, s, domain.QuickDates(7)))
		s = mustOK(t)(e.Advance(ctx, s))
	}
	if step >= domain.StepExperiences {
		s = mustOK(t)(e.SelectDestinations(ctx, s, []string{"kohima", "dzukou"}))
		s = mustOK(t)(e.Advance(ctx, s))
	}
	if step >= domain.StepReview {
		s = mustOK(t)(e.Advance(ctx, s))
	}
	require.Equal(t, step, s.Wizard.ActiveStep)
	return s
}

func validContact() domain.ContactDetails {
	return domain.ContactDetails{
		Name:             "Asha Rao",
		Email:            "asha@example.com",
		Phone:            "+91 98765 43210",
		Nationality:      "Indian",
		PreferredContact: domain.ContactWhatsApp,
		GroupSize:        "2",
	}
}

func requireValidation(t *testing.T, err error, message string) *domain.ValidationError {
	t.Helper()
	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Equal(t, message, vErr.Message)
	return vErr
}

const testCatalogYAML = `
max_trip_days: 30
destination_categories: [All, City]
experience_categories: [All, Cultural, Wellness]
destinations:
  - {id: kohima, name: Kohima, category: City}
  - {id: mon, name: Mon, category: City}
experiences:
  - {id: village, name: Village, category: Cultural, price: 2000}
  - {id: retreat, name: Retreat, category: Wellness, price: 1000}
currencies:
  - {code: USD, name: US Dollar, rate: 0.01}
presets:
  - {id: gone, name: Gone, host_destination: mon, start: "2024-12-01", end: "2024-12-03"}
  - {id: soon, name: Soon, host_destination: mon, start: "2025-11-20", end: "2025-11-22"}
`

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Parse([]byte(testCatalogYAML), ".yaml")
	require.NoError(t, err)
	require.NoError(t, c.Validate())
	return c
}
