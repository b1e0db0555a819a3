package runtime_test

import (
	"context"
	"testing"

	"github.com/aretw0/hornbill/internal/runtime"
	"github.com/aretw0/hornbill/pkg/catalog"
	"github.com/aretw0/hornbill/pkg/domain"
	"github.com/aretw0/hornbill/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectDestinations(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	tests := []struct {
		name string
		ids  []string
		want []string
	}{
		{"Verbatim", []string{"mon", "kohima"}, []string{"mon", "kohima"}},
		{"Deduplicated In Order", []string{"dzukou", "mon", "dzukou"}, []string{"dzukou", "mon"}},
		{"Trimmed", []string{" kohima ", "", "  "}, []string{"kohima"}},
		{"Unknown IDs Are Kept", []string{"atlantis"}, []string{"atlantis"}},
		{"Empty Clears", nil, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := mustOK(t)(e.SelectDestinations(ctx, e.Start(ctx, "s1"), tt.ids))
			assert.Equal(t, tt.want, s.Destinations)
		})
	}

	t.Run("Preset Overrides Supplied Set", func(t *testing.T) {
		s := mustOK(t)(e.SelectDates(ctx, e.Start(ctx, "s1"), domain.PresetDates("hornbill")))
		s = mustOK(t)(e.SelectDestinations(ctx, s, []string{"mon", "wokha"}))
		assert.Equal(t, []string{"kohima"}, s.Destinations)

		s = mustOK(t)(e.SelectDestinations(ctx, s, nil))
		assert.Equal(t, []string{"kohima"}, s.Destinations)
	})
}

func TestAvailableDestinations(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	s := e.Start(ctx, "s1")

	assert.Len(t, e.AvailableDestinations(s, ""), 26)
	assert.Len(t, e.AvailableDestinations(s, "City"), 16)
	assert.Len(t, e.AvailableDestinations(nil, "Nature"), 10)

	s = mustOK(t)(e.SelectDates(ctx, s, domain.PresetDates("hornbill")))
	only := e.AvailableDestinations(s, "All")
	require.Len(t, only, 1)
	assert.Equal(t, "kohima", only[0].ID)
	assert.Empty(t, e.AvailableDestinations(s, "Nature"))
}

func TestSelectExperiences(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		ids       []string
		total     int64
		converted float64
	}{
		{"None", nil, 0, 0},
		{"Two", []string{"tribal-village", "trekking"}, 5500, 66},
		{"All Six", []string{"tribal-village", "trekking", "cooking-class", "hornbill-festival", "wildlife-safari", "meditation"}, 12500, 150},
		{"Duplicates Count Once", []string{"meditation", "meditation"}, 1000, 12},
		{"Unknown Costs Nothing", []string{"meditation", "skydiving"}, 1000, 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := mustOK(t)(e.SelectExperiences(ctx, e.Start(ctx, "s1"), tt.ids))
			assert.Equal(t, tt.total, s.Experiences.TotalCost)
			assert.InDelta(t, tt.converted, s.Experiences.ConvertedCost, 1e-9)
			assert.Equal(t, "USD", s.Experiences.Currency)
		})
	}
}

func TestSelectCurrency(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	s := mustOK(t)(e.SelectExperiences(ctx, e.Start(ctx, "s1"), []string{"tribal-village", "trekking"}))

	s = mustOK(t)(e.SelectCurrency(ctx, s, "eur"))
	assert.Equal(t, "EUR", s.Experiences.Currency)
	assert.InDelta(t, 60.5, s.Experiences.ConvertedCost, 1e-9)
	assert.Equal(t, int64(5500), s.Experiences.TotalCost)

	s = mustOK(t)(e.SelectCurrency(ctx, s, "JPY"))
	assert.InDelta(t, 9790, s.Experiences.ConvertedCost, 1e-9)

	bad, err := e.SelectCurrency(ctx, s, "XYZ")
	requireValidation(t, err, runtime.MsgUnsupportedCurrency)
	assert.Equal(t, "JPY", bad.Experiences.Currency)
	assert.Equal(t, runtime.MsgUnsupportedCurrency, bad.Wizard.ValidationError)

	// The next successful mutation clears the message.
	ok := mustOK(t)(e.SelectExperiences(ctx, bad, []string{"meditation"}))
	assert.Empty(t, ok.Wizard.ValidationError)
}

func TestConvertedCost_IsRoundedProductForEveryCurrency(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	cat := e.Catalog()

	s := mustOK(t)(e.SelectExperiences(ctx, e.Start(ctx, "s1"), []string{"cooking-class", "wildlife-safari", "meditation"}))
	for _, cur := range cat.Currencies {
		t.Run(cur.Code, func(t *testing.T) {
			got := mustOK(t)(e.SelectCurrency(ctx, s, cur.Code))
			assert.Equal(t, catalog.Round2(float64(got.Experiences.TotalCost)*cur.Rate), got.Experiences.ConvertedCost)
		})
	}
}

func TestSummary_FormattedCost(t *testing.T) {
	e := runtime.NewEngine(testCatalog(t), runtime.WithClock(ports.FixedClock(now)))
	ctx := context.Background()

	s := mustOK(t)(e.SelectExperiences(ctx, e.Start(ctx, "s1"), []string{"village", "retreat"}))
	sum := e.Summary(s)

	assert.Equal(t, int64(3000), sum.TotalCost)
	assert.Equal(t, 30.0, sum.ConvertedCost)
	assert.Contains(t, sum.FormattedCost, "30.00")
	assert.Equal(t, "INR", sum.BaseCurrency)
	assert.Equal(t, "USD", sum.Currency)
	assert.Equal(t, 2, sum.ExperienceCount)
}

func TestSummary(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	s := e.Start(ctx, "s1")
	s = mustOK(t)(e.SelectDates(ctx, s, domain.PresetDates("hornbill")))
	s = mustOK(t)(e.SelectExperiences(ctx, s, []string{"hornbill-festival"}))

	sum := e.Summary(s)
	assert.Equal(t, domain.StepDates, sum.Step)
	assert.Equal(t, "Choose Dates", sum.StepLabel)
	assert.True(t, sum.IsFestivalPreset)
	require.NotNil(t, sum.Duration)
	assert.Equal(t, 10, *sum.Duration)
	assert.Equal(t, 1, sum.DestinationCount)
	assert.Equal(t, 1, sum.ExperienceCount)
	assert.Equal(t, int64(2500), sum.TotalCost)
	assert.False(t, sum.Submitted)

	// Summary is a copy; editing it leaves the session alone.
	*sum.Duration = 99
	assert.Equal(t, 10, *s.Dates.Duration)
}
