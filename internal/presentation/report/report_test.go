package report_test

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/hornbill/internal/presentation/report"
	"github.com/aretw0/hornbill/internal/runtime"
	"github.com/aretw0/hornbill/pkg/catalog"
	"github.com/aretw0/hornbill/pkg/domain"
	"github.com/aretw0/hornbill/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 11, 1, 10, 0, 0, 0, time.UTC)

func planned(t *testing.T) (*runtime.Engine, *domain.Session) {
	t.Helper()
	ctx := context.Background()
	e := runtime.NewEngine(catalog.Default(), runtime.WithClock(ports.FixedClock(now)))

	s := e.Start(ctx, "s1")
	s, err := e.SelectDates(ctx, s, domain.PresetDates("hornbill"))
	require.NoError(t, err)
	s, err = e.SelectExperiences(ctx, s, []string{"hornbill-festival", "trekking"})
	require.NoError(t, err)
	s, err = e.SelectCurrency(ctx, s, "EUR")
	require.NoError(t, err)
	return e, s
}

func TestSession(t *testing.T) {
	e, s := planned(t)
	got := report.Session(s, e.Summary(s), e.Catalog())

	assert.Contains(t, got, "# Your Nagaland trip")
	assert.Contains(t, got, "Step 1 of 4: **Choose Dates**")
	assert.Contains(t, got, "Mon, 1 Dec 2025 to Wed, 10 Dec 2025 (10 days)")
	assert.Contains(t, got, "Festival: **Hornbill Festival**")
	assert.Contains(t, got, "- **Kohima** (Central Nagaland")
	assert.Contains(t, got, "| Dzukou Valley Trek |")
	assert.Contains(t, got, "**Estimated cost:** INR 6000")
	assert.Contains(t, got, "66.00")
	assert.NotContains(t, got, "## Contact")
}

func TestSession_Empty(t *testing.T) {
	e := runtime.NewEngine(nil, runtime.WithClock(ports.FixedClock(now)))
	s := e.Start(context.Background(), "s1")
	got := report.Session(s, e.Summary(s), e.Catalog())

	assert.Contains(t, got, "_Not chosen yet._")
	assert.Contains(t, got, "_None selected._")
	assert.Contains(t, got, "**Estimated cost:** INR 0 (about")
}

func TestCatalog(t *testing.T) {
	cat := catalog.Default()

	all := report.Catalog(cat, "")
	assert.Contains(t, all, "| `kohima` | Kohima | City |")
	assert.Contains(t, all, "| `meditation` |")
	assert.Contains(t, all, "`hornbill` **Hornbill Festival**")
	assert.Contains(t, all, "## When to go")

	nature := report.Catalog(cat, "Nature")
	assert.NotContains(t, nature, "`kohima`")
	assert.Contains(t, nature, "`wildlife-safari`")
	assert.NotContains(t, nature, "`meditation`")
}

func TestPage_SanitizesMarkup(t *testing.T) {
	out, err := report.Page("Trip", "# Title\n\n<script>alert(1)</script>\n\n| a | b |\n|---|---|\n| 1 | 2 |\n")
	require.NoError(t, err)

	html := string(out)
	assert.Contains(t, html, "<title>Trip</title>")
	assert.Contains(t, html, "<h1")
	assert.Contains(t, html, "<table>")
	assert.NotContains(t, html, "<script>")
}
