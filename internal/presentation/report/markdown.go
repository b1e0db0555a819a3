// Package report renders sessions and the catalog as Markdown for terminals and HTML pages.
package report

import (
	"fmt"
	"strings"

	"github.com/aretw0/hornbill/pkg/catalog"
	"github.com/aretw0/hornbill/pkg/domain"
)

const dateLayout = "Mon, 2 Jan 2006"

// Session renders the trip so far: dates, places, experiences and cost.
func Session(s *domain.Session, sum domain.Summary, cat *catalog.Catalog) string {
	var b strings.Builder

	if sum.Submitted {
		fmt.Fprintf(&b, "# Trip plan %s\n\n", sum.Reference)
	} else {
		fmt.Fprintf(&b, "# Your Nagaland trip\n\n")
		fmt.Fprintf(&b, "Step %d of %d: **%s**\n\n", int(sum.Step), int(domain.LastStep), sum.StepLabel)
	}
	if sum.ValidationError != "" {
		fmt.Fprintf(&b, "> %s\n\n", sum.ValidationError)
	}

	b.WriteString("## Dates\n\n")
	if sum.Start != nil && sum.End != nil {
		fmt.Fprintf(&b, "%s to %s", sum.Start.Format(dateLayout), sum.End.Format(dateLayout))
		if sum.Duration != nil {
			fmt.Fprintf(&b, " (%d days)", *sum.Duration)
		}
		b.WriteString("\n")
		if sum.IsFestivalPreset {
			if p, ok := cat.Preset(s.Dates.PresetID); ok {
				fmt.Fprintf(&b, "\nFestival: **%s**\n", p.Name)
			}
		}
	} else {
		b.WriteString("_Not chosen yet._\n")
	}

	b.WriteString("\n## Destinations\n\n")
	if len(s.Destinations) == 0 {
		b.WriteString("_None selected._\n")
	}
	for _, id := range s.Destinations {
		if d, ok := cat.Destination(id); ok {
			fmt.Fprintf(&b, "- **%s** (%s, suggested stay %s)\n", d.Name, d.Region, d.SuggestedStay)
		} else {
			fmt.Fprintf(&b, "- %s\n", id)
		}
	}

	b.WriteString("\n## Experiences\n\n")
	if len(s.Experiences.IDs) == 0 {
		b.WriteString("_None selected._\n")
	} else {
		b.WriteString("| Experience | Duration | Price |\n|---|---|---|\n")
		for _, id := range s.Experiences.IDs {
			if e, ok := cat.Experience(id); ok {
				fmt.Fprintf(&b, "| %s | %s | %s %d |\n", escapeCell(e.Name), escapeCell(e.Duration), cat.BaseCurrency, e.Price)
			} else {
				fmt.Fprintf(&b, "| %s | | |\n", escapeCell(id))
			}
		}
	}

	fmt.Fprintf(&b, "\n**Estimated cost:** %s %d", sum.BaseCurrency, sum.TotalCost)
	if sum.Currency != sum.BaseCurrency {
		fmt.Fprintf(&b, " (about %s)", sum.FormattedCost)
	}
	b.WriteString("\n")

	if s.Plan != nil {
		c := s.Plan.Contact
		b.WriteString("\n## Contact\n\n")
		fmt.Fprintf(&b, "- %s, %s\n", c.Name, c.Nationality)
		fmt.Fprintf(&b, "- Travellers: %s\n", c.GroupSize)
		fmt.Fprintf(&b, "- We will reach you by %s.\n", c.PreferredContact)
		fmt.Fprintf(&b, "\nSubmitted %s.\n", s.Plan.SubmittedAt.Format(dateLayout))
	}
	return b.String()
}

// Catalog renders destinations and experiences in category, plus presets and seasons.
func Catalog(cat *catalog.Catalog, category string) string {
	var b strings.Builder
	b.WriteString("# Nagaland catalog\n")

	if dests := cat.DestinationsIn(category); len(dests) > 0 {
		b.WriteString("\n## Destinations\n\n| ID | Name | Category | Region | Stay |\n|---|---|---|---|---|\n")
		for _, d := range dests {
			fmt.Fprintf(&b, "| `%s` | %s | %s | %s | %s |\n", d.ID, escapeCell(d.Name), d.Category, escapeCell(d.Region), escapeCell(d.SuggestedStay))
		}
	}

	if exps := cat.ExperiencesIn(category); len(exps) > 0 {
		fmt.Fprintf(&b, "\n## Experiences\n\n| ID | Name | Category | Duration | Price (%s) |\n|---|---|---|---|---|\n", cat.BaseCurrency)
		for _, e := range exps {
			fmt.Fprintf(&b, "| `%s` | %s | %s | %s | %d |\n", e.ID, escapeCell(e.Name), e.Category, escapeCell(e.Duration), e.Price)
		}
	}

	if len(cat.Presets) > 0 {
		b.WriteString("\n## Festival presets\n\n")
		for _, p := range cat.Presets {
			fmt.Fprintf(&b, "- `%s` **%s**: %s to %s in %s\n", p.ID, p.Name, p.Start, p.End, p.HostDestination)
		}
	}

	if len(cat.Seasons) > 0 {
		b.WriteString("\n## When to go\n\n")
		for _, s := range cat.Seasons {
			mark := ""
			if s.Recommended {
				mark = " (recommended)"
			}
			fmt.Fprintf(&b, "- **%s**%s, %s: %s\n", s.Name, mark, s.Months, s.Description)
		}
	}
	return b.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
